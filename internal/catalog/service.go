package catalog

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/varoOP/animecatalog/internal/domain"
	"github.com/varoOP/animecatalog/internal/validation"
	"golang.org/x/text/cases"
)

type Service interface {
	Load(ctx context.Context) error
	Save(ctx context.Context) error
	List(ctx context.Context) []domain.Anime
	FindByID(ctx context.Context, id int) (domain.Anime, error)
	FindByTitle(ctx context.Context, query string) []domain.Anime
	Filter(ctx context.Context, filter domain.AnimeFilter) []domain.Anime
	Append(ctx context.Context, input domain.AnimeInput) (domain.Anime, error)
	Stats(ctx context.Context) domain.Statistics
}

type service struct {
	log       zerolog.Logger
	repo      domain.CatalogRepository
	path      domain.CatalogPath
	validator *validation.Validator

	// mu guards anime. Append holds it across the id computation, the
	// append and the file write.
	mu    sync.RWMutex
	anime []domain.Anime
}

func NewService(log zerolog.Logger, repo domain.CatalogRepository, path domain.CatalogPath) Service {
	return &service{
		log:       log.With().Str("module", "catalog").Logger(),
		repo:      repo,
		path:      path,
		validator: validation.New(),
		anime:     []domain.Anime{},
	}
}

// Load replaces the in-memory catalog with the persisted document.
func (s *service) Load(ctx context.Context) error {
	anime, err := s.repo.Get(ctx, s.path)
	if err != nil {
		return errors.Wrap(err, "failed to load catalog")
	}
	if anime == nil {
		anime = []domain.Anime{}
	}

	s.mu.Lock()
	s.anime = anime
	s.mu.Unlock()

	s.log.Debug().Str("path", string(s.path)).Int("count", len(anime)).Msg("catalog loaded")
	return nil
}

// Save writes the in-memory catalog back to the document.
func (s *service) Save(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.repo.Store(ctx, s.path, s.anime); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrPersist, err)
	}
	return nil
}

func (s *service) List(ctx context.Context) []domain.Anime {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return cloneAll(s.anime)
}

func (s *service) FindByID(ctx context.Context, id int) (domain.Anime, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.anime {
		if a.ID == id {
			return clone(a), nil
		}
	}
	return domain.Anime{}, errors.Wrapf(domain.ErrAnimeNotFound, "id %d", id)
}

// FindByTitle returns every anime whose title contains query, ignoring case.
func (s *service) FindByTitle(ctx context.Context, query string) []domain.Anime {
	q := fold(query)

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []domain.Anime{}
	for _, a := range s.anime {
		if strings.Contains(fold(a.Title), q) {
			out = append(out, clone(a))
		}
	}
	return out
}

// Filter keeps the anime matching every filter that is set. A year that
// does not start with digits matches nothing.
func (s *service) Filter(ctx context.Context, filter domain.AnimeFilter) []domain.Anime {
	var (
		genre, season string
		year          int
		yearOK        bool
	)
	if filter.Genre != nil {
		genre = fold(*filter.Genre)
	}
	if filter.Season != nil {
		season = fold(*filter.Season)
	}
	if filter.Year != nil {
		year, yearOK = domain.ParseLeadingInt(*filter.Year)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []domain.Anime{}
	for _, a := range s.anime {
		if filter.Genre != nil && !hasGenre(a, genre) {
			continue
		}
		if filter.Season != nil && fold(a.Season) != season {
			continue
		}
		if filter.Year != nil && (!yearOK || a.Year != year) {
			continue
		}
		out = append(out, clone(a))
	}
	return out
}

// Append validates input, assigns the next id and persists the catalog.
// When the write fails the anime stays in memory and the returned error
// wraps domain.ErrPersist.
func (s *service) Append(ctx context.Context, input domain.AnimeInput) (domain.Anime, error) {
	if err := s.validator.Validate(input); err != nil {
		return domain.Anime{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	anime := input.ToAnime(nextID(s.anime))
	anime.Genres = slices.Clone(anime.Genres)
	s.anime = append(s.anime, anime)

	if err := s.repo.Store(ctx, s.path, s.anime); err != nil {
		s.log.Error().Err(err).Int("id", anime.ID).Msg("anime kept in memory but catalog write failed")
		return clone(anime), fmt.Errorf("%w: %w", domain.ErrPersist, err)
	}

	s.log.Info().Int("id", anime.ID).Str("title", anime.Title).Msg("anime added")
	return clone(anime), nil
}

func (s *service) Stats(ctx context.Context) domain.Statistics {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return calculateStatistics(s.anime)
}

func nextID(anime []domain.Anime) int {
	highest := 0
	for _, a := range anime {
		if a.ID > highest {
			highest = a.ID
		}
	}
	return highest + 1
}

func hasGenre(a domain.Anime, folded string) bool {
	for _, g := range a.Genres {
		if fold(g) == folded {
			return true
		}
	}
	return false
}

// fold applies Unicode case folding. A Caser keeps state, so one is built
// per call.
func fold(s string) string {
	return cases.Fold().String(s)
}

func clone(a domain.Anime) domain.Anime {
	a.Genres = slices.Clone(a.Genres)
	return a
}

func cloneAll(anime []domain.Anime) []domain.Anime {
	out := make([]domain.Anime, len(anime))
	for i, a := range anime {
		out[i] = clone(a)
	}
	return out
}
