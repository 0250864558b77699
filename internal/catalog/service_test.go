package catalog

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/varoOP/animecatalog/internal/domain"
	"github.com/varoOP/animecatalog/internal/repository"
)

// memoryRepo is a CatalogRepository that keeps the last stored slice and can
// be told to fail writes.
type memoryRepo struct {
	mu       sync.Mutex
	data     []domain.Anime
	stores   int
	storeErr error
}

func (r *memoryRepo) Get(ctx context.Context, path domain.CatalogPath) ([]domain.Anime, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return cloneAll(r.data), nil
}

func (r *memoryRepo) Store(ctx context.Context, path domain.CatalogPath, anime []domain.Anime) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.storeErr != nil {
		return r.storeErr
	}
	r.stores++
	r.data = cloneAll(anime)
	return nil
}

func seed() []domain.Anime {
	return []domain.Anime{
		{ID: 1, Title: "Naruto", Genres: []string{"Ação", "Aventura"}, Season: "Outono", Year: 2002, Rating: 8},
		{ID: 4, Title: "Naruto Shippuden", Genres: []string{"Ação"}, Season: "Inverno", Year: 2007, Rating: 8.6},
		{ID: 2, Title: "Kaguya-sama: Love is War", Genres: []string{"Comédia", "Romance"}, Season: "Inverno", Year: 2019, Rating: 8.4},
		{ID: 3, Title: "Spy x Family", Genres: []string{"comédia", "Ação"}, Season: "Primavera", Year: 2022, Rating: 8.6},
		{ID: 5, Title: "Kaguya-sama: Love is War? ", Genres: []string{"Comédia"}, Season: "Primavera", Year: 2020, Rating: 8.8},
	}
}

func newTestService(t *testing.T, data []domain.Anime) (Service, *memoryRepo) {
	t.Helper()
	repo := &memoryRepo{data: data}
	svc := NewService(zerolog.Nop(), repo, "animes.json")
	require.NoError(t, svc.Load(context.Background()))
	return svc, repo
}

func ids(anime []domain.Anime) []int {
	out := make([]int, 0, len(anime))
	for _, a := range anime {
		out = append(out, a.ID)
	}
	return out
}

func strPtr(s string) *string { return &s }

func TestService_List(t *testing.T) {
	svc, _ := newTestService(t, seed())

	got := svc.List(context.Background())
	assert.Equal(t, []int{1, 4, 2, 3, 5}, ids(got))

	// callers cannot mutate the catalog through the returned slice
	got[0].Title = "changed"
	got[0].Genres[0] = "changed"
	again := svc.List(context.Background())
	assert.Equal(t, "Naruto", again[0].Title)
	assert.Equal(t, "Ação", again[0].Genres[0])
}

func TestService_FindByID(t *testing.T) {
	svc, _ := newTestService(t, seed())
	ctx := context.Background()

	a, err := svc.FindByID(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "Spy x Family", a.Title)

	_, err = svc.FindByID(ctx, 9999)
	assert.ErrorIs(t, err, domain.ErrAnimeNotFound)

	_, err = svc.FindByID(ctx, 0)
	assert.ErrorIs(t, err, domain.ErrAnimeNotFound)
}

func TestService_FindByTitle(t *testing.T) {
	svc, _ := newTestService(t, seed())
	ctx := context.Background()

	assert.Equal(t, []int{1, 4}, ids(svc.FindByTitle(ctx, "naruto")))
	assert.Equal(t, []int{4}, ids(svc.FindByTitle(ctx, "SHIPPUDEN")))
	assert.Equal(t, []int{2, 5}, ids(svc.FindByTitle(ctx, "love is")))
	assert.Empty(t, svc.FindByTitle(ctx, "bleach"))
	assert.NotNil(t, svc.FindByTitle(ctx, "bleach"))
}

func TestService_Filter(t *testing.T) {
	svc, _ := newTestService(t, seed())
	ctx := context.Background()

	tests := []struct {
		name   string
		filter domain.AnimeFilter
		want   []int
	}{
		{"no filters", domain.AnimeFilter{}, []int{1, 4, 2, 3, 5}},
		{"genre any case", domain.AnimeFilter{Genre: strPtr("COMÉDIA")}, []int{2, 3, 5}},
		{"season", domain.AnimeFilter{Season: strPtr("inverno")}, []int{4, 2}},
		{"year", domain.AnimeFilter{Year: strPtr("2022")}, []int{3}},
		{"genre and year", domain.AnimeFilter{Genre: strPtr("Comédia"), Year: strPtr("2020")}, []int{5}},
		{"genre and season", domain.AnimeFilter{Genre: strPtr("ação"), Season: strPtr("Primavera")}, []int{3}},
		{"year with trailing text", domain.AnimeFilter{Year: strPtr("2002abc")}, []int{1}},
		{"year not numeric", domain.AnimeFilter{Year: strPtr("abc")}, []int{}},
		{"no match", domain.AnimeFilter{Genre: strPtr("Terror")}, []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(svc.Filter(ctx, tt.filter)))
		})
	}
}

func TestService_ReadsAreIdempotent(t *testing.T) {
	svc, _ := newTestService(t, seed())
	ctx := context.Background()
	filter := domain.AnimeFilter{Genre: strPtr("comédia")}

	assert.Equal(t, svc.List(ctx), svc.List(ctx))
	assert.Equal(t, svc.FindByTitle(ctx, "kaguya"), svc.FindByTitle(ctx, "kaguya"))
	assert.Equal(t, svc.Filter(ctx, filter), svc.Filter(ctx, filter))
}

func TestService_AppendOnEmptyCatalog(t *testing.T) {
	svc, repo := newTestService(t, nil)

	a, err := svc.Append(context.Background(), domain.AnimeInput{
		Title:  "Bleach",
		Genres: []string{"Ação"},
		Year:   "2004",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.Anime{
		ID:            1,
		Title:         "Bleach",
		OriginalTitle: "",
		Genres:        []string{"Ação"},
		Season:        "Não especificada",
		Year:          2004,
		Episodes:      0,
		Status:        "Em andamento",
		Synopsis:      "Sem sinopse",
		Rating:        0,
		Studio:        "Desconhecido",
	}, a)
	assert.Equal(t, []domain.Anime{a}, repo.data)
}

func TestService_AppendAssignsMaxPlusOne(t *testing.T) {
	svc, repo := newTestService(t, seed())
	ctx := context.Background()

	for i, want := range []int{6, 7, 8} {
		a, err := svc.Append(ctx, domain.AnimeInput{
			Title:    "Novo",
			Genres:   []string{"Drama"},
			Year:     "2024",
			Episodes: "12",
			Rating:   "7.5",
		})
		require.NoError(t, err)
		assert.Equal(t, want, a.ID)
		assert.Equal(t, 12, a.Episodes)
		assert.Equal(t, 7.5, a.Rating)
		assert.Equal(t, 5+i+1, len(svc.List(ctx)))
	}

	assert.Equal(t, []int{1, 4, 2, 3, 5, 6, 7, 8}, ids(svc.List(ctx)))
	assert.Equal(t, 3, repo.stores)
	assert.Equal(t, svc.List(ctx), repo.data)
}

func TestService_AppendCoercesNumbers(t *testing.T) {
	svc, _ := newTestService(t, nil)

	a, err := svc.Append(context.Background(), domain.AnimeInput{
		Title:         "Frieren",
		OriginalTitle: "Sousou no Frieren",
		Genres:        []string{"Fantasia"},
		Season:        "Outono",
		Year:          "2023.7",
		Episodes:      "vinte",
		Status:        "Finalizado",
		Synopsis:      "Uma elfa.",
		Rating:        "9.1 pontos",
		Studio:        "Madhouse",
	})
	require.NoError(t, err)

	assert.Equal(t, 2023, a.Year)
	assert.Equal(t, 0, a.Episodes)
	assert.Equal(t, 9.1, a.Rating)
	assert.Equal(t, "Sousou no Frieren", a.OriginalTitle)
	assert.Equal(t, "Outono", a.Season)
	assert.Equal(t, "Finalizado", a.Status)
	assert.Equal(t, "Uma elfa.", a.Synopsis)
	assert.Equal(t, "Madhouse", a.Studio)
}

func TestService_AppendInvalidYearTextCoercesToZero(t *testing.T) {
	svc, repo := newTestService(t, nil)

	a, err := svc.Append(context.Background(), domain.AnimeInput{
		Title:    "Sem data",
		Genres:   []string{"Drama"},
		Year:     "em breve",
		Episodes: "true",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, a.ID)
	assert.Equal(t, 0, a.Year)
	assert.Equal(t, 0, a.Episodes)
	assert.Equal(t, 1, repo.stores)
}

func TestService_AppendValidation(t *testing.T) {
	svc, repo := newTestService(t, seed())
	ctx := context.Background()

	_, err := svc.Append(ctx, domain.AnimeInput{Title: "Sem gênero", Year: "2020"})

	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields, "generos")
	assert.Len(t, svc.List(ctx), 5)
	assert.Equal(t, 0, repo.stores)
}

func TestService_AppendPersistFailureKeepsAnime(t *testing.T) {
	svc, repo := newTestService(t, seed())
	ctx := context.Background()
	repo.storeErr = errors.New("disk full")

	a, err := svc.Append(ctx, domain.AnimeInput{Title: "Bleach", Genres: []string{"Ação"}, Year: "2004"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrPersist)
	assert.ErrorContains(t, err, "disk full")
	assert.Equal(t, 6, a.ID)

	got, err := svc.FindByID(ctx, 6)
	require.NoError(t, err)
	assert.Equal(t, "Bleach", got.Title)

	// the next successful write closes the gap
	repo.storeErr = nil
	_, err = svc.Append(ctx, domain.AnimeInput{Title: "Monster", Genres: []string{"Suspense"}, Year: "2004"})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 4, 2, 3, 5, 6, 7}, ids(repo.data))
}

func TestService_ConcurrentAppendsGetUniqueIDs(t *testing.T) {
	svc, repo := newTestService(t, nil)
	ctx := context.Background()

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Append(ctx, domain.AnimeInput{Title: "x", Genres: []string{"y"}, Year: "2000"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	seen := make(map[int]bool)
	for _, a := range svc.List(ctx) {
		assert.False(t, seen[a.ID], "duplicate id %d", a.ID)
		seen[a.ID] = true
	}
	assert.Len(t, seen, n)
	assert.Len(t, repo.data, n)
}

func TestService_LoadFromFile(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "animes.json")
	fileRepo := repository.NewFileRepository(zerolog.Nop())

	svc := NewService(zerolog.Nop(), fileRepo, domain.CatalogPath(path))
	assert.Error(t, svc.Load(ctx), "missing document must fail")

	require.NoError(t, os.WriteFile(path, []byte("[{\"id\": 1, \"titulo\": \"Naruto\", \"generos\": [\"Ação\"], \"ano\": 2002}]"), 0644))
	require.NoError(t, svc.Load(ctx))

	a, err := svc.Append(ctx, domain.AnimeInput{Title: "Bleach", Genres: []string{"Ação"}, Year: "2004"})
	require.NoError(t, err)
	assert.Equal(t, 2, a.ID)

	reloaded := NewService(zerolog.Nop(), fileRepo, domain.CatalogPath(path))
	require.NoError(t, reloaded.Load(ctx))
	assert.Equal(t, svc.List(ctx), reloaded.List(ctx))

	require.NoError(t, os.WriteFile(path, []byte("not json"), 0644))
	assert.Error(t, reloaded.Load(ctx))
}

func TestService_Stats(t *testing.T) {
	svc, _ := newTestService(t, seed())

	stats := svc.Stats(context.Background())
	assert.Equal(t, 5, stats.Total)
	assert.Equal(t, 5, stats.MaxID)
	assert.Equal(t, 3, stats.ByGenre["Ação"])
	assert.Equal(t, 2, stats.ByGenre["Comédia"])
	assert.Equal(t, 1, stats.ByGenre["comédia"])
	assert.Equal(t, 2, stats.BySeason["Inverno"])
	assert.Equal(t, 1, stats.ByYear[2022])
	assert.InDelta(t, 8.48, stats.AverageRating, 0.0001)

	empty, _ := newTestService(t, nil)
	assert.Equal(t, 0.0, empty.Stats(context.Background()).AverageRating)
}
