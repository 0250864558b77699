package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"
	"github.com/varoOP/animecatalog/internal/domain"
)

const maxBodyBytes = 1 << 20

const (
	msgNameRequired   = `Parâmetro "nome" é obrigatório`
	msgAnimeNotFound  = "Anime não encontrado"
	msgRouteNotFound  = "Rota não encontrada"
	msgFieldsRequired = "Título, gêneros e ano são obrigatórios"
	msgInvalidBody    = "Corpo JSON inválido"
	msgSaveFailed     = "Erro ao salvar anime"
	msgAnimeAdded     = "Anime adicionado com sucesso!"
	msgWelcome        = "Bem-vindo à API de Animes! 🎌"
)

type indexResponse struct {
	Message   string            `json:"message"`
	Endpoints map[string]string `json:"endpoints"`
}

type listResponse struct {
	Total  int            `json:"total"`
	Animes []domain.Anime `json:"animes"`
}

type searchResponse struct {
	Query  string         `json:"busca"`
	Total  int            `json:"total"`
	Animes []domain.Anime `json:"animes"`
}

type filterResponse struct {
	Filters map[string]string `json:"filtros"`
	Total   int               `json:"total"`
	Animes  []domain.Anime    `json:"animes"`
}

type createResponse struct {
	Message string       `json:"mensagem"`
	Anime   domain.Anime `json:"anime"`
}

type healthResponse struct {
	Status string `json:"status"`
	Total  int    `json:"total"`
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	p := s.opts.Prefix
	writeJSON(w, r, http.StatusOK, indexResponse{
		Message: msgWelcome,
		Endpoints: map[string]string{
			"GET " + p + "/animes":                                "Lista todos os animes",
			"GET " + p + "/animes/:id":                            "Busca anime por ID",
			"GET " + p + "/animes/search?nome=":                   "Busca animes por nome",
			"GET " + p + "/animes/filter?genero=&temporada=&ano=": "Filtra animes",
			"GET " + p + "/animes/stats":                          "Estatísticas do catálogo",
			"POST " + p + "/animes":                               "Adiciona um novo anime",
		},
	})
}

// handleStatic serves files from the static directory. The root falls back
// to the JSON index when there is no index.html, anything else missing is
// a route not found.
func (s *Server) handleStatic(w http.ResponseWriter, r *http.Request) {
	name := path.Clean("/" + chi.URLParam(r, "*"))
	full := filepath.Join(s.opts.StaticDir, filepath.FromSlash(name))

	info, err := os.Stat(full)
	if err == nil && info.IsDir() {
		full = filepath.Join(full, "index.html")
		info, err = os.Stat(full)
	}
	if err != nil || info.IsDir() {
		if name == "/" {
			s.handleIndex(w, r)
			return
		}
		s.handleNotFound(w, r)
		return
	}

	http.ServeFile(w, r, full)
}

func (s *Server) handleListAnimes(w http.ResponseWriter, r *http.Request) {
	animes := s.catalog.List(r.Context())
	writeJSON(w, r, http.StatusOK, listResponse{
		Total:  len(animes),
		Animes: animes,
	})
}

func (s *Server) handleSearchAnimes(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("nome")
	if query == "" {
		writeError(w, r, http.StatusBadRequest, msgNameRequired)
		return
	}

	animes := s.catalog.FindByTitle(r.Context(), query)
	writeJSON(w, r, http.StatusOK, searchResponse{
		Query:  query,
		Total:  len(animes),
		Animes: animes,
	})
}

// handleFilterAnimes echoes every filter parameter present in the query,
// but only non-empty values narrow the result.
func (s *Server) handleFilterAnimes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := make(map[string]string)
	var filter domain.AnimeFilter

	for key, dst := range map[string]**string{
		"genero":    &filter.Genre,
		"temporada": &filter.Season,
		"ano":       &filter.Year,
	} {
		if !q.Has(key) {
			continue
		}
		v := q.Get(key)
		filters[key] = v
		if v != "" {
			*dst = &v
		}
	}

	animes := s.catalog.Filter(r.Context(), filter)
	writeJSON(w, r, http.StatusOK, filterResponse{
		Filters: filters,
		Total:   len(animes),
		Animes:  animes,
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.catalog.Stats(r.Context()))
}

func (s *Server) handleGetAnime(w http.ResponseWriter, r *http.Request) {
	// Same leading-digit parse as the year filter: "4abc" reads as 4.
	id, ok := domain.ParseLeadingInt(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, r, http.StatusNotFound, msgAnimeNotFound)
		return
	}

	anime, err := s.catalog.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, r, http.StatusNotFound, msgAnimeNotFound)
		return
	}

	writeJSON(w, r, http.StatusOK, anime)
}

func (s *Server) handleCreateAnime(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := hlog.FromRequest(r)

	var input domain.AnimeInput
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil && !errors.Is(err, io.EOF) {
		log.Debug().Err(err).Msg("invalid request body")
		writeError(w, r, http.StatusBadRequest, msgInvalidBody)
		return
	}

	anime, err := s.catalog.Append(ctx, input)
	if err != nil {
		var vErr *domain.ValidationError
		switch {
		case errors.As(err, &vErr):
			writeError(w, r, http.StatusBadRequest, msgFieldsRequired)
		case errors.Is(err, domain.ErrPersist):
			log.Error().Err(err).Int("id", anime.ID).Msg("failed to save anime")
			s.notify(r, func(ctx context.Context) {
				if notifyErr := s.notifier.SendError(ctx, err); notifyErr != nil {
					log.Warn().Err(notifyErr).Msg("failed to send error notification")
				}
			})
			writeError(w, r, http.StatusInternalServerError, msgSaveFailed)
		default:
			log.Error().Err(err).Msg("failed to add anime")
			writeError(w, r, http.StatusInternalServerError, msgSaveFailed)
		}
		return
	}

	s.notify(r, func(ctx context.Context) {
		if err := s.notifier.SendAnimeAdded(ctx, anime); err != nil {
			log.Warn().Err(err).Int("id", anime.ID).Msg("failed to send anime added notification")
		}
	})

	writeJSON(w, r, http.StatusCreated, createResponse{
		Message: msgAnimeAdded,
		Anime:   anime,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, healthResponse{
		Status: "healthy",
		Total:  len(s.catalog.List(r.Context())),
	})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, http.StatusNotFound, msgRouteNotFound)
}
