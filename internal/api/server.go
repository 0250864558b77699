// Package api provides the HTTP router and handlers for the anime catalog.
package api

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/varoOP/animecatalog/internal/catalog"
	"github.com/varoOP/animecatalog/internal/domain"
)

// Options selects the variant of the router. Prefix mounts every catalog
// route below a path such as "/api"; StaticDir serves a landing page and
// its assets instead of the JSON index.
type Options struct {
	Prefix    string
	StaticDir string
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	catalog  catalog.Service
	notifier domain.NotificationService
	opts     Options
	router   *chi.Mux
	log      zerolog.Logger

	notifications sync.WaitGroup
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(svc catalog.Service, notifier domain.NotificationService, opts Options, log zerolog.Logger) *Server {
	s := &Server{
		catalog:  svc,
		notifier: notifier,
		opts:     opts,
		router:   chi.NewRouter(),
		log:      log.With().Str("module", "api").Logger(),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// notify runs fn in the background so webhook latency never delays a
// response. fn gets a context that outlives the request.
func (s *Server) notify(r *http.Request, fn func(ctx context.Context)) {
	ctx := context.WithoutCancel(r.Context())
	s.notifications.Add(1)
	go func() {
		defer s.notifications.Done()
		fn(ctx)
	}()
}

// Wait blocks until pending notifications finish or ctx is done.
func (s *Server) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.notifications.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Server) setupMiddleware() {
	s.router.Use(hlog.NewHandler(s.log))
	s.router.Use(hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Debug().
			Str("method", r.Method).
			Stringer("url", r.URL).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("request")
	}))
	s.router.Use(hlog.RequestIDHandler("req_id", "Request-Id"))
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.GetHead)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "HEAD", "PUT", "PATCH", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Authorization", "Content-Type"},
		AllowCredentials: false,
	}))
}

func (s *Server) setupRoutes() {
	s.router.NotFound(s.handleNotFound)
	s.router.MethodNotAllowed(s.handleNotFound)

	s.router.Get("/health", s.handleHealth)

	if s.opts.Prefix == "" {
		s.catalogRoutes(s.router)
		return
	}
	s.router.Route(s.opts.Prefix, s.catalogRoutes)
}

// catalogRoutes registers the catalog endpoints. The search, filter and
// stats sub-paths go before {id} so they are never read as an id.
func (s *Server) catalogRoutes(r chi.Router) {
	r.NotFound(s.handleNotFound)
	r.MethodNotAllowed(s.handleNotFound)

	if s.opts.StaticDir != "" {
		r.Get("/*", s.handleStatic)
	} else {
		r.Get("/", s.handleIndex)
	}

	r.Route("/animes", func(r chi.Router) {
		r.Get("/", s.handleListAnimes)
		r.Post("/", s.handleCreateAnime)
		r.Get("/search", s.handleSearchAnimes)
		r.Get("/filter", s.handleFilterAnimes)
		r.Get("/stats", s.handleStats)
		r.Get("/{id}", s.handleGetAnime)
	})
}
