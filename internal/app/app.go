package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/varoOP/animecatalog/internal/api"
	"github.com/varoOP/animecatalog/internal/catalog"
	"github.com/varoOP/animecatalog/internal/config"
	"github.com/varoOP/animecatalog/internal/domain"
	"github.com/varoOP/animecatalog/internal/logger"
	"github.com/varoOP/animecatalog/internal/notification"
	"github.com/varoOP/animecatalog/internal/repository"
)

// ExportFormat selects the file format written by Export
type ExportFormat string

const (
	ExportFormatJSON ExportFormat = "json"
	ExportFormatYAML ExportFormat = "yaml"
)

// App represents the main application with all dependencies initialized
type App struct {
	log                 zerolog.Logger
	config              *domain.Config
	catalogRepo         domain.CatalogRepository
	exportRepo          domain.ExportRepository
	catalogService      catalog.Service
	notificationService domain.NotificationService
}

// NewApp creates a new application instance with all dependencies initialized
func NewApp() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.NewLoggerWithLevel(logger.ParseLevel(cfg.LogLevel))

	return New(cfg, log), nil
}

// New wires the application from an already loaded configuration
func New(cfg *domain.Config, log zerolog.Logger) *App {
	fileRepo := repository.NewFileRepository(log)

	return &App{
		log:                 log,
		config:              cfg,
		catalogRepo:         fileRepo,
		exportRepo:          fileRepo,
		catalogService:      catalog.NewService(log, fileRepo, domain.CatalogPath(cfg.DataPath)),
		notificationService: notification.NewService(log, cfg.DiscordWebhookURL),
	}
}

// Server loads the catalog and returns an http.Server ready to listen. A
// catalog that cannot be loaded is fatal.
func (a *App) Server(ctx context.Context) (*http.Server, error) {
	if err := a.catalogService.Load(ctx); err != nil {
		return nil, errors.Wrapf(err, "cannot start without catalog %s", a.config.DataPath)
	}

	stats := a.catalogService.Stats(ctx)
	a.log.Info().
		Str("addr", a.config.Addr()).
		Str("prefix", a.config.Prefix).
		Str("static_dir", a.config.StaticDir).
		Str("data_path", a.config.DataPath).
		Int("total_anime", stats.Total).
		Int("genres", len(stats.ByGenre)).
		Float64("average_rating", stats.AverageRating).
		Msg("Anime catalog API starting")

	handler := api.NewServer(a.catalogService, a.notificationService, api.Options{
		Prefix:    a.config.Prefix,
		StaticDir: a.config.StaticDir,
	}, a.log)

	return &http.Server{
		Addr:              a.config.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}, nil
}

// Shutdown stops the server, waiting for in-flight requests and pending
// notifications until ctx ends
func (a *App) Shutdown(ctx context.Context, server *http.Server) error {
	a.log.Info().Msg("Shutting down")
	if err := server.Shutdown(ctx); err != nil {
		return errors.Wrap(err, "graceful shutdown failed")
	}
	if handler, ok := server.Handler.(*api.Server); ok {
		if err := handler.Wait(ctx); err != nil {
			return errors.Wrap(err, "pending notifications did not finish")
		}
	}
	return nil
}

// FormatCatalog rewrites the catalog document in canonical form
func (a *App) FormatCatalog(ctx context.Context) error {
	if err := a.catalogService.Load(ctx); err != nil {
		return err
	}

	if err := a.catalogService.Save(ctx); err != nil {
		return err
	}

	a.log.Info().Str("path", a.config.DataPath).Msg("Catalog formatted")
	return nil
}

// Export writes the catalog to path in the requested format
func (a *App) Export(ctx context.Context, format ExportFormat, path string) error {
	if path == "" {
		return errors.New("export path is required")
	}

	if err := a.catalogService.Load(ctx); err != nil {
		return err
	}
	anime := a.catalogService.List(ctx)

	switch format {
	case ExportFormatJSON, "":
		err := a.catalogRepo.Store(ctx, domain.CatalogPath(path), anime)
		if err != nil {
			return errors.Wrap(err, "failed to export json")
		}
	case ExportFormatYAML:
		if err := a.exportRepo.StoreYAML(ctx, path, anime); err != nil {
			return errors.Wrap(err, "failed to export yaml")
		}
	default:
		return errors.Errorf("invalid export format: %s (must be 'json' or 'yaml')", format)
	}

	a.log.Info().Str("format", string(format)).Str("path", path).Int("count", len(anime)).Msg("Catalog exported")
	return nil
}
