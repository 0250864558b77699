package domain

import (
	"context"
)

// CatalogPath is the location of the persisted catalog document
type CatalogPath string

// CatalogRepository defines the interface for catalog document storage
type CatalogRepository interface {
	Get(ctx context.Context, path CatalogPath) ([]Anime, error)
	Store(ctx context.Context, path CatalogPath, anime []Anime) error
}

// ExportRepository writes catalog copies in other formats
type ExportRepository interface {
	StoreYAML(ctx context.Context, path string, anime []Anime) error
}
