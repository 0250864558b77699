package repository

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/varoOP/animecatalog/internal/domain"
	"gopkg.in/yaml.v3"
)

// FileRepository implements domain.CatalogRepository and domain.ExportRepository using file storage
type FileRepository struct {
	log zerolog.Logger
}

// NewFileRepository creates a new file-based repository
func NewFileRepository(log zerolog.Logger) *FileRepository {
	return &FileRepository{
		log: log.With().Str("module", "repository").Logger(),
	}
}

var _ domain.CatalogRepository = (*FileRepository)(nil)
var _ domain.ExportRepository = (*FileRepository)(nil)

// Get retrieves the catalog from a JSON file
func (r *FileRepository) Get(ctx context.Context, path domain.CatalogPath) ([]domain.Anime, error) {
	a := []domain.Anime{}

	info, err := os.Stat(string(path))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "file does not exist: %s", path)
		}
		return nil, errors.Wrapf(err, "failed to stat file %s", path)
	}
	if info.IsDir() {
		return nil, errors.Errorf("path is a directory, not a file: %s", path)
	}

	f, err := os.Open(string(path))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open file %s", path)
	}
	defer f.Close()

	body, err := io.ReadAll(f)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read file %s", path)
	}

	if err := json.Unmarshal(body, &a); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal json from %s", path)
	}

	r.log.Debug().Str("path", string(path)).Int("count", len(a)).Msg("loaded catalog")
	return a, nil
}

// Store overwrites the JSON file with the full catalog. The document is
// written to a temporary file in the same directory and renamed into place.
func (r *FileRepository) Store(ctx context.Context, path domain.CatalogPath, anime []domain.Anime) error {
	if anime == nil {
		anime = []domain.Anime{}
	}

	j, err := json.MarshalIndent(anime, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal anime data")
	}

	if err := writeFile(string(path), j); err != nil {
		return err
	}

	r.log.Debug().Str("path", string(path)).Int("count", len(anime)).Msg("stored catalog")
	return nil
}

// StoreYAML writes the catalog as a YAML document
func (r *FileRepository) StoreYAML(ctx context.Context, path string, anime []domain.Anime) error {
	if anime == nil {
		anime = []domain.Anime{}
	}

	b, err := yaml.Marshal(anime)
	if err != nil {
		return errors.Wrap(err, "failed to marshal yaml")
	}

	if err := writeFile(path, b); err != nil {
		return err
	}

	r.log.Debug().Str("path", path).Int("count", len(anime)).Msg("stored yaml export")
	return nil
}

func writeFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, "failed to create directory %s", dir)
	}

	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Wrapf(err, "failed to create temp file for %s", path)
	}
	tmp := f.Name()

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return errors.Wrapf(err, "failed to write to file %s", path)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return errors.Wrapf(err, "failed to close file %s", path)
	}

	if err := os.Chmod(tmp, 0644); err != nil {
		os.Remove(tmp)
		return errors.Wrapf(err, "failed to set mode on %s", path)
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return errors.Wrapf(err, "failed to replace file %s", path)
	}

	return nil
}
