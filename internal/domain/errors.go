package domain

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrAnimeNotFound is returned when no anime has the requested id
	ErrAnimeNotFound = errors.New("anime not found")

	// ErrPersist marks a failed write of the catalog document. The in-memory
	// catalog already holds the new anime when this is returned.
	ErrPersist = errors.New("failed to persist catalog")
)

// ValidationError reports which fields of an AnimeInput are missing
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s %s", name, e.Fields[name]))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}
