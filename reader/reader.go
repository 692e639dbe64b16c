// Package reader loads task records from external sources. Each reader
// declares which source paths it can handle; a registry picks the first
// match. Malformed individual records are skipped with a logged reason;
// a source that cannot be opened or parsed at all is a hard error.
package reader

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/toni6/taskproc/domain"
	"github.com/toni6/taskproc/domain/entity"
)

// Reader parses tasks out of one source format.
type Reader interface {
	// CanHandle reports whether this reader recognizes the source path
	// (by extension for files, by DSN scheme for databases).
	CanHandle(path string) bool
	// Read parses all valid task records from the source.
	Read(path string) ([]entity.Task, error)
}

// Registry holds an ordered list of readers; selection is first-match.
type Registry struct {
	readers []Reader
}

// NewRegistry returns a registry over the given readers, tried in order.
func NewRegistry(readers ...Reader) *Registry {
	return &Registry{readers: readers}
}

// Select returns the first reader that can handle path, or domain.ErrNoReader.
func (r *Registry) Select(path string) (Reader, error) {
	for _, rd := range r.readers {
		if rd.CanHandle(path) {
			return rd, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrNoReader, path)
}

// Read selects a reader for path and reads it.
func (r *Registry) Read(path string) ([]entity.Task, error) {
	rd, err := r.Select(path)
	if err != nil {
		return nil, err
	}
	return rd.Read(path)
}

// validate applies the shared record contract: positive id, non-empty title
// and status; a priority below 1 is coerced to 1. Returns false when the
// record must be skipped.
func validate(t *entity.Task, log *zap.Logger) bool {
	if t.ID < 1 {
		log.Warn("skipping task record: id must be greater than 0", zap.Int("id", t.ID))
		return false
	}
	if t.Title == "" || t.Status == "" {
		log.Warn("skipping task record: missing title or status", zap.Int("id", t.ID))
		return false
	}
	if t.Priority < 1 {
		t.Priority = 1
	}
	return true
}
