package repository

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/stackfold/stackfold/internal/storage"
)

// DirectoryRepository stores one object per record, bucketed into a
// day-named prefix so a long-running profiler's output does not accumulate
// into one unbounded file. It delegates the actual write to a
// storage.Storage backend, so the same repository works unchanged against
// local disk or object storage.
type DirectoryRepository struct {
	backend storage.Storage
	clock   func() time.Time
}

// NewDirectoryRepository creates a DirectoryRepository writing through
// backend.
func NewDirectoryRepository(backend storage.Storage) *DirectoryRepository {
	return &DirectoryRepository{backend: backend, clock: time.Now}
}

// Store uploads rec's folded-stack output as an object keyed by the current
// day and the record's identity and name.
func (r *DirectoryRepository) Store(rec *Record) error {
	day := r.clock().UTC().Format("2006-01-02")
	key := fmt.Sprintf("%s/%s-%s.txt", day, rec.Ident.String(), rec.Name)

	if err := r.backend.Upload(context.Background(), key, bytes.NewReader([]byte(rec.FlameOutput))); err != nil {
		return fmt.Errorf("upload sampling record: %w", err)
	}
	return nil
}
