package repository

import (
	"fmt"
	"os"
	"sync"
)

// FileRepository appends every stored record's folded-stack output to a
// single file, serializing writers so concurrent End calls never interleave
// two records' lines.
type FileRepository struct {
	mu   sync.Mutex
	path string
}

// NewFileRepository creates a FileRepository appending to path, creating it
// if necessary.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{path: path}
}

// Store appends rec's folded-stack output to the repository's file.
func (r *FileRepository) Store(rec *Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := os.OpenFile(r.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open repository file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(rec.FlameOutput); err != nil {
		return fmt.Errorf("write repository file: %w", err)
	}
	return nil
}
