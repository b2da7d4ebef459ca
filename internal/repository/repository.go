package repository

import (
	"context"

	"github.com/stackfold/stackfold/pkg/model"
)

// Repository defines the dashboard's durable storage of terminated sampling
// contexts.
type Repository interface {
	// Save persists one terminated context's record.
	Save(ctx context.Context, rec *model.ProfileRecord) error

	// ListByName returns the most recent records for a given context name,
	// newest first, bounded by limit.
	ListByName(ctx context.Context, name string, limit int) ([]*model.ProfileRecord, error)

	// Get retrieves a single record by its sample ID.
	Get(ctx context.Context, sampleID string) (*model.ProfileRecord, error)

	// Names returns the distinct context names currently stored.
	Names(ctx context.Context) ([]string, error)
}
