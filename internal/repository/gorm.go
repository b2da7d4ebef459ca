package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/stackfold/stackfold/pkg/model"
	"gorm.io/gorm"
)

// GormRepository implements Repository using GORM.
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository creates a new GormRepository and runs its migration.
func NewGormRepository(db *gorm.DB) (*GormRepository, error) {
	if err := db.AutoMigrate(&model.ProfileRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate profile_records: %w", err)
	}
	return &GormRepository{db: db}, nil
}

// Save persists one terminated context's record.
func (r *GormRepository) Save(ctx context.Context, rec *model.ProfileRecord) error {
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("failed to save profile record: %w", err)
	}
	return nil
}

// ListByName returns the most recent records for a given context name.
func (r *GormRepository) ListByName(ctx context.Context, name string, limit int) ([]*model.ProfileRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	var records []*model.ProfileRecord
	err := r.db.WithContext(ctx).
		Where("name = ?", name).
		Order("timestamp DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list profile records: %w", err)
	}

	return records, nil
}

// Get retrieves a single record by its sample ID.
func (r *GormRepository) Get(ctx context.Context, sampleID string) (*model.ProfileRecord, error) {
	var rec model.ProfileRecord
	err := r.db.WithContext(ctx).Where("sample_id = ?", sampleID).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("profile record not found: %s", sampleID)
		}
		return nil, fmt.Errorf("failed to get profile record: %w", err)
	}
	return &rec, nil
}

// Names returns the distinct context names currently stored.
func (r *GormRepository) Names(ctx context.Context) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).
		Model(&model.ProfileRecord{}).
		Distinct().
		Order("name").
		Pluck("name", &names).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list profile record names: %w", err)
	}
	return names, nil
}
