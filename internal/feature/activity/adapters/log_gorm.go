// Package adapters provides repository implementations for the activity feature.
package adapters

import (
	"context"

	"gorm.io/gorm"

	"shop_backend/internal/feature/activity/domain/entity"
	"shop_backend/internal/feature/activity/usecase"
)

// logGorm is the GORM implementation of the LogRepository interface.
type logGorm struct {
	db *gorm.DB
}

// Compile-time check to ensure logGorm implements LogRepository.
var _ usecase.LogRepository = (*logGorm)(nil)

// NewLogGorm creates a new instance of logGorm.
func NewLogGorm(db *gorm.DB) *logGorm {
	return &logGorm{db: db}
}

// Create appends an activity entry.
func (r *logGorm) Create(ctx context.Context, l *entity.Log) error {
	return r.db.WithContext(ctx).Create(l).Error
}
