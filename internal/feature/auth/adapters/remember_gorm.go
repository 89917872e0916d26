package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"shop_backend/internal/feature/auth/domain/entity"
	"shop_backend/internal/feature/auth/usecase"
)

// rememberGorm is the relational implementation of RememberTokenRepository.
type rememberGorm struct {
	db *gorm.DB
}

// Compile-time check to ensure rememberGorm implements RememberTokenRepository.
var _ usecase.RememberTokenRepository = (*rememberGorm)(nil)

// NewRememberGorm creates a new instance of rememberGorm.
func NewRememberGorm(db *gorm.DB) *rememberGorm {
	return &rememberGorm{db: db}
}

// Create persists a new remember token.
func (r *rememberGorm) Create(ctx context.Context, t *entity.RememberToken) error {
	return r.db.WithContext(ctx).Create(t).Error
}

// FindByDigest retrieves a token by the digest of its cookie secret.
func (r *rememberGorm) FindByDigest(ctx context.Context, digest string) (*entity.RememberToken, error) {
	var t entity.RememberToken
	if err := r.db.WithContext(ctx).Where("digest = ?", digest).First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrTokenNotFound
		}
		return nil, err
	}
	return &t, nil
}

// DeleteByDigest removes a token by digest.
func (r *rememberGorm) DeleteByDigest(ctx context.Context, digest string) error {
	result := r.db.WithContext(ctx).Where("digest = ?", digest).Delete(&entity.RememberToken{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return usecase.ErrTokenNotFound
	}
	return nil
}
