package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"shop_backend/internal/feature/auth/domain/entity"
	"shop_backend/internal/feature/auth/usecase"
)

// sessionGorm is a relational implementation of the SessionStore interface,
// used as the fallback when Redis is unavailable.
type sessionGorm struct {
	db *gorm.DB
}

// Compile-time check to ensure sessionGorm implements SessionStore.
var _ usecase.SessionStore = (*sessionGorm)(nil)

// NewSessionGorm creates a new instance of sessionGorm.
func NewSessionGorm(db *gorm.DB) *sessionGorm {
	return &sessionGorm{db: db}
}

// Save upserts the session row keyed by its token.
func (r *sessionGorm) Save(ctx context.Context, session *entity.Session) error {
	model := SessionModelFromEntity(session)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(model).Error
}

// FindByID retrieves a session by its token. Expired rows are deleted on
// sight and reported as not found.
func (r *sessionGorm) FindByID(ctx context.Context, id string) (*entity.Session, error) {
	var model SessionModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrSessionNotFound
		}
		return nil, err
	}
	session := model.ToEntity()
	if session.IsExpired() {
		_ = r.Delete(ctx, id)
		return nil, usecase.ErrSessionNotFound
	}
	return session, nil
}

// Delete removes the session row. Unknown IDs are not an error.
func (r *sessionGorm) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&SessionModel{}, "id = ?", id).Error
}
