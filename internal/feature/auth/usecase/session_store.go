package usecase

import (
	"context"

	"shop_backend/internal/feature/auth/domain/entity"
)

// SessionStore abstracts the persistence layer for browser sessions.
// Following Go convention: interfaces are defined by the consumer (usecase),
// not the provider (platform/session, adapters).
type SessionStore interface {
	// Save persists the session state, overwriting any previous state under
	// the same ID.
	Save(ctx context.Context, session *entity.Session) error

	// FindByID retrieves a session by its token. It returns
	// ErrSessionNotFound for unknown or expired tokens.
	FindByID(ctx context.Context, id string) (*entity.Session, error)

	// Delete removes the session. Deleting an unknown session is not an error.
	Delete(ctx context.Context, id string) error
}
