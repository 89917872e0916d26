// Package usecase implements the business logic for account-activity logging.
package usecase

import (
	"context"
	"log/slog"

	"shop_backend/internal/feature/activity/domain/entity"
)

// LogRepository abstracts the persistence layer for activity entries.
// Following Go convention: interfaces are defined by the consumer (usecase),
// not the provider (adapters).
type LogRepository interface {
	Create(ctx context.Context, l *entity.Log) error
}

// Recorder writes account-activity entries. It satisfies the auth feature's
// ActivityRecorder collaborator contract.
type Recorder struct {
	logs LogRepository
}

// NewRecorder creates a new Recorder with the given repository.
func NewRecorder(logs LogRepository) *Recorder {
	return &Recorder{logs: logs}
}

// Record appends one activity entry. It is fire-and-forget: a failed write is
// logged server-side and swallowed so the parent operation never fails on it.
func (r *Recorder) Record(ctx context.Context, userID uint, action, detail string) {
	l := &entity.Log{UserID: userID, Action: action, Detail: detail}
	if err := r.logs.Create(ctx, l); err != nil {
		slog.Warn("failed to record activity", "user_id", userID, "action", action, "error", err)
	}
}
