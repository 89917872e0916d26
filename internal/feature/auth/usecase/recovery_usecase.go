package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"shop_backend/internal/feature/auth/domain/entity"
)

// ActivityRecorder is the activity-log collaborator. Record is
// fire-and-forget: implementations must never propagate failures.
type ActivityRecorder interface {
	Record(ctx context.Context, userID uint, action, detail string)
}

// ResetInput carries the fields of reset-password step 2 and of the
// authenticated change-password form. Both flows verify the security answer,
// never the login password.
type ResetInput struct {
	Answer          string
	NewPassword     string
	ConfirmPassword string
}

// RecoveryUsecase implements forgot-password, reset-password and the
// authenticated change-password workflow.
type RecoveryUsecase struct {
	users    UserRepository
	hasher   PasswordHasher
	activity ActivityRecorder
}

// NewRecoveryUsecase creates a new instance of RecoveryUsecase.
func NewRecoveryUsecase(users UserRepository, hasher PasswordHasher, activity ActivityRecorder) *RecoveryUsecase {
	return &RecoveryUsecase{users: users, hasher: hasher, activity: activity}
}

// StartReset is step 1 of the recovery flow: it identifies the account and
// stores a pending-reset ticket on the session.
//
// Unlike login, this step deliberately reveals whether an account exists.
// The asymmetry is inherited product behavior, kept on purpose.
func (u *RecoveryUsecase) StartReset(ctx context.Context, sess *entity.Session, identifier string) error {
	if strings.TrimSpace(identifier) == "" {
		return ErrMissingFields
	}
	user, err := u.users.FindByUsernameOrEmail(ctx, identifier)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return ErrUserNotFound
		}
		return systemError("start reset lookup", err)
	}
	sess.StartPasswordReset(user.ID, user.Username)
	slog.Info("password reset started", "user_id", user.ID, "username", user.Username)
	return nil
}

// ResetQuestion returns the security question shown on the reset form, so the
// user can tell which question applies. It requires a pending ticket; if the
// ticketed user no longer exists the ticket is cleared and the caller is sent
// back to step 1.
func (u *RecoveryUsecase) ResetQuestion(ctx context.Context, sess *entity.Session) (string, error) {
	userID, _, ok := sess.PendingReset()
	if !ok {
		return "", ErrNoPendingReset
	}
	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			sess.ClearPasswordReset()
			return "", ErrNoPendingReset
		}
		return "", systemError("reset question lookup", err)
	}
	return user.SecurityQuestion, nil
}

// ConfirmReset is step 2 of the recovery flow: it verifies the security
// answer and sets the new password. On success the pending ticket is cleared.
func (u *RecoveryUsecase) ConfirmReset(ctx context.Context, sess *entity.Session, in ResetInput) error {
	userID, _, ok := sess.PendingReset()
	if !ok {
		return ErrNoPendingReset
	}

	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			sess.ClearPasswordReset()
			return ErrNoPendingReset
		}
		return systemError("confirm reset lookup", err)
	}

	if err := u.setPassword(ctx, user, in); err != nil {
		return err
	}

	sess.ClearPasswordReset()
	u.activity.Record(ctx, user.ID, "password_reset", "password reset via security question")
	slog.Info("password reset completed", "user_id", user.ID, "username", user.Username)
	return nil
}

// ChangeQuestion returns the authenticated user's security question for the
// change-password form.
func (u *RecoveryUsecase) ChangeQuestion(ctx context.Context, sess *entity.Session) (string, error) {
	user, err := u.authenticatedUser(ctx, sess)
	if err != nil {
		return "", err
	}
	return user.SecurityQuestion, nil
}

// ChangePassword is the authenticated variant of ConfirmReset, keyed by the
// session's user ID. The session survives the change: the user stays logged
// in afterwards. That is inherited product behavior, kept on purpose.
func (u *RecoveryUsecase) ChangePassword(ctx context.Context, sess *entity.Session, in ResetInput) error {
	user, err := u.authenticatedUser(ctx, sess)
	if err != nil {
		return err
	}

	if err := u.setPassword(ctx, user, in); err != nil {
		return err
	}

	u.activity.Record(ctx, user.ID, "password_change", "password changed from account settings")
	slog.Info("password changed", "user_id", user.ID, "username", user.Username)
	return nil
}

// authenticatedUser resolves the session's identity to a live user record.
// A session whose account has vanished or been deactivated is destroyed.
func (u *RecoveryUsecase) authenticatedUser(ctx context.Context, sess *entity.Session) (*entity.User, error) {
	if !sess.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}
	user, err := u.users.FindByID(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			sess.Clear()
			return nil, ErrNotAuthenticated
		}
		return nil, systemError("authenticated user lookup", err)
	}
	if !user.IsActive {
		sess.Clear()
		return nil, ErrNotAuthenticated
	}
	return user, nil
}

// setPassword is the shared verification-and-update step behind both
// reset-password and change-password: one implementation, one error per
// failure mode.
//
// Validation order: empty fields, wrong answer, length, confirmation.
func (u *RecoveryUsecase) setPassword(ctx context.Context, user *entity.User, in ResetInput) error {
	if strings.TrimSpace(in.Answer) == "" || in.NewPassword == "" || in.ConfirmPassword == "" {
		return ErrMissingFields
	}
	if !u.hasher.Verify(strings.TrimSpace(in.Answer), user.SecurityAnswer) {
		return ErrSecurityAnswer
	}
	if len(in.NewPassword) < minPasswordLength {
		return ErrPasswordTooShort
	}
	if in.NewPassword != in.ConfirmPassword {
		return ErrPasswordMismatch
	}

	newHash, err := u.hasher.Hash(in.NewPassword)
	if err != nil {
		return systemError("hash new password", err)
	}
	if err := u.users.UpdatePassword(ctx, user.ID, newHash); err != nil {
		return systemError("update password", err)
	}
	return nil
}
