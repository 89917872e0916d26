package entity

import "time"

// Session represents one browser's server-side session state.
// It carries either an authenticated identity or a pending password-reset
// ticket, never both: starting one clears the other.
type Session struct {
	ID        string    // Opaque session token (64-character hex string)
	CreatedAt time.Time // Session creation time
	ExpiresAt time.Time // Session expiration time

	// Authenticated identity, set atomically at successful login.
	UserID         uint   `json:"user_id,omitempty"`
	FullName       string `json:"full_name,omitempty"`
	Username       string `json:"username,omitempty"`
	Email          string `json:"email,omitempty"`
	Role           Role   `json:"role,omitempty"`
	ProfilePicture string `json:"profile_picture,omitempty"`

	// Pending password-reset ticket, set at step 1 of the recovery flow and
	// cleared when step 2 completes.
	ResetUserID   uint   `json:"reset_user_id,omitempty"`
	ResetUsername string `json:"reset_username,omitempty"`
}

// StartAuthenticated stores the identity fields of a verified user.
// It must only be called after password verification and the active-flag
// check have both succeeded. Any pending reset ticket is discarded.
func (s *Session) StartAuthenticated(u *User) {
	s.UserID = u.ID
	s.FullName = u.FullName
	s.Username = u.Username
	s.Email = u.Email
	s.Role = u.Role
	s.ProfilePicture = ""
	if u.ProfilePicture != nil {
		s.ProfilePicture = *u.ProfilePicture
	}
	s.ClearPasswordReset()
}

// IsAuthenticated reports whether the session carries a logged-in identity.
func (s *Session) IsAuthenticated() bool {
	return s.UserID != 0
}

// HasRole reports whether the session is authenticated with the given role.
func (s *Session) HasRole(r Role) bool {
	return s.IsAuthenticated() && s.Role == r
}

// StartPasswordReset stores the pending-reset ticket that bridges the two
// recovery steps. Any authenticated identity is discarded.
func (s *Session) StartPasswordReset(userID uint, username string) {
	s.UserID = 0
	s.FullName = ""
	s.Username = ""
	s.Email = ""
	s.Role = ""
	s.ProfilePicture = ""
	s.ResetUserID = userID
	s.ResetUsername = username
}

// PendingReset returns the pending-reset ticket, if any.
func (s *Session) PendingReset() (userID uint, username string, ok bool) {
	if s.ResetUserID == 0 {
		return 0, "", false
	}
	return s.ResetUserID, s.ResetUsername, true
}

// ClearPasswordReset discards the pending-reset ticket.
func (s *Session) ClearPasswordReset() {
	s.ResetUserID = 0
	s.ResetUsername = ""
}

// Clear removes all identity and reset state, keeping the token itself.
func (s *Session) Clear() {
	*s = Session{ID: s.ID, CreatedAt: s.CreatedAt, ExpiresAt: s.ExpiresAt}
}

// IsExpired returns true if the session has passed its expiration time.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}
