package entity

import "time"

// RememberToken is a persistent-login token backing the "remember me"
// checkbox. The browser cookie carries the raw secret; only its SHA-256
// digest is stored, so a database leak does not expose usable tokens.
// Tokens are single-use: each successful verification rotates them.
type RememberToken struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"index;not null"`
	Digest    string    `gorm:"uniqueIndex;size:64;not null"` // SHA-256 hex of the cookie secret
	CreatedAt time.Time `gorm:"not null"`
	ExpiresAt time.Time `gorm:"index;not null"`
}

// IsExpired returns true if the token has passed its expiration time.
func (t *RememberToken) IsExpired() bool {
	return time.Now().After(t.ExpiresAt)
}
