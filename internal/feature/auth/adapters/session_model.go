package adapters

import (
	"time"

	"shop_backend/internal/feature/auth/domain/entity"
)

// SessionModel is the GORM model for the sessions table, used when Redis is
// unavailable.
type SessionModel struct {
	ID             string `gorm:"primaryKey;size:64"`
	UserID         uint   `gorm:"index"`
	FullName       string `gorm:"size:100"`
	Username       string `gorm:"size:20"`
	Email          string `gorm:"size:255"`
	Role           string `gorm:"size:16"`
	ProfilePicture string `gorm:"size:255"`
	ResetUserID    uint
	ResetUsername  string     `gorm:"size:20"`
	CreatedAt      time.Time  `gorm:"not null"`
	ExpiresAt      time.Time  `gorm:"index;not null"`
}

// TableName returns the table name for GORM.
func (SessionModel) TableName() string {
	return "sessions"
}

// ToEntity converts the GORM model to a domain entity.
func (m *SessionModel) ToEntity() *entity.Session {
	return &entity.Session{
		ID:             m.ID,
		UserID:         m.UserID,
		FullName:       m.FullName,
		Username:       m.Username,
		Email:          m.Email,
		Role:           entity.Role(m.Role),
		ProfilePicture: m.ProfilePicture,
		ResetUserID:    m.ResetUserID,
		ResetUsername:  m.ResetUsername,
		CreatedAt:      m.CreatedAt,
		ExpiresAt:      m.ExpiresAt,
	}
}

// SessionModelFromEntity converts a domain entity to a GORM model.
func SessionModelFromEntity(s *entity.Session) *SessionModel {
	return &SessionModel{
		ID:             s.ID,
		UserID:         s.UserID,
		FullName:       s.FullName,
		Username:       s.Username,
		Email:          s.Email,
		Role:           string(s.Role),
		ProfilePicture: s.ProfilePicture,
		ResetUserID:    s.ResetUserID,
		ResetUsername:  s.ResetUsername,
		CreatedAt:      s.CreatedAt,
		ExpiresAt:      s.ExpiresAt,
	}
}
