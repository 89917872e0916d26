// Package entity defines the domain entities for the activity feature.
package entity

import "time"

// Actions recorded by the auth workflows.
const (
	ActionPasswordChange = "password_change"
	ActionPasswordReset  = "password_reset"
)

// Log is one account-activity entry. Entries are append-only and written on
// a best-effort basis: the workflows that record them never fail because a
// log write failed.
type Log struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"index;not null"`
	Action    string    `gorm:"size:32;not null"`
	Detail    string    `gorm:"size:255"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM.
func (Log) TableName() string {
	return "activity_logs"
}
