// Package entity defines the domain entities for the auth feature.
package entity

import "time"

// Role identifies the access level of a storefront account.
type Role string

const (
	// RoleBuyer is the default role assigned at registration.
	RoleBuyer Role = "buyer"

	// RoleSeller marks accounts that manage their own product listings.
	// Seller accounts are provisioned by administrators, not self-registered.
	RoleSeller Role = "seller"

	// RoleAdmin marks accounts with access to the admin dashboard.
	RoleAdmin Role = "admin"
)

// Valid reports whether the role is one of the known account roles.
func (r Role) Valid() bool {
	switch r {
	case RoleBuyer, RoleSeller, RoleAdmin:
		return true
	}
	return false
}

// LandingPath returns the page a user of this role is redirected to after login.
func (r Role) LandingPath() string {
	switch r {
	case RoleAdmin:
		return "/admin/dashboard"
	case RoleSeller:
		return "/seller/dashboard"
	default:
		return "/"
	}
}

// SecurityQuestions is the fixed list offered at registration.
// The chosen question is stored verbatim on the user record; the answer is
// stored only as a hash.
var SecurityQuestions = []string{
	"What is your pet's name?",
	"What is your mother's maiden name?",
	"What was the name of your first school?",
	"What is your favorite book?",
	"In what city were you born?",
}

// ValidSecurityQuestion reports whether q is one of the offered questions.
func ValidSecurityQuestion(q string) bool {
	for _, s := range SecurityQuestions {
		if s == q {
			return true
		}
	}
	return false
}

// User represents a registered storefront account.
// It contains authentication credentials and profile metadata.
type User struct {
	// ID is the unique identifier for the user.
	ID uint `gorm:"primaryKey"`

	// FullName is the user's display name.
	FullName string `gorm:"size:100;not null"`

	// Username is the user's login name. It must be unique across all users.
	Username string `gorm:"uniqueIndex;size:20;not null"`

	// Email is the user's email address. It must be unique across all users.
	Email string `gorm:"uniqueIndex;size:255;not null"`

	// Password is the hashed login password.
	// This must never store plaintext passwords.
	Password string `gorm:"size:255;not null"`

	// Phone is an optional contact number.
	Phone string `gorm:"size:20"`

	// Address is an optional delivery address.
	Address string `gorm:"size:255"`

	// Role is the account role. It is immutable after creation; role changes
	// are an admin-tooling concern.
	Role Role `gorm:"size:16;not null;default:buyer"`

	// IsActive is the administrative kill-switch. A deactivated account is
	// never granted an authenticated session, regardless of credentials.
	IsActive bool `gorm:"not null;default:true"`

	// SecurityQuestion is the recovery question chosen at registration.
	SecurityQuestion string `gorm:"size:255;not null"`

	// SecurityAnswer is the hashed recovery answer. Like Password, it must
	// never store plaintext. It is set once, at registration.
	SecurityAnswer string `gorm:"size:255;not null"`

	// ProfilePicture is the filename reference managed by the profile
	// collaborator. Nil when the user has not uploaded a picture.
	ProfilePicture *string `gorm:"size:255"`

	// LastLogin is the timestamp of the most recent successful login.
	LastLogin *time.Time

	// CreatedAt is the timestamp when the user was created.
	CreatedAt time.Time

	// UpdatedAt is the timestamp when the user was last updated.
	UpdatedAt time.Time
}
