// Package usecase implements the authentication and credential-recovery
// workflows for the auth feature.
package usecase

import "errors"

var (
	// ErrMissingFields is returned when a required form field is empty.
	ErrMissingFields = errors.New("required field is missing")

	// ErrInvalidEmail is returned when an email address fails syntax validation.
	ErrInvalidEmail = errors.New("invalid email address")

	// ErrInvalidUsername is returned when a username is not 4-20 alphanumeric characters.
	ErrInvalidUsername = errors.New("invalid username")

	// ErrPasswordTooShort is returned when a password is shorter than the minimum length.
	ErrPasswordTooShort = errors.New("password too short")

	// ErrPasswordMismatch is returned when a password and its confirmation differ.
	ErrPasswordMismatch = errors.New("passwords do not match")

	// ErrSecurityQuestion is returned when the security question is not one of
	// the offered questions or the answer is empty.
	ErrSecurityQuestion = errors.New("security question or answer missing")

	// ErrRoleNotAllowed is returned when registration requests a role other
	// than buyer. Seller self-registration is disabled by policy.
	ErrRoleNotAllowed = errors.New("role not allowed for self-registration")

	// ErrDuplicateUser is returned when the username or email already exists.
	// The message deliberately does not say which of the two collided.
	ErrDuplicateUser = errors.New("username or email already taken")

	// ErrInvalidCredentials is returned on login for both an unknown account
	// and a wrong password, so the response never reveals which was wrong.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrAccountDeactivated is returned when credentials verify but the
	// account's active flag is off.
	ErrAccountDeactivated = errors.New("account deactivated")

	// ErrSecurityAnswer is returned when the recovery answer does not match
	// the stored hash.
	ErrSecurityAnswer = errors.New("incorrect security answer")

	// ErrUserNotFound is returned when a user cannot be found by identifier or ID.
	ErrUserNotFound = errors.New("user not found")

	// ErrNoPendingReset is returned when reset step 2 is reached without a
	// pending ticket from step 1. Handlers treat it as a silent redirect.
	ErrNoPendingReset = errors.New("no pending password reset")

	// ErrNotAuthenticated is returned when an authenticated-only operation is
	// attempted without a logged-in session. Handlers treat it as a silent
	// redirect to the login page.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrSessionNotFound is returned when a session cannot be found by ID.
	ErrSessionNotFound = errors.New("session not found")

	// ErrTokenNotFound is returned when a remember token cannot be found by digest.
	ErrTokenNotFound = errors.New("remember token not found")

	// ErrInvalidRememberToken is returned when a persistent-login cookie does
	// not resolve to a usable token.
	ErrInvalidRememberToken = errors.New("invalid remember token")

	// ErrSystem is the only error surfaced to clients for unexpected storage
	// failures. The underlying detail is written to the server log, never to
	// the response.
	ErrSystem = errors.New("a system error occurred")
)
