// Package token generates the opaque random tokens used for session IDs and
// persistent-login cookies.
package token

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// New returns a fresh 64-character hex token from a CSPRNG.
func New() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// Digest returns the SHA-256 hex digest of a raw token. Persistent-login
// tokens are stored only in this form.
func Digest(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
