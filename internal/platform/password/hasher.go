// Package password provides the one-way hashing service used for login
// passwords and security-question answers. Both are treated as secrets of
// equal sensitivity and go through the same bcrypt path.
package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Hasher hashes and verifies secrets with bcrypt.
type Hasher struct {
	cost int
}

// NewHasher creates a Hasher with the default bcrypt cost.
func NewHasher() *Hasher {
	return &Hasher{cost: bcrypt.DefaultCost}
}

// NewHasherWithCost creates a Hasher with an explicit cost. Tests use
// bcrypt.MinCost to keep hashing fast.
func NewHasherWithCost(cost int) *Hasher {
	return &Hasher{cost: cost}
}

// Hash produces a salted adaptive hash of the secret.
// An empty secret is rejected; nothing in the workflows ever hashes one.
func (h *Hasher) Hash(secret string) (string, error) {
	if secret == "" {
		return "", errors.New("secret is empty")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(secret), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash secret: %w", err)
	}
	return string(hashed), nil
}

// Verify reports whether the secret matches the stored hash.
// Any failure, including a malformed stored hash, yields false rather than
// an error.
func (h *Hasher) Verify(secret, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(secret)) == nil
}
