// Package crypto provides one-way password hashing for stored credentials.
package crypto

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the minimum bcrypt cost accepted for stored passwords.
const DefaultCost = 10

// Hasher hashes and verifies passwords with bcrypt.
// The produced hash embeds its salt and cost, so verification needs nothing else.
type Hasher struct {
	cost int
}

// NewHasher creates a Hasher. Costs below DefaultCost are raised to DefaultCost.
func NewHasher(cost int) *Hasher {
	if cost < DefaultCost {
		cost = DefaultCost
	}
	if cost > bcrypt.MaxCost {
		cost = bcrypt.MaxCost
	}
	return &Hasher{cost: cost}
}

// Cost returns the bcrypt cost used for new hashes.
func (h *Hasher) Cost() int {
	return h.cost
}

// Hash хеширует пароль с использованием bcrypt
func (h *Hasher) Hash(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", fmt.Errorf("password is too long: %w", err)
		}
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(hash), nil
}

// Verify проверяет, соответствует ли пароль сохраненному хешу
func (h *Hasher) Verify(password, hash string) bool {
	if password == "" || hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
