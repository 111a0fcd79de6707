// Package auth — password hashing.
//
// bcrypt is deliberately slow, which is the point: a leaked database of
// hashes is expensive to brute-force. It also generates and embeds a random
// salt per hash, so identical passwords produce different stored values and
// no separate salt column is needed.
package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// defaultCost is the bcrypt work factor used for stored password hashes.
// Cost 10 (2^10 rounds) is the historical contract of this application —
// existing hashes in deployed databases were produced with it, and
// bcrypt.CompareHashAndPassword reads the cost out of the hash itself, so
// raising it later only affects newly stored passwords.
const defaultCost = 10

// PasswordService hashes and verifies passwords.
//
// It is a struct rather than free functions so the cost can be lowered in
// tests — bcrypt cost 4 runs in microseconds, cost 10 in tens of
// milliseconds per call.
type PasswordService struct {
	cost int
}

// NewPasswordService creates a PasswordService with the production cost.
func NewPasswordService() *PasswordService {
	return &PasswordService{cost: defaultCost}
}

// NewPasswordServiceWithCost creates a PasswordService with a custom cost.
// Intended for tests; do not lower the cost in production.
func NewPasswordServiceWithCost(cost int) *PasswordService {
	return &PasswordService{cost: cost}
}

// Hash returns the bcrypt hash of the given plaintext, ready to store.
// Rejects plaintexts over 72 bytes — bcrypt silently truncates beyond that,
// which would make "correct" passwords interchangeable past byte 72.
func (p *PasswordService) Hash(plaintext string) (string, error) {
	if len(plaintext) > 72 {
		return "", fmt.Errorf("auth: password must be 72 bytes or fewer")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), p.cost)
	if err != nil {
		return "", fmt.Errorf("auth: hashing password: %w", err)
	}

	return string(hashed), nil
}

// Verify reports whether plaintext matches the stored hash.
// Returns nil on match. The comparison is constant-time inside bcrypt.
func (p *PasswordService) Verify(hash, plaintext string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return fmt.Errorf("auth: invalid password")
		}
		return fmt.Errorf("auth: comparing password hash: %w", err)
	}
	return nil
}
