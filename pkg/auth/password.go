package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost keeps a single verification in the tens-of-milliseconds
// range on current hardware.
const DefaultBcryptCost = 12

// HashPassword applies the adaptive one-way transform. A failure here is
// unrecoverable and must surface as a generic server error.
func HashPassword(plaintext string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword compares a candidate against a stored digest using the
// transform's own constant-time compare. A mismatch is not an error; only a
// malformed digest is. A candidate past bcrypt's 72-byte limit can never
// match a stored digest, so it reads as a mismatch.
func VerifyPassword(hash, plaintext string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword),
		errors.Is(err, bcrypt.ErrPasswordTooLong):
		return false, nil
	default:
		return false, fmt.Errorf("malformed password digest: %w", err)
	}
}
