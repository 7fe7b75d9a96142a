package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/cinevault/cinevault/pkg/logger"
	"github.com/cinevault/cinevault/pkg/sanitizer"
	"github.com/cinevault/cinevault/pkg/validator"
)

// ResetRequest carries the one-time plaintext token back to the caller. Only
// the digest and expiry are persisted.
type ResetRequest struct {
	Token     string
	ExpiresAt time.Time
}

// CreatePasswordResetToken generates a high-entropy reset secret for the
// account, stores its SHA-256 digest with a fixed expiry window, and returns
// the plaintext exactly once.
func (s *Service) CreatePasswordResetToken(ctx context.Context, email string) (*ResetRequest, error) {
	email = sanitizer.NormalizeEmail(email)

	if err := validator.Apply(
		validator.ValidEmail("email", email),
	); err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	plaintext, err := generateResetToken()
	if err != nil {
		return nil, err
	}

	expiresAt := s.now().Add(s.resetTokenTTL)
	if err := s.store.SetResetToken(ctx, user.ID, HashResetToken(plaintext), expiresAt); err != nil {
		return nil, fmt.Errorf("failed to store reset token: %w", err)
	}

	s.logger.Info("password reset token issued",
		logger.UserID(user.ID.String()),
		logger.Email(sanitizer.MaskEmail(user.Email)),
		logger.Component("auth"),
	)

	return &ResetRequest{Token: plaintext, ExpiresAt: expiresAt}, nil
}

// ResetPassword consumes a reset token and replaces the password, signing the
// user in with a fresh token pair. The stored digest is cleared by the
// password update, making the token single-use.
func (s *Service) ResetPassword(ctx context.Context, token, password, passwordConfirm string) (*AuthResult, error) {
	if err := validator.Apply(
		validator.MinLenString("password", password, minPasswordLength),
		validator.MaxLenString("password", password, maxPasswordLength),
		validator.MatchingStrings("passwordConfirm", passwordConfirm, password),
	); err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByResetToken(ctx, HashResetToken(token))
	if err != nil {
		return nil, ErrResetTokenInvalid
	}

	if user.PasswordResetExpires == nil || s.now().After(*user.PasswordResetExpires) {
		return nil, ErrResetTokenInvalid
	}

	hash, err := HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	if err := s.store.UpdatePassword(ctx, user.ID, hash, s.passwordChangedAt()); err != nil {
		return nil, fmt.Errorf("failed to update password: %w", err)
	}

	return s.signedIn(user, false)
}

// HashResetToken derives the persisted digest from a plaintext reset token.
func HashResetToken(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}

func generateResetToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate reset token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
