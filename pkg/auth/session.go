package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// SessionValidator verifies a presented access token and resolves the current
// user. It is a pure function of (token, current user state): signature and
// expiry are checked before any store access, and a password change after the
// token's issued-at invalidates it.
type SessionValidator struct {
	store  UserStore
	issuer *TokenIssuer
}

// NewSessionValidator builds the gate used by protected routes.
func NewSessionValidator(store UserStore, issuer *TokenIssuer) *SessionValidator {
	return &SessionValidator{store: store, issuer: issuer}
}

// Validate runs the gate and returns the authenticated user.
func (v *SessionValidator) Validate(ctx context.Context, token string) (*User, error) {
	if token == "" {
		return nil, ErrMissingToken
	}

	// Tampered and expired tokens fail identically, before any store access.
	claims, err := v.issuer.ParseAccessToken(token)
	if err != nil {
		return nil, ErrTokenInvalid
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, ErrTokenInvalid
	}

	user, err := v.store.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrTokenSubjectGone
		}
		return nil, fmt.Errorf("failed to resolve token subject: %w", err)
	}

	// Sole revocation mechanism for access tokens.
	if user.PasswordChangedAfter(claims.IssuedAt) {
		return nil, ErrPasswordChanged
	}

	return user, nil
}
