package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserStore defines the document-store operations this package depends on.
// Implementations must exclude deactivated users (Active == false) from every
// lookup and must return ErrUserNotFound / ErrEmailAlreadyExists for the
// corresponding storage signals.
type UserStore interface {
	// CreateUser persists a new user. A duplicate email returns
	// ErrEmailAlreadyExists without inserting a second record.
	CreateUser(ctx context.Context, user *User) error

	GetUserByID(ctx context.Context, id uuid.UUID) (*User, error)

	// GetUserByEmail returns the user with PasswordHash cleared.
	GetUserByEmail(ctx context.Context, email string) (*User, error)

	// GetUserByEmailWithPassword includes the normally hidden PasswordHash.
	GetUserByEmailWithPassword(ctx context.Context, email string) (*User, error)

	// GetUserByResetToken looks up a user by reset-token digest.
	GetUserByResetToken(ctx context.Context, digest string) (*User, error)

	// UpdatePassword stores a new hash, records changedAt, and clears any
	// pending reset token.
	UpdatePassword(ctx context.Context, id uuid.UUID, hash string, changedAt time.Time) error

	// UpdateProfile updates username/email/photo and returns the fresh record.
	UpdateProfile(ctx context.Context, id uuid.UUID, username, email, photo string) (*User, error)

	// SetResetToken persists the reset-token digest and its expiry.
	SetResetToken(ctx context.Context, id uuid.UUID, digest string, expires time.Time) error

	// DeactivateUser soft-deletes the record; the user disappears from all
	// subsequent lookups.
	DeactivateUser(ctx context.Context, id uuid.UUID) error
}
