package auth

import (
	"time"

	"github.com/google/uuid"
)

// User represents a user account. PasswordHash and the reset-token fields
// never leave this package boundary; responses carry the Sanitized view.
type User struct {
	ID                   uuid.UUID
	Username             string
	Email                string
	Photo                string
	PasswordHash         string
	PasswordChangedAt    *time.Time
	PasswordResetToken   string // SHA-256 digest, never the plaintext
	PasswordResetExpires *time.Time
	Active               bool
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// SanitizedUser is the caller-facing view of a user record.
type SanitizedUser struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Photo     string    `json:"photo,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Sanitized strips the credential and lifecycle fields from the record.
func (u *User) Sanitized() SanitizedUser {
	return SanitizedUser{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Photo:     u.Photo,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// PasswordChangedAfter reports whether the password changed after the given
// moment. Tokens issued before a change are considered stale.
func (u *User) PasswordChangedAfter(t time.Time) bool {
	if u.PasswordChangedAt == nil {
		return false
	}
	return u.PasswordChangedAt.After(t)
}
