package auth

import "errors"

// General authentication errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Session errors, one per gate failure so the transport can keep the
// original response messages.
var (
	ErrMissingToken     = errors.New("you are not logged in, please log in to get access")
	ErrTokenInvalid     = errors.New("token is invalid or has expired")
	ErrTokenSubjectGone = errors.New("the user belonging to this token no longer exists")
	ErrPasswordChanged  = errors.New("password was recently changed, please log in again")
)

// Password and reset-token errors
var (
	ErrResetTokenInvalid = errors.New("reset token is invalid or has expired")
)

// Configuration errors
var (
	ErrSharedTokenSecret = errors.New("access and refresh tokens must use distinct signing secrets")
)
