package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/cinevault/cinevault/pkg/logger"
	"github.com/cinevault/cinevault/pkg/sanitizer"
	"github.com/cinevault/cinevault/pkg/validator"
)

const (
	minPasswordLength = 8
	// maxPasswordLength is bcrypt's input limit; longer values must be a
	// validation failure, not a hashing error.
	maxPasswordLength = 72
)

// AuthResult bundles the outcome of a flow that ends in a signed-in user.
type AuthResult struct {
	User         *User
	AccessToken  string
	RefreshToken string
	Created      bool // true when the flow created the user record
}

// Service orchestrates signup, login, external login, refresh, and the
// password lifecycle. Every operation either fully succeeds or fully fails;
// there are no partial-success states.
type Service struct {
	store         UserStore
	issuer        *TokenIssuer
	logger        *slog.Logger
	bcryptCost    int
	resetTokenTTL time.Duration
	now           func() time.Time
}

// Option configures the auth service during construction.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(log *slog.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.logger = log
		}
	}
}

// WithBcryptCost sets the bcrypt cost for password hashing.
func WithBcryptCost(cost int) Option {
	return func(s *Service) { s.bcryptCost = cost }
}

// WithResetTokenTTL sets the lifetime of password reset tokens.
func WithResetTokenTTL(ttl time.Duration) Option {
	return func(s *Service) { s.resetTokenTTL = ttl }
}

// WithClock overrides the time source. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates the auth flow controller.
func NewService(store UserStore, issuer *TokenIssuer, opts ...Option) *Service {
	s := &Service{
		store:         store,
		issuer:        issuer,
		logger:        logger.Discard(),
		bcryptCost:    DefaultBcryptCost,
		resetTokenTTL: 10 * time.Minute,
		now:           time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// SignUp registers a new user and signs them in.
func (s *Service) SignUp(ctx context.Context, username, email, password, passwordConfirm string) (*AuthResult, error) {
	username = sanitizer.TrimSpace(username)
	email = sanitizer.NormalizeEmail(email)

	if err := validator.Apply(
		validator.RequiredString("username", username),
		validator.ValidEmail("email", email),
		validator.MinLenString("password", password, minPasswordLength),
		validator.MaxLenString("password", password, maxPasswordLength),
		validator.MatchingStrings("passwordConfirm", passwordConfirm, password),
	); err != nil {
		return nil, err
	}

	_, err := s.store.GetUserByEmail(ctx, email)
	if err == nil {
		return nil, ErrEmailAlreadyExists
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	hash, err := HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	now := s.now()
	user := &User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	return s.signedIn(user, true)
}

// Login authenticates by email and password. An unknown email and a wrong
// password are indistinguishable to the caller to prevent account-existence
// leakage.
func (s *Service) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = sanitizer.NormalizeEmail(email)

	if err := validator.Apply(
		validator.RequiredString("email", email),
		validator.RequiredString("password", password),
	); err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByEmailWithPassword(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	ok, err := VerifyPassword(user.PasswordHash, password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	return s.signedIn(user, false)
}

// ExternalLogin signs in a user whose identity was asserted by an external,
// already-trusted step. An existing account logs in without a password check;
// otherwise a record is created with a random placeholder password that is
// never communicated to anyone.
func (s *Service) ExternalLogin(ctx context.Context, email, username, photo string) (*AuthResult, error) {
	email = sanitizer.NormalizeEmail(email)

	if err := validator.Apply(
		validator.ValidEmail("email", email),
	); err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByEmail(ctx, email)
	if err == nil {
		return s.signedIn(user, false)
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	placeholder, err := randomPassword()
	if err != nil {
		return nil, err
	}

	hash, err := HashPassword(placeholder, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	now := s.now()
	user = &User{
		ID:           uuid.New(),
		Username:     sanitizer.TrimSpace(username),
		Email:        email,
		Photo:        photo,
		PasswordHash: hash,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("external identity registered",
		logger.UserID(user.ID.String()),
		logger.Component("auth"),
	)

	return s.signedIn(user, true)
}

// Refresh re-issues both tokens from a valid refresh token without
// re-checking the password.
//
// Note: unlike the access path, refresh does not run the passwordChangedAt
// staleness check, so a refresh token minted before a password change can
// still produce new tokens. Preserved as observable behavior; see DESIGN.md.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	claims, err := s.issuer.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrTokenInvalid
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, ErrTokenInvalid
	}

	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrTokenInvalid
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	return s.signedIn(user, false)
}

// ChangePassword verifies the current password and replaces it. Access tokens
// issued before the change become stale.
func (s *Service) ChangePassword(ctx context.Context, userID uuid.UUID, current, password, passwordConfirm string) error {
	if err := validator.Apply(
		validator.RequiredString("currentPassword", current),
		validator.MinLenString("password", password, minPasswordLength),
		validator.MaxLenString("password", password, maxPasswordLength),
		validator.MatchingStrings("passwordConfirm", passwordConfirm, password),
	); err != nil {
		return err
	}

	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	stored, err := s.store.GetUserByEmailWithPassword(ctx, user.Email)
	if err != nil {
		return err
	}

	ok, err := VerifyPassword(stored.PasswordHash, current)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidCredentials
	}

	hash, err := HashPassword(password, s.bcryptCost)
	if err != nil {
		return err
	}

	if err := s.store.UpdatePassword(ctx, userID, hash, s.passwordChangedAt()); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	s.logger.Info("password changed",
		logger.UserID(userID.String()),
		logger.Component("auth"),
	)

	return nil
}

// UpdateProfile updates username/email (and photo when provided) for the
// authenticated user. A non-empty password rehashes the credential the same
// way ChangePassword does, minus the current-password check, matching the
// profile-edit path of the HTTP API.
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, username, email, photo, password string) (*User, error) {
	username = sanitizer.TrimSpace(username)
	email = sanitizer.NormalizeEmail(email)

	rules := []validator.Rule{}
	if email != "" {
		rules = append(rules, validator.ValidEmail("email", email))
	}
	if password != "" {
		rules = append(rules,
			validator.MinLenString("password", password, minPasswordLength),
			validator.MaxLenString("password", password, maxPasswordLength),
		)
	}
	if err := validator.Apply(rules...); err != nil {
		return nil, err
	}

	// Profile first: if it fails, the credential is untouched and the whole
	// operation reads as a clean failure.
	user, err := s.store.UpdateProfile(ctx, userID, username, email, photo)
	if err != nil {
		return nil, err
	}

	if password != "" {
		hash, err := HashPassword(password, s.bcryptCost)
		if err != nil {
			return nil, err
		}
		if err := s.store.UpdatePassword(ctx, userID, hash, s.passwordChangedAt()); err != nil {
			return nil, fmt.Errorf("failed to update password: %w", err)
		}
	}

	return user, nil
}

// Deactivate soft-deletes the user; deactivated users vanish from every
// lookup, including the session gate.
func (s *Service) Deactivate(ctx context.Context, userID uuid.UUID) error {
	if err := s.store.DeactivateUser(ctx, userID); err != nil {
		return fmt.Errorf("failed to deactivate user: %w", err)
	}
	return nil
}

// signedIn mints a token pair for the user and assembles the result.
func (s *Service) signedIn(user *User, created bool) (*AuthResult, error) {
	pair, err := s.issuer.IssuePair(user.ID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to issue tokens: %w", err)
	}

	// The hash travels no further than this package.
	user.PasswordHash = ""

	return &AuthResult{
		User:         user,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		Created:      created,
	}, nil
}

// passwordChangedAt backdates the change by one second so a token minted in
// the same second as the change still fails the staleness check.
func (s *Service) passwordChangedAt() time.Time {
	return s.now().Add(-time.Second)
}

// randomPassword produces an unguessable placeholder credential for accounts
// created through external identity login.
func randomPassword() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate placeholder password: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
