package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/cinevault/cinevault/pkg/jwt"
	"github.com/cinevault/cinevault/pkg/validator"
)

func newTestIssuer(t *testing.T, opts ...jwt.Option) *TokenIssuer {
	t.Helper()

	issuer, err := NewTokenIssuer(TokenConfig{
		AccessSecret:  "access-secret-32-characters-long!!",
		RefreshSecret: "refresh-secret-32-characters-long!",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
	}, opts...)
	require.NoError(t, err)
	return issuer
}

func newTestService(store UserStore, issuer *TokenIssuer, opts ...Option) *Service {
	base := []Option{WithBcryptCost(testBcryptCost)}
	return NewService(store, issuer, append(base, opts...)...)
}

func activeUser(email string) *User {
	now := time.Now()
	return &User{
		ID:        uuid.New(),
		Username:  "chaplin",
		Email:     email,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestNewTokenIssuer(t *testing.T) {
	t.Parallel()

	_, err := NewTokenIssuer(TokenConfig{
		AccessSecret:  "same-secret-for-both-token-classes",
		RefreshSecret: "same-secret-for-both-token-classes",
		AccessTTL:     time.Minute,
		RefreshTTL:    time.Hour,
	})
	assert.ErrorIs(t, err, ErrSharedTokenSecret)
}

func TestService_SignUp(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("creates user and issues both tokens", func(t *testing.T) {
		t.Parallel()

		store := &MockUserStore{}
		svc := newTestService(store, newTestIssuer(t))

		store.On("GetUserByEmail", mock.Anything, "greta@example.com").Return(nil, ErrUserNotFound)
		store.On("CreateUser", mock.Anything, mock.MatchedBy(func(u *User) bool {
			return u.Email == "greta@example.com" &&
				u.Username == "greta" &&
				u.Active &&
				u.PasswordHash != "" &&
				u.PasswordHash != "secret-pass"
		})).Return(nil)

		res, err := svc.SignUp(ctx, "greta", "Greta@Example.com", "secret-pass", "secret-pass")
		require.NoError(t, err)
		assert.True(t, res.Created)
		assert.NotEmpty(t, res.AccessToken)
		assert.NotEmpty(t, res.RefreshToken)
		assert.NotEqual(t, res.AccessToken, res.RefreshToken)
		assert.Empty(t, res.User.PasswordHash)
		store.AssertExpectations(t)
	})

	t.Run("password confirmation mismatch creates nothing", func(t *testing.T) {
		t.Parallel()

		store := &MockUserStore{}
		svc := newTestService(store, newTestIssuer(t))

		_, err := svc.SignUp(ctx, "greta", "greta@example.com", "secret-pass", "secret-typo")
		require.Error(t, err)
		assert.True(t, validator.IsValidationError(err))

		var verrs validator.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.True(t, verrs.Has("passwordConfirm"))
		store.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
	})

	t.Run("oversized password is a validation failure", func(t *testing.T) {
		t.Parallel()

		store := &MockUserStore{}
		svc := newTestService(store, newTestIssuer(t))

		long := strings.Repeat("a", 80) // past bcrypt's 72-byte input limit
		_, err := svc.SignUp(ctx, "greta", "greta@example.com", long, long)
		require.Error(t, err)
		assert.True(t, validator.IsValidationError(err))

		var verrs validator.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.True(t, verrs.Has("password"))
		store.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
	})

	t.Run("duplicate email performs no insert", func(t *testing.T) {
		t.Parallel()

		store := &MockUserStore{}
		svc := newTestService(store, newTestIssuer(t))

		store.On("GetUserByEmail", mock.Anything, "taken@example.com").Return(activeUser("taken@example.com"), nil)

		_, err := svc.SignUp(ctx, "greta", "taken@example.com", "secret-pass", "secret-pass")
		assert.ErrorIs(t, err, ErrEmailAlreadyExists)
		store.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
	})
}

func TestService_Login(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("valid credentials", func(t *testing.T) {
		t.Parallel()

		hash, err := HashPassword("right-password", testBcryptCost)
		require.NoError(t, err)

		user := activeUser("greta@example.com")
		user.PasswordHash = hash

		store := &MockUserStore{}
		store.On("GetUserByEmailWithPassword", mock.Anything, "greta@example.com").Return(user, nil)

		svc := newTestService(store, newTestIssuer(t))
		res, err := svc.Login(ctx, "greta@example.com", "right-password")
		require.NoError(t, err)
		assert.False(t, res.Created)
		assert.NotEmpty(t, res.AccessToken)
		assert.Empty(t, res.User.PasswordHash)
	})

	t.Run("unknown email and wrong password are indistinguishable", func(t *testing.T) {
		t.Parallel()

		hash, err := HashPassword("right-password", testBcryptCost)
		require.NoError(t, err)

		user := activeUser("greta@example.com")
		user.PasswordHash = hash

		store := &MockUserStore{}
		store.On("GetUserByEmailWithPassword", mock.Anything, "greta@example.com").Return(user, nil)
		store.On("GetUserByEmailWithPassword", mock.Anything, "nobody@example.com").Return(nil, ErrUserNotFound)

		svc := newTestService(store, newTestIssuer(t))

		_, errWrongPassword := svc.Login(ctx, "greta@example.com", "wrong-password")
		_, errUnknownEmail := svc.Login(ctx, "nobody@example.com", "right-password")

		assert.ErrorIs(t, errWrongPassword, ErrInvalidCredentials)
		assert.ErrorIs(t, errUnknownEmail, ErrInvalidCredentials)
		assert.Equal(t, errWrongPassword.Error(), errUnknownEmail.Error())
	})

	t.Run("oversized password reads as invalid credentials", func(t *testing.T) {
		t.Parallel()

		hash, err := HashPassword("right-password", testBcryptCost)
		require.NoError(t, err)

		user := activeUser("greta@example.com")
		user.PasswordHash = hash

		store := &MockUserStore{}
		store.On("GetUserByEmailWithPassword", mock.Anything, "greta@example.com").Return(user, nil)

		svc := newTestService(store, newTestIssuer(t))
		_, err = svc.Login(ctx, "greta@example.com", strings.Repeat("a", 80))
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestService_ExternalLogin(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("existing account logs in without a password check", func(t *testing.T) {
		t.Parallel()

		user := activeUser("greta@example.com")

		store := &MockUserStore{}
		store.On("GetUserByEmail", mock.Anything, "greta@example.com").Return(user, nil)

		svc := newTestService(store, newTestIssuer(t))
		res, err := svc.ExternalLogin(ctx, "greta@example.com", "greta", "")
		require.NoError(t, err)
		assert.False(t, res.Created)
		store.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
	})

	t.Run("new account gets a hashed placeholder password", func(t *testing.T) {
		t.Parallel()

		store := &MockUserStore{}
		store.On("GetUserByEmail", mock.Anything, "new@example.com").Return(nil, ErrUserNotFound)
		store.On("CreateUser", mock.Anything, mock.MatchedBy(func(u *User) bool {
			return u.Email == "new@example.com" &&
				u.Photo == "avatar.jpeg" &&
				u.PasswordHash != ""
		})).Return(nil)

		svc := newTestService(store, newTestIssuer(t))
		res, err := svc.ExternalLogin(ctx, "new@example.com", "newbie", "avatar.jpeg")
		require.NoError(t, err)
		assert.True(t, res.Created)
		assert.NotEmpty(t, res.AccessToken)
		store.AssertExpectations(t)
	})
}

func TestService_Refresh(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("valid refresh token mints a fresh pair", func(t *testing.T) {
		t.Parallel()

		user := activeUser("greta@example.com")
		issuer := newTestIssuer(t)

		refreshToken, err := issuer.IssueRefreshToken(user.ID.String())
		require.NoError(t, err)

		oldClaims, err := issuer.ParseRefreshToken(refreshToken)
		require.NoError(t, err)

		store := &MockUserStore{}
		store.On("GetUserByID", mock.Anything, user.ID).Return(user, nil)

		svc := newTestService(store, issuer)
		res, err := svc.Refresh(ctx, refreshToken)
		require.NoError(t, err)

		newClaims, err := issuer.ParseAccessToken(res.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, user.ID.String(), newClaims.Subject)
		assert.False(t, newClaims.IssuedAt.Before(oldClaims.IssuedAt))
	})

	t.Run("expired refresh token rejected", func(t *testing.T) {
		t.Parallel()

		user := activeUser("greta@example.com")
		past := time.Now().Add(-30 * 24 * time.Hour)
		staleIssuer := newTestIssuer(t, jwt.WithClock(func() time.Time { return past }))

		refreshToken, err := staleIssuer.IssueRefreshToken(user.ID.String())
		require.NoError(t, err)

		store := &MockUserStore{}
		svc := newTestService(store, newTestIssuer(t))

		_, err = svc.Refresh(ctx, refreshToken)
		assert.ErrorIs(t, err, ErrTokenInvalid)
		store.AssertNotCalled(t, "GetUserByID", mock.Anything, mock.Anything)
	})

	t.Run("access token is not accepted as a refresh token", func(t *testing.T) {
		t.Parallel()

		user := activeUser("greta@example.com")
		issuer := newTestIssuer(t)

		accessToken, err := issuer.IssueAccessToken(user.ID.String())
		require.NoError(t, err)

		store := &MockUserStore{}
		svc := newTestService(store, issuer)

		_, err = svc.Refresh(ctx, accessToken)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("deleted subject rejected", func(t *testing.T) {
		t.Parallel()

		user := activeUser("greta@example.com")
		issuer := newTestIssuer(t)

		refreshToken, err := issuer.IssueRefreshToken(user.ID.String())
		require.NoError(t, err)

		store := &MockUserStore{}
		store.On("GetUserByID", mock.Anything, user.ID).Return(nil, ErrUserNotFound)

		svc := newTestService(store, issuer)
		_, err = svc.Refresh(ctx, refreshToken)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})
}

func TestService_ChangePassword(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("wrong current password rejected", func(t *testing.T) {
		t.Parallel()

		hash, err := HashPassword("current-pass", testBcryptCost)
		require.NoError(t, err)

		user := activeUser("greta@example.com")
		withHash := *user
		withHash.PasswordHash = hash

		store := &MockUserStore{}
		store.On("GetUserByID", mock.Anything, user.ID).Return(user, nil)
		store.On("GetUserByEmailWithPassword", mock.Anything, user.Email).Return(&withHash, nil)

		svc := newTestService(store, newTestIssuer(t))
		err = svc.ChangePassword(ctx, user.ID, "not-the-current", "new-password", "new-password")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		store.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("change backdates passwordChangedAt", func(t *testing.T) {
		t.Parallel()

		hash, err := HashPassword("current-pass", testBcryptCost)
		require.NoError(t, err)

		user := activeUser("greta@example.com")
		withHash := *user
		withHash.PasswordHash = hash

		fixedNow := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

		store := &MockUserStore{}
		store.On("GetUserByID", mock.Anything, user.ID).Return(user, nil)
		store.On("GetUserByEmailWithPassword", mock.Anything, user.Email).Return(&withHash, nil)
		store.On("UpdatePassword", mock.Anything, user.ID, mock.AnythingOfType("string"), fixedNow.Add(-time.Second)).Return(nil)

		svc := newTestService(store, newTestIssuer(t), WithClock(func() time.Time { return fixedNow }))
		err = svc.ChangePassword(ctx, user.ID, "current-pass", "new-password", "new-password")
		require.NoError(t, err)
		store.AssertExpectations(t)
	})
}

func TestService_UpdateProfile(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("failed profile edit leaves the password untouched", func(t *testing.T) {
		t.Parallel()

		user := activeUser("greta@example.com")

		store := &MockUserStore{}
		store.On("UpdateProfile", mock.Anything, user.ID, "keaton", "", "").
			Return(nil, errors.New("write conflict"))

		svc := newTestService(store, newTestIssuer(t))
		_, err := svc.UpdateProfile(ctx, user.ID, "keaton", "", "", "new-password")
		require.Error(t, err)
		store.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("profile and password both applied", func(t *testing.T) {
		t.Parallel()

		user := activeUser("greta@example.com")

		store := &MockUserStore{}
		store.On("UpdateProfile", mock.Anything, user.ID, "keaton", "", "").Return(user, nil)
		store.On("UpdatePassword", mock.Anything, user.ID, mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).Return(nil)

		svc := newTestService(store, newTestIssuer(t))
		got, err := svc.UpdateProfile(ctx, user.ID, "keaton", "", "", "new-password")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
		store.AssertExpectations(t)
	})
}

func TestService_ResetTokens(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("persisted digest matches the returned plaintext", func(t *testing.T) {
		t.Parallel()

		user := activeUser("greta@example.com")
		fixedNow := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

		var storedDigest string
		store := &MockUserStore{}
		store.On("GetUserByEmail", mock.Anything, user.Email).Return(user, nil)
		store.On("SetResetToken", mock.Anything, user.ID, mock.AnythingOfType("string"), fixedNow.Add(10*time.Minute)).
			Run(func(args mock.Arguments) { storedDigest = args.String(2) }).
			Return(nil)

		svc := newTestService(store, newTestIssuer(t), WithClock(func() time.Time { return fixedNow }))
		req, err := svc.CreatePasswordResetToken(ctx, user.Email)
		require.NoError(t, err)

		assert.Equal(t, fixedNow.Add(10*time.Minute), req.ExpiresAt)
		assert.Equal(t, HashResetToken(req.Token), storedDigest)
		assert.NotEqual(t, req.Token, storedDigest)
		store.AssertExpectations(t)
	})

	t.Run("reset with expired token rejected", func(t *testing.T) {
		t.Parallel()

		user := activeUser("greta@example.com")
		expired := time.Now().Add(-time.Minute)
		user.PasswordResetExpires = &expired

		store := &MockUserStore{}
		store.On("GetUserByResetToken", mock.Anything, mock.AnythingOfType("string")).Return(user, nil)

		svc := newTestService(store, newTestIssuer(t))
		_, err := svc.ResetPassword(ctx, "some-plaintext", "new-password", "new-password")
		assert.ErrorIs(t, err, ErrResetTokenInvalid)
		store.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("reset with valid token replaces password and signs in", func(t *testing.T) {
		t.Parallel()

		user := activeUser("greta@example.com")
		future := time.Now().Add(5 * time.Minute)
		user.PasswordResetExpires = &future

		store := &MockUserStore{}
		store.On("GetUserByResetToken", mock.Anything, HashResetToken("the-plaintext")).Return(user, nil)
		store.On("UpdatePassword", mock.Anything, user.ID, mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).Return(nil)

		svc := newTestService(store, newTestIssuer(t))
		res, err := svc.ResetPassword(ctx, "the-plaintext", "new-password", "new-password")
		require.NoError(t, err)
		assert.NotEmpty(t, res.AccessToken)
		assert.NotEmpty(t, res.RefreshToken)
		store.AssertExpectations(t)
	})

	t.Run("unknown token rejected", func(t *testing.T) {
		t.Parallel()

		store := &MockUserStore{}
		store.On("GetUserByResetToken", mock.Anything, mock.AnythingOfType("string")).Return(nil, ErrUserNotFound)

		svc := newTestService(store, newTestIssuer(t))
		_, err := svc.ResetPassword(ctx, "bogus", "new-password", "new-password")
		assert.ErrorIs(t, err, ErrResetTokenInvalid)
	})
}
