package auth

import (
	"time"

	"github.com/cinevault/cinevault/pkg/jwt"
)

// TokenConfig carries the signing secrets and lifetimes for both token
// classes. Loaded once at startup and treated as immutable.
type TokenConfig struct {
	AccessSecret  string        `env:"ACCESS_TOKEN_SECRET,required"`
	RefreshSecret string        `env:"REFRESH_TOKEN_SECRET,required"`
	AccessTTL     time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"15m"`
	RefreshTTL    time.Duration `env:"REFRESH_TOKEN_TTL" envDefault:"168h"`
}

// TokenPair holds a freshly minted access/refresh token pair.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// TokenIssuer mints and verifies the two token classes with independent
// secrets and expiries.
type TokenIssuer struct {
	access  *jwt.Service
	refresh *jwt.Service
}

// NewTokenIssuer builds an issuer from configuration. Both secrets are
// required; sharing one secret across classes is rejected because it would
// let a refresh token pass as an access token.
func NewTokenIssuer(cfg TokenConfig, opts ...jwt.Option) (*TokenIssuer, error) {
	if cfg.AccessSecret == cfg.RefreshSecret {
		return nil, ErrSharedTokenSecret
	}

	access, err := jwt.New([]byte(cfg.AccessSecret), cfg.AccessTTL, opts...)
	if err != nil {
		return nil, err
	}

	refresh, err := jwt.New([]byte(cfg.RefreshSecret), cfg.RefreshTTL, opts...)
	if err != nil {
		return nil, err
	}

	return &TokenIssuer{access: access, refresh: refresh}, nil
}

// IssueAccessToken mints a short-lived access token for the user.
func (i *TokenIssuer) IssueAccessToken(userID string) (string, error) {
	return i.access.Issue(userID)
}

// IssueRefreshToken mints a long-lived refresh token for the user.
func (i *TokenIssuer) IssueRefreshToken(userID string) (string, error) {
	return i.refresh.Issue(userID)
}

// IssuePair mints both tokens for the user.
func (i *TokenIssuer) IssuePair(userID string) (TokenPair, error) {
	accessToken, err := i.IssueAccessToken(userID)
	if err != nil {
		return TokenPair{}, err
	}

	refreshToken, err := i.IssueRefreshToken(userID)
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// ParseAccessToken verifies an access token's signature and expiry.
func (i *TokenIssuer) ParseAccessToken(token string) (jwt.Claims, error) {
	return i.access.Parse(token)
}

// ParseRefreshToken verifies a refresh token's signature and expiry.
func (i *TokenIssuer) ParseRefreshToken(token string) (jwt.Claims, error) {
	return i.refresh.Parse(token)
}
