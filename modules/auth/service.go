// Package auth exposes the credential and session flows over HTTP: signup,
// login, external login, token refresh, logout, and the password reset pair.
// All business rules live in pkg/auth; this package only binds JSON bodies,
// manages the token cookies, and maps domain errors to status codes.
package auth

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cinevault/cinevault/pkg/auth"
	"github.com/cinevault/cinevault/pkg/cookie"
	"github.com/cinevault/cinevault/pkg/jwt"
	"github.com/cinevault/cinevault/pkg/logger"
)

// Cookie names mirror the response body fields so browser and API clients
// see the same token vocabulary.
const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
)

// Service wires the auth flows into HTTP handlers.
type Service struct {
	cfg       Config
	auth      *auth.Service
	validator *auth.SessionValidator
	cookies   *cookie.Manager
	extract   jwt.TokenExtractorFunc
	log       *slog.Logger
}

// NewService creates the HTTP auth service.
func NewService(cfg Config, authSvc *auth.Service, validator *auth.SessionValidator, log *slog.Logger) *Service {
	if log == nil {
		log = logger.Discard()
	}

	return &Service{
		cfg:       cfg,
		auth:      authSvc,
		validator: validator,
		cookies:   cookie.New(cookie.WithSecure(cfg.IsProduction())),
		extract: jwt.ChainExtractors(
			jwt.BearerTokenExtractor,
			jwt.CookieTokenExtractor(AccessTokenCookie),
		),
		log: log,
	}
}

// Handle returns the router for the auth endpoints.
func (s *Service) Handle() http.Handler {
	r := chi.NewRouter()

	r.Post("/signup", s.signUp)
	r.Post("/login", s.login)
	r.Post("/google-login", s.googleLogin)
	r.Post("/refresh-token", s.refreshToken)
	r.Post("/logout", s.logout)
	r.Post("/forgot-password", s.forgotPassword)
	r.Patch("/reset-password/{token}", s.resetPassword)

	return r
}
