// Package account exposes the authenticated user's self-service endpoints:
// profile read and update, password change, and account deactivation. Every
// route assumes the session gate already ran and bound the user to the
// request context.
package account

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cinevault/cinevault/pkg/auth"
	"github.com/cinevault/cinevault/pkg/logger"
)

// Service wires the account endpoints into HTTP handlers.
type Service struct {
	auth *auth.Service
	log  *slog.Logger
}

// NewService creates the HTTP account service.
func NewService(authSvc *auth.Service, log *slog.Logger) *Service {
	if log == nil {
		log = logger.Discard()
	}
	return &Service{auth: authSvc, log: log}
}

// Handle returns the router for the account endpoints.
func (s *Service) Handle() http.Handler {
	r := chi.NewRouter()

	r.Get("/me", s.me)
	r.Patch("/me", s.updateMe)
	r.Delete("/me", s.deleteMe)
	r.Patch("/change-password", s.changePassword)

	return r
}
