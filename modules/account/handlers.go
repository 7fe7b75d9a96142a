package account

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cinevault/cinevault/core"
	"github.com/cinevault/cinevault/pkg/auth"
	"github.com/cinevault/cinevault/pkg/logger"
	"github.com/cinevault/cinevault/pkg/validator"
)

type userResponse struct {
	Status string       `json:"status"`
	Data   userEnvelope `json:"data"`
}

type userEnvelope struct {
	User auth.SanitizedUser `json:"user"`
}

func (s *Service) me(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		s.respondError(w, auth.ErrMissingToken)
		return
	}

	core.RespondJSON(w, http.StatusOK, userResponse{
		Status: core.StatusSuccess,
		Data:   userEnvelope{User: user.Sanitized()},
	})
}

type updateMeRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Photo    string `json:"photo"`
	Password string `json:"password"`
}

func (s *Service) updateMe(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		s.respondError(w, auth.ErrMissingToken)
		return
	}

	var req updateMeRequest
	if !s.decode(w, r, &req) {
		return
	}

	updated, err := s.auth.UpdateProfile(r.Context(), user.ID, req.Username, req.Email, req.Photo, req.Password)
	if err != nil {
		s.respondError(w, err)
		return
	}

	core.RespondJSON(w, http.StatusOK, userResponse{
		Status: core.StatusSuccess,
		Data:   userEnvelope{User: updated.Sanitized()},
	})
}

// deleteMe deactivates the account. The record is kept but vanishes from
// every lookup, so existing tokens stop resolving at the session gate.
func (s *Service) deleteMe(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		s.respondError(w, auth.ErrMissingToken)
		return
	}

	if err := s.auth.Deactivate(r.Context(), user.ID); err != nil {
		s.respondError(w, err)
		return
	}

	s.log.Info("account deactivated", logger.UserID(user.ID.String()), logger.Component("account"))
	w.WriteHeader(http.StatusNoContent)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
}

func (s *Service) changePassword(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		s.respondError(w, auth.ErrMissingToken)
		return
	}

	var req changePasswordRequest
	if !s.decode(w, r, &req) {
		return
	}

	if err := s.auth.ChangePassword(r.Context(), user.ID, req.CurrentPassword, req.Password, req.PasswordConfirm); err != nil {
		s.respondError(w, err)
		return
	}

	core.RespondJSON(w, http.StatusOK, map[string]string{
		"status":  core.StatusSuccess,
		"message": "password updated, please log in again",
	})
}

func (s *Service) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		core.RespondError(w, core.NewHTTPError(http.StatusBadRequest, "invalid request body"))
		return false
	}
	return true
}

func (s *Service) respondError(w http.ResponseWriter, err error) {
	switch {
	case validator.IsValidationError(err):
		core.RespondError(w, core.NewHTTPError(http.StatusBadRequest, err.Error()))
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrMissingToken):
		core.RespondError(w, core.NewHTTPError(http.StatusUnauthorized, err.Error()))
	case errors.Is(err, auth.ErrEmailAlreadyExists):
		core.RespondError(w, core.NewHTTPError(http.StatusConflict, err.Error()))
	case errors.Is(err, auth.ErrUserNotFound):
		core.RespondError(w, core.NewHTTPError(http.StatusNotFound, err.Error()))
	default:
		s.log.Error("account request failed", logger.Error(err), logger.Component("account"))
		core.RespondError(w, err)
	}
}
