package auth

import (
	"errors"
	"net/http"

	"github.com/cinevault/cinevault/core"
	"github.com/cinevault/cinevault/pkg/auth"
	"github.com/cinevault/cinevault/pkg/logger"
	"github.com/cinevault/cinevault/pkg/validator"
)

// respondError maps domain errors onto the HTTP taxonomy. Anything unmapped
// is logged and reported as a redacted 500.
func (s *Service) respondError(w http.ResponseWriter, err error) {
	switch {
	case validator.IsValidationError(err):
		core.RespondError(w, core.NewHTTPError(http.StatusBadRequest, err.Error()))
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrTokenInvalid),
		errors.Is(err, auth.ErrTokenSubjectGone),
		errors.Is(err, auth.ErrPasswordChanged):
		core.RespondError(w, core.NewHTTPError(http.StatusUnauthorized, err.Error()))
	case errors.Is(err, auth.ErrEmailAlreadyExists):
		core.RespondError(w, core.NewHTTPError(http.StatusConflict, err.Error()))
	case errors.Is(err, auth.ErrUserNotFound):
		core.RespondError(w, core.NewHTTPError(http.StatusNotFound, err.Error()))
	case errors.Is(err, auth.ErrResetTokenInvalid):
		core.RespondError(w, core.NewHTTPError(http.StatusBadRequest, err.Error()))
	default:
		s.log.Error("auth request failed", logger.Error(err), logger.Component("auth"))
		core.RespondError(w, err)
	}
}
