package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cinevault/cinevault/core"
	"github.com/cinevault/cinevault/pkg/cookie"
	"github.com/cinevault/cinevault/pkg/logger"
)

type signUpRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
}

func (s *Service) signUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if !s.decode(w, r, &req) {
		return
	}

	res, err := s.auth.SignUp(r.Context(), req.Username, req.Email, req.Password, req.PasswordConfirm)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.log.Info("user signed up", logger.UserID(res.User.ID.String()), logger.Component("auth"))
	s.sendTokens(w, res)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Service) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !s.decode(w, r, &req) {
		return
	}

	res, err := s.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.sendTokens(w, res)
}

type googleLoginRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Photo    string `json:"photo"`
}

// googleLogin signs in an identity already verified by the client-side
// provider flow. No provider handshake happens here.
func (s *Service) googleLogin(w http.ResponseWriter, r *http.Request) {
	var req googleLoginRequest
	if !s.decode(w, r, &req) {
		return
	}

	res, err := s.auth.ExternalLogin(r.Context(), req.Email, req.Username, req.Photo)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.sendTokens(w, res)
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// refreshToken accepts the refresh token from the cookie or, failing that,
// the request body.
func (s *Service) refreshToken(w http.ResponseWriter, r *http.Request) {
	token, err := s.cookies.Get(r, RefreshTokenCookie)
	if err != nil && !errors.Is(err, cookie.ErrCookieNotFound) {
		s.respondError(w, err)
		return
	}

	if token == "" {
		// Cookie clients send no body; an absent token fails auth below.
		var req refreshRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		token = req.RefreshToken
	}

	res, err := s.auth.Refresh(r.Context(), token)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.sendTokens(w, res)
}

func (s *Service) logout(w http.ResponseWriter, r *http.Request) {
	s.cookies.Delete(w, AccessTokenCookie)
	s.cookies.Delete(w, RefreshTokenCookie)

	core.RespondJSON(w, http.StatusOK, map[string]string{"status": core.StatusSuccess})
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type forgotPasswordResponse struct {
	Status     string `json:"status"`
	Message    string `json:"message"`
	ResetToken string `json:"resetToken"`
}

// forgotPassword issues a reset token for the account. The plaintext token is
// returned in the response body; it is never persisted and cannot be
// recovered afterwards.
func (s *Service) forgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if !s.decode(w, r, &req) {
		return
	}

	reset, err := s.auth.CreatePasswordResetToken(r.Context(), req.Email)
	if err != nil {
		s.respondError(w, err)
		return
	}

	core.RespondJSON(w, http.StatusOK, forgotPasswordResponse{
		Status:     core.StatusSuccess,
		Message:    "reset token issued",
		ResetToken: reset.Token,
	})
}

type resetPasswordRequest struct {
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
}

func (s *Service) resetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if !s.decode(w, r, &req) {
		return
	}

	res, err := s.auth.ResetPassword(r.Context(), chi.URLParam(r, "token"), req.Password, req.PasswordConfirm)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.sendTokens(w, res)
}

// decode reads a JSON body into v, replying 400 on malformed input. Returns
// false when the response has already been written.
func (s *Service) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		core.RespondError(w, core.NewHTTPError(http.StatusBadRequest, "invalid request body"))
		return false
	}
	return true
}
