package auth

import (
	"net/http"

	"github.com/cinevault/cinevault/core"
	"github.com/cinevault/cinevault/pkg/auth"
	"github.com/cinevault/cinevault/pkg/cookie"
)

type tokenResponse struct {
	Status       string       `json:"status"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	Data         userEnvelope `json:"data"`
}

type userEnvelope struct {
	User auth.SanitizedUser `json:"user"`
}

// sendTokens sets both token cookies and echoes the tokens in the body
// alongside the sanitized user. Flows that created the account respond 201.
func (s *Service) sendTokens(w http.ResponseWriter, res *auth.AuthResult) {
	s.cookies.Set(w, AccessTokenCookie, res.AccessToken,
		cookie.WithMaxAge(int(s.cfg.AccessCookieTTL.Seconds())))
	s.cookies.Set(w, RefreshTokenCookie, res.RefreshToken,
		cookie.WithMaxAge(int(s.cfg.RefreshCookieTTL.Seconds())))

	status := http.StatusOK
	if res.Created {
		status = http.StatusCreated
	}

	core.RespondJSON(w, status, tokenResponse{
		Status:       core.StatusSuccess,
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
		Data:         userEnvelope{User: res.User.Sanitized()},
	})
}
