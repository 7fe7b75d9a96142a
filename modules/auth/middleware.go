package auth

import (
	"net/http"

	"github.com/cinevault/cinevault/pkg/auth"
)

// Protect guards a route subtree. The access token is taken from the
// Authorization header, falling back to the accessToken cookie; on any gate
// failure the chain is short-circuited with a 401 and the handler never runs.
func (s *Service) Protect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, _ := s.extract(r)

		user, err := s.validator.Validate(r.Context(), token)
		if err != nil {
			s.respondError(w, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.WithUser(r.Context(), user)))
	})
}
