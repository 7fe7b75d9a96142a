package cookie_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinevault/cinevault/pkg/cookie"
)

func TestManager(t *testing.T) {
	t.Parallel()

	t.Run("set applies defaults", func(t *testing.T) {
		t.Parallel()

		m := cookie.New(cookie.WithSecure(true))
		w := httptest.NewRecorder()
		m.Set(w, "accessToken", "tok", cookie.WithMaxAge(900))

		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		c := cookies[0]
		assert.Equal(t, "accessToken", c.Name)
		assert.Equal(t, "tok", c.Value)
		assert.Equal(t, "/", c.Path)
		assert.Equal(t, 900, c.MaxAge)
		assert.True(t, c.HttpOnly)
		assert.True(t, c.Secure)
		assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	})

	t.Run("get", func(t *testing.T) {
		t.Parallel()

		m := cookie.New()
		r := httptest.NewRequest("GET", "/", nil)
		r.AddCookie(&http.Cookie{Name: "refreshToken", Value: "tok"})

		v, err := m.Get(r, "refreshToken")
		require.NoError(t, err)
		assert.Equal(t, "tok", v)

		_, err = m.Get(r, "missing")
		assert.ErrorIs(t, err, cookie.ErrCookieNotFound)
	})

	t.Run("delete expires cookie", func(t *testing.T) {
		t.Parallel()

		m := cookie.New()
		w := httptest.NewRecorder()
		m.Delete(w, "accessToken")

		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, -1, cookies[0].MaxAge)
		assert.Empty(t, cookies[0].Value)
	})
}
