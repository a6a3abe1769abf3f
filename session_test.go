package dune

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessions(t *testing.T) {
	newAPI := func(secret string) *API {
		api := New(Config{SecretKey: secret})
		api.Route("/login", func(ctx context.Context, req *Request, resp *Response) error {
			resp.Session["user"] = "anna"
			return nil
		})
		api.Route("/whoami", func(ctx context.Context, req *Request, resp *Response) error {
			resp.Media = map[string]any{"user": resp.Session["user"]}
			return nil
		})
		return api
	}

	t.Run("round trip through the signed cookie", func(t *testing.T) {
		api := newAPI("s3cr3t")

		w := perform(api, httptest.NewRequest(http.MethodGet, "/login", nil))
		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, SessionCookie, cookies[0].Name)
		assert.True(t, cookies[0].HttpOnly)

		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.AddCookie(cookies[0])
		w = perform(api, req)
		assert.JSONEq(t, `{"user": "anna"}`, w.Body.String())
	})

	t.Run("tampered cookie yields an empty session", func(t *testing.T) {
		api := newAPI("s3cr3t")

		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "not-a-jwt"})
		w := perform(api, req)
		assert.JSONEq(t, `{"user": null}`, w.Body.String())
	})

	t.Run("cookie signed with another key is rejected", func(t *testing.T) {
		issuer := newAPI("first-key")
		w := perform(issuer, httptest.NewRequest(http.MethodGet, "/login", nil))
		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)

		verifier := newAPI("second-key")
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.AddCookie(cookies[0])
		w = perform(verifier, req)
		assert.JSONEq(t, `{"user": null}`, w.Body.String())
	})

	t.Run("no secret disables sessions", func(t *testing.T) {
		api := newAPI("")
		w := perform(api, httptest.NewRequest(http.MethodGet, "/login", nil))
		assert.Empty(t, w.Result().Cookies())
	})

	t.Run("empty session writes no cookie", func(t *testing.T) {
		api := New(Config{SecretKey: "s3cr3t"})
		api.Route("/plain", textHandler("hi"))

		w := perform(api, httptest.NewRequest(http.MethodGet, "/plain", nil))
		assert.Empty(t, w.Result().Cookies())
	})
}
