package dune

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestHelpers(t *testing.T) {
	t.Run("query params keep the last value", func(t *testing.T) {
		raw := httptest.NewRequest(http.MethodGet, "/x?a=1&a=2&b=3", nil)
		req := newRequest(raw, nil)
		assert.Equal(t, map[string]string{"a": "2", "b": "3"}, req.Params())
	})

	t.Run("body is read once and cached", func(t *testing.T) {
		raw := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader("payload"))
		req := newRequest(raw, nil)

		first, err := req.Bytes()
		require.NoError(t, err)
		second, err := req.Bytes()
		require.NoError(t, err)
		assert.Equal(t, "payload", string(first))
		assert.Equal(t, first, second)
	})

	t.Run("text view of the body", func(t *testing.T) {
		raw := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader("hello"))
		req := newRequest(raw, nil)

		text, err := req.Text()
		require.NoError(t, err)
		assert.Equal(t, "hello", text)
	})

	t.Run("media decodes by content type and caches", func(t *testing.T) {
		raw := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(`{"a": 1}`))
		raw.Header.Set("Content-Type", "application/json")
		req := newRequest(raw, nil)

		decoded, err := req.Media()
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"a": float64(1)}, decoded.Map())

		again, err := req.Media()
		require.NoError(t, err)
		assert.Same(t, decoded, again)
	})

	t.Run("media error is sticky", func(t *testing.T) {
		raw := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader("raw"))
		raw.Header.Set("Content-Type", "application/octet-stream")
		req := newRequest(raw, nil)

		_, err := req.Media()
		require.Error(t, err)
		_, again := req.Media()
		assert.Equal(t, err, again)
	})

	t.Run("cookie values", func(t *testing.T) {
		raw := httptest.NewRequest(http.MethodGet, "/x", nil)
		raw.AddCookie(&http.Cookie{Name: "a", Value: "1"})
		raw.AddCookie(&http.Cookie{Name: "b", Value: "2"})
		req := newRequest(raw, nil)

		assert.Equal(t, map[string]string{"a": "1", "b": "2"}, req.CookieValues())

		v, ok := req.Cookie("a")
		assert.True(t, ok)
		assert.Equal(t, "1", v)

		_, ok = req.Cookie("missing")
		assert.False(t, ok)
	})
}
