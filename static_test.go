package dune

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "css"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "css", "site.css"), []byte("body {}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html></html>"), 0o644))

	api := New(Config{StaticDir: dir})

	t.Run("serves nested files with content type", func(t *testing.T) {
		w := perform(api, httptest.NewRequest(http.MethodGet, "/static/css/site.css", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "body {}", w.Body.String())
		assert.Contains(t, w.Header().Get("Content-Type"), "text/css")
	})

	t.Run("missing file answers 404", func(t *testing.T) {
		w := perform(api, httptest.NewRequest(http.MethodGet, "/static/nope.txt", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("directories are never listed", func(t *testing.T) {
		w := perform(api, httptest.NewRequest(http.MethodGet, "/static/css", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("no traversal out of the root", func(t *testing.T) {
		w := perform(api, httptest.NewRequest(http.MethodGet, "/static/../secret", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("custom static route", func(t *testing.T) {
		custom := New(Config{StaticDir: dir, StaticRoute: "/assets"})
		w := perform(custom, httptest.NewRequest(http.MethodGet, "/assets/index.html", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("reverse routing by name", func(t *testing.T) {
		path, err := api.URLFor("static", map[string]any{"path": "css/site.css"})
		require.NoError(t, err)
		assert.Equal(t, "/static/css/site.css", path)
	})
}
