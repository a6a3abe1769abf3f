package dune

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/vitalvas/dune/schema"
)

func TestOpenAPIDocument(t *testing.T) {
	newAPI := func() *API {
		api := New(Config{
			Title:        "Pet Store",
			Version:      "1.2.3",
			Description:  "pets as a service",
			OpenAPIRoute: "/schema.yaml",
			DocsRoute:    "/docs",
			StaticDir:    t.TempDir(),
		})
		api.Schema("Pet", schema.Fields{
			"name":  {Type: schema.String, Required: true},
			"price": {Type: schema.Float},
			"alive": {Type: schema.Bool, Default: true},
		})
		api.Route("/pets", textHandler("pets")).Name("list_pets")
		api.Resource("/pets/{id:int}", NewResource("pet").
			Get(textHandler("get")).
			Delete(textHandler("delete")))
		return api
	}

	fetch := func(t *testing.T, api *API) map[string]any {
		t.Helper()
		w := perform(api, httptest.NewRequest(http.MethodGet, "/schema.yaml", nil))
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "application/x-yaml", w.Header().Get("Content-Type"))

		doc := make(map[string]any)
		require.NoError(t, yaml.Unmarshal(w.Body.Bytes(), &doc))
		return doc
	}

	t.Run("info section", func(t *testing.T) {
		doc := fetch(t, newAPI())
		assert.Equal(t, "3.0.2", doc["openapi"])

		info, ok := doc["info"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "Pet Store", info["title"])
		assert.Equal(t, "1.2.3", info["version"])
		assert.Equal(t, "pets as a service", info["description"])
	})

	t.Run("paths from the route table", func(t *testing.T) {
		doc := fetch(t, newAPI())
		paths, ok := doc["paths"].(map[string]any)
		require.True(t, ok)

		pets, ok := paths["/pets"].(map[string]any)
		require.True(t, ok)
		assert.Contains(t, pets, "get")
		assert.Contains(t, pets, "head")

		pet, ok := paths["/pets/{id:int}"].(map[string]any)
		require.True(t, ok)
		assert.Contains(t, pet, "get")
		assert.Contains(t, pet, "delete")
		assert.NotContains(t, pet, "post")
	})

	t.Run("infrastructure routes are hidden", func(t *testing.T) {
		doc := fetch(t, newAPI())
		paths := doc["paths"].(map[string]any)
		assert.NotContains(t, paths, "/schema.yaml")
		assert.NotContains(t, paths, "/docs")
		assert.NotContains(t, paths, "/static/{path:path}")
	})

	t.Run("components from registered schemas", func(t *testing.T) {
		doc := fetch(t, newAPI())
		components, ok := doc["components"].(map[string]any)
		require.True(t, ok)
		schemas := components["schemas"].(map[string]any)
		pet, ok := schemas["Pet"].(map[string]any)
		require.True(t, ok)

		assert.Equal(t, "object", pet["type"])
		assert.Equal(t, []any{"name"}, pet["required"])

		props := pet["properties"].(map[string]any)
		assert.Equal(t, map[string]any{"type": "string"}, props["name"])
		assert.Equal(t, map[string]any{"type": "number"}, props["price"])
		assert.Equal(t, map[string]any{"type": "boolean", "default": true}, props["alive"])
	})

	t.Run("docs page references the schema route", func(t *testing.T) {
		api := newAPI()
		w := perform(api, httptest.NewRequest(http.MethodGet, "/docs", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "text/html", w.Header().Get("Content-Type"))
		assert.Contains(t, w.Body.String(), `spec-url="/schema.yaml"`)
		assert.Contains(t, w.Body.String(), "Pet Store")
	})
}
