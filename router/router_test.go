package router

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func handler() any { return "handler" }

func addRoute(t *testing.T, r *Router, route *Route) *Route {
	t.Helper()
	require.NoError(t, r.Add(route))
	return route
}

func TestRouterMatch(t *testing.T) {
	t.Run("first registered wins", func(t *testing.T) {
		r := New()
		first := addRoute(t, r, NewRoute("/users/{id:int}", SingleHandler("first", handler())))
		addRoute(t, r, NewRoute("/users/{id:int}", SingleHandler("second", handler())))

		result := r.Match(http.MethodGet, "/users/7", false)
		require.Equal(t, Matched, result.Kind)
		assert.True(t, result.Route.Equal(first))
		assert.Equal(t, int64(7), result.Params["id"])
	})

	t.Run("coercion failure falls through to next route", func(t *testing.T) {
		r := New()
		addRoute(t, r, NewRoute("/items/{id:int}", SingleHandler("by_id", handler())))
		addRoute(t, r, NewRoute("/items/{slug}", SingleHandler("by_slug", handler())))

		result := r.Match(http.MethodGet, "/items/rope", false)
		require.Equal(t, Matched, result.Kind)
		assert.Equal(t, "by_slug", result.Route.Endpoint().Name())
		assert.Equal(t, "rope", result.Params["slug"])
	})

	t.Run("path not found", func(t *testing.T) {
		r := New()
		addRoute(t, r, NewRoute("/users", SingleHandler("users", handler())))

		result := r.Match(http.MethodGet, "/posts", false)
		assert.Equal(t, PathNotFound, result.Kind)
	})

	t.Run("method not allowed collects verb union", func(t *testing.T) {
		r := New()
		addRoute(t, r, NewRoute("/users", SingleHandler("list", handler())))
		addRoute(t, r, NewRoute("/users", SingleHandler("create", handler())).Methods(http.MethodPost))

		result := r.Match(http.MethodDelete, "/users", false)
		require.Equal(t, MethodNotAllowed, result.Kind)
		assert.Equal(t, []string{"GET", "HEAD", "POST"}, result.Allowed)
	})

	t.Run("later route with same pattern resolves the verb", func(t *testing.T) {
		r := New()
		addRoute(t, r, NewRoute("/users", SingleHandler("list", handler())))
		addRoute(t, r, NewRoute("/users", SingleHandler("create", handler())).Methods(http.MethodPost))

		result := r.Match(http.MethodPost, "/users", false)
		require.Equal(t, Matched, result.Kind)
		assert.Equal(t, "create", result.Route.Endpoint().Name())
	})

	t.Run("single handler defaults to GET and HEAD", func(t *testing.T) {
		r := New()
		addRoute(t, r, NewRoute("/users", SingleHandler("list", handler())))

		assert.Equal(t, Matched, r.Match(http.MethodGet, "/users", false).Kind)
		assert.Equal(t, Matched, r.Match(http.MethodHead, "/users", false).Kind)
		assert.Equal(t, MethodNotAllowed, r.Match(http.MethodPost, "/users", false).Kind)
	})

	t.Run("protocol mismatch", func(t *testing.T) {
		r := New()
		addRoute(t, r, NewRoute("/ws", SingleHandler("ws", handler())).WebSocket())

		result := r.Match(http.MethodGet, "/ws", false)
		assert.Equal(t, ProtocolMismatch, result.Kind)

		result = r.Match(http.MethodGet, "/ws", true)
		assert.Equal(t, Matched, result.Kind)
	})

	t.Run("websocket route only matches GET", func(t *testing.T) {
		r := New()
		addRoute(t, r, NewRoute("/ws", SingleHandler("ws", handler())).WebSocket())

		result := r.Match(http.MethodPost, "/ws", true)
		assert.Equal(t, MethodNotAllowed, result.Kind)
	})
}

func TestRouterHandlerGroups(t *testing.T) {
	group := func(fallback any) Endpoint {
		return HandlerGroup("pets", map[string]any{
			http.MethodGet:  "get",
			http.MethodPost: "post",
		}, fallback)
	}

	t.Run("dedicated verb wins over fallback", func(t *testing.T) {
		r := New()
		addRoute(t, r, NewRoute("/pets", group("any")))

		result := r.Match(http.MethodGet, "/pets", false)
		require.Equal(t, Matched, result.Kind)

		h, ok := result.Route.Endpoint().Resolve(http.MethodGet)
		require.True(t, ok)
		assert.Equal(t, "get", h)
	})

	t.Run("fallback takes unlisted verbs", func(t *testing.T) {
		r := New()
		addRoute(t, r, NewRoute("/pets", group("any")))

		result := r.Match(http.MethodDelete, "/pets", false)
		require.Equal(t, Matched, result.Kind)

		h, ok := result.Route.Endpoint().Resolve(http.MethodDelete)
		require.True(t, ok)
		assert.Equal(t, "any", h)
	})

	t.Run("no fallback means 405 for unlisted verbs", func(t *testing.T) {
		r := New()
		addRoute(t, r, NewRoute("/pets", group(nil)))

		result := r.Match(http.MethodDelete, "/pets", false)
		require.Equal(t, MethodNotAllowed, result.Kind)
		assert.Equal(t, []string{"GET", "POST"}, result.Allowed)
	})

	t.Run("fallback advertises no verbs", func(t *testing.T) {
		route := NewRoute("/pets", group("any"))
		assert.Equal(t, []string{"GET", "POST"}, route.AllowedMethods())
	})

	t.Run("empty group accepts nothing", func(t *testing.T) {
		r := New()
		addRoute(t, r, NewRoute("/pets", HandlerGroup("pets", nil, nil)))

		result := r.Match(http.MethodGet, "/pets", false)
		assert.Equal(t, MethodNotAllowed, result.Kind)
		assert.Empty(t, result.Allowed)
	})
}

func TestRouterAdd(t *testing.T) {
	t.Run("surfaces compile errors", func(t *testing.T) {
		r := New()
		err := r.Add(NewRoute("/users/{", SingleHandler("broken", handler())))
		var cerr *CompileError
		require.ErrorAs(t, err, &cerr)
	})

	t.Run("surfaces builder errors", func(t *testing.T) {
		r := New()
		route := NewRoute("/users", SingleHandler("users", handler()))
		route.BindInput(nil, Location("form"))
		assert.Error(t, r.Add(route))
	})

	t.Run("duplicate patterns are permitted", func(t *testing.T) {
		r := New()
		addRoute(t, r, NewRoute("/users", SingleHandler("a", handler())))
		addRoute(t, r, NewRoute("/users", SingleHandler("b", handler())))
		assert.Len(t, r.Routes(), 2)
	})
}

func TestRouterURLFor(t *testing.T) {
	t.Run("builds url for endpoint", func(t *testing.T) {
		r := New()
		addRoute(t, r, NewRoute("/users/{id:int}", SingleHandler("get_user", handler())))

		path, err := r.URLFor("get_user", map[string]any{"id": int64(12)})
		require.NoError(t, err)
		assert.Equal(t, "/users/12", path)
	})

	t.Run("unknown endpoint", func(t *testing.T) {
		r := New()
		_, err := r.URLFor("missing", nil)
		var rerr *RoutingError
		require.ErrorAs(t, err, &rerr)
		assert.Equal(t, "missing", rerr.Endpoint)
	})

	t.Run("missing parameter", func(t *testing.T) {
		r := New()
		addRoute(t, r, NewRoute("/users/{id:int}", SingleHandler("get_user", handler())))

		_, err := r.URLFor("get_user", map[string]any{})
		var rerr *RoutingError
		require.ErrorAs(t, err, &rerr)
	})

	t.Run("last registration wins the name", func(t *testing.T) {
		r := New()
		addRoute(t, r, NewRoute("/old", SingleHandler("page", handler())))
		addRoute(t, r, NewRoute("/new", SingleHandler("page", handler())))

		path, err := r.URLFor("page", nil)
		require.NoError(t, err)
		assert.Equal(t, "/new", path)
	})
}

func TestRouteFreeze(t *testing.T) {
	r := New()
	route := addRoute(t, r, NewRoute("/users", SingleHandler("users", handler())))

	result := r.Match(http.MethodGet, "/users", false)
	require.Equal(t, Matched, result.Kind)

	route.BindInput(nil, LocationQuery)
	assert.ErrorIs(t, route.Err(), ErrRouteFrozen)
}

func TestRouteGet(t *testing.T) {
	r := New()
	route := addRoute(t, r, NewRoute("/users", SingleHandler("users", handler())))

	assert.True(t, route.Equal(r.Get("users")))
	assert.Nil(t, r.Get("missing"))
}
