package dune

import (
	"context"
	"net/http"
	"os"
	"reflect"
	"runtime"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/vitalvas/dune/router"
	"github.com/vitalvas/dune/schema"
)

// HandlerFunc handles one HTTP request. Handlers read from req and
// accumulate their output on resp; a returned error becomes a 500
// response.
type HandlerFunc func(ctx context.Context, req *Request, resp *Response) error

// API is the request-dispatch core: it owns the route table, runs the
// host gate, before-request hooks, and schema bindings around handlers,
// and encodes their output by content negotiation. It implements
// http.Handler, so it plugs directly into net/http.
type API struct {
	cfg    Config
	router *router.Router
	log    *zap.Logger

	schemaNames []string
	schemas     map[string]schema.Schema

	beforeHTTP []HandlerFunc
	beforeWS   []WebSocketHandler

	startup     []func(context.Context) error
	startupOnce sync.Once
	startupErr  error

	background sync.WaitGroup
	upgrader   websocket.Upgrader
}

// New builds an API from the given configuration. Static file, OpenAPI
// document, and docs routes are registered here when configured.
func New(cfg Config) *API {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	a := &API{
		cfg:     cfg,
		router:  router.New(),
		log:     log,
		schemas: make(map[string]schema.Schema),
		upgrader: websocket.Upgrader{
			// Origin policy is the host gate's and CORS config's job.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}

	if cfg.StaticDir != "" {
		a.Route(cfg.staticRoute()+"/{path:path}", a.staticHandler(os.DirFS(cfg.StaticDir))).Name("static")
	}
	if cfg.OpenAPIRoute != "" {
		a.Route(cfg.OpenAPIRoute, a.schemaResponse).Name("schema_response")
	}
	if cfg.DocsRoute != "" {
		a.Route(cfg.DocsRoute, a.docsResponse).Name("docs_response")
	}

	return a
}

// Route registers a single handler for a path pattern. The handler
// answers GET (and HEAD) unless Methods is called on the returned route.
// The route's endpoint identity defaults to the handler's function name
// and can be overridden with Name. Pattern compilation errors are fatal.
func (a *API) Route(pattern string, h HandlerFunc) *router.Route {
	return a.add(router.NewRoute(pattern, router.SingleHandler(funcName(h), h)))
}

// Resource registers a handler group for a path pattern. The allowed
// verbs are the ones the group implements; a group with an Any fallback
// accepts every verb.
func (a *API) Resource(pattern string, res *Resource) *router.Route {
	return a.add(router.NewRoute(pattern, res.endpoint()))
}

// Mount registers a foreign http.Handler under a path prefix. The
// handler accepts every verb and receives the request with the prefix
// stripped. Before-request hooks still run, but the mounted handler
// writes its response directly; schema bindings and content negotiation
// do not apply.
func (a *API) Mount(prefix string, h http.Handler) {
	prefix = strings.TrimSuffix(prefix, "/")
	name := "mount:" + prefix
	a.add(router.NewRoute(prefix+"/{path:path}", router.HandlerGroup(name, nil, h)))
	a.add(router.NewRoute(prefix, router.HandlerGroup(name, nil, h)))
}

// WebSocket registers a WebSocket route. The handler owns the session
// loop; the connection must be accepted by a before-request hook or by
// the handler itself before anything is sent.
func (a *API) WebSocket(pattern string, h WebSocketHandler) *router.Route {
	return a.add(router.NewRoute(pattern, router.SingleHandler(funcName(h), h)).WebSocket())
}

func (a *API) add(route *router.Route) *router.Route {
	if err := a.router.Add(route); err != nil {
		panic(err)
	}
	return route
}

// BeforeRequest adds a hook that runs after route matching and before
// schema bindings and the handler, for every HTTP route.
func (a *API) BeforeRequest(h HandlerFunc) {
	a.beforeHTTP = append(a.beforeHTTP, h)
}

// BeforeWebSocket adds a hook that runs once per WebSocket connection,
// before the route handler. The hook may accept the connection; sending
// before someone accepted it is an error.
func (a *API) BeforeWebSocket(h WebSocketHandler) {
	a.beforeWS = append(a.beforeWS, h)
}

// OnStartup registers a function that runs once before the first request
// is served. A startup failure is returned to every request as a 500.
func (a *API) OnStartup(fn func(context.Context) error) {
	a.startup = append(a.startup, fn)
}

// Schema registers a named schema for the OpenAPI document's component
// section.
func (a *API) Schema(name string, s schema.Schema) {
	if _, ok := a.schemas[name]; !ok {
		a.schemaNames = append(a.schemaNames, name)
	}
	a.schemas[name] = s
}

// URLFor builds the URL path for a registered endpoint identity.
func (a *API) URLFor(endpoint string, values map[string]any) (string, error) {
	return a.router.URLFor(endpoint, values)
}

// Router exposes the underlying route table, mainly so independent route
// providers can inspect it.
func (a *API) Router() *router.Router {
	return a.router
}

// Redirect points resp at location with 303 See Other.
func (a *API) Redirect(resp *Response, location string) {
	resp.Header.Set("Location", location)
	resp.StatusCode = http.StatusSeeOther
}

// Run serves the API on addr until the listener fails.
func (a *API) Run(addr string) error {
	if err := a.runStartup(context.Background()); err != nil {
		return err
	}
	return http.ListenAndServe(addr, a)
}

func (a *API) runStartup(ctx context.Context) error {
	a.startupOnce.Do(func() {
		for _, fn := range a.startup {
			if err := fn(ctx); err != nil {
				a.startupErr = err
				return
			}
		}
	})
	return a.startupErr
}

// funcName derives an endpoint identity from a handler's function name.
// Anonymous handlers come out as funcN and usually want an explicit
// Name on their route.
func funcName(h any) string {
	v := reflect.ValueOf(h)
	if v.Kind() != reflect.Func {
		return ""
	}
	f := runtime.FuncForPC(v.Pointer())
	if f == nil {
		return ""
	}
	name := f.Name()
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return strings.TrimSuffix(name, "-fm")
}
