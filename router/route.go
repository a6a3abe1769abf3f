package router

import (
	"fmt"
	"net/http"
	"sort"
	"sync/atomic"

	"github.com/vitalvas/dune/schema"
)

// Location names the part of a request a schema binding reads from.
type Location string

const (
	LocationBody    Location = "body"
	LocationQuery   Location = "query"
	LocationHeaders Location = "headers"
	LocationCookies Location = "cookies"
)

// Binding declares a validation (input) or serialization (output)
// contract between one request location and a schema.
type Binding struct {
	Location Location
	Schema   schema.Schema
}

// Endpoint is what a matched route dispatches to. Handlers are opaque to
// the router; the server layer defines their call signature. An endpoint
// is either a single handler covering every allowed verb, or a handler
// group with per-verb handlers and an optional catch-all fallback.
type Endpoint struct {
	name     string
	single   any
	verbs    map[string]any
	fallback any
}

// SingleHandler wraps one handler serving every allowed verb of its route.
func SingleHandler(name string, handler any) Endpoint {
	return Endpoint{name: name, single: handler}
}

// HandlerGroup wraps per-verb handlers plus an optional fallback invoked
// for verbs without a dedicated handler. A group with no handlers and no
// fallback accepts no verb at all.
func HandlerGroup(name string, verbs map[string]any, fallback any) Endpoint {
	return Endpoint{name: name, verbs: verbs, fallback: fallback}
}

// Name returns the endpoint identity used for reverse routing.
func (e Endpoint) Name() string { return e.name }

// Resolve selects the handler for a verb. For groups the dedicated verb
// handler wins over the fallback. The second return value is false when
// the endpoint has no handler for the verb.
func (e Endpoint) Resolve(verb string) (any, bool) {
	if e.single != nil {
		return e.single, true
	}
	if h, ok := e.verbs[verb]; ok {
		return h, true
	}
	if e.fallback != nil {
		return e.fallback, true
	}
	return nil, false
}

// Route binds a compiled path template to an endpoint, its allowed verbs,
// and its schema bindings. Routes are created through Router registration
// and must be fully configured before they serve their first match.
type Route struct {
	pattern   string
	tmpl      *Template
	endpoint  Endpoint
	methods   []string
	websocket bool

	inputs []Binding
	output *Binding

	frozen atomic.Bool
	err    error
}

// NewRoute compiles pattern and binds it to the endpoint. Configuration
// errors stick to the route and surface when it is added to a router.
func NewRoute(pattern string, endpoint Endpoint) *Route {
	r := &Route{pattern: pattern, endpoint: endpoint}
	tmpl, err := CompileTemplate(pattern)
	if err != nil {
		r.err = err
		return r
	}
	r.tmpl = tmpl
	if endpoint.single != nil {
		r.methods = []string{http.MethodGet, http.MethodHead}
	}
	return r
}

// Methods replaces the allowed verb set for a single-handler route.
// Without an explicit call, single handlers answer GET (and HEAD) only.
func (r *Route) Methods(methods ...string) *Route {
	if r.err != nil {
		return r
	}
	if r.frozen.Load() {
		r.err = ErrRouteFrozen
		return r
	}
	r.methods = append([]string(nil), methods...)
	return r
}

// WebSocket marks the route as a WebSocket route. WebSocket routes share
// the pattern machinery but a different handshake and lifecycle.
func (r *Route) WebSocket() *Route {
	r.websocket = true
	return r
}

// BindInput declares that the named request location must validate
// against the schema before the handler runs. Body bindings do not run
// for GET and HEAD requests, so a multi-verb route can validate its
// mutating verbs without rejecting bodyless reads. Attaching a binding
// after the route served its first match is rejected.
func (r *Route) BindInput(s schema.Schema, loc Location) *Route {
	if r.err != nil {
		return r
	}
	if r.frozen.Load() {
		r.err = ErrRouteFrozen
		return r
	}
	switch loc {
	case LocationBody, LocationQuery, LocationHeaders, LocationCookies:
	default:
		r.err = fmt.Errorf("router: unknown binding location %q", loc)
		return r
	}
	r.inputs = append(r.inputs, Binding{Location: loc, Schema: s})
	return r
}

// BindOutput declares the schema that serializes the handler's structured
// object output.
func (r *Route) BindOutput(s schema.Schema) *Route {
	if r.err != nil {
		return r
	}
	if r.frozen.Load() {
		r.err = ErrRouteFrozen
		return r
	}
	r.output = &Binding{Location: LocationBody, Schema: s}
	return r
}

// Name overrides the endpoint identity used for reverse routing.
func (r *Route) Name(name string) *Route {
	r.endpoint.name = name
	return r
}

// Pattern returns the original path template.
func (r *Route) Pattern() string { return r.pattern }

// Endpoint returns the route's endpoint.
func (r *Route) Endpoint() Endpoint { return r.endpoint }

// IsWebSocket reports whether the route serves WebSocket connections.
func (r *Route) IsWebSocket() bool { return r.websocket }

// Inputs returns the declared input bindings in attachment order.
func (r *Route) Inputs() []Binding { return r.inputs }

// Output returns the declared output binding, if any.
func (r *Route) Output() *Binding { return r.output }

// Template returns the compiled path template.
func (r *Route) Template() *Template { return r.tmpl }

// Err returns any configuration error that stuck to the route.
func (r *Route) Err() error { return r.err }

// Equal reports whether two routes share a pattern and endpoint identity.
func (r *Route) Equal(other *Route) bool {
	if other == nil {
		return false
	}
	return r.pattern == other.pattern && r.endpoint.name == other.endpoint.name
}

// allows reports whether the route accepts the verb.
func (r *Route) allows(verb string) bool {
	if r.websocket {
		return verb == http.MethodGet
	}
	if r.endpoint.single != nil {
		for _, m := range r.methods {
			if m == verb {
				return true
			}
		}
		return false
	}
	if _, ok := r.endpoint.verbs[verb]; ok {
		return true
	}
	return r.endpoint.fallback != nil
}

// AllowedMethods returns the verbs advertised in the Allow header: the
// explicitly declared verbs for single handlers, or the concretely
// implemented verbs for handler groups. A group fallback accepts any
// verb but advertises none.
func (r *Route) AllowedMethods() []string {
	var out []string
	if r.endpoint.single != nil {
		out = append(out, r.methods...)
	} else {
		for verb := range r.endpoint.verbs {
			out = append(out, verb)
		}
	}
	sort.Strings(out)
	return out
}

// freeze marks the route as having served a match. Frozen routes reject
// further binding attachment.
func (r *Route) freeze() {
	r.frozen.Store(true)
}
