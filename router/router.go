package router

import "sort"

// MatchKind classifies the outcome of a router match.
type MatchKind int

const (
	// Matched means a route accepted the path, verb, and protocol.
	Matched MatchKind = iota

	// PathNotFound means no route pattern matched the path at all.
	PathNotFound

	// MethodNotAllowed means at least one route matched the path but
	// none of them accepts the verb.
	MethodNotAllowed

	// ProtocolMismatch means the path matched only routes of the other
	// protocol (a WebSocket request against HTTP routes or vice versa).
	ProtocolMismatch
)

// MatchResult is the outcome of matching one request against the table.
type MatchResult struct {
	Kind   MatchKind
	Route  *Route
	Params Params

	// Allowed lists the advertised verbs when Kind is MethodNotAllowed.
	Allowed []string
}

// Router is an ordered route table. Registration order is match
// precedence. The table is read-only once the server starts taking
// requests; no locking is done on the match path.
type Router struct {
	routes []*Route
	byName map[string]*Route
}

// New returns an empty route table.
func New() *Router {
	return &Router{byName: make(map[string]*Route)}
}

// Add appends a route to the table and indexes it by endpoint identity
// for reverse routing. Registering two routes with an identical pattern
// is permitted; both stay addressable by name. Configuration errors from
// the route builder surface here.
func (r *Router) Add(route *Route) error {
	if err := route.Err(); err != nil {
		return err
	}
	r.routes = append(r.routes, route)
	if name := route.endpoint.name; name != "" {
		r.byName[name] = route
	}
	return nil
}

// Routes returns the registered routes in registration order.
func (r *Router) Routes() []*Route {
	return r.routes
}

// Match finds the route for a verb, path, and protocol. Routes are tried
// in registration order; the first route whose pattern, protocol, and
// verb all fit wins. A path that matched only with the wrong verb keeps
// scanning to the end so a later route with the same pattern and a
// different verb set can still take the request; only then is
// MethodNotAllowed reported, with the union of advertised verbs.
func (r *Router) Match(verb, path string, websocket bool) MatchResult {
	var (
		methodMismatch bool
		protoMismatch  bool
		allowed        []string
	)

	for _, route := range r.routes {
		params, ok := route.tmpl.Match(path)
		if !ok {
			continue
		}
		if route.websocket != websocket {
			protoMismatch = true
			continue
		}
		if !route.allows(verb) {
			methodMismatch = true
			allowed = mergeVerbs(allowed, route.AllowedMethods())
			continue
		}
		route.freeze()
		return MatchResult{Kind: Matched, Route: route, Params: params}
	}

	if methodMismatch {
		sort.Strings(allowed)
		return MatchResult{Kind: MethodNotAllowed, Allowed: allowed}
	}
	if protoMismatch {
		return MatchResult{Kind: ProtocolMismatch}
	}
	return MatchResult{Kind: PathNotFound}
}

// URLFor builds a concrete URL path for a registered endpoint identity.
// It fails with a *RoutingError when the endpoint was never registered or
// a required parameter is absent or invalid.
func (r *Router) URLFor(endpoint string, values map[string]any) (string, error) {
	route, ok := r.byName[endpoint]
	if !ok {
		return "", &RoutingError{Endpoint: endpoint, Reason: "endpoint not registered"}
	}
	path, err := route.tmpl.Format(values)
	if err != nil {
		return "", &RoutingError{Endpoint: endpoint, Reason: err.Error()}
	}
	return path, nil
}

// Get returns the route registered under the given endpoint identity.
func (r *Router) Get(endpoint string) *Route {
	return r.byName[endpoint]
}

func mergeVerbs(dst, add []string) []string {
	for _, v := range add {
		found := false
		for _, d := range dst {
			if d == v {
				found = true
				break
			}
		}
		if !found {
			dst = append(dst, v)
		}
	}
	return dst
}
