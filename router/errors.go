package router

import (
	"errors"
	"fmt"
)

// CompileError reports a path template that cannot be compiled:
// unbalanced braces, an empty or duplicate parameter name, or an
// unknown converter. It is fatal at registration time.
type CompileError struct {
	Pattern string
	Reason  string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("router: cannot compile %q: %s", e.Pattern, e.Reason)
}

// RoutingError reports a failed reverse lookup: the endpoint was never
// registered, or a required parameter is missing or invalid. It is a
// caller error, never turned into a response.
type RoutingError struct {
	Endpoint string
	Reason   string
}

func (e *RoutingError) Error() string {
	return fmt.Sprintf("router: url for %q: %s", e.Endpoint, e.Reason)
}

// ErrRouteFrozen is returned when a schema binding is attached to a route
// that has already served a match. Bindings must be declared before the
// route is used.
var ErrRouteFrozen = errors.New("router: route is frozen, bindings must be attached before the first match")
