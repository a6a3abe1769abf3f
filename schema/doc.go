// Package schema validates request data and serializes response objects
// against declared field sets.
//
// The Schema interface is deliberately narrow so any validation
// technology can back a route binding. Fields is the built-in
// implementation: a declarative map of typed fields with required flags,
// defaults, and wire-key overrides.
package schema
