// Package router matches request paths against declarative templates and
// builds URLs back from endpoint identities.
//
// Templates contain literal segments and named placeholders:
//
//	/users/{id:int}
//	/files/{name}
//	/assets/{rest:path}
//
// Placeholders carry a converter (str, int, float, uuid, path; default
// str) that both narrows what the placeholder matches and coerces the
// matched text into a typed value. A Router holds routes in registration
// order and distinguishes four match outcomes: matched, path not found,
// method not allowed (with the advertised verb set), and protocol
// mismatch between HTTP and WebSocket routes.
//
// The package is transport-free: it never reads an *http.Request and never
// writes a response. The server layer feeds it a verb, a path, and a
// protocol flag.
package router
