// Package media negotiates wire representations and decodes request
// bodies.
//
// Outgoing structured data encodes as JSON by default and as YAML when
// the request's Accept value asks for it. Literal text and HTML bodies
// bypass negotiation entirely. Incoming bodies are classified by
// Content-Type: JSON, YAML, urlencoded forms, and multipart forms with a
// strict separation between file parts and plain fields.
//
// Streaming bodies are modelled as chunk producers; anything that is not
// a lazy, incremental producer is rejected with a distinct error before
// a single byte is written.
package media
