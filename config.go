package dune

import "go.uber.org/zap"

// Default values applied by New when the corresponding Config field is
// left empty.
const (
	DefaultStaticRoute    = "/static"
	DefaultOpenAPIVersion = "3.0.2"
)

// Config carries the process-wide options of an API. It is read once by
// New and treated as immutable for the process lifetime.
type Config struct {
	// AllowedHosts lists the hosts the API answers for: exact hostnames
	// or single leading-wildcard patterns like "*.example.com". Empty
	// means every host is allowed. Requests from other hosts are
	// rejected with 400 before any route matching.
	AllowedHosts []string

	// StaticDir serves files from this directory under StaticRoute when
	// set. Directory listings are not served.
	StaticDir string

	// StaticRoute is the URL prefix for static files
	// (default "/static").
	StaticRoute string

	// TemplatesDir is the directory the Template helper loads from.
	TemplatesDir string

	// CORS enables permissive cross-origin headers and preflight
	// handling.
	CORS bool

	// EnableHSTS sets the Strict-Transport-Security header on every
	// response.
	EnableHSTS bool

	// Title, Version, and Description fill the OpenAPI document info.
	Title       string
	Version     string
	Description string

	// OpenAPIVersion is the OpenAPI spec version advertised by the
	// document (default "3.0.2").
	OpenAPIVersion string

	// OpenAPIRoute serves the YAML OpenAPI document when set
	// (e.g. "/schema.yaml").
	OpenAPIRoute string

	// DocsRoute serves an HTML documentation page when set
	// (e.g. "/docs").
	DocsRoute string

	// SecretKey signs the session cookie. Sessions are disabled while
	// it is empty.
	SecretKey string

	// RaiseServerErrors re-panics handler failures instead of turning
	// them into 500 responses. Meant for tests that want to observe the
	// original error.
	RaiseServerErrors bool

	// Logger receives structured logs for server errors and background
	// task failures. Defaults to a no-op logger.
	Logger *zap.Logger
}

func (c *Config) staticRoute() string {
	if c.StaticRoute == "" {
		return DefaultStaticRoute
	}
	return c.StaticRoute
}

func (c *Config) openAPIVersion() string {
	if c.OpenAPIVersion == "" {
		return DefaultOpenAPIVersion
	}
	return c.OpenAPIVersion
}
