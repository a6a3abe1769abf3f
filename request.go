package dune

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"sync"

	"github.com/vitalvas/dune/media"
	"github.com/vitalvas/dune/router"
)

// Request is the read-only view of one incoming request handed to
// handlers, plus a mutable State bag for per-request values.
type Request struct {
	Method string
	URL    *url.URL
	Header http.Header
	Host   string

	// State carries per-request values between hooks and the handler.
	State map[string]any

	raw    *http.Request
	params router.Params

	bodyOnce sync.Once
	body     []byte
	bodyErr  error

	mediaOnce sync.Once
	decoded   *media.Decoded
	mediaErr  error

	validated map[router.Location]map[string]any
}

func newRequest(r *http.Request, params router.Params) *Request {
	return &Request{
		Method:    r.Method,
		URL:       r.URL,
		Header:    r.Header,
		Host:      r.Host,
		State:     make(map[string]any),
		raw:       r,
		params:    params,
		validated: make(map[router.Location]map[string]any),
	}
}

// Context returns the request's context; it is cancelled when the client
// disconnects.
func (r *Request) Context() context.Context {
	return r.raw.Context()
}

// Param returns the coerced path parameter by name, or nil.
func (r *Request) Param(name string) any {
	return r.params[name]
}

// PathParams returns all coerced path parameters.
func (r *Request) PathParams() router.Params {
	return r.params
}

// Params returns the query parameters with the last value winning for
// repeated keys.
func (r *Request) Params() map[string]string {
	values := r.URL.Query()
	out := make(map[string]string, len(values))
	for key, vals := range values {
		out[key] = vals[len(vals)-1]
	}
	return out
}

// Cookie returns the named request cookie value.
func (r *Request) Cookie(name string) (string, bool) {
	c, err := r.raw.Cookie(name)
	if err != nil {
		return "", false
	}
	return c.Value, true
}

// CookieValues returns all request cookies by name.
func (r *Request) CookieValues() map[string]string {
	cookies := r.raw.Cookies()
	out := make(map[string]string, len(cookies))
	for _, c := range cookies {
		out[c.Name] = c.Value
	}
	return out
}

// Bytes reads and caches the whole request body.
func (r *Request) Bytes() ([]byte, error) {
	r.bodyOnce.Do(func() {
		defer r.raw.Body.Close()
		r.body, r.bodyErr = io.ReadAll(r.raw.Body)
	})
	return r.body, r.bodyErr
}

// Text reads the request body as a string.
func (r *Request) Text() (string, error) {
	b, err := r.Bytes()
	return string(b), err
}

// Media decodes the request body by its Content-Type (JSON by default,
// YAML, urlencoded forms, multipart). The result is cached.
func (r *Request) Media() (*media.Decoded, error) {
	r.mediaOnce.Do(func() {
		body, err := r.Bytes()
		if err != nil {
			r.mediaErr = err
			return
		}
		decode, err := media.NegotiateIncoming(r.Header.Get("Content-Type"))
		if err != nil {
			r.mediaErr = err
			return
		}
		r.decoded, r.mediaErr = decode(bytes.NewReader(body), r.Header.Get("Content-Type"))
	})
	return r.decoded, r.mediaErr
}

// Data returns the validated body binding result.
func (r *Request) Data() map[string]any { return r.validated[router.LocationBody] }

// Query returns the validated query binding result.
func (r *Request) Query() map[string]any { return r.validated[router.LocationQuery] }

// Headers returns the validated header binding result.
func (r *Request) Headers() map[string]any { return r.validated[router.LocationHeaders] }

// Cookies returns the validated cookie binding result.
func (r *Request) Cookies() map[string]any { return r.validated[router.LocationCookies] }

func (r *Request) setValidated(loc router.Location, values map[string]any) {
	r.validated[loc] = values
}
