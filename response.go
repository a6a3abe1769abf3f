package dune

import (
	"net/http"
	"time"

	"github.com/vitalvas/dune/media"
)

// Response accumulates the outgoing status, headers, cookies, and body
// for one request. A handler may set several body sources; the encoder
// resolves them by a fixed precedence:
//
//	Media > Obj > literal content (Text/HTML/Content) > Stream
//
// Structured Media and Obj go through content negotiation against the
// request's Accept value; literal content keeps the type its setter
// declared and bypasses negotiation entirely.
type Response struct {
	// StatusCode defaults to 200 when left zero.
	StatusCode int

	// Header collects outgoing headers; values are multi-value.
	Header http.Header

	// Media is a structured value encoded by content negotiation.
	Media any

	// Obj is a domain object (or slice of objects) serialized through
	// the route's output schema before negotiation.
	Obj any

	// Session holds the signed-cookie session values. Mutations are
	// written back as a re-signed cookie.
	Session map[string]any

	content     []byte
	contentType string
	stream      media.ChunkProducer
	cookies     []*http.Cookie
}

func newResponse() *Response {
	return &Response{
		Header:  make(http.Header),
		Session: make(map[string]any),
	}
}

// Text sets a literal plain-text body.
func (r *Response) Text(s string) {
	r.content = []byte(s)
	r.contentType = media.MIMEText
}

// HTML sets a literal HTML body.
func (r *Response) HTML(s string) {
	r.content = []byte(s)
	r.contentType = media.MIMEHTML
}

// Content sets a literal body with an explicit content type.
func (r *Response) Content(b []byte, contentType string) {
	r.content = b
	r.contentType = contentType
}

// Stream sets a lazily produced body. The source must be an incremental
// chunk producer (see media.Producer); anything else is rejected here,
// before any bytes are sent.
func (r *Response) Stream(source any) error {
	producer, err := media.Producer(source)
	if err != nil {
		return err
	}
	r.stream = producer
	return nil
}

// SetCookie adds a Set-Cookie header with full attribute control.
func (r *Response) SetCookie(c *http.Cookie) {
	r.cookies = append(r.cookies, c)
}

// SetCookieValue adds a bare session-scoped cookie.
func (r *Response) SetCookieValue(name, value string) {
	r.SetCookie(&http.Cookie{Name: name, Value: value})
}

// UnsetCookie tells the client to drop a cookie.
func (r *Response) UnsetCookie(name string) {
	r.SetCookie(&http.Cookie{
		Name:    name,
		Value:   "",
		Path:    "/",
		MaxAge:  -1,
		Expires: time.Unix(0, 0),
	})
}

func (r *Response) status() int {
	if r.StatusCode == 0 {
		return http.StatusOK
	}
	return r.StatusCode
}
