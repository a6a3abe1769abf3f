package dune

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/vitalvas/dune/media"
	"github.com/vitalvas/dune/router"
	"github.com/vitalvas/dune/schema"
)

// ServeHTTP dispatches one request: host gate, route match, hooks,
// schema bindings, handler, and response encoding, in that order.
func (a *API) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := a.runStartup(r.Context()); err != nil {
		a.log.Error("startup failed", zap.Error(err))
		writeJSONError(w, http.StatusInternalServerError, "startup failed")
		return
	}

	if !hostAllowed(r.Host, a.cfg.AllowedHosts) {
		writeJSONError(w, http.StatusBadRequest, "host not allowed")
		return
	}

	requestID := r.Header.Get("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	w.Header().Set("X-Request-ID", requestID)

	if !a.applySecure(w, r) {
		return
	}

	isWS := websocket.IsWebSocketUpgrade(r)
	result := a.router.Match(r.Method, r.URL.Path, isWS)

	switch result.Kind {
	case router.PathNotFound, router.ProtocolMismatch:
		writeJSONError(w, http.StatusNotFound, "not found")
	case router.MethodNotAllowed:
		w.Header().Set("Allow", strings.Join(result.Allowed, ", "))
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
	case router.Matched:
		if isWS {
			a.serveWebSocket(w, r, result)
			return
		}
		a.serveRoute(w, r, result)
	}
}

func (a *API) serveRoute(w http.ResponseWriter, r *http.Request, result router.MatchResult) {
	ctx := r.Context()
	req := newRequest(r, result.Params)
	resp := newResponse()
	resp.Session = a.loadSession(r)

	for _, hook := range a.beforeHTTP {
		if err := hook(ctx, req, resp); err != nil {
			a.serverError(w, r, err)
			return
		}
	}

	if !a.bindInputs(req, resp, result.Route) {
		a.writeResponse(w, r, result.Route, resp)
		return
	}

	h, ok := result.Route.Endpoint().Resolve(r.Method)
	if !ok {
		w.Header().Set("Allow", strings.Join(result.Route.AllowedMethods(), ", "))
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	switch handler := h.(type) {
	case HandlerFunc:
		if err := a.invoke(ctx, handler, req, resp); err != nil {
			a.serverError(w, r, err)
			return
		}
		a.writeResponse(w, r, result.Route, resp)

	case http.Handler:
		a.serveMounted(w, r, result.Route, handler)

	default:
		a.serverError(w, r, fmt.Errorf("dune: endpoint %q is not a HandlerFunc", result.Route.Endpoint().Name()))
	}
}

// serveMounted delegates to a handler registered with Mount. The mount
// prefix is stripped so the foreign handler sees its own path space.
func (a *API) serveMounted(w http.ResponseWriter, r *http.Request, route *router.Route, h http.Handler) {
	prefix := strings.TrimSuffix(route.Pattern(), "/{path:path}")
	r2 := r.Clone(r.Context())
	r2.URL.Path = strings.TrimPrefix(r.URL.Path, prefix)
	if r2.URL.Path == "" {
		r2.URL.Path = "/"
	}
	h.ServeHTTP(w, r2)
}

// invoke runs the handler, turning a panic into an error so one bad
// request cannot take the process down.
func (a *API) invoke(ctx context.Context, handler HandlerFunc, req *Request, resp *Response) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("dune: handler panic: %v", p)
		}
	}()
	return handler(ctx, req, resp)
}

// serverError answers a handler failure with 500. With
// RaiseServerErrors set, the error is re-raised to the caller instead,
// so tests can observe the original failure.
func (a *API) serverError(w http.ResponseWriter, r *http.Request, err error) {
	a.log.Error("handler failed",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("request_id", w.Header().Get("X-Request-ID")),
		zap.Error(err),
	)
	if a.cfg.RaiseServerErrors {
		panic(err)
	}
	writeJSONError(w, http.StatusInternalServerError, err.Error())
}

// writeResponse encodes the accumulated response. Body sources resolve
// by precedence Media > Obj > literal content > stream.
func (a *API) writeResponse(w http.ResponseWriter, r *http.Request, route *router.Route, resp *Response) {
	header := w.Header()
	for key, values := range resp.Header {
		for _, v := range values {
			header.Add(key, v)
		}
	}
	for _, c := range resp.cookies {
		http.SetCookie(w, c)
	}
	a.writeSession(w, resp.Session)

	switch {
	case resp.Media != nil:
		a.encodeNegotiated(w, r, resp.status(), resp.Media)

	case resp.Obj != nil:
		output := route.Output()
		if output == nil {
			a.serverError(w, r, fmt.Errorf("dune: response object set but route %q declares no output schema", route.Pattern()))
			return
		}
		a.encodeNegotiated(w, r, resp.status(), serializeObj(output.Schema, resp.Obj))

	case resp.content != nil:
		if header.Get("Content-Type") == "" {
			header.Set("Content-Type", resp.contentType)
		}
		w.WriteHeader(resp.status())
		w.Write(resp.content)

	case resp.stream != nil:
		w.WriteHeader(resp.status())
		a.writeStream(r.Context(), w, resp.stream)

	default:
		w.WriteHeader(resp.status())
	}
}

func (a *API) encodeNegotiated(w http.ResponseWriter, r *http.Request, status int, v any) {
	mimetype, encode := media.NegotiateOutgoing(r.Header.Get("Accept"))
	w.Header().Set("Content-Type", mimetype)
	w.WriteHeader(status)
	if err := encode(w, v); err != nil {
		a.log.Error("response encoding failed",
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
}

func (a *API) writeStream(ctx context.Context, w http.ResponseWriter, producer media.ChunkProducer) {
	flusher, _ := w.(http.Flusher)
	for chunk := range producer(ctx) {
		if _, err := w.Write(chunk); err != nil {
			return
		}
		if flusher != nil {
			flusher.Flush()
		}
	}
}

// serializeObj maps the output schema over a single object or, for a
// slice, over each element preserving source order.
func serializeObj(s schema.Schema, obj any) any {
	v := reflect.ValueOf(obj)
	if v.Kind() == reflect.Slice || v.Kind() == reflect.Array {
		records := make([]map[string]any, v.Len())
		for i := 0; i < v.Len(); i++ {
			records[i] = s.Serialize(v.Index(i).Interface())
		}
		return records
	}
	return s.Serialize(obj)
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", media.MIMEJSON)
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
