package dune

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/vitalvas/dune/router"
)

// WebSocketHandler owns one WebSocket session from after the route
// matched until the connection closes.
type WebSocketHandler func(ctx context.Context, ws *WebSocketSession) error

// ErrNotAccepted is returned when a session is used before anyone
// accepted the connection.
var ErrNotAccepted = errors.New("dune: websocket connection not accepted")

// ErrAlreadyAccepted is returned when Accept is called twice.
var ErrAlreadyAccepted = errors.New("dune: websocket connection already accepted")

// WebSocketSession is one bidirectional connection. It starts
// unaccepted: a before-request hook or the handler must call Accept
// (which performs the protocol handshake) before anything is sent or
// received. After the peer disconnects, every read and write fails with
// the connection error; nothing retries or hangs.
type WebSocketSession struct {
	// Request is the view of the handshake request.
	Request *Request

	w        http.ResponseWriter
	r        *http.Request
	upgrader *websocket.Upgrader
	conn     *websocket.Conn
}

// Accept performs the WebSocket handshake and switches the session into
// its connected state. A cancelled context refuses the handshake.
func (s *WebSocketSession) Accept(ctx context.Context) error {
	if s.conn != nil {
		return ErrAlreadyAccepted
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	conn, err := s.upgrader.Upgrade(s.w, s.r, nil)
	if err != nil {
		return err
	}
	s.conn = conn
	return nil
}

// Accepted reports whether the handshake has completed.
func (s *WebSocketSession) Accepted() bool {
	return s.conn != nil
}

// SendText sends one text message.
func (s *WebSocketSession) SendText(text string) error {
	if s.conn == nil {
		return ErrNotAccepted
	}
	return s.conn.WriteMessage(websocket.TextMessage, []byte(text))
}

// SendBytes sends one binary message.
func (s *WebSocketSession) SendBytes(data []byte) error {
	if s.conn == nil {
		return ErrNotAccepted
	}
	return s.conn.WriteMessage(websocket.BinaryMessage, data)
}

// SendJSON sends one JSON-encoded text message.
func (s *WebSocketSession) SendJSON(v any) error {
	if s.conn == nil {
		return ErrNotAccepted
	}
	return s.conn.WriteJSON(v)
}

// ReceiveText reads the next message as text.
func (s *WebSocketSession) ReceiveText() (string, error) {
	if s.conn == nil {
		return "", ErrNotAccepted
	}
	_, data, err := s.conn.ReadMessage()
	return string(data), err
}

// ReceiveBytes reads the next message as bytes.
func (s *WebSocketSession) ReceiveBytes() ([]byte, error) {
	if s.conn == nil {
		return nil, ErrNotAccepted
	}
	_, data, err := s.conn.ReadMessage()
	return data, err
}

// ReceiveJSON reads and decodes the next message into v.
func (s *WebSocketSession) ReceiveJSON(v any) error {
	if s.conn == nil {
		return ErrNotAccepted
	}
	return s.conn.ReadJSON(v)
}

// Close sends a close frame and tears the connection down.
func (s *WebSocketSession) Close(code int) error {
	if s.conn == nil {
		return ErrNotAccepted
	}
	deadline := time.Now().Add(time.Second)
	s.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, ""), deadline)
	return s.conn.Close()
}

// serveWebSocket runs the before-websocket hooks and the route handler
// for one connection. Hooks run before the handler and may accept the
// connection themselves; if nobody ever accepts, the handshake request
// is answered with 400.
func (a *API) serveWebSocket(w http.ResponseWriter, r *http.Request, result router.MatchResult) {
	ctx := r.Context()
	ws := &WebSocketSession{
		Request:  newRequest(r, result.Params),
		w:        w,
		r:        r,
		upgrader: &a.upgrader,
	}

	for _, hook := range a.beforeWS {
		if err := hook(ctx, ws); err != nil {
			a.log.Error("websocket hook failed",
				zap.String("path", r.URL.Path),
				zap.Error(err),
			)
			if !ws.Accepted() {
				writeJSONError(w, http.StatusInternalServerError, "websocket hook failed")
			} else {
				ws.Close(websocket.CloseInternalServerErr)
			}
			return
		}
	}

	h, _ := result.Route.Endpoint().Resolve(r.Method)
	handler, ok := h.(WebSocketHandler)
	if !ok {
		writeJSONError(w, http.StatusInternalServerError, "not a websocket endpoint")
		return
	}

	err := func() (err error) {
		defer func() {
			if p := recover(); p != nil {
				err = errors.New("websocket handler panic")
			}
		}()
		return handler(ctx, ws)
	}()
	if err != nil {
		a.log.Error("websocket handler failed",
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		if ws.Accepted() {
			ws.Close(websocket.CloseInternalServerErr)
			return
		}
	}

	if !ws.Accepted() {
		writeJSONError(w, http.StatusBadRequest, "websocket connection not accepted")
		return
	}
	ws.Close(websocket.CloseNormalClosure)
}
