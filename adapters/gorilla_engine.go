// File: adapters/gorilla_engine.go
// Package adapters
// Author: momentics <momentics@gmail.com>
//
// FrameEngine implementation over gorilla/websocket. Accept upgrades the
// pending HTTP request; rejection actions are written as a plain HTTP
// response on the original response writer.

package adapters

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/momentics/wsbridge/api"
)

// writeWait bounds a single control-frame write.
const writeWait = 10 * time.Second

// GorillaEngine adapts one HTTP upgrade request to the api.FrameEngine
// contract. One engine serves exactly one connection.
type GorillaEngine struct {
	w http.ResponseWriter
	r *http.Request

	mu       sync.Mutex
	conn     *websocket.Conn
	accepted chan struct{}
	finished chan struct{}

	handshakeDelivered bool
	closeDelivered     bool
}

var _ api.FrameEngine = (*GorillaEngine)(nil)

// NewGorillaEngine wraps a pending upgrade request.
func NewGorillaEngine(w http.ResponseWriter, r *http.Request) *GorillaEngine {
	return &GorillaEngine{
		w:        w,
		r:        r,
		accepted: make(chan struct{}),
		finished: make(chan struct{}),
	}
}

// Send implements api.FrameEngine.
func (e *GorillaEngine) Send(ctx context.Context, action api.WireAction) error {
	switch action := action.(type) {
	case api.AcceptConnection:
		return e.accept(action)
	case api.RejectConnection:
		return e.reject(action)
	case api.RejectData:
		return e.rejectData(action)
	case api.DataFrame:
		return e.writeData(action)
	case api.CloseConnection:
		return e.writeClose(action)
	default:
		return errors.New("gorilla engine: unsupported wire action")
	}
}

func (e *GorillaEngine) accept(action api.AcceptConnection) error {
	upgrader := websocket.Upgrader{
		ReadBufferSize:    4096,
		WriteBufferSize:   4096,
		EnableCompression: action.RequestDeflate,
		CheckOrigin:       func(*http.Request) bool { return true },
	}
	header := http.Header{}
	for _, h := range action.Headers {
		header.Add(h.Name, h.Value)
	}
	if action.Subprotocol != "" {
		header.Set("Sec-WebSocket-Protocol", action.Subprotocol)
	}
	conn, err := upgrader.Upgrade(e.w, e.r, header)
	if err != nil {
		return err
	}
	e.mu.Lock()
	e.conn = conn
	e.mu.Unlock()
	close(e.accepted)
	return nil
}

func (e *GorillaEngine) reject(action api.RejectConnection) error {
	header := e.w.Header()
	for _, h := range action.Headers {
		header.Add(h.Name, h.Value)
	}
	e.w.WriteHeader(action.Status)
	if !action.HasBody {
		close(e.finished)
	}
	return nil
}

func (e *GorillaEngine) rejectData(action api.RejectData) error {
	if len(action.Data) > 0 {
		if _, err := e.w.Write(action.Data); err != nil {
			return err
		}
	}
	if f, ok := e.w.(http.Flusher); ok {
		f.Flush()
	}
	if action.Final {
		close(e.finished)
	}
	return nil
}

func (e *GorillaEngine) writeData(action api.DataFrame) error {
	conn := e.connection()
	if conn == nil {
		return errors.New("gorilla engine: data frame before accept")
	}
	if action.Text != nil {
		return conn.WriteMessage(websocket.TextMessage, []byte(*action.Text))
	}
	return conn.WriteMessage(websocket.BinaryMessage, action.Bytes)
}

func (e *GorillaEngine) writeClose(action api.CloseConnection) error {
	conn := e.connection()
	if conn == nil {
		return errors.New("gorilla engine: close before accept")
	}
	msg := websocket.FormatCloseMessage(action.Code, "")
	if err := conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait)); err != nil && !errors.Is(err, websocket.ErrCloseSent) {
		conn.Close()
		return err
	}
	return conn.Close()
}

// Receive implements api.FrameEngine. The first event is always the
// handshake request; data events follow once the connection is accepted.
func (e *GorillaEngine) Receive(ctx context.Context) (api.WireEvent, error) {
	if !e.handshakeDelivered {
		e.handshakeDelivered = true
		return e.handshakeRequest(), nil
	}
	if e.closeDelivered {
		return nil, io.EOF
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-e.finished:
		return nil, io.EOF
	case <-e.accepted:
	}

	mt, data, err := e.connection().ReadMessage()
	if err != nil {
		e.closeDelivered = true
		var closeErr *websocket.CloseError
		if errors.As(err, &closeErr) {
			return api.ConnectionClosed{Code: closeErr.Code}, nil
		}
		return api.ConnectionClosed{}, nil
	}
	if mt == websocket.TextMessage {
		return api.TextFrame{Data: string(data), Final: true}, nil
	}
	return api.BinaryFrame{Data: data, Final: true}, nil
}

// handshakeRequest maps the pending HTTP request into the wire event
// vocabulary. Header names are lowercased, matching the scope contract.
func (e *GorillaEngine) handshakeRequest() api.HandshakeRequest {
	var headers []api.Header
	for name, values := range e.r.Header {
		lower := strings.ToLower(name)
		for _, v := range values {
			headers = append(headers, api.Header{Name: lower, Value: v})
		}
	}
	return api.HandshakeRequest{
		Target:       e.r.URL.RequestURI(),
		Host:         e.r.Host,
		Headers:      headers,
		Subprotocols: websocket.Subprotocols(e.r),
	}
}

// Close tears down the upgraded connection, if any, unblocking a
// pending Receive. Safe to call at any point after construction.
func (e *GorillaEngine) Close() error {
	if conn := e.connection(); conn != nil {
		return conn.Close()
	}
	return nil
}

func (e *GorillaEngine) connection() *websocket.Conn {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.conn
}
