package ws

import (
	"sync"
	"time"

	"chatrelaygo/internal/auth"
)

// socket is the subset of *websocket.Conn the engine touches. Narrowed
// to an interface so the event handlers can be driven by an in-memory
// fake.
type socket interface {
	ReadJSON(v any) error
	WriteJSON(v any) error
	WriteMessage(messageType int, data []byte) error
	SetReadLimit(limit int64)
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	SetPongHandler(h func(appData string) error)
	Close() error
}

// clientConn is one live connection with its identity attached. The
// identity is set exactly once, before the reader starts, and is
// immutable afterwards.
type clientConn struct {
	id       string
	identity auth.Identity
	sock     socket
	mu       sync.Mutex
}

func (c *clientConn) write(mt int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_ = c.sock.SetWriteDeadline(time.Now().Add(writeWait))
	return c.sock.WriteMessage(mt, data)
}

func (c *clientConn) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_ = c.sock.SetWriteDeadline(time.Now().Add(writeWait))
	return c.sock.WriteJSON(v)
}

// writeEvent wraps the payload in the wire envelope. Write failures are
// ignored by callers that fan out: a connection that vanished mid-emit
// is cleaned up by its own reader, not here.
func (c *clientConn) writeEvent(event string, body any) error {
	return c.writeJSON(outEnvelope{Event: event, Body: body})
}
