package ws

import (
	"errors"
	"io"
	"sync"
	"time"

	"chatrelaygo/internal/auth"
)

// fakeSocket scripts inbound frames and records everything written to
// the connection. When the inbox runs dry ReadJSON reports EOF, which
// the reader treats as a transport close.
type fakeSocket struct {
	mu     sync.Mutex
	inbox  []Envelope
	writes []outEnvelope
	closed bool
}

func (f *fakeSocket) ReadJSON(v any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed || len(f.inbox) == 0 {
		return io.EOF
	}
	env := f.inbox[0]
	f.inbox = f.inbox[1:]
	*(v.(*Envelope)) = env
	return nil
}

func (f *fakeSocket) WriteJSON(v any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return errors.New("socket closed")
	}
	f.writes = append(f.writes, v.(outEnvelope))
	return nil
}

func (f *fakeSocket) WriteMessage(int, []byte) error { return nil }

func (f *fakeSocket) SetReadLimit(int64) {}

func (f *fakeSocket) SetReadDeadline(time.Time) error { return nil }

func (f *fakeSocket) SetWriteDeadline(time.Time) error { return nil }

func (f *fakeSocket) SetPongHandler(func(string) error) {}

func (f *fakeSocket) Close() error {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	return nil
}

// events returns the recorded envelopes for one event, in write order.
func (f *fakeSocket) events(event string) []outEnvelope {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []outEnvelope
	for _, w := range f.writes {
		if w.Event == event {
			out = append(out, w)
		}
	}
	return out
}

func (f *fakeSocket) allWrites() []outEnvelope {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]outEnvelope(nil), f.writes...)
}

func newTestServer() *WsServer {
	return NewWsServer(NewHub(), NewPresenceRegistry(), nil, []string{"user", "admin"})
}

// connect attaches a fake connection the way Handle does after a
// successful handshake.
func connect(s *WsServer, connID string, identity auth.Identity) (*clientConn, *fakeSocket) {
	fs := &fakeSocket{}
	c := &clientConn{id: connID, identity: identity, sock: fs}
	s.presence.Register(identity.UserID, c.id)
	return c, fs
}

func activeUser(id string) auth.Identity {
	return auth.Identity{
		UserID: id,
		Email:  id + "@example.com",
		Name:   id,
		Role:   "user",
		Active: true,
	}
}
