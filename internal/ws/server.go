package ws

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"chatrelaygo/internal/auth"
)

const (
	writeWait       = 10 * time.Second
	pongWait        = 60 * time.Second
	pingPeriod      = (pongWait * 9) / 10 // must be < pongWait
	maxMessageSize  = 4096
	dispatchTimeout = 2 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true }, // dev-only
}

type WsServer struct {
	hub      *Hub
	presence PresenceRegistry
	verifier *auth.Verifier
	router   *Router
	roles    map[string]struct{} // roles permitted to join rooms
}

func NewWsServer(hub *Hub, presence PresenceRegistry, verifier *auth.Verifier, permittedRoles []string) *WsServer {
	roles := make(map[string]struct{}, len(permittedRoles))
	for _, r := range permittedRoles {
		roles[r] = struct{}{}
	}
	srv := &WsServer{
		hub:      hub,
		presence: presence,
		verifier: verifier,
		router:   NewRouter(),
		roles:    roles,
	}
	srv.registerHandlers() // ← all WS endpoints configured here
	return srv
}

// ---------------------------------------------------------------------------
//  Public: Gin entry-point
// ---------------------------------------------------------------------------

// Handle authenticates the handshake credential and, only on success,
// upgrades the connection and starts its reader. A refused connection
// never exchanges a single room event.
func (s *WsServer) Handle(ginCtx *gin.Context) {
	identity, err := s.verifier.Verify(ginCtx.Request.Context(), handshakeToken(ginCtx))
	if err != nil {
		ginCtx.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	rawConn, err := upgrader.Upgrade(ginCtx.Writer, ginCtx.Request, nil)
	if err != nil {
		zap.L().Warn("ws.upgrade", zap.Error(err))
		return
	}
	rawConn.SetReadLimit(maxMessageSize)

	c := &clientConn{id: uuid.NewString(), identity: identity, sock: rawConn}
	s.presence.Register(identity.UserID, c.id)
	zap.L().Info("ws.connected",
		zap.String("user", identity.Email),
		zap.String("conn_id", c.id),
	)

	go s.reader(c)
	go s.pinger(c)
}

// handshakeToken pulls the credential from the upgrade request: the
// "token" query parameter or an Authorization bearer header.
func handshakeToken(ginCtx *gin.Context) string {
	if token := ginCtx.Query("token"); token != "" {
		return token
	}
	header := ginCtx.GetHeader("Authorization")
	return strings.TrimPrefix(header, "Bearer ")
}

// ---------------------------------------------------------------------------
//  Event handlers
// ---------------------------------------------------------------------------

func (s *WsServer) registerHandlers() {
	Register(s.router, EventJoinRoom, s.joinRoom)
	Register(s.router, EventLeaveRoom, s.leaveRoom)
	Register(s.router, EventSendMessage, s.sendMessage)
}

func (s *WsServer) joinRoom(_ context.Context, c *clientConn, req RoomRef) error {
	if !c.identity.Active {
		return ErrAccountInactive
	}
	if _, ok := s.roles[c.identity.Role]; !ok {
		return ErrInvalidRole
	}
	if req.RoomID == "" {
		return ErrInvalidRoomID
	}

	others, all, snapshot := s.hub.Join(req.RoomID, c)

	joined := UserJoinedBody{
		UserID:   c.identity.UserID,
		Username: c.identity.Email,
		Role:     c.identity.Role,
	}
	for _, m := range others {
		_ = m.writeEvent(EventUserJoined, joined)
	}
	// The full snapshot, joiner included, so a client that missed an
	// earlier delta is corrected here.
	for _, m := range all {
		_ = m.writeEvent(EventActiveUsers, snapshot)
	}

	zap.L().Debug("ws.join",
		zap.String("user", c.identity.Email),
		zap.String("room", req.RoomID),
	)
	return nil
}

func (s *WsServer) leaveRoom(_ context.Context, c *clientConn, req RoomRef) error {
	remaining := s.hub.Leave(req.RoomID, c)

	left := UserLeftBody{UserID: c.identity.UserID, Username: c.identity.Email}
	for _, m := range remaining {
		_ = m.writeEvent(EventUserLeft, left)
	}
	return nil
}

func (s *WsServer) sendMessage(_ context.Context, c *clientConn, req SendMessageRequest) error {
	if req.RoomID == "" {
		return ErrInvalidRoomID
	}

	msg := MessageBody{
		ID:        req.ID,
		RoomID:    req.RoomID,
		Content:   req.Content,
		Author:    normalizeAuthor(req.Author, c.identity),
		CreatedAt: req.CreatedAt,
	}
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}

	// Every member gets the message, the sender included: the echo is
	// the sender's acknowledgment.
	for _, m := range s.hub.Members(req.RoomID) {
		_ = m.writeEvent(EventNewMessage, msg)
	}
	return nil
}

// normalizeAuthor forces the embedded {_id, email} form. A bare id (or
// no author at all) is completed with the sender's own identity; an
// already embedded object passes through untouched.
func normalizeAuthor(a *Author, sender auth.Identity) Author {
	if a == nil {
		return Author{ID: sender.UserID, Email: sender.Email}
	}
	if a.embedded {
		return *a
	}
	out := Author{ID: a.ID, Email: sender.Email}
	if out.ID == "" {
		out.ID = sender.UserID
	}
	return out
}

// ---------------------------------------------------------------------------
//  Connection lifecycle
// ---------------------------------------------------------------------------

// reader processes the connection's events one at a time, so no two
// handlers for the same connection ever interleave. Handler errors are
// reported to this connection only and never close it.
func (s *WsServer) reader(c *clientConn) {
	defer s.disconnect(c)

	_ = c.sock.SetReadDeadline(time.Now().Add(pongWait))
	c.sock.SetPongHandler(func(string) error {
		return c.sock.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var env Envelope
		if err := c.sock.ReadJSON(&env); err != nil {
			return // client closed or errored
		}

		ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
		err := s.router.dispatch(ctx, c, env)
		cancel()

		if err != nil {
			s.sendError(c, env.Event, err)
		}
	}
}

// disconnect walks the rooms the connection belonged to, tells the
// remaining members it left, then releases the presence entry. The
// release is conditional: if the user already reconnected, the newer
// entry survives an out-of-order disconnect.
func (s *WsServer) disconnect(c *clientConn) {
	left := UserLeftBody{UserID: c.identity.UserID, Username: c.identity.Email}
	for _, remaining := range s.hub.RemoveConn(c) {
		for _, m := range remaining {
			_ = m.writeEvent(EventUserLeft, left)
		}
	}

	s.presence.Release(c.identity.UserID, c.id)
	_ = c.sock.Close()

	zap.L().Info("ws.disconnected",
		zap.String("user", c.identity.Email),
		zap.String("conn_id", c.id),
	)
}

func (s *WsServer) sendError(c *clientConn, event string, err error) {
	body := ErrorBody{Message: err.Error()}
	switch event {
	case EventJoinRoom:
		body.Type = ErrTypeJoinRoom
	case EventSendMessage:
		body.Type = ErrTypeSendMessage
	default:
		body.Type = ErrTypeUnexpected
	}

	if !isDomainErr(err) {
		zap.L().Error("ws.handler",
			zap.String("event", event),
			zap.String("conn_id", c.id),
			zap.Error(err),
		)
	}
	_ = c.writeEvent(EventError, body)
}

func isDomainErr(err error) bool {
	return errors.Is(err, ErrAccountInactive) ||
		errors.Is(err, ErrInvalidRole) ||
		errors.Is(err, ErrInvalidRoomID)
}

func (s *WsServer) pinger(c *clientConn) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for range ticker.C {
		if err := c.write(websocket.PingMessage, nil); err != nil {
			return // reader's cleanup closes the socket
		}
	}
}
