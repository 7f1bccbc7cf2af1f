package ws

import "encoding/json"

// Client → server events.
const (
	EventJoinRoom    = "join room"
	EventLeaveRoom   = "leave room"
	EventSendMessage = "sendMessage"
)

// Server → client events.
const (
	EventUserJoined  = "user joined"
	EventActiveUsers = "active users"
	EventUserLeft    = "user left"
	EventNewMessage  = "newMessage"
	EventError       = "error"
)

// Error types carried inside the error event.
const (
	ErrTypeJoinRoom    = "JOIN_ROOM_ERROR"
	ErrTypeSendMessage = "SEND_MESSAGE_ERROR"
	ErrTypeUnexpected  = "UNEXPECTED_ERROR"
)

// Envelope wraps every inbound WS frame.
type Envelope struct {
	Event string          `json:"event"`
	Body  json.RawMessage `json:"body,omitempty"`
}

type outEnvelope struct {
	Event string `json:"event"`
	Body  any    `json:"body,omitempty"`
}

// ──────────────────────────── Request DTOs ────────────────────────────

// RoomRef accepts either a bare room id string or {"roomId": "..."} as
// the body of "join room" / "leave room".
type RoomRef struct {
	RoomID string `json:"roomId"`
}

func (r *RoomRef) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		return json.Unmarshal(b, &r.RoomID)
	}
	type plain RoomRef
	return json.Unmarshal(b, (*plain)(r))
}

// Author is the message author field, which arrives either as a bare
// user id or as an embedded {_id, email} object. It is normalized to
// the embedded form before anything is broadcast.
type Author struct {
	ID    string `json:"_id"`
	Email string `json:"email,omitempty"`

	embedded bool // true when the wire form was the {_id, email} object
}

func (a *Author) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		return json.Unmarshal(b, &a.ID)
	}
	type plain Author
	if err := json.Unmarshal(b, (*plain)(a)); err != nil {
		return err
	}
	a.embedded = true
	return nil
}

// SendMessageRequest is the body for "sendMessage".
type SendMessageRequest struct {
	ID        string  `json:"_id,omitempty"`
	RoomID    string  `json:"roomId"`
	Content   string  `json:"content"`
	Author    *Author `json:"userId,omitempty"`
	CreatedAt string  `json:"createdAt,omitempty"`
}

// ──────────────────────────── Event payloads ──────────────────────────

// UserJoinedBody goes to every room member except the joiner.
type UserJoinedBody struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// ActiveUser is one entry of the full membership snapshot sent to the
// whole room, joiner included.
type ActiveUser struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

// UserLeftBody goes to the members remaining after a leave/disconnect.
type UserLeftBody struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

// MessageBody is the normalized broadcast form of a chat message.
type MessageBody struct {
	ID        string `json:"_id"`
	RoomID    string `json:"roomId"`
	Content   string `json:"content"`
	Author    Author `json:"userId"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// ErrorBody is sent to the acting connection only.
type ErrorBody struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
