package ws

import "errors"

var (
	// Authorization failures on join. The connection stays open.
	ErrAccountInactive = errors.New("account is inactive")
	ErrInvalidRole     = errors.New("invalid user role")

	// Validation failures on send.
	ErrInvalidRoomID = errors.New("invalid room ID")

	ErrUnknownEvent = errors.New("unknown event")
)
