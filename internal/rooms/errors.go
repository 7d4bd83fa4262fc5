package rooms

import "errors"

var (
	// ErrRoomIDCollision is returned when a fresh room id could not be
	// generated after the internal retry budget.
	ErrRoomIDCollision = errors.New("room id collision")

	// ErrInvalidPassword is returned when a join attempt carries a password
	// that does not match the room's.
	ErrInvalidPassword = errors.New("invalid room password")
)
