package presence

import (
	"errors"
	"time"
)

// ErrRoomNotFound is returned when a room is not tracked.
var ErrRoomNotFound = errors.New("room not found")

// Room is what the server knows about a LiveKit room it issued tokens for.
type Room struct {
	Name         string
	Active       bool
	Participants []string
	TrackedAt    time.Time
	UpdatedAt    time.Time
	// LastActiveAt is zero until LiveKit first reports the room.
	LastActiveAt time.Time
}

// Status is the presence view returned to clients.
type Status struct {
	Room         string    `json:"room"`
	Active       bool      `json:"active"`
	Participants []string  `json:"participants"`
	AgentPresent bool      `json:"agent_present"`
	UpdatedAt    time.Time `json:"updated_at"`
}
