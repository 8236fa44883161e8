// Package livekitres contains HTTP response DTOs for the LiveKit endpoints.
package livekitres

import (
	"time"

	"travai-server/internal/domain/presence"
	"travai-server/internal/domain/token"
)

// TokenResponse is the grant a client uses to join a room.
type TokenResponse struct {
	Token string `json:"token"`
	URL   string `json:"url"`
}

// RoomStatusResponse reports who is in a room.
type RoomStatusResponse struct {
	Room         string    `json:"room"`
	Active       bool      `json:"active"`
	Participants []string  `json:"participants"`
	AgentPresent bool      `json:"agent_present"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewTokenResponse converts a domain grant.
func NewTokenResponse(g *token.Grant) *TokenResponse {
	return &TokenResponse{Token: g.Token, URL: g.URL}
}

// NewRoomStatusResponse converts a presence status.
func NewRoomStatusResponse(s *presence.Status) *RoomStatusResponse {
	return &RoomStatusResponse{
		Room:         s.Room,
		Active:       s.Active,
		Participants: s.Participants,
		AgentPresent: s.AgentPresent,
		UpdatedAt:    s.UpdatedAt,
	}
}
