package handlers

import (
	"context"

	"travai-server/internal/domain/presence"
)

// PresenceHandler serves room presence.
type PresenceHandler struct {
	service *presence.Service
}

// NewPresenceHandler creates a new presence handler.
func NewPresenceHandler(service *presence.Service) *PresenceHandler {
	return &PresenceHandler{service: service}
}

// RoomStatus returns the presence of a tracked room.
func (h *PresenceHandler) RoomStatus(ctx context.Context, room string) (*presence.Status, error) {
	return h.service.Status(ctx, room)
}
