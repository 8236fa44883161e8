package handlers

import (
	"context"

	"travai-server/internal/domain/token"
)

// TokenHandler serves LiveKit access tokens.
type TokenHandler struct {
	service *token.Service
}

// NewTokenHandler creates a new token handler.
func NewTokenHandler(service *token.Service) *TokenHandler {
	return &TokenHandler{service: service}
}

// Issue mints a grant for name in room.
func (h *TokenHandler) Issue(ctx context.Context, room, name string) (*token.Grant, error) {
	return h.service.Issue(ctx, token.Request{Room: room, Name: name})
}
