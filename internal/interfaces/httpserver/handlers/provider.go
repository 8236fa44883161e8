package handlers

import (
	"github.com/google/wire"
)

// Provider holds all HTTP handlers.
type Provider struct {
	Token    *TokenHandler
	Presence *PresenceHandler
}

// NewProvider creates a new handler provider.
func NewProvider(tokenHandler *TokenHandler, presenceHandler *PresenceHandler) *Provider {
	return &Provider{
		Token:    tokenHandler,
		Presence: presenceHandler,
	}
}

// HandlerProvider provides all handlers for wire.
var HandlerProvider = wire.NewSet(
	NewTokenHandler,
	NewPresenceHandler,
	NewProvider,
)
