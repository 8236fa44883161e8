package domain

import (
	"github.com/google/wire"
	"github.com/rs/zerolog"

	"travai-server/internal/config"
	"travai-server/internal/domain/presence"
	"travai-server/internal/domain/token"
)

// ProvideTokenService provides the token service. Issued rooms are handed to
// the presence store for tracking.
func ProvideTokenService(
	cfg *config.Config,
	gen token.Generator,
	rooms presence.Store,
	recorder token.Recorder,
	log zerolog.Logger,
) *token.Service {
	return token.NewService(token.Settings{
		URL:       cfg.LiveKitURL,
		APIKey:    cfg.LiveKitAPIKey,
		APISecret: cfg.LiveKitAPISecret,
		TTL:       cfg.LiveKitTokenTTL,
	}, gen, rooms, recorder, log)
}

// ProvidePresenceService provides the presence service.
func ProvidePresenceService(rooms presence.Store, cfg *config.Config, log zerolog.Logger) *presence.Service {
	return presence.NewService(rooms, cfg.AgentIdentityPrefix, log)
}

// ServiceProvider provides all domain services.
var ServiceProvider = wire.NewSet(
	ProvideTokenService,
	ProvidePresenceService,
)
