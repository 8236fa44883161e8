package main

import (
	"context"

	"github.com/google/wire"
	"github.com/rs/zerolog"

	"travai-server/internal/config"
	"travai-server/internal/domain/presence"
	"travai-server/internal/domain/token"
	"travai-server/internal/infrastructure/auth"
	"travai-server/internal/infrastructure/livekit"
	"travai-server/internal/infrastructure/metrics"
	"travai-server/internal/infrastructure/store"
)

// InfrastructureProvider provides the infrastructure the domain services use.
var InfrastructureProvider = wire.NewSet(
	ProvideTokenGenerator,
	ProvideRoomClient,
	ProvidePresenceStore,
	ProvideRecorder,
	ProvideSyncer,
	ProvideAuthValidator,
	wire.Bind(new(token.Generator), new(*livekit.TokenGenerator)),
	wire.Bind(new(presence.Store), new(*store.MemoryStore)),
	wire.Bind(new(token.Recorder), new(*metrics.Recorder)),
)

// ProvideTokenGenerator provides a LiveKit token generator.
func ProvideTokenGenerator(cfg *config.Config) *livekit.TokenGenerator {
	return livekit.NewTokenGenerator(cfg)
}

// ProvideRoomClient provides a LiveKit room client.
func ProvideRoomClient(cfg *config.Config) *livekit.RoomClient {
	return livekit.NewRoomClient(cfg)
}

// ProvidePresenceStore provides the in-memory presence store.
func ProvidePresenceStore(log zerolog.Logger) *store.MemoryStore {
	return store.NewMemoryStore(log)
}

// ProvideRecorder provides the Prometheus recorder.
func ProvideRecorder() *metrics.Recorder {
	return metrics.NewRecorder()
}

// ProvideSyncer provides the presence syncer, or nil when syncing is
// disabled or LiveKit is not configured.
func ProvideSyncer(
	rooms *store.MemoryStore,
	roomClient *livekit.RoomClient,
	recorder *metrics.Recorder,
	cfg *config.Config,
	log zerolog.Logger,
) *store.Syncer {
	if !cfg.RoomSyncEnabled || !cfg.LiveKitConfigured() {
		log.Info().Msg("room presence sync disabled")
		return nil
	}
	return store.NewSyncer(rooms, roomClient, recorder, cfg.RoomStaleTTL, cfg.RoomSyncInterval, log)
}

// ProvideAuthValidator provides an auth validator and its cleanup.
func ProvideAuthValidator(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*auth.Validator, func(), error) {
	v, err := auth.NewValidator(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}
	return v, v.Close, nil
}
