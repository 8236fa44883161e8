package livekit

import (
	"time"

	"github.com/livekit/protocol/auth"

	"travai-server/internal/config"
)

// TokenGenerator mints LiveKit access tokens.
type TokenGenerator struct {
	apiKey    string
	apiSecret string
}

// NewTokenGenerator creates a token generator from the server config.
func NewTokenGenerator(cfg *config.Config) *TokenGenerator {
	return &TokenGenerator{
		apiKey:    cfg.LiveKitAPIKey,
		apiSecret: cfg.LiveKitAPISecret,
	}
}

// Generate creates a token that lets identity join room, publish and
// subscribe audio, and exchange data messages with the agent.
func (g *TokenGenerator) Generate(room, identity string, ttl time.Duration) (string, error) {
	at := auth.NewAccessToken(g.apiKey, g.apiSecret)

	publish, subscribe, publishData := true, true, true
	at.AddGrant(&auth.VideoGrant{
		RoomJoin:       true,
		Room:           room,
		CanPublish:     &publish,
		CanSubscribe:   &subscribe,
		CanPublishData: &publishData,
	}).
		SetIdentity(identity).
		SetName(identity).
		SetValidFor(ttl)

	return at.ToJWT()
}
