package livekit

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/livekit/protocol/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travai-server/internal/config"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type grantClaims struct {
	jwt.RegisteredClaims
	Name  string           `json:"name"`
	Video *auth.VideoGrant `json:"video"`
}

func parseGrant(t *testing.T, token, secret string) (*grantClaims, error) {
	t.Helper()
	claims := &grantClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	return claims, err
}

func TestGenerateCarriesRoomGrant(t *testing.T) {
	gen := NewTokenGenerator(&config.Config{LiveKitAPIKey: "devkey", LiveKitAPISecret: testSecret})

	token, err := gen.Generate("voice-assistant", "alice", time.Hour)
	require.NoError(t, err)

	verifier, err := auth.ParseAPIToken(token)
	require.NoError(t, err)
	assert.Equal(t, "devkey", verifier.APIKey())
	assert.Equal(t, "alice", verifier.Identity())

	claims, err := parseGrant(t, token, testSecret)
	require.NoError(t, err)
	require.NotNil(t, claims.Video)
	assert.Equal(t, "alice", claims.Subject)
	assert.Equal(t, "alice", claims.Name)
	assert.True(t, claims.Video.RoomJoin)
	assert.Equal(t, "voice-assistant", claims.Video.Room)
	require.NotNil(t, claims.Video.CanPublish)
	assert.True(t, *claims.Video.CanPublish)
	require.NotNil(t, claims.Video.CanSubscribe)
	assert.True(t, *claims.Video.CanSubscribe)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestGenerateRejectsWrongSecret(t *testing.T) {
	gen := NewTokenGenerator(&config.Config{LiveKitAPIKey: "devkey", LiveKitAPISecret: testSecret})
	token, err := gen.Generate("r", "bob", time.Minute)
	require.NoError(t, err)

	_, err = parseGrant(t, token, "another-secret-another-secret-xx")
	assert.Error(t, err)
}
