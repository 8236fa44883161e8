package token

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	err      error
	room     string
	identity string
	ttl      time.Duration
}

func (f *fakeGenerator) Generate(room, identity string, ttl time.Duration) (string, error) {
	f.room, f.identity, f.ttl = room, identity, ttl
	if f.err != nil {
		return "", f.err
	}
	return "signed." + room + "." + identity, nil
}

type fakeTracker struct{ rooms []string }

func (f *fakeTracker) Track(_ context.Context, room string) { f.rooms = append(f.rooms, room) }

type fakeRecorder struct {
	issued []string
	failed []string
}

func (f *fakeRecorder) TokenIssued(room string, _ time.Duration) { f.issued = append(f.issued, room) }
func (f *fakeRecorder) TokenFailed(reason string)                { f.failed = append(f.failed, reason) }

var configured = Settings{
	URL:       "wss://livekit.example.com",
	APIKey:    "devkey",
	APISecret: "secret",
	TTL:       time.Hour,
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, Request{Room: DefaultRoom, Name: DefaultName}, Normalize(Request{}))
	assert.Equal(t, Request{Room: "voice-assistant", Name: "alice"}, Normalize(Request{Room: " voice-assistant ", Name: "alice"}))
}

func TestIssue(t *testing.T) {
	gen := &fakeGenerator{}
	rooms := &fakeTracker{}
	rec := &fakeRecorder{}
	svc := NewService(configured, gen, rooms, rec, zerolog.Nop())

	grant, err := svc.Issue(context.Background(), Request{Room: "voice-assistant", Name: "alice"})

	require.NoError(t, err)
	assert.Equal(t, "signed.voice-assistant.alice", grant.Token)
	assert.Equal(t, "wss://livekit.example.com", grant.URL)
	assert.Equal(t, time.Hour, gen.ttl)
	assert.Equal(t, []string{"voice-assistant"}, rooms.rooms)
	assert.Equal(t, []string{"voice-assistant"}, rec.issued)
}

func TestIssueDefaults(t *testing.T) {
	gen := &fakeGenerator{}
	svc := NewService(configured, gen, nil, nil, zerolog.Nop())

	_, err := svc.Issue(context.Background(), Request{})

	require.NoError(t, err)
	assert.Equal(t, DefaultRoom, gen.room)
	assert.Equal(t, DefaultName, gen.identity)
}

func TestIssueNotConfigured(t *testing.T) {
	for name, settings := range map[string]Settings{
		"no url":    {APIKey: "k", APISecret: "s"},
		"no key":    {URL: "wss://x", APISecret: "s"},
		"no secret": {URL: "wss://x", APIKey: "k"},
	} {
		t.Run(name, func(t *testing.T) {
			gen := &fakeGenerator{}
			rec := &fakeRecorder{}
			svc := NewService(settings, gen, nil, rec, zerolog.Nop())

			grant, err := svc.Issue(context.Background(), Request{})

			assert.Nil(t, grant)
			assert.ErrorIs(t, err, ErrNotConfigured)
			assert.Empty(t, gen.room)
			assert.Equal(t, []string{"not_configured"}, rec.failed)
		})
	}
}

func TestIssueGenerateFailure(t *testing.T) {
	cause := errors.New("bad secret")
	rooms := &fakeTracker{}
	svc := NewService(configured, &fakeGenerator{err: cause}, rooms, nil, zerolog.Nop())

	_, err := svc.Issue(context.Background(), Request{Room: "r"})

	assert.ErrorIs(t, err, ErrGenerate)
	assert.ErrorIs(t, err, cause)
	assert.Empty(t, rooms.rooms)
}
