package token

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	DefaultRoom = "default-room"
	DefaultName = "user"
)

var (
	// ErrNotConfigured means the LiveKit url, key or secret is missing.
	ErrNotConfigured = errors.New("livekit not configured")
	// ErrGenerate means the signed token could not be produced.
	ErrGenerate = errors.New("token generation failed")
)

// Grant is what a client needs to open a session.
type Grant struct {
	Token string `json:"token"`
	URL   string `json:"url"`
}

// Request identifies who joins which room.
type Request struct {
	Room string
	Name string
}

// Generator mints signed access tokens.
type Generator interface {
	Generate(room, identity string, ttl time.Duration) (string, error)
}

// RoomTracker is told about every room a token was issued for.
type RoomTracker interface {
	Track(ctx context.Context, room string)
}

// Recorder observes token issuance outcomes.
type Recorder interface {
	TokenIssued(room string, elapsed time.Duration)
	TokenFailed(reason string)
}

// Settings is the LiveKit configuration the service needs.
type Settings struct {
	URL       string
	APIKey    string
	APISecret string
	TTL       time.Duration
}

func (s Settings) configured() bool {
	return s.URL != "" && s.APIKey != "" && s.APISecret != ""
}

// Service is the token boundary of the server.
type Service struct {
	settings Settings
	gen      Generator
	rooms    RoomTracker
	recorder Recorder
	log      zerolog.Logger
	now      func() time.Time
}

// NewService creates a token service. rooms and recorder may be nil.
func NewService(settings Settings, gen Generator, rooms RoomTracker, recorder Recorder, log zerolog.Logger) *Service {
	return &Service{
		settings: settings,
		gen:      gen,
		rooms:    rooms,
		recorder: recorder,
		log:      log.With().Str("component", "token-service").Logger(),
		now:      time.Now,
	}
}

// Normalize fills in the default room and name.
func Normalize(req Request) Request {
	req.Room = strings.TrimSpace(req.Room)
	req.Name = strings.TrimSpace(req.Name)
	if req.Room == "" {
		req.Room = DefaultRoom
	}
	if req.Name == "" {
		req.Name = DefaultName
	}
	return req
}

// Issue mints a token for req. It returns ErrNotConfigured when the LiveKit
// settings are incomplete and ErrGenerate when signing fails.
func (s *Service) Issue(ctx context.Context, req Request) (*Grant, error) {
	req = Normalize(req)

	if !s.settings.configured() {
		s.log.Error().Msg("LiveKit url, api key or api secret is not set")
		s.failed("not_configured")
		return nil, ErrNotConfigured
	}

	start := s.now()
	jwt, err := s.gen.Generate(req.Room, req.Name, s.settings.TTL)
	if err != nil {
		s.log.Error().Err(err).Str("room", req.Room).Msg("failed to generate token")
		s.failed("generate")
		return nil, errors.Join(ErrGenerate, err)
	}

	if s.rooms != nil {
		s.rooms.Track(ctx, req.Room)
	}
	if s.recorder != nil {
		s.recorder.TokenIssued(req.Room, s.now().Sub(start))
	}

	s.log.Info().
		Str("room", req.Room).
		Str("identity", req.Name).
		Dur("ttl", s.settings.TTL).
		Msg("token issued")

	return &Grant{Token: jwt, URL: s.settings.URL}, nil
}

func (s *Service) failed(reason string) {
	if s.recorder != nil {
		s.recorder.TokenFailed(reason)
	}
}
