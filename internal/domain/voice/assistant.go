package voice

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

const (
	StatusConnecting = "Connecting..."
	StatusListening  = "Listening..."
	StatusIdle       = "Click to activate voice assistant"
)

// TokenSource obtains a session url/token pair for a room.
type TokenSource interface {
	Fetch(ctx context.Context, room, name string) (url, token string, err error)
}

// Assistant is the push-to-talk front of a Connector: one toggle that fetches
// fresh credentials and connects, or hangs up when already listening.
type Assistant struct {
	tokens    TokenSource
	connector *Connector
	room      string
	name      string
	log       zerolog.Logger

	mu         sync.Mutex
	listening  bool
	connecting bool
}

// NewAssistant builds an assistant and its connector. The listening flag
// follows the connector's connected and disconnected callbacks; any callbacks
// already present in opts still run.
func NewAssistant(tokens TokenSource, backend Backend, room, name string, opts Options, log zerolog.Logger) *Assistant {
	a := &Assistant{
		tokens: tokens,
		room:   room,
		name:   name,
		log:    log.With().Str("component", "voice-assistant").Str("room", room).Logger(),
	}

	onConnected := opts.OnConnected
	opts.OnConnected = func(sess Session) {
		a.setListening(true)
		if onConnected != nil {
			onConnected(sess)
		}
	}
	onDisconnected := opts.OnDisconnected
	opts.OnDisconnected = func() {
		a.setListening(false)
		if onDisconnected != nil {
			onDisconnected()
		}
	}
	onError := opts.OnError
	opts.OnError = func(err error) {
		a.setListening(false)
		if onError != nil {
			onError(err)
		}
	}

	a.connector = NewConnector(backend, opts, log)
	return a
}

// Connector exposes the underlying connector.
func (a *Assistant) Connector() *Connector {
	return a.connector
}

// Toggle disconnects when listening, otherwise fetches a token and connects.
// A token fetch failure is returned as *TokenFetchError and leaves the
// connector untouched.
func (a *Assistant) Toggle(ctx context.Context) (ConnectResult, error) {
	a.mu.Lock()
	if a.listening {
		a.mu.Unlock()
		a.log.Info().Msg("stopping voice assistant")
		a.connector.Disconnect()
		return ConnectResult{State: a.connector.State()}, nil
	}
	if a.connecting {
		a.mu.Unlock()
		return ConnectResult{State: a.connector.State()}, nil
	}
	a.connecting = true
	a.mu.Unlock()

	defer func() {
		a.mu.Lock()
		a.connecting = false
		a.mu.Unlock()
	}()

	url, token, err := a.tokens.Fetch(ctx, a.room, a.name)
	if err != nil {
		fetchErr := &TokenFetchError{Room: a.room, Err: err}
		a.log.Error().Err(err).Msg("failed to fetch session token")
		return ConnectResult{State: a.connector.State()}, fetchErr
	}

	a.connector.SetCredentials(url, token)
	result := a.connector.Connect(ctx)
	if result.Degraded {
		a.log.Warn().Err(result.MediaErr).Msg("listening without microphone")
	}
	return result, nil
}

// Stop hangs up regardless of the current state.
func (a *Assistant) Stop() {
	a.connector.Disconnect()
	a.setListening(false)
}

// Listening reports whether a session is connected.
func (a *Assistant) Listening() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.listening
}

// StatusText is the one-line status shown to the user.
func (a *Assistant) StatusText() string {
	a.mu.Lock()
	listening, connecting := a.listening, a.connecting
	a.mu.Unlock()

	switch {
	case connecting || a.connector.State() == StateConnecting:
		return StatusConnecting
	case listening:
		return StatusListening
	default:
		return StatusIdle
	}
}

func (a *Assistant) setListening(v bool) {
	a.mu.Lock()
	a.listening = v
	a.mu.Unlock()
}
