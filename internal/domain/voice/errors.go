package voice

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingCredentials is reported when Connect is called without a url/token pair.
	ErrMissingCredentials = errors.New("session url and token are required")
	// ErrConnectAborted is reported when Disconnect or a remote hangup
	// interrupts an in-flight attempt.
	ErrConnectAborted = errors.New("connect aborted")
	// ErrNoMicrophone is reported when audio publishing is enabled without a source.
	ErrNoMicrophone = errors.New("no local audio source configured")
)

// TokenFetchError means the token endpoint could not produce credentials.
// No session is opened after it.
type TokenFetchError struct {
	Room string
	Err  error
}

func (e *TokenFetchError) Error() string {
	return fmt.Sprintf("fetch token for room %q: %v", e.Room, e.Err)
}

func (e *TokenFetchError) Unwrap() error {
	return e.Err
}

// SessionConnectError means the realtime client could not open the session.
type SessionConnectError struct {
	URL string
	Err error
}

func (e *SessionConnectError) Error() string {
	return fmt.Sprintf("connect to %s: %v", e.URL, e.Err)
}

func (e *SessionConnectError) Unwrap() error {
	return e.Err
}

// MediaAcquisitionError means the local audio source could not be acquired
// or published. It never changes the connection state.
type MediaAcquisitionError struct {
	Op  string // "acquire" or "publish"
	Err error
}

func (e *MediaAcquisitionError) Error() string {
	return fmt.Sprintf("local audio %s: %v", e.Op, e.Err)
}

func (e *MediaAcquisitionError) Unwrap() error {
	return e.Err
}
