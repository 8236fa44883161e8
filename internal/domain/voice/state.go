package voice

// State is the connection state of a Connector.
type State string

const (
	// StateIdle means no session exists.
	StateIdle State = "idle"
	// StateConnecting means a session open is in flight.
	StateConnecting State = "connecting"
	// StateConnected means the session is open.
	StateConnected State = "connected"
	// StateDisconnected means the remote side closed the session.
	StateDisconnected State = "disconnected"
	// StateFailed means the last open attempt failed.
	StateFailed State = "failed"
)

// Active reports whether the state blocks a new connect attempt.
func (s State) Active() bool {
	return s == StateConnecting || s == StateConnected
}

func (s State) String() string {
	return string(s)
}

// ConnectResult describes the outcome of a Connect call.
//
// Err is fatal to the attempt (the connector ends in StateFailed, or the
// attempt was aborted). MediaErr is not: the session stayed connected
// without local audio and Degraded is set.
type ConnectResult struct {
	Attempted bool
	State     State
	Degraded  bool
	Err       error
	MediaErr  error
}

// Connected reports whether the attempt ended with an open session.
func (r ConnectResult) Connected() bool {
	return r.Attempted && r.Err == nil && r.State == StateConnected
}
