package voice

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"travai-server/internal/utils/idgen"
)

// Options configures a Connector. All callbacks are optional and run outside
// the connector lock.
type Options struct {
	PublishAudio bool
	Microphone   Microphone
	NewSink      SinkFactory

	OnConnected    func(sess Session)
	OnDisconnected func()
	OnError        func(err error)
	OnStateChange  func(from, to State)
}

// Connector mediates exactly one realtime audio session.
//
// Every attempt gets a generation number. Disconnect and remote disconnects
// bump it, which drops notifications and late results from older attempts.
type Connector struct {
	backend Backend
	opts    Options
	log     zerolog.Logger

	mu         sync.Mutex
	state      State
	url        string
	token      string
	gen        uint64
	attemptID  string
	cancel     context.CancelFunc
	session    Session
	localTrack LocalAudioTrack
	localPub   LocalPublication
	sink       Sink
	attached   map[string]struct{}
	pending    []func()
	lastErr    error
}

type transition struct {
	from State
	to   State
}

// NewConnector creates an idle connector.
func NewConnector(backend Backend, opts Options, log zerolog.Logger) *Connector {
	return &Connector{
		backend:  backend,
		opts:     opts,
		log:      log.With().Str("component", "session-connector").Logger(),
		state:    StateIdle,
		attached: make(map[string]struct{}),
	}
}

// SetCredentials stores the url/token pair used by the next Connect.
func (c *Connector) SetCredentials(url, token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.url = url
	c.token = token
}

// State returns the current connection state.
func (c *Connector) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Session returns the live session, or nil when not connected.
func (c *Connector) Session() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// LastError returns the error of the last failed attempt.
func (c *Connector) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Connect opens a session with the stored credentials.
//
// It is a no-op while a session is connecting or connected, and when the
// credentials are incomplete. Session open failures move the connector to
// StateFailed and are reported through OnError; local audio failures leave
// it connected and are only returned in ConnectResult.MediaErr.
func (c *Connector) Connect(ctx context.Context) ConnectResult {
	c.mu.Lock()
	if c.state.Active() {
		state := c.state
		c.mu.Unlock()
		c.log.Debug().Str("state", state.String()).Msg("connect ignored, session already active")
		return ConnectResult{State: state}
	}
	if c.url == "" || c.token == "" {
		state := c.state
		c.mu.Unlock()
		c.log.Warn().Msg("connect ignored, missing url or token")
		return ConnectResult{State: state, Err: ErrMissingCredentials}
	}

	var transitions []transition
	if c.state != StateIdle {
		transitions = append(transitions, c.setStateLocked(StateIdle))
	}
	c.gen++
	gen := c.gen
	attemptCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	c.cancel = cancel
	c.lastErr = nil
	c.pending = nil
	c.attemptID = newAttemptID()
	url, token, attemptID := c.url, c.token, c.attemptID
	transitions = append(transitions, c.setStateLocked(StateConnecting))
	c.mu.Unlock()
	c.emit(transitions...)

	log := c.log.With().Str("attempt_id", attemptID).Str("url", url).Logger()
	log.Info().Msg("connecting to realtime session")

	sess, err := c.backend.Connect(attemptCtx, url, token, &attemptEvents{c: c, gen: gen})

	c.mu.Lock()
	if gen != c.gen {
		state := c.state
		c.mu.Unlock()
		if sess != nil {
			sess.Close()
		}
		log.Info().Msg("connect attempt aborted by disconnect")
		return ConnectResult{Attempted: true, State: state, Err: ErrConnectAborted}
	}

	if err != nil {
		connErr := &SessionConnectError{URL: url, Err: err}
		c.lastErr = connErr
		c.pending = nil
		c.cancel = nil
		t := c.setStateLocked(StateFailed)
		c.mu.Unlock()
		c.emit(t)

		log.Error().Err(err).Msg("failed to connect to realtime session")
		if c.opts.OnError != nil {
			c.opts.OnError(connErr)
		}
		return ConnectResult{Attempted: true, State: StateFailed, Err: connErr}
	}

	c.session = sess
	pending := c.pending
	c.pending = nil
	t := c.setStateLocked(StateConnected)
	c.mu.Unlock()
	c.emit(t)

	log.Info().Str("room", sess.Room()).Str("identity", sess.LocalIdentity()).Msg("realtime session connected")

	// Notifications that arrived while connecting, then whoever was
	// already in the room when we joined.
	for _, fn := range pending {
		fn()
	}

	c.mu.Lock()
	if gen != c.gen {
		// A hangup queued during the join was just replayed.
		state := c.state
		c.mu.Unlock()
		return ConnectResult{Attempted: true, State: state, Err: ErrConnectAborted}
	}
	c.mu.Unlock()

	events := &attemptEvents{c: c, gen: gen}
	for _, p := range sess.RemoteParticipants() {
		events.ParticipantJoined(p)
	}

	var mediaErr error
	if c.opts.PublishAudio {
		mediaErr = c.publishLocalAudio(attemptCtx, gen, sess)
		if mediaErr != nil {
			log.Warn().Err(mediaErr).Msg("continuing without local audio")
		}
	}

	c.mu.Lock()
	stillConnected := gen == c.gen && c.state == StateConnected
	if stillConnected {
		c.cancel = nil
	}
	state := c.state
	c.mu.Unlock()
	if !stillConnected {
		return ConnectResult{Attempted: true, State: state, Err: ErrConnectAborted, MediaErr: mediaErr}
	}

	if c.opts.OnConnected != nil {
		c.opts.OnConnected(sess)
	}

	return ConnectResult{
		Attempted: true,
		State:     StateConnected,
		Degraded:  mediaErr != nil,
		MediaErr:  mediaErr,
	}
}

// Disconnect tears the session down and returns the connector to idle.
// It is safe in every state, including while a connect is in flight.
func (c *Connector) Disconnect() {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	sess, track, pub, sink := c.detachLocked()
	c.mu.Unlock()

	c.teardown(sess, track, pub, sink)

	c.mu.Lock()
	if gen != c.gen {
		// A new attempt started during teardown; it owns the state now.
		c.mu.Unlock()
		return
	}
	t := c.setStateLocked(StateIdle)
	c.mu.Unlock()
	c.emit(t)

	if sess != nil {
		c.log.Info().Msg("realtime session closed")
		if c.opts.OnDisconnected != nil {
			c.opts.OnDisconnected()
		}
	}
}

func (c *Connector) publishLocalAudio(ctx context.Context, gen uint64, sess Session) error {
	if c.opts.Microphone == nil {
		return &MediaAcquisitionError{Op: "acquire", Err: ErrNoMicrophone}
	}

	track, err := c.opts.Microphone.Acquire(ctx)
	if err != nil {
		return &MediaAcquisitionError{Op: "acquire", Err: err}
	}

	c.mu.Lock()
	if gen != c.gen || c.state != StateConnected {
		c.mu.Unlock()
		c.stopTrack(track)
		return nil
	}
	c.localTrack = track
	c.mu.Unlock()

	pub, err := sess.PublishAudio(track)
	if err != nil {
		c.mu.Lock()
		owned := c.localTrack == track
		if owned {
			c.localTrack = nil
		}
		c.mu.Unlock()
		if owned {
			c.stopTrack(track)
		}
		return &MediaAcquisitionError{Op: "publish", Err: err}
	}

	c.mu.Lock()
	if c.localTrack == track {
		c.localPub = pub
	}
	c.mu.Unlock()

	c.log.Info().Str("track_id", track.ID()).Str("publication", pub.SID()).Msg("local audio published")
	return nil
}

func (c *Connector) handleDisconnected(gen uint64, reason string) {
	c.mu.Lock()
	if gen == c.gen && c.state == StateConnecting {
		c.pending = append(c.pending, func() { c.handleDisconnected(gen, reason) })
		c.mu.Unlock()
		return
	}
	if gen != c.gen || c.state != StateConnected {
		c.mu.Unlock()
		return
	}
	c.gen++
	next := c.gen
	sess, track, pub, sink := c.detachLocked()
	c.mu.Unlock()

	c.log.Warn().Str("reason", reason).Msg("realtime session disconnected by remote")
	c.teardown(sess, track, pub, sink)

	c.mu.Lock()
	if next != c.gen {
		c.mu.Unlock()
		return
	}
	t := c.setStateLocked(StateDisconnected)
	c.mu.Unlock()
	c.emit(t)

	if c.opts.OnDisconnected != nil {
		c.opts.OnDisconnected()
	}
}

// dispatch runs fn against the live session of generation gen. While that
// generation is still connecting the call is queued for replay.
func (c *Connector) dispatch(gen uint64, fn func(sess Session)) {
	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		return
	}
	switch c.state {
	case StateConnecting:
		c.pending = append(c.pending, func() { c.dispatch(gen, fn) })
		c.mu.Unlock()
	case StateConnected:
		sess := c.session
		c.mu.Unlock()
		fn(sess)
	default:
		c.mu.Unlock()
	}
}

func (c *Connector) subscribeExisting(p RemoteParticipant) {
	c.log.Info().Str("participant", p.Identity()).Msg("remote participant connected")
	for _, pub := range p.Publications() {
		if pub.Kind() != TrackKindAudio || pub.IsSubscribed() {
			continue
		}
		c.subscribe(pub, p)
	}
}

func (c *Connector) handleTrackPublished(sess Session, pub RemotePublication, p RemoteParticipant) {
	if p.Identity() == sess.LocalIdentity() {
		return
	}
	if pub.Kind() != TrackKindAudio || pub.IsSubscribed() {
		return
	}
	c.subscribe(pub, p)
}

func (c *Connector) subscribe(pub RemotePublication, p RemoteParticipant) {
	if err := pub.SetSubscribed(true); err != nil {
		c.log.Warn().Err(err).
			Str("participant", p.Identity()).
			Str("publication", pub.SID()).
			Msg("failed to subscribe to remote audio")
		return
	}
	c.log.Debug().Str("participant", p.Identity()).Str("publication", pub.SID()).Msg("subscribed to remote audio")
}

func (c *Connector) handleTrackSubscribed(gen uint64, track RemoteTrack, pub RemotePublication, p RemoteParticipant) {
	if track.Kind() != TrackKindAudio {
		return
	}

	c.mu.Lock()
	if gen != c.gen || c.state != StateConnected {
		c.mu.Unlock()
		return
	}
	key := pub.SID()
	if _, ok := c.attached[key]; ok {
		c.mu.Unlock()
		return
	}
	if c.sink == nil {
		if c.opts.NewSink == nil {
			c.mu.Unlock()
			c.log.Debug().Str("participant", p.Identity()).Msg("no playback sink configured, remote audio dropped")
			return
		}
		sink, err := c.opts.NewSink()
		if err != nil {
			c.mu.Unlock()
			c.log.Error().Err(err).Msg("failed to create playback sink")
			return
		}
		c.sink = sink
	}
	c.attached[key] = struct{}{}
	sink := c.sink
	c.mu.Unlock()

	if err := sink.Attach(track, p.Identity()); err != nil {
		c.mu.Lock()
		if gen == c.gen {
			delete(c.attached, key)
		}
		c.mu.Unlock()
		c.log.Error().Err(err).Str("participant", p.Identity()).Msg("failed to attach remote audio")
		return
	}
	c.log.Info().Str("participant", p.Identity()).Str("track_id", track.ID()).Msg("playing remote audio")
}

// detachLocked hands over every live resource and resets session fields.
func (c *Connector) detachLocked() (Session, LocalAudioTrack, LocalPublication, Sink) {
	sess, track, pub, sink := c.session, c.localTrack, c.localPub, c.sink
	c.session = nil
	c.localTrack = nil
	c.localPub = nil
	c.sink = nil
	c.pending = nil
	c.attached = make(map[string]struct{})
	return sess, track, pub, sink
}

// teardown releases resources in a fixed order: local audio, session, sink.
func (c *Connector) teardown(sess Session, track LocalAudioTrack, pub LocalPublication, sink Sink) {
	if track != nil {
		if sess != nil && pub != nil {
			if err := sess.Unpublish(pub); err != nil {
				c.log.Debug().Err(err).Msg("failed to unpublish local audio")
			}
		}
		c.stopTrack(track)
	}
	if sess != nil {
		sess.Close()
	}
	if sink != nil {
		if err := sink.Close(); err != nil {
			c.log.Warn().Err(err).Msg("failed to release playback sink")
		}
	}
}

func (c *Connector) stopTrack(track LocalAudioTrack) {
	if err := track.Stop(); err != nil {
		c.log.Warn().Err(err).Str("track_id", track.ID()).Msg("failed to stop local audio")
	}
}

func (c *Connector) setStateLocked(to State) transition {
	from := c.state
	c.state = to
	return transition{from: from, to: to}
}

func (c *Connector) emit(transitions ...transition) {
	for _, t := range transitions {
		if t.from == t.to {
			continue
		}
		c.log.Debug().Str("from", t.from.String()).Str("to", t.to.String()).Msg("state transition")
		if c.opts.OnStateChange != nil {
			c.opts.OnStateChange(t.from, t.to)
		}
	}
}

func newAttemptID() string {
	return idgen.MustGenerate("conn", 16)
}

// attemptEvents binds session notifications to one connect attempt.
type attemptEvents struct {
	c   *Connector
	gen uint64
}

func (e *attemptEvents) ParticipantJoined(p RemoteParticipant) {
	e.c.dispatch(e.gen, func(Session) { e.c.subscribeExisting(p) })
}

func (e *attemptEvents) TrackPublished(pub RemotePublication, p RemoteParticipant) {
	e.c.dispatch(e.gen, func(sess Session) { e.c.handleTrackPublished(sess, pub, p) })
}

func (e *attemptEvents) TrackSubscribed(track RemoteTrack, pub RemotePublication, p RemoteParticipant) {
	e.c.dispatch(e.gen, func(Session) { e.c.handleTrackSubscribed(e.gen, track, pub, p) })
}

func (e *attemptEvents) Disconnected(reason string) {
	e.c.handleDisconnected(e.gen, reason)
}
