package voice

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/pion/rtp"
)

// callLog records teardown and lifecycle calls in order.
type callLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *callLog) add(call string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, call)
}

func (l *callLog) snapshot() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.calls...)
}

type fakeBackend struct {
	mu       sync.Mutex
	log      *callLog
	err      error
	connects int
	events   Events
	session  *fakeSession
	// block, when set, holds Connect until it is closed or ctx is done.
	block   chan struct{}
	entered chan struct{}
	// beforeReturn runs with the events handle before Connect returns.
	beforeReturn func(ev Events)
}

func newFakeBackend(log *callLog) *fakeBackend {
	return &fakeBackend{
		log:     log,
		session: &fakeSession{log: log, room: "voice-assistant", identity: "alice"},
	}
}

func (b *fakeBackend) Connect(ctx context.Context, url, token string, events Events) (Session, error) {
	b.mu.Lock()
	b.connects++
	b.events = events
	block, entered, err, sess, hook := b.block, b.entered, b.err, b.session, b.beforeReturn
	b.mu.Unlock()

	b.log.add("connect")
	if entered != nil {
		close(entered)
	}
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
		}
	}
	if err != nil {
		return nil, err
	}
	if hook != nil {
		hook(events)
	}
	return sess, nil
}

func (b *fakeBackend) connectCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.connects
}

func (b *fakeBackend) currentEvents() Events {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.events
}

type fakeSession struct {
	log        *callLog
	room       string
	identity   string
	remotes    []RemoteParticipant
	publishErr error

	mu        sync.Mutex
	closed    int
	published []LocalAudioTrack
}

func (s *fakeSession) Room() string          { return s.room }
func (s *fakeSession) LocalIdentity() string { return s.identity }

func (s *fakeSession) RemoteParticipants() []RemoteParticipant {
	return s.remotes
}

func (s *fakeSession) PublishAudio(track LocalAudioTrack) (LocalPublication, error) {
	if s.publishErr != nil {
		return nil, s.publishErr
	}
	s.mu.Lock()
	s.published = append(s.published, track)
	s.mu.Unlock()
	s.log.add("publish")
	return fakeLocalPub("TR_local"), nil
}

func (s *fakeSession) Unpublish(pub LocalPublication) error {
	s.log.add("unpublish")
	return nil
}

func (s *fakeSession) Close() {
	s.mu.Lock()
	s.closed++
	s.mu.Unlock()
	s.log.add("close-session")
}

func (s *fakeSession) closeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

type fakeLocalPub string

func (p fakeLocalPub) SID() string { return string(p) }

type fakeParticipant struct {
	identity string
	pubs     []RemotePublication
}

func (p *fakeParticipant) Identity() string                  { return p.identity }
func (p *fakeParticipant) Publications() []RemotePublication { return p.pubs }

type fakePublication struct {
	sid  string
	kind TrackKind

	mu         sync.Mutex
	subscribed bool
	calls      int
}

func (p *fakePublication) SID() string     { return p.sid }
func (p *fakePublication) Kind() TrackKind { return p.kind }

func (p *fakePublication) IsSubscribed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.subscribed
}

func (p *fakePublication) SetSubscribed(v bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subscribed = v
	p.calls++
	return nil
}

func (p *fakePublication) subscribeCalls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

type fakeRemoteTrack struct {
	id   string
	kind TrackKind
}

func (t *fakeRemoteTrack) ID() string                    { return t.id }
func (t *fakeRemoteTrack) Kind() TrackKind               { return t.kind }
func (t *fakeRemoteTrack) MimeType() string              { return "audio/opus" }
func (t *fakeRemoteTrack) ClockRate() uint32             { return 48000 }
func (t *fakeRemoteTrack) Channels() uint16              { return 2 }
func (t *fakeRemoteTrack) ReadRTP() (*rtp.Packet, error) { return nil, io.EOF }

type fakeTrack struct {
	log     *callLog
	id      string
	stopped int
}

func (t *fakeTrack) ID() string { return t.id }

func (t *fakeTrack) Stop() error {
	t.stopped++
	t.log.add("stop-track")
	return nil
}

type fakeMicrophone struct {
	log   *callLog
	err   error
	track *fakeTrack
}

func (m *fakeMicrophone) Acquire(ctx context.Context) (LocalAudioTrack, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.track = &fakeTrack{log: m.log, id: "TR_mic"}
	return m.track, nil
}

type fakeSink struct {
	log *callLog

	mu       sync.Mutex
	attached []string
	closed   int
}

func (s *fakeSink) Attach(track RemoteTrack, participant string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attached = append(s.attached, fmt.Sprintf("%s/%s", participant, track.ID()))
	return nil
}

func (s *fakeSink) Close() error {
	s.mu.Lock()
	s.closed++
	s.mu.Unlock()
	s.log.add("close-sink")
	return nil
}

func (s *fakeSink) attachedTracks() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.attached...)
}

type fakeTokens struct {
	url   string
	token string
	err   error
	calls int
}

func (f *fakeTokens) Fetch(ctx context.Context, room, name string) (string, string, error) {
	f.calls++
	if f.err != nil {
		return "", "", f.err
	}
	return f.url, f.token, nil
}

var errDenied = errors.New("permission denied")
