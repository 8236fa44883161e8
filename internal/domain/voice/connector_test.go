package voice

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type transitionRecorder struct {
	mu  sync.Mutex
	seq []string
}

func (r *transitionRecorder) record(from, to State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq = append(r.seq, from.String()+"->"+to.String())
}

func (r *transitionRecorder) transitions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.seq...)
}

type harness struct {
	log       *callLog
	backend   *fakeBackend
	mic       *fakeMicrophone
	sink      *fakeSink
	rec       *transitionRecorder
	connector *Connector

	connected    []Session
	disconnected int
	errs         []error
}

func newHarness(t *testing.T, publishAudio bool) *harness {
	t.Helper()
	log := &callLog{}
	h := &harness{
		log:     log,
		backend: newFakeBackend(log),
		mic:     &fakeMicrophone{log: log},
		sink:    &fakeSink{log: log},
		rec:     &transitionRecorder{},
	}
	h.connector = NewConnector(h.backend, Options{
		PublishAudio:   publishAudio,
		Microphone:     h.mic,
		NewSink:        func() (Sink, error) { return h.sink, nil },
		OnConnected:    func(sess Session) { h.connected = append(h.connected, sess) },
		OnDisconnected: func() { h.disconnected++ },
		OnError:        func(err error) { h.errs = append(h.errs, err) },
		OnStateChange:  h.rec.record,
	}, zerolog.Nop())
	h.connector.SetCredentials("wss://livekit.example.com", "token-abc")
	return h
}

func TestConnectSuccessTransitions(t *testing.T) {
	h := newHarness(t, true)

	result := h.connector.Connect(context.Background())

	assert.True(t, result.Connected())
	assert.False(t, result.Degraded)
	assert.Equal(t, StateConnected, h.connector.State())
	assert.Equal(t, []string{"idle->connecting", "connecting->connected"}, h.rec.transitions())
	require.Len(t, h.connected, 1)
	assert.Same(t, h.backend.session, h.connected[0])
	assert.Equal(t, []string{"connect", "publish"}, h.log.snapshot())
	assert.Empty(t, h.errs)
}

func TestConnectFailureTransitions(t *testing.T) {
	h := newHarness(t, true)
	h.backend.err = errors.New("invalid token")

	result := h.connector.Connect(context.Background())

	assert.False(t, result.Connected())
	assert.Equal(t, StateFailed, result.State)
	assert.Equal(t, []string{"idle->connecting", "connecting->failed"}, h.rec.transitions())

	var connErr *SessionConnectError
	require.ErrorAs(t, result.Err, &connErr)
	assert.Equal(t, "wss://livekit.example.com", connErr.URL)
	require.Len(t, h.errs, 1)
	assert.ErrorAs(t, h.errs[0], &connErr)
	assert.ErrorIs(t, h.connector.LastError(), h.backend.err)
	assert.Empty(t, h.connected)
}

func TestConnectIsNoopWhenConnected(t *testing.T) {
	h := newHarness(t, false)
	require.True(t, h.connector.Connect(context.Background()).Connected())

	second := h.connector.Connect(context.Background())

	assert.False(t, second.Attempted)
	assert.Equal(t, StateConnected, second.State)
	assert.Equal(t, 1, h.backend.connectCount())
	assert.Same(t, h.backend.session, h.connector.Session())
	assert.Len(t, h.connected, 1)
}

func TestConnectIsNoopWhileConnecting(t *testing.T) {
	h := newHarness(t, false)
	h.backend.block = make(chan struct{})
	h.backend.entered = make(chan struct{})

	done := make(chan ConnectResult, 1)
	go func() { done <- h.connector.Connect(context.Background()) }()
	<-h.backend.entered

	second := h.connector.Connect(context.Background())
	assert.False(t, second.Attempted)
	assert.Equal(t, StateConnecting, second.State)

	close(h.backend.block)
	first := <-done
	assert.True(t, first.Connected())
	assert.Equal(t, 1, h.backend.connectCount())
}

func TestConnectWithoutCredentials(t *testing.T) {
	h := newHarness(t, false)
	h.connector.SetCredentials("", "")

	result := h.connector.Connect(context.Background())

	assert.ErrorIs(t, result.Err, ErrMissingCredentials)
	assert.False(t, result.Attempted)
	assert.Equal(t, StateIdle, h.connector.State())
	assert.Empty(t, h.rec.transitions())
	assert.Zero(t, h.backend.connectCount())
}

func TestDegradedWhenMicrophoneFails(t *testing.T) {
	h := newHarness(t, true)
	h.mic.err = errDenied

	result := h.connector.Connect(context.Background())

	assert.True(t, result.Connected())
	assert.True(t, result.Degraded)
	assert.NoError(t, result.Err)
	var mediaErr *MediaAcquisitionError
	require.ErrorAs(t, result.MediaErr, &mediaErr)
	assert.Equal(t, "acquire", mediaErr.Op)
	assert.Equal(t, StateConnected, h.connector.State())
	assert.Empty(t, h.errs)
	assert.Len(t, h.connected, 1)
}

func TestDegradedWhenPublishFails(t *testing.T) {
	h := newHarness(t, true)
	h.backend.session.publishErr = errors.New("publish rejected")

	result := h.connector.Connect(context.Background())

	assert.True(t, result.Degraded)
	assert.Equal(t, StateConnected, h.connector.State())
	require.NotNil(t, h.mic.track)
	assert.Equal(t, 1, h.mic.track.stopped)
	assert.Empty(t, h.errs)
}

func TestDegradedWithoutMicrophone(t *testing.T) {
	h := newHarness(t, true)
	h.connector.opts.Microphone = nil

	result := h.connector.Connect(context.Background())

	assert.True(t, result.Degraded)
	assert.ErrorIs(t, result.MediaErr, ErrNoMicrophone)
}

func TestDisconnectFromEveryState(t *testing.T) {
	t.Run("idle", func(t *testing.T) {
		h := newHarness(t, false)
		assert.NotPanics(t, h.connector.Disconnect)
		assert.Equal(t, StateIdle, h.connector.State())
		assert.Zero(t, h.disconnected)
	})

	t.Run("connected", func(t *testing.T) {
		h := newHarness(t, true)
		h.connector.Connect(context.Background())

		h.connector.Disconnect()

		assert.Equal(t, StateIdle, h.connector.State())
		assert.Nil(t, h.connector.Session())
		assert.Equal(t, 1, h.disconnected)
		assert.Equal(t, 1, h.backend.session.closeCount())
	})

	t.Run("failed", func(t *testing.T) {
		h := newHarness(t, false)
		h.backend.err = errors.New("unreachable")
		h.connector.Connect(context.Background())
		require.Equal(t, StateFailed, h.connector.State())

		h.connector.Disconnect()

		assert.Equal(t, StateIdle, h.connector.State())
		assert.Equal(t, []string{"idle->connecting", "connecting->failed", "failed->idle"}, h.rec.transitions())
	})

	t.Run("connecting", func(t *testing.T) {
		h := newHarness(t, true)
		h.backend.block = make(chan struct{})
		h.backend.entered = make(chan struct{})

		done := make(chan ConnectResult, 1)
		go func() { done <- h.connector.Connect(context.Background()) }()
		<-h.backend.entered

		h.connector.Disconnect()
		result := <-done

		assert.ErrorIs(t, result.Err, ErrConnectAborted)
		assert.Equal(t, StateIdle, h.connector.State())
		assert.Equal(t, 1, h.backend.session.closeCount())
		assert.Nil(t, h.mic.track)
		assert.Empty(t, h.connected)
		assert.Empty(t, h.errs)
	})
}

func TestDisconnectIsIdempotent(t *testing.T) {
	h := newHarness(t, false)
	h.connector.Connect(context.Background())

	h.connector.Disconnect()
	h.connector.Disconnect()

	assert.Equal(t, 1, h.disconnected)
	assert.Equal(t, 1, h.backend.session.closeCount())
}

func TestTeardownOrder(t *testing.T) {
	h := newHarness(t, true)
	h.connector.Connect(context.Background())

	agent := &fakeParticipant{identity: "agent-1"}
	pub := &fakePublication{sid: "TR_agent", kind: TrackKindAudio}
	h.backend.currentEvents().TrackSubscribed(&fakeRemoteTrack{id: "agent-audio", kind: TrackKindAudio}, pub, agent)

	h.connector.Disconnect()

	assert.Equal(t, []string{
		"connect", "publish",
		"unpublish", "stop-track", "close-session", "close-sink",
	}, h.log.snapshot())
}

func TestParticipantJoinSubscribesExistingAudio(t *testing.T) {
	h := newHarness(t, false)
	h.connector.Connect(context.Background())

	audio := &fakePublication{sid: "TR_a", kind: TrackKindAudio}
	video := &fakePublication{sid: "TR_v", kind: TrackKindVideo}
	already := &fakePublication{sid: "TR_b", kind: TrackKindAudio, subscribed: true}
	agent := &fakeParticipant{identity: "agent-1", pubs: []RemotePublication{audio, video, already}}

	h.backend.currentEvents().ParticipantJoined(agent)

	assert.True(t, audio.IsSubscribed())
	assert.False(t, video.IsSubscribed())
	assert.Zero(t, already.subscribeCalls())
}

func TestParticipantsPresentAtJoinAreSubscribed(t *testing.T) {
	h := newHarness(t, false)
	audio := &fakePublication{sid: "TR_a", kind: TrackKindAudio}
	h.backend.session.remotes = []RemoteParticipant{
		&fakeParticipant{identity: "agent-1", pubs: []RemotePublication{audio}},
	}

	h.connector.Connect(context.Background())

	assert.True(t, audio.IsSubscribed())
}

func TestNotificationsWhileConnectingAreReplayed(t *testing.T) {
	h := newHarness(t, false)
	audio := &fakePublication{sid: "TR_a", kind: TrackKindAudio}
	agent := &fakeParticipant{identity: "agent-1", pubs: []RemotePublication{audio}}
	h.backend.beforeReturn = func(ev Events) {
		ev.ParticipantJoined(agent)
	}

	h.connector.Connect(context.Background())

	assert.True(t, audio.IsSubscribed())
	assert.Equal(t, 1, audio.subscribeCalls())
}

func TestTrackPublishedSubscribesRemoteAudioOnly(t *testing.T) {
	h := newHarness(t, false)
	h.connector.Connect(context.Background())
	events := h.backend.currentEvents()

	remoteAudio := &fakePublication{sid: "TR_a", kind: TrackKindAudio}
	remoteVideo := &fakePublication{sid: "TR_v", kind: TrackKindVideo}
	ownAudio := &fakePublication{sid: "TR_own", kind: TrackKindAudio}

	events.TrackPublished(remoteAudio, &fakeParticipant{identity: "agent-1"})
	events.TrackPublished(remoteVideo, &fakeParticipant{identity: "agent-1"})
	events.TrackPublished(ownAudio, &fakeParticipant{identity: "alice"})

	assert.True(t, remoteAudio.IsSubscribed())
	assert.False(t, remoteVideo.IsSubscribed())
	assert.False(t, ownAudio.IsSubscribed())
}

func TestTrackSubscribedAttachesOnce(t *testing.T) {
	h := newHarness(t, false)
	sinks := 0
	h.connector.opts.NewSink = func() (Sink, error) {
		sinks++
		return h.sink, nil
	}
	h.connector.Connect(context.Background())
	events := h.backend.currentEvents()

	agent := &fakeParticipant{identity: "agent-1"}
	pub := &fakePublication{sid: "TR_a", kind: TrackKindAudio}
	track := &fakeRemoteTrack{id: "agent-audio", kind: TrackKindAudio}

	events.TrackSubscribed(track, pub, agent)
	events.TrackSubscribed(track, pub, agent)
	events.TrackSubscribed(&fakeRemoteTrack{id: "cam", kind: TrackKindVideo}, &fakePublication{sid: "TR_v", kind: TrackKindVideo}, agent)

	assert.Equal(t, []string{"agent-1/agent-audio"}, h.sink.attachedTracks())
	assert.Equal(t, 1, sinks)
}

func TestRemoteDisconnect(t *testing.T) {
	h := newHarness(t, true)
	h.connector.Connect(context.Background())
	events := h.backend.currentEvents()

	events.Disconnected("server shutdown")

	assert.Equal(t, StateDisconnected, h.connector.State())
	assert.Equal(t, 1, h.disconnected)
	assert.Equal(t, 1, h.backend.session.closeCount())
	assert.Equal(t, 1, h.mic.track.stopped)

	// Late notifications from the closed session are dropped.
	pub := &fakePublication{sid: "TR_late", kind: TrackKindAudio}
	events.TrackPublished(pub, &fakeParticipant{identity: "agent-1"})
	assert.False(t, pub.IsSubscribed())
}

func TestReconnectAfterFailure(t *testing.T) {
	h := newHarness(t, false)
	h.backend.err = errors.New("unreachable")
	h.connector.Connect(context.Background())

	h.backend.err = nil
	result := h.connector.Connect(context.Background())

	assert.True(t, result.Connected())
	assert.Equal(t, []string{
		"idle->connecting", "connecting->failed",
		"failed->idle", "idle->connecting", "connecting->connected",
	}, h.rec.transitions())
	assert.Nil(t, h.connector.LastError())
}

func TestFailedIsSticky(t *testing.T) {
	h := newHarness(t, false)
	h.backend.err = errors.New("unreachable")
	h.connector.Connect(context.Background())
	h.connector.SetCredentials("wss://livekit.example.com", "token-new")

	assert.Equal(t, StateFailed, h.connector.State())
	assert.Equal(t, 1, h.backend.connectCount())
}

func TestRemoteHangupDuringJoin(t *testing.T) {
	h := newHarness(t, true)
	h.backend.beforeReturn = func(ev Events) {
		ev.Disconnected("server closed during join")
	}

	result := h.connector.Connect(context.Background())

	assert.True(t, result.Attempted)
	assert.False(t, result.Connected())
	assert.ErrorIs(t, result.Err, ErrConnectAborted)
	assert.Equal(t, StateDisconnected, result.State)
	assert.Equal(t, StateDisconnected, h.connector.State())
	assert.Equal(t, []string{
		"idle->connecting", "connecting->connected", "connected->disconnected",
	}, h.rec.transitions())
	assert.Equal(t, 1, h.backend.session.closeCount())
	assert.Equal(t, 1, h.disconnected)
	assert.Empty(t, h.connected)
	assert.Nil(t, h.mic.track)
	assert.Nil(t, h.connector.Session())
}

func TestConnectLogsAttemptID(t *testing.T) {
	var buf bytes.Buffer
	backend := newFakeBackend(&callLog{})
	c := NewConnector(backend, Options{}, zerolog.New(&buf))
	c.SetCredentials("wss://livekit.example.com", "token-abc")

	c.Connect(context.Background())

	assert.Regexp(t, `"attempt_id":"conn_[0-9a-z]{16}"`, buf.String())
}
