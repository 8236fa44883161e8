package voice

import (
	"context"

	"github.com/pion/rtp"
)

// TrackKind is the media kind of a track.
type TrackKind string

const (
	TrackKindAudio TrackKind = "audio"
	TrackKindVideo TrackKind = "video"
)

// Backend opens realtime sessions. Connect returns once the session is
// connected; ctx only bounds the open itself.
type Backend interface {
	Connect(ctx context.Context, url, token string, events Events) (Session, error)
}

// Events is the fixed set of notifications a session delivers.
// Connected is signalled by Backend.Connect returning.
type Events interface {
	// ParticipantJoined fires when a remote participant enters the room.
	ParticipantJoined(p RemoteParticipant)
	// TrackPublished fires when a participant advertises a new track.
	TrackPublished(pub RemotePublication, p RemoteParticipant)
	// TrackSubscribed fires when a subscribed remote track starts flowing.
	TrackSubscribed(track RemoteTrack, pub RemotePublication, p RemoteParticipant)
	// Disconnected fires when the remote side ends the session.
	Disconnected(reason string)
}

// Session is one open realtime connection.
type Session interface {
	Room() string
	LocalIdentity() string
	RemoteParticipants() []RemoteParticipant
	PublishAudio(track LocalAudioTrack) (LocalPublication, error)
	Unpublish(pub LocalPublication) error
	Close()
}

// LocalPublication is the handle of a published local track.
type LocalPublication interface {
	SID() string
}

// RemoteParticipant is an endpoint in the room other than us.
type RemoteParticipant interface {
	Identity() string
	Publications() []RemotePublication
}

// RemotePublication advertises a remote track that may be subscribed.
type RemotePublication interface {
	SID() string
	Kind() TrackKind
	IsSubscribed() bool
	SetSubscribed(subscribed bool) error
}

// RemoteTrack is a subscribed remote media track.
type RemoteTrack interface {
	ID() string
	Kind() TrackKind
	MimeType() string
	ClockRate() uint32
	Channels() uint16
	ReadRTP() (*rtp.Packet, error)
}

// LocalAudioTrack is a captured local audio source.
type LocalAudioTrack interface {
	ID() string
	Stop() error
}

// Microphone acquires the local audio source.
type Microphone interface {
	Acquire(ctx context.Context) (LocalAudioTrack, error)
}

// Sink plays (or records) remote audio.
type Sink interface {
	Attach(track RemoteTrack, participant string) error
	Close() error
}

// SinkFactory creates the playback sink on first use.
type SinkFactory func() (Sink, error)
