package livekit

import (
	"context"
	"errors"
	"fmt"

	lksdk "github.com/livekit/server-sdk-go/v2"
	"github.com/pion/rtp"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog"

	"travai-server/internal/domain/voice"
)

// PublishableTrack is a local audio track backed by a WebRTC track.
type PublishableTrack interface {
	voice.LocalAudioTrack
	TrackLocal() webrtc.TrackLocal
}

// SessionBackend opens realtime sessions with the LiveKit Go SDK.
// Auto-subscribe is off; the connector decides what to subscribe.
type SessionBackend struct {
	log zerolog.Logger
}

// NewSessionBackend creates a LiveKit session backend.
func NewSessionBackend(log zerolog.Logger) *SessionBackend {
	return &SessionBackend{log: log.With().Str("component", "livekit-session").Logger()}
}

// Connect joins the room encoded in token and returns once connected.
func (b *SessionBackend) Connect(ctx context.Context, url, token string, events voice.Events) (voice.Session, error) {
	room := lksdk.NewRoom(&lksdk.RoomCallback{
		OnParticipantConnected: func(rp *lksdk.RemoteParticipant) {
			events.ParticipantJoined(&remoteParticipant{rp: rp})
		},
		OnDisconnected: func() {
			events.Disconnected("room disconnected")
		},
		ParticipantCallback: lksdk.ParticipantCallback{
			OnTrackPublished: func(pub *lksdk.RemoteTrackPublication, rp *lksdk.RemoteParticipant) {
				events.TrackPublished(&remotePublication{pub: pub}, &remoteParticipant{rp: rp})
			},
			OnTrackSubscribed: func(track *webrtc.TrackRemote, pub *lksdk.RemoteTrackPublication, rp *lksdk.RemoteParticipant) {
				events.TrackSubscribed(&remoteTrack{track: track}, &remotePublication{pub: pub}, &remoteParticipant{rp: rp})
			},
		},
	})

	joined := make(chan error, 1)
	go func() {
		joined <- room.JoinWithToken(url, token, lksdk.WithAutoSubscribe(false))
	}()

	select {
	case err := <-joined:
		if err != nil {
			return nil, fmt.Errorf("join room: %w", err)
		}
	case <-ctx.Done():
		go func() {
			if err := <-joined; err == nil {
				room.Disconnect()
			}
		}()
		return nil, ctx.Err()
	}

	b.log.Debug().Str("room", room.Name()).Str("identity", room.LocalParticipant.Identity()).Msg("joined room")
	return &session{room: room, log: b.log}, nil
}

type session struct {
	room *lksdk.Room
	log  zerolog.Logger
}

func (s *session) Room() string {
	return s.room.Name()
}

func (s *session) LocalIdentity() string {
	return s.room.LocalParticipant.Identity()
}

func (s *session) RemoteParticipants() []voice.RemoteParticipant {
	remotes := s.room.GetRemoteParticipants()
	out := make([]voice.RemoteParticipant, 0, len(remotes))
	for _, rp := range remotes {
		out = append(out, &remoteParticipant{rp: rp})
	}
	return out
}

func (s *session) PublishAudio(track voice.LocalAudioTrack) (voice.LocalPublication, error) {
	pt, ok := track.(PublishableTrack)
	if !ok {
		return nil, errors.New("local track cannot be published over WebRTC")
	}
	pub, err := s.room.LocalParticipant.PublishTrack(pt.TrackLocal(), &lksdk.TrackPublicationOptions{
		Name: "microphone",
	})
	if err != nil {
		return nil, err
	}
	return localPublication{sid: pub.SID()}, nil
}

func (s *session) Unpublish(pub voice.LocalPublication) error {
	return s.room.LocalParticipant.UnpublishTrack(pub.SID())
}

func (s *session) Close() {
	s.room.Disconnect()
}

type localPublication struct {
	sid string
}

func (p localPublication) SID() string { return p.sid }

type remoteParticipant struct {
	rp *lksdk.RemoteParticipant
}

func (p *remoteParticipant) Identity() string {
	return p.rp.Identity()
}

func (p *remoteParticipant) Publications() []voice.RemotePublication {
	return remotePublications(p.rp.TrackPublications())
}

// remotePublications keeps the remote entries of pubs.
func remotePublications(pubs []lksdk.TrackPublication) []voice.RemotePublication {
	out := make([]voice.RemotePublication, 0, len(pubs))
	for _, tp := range pubs {
		if rpub, ok := tp.(*lksdk.RemoteTrackPublication); ok {
			out = append(out, &remotePublication{pub: rpub})
		}
	}
	return out
}

type remotePublication struct {
	pub *lksdk.RemoteTrackPublication
}

func (p *remotePublication) SID() string { return p.pub.SID() }

func (p *remotePublication) Kind() voice.TrackKind { return publicationKind(p.pub.Kind()) }

func publicationKind(k lksdk.TrackKind) voice.TrackKind {
	if k == lksdk.TrackKindAudio {
		return voice.TrackKindAudio
	}
	return voice.TrackKindVideo
}

func (p *remotePublication) IsSubscribed() bool { return p.pub.IsSubscribed() }

func (p *remotePublication) SetSubscribed(subscribed bool) error {
	return p.pub.SetSubscribed(subscribed)
}

type remoteTrack struct {
	track *webrtc.TrackRemote
}

func (t *remoteTrack) ID() string { return t.track.ID() }

func (t *remoteTrack) Kind() voice.TrackKind { return codecKind(t.track.Kind()) }

func codecKind(k webrtc.RTPCodecType) voice.TrackKind {
	if k == webrtc.RTPCodecTypeAudio {
		return voice.TrackKindAudio
	}
	return voice.TrackKindVideo
}

func (t *remoteTrack) MimeType() string  { return t.track.Codec().MimeType }
func (t *remoteTrack) ClockRate() uint32 { return t.track.Codec().ClockRate }
func (t *remoteTrack) Channels() uint16  { return t.track.Codec().Channels }

func (t *remoteTrack) ReadRTP() (*rtp.Packet, error) {
	pkt, _, err := t.track.ReadRTP()
	return pkt, err
}
