package media

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	lksdk "github.com/livekit/server-sdk-go/v2"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog"

	"travai-server/internal/domain/voice"
)

// ErrNoSource is returned when no audio file is configured.
var ErrNoSource = errors.New("no audio source file configured")

const frameDuration = 20 * time.Millisecond

// FileMicrophone stands in for a capture device: it streams an Ogg/Opus file
// as the local audio track.
type FileMicrophone struct {
	path string
	log  zerolog.Logger
}

// NewFileMicrophone creates a microphone that plays path.
func NewFileMicrophone(path string, log zerolog.Logger) *FileMicrophone {
	return &FileMicrophone{
		path: path,
		log:  log.With().Str("component", "microphone").Logger(),
	}
}

// Acquire opens the audio file and wraps it in a LiveKit sample track.
func (m *FileMicrophone) Acquire(ctx context.Context) (voice.LocalAudioTrack, error) {
	if m.path == "" {
		return nil, ErrNoSource
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := os.Stat(m.path); err != nil {
		return nil, fmt.Errorf("open audio source: %w", err)
	}

	track, err := lksdk.NewLocalFileTrack(m.path,
		lksdk.ReaderTrackWithFrameDuration(frameDuration),
		lksdk.ReaderTrackWithOnWriteComplete(func() {
			m.log.Debug().Str("file", m.path).Msg("audio source finished")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("create audio track: %w", err)
	}

	m.log.Info().Str("file", m.path).Msg("audio source acquired")
	return &fileTrack{track: track}, nil
}

type fileTrack struct {
	track *lksdk.LocalTrack
}

func (t *fileTrack) ID() string {
	return t.track.ID()
}

func (t *fileTrack) Stop() error {
	return t.track.Close()
}

func (t *fileTrack) TrackLocal() webrtc.TrackLocal {
	return t.track
}
