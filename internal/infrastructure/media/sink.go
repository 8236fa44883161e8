package media

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/pion/webrtc/v4"
	"github.com/pion/webrtc/v4/pkg/media/oggwriter"
	"github.com/rs/zerolog"

	"travai-server/internal/domain/voice"
)

var (
	// ErrUnsupportedCodec is returned for remote tracks that are not Opus.
	ErrUnsupportedCodec = errors.New("unsupported audio codec")
	// ErrSinkClosed is returned when attaching to a closed sink.
	ErrSinkClosed = errors.New("sink closed")
)

const drainTimeout = 2 * time.Second

// OggSink records each attached remote audio track to its own Ogg/Opus file.
type OggSink struct {
	dir string
	log zerolog.Logger

	mu         sync.Mutex
	closed     bool
	recordings []*recording
	wg         sync.WaitGroup
}

// NewOggSink creates a sink writing into dir, creating it if needed.
func NewOggSink(dir string, log zerolog.Logger) (*OggSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create recording dir: %w", err)
	}
	return &OggSink{
		dir: dir,
		log: log.With().Str("component", "ogg-sink").Logger(),
	}, nil
}

// Factory returns a voice.SinkFactory creating OggSinks in dir.
func Factory(dir string, log zerolog.Logger) voice.SinkFactory {
	return func() (voice.Sink, error) {
		return NewOggSink(dir, log)
	}
}

// Attach starts recording track.
func (s *OggSink) Attach(track voice.RemoteTrack, participant string) error {
	if !strings.EqualFold(track.MimeType(), webrtc.MimeTypeOpus) {
		return fmt.Errorf("%w: %s", ErrUnsupportedCodec, track.MimeType())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSinkClosed
	}

	path := filepath.Join(s.dir, fileName(participant, track.ID()))
	w, err := oggwriter.New(path, track.ClockRate(), track.Channels())
	if err != nil {
		return fmt.Errorf("create ogg file: %w", err)
	}

	rec := &recording{writer: w, path: path, done: make(chan struct{})}
	s.recordings = append(s.recordings, rec)
	s.wg.Add(1)
	go s.record(rec, track)

	s.log.Info().Str("participant", participant).Str("file", path).Msg("recording remote audio")
	return nil
}

// Close stops all recordings and finalizes their files.
func (s *OggSink) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	recordings := s.recordings
	s.mu.Unlock()

	var errs []error
	for _, rec := range recordings {
		if err := rec.close(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", rec.path, err))
		}
	}

	drained := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(drained)
	}()
	select {
	case <-drained:
	case <-time.After(drainTimeout):
		s.log.Warn().Msg("remote tracks still open after sink close")
	}

	return errors.Join(errs...)
}

func (s *OggSink) record(rec *recording, track voice.RemoteTrack) {
	defer s.wg.Done()
	defer close(rec.done)

	packets := 0
	for {
		pkt, err := track.ReadRTP()
		if err != nil {
			break
		}
		if err := rec.write(pkt); err != nil {
			if !errors.Is(err, ErrSinkClosed) {
				s.log.Warn().Err(err).Str("file", rec.path).Msg("failed to write audio packet")
			}
			break
		}
		packets++
	}

	if err := rec.close(); err != nil {
		s.log.Warn().Err(err).Str("file", rec.path).Msg("failed to finalize recording")
	}
	s.log.Debug().Str("file", rec.path).Int("packets", packets).Msg("recording finished")
}

func fileName(participant, trackID string) string {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, participant+"-"+trackID)
	return clean + ".ogg"
}
