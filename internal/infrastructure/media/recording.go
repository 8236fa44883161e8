package media

import (
	"sync"

	"github.com/pion/rtp"
	"github.com/pion/webrtc/v4/pkg/media/oggwriter"
)

type recording struct {
	path string
	done chan struct{}

	mu     sync.Mutex
	writer *oggwriter.OggWriter
	closed bool
}

func (r *recording) write(pkt *rtp.Packet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrSinkClosed
	}
	return r.writer.WriteRTP(pkt)
}

func (r *recording) close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	return r.writer.Close()
}
