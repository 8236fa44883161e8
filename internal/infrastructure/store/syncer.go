package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"travai-server/internal/domain/presence"
	"travai-server/internal/infrastructure/livekit"
)

// RoomLister is the part of the LiveKit room service the syncer polls.
type RoomLister interface {
	ListActiveRooms(ctx context.Context) (map[string]livekit.RoomInfo, error)
	ListParticipants(ctx context.Context, room string) ([]string, error)
}

// SyncRecorder observes sync cycles.
type SyncRecorder interface {
	SyncCompleted(elapsed time.Duration, tracked int)
	SyncFailed()
}

// Syncer keeps tracked rooms in line with LiveKit:
// - active rooms get their participant list refreshed
// - rooms LiveKit no longer reports are marked inactive
// - rooms inactive for longer than staleTTL are dropped
type Syncer struct {
	store    presence.Store
	rooms    RoomLister
	recorder SyncRecorder
	staleTTL time.Duration
	interval time.Duration
	now      func() time.Time
	log      zerolog.Logger

	done      chan struct{}
	wg        sync.WaitGroup
	startOnce sync.Once
	stopOnce  sync.Once
}

// NewSyncer creates a new presence syncer. recorder may be nil.
func NewSyncer(
	store presence.Store,
	rooms RoomLister,
	recorder SyncRecorder,
	staleTTL time.Duration,
	interval time.Duration,
	log zerolog.Logger,
) *Syncer {
	return &Syncer{
		store:    store,
		rooms:    rooms,
		recorder: recorder,
		staleTTL: staleTTL,
		interval: interval,
		now:      time.Now,
		log:      log.With().Str("component", "presence-syncer").Logger(),
		done:     make(chan struct{}),
	}
}

// Start begins the sync loop in background.
// Safe to call multiple times - only the first call starts the syncer.
func (s *Syncer) Start(ctx context.Context) {
	s.startOnce.Do(func() {
		s.wg.Add(1)
		go s.run(ctx)
		s.log.Info().Dur("interval", s.interval).Msg("presence syncer started")
	})
}

// Stop shuts the syncer down and waits for the loop to exit.
func (s *Syncer) Stop() {
	s.stopOnce.Do(func() {
		close(s.done)
		s.wg.Wait()
		s.log.Info().Msg("presence syncer stopped")
	})
}

func (s *Syncer) run(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.done:
			return
		case <-ticker.C:
			s.Sync(ctx)
		}
	}
}

// Sync runs one sync cycle.
func (s *Syncer) Sync(ctx context.Context) {
	start := s.now()

	tracked, err := s.store.List(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list tracked rooms")
		return
	}
	if len(tracked) == 0 {
		s.completed(start, 0)
		return
	}

	active, err := s.rooms.ListActiveRooms(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to list rooms from LiveKit, falling back to TTL cleanup")
		if s.recorder != nil {
			s.recorder.SyncFailed()
		}
		s.expire(ctx, tracked)
		return
	}

	summary := make([]string, 0, len(tracked))
	for _, room := range tracked {
		info, ok := active[room.Name]
		if !ok || info.NumParticipants == 0 {
			if room.Active {
				if err := s.store.Update(ctx, room.Name, false, nil); err == nil {
					s.log.Info().Str("room", room.Name).Msg("room became inactive")
				}
			}
			summary = append(summary, fmt.Sprintf("%s(-)", room.Name))
			continue
		}

		identities, err := s.rooms.ListParticipants(ctx, room.Name)
		if err != nil {
			s.log.Warn().Err(err).Str("room", room.Name).Msg("failed to list participants")
			continue
		}
		if err := s.store.Update(ctx, room.Name, true, identities); err != nil {
			continue
		}
		summary = append(summary, fmt.Sprintf("%s(%d)", room.Name, len(identities)))
	}

	remaining := s.expire(ctx, tracked)

	s.log.Debug().Strs("rooms", summary).Msg("sync cycle")
	s.completed(start, remaining)
}

// expire drops rooms that have been inactive longer than staleTTL and
// returns how many tracked rooms remain.
func (s *Syncer) expire(ctx context.Context, tracked []*presence.Room) int {
	now := s.now()
	remaining := len(tracked)

	for _, room := range tracked {
		current, err := s.store.Get(ctx, room.Name)
		if err != nil || current.Active {
			continue
		}
		since := current.LastActiveAt
		if since.IsZero() {
			since = current.TrackedAt
		}
		if now.Sub(since) <= s.staleTTL {
			continue
		}
		if err := s.store.Delete(ctx, room.Name); err == nil {
			remaining--
			s.log.Info().
				Str("room", room.Name).
				Dur("idle", now.Sub(since)).
				Msg("stale room dropped")
		}
	}
	return remaining
}

func (s *Syncer) completed(start time.Time, tracked int) {
	if s.recorder != nil {
		s.recorder.SyncCompleted(s.now().Sub(start), tracked)
	}
}
