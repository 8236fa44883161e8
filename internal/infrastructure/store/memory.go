package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"travai-server/internal/domain/presence"
)

// MemoryStore is a mutex-based in-memory presence store.
type MemoryStore struct {
	mu    sync.RWMutex
	rooms map[string]*presence.Room
	now   func() time.Time
	log   zerolog.Logger
}

// NewMemoryStore creates a new in-memory presence store.
func NewMemoryStore(log zerolog.Logger) *MemoryStore {
	return &MemoryStore{
		rooms: make(map[string]*presence.Room),
		now:   time.Now,
		log:   log.With().Str("component", "presence-store").Logger(),
	}
}

// Track starts tracking a room.
func (s *MemoryStore) Track(ctx context.Context, room string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.rooms[room]; exists {
		return
	}
	now := s.now()
	s.rooms[room] = &presence.Room{Name: room, TrackedAt: now, UpdatedAt: now}
	s.log.Debug().Str("room", room).Msg("room tracked")
}

// Get returns a copy of a tracked room.
func (s *MemoryStore) Get(ctx context.Context, room string) (*presence.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.rooms[room]
	if !ok {
		return nil, presence.ErrRoomNotFound
	}
	return clone(r), nil
}

// List returns copies of all tracked rooms ordered by name.
func (s *MemoryStore) List(ctx context.Context) ([]*presence.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*presence.Room, 0, len(s.rooms))
	for _, r := range s.rooms {
		result = append(result, clone(r))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// Update records the participants of a tracked room.
func (s *MemoryStore) Update(ctx context.Context, room string, active bool, participants []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rooms[room]
	if !ok {
		return presence.ErrRoomNotFound
	}
	now := s.now()
	r.Active = active
	r.Participants = append([]string(nil), participants...)
	r.UpdatedAt = now
	if active {
		r.LastActiveAt = now
	}
	return nil
}

// Delete stops tracking a room.
func (s *MemoryStore) Delete(ctx context.Context, room string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rooms[room]; !ok {
		return presence.ErrRoomNotFound
	}
	delete(s.rooms, room)
	return nil
}

// Len returns the number of tracked rooms.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rooms)
}

func clone(r *presence.Room) *presence.Room {
	c := *r
	c.Participants = append([]string(nil), r.Participants...)
	return &c
}
