package presence

import "context"

// Store holds tracked rooms. Sync logic lives in the syncer, not here.
type Store interface {
	// Track starts tracking room. Tracking an already tracked room is a no-op.
	Track(ctx context.Context, room string)

	// Get returns a copy of a tracked room.
	Get(ctx context.Context, room string) (*Room, error)

	// List returns copies of all tracked rooms.
	List(ctx context.Context) ([]*Room, error)

	// Update records the participants LiveKit reports for room.
	Update(ctx context.Context, room string, active bool, participants []string) error

	// Delete stops tracking room.
	Delete(ctx context.Context, room string) error
}
