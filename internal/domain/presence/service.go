package presence

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
)

// Service answers presence queries.
type Service struct {
	store       Store
	agentPrefix string
	log         zerolog.Logger
}

// NewService creates a presence service. Participants whose identity starts
// with agentPrefix count as the voice agent.
func NewService(store Store, agentPrefix string, log zerolog.Logger) *Service {
	return &Service{
		store:       store,
		agentPrefix: agentPrefix,
		log:         log.With().Str("component", "presence-service").Logger(),
	}
}

// Status returns the presence of a tracked room.
func (s *Service) Status(ctx context.Context, room string) (*Status, error) {
	r, err := s.store.Get(ctx, room)
	if err != nil {
		return nil, err
	}

	participants := r.Participants
	if participants == nil {
		participants = []string{}
	}

	return &Status{
		Room:         r.Name,
		Active:       r.Active,
		Participants: participants,
		AgentPresent: s.agentIn(participants),
		UpdatedAt:    r.UpdatedAt,
	}, nil
}

func (s *Service) agentIn(identities []string) bool {
	if s.agentPrefix == "" {
		return false
	}
	for _, id := range identities {
		if strings.HasPrefix(id, s.agentPrefix) {
			return true
		}
	}
	return false
}
