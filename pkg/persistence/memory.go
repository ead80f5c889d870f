package persistence

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Round is a recorded game round.
type Round struct {
	RoundID uuid.UUID
	Score   int
	EndedAt time.Time
}

// InMemoryStore keeps values for the lifetime of the process. It is the
// default store when no database is configured.
type InMemoryStore struct {
	lock   sync.RWMutex
	values map[string]int
	rounds []Round
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		values: make(map[string]int),
	}
}

func (s *InMemoryStore) Get(ctx context.Context, key string) (int, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.values[key], nil
}

func (s *InMemoryStore) Set(ctx context.Context, key string, value int) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.values[key] = value
	return nil
}

func (s *InMemoryStore) RecordRound(ctx context.Context, roundID uuid.UUID, score int, endedAt time.Time) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.rounds = append(s.rounds, Round{
		RoundID: roundID,
		Score:   score,
		EndedAt: endedAt,
	})
	return nil
}

// Rounds returns a copy of the recorded round history.
func (s *InMemoryStore) Rounds() []Round {
	s.lock.RLock()
	defer s.lock.RUnlock()
	rounds := make([]Round, len(s.rounds))
	copy(rounds, s.rounds)
	return rounds
}

func (s *InMemoryStore) Close(ctx context.Context) error {
	return nil
}
