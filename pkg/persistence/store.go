package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// HighScoreKey is the key under which the session high score is stored.
const HighScoreKey = "HighScore"

// Store persists named integer values across process runs.
type Store interface {
	// Get returns the value stored under key, or 0 when absent.
	Get(ctx context.Context, key string) (int, error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value int) error
	Close(ctx context.Context) error
}

// RoundRecorder is an optional capability of a Store for keeping a
// per-round score history.
type RoundRecorder interface {
	RecordRound(ctx context.Context, roundID uuid.UUID, score int, endedAt time.Time) error
}
