package workers

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/serpent-arcade/serpent/pkg/log"
	"github.com/serpent-arcade/serpent/pkg/persistence"
)

// SaveHighScoreRequest is emitted by the engine when a round ends.
type SaveHighScoreRequest struct {
	RoundID      uuid.UUID
	Score        int
	HighScore    int
	NewHighScore bool
	EndedAt      time.Time
}

type HighScoreSaveWorker struct {
	store    persistence.Store
	requests <-chan SaveHighScoreRequest
}

type NewHighScoreSaveWorkerOptions struct {
	Store    persistence.Store
	Requests <-chan SaveHighScoreRequest
}

// NewHighScoreSaveWorker creates a worker that persists round results off
// the game tick path. Persistence failures are logged and swallowed; the
// in-memory high score stays authoritative for the session.
func NewHighScoreSaveWorker(opts NewHighScoreSaveWorkerOptions) *HighScoreSaveWorker {
	return &HighScoreSaveWorker{
		store:    opts.Store,
		requests: opts.Requests,
	}
}

func (w *HighScoreSaveWorker) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case req := <-w.requests:
			w.save(ctx, req)
		}
	}
}

func (w *HighScoreSaveWorker) save(ctx context.Context, req SaveHighScoreRequest) {
	if req.NewHighScore {
		if err := w.store.Set(ctx, persistence.HighScoreKey, req.HighScore); err != nil {
			log.Error("Failed to save high score: %v", err)
		} else {
			log.Debug("Saved high score %d for round %s", req.HighScore, req.RoundID)
		}
	}

	recorder, ok := w.store.(persistence.RoundRecorder)
	if !ok {
		return
	}
	if err := recorder.RecordRound(ctx, req.RoundID, req.Score, req.EndedAt); err != nil {
		log.Error("Failed to record round: %v", err)
	}
}
