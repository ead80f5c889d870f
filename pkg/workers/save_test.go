package workers

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/serpent-arcade/serpent/pkg/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHighScoreSaveWorker(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := persistence.NewInMemoryStore()
	requests := make(chan SaveHighScoreRequest, 2)

	worker := NewHighScoreSaveWorker(NewHighScoreSaveWorkerOptions{
		Store:    store,
		Requests: requests,
	})
	go worker.Start(ctx)

	roundID := uuid.New()
	requests <- SaveHighScoreRequest{
		RoundID:      roundID,
		Score:        5,
		HighScore:    5,
		NewHighScore: true,
		EndedAt:      time.Now(),
	}
	requests <- SaveHighScoreRequest{
		RoundID:      uuid.New(),
		Score:        3,
		HighScore:    5,
		NewHighScore: false,
		EndedAt:      time.Now(),
	}

	require.Eventually(t, func() bool {
		return len(store.Rounds()) == 2
	}, time.Second, 5*time.Millisecond)

	value, err := store.Get(ctx, persistence.HighScoreKey)
	require.NoError(t, err)
	assert.Equal(t, 5, value, "only the new high score should be written")
	assert.Equal(t, roundID, store.Rounds()[0].RoundID)
}
