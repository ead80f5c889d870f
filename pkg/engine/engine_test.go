package engine

import (
	"context"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/serpent-arcade/serpent/pkg/persistence"
	"github.com/serpent-arcade/serpent/pkg/scheduler"
	"github.com/serpent-arcade/serpent/pkg/workers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T, opts NewEngineOptions) *Engine {
	t.Helper()
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(1))
	}
	return NewEngine(context.Background(), opts)
}

// setSnake overrides the body and rebuilds the occupancy set. Only for
// constructing mid-game situations the public API cannot reach directly.
func setSnake(e *Engine, d Direction, body ...Position) {
	e.snake = body
	e.occupied = make(map[Position]struct{}, len(body))
	for _, p := range body {
		e.occupied[p] = struct{}{}
	}
	e.direction = d
}

func TestEngine_Start_CanonicalState(t *testing.T) {
	e := newTestEngine(t, NewEngineOptions{})
	e.Start()

	snap := e.Snapshot()
	assert.Equal(t, []Position{{10, 10}, {9, 10}, {8, 10}}, snap.Snake)
	assert.Equal(t, Right, snap.Direction)
	assert.Equal(t, 0, snap.Score)
	assert.False(t, snap.GameOver)
	assert.False(t, snap.Paused)
	assert.Equal(t, 20, snap.BoardSize)

	assert.NotContains(t, snap.Snake, snap.Food, "food must spawn off the snake")
	assert.GreaterOrEqual(t, snap.Food.X, 0)
	assert.Less(t, snap.Food.X, snap.BoardSize)
	assert.GreaterOrEqual(t, snap.Food.Y, 0)
	assert.Less(t, snap.Food.Y, snap.BoardSize)
}

func TestEngine_Start_RestartAbandonsOldRun(t *testing.T) {
	e := newTestEngine(t, NewEngineOptions{})
	e.Start()
	first := e.Snapshot().RoundID

	e.food = Position{0, 0}
	e.Tick()
	e.ChangeDirection(Down)
	e.Tick()

	e.Start()
	snap := e.Snapshot()
	assert.Equal(t, []Position{{10, 10}, {9, 10}, {8, 10}}, snap.Snake)
	assert.Equal(t, Right, snap.Direction)
	assert.Equal(t, 0, snap.Score)
	assert.NotEqual(t, first, snap.RoundID)

	// A tick scheduled for the abandoned round must not advance the new one.
	before := e.Snapshot()
	e.scheduledTick(e.round - 1)
	assert.Equal(t, before, e.Snapshot())
}

func TestEngine_Tick_MoveWithoutGrowth(t *testing.T) {
	e := newTestEngine(t, NewEngineOptions{})
	e.Start()
	e.food = Position{0, 0}

	e.Tick()

	snap := e.Snapshot()
	assert.Equal(t, []Position{{11, 10}, {10, 10}, {9, 10}}, snap.Snake, "tail dropped, length unchanged")
	assert.Equal(t, 0, snap.Score)
}

func TestEngine_Tick_FoodGrowsSnake(t *testing.T) {
	e := newTestEngine(t, NewEngineOptions{})
	e.Start()
	e.food = Position{11, 10}

	e.Tick()

	snap := e.Snapshot()
	assert.Equal(t, []Position{{11, 10}, {10, 10}, {9, 10}, {8, 10}}, snap.Snake, "no tail drop on the eating tick")
	assert.Equal(t, 1, snap.Score)
	assert.NotContains(t, snap.Snake, snap.Food, "new food must spawn off the snake")
}

func TestEngine_Tick_LengthInvariantWithoutFood(t *testing.T) {
	e := newTestEngine(t, NewEngineOptions{})
	e.Start()
	e.food = Position{0, 0}

	for i := 0; i < 5; i++ {
		e.Tick()
		assert.Len(t, e.Snapshot().Snake, 3)
	}
}

func TestEngine_ChangeDirection_RejectsReversal(t *testing.T) {
	pairs := []struct {
		heading  Direction
		reversal Direction
	}{
		{Up, Down},
		{Down, Up},
		{Left, Right},
		{Right, Left},
	}
	for _, tt := range pairs {
		t.Run(tt.heading.String(), func(t *testing.T) {
			e := newTestEngine(t, NewEngineOptions{})
			e.Start()
			e.direction = tt.heading

			e.ChangeDirection(tt.reversal)
			assert.Equal(t, tt.heading, e.Snapshot().Direction)
		})
	}
}

func TestEngine_ChangeDirection_RejectedWhilePaused(t *testing.T) {
	e := newTestEngine(t, NewEngineOptions{})
	e.Start()
	e.TogglePause()

	e.ChangeDirection(Up)
	assert.Equal(t, Right, e.Snapshot().Direction)

	e.TogglePause()
	e.ChangeDirection(Up)
	assert.Equal(t, Up, e.Snapshot().Direction)
}

func TestEngine_ChangeDirection_LastWriteWins(t *testing.T) {
	e := newTestEngine(t, NewEngineOptions{})
	e.Start()

	e.ChangeDirection(Up)
	e.ChangeDirection(Left)
	assert.Equal(t, Left, e.Snapshot().Direction, "only the latest accepted value is retained")
}

func TestEngine_Tick_PausedIsStrictNoOp(t *testing.T) {
	e := newTestEngine(t, NewEngineOptions{})
	e.Start()
	e.TogglePause()

	before := e.Snapshot()
	e.Tick()
	assert.Equal(t, before, e.Snapshot())
}

func TestEngine_Tick_GameOverIsStrictNoOp(t *testing.T) {
	e := newTestEngine(t, NewEngineOptions{})

	before := e.Snapshot()
	e.Tick()
	assert.Equal(t, before, e.Snapshot())
}

func TestEngine_Tick_WallCollision(t *testing.T) {
	saveRequests := make(chan workers.SaveHighScoreRequest, 1)
	e := newTestEngine(t, NewEngineOptions{SaveRequests: saveRequests})
	e.Start()
	roundID := e.Snapshot().RoundID
	e.food = Position{11, 10}

	// Eat once on the way to the wall, then run into it at x=19.
	for x := 11; x <= 19; x++ {
		e.Tick()
		if x == 11 {
			e.food = Position{0, 0}
		}
		require.False(t, e.Snapshot().GameOver, "died before reaching the wall at x=%d", x)
	}
	e.Tick()

	snap := e.Snapshot()
	assert.True(t, snap.GameOver)
	assert.Equal(t, 1, snap.Score)
	assert.Equal(t, 1, snap.HighScore)

	require.Len(t, saveRequests, 1, "exactly one save request per round")
	req := <-saveRequests
	assert.Equal(t, roundID, req.RoundID)
	assert.Equal(t, 1, req.Score)
	assert.Equal(t, 1, req.HighScore)
	assert.True(t, req.NewHighScore)
}

func TestEngine_Tick_WallCollision_NoNewHighScore(t *testing.T) {
	store := persistence.NewInMemoryStore()
	require.NoError(t, store.Set(context.Background(), persistence.HighScoreKey, 9))

	saveRequests := make(chan workers.SaveHighScoreRequest, 1)
	e := newTestEngine(t, NewEngineOptions{Store: store, SaveRequests: saveRequests})
	e.Start()
	e.food = Position{0, 0}

	for !e.Snapshot().GameOver {
		e.Tick()
	}

	snap := e.Snapshot()
	assert.Equal(t, 9, snap.HighScore, "high score is monotonic across rounds")

	require.Len(t, saveRequests, 1)
	req := <-saveRequests
	assert.False(t, req.NewHighScore)
	assert.Equal(t, 0, req.Score)
}

func TestEngine_Tick_SelfCollision_TailCellIsFatal(t *testing.T) {
	e := newTestEngine(t, NewEngineOptions{})
	e.Start()

	// Length-4 loop about to close: head at (5,5) heading Right moves
	// into the current tail cell (6,5). The tail would vacate this tick,
	// but the pre-move body check makes the move fatal anyway.
	body := []Position{{5, 5}, {5, 6}, {6, 6}, {6, 5}}
	setSnake(e, Right, body...)
	e.food = Position{0, 0}

	e.Tick()

	snap := e.Snapshot()
	assert.True(t, snap.GameOver)
	assert.Equal(t, body, snap.Snake, "fatal move is not applied")
}

func TestEngine_Tick_SelfCollision_Body(t *testing.T) {
	e := newTestEngine(t, NewEngineOptions{})
	e.Start()

	// U-turn into the body: head (5,5) heading Down onto (5,6).
	setSnake(e, Down, Position{5, 5}, Position{4, 5}, Position{4, 6}, Position{5, 6}, Position{6, 6})
	e.food = Position{0, 0}

	e.Tick()
	assert.True(t, e.Snapshot().GameOver)
}

func TestEngine_HighScore_LoadedFromStore(t *testing.T) {
	store := persistence.NewInMemoryStore()
	require.NoError(t, store.Set(context.Background(), persistence.HighScoreKey, 7))

	e := newTestEngine(t, NewEngineOptions{Store: store})
	assert.Equal(t, 7, e.Snapshot().HighScore)
}

func TestEngine_SpawnFood_OnlyFreeCellLeft(t *testing.T) {
	e := newTestEngine(t, NewEngineOptions{BoardSize: 4})

	free := Position{3, 3}
	e.occupied = make(map[Position]struct{})
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			if (Position{x, y}) != free {
				e.occupied[Position{x, y}] = struct{}{}
			}
		}
	}

	e.spawnFoodLocked()
	assert.Equal(t, free, e.food)
}

func TestEngine_SnakeStaysInBounds(t *testing.T) {
	e := newTestEngine(t, NewEngineOptions{})
	e.Start()

	// Random walk until game over; every reachable state keeps the snake
	// and food inside the board.
	rng := rand.New(rand.NewSource(42))
	directions := []Direction{Up, Down, Left, Right}
	for ticks := 0; !e.Snapshot().GameOver && ticks < 10000; ticks++ {
		e.ChangeDirection(directions[rng.Intn(len(directions))])
		e.Tick()

		snap := e.Snapshot()
		for _, p := range snap.Snake {
			assert.GreaterOrEqual(t, p.X, 0)
			assert.Less(t, p.X, snap.BoardSize)
			assert.GreaterOrEqual(t, p.Y, 0)
			assert.Less(t, p.Y, snap.BoardSize)
		}
		assert.NotContains(t, snap.Snake[1:], snap.Food)
	}
}

func TestEngine_Subscribe_PublishesAfterMutations(t *testing.T) {
	e := newTestEngine(t, NewEngineOptions{})

	var mu sync.Mutex
	var snaps []Snapshot
	e.Subscribe(func(s Snapshot) {
		mu.Lock()
		defer mu.Unlock()
		snaps = append(snaps, s)
	})

	e.Start()
	e.food = Position{0, 0}
	e.Tick()
	e.TogglePause()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, snaps, 3)
	assert.False(t, snaps[0].GameOver)
	assert.Equal(t, Position{11, 10}, snaps[1].Snake[0])
	assert.True(t, snaps[2].Paused)
}

func TestEngine_SchedulerDrivesTicksAndStopsAtGameOver(t *testing.T) {
	e := newTestEngine(t, NewEngineOptions{
		TickInterval: 5 * time.Millisecond,
		Scheduler:    scheduler.NewTickerScheduler(),
	})
	e.Start()

	// Heading Right from (10,10) hits the wall within ~10 ticks.
	require.Eventually(t, func() bool {
		return e.Snapshot().GameOver
	}, 2*time.Second, 5*time.Millisecond)

	after := e.Snapshot()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, after, e.Snapshot(), "schedule must be canceled at game over")
}

func TestEngine_TogglePause_SuppressesScheduledTicks(t *testing.T) {
	e := newTestEngine(t, NewEngineOptions{
		TickInterval: 5 * time.Millisecond,
		Scheduler:    scheduler.NewTickerScheduler(),
	})
	e.Start()
	e.TogglePause()

	paused := e.Snapshot()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, paused, e.Snapshot(), "schedule keeps firing but ticks are no-ops")

	e.TogglePause()
	require.Eventually(t, func() bool {
		return e.Snapshot().Tick > 0
	}, 2*time.Second, 5*time.Millisecond)
}
