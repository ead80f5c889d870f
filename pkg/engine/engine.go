package engine

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/serpent-arcade/serpent/pkg/log"
	"github.com/serpent-arcade/serpent/pkg/persistence"
	"github.com/serpent-arcade/serpent/pkg/scheduler"
	"github.com/serpent-arcade/serpent/pkg/workers"
)

const (
	// DefaultBoardSize is the side length of the square board.
	DefaultBoardSize = 20
	// DefaultTickInterval is the simulation step interval.
	DefaultTickInterval = 150 * time.Millisecond
	// startingLength is the snake length after Start.
	startingLength = 3
)

// Listener receives a state snapshot after every mutating operation.
// Listeners must not block; they may be invoked from the scheduler's
// goroutine as well as from command callers.
type Listener func(Snapshot)

// Engine is the authoritative snake simulation. All mutating operations
// serialize on one internal lock, so commands and scheduled ticks may
// arrive from different goroutines.
type Engine struct {
	mu sync.Mutex

	boardSize    int
	tickInterval time.Duration

	snake     []Position
	occupied  map[Position]struct{}
	food      Position
	direction Direction
	score     int
	highScore int
	gameOver  bool
	paused    bool

	tick    uint64
	roundID uuid.UUID
	// round increments on every Start so a stale scheduled tick from an
	// abandoned run can recognize itself and no-op.
	round uint64

	scheduler scheduler.Scheduler
	handle    scheduler.Handle
	rng       *rand.Rand

	saveRequests chan<- workers.SaveHighScoreRequest

	listeners []Listener
}

// NewEngineOptions contains options for creating a new Engine.
type NewEngineOptions struct {
	// BoardSize defaults to DefaultBoardSize.
	BoardSize int
	// TickInterval defaults to DefaultTickInterval.
	TickInterval time.Duration
	// Scheduler drives ticks while a round is running. Optional; without
	// it the host must call Tick itself.
	Scheduler scheduler.Scheduler
	// Store is read once for the initial high score. The engine keeps no
	// reference to it afterwards.
	Store persistence.Store
	// SaveRequests receives a best-effort, non-blocking save request at
	// game over. Optional.
	SaveRequests chan<- workers.SaveHighScoreRequest
	// Rand defaults to a time-seeded source. Inject a seeded source for
	// deterministic food placement.
	Rand *rand.Rand
}

// NewEngine creates an engine in the idle (game over) state. Call Start
// to begin a round.
func NewEngine(ctx context.Context, opts NewEngineOptions) *Engine {
	boardSize := opts.BoardSize
	if boardSize <= 0 {
		boardSize = DefaultBoardSize
	}
	tickInterval := opts.TickInterval
	if tickInterval <= 0 {
		tickInterval = DefaultTickInterval
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	highScore := 0
	if opts.Store != nil {
		value, err := opts.Store.Get(ctx, persistence.HighScoreKey)
		if err != nil {
			log.Warn("Failed to load high score, starting from 0: %v", err)
		} else {
			highScore = value
		}
	}

	return &Engine{
		boardSize:    boardSize,
		tickInterval: tickInterval,
		occupied:     make(map[Position]struct{}),
		direction:    Right,
		highScore:    highScore,
		gameOver:     true,
		scheduler:    opts.Scheduler,
		rng:          rng,
		saveRequests: opts.SaveRequests,
	}
}

// Subscribe registers a listener for state changes. Not safe to call
// concurrently with itself; register listeners during setup.
func (e *Engine) Subscribe(l Listener) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners = append(e.listeners, l)
}

// Start resets the game to the canonical starting state and (re)starts
// the tick schedule. Calling Start mid-round abandons the old run.
func (e *Engine) Start() {
	e.mu.Lock()

	if e.handle != nil {
		e.handle.Cancel()
		e.handle = nil
	}
	e.round++
	round := e.round

	head := Position{X: e.boardSize / 2, Y: e.boardSize / 2}
	snake := make([]Position, 0, startingLength)
	for i := 0; i < startingLength && head.X-i >= 0; i++ {
		snake = append(snake, Position{X: head.X - i, Y: head.Y})
	}
	e.snake = snake
	e.occupied = make(map[Position]struct{}, len(snake))
	for _, p := range snake {
		e.occupied[p] = struct{}{}
	}

	e.direction = Right
	e.score = 0
	e.gameOver = false
	e.paused = false
	e.tick = 0
	e.roundID = uuid.New()
	e.spawnFoodLocked()

	if e.scheduler != nil {
		e.handle = e.scheduler.ScheduleRepeating(e.tickInterval, func() {
			e.scheduledTick(round)
		})
	}

	snap, listeners := e.snapshotLocked(), e.listeners
	e.mu.Unlock()

	log.Debug("Started round %s", snap.RoundID)
	publish(listeners, snap)
}

// TogglePause flips the paused flag. While paused, ticks have no effect
// and direction changes are rejected.
func (e *Engine) TogglePause() {
	e.mu.Lock()
	e.paused = !e.paused
	snap, listeners := e.snapshotLocked(), e.listeners
	e.mu.Unlock()

	publish(listeners, snap)
}

// ChangeDirection sets the heading consumed by the next tick. The change
// is rejected while paused or game over, and when it would reverse the
// current heading. Between ticks the last accepted value wins.
func (e *Engine) ChangeDirection(d Direction) {
	e.mu.Lock()
	if e.paused || e.gameOver || d == e.direction.Opposite() {
		e.mu.Unlock()
		return
	}
	e.direction = d
	snap, listeners := e.snapshotLocked(), e.listeners
	e.mu.Unlock()

	publish(listeners, snap)
}

// Tick advances the simulation by one step. It is a strict no-op while
// paused or game over.
func (e *Engine) Tick() {
	e.mu.Lock()
	if !e.advanceLocked() {
		e.mu.Unlock()
		return
	}
	snap, listeners := e.snapshotLocked(), e.listeners
	e.mu.Unlock()

	publish(listeners, snap)
}

// scheduledTick is the scheduler callback for a specific round. A tick
// already in flight when the round is abandoned sees a newer round
// counter and does nothing.
func (e *Engine) scheduledTick(round uint64) {
	e.mu.Lock()
	if round != e.round || !e.advanceLocked() {
		e.mu.Unlock()
		return
	}
	snap, listeners := e.snapshotLocked(), e.listeners
	e.mu.Unlock()

	publish(listeners, snap)
}

// advanceLocked runs one simulation step. It reports whether state
// changed.
func (e *Engine) advanceLocked() bool {
	if e.gameOver || e.paused {
		return false
	}

	e.tick++
	head := e.snake[0]
	dx, dy := e.direction.Delta()
	newHead := Position{X: head.X + dx, Y: head.Y + dy}

	if newHead.X < 0 || newHead.X >= e.boardSize || newHead.Y < 0 || newHead.Y >= e.boardSize {
		e.gameOverLocked()
		return true
	}
	// Checked against the pre-move body: moving into the cell the tail
	// is about to vacate is still fatal.
	if _, collides := e.occupied[newHead]; collides {
		e.gameOverLocked()
		return true
	}

	e.snake = append(e.snake, Position{})
	copy(e.snake[1:], e.snake)
	e.snake[0] = newHead
	e.occupied[newHead] = struct{}{}

	if newHead == e.food {
		e.score++
		e.spawnFoodLocked()
	} else {
		tail := e.snake[len(e.snake)-1]
		delete(e.occupied, tail)
		e.snake = e.snake[:len(e.snake)-1]
	}

	return true
}

// spawnFoodLocked places food on a uniformly random free cell by
// rejection sampling. Game over always triggers long before the board
// fills, so this terminates.
func (e *Engine) spawnFoodLocked() {
	for {
		p := Position{X: e.rng.Intn(e.boardSize), Y: e.rng.Intn(e.boardSize)}
		if _, taken := e.occupied[p]; !taken {
			e.food = p
			return
		}
	}
}

func (e *Engine) gameOverLocked() {
	e.gameOver = true
	if e.handle != nil {
		e.handle.Cancel()
		e.handle = nil
	}

	newHighScore := e.score > e.highScore
	if newHighScore {
		e.highScore = e.score
	}

	if e.saveRequests == nil {
		return
	}
	req := workers.SaveHighScoreRequest{
		RoundID:      e.roundID,
		Score:        e.score,
		HighScore:    e.highScore,
		NewHighScore: newHighScore,
		EndedAt:      time.Now(),
	}
	// Persistence must never delay a tick.
	select {
	case e.saveRequests <- req:
	default:
		log.Warn("Dropping save request for round %s: buffer full", e.roundID)
	}
}

func publish(listeners []Listener, snap Snapshot) {
	for _, l := range listeners {
		l(snap)
	}
}
