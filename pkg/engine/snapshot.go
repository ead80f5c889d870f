package engine

import "github.com/google/uuid"

// Snapshot is a read-only copy of the full game state. Renderers may
// consume it more often than the state actually changes.
type Snapshot struct {
	// Tick counts simulation steps within the current round.
	Tick uint64 `json:"tick"`
	// RoundID identifies the round the snapshot belongs to.
	RoundID   uuid.UUID  `json:"round_id"`
	BoardSize int        `json:"board_size"`
	// Snake is the body, head first.
	Snake     []Position `json:"snake"`
	Food      Position   `json:"food"`
	Direction Direction  `json:"direction"`
	Score     int        `json:"score"`
	HighScore int        `json:"high_score"`
	GameOver  bool       `json:"game_over"`
	Paused    bool       `json:"paused"`
}

// Head returns the snake's head position and whether the snake is
// non-empty (it is empty only before the first Start).
func (s Snapshot) Head() (Position, bool) {
	if len(s.Snake) == 0 {
		return Position{}, false
	}
	return s.Snake[0], true
}

func (e *Engine) snapshotLocked() Snapshot {
	snake := make([]Position, len(e.snake))
	copy(snake, e.snake)
	return Snapshot{
		Tick:      e.tick,
		RoundID:   e.roundID,
		BoardSize: e.boardSize,
		Snake:     snake,
		Food:      e.food,
		Direction: e.direction,
		Score:     e.score,
		HighScore: e.highScore,
		GameOver:  e.gameOver,
		Paused:    e.paused,
	}
}

// Snapshot returns a copy of the current game state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}
