package tui

import (
	"context"
	"math/rand"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/serpent-arcade/serpent/pkg/engine"
	"github.com/serpent-arcade/serpent/pkg/queue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUI(t *testing.T) *UI {
	t.Helper()
	screen := tcell.NewSimulationScreen("")
	require.NoError(t, screen.Init())
	t.Cleanup(screen.Fini)

	e := engine.NewEngine(context.Background(), engine.NewEngineOptions{
		Rand: rand.New(rand.NewSource(1)),
	})
	return &UI{
		screen:  screen,
		engine:  e,
		intents: queue.NewInMemoryQueue(64),
	}
}

func TestUI_StartAndSteer(t *testing.T) {
	u := newTestUI(t)

	u.handleKey(tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone))
	u.handleKey(tcell.NewEventKey(tcell.KeyRune, 'k', tcell.ModNone))
	require.True(t, u.applyIntents())

	snap := u.engine.Snapshot()
	assert.False(t, snap.GameOver)
	assert.Equal(t, engine.Up, snap.Direction)
}

func TestUI_PauseToggle(t *testing.T) {
	u := newTestUI(t)

	u.handleKey(tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone))
	u.handleKey(tcell.NewEventKey(tcell.KeyRune, 'p', tcell.ModNone))
	require.True(t, u.applyIntents())
	assert.True(t, u.engine.Snapshot().Paused)

	u.handleKey(tcell.NewEventKey(tcell.KeyRune, 'p', tcell.ModNone))
	require.True(t, u.applyIntents())
	assert.False(t, u.engine.Snapshot().Paused)
}

func TestUI_QuitStopsLoop(t *testing.T) {
	u := newTestUI(t)

	u.handleKey(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone))
	assert.False(t, u.applyIntents())

	u.handleKey(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone))
	assert.False(t, u.applyIntents())
}

func TestUI_ArrowKeysSteer(t *testing.T) {
	u := newTestUI(t)

	u.handleKey(tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone))
	u.handleKey(tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone))
	require.True(t, u.applyIntents())
	assert.Equal(t, engine.Down, u.engine.Snapshot().Direction)
}

func TestUI_DrawDoesNotPanic(t *testing.T) {
	u := newTestUI(t)

	assert.NotPanics(t, u.draw)

	u.handleKey(tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone))
	require.True(t, u.applyIntents())
	assert.NotPanics(t, u.draw)
}
