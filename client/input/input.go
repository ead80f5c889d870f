package input

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/serpent-arcade/serpent/pkg/engine"
)

// DefaultSwipeThreshold is the minimum drag displacement in pixels for a
// swipe to register. Shorter drags are treated as accidental taps.
const DefaultSwipeThreshold = 24

// IsStartJustPressed returns a boolean value indicating whether the generic
// start/restart input is just pressed.
func IsStartJustPressed() bool {
	return inpututil.IsKeyJustPressed(ebiten.KeySpace) ||
		inpututil.IsKeyJustPressed(ebiten.KeyEnter)
}

func IsPauseJustPressed() bool {
	return inpututil.IsKeyJustPressed(ebiten.KeyP)
}

func IsQuitJustPressed() bool {
	return inpututil.IsKeyJustPressed(ebiten.KeyEscape)
}

// DirectionJustPressed reports the steering key pressed this frame, if any.
// Both the arrow keys and WASD are accepted.
func DirectionJustPressed() (engine.Direction, bool) {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyUp), inpututil.IsKeyJustPressed(ebiten.KeyW):
		return engine.Up, true
	case inpututil.IsKeyJustPressed(ebiten.KeyDown), inpututil.IsKeyJustPressed(ebiten.KeyS):
		return engine.Down, true
	case inpututil.IsKeyJustPressed(ebiten.KeyLeft), inpututil.IsKeyJustPressed(ebiten.KeyA):
		return engine.Left, true
	case inpututil.IsKeyJustPressed(ebiten.KeyRight), inpututil.IsKeyJustPressed(ebiten.KeyD):
		return engine.Right, true
	}
	return 0, false
}

// SwipeDirection maps a completed drag displacement to a direction. The
// axis with the larger magnitude wins, with vertical winning ties, and
// drags below the threshold are discarded.
func SwipeDirection(dx, dy int, threshold float64) (engine.Direction, bool) {
	adx, ady := math.Abs(float64(dx)), math.Abs(float64(dy))
	if adx > ady {
		if adx < threshold {
			return 0, false
		}
		if dx < 0 {
			return engine.Left, true
		}
		return engine.Right, true
	}
	if ady < threshold {
		return 0, false
	}
	if dy < 0 {
		return engine.Up, true
	}
	return engine.Down, true
}

// GestureTracker turns mouse drags and touch swipes into directions.
// Update must be called once per frame.
type GestureTracker struct {
	threshold float64

	mouseDown        bool
	mouseX, mouseY   int
	touchID          ebiten.TouchID
	touchActive      bool
	touchStartX      int
	touchStartY      int
	touchLastX       int
	touchLastY       int
	justPressedTouch []ebiten.TouchID
}

func NewGestureTracker(threshold float64) *GestureTracker {
	return &GestureTracker{
		threshold: threshold,
	}
}

func (g *GestureTracker) Update() (engine.Direction, bool) {
	if d, ok := g.updateMouse(); ok {
		return d, true
	}
	return g.updateTouch()
}

func (g *GestureTracker) updateMouse() (engine.Direction, bool) {
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.mouseDown = true
		g.mouseX, g.mouseY = ebiten.CursorPosition()
		return 0, false
	}
	if g.mouseDown && inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		g.mouseDown = false
		x, y := ebiten.CursorPosition()
		return SwipeDirection(x-g.mouseX, y-g.mouseY, g.threshold)
	}
	return 0, false
}

func (g *GestureTracker) updateTouch() (engine.Direction, bool) {
	if !g.touchActive {
		g.justPressedTouch = inpututil.AppendJustPressedTouchIDs(g.justPressedTouch[:0])
		if len(g.justPressedTouch) == 0 {
			return 0, false
		}
		g.touchID = g.justPressedTouch[0]
		g.touchActive = true
		g.touchStartX, g.touchStartY = ebiten.TouchPosition(g.touchID)
		g.touchLastX, g.touchLastY = g.touchStartX, g.touchStartY
		return 0, false
	}
	if inpututil.IsTouchJustReleased(g.touchID) {
		g.touchActive = false
		// TouchPosition reports (0, 0) once released, so use the last
		// position seen while the touch was still down.
		return SwipeDirection(g.touchLastX-g.touchStartX, g.touchLastY-g.touchStartY, g.threshold)
	}
	g.touchLastX, g.touchLastY = ebiten.TouchPosition(g.touchID)
	return 0, false
}
