package image

import (
	"testing"

	"github.com/serpent-arcade/serpent/pkg/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSnapshot() engine.Snapshot {
	return engine.Snapshot{
		BoardSize: 20,
		Snake:     []engine.Position{{X: 10, Y: 10}, {X: 9, Y: 10}, {X: 8, Y: 10}},
		Food:      engine.Position{X: 4, Y: 4},
		Direction: engine.Right,
	}
}

func TestRenderer_RenderFrame(t *testing.T) {
	r := NewRenderer(NewRendererOptions{CellSize: 8})
	frame := r.RenderFrame(testSnapshot())

	bounds := frame.Bounds()
	require.Equal(t, 160, bounds.Dx())
	require.Equal(t, 160, bounds.Dy())

	// Head cell center is drawn, an empty corner is background.
	head := frame.At(10*8+4, 10*8+4)
	corner := frame.At(1, 1)
	assert.NotEqual(t, corner, head, "head cell should differ from the background")

	food := frame.At(4*8+4, 4*8+4)
	assert.NotEqual(t, corner, food, "food cell should differ from the background")
}

func TestRenderer_RenderFrameIsIdempotent(t *testing.T) {
	r := NewRenderer(NewRendererOptions{CellSize: 4})
	snap := testSnapshot()

	a := r.RenderFrame(snap)
	b := r.RenderFrame(snap)
	assert.Equal(t, a, b, "same snapshot must render the same frame")
}

func TestRenderer_RenderScaled(t *testing.T) {
	r := NewRenderer(NewRendererOptions{CellSize: 4})
	frame := r.RenderScaled(testSnapshot(), 320)
	assert.Equal(t, 320, frame.Bounds().Dx())
	assert.Equal(t, 320, frame.Bounds().Dy())
}
