// Package image renders board snapshots to in-memory frames without any
// window system, for replay export and thumbnails.
package image

import (
	"image"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/serpent-arcade/serpent/pkg/engine"
)

const defaultCellSize = 16

type Renderer struct {
	cellSize int
}

type NewRendererOptions struct {
	// CellSize is the square pixel size of one board cell. Defaults to 16.
	CellSize int
}

func NewRenderer(opts NewRendererOptions) *Renderer {
	cellSize := opts.CellSize
	if cellSize <= 0 {
		cellSize = defaultCellSize
	}
	return &Renderer{
		cellSize: cellSize,
	}
}

// RenderFrame draws one snapshot. Rendering is a pure function of the
// snapshot, so re-rendering an unchanged state yields an identical frame.
func (r *Renderer) RenderFrame(snap engine.Snapshot) image.Image {
	side := snap.BoardSize * r.cellSize
	dc := gg.NewContext(side, side)

	dc.SetRGB(0.07, 0.07, 0.10)
	dc.Clear()

	cell := float64(r.cellSize)

	// Food as a filled circle centered in its cell.
	if len(snap.Snake) > 0 {
		cx := (float64(snap.Food.X) + 0.5) * cell
		cy := (float64(snap.Food.Y) + 0.5) * cell
		dc.SetRGB(0.86, 0.25, 0.22)
		dc.DrawCircle(cx, cy, cell*0.35)
		dc.Fill()
	}

	for i, p := range snap.Snake {
		if i == 0 {
			dc.SetRGB(0.55, 0.95, 0.55)
		} else {
			dc.SetRGB(0.20, 0.70, 0.30)
		}
		dc.DrawRectangle(float64(p.X)*cell+1, float64(p.Y)*cell+1, cell-2, cell-2)
		dc.Fill()
	}

	if snap.Paused || snap.GameOver {
		dc.SetRGBA(0, 0, 0, 0.4)
		dc.DrawRectangle(0, 0, float64(side), float64(side))
		dc.Fill()
	}

	return dc.Image()
}

// RenderScaled renders a snapshot and resizes the frame to the given
// side length in pixels.
func (r *Renderer) RenderScaled(snap engine.Snapshot, side int) image.Image {
	return imaging.Resize(r.RenderFrame(snap), side, side, imaging.NearestNeighbor)
}
