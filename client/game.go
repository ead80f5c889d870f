// Package client is the windowed frontend. It polls input, forwards
// intents to the simulation, and draws the latest board snapshot.
package client

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/ebitenui/ebitenui"
	eimage "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/serpent-arcade/serpent/client/audio"
	"github.com/serpent-arcade/serpent/client/fonts"
	"github.com/serpent-arcade/serpent/client/input"
	"github.com/serpent-arcade/serpent/pkg/engine"
	"golang.org/x/image/font"
)

const hudHeight = 40

type GameMode int

const (
	GameModeMenu GameMode = iota
	GameModePlay
	GameModeOver
)

func (m GameMode) String() string {
	switch m {
	case GameModeMenu:
		return "Menu"
	case GameModePlay:
		return "Play"
	case GameModeOver:
		return "Over"
	}
	return "Unknown"
}

type Game struct {
	engine   *engine.Engine
	audio    *audio.Player
	gestures *input.GestureTracker
	menu     *ebitenui.UI

	mode      GameMode
	cellSize  int
	boardSide int
	snap      engine.Snapshot
	lastScore int
}

type NewGameOptions struct {
	Engine *engine.Engine
	Audio  *audio.Player
	// CellSize is the square pixel size of one board cell. Defaults to 24.
	CellSize int
}

func NewGame(opts NewGameOptions) *Game {
	cellSize := opts.CellSize
	if cellSize <= 0 {
		cellSize = 24
	}
	snap := opts.Engine.Snapshot()
	g := &Game{
		engine:    opts.Engine,
		audio:     opts.Audio,
		gestures:  input.NewGestureTracker(input.DefaultSwipeThreshold),
		mode:      GameModeMenu,
		cellSize:  cellSize,
		boardSide: snap.BoardSize * cellSize,
		snap:      snap,
	}
	g.menu = g.buildMenuUI()
	return g
}

func (g *Game) Update() error {
	if input.IsQuitJustPressed() {
		return ebiten.Termination
	}

	g.snap = g.engine.Snapshot()

	switch g.mode {
	case GameModeMenu:
		g.menu.Update()
		if input.IsStartJustPressed() {
			g.startRound()
		}
	case GameModePlay:
		g.handlePlayInput()
		if g.snap.Score > g.lastScore {
			g.lastScore = g.snap.Score
			g.audio.Eat()
		}
		if g.snap.GameOver {
			g.audio.GameOver()
			g.mode = GameModeOver
		}
	case GameModeOver:
		if input.IsStartJustPressed() {
			g.startRound()
		}
	}
	return nil
}

func (g *Game) handlePlayInput() {
	if input.IsPauseJustPressed() {
		g.engine.TogglePause()
	}
	if d, ok := input.DirectionJustPressed(); ok {
		g.engine.ChangeDirection(d)
	}
	if d, ok := g.gestures.Update(); ok {
		g.engine.ChangeDirection(d)
	}
}

func (g *Game) startRound() {
	g.engine.Start()
	g.snap = g.engine.Snapshot()
	g.lastScore = 0
	g.mode = GameModePlay
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.drawBoard(screen)
	g.drawHUD(screen)

	switch g.mode {
	case GameModeMenu:
		g.menu.Draw(screen)
	case GameModePlay:
		if g.snap.Paused {
			g.drawOverlay(screen, "Paused")
		}
	case GameModeOver:
		g.drawOverlay(screen, "Game Over")
	}
}

func (g *Game) drawBoard(screen *ebiten.Image) {
	side := float32(g.boardSide)
	vector.DrawFilledRect(screen, 0, 0, side, side, color.RGBA{0x12, 0x12, 0x1a, 0xff}, false)

	if len(g.snap.Snake) == 0 {
		return
	}

	cell := float32(g.cellSize)

	fx := float32(g.snap.Food.X)*cell + cell/2
	fy := float32(g.snap.Food.Y)*cell + cell/2
	vector.DrawFilledCircle(screen, fx, fy, cell*0.35, color.RGBA{0xdb, 0x40, 0x38, 0xff}, true)

	for i, p := range g.snap.Snake {
		clr := color.RGBA{0x33, 0xb2, 0x4c, 0xff}
		if i == 0 {
			clr = color.RGBA{0x8c, 0xf2, 0x8c, 0xff}
		}
		vector.DrawFilledRect(screen, float32(p.X)*cell+1, float32(p.Y)*cell+1, cell-2, cell-2, clr, false)
	}
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	y := g.boardSide + hudHeight
	vector.DrawFilledRect(screen, 0, float32(g.boardSide), float32(g.boardSide), hudHeight, color.RGBA{0x1c, 0x1c, 0x28, 0xff}, false)

	score := fmt.Sprintf("Score: %d", g.snap.Score)
	text.Draw(screen, score, fonts.HUDFont, 8, y-14, color.White)

	high := fmt.Sprintf("High: %d", g.snap.HighScore)
	bounds, _ := font.BoundString(fonts.HUDFont, high)
	text.Draw(screen, high, fonts.HUDFont, g.boardSide-int(bounds.Max.X>>6)-8, y-14, color.White)
}

func (g *Game) drawOverlay(screen *ebiten.Image, msg string) {
	vector.DrawFilledRect(screen, 0, 0, float32(g.boardSide), float32(g.boardSide), color.RGBA{0, 0, 0, 0x66}, false)

	t := strings.ToUpper(msg)
	f := fonts.TTFLargeFont
	bounds, _ := font.BoundString(f, t)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(g.boardSide)/2-float64(bounds.Max.X>>6)/2, float64(g.boardSide)/2-float64(bounds.Max.Y>>6)/2)
	op.ColorScale.ScaleWithColor(color.White)
	text.DrawWithOptions(screen, t, f, op)

	hint := "Press Space to play again"
	hb, _ := font.BoundString(fonts.TTFNormalFont, hint)
	hop := &ebiten.DrawImageOptions{}
	hop.GeoM.Translate(float64(g.boardSide)/2-float64(hb.Max.X>>6)/2, float64(g.boardSide)/2+40)
	hop.ColorScale.ScaleWithColor(color.White)
	text.DrawWithOptions(screen, hint, fonts.TTFNormalFont, hop)
}

func (g *Game) buildMenuUI() *ebitenui.UI {
	buttonImage := &widget.ButtonImage{
		Idle:    eimage.NewNineSliceColor(color.NRGBA{R: 170, G: 170, B: 180, A: 255}),
		Hover:   eimage.NewNineSliceColor(color.NRGBA{R: 135, G: 135, B: 150, A: 255}),
		Pressed: eimage.NewNineSliceColor(color.NRGBA{R: 100, G: 100, B: 120, A: 255}),
	}

	fontFace := fonts.TTFNormalFont

	rootContainer := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(20),
			widget.RowLayoutOpts.Padding(widget.Insets{
				Top:    120,
				Left:   120,
				Right:  120,
				Bottom: 90,
			}))),
	)

	rootContainer.AddChild(widget.NewText(
		widget.TextOpts.Text("SERPENT", fonts.TTFLargeFont, color.NRGBA{R: 140, G: 242, B: 140, A: 255}),
		widget.TextOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.RowLayoutData{
				Position: widget.RowLayoutPositionCenter,
			}),
		),
	))

	button := widget.NewButton(
		widget.ButtonOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.RowLayoutData{
				Position: widget.RowLayoutPositionCenter,
			}),
		),
		widget.ButtonOpts.Image(buttonImage),
		widget.ButtonOpts.Text("Play", fontFace, &widget.ButtonTextColor{
			Idle:     color.NRGBA{254, 255, 255, 255},
			Disabled: color.NRGBA{R: 200, G: 200, B: 200, A: 255},
		}),
		widget.ButtonOpts.TextPadding(widget.Insets{
			Left:   30,
			Right:  30,
			Top:    5,
			Bottom: 5,
		}),
	)
	button.ClickedEvent.AddHandler(func(args interface{}) {
		g.startRound()
	})
	rootContainer.AddChild(button)

	return &ebitenui.UI{
		Container: rootContainer,
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	return g.boardSide, g.boardSide + hudHeight
}
