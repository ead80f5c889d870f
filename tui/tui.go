// Package tui is the terminal frontend. A polling goroutine turns key
// events into intents, and the render loop applies them before each
// redraw so engine commands stay on one timeline.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/serpent-arcade/serpent/pkg/engine"
	"github.com/serpent-arcade/serpent/pkg/queue"
)

const frameInterval = 33 * time.Millisecond

type intentKind int

const (
	intentQuit intentKind = iota
	intentStart
	intentPause
	intentSteer
)

type intent struct {
	kind      intentKind
	direction engine.Direction
}

type UI struct {
	screen  tcell.Screen
	engine  *engine.Engine
	intents queue.Queue
	started bool
}

type NewUIOptions struct {
	Engine *engine.Engine
}

func NewUI(opts NewUIOptions) (*UI, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("failed to create screen: %v", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize screen: %v", err)
	}

	return &UI{
		screen:  screen,
		engine:  opts.Engine,
		intents: queue.NewInMemoryQueue(64),
	}, nil
}

// Run drives the frontend until the user quits or the context is
// cancelled. The screen is restored before returning.
func (u *UI) Run(ctx context.Context) error {
	defer u.screen.Fini()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := u.screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	}()

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-eventChan:
			u.handleEvent(ev)
		case <-ticker.C:
			if !u.applyIntents() {
				return nil
			}
			u.draw()
		}
	}
}

func (u *UI) handleEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		u.handleKey(ev)
	case *tcell.EventResize:
		u.screen.Sync()
	}
}

func (u *UI) handleKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		u.intents.Enqueue(intent{kind: intentQuit})
		return
	case tcell.KeyUp:
		u.intents.Enqueue(intent{kind: intentSteer, direction: engine.Up})
		return
	case tcell.KeyDown:
		u.intents.Enqueue(intent{kind: intentSteer, direction: engine.Down})
		return
	case tcell.KeyLeft:
		u.intents.Enqueue(intent{kind: intentSteer, direction: engine.Left})
		return
	case tcell.KeyRight:
		u.intents.Enqueue(intent{kind: intentSteer, direction: engine.Right})
		return
	}

	if ev.Key() != tcell.KeyRune {
		return
	}
	switch ev.Rune() {
	case 'q':
		u.intents.Enqueue(intent{kind: intentQuit})
	case ' ':
		u.intents.Enqueue(intent{kind: intentStart})
	case 'p':
		u.intents.Enqueue(intent{kind: intentPause})
	case 'k':
		u.intents.Enqueue(intent{kind: intentSteer, direction: engine.Up})
	case 'j':
		u.intents.Enqueue(intent{kind: intentSteer, direction: engine.Down})
	case 'h':
		u.intents.Enqueue(intent{kind: intentSteer, direction: engine.Left})
	case 'l':
		u.intents.Enqueue(intent{kind: intentSteer, direction: engine.Right})
	}
}

// applyIntents drains the queue and returns false when the user quit.
func (u *UI) applyIntents() bool {
	for _, item := range u.intents.ReadAllMessages() {
		in := item.(intent)
		switch in.kind {
		case intentQuit:
			return false
		case intentStart:
			u.engine.Start()
			u.started = true
		case intentPause:
			u.engine.TogglePause()
		case intentSteer:
			u.engine.ChangeDirection(in.direction)
		}
	}
	return true
}

var (
	styleBorder = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleHead   = tcell.StyleDefault.Foreground(tcell.ColorLightGreen)
	styleBody   = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleFood   = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleText   = tcell.StyleDefault.Foreground(tcell.ColorWhite)
)

func (u *UI) draw() {
	snap := u.engine.Snapshot()
	u.screen.Clear()

	// Cells are two columns wide to come out roughly square.
	for x := 0; x < snap.BoardSize*2+2; x++ {
		u.screen.SetContent(x, 0, '─', nil, styleBorder)
		u.screen.SetContent(x, snap.BoardSize+1, '─', nil, styleBorder)
	}
	for y := 0; y < snap.BoardSize+2; y++ {
		u.screen.SetContent(0, y, '│', nil, styleBorder)
		u.screen.SetContent(snap.BoardSize*2+1, y, '│', nil, styleBorder)
	}

	if len(snap.Snake) > 0 {
		u.screen.SetContent(snap.Food.X*2+1, snap.Food.Y+1, '●', nil, styleFood)
		for i, p := range snap.Snake {
			style := styleBody
			if i == 0 {
				style = styleHead
			}
			u.screen.SetContent(p.X*2+1, p.Y+1, '█', nil, style)
			u.screen.SetContent(p.X*2+2, p.Y+1, '█', nil, style)
		}
	}

	status := fmt.Sprintf("Score %d  High %d", snap.Score, snap.HighScore)
	switch {
	case !u.started:
		status += "  [space] start  [q] quit"
	case snap.GameOver:
		status += "  GAME OVER  [space] restart  [q] quit"
	case snap.Paused:
		status += "  PAUSED  [p] resume"
	default:
		status += "  [p] pause  [q] quit"
	}
	drawString(u.screen, 0, snap.BoardSize+2, status, styleText)

	u.screen.Show()
}

func drawString(s tcell.Screen, x, y int, str string, style tcell.Style) {
	for i, r := range str {
		s.SetContent(x+i, y, r, nil, style)
	}
}
