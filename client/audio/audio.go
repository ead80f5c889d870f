// Package audio plays short synthesized cues for game events. A failed
// speaker initialization disables sound without affecting gameplay.
package audio

import (
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
	"github.com/serpent-arcade/serpent/pkg/log"
)

const sampleRate = beep.SampleRate(44100)

type Player struct {
	enabled     atomic.Bool
	initialized bool
}

func NewPlayer(enabled bool) *Player {
	p := &Player{}
	p.enabled.Store(enabled)
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		log.Warn("Failed to initialize audio, sound disabled: %v", err)
		return p
	}
	p.initialized = true
	return p
}

// SetEnabled toggles sound at runtime. Safe to call from any goroutine.
func (p *Player) SetEnabled(enabled bool) {
	if p == nil {
		return
	}
	p.enabled.Store(enabled)
}

// Eat plays the food pickup blip.
func (p *Player) Eat() {
	p.tone(880, 60*time.Millisecond)
}

// GameOver plays the end of round tone.
func (p *Player) GameOver() {
	p.tone(220, 250*time.Millisecond)
}

func (p *Player) tone(freq float64, d time.Duration) {
	if p == nil || !p.initialized || !p.enabled.Load() {
		return
	}
	sine, err := generators.SineTone(sampleRate, freq)
	if err != nil {
		log.Warn("Failed to generate tone: %v", err)
		return
	}
	speaker.Play(beep.Take(sampleRate.N(d), sine))
}

func (p *Player) Close() {
	if p == nil || !p.initialized {
		return
	}
	speaker.Close()
}
