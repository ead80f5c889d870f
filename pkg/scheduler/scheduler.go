package scheduler

import (
	"sync"
	"time"
)

// Handle is a cancelable repeating schedule.
type Handle interface {
	// Cancel stops the schedule. It is idempotent, non-blocking and safe
	// to call from within the scheduled callback. A callback already in
	// flight may complete, but no further callbacks fire afterwards.
	Cancel()
}

// Scheduler invokes a callback at a fixed interval until the returned
// handle is canceled. Callbacks are delivered sequentially, never
// concurrently with themselves.
type Scheduler interface {
	ScheduleRepeating(interval time.Duration, callback func()) Handle
}

// TickerScheduler runs each schedule on its own goroutine driven by a
// time.Ticker.
type TickerScheduler struct{}

func NewTickerScheduler() *TickerScheduler {
	return &TickerScheduler{}
}

func (s *TickerScheduler) ScheduleRepeating(interval time.Duration, callback func()) Handle {
	h := &tickerHandle{
		stop: make(chan struct{}),
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-h.stop:
				return
			case <-ticker.C:
				// Re-check so a cancellation racing the ticker wins.
				select {
				case <-h.stop:
					return
				default:
				}
				callback()
			}
		}
	}()

	return h
}

type tickerHandle struct {
	stop chan struct{}
	once sync.Once
}

func (h *tickerHandle) Cancel() {
	h.once.Do(func() {
		close(h.stop)
	})
}
