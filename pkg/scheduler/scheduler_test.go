package scheduler

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTickerScheduler_ScheduleRepeating(t *testing.T) {
	s := NewTickerScheduler()

	var count atomic.Int64
	handle := s.ScheduleRepeating(5*time.Millisecond, func() {
		count.Add(1)
	})

	time.Sleep(100 * time.Millisecond)
	handle.Cancel()

	// Allow an in-flight callback to complete.
	time.Sleep(20 * time.Millisecond)
	after := count.Load()
	assert.GreaterOrEqual(t, after, int64(2), "expected the callback to fire repeatedly")

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, after, count.Load(), "callback fired after cancel")
}

func TestTickerScheduler_CancelIdempotent(t *testing.T) {
	s := NewTickerScheduler()

	handle := s.ScheduleRepeating(time.Hour, func() {})
	handle.Cancel()
	assert.NotPanics(t, func() {
		handle.Cancel()
	})
}

func TestTickerScheduler_CancelFromCallback(t *testing.T) {
	s := NewTickerScheduler()

	var count atomic.Int64
	done := make(chan struct{})
	handleCh := make(chan Handle, 1)
	handle := s.ScheduleRepeating(5*time.Millisecond, func() {
		if count.Add(1) == 1 {
			h := <-handleCh
			h.Cancel()
			close(done)
		}
	})
	handleCh <- handle

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("callback never fired")
	}

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int64(1), count.Load(), "callback fired after canceling itself")
}
