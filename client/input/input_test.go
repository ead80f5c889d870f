package input

import (
	"testing"

	"github.com/serpent-arcade/serpent/pkg/engine"
	"github.com/stretchr/testify/assert"
)

func TestSwipeDirection(t *testing.T) {
	testCases := []struct {
		name   string
		dx     int
		dy     int
		want   engine.Direction
		wantOK bool
	}{
		{"right", 60, 10, engine.Right, true},
		{"left", -60, 10, engine.Left, true},
		{"down", 10, 60, engine.Down, true},
		{"up", 10, -60, engine.Up, true},
		{"vertical wins ties", 50, 50, engine.Down, true},
		{"vertical wins ties upward", -50, -50, engine.Up, true},
		{"tap below threshold", 5, 3, 0, false},
		{"horizontal below threshold", 20, 2, 0, false},
		{"vertical below threshold", 2, -20, 0, false},
		{"threshold is inclusive", 24, 0, engine.Right, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := SwipeDirection(tc.dx, tc.dy, DefaultSwipeThreshold)
			assert.Equal(t, tc.wantOK, ok)
			if tc.wantOK {
				assert.Equal(t, tc.want, got)
			}
		})
	}
}
