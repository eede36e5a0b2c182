package reorder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func TestPointerTracker_Classify(t *testing.T) {
	start := Point{X: 10, Y: 10}

	tests := []struct {
		name    string
		moves   []Point
		release Point
		held    time.Duration
		want    Gesture
	}{
		{"quick still press is a tap", nil, start, 80 * time.Millisecond, GestureTap},
		{"release drift under tap slop is a tap", nil, Point{X: 16, Y: 10}, 120 * time.Millisecond, GestureTap},
		{"drift at tap slop is not a tap", nil, Point{X: 20, Y: 10}, 120 * time.Millisecond, GestureNone},
		{"long hold is neither", nil, start, 600 * time.Millisecond, GestureNone},
		{"hold at the limit is neither", nil, start, 500 * time.Millisecond, GestureNone},
		{"movement past threshold is a drag", []Point{{X: 13, Y: 10}}, Point{X: 13, Y: 10}, 50 * time.Millisecond, GestureDrag},
		{"drag back to start is still a drag", []Point{{X: 40, Y: 40}, start}, start, 90 * time.Millisecond, GestureDrag},
		{"movement at threshold is not a drag", []Point{{X: 12, Y: 10}}, Point{X: 12, Y: 10}, 50 * time.Millisecond, GestureTap},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPointerTracker(DefaultThresholds())
			require.True(t, p.Down(3, start, t0))
			for _, m := range tt.moves {
				p.Move(m)
			}
			got, press := p.Up(tt.release, t0.Add(tt.held))
			assert.Equal(t, tt.want, got)
			assert.Equal(t, 3, press.Index)
			assert.False(t, p.Active())
		})
	}
}

func TestPointerTracker_StartSignalledOnce(t *testing.T) {
	p := NewPointerTracker(DefaultThresholds())
	p.Down(0, Point{}, t0)

	assert.False(t, p.Move(Point{X: 1}))
	assert.True(t, p.Move(Point{X: 5}))
	assert.False(t, p.Move(Point{X: 50}))
	assert.False(t, p.Move(Point{X: 0}))
}

func TestPointerTracker_SecondDownRejected(t *testing.T) {
	p := NewPointerTracker(DefaultThresholds())
	require.True(t, p.Down(1, Point{}, t0))
	assert.False(t, p.Down(2, Point{X: 100}, t0))

	press, ok := p.Press()
	require.True(t, ok)
	assert.Equal(t, 1, press.Index)
}

func TestPointerTracker_StrayEvents(t *testing.T) {
	p := NewPointerTracker(DefaultThresholds())
	assert.False(t, p.Move(Point{X: 100}))
	g, _ := p.Up(Point{}, t0)
	assert.Equal(t, GestureNone, g)
	assert.False(t, p.Cancel())
}

func TestPointerTracker_Cancel(t *testing.T) {
	p := NewPointerTracker(DefaultThresholds())
	p.Down(0, Point{}, t0)
	p.Move(Point{X: 30})
	assert.True(t, p.Cancel())
	assert.False(t, p.Active())

	// A fresh press after cancel starts clean.
	p.Down(1, Point{}, t0)
	g, _ := p.Up(Point{}, t0.Add(10*time.Millisecond))
	assert.Equal(t, GestureTap, g)
}

func TestEventKind_String(t *testing.T) {
	assert.Equal(t, "down", EventDown.String())
	assert.Equal(t, "cancel", EventCancel.String())
	assert.Equal(t, "tap", GestureTap.String())
	assert.Equal(t, "none", GestureNone.String())
}
