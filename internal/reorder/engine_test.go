package reorder

import (
	"bytes"
	"fmt"
	"slices"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// hostSpy records every callback the engine fires.
type hostSpy struct {
	taps      []int
	orders    [][]string
	cancelled int
}

func (h *hostSpy) callbacks() Callbacks {
	return Callbacks{
		OnTap:          func(i int) { h.taps = append(h.taps, i) },
		OnOrderChanged: func(o []string) { h.orders = append(h.orders, o) },
		OnCancel:       func() { h.cancelled++ },
	}
}

func (h *hostSpy) fired() int {
	return len(h.taps) + len(h.orders) + h.cancelled
}

func newTestEngine(n int) (*Engine, *hostSpy) {
	spy := &hostSpy{}
	seq := 0
	e := NewEngine(testGrid(), seqOf(n),
		WithCallbacks(spy.callbacks()),
		WithSessionIDs(func() string {
			seq++
			return fmt.Sprintf("s%d", seq)
		}),
	)
	return e, spy
}

// centerOf returns the center of slot i in the test grid.
func centerOf(i int) Point {
	return testGrid().CellRect(i).Center()
}

func TestEngine_DragForward(t *testing.T) {
	e, spy := newTestEngine(9)

	require.True(t, e.Begin(0, centerOf(0), t0))
	assert.Equal(t, StatePressed, e.State())
	assert.False(t, e.IsDragging())

	e.Move(Point{X: 80, Y: 60}, t0.Add(16*time.Millisecond))
	e.Move(centerOf(5), t0.Add(32*time.Millisecond))
	require.True(t, e.Frame())
	assert.Equal(t, StateDragging, e.State())

	target, ok := e.Target()
	require.True(t, ok)
	assert.Equal(t, 5, target)
	assert.True(t, e.IsDraggedItem(0))
	assert.False(t, e.IsDraggedItem(1))

	out := e.End(centerOf(5), t0.Add(400*time.Millisecond))
	assert.Equal(t, GestureDrag, out.Gesture)
	assert.Equal(t, 5, out.Target)

	want := []string{"1", "2", "3", "4", "5", "0", "6", "7", "8"}
	assert.Equal(t, want, out.Order)
	require.Len(t, spy.orders, 1)
	assert.Equal(t, want, spy.orders[0])
	assert.Empty(t, spy.taps)
	assert.Equal(t, StateIdle, e.State())
	assert.Equal(t, want, e.Sequence())
}

func TestEngine_DragBackward(t *testing.T) {
	e, spy := newTestEngine(9)

	e.Begin(8, centerOf(8), t0)
	e.Move(centerOf(4), t0.Add(10*time.Millisecond))
	e.Move(centerOf(0), t0.Add(20*time.Millisecond))
	e.End(centerOf(0), t0.Add(30*time.Millisecond))

	require.Len(t, spy.orders, 1)
	assert.Equal(t, []string{"8", "0", "1", "2", "3", "4", "5", "6", "7"}, spy.orders[0])
}

func TestEngine_GrabOffsetDrivesTarget(t *testing.T) {
	e, _ := newTestEngine(9)

	// Grab item 0 near its top-left corner; the card center is 45px further.
	e.Begin(0, Point{X: 5, Y: 5}, t0)
	e.Move(Point{X: 100, Y: 5}, t0)
	e.Frame()

	// Pointer is in the gap's left half but the card center (145) is in column 1.
	target, _ := e.Target()
	assert.Equal(t, 1, target)

	rect, ok := e.DraggedRect()
	require.True(t, ok)
	assert.Equal(t, Rect{X: 95, Y: 0, W: 100, H: 100}, rect)
}

func TestEngine_Tap(t *testing.T) {
	e, spy := newTestEngine(9)

	press := centerOf(3)
	e.Begin(3, press, t0)
	out := e.End(Point{X: press.X + 6, Y: press.Y}, t0.Add(120*time.Millisecond))

	assert.Equal(t, GestureTap, out.Gesture)
	assert.Equal(t, []int{3}, spy.taps)
	assert.Empty(t, spy.orders)
	assert.Equal(t, seqOf(9), e.Sequence())
}

func TestEngine_LongHoldIsNoOp(t *testing.T) {
	e, spy := newTestEngine(9)

	e.Begin(2, centerOf(2), t0)
	out := e.End(centerOf(2), t0.Add(2*time.Second))

	assert.Equal(t, GestureNone, out.Gesture)
	assert.Equal(t, 0, spy.fired())
	assert.Equal(t, StateIdle, e.State())
}

func TestEngine_SameSlotDragCommitsUnchanged(t *testing.T) {
	e, spy := newTestEngine(9)

	c := centerOf(4)
	e.Begin(4, c, t0)
	e.Move(Point{X: c.X + 20, Y: c.Y}, t0)
	e.Move(c, t0)
	e.End(c, t0.Add(time.Second))

	require.Len(t, spy.orders, 1)
	assert.Equal(t, seqOf(9), spy.orders[0])
	assert.Empty(t, spy.taps)
}

func TestEngine_ExactlyOneOutcomePerGesture(t *testing.T) {
	type step func(e *Engine)
	gestures := map[string][]step{
		"tap": {
			func(e *Engine) { e.Begin(1, centerOf(1), t0) },
			func(e *Engine) { e.End(centerOf(1), t0.Add(time.Millisecond)) },
		},
		"drag": {
			func(e *Engine) { e.Begin(1, centerOf(1), t0) },
			func(e *Engine) { e.Move(centerOf(6), t0) },
			func(e *Engine) { e.End(centerOf(6), t0.Add(time.Second)) },
		},
		"cancel": {
			func(e *Engine) { e.Begin(1, centerOf(1), t0) },
			func(e *Engine) { e.Move(centerOf(6), t0) },
			func(e *Engine) { e.Cancel() },
			func(e *Engine) { e.End(centerOf(6), t0.Add(time.Second)) },
		},
	}

	for name, steps := range gestures {
		t.Run(name, func(t *testing.T) {
			e, spy := newTestEngine(9)
			for _, s := range steps {
				s(e)
			}
			assert.Equal(t, 1, spy.fired())
		})
	}
}

func TestEngine_CancelLeavesOrder(t *testing.T) {
	e, spy := newTestEngine(9)
	before := e.Sequence()

	e.Begin(0, centerOf(0), t0)
	e.Move(centerOf(7), t0)
	e.Frame()
	assert.NotEqual(t, Offset{}, e.VisualOffset(3))

	e.Cancel()
	assert.Equal(t, before, e.Sequence())
	assert.Equal(t, 1, spy.cancelled)
	assert.Empty(t, spy.orders)
	for i := 0; i < 9; i++ {
		assert.Equal(t, Offset{}, e.VisualOffset(i))
	}

	// Cancel while idle does nothing.
	e.Cancel()
	assert.Equal(t, 1, spy.cancelled)
}

func TestEngine_SecondBeginIgnored(t *testing.T) {
	e, _ := newTestEngine(9)

	require.True(t, e.Begin(0, centerOf(0), t0))
	e.Move(centerOf(2), t0)
	assert.False(t, e.Begin(5, centerOf(5), t0))

	s, ok := e.Session()
	require.True(t, ok)
	assert.Equal(t, 0, s.SourceIndex)
	assert.Equal(t, "s1", s.ID)
}

func TestEngine_BeginOutOfRange(t *testing.T) {
	e, _ := newTestEngine(3)
	assert.False(t, e.Begin(3, Point{}, t0))
	assert.False(t, e.Begin(-1, Point{}, t0))
	assert.Equal(t, StateIdle, e.State())
}

func TestEngine_StrayEventsIgnored(t *testing.T) {
	e, spy := newTestEngine(4)

	e.Move(Point{X: 100}, t0)
	out := e.End(Point{}, t0)
	e.Cancel()

	assert.Equal(t, -1, out.Index)
	assert.False(t, e.Frame())
	assert.Equal(t, 0, spy.fired())
}

func TestEngine_FrameCoalescesMoves(t *testing.T) {
	e, _ := newTestEngine(9)

	e.Begin(0, centerOf(0), t0)
	require.True(t, e.Frame())
	assert.False(t, e.Frame(), "nothing new since the last frame")

	// Sweep across several slots within one frame; only the last counts.
	for _, i := range []int{1, 2, 3, 7, 6} {
		e.Move(centerOf(i), t0)
	}
	target, _ := e.Target()
	assert.Equal(t, 0, target, "target not recomputed before the frame tick")

	require.True(t, e.Frame())
	target, _ = e.Target()
	assert.Equal(t, 6, target)
	assert.False(t, e.Frame())
}

func TestEngine_VisualOffsets(t *testing.T) {
	e, _ := newTestEngine(9)

	e.Begin(1, centerOf(1), t0)
	e.Move(centerOf(4), t0)
	e.Frame()

	g := testGrid()
	assert.Equal(t, Offset{}, e.VisualOffset(0))
	assert.Equal(t, Offset{}, e.VisualOffset(1), "dragged item is positioned absolutely")
	assert.Equal(t, Offset{DX: -g.Pitch()}, e.VisualOffset(2))
	assert.Equal(t, Offset{DX: -g.Pitch()}, e.VisualOffset(3))
	assert.Equal(t, Offset{DX: 3 * g.Pitch(), DY: -g.Pitch()}, e.VisualOffset(4))
	assert.Equal(t, Offset{}, e.VisualOffset(5))
}

func TestEngine_PressedStateHasNoOffsets(t *testing.T) {
	e, _ := newTestEngine(9)
	e.Begin(0, centerOf(0), t0)
	e.Move(Point{X: centerOf(0).X + 1, Y: centerOf(0).Y}, t0)
	e.Frame()

	assert.Equal(t, StatePressed, e.State())
	_, ok := e.DraggedRect()
	assert.False(t, ok)
	assert.False(t, e.IsDraggedItem(0))
}

func TestEngine_SequenceShrinkCancels(t *testing.T) {
	e, spy := newTestEngine(9)

	e.Begin(2, centerOf(2), t0)
	e.Move(centerOf(8), t0)
	e.Frame()

	shrunk := slices.Delete(seqOf(9), 5, 6)
	e.SetSequence(shrunk)

	assert.Equal(t, StateIdle, e.State())
	assert.Equal(t, 1, spy.cancelled)
	assert.Equal(t, shrunk, e.Sequence())

	// The release that follows is a stray event.
	e.End(centerOf(8), t0.Add(time.Second))
	assert.Empty(t, spy.orders)
}

func TestEngine_SequenceReplacedUnderDraggedItemCancels(t *testing.T) {
	e, spy := newTestEngine(4)
	e.Begin(1, centerOf(1), t0)
	e.Move(centerOf(3), t0)

	e.SetSequence([]string{"0", "x", "2", "3"})
	assert.Equal(t, 1, spy.cancelled)
}

func TestEngine_SequenceGrowKeepsDrag(t *testing.T) {
	e, spy := newTestEngine(4)
	e.Begin(0, centerOf(0), t0)
	e.Move(centerOf(3), t0)

	e.SetSequence(append(seqOf(4), "4"))
	assert.Equal(t, StateDragging, e.State())
	assert.Zero(t, spy.cancelled)

	e.End(centerOf(4), t0.Add(time.Second))
	require.Len(t, spy.orders, 1)
	assert.Equal(t, []string{"1", "2", "3", "4", "0"}, spy.orders[0])
}

func TestEngine_SetGridScalesGrab(t *testing.T) {
	e, _ := newTestEngine(9)
	e.Begin(0, Point{X: 50, Y: 20}, t0)

	e.SetGrid(GridConfig{Columns: 4, GapPx: 8, ContainerWidthPx: 224}) // 50px cells
	s, _ := e.Session()
	assert.Equal(t, Offset{DX: 25, DY: 10}, s.Grab)
	assert.True(t, e.Pending())
}

func TestEngine_Handle(t *testing.T) {
	e, spy := newTestEngine(9)

	e.Handle(Event{Kind: EventDown, Pos: Point{X: 104, Y: 50}, Time: t0}) // gap, ignored
	assert.Equal(t, StateIdle, e.State())

	e.Handle(Event{Kind: EventDown, Pointer: 3, Pos: centerOf(0), Time: t0})
	e.Handle(Event{Kind: EventMove, Pointer: 9, Pos: centerOf(8), Time: t0}) // other finger
	e.Handle(Event{Kind: EventMove, Pointer: 3, Pos: centerOf(5), Time: t0})
	e.Handle(Event{Kind: EventUp, Pointer: 9, Pos: centerOf(8), Time: t0})
	assert.Equal(t, StateDragging, e.State())

	e.Handle(Event{Kind: EventUp, Pointer: 3, Pos: centerOf(5), Time: t0.Add(time.Second)})
	require.Len(t, spy.orders, 1)
	assert.Equal(t, []string{"1", "2", "3", "4", "5", "0", "6", "7", "8"}, spy.orders[0])
}

func TestEngine_MouseAdapterEndToEnd(t *testing.T) {
	e, spy := newTestEngine(9)
	mouse := NewMouseAdapter(e)

	mouse.Feed(MouseInput{Action: MousePress, Button: MouseButtonLeft, Pos: centerOf(3), Time: t0})
	mouse.Feed(MouseInput{Action: MouseRelease, Pos: Point{X: centerOf(3).X + 6, Y: centerOf(3).Y}, Time: t0.Add(120 * time.Millisecond)})

	assert.Equal(t, []int{3}, spy.taps)
	assert.Empty(t, spy.orders)
}

func TestEngine_CallbackOrderIsACopy(t *testing.T) {
	e, spy := newTestEngine(3)
	e.Begin(0, centerOf(0), t0)
	e.Move(centerOf(2), t0)
	e.End(centerOf(2), t0)

	require.Len(t, spy.orders, 1)
	spy.orders[0][0] = "mutated"
	assert.Equal(t, []string{"1", "2", "0"}, e.Sequence())
}

func TestEngine_LogsSessionLifecycle(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	e := NewEngine(testGrid(), seqOf(4), WithLogger(logger), WithSessionIDs(func() string { return "abc" }))

	e.Begin(0, centerOf(0), t0)
	e.Move(centerOf(3), t0)
	e.End(centerOf(3), t0)

	out := buf.String()
	assert.Contains(t, out, "drag started")
	assert.Contains(t, out, "drag committed")
	assert.Contains(t, out, "abc")
}

func TestEngine_KeyboardAdapterEndToEnd(t *testing.T) {
	e, spy := newTestEngine(9)
	keys := NewKeyboardAdapter(e)
	g := e.Grid()

	keys.PickUp(g, 1, 9, t0)
	keys.Step(g, 1, 0, t0)
	keys.Step(g, 0, 1, t0)
	require.True(t, e.Frame())
	target, ok := e.Target()
	require.True(t, ok)
	assert.Equal(t, 6, target)

	keys.Drop(g, t0.Add(5*time.Second))
	require.Len(t, spy.orders, 1)
	assert.Equal(t, []string{"0", "2", "3", "4", "5", "6", "1", "7", "8"}, spy.orders[0])
	assert.Empty(t, spy.taps)
}

func TestEngine_KeyboardIgnoresMouse(t *testing.T) {
	e, spy := newTestEngine(4)
	keys := NewKeyboardAdapter(e)
	mouse := NewMouseAdapter(e)

	keys.PickUp(e.Grid(), 0, 4, t0)
	mouse.Feed(MouseInput{Action: MousePress, Button: MouseButtonLeft, Pos: centerOf(3), Time: t0})
	mouse.Feed(MouseInput{Action: MouseRelease, Pos: centerOf(3), Time: t0})
	s, ok := e.Session()
	require.True(t, ok)
	assert.Equal(t, 0, s.SourceIndex)

	keys.Abort(t0)
	assert.Equal(t, 1, spy.cancelled)
	assert.Equal(t, StateIdle, e.State())
}
