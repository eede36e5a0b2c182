package reorder

import "time"

// Sink consumes normalized pointer events. *Engine is a Sink.
type Sink interface {
	Handle(ev Event)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Event)

// Handle calls f(ev).
func (f SinkFunc) Handle(ev Event) { f(ev) }

// MouseAction is what a raw mouse event reports.
type MouseAction int

const (
	MousePress MouseAction = iota
	MouseMotion
	MouseRelease
	MouseLeave // Pointer left the container or the window lost focus
)

// MouseButton identifies a mouse button.
type MouseButton int

const (
	MouseButtonNone MouseButton = iota
	MouseButtonLeft
	MouseButtonMiddle
	MouseButtonRight
)

// MouseInput is a raw mouse event as most toolkits report it.
type MouseInput struct {
	Action MouseAction
	Button MouseButton
	Pos    Point
	Time   time.Time
}

// MouseAdapter turns a mouse stream into pointer events. Only the left button
// drags; motion without a held button is dropped.
type MouseAdapter struct {
	sink Sink
	down bool
}

// NewMouseAdapter creates an adapter that forwards to sink.
func NewMouseAdapter(sink Sink) *MouseAdapter {
	return &MouseAdapter{sink: sink}
}

// Feed translates one mouse event.
func (a *MouseAdapter) Feed(in MouseInput) {
	switch in.Action {
	case MousePress:
		if in.Button != MouseButtonLeft || a.down {
			return
		}
		a.down = true
		a.sink.Handle(Event{Kind: EventDown, Pos: in.Pos, Time: in.Time})
	case MouseMotion:
		if !a.down {
			return
		}
		a.sink.Handle(Event{Kind: EventMove, Pos: in.Pos, Time: in.Time})
	case MouseRelease:
		if !a.down {
			return
		}
		a.down = false
		a.sink.Handle(Event{Kind: EventUp, Pos: in.Pos, Time: in.Time})
	case MouseLeave:
		if !a.down {
			return
		}
		a.down = false
		a.sink.Handle(Event{Kind: EventCancel, Pos: in.Pos, Time: in.Time})
	}
}

// TouchPhase is the phase of a raw touch event.
type TouchPhase int

const (
	TouchStart TouchPhase = iota
	TouchMove
	TouchEnd
	TouchCancel
)

// Touch is one contact point.
type Touch struct {
	ID  int
	Pos Point
}

// TouchInput is a raw touch event carrying the contacts that changed.
type TouchInput struct {
	Phase   TouchPhase
	Touches []Touch
	Time    time.Time
}

// TouchAdapter turns a multi-touch stream into pointer events. The first
// contact to start is captured; every other contact is ignored until it lifts.
type TouchAdapter struct {
	sink     Sink
	captured bool
	id       int
}

// NewTouchAdapter creates an adapter that forwards to sink.
func NewTouchAdapter(sink Sink) *TouchAdapter {
	return &TouchAdapter{sink: sink}
}

// Feed translates one touch event.
func (a *TouchAdapter) Feed(in TouchInput) {
	if in.Phase == TouchStart {
		if a.captured || len(in.Touches) == 0 {
			return
		}
		t := in.Touches[0]
		a.captured = true
		a.id = t.ID
		a.sink.Handle(Event{Kind: EventDown, Pointer: t.ID, Pos: t.Pos, Time: in.Time})
		return
	}

	t, ok := a.find(in.Touches)
	if !ok {
		return
	}

	switch in.Phase {
	case TouchMove:
		a.sink.Handle(Event{Kind: EventMove, Pointer: t.ID, Pos: t.Pos, Time: in.Time})
	case TouchEnd:
		a.captured = false
		a.sink.Handle(Event{Kind: EventUp, Pointer: t.ID, Pos: t.Pos, Time: in.Time})
	case TouchCancel:
		a.captured = false
		a.sink.Handle(Event{Kind: EventCancel, Pointer: t.ID, Pos: t.Pos, Time: in.Time})
	}
}

func (a *TouchAdapter) find(touches []Touch) (Touch, bool) {
	if !a.captured {
		return Touch{}, false
	}
	for _, t := range touches {
		if t.ID == a.id {
			return t, true
		}
	}
	return Touch{}, false
}

// KeyboardPointer is the pointer id used for keyboard-driven drags.
const KeyboardPointer = -1

// KeyboardAdapter drives a drag from discrete keys. The virtual pointer sits on
// slot centers and moves one pitch per step, so the resolved target is always
// the slot it sits on.
type KeyboardAdapter struct {
	sink  Sink
	held  bool
	moved bool
	slot  int
	count int
}

// NewKeyboardAdapter creates an adapter that forwards to sink.
func NewKeyboardAdapter(sink Sink) *KeyboardAdapter {
	return &KeyboardAdapter{sink: sink}
}

// Held reports whether an item is picked up.
func (a *KeyboardAdapter) Held() bool { return a.held }

// Slot returns the slot the virtual pointer is on.
func (a *KeyboardAdapter) Slot() int { return a.slot }

// PickUp presses the item at index of a grid holding count items.
func (a *KeyboardAdapter) PickUp(g GridConfig, index, count int, at time.Time) {
	if a.held || index < 0 || index >= count {
		return
	}
	a.held, a.moved = true, false
	a.slot, a.count = index, count
	a.sink.Handle(Event{Kind: EventDown, Pointer: KeyboardPointer, Pos: g.CellRect(index).Center(), Time: at})
}

// Step moves the virtual pointer by whole slots in reading order. Steps that
// would leave the occupied slots are ignored. It returns the new slot.
func (a *KeyboardAdapter) Step(g GridConfig, dCol, dRow int, at time.Time) int {
	if !a.held {
		return a.slot
	}
	next := a.slot + dCol + dRow*g.Columns
	if next < 0 || next >= a.count || next == a.slot {
		return a.slot
	}
	a.slot, a.moved = next, true
	a.sink.Handle(Event{Kind: EventMove, Pointer: KeyboardPointer, Pos: g.CellRect(next).Center(), Time: at})
	return a.slot
}

// Drop releases the item on the current slot. Dropping without a step cancels,
// so a pick-up never turns into a tap.
func (a *KeyboardAdapter) Drop(g GridConfig, at time.Time) {
	if !a.held {
		return
	}
	a.held = false
	if !a.moved {
		a.sink.Handle(Event{Kind: EventCancel, Pointer: KeyboardPointer, Time: at})
		return
	}
	a.sink.Handle(Event{Kind: EventUp, Pointer: KeyboardPointer, Pos: g.CellRect(a.slot).Center(), Time: at})
}

// Abort cancels the held item.
func (a *KeyboardAdapter) Abort(at time.Time) {
	if !a.held {
		return
	}
	a.held = false
	a.sink.Handle(Event{Kind: EventCancel, Pointer: KeyboardPointer, Time: at})
}

// Reset forgets a held item without emitting anything, for when the engine
// already dropped the session on its own.
func (a *KeyboardAdapter) Reset() { a.held, a.moved = false, false }
