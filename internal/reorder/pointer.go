package reorder

import "time"

// EventKind is the kind of a normalized pointer event.
type EventKind int

const (
	EventDown EventKind = iota
	EventMove
	EventUp
	EventCancel
)

func (k EventKind) String() string {
	switch k {
	case EventDown:
		return "down"
	case EventMove:
		return "move"
	case EventUp:
		return "up"
	case EventCancel:
		return "cancel"
	default:
		return "unknown"
	}
}

// Event is one normalized pointer event. Pos is relative to the grid container.
type Event struct {
	Kind    EventKind
	Pointer int // Identifies the physical pointer (touch id, 0 for the mouse)
	Pos     Point
	Time    time.Time
}

// Gesture is the classification of a completed press.
type Gesture int

const (
	// GestureNone is a release that is neither a tap nor a drag, e.g. a long
	// static hold.
	GestureNone Gesture = iota
	GestureTap
	GestureDrag
	GestureCancel
)

func (g Gesture) String() string {
	switch g {
	case GestureTap:
		return "tap"
	case GestureDrag:
		return "drag"
	case GestureCancel:
		return "cancel"
	default:
		return "none"
	}
}

// Default thresholds.
const (
	DefaultMoveThresholdPx = 2
	DefaultTapMaxMovePx    = 10
	DefaultTapMaxDuration  = 500 * time.Millisecond
)

// Thresholds control when a press becomes a drag and what counts as a tap.
type Thresholds struct {
	MoveThresholdPx float64       // Movement that starts a drag
	TapMaxMovePx    float64       // A tap must move less than this
	TapMaxDuration  time.Duration // A tap must be released sooner than this
}

// DefaultThresholds returns the stock thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MoveThresholdPx: DefaultMoveThresholdPx,
		TapMaxMovePx:    DefaultTapMaxMovePx,
		TapMaxDuration:  DefaultTapMaxDuration,
	}
}

// PressState is kept between press and release to classify the gesture.
type PressState struct {
	Index         int
	Start         Point
	StartTime     time.Time
	MovedDistance float64
}

// PointerTracker follows one press at a time and decides whether it is a tap
// or a drag. It knows nothing about the grid.
type PointerTracker struct {
	thresholds Thresholds
	press      *PressState
	dragging   bool
}

// NewPointerTracker creates a tracker with the given thresholds.
func NewPointerTracker(t Thresholds) *PointerTracker {
	return &PointerTracker{thresholds: t}
}

// Active reports whether a press is open.
func (p *PointerTracker) Active() bool {
	return p.press != nil
}

// Press returns a copy of the open press, if any.
func (p *PointerTracker) Press() (PressState, bool) {
	if p.press == nil {
		return PressState{}, false
	}
	return *p.press, true
}

// Down opens a press on index. It returns false if a press is already open.
func (p *PointerTracker) Down(index int, pos Point, at time.Time) bool {
	if p.press != nil {
		return false
	}
	p.press = &PressState{Index: index, Start: pos, StartTime: at}
	p.dragging = false
	return true
}

// Move records the latest position and returns true exactly once per press:
// the first time movement exceeds the move threshold.
func (p *PointerTracker) Move(pos Point) bool {
	if p.press == nil {
		return false
	}
	p.press.MovedDistance = pos.Sub(p.press.Start).Len()
	if !p.dragging && p.press.MovedDistance > p.thresholds.MoveThresholdPx {
		p.dragging = true
		return true
	}
	return false
}

// Up closes the press and classifies it. The release position counts toward
// the moved distance but never starts a drag by itself.
func (p *PointerTracker) Up(pos Point, at time.Time) (Gesture, PressState) {
	if p.press == nil {
		return GestureNone, PressState{}
	}
	press := *p.press
	press.MovedDistance = pos.Sub(press.Start).Len()
	dragging := p.dragging
	p.reset()

	switch {
	case dragging:
		return GestureDrag, press
	case at.Sub(press.StartTime) < p.thresholds.TapMaxDuration &&
		press.MovedDistance < p.thresholds.TapMaxMovePx:
		return GestureTap, press
	default:
		return GestureNone, press
	}
}

// Cancel drops the open press. It returns false if there was none.
func (p *PointerTracker) Cancel() bool {
	if p.press == nil {
		return false
	}
	p.reset()
	return true
}

func (p *PointerTracker) reset() {
	p.press = nil
	p.dragging = false
}
