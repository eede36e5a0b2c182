package reorder

import (
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// State is the engine's gesture state.
type State int

const (
	StateIdle State = iota
	StatePressed
	StateDragging
)

func (s State) String() string {
	switch s {
	case StatePressed:
		return "pressed"
	case StateDragging:
		return "dragging"
	default:
		return "idle"
	}
}

// Session is the record of the open press or drag.
type Session struct {
	ID          string    // Correlates log lines of one gesture
	SourceIndex int       // Slot the item was picked up from
	TargetIndex int       // Slot the item would land in if released now
	Grab        Offset    // Pointer position relative to the card's top-left
	Pointer     Point     // Latest pointer position
	Started     time.Time // Press time
	Moved       bool      // Movement exceeded the drag threshold
}

// Callbacks are invoked synchronously from End and Cancel. At most one fires
// per gesture. Nil callbacks are skipped.
type Callbacks struct {
	OnTap          func(index int)
	OnOrderChanged func(order []string)
	OnCancel       func()
}

// Outcome describes how a gesture ended.
type Outcome struct {
	Gesture Gesture
	Index   int      // Pressed index, -1 if no press was open
	Target  int      // Resolved slot for GestureDrag
	Order   []string // Committed order for GestureDrag
}

// Option configures an Engine.
type Option func(*Engine)

// WithThresholds overrides the tap and drag thresholds.
func WithThresholds(t Thresholds) Option {
	return func(e *Engine) { e.tracker = NewPointerTracker(t) }
}

// WithCallbacks sets the host callbacks.
func WithCallbacks(cb Callbacks) Option {
	return func(e *Engine) { e.callbacks = cb }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithSessionIDs replaces the session id generator.
func WithSessionIDs(next func() string) Option {
	return func(e *Engine) { e.newID = next }
}

// Engine drives one grid. It is not safe for concurrent use; call it from the
// host's event loop only.
type Engine struct {
	grid      GridConfig
	seq       []string
	tracker   *PointerTracker
	session   *Session
	pointer   int
	pending   bool
	callbacks Callbacks
	logger    *log.Logger
	newID     func() string
}

// NewEngine creates an engine over a copy of seq.
func NewEngine(grid GridConfig, seq []string, opts ...Option) *Engine {
	e := &Engine{
		grid:    grid,
		seq:     slices.Clone(seq),
		tracker: NewPointerTracker(DefaultThresholds()),
		logger:  log.New(io.Discard),
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Handle routes a normalized pointer event. A down event picks up the item
// under the pointer; events from other pointers while a press is open are
// dropped.
func (e *Engine) Handle(ev Event) {
	switch ev.Kind {
	case EventDown:
		index, ok := e.grid.HitTest(ev.Pos, len(e.seq))
		if !ok {
			return
		}
		if e.Begin(index, ev.Pos, ev.Time) {
			e.pointer = ev.Pointer
		}
	case EventMove:
		if e.session != nil && ev.Pointer == e.pointer {
			e.Move(ev.Pos, ev.Time)
		}
	case EventUp:
		if e.session != nil && ev.Pointer == e.pointer {
			e.End(ev.Pos, ev.Time)
		}
	case EventCancel:
		if e.session != nil && ev.Pointer == e.pointer {
			e.Cancel()
		}
	}
}

// Begin opens a press on index at pos. It returns false, and changes nothing,
// if a press is already open or index is out of range.
func (e *Engine) Begin(index int, pos Point, at time.Time) bool {
	if e.session != nil {
		e.logger.Debug("begin ignored, session open", "session", e.session.ID, "index", index)
		return false
	}
	if index < 0 || index >= len(e.seq) {
		return false
	}

	e.tracker.Down(index, pos, at)
	e.session = &Session{
		ID:          e.newID(),
		SourceIndex: index,
		TargetIndex: index,
		Grab:        pos.Sub(e.grid.CellRect(index).Origin()),
		Pointer:     pos,
		Started:     at,
	}
	e.pointer = 0
	e.pending = true
	e.logger.Debug("press", "session", e.session.ID, "index", index, "item", e.seq[index])
	return true
}

// Move records the latest pointer position. Target resolution is deferred to
// the next Frame so a burst of moves costs one recomputation.
func (e *Engine) Move(pos Point, _ time.Time) {
	s := e.session
	if s == nil {
		return
	}
	s.Pointer = pos
	if e.tracker.Move(pos) {
		s.Moved = true
		e.logger.Debug("drag started", "session", s.ID, "source", s.SourceIndex)
	}
	if s.Moved {
		e.pending = true
	}
}

// Frame consumes the pending update. It returns true when the host should
// redraw.
func (e *Engine) Frame() bool {
	if !e.pending {
		return false
	}
	e.pending = false
	if s := e.session; s != nil && s.Moved {
		s.TargetIndex = e.resolve(s)
	}
	return true
}

// Pending reports whether a redraw has been requested since the last Frame.
func (e *Engine) Pending() bool {
	return e.pending
}

// End releases the open press at pos and fires the matching callback.
func (e *Engine) End(pos Point, at time.Time) Outcome {
	s := e.session
	if s == nil {
		return Outcome{Gesture: GestureNone, Index: -1}
	}

	gesture, press := e.tracker.Up(pos, at)
	e.session = nil
	e.pending = true

	out := Outcome{Gesture: gesture, Index: press.Index}
	switch gesture {
	case GestureDrag:
		s.Pointer = pos
		out.Target = e.resolve(s)
		order := Commit(e.seq, s.SourceIndex, out.Target)
		e.seq = slices.Clone(order)
		out.Order = slices.Clone(order)
		e.logger.Debug("drag committed", "session", s.ID, "source", s.SourceIndex, "target", out.Target)
		if e.callbacks.OnOrderChanged != nil {
			e.callbacks.OnOrderChanged(slices.Clone(order))
		}
	case GestureTap:
		e.logger.Debug("tap", "session", s.ID, "index", press.Index)
		if e.callbacks.OnTap != nil {
			e.callbacks.OnTap(press.Index)
		}
	default:
		e.logger.Debug("release ignored", "session", s.ID, "held", at.Sub(press.StartTime), "moved", press.MovedDistance)
	}
	return out
}

// Cancel discards the open press or drag without touching the order. It is a
// no-op when idle.
func (e *Engine) Cancel() {
	s := e.session
	if s == nil {
		return
	}
	e.tracker.Cancel()
	e.session = nil
	e.pending = true
	e.logger.Debug("cancelled", "session", s.ID, "source", s.SourceIndex)
	if e.callbacks.OnCancel != nil {
		e.callbacks.OnCancel()
	}
}

// SetSequence replaces the authoritative sequence. An open session is
// cancelled if the sequence shrank or the pressed item left its slot.
func (e *Engine) SetSequence(seq []string) {
	if s := e.session; s != nil {
		if len(seq) < len(e.seq) || s.SourceIndex >= len(seq) || seq[s.SourceIndex] != e.seq[s.SourceIndex] {
			e.logger.Debug("sequence changed under session", "session", s.ID, "was", len(e.seq), "now", len(seq))
			e.Cancel()
		}
	}
	e.seq = slices.Clone(seq)
	if e.session != nil {
		e.pending = true
	}
}

// SetGrid replaces the layout, e.g. after a resize. The grab point of an open
// session is scaled so it stays at the same relative spot on the card.
func (e *Engine) SetGrid(g GridConfig) {
	if s := e.session; s != nil {
		if old := e.grid.CellSize(); old > 0 {
			scale := g.CellSize() / old
			s.Grab = Offset{DX: s.Grab.DX * scale, DY: s.Grab.DY * scale}
		}
	}
	e.grid = g
	e.pending = true
}

// Grid returns the current layout.
func (e *Engine) Grid() GridConfig {
	return e.grid
}

// Sequence returns a copy of the engine's view of the order.
func (e *Engine) Sequence() []string {
	return slices.Clone(e.seq)
}

// State returns the gesture state.
func (e *Engine) State() State {
	switch {
	case e.session == nil:
		return StateIdle
	case e.session.Moved:
		return StateDragging
	default:
		return StatePressed
	}
}

// IsDragging reports whether a drag is in progress.
func (e *Engine) IsDragging() bool {
	return e.State() == StateDragging
}

// Session returns a copy of the open session.
func (e *Engine) Session() (Session, bool) {
	if e.session == nil {
		return Session{}, false
	}
	return *e.session, true
}

// Target returns the slot the dragged item would land in.
func (e *Engine) Target() (int, bool) {
	if !e.IsDragging() {
		return 0, false
	}
	return e.session.TargetIndex, true
}

// IsDraggedItem reports whether index is the item being dragged.
func (e *Engine) IsDraggedItem(index int) bool {
	return e.IsDragging() && e.session.SourceIndex == index
}

// VisualOffset returns the displacement the renderer applies to item index.
func (e *Engine) VisualOffset(index int) Offset {
	if !e.IsDragging() {
		return Offset{}
	}
	return VisualOffset(index, e.session.SourceIndex, e.session.TargetIndex, e.grid)
}

// DraggedRect returns the absolute rect of the dragged card.
func (e *Engine) DraggedRect() (Rect, bool) {
	if !e.IsDragging() {
		return Rect{}, false
	}
	return DraggedRect(e.session.Pointer, e.session.Grab, e.grid), true
}

func (e *Engine) resolve(s *Session) int {
	center := CardCenter(s.Pointer, s.Grab, e.grid.CellSize())
	return ResolveTargetIndex(center, e.grid, len(e.seq))
}
