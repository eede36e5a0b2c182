package tui

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/h0rv/gridsort/internal/config"
	"github.com/h0rv/gridsort/internal/domain"
	"github.com/h0rv/gridsort/internal/reorder"
	"github.com/h0rv/gridsort/internal/store"
	"github.com/muesli/reflow/truncate"
	"github.com/pkg/browser"
)

// Layout constants
const (
	headerLines  = 2 // Title/status line and key hint line
	defaultWidth = 80
	minWidth     = 20
	minTileCells = 6 // Narrowest tile, in terminal columns
)

// settleEpsilon is how close (in px) a spring must be to rest before it snaps.
const settleEpsilon = 0.5

// GridOptions configures a GridModel.
type GridOptions struct {
	Columns    int
	GapPx      float64
	Thresholds reorder.Thresholds
	UI         config.UIConfig
	Logger     *log.Logger

	// Save persists the order after every change. Nil disables saving.
	Save func(items []domain.Item) error
	// OpenURL defaults to browser.OpenURL.
	OpenURL func(url string) error
	// Now defaults to time.Now.
	Now func() time.Time
}

// tileAnim is the spring state of one tile's drawn offset from its slot.
type tileAnim struct {
	x, vx float64
	y, vy float64
}

// gestureInbox collects engine callbacks so Update can act on them after the
// event has been fed.
type gestureInbox struct {
	taps      []int
	orders    [][]string
	cancelled int
}

func (in *gestureInbox) callbacks() reorder.Callbacks {
	return reorder.Callbacks{
		OnTap:          func(i int) { in.taps = append(in.taps, i) },
		OnOrderChanged: func(o []string) { in.orders = append(in.orders, o) },
		OnCancel:       func() { in.cancelled++ },
	}
}

func (in *gestureInbox) reset() {
	in.taps, in.orders, in.cancelled = nil, nil, 0
}

// GridModel is the reorderable grid screen.
type GridModel struct {
	// Dependencies
	store  *store.Store
	logger *log.Logger
	save   func([]domain.Item) error
	open   func(string) error
	now    func() time.Time

	// Gesture pipeline
	engine *reorder.Engine
	mouse  *reorder.MouseAdapter
	keys   *reorder.KeyboardAdapter
	inbox  *gestureInbox

	// Animation
	spring  harmonica.Spring
	anims   map[string]*tileAnim
	ticking bool

	// UI components
	keymap KeyMap
	help   HelpModel

	// Layout
	wantColumns int // Configured
	columns     int // What fits the terminal
	gapPx       float64
	ui          config.UIConfig
	scroll      int // Grid rows scrolled out of view

	// View state
	width    int
	height   int
	selected int
	showHelp bool
	status   string
	toast    string
}

// NewGridModel creates a grid over the store's current order.
func NewGridModel(s *store.Store, opts GridOptions) GridModel {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.OpenURL == nil {
		opts.OpenURL = browser.OpenURL
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.UI.FPS <= 0 {
		opts.UI.FPS = 60
	}
	if opts.UI.CellWidthPx <= 0 || opts.UI.CellHeightPx <= 0 {
		opts.UI.CellWidthPx, opts.UI.CellHeightPx = 8, 16
	}
	if opts.Columns < 1 {
		opts.Columns = 1
	}
	if opts.GapPx < 0 {
		opts.GapPx = 0
	}

	m := GridModel{
		store:   s,
		logger:  opts.Logger,
		save:    opts.Save,
		open:    opts.OpenURL,
		now:     opts.Now,
		inbox:   &gestureInbox{},
		spring:  harmonica.NewSpring(harmonica.FPS(opts.UI.FPS), opts.UI.SpringFrequency, opts.UI.SpringDamping),
		anims:   make(map[string]*tileAnim),
		keymap:  DefaultKeyMap(),
		help:    NewHelpModel(DefaultKeyMap()),
		gapPx:   opts.GapPx,
		ui:      opts.UI,
		width:   defaultWidth,

		wantColumns: opts.Columns,
	}
	g := m.gridConfig()
	m.columns = g.Columns
	m.engine = reorder.NewEngine(g, s.Order(),
		reorder.WithThresholds(opts.Thresholds),
		reorder.WithCallbacks(m.inbox.callbacks()),
		reorder.WithLogger(opts.Logger),
	)
	m.mouse = reorder.NewMouseAdapter(m.engine)
	m.keys = reorder.NewKeyboardAdapter(m.engine)
	return m
}

// Init requests the terminal size.
func (m GridModel) Init() tea.Cmd {
	return tea.WindowSize()
}

// Update handles messages
func (m GridModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = max(msg.Width, minWidth)
		m.height = msg.Height
		(&m).layout()
		(&m).ensureVisible()

	case tea.MouseMsg:
		cmds = append(cmds, m.handleMouse(msg)...)

	case tea.BlurMsg:
		// Focus lost mid-drag: treat as the pointer leaving.
		cmds = append(cmds, m.feed(func() {
			m.mouse.Feed(reorder.MouseInput{Action: reorder.MouseLeave, Time: m.now()})
			m.keys.Abort(m.now())
		})...)

	case tea.KeyMsg:
		cmds = append(cmds, m.handleKeyPress(msg)...)

	case frameMsg:
		m.ticking = false
		if m.engine.Frame() && m.engine.IsDragging() {
			(&m).refreshStatus()
		}
		(&m).stepSprings()

	case savedMsg:
		if msg.err != nil {
			m.toast = fmt.Sprintf("Save failed: %v", msg.err)
			m.logger.Error("save failed", "err", msg.err)
		}
		return m, nil
	}

	if cmd := (&m).scheduleFrame(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// handleMouse maps terminal cells to virtual pixels and feeds the mouse adapter.
func (m *GridModel) handleMouse(msg tea.MouseMsg) []tea.Cmd {
	in := reorder.MouseInput{
		Pos:  m.toPx(msg.X, msg.Y),
		Time: m.now(),
	}
	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.scrollBy(-1)
			return nil
		case tea.MouseButtonWheelDown:
			m.scrollBy(1)
			return nil
		case tea.MouseButtonLeft:
			in.Button = reorder.MouseButtonLeft
		case tea.MouseButtonRight:
			in.Button = reorder.MouseButtonRight
		case tea.MouseButtonMiddle:
			in.Button = reorder.MouseButtonMiddle
		}
		in.Action = reorder.MousePress
	case tea.MouseActionMotion:
		in.Action = reorder.MouseMotion
	case tea.MouseActionRelease:
		in.Action = reorder.MouseRelease
	default:
		return nil
	}
	if m.keys.Held() && in.Action != reorder.MouseRelease {
		// The keyboard owns the open press; a release still reaches the
		// adapter so its button state stays true to the terminal.
		return nil
	}
	return m.feed(func() { m.mouse.Feed(in) })
}

// handleKeyPress processes keyboard input
func (m *GridModel) handleKeyPress(msg tea.KeyMsg) []tea.Cmd {
	if msg.String() == "ctrl+c" {
		return []tea.Cmd{tea.Quit}
	}
	m.toast = ""

	// Help overlay
	if m.showHelp {
		if k := msg.String(); k == "?" || k == "q" || k == "esc" {
			m.showHelp = false
		}
		return nil
	}

	g := m.engine.Grid()
	now := m.now()

	// Picked-up tile follows the arrows
	if m.keys.Held() {
		switch {
		case key.Matches(msg, m.keymap.Left):
			return m.feed(func() { m.keys.Step(g, -1, 0, now) })
		case key.Matches(msg, m.keymap.Right):
			return m.feed(func() { m.keys.Step(g, 1, 0, now) })
		case key.Matches(msg, m.keymap.Up):
			return m.feed(func() { m.keys.Step(g, 0, -1, now) })
		case key.Matches(msg, m.keymap.Down):
			return m.feed(func() { m.keys.Step(g, 0, 1, now) })
		case key.Matches(msg, m.keymap.Pick):
			return m.feed(func() { m.keys.Drop(g, now) })
		case key.Matches(msg, m.keymap.Cancel):
			return m.feed(func() { m.keys.Abort(now) })
		}
		return nil
	}

	switch {
	case key.Matches(msg, m.keymap.Quit):
		return []tea.Cmd{tea.Quit}
	case key.Matches(msg, m.keymap.Help):
		m.showHelp = true
	case key.Matches(msg, m.keymap.Cancel):
		return m.feed(m.engine.Cancel)
	case key.Matches(msg, m.keymap.Left):
		m.moveSelection(-1)
	case key.Matches(msg, m.keymap.Right):
		m.moveSelection(1)
	case key.Matches(msg, m.keymap.Up):
		m.moveSelection(-m.columns)
	case key.Matches(msg, m.keymap.Down):
		m.moveSelection(m.columns)
	case key.Matches(msg, m.keymap.Pick):
		if m.engine.State() != reorder.StateIdle {
			return nil
		}
		return m.feed(func() { m.keys.PickUp(g, m.selected, m.store.Len(), now) })
	case key.Matches(msg, m.keymap.View):
		if item, err := m.store.ItemAt(m.selected); err == nil {
			return []tea.Cmd{openDetail(*item, m.selected)}
		}
	case key.Matches(msg, m.keymap.Open):
		if item, err := m.store.ItemAt(m.selected); err == nil && item.URL != "" {
			if err := m.open(item.URL); err != nil {
				m.toast = fmt.Sprintf("Open failed: %v", err)
			}
		}
	case key.Matches(msg, m.keymap.Remove):
		return m.removeSelected()
	case key.Matches(msg, m.keymap.Undo):
		return m.undo()
	}
	return nil
}

// feed snapshots the drawn tile positions, runs fn against the gesture
// pipeline and then acts on whatever the engine reported.
func (m *GridModel) feed(fn func()) []tea.Cmd {
	before := m.drawnOrigins()
	held := ""
	if s, ok := m.engine.Session(); ok {
		held = m.engine.Sequence()[s.SourceIndex]
	}

	m.inbox.reset()
	fn()
	if m.engine.State() == reorder.StateIdle {
		m.keys.Reset()
	}
	m.refreshStatus()

	var cmds []tea.Cmd
	for _, order := range m.inbox.orders {
		cmds = append(cmds, m.commitOrder(order, held, before)...)
	}
	for _, index := range m.inbox.taps {
		m.selected = index
		if item, err := m.store.ItemAt(index); err == nil {
			cmds = append(cmds, openDetail(*item, index))
		}
	}
	if m.inbox.cancelled > 0 {
		m.reanchor(before)
		m.status = "cancelled"
	}
	return cmds
}

// refreshStatus describes the open gesture in the header.
func (m *GridModel) refreshStatus() {
	s, ok := m.engine.Session()
	switch {
	case ok && s.Moved:
		m.status = fmt.Sprintf("dragging %d → %d", s.SourceIndex+1, s.TargetIndex+1)
	case ok:
		m.status = "holding"
	default:
		m.status = ""
	}
}

// commitOrder applies a committed drag to the store.
func (m *GridModel) commitOrder(order []string, moved string, before map[string]reorder.Point) []tea.Cmd {
	changed, err := m.store.ApplyOrder(order)
	if err != nil {
		// The engine drifted from the store; the store wins.
		m.logger.Error("rejected order", "err", err)
		m.toast = fmt.Sprintf("Reorder rejected: %v", err)
		m.engine.SetSequence(m.store.Order())
		m.reanchor(before)
		return nil
	}
	m.reanchor(before)
	if !changed {
		m.status = "unchanged"
		return nil
	}

	if idx := m.store.IndexOf(moved); idx >= 0 {
		m.selected = idx
	}
	m.status = fmt.Sprintf("moved to %d", m.selected+1)
	m.logger.Info("order changed", "items", len(order), "moved", moved)
	return m.persist()
}

// removeSelected deletes the selected item; an open drag is cancelled by the
// engine when the sequence shrinks.
func (m *GridModel) removeSelected() []tea.Cmd {
	item, err := m.store.ItemAt(m.selected)
	if err != nil {
		return nil
	}
	before := m.drawnOrigins()
	if err := m.store.RemoveItem(item.ID); err != nil {
		m.toast = err.Error()
		return nil
	}
	delete(m.anims, item.ID)
	m.engine.SetSequence(m.store.Order())
	m.keys.Reset()
	m.selected = max(0, min(m.selected, m.store.Len()-1))
	m.reanchor(before)
	m.status = fmt.Sprintf("removed %q", item.Title)
	return m.persist()
}

// undo restores the order before the last committed drag.
func (m *GridModel) undo() []tea.Cmd {
	if !m.store.CanRollback() {
		m.toast = "Nothing to undo"
		return nil
	}
	before := m.drawnOrigins()
	selectedID := ""
	if item, err := m.store.ItemAt(m.selected); err == nil {
		selectedID = item.ID
	}
	if err := m.store.RollbackOrder(); err != nil {
		m.toast = err.Error()
		return nil
	}
	m.engine.SetSequence(m.store.Order())
	if idx := m.store.IndexOf(selectedID); idx >= 0 {
		m.selected = idx
	}
	m.reanchor(before)
	m.status = "undone"
	return m.persist()
}

func (m *GridModel) persist() []tea.Cmd {
	if m.save == nil {
		return nil
	}
	save, items := m.save, m.store.Items()
	return []tea.Cmd{func() tea.Msg { return savedMsg{err: save(items)} }}
}

func (m *GridModel) moveSelection(delta int) {
	n := m.store.Len()
	if n == 0 {
		return
	}
	next := m.selected + delta
	if next < 0 || next >= n {
		return
	}
	m.selected = next
	m.ensureVisible()
}

// Geometry

// gridConfig lays out the configured columns across the terminal width,
// dropping columns while tiles would be narrower than minTileCells.
func (m GridModel) gridConfig() reorder.GridConfig {
	g := reorder.GridConfig{
		Columns:          m.wantColumns,
		GapPx:            m.gapPx,
		ContainerWidthPx: float64(m.width) * m.ui.CellWidthPx,
	}
	for g.Columns > 1 && g.CellSize() < minTileCells*m.ui.CellWidthPx {
		g.Columns--
	}
	return g
}

// layout hands the engine a grid that fits the current width. A grid that
// still fails validation is reported and the engine keeps the old one.
func (m *GridModel) layout() {
	g := m.gridConfig()
	if err := g.Validate(); err != nil {
		m.logger.Error("grid does not fit", "err", err)
		m.toast = err.Error()
		return
	}
	if g.Columns != m.columns && g.Columns < m.wantColumns {
		m.logger.Warn("narrowed grid", "columns", g.Columns, "configured", m.wantColumns, "width", m.width)
	}
	m.columns = g.Columns
	m.engine.SetGrid(g)
}

// toPx maps the center of a terminal cell to a grid point.
func (m GridModel) toPx(x, y int) reorder.Point {
	return reorder.Point{
		X: (float64(x) + 0.5) * m.ui.CellWidthPx,
		Y: (float64(y-headerLines+m.scroll) + 0.5) * m.ui.CellHeightPx,
	}
}

// toCells maps a grid rect to terminal cells relative to the grid area.
func (m GridModel) toCells(r reorder.Rect) (x, y, w, h int) {
	x0 := int(math.Round(r.X / m.ui.CellWidthPx))
	y0 := int(math.Round(r.Y / m.ui.CellHeightPx))
	x1 := int(math.Round((r.X + r.W) / m.ui.CellWidthPx))
	y1 := int(math.Round((r.Y + r.H) / m.ui.CellHeightPx))
	return x0, y0 - m.scroll, x1 - x0, y1 - y0
}

func (m GridModel) gridRows() int {
	return max(m.height-headerLines, 1)
}

func (m *GridModel) scrollBy(rows int) {
	content := int(math.Ceil(m.engine.Grid().ContentHeight(m.store.Len()) / m.ui.CellHeightPx))
	m.scroll = max(0, min(m.scroll+rows, content-m.gridRows()))
}

// ensureVisible scrolls so the selected tile is on screen.
func (m *GridModel) ensureVisible() {
	if m.store.Len() == 0 || m.height == 0 {
		return
	}
	r := m.engine.Grid().CellRect(m.selected)
	top := int(math.Round(r.Y / m.ui.CellHeightPx))
	bottom := int(math.Round((r.Y + r.H) / m.ui.CellHeightPx))
	if top < m.scroll {
		m.scroll = top
	}
	if bottom > m.scroll+m.gridRows() {
		m.scroll = bottom - m.gridRows()
	}
}

// Animation

func (m *GridModel) anim(id string) *tileAnim {
	a, ok := m.anims[id]
	if !ok {
		a = &tileAnim{}
		m.anims[id] = a
	}
	return a
}

// drawnOrigins returns where every tile is currently drawn.
func (m *GridModel) drawnOrigins() map[string]reorder.Point {
	g := m.engine.Grid()
	out := make(map[string]reorder.Point, m.store.Len())
	for i, id := range m.engine.Sequence() {
		if m.engine.IsDraggedItem(i) {
			r, _ := m.engine.DraggedRect()
			out[id] = r.Origin()
			continue
		}
		a := m.anim(id)
		out[id] = g.CellRect(i).Origin().Add(reorder.Offset{DX: a.x, DY: a.y})
	}
	return out
}

// reanchor keeps tiles where they were drawn after their slots changed, so
// the springs carry them to the new layout.
func (m *GridModel) reanchor(before map[string]reorder.Point) {
	g := m.engine.Grid()
	for i, id := range m.engine.Sequence() {
		prev, ok := before[id]
		if !ok {
			continue
		}
		d := prev.Sub(g.CellRect(i).Origin())
		a := m.anim(id)
		a.x, a.y = d.DX, d.DY
	}
}

// stepSprings advances every tile one frame toward its reflow offset.
func (m *GridModel) stepSprings() {
	for i, id := range m.engine.Sequence() {
		if m.engine.IsDraggedItem(i) {
			continue
		}
		target := m.engine.VisualOffset(i)
		a := m.anim(id)
		a.x, a.vx = m.spring.Update(a.x, a.vx, target.DX)
		a.y, a.vy = m.spring.Update(a.y, a.vy, target.DY)
		if settledAt(a, target) {
			a.x, a.y, a.vx, a.vy = target.DX, target.DY, 0, 0
		}
	}
}

func settledAt(a *tileAnim, target reorder.Offset) bool {
	return math.Abs(a.x-target.DX) < settleEpsilon && math.Abs(a.y-target.DY) < settleEpsilon &&
		math.Abs(a.vx) < settleEpsilon && math.Abs(a.vy) < settleEpsilon
}

// settled reports whether every tile rests at its target offset.
func (m *GridModel) settled() bool {
	for i, id := range m.engine.Sequence() {
		if m.engine.IsDraggedItem(i) {
			continue
		}
		a, ok := m.anims[id]
		target := m.engine.VisualOffset(i)
		if !ok {
			if target != (reorder.Offset{}) {
				return false
			}
			continue
		}
		if a.x != target.DX || a.y != target.DY {
			return false
		}
	}
	return true
}

// scheduleFrame starts the frame clock when there is something to animate.
func (m *GridModel) scheduleFrame() tea.Cmd {
	if m.ticking || (!m.engine.Pending() && m.settled()) {
		return nil
	}
	m.ticking = true
	return tea.Tick(m.ui.FrameInterval(), func(t time.Time) tea.Msg { return frameMsg(t) })
}

// View

// View renders the grid - fills the terminal exactly
func (m GridModel) View() string {
	width := m.width
	height := m.height
	if height == 0 {
		height = 24
	}
	rows := max(height-headerLines, 1)

	header := m.renderHeader(width)
	hints := m.renderHints(width)

	var body string
	switch {
	case m.showHelp:
		body = m.help.Overlay(width, rows)
	case m.store.Len() == 0:
		body = lipgloss.Place(width, rows, lipgloss.Center, lipgloss.Center, dimStyle.Render("No items"))
	default:
		body = m.renderTiles(width, rows)
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, hints, body)
}

func (m GridModel) renderHeader(width int) string {
	title := m.store.Title()
	if title == "" {
		title = "gridsort"
	}

	var parts []string
	if m.status != "" {
		parts = append(parts, m.status)
	}
	parts = append(parts, fmt.Sprintf("%d items", m.store.Len()))
	if m.columns < m.wantColumns {
		parts = append(parts, fmt.Sprintf("%d/%d columns", m.columns, m.wantColumns))
	}
	if m.toast != "" {
		parts = append(parts, ErrorStyle.Render(m.toast))
	}
	status := strings.Join(parts, " | ")

	left := headerStyle.Render(truncate.StringWithTail(title, uint(max(width/2, 1)), "…"))
	padding := max(width-lipgloss.Width(left)-lipgloss.Width(status)-1, 1)
	return left + strings.Repeat(" ", padding) + dimStyle.Render(status)
}

func (m GridModel) renderHints(width int) string {
	if m.keys.Held() {
		return modeStyle.Render("MOVE") + dimStyle.Render(" arrows move • space drop • esc cancel")
	}
	return m.help.Short(width)
}

// renderTiles paints every tile at its slot plus spring offset, then the
// dragged tile on top at the pointer.
func (m GridModel) renderTiles(width, rows int) string {
	c := newCanvas(width, rows, tilePalette)
	g := m.engine.Grid()
	seq := m.engine.Sequence()

	if target, ok := m.engine.Target(); ok {
		x, y, w, h := m.toCells(g.CellRect(target))
		c.box(x, y, w, h, lipgloss.NormalBorder(), paintSlot)
	}

	dragged := -1
	for i, id := range seq {
		if m.engine.IsDraggedItem(i) {
			dragged = i
			continue
		}
		r := g.CellRect(i)
		if a, ok := m.anims[id]; ok {
			r.X += a.x
			r.Y += a.y
		}
		slot := paintTile
		if i == m.selected && !m.engine.IsDragging() {
			slot = paintTileSelected
		}
		m.paintTile(c, r, id, slot, paintCaption)
	}

	if dragged >= 0 {
		r, _ := m.engine.DraggedRect()
		m.paintTile(c, r, seq[dragged], paintTileDragged, paintCaptionDragged)
	}
	return c.String()
}

func (m GridModel) paintTile(c *canvas, r reorder.Rect, id string, border, caption int) {
	x, y, w, h := m.toCells(r)
	if y+h < 0 || y >= c.h {
		return
	}
	c.box(x, y, w, h, lipgloss.RoundedBorder(), border)
	item, err := m.store.GetItem(id)
	if err != nil || w < 3 || h < 3 {
		return
	}
	inner := w - 2
	c.text(x+1, y+1, truncate.StringWithTail(item.Title, uint(inner), "…"), inner, caption)
	if h >= 4 {
		if meta := itemMeta(item); meta != "" {
			c.text(x+1, y+2, truncate.StringWithTail(meta, uint(inner), "…"), inner, paintMeta)
		}
	}
}

// itemMeta is the second tile line: issue number, draft marker, or host.
func itemMeta(item *domain.Item) string {
	switch item.Kind {
	case domain.KindIssue, domain.KindPullRequest:
		if item.Number > 0 {
			return fmt.Sprintf("#%d", item.Number)
		}
	case domain.KindDraftIssue:
		return "(draft)"
	case domain.KindPrivate:
		return "(pvt)"
	}
	if item.URL != "" {
		host := strings.TrimPrefix(strings.TrimPrefix(item.URL, "https://"), "http://")
		if i := strings.IndexByte(host, '/'); i >= 0 {
			host = host[:i]
		}
		return host
	}
	return ""
}

func openDetail(item domain.Item, index int) tea.Cmd {
	return func() tea.Msg { return openDetailMsg{item: item, index: index} }
}
