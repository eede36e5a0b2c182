package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/h0rv/gridsort/internal/domain"
	"github.com/muesli/reflow/wordwrap"
)

// Layout constants
const (
	leftPanelRatio = 0.35 // Left panel takes 35% of width
	minLeftWidth   = 24
	maxLeftWidth   = 44
	borderSize     = 2 // Top + bottom border
)

// Detail view styles
var (
	detailTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("205"))

	detailLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("241"))

	detailValueStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("252"))

	panelBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("240"))

	focusedPanelBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("205"))
)

// DetailModel shows one item: metadata on the left, the wrapped body on the
// right in a scrollable viewport.
type DetailModel struct {
	item     domain.Item
	position int // 1-based slot in the grid
	total    int
	open     func(string) error
	viewport viewport.Model
	status   string

	// View dimensions
	width  int
	height int
}

// NewDetailModel creates a detail view for the item at index of a grid
// holding total items.
func NewDetailModel(item domain.Item, index, total int, open func(string) error) DetailModel {
	vp := viewport.New(40, 10) // Resized on WindowSizeMsg
	vp.MouseWheelEnabled = true
	vp.MouseWheelDelta = 3

	m := DetailModel{item: item, position: index + 1, total: total, open: open, viewport: vp}
	m.updateViewportContent()
	return m
}

// Init requests the terminal size.
func (m DetailModel) Init() tea.Cmd {
	return tea.WindowSize()
}

// Update handles messages
func (m DetailModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeComponents()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "q", "esc", "enter":
			return m, func() tea.Msg { return closeDetailMsg{} }
		case "o":
			if m.item.URL == "" {
				m.status = "No URL"
				return m, nil
			}
			if err := m.open(m.item.URL); err != nil {
				m.status = fmt.Sprintf("Open failed: %v", err)
			}
			return m, nil
		case "j", "down":
			m.viewport.LineDown(1)
		case "k", "up":
			m.viewport.LineUp(1)
		case "ctrl+d":
			m.viewport.HalfViewDown()
		case "ctrl+u":
			m.viewport.HalfViewUp()
		case "g":
			m.viewport.GotoTop()
		case "G":
			m.viewport.GotoBottom()
		}
		return m, nil

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

// panelWidths splits the screen between the metadata and body panels.
func panelWidths(width int) (left, right int) {
	left = int(float64(width) * leftPanelRatio)
	left = max(minLeftWidth, min(left, maxLeftWidth))
	right = max(width-left-1, 20) // 1 char gap
	return left, right
}

// resizeComponents fits the viewport to the right panel.
func (m *DetailModel) resizeComponents() {
	_, right := panelWidths(m.width)
	contentHeight := max(m.height-2, 6) // header + footer

	m.viewport.Width = right - borderSize - 2
	m.viewport.Height = contentHeight - borderSize - 1 // panel title
	m.updateViewportContent()
}

// View renders the split-screen detail view
func (m DetailModel) View() string {
	width := m.width
	height := m.height
	if width == 0 {
		width = 100
	}
	if height == 0 {
		height = 30
	}

	leftWidth, rightWidth := panelWidths(width)
	contentHeight := max(height-2, 6)

	header := dimStyle.Render("[q]back [o]open [j/k]scroll [g/G]top/bottom")

	leftPanel := panelBorderStyle.
		Width(leftWidth - borderSize).
		Height(contentHeight - borderSize).
		Render(m.renderLeftPanel(leftWidth - borderSize))

	rightPanel := focusedPanelBorderStyle.
		Width(rightWidth - borderSize).
		Height(contentHeight - borderSize).
		Render(m.renderRightPanel())

	panels := lipgloss.JoinHorizontal(lipgloss.Top, leftPanel, " ", rightPanel)
	return lipgloss.JoinVertical(lipgloss.Left, header, panels, m.renderFooter(width))
}

// renderLeftPanel renders the item metadata
func (m DetailModel) renderLeftPanel(width int) string {
	var b strings.Builder

	kind := m.item.Kind
	if m.item.Number > 0 {
		kind = fmt.Sprintf("%s #%d", kind, m.item.Number)
	}
	b.WriteString(detailLabelStyle.Render(kind))
	b.WriteString("\n\n")

	b.WriteString(detailTitleStyle.Render(wordwrap.String(m.item.Title, max(width-2, 1))))
	b.WriteString("\n\n")

	field := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(detailLabelStyle.Render(label + ": "))
		b.WriteString(detailValueStyle.Render(value))
		b.WriteString("\n")
	}
	field("Position", fmt.Sprintf("%d of %d", m.position, m.total))
	field("Repo", m.item.Repo)
	field("Author", m.item.Author)
	if m.item.Created != "" {
		field("Created", formatTimeAgo(m.item.Created, time.Now()))
	}
	field("URL", wordwrap.String(m.item.URL, max(width-6, 1)))

	return b.String()
}

// renderRightPanel renders the body viewport
func (m DetailModel) renderRightPanel() string {
	title := "Description"
	if m.viewport.TotalLineCount() > m.viewport.Height {
		switch {
		case m.viewport.AtTop():
			title += " ↓"
		case m.viewport.AtBottom():
			title += " ↑"
		default:
			title += " ↕"
		}
	}
	if m.item.Body == "" {
		return detailLabelStyle.Render(title) + "\n\n" + dimStyle.Render("No description")
	}
	return detailLabelStyle.Render(title) + "\n" + m.viewport.View()
}

func (m DetailModel) renderFooter(width int) string {
	left := m.status
	right := ""
	if m.item.Body != "" && m.viewport.TotalLineCount() > m.viewport.Height {
		switch {
		case m.viewport.AtTop():
			right = "TOP"
		case m.viewport.AtBottom():
			right = "END"
		default:
			right = fmt.Sprintf("%d%%", int(m.viewport.ScrollPercent()*100))
		}
	}
	padding := max(width-lipgloss.Width(left)-lipgloss.Width(right)-2, 1)
	return dimStyle.Render(left) + strings.Repeat(" ", padding) + dimStyle.Render(right)
}

// updateViewportContent wraps the body to the viewport width.
func (m *DetailModel) updateViewportContent() {
	wrapWidth := max(m.viewport.Width-2, 20)
	m.viewport.SetContent(detailValueStyle.Render(wordwrap.String(m.item.Body, wrapWidth)))
}

// formatTimeAgo converts an ISO8601 timestamp to a relative time.
func formatTimeAgo(timestamp string, now time.Time) string {
	t, err := time.Parse(time.RFC3339, timestamp)
	if err != nil {
		if len(timestamp) >= 10 {
			return timestamp[:10]
		}
		return timestamp
	}

	d := now.Sub(t)
	ago := func(n int, unit string) string {
		return fmt.Sprintf("%d%s ago", n, unit)
	}
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return ago(int(d.Minutes()), "m")
	case d < 24*time.Hour:
		return ago(int(d.Hours()), "h")
	case d < 7*24*time.Hour:
		return ago(int(d.Hours()/24), "d")
	case d < 30*24*time.Hour:
		return ago(int(d.Hours()/24/7), "w")
	case d < 365*24*time.Hour:
		return ago(int(d.Hours()/24/30), "mo")
	default:
		return ago(int(d.Hours()/24/365), "y")
	}
}
