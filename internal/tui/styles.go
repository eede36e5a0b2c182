package tui

import "github.com/charmbracelet/lipgloss"

var (
	// TitleStyle is used for screen titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")) // Purple

	// SelectedItemStyle is used for highlighted/selected list entries.
	SelectedItemStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("170")). // Light purple
				Bold(true)

	// NormalItemStyle is used for non-selected list entries.
	NormalItemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")) // Light gray

	// ErrorStyle is used for error messages.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")). // Red
			Bold(true)

	// HelpStyle is used for help text.
	HelpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")) // Dark gray

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	headerStyle = lipgloss.NewStyle().
			Bold(true)

	modeStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("205")).
			Foreground(lipgloss.Color("0")).
			Padding(0, 1)
)

// Tile palette slots used by the grid canvas.
const (
	paintPlain = iota
	paintTile
	paintTileSelected
	paintTileDragged
	paintCaption
	paintCaptionDragged
	paintMeta
	paintSlot
)

// tilePalette maps canvas paint slots to styles.
var tilePalette = []lipgloss.Style{
	paintPlain:          lipgloss.NewStyle(),
	paintTile:           lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	paintTileSelected:   lipgloss.NewStyle().Foreground(lipgloss.Color("170")).Bold(true),
	paintTileDragged:    lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true),
	paintCaption:        lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
	paintCaptionDragged: lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true),
	paintMeta:           lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	paintSlot:           lipgloss.NewStyle().Foreground(lipgloss.Color("62")).Faint(true),
}
