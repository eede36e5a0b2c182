package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
)

// HelpOverlayStyle frames the full key listing.
var HelpOverlayStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("62")).
	Padding(1, 2)

// HelpModel renders the key bindings, either as a one-line hint or as the
// full overlay.
type HelpModel struct {
	help   help.Model
	keymap KeyMap
}

// NewHelpModel creates a help model for keymap.
func NewHelpModel(keymap KeyMap) HelpModel {
	return HelpModel{help: help.New(), keymap: keymap}
}

// Short renders the one-line hint.
func (m HelpModel) Short(width int) string {
	m.help.Width = width
	m.help.ShowAll = false
	return m.help.View(m.keymap)
}

// Overlay renders every binding inside a bordered box centered in the area.
func (m HelpModel) Overlay(width, height int) string {
	m.help.Width = width - 8 // padding and border
	m.help.ShowAll = true
	box := HelpOverlayStyle.Render(TitleStyle.Render("Keys") + "\n" + m.help.View(m.keymap))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
