package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/h0rv/gridsort/internal/domain"
	"github.com/h0rv/gridsort/internal/gh"
)

// choice is one pickable row.
type choice struct {
	title string
	desc  string
	msg   tea.Msg // Emitted when the row is chosen
}

func (c choice) FilterValue() string { return c.title }

// choiceDelegate renders a title line and a dim description line.
type choiceDelegate struct{}

func (d choiceDelegate) Height() int                             { return 2 }
func (d choiceDelegate) Spacing() int                            { return 1 }
func (d choiceDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d choiceDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	c, ok := item.(choice)
	if !ok {
		return
	}

	if index == m.Index() {
		fmt.Fprint(w, SelectedItemStyle.Render("> "+c.title))
		fmt.Fprint(w, "\n  "+NormalItemStyle.Render(c.desc))
		return
	}
	fmt.Fprint(w, NormalItemStyle.Render("  "+c.title))
	fmt.Fprint(w, "\n  "+HelpStyle.Render(c.desc))
}

// PickerModel is a filterable list that emits the chosen row's message.
type PickerModel struct {
	list list.Model
}

func newPicker(title string, choices []choice) PickerModel {
	items := make([]list.Item, len(choices))
	for i, c := range choices {
		items[i] = c
	}

	// Resized by WindowSizeMsg
	l := list.New(items, choiceDelegate{}, 80, 20)
	l.Title = title
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = TitleStyle
	l.Styles.PaginationStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	l.Styles.HelpStyle = HelpStyle

	return PickerModel{list: l}
}

// NewOwnerPickerModel lists the viewer and their organizations.
func NewOwnerPickerModel(owners []gh.Owner) PickerModel {
	choices := make([]choice, len(owners))
	for i, o := range owners {
		kind := "user"
		if o.Type == gh.OwnerTypeOrganization {
			kind = "organization"
		}
		choices[i] = choice{title: o.Login, desc: kind, msg: OwnerSelectedMsg{Owner: o}}
	}
	return newPicker("Select Owner", choices)
}

// NewProjectPickerModel lists an owner's projects.
func NewProjectPickerModel(projects []domain.Project) PickerModel {
	choices := make([]choice, len(projects))
	for i, p := range projects {
		choices[i] = choice{
			title: fmt.Sprintf("%d. %s", p.Number, p.Title),
			desc:  fmt.Sprintf("Owner: %s", p.Owner),
			msg:   ProjectSelectedMsg{Project: p},
		}
	}
	return newPicker("Select a Project", choices)
}

// Init initializes the model.
func (m PickerModel) Init() tea.Cmd {
	return tea.WindowSize()
}

// Update handles messages and updates the model state.
func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width - 2)
		m.list.SetHeight(msg.Height - 2)
		return m, nil

	case tea.KeyMsg:
		if m.list.SettingFilter() {
			break
		}
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, func() tea.Msg { return QuitMsg{} }
		case "enter":
			if c, ok := m.list.SelectedItem().(choice); ok {
				chosen := c.msg
				return m, func() tea.Msg { return chosen }
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the model.
func (m PickerModel) View() string {
	return m.list.View()
}
