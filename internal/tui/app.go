package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/h0rv/gridsort/internal/domain"
	"github.com/h0rv/gridsort/internal/gh"
	"github.com/h0rv/gridsort/internal/logging"
	"github.com/h0rv/gridsort/internal/source"
	"github.com/h0rv/gridsort/internal/store"
	"github.com/pkg/browser"
)

// AppScreen represents the different screens in the application flow.
type AppScreen int

const (
	ScreenLoading AppScreen = iota
	ScreenOwnerPicker
	ScreenProjectPicker
	ScreenGrid
	ScreenDetail
)

// ProjectClient is the part of the GitHub client the project flow needs.
type ProjectClient interface {
	ListOwners(ctx context.Context) ([]gh.Owner, error)
	ResolveOwner(ctx context.Context, login string) (gh.OwnerType, string, error)
	ListProjects(ctx context.Context, ownerType gh.OwnerType, ownerID string, login string) ([]domain.Project, error)
	source.ProjectItems
}

// AppOptions selects where items come from and how the grid behaves.
type AppOptions struct {
	// Loader is a ready source. When nil, items come from a GitHub project
	// chosen through Client.
	Loader source.Loader
	Title  string // Header title for Loader

	// Saver receives every committed order. Nil disables saving.
	Saver source.Saver

	Client  ProjectClient
	Owner   string // Skips the owner picker
	Project int    // Skips the project picker, requires Owner

	Grid GridOptions
}

// AppModel is the root Bubble Tea model that manages screen transitions.
// It orchestrates the flow from owner selection -> project selection -> grid,
// or straight to the grid when a loader is given.
type AppModel struct {
	// Dependencies
	store *store.Store
	ctx   context.Context
	opts  AppOptions

	// Current state
	currentScreen AppScreen
	currentModel  tea.Model
	spinner       spinner.Model
	err           error
	loadingMsg    string

	// Resolved owner (accumulated through the flow)
	owner gh.Owner

	// Cached grid to preserve state across the detail screen
	gridModel *GridModel
}

// NewAppModel creates the root model.
func NewAppModel(ctx context.Context, s *store.Store, opts AppOptions) AppModel {
	if opts.Grid.Logger == nil {
		opts.Grid.Logger = logging.FromContext(ctx)
	}
	if opts.Grid.OpenURL == nil {
		opts.Grid.OpenURL = browser.OpenURL
	}
	if opts.Saver != nil {
		opts.Grid.Save = opts.Saver.Save
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return AppModel{
		store:         s,
		ctx:           ctx,
		opts:          opts,
		currentScreen: ScreenLoading,
		spinner:       sp,
		loadingMsg:    "Loading items...",
	}
}

// Init starts loading.
func (m AppModel) Init() tea.Cmd {
	switch {
	case m.opts.Loader != nil:
		return tea.Batch(m.spinner.Tick, m.loadItems(m.opts.Loader, m.opts.Title))
	case m.opts.Client == nil:
		return func() tea.Msg { return ErrorMsg{Err: fmt.Errorf("no item source configured")} }
	case m.opts.Owner != "":
		return tea.Batch(m.spinner.Tick, m.resolveOwner(m.opts.Owner))
	default:
		return tea.Batch(m.spinner.Tick, m.listOwners())
	}
}

// Screen reports the active screen.
func (m AppModel) Screen() AppScreen {
	return m.currentScreen
}

// Update handles messages and transitions between screens.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Global quit handler; the grid handles its own keys
		if msg.String() == "ctrl+c" && m.currentScreen != ScreenGrid {
			return m, tea.Quit
		}
		if m.err != nil {
			return m, tea.Quit
		}

	case ErrorMsg:
		m.err = msg.Err
		m.opts.Grid.Logger.Error("fatal", "err", msg.Err)
		return m, nil

	case QuitMsg:
		return m, tea.Quit

	case spinner.TickMsg:
		if m.currentScreen != ScreenLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case ownersLoadedMsg:
		m.currentScreen = ScreenOwnerPicker
		picker := NewOwnerPickerModel(msg.owners)
		m.currentModel = picker
		return m, picker.Init()

	case OwnerSelectedMsg:
		m.owner = msg.Owner
		return m.showLoading(fmt.Sprintf("Loading projects for %s...", m.owner.Login), m.listProjects())

	case ownerResolvedMsg:
		m.owner = msg.owner
		return m.showLoading(fmt.Sprintf("Loading projects for %s...", m.owner.Login), m.listProjects())

	case projectsLoadedMsg:
		if m.opts.Project > 0 {
			for _, p := range msg.projects {
				if p.Number == m.opts.Project {
					return m.showLoading(fmt.Sprintf("Loading items for %s...", p.Title), m.loadProject(p))
				}
			}
			m.err = fmt.Errorf("project #%d not found for owner %s", m.opts.Project, m.owner.Login)
			return m, nil
		}
		m.currentScreen = ScreenProjectPicker
		picker := NewProjectPickerModel(msg.projects)
		m.currentModel = picker
		return m, picker.Init()

	case ProjectSelectedMsg:
		return m.showLoading(fmt.Sprintf("Loading items for %s...", msg.Project.Title), m.loadProject(msg.Project))

	case itemsLoadedMsg:
		if err := m.store.SetItems(msg.items); err != nil {
			m.err = err
			return m, nil
		}
		m.store.SetTitle(msg.title)
		m.opts.Grid.Logger.Info("items loaded", "source", msg.title, "items", len(msg.items))

		grid := NewGridModel(m.store, m.opts.Grid)
		m.gridModel = &grid
		m.currentScreen = ScreenGrid
		m.currentModel = grid
		return m, grid.Init()

	case openDetailMsg:
		m.currentScreen = ScreenDetail
		detail := NewDetailModel(msg.item, msg.index, m.store.Len(), m.opts.Grid.OpenURL)
		m.currentModel = detail
		return m, detail.Init()

	case closeDetailMsg:
		m.currentScreen = ScreenGrid
		m.currentModel = *m.gridModel
		// Request window size to ensure proper rendering
		return m, tea.WindowSize()
	}

	// Delegate to current screen's model
	if m.currentModel != nil {
		var cmd tea.Cmd
		m.currentModel, cmd = m.currentModel.Update(msg)
		// Keep gridModel in sync when on grid screen
		if m.currentScreen == ScreenGrid {
			if gm, ok := m.currentModel.(GridModel); ok {
				m.gridModel = &gm
			}
		}
		return m, cmd
	}

	return m, nil
}

// showLoading switches to the spinner while cmd runs.
func (m AppModel) showLoading(text string, cmd tea.Cmd) (tea.Model, tea.Cmd) {
	m.currentScreen = ScreenLoading
	m.currentModel = nil
	m.loadingMsg = text
	return m, tea.Batch(m.spinner.Tick, cmd)
}

// View renders the current screen.
func (m AppModel) View() string {
	if m.err != nil {
		return ErrorStyle.Render(fmt.Sprintf("Error: %v\n\nPress any key to quit", m.err))
	}
	if m.currentModel != nil {
		return m.currentModel.View()
	}
	return m.spinner.View() + " " + m.loadingMsg + "\n\nPress Ctrl+C to quit"
}

// listOwners creates a command to fetch the viewer and their organizations.
func (m AppModel) listOwners() tea.Cmd {
	return func() tea.Msg {
		owners, err := m.opts.Client.ListOwners(m.ctx)
		if err != nil {
			return ErrorMsg{Err: fmt.Errorf("failed to fetch owners: %w", err)}
		}
		return ownersLoadedMsg{owners: owners}
	}
}

// resolveOwner creates a command to resolve the owner type.
func (m AppModel) resolveOwner(login string) tea.Cmd {
	return func() tea.Msg {
		ownerType, ownerID, err := m.opts.Client.ResolveOwner(m.ctx, login)
		if err != nil {
			return ErrorMsg{Err: fmt.Errorf("failed to resolve owner '%s': %w", login, err)}
		}
		return ownerResolvedMsg{owner: gh.Owner{Login: login, ID: ownerID, Type: ownerType}}
	}
}

// listProjects creates a command to list projects for the owner.
func (m AppModel) listProjects() tea.Cmd {
	owner := m.owner
	return func() tea.Msg {
		projects, err := m.opts.Client.ListProjects(m.ctx, owner.Type, owner.ID, owner.Login)
		if err != nil {
			return ErrorMsg{Err: fmt.Errorf("failed to list projects: %w", err)}
		}
		if len(projects) == 0 {
			return ErrorMsg{Err: fmt.Errorf("no projects found for owner '%s'", owner.Login)}
		}
		return projectsLoadedMsg{projects: projects}
	}
}

// loadProject loads a project's items through the GitHub source.
func (m AppModel) loadProject(p domain.Project) tea.Cmd {
	src := &source.GitHubSource{Client: m.opts.Client, ProjectID: p.ID}
	return m.loadItems(src, fmt.Sprintf("%s/%d - %s", p.Owner, p.Number, p.Title))
}

// loadItems runs a loader in the background.
func (m AppModel) loadItems(l source.Loader, title string) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		items, err := l.Load(ctx)
		if err != nil {
			return ErrorMsg{Err: fmt.Errorf("failed to load items: %w", err)}
		}
		return itemsLoadedMsg{title: title, items: items}
	}
}
