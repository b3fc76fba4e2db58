package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"unsort/internal/adapters/tui/views"
	"unsort/internal/application"
)

// ViewState represents the current view
type ViewState int

const (
	ViewClusters ViewState = iota
	ViewCluster
	ViewWrite
	ViewCategory
	ViewHelp
)

// App is the main TUI application model
type App struct {
	deps views.Deps

	state    ViewState
	clusters *views.ClustersModel
	cluster  *views.ClusterModel
	write    *views.WriteModel
	category *views.CategoryModel
	help     *views.HelpModel

	width  int
	height int
}

// NewApp creates a new TUI application over a loaded workspace
func NewApp(ws *application.Workspace, logger *log.Logger) *App {
	deps := views.Deps{Workspace: ws, Logger: logger}
	return &App{
		deps:     deps,
		state:    ViewClusters,
		clusters: views.NewClustersModel(deps),
		help:     views.NewHelpModel(),
	}
}

// Init initializes the application
func (a *App) Init() tea.Cmd {
	return a.clusters.Init()
}

// State returns the view currently shown
func (a *App) State() ViewState {
	return a.state
}

// Update handles messages for the application
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.clusters.SetSize(msg.Width, msg.Height)
		a.help.SetSize(msg.Width, msg.Height)
		if a.cluster != nil {
			a.cluster.SetSize(msg.Width, msg.Height)
		}
		if a.write != nil {
			a.write.Update(msg)
		}
		if a.category != nil {
			a.category.SetSize(msg.Width, msg.Height)
		}
		return a, nil

	case views.SwitchToClustersMsg:
		a.state = ViewClusters
		a.cluster, a.write, a.category = nil, nil, nil
		a.clusters.ClearMessage()
		if msg.Message != "" {
			a.clusters.SetMessage(msg.Message, false)
		}
		return a, a.clusters.Reload()

	case views.SwitchToClusterMsg:
		a.state = ViewCluster
		a.cluster = views.NewClusterModel(a.deps, msg.ClusterID)
		a.cluster.SetSize(a.width, a.height)
		return a, a.cluster.Init()

	case views.SwitchToWriteMsg:
		a.state = ViewWrite
		a.write = views.NewWriteModel(a.deps)
		a.write.Update(tea.WindowSizeMsg{Width: a.width, Height: a.height})
		return a, a.write.Init()

	case views.SwitchToCategoryMsg:
		a.state = ViewCategory
		a.category = views.NewCategoryModel(a.deps)
		a.category.SetSize(a.width, a.height)
		return a, a.category.Init()

	case views.SwitchToHelpMsg:
		a.state = ViewHelp
		return a, nil
	}

	// Delegate to current view
	var cmd tea.Cmd
	switch a.state {
	case ViewClusters:
		_, cmd = a.clusters.Update(msg)
	case ViewCluster:
		_, cmd = a.cluster.Update(msg)
	case ViewWrite:
		_, cmd = a.write.Update(msg)
	case ViewCategory:
		_, cmd = a.category.Update(msg)
	case ViewHelp:
		_, cmd = a.help.Update(msg)
	}

	return a, cmd
}

// View renders the current view
func (a *App) View() string {
	switch a.state {
	case ViewCluster:
		return a.cluster.View()
	case ViewWrite:
		return a.write.View()
	case ViewCategory:
		return a.category.View()
	case ViewHelp:
		return a.help.View()
	default:
		return a.clusters.View()
	}
}
