package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"unsort/internal/adapters/tui/styles"
	"unsort/internal/application/commands"
	"unsort/internal/domain"
)

// ClustersKeyMap defines key bindings for the cluster list
type ClustersKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Open     key.Binding
	Hide     key.Binding
	MoveUp   key.Binding
	MoveDown key.Binding
	Sync     key.Binding
	New      key.Binding
	Category key.Binding
	Help     key.Binding
	Quit     key.Binding
}

var ClustersKeys = ClustersKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Open: key.NewBinding(
		key.WithKeys("enter", "l", "right"),
		key.WithHelp("enter", "open"),
	),
	Hide: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "hide"),
	),
	MoveUp: key.NewBinding(
		key.WithKeys("K"),
		key.WithHelp("K", "move up"),
	),
	MoveDown: key.NewBinding(
		key.WithKeys("J"),
		key.WithHelp("J", "move down"),
	),
	Sync: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "sync"),
	),
	New: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "new note"),
	),
	Category: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "new category"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// clusterRow is one selectable line of the list
type clusterRow struct {
	summary commands.ClusterSummary
	section domain.Section
	index   int // position within its section
	size    int // rows in its section
}

type clustersLoadedMsg struct {
	result   *commands.ListClustersResult
	selectID string
}

type syncDoneMsg struct {
	result *commands.SyncResult
	err    error
}

type clustersChangedMsg struct {
	message  string
	selectID string
}

// ClustersModel is the model for the sectioned cluster list
type ClustersModel struct {
	ViewState
	deps    Deps
	rows    []clusterRow
	cursor  int
	loaded  bool
	syncing bool
	spinner spinner.Model
	confirm Confirmation
}

// NewClustersModel creates a new cluster list model
func NewClustersModel(deps Deps) *ClustersModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.Spinner

	return &ClustersModel{
		deps:    deps,
		spinner: s,
	}
}

// Init loads the cluster list
func (m *ClustersModel) Init() tea.Cmd {
	return m.Reload()
}

// Reload re-reads the cluster list from the workspace
func (m *ClustersModel) Reload() tea.Cmd {
	return m.reloadSelecting("")
}

// reloadSelecting re-reads the list and puts the cursor on the cluster with
// id, when given and still visible
func (m *ClustersModel) reloadSelecting(id string) tea.Cmd {
	ws := m.deps.Workspace
	return func() tea.Msg {
		result, err := commands.NewListClustersCommand(ws, "").Execute(context.Background())
		if err != nil {
			return errMsg{err}
		}
		return clustersLoadedMsg{result: result, selectID: id}
	}
}

// Update handles messages for the cluster list
func (m *ClustersModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case clustersLoadedMsg:
		m.setRows(msg.result)
		if msg.selectID != "" {
			m.selectID(msg.selectID)
		}
		return m, nil

	case clustersChangedMsg:
		m.SetMessage(msg.message, false)
		return m, m.reloadSelecting(msg.selectID)

	case syncDoneMsg:
		m.syncing = false
		if msg.err != nil {
			m.SetMessage(msg.err.Error(), true)
		} else {
			m.SetMessage(msg.result.Message, false)
		}
		return m, m.Reload()

	case errMsg:
		m.SetMessage(msg.err.Error(), true)
		return m, nil

	case spinner.TickMsg:
		if m.syncing {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		if handled, cmd := m.confirm.HandleKeyMsg(msg); handled {
			return m, cmd
		}
		return m, m.handleKey(msg)
	}

	return m, nil
}

func (m *ClustersModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	m.ClearMessage()

	switch {
	case key.Matches(msg, ClustersKeys.Quit):
		return tea.Quit

	case key.Matches(msg, ClustersKeys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, ClustersKeys.Down):
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}

	case key.Matches(msg, ClustersKeys.Open):
		if row, ok := m.selected(); ok {
			id := row.summary.Cluster.ID()
			return func() tea.Msg { return SwitchToClusterMsg{ClusterID: id} }
		}

	case key.Matches(msg, ClustersKeys.Hide):
		if row, ok := m.selected(); ok {
			m.confirm.Ask("Hide", row.summary.Cluster, func() tea.Cmd {
				return m.hide(row.summary.Cluster.ID())
			})
		}

	case key.Matches(msg, ClustersKeys.MoveUp):
		if row, ok := m.selected(); ok && row.index > 0 {
			return m.move(row, row.index-1)
		}

	case key.Matches(msg, ClustersKeys.MoveDown):
		if row, ok := m.selected(); ok && row.index < row.size-1 {
			// Insertion index counts the row itself
			return m.move(row, row.index+2)
		}

	case key.Matches(msg, ClustersKeys.Sync):
		if m.syncing {
			return nil
		}
		m.syncing = true
		return tea.Batch(m.spinner.Tick, m.sync())

	case key.Matches(msg, ClustersKeys.New):
		return func() tea.Msg { return SwitchToWriteMsg{} }

	case key.Matches(msg, ClustersKeys.Category):
		return func() tea.Msg { return SwitchToCategoryMsg{} }

	case key.Matches(msg, ClustersKeys.Help):
		return func() tea.Msg { return SwitchToHelpMsg{} }
	}
	return nil
}

func (m *ClustersModel) hide(id string) tea.Cmd {
	return func() tea.Msg {
		result, err := commands.NewHideClusterCommand(m.deps.Workspace, id).Execute(context.Background())
		if err != nil {
			return errMsg{err}
		}
		return clustersChangedMsg{message: result.Message}
	}
}

func (m *ClustersModel) move(row clusterRow, to int) tea.Cmd {
	id := row.summary.Cluster.ID()
	return func() tea.Msg {
		cmd := commands.NewMoveClusterCommand(m.deps.Workspace, string(row.section), []int{row.index}, to)
		if _, err := cmd.Execute(context.Background()); err != nil {
			return errMsg{err}
		}
		return clustersChangedMsg{selectID: id}
	}
}

func (m *ClustersModel) sync() tea.Cmd {
	localOnly := !m.deps.Workspace.Online()
	return func() tea.Msg {
		result, err := commands.NewSyncCommand(m.deps.Workspace, localOnly).Execute(context.Background())
		if err != nil && m.deps.Logger != nil {
			m.deps.Logger.Warn("sync failed", "err", err)
		}
		return syncDoneMsg{result: result, err: err}
	}
}

func (m *ClustersModel) setRows(result *commands.ListClustersResult) {
	m.loaded = true
	m.rows = m.rows[:0]
	for _, group := range result.Sections {
		for i, summary := range group.Clusters {
			m.rows = append(m.rows, clusterRow{summary: summary, section: group.Section, index: i, size: len(group.Clusters)})
		}
	}
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *ClustersModel) selectID(id string) {
	for i, row := range m.rows {
		if row.summary.Cluster.ID() == id {
			m.cursor = i
			return
		}
	}
}

func (m *ClustersModel) selected() (clusterRow, bool) {
	if m.cursor >= 0 && m.cursor < len(m.rows) {
		return m.rows[m.cursor], true
	}
	return clusterRow{}, false
}

// SelectedID returns the id of the cluster under the cursor
func (m *ClustersModel) SelectedID() string {
	if row, ok := m.selected(); ok {
		return row.summary.Cluster.ID()
	}
	return ""
}

// View renders the cluster list
func (m *ClustersModel) View() string {
	if !m.loaded {
		return "Loading..."
	}

	v := NewViewBuilder().Title("unsort")
	if m.deps.Workspace.Online() {
		v.Subtitle(fmt.Sprintf("%d notes • memory service connected", len(m.deps.Workspace.Notes())))
	} else {
		v.Subtitle(fmt.Sprintf("%d notes • offline", len(m.deps.Workspace.Notes())))
	}

	if len(m.rows) == 0 {
		v.Muted("No clusters yet. Press n to write a note.").BlankLine()
	}

	start, end := listWindow(len(m.rows), m.cursor, m.listHeight())
	var section domain.Section
	for i := start; i < end; i++ {
		row := m.rows[i]
		if row.section != section || i == start {
			if i != start {
				v.BlankLine()
			}
			v.Section(row.section)
			section = row.section
		}
		v.Line(m.renderRow(row, i == m.cursor))
	}
	v.BlankLine()

	if m.confirm.Active() {
		v.Line(m.confirm.View()).BlankLine()
	}
	if m.syncing {
		v.Line(m.spinner.View() + " Syncing...").BlankLine()
	}
	v.Message(m.Message, m.MessageErr)

	v.Help(ClustersKeys.Open, ClustersKeys.New, ClustersKeys.Hide, ClustersKeys.MoveUp,
		ClustersKeys.MoveDown, ClustersKeys.Sync, ClustersKeys.Help, ClustersKeys.Quit)
	return v.String()
}

func (m *ClustersModel) renderRow(row clusterRow, selected bool) string {
	c := row.summary.Cluster
	var b strings.Builder
	b.WriteString(c.Name)
	if c.Description != "" {
		b.WriteString("  ")
		b.WriteString(styles.MutedText.Render(domain.Snippet(c.Description, 40)))
	}

	line := "  " + b.String()
	if selected {
		line = styles.RowSelected.Render("› " + c.Name)
	}
	return line + " " + RenderCount(row.summary.NoteCount, row.summary.CountKnown)
}

func (m *ClustersModel) listHeight() int {
	// Title, subtitle, help and message take roughly ten lines
	return m.Height - 10 - len(domain.Sections)
}
