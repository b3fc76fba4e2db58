package views

import (
	"context"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"unsort/internal/adapters/tui/styles"
	"unsort/internal/application"
	"unsort/internal/application/commands"
)

// ClusterKeyMap defines key bindings for an opened cluster
type ClusterKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Raw      key.Binding
	Hide     key.Binding
	MoveUp   key.Binding
	MoveDown key.Binding
	Copy     key.Binding
	Back     key.Binding
}

var ClusterKeys = ClusterKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Raw: key.NewBinding(
		key.WithKeys("v"),
		key.WithHelp("v", "raw items"),
	),
	Hide: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "hide item"),
	),
	MoveUp: key.NewBinding(
		key.WithKeys("K"),
		key.WithHelp("K", "move up"),
	),
	MoveDown: key.NewBinding(
		key.WithKeys("J"),
		key.WithHelp("J", "move down"),
	),
	Copy: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc", "h", "left", "q"),
		key.WithHelp("esc", "back"),
	),
}

type clusterOpenedMsg struct {
	result *commands.OpenClusterResult
}

type itemsChangedMsg struct {
	message string
}

// ClusterModel shows the notes and memory items of one cluster
type ClusterModel struct {
	ViewState
	deps      Deps
	clusterID string
	view      *application.ClusterView
	cursor    int
	raw       bool
	loading   bool
	spinner   spinner.Model
	copy      func(string) error
}

// NewClusterModel creates a model for the cluster with the given id
func NewClusterModel(deps Deps, clusterID string) *ClusterModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.Spinner

	return &ClusterModel{
		deps:      deps,
		clusterID: clusterID,
		loading:   true,
		spinner:   s,
		copy:      clipboard.WriteAll,
	}
}

// Init starts loading the cluster
func (m *ClusterModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.open())
}

func (m *ClusterModel) open() tea.Cmd {
	id := m.clusterID
	return func() tea.Msg {
		result, err := commands.NewOpenClusterCommand(m.deps.Workspace, id).Execute(context.Background())
		if err != nil {
			return errMsg{err}
		}
		return clusterOpenedMsg{result}
	}
}

// Update handles messages for the cluster view
func (m *ClusterModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case clusterOpenedMsg:
		m.loading = false
		if !msg.result.Found {
			return m, func() tea.Msg { return SwitchToClustersMsg{Message: msg.result.Message} }
		}
		m.view = msg.result.View
		if m.view.RetrieveErr != nil {
			m.SetMessage("memory service: "+m.view.RetrieveErr.Error(), true)
		}
		m.clampCursor()
		return m, nil

	case itemsChangedMsg:
		if msg.message != "" {
			m.SetMessage(msg.message, false)
		}
		return m, m.open()

	case errMsg:
		m.loading = false
		m.SetMessage(msg.err.Error(), true)
		return m, nil

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *ClusterModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, ClusterKeys.Back) {
		return func() tea.Msg { return SwitchToClustersMsg{} }
	}
	if m.view == nil {
		return nil
	}
	m.ClearMessage()

	switch {
	case key.Matches(msg, ClusterKeys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, ClusterKeys.Down):
		if m.cursor < m.rowCount()-1 {
			m.cursor++
		}

	case key.Matches(msg, ClusterKeys.Raw):
		m.raw = !m.raw
		m.cursor = 0

	case key.Matches(msg, ClusterKeys.Hide):
		if item, ok := m.selectedItem(); ok {
			return m.hideItem(item.ID)
		}

	case key.Matches(msg, ClusterKeys.MoveUp):
		if _, ok := m.selectedItem(); ok && m.cursor > 0 {
			m.cursor--
			return m.moveItem(m.cursor+1, m.cursor)
		}

	case key.Matches(msg, ClusterKeys.MoveDown):
		if _, ok := m.selectedItem(); ok && m.cursor < len(m.view.Items)-1 {
			m.cursor++
			return m.moveItem(m.cursor-1, m.cursor+1)
		}

	case key.Matches(msg, ClusterKeys.Copy):
		text, ok := m.selectedText()
		if !ok {
			return nil
		}
		if err := m.copy(text); err != nil {
			m.SetMessage("copy failed: "+err.Error(), true)
		} else {
			m.SetMessage("Copied to clipboard", false)
		}
	}
	return nil
}

func (m *ClusterModel) hideItem(itemID string) tea.Cmd {
	clusterID := m.clusterID
	return func() tea.Msg {
		result, err := commands.NewHideItemCommand(m.deps.Workspace, clusterID, itemID).Execute(context.Background())
		if err != nil {
			return errMsg{err}
		}
		return itemsChangedMsg{result.Message}
	}
}

// moveItem reorders the visible items and persists the new order
func (m *ClusterModel) moveItem(from, to int) tea.Cmd {
	ids := make([]string, len(m.view.Items))
	for i, item := range m.view.Items {
		ids[i] = item.ID
	}
	order := application.MoveIDs(ids, []int{from}, to)
	clusterID := m.clusterID
	return func() tea.Msg {
		if _, err := commands.NewOrderItemsCommand(m.deps.Workspace, clusterID, order).Execute(context.Background()); err != nil {
			return errMsg{err}
		}
		return itemsChangedMsg{}
	}
}

func (m *ClusterModel) rowCount() int {
	if m.view == nil {
		return 0
	}
	if m.raw {
		return len(m.view.RawItems)
	}
	return len(m.view.Items)
}

func (m *ClusterModel) clampCursor() {
	if n := m.rowCount(); m.cursor >= n {
		m.cursor = max(0, n-1)
	}
}

func (m *ClusterModel) selectedItem() (application.AggregatedItem, bool) {
	if m.raw || m.view == nil || m.cursor >= len(m.view.Items) {
		return application.AggregatedItem{}, false
	}
	return m.view.Items[m.cursor], true
}

func (m *ClusterModel) selectedText() (string, bool) {
	if m.view == nil {
		return "", false
	}
	if m.raw {
		if m.cursor < len(m.view.RawItems) {
			return m.view.RawItems[m.cursor].Content, true
		}
		return "", false
	}
	if item, ok := m.selectedItem(); ok {
		return item.Content, true
	}
	return "", false
}

// View renders the cluster
func (m *ClusterModel) View() string {
	if m.view == nil {
		v := NewViewBuilder().Title(m.clusterID)
		if m.loading {
			v.Line(m.spinner.View() + " Loading...")
		}
		return v.Message(m.Message, m.MessageErr).Help(ClusterKeys.Back).String()
	}

	c := m.view.Cluster
	v := NewViewBuilder().Title(c.Name)
	if c.Description != "" {
		v.Subtitle(c.Description)
	}
	v.Section(c.Section()).BlankLine()
	v.Summary(m.view.Summary, m.Width)

	if len(m.view.Notes) > 0 {
		v.Line(styles.InputLabel.Render(fmt.Sprintf("Notes (%d)", len(m.view.Notes))))
		for _, note := range m.view.Notes {
			v.Line("  " + styles.MutedText.Render(note.CreatedAt.Format("2006-01-02")) + "  " + application.Snippet(note.Text, 60))
		}
		v.BlankLine()
	}

	if m.raw {
		m.renderRaw(v)
	} else {
		m.renderItems(v)
	}

	v.Message(m.Message, m.MessageErr)
	if m.raw {
		v.Help(ClusterKeys.Up, ClusterKeys.Down, ClusterKeys.Copy, ClusterKeys.Raw, ClusterKeys.Back)
	} else {
		v.Help(ClusterKeys.Up, ClusterKeys.Down, ClusterKeys.Hide, ClusterKeys.MoveUp,
			ClusterKeys.MoveDown, ClusterKeys.Copy, ClusterKeys.Raw, ClusterKeys.Back)
	}
	return v.String()
}

func (m *ClusterModel) renderItems(v *ViewBuilder) {
	items := m.view.Items
	v.Line(styles.InputLabel.Render(fmt.Sprintf("Memory (%d)", len(items))))
	if len(items) == 0 {
		if m.deps.Workspace.Online() {
			v.Muted("  Nothing retrieved for this cluster.")
		} else {
			v.Muted("  Offline: memory items are not available.")
		}
		v.BlankLine()
		return
	}

	start, end := listWindow(len(items), m.cursor, m.Height-20)
	for i := start; i < end; i++ {
		item := items[i]
		line := application.BulletLine(item.Content)
		if i == m.cursor {
			line = styles.RowSelected.Render(line)
		}
		if item.Count > 1 {
			line += " " + RenderCount(item.Count, true)
		}
		v.Line(line + " " + styles.ItemType.Render(item.Type))
	}
	v.BlankLine()
}

func (m *ClusterModel) renderRaw(v *ViewBuilder) {
	items := m.view.RawItems
	v.Line(styles.InputLabel.Render(fmt.Sprintf("Raw items (%d)", len(items))))
	start, end := listWindow(len(items), m.cursor, m.Height-20)
	for i := start; i < end; i++ {
		item := items[i]
		line := fmt.Sprintf("%s  %s", styles.ItemType.Render(item.Type), item.Content)
		if i == m.cursor {
			line = styles.RowSelected.Render(item.Type + "  " + item.Content)
		}
		v.Line(line)
	}
	v.BlankLine()
}
