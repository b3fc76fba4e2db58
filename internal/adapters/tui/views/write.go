package views

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"unsort/internal/adapters/tui/styles"
	"unsort/internal/application/commands"
)

// WriteKeyMap defines key bindings for the note editor
type WriteKeyMap struct {
	Submit key.Binding
	Cancel key.Binding
}

var WriteKeys = WriteKeyMap{
	Submit: key.NewBinding(
		key.WithKeys("ctrl+s"),
		key.WithHelp("ctrl+s", "save"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
}

type noteSubmittedMsg struct {
	message string
	failed  bool
}

// WriteModel is a free-form editor for a new note
type WriteModel struct {
	ViewState
	deps       Deps
	textarea   textarea.Model
	submitting bool
	spinner    spinner.Model
}

// NewWriteModel creates a new note editor
func NewWriteModel(deps Deps) *WriteModel {
	ta := textarea.New()
	ta.Placeholder = "What's on your mind?"
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.Spinner

	return &WriteModel{
		deps:     deps,
		textarea: ta,
		spinner:  s,
	}
}

// Init starts the cursor blink
func (m *WriteModel) Init() tea.Cmd {
	return textarea.Blink
}

// Update handles messages for the editor
func (m *WriteModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		m.textarea.SetWidth(max(20, msg.Width-6))
		m.textarea.SetHeight(max(3, msg.Height-12))
		return m, nil

	case noteSubmittedMsg:
		m.submitting = false
		if msg.failed {
			m.SetMessage(msg.message, true)
			return m, nil
		}
		message := msg.message
		return m, func() tea.Msg { return SwitchToClustersMsg{Message: message} }

	case spinner.TickMsg:
		if m.submitting {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}
		switch {
		case key.Matches(msg, WriteKeys.Cancel):
			return m, func() tea.Msg { return SwitchToClustersMsg{} }
		case key.Matches(msg, WriteKeys.Submit):
			return m, m.submit()
		}
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

func (m *WriteModel) submit() tea.Cmd {
	text := m.textarea.Value()
	if strings.TrimSpace(text) == "" {
		m.SetMessage("Note is empty", true)
		return nil
	}

	m.ClearMessage()
	m.submitting = true
	submit := func() tea.Msg {
		result, err := commands.NewSubmitNoteCommand(m.deps.Workspace, text).Execute(context.Background())
		if result == nil {
			return noteSubmittedMsg{message: err.Error(), failed: true}
		}
		if err != nil && m.deps.Logger != nil {
			m.deps.Logger.Warn("note saved with memory service errors", "note", result.Submission.Note.ID, "err", err)
		}
		return noteSubmittedMsg{message: result.Message}
	}
	return tea.Batch(m.spinner.Tick, submit)
}

// Value returns the current editor text
func (m *WriteModel) Value() string {
	return m.textarea.Value()
}

// View renders the editor
func (m *WriteModel) View() string {
	v := NewViewBuilder().Title("New note")
	if m.deps.Workspace.Online() {
		v.Subtitle("Saved locally and sent to the memory service")
	} else {
		v.Subtitle("Offline: saved locally only")
	}

	v.Line(m.textarea.View()).BlankLine()
	if m.submitting {
		v.Line(m.spinner.View() + " Saving...").BlankLine()
	}
	return v.Message(m.Message, m.MessageErr).
		Help(WriteKeys.Submit, WriteKeys.Cancel).
		String()
}
