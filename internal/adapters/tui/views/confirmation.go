package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"unsort/internal/adapters/tui/styles"
	"unsort/internal/domain"
)

// ConfirmKeyMap defines key bindings for confirmation prompts
type ConfirmKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

// DefaultConfirmKeys returns the default confirmation key bindings
var DefaultConfirmKeys = ConfirmKeyMap{
	Confirm: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "confirm"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("n", "esc"),
		key.WithHelp("n/esc", "cancel"),
	),
}

// Confirmation is an inline yes/no prompt about one cluster
type Confirmation struct {
	Action  string
	Target  *domain.Cluster
	Keys    ConfirmKeyMap
	confirm func() tea.Cmd
}

// Ask arms the prompt. onConfirm runs when the user answers yes.
func (c *Confirmation) Ask(action string, target domain.Cluster, onConfirm func() tea.Cmd) {
	c.Action = action
	c.Target = &target
	c.Keys = DefaultConfirmKeys
	c.confirm = onConfirm
}

// Active reports whether the prompt is waiting for an answer
func (c *Confirmation) Active() bool {
	return c.Target != nil
}

// HandleKeyMsg processes key messages while the prompt is active.
// Returns (handled, cmd) where handled is true if the key was consumed.
func (c *Confirmation) HandleKeyMsg(msg tea.KeyMsg) (bool, tea.Cmd) {
	if !c.Active() {
		return false, nil
	}
	switch {
	case key.Matches(msg, c.Keys.Confirm):
		cmd := c.confirm()
		c.reset()
		return true, cmd
	case key.Matches(msg, c.Keys.Cancel):
		c.reset()
		return true, nil
	}
	// Swallow everything else until answered
	return true, nil
}

func (c *Confirmation) reset() {
	c.Action = ""
	c.Target = nil
	c.confirm = nil
}

// View renders the prompt
func (c *Confirmation) View() string {
	if !c.Active() {
		return ""
	}
	var b strings.Builder
	b.WriteString(styles.InputLabel.Render(c.Action + " " + c.Target.Section().Title() + ":"))
	b.WriteString(" ")
	b.WriteString(c.Target.Name)
	b.WriteString("\n")
	b.WriteString(RenderConfirmPrompt(c.Action + "?"))
	return b.String()
}

// RenderConfirmPrompt renders the standard confirmation prompt
func RenderConfirmPrompt(question string) string {
	var b strings.Builder
	b.WriteString(question)
	b.WriteString(" ")
	b.WriteString(styles.HelpKey.Render("y"))
	b.WriteString(styles.HelpDesc.Render(" to confirm, "))
	b.WriteString(styles.HelpKey.Render("n"))
	b.WriteString(styles.HelpDesc.Render(" to cancel"))
	return b.String()
}
