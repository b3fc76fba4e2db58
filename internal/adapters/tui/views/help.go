package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"unsort/internal/adapters/tui/styles"
	"unsort/internal/domain"
)

// HelpKeyMap defines key bindings for the help view
type HelpKeyMap struct {
	Close key.Binding
}

var HelpKeys = HelpKeyMap{
	Close: key.NewBinding(
		key.WithKeys("esc", "q", "?"),
		key.WithHelp("esc/q/?", "close"),
	),
}

// HelpModel is the model for the help view
type HelpModel struct {
	ViewState
}

// NewHelpModel creates a new help view model
func NewHelpModel() *HelpModel {
	return &HelpModel{}
}

func (m *HelpModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the help view
func (m *HelpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
	case tea.KeyMsg:
		if key.Matches(msg, HelpKeys.Close) {
			return m, func() tea.Msg { return SwitchToClustersMsg{} }
		}
	}
	return m, nil
}

var sectionHelp = map[domain.Section]string{
	domain.SectionPeople: "people mentioned in your notes",
	domain.SectionLocal:  "topics detected from keywords",
	domain.SectionManual: "categories you created",
	domain.SectionRemote: "categories found by the memory service",
	domain.SectionOther:  "everything else",
}

// View renders the help view
func (m *HelpModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("unsort help"))
	b.WriteString("\n\n")
	b.WriteString(styles.Subtitle.Render("Notes grouped into clusters, duplicates folded together"))
	b.WriteString("\n\n")

	b.WriteString(styles.InputLabel.Render("Clusters"))
	b.WriteString("\n")
	b.WriteString(helpLine("j / k / ↑ / ↓", "Move up/down"))
	b.WriteString(helpLine("Enter", "Open cluster"))
	b.WriteString(helpLine("J / K", "Move cluster down/up in its section"))
	b.WriteString(helpLine("x", "Hide cluster"))
	b.WriteString(helpLine("r", "Sync with the memory service"))
	b.WriteString(helpLine("n", "Write a note"))
	b.WriteString(helpLine("c", "Create a category"))
	b.WriteString("\n")

	b.WriteString(styles.InputLabel.Render("Opened cluster"))
	b.WriteString("\n")
	b.WriteString(helpLine("J / K", "Move item down/up"))
	b.WriteString(helpLine("x", "Hide item"))
	b.WriteString(helpLine("y", "Copy item to clipboard"))
	b.WriteString(helpLine("v", "Toggle raw retrieved items"))
	b.WriteString(helpLine("Esc", "Back"))
	b.WriteString("\n")

	b.WriteString(styles.InputLabel.Render("Sections"))
	b.WriteString("\n")
	for _, section := range domain.Sections {
		b.WriteString("  " + styles.SectionHeader(section))
		b.WriteString(styles.MutedText.Render(padRight("", 10-len(section.Title())) + sectionHelp[section]))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(styles.HelpDesc.Render("Press "))
	b.WriteString(styles.HelpKey.Render("esc"))
	b.WriteString(styles.HelpDesc.Render(" or "))
	b.WriteString(styles.HelpKey.Render("?"))
	b.WriteString(styles.HelpDesc.Render(" to close"))

	return styles.App.Render(b.String())
}

func helpLine(key, desc string) string {
	return "  " + styles.HelpKey.Render(padRight(key, 20)) + styles.HelpDesc.Render(desc) + "\n"
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}
