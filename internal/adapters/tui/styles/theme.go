package styles

import (
	"github.com/charmbracelet/lipgloss"

	"unsort/internal/domain"
)

var (
	// Colors
	Primary   = lipgloss.Color("#7C3AED") // Purple
	Secondary = lipgloss.Color("#10B981") // Green
	Muted     = lipgloss.Color("#6B7280") // Gray
	Warning   = lipgloss.Color("#F59E0B") // Amber
	Error     = lipgloss.Color("#EF4444") // Red
	White     = lipgloss.Color("#FFFFFF")
	Black     = lipgloss.Color("#000000")

	// Section colors
	SectionPeople = lipgloss.Color("#EC4899") // Pink
	SectionLocal  = lipgloss.Color("#60A5FA") // Blue
	SectionManual = lipgloss.Color("#10B981") // Green
	SectionRemote = lipgloss.Color("#8B5CF6") // Violet
	SectionOther  = lipgloss.Color("#6B7280") // Gray

	// Base styles
	App = lipgloss.NewStyle().
		Padding(1, 2)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		MarginBottom(1)

	Subtitle = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true)

	// List rows
	Row = lipgloss.NewStyle()

	RowSelected = lipgloss.NewStyle().
			Background(Primary).
			Foreground(White).
			Bold(true)

	Count = lipgloss.NewStyle().
		Foreground(Muted)

	ItemType = lipgloss.NewStyle().
			Foreground(Warning)

	Summary = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#D1D5DB")).
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(Primary).
		PaddingLeft(1)

	// Status bar
	StatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("#1F2937")).
			Foreground(White).
			Padding(0, 1)

	StatusText = lipgloss.NewStyle().
			Foreground(Muted)

	// Input styles
	InputLabel = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	InputField = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(0, 1)

	InputFocused = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Secondary).
			Padding(0, 1)

	// Help styles
	HelpKey = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true)

	HelpDesc = lipgloss.NewStyle().
			Foreground(Muted)

	HelpSeparator = lipgloss.NewStyle().
			Foreground(Muted).
			SetString(" • ")

	// Message styles
	Success = lipgloss.NewStyle().
		Foreground(Secondary).
		Bold(true)

	ErrorMsg = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	Spinner = lipgloss.NewStyle().
		Foreground(Primary)

	// Muted text style (for using Muted color as a style)
	MutedText = lipgloss.NewStyle().
			Foreground(Muted)
)

// SectionColor returns the accent color of a cluster section
func SectionColor(section domain.Section) lipgloss.Color {
	switch section {
	case domain.SectionPeople:
		return SectionPeople
	case domain.SectionLocal:
		return SectionLocal
	case domain.SectionManual:
		return SectionManual
	case domain.SectionRemote:
		return SectionRemote
	case domain.SectionOther:
		return SectionOther
	default:
		return Primary
	}
}

// SectionHeader renders the heading of a section in its color
func SectionHeader(section domain.Section) string {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(SectionColor(section)).
		Render(section.Title())
}
