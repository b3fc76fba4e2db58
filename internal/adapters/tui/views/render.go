package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"unsort/internal/adapters/tui/styles"
	"unsort/internal/domain"
)

// renderKeyHelp formats a key binding as help text (key + description)
func renderKeyHelp(b key.Binding) string {
	help := b.Help()
	return fmt.Sprintf("%s %s",
		styles.HelpKey.Render(help.Key),
		styles.HelpDesc.Render(help.Desc),
	)
}

// RenderHelpLine renders multiple key bindings as a help line separated by bullets
func RenderHelpLine(bindings ...key.Binding) string {
	var parts []string
	for _, b := range bindings {
		parts = append(parts, renderKeyHelp(b))
	}
	return strings.Join(parts, styles.HelpSeparator.String())
}

// RenderCount renders a note or duplicate count; unknown counts render as "?"
func RenderCount(n int, known bool) string {
	if !known {
		return styles.Count.Render("(?)")
	}
	return styles.Count.Render(fmt.Sprintf("(%d)", n))
}

// ViewBuilder helps construct view output with consistent formatting
type ViewBuilder struct {
	b strings.Builder
}

// NewViewBuilder creates a new view builder
func NewViewBuilder() *ViewBuilder {
	return &ViewBuilder{}
}

// Title adds a title section
func (v *ViewBuilder) Title(title string) *ViewBuilder {
	v.b.WriteString(styles.Title.Render(title))
	v.b.WriteString("\n\n")
	return v
}

// Subtitle adds a subtitle section
func (v *ViewBuilder) Subtitle(subtitle string) *ViewBuilder {
	v.b.WriteString(styles.Subtitle.Render(subtitle))
	v.b.WriteString("\n\n")
	return v
}

// Section adds a colored section heading
func (v *ViewBuilder) Section(section domain.Section) *ViewBuilder {
	v.b.WriteString(styles.SectionHeader(section))
	v.b.WriteString("\n")
	return v
}

// Summary adds a quoted summary block if non-empty
func (v *ViewBuilder) Summary(text string, width int) *ViewBuilder {
	if text == "" {
		return v
	}
	style := styles.Summary
	if width > 8 {
		style = style.Width(width - 8)
	}
	v.b.WriteString(style.Render(text))
	v.b.WriteString("\n\n")
	return v
}

// Line adds a line of text
func (v *ViewBuilder) Line(text string) *ViewBuilder {
	v.b.WriteString(text)
	v.b.WriteString("\n")
	return v
}

// BlankLine adds a blank line
func (v *ViewBuilder) BlankLine() *ViewBuilder {
	v.b.WriteString("\n")
	return v
}

// Muted adds muted text followed by a newline
func (v *ViewBuilder) Muted(text string) *ViewBuilder {
	v.b.WriteString(styles.MutedText.Render(text))
	v.b.WriteString("\n")
	return v
}

// Message adds a message if non-empty, with appropriate error/success styling
func (v *ViewBuilder) Message(message string, isError bool) *ViewBuilder {
	if message == "" {
		return v
	}
	if isError {
		v.b.WriteString(styles.ErrorMsg.Render(message))
	} else {
		v.b.WriteString(styles.Success.Render(message))
	}
	v.b.WriteString("\n\n")
	return v
}

// Help adds a help line with key bindings
func (v *ViewBuilder) Help(bindings ...key.Binding) *ViewBuilder {
	v.b.WriteString(RenderHelpLine(bindings...))
	return v
}

// Raw adds raw text without any formatting
func (v *ViewBuilder) Raw(text string) *ViewBuilder {
	v.b.WriteString(text)
	return v
}

// String returns the built view string wrapped in the app style
func (v *ViewBuilder) String() string {
	return styles.App.Render(v.b.String())
}
