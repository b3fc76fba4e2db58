package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"unsort/internal/adapters/tui/styles"
)

// InputFormKeyMap defines key bindings for input forms
type InputFormKeyMap struct {
	Submit key.Binding
	Cancel key.Binding
	Next   key.Binding
	Prev   key.Binding
}

var DefaultInputFormKeys = InputFormKeyMap{
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "submit"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
	Next: key.NewBinding(
		key.WithKeys("tab", "down"),
		key.WithHelp("tab", "next field"),
	),
	Prev: key.NewBinding(
		key.WithKeys("shift+tab", "up"),
		key.WithHelp("shift+tab", "previous field"),
	),
}

// InputField is a labelled text input
type InputField struct {
	Label string
	Input textinput.Model
}

// NewInputField creates an input field. A charLimit of zero keeps the
// textinput default.
func NewInputField(label, placeholder string, charLimit int) InputField {
	input := textinput.New()
	input.Placeholder = placeholder
	if charLimit > 0 {
		input.CharLimit = charLimit
	}
	return InputField{Label: label, Input: input}
}

// InputForm manages several text inputs with one focused at a time
type InputForm struct {
	Fields  []InputField
	Focused int
	Keys    InputFormKeyMap
}

// NewInputForm creates a form focused on its first field
func NewInputForm(fields ...InputField) *InputForm {
	f := &InputForm{Fields: fields, Keys: DefaultInputFormKeys}
	if len(fields) > 0 {
		f.Fields[0].Input.Focus()
	}
	return f
}

func (f *InputForm) Init() tea.Cmd {
	return textinput.Blink
}

// Update moves focus on next/prev keys and forwards everything else to
// the focused input. Returns true when the message only moved focus.
func (f *InputForm) Update(msg tea.Msg) (bool, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, f.Keys.Next):
			f.focus(f.Focused + 1)
			return true, nil
		case key.Matches(msg, f.Keys.Prev):
			f.focus(f.Focused - 1)
			return true, nil
		}
	}

	if f.Focused < 0 || f.Focused >= len(f.Fields) {
		return false, nil
	}
	var cmd tea.Cmd
	f.Fields[f.Focused].Input, cmd = f.Fields[f.Focused].Input.Update(msg)
	return false, cmd
}

// focus moves focus to index, wrapping around both ends
func (f *InputForm) focus(index int) {
	n := len(f.Fields)
	if n <= 1 {
		return
	}
	f.Fields[f.Focused].Input.Blur()
	f.Focused = (index%n + n) % n
	f.Fields[f.Focused].Input.Focus()
}

// Value returns the trimmed value of a field
func (f *InputForm) Value(index int) string {
	if index < 0 || index >= len(f.Fields) {
		return ""
	}
	return strings.TrimSpace(f.Fields[index].Input.Value())
}

// RenderField renders a field with its label, highlighting the focused one
func (f *InputForm) RenderField(index int) string {
	if index < 0 || index >= len(f.Fields) {
		return ""
	}
	field := f.Fields[index]
	style := styles.InputField
	if index == f.Focused {
		style = styles.InputFocused
	}
	return styles.InputLabel.Render(field.Label) + "\n" + style.Render(field.Input.View())
}

// RenderHelp renders the key help for the form
func (f *InputForm) RenderHelp(submitText string) string {
	submit := f.Keys.Submit
	submit.SetHelp(submit.Help().Key, submitText)
	if len(f.Fields) > 1 {
		return RenderHelpLine(f.Keys.Next, submit, f.Keys.Cancel)
	}
	return RenderHelpLine(submit, f.Keys.Cancel)
}
