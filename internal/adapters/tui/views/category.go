package views

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"unsort/internal/application/commands"
)

type categoryCreatedMsg struct {
	message string
}

// CategoryModel is the form for declaring a user category
type CategoryModel struct {
	ViewState
	deps Deps
	form *InputForm
}

// NewCategoryModel creates a new category form
func NewCategoryModel(deps Deps) *CategoryModel {
	return &CategoryModel{
		deps: deps,
		form: NewInputForm(
			NewInputField("Name", "e.g. Reading", 60),
			NewInputField("Description", "optional", 200),
		),
	}
}

// Init starts the cursor blink
func (m *CategoryModel) Init() tea.Cmd {
	return m.form.Init()
}

// Update handles messages for the category form
func (m *CategoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case categoryCreatedMsg:
		message := msg.message
		return m, func() tea.Msg { return SwitchToClustersMsg{Message: message} }

	case errMsg:
		m.SetMessage(msg.err.Error(), true)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.form.Keys.Cancel):
			return m, func() tea.Msg { return SwitchToClustersMsg{} }
		case key.Matches(msg, m.form.Keys.Submit):
			return m, m.create()
		}
	}

	_, cmd := m.form.Update(msg)
	return m, cmd
}

func (m *CategoryModel) create() tea.Cmd {
	cmd := commands.NewCreateCategoryCommand(m.deps.Workspace, m.form.Value(0), m.form.Value(1))
	if err := cmd.Validate(); err != nil {
		m.SetMessage(err.Error(), true)
		return nil
	}
	return func() tea.Msg {
		result, err := cmd.Execute(context.Background())
		if err != nil {
			return errMsg{err}
		}
		return categoryCreatedMsg{result.Message}
	}
}

// View renders the form
func (m *CategoryModel) View() string {
	return NewViewBuilder().
		Title("New category").
		Subtitle("Notes tagged with it appear under Manual").
		Line(m.form.RenderField(0)).
		BlankLine().
		Line(m.form.RenderField(1)).
		BlankLine().
		Message(m.Message, m.MessageErr).
		Raw(m.form.RenderHelp("create")).
		String()
}
