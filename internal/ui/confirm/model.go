package confirm

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// ResultMsg is dispatched when the user answers the prompt. Confirmed
// is false when the prompt was declined or aborted.
type ResultMsg struct {
	Confirmed bool
}

// binding holds the answer on the heap so that huh's Value() pointer
// remains valid across Bubble Tea model copies.
type binding struct {
	value bool
}

// Model is a yes/no prompt embedded in the application.
type Model struct {
	form   *huh.Form
	answer *binding
	width  int
	height int
}

// New creates a confirmation prompt model.
func New(width, height int) Model {
	return Model{
		answer: &binding{},
		width:  width,
		height: height,
	}
}

// Start shows the prompt with the given title and description.
func (m *Model) Start(title, description string) tea.Cmd {
	m.answer.value = false
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Affirmative("Yes").
				Negative("No").
				Value(&m.answer.value),
		),
	).WithWidth(m.formWidth()).WithShowHelp(false)
	return m.form.Init()
}

// Active reports whether a prompt is open.
func (m Model) Active() bool {
	return m.form != nil
}

// Update handles messages for the prompt.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		confirmed := m.answer.value
		m.form = nil
		return m, func() tea.Msg { return ResultMsg{Confirmed: confirmed} }
	case huh.StateAborted:
		m.form = nil
		return m, func() tea.Msg { return ResultMsg{} }
	}

	return m, cmd
}

// View renders the prompt.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}
	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(m.form.View())
}

// SetSize updates the prompt dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 30 {
		w = 30
	}
	if w > 70 {
		w = 70
	}
	return w
}
