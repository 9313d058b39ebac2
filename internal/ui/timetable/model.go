package timetable

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/campus-pocket/internal/keys"
	"github.com/nhle/campus-pocket/internal/model"
	"github.com/nhle/campus-pocket/internal/theme"
	tt "github.com/nhle/campus-pocket/internal/timetable"
	"github.com/nhle/campus-pocket/internal/timeutil"
)

// CloseMsg is sent when the user leaves the timetable view.
type CloseMsg struct{}

// Model shows the full timetable of one stop in AM and PM columns.
type Model struct {
	keys   *keys.KeyMap
	store  *tt.Store
	stops  []model.Stop
	stop   model.Stop
	width  int
	height int
}

// New creates a new timetable view model.
func New(store *tt.Store, k *keys.KeyMap, width, height int) Model {
	return Model{
		keys:   k,
		store:  store,
		stops:  store.Stops(),
		width:  width,
		height: height,
	}
}

// Show switches the view to stop.
func (m *Model) Show(stop model.Stop) {
	m.stop = stop
}

// Stop returns the stop being shown.
func (m Model) Stop() model.Stop {
	return m.stop
}

// Update handles messages for the timetable view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Back), key.Matches(keyMsg, m.keys.Timetable):
		return m, func() tea.Msg { return CloseMsg{} }

	case key.Matches(keyMsg, m.keys.NextStop):
		for i, s := range m.stops {
			if s == m.stop {
				m.stop = m.stops[(i+1)%len(m.stops)]
				break
			}
		}
	}

	return m, nil
}

// View renders the timetable.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(theme.CardTitleStyle.Render(fmt.Sprintf("%s timetable", m.stop)))
	b.WriteString("\n\n")
	b.WriteString(theme.MutedStyle.Render(fmt.Sprintf("  %-10s %-10s", "AM", "PM")))
	b.WriteString("\n")

	for _, r := range m.store.Rows(m.stop) {
		b.WriteString(fmt.Sprintf("  %-10s %-10s\n", label(r.AM), label(r.PM)))
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

func label(hhmm string) string {
	if hhmm == "" {
		return ""
	}
	s, err := timeutil.FormatTwelveHour(hhmm)
	if err != nil {
		return hhmm
	}
	return s
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
