package board

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/campus-pocket/internal/departure"
	"github.com/nhle/campus-pocket/internal/keys"
	"github.com/nhle/campus-pocket/internal/model"
	"github.com/nhle/campus-pocket/internal/theme"
)

// ToggleMsg is sent when the user toggles the reminder of a departure.
type ToggleMsg struct {
	ID string
}

// TimetableMsg is sent when the user asks for the full timetable of a
// stop.
type TimetableMsg struct {
	Stop model.Stop
}

const bell = "🔔"

// entry is one selectable line of the board.
type entry struct {
	departure model.Departure
	departs   string
}

// Model is the departure board view. The stop cards' departures come
// first in the selection, then the upcoming list.
type Model struct {
	keys    *keys.KeyMap
	board   departure.Board
	entries []entry
	cursor  int
	// selectedID keeps the cursor on the same departure across refreshes.
	selectedID string
	pending    map[string]bool
	width      int
	height     int
}

// New creates a new board view model.
func New(k *keys.KeyMap, width, height int) Model {
	return Model{
		keys:    k,
		pending: make(map[string]bool),
		width:   width,
		height:  height,
	}
}

// SetBoard replaces the rendered board.
func (m *Model) SetBoard(b departure.Board) {
	m.board = b

	m.entries = nil
	for _, c := range b.Cards {
		if c.HasNext {
			m.entries = append(m.entries, entry{departure: c.Next, departs: c.Departs})
		}
	}
	for _, r := range b.Upcoming {
		m.entries = append(m.entries, entry{departure: r.Departure, departs: r.Departs})
	}

	m.cursor = 0
	for i, e := range m.entries {
		if e.departure.ID == m.selectedID {
			m.cursor = i
			break
		}
	}
	m.syncSelected()
}

// SetPending marks a departure whose reminder change is in flight.
func (m *Model) SetPending(id string, pending bool) {
	if pending {
		m.pending[id] = true
		return
	}
	delete(m.pending, id)
}

// Selected returns the departure under the cursor.
func (m Model) Selected() (model.Departure, bool) {
	if m.cursor < 0 || m.cursor >= len(m.entries) {
		return model.Departure{}, false
	}
	return m.entries[m.cursor].departure, true
}

// Board returns the board currently shown.
func (m Model) Board() departure.Board {
	return m.board
}

// Update handles messages for the board view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Down):
		if m.cursor < len(m.entries)-1 {
			m.cursor++
		}
		m.syncSelected()

	case key.Matches(keyMsg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		m.syncSelected()

	case key.Matches(keyMsg, m.keys.Toggle):
		d, ok := m.Selected()
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg { return ToggleMsg{ID: d.ID} }

	case key.Matches(keyMsg, m.keys.Timetable):
		stop := m.selectedStop()
		if stop == "" {
			return m, nil
		}
		return m, func() tea.Msg { return TimetableMsg{Stop: stop} }
	}

	return m, nil
}

func (m *Model) syncSelected() {
	if d, ok := m.Selected(); ok {
		m.selectedID = d.ID
	}
}

// selectedStop is the stop of the selected departure, or the first stop
// when nothing is selectable.
func (m Model) selectedStop() model.Stop {
	if d, ok := m.Selected(); ok {
		return d.Stop
	}
	if len(m.board.Cards) > 0 {
		return m.board.Cards[0].Stop
	}
	return ""
}

// View renders the board.
func (m Model) View() string {
	cards := make([]string, 0, len(m.board.Cards))
	for _, c := range m.board.Cards {
		cards = append(cards, m.renderCard(c))
	}

	var b strings.Builder
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	b.WriteString("\n\n")
	b.WriteString(theme.CardTitleStyle.Render("Upcoming"))
	b.WriteString("\n")

	if len(m.board.Upcoming) == 0 {
		b.WriteString(theme.MutedStyle.Render("  No more departures today."))
		return b.String()
	}

	offset := len(m.entries) - len(m.board.Upcoming)
	for i, r := range m.board.Upcoming {
		line := fmt.Sprintf("%-9s %-12s %s", r.Departs, r.Departure.Stop, m.marker(r.Departure))
		if offset+i == m.cursor {
			b.WriteString(theme.SelectedItemStyle.Render(line))
		} else {
			b.WriteString(theme.ListItemStyle.Render(line))
		}
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) renderCard(c departure.StopCard) string {
	title := theme.CardTitleStyle.Render(string(c.Stop))

	if !c.HasNext {
		body := lipgloss.JoinVertical(lipgloss.Left,
			title,
			c.Departs,
			theme.CountdownStyle(c.Countdown).Render(c.Countdown),
		)
		return theme.CardStyle.Render(body)
	}

	departs := c.Departs + " " + m.marker(c.Next)
	if d, ok := m.Selected(); ok && d.ID == c.Next.ID {
		departs = theme.SelectedItemStyle.Render(departs)
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		title,
		departs,
		theme.CountdownStyle(c.Countdown).Render(c.Countdown),
	)
	return theme.CardStyle.Render(body)
}

// marker shows the reminder state of d.
func (m Model) marker(d model.Departure) string {
	switch {
	case m.pending[d.ID]:
		return theme.MutedStyle.Render("…")
	case d.NotifyEnabled:
		return theme.BellStyle.Render(bell)
	default:
		return ""
	}
}

// SetSize updates the board dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
