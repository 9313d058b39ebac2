package timetable

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/campus-pocket/internal/keys"
	"github.com/nhle/campus-pocket/internal/model"
	tt "github.com/nhle/campus-pocket/internal/timetable"
)

func TestView(t *testing.T) {
	store := tt.New([]model.Departure{
		{ID: "1", Stop: model.StopLibrary, Time: "08:00"},
		{ID: "2", Stop: model.StopLibrary, Time: "13:15"},
		{ID: "3", Stop: model.StopEngineering, Time: "09:00"},
	})
	m := New(store, keys.DefaultKeyMap(), 80, 24)
	m.Show(model.StopLibrary)

	out := m.View()
	assert.Contains(t, out, "Library timetable")
	assert.Contains(t, out, "8:00 AM")
	assert.Contains(t, out, "1:15 PM")
	assert.NotContains(t, out, "9:00 AM")

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, model.StopEngineering, m.Stop())
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, model.StopLibrary, m.Stop())

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, CloseMsg{}, cmd())
}
