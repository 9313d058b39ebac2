package app

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/campus-pocket/internal/device"
	"github.com/nhle/campus-pocket/internal/model"
	"github.com/nhle/campus-pocket/internal/notify"
	"github.com/nhle/campus-pocket/internal/refresh"
	"github.com/nhle/campus-pocket/internal/testutil"
	"github.com/nhle/campus-pocket/internal/timetable"
	boardview "github.com/nhle/campus-pocket/internal/ui/board"
	"github.com/nhle/campus-pocket/internal/ui/confirm"
	timetableview "github.com/nhle/campus-pocket/internal/ui/timetable"
)

type harness struct {
	model  Model
	store  *timetable.Store
	center *device.Center
}

func newHarness(t *testing.T, clock testutil.FixedClock) *harness {
	t.Helper()

	center := testutil.NewTestCenter(t)
	store := timetable.New([]model.Departure{
		{ID: "A", Stop: model.StopLibrary, Time: "09:00"},
		{ID: "B", Stop: model.StopLibrary, Time: "09:30"},
		{ID: "C", Stop: model.StopEngineering, Time: "09:10"},
	})
	manager := notify.NewManager(store, center, notify.WithClock(clock))
	loop := refresh.New(store, refresh.WithClock(clock), refresh.WithInterval(time.Hour))
	t.Cleanup(loop.Stop)

	m := New(store, manager, loop, center)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	updated, _ = updated.Update(refresh.BoardMsg{Board: loop.Current()})

	return &harness{model: updated.(Model), store: store, center: center}
}

// send applies msg and runs the resulting command once, feeding its
// message back in.
func (h *harness) send(t *testing.T, msg tea.Msg) {
	t.Helper()

	updated, cmd := h.model.Update(msg)
	h.model = updated.(Model)
	if cmd == nil {
		return
	}
	if next := cmd(); next != nil {
		updated, _ = h.model.Update(next)
		h.model = updated.(Model)
	}
}

func TestToggleFromBoard(t *testing.T) {
	h := newHarness(t, testutil.At(8, 0, 0))

	h.send(t, boardview.ToggleMsg{ID: "A"})

	d, _ := h.store.Get("A")
	assert.True(t, d.NotifyEnabled)
	assert.True(t, d.HasHandle())
	assert.Contains(t, h.model.statusLine(), "Reminder set for 08:57")

	pending, err := h.center.ListScheduled(context.Background())
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "A", pending[0].Payload)
}

func TestToggleTooLateShowsToast(t *testing.T) {
	h := newHarness(t, testutil.At(8, 58, 0))

	h.send(t, boardview.ToggleMsg{ID: "A"})

	d, _ := h.store.Get("A")
	assert.False(t, d.NotifyEnabled)
	assert.Contains(t, h.model.statusLine(), "Too late")
}

func TestDeliveredEventClearsReminder(t *testing.T) {
	h := newHarness(t, testutil.At(8, 0, 0))
	h.store.SetNotifyState("C", true, "H1")

	// The returned command waits for the next event, so it is not run.
	updated, cmd := h.model.Update(eventMsg{event: device.Event{
		Kind:         device.EventDelivered,
		Notification: model.Notification{Handle: "H1", Payload: "C", Body: "Shuttle soon"},
	}})
	h.model = updated.(Model)
	assert.NotNil(t, cmd)

	d, _ := h.store.Get("C")
	assert.False(t, d.NotifyEnabled)
	assert.Empty(t, d.Handle)
	assert.Contains(t, h.model.statusLine(), "Shuttle soon")
}

func TestResetFlow(t *testing.T) {
	h := newHarness(t, testutil.At(8, 0, 0))
	h.send(t, boardview.ToggleMsg{ID: "A"})
	h.send(t, boardview.ToggleMsg{ID: "C"})

	updated, cmd := h.model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("R")})
	h.model = updated.(Model)
	assert.NotNil(t, cmd)
	assert.Equal(t, ViewConfirm, h.model.currentView)

	h.send(t, confirm.ResultMsg{Confirmed: true})
	assert.Equal(t, ViewBoard, h.model.currentView)
	assert.Empty(t, h.store.Handles())
	assert.Contains(t, h.model.statusLine(), "All reminders cleared")

	pending, err := h.center.ListScheduled(context.Background())
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestResetDeclined(t *testing.T) {
	h := newHarness(t, testutil.At(8, 0, 0))
	h.send(t, boardview.ToggleMsg{ID: "A"})

	h.send(t, confirm.ResultMsg{Confirmed: false})
	assert.Len(t, h.store.Handles(), 1)
}

func TestOpenWithNothingDelivered(t *testing.T) {
	h := newHarness(t, testutil.At(8, 0, 0))

	h.send(t, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("o")})
	assert.Contains(t, h.model.statusLine(), "No delivered reminders")
}

func TestViewRouting(t *testing.T) {
	h := newHarness(t, testutil.At(8, 55, 0))
	assert.Contains(t, h.model.View(), "campuspocket")
	assert.Contains(t, h.model.View(), "5 min 0 sec")

	h.send(t, boardview.TimetableMsg{Stop: model.StopLibrary})
	assert.Equal(t, ViewTimetable, h.model.currentView)
	assert.Contains(t, h.model.View(), "Library timetable")

	h.send(t, timetableview.CloseMsg{})
	assert.Equal(t, ViewBoard, h.model.currentView)

	h.send(t, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("?")})
	assert.Equal(t, ViewHelp, h.model.currentView)
	h.send(t, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("?")})
	assert.Equal(t, ViewBoard, h.model.currentView)
}

func TestToastExpires(t *testing.T) {
	base := testutil.At(8, 0, 0).T
	tt := newToast("hello", false, base)

	assert.Equal(t, "hello", tt.expire(base.Add(time.Second)).text)
	assert.Empty(t, tt.expire(base.Add(toastTTL)).text)
}
