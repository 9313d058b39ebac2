package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/campus-pocket/internal/device"
	"github.com/nhle/campus-pocket/internal/notify"
	"github.com/nhle/campus-pocket/internal/theme"
)

// toastTTL is how long a toast stays in the status bar.
const toastTTL = 5 * time.Second

// eventMsg carries a notification center event.
type eventMsg struct {
	event device.Event
}

// toggleResultMsg is sent when a reminder toggle finishes.
type toggleResultMsg struct {
	id     string
	result notify.Result
	err    error
}

// resetDoneMsg is sent when every reminder has been cleared.
type resetDoneMsg struct {
	err error
}

// openResultMsg is sent after trying to open the latest delivered
// reminder.
type openResultMsg struct {
	opened bool
	err    error
}

// toast is a transient status bar message.
type toast struct {
	text    string
	isError bool
	shown   time.Time
}

func newToast(text string, isError bool, now time.Time) toast {
	return toast{text: text, isError: isError, shown: now}
}

// expire clears the toast once it has been shown long enough.
func (t toast) expire(now time.Time) toast {
	if t.text == "" || t.shown.IsZero() {
		return t
	}
	if now.Sub(t.shown) >= toastTTL {
		return toast{}
	}
	return t
}

func (t toast) render() string {
	if t.isError {
		return theme.ErrorStyle.Render(t.text)
	}
	return theme.ToastStyle.Render(t.text)
}

// waitForEvent returns a tea.Cmd that waits for the next notification
// center event.
func (m Model) waitForEvent() tea.Cmd {
	events := m.events
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return eventMsg{event: ev}
	}
}

// toggle runs the reminder toggle off the UI goroutine.
func (m Model) toggle(id string) tea.Cmd {
	manager := m.manager
	return func() tea.Msg {
		res, err := manager.Toggle(context.Background(), id)
		return toggleResultMsg{id: id, result: res, err: err}
	}
}

// resetAll clears every reminder.
func (m Model) resetAll() tea.Cmd {
	manager := m.manager
	return func() tea.Msg {
		return resetDoneMsg{err: manager.ResetAll(context.Background())}
	}
}

// openLatest opens the most recently delivered reminder, as if the
// user had tapped it.
func (m Model) openLatest() tea.Cmd {
	center := m.center
	return func() tea.Msg {
		ctx := context.Background()
		delivered, err := center.Delivered(ctx)
		if err != nil {
			return openResultMsg{err: err}
		}
		if len(delivered) == 0 {
			return openResultMsg{}
		}
		if err := center.Interact(ctx, delivered[0].Handle); err != nil {
			return openResultMsg{err: err}
		}
		return openResultMsg{opened: true}
	}
}

func deliveredText(ev device.Event) string {
	n := ev.Notification
	if ev.Kind == device.EventInteracted {
		return fmt.Sprintf("Opened: %s", n.Body)
	}
	if n.Body != "" {
		return n.Body
	}
	return n.Title
}

// describeError turns a reminder failure into a status bar message.
func describeError(err error) string {
	switch {
	case errors.Is(err, notify.ErrAlreadyPassed):
		return "Too late for a reminder on that departure"
	case errors.Is(err, notify.ErrPermissionDenied):
		return "Notifications are turned off (notifications.enabled)"
	case errors.Is(err, notify.ErrToggleInFlight):
		return "Still working on that reminder"
	case errors.Is(err, notify.ErrDeviceSchedule):
		return "Could not schedule the reminder"
	default:
		return err.Error()
	}
}
