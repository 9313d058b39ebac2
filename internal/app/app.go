package app

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/campus-pocket/internal/device"
	"github.com/nhle/campus-pocket/internal/keys"
	"github.com/nhle/campus-pocket/internal/model"
	"github.com/nhle/campus-pocket/internal/notify"
	"github.com/nhle/campus-pocket/internal/refresh"
	"github.com/nhle/campus-pocket/internal/timetable"
	"github.com/nhle/campus-pocket/internal/ui"
	boardview "github.com/nhle/campus-pocket/internal/ui/board"
	"github.com/nhle/campus-pocket/internal/ui/confirm"
	helpview "github.com/nhle/campus-pocket/internal/ui/help"
	timetableview "github.com/nhle/campus-pocket/internal/ui/timetable"
)

// Notifications is the part of the notification center the UI uses.
type Notifications interface {
	Subscribe() (<-chan device.Event, func())
	Delivered(ctx context.Context) ([]model.Notification, error)
	Interact(ctx context.Context, handle string) error
}

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewBoard ViewState = iota
	ViewTimetable
	ViewHelp
	ViewConfirm
)

// Model is the root Bubble Tea model that manages view routing,
// layout, and the reminder commands.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	keys         *keys.KeyMap

	manager     *notify.Manager
	loop        *refresh.Loop
	center      Notifications
	events      <-chan device.Event
	unsubscribe func()

	boardView     boardview.Model
	timetableView timetableview.Model
	helpView      helpview.Model
	confirmView   confirm.Model

	toast toast
	ready bool
}

// New creates the root application model. It subscribes to the
// notification center right away so no delivery is missed before Init.
func New(store *timetable.Store, manager *notify.Manager, loop *refresh.Loop, center Notifications) Model {
	k := keys.DefaultKeyMap()
	events, unsubscribe := center.Subscribe()

	return Model{
		currentView:   ViewBoard,
		keys:          k,
		manager:       manager,
		loop:          loop,
		center:        center,
		events:        events,
		unsubscribe:   unsubscribe,
		boardView:     boardview.New(k, 80, 24),
		timetableView: timetableview.New(store, k, 80, 24),
		helpView:      helpview.New(k, 80, 24),
		confirmView:   confirm.New(80, 24),
	}
}

// Init starts the refresh loop and the notification subscription.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.loop.Start(),
		m.waitForEvent(),
	)
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		contentWidth := m.layout.ContentWidth()
		contentHeight := m.layout.ContentHeight()
		m.boardView.SetSize(contentWidth, contentHeight)
		m.timetableView.SetSize(contentWidth, contentHeight)
		m.helpView.SetSize(contentWidth, contentHeight)
		m.confirmView.SetSize(contentWidth, contentHeight)
		// Forward to active view so huh forms can calculate their layout.
		return m.updateActiveView(msg)

	case refresh.BoardMsg:
		m.boardView.SetBoard(msg.Board)
		m.toast = m.toast.expire(msg.Board.Now)
		return m, m.loop.WaitForNextBoard()

	case eventMsg:
		m.manager.HandleEvent(context.Background(), msg.event)
		m.loop.Refresh()
		m.toast = newToast(deliveredText(msg.event), false, m.boardView.Board().Now)
		return m, m.waitForEvent()

	case boardview.ToggleMsg:
		m.boardView.SetPending(msg.ID, true)
		m.loop.Refresh()
		return m, m.toggle(msg.ID)

	case toggleResultMsg:
		m.boardView.SetPending(msg.id, false)
		m.loop.Refresh()
		if msg.err != nil {
			m.toast = newToast(describeError(msg.err), true, m.boardView.Board().Now)
			return m, nil
		}
		if msg.result.Enabled {
			m.toast = newToast(
				fmt.Sprintf("Reminder set for %s", msg.result.FireAt.Format("15:04")),
				false, m.boardView.Board().Now,
			)
		}
		return m, nil

	case boardview.TimetableMsg:
		m.timetableView.Show(msg.Stop)
		m.previousView = m.currentView
		m.currentView = ViewTimetable
		return m, nil

	case timetableview.CloseMsg:
		m.currentView = ViewBoard
		return m, nil

	case confirm.ResultMsg:
		m.currentView = m.previousView
		if !msg.Confirmed {
			return m, nil
		}
		return m, m.resetAll()

	case resetDoneMsg:
		m.loop.Refresh()
		if msg.err != nil {
			m.toast = newToast(describeError(msg.err), true, m.boardView.Board().Now)
			return m, nil
		}
		m.toast = newToast("All reminders cleared", false, m.boardView.Board().Now)
		return m, nil

	case openResultMsg:
		if msg.err != nil {
			m.toast = newToast(describeError(msg.err), true, m.boardView.Board().Now)
		} else if !msg.opened {
			m.toast = newToast("No delivered reminders", false, m.boardView.Board().Now)
		}
		return m, nil

	case tea.KeyMsg:
		// The confirm prompt owns every key while it is open.
		if m.currentView == ViewConfirm {
			return m.updateActiveView(msg)
		}

		switch msg.String() {
		case "ctrl+c":
			return m, m.quit()

		case "q":
			if m.currentView == ViewBoard {
				return m, m.quit()
			}

		case "?":
			if m.currentView == ViewHelp {
				m.currentView = m.previousView
				return m, nil
			}
			m.previousView = m.currentView
			m.currentView = ViewHelp
			return m, nil

		case "esc":
			if m.currentView == ViewHelp {
				m.currentView = m.previousView
				return m, nil
			}

		case "R":
			if m.currentView == ViewBoard {
				m.previousView = m.currentView
				m.currentView = ViewConfirm
				return m, m.confirmView.Start(
					"Clear all reminders?",
					"Every scheduled departure reminder will be cancelled.",
				)
			}

		case "o":
			if m.currentView == ViewBoard {
				return m, m.openLatest()
			}
		}
	}

	// Delegate to active sub-view
	return m.updateActiveView(msg)
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewBoard:
		m.boardView, cmd = m.boardView.Update(msg)
	case ViewTimetable:
		m.timetableView, cmd = m.timetableView.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewConfirm:
		m.confirmView, cmd = m.confirmView.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader("campuspocket", m.boardView.Board().Clock)
	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.statusLine())

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewBoard:
		return m.boardView.View()
	case ViewTimetable:
		return m.timetableView.View()
	case ViewHelp:
		return m.helpView.View()
	case ViewConfirm:
		return m.confirmView.View()
	default:
		return ""
	}
}

// statusLine shows the toast if there is one, otherwise key hints.
func (m Model) statusLine() string {
	if m.toast.text != "" {
		return m.toast.render()
	}

	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewTimetable:
		return "tab next stop | esc back"
	case ViewConfirm:
		return "←/→ choose | enter confirm | esc cancel"
	default:
		return m.helpView.ShortView()
	}
}

func (m Model) quit() tea.Cmd {
	m.loop.Stop()
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
	return tea.Quit
}
