// Package notify manages the reminder lifecycle of each departure:
// optimistic toggling, device scheduling with rollback, reconciliation
// on delivery and the full reset sweep.
package notify

import (
	"context"
	"fmt"
	"log"
	gosync "sync"
	"time"

	"github.com/nhle/campus-pocket/internal/device"
	"github.com/nhle/campus-pocket/internal/model"
	"github.com/nhle/campus-pocket/internal/timetable"
	"github.com/nhle/campus-pocket/internal/timeutil"
)

// DefaultLeadTime is how long before departure a reminder fires.
const DefaultLeadTime = 3 * time.Minute

// minOffset is the shortest delay a reminder is scheduled with.
const minOffset = time.Second

// Device is the notification subsystem the manager schedules on.
type Device interface {
	ScheduleOneShot(ctx context.Context, req device.Request) (string, error)
	Cancel(ctx context.Context, handle string) error
	ListScheduled(ctx context.Context) ([]model.Notification, error)
}

// PermissionChecker is implemented by devices that can refuse
// notifications. It is consulted before every schedule call.
type PermissionChecker interface {
	PermissionGranted(ctx context.Context) (bool, error)
}

// Clock provides the current time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// State is the reminder phase of a departure.
type State int

const (
	// Idle means no reminder is requested.
	Idle State = iota
	// Scheduling means the reminder is shown as on while the device
	// call is in flight.
	Scheduling
	// Scheduled means the device holds a reminder for the departure.
	Scheduled
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Scheduling:
		return "scheduling"
	case Scheduled:
		return "scheduled"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Content is the text of a reminder.
type Content struct {
	Title string
	Body  string
}

// DefaultContent describes the departure in plain English.
func DefaultContent(d model.Departure) Content {
	return Content{
		Title: "Bus departure reminder",
		Body:  fmt.Sprintf("The shuttle leaving %s at %s departs soon.", d.Stop, d.Time),
	}
}

// Result describes the outcome of a successful toggle.
type Result struct {
	ID      string
	Enabled bool
	Handle  string
	// FireAt is when the reminder fires. Zero when disabling.
	FireAt time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock overrides the default clock.
func WithClock(clock Clock) Option {
	return func(m *Manager) {
		if clock != nil {
			m.clock = clock
		}
	}
}

// WithLeadTime sets how long before departure reminders fire.
func WithLeadTime(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.lead = d
		}
	}
}

// WithContent sets the function producing reminder text.
func WithContent(fn func(model.Departure) Content) Option {
	return func(m *Manager) {
		if fn != nil {
			m.content = fn
		}
	}
}

// Manager mediates between the timetable store and the device. It is
// the only writer of reminder state in the store.
type Manager struct {
	store   *timetable.Store
	dev     Device
	clock   Clock
	lead    time.Duration
	content func(model.Departure) Content

	mu       gosync.Mutex
	inFlight map[string]bool
}

// NewManager creates a manager for the given store and device.
func NewManager(store *timetable.Store, dev Device, opts ...Option) *Manager {
	m := &Manager{
		store:    store,
		dev:      dev,
		clock:    systemClock{},
		lead:     DefaultLeadTime,
		content:  DefaultContent,
		inFlight: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// State returns the current reminder phase of the departure.
func (m *Manager) State(id string) State {
	m.mu.Lock()
	busy := m.inFlight[id]
	m.mu.Unlock()
	if busy {
		return Scheduling
	}

	d, ok := m.store.Get(id)
	if ok && d.NotifyEnabled && d.HasHandle() {
		return Scheduled
	}
	return Idle
}

// Toggle flips the reminder of the departure with the given ID. The
// new state is visible in the store before the device is called; a
// failed schedule restores the previous state. A toggle on a departure
// whose previous toggle is still running is rejected with
// ErrToggleInFlight.
func (m *Manager) Toggle(ctx context.Context, id string) (Result, error) {
	d, ok := m.store.Get(id)
	if !ok {
		return Result{}, fmt.Errorf("toggling %q: %w", id, ErrUnknownDeparture)
	}

	if !m.begin(id) {
		return Result{}, fmt.Errorf("toggling %q: %w", id, ErrToggleInFlight)
	}
	defer m.end(id)

	if d.NotifyEnabled {
		return m.disable(ctx, d), nil
	}
	return m.enable(ctx, d)
}

func (m *Manager) enable(ctx context.Context, d model.Departure) (Result, error) {
	m.store.SetNotifyState(d.ID, true, "")

	now := m.clock.Now()
	dep, err := timeutil.On(d.Time, now)
	if err != nil {
		m.rollback(d)
		return Result{}, fmt.Errorf("toggling %q: %w", d.ID, err)
	}

	fireAt := dep.Add(-m.lead)
	if fireAt.Before(now) {
		m.rollback(d)
		return Result{}, fmt.Errorf("departure %s at %s: %w", d.ID, d.Time, ErrAlreadyPassed)
	}

	if pc, ok := m.dev.(PermissionChecker); ok {
		granted, err := pc.PermissionGranted(ctx)
		if err != nil {
			m.rollback(d)
			return Result{}, &ScheduleError{ID: d.ID, Err: err}
		}
		if !granted {
			m.rollback(d)
			return Result{}, fmt.Errorf("departure %s: %w", d.ID, ErrPermissionDenied)
		}
	}

	offset := fireAt.Sub(now).Truncate(time.Second)
	if offset < minOffset {
		offset = minOffset
	}

	c := m.content(d)
	handle, err := m.dev.ScheduleOneShot(ctx, device.Request{
		Offset:  offset,
		Payload: d.ID,
		Title:   c.Title,
		Body:    c.Body,
	})
	if err != nil {
		m.rollback(d)
		return Result{}, &ScheduleError{ID: d.ID, Err: err}
	}

	m.store.SetNotifyState(d.ID, true, handle)
	return Result{ID: d.ID, Enabled: true, Handle: handle, FireAt: now.Add(offset)}, nil
}

func (m *Manager) disable(ctx context.Context, d model.Departure) Result {
	m.store.SetNotifyState(d.ID, false, "")
	if d.HasHandle() {
		m.cancel(ctx, d.Handle)
	}
	return Result{ID: d.ID}
}

// rollback restores the reminder fields d had before the toggle.
func (m *Manager) rollback(d model.Departure) {
	m.store.SetNotifyState(d.ID, d.NotifyEnabled, d.Handle)
}

// cancel asks the device to drop handle. Failures are only logged.
func (m *Manager) cancel(ctx context.Context, handle string) {
	if err := m.dev.Cancel(ctx, handle); err != nil {
		log.Printf("notify: cancelling reminder %s: %v", handle, err)
	}
}

// HandleEvent reconciles the store with a delivered or opened reminder.
// Both kinds return the departure to Idle.
func (m *Manager) HandleEvent(ctx context.Context, ev device.Event) {
	id := ev.Notification.Payload
	d, ok := m.store.Get(id)
	if !ok {
		log.Printf("notify: %s event for unknown departure %q", ev.Kind, id)
		return
	}

	handle := ev.Notification.Handle
	if handle == "" {
		handle = d.Handle
	}
	if handle != "" {
		m.cancel(ctx, handle)
	}

	m.store.SetNotifyState(id, false, "")
}

// Listen applies events until ctx is done or events is closed.
func (m *Manager) Listen(ctx context.Context, events <-chan device.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			m.HandleEvent(ctx, ev)
		}
	}
}

// ResetAll cancels every reminder the device holds, including ones the
// store does not know about, then turns every departure's reminder off.
// It succeeds when nothing is pending.
func (m *Manager) ResetAll(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	handles := m.store.Handles()
	pending, err := m.dev.ListScheduled(ctx)
	if err != nil {
		log.Printf("notify: listing scheduled reminders: %v; cancelling %d known", err, len(handles))
	}

	seen := make(map[string]bool, len(pending)+len(handles))
	for _, n := range pending {
		handles = append(handles, n.Handle)
	}
	for _, h := range handles {
		if seen[h] {
			continue
		}
		seen[h] = true
		m.cancel(ctx, h)
	}

	m.store.ClearAll()
	return nil
}

func (m *Manager) begin(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.inFlight[id] {
		return false
	}
	m.inFlight[id] = true
	return true
}

func (m *Manager) end(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.inFlight, id)
}
