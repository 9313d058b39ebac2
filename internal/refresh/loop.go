// Package refresh recomputes the departure board on a fixed tick and
// hands each result to the Bubble Tea runtime.
package refresh

import (
	gosync "sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/campus-pocket/internal/departure"
	"github.com/nhle/campus-pocket/internal/timetable"
	"github.com/nhle/campus-pocket/internal/timeutil"
)

// DefaultInterval is how often the board is recomputed.
const DefaultInterval = time.Second

// BoardMsg is a tea.Msg carrying a freshly computed board.
type BoardMsg struct {
	Board departure.Board
}

// Clock provides the current time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Option configures a Loop.
type Option func(*Loop)

// WithClock overrides the default clock.
func WithClock(clock Clock) Option {
	return func(l *Loop) {
		if clock != nil {
			l.clock = clock
		}
	}
}

// WithInterval sets the tick period.
func WithInterval(d time.Duration) Option {
	return func(l *Loop) {
		if d > 0 {
			l.interval = d
		}
	}
}

// WithCountdown sets the countdown used for the stop cards.
func WithCountdown(c timeutil.Countdown) Option {
	return func(l *Loop) {
		l.countdown = c
	}
}

// Loop recomputes the board once per interval on a single goroutine,
// so ticks never overlap. Only the newest board is kept for the
// consumer; an unread board is replaced by the next one.
type Loop struct {
	store     *timetable.Store
	clock     Clock
	interval  time.Duration
	countdown timeutil.Countdown

	boardCh   chan BoardMsg
	triggerCh chan struct{}
	stopCh    chan struct{}

	mu      gosync.Mutex
	running bool
	stopped bool
}

// New creates a loop over the given store.
func New(store *timetable.Store, opts ...Option) *Loop {
	l := &Loop{
		store:     store,
		clock:     systemClock{},
		interval:  DefaultInterval,
		countdown: timeutil.Countdown{ActiveWindow: timeutil.DefaultActiveWindow},
		boardCh:   make(chan BoardMsg, 1),
		triggerCh: make(chan struct{}, 1),
		stopCh:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Start launches the ticker goroutine and returns a command that waits
// for the first board. A board is computed immediately on start.
func (l *Loop) Start() tea.Cmd {
	l.mu.Lock()
	if l.running || l.stopped {
		l.mu.Unlock()
		return nil
	}
	l.running = true
	l.mu.Unlock()

	go l.run()

	return l.waitForBoard()
}

// Stop halts the ticker. It is safe to call more than once. A stopped
// loop cannot be restarted.
func (l *Loop) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.stopped {
		return
	}
	l.stopped = true
	close(l.stopCh)
}

// Refresh asks for an immediate recompute, e.g. after a toggle.
func (l *Loop) Refresh() {
	select {
	case l.triggerCh <- struct{}{}:
	default:
		// A recompute is already pending.
	}
}

// Current computes the board for the current instant without touching
// the loop.
func (l *Loop) Current() departure.Board {
	return departure.BuildBoard(l.store.All(), l.store.Stops(), l.clock.Now(), l.countdown)
}

// Boards returns the channel boards are published on. It is closed
// once the loop has stopped.
func (l *Loop) Boards() <-chan BoardMsg {
	return l.boardCh
}

// WaitForNextBoard returns a tea.Cmd that waits for the next board.
// Call it after handling each BoardMsg to keep listening.
func (l *Loop) WaitForNextBoard() tea.Cmd {
	return l.waitForBoard()
}

func (l *Loop) run() {
	defer close(l.boardCh)

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	l.publish(BoardMsg{Board: l.Current()})

	for {
		select {
		case <-l.stopCh:
			return
		case <-ticker.C:
			l.publish(BoardMsg{Board: l.Current()})
		case <-l.triggerCh:
			l.publish(BoardMsg{Board: l.Current()})
		}
	}
}

// publish stores msg as the newest board, discarding an unread one.
// Only the run goroutine sends on boardCh.
func (l *Loop) publish(msg BoardMsg) {
	for {
		select {
		case l.boardCh <- msg:
			return
		default:
		}
		select {
		case <-l.boardCh:
		default:
		}
	}
}

func (l *Loop) waitForBoard() tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-l.boardCh
		if !ok {
			return nil
		}
		return msg
	}
}
