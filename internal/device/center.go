// Package device is the local notification center: it holds one-shot
// reminders, delivers them when due and reports deliveries and user
// interactions to subscribers.
package device

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	gosync "sync"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/nhle/campus-pocket/internal/model"
)

// ErrClosed is returned by operations on a closed Center.
var ErrClosed = errors.New("notification center closed")

// ErrNotDelivered is returned by Interact for a handle that has not been
// delivered.
var ErrNotDelivered = errors.New("notification not delivered")

// Request describes a one-shot reminder.
type Request struct {
	// Offset is how long from now the reminder fires.
	Offset  time.Duration
	Payload string
	Title   string
	Body    string
}

// EventKind distinguishes notification center events.
type EventKind int

const (
	// EventDelivered is sent when a reminder fires.
	EventDelivered EventKind = iota
	// EventInteracted is sent when the user opens a delivered reminder.
	EventInteracted
)

func (k EventKind) String() string {
	switch k {
	case EventDelivered:
		return "delivered"
	case EventInteracted:
		return "interacted"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event reports a delivery or an interaction.
type Event struct {
	Kind         EventKind
	Notification model.Notification
}

// Clock provides time for scheduling.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Option configures the center.
type Option func(*Center)

// WithClock overrides the default clock.
func WithClock(clock Clock) Option {
	return func(c *Center) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithSink adds a delivery sink.
func WithSink(sink Sink) Option {
	return func(c *Center) {
		if sink != nil {
			c.sinks = append(c.sinks, sink)
		}
	}
}

// WithPermission sets whether the user allowed notifications.
func WithPermission(granted bool) Option {
	return func(c *Center) {
		c.permission = granted
	}
}

// subscriberBuffer is the capacity of each subscription channel.
const subscriberBuffer = 16

// notificationRow is the SQLite representation of a notification.
type notificationRow struct {
	Handle      string        `db:"handle"`
	Payload     string        `db:"payload"`
	Title       string        `db:"title"`
	Body        string        `db:"body"`
	State       string        `db:"state"`
	FireAt      int64         `db:"fire_at"`
	CreatedAt   int64         `db:"created_at"`
	DeliveredAt sql.NullInt64 `db:"delivered_at"`
}

func (r notificationRow) toModel() model.Notification {
	return model.Notification{
		Handle:    r.Handle,
		Payload:   r.Payload,
		Title:     r.Title,
		Body:      r.Body,
		FireAt:    time.UnixMilli(r.FireAt),
		CreatedAt: time.UnixMilli(r.CreatedAt),
	}
}

const (
	stateScheduled = "scheduled"
	stateDelivered = "delivered"
)

// Center is a notification center backed by SQLite. Scheduled reminders
// survive restarts; each one is armed with a timer while the center is
// open.
type Center struct {
	db         *sqlx.DB
	clock      Clock
	sinks      MultiSink
	permission bool

	mu     gosync.Mutex
	timers map[string]*time.Timer
	subs   map[int]chan Event
	nextID int
	closed bool
}

// Open opens (or creates) the notification database at dbPath, runs
// pending migrations, drops reminders that came due while the center
// was closed and re-arms the rest.
func Open(dbPath string, opts ...Option) (*Center, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// One connection keeps :memory: databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	c := &Center{
		db:         db,
		clock:      systemClock{},
		permission: true,
		timers:     make(map[string]*time.Timer),
		subs:       make(map[int]chan Event),
	}
	for _, opt := range opts {
		opt(c)
	}

	if err := c.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	if err := c.rearm(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("restoring scheduled notifications: %w", err)
	}

	return c, nil
}

// Close stops every timer and closes the database.
func (c *Center) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	for handle, t := range c.timers {
		t.Stop()
		delete(c.timers, handle)
	}
	for id, ch := range c.subs {
		close(ch)
		delete(c.subs, id)
	}
	c.mu.Unlock()

	return c.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (c *Center) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := c.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = c.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := c.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// rearm purges overdue reminders and starts timers for the others.
func (c *Center) rearm(ctx context.Context) error {
	now := c.clock.Now()

	res, err := c.db.ExecContext(ctx,
		"DELETE FROM notifications WHERE state = ? AND fire_at <= ?",
		stateScheduled, now.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("purging overdue notifications: %w", err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		log.Printf("device: dropped %d notification(s) that came due while closed", n)
	}

	pending, err := c.ListScheduled(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, n := range pending {
		c.armLocked(n.Handle, n.FireAt.Sub(now))
	}
	return nil
}

// PermissionGranted reports whether reminders may be scheduled.
func (c *Center) PermissionGranted(_ context.Context) (bool, error) {
	return c.permission, nil
}

// ScheduleOneShot stores a reminder and arms its timer. It returns the
// handle used to cancel it.
func (c *Center) ScheduleOneShot(ctx context.Context, req Request) (string, error) {
	if req.Payload == "" {
		return "", errors.New("scheduling notification: empty payload")
	}
	if req.Offset < 0 {
		return "", fmt.Errorf("scheduling notification: negative offset %s", req.Offset)
	}

	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return "", ErrClosed
	}

	now := c.clock.Now()
	handle := uuid.New().String()

	_, err := c.db.ExecContext(ctx, `
		INSERT INTO notifications (handle, payload, title, body, state, fire_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		handle, req.Payload, req.Title, req.Body, stateScheduled,
		now.Add(req.Offset).UnixMilli(), now.UnixMilli(),
	)
	if err != nil {
		return "", fmt.Errorf("inserting notification: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return "", ErrClosed
	}
	c.armLocked(handle, req.Offset)

	return handle, nil
}

// Cancel removes a scheduled reminder. Unknown or already delivered
// handles are ignored.
func (c *Center) Cancel(ctx context.Context, handle string) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if t, ok := c.timers[handle]; ok {
		t.Stop()
		delete(c.timers, handle)
	}
	c.mu.Unlock()

	_, err := c.db.ExecContext(ctx,
		"DELETE FROM notifications WHERE handle = ? AND state = ?",
		handle, stateScheduled,
	)
	if err != nil {
		return fmt.Errorf("cancelling notification %s: %w", handle, err)
	}
	return nil
}

// ListScheduled returns every reminder that has not fired yet, ordered
// by fire time.
func (c *Center) ListScheduled(ctx context.Context) ([]model.Notification, error) {
	return c.list(ctx, stateScheduled, "fire_at ASC")
}

// Delivered returns reminders that have fired and were not opened yet,
// newest first.
func (c *Center) Delivered(ctx context.Context) ([]model.Notification, error) {
	return c.list(ctx, stateDelivered, "delivered_at DESC")
}

func (c *Center) list(ctx context.Context, state, order string) ([]model.Notification, error) {
	var rows []notificationRow
	err := c.db.SelectContext(ctx, &rows,
		"SELECT * FROM notifications WHERE state = ? ORDER BY "+order, state,
	)
	if err != nil {
		return nil, fmt.Errorf("querying %s notifications: %w", state, err)
	}

	out := make([]model.Notification, len(rows))
	for i, r := range rows {
		out[i] = r.toModel()
	}
	return out, nil
}

// Interact marks a delivered reminder as opened by the user and
// notifies subscribers.
func (c *Center) Interact(ctx context.Context, handle string) error {
	var row notificationRow
	err := c.db.GetContext(ctx, &row,
		"SELECT * FROM notifications WHERE handle = ? AND state = ?",
		handle, stateDelivered,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("opening notification %s: %w", handle, ErrNotDelivered)
	}
	if err != nil {
		return fmt.Errorf("opening notification %s: %w", handle, err)
	}

	if _, err := c.db.ExecContext(ctx, "DELETE FROM notifications WHERE handle = ?", handle); err != nil {
		return fmt.Errorf("removing notification %s: %w", handle, err)
	}

	c.publish(Event{Kind: EventInteracted, Notification: row.toModel()})
	return nil
}

// Subscribe returns a channel of center events and a function that
// ends the subscription. Events are dropped for subscribers that fall
// behind.
func (c *Center) Subscribe() (<-chan Event, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := make(chan Event, subscriberBuffer)
	if c.closed {
		close(ch)
		return ch, func() {}
	}

	id := c.nextID
	c.nextID++
	c.subs[id] = ch

	var once gosync.Once
	return ch, func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			if sub, ok := c.subs[id]; ok {
				close(sub)
				delete(c.subs, id)
			}
		})
	}
}

// armLocked starts the timer for handle. c.mu must be held.
func (c *Center) armLocked(handle string, after time.Duration) {
	if after < 0 {
		after = 0
	}
	c.timers[handle] = time.AfterFunc(after, func() {
		c.fire(handle)
	})
}

// fire delivers a due reminder.
func (c *Center) fire(handle string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	if _, ok := c.timers[handle]; !ok {
		// Cancelled after the timer had already started.
		c.mu.Unlock()
		return
	}
	delete(c.timers, handle)
	c.mu.Unlock()

	ctx := context.Background()
	now := c.clock.Now()

	res, err := c.db.ExecContext(ctx,
		"UPDATE notifications SET state = ?, delivered_at = ? WHERE handle = ? AND state = ?",
		stateDelivered, now.UnixMilli(), handle, stateScheduled,
	)
	if err != nil {
		log.Printf("device: marking notification %s delivered: %v", handle, err)
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return
	}

	var row notificationRow
	if err := c.db.GetContext(ctx, &row, "SELECT * FROM notifications WHERE handle = ?", handle); err != nil {
		log.Printf("device: loading notification %s: %v", handle, err)
		return
	}
	n := row.toModel()

	if err := c.sinks.Deliver(ctx, n); err != nil {
		log.Printf("device: delivering notification %s: %v", handle, err)
	}

	c.publish(Event{Kind: EventDelivered, Notification: n})
}

// publish sends ev to every subscriber without blocking.
func (c *Center) publish(ev Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, ch := range c.subs {
		select {
		case ch <- ev:
		default:
			log.Printf("device: subscriber full, dropping %s event for %s", ev.Kind, ev.Notification.Handle)
		}
	}
}
