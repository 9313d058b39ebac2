package device

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/campus-pocket/internal/model"
)

func openTestCenter(t *testing.T, opts ...Option) *Center {
	t.Helper()

	c, err := Open(":memory:", opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func waitEvent(t *testing.T, ch <-chan Event) Event {
	t.Helper()

	select {
	case ev, ok := <-ch:
		require.True(t, ok, "subscription closed")
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for notification event")
		return Event{}
	}
}

type recordingSink struct {
	mu  sync.Mutex
	got []model.Notification
	err error
}

func (s *recordingSink) Deliver(_ context.Context, n model.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.got = append(s.got, n)
	return s.err
}

func (s *recordingSink) delivered() []model.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Notification(nil), s.got...)
}

func TestScheduleAndList(t *testing.T) {
	c := openTestCenter(t)
	ctx := context.Background()

	h1, err := c.ScheduleOneShot(ctx, Request{Offset: time.Hour, Payload: "7", Title: "t", Body: "b"})
	require.NoError(t, err)
	h2, err := c.ScheduleOneShot(ctx, Request{Offset: 30 * time.Minute, Payload: "3"})
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)

	pending, err := c.ListScheduled(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, h2, pending[0].Handle, "ordered by fire time")
	assert.Equal(t, "3", pending[0].Payload)
	assert.Equal(t, h1, pending[1].Handle)
	assert.Equal(t, "t", pending[1].Title)
	assert.Equal(t, "b", pending[1].Body)
}

func TestScheduleRejectsBadRequests(t *testing.T) {
	c := openTestCenter(t)
	ctx := context.Background()

	_, err := c.ScheduleOneShot(ctx, Request{Offset: time.Minute})
	assert.Error(t, err)

	_, err = c.ScheduleOneShot(ctx, Request{Offset: -time.Second, Payload: "1"})
	assert.Error(t, err)
}

func TestCancel(t *testing.T) {
	c := openTestCenter(t)
	ctx := context.Background()

	h, err := c.ScheduleOneShot(ctx, Request{Offset: time.Hour, Payload: "1"})
	require.NoError(t, err)

	require.NoError(t, c.Cancel(ctx, h))
	pending, err := c.ListScheduled(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)

	assert.NoError(t, c.Cancel(ctx, h), "cancelling twice is a no-op")
	assert.NoError(t, c.Cancel(ctx, "unknown"))
}

func TestDeliveryPublishesAndFansOut(t *testing.T) {
	sink := &recordingSink{}
	c := openTestCenter(t, WithSink(sink))
	ctx := context.Background()

	events, unsubscribe := c.Subscribe()
	defer unsubscribe()

	h, err := c.ScheduleOneShot(ctx, Request{Offset: 10 * time.Millisecond, Payload: "A", Title: "Bus"})
	require.NoError(t, err)

	ev := waitEvent(t, events)
	assert.Equal(t, EventDelivered, ev.Kind)
	assert.Equal(t, h, ev.Notification.Handle)
	assert.Equal(t, "A", ev.Notification.Payload)

	require.Len(t, sink.delivered(), 1)
	assert.Equal(t, h, sink.delivered()[0].Handle)

	pending, err := c.ListScheduled(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)

	delivered, err := c.Delivered(ctx)
	require.NoError(t, err)
	require.Len(t, delivered, 1)
	assert.Equal(t, h, delivered[0].Handle)
}

func TestSinkFailureDoesNotBlockEvent(t *testing.T) {
	sink := &recordingSink{err: errors.New("imap down")}
	c := openTestCenter(t, WithSink(sink))

	events, unsubscribe := c.Subscribe()
	defer unsubscribe()

	_, err := c.ScheduleOneShot(context.Background(), Request{Offset: time.Millisecond, Payload: "A"})
	require.NoError(t, err)

	assert.Equal(t, EventDelivered, waitEvent(t, events).Kind)
}

func TestCancelledNotificationNeverFires(t *testing.T) {
	c := openTestCenter(t)
	ctx := context.Background()

	events, unsubscribe := c.Subscribe()
	defer unsubscribe()

	h, err := c.ScheduleOneShot(ctx, Request{Offset: 50 * time.Millisecond, Payload: "A"})
	require.NoError(t, err)
	require.NoError(t, c.Cancel(ctx, h))

	select {
	case ev := <-events:
		t.Fatalf("unexpected event %v", ev)
	case <-time.After(150 * time.Millisecond):
	}
}

func TestInteract(t *testing.T) {
	c := openTestCenter(t)
	ctx := context.Background()

	events, unsubscribe := c.Subscribe()
	defer unsubscribe()

	h, err := c.ScheduleOneShot(ctx, Request{Offset: time.Millisecond, Payload: "A"})
	require.NoError(t, err)
	waitEvent(t, events)

	require.NoError(t, c.Interact(ctx, h))
	ev := waitEvent(t, events)
	assert.Equal(t, EventInteracted, ev.Kind)
	assert.Equal(t, "A", ev.Notification.Payload)

	delivered, err := c.Delivered(ctx)
	require.NoError(t, err)
	assert.Empty(t, delivered)

	assert.ErrorIs(t, c.Interact(ctx, h), ErrNotDelivered)
}

func TestInteractRequiresDelivery(t *testing.T) {
	c := openTestCenter(t)
	ctx := context.Background()

	h, err := c.ScheduleOneShot(ctx, Request{Offset: time.Hour, Payload: "A"})
	require.NoError(t, err)
	assert.ErrorIs(t, c.Interact(ctx, h), ErrNotDelivered)
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

func TestReopenRearmsAndPurges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notifications.db")
	ctx := context.Background()
	base := time.Now()

	c, err := Open(path, WithClock(fixedClock{now: base}))
	require.NoError(t, err)
	overdue, err := c.ScheduleOneShot(ctx, Request{Offset: time.Hour, Payload: "old"})
	require.NoError(t, err)
	kept, err := c.ScheduleOneShot(ctx, Request{Offset: 3 * time.Hour, Payload: "new"})
	require.NoError(t, err)
	require.NoError(t, c.Close())

	// Two hours later the first reminder came due while closed.
	c, err = Open(path, WithClock(fixedClock{now: base.Add(2 * time.Hour)}))
	require.NoError(t, err)
	defer c.Close()

	pending, err := c.ListScheduled(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, kept, pending[0].Handle)
	assert.NotEqual(t, overdue, pending[0].Handle)
}

func TestClosedCenter(t *testing.T) {
	c, err := Open(":memory:")
	require.NoError(t, err)

	events, _ := c.Subscribe()
	require.NoError(t, c.Close())
	require.NoError(t, c.Close())

	_, ok := <-events
	assert.False(t, ok, "close ends subscriptions")

	_, err = c.ScheduleOneShot(context.Background(), Request{Offset: time.Minute, Payload: "A"})
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, c.Cancel(context.Background(), "x"), ErrClosed)
}

func TestPermission(t *testing.T) {
	granted, err := openTestCenter(t).PermissionGranted(context.Background())
	require.NoError(t, err)
	assert.True(t, granted)

	granted, err = openTestCenter(t, WithPermission(false)).PermissionGranted(context.Background())
	require.NoError(t, err)
	assert.False(t, granted)
}

func TestUnsubscribe(t *testing.T) {
	c := openTestCenter(t)
	events, unsubscribe := c.Subscribe()
	unsubscribe()
	unsubscribe()

	_, ok := <-events
	assert.False(t, ok)
}
