package device

import (
	"context"
	"errors"
	"log"

	"github.com/nhle/campus-pocket/internal/model"
)

// Sink receives a copy of every delivered reminder.
type Sink interface {
	Deliver(ctx context.Context, n model.Notification) error
}

// MultiSink dispatches a reminder to multiple sinks.
type MultiSink []Sink

// Deliver forwards n to every sink and joins their errors.
func (m MultiSink) Deliver(ctx context.Context, n model.Notification) error {
	var errs []error
	for _, sink := range m {
		if sink == nil {
			continue
		}
		if err := sink.Deliver(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LogSink writes delivered reminders to the standard logger.
type LogSink struct{}

// Deliver logs n.
func (LogSink) Deliver(_ context.Context, n model.Notification) error {
	log.Printf("reminder %s for departure %s: %s", n.Handle, n.Payload, n.Body)
	return nil
}

// ChannelSink forwards delivered reminders to a channel, typically
// read by the TUI to show a toast. Reminders are dropped when the
// reader falls behind.
type ChannelSink struct {
	ch chan model.Notification
}

// NewChannelSink creates a ChannelSink with the given buffer size.
func NewChannelSink(buffer int) *ChannelSink {
	if buffer < 1 {
		buffer = 1
	}
	return &ChannelSink{ch: make(chan model.Notification, buffer)}
}

// C returns the channel reminders are sent on.
func (s *ChannelSink) C() <-chan model.Notification {
	return s.ch
}

// Deliver sends n without blocking.
func (s *ChannelSink) Deliver(_ context.Context, n model.Notification) error {
	select {
	case s.ch <- n:
	default:
		log.Printf("device: channel sink full, dropping reminder %s", n.Handle)
	}
	return nil
}
