package testutil

import (
	"testing"
	"time"

	"github.com/nhle/campus-pocket/internal/device"
)

// NewTestCenter creates an in-memory notification center with all
// migrations applied. It automatically closes the center when the test
// completes.
func NewTestCenter(t *testing.T, opts ...device.Option) *device.Center {
	t.Helper()

	c, err := device.Open(":memory:", opts...)
	if err != nil {
		t.Fatalf("creating test center: %v", err)
	}

	t.Cleanup(func() {
		if err := c.Close(); err != nil {
			t.Errorf("closing test center: %v", err)
		}
	})

	return c
}

// FixedClock always reports the same instant.
type FixedClock struct {
	T time.Time
}

// Now returns c.T.
func (c FixedClock) Now() time.Time { return c.T }

// At returns a FixedClock at hh:mm:ss on an arbitrary fixed day in UTC.
func At(hour, min, sec int) FixedClock {
	return FixedClock{T: time.Date(2026, 3, 2, hour, min, sec, 0, time.UTC)}
}
