package timeutil

import (
	"fmt"
	"time"
)

// Countdown labels.
const (
	LabelDepartingNow = "departing now"
	LabelNotYetActive = "not yet active"
)

// DefaultActiveWindow is how far ahead of a departure the minute and
// second countdown is shown.
const DefaultActiveWindow = 20 * time.Minute

// Countdown renders the time left until a departure.
type Countdown struct {
	// ActiveWindow is the largest remaining time rendered as a countdown.
	// Zero means DefaultActiveWindow.
	ActiveWindow time.Duration
}

// Label returns the countdown label for a departure at s (today) as seen
// at now. The result only depends on its arguments.
func (c Countdown) Label(s string, now time.Time) (string, error) {
	dep, err := On(s, now)
	if err != nil {
		return "", err
	}

	window := c.ActiveWindow
	if window <= 0 {
		window = DefaultActiveWindow
	}

	diff := int64(dep.Sub(now) / time.Second)

	switch {
	case diff < 60:
		return LabelDepartingNow, nil
	case time.Duration(diff)*time.Second > window:
		return LabelNotYetActive, nil
	default:
		return fmt.Sprintf("%d min %d sec", diff/60, diff%60), nil
	}
}

// CountdownLabel is Countdown{}.Label with the default active window.
func CountdownLabel(s string, now time.Time) (string, error) {
	return Countdown{}.Label(s, now)
}
