package notify

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownDeparture is returned when no departure has the given ID.
	ErrUnknownDeparture = errors.New("unknown departure")

	// ErrToggleInFlight is returned when a departure is toggled again
	// before the previous device call has finished.
	ErrToggleInFlight = errors.New("reminder change already in progress")

	// ErrAlreadyPassed is returned when the reminder time for a departure
	// has already gone by today.
	ErrAlreadyPassed = errors.New("reminder time already passed")

	// ErrPermissionDenied is returned when the device does not allow
	// notifications.
	ErrPermissionDenied = errors.New("notifications not permitted")

	// ErrDeviceSchedule matches every *ScheduleError.
	ErrDeviceSchedule = errors.New("device could not schedule reminder")
)

// ScheduleError reports a failed device schedule call. The optimistic
// toggle has already been rolled back when it is returned.
type ScheduleError struct {
	ID  string
	Err error
}

func (e *ScheduleError) Error() string {
	return fmt.Sprintf("scheduling reminder for departure %s: %v", e.ID, e.Err)
}

func (e *ScheduleError) Unwrap() error { return e.Err }

// Is reports whether target is ErrDeviceSchedule.
func (e *ScheduleError) Is(target error) bool {
	return target == ErrDeviceSchedule
}
