package model

// Stop identifies a named shuttle departure point.
type Stop string

const (
	StopLibrary     Stop = "Library"
	StopEngineering Stop = "Engineering"
)

// Departure is one scheduled shuttle departure together with its
// local reminder state.
type Departure struct {
	// ID is the stable identifier of this departure within the timetable.
	ID string `json:"id"`

	// Stop is where the shuttle leaves from.
	Stop Stop `json:"stop"`

	// Time is the departure time of day in 24-hour HH:MM form.
	// There is no date component; it applies to every day.
	Time string `json:"time"`

	// NotifyEnabled reports whether the user asked to be reminded.
	NotifyEnabled bool `json:"notify_enabled"`

	// Handle is the device notification handle, set only while a
	// reminder is scheduled on the device.
	Handle string `json:"handle,omitempty"`
}

// HasHandle reports whether a device reminder is pending for d.
func (d Departure) HasHandle() bool {
	return d.Handle != ""
}
