// Package timeutil converts between HH:MM departure times, minute
// offsets and the labels shown on the departure board.
package timeutil

import (
	"fmt"
	"strconv"
	"time"
)

// FormatError reports a departure time that is not a valid HH:MM value.
type FormatError struct {
	Value  string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid time %q: %s", e.Value, e.Reason)
}

// Clock is a time of day with minute precision.
type Clock struct {
	Hour   int
	Minute int
}

// ParseClock parses a 24-hour "HH:MM" string.
func ParseClock(s string) (Clock, error) {
	if len(s) != 5 || s[2] != ':' {
		return Clock{}, &FormatError{Value: s, Reason: "want HH:MM"}
	}

	hour, err := parseDigits(s[:2])
	if err != nil {
		return Clock{}, &FormatError{Value: s, Reason: "hour is not numeric"}
	}
	minute, err := parseDigits(s[3:])
	if err != nil {
		return Clock{}, &FormatError{Value: s, Reason: "minute is not numeric"}
	}

	if hour > 23 {
		return Clock{}, &FormatError{Value: s, Reason: "hour out of range"}
	}
	if minute > 59 {
		return Clock{}, &FormatError{Value: s, Reason: "minute out of range"}
	}

	return Clock{Hour: hour, Minute: minute}, nil
}

// parseDigits accepts exactly two ASCII digits.
func parseDigits(s string) (int, error) {
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, strconv.ErrSyntax
		}
	}
	return strconv.Atoi(s)
}

// Minutes returns the number of minutes since midnight.
func (c Clock) Minutes() int {
	return c.Hour*60 + c.Minute
}

// String renders c back into HH:MM form.
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// On returns c on the calendar day of ref, in ref's location.
func (c Clock) On(ref time.Time) time.Time {
	y, m, d := ref.Date()
	return time.Date(y, m, d, c.Hour, c.Minute, 0, 0, ref.Location())
}

// MinutesSinceMidnight parses an HH:MM string into minutes since midnight.
func MinutesSinceMidnight(s string) (int, error) {
	c, err := ParseClock(s)
	if err != nil {
		return 0, err
	}
	return c.Minutes(), nil
}

// MinutesOf returns t's time of day in whole minutes since midnight.
func MinutesOf(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// On interprets s as today at HH:MM relative to now.
func On(s string, now time.Time) (time.Time, error) {
	c, err := ParseClock(s)
	if err != nil {
		return time.Time{}, err
	}
	return c.On(now), nil
}

// FormatTwelveHour converts a 24-hour HH:MM string into "h:mm AM/PM".
func FormatTwelveHour(s string) (string, error) {
	c, err := ParseClock(s)
	if err != nil {
		return "", err
	}
	return twelveHour(c.Hour, c.Minute), nil
}

// FormatClock renders the hour and minute of now in 12-hour form.
func FormatClock(now time.Time) string {
	return twelveHour(now.Hour(), now.Minute())
}

func twelveHour(hour, minute int) string {
	period := "AM"
	if hour >= 12 {
		period = "PM"
	}
	h := hour % 12
	if h == 0 {
		h = 12
	}
	return fmt.Sprintf("%d:%02d %s", h, minute, period)
}
