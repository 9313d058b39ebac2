// Package departure derives the next and upcoming shuttle departures
// from a timetable snapshot and a reference time.
package departure

import (
	"log"
	"slices"
	"time"

	"github.com/nhle/campus-pocket/internal/model"
	"github.com/nhle/campus-pocket/internal/timeutil"
)

// NextDeparture returns the first departure for stop, in timetable order,
// that leaves at or after now's minute. It reports false once every
// departure for the stop has left today.
func NextDeparture(records []model.Departure, stop model.Stop, now time.Time) (model.Departure, bool) {
	cur := timeutil.MinutesOf(now)
	for _, r := range records {
		if r.Stop != stop {
			continue
		}
		m, ok := minutes(r)
		if !ok {
			continue
		}
		if m >= cur {
			return r, true
		}
	}
	return model.Departure{}, false
}

// Upcoming returns every departure leaving at or after now's minute,
// ascending by time, minus the next departure of each stop.
func Upcoming(records []model.Departure, now time.Time) []model.Departure {
	cur := timeutil.MinutesOf(now)

	next := make(map[string]bool)
	for _, stop := range stopsOf(records) {
		if r, ok := NextDeparture(records, stop, now); ok {
			next[r.ID] = true
		}
	}

	type entry struct {
		rec     model.Departure
		minutes int
	}
	var entries []entry
	for _, r := range records {
		if next[r.ID] {
			continue
		}
		m, ok := minutes(r)
		if !ok || m < cur {
			continue
		}
		entries = append(entries, entry{rec: r, minutes: m})
	}

	slices.SortStableFunc(entries, func(a, b entry) int {
		return a.minutes - b.minutes
	})

	out := make([]model.Departure, len(entries))
	for i, e := range entries {
		out[i] = e.rec
	}
	return out
}

// stopsOf returns the distinct stops of records in first-appearance order.
func stopsOf(records []model.Departure) []model.Stop {
	var stops []model.Stop
	seen := make(map[model.Stop]bool)
	for _, r := range records {
		if !seen[r.Stop] {
			seen[r.Stop] = true
			stops = append(stops, r.Stop)
		}
	}
	return stops
}

// minutes parses a departure's time, logging and skipping bad records.
func minutes(r model.Departure) (int, bool) {
	m, err := timeutil.MinutesSinceMidnight(r.Time)
	if err != nil {
		log.Printf("departure: skipping %s: %v", r.ID, err)
		return 0, false
	}
	return m, true
}
