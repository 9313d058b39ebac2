// Package timetable holds the shuttle timetable and the per-departure
// reminder state.
package timetable

import (
	"iter"
	"slices"
	gosync "sync"

	"github.com/nhle/campus-pocket/internal/model"
)

// Store is the canonical, ordered set of departures. The departures
// themselves never change; only their reminder fields do, and only
// through SetNotifyState and ClearAll.
type Store struct {
	mu      gosync.RWMutex
	records []model.Departure
	index   map[string]int
}

// New creates a store holding a copy of records in the given order.
// Reminder fields on the input are discarded.
func New(records []model.Departure) *Store {
	s := &Store{
		records: make([]model.Departure, len(records)),
		index:   make(map[string]int, len(records)),
	}
	for i, r := range records {
		r.NotifyEnabled = false
		r.Handle = ""
		s.records[i] = r
		s.index[r.ID] = i
	}
	return s
}

// Default creates a store with the built-in campus shuttle timetable.
func Default() *Store {
	return New(shuttleSchedule)
}

// All returns a snapshot of every departure in timetable order.
func (s *Store) All() []model.Departure {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.records)
}

// ByStop yields the departures for stop in timetable order. Each value
// is read when it is yielded.
func (s *Store) ByStop(stop model.Stop) iter.Seq[model.Departure] {
	return func(yield func(model.Departure) bool) {
		s.mu.RLock()
		n := len(s.records)
		s.mu.RUnlock()

		for i := 0; i < n; i++ {
			s.mu.RLock()
			r := s.records[i]
			s.mu.RUnlock()

			if r.Stop != stop {
				continue
			}
			if !yield(r) {
				return
			}
		}
	}
}

// Get returns the departure with the given ID.
func (s *Store) Get(id string) (model.Departure, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	if !ok {
		return model.Departure{}, false
	}
	return s.records[i], true
}

// Stops returns the distinct stops in order of first appearance.
func (s *Store) Stops() []model.Stop {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var stops []model.Stop
	seen := make(map[model.Stop]bool)
	for _, r := range s.records {
		if seen[r.Stop] {
			continue
		}
		seen[r.Stop] = true
		stops = append(stops, r.Stop)
	}
	return stops
}

// SetNotifyState replaces the reminder fields of the departure with the
// given ID. Unknown IDs are ignored. A disabled departure never keeps a
// handle.
func (s *Store) SetNotifyState(id string, enabled bool, handle string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return
	}
	if !enabled {
		handle = ""
	}

	r := s.records[i]
	r.NotifyEnabled = enabled
	r.Handle = handle
	s.records[i] = r
}

// ClearAll turns every reminder off.
func (s *Store) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.records {
		s.records[i].NotifyEnabled = false
		s.records[i].Handle = ""
	}
}

// Handles returns the device handles currently remembered, in
// timetable order.
func (s *Store) Handles() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var handles []string
	for _, r := range s.records {
		if r.Handle != "" {
			handles = append(handles, r.Handle)
		}
	}
	return handles
}
