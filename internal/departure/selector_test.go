package departure

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/campus-pocket/internal/model"
	"github.com/nhle/campus-pocket/internal/timetable"
	"github.com/nhle/campus-pocket/internal/timeutil"
)

func at(h, m, s int) time.Time {
	return time.Date(2026, 3, 2, h, m, s, 0, time.Local)
}

func ids(records []model.Departure) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func TestNextDepartureScenario(t *testing.T) {
	records := []model.Departure{{ID: "A", Stop: model.StopLibrary, Time: "09:00"}}

	got, ok := NextDeparture(records, model.StopLibrary, at(8, 55, 0))
	require.True(t, ok)
	assert.Equal(t, "A", got.ID)

	label, err := timeutil.CountdownLabel(got.Time, at(8, 55, 0))
	require.NoError(t, err)
	assert.Equal(t, "5 min 0 sec", label)

	label, err = timeutil.CountdownLabel(got.Time, at(8, 59, 30))
	require.NoError(t, err)
	assert.Equal(t, timeutil.LabelDepartingNow, label)
}

func TestNextDepartureSameMinuteStillCounts(t *testing.T) {
	records := []model.Departure{{ID: "A", Stop: model.StopLibrary, Time: "09:00"}}

	got, ok := NextDeparture(records, model.StopLibrary, at(9, 0, 45))
	require.True(t, ok)
	assert.Equal(t, "A", got.ID)

	_, ok = NextDeparture(records, model.StopLibrary, at(9, 1, 0))
	assert.False(t, ok, "no rollover to the next day")
}

func TestNextDepartureUsesTimetableOrder(t *testing.T) {
	records := []model.Departure{
		{ID: "late", Stop: model.StopLibrary, Time: "10:00"},
		{ID: "early", Stop: model.StopLibrary, Time: "09:30"},
	}

	got, ok := NextDeparture(records, model.StopLibrary, at(9, 0, 0))
	require.True(t, ok)
	assert.Equal(t, "late", got.ID)
}

func TestNextDepartureSkipsMalformed(t *testing.T) {
	records := []model.Departure{
		{ID: "bad", Stop: model.StopLibrary, Time: "9:5"},
		{ID: "good", Stop: model.StopLibrary, Time: "09:50"},
	}

	got, ok := NextDeparture(records, model.StopLibrary, at(9, 0, 0))
	require.True(t, ok)
	assert.Equal(t, "good", got.ID)
	assert.NotContains(t, ids(Upcoming(records, at(0, 0, 0))), "bad")
}

func TestUpcomingExcludesNextPerStop(t *testing.T) {
	records := timetable.Default().All()

	got := Upcoming(records, at(9, 10, 0))
	// Next Library is 09:30 (id 3), next Engineering is 09:15 (id 2).
	assert.Equal(t, []string{"4", "5", "6", "7", "8"}, ids(got)[:5])
	assert.NotContains(t, ids(got), "2")
	assert.NotContains(t, ids(got), "3")
}

func TestUpcomingSortsByTime(t *testing.T) {
	records := []model.Departure{
		{ID: "n1", Stop: model.StopLibrary, Time: "09:00"},
		{ID: "x", Stop: model.StopLibrary, Time: "11:00"},
		{ID: "n2", Stop: model.StopEngineering, Time: "09:05"},
		{ID: "y", Stop: model.StopEngineering, Time: "10:00"},
		{ID: "z", Stop: model.StopLibrary, Time: "10:00"},
	}

	assert.Equal(t, []string{"y", "z", "x"}, ids(Upcoming(records, at(8, 0, 0))))
}

func TestUpcomingEmptyAfterService(t *testing.T) {
	assert.Empty(t, Upcoming(timetable.Default().All(), at(23, 0, 0)))
}

func TestSelectorPropertiesOverWholeDay(t *testing.T) {
	store := timetable.Default()
	records := store.All()
	stops := store.Stops()

	for minute := 0; minute < 24*60; minute++ {
		now := at(minute/60, minute%60, 17)
		cur := timeutil.MinutesOf(now)

		next := make(map[string]bool)
		for _, stop := range stops {
			r, ok := NextDeparture(records, stop, now)
			if !ok {
				for _, other := range records {
					if other.Stop == stop {
						m, _ := timeutil.MinutesSinceMidnight(other.Time)
						require.Less(t, m, cur)
					}
				}
				continue
			}
			m, err := timeutil.MinutesSinceMidnight(r.Time)
			require.NoError(t, err)
			require.GreaterOrEqual(t, m, cur)
			next[r.ID] = true

			// Nothing earlier in timetable order qualifies.
			for _, other := range records {
				if other.ID == r.ID {
					break
				}
				if other.Stop != stop {
					continue
				}
				om, _ := timeutil.MinutesSinceMidnight(other.Time)
				require.Less(t, om, cur)
			}
		}

		up := Upcoming(records, now)
		prev := -1
		for _, r := range up {
			require.False(t, next[r.ID], "upcoming duplicates next departure %s at %s", r.ID, now)
			m, _ := timeutil.MinutesSinceMidnight(r.Time)
			require.GreaterOrEqual(t, m, cur)
			require.GreaterOrEqual(t, m, prev)
			prev = m
		}

		require.Equal(t, up, Upcoming(records, now), "upcoming must be idempotent")
	}
}
