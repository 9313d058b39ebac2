package timetable

import (
	"log"

	"github.com/nhle/campus-pocket/internal/model"
	"github.com/nhle/campus-pocket/internal/timeutil"
)

// Row is one line of a stop's full timetable: a morning departure next
// to an afternoon one. Either side may be empty.
type Row struct {
	AM string
	PM string
}

// Rows lays out a stop's departures in two columns, morning (before
// noon) and afternoon, padded to the longer column.
func (s *Store) Rows(stop model.Stop) []Row {
	var am, pm []string
	for r := range s.ByStop(stop) {
		c, err := timeutil.ParseClock(r.Time)
		if err != nil {
			log.Printf("timetable: skipping departure %s: %v", r.ID, err)
			continue
		}
		if c.Hour < 12 {
			am = append(am, r.Time)
		} else {
			pm = append(pm, r.Time)
		}
	}

	rows := make([]Row, max(len(am), len(pm)))
	for i := range rows {
		if i < len(am) {
			rows[i].AM = am[i]
		}
		if i < len(pm) {
			rows[i].PM = pm[i]
		}
	}
	return rows
}
