package departure

import (
	"time"

	"github.com/nhle/campus-pocket/internal/model"
	"github.com/nhle/campus-pocket/internal/timeutil"
)

// ServiceEnded is shown on a stop card once the stop has no more
// departures today.
const ServiceEnded = "service ended"

// StopCard is the headline entry for one stop.
type StopCard struct {
	Stop      model.Stop
	Next      model.Departure
	HasNext   bool
	Countdown string
	// Departs is the 12-hour departure label, or "--:--" without a next
	// departure.
	Departs string
}

// Row is one entry of the upcoming list.
type Row struct {
	Departure model.Departure
	Departs   string
}

// Board is everything the departure screen renders for one instant.
type Board struct {
	Now      time.Time
	Clock    string
	Cards    []StopCard
	Upcoming []Row
}

// BuildBoard computes the board for records at now. The result depends
// only on its arguments.
func BuildBoard(records []model.Departure, stops []model.Stop, now time.Time, countdown timeutil.Countdown) Board {
	b := Board{
		Now:   now,
		Clock: timeutil.FormatClock(now),
	}

	for _, stop := range stops {
		card := StopCard{Stop: stop, Countdown: ServiceEnded, Departs: "--:--"}
		if r, ok := NextDeparture(records, stop, now); ok {
			card.Next = r
			card.HasNext = true
			if label, err := countdown.Label(r.Time, now); err == nil {
				card.Countdown = label
			}
			if departs, err := timeutil.FormatTwelveHour(r.Time); err == nil {
				card.Departs = departs
			}
		}
		b.Cards = append(b.Cards, card)
	}

	for _, r := range Upcoming(records, now) {
		departs, err := timeutil.FormatTwelveHour(r.Time)
		if err != nil {
			continue
		}
		b.Upcoming = append(b.Upcoming, Row{Departure: r, Departs: departs})
	}

	return b
}
