// Package export writes a stop's timetable as an iCalendar file.
package export

import (
	"fmt"
	"io"
	"log"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/nhle/campus-pocket/internal/model"
	"github.com/nhle/campus-pocket/internal/timeutil"
)

// Options controls the generated calendar.
type Options struct {
	// From is the first day of the recurring events. Its location is
	// the time zone departures are interpreted in. Defaults to today.
	From time.Time

	// Lead is how long before departure the alarm fires. Zero disables
	// alarms.
	Lead time.Duration

	// Length is the duration of each event. Defaults to five minutes.
	Length time.Duration
}

const defaultLength = 5 * time.Minute

// WriteICS writes one daily recurring event per departure at stop.
// Departures with malformed times are skipped.
func WriteICS(w io.Writer, records []model.Departure, stop model.Stop, opts Options) error {
	from := opts.From
	if from.IsZero() {
		from = time.Now()
	}
	length := opts.Length
	if length <= 0 {
		length = defaultLength
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//campuspocket//shuttle timetable//EN")
	cal.SetName(fmt.Sprintf("Shuttle from %s", stop))

	stamp := time.Now()
	for _, r := range records {
		if r.Stop != stop {
			continue
		}

		start, err := timeutil.On(r.Time, from)
		if err != nil {
			log.Printf("export: skipping departure %s: %v", r.ID, err)
			continue
		}

		event := cal.AddEvent(fmt.Sprintf("departure-%s@campuspocket", r.ID))
		event.SetDtStampTime(stamp)
		event.SetStartAt(start)
		event.SetEndAt(start.Add(length))
		event.SetSummary(fmt.Sprintf("Shuttle from %s", r.Stop))
		event.SetLocation(string(r.Stop))
		event.SetDescription(fmt.Sprintf("Departs %s at %s.", r.Stop, r.Time))
		event.AddProperty(ics.ComponentPropertyRrule, "FREQ=DAILY")

		if opts.Lead > 0 {
			alarm := event.AddAlarm()
			alarm.SetAction(ics.ActionDisplay)
			alarm.SetTrigger(trigger(opts.Lead))
			alarm.SetProperty(ics.ComponentPropertyDescription, "Bus departure reminder")
		}
	}

	return cal.SerializeTo(w)
}

// trigger renders a negative duration relative to the event start,
// e.g. -PT3M.
func trigger(lead time.Duration) string {
	if lead%time.Minute == 0 {
		return fmt.Sprintf("-PT%dM", int(lead/time.Minute))
	}
	return fmt.Sprintf("-PT%dS", int(lead/time.Second))
}
