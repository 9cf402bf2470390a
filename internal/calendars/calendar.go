package calendars

import (
	"fmt"
	"io"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/timetable-viewer/internal/timetable"
	"github.com/timetable-viewer/internal/timezone"
)

// DefaultWeeks is the number of weekly occurrences of a term's meetings.
const DefaultWeeks = 13

type Options struct {
	Name string
	// Week is any day of the first week of classes.
	Week     time.Time
	Weeks    int
	Location *time.Location
	// Stamp is written as DTSTAMP of every event.
	Stamp time.Time
}

// Write serializes events as weekly recurring iCalendar events, starting in
// the week of opts.Week.
func Write(w io.Writer, events []timetable.Event, opts Options) error {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Weeks < 1 {
		opts.Weeks = DefaultWeeks
	}
	monday := timezone.StartOfWeek(opts.Week, opts.Location)

	icalendar := ics.NewCalendar()
	icalendar.SetMethod(ics.MethodPublish)
	if opts.Name != "" {
		icalendar.SetName(opts.Name)
	}
	if opts.Location != time.UTC {
		icalendar.SetXWRTimezone(opts.Location.String())
	}
	for _, event := range events {
		day := monday.AddDate(0, 0, event.Day)
		ievent := icalendar.AddEvent(uid(event))
		ievent.SetSummary(summary(event))
		ievent.SetDescription(event.Tooltip())
		ievent.SetDtStampTime(opts.Stamp)
		setTime(ievent, ics.ComponentPropertyDtStart, timezone.At(day, event.StartMinute))
		setTime(ievent, ics.ComponentPropertyDtEnd, timezone.At(day, event.EndMinute))
		ievent.AddProperty(ics.ComponentPropertyRrule, fmt.Sprintf("FREQ=WEEKLY;COUNT=%d", opts.Weeks))
	}
	return icalendar.SerializeTo(w)
}

// setTime writes t as local wall time with its zone, so that weekly
// recurrences keep their hour across daylight saving changes. UTC times are
// written in UTC form.
func setTime(event *ics.VEvent, property ics.ComponentProperty, t time.Time) {
	if t.Location() == time.UTC {
		event.SetProperty(property, t.Format(utcFormat))
		return
	}
	event.SetProperty(property, t.Format(localFormat), &ics.KeyValues{
		Key:   string(ics.ParameterTzid),
		Value: []string{t.Location().String()},
	})
}

const (
	utcFormat   = "20060102T150405Z"
	localFormat = "20060102T150405"
)

func summary(event timetable.Event) string {
	if event.Type == "" {
		return fmt.Sprintf("%s %s", event.Code, event.Section)
	}
	return fmt.Sprintf("%s %s (%s)", event.Code, event.Section, event.Type)
}

func uid(event timetable.Event) string {
	id := fmt.Sprintf("%s-%s-%d-%d", event.Code, event.Section, event.Day, event.StartMinute)
	return strings.ReplaceAll(id, " ", "") + "@timetable"
}
