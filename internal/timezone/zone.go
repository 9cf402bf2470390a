package timezone

import (
	"fmt"
	"time"
	// Course zones resolve on hosts without zoneinfo.
	_ "time/tzdata"
)

// Default is the zone course times are given in when none is configured.
const Default = "America/Toronto"

func Load(zone string) (*time.Location, error) {
	if zone == "" {
		zone = Default
	}
	location, err := time.LoadLocation(zone)
	if err != nil {
		return nil, fmt.Errorf("load location %q: %w", zone, err)
	}
	return location, nil
}

func MustLoad(zone string) *time.Location {
	location, err := Load(zone)
	if err != nil {
		panic(err)
	}
	return location
}

// In returns t's wall clock time in location.
func In(t time.Time, location *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), location)
}

// StartOfWeek returns midnight of the Monday of t's week, in location.
func StartOfWeek(t time.Time, location *time.Location) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, location)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// At returns the time minutes after midnight of day.
func At(day time.Time, minutes int) time.Time {
	return In(time.Date(day.Year(), day.Month(), day.Day(), minutes/60, minutes%60, 0, 0, time.UTC), day.Location())
}
