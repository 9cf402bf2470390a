// Package courses builds the course list shown under each timetable.
package courses

import (
	"math"
	"strconv"

	"github.com/timetable-viewer/internal/timetable"
)

type EnrollmentStatus string

const (
	EnrollmentOK   EnrollmentStatus = "ok"
	EnrollmentWarn EnrollmentStatus = "warn"
	EnrollmentFull EnrollmentStatus = "full"
)

type Row struct {
	Code      string
	Section   string
	Type      string
	Days      string
	StartTime string
	EndTime   string
	Enrolled  int
	// Capacity is "?" when the backend does not know it.
	Capacity string
	// EnrollmentPct is capped at 100.
	EnrollmentPct    int
	EnrollmentStatus EnrollmentStatus
}

// Rows returns one table row per meeting, in meeting order.
func Rows(meetings []timetable.Meeting) []Row {
	rows := make([]Row, 0, len(meetings))
	for _, m := range meetings {
		rows = append(rows, newRow(m))
	}
	return rows
}

func newRow(m timetable.Meeting) Row {
	row := Row{
		Code:      string(m.Code),
		Section:   string(m.Section),
		Type:      orNA(string(m.Type)),
		Days:      orNA(string(m.Days)),
		StartTime: FormatRaw(string(m.StartTime)),
		EndTime:   FormatRaw(string(m.EndTime)),
		Capacity:  "?",
	}
	if m.Enrolled != nil {
		row.Enrolled = *m.Enrolled
	}
	pct := 0
	if m.Capacity != nil && *m.Capacity > 0 {
		row.Capacity = strconv.Itoa(*m.Capacity)
		pct = int(math.RoundToEven(float64(row.Enrolled) / float64(*m.Capacity) * 100))
	}
	switch {
	case pct >= 95:
		row.EnrollmentStatus = EnrollmentFull
	case pct >= 75:
		row.EnrollmentStatus = EnrollmentWarn
	default:
		row.EnrollmentStatus = EnrollmentOK
	}
	row.EnrollmentPct = min(pct, 100)
	return row
}

// FormatRaw formats a backend time such as "0835" or "835" as "08:35".
// Values shorter than three characters are blank.
func FormatRaw(t string) string {
	if len(t) < 3 {
		return ""
	}
	if len(t) == 3 {
		t = "0" + t
	}
	return t[:2] + ":" + t[2:]
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
