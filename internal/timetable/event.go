package timetable

const (
	StartHour   = 8
	EndHour     = 22
	SlotMinutes = 30
	// TotalSlots is the number of grid rows between StartHour and EndHour.
	TotalSlots = (EndHour - StartHour) * 60 / SlotMinutes
	Days       = 5
)

var DayNames = [Days]string{"Mon", "Tue", "Wed", "Thu", "Fri"}

var dayIndex = map[rune]int{
	'M': 0,
	'T': 1,
	'W': 2,
	'R': 3,
	'F': 4,
}

// Event is the per-day expansion of a meeting.
type Event struct {
	Code    string
	Section string
	Type    string
	// Day is 0 for Monday through 4 for Friday.
	Day int
	// StartSlot and EndSlot are fractional offsets from StartHour in slots.
	StartSlot float64
	EndSlot   float64
	// StartMinute and EndMinute are minutes since midnight.
	StartMinute int
	EndMinute   int
}

// Tooltip returns "<code> <section> (<type>) <start>-<end>".
func (e Event) Tooltip() string {
	return e.Code + " " + e.Section + " (" + e.Type + ") " + FormatTime(e.StartMinute) + "-" + FormatTime(e.EndMinute)
}

func slotOffset(minutes int) float64 {
	return float64(minutes-StartHour*60) / SlotMinutes
}

// Expand turns meetings into events, one per recognised day letter, in
// meeting order and then day-letter order. Meetings without days or times
// are skipped and unknown day letters are dropped.
func Expand(meetings []Meeting) []Event {
	var events []Event
	for _, m := range meetings {
		if !m.Scheduled() {
			continue
		}
		start := ParseTime(string(m.StartTime))
		end := ParseTime(string(m.EndTime))
		for _, d := range string(m.Days) {
			day, ok := dayIndex[d]
			if !ok {
				continue
			}
			events = append(events, Event{
				Code:        string(m.Code),
				Section:     string(m.Section),
				Type:        string(m.Type),
				Day:         day,
				StartSlot:   slotOffset(start),
				EndSlot:     slotOffset(end),
				StartMinute: start,
				EndMinute:   end,
			})
		}
	}
	return events
}
