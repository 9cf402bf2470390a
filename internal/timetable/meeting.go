package timetable

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Text is a string field of the embedded course document. The backend
// writes times as strings, but numbers and null are accepted as well.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*t = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("text: %w", err)
		}
		*t = Text(n.String())
	}
	return nil
}

func (t Text) String() string {
	return string(t)
}

// Meeting is one course section's recurring weekly time block.
type Meeting struct {
	Code      Text `json:"code"`
	Section   Text `json:"section"`
	Type      Text `json:"type"`
	Days      Text `json:"days"`
	StartTime Text `json:"start_time"`
	EndTime   Text `json:"end_time"`

	// Enrolled and Capacity are only used by the course list table.
	Enrolled *int `json:"enrolled,omitempty"`
	Capacity *int `json:"capacity,omitempty"`
}

// Scheduled reports whether the meeting has days and both times.
func (m Meeting) Scheduled() bool {
	return m.Days != "" && m.StartTime != "" && m.EndTime != ""
}

// DecodeMeetings parses the embedded course document, a JSON array of
// meeting objects. A null document decodes to no meetings. Array elements
// that are not objects decode to unscheduled meetings, so they still count
// as courses but place no block. A null element is rejected along with any
// document that is not an array.
func DecodeMeetings(data []byte) ([]Meeting, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode courses: %w", err)
	}
	meetings := make([]Meeting, 0, len(raw))
	for i, element := range raw {
		element = bytes.TrimSpace(element)
		switch {
		case bytes.Equal(element, []byte("null")):
			return nil, fmt.Errorf("courses[%d]: null course", i)
		case len(element) == 0 || element[0] != '{':
			meetings = append(meetings, Meeting{})
			continue
		}
		var m Meeting
		if err := json.Unmarshal(element, &m); err != nil {
			return nil, fmt.Errorf("courses[%d]: %w", i, err)
		}
		meetings = append(meetings, m)
	}
	return meetings, nil
}
