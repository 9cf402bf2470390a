package backend

import (
	"encoding/json"

	"github.com/timetable-viewer/internal/timetable"
)

// Term is one term of a block with its embedded course document.
type Term struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	// Courses is kept raw so that a malformed document only breaks its own
	// timetable.
	Courses json.RawMessage `json:"courses"`
}

// Meetings decodes the term's course document.
func (t Term) Meetings() ([]timetable.Meeting, error) {
	if len(t.Courses) == 0 {
		return nil, nil
	}
	return timetable.DecodeMeetings(t.Courses)
}

type Block struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Program string `json:"program,omitempty"`
	Ranking int    `json:"ranking"`
	Size    *int   `json:"size,omitempty"`
	Terms   []Term `json:"terms,omitempty"`
}

// BlockTimetable is the api/block/<id>/timetable/ document.
type BlockTimetable struct {
	Block Block  `json:"block"`
	Terms []Term `json:"terms"`
}

type Program struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Enrolled *int   `json:"enrolled"`
}

// ProgramData is the api/program/<id>/ document.
type ProgramData struct {
	Program Program `json:"program"`
	Blocks  []Block `json:"blocks"`
}

type Ranking struct {
	ID          int    `json:"id"`
	BlockName   string `json:"block_name"`
	ProgramName string `json:"program_name"`
	Ranking     int    `json:"ranking"`
	Size        *int   `json:"size,omitempty"`
}

type RankingsResponse struct {
	Rankings []Ranking `json:"rankings"`
}

// Stats is the api/stats/ document.
type Stats struct {
	TotalPrograms  int `json:"total_programs"`
	TotalEnrolled  int `json:"total_enrolled"`
	TotalBlocks    int `json:"total_blocks"`
	TotalScheduled int `json:"total_scheduled"`
	UniqueCourses  int `json:"unique_courses"`
	AvgRanking     int `json:"avg_ranking"`
}

// ActionResult is the response of the generate and rank actions.
type ActionResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Log     string `json:"log,omitempty"`
	Message string `json:"message,omitempty"`
}
