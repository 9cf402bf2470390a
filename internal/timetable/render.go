package timetable

import (
	"log/slog"

	"github.com/timetable-viewer/internal/metrics"
)

type Status uint

const (
	StatusRendered Status = iota
	StatusEmpty
	StatusInvalid
)

func (s Status) String() string {
	switch s {
	case StatusRendered:
		return "rendered"
	case StatusEmpty:
		return "empty"
	case StatusInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

const (
	EmptyMessage   = "No courses scheduled."
	InvalidMessage = "Could not render timetable."
)

// Timetable is the result of one render call.
type Timetable struct {
	Status Status
	Grid   *Grid
	Events []Event
	// Placed is the number of events that produced a block.
	Placed int
	// Err is set when Status is StatusInvalid.
	Err error
}

// Message returns the placeholder text, or "" for a rendered grid.
func (t *Timetable) Message() string {
	switch t.Status {
	case StatusEmpty:
		return EmptyMessage
	case StatusInvalid:
		return InvalidMessage
	default:
		return ""
	}
}

func (t *Timetable) Rendered() bool {
	return t.Status == StatusRendered
}

// Renderer renders timetables for one render session. Every timetable it
// renders shares the session palette.
type Renderer struct {
	logger   *slog.Logger
	palette  *Palette
	measurer Measurer
}

func NewRenderer(logger *slog.Logger, palette *Palette, measurer Measurer) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	if palette == nil {
		palette = NewPalette()
	}
	if measurer == nil {
		measurer = FixedHeight(DefaultSlotHeight)
	}
	return &Renderer{
		logger:   logger,
		palette:  palette,
		measurer: measurer,
	}
}

func (r *Renderer) Palette() *Palette {
	return r.palette
}

// RenderJSON decodes an embedded course document and renders it. A
// document that cannot be decoded yields a StatusInvalid timetable.
func (r *Renderer) RenderJSON(data []byte) *Timetable {
	meetings, err := DecodeMeetings(data)
	if err != nil {
		r.logger.Error("parse timetable data", "error", err)
		metrics.TrackRender(StatusInvalid.String(), 0)
		return &Timetable{Status: StatusInvalid, Err: err}
	}
	return r.Render(meetings)
}

// Render runs the render pipeline: the grid skeleton is built and
// attached first, then cells are measured and the blocks positioned.
func (r *Renderer) Render(meetings []Meeting) *Timetable {
	if len(meetings) == 0 {
		metrics.TrackRender(StatusEmpty.String(), 0)
		return &Timetable{Status: StatusEmpty}
	}
	t := r.attach(meetings)
	t.Placed = Position(t.Grid, t.Events, r.palette, r.measurer)
	r.logger.Debug("rendered timetable",
		"meetings", len(meetings),
		"events", len(t.Events),
		"placed", t.Placed)
	metrics.TrackRender(t.Status.String(), t.Placed)
	return t
}

func (r *Renderer) attach(meetings []Meeting) *Timetable {
	return &Timetable{
		Status: StatusRendered,
		Grid:   NewGrid(),
		Events: Expand(meetings),
	}
}
