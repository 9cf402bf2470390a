package calendars

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/timetable-viewer/internal/backend"
	"github.com/timetable-viewer/internal/timetable"
	"github.com/timetable-viewer/internal/timetables"
)

type Service struct {
	timetablesService *timetables.Service
	location          *time.Location
}

func NewService(
	timetablesService *timetables.Service,
	location *time.Location,
) *Service {
	return &Service{
		timetablesService: timetablesService,
		location:          location,
	}
}

// WriteICal writes the meetings of one term of a block as an iCalendar
// feed. Unknown blocks and terms are reported as backend.ErrNotFound.
func (s *Service) WriteICal(ctx context.Context, w io.Writer, blockID, termID int, week time.Time, weeks int) error {
	data, err := s.timetablesService.BlockTimetable(ctx, blockID)
	if err != nil {
		return fmt.Errorf("block %d: %w", blockID, err)
	}
	for _, term := range data.Terms {
		if term.ID != termID {
			continue
		}
		meetings, err := term.Meetings()
		if err != nil {
			return fmt.Errorf("term %d meetings: %w", termID, err)
		}
		return Write(w, timetable.Expand(meetings), Options{
			Name:     fmt.Sprintf("%s %s", data.Block.Name, term.Name),
			Week:     week,
			Weeks:    weeks,
			Location: s.location,
			Stamp:    time.Now(),
		})
	}
	return fmt.Errorf("term %d: %w", termID, backend.ErrNotFound)
}
