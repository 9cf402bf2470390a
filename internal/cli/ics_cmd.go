package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/timetable-viewer/internal/calendars"
	"github.com/timetable-viewer/internal/config"
	"github.com/timetable-viewer/internal/timetable"
	"github.com/timetable-viewer/internal/timezone"
)

func newICSCmd() *cobra.Command {
	var (
		week  string
		weeks int
		zone  string
		name  string
	)
	cmd := &cobra.Command{
		Use:   "ics [FILE|-]",
		Short: "Export a course document as an iCalendar feed",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadEnv(cmd.Flags()); err != nil {
				return err
			}
			location, err := timezone.Load(zone)
			if err != nil {
				return err
			}
			start := time.Now()
			if week != "" {
				start, err = time.ParseInLocation(time.DateOnly, week, location)
				if err != nil {
					return fmt.Errorf("week: %w", err)
				}
			}
			if weeks < 1 {
				return fmt.Errorf("weeks must be positive, got %d", weeks)
			}

			data, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			meetings, err := timetable.DecodeMeetings(data)
			if err != nil {
				return fmt.Errorf("decode courses: %w", err)
			}

			return calendars.Write(cmd.OutOrStdout(), timetable.Expand(meetings), calendars.Options{
				Name:     name,
				Week:     start,
				Weeks:    weeks,
				Location: location,
				Stamp:    time.Now(),
			})
		},
	}
	cmd.Flags().StringVar(&week, "week", "", "any day of the first week of classes (YYYY-MM-DD), this week if empty")
	cmd.Flags().IntVar(&weeks, "weeks", calendars.DefaultWeeks, "number of weekly occurrences")
	cmd.Flags().StringVar(&zone, "tz", timezone.Default, "time zone of course times")
	cmd.Flags().StringVar(&name, "name", "", "calendar name")
	return cmd
}
