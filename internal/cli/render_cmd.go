package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/timetable-viewer/internal/config"
	"github.com/timetable-viewer/internal/http/templates"
	"github.com/timetable-viewer/internal/terminal"
	"github.com/timetable-viewer/internal/timetable"
)

const (
	formatHTML = "html"
	formatText = "text"
)

func newRenderCmd() *cobra.Command {
	var (
		format     string
		slotHeight float64
		color      string
		logLevel   string
	)
	cmd := &cobra.Command{
		Use:   "render [FILE|-]",
		Short: "Render a course document as a timetable",
		Long: "Render a JSON array of course meetings as a weekly timetable.\n" +
			"The html format writes the contents of a timetable container, the\n" +
			"text format a grid for the terminal.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadEnv(cmd.Flags()); err != nil {
				return err
			}
			level, err := parseLevel(logLevel)
			if err != nil {
				return err
			}
			data, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			logger := newLogger(cmd.ErrOrStderr(), level)
			renderer := timetable.NewRenderer(logger, timetable.NewPalette(), timetable.FixedHeight(slotHeight))
			t := renderer.RenderJSON(data)

			out := cmd.OutOrStdout()
			switch format {
			case formatHTML:
				return templates.NewEmbedTemplates().RenderTimetable(out, t)
			case formatText:
				useColor := false
				switch color {
				case "always":
					useColor = true
				case "auto":
					useColor = isTerminal(out)
				case "never":
				default:
					return fmt.Errorf("unknown color mode %q", color)
				}
				return terminal.NewRenderer(out, terminal.Options{Color: useColor}).Render(t)
			default:
				return fmt.Errorf("unknown format %q", format)
			}
		},
	}
	cmd.Flags().StringVar(&format, "format", formatText, "output format (html, text)")
	cmd.Flags().Float64Var(&slotHeight, "slot-height", timetable.DefaultSlotHeight, "rendered height of a timetable row in pixels")
	cmd.Flags().StringVar(&color, "color", "auto", "colour text output (auto, always, never)")
	cmd.Flags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	return cmd
}
