// Package terminal renders timetables as text grids.
package terminal

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/timetable-viewer/internal/timetable"
)

const (
	labelWidth = 5
	cellWidth  = 12
	// Continuation marks the rows a block covers below its first two.
	Continuation = "┊"
)

// Colors are the terminal counterparts of the tt-course-N classes.
var Colors = [timetable.PaletteSize]lipgloss.Color{
	"#818cf8", "#34d399", "#f472b6", "#fbbf24", "#60a5fa", "#a78bfa",
	"#f87171", "#2dd4bf", "#fb923c", "#c084fc", "#38bdf8", "#4ade80",
}

type Options struct {
	// Color paints blocks with their palette colour.
	Color bool
}

type Renderer struct {
	w      io.Writer
	opts   Options
	header lipgloss.Style
	label  lipgloss.Style
	cell   lipgloss.Style
}

func NewRenderer(w io.Writer, opts Options) *Renderer {
	r := lipgloss.NewRenderer(w)
	return &Renderer{
		w:      w,
		opts:   opts,
		header: r.NewStyle().Bold(true).Width(cellWidth),
		label:  r.NewStyle().Faint(true).Width(labelWidth),
		cell:   r.NewStyle().Width(cellWidth),
	}
}

type paint struct {
	text  string
	color int
}

// Render writes t. Placeholders are written as they are.
func (r *Renderer) Render(t *timetable.Timetable) error {
	if !t.Rendered() {
		_, err := fmt.Fprintln(r.w, t.Message())
		return err
	}

	var cells [timetable.TotalSlots][timetable.Days]*paint
	for _, block := range t.Grid.Blocks() {
		first, last := block.Rows()
		color := colorIndex(block.ColorClass)
		for slot := first; slot < last; slot++ {
			var text string
			switch slot - first {
			case 0:
				text = block.Event.Code
			case 1:
				text = sectionLabel(block.Event)
			default:
				text = Continuation
			}
			cells[slot][block.Event.Day] = &paint{text: text, color: color}
		}
	}

	var b strings.Builder
	b.WriteString(r.label.Render("Time"))
	for _, day := range timetable.DayNames {
		b.WriteString(" │ ")
		b.WriteString(r.header.Render(day))
	}
	b.WriteString("\n")
	for slot, row := range t.Grid.Rows {
		b.WriteString(r.label.Render(row.Label))
		for day := range timetable.Days {
			b.WriteString(" │ ")
			b.WriteString(r.renderCell(cells[slot][day]))
		}
		b.WriteString("\n")
	}
	_, err := io.WriteString(r.w, b.String())
	return err
}

func (r *Renderer) renderCell(p *paint) string {
	if p == nil {
		return r.cell.Render("")
	}
	style := r.cell
	if r.opts.Color && p.color > 0 {
		style = style.Foreground(lipgloss.Color("#111827")).Background(Colors[p.color-1])
	}
	return style.Render(truncate(p.text, cellWidth))
}

func sectionLabel(e timetable.Event) string {
	if e.Type == "" {
		return e.Section
	}
	return e.Section + "·" + e.Type
}

func colorIndex(class string) int {
	i, err := strconv.Atoi(strings.TrimPrefix(class, "tt-course-"))
	if err != nil || i < 1 || i > timetable.PaletteSize {
		return 0
	}
	return i
}

func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-1]) + "…"
}
