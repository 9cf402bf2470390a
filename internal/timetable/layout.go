package timetable

import "math"

const (
	// DefaultSlotHeight is used when a cell cannot be measured.
	DefaultSlotHeight = 48
	MinBlockHeight    = 18
	// BlockGap separates vertically adjacent blocks.
	BlockGap = 2
)

// Measurer reports the rendered height of one slot at cell. A non-positive
// height means the cell could not be measured.
type Measurer interface {
	SlotHeight(cell *Cell) float64
}

// FixedHeight measures every cell with the same configured height.
type FixedHeight float64

func (h FixedHeight) SlotHeight(*Cell) float64 {
	return float64(h)
}

// MeasureFunc adapts a function to Measurer.
type MeasureFunc func(cell *Cell) float64

func (f MeasureFunc) SlotHeight(cell *Cell) float64 {
	return f(cell)
}

// Block is a course overlay positioned inside the cell of its start slot.
type Block struct {
	Event      Event
	ColorClass string
	// Top is the offset from the top of the start cell and may be negative
	// for events starting before the grid window.
	Top    float64
	Height float64
}

func (b Block) Tooltip() string {
	return b.Event.Tooltip()
}

// Rows returns the clamped [first, last) slot range the block covers.
func (b Block) Rows() (int, int) {
	return slotRange(b.Event)
}

func slotRange(e Event) (int, int) {
	start := max(0, int(math.Floor(e.StartSlot)))
	end := min(TotalSlots, int(math.Ceil(e.EndSlot)))
	return start, end
}

// Position places one block per event into the grid, in event order, and
// returns how many were placed. Events outside the grid window or pointing
// at a missing cell are skipped. Overlapping events are not moved apart;
// later blocks are painted over earlier ones.
func Position(g *Grid, events []Event, palette *Palette, m Measurer) int {
	if g == nil || len(g.Rows) == 0 {
		return 0
	}
	placed := 0
	for _, e := range events {
		start, end := slotRange(e)
		if start >= TotalSlots || end <= 0 {
			continue
		}
		cell, ok := g.Cell(start, e.Day)
		if !ok {
			continue
		}

		slotHeight := m.SlotHeight(cell)
		if slotHeight <= 0 {
			slotHeight = DefaultSlotHeight
		}
		top := (e.StartSlot - float64(start)) * slotHeight
		height := (e.EndSlot - e.StartSlot) * slotHeight

		cell.Blocks = append(cell.Blocks, Block{
			Event:      e,
			ColorClass: palette.ColorClass(e.Code),
			Top:        top,
			Height:     math.Max(height-BlockGap, MinBlockHeight),
		})
		placed++
	}
	return placed
}
