package timetable

// Cell is one day column of a grid row. Blocks are kept in paint order.
type Cell struct {
	Slot   int
	Day    int
	Blocks []Block
}

// Row is one slot of the grid with its time label column.
type Row struct {
	Slot int
	// Minute is the slot start in minutes since midnight.
	Minute int
	// Label is "HH:MM" on rows starting on the hour and empty otherwise.
	Label string
	Cells [Days]Cell
}

// Grid is the timetable skeleton: TotalSlots rows of a label column and
// one column per weekday.
type Grid struct {
	Rows []Row
}

// NewGrid builds an empty grid. It does not depend on any event data.
func NewGrid() *Grid {
	g := &Grid{Rows: make([]Row, TotalSlots)}
	for slot := range g.Rows {
		minute := StartHour*60 + slot*SlotMinutes
		row := &g.Rows[slot]
		row.Slot = slot
		row.Minute = minute
		if minute%60 == 0 {
			row.Label = FormatTime(minute)
		}
		for day := range row.Cells {
			row.Cells[day] = Cell{Slot: slot, Day: day}
		}
	}
	return g
}

// Cell returns the cell at slot and day, or false if there is none.
func (g *Grid) Cell(slot, day int) (*Cell, bool) {
	if slot < 0 || slot >= len(g.Rows) {
		return nil, false
	}
	if day < 0 || day >= Days {
		return nil, false
	}
	return &g.Rows[slot].Cells[day], true
}

// Blocks returns every placed block in row, day and paint order.
func (g *Grid) Blocks() []Block {
	var blocks []Block
	for _, row := range g.Rows {
		for _, cell := range row.Cells {
			blocks = append(blocks, cell.Blocks...)
		}
	}
	return blocks
}
