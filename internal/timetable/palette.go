package timetable

import "strconv"

const PaletteSize = 12

// Palette maps course codes to colour classes in first-seen order, cycling
// through PaletteSize classes. One palette is shared by every timetable of
// a page so that a course keeps its colour across terms and blocks.
// Assignments are never removed. A Palette is not safe for concurrent use.
type Palette struct {
	indexes map[string]int
	seen    int
}

func NewPalette() *Palette {
	return &Palette{
		indexes: make(map[string]int),
	}
}

// Index returns the 1-based palette slot of code, assigning the next one
// on first sight.
func (p *Palette) Index(code string) int {
	if i, ok := p.indexes[code]; ok {
		return i
	}
	p.seen++
	i := (p.seen-1)%PaletteSize + 1
	p.indexes[code] = i
	return i
}

// ColorClass returns the CSS class of code, "tt-course-<n>".
func (p *Palette) ColorClass(code string) string {
	return "tt-course-" + strconv.Itoa(p.Index(code))
}

// Len returns the number of distinct codes seen so far.
func (p *Palette) Len() int {
	return len(p.indexes)
}
