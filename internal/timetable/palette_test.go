package timetable

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaletteSameCode(t *testing.T) {
	p := NewPalette()

	first := p.ColorClass("SYSC 2006")
	p.ColorClass("MATH 1104")
	assert.Equal(t, first, p.ColorClass("SYSC 2006"))
	assert.Equal(t, "tt-course-1", first)
	assert.Equal(t, "tt-course-2", p.ColorClass("MATH 1104"))
	assert.Equal(t, 2, p.Len())
}

func TestPaletteCycles(t *testing.T) {
	p := NewPalette()

	for i := 1; i <= PaletteSize; i++ {
		assert.Equal(t, i, p.Index(fmt.Sprintf("CODE %d", i)))
	}
	assert.Equal(t, p.Index("CODE 1"), p.Index("CODE 13"))
	assert.Equal(t, 2, p.Index("CODE 14"))
}

func TestPaletteEmptyCode(t *testing.T) {
	p := NewPalette()

	assert.Equal(t, 1, p.Index(""))
	assert.Equal(t, 1, p.Index(""))
	assert.Equal(t, 2, p.Index("A"))
}
