package timetable

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRenderer() *Renderer {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRenderer(logger, NewPalette(), FixedHeight(48))
}

func TestRenderEmpty(t *testing.T) {
	r := testRenderer()

	for _, tt := range []*Timetable{r.Render(nil), r.Render([]Meeting{}), r.RenderJSON([]byte(`[]`)), r.RenderJSON([]byte(`null`))} {
		assert.Equal(t, StatusEmpty, tt.Status)
		assert.Nil(t, tt.Grid)
		assert.Equal(t, EmptyMessage, tt.Message())
	}
}

func TestRenderInvalid(t *testing.T) {
	tt := testRenderer().RenderJSON([]byte(`{"code": "SYSC 2006"`))

	assert.Equal(t, StatusInvalid, tt.Status)
	assert.Error(t, tt.Err)
	assert.Nil(t, tt.Grid)
	assert.Equal(t, InvalidMessage, tt.Message())
}

func TestRender(t *testing.T) {
	tt := testRenderer().RenderJSON([]byte(`[
		{"code": "SYSC 2006", "section": "A", "type": "LEC", "days": "MW", "start_time": "0835", "end_time": "1025"},
		{"code": "SYSC 2006", "section": "A1", "type": "LAB", "days": "F", "start_time": "1435", "end_time": "1625"},
		{"code": "ELEC 2501", "section": "B", "type": "LEC", "days": "X", "start_time": "0835", "end_time": "1025"},
		{"code": "MATH 1104", "section": "C", "type": "LEC", "days": "T", "start_time": "0600", "end_time": "0700"}
	]`))

	require.True(t, tt.Rendered())
	assert.Equal(t, "", tt.Message())
	require.NotNil(t, tt.Grid)
	assert.Len(t, tt.Events, 4)
	assert.Equal(t, 3, tt.Placed)

	blocks := tt.Grid.Blocks()
	require.Len(t, blocks, 3)
	for _, b := range blocks {
		assert.Equal(t, "tt-course-1", b.ColorClass)
	}
}

func TestRenderSharesPalette(t *testing.T) {
	r := testRenderer()

	r.Render([]Meeting{{Code: "A", Days: "M", StartTime: "0900", EndTime: "1000"}})
	second := r.Render([]Meeting{
		{Code: "B", Days: "M", StartTime: "0900", EndTime: "1000"},
		{Code: "A", Days: "T", StartTime: "0900", EndTime: "1000"},
	})

	mon, _ := second.Grid.Cell(2, 0)
	tue, _ := second.Grid.Cell(2, 1)
	assert.Equal(t, "tt-course-2", mon.Blocks[0].ColorClass)
	assert.Equal(t, "tt-course-1", tue.Blocks[0].ColorClass)
	assert.Equal(t, 2, r.Palette().Len())
}

func TestRenderNonObjectCoursesDrawsEmptyGrid(t *testing.T) {
	tt := testRenderer().RenderJSON([]byte(`[1, "x"]`))

	require.True(t, tt.Rendered())
	require.NotNil(t, tt.Grid)
	assert.Empty(t, tt.Events)
	assert.Equal(t, 0, tt.Placed)
	assert.Empty(t, tt.Grid.Blocks())
}

func TestNewRendererDefaults(t *testing.T) {
	r := NewRenderer(nil, nil, nil)
	require.NotNil(t, r.Palette())

	tt := r.Render([]Meeting{{Code: "A", Days: "M", StartTime: "0800", EndTime: "0900"}})
	require.True(t, tt.Rendered())
	blocks := tt.Grid.Blocks()
	require.Len(t, blocks, 1)
	assert.Equal(t, "tt-course-1", blocks[0].ColorClass)
	assert.Equal(t, float64(2*DefaultSlotHeight-BlockGap), blocks[0].Height)
}
