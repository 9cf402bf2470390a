package timetables

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timetable-viewer/internal/backend"
	"github.com/timetable-viewer/internal/cache"
	"github.com/timetable-viewer/internal/statistics"
	"github.com/timetable-viewer/internal/timetable"
)

type fakeBackend struct {
	calls    map[string]int
	program  *backend.ProgramData
	block    *backend.BlockTimetable
	result   *backend.ActionResult
	err      error
	rankings []backend.Ranking
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		calls: map[string]int{},
		result: &backend.ActionResult{
			Success: true,
		},
	}
}

func (f *fakeBackend) BlockTimetable(_ context.Context, blockID int) (*backend.BlockTimetable, error) {
	f.calls["block"]++
	if f.block == nil || f.block.Block.ID != blockID {
		return nil, backend.ErrNotFound
	}
	return f.block, f.err
}

func (f *fakeBackend) Program(_ context.Context, programID int) (*backend.ProgramData, error) {
	f.calls["program"]++
	if f.program == nil || f.program.Program.ID != programID {
		return nil, backend.ErrNotFound
	}
	return f.program, f.err
}

func (f *fakeBackend) Rankings(context.Context) ([]backend.Ranking, error) {
	f.calls["rankings"]++
	return f.rankings, f.err
}

func (f *fakeBackend) Stats(context.Context) (*backend.Stats, error) {
	f.calls["stats"]++
	if f.err != nil {
		return nil, f.err
	}
	return &backend.Stats{TotalBlocks: len(f.rankings)}, nil
}

func (f *fakeBackend) Generate(context.Context) (*backend.ActionResult, error) {
	f.calls["generate"]++
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakeBackend) Rank(context.Context) (*backend.ActionResult, error) {
	f.calls["rank"]++
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func newTestService(t *testing.T, fake *fakeBackend) *Service {
	t.Helper()
	db, err := cache.Open("")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(logger, fake, cache.NewStore(db, time.Minute))
}

func TestReadThrough(t *testing.T) {
	fake := newFakeBackend()
	fake.rankings = []backend.Ranking{{ID: 1, BlockName: "Block A", Ranking: 80}}
	service := newTestService(t, fake)
	ctx := context.Background()

	for range 3 {
		rankings, err := service.Rankings(ctx)
		require.NoError(t, err)
		assert.Equal(t, fake.rankings, rankings)

		stats, err := service.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, stats.TotalBlocks)
	}
	assert.Equal(t, 1, fake.calls["rankings"])
	assert.Equal(t, 1, fake.calls["stats"])
}

func TestReadThroughError(t *testing.T) {
	fake := newFakeBackend()
	fake.err = errors.New("connection refused")
	service := newTestService(t, fake)
	ctx := context.Background()

	_, err := service.Stats(ctx)
	require.Error(t, err)

	fake.err = nil
	_, err = service.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, fake.calls["stats"])
}

func TestWithoutCache(t *testing.T) {
	fake := newFakeBackend()
	service := NewService(slog.New(slog.NewTextHandler(io.Discard, nil)), fake, nil)

	for range 2 {
		_, err := service.Stats(context.Background())
		require.NoError(t, err)
	}
	assert.Equal(t, 2, fake.calls["stats"])
}

func TestActionDropsCache(t *testing.T) {
	fake := newFakeBackend()
	service := newTestService(t, fake)
	ctx := context.Background()

	_, err := service.Stats(ctx)
	require.NoError(t, err)

	result, err := service.Generate(ctx)
	require.NoError(t, err)
	assert.True(t, result.Success)

	_, err = service.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, fake.calls["stats"])
}

func TestFailedActionKeepsCache(t *testing.T) {
	fake := newFakeBackend()
	fake.result = &backend.ActionResult{Success: false, Error: "no blocks"}
	service := newTestService(t, fake)
	ctx := context.Background()

	_, err := service.Stats(ctx)
	require.NoError(t, err)

	result, err := service.Rank(ctx)
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "no blocks", result.Error)

	_, err = service.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, fake.calls["stats"])
}

func TestActionError(t *testing.T) {
	fake := newFakeBackend()
	fake.err = &backend.StatusError{StatusCode: 500}
	service := newTestService(t, fake)

	_, err := service.Generate(context.Background())
	var statusErr *backend.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, 500, statusErr.StatusCode)
}

func term(id int, name string, courses string) backend.Term {
	return backend.Term{ID: id, Name: name, Courses: json.RawMessage(courses)}
}

func testProgram() *backend.ProgramData {
	return &backend.ProgramData{
		Program: backend.Program{ID: 3, Name: "Software Eng"},
		Blocks: []backend.Block{
			{ID: 10, Name: "Block A", Ranking: 90, Terms: []backend.Term{
				term(1, "winter", `[{"code": "SYSC 2006", "section": "A", "type": "LEC", "days": "MW", "start_time": "0835", "end_time": "1025"}]`),
				term(2, "fall", `[{"code": "MATH 1104", "section": "B", "type": "LEC", "days": "TR", "start_time": "1135", "end_time": "1255"}]`),
			}},
			{ID: 11, Name: "Block B", Ranking: 40, Terms: []backend.Term{
				term(3, "fall", `[{"code": "SYSC 2006", "section": "B", "type": "LEC", "days": "F", "start_time": "1435", "end_time": "1555"}]`),
				term(4, "summer", `{"not": "an array"}`),
			}},
		},
	}
}

func TestProgramPage(t *testing.T) {
	fake := newFakeBackend()
	fake.program = testProgram()
	service := newTestService(t, fake)

	page, err := service.ProgramPage(context.Background(), 3, "", timetable.FixedHeight(40))
	require.NoError(t, err)

	assert.Equal(t, "Software Eng", page.Program.Name)
	assert.Equal(t, AllTerms, page.Term)
	assert.Equal(t, []string{"fall", "summer", "winter"}, page.TermNames)
	require.Len(t, page.Blocks, 2)
	assert.Equal(t, statistics.RankingExcellent, page.Blocks[0].RankingClass)
	assert.Equal(t, statistics.RankingPoor, page.Blocks[1].RankingClass)
	assert.Len(t, page.Terms(), 4)

	winter := page.Blocks[0].Terms[0]
	assert.Equal(t, timetable.StatusRendered, winter.Timetable.Status)
	assert.Equal(t, 2, winter.Timetable.Placed)
	require.Len(t, winter.Courses, 1)
	assert.Equal(t, "08:35", winter.Courses[0].StartTime)

	invalid := page.Blocks[1].Terms[1]
	assert.Equal(t, timetable.StatusInvalid, invalid.Timetable.Status)
	assert.Empty(t, invalid.Courses)

	// The palette is shared across every timetable on the page.
	assert.Equal(t, 2, page.Palette.Len())
	assert.Equal(t, "tt-course-1", page.Palette.ColorClass("SYSC 2006"))
	assert.Equal(t, "tt-course-2", page.Palette.ColorClass("MATH 1104"))
	fall := page.Blocks[1].Terms[0]
	assert.Equal(t, "tt-course-1", fall.Timetable.Grid.Blocks()[0].ColorClass)
}

func TestProgramPageTermFilter(t *testing.T) {
	fake := newFakeBackend()
	fake.program = testProgram()
	service := newTestService(t, fake)

	page, err := service.ProgramPage(context.Background(), 3, "fall", nil)
	require.NoError(t, err)

	assert.Equal(t, "fall", page.Term)
	assert.Equal(t, []string{"fall", "summer", "winter"}, page.TermNames)
	for _, view := range page.Terms() {
		assert.Equal(t, "fall", view.Term.Name)
	}
	assert.Len(t, page.Terms(), 2)
}

func TestProgramPageNotFound(t *testing.T) {
	service := newTestService(t, newFakeBackend())

	_, err := service.ProgramPage(context.Background(), 42, "", nil)
	assert.ErrorIs(t, err, backend.ErrNotFound)
}

func TestBlockPage(t *testing.T) {
	fake := newFakeBackend()
	fake.block = &backend.BlockTimetable{
		Block: backend.Block{ID: 10, Name: "Block A", Program: "Software Eng", Ranking: 72},
		Terms: []backend.Term{
			term(1, "fall", `null`),
			term(2, "winter", `[{"code": "SYSC 2006", "section": "A", "type": "LEC", "days": "MW", "start_time": "0835", "end_time": "1025"}]`),
		},
	}
	service := newTestService(t, fake)

	page, err := service.BlockPage(context.Background(), 10, "all", nil)
	require.NoError(t, err)

	assert.Nil(t, page.Program)
	require.Len(t, page.Blocks, 1)
	assert.Equal(t, statistics.RankingGood, page.Blocks[0].RankingClass)
	terms := page.Blocks[0].Terms
	require.Len(t, terms, 2)
	assert.Equal(t, timetable.StatusEmpty, terms[0].Timetable.Status)
	assert.Equal(t, timetable.StatusRendered, terms[1].Timetable.Status)
}
