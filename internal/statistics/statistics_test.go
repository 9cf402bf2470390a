package statistics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/timetable-viewer/internal/backend"
)

func TestClass(t *testing.T) {
	for score, want := range map[int]RankingClass{
		100: RankingExcellent,
		85:  RankingExcellent,
		84:  RankingGood,
		70:  RankingGood,
		69:  RankingFair,
		50:  RankingFair,
		49:  RankingPoor,
		0:   RankingPoor,
		-5:  RankingPoor,
	} {
		assert.Equal(t, want, Class(score), score)
	}
}

func rankings() []backend.Ranking {
	return []backend.Ranking{
		{ID: 1, BlockName: "B", ProgramName: "Software Eng", Ranking: 90},
		{ID: 2, BlockName: "A", ProgramName: "Software Eng", Ranking: 71},
		{ID: 3, BlockName: "A", ProgramName: "Civil Eng", Ranking: 55},
		{ID: 4, BlockName: "B", ProgramName: "Civil Eng", Ranking: 20},
		{ID: 5, BlockName: "C", ProgramName: "Aerospace", Ranking: 90},
	}
}

func TestSummarize(t *testing.T) {
	assert.Equal(t, Summary{
		Total:     5,
		Average:   65,
		Min:       20,
		Max:       90,
		Excellent: 2,
		Good:      1,
		Fair:      1,
		Poor:      1,
	}, Summarize(rankings()))
}

func TestSummarizeEmpty(t *testing.T) {
	assert.Equal(t, Summary{}, Summarize(nil))
}

func TestSummarizeRoundsHalfToEven(t *testing.T) {
	summary := Summarize([]backend.Ranking{{Ranking: 70}, {Ranking: 71}})
	assert.Equal(t, 70, summary.Average)

	summary = Summarize([]backend.Ranking{{Ranking: 71}, {Ranking: 72}})
	assert.Equal(t, 72, summary.Average)
}

func TestPrograms(t *testing.T) {
	assert.Equal(t, []Program{
		{Name: "Aerospace", Blocks: 1, AvgRanking: 90, RankingClass: RankingExcellent},
		{Name: "Civil Eng", Blocks: 2, AvgRanking: 38, RankingClass: RankingPoor},
		{Name: "Software Eng", Blocks: 2, AvgRanking: 80, RankingClass: RankingGood},
	}, Programs(rankings()))
}

func TestSorted(t *testing.T) {
	input := rankings()
	sorted := Sorted(input)

	ids := make([]int, 0, len(sorted))
	for _, r := range sorted {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []int{5, 1, 2, 3, 4}, ids)
	assert.Equal(t, 1, input[0].ID)
}
