package statistics

import (
	"math"
	"slices"
	"strings"

	"github.com/timetable-viewer/internal/backend"
)

// Summarize aggregates rankings. Averages round half to even like the
// backend does.
func Summarize(rankings []backend.Ranking) Summary {
	summary := Summary{Total: len(rankings)}
	if summary.Total == 0 {
		return summary
	}
	sum := 0
	summary.Min = rankings[0].Ranking
	summary.Max = rankings[0].Ranking
	for _, ranking := range rankings {
		sum += ranking.Ranking
		summary.Min = min(summary.Min, ranking.Ranking)
		summary.Max = max(summary.Max, ranking.Ranking)
		switch Class(ranking.Ranking) {
		case RankingExcellent:
			summary.Excellent++
		case RankingGood:
			summary.Good++
		case RankingFair:
			summary.Fair++
		default:
			summary.Poor++
		}
	}
	summary.Average = average(sum, summary.Total)
	return summary
}

// Programs groups rankings by program, sorted by program name.
func Programs(rankings []backend.Ranking) []Program {
	totals := map[string]int{}
	counts := map[string]int{}
	for _, ranking := range rankings {
		totals[ranking.ProgramName] += ranking.Ranking
		counts[ranking.ProgramName]++
	}
	programs := make([]Program, 0, len(counts))
	for name, count := range counts {
		avg := average(totals[name], count)
		programs = append(programs, Program{
			Name:         name,
			Blocks:       count,
			AvgRanking:   avg,
			RankingClass: Class(avg),
		})
	}
	slices.SortFunc(programs, func(a, b Program) int {
		return strings.Compare(a.Name, b.Name)
	})
	return programs
}

// Sorted returns rankings by descending score, then program and block name.
func Sorted(rankings []backend.Ranking) []backend.Ranking {
	sorted := slices.Clone(rankings)
	slices.SortStableFunc(sorted, func(a, b backend.Ranking) int {
		if a.Ranking != b.Ranking {
			return b.Ranking - a.Ranking
		}
		if c := strings.Compare(a.ProgramName, b.ProgramName); c != 0 {
			return c
		}
		return strings.Compare(a.BlockName, b.BlockName)
	})
	return sorted
}

func average(sum, count int) int {
	return int(math.RoundToEven(float64(sum) / float64(count)))
}
