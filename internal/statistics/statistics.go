package statistics

// RankingClass buckets a block ranking score for display.
type RankingClass string

const (
	RankingExcellent RankingClass = "excellent"
	RankingGood      RankingClass = "good"
	RankingFair      RankingClass = "fair"
	RankingPoor      RankingClass = "poor"
)

func Class(score int) RankingClass {
	switch {
	case score >= 85:
		return RankingExcellent
	case score >= 70:
		return RankingGood
	case score >= 50:
		return RankingFair
	default:
		return RankingPoor
	}
}

// Summary aggregates the ranking scores of every block.
type Summary struct {
	Total   int
	Average int
	Min     int
	Max     int

	Excellent int
	Good      int
	Fair      int
	Poor      int
}

// Program aggregates the blocks of one program.
type Program struct {
	Name         string
	Blocks       int
	AvgRanking   int
	RankingClass RankingClass
}
