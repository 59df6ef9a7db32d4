package pricing

import (
	"math"
	"sort"
)

// Quality tier labels by score threshold.
const (
	qualityExcellent = "excellent"
	qualityGood      = "good"
	qualityAverage   = "average"
)

// ScoreQuality ranks the chosen gross price among all eligible candidate
// prices for the same part. Rank 0 is the cheapest candidate. With a
// single candidate there is nothing to rank, so the score is 100.
// Deterministic and side-effect free.
func ScoreQuality(chosenGross float64, candidateGross []float64) QualityScore {
	count := len(candidateGross)
	if count <= 1 {
		return QualityScore{
			Score:          100,
			Tier:           qualityExcellent,
			Rank:           0,
			CandidateCount: count,
		}
	}

	sorted := make([]float64, count)
	copy(sorted, candidateGross)
	sort.Float64s(sorted)

	rank := 0
	for i, p := range sorted {
		if p == chosenGross {
			rank = i
			break
		}
	}

	score := int(math.Round((1 - float64(rank)/float64(count)) * 100))
	return QualityScore{
		Score:          score,
		Tier:           qualityTier(score),
		Rank:           rank,
		CandidateCount: count,
	}
}

func qualityTier(score int) string {
	switch {
	case score >= 80:
		return qualityExcellent
	case score >= 60:
		return qualityGood
	default:
		return qualityAverage
	}
}
