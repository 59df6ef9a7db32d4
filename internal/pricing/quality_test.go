package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreQualitySingleCandidate(t *testing.T) {
	got := ScoreQuality(49.99, []float64{49.99})

	assert.Equal(t, 100, got.Score)
	assert.Equal(t, "excellent", got.Tier)
	assert.Equal(t, 0, got.Rank)
	assert.Equal(t, 1, got.CandidateCount)
}

func TestScoreQualityEmptyCandidates(t *testing.T) {
	got := ScoreQuality(49.99, nil)

	assert.Equal(t, 100, got.Score)
	assert.Equal(t, "excellent", got.Tier)
	assert.Equal(t, 0, got.CandidateCount)
}

func TestScoreQualityRanking(t *testing.T) {
	candidates := []float64{120, 80, 100, 90}

	tests := []struct {
		name     string
		chosen   float64
		wantRank int
		wantTier string
	}{
		{"cheapest scores best", 80, 0, "excellent"},
		{"second cheapest", 90, 1, "good"},
		{"third", 100, 2, "average"},
		{"most expensive scores worst", 120, 3, "average"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScoreQuality(tt.chosen, candidates)
			assert.Equal(t, tt.wantRank, got.Rank)
			assert.Equal(t, tt.wantTier, got.Tier)
			assert.Equal(t, 4, got.CandidateCount)
		})
	}
}

func TestScoreQualityBounds(t *testing.T) {
	candidates := []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100}
	for _, chosen := range candidates {
		got := ScoreQuality(chosen, candidates)
		assert.GreaterOrEqual(t, got.Score, 0)
		assert.LessOrEqual(t, got.Score, 100)
	}
}

func TestScoreQualityDuplicatePrices(t *testing.T) {
	// Ties rank at the first matching position.
	got := ScoreQuality(80, []float64{80, 80, 100})
	assert.Equal(t, 0, got.Rank)
}
