package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptimalQuantity(t *testing.T) {
	tests := []struct {
		name     string
		quantity int
		want     int
	}{
		{"exact breakpoint stands", 10, 10},
		{"snaps up to nearby breakpoint", 8, 10},
		{"snaps down to nearby breakpoint", 55, 50},
		{"no breakpoint in band keeps quantity", 3, 3},
		{"large quantity outside band keeps quantity", 400, 400},
		{"single unit", 1, 1},
		{"snaps to fifty over twentyfive", 40, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OptimalQuantity(tt.quantity))
		})
	}
}

func TestRecommendShapeAndBounds(t *testing.T) {
	e := NewEngine()

	b, generated := e.Recommend(Input{PartID: 500, Quantity: 5, Available: true, UnitGross: 119.99})

	assert.True(t, generated)
	assert.Greater(t, b.OptimalQuantity, 0)
	assert.NotEmpty(t, b.Trend)
	assert.NotEmpty(t, b.DiscountOpportunities)
	assert.NotEmpty(t, b.Alternatives)
	assert.GreaterOrEqual(t, b.ConfidenceScore, 0)
	assert.LessOrEqual(t, b.ConfidenceScore, 100)
}

func TestRecommendDiscountOpportunities(t *testing.T) {
	e := NewEngine()

	b, _ := e.Recommend(Input{PartID: 1, Quantity: 5, Available: true})
	assert.Equal(t, []string{"bulk_threshold_10", "bulk_threshold_50", "bulk_threshold_100"}, b.DiscountOpportunities)

	b, _ = e.Recommend(Input{PartID: 1, Quantity: 60, Available: true})
	assert.Equal(t, []string{"bulk_threshold_100"}, b.DiscountOpportunities)

	b, _ = e.Recommend(Input{PartID: 1, Quantity: 150, Available: true})
	assert.Equal(t, []string{"all_bulk_thresholds_reached"}, b.DiscountOpportunities)
}

func TestRecommendStockAdvice(t *testing.T) {
	e := NewEngine()

	inStock, _ := e.Recommend(Input{PartID: 1, Quantity: 1, Available: true})
	assert.Equal(t, "in_stock", inStock.StockAdvice)

	outOfStock, _ := e.Recommend(Input{PartID: 2, Quantity: 1, Available: false})
	assert.Equal(t, "check_supplier_availability", outOfStock.StockAdvice)
}

func TestRecommendCaching(t *testing.T) {
	e := NewEngine()
	in := Input{PartID: 500, Quantity: 10, Available: true}

	first, generated := e.Recommend(in)
	require.True(t, generated)

	second, generated := e.Recommend(in)
	assert.False(t, generated, "same part and quantity serves the cached bundle")
	assert.Same(t, first, second)
	assert.Equal(t, 1, e.CacheLen())

	// Different quantity is a different cache entry.
	_, generated = e.Recommend(Input{PartID: 500, Quantity: 11, Available: true})
	assert.True(t, generated)
	assert.Equal(t, 2, e.CacheLen())
}

func TestInvalidateAll(t *testing.T) {
	e := NewEngine()
	e.Recommend(Input{PartID: 1, Quantity: 1, Available: true})
	require.Equal(t, 1, e.CacheLen())

	e.InvalidateAll()
	assert.Equal(t, 0, e.CacheLen())

	_, generated := e.Recommend(Input{PartID: 1, Quantity: 1, Available: true})
	assert.True(t, generated)
}
