package pricing

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// standardRecord is the canonical fixture used across calculator tests.
func standardRecord() RawPriceRecord {
	return RawPriceRecord{
		PartID:           500,
		SaleGross:        119.99,
		SaleNet:          99.99,
		TaxRatePercent:   20,
		MarginAbsolute:   20,
		SaleQuantityUnit: "1",
		Available:        true,
		PriceKind:        1,
	}
}

func testConverter() Converter {
	return NewRateTable(CurrencyEUR, nil)
}

func TestCalculateSingleUnit(t *testing.T) {
	record := standardRecord()
	req := Request{PartID: 500, Quantity: 1, Tier: TierStandard, Currency: CurrencyEUR}

	facts := Calculate(record, req, []RawPriceRecord{record}, testConverter())

	assert.Equal(t, 119.99, facts.GrossTotal)
	assert.Equal(t, 99.99, facts.NetTotal)
	assert.Equal(t, 20.00, facts.VATAmount)
	assert.Equal(t, 20.0, facts.VATRate)
	assert.Equal(t, 20, facts.MarginPercent)

	require.Len(t, facts.BulkDiscounts, 3)
	for _, d := range facts.BulkDiscounts {
		assert.Zero(t, d.Savings, "No discount active at quantity 1")
	}
}

func TestCalculateQuantityFifty(t *testing.T) {
	record := standardRecord()
	req := Request{PartID: 500, Quantity: 50, Tier: TierStandard, Currency: CurrencyEUR}

	facts := Calculate(record, req, []RawPriceRecord{record}, testConverter())

	assert.Equal(t, 5999.50, facts.GrossTotal)

	require.Len(t, facts.BulkDiscounts, 3)
	assert.Greater(t, facts.BulkDiscounts[0].Savings, 0.0, "10+ tier active at quantity 50")
	assert.Equal(t, 599.95, facts.BulkDiscounts[1].Savings, "50+ tier is 10% of gross")
	assert.Zero(t, facts.BulkDiscounts[2].Savings, "100+ tier inactive below 100")
}

func TestCalculateZeroNetPrice(t *testing.T) {
	record := standardRecord()
	record.SaleNet = 0
	req := Request{PartID: 500, Quantity: 1, Tier: TierStandard, Currency: CurrencyEUR}

	facts := Calculate(record, req, []RawPriceRecord{record}, testConverter())

	assert.Equal(t, 0, facts.MarginPercent, "Zero net price must not fault, margin is 0")
}

func TestCalculateQuantityUnit(t *testing.T) {
	tests := []struct {
		name      string
		unit      string
		wantGross float64
	}{
		{"absent defaults to 1", "", 119.99},
		{"non-numeric defaults to 1", "pkg", 119.99},
		{"negative defaults to 1", "-2", 119.99},
		{"valid multiplier applies", "2", 239.98},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := standardRecord()
			record.SaleQuantityUnit = tt.unit
			req := Request{PartID: 500, Quantity: 1, Tier: TierStandard, Currency: CurrencyEUR}

			facts := Calculate(record, req, []RawPriceRecord{record}, testConverter())
			assert.Equal(t, tt.wantGross, facts.GrossTotal)
		})
	}
}

// TestCalculateDeterminism verifies byte-identical output for repeated
// invocations on fixed input.
func TestCalculateDeterminism(t *testing.T) {
	record := standardRecord()
	other := standardRecord()
	other.SaleGross = 89.99
	other.PriceKind = 0
	candidates := []RawPriceRecord{record, other}
	req := Request{PartID: 500, Quantity: 25, Tier: TierBulk, Currency: CurrencyUSD}

	first := Calculate(record, req, candidates, testConverter())
	second := Calculate(record, req, candidates, testConverter())

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestComputeAnalytics(t *testing.T) {
	cheap := standardRecord()
	cheap.SaleGross = 80
	mid := standardRecord()
	mid.SaleGross = 100
	expensive := standardRecord()
	expensive.SaleGross = 120

	analytics := ComputeAnalytics(mid, []RawPriceRecord{mid, cheap, expensive})

	assert.Equal(t, 3, analytics.CandidateCount)
	assert.Equal(t, 80.0, analytics.LowestGross)
	assert.Equal(t, 120.0, analytics.HighestGross)
	assert.Equal(t, 100.0, analytics.AverageGross)
	assert.Equal(t, 50.0, analytics.SpreadPercent)
	assert.Equal(t, "below_average", analytics.PricePosition)

	assert.Equal(t, "lowest", ComputeAnalytics(cheap, []RawPriceRecord{mid, cheap, expensive}).PricePosition)
	assert.Equal(t, "highest", ComputeAnalytics(expensive, []RawPriceRecord{mid, cheap, expensive}).PricePosition)
}
