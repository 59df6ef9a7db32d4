package pricing

// bulkTiers are the fixed quantity discount thresholds, ascending.
var bulkTiers = []struct {
	MinQuantity int
	Rate        float64
}{
	{MinQuantity: 10, Rate: 0.05},
	{MinQuantity: 50, Rate: 0.10},
	{MinQuantity: 100, Rate: 0.15},
}

// EvaluateBulkDiscounts computes the savings each discount threshold
// yields at the requested quantity. All thresholds are returned in
// ascending MinQuantity order; thresholds the quantity does not reach
// are kept with zero savings rather than filtered out.
func EvaluateBulkDiscounts(quantity int, grossTotal float64) []BulkDiscount {
	out := make([]BulkDiscount, 0, len(bulkTiers))
	for _, tier := range bulkTiers {
		d := BulkDiscount{MinQuantity: tier.MinQuantity, Rate: tier.Rate}
		if quantity >= tier.MinQuantity {
			d.Savings = round2(grossTotal * tier.Rate)
		}
		out = append(out, d)
	}
	return out
}
