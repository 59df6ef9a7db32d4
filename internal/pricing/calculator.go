package pricing

import "math"

// Calculate derives the full fact set for one quote from the primary
// price record. Pure: no I/O, no clock, no randomness. The candidate
// list is only used for quality ranking; the caller guarantees it is
// non-empty and that primary is its first element.
//
// Step order is fixed for reproducibility: quantity unit, totals, VAT,
// margin, then the delegated evaluators.
func Calculate(primary RawPriceRecord, req Request, candidates []RawPriceRecord, converter Converter) Facts {
	unit := primary.QuantityUnit()
	multiplier := float64(req.Quantity) * unit

	grossTotal := round2(primary.SaleGross * multiplier)
	netTotal := round2(primary.SaleNet * multiplier)
	depositGross := round2(primary.DepositGross * multiplier)
	depositNet := round2(primary.DepositNet * multiplier)

	vatAmount := round2(grossTotal - netTotal)

	// Margin percent of net unit price. A zero net price yields 0
	// instead of a division fault.
	marginPercent := 0
	if primary.SaleNet > 0 {
		marginPercent = int(math.Round(primary.MarginAbsolute / primary.SaleNet * 100))
	}

	candidateGross := make([]float64, 0, len(candidates))
	for _, c := range candidates {
		candidateGross = append(candidateGross, c.SaleGross)
	}

	return Facts{
		GrossTotal:        grossTotal,
		NetTotal:          netTotal,
		DepositGrossTotal: depositGross,
		DepositNetTotal:   depositNet,
		UnitGross:         round2(primary.SaleGross),
		UnitNet:           round2(primary.SaleNet),
		VATAmount:         vatAmount,
		VATRate:           primary.TaxRatePercent,
		MarginUnit:        round2(primary.MarginAbsolute),
		MarginTotal:       round2(primary.MarginAbsolute * multiplier),
		MarginPercent:     marginPercent,
		BulkDiscounts:     EvaluateBulkDiscounts(req.Quantity, grossTotal),
		Conversion:        converter.Convert(grossTotal, req.Currency),
		Quality:           ScoreQuality(primary.SaleGross, candidateGross),
	}
}

// ComputeAnalytics derives the market-comparison view of a quote from
// the eligible candidate list. Deterministic; candidates must be
// non-empty.
func ComputeAnalytics(primary RawPriceRecord, candidates []RawPriceRecord) Analytics {
	lowest := candidates[0].SaleGross
	highest := candidates[0].SaleGross
	sum := 0.0
	for _, c := range candidates {
		if c.SaleGross < lowest {
			lowest = c.SaleGross
		}
		if c.SaleGross > highest {
			highest = c.SaleGross
		}
		sum += c.SaleGross
	}
	avg := round2(sum / float64(len(candidates)))

	spread := 0.0
	if lowest > 0 {
		spread = round2((highest - lowest) / lowest * 100)
	}

	return Analytics{
		CandidateCount: len(candidates),
		LowestGross:    round2(lowest),
		HighestGross:   round2(highest),
		AverageGross:   avg,
		SpreadPercent:  spread,
		PricePosition:  pricePosition(primary.SaleGross, lowest, highest, avg),
	}
}

func pricePosition(chosen, lowest, highest, avg float64) string {
	switch {
	case chosen <= lowest:
		return "lowest"
	case chosen >= highest:
		return "highest"
	case chosen <= avg:
		return "below_average"
	default:
		return "above_average"
	}
}
