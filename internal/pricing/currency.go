package pricing

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// Converter turns a base-currency amount into a target currency. A
// conversion must always be producible: implementations degrade to an
// identity rate instead of failing the quote.
type Converter interface {
	Convert(amount float64, target Currency) Conversion
}

// RateTable converts amounts using a static base-currency rate map.
type RateTable struct {
	base   Currency
	rates  map[Currency]float64
	logger zerolog.Logger
}

// DefaultRates returns the built-in EUR exchange rates.
func DefaultRates() map[Currency]float64 {
	return map[Currency]float64{
		CurrencyUSD: 1.08,
		CurrencyGBP: 0.85,
	}
}

// NewRateTable creates a converter over the given base currency. Nil
// rates fall back to the defaults.
func NewRateTable(base Currency, rates map[Currency]float64) *RateTable {
	if rates == nil {
		rates = DefaultRates()
	}
	return &RateTable{
		base:   base,
		rates:  rates,
		logger: log.With().Str("component", "currency_converter").Logger(),
	}
}

// Convert converts amount from the base currency into target. When
// target equals the base the amount passes through at rate 1 and no
// other currency keys are populated. A missing rate also degrades to
// rate 1 so the quote itself never fails on conversion.
func (t *RateTable) Convert(amount float64, target Currency) Conversion {
	if target == t.base {
		return Conversion{
			Amounts: map[Currency]float64{t.base: round2(amount)},
			Rate:    1,
			Base:    t.base,
			Target:  target,
		}
	}

	rate, ok := t.rates[target]
	if !ok || rate <= 0 {
		t.logger.Warn().
			Str("target", string(target)).
			Msg("No exchange rate configured, falling back to identity rate")
		rate = 1
	}

	converted, _ := decimal.NewFromFloat(amount).
		Mul(decimal.NewFromFloat(rate)).
		Round(2).
		Float64()

	return Conversion{
		Amounts: map[Currency]float64{
			t.base: round2(amount),
			target: converted,
		},
		Rate:   rate,
		Base:   t.base,
		Target: target,
	}
}

// round2 rounds a monetary amount to 2 decimal places, half away from
// zero. All derived amounts pass through here so repeated computations
// stay byte-identical.
func round2(v float64) float64 {
	out, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return out
}
