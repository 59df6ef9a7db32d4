// Package recommend derives advisory purchasing data from a computed
// quote. The bundle is non-authoritative: callers may only rely on its
// shape and bounds, not on exact values.
package recommend

import (
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/partstream/pricing-engine/internal/cache"
)

// bundleTTL is fixed regardless of the request's price tier.
const bundleTTL = 30 * time.Minute

// quantityBreakpoints are the order quantities purchasing prefers.
var quantityBreakpoints = []int{1, 10, 25, 50, 100}

// Bundle is the advisory output for one (part, quantity) pair.
type Bundle struct {
	OptimalQuantity       int      `json:"optimalQuantity"`
	Trend                 string   `json:"trend"`
	DiscountOpportunities []string `json:"discountOpportunities"`
	Alternatives          []string `json:"alternatives"`
	StockAdvice           string   `json:"stockAdvice"`
	ConfidenceScore       int      `json:"confidenceScore"`
}

// Input carries the quote facts the engine needs. Scalars only, so the
// engine stays decoupled from the pricing types.
type Input struct {
	PartID    int64
	Quantity  int
	Available bool
	UnitGross float64
}

// Engine computes recommendation bundles behind its own TTL cache.
//
// The heuristics here are deliberately fixed and neutral. The trend and
// confidence values are stable placeholders until historical order data
// is wired in; tests verify shape and bounds only.
type Engine struct {
	cache  *cache.Cache[*Bundle]
	ttl    time.Duration
	logger zerolog.Logger
}

// NewEngine creates an engine with the fixed 30 minute bundle TTL.
func NewEngine() *Engine {
	return &Engine{
		cache:  cache.New[*Bundle]("recommendations"),
		ttl:    bundleTTL,
		logger: log.With().Str("component", "recommendation_engine").Logger(),
	}
}

// Recommend returns the bundle for the input, serving from cache when a
// fresh one exists. The second return reports whether the bundle was
// freshly generated.
func (e *Engine) Recommend(in Input) (*Bundle, bool) {
	key := strconv.FormatInt(in.PartID, 10) + ":" + strconv.Itoa(in.Quantity)

	if b, ok := e.cache.Get(key); ok {
		return b, false
	}

	b := e.build(in)
	e.cache.Put(key, b, e.ttl)
	e.logger.Debug().
		Int64("part_id", in.PartID).
		Int("quantity", in.Quantity).
		Msg("Generated recommendation bundle")
	return b, true
}

func (e *Engine) build(in Input) *Bundle {
	return &Bundle{
		OptimalQuantity:       OptimalQuantity(in.Quantity),
		Trend:                 "stable",
		DiscountOpportunities: discountOpportunities(in.Quantity),
		Alternatives: []string{
			"compare_exchange_part",
			"compare_alternate_supplier",
		},
		StockAdvice:     stockAdvice(in.Available),
		ConfidenceScore: 75,
	}
}

// OptimalQuantity suggests the nearest order breakpoint within the
// 0.8x-1.5x band around the requested quantity. Outside the band the
// requested quantity stands. Ties prefer the smaller breakpoint.
func OptimalQuantity(quantity int) int {
	lower := 0.8 * float64(quantity)
	upper := 1.5 * float64(quantity)

	best := quantity
	bestDist := -1
	for _, bp := range quantityBreakpoints {
		if float64(bp) < lower || float64(bp) > upper {
			continue
		}
		dist := bp - quantity
		if dist < 0 {
			dist = -dist
		}
		if bestDist < 0 || dist < bestDist {
			best = bp
			bestDist = dist
		}
	}
	return best
}

func discountOpportunities(quantity int) []string {
	opportunities := []string{}
	for _, threshold := range []int{10, 50, 100} {
		if quantity < threshold {
			opportunities = append(opportunities, "bulk_threshold_"+strconv.Itoa(threshold))
		}
	}
	if len(opportunities) == 0 {
		opportunities = append(opportunities, "all_bulk_thresholds_reached")
	}
	return opportunities
}

func stockAdvice(available bool) string {
	if available {
		return "in_stock"
	}
	return "check_supplier_availability"
}

// InvalidateAll drops every cached bundle.
func (e *Engine) InvalidateAll() {
	e.cache.InvalidateAll()
}

// CacheLen returns the number of cached bundles.
func (e *Engine) CacheLen() int {
	return e.cache.Len()
}
