package pricing

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"github.com/partstream/pricing-engine/internal/cache"
	"github.com/partstream/pricing-engine/internal/recommend"
)

// RecordSource is the read-only price record collaborator. It returns
// eligible records for a part ordered most-specific price kind first,
// capped at ten.
type RecordSource interface {
	FindEligiblePrices(ctx context.Context, partID int64) ([]RawPriceRecord, error)
}

// ServiceConfig holds the cache lifetimes and probe settings for the
// pricing service.
type ServiceConfig struct {
	// TierTTL maps each price tier to its quote cache lifetime.
	TierTTL map[PriceTier]time.Duration

	// AnalyticsTTL is the lifetime of cached analytics entries.
	AnalyticsTTL time.Duration

	// ProbePartID is the part used by the health self-test.
	ProbePartID int64
}

// DefaultServiceConfig returns the standard tier TTL table.
func DefaultServiceConfig() *ServiceConfig {
	return &ServiceConfig{
		TierTTL: map[PriceTier]time.Duration{
			TierStandard:    5 * time.Minute,
			TierPremium:     15 * time.Minute,
			TierBulk:        30 * time.Minute,
			TierPromotional: 2 * time.Minute,
			TierContract:    2 * time.Hour,
		},
		AnalyticsTTL: 10 * time.Minute,
		ProbePartID:  1,
	}
}

// ttlFor resolves the cache lifetime for a tier, defaulting to the
// standard tier for anything unknown.
func (c *ServiceConfig) ttlFor(tier PriceTier) time.Duration {
	if ttl, ok := c.TierTTL[tier]; ok {
		return ttl
	}
	return c.TierTTL[TierStandard]
}

// quote is the cached unit of work for one fingerprint: everything
// derived from the record source on a miss. Stored by value semantics;
// responses are assembled from copies.
type quote struct {
	facts     Facts
	tax       TaxBreakdown
	analytics Analytics
	available bool
}

// Service orchestrates record lookup, computation, caching and
// recommendations, and owns the process-wide request counters.
type Service struct {
	source      RecordSource
	converter   Converter
	recommender *recommend.Engine
	config      *ServiceConfig

	quoteCache     *cache.Cache[quote]
	analyticsCache *cache.Cache[Analytics]

	sf      singleflight.Group
	metrics *Recorder
	logger  zerolog.Logger
	tracer  trace.Tracer

	totalRequests            atomic.Int64
	cacheHitCount            atomic.Int64
	totalComputeTimeMs       atomic.Int64
	errorCount               atomic.Int64
	recommendationsGenerated atomic.Int64
}

// NewService wires a pricing service. A nil config uses the defaults.
func NewService(source RecordSource, converter Converter, config *ServiceConfig) *Service {
	if config == nil {
		config = DefaultServiceConfig()
	}
	return &Service{
		source:         source,
		converter:      converter,
		recommender:    recommend.NewEngine(),
		config:         config,
		quoteCache:     cache.New[quote]("quotes"),
		analyticsCache: cache.New[Analytics]("analytics"),
		metrics:        NewRecorder(),
		logger:         log.With().Str("component", "pricing_service").Logger(),
		tracer:         otel.Tracer("pricing-engine"),
	}
}

// GetPricing resolves one pricing request. It always returns a response
// object; failures set Success to false and never propagate as errors.
func (s *Service) GetPricing(ctx context.Context, req Request) *Response {
	start := time.Now()
	s.totalRequests.Add(1)

	req.Normalize()

	ctx, span := s.tracer.Start(ctx, "pricing.GetPricing",
		trace.WithAttributes(
			attribute.Int64("pricing.part_id", req.PartID),
			attribute.Int("pricing.quantity", req.Quantity),
			attribute.String("pricing.tier", string(req.Tier)),
			attribute.String("pricing.currency", string(req.Currency)),
		))
	defer span.End()

	if err := req.Validate(); err != nil {
		return s.failure(req, start, err)
	}

	s.metrics.RecordRequest(req.Tier, req.Quantity)
	key := req.Fingerprint()

	if q, ok := s.quoteCache.Get(key); ok {
		s.cacheHitCount.Add(1)
		s.metrics.RecordCacheHit(req.Tier)
		span.SetAttributes(attribute.Bool("pricing.cache_hit", true))
		return s.assemble(req, q, true, start)
	}

	s.metrics.RecordCacheMiss(req.Tier)
	span.SetAttributes(attribute.Bool("pricing.cache_hit", false))

	// Concurrent misses for the same fingerprint collapse into one
	// computation; the result is pure, so sharing it is safe.
	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		return s.compute(ctx, req, key)
	})
	if err != nil {
		return s.failure(req, start, err)
	}

	return s.assemble(req, v.(quote), false, start)
}

// compute runs the miss path: fetch the record set, derive all facts,
// and store the quote under its tier TTL.
func (s *Service) compute(ctx context.Context, req Request, key string) (quote, error) {
	computeStart := time.Now()

	records, err := s.source.FindEligiblePrices(ctx, req.PartID)
	if err != nil {
		return quote{}, fmt.Errorf("price record lookup for part %d: %w", req.PartID, err)
	}
	if len(records) == 0 {
		return quote{}, ErrNoPriceAvailable
	}

	primary := records[0]
	facts := Calculate(primary, req, records, s.converter)

	q := quote{
		facts: facts,
		tax: TaxBreakdown{
			NetAmount:   facts.NetTotal,
			TaxRate:     facts.VATRate,
			TaxAmount:   facts.VATAmount,
			GrossAmount: facts.GrossTotal,
		},
		available: primary.Available,
	}

	if a, ok := s.analyticsCache.Get(key); ok {
		q.analytics = a
	} else {
		q.analytics = ComputeAnalytics(primary, records)
		s.analyticsCache.Put(key, q.analytics, s.config.AnalyticsTTL)
	}

	elapsed := time.Since(computeStart)
	s.totalComputeTimeMs.Add(elapsed.Milliseconds())
	s.metrics.RecordCompute(elapsed)

	s.quoteCache.Put(key, q, s.config.ttlFor(req.Tier))

	s.logger.Debug().
		Int64("part_id", req.PartID).
		Int("quantity", req.Quantity).
		Str("tier", string(req.Tier)).
		Dur("compute_time", elapsed).
		Msg("Computed quote")

	return q, nil
}

// assemble builds the caller-facing response from a quote, applying the
// request's include flags to a copy so cached state is never mutated.
func (s *Service) assemble(req Request, q quote, cacheHit bool, start time.Time) *Response {
	facts := q.facts
	if !req.IncludeDiscounts {
		facts.BulkDiscounts = nil
	}

	resp := &Response{
		Success: true,
		Facts:   &facts,
		Meta: Meta{
			CacheHit:       cacheHit,
			ResponseTimeMs: time.Since(start).Milliseconds(),
		},
	}

	if req.IncludeTaxBreakdown {
		tax := q.tax
		resp.TaxBreakdown = &tax
	}
	if req.IncludeAnalytics {
		analytics := q.analytics
		resp.Analytics = &analytics
	}

	bundle, generated := s.recommender.Recommend(recommend.Input{
		PartID:    req.PartID,
		Quantity:  req.Quantity,
		Available: q.available,
		UnitGross: q.facts.UnitGross,
	})
	if generated {
		s.recommendationsGenerated.Add(1)
	}
	resp.Recommendations = &Recommendations{
		OptimalQuantity:       bundle.OptimalQuantity,
		Trend:                 bundle.Trend,
		DiscountOpportunities: bundle.DiscountOpportunities,
		Alternatives:          bundle.Alternatives,
		StockAdvice:           bundle.StockAdvice,
		ConfidenceScore:       bundle.ConfidenceScore,
	}

	return resp
}

// failure converts any engine error into the uniform failure response
// and bumps the error counter exactly once.
func (s *Service) failure(req Request, start time.Time, err error) *Response {
	s.errorCount.Add(1)

	var invalid *ErrInvalidRequest
	switch {
	case errors.As(err, &invalid):
		s.metrics.RecordError(errKindInvalidRequest)
		s.logger.Warn().
			Int64("part_id", req.PartID).
			Str("field", invalid.Field).
			Msg("Rejected invalid pricing request")
	case errors.Is(err, ErrNoPriceAvailable):
		s.metrics.RecordError(errKindNoPrice)
		s.logger.Warn().
			Int64("part_id", req.PartID).
			Msg("No eligible price record for part")
	default:
		// Storage-level failure. Same shape to the caller, but logged
		// distinctly for operability.
		s.metrics.RecordError(errKindUpstream)
		s.logger.Error().
			Err(err).
			Int64("part_id", req.PartID).
			Msg("Price record source unavailable")
	}

	return &Response{
		Success: false,
		Error:   err.Error(),
		Meta: Meta{
			CacheHit:       false,
			ResponseTimeMs: time.Since(start).Milliseconds(),
		},
	}
}

// InvalidateAllCaches unconditionally clears the quote, analytics and
// recommendation caches.
func (s *Service) InvalidateAllCaches() {
	s.quoteCache.InvalidateAll()
	s.analyticsCache.InvalidateAll()
	s.recommender.InvalidateAll()
	s.logger.Info().Msg("All pricing caches invalidated")
}

// Stats returns a snapshot of the request counters.
func (s *Service) Stats() StatsSnapshot {
	return StatsSnapshot{
		TotalRequests:            s.totalRequests.Load(),
		CacheHits:                s.cacheHitCount.Load(),
		TotalComputeTimeMs:       s.totalComputeTimeMs.Load(),
		ErrorCount:               s.errorCount.Load(),
		RecommendationsGenerated: s.recommendationsGenerated.Load(),
	}
}

// CacheEntryCount sums the live entries across all three caches.
func (s *Service) CacheEntryCount() int {
	return s.quoteCache.Len() + s.analyticsCache.Len() + s.recommender.CacheLen()
}

// Health runs the lightweight self-test: the record source must be
// reachable and return a well-formed result for the probe part. Cache
// state is not mutated.
func (s *Service) Health(ctx context.Context) HealthStatus {
	checks := map[string]string{}
	status := "ok"

	records, err := s.source.FindEligiblePrices(ctx, s.config.ProbePartID)
	switch {
	case err != nil:
		checks["record_source"] = "unreachable: " + err.Error()
		status = "degraded"
	case len(records) > 0 && !records[0].Eligible():
		checks["record_source"] = "returned ineligible record"
		status = "degraded"
	default:
		checks["record_source"] = "ok"
	}

	return HealthStatus{
		Status:          status,
		CacheEntryCount: s.CacheEntryCount(),
		Checks:          checks,
	}
}
