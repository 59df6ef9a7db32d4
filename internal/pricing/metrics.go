package pricing

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pricing_requests_total",
		Help: "Total pricing requests by tier",
	}, []string{"tier"})

	cacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pricing_quote_cache_hits_total",
		Help: "Total quote cache hits by tier",
	}, []string{"tier"})

	cacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pricing_quote_cache_misses_total",
		Help: "Total quote cache misses by tier",
	}, []string{"tier"})

	computeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pricing_compute_duration_seconds",
		Help:    "Time spent computing a quote on cache miss",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	})

	requestErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pricing_errors_total",
		Help: "Total failed pricing requests by kind",
	}, []string{"kind"})

	quoteQuantity = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pricing_quote_quantity",
		Help:    "Requested quantities per quote",
		Buckets: []float64{1, 5, 10, 25, 50, 100, 500},
	})
)

// Error kind labels for requestErrors.
const (
	errKindInvalidRequest = "invalid_request"
	errKindNoPrice        = "no_price_available"
	errKindUpstream       = "upstream_unavailable"
)

// Recorder records pricing engine metrics.
type Recorder struct{}

// NewRecorder creates a metrics recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// RecordRequest records an incoming pricing request.
func (r *Recorder) RecordRequest(tier PriceTier, quantity int) {
	requestsTotal.WithLabelValues(string(tier)).Inc()
	quoteQuantity.Observe(float64(quantity))
}

// RecordCacheHit records a quote served from cache.
func (r *Recorder) RecordCacheHit(tier PriceTier) {
	cacheHits.WithLabelValues(string(tier)).Inc()
}

// RecordCacheMiss records a quote that had to be computed.
func (r *Recorder) RecordCacheMiss(tier PriceTier) {
	cacheMisses.WithLabelValues(string(tier)).Inc()
}

// RecordCompute records the duration of a fresh quote computation.
func (r *Recorder) RecordCompute(d time.Duration) {
	computeDuration.Observe(d.Seconds())
}

// RecordError records a failed request by error kind.
func (r *Recorder) RecordError(kind string) {
	requestErrors.WithLabelValues(kind).Inc()
}
