// Package cache provides the TTL cache used for computed pricing results.
package cache

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	cacheEntries = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "pricing_cache_entries",
		Help: "Current number of live entries per cache",
	}, []string{"cache"})

	cacheEvictions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pricing_cache_evictions_total",
		Help: "Total number of TTL evictions per cache",
	}, []string{"cache"})
)

// entry wraps a cached value together with its lifetime bounds and the
// timer that will sweep it. Entries are replaced, never mutated.
type entry[T any] struct {
	value      T
	insertedAt time.Time
	expiresAt  time.Time
	timer      *time.Timer
}

// Cache is a mutex-guarded TTL cache. Eviction is driven by a timer
// scheduled at insertion time; Get additionally checks expiresAt so a
// read racing the timer never observes a stale value.
type Cache[T any] struct {
	mu      sync.Mutex
	name    string
	entries map[string]*entry[T]
	logger  zerolog.Logger
}

// New creates an empty cache. The name labels metrics and log lines.
func New[T any](name string) *Cache[T] {
	return &Cache[T]{
		name:    name,
		entries: make(map[string]*entry[T]),
		logger:  log.With().Str("component", "cache").Str("cache", name).Logger(),
	}
}

// Get returns the value for key if present and not past its deadline.
// An entry whose timer has not fired yet but whose deadline has passed
// is treated as absent and removed.
func (c *Cache[T]) Get(key string) (T, bool) {
	var zero T

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return zero, false
	}
	if !time.Now().Before(e.expiresAt) {
		e.timer.Stop()
		delete(c.entries, key)
		cacheEntries.WithLabelValues(c.name).Set(float64(len(c.entries)))
		return zero, false
	}
	return e.value, true
}

// Put stores value under key with the given TTL, replacing any existing
// entry and its pending eviction. Each Put schedules exactly one future
// removal so unread keys are still reclaimed.
func (c *Cache[T]) Put(key string, value T, ttl time.Duration) {
	now := time.Now()
	e := &entry[T]{
		value:      value,
		insertedAt: now,
		expiresAt:  now.Add(ttl),
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if old, ok := c.entries[key]; ok {
		old.timer.Stop()
	}
	e.timer = time.AfterFunc(ttl, func() { c.evict(key, e) })
	c.entries[key] = e
	cacheEntries.WithLabelValues(c.name).Set(float64(len(c.entries)))
}

// evict removes key, but only if it still maps to the entry the timer
// belongs to. A timer firing after InvalidateAll or after the key was
// replaced is a no-op.
func (c *Cache[T]) evict(key string, e *entry[T]) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cur, ok := c.entries[key]
	if !ok || cur != e {
		return
	}
	delete(c.entries, key)
	cacheEntries.WithLabelValues(c.name).Set(float64(len(c.entries)))
	cacheEvictions.WithLabelValues(c.name).Inc()
	c.logger.Debug().Str("key", key).Msg("Evicted expired entry")
}

// InvalidateAll drops every entry and cancels their pending evictions.
// Safe to call repeatedly.
func (c *Cache[T]) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, e := range c.entries {
		e.timer.Stop()
	}
	n := len(c.entries)
	c.entries = make(map[string]*entry[T])
	cacheEntries.WithLabelValues(c.name).Set(0)
	c.logger.Info().Int("entries", n).Msg("Cache invalidated")
}

// Len returns the number of entries currently stored, including any
// whose timers have not fired yet.
func (c *Cache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
