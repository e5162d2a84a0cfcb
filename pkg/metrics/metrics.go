// Package metrics exposes Prometheus counters for the engine.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is what engine components report into
type Recorder interface {
	RecordEphemerisLookup(source string, ok bool)
	RecordCacheHit(tier string)
	RecordCacheMiss(tier string)
	RecordScan(body string, duration time.Duration, events int)
	RecordSkippedSample(body string)
	RecordScoreComputed(horizon string)
}

// Collector Prometheus 구현체
type Collector struct {
	ephemerisLookups *prometheus.CounterVec
	cacheHits        *prometheus.CounterVec
	cacheMisses      *prometheus.CounterVec
	scanDuration     *prometheus.HistogramVec
	scanEvents       *prometheus.CounterVec
	skippedSamples   *prometheus.CounterVec
	scoresComputed   *prometheus.CounterVec
}

// NewCollector creates a collector and registers it on reg
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		ephemerisLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "astro_ephemeris_lookups_total",
			Help: "Ephemeris position lookups by source and outcome",
		}, []string{"source", "result"}),
		cacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "astro_cache_hits_total",
			Help: "Cache hits by tier",
		}, []string{"tier"}),
		cacheMisses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "astro_cache_misses_total",
			Help: "Cache misses by tier",
		}, []string{"tier"}),
		scanDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "astro_transit_scan_duration_seconds",
			Help:    "Duration of one transit scan",
			Buckets: prometheus.DefBuckets,
		}, []string{"body"}),
		scanEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "astro_transit_events_total",
			Help: "Transit events emitted by scans",
		}, []string{"body"}),
		skippedSamples: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "astro_transit_skipped_samples_total",
			Help: "Scan samples skipped because the ephemeris was unavailable",
		}, []string{"body"}),
		scoresComputed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "astro_scores_computed_total",
			Help: "Score sets computed (cache misses)",
		}, []string{"horizon"}),
	}

	reg.MustRegister(
		c.ephemerisLookups,
		c.cacheHits,
		c.cacheMisses,
		c.scanDuration,
		c.scanEvents,
		c.skippedSamples,
		c.scoresComputed,
	)

	return c
}

func (c *Collector) RecordEphemerisLookup(source string, ok bool) {
	result := "ok"
	if !ok {
		result = "unavailable"
	}
	c.ephemerisLookups.WithLabelValues(source, result).Inc()
}

func (c *Collector) RecordCacheHit(tier string) {
	c.cacheHits.WithLabelValues(tier).Inc()
}

func (c *Collector) RecordCacheMiss(tier string) {
	c.cacheMisses.WithLabelValues(tier).Inc()
}

func (c *Collector) RecordScan(body string, duration time.Duration, events int) {
	c.scanDuration.WithLabelValues(body).Observe(duration.Seconds())
	c.scanEvents.WithLabelValues(body).Add(float64(events))
}

func (c *Collector) RecordSkippedSample(body string) {
	c.skippedSamples.WithLabelValues(body).Inc()
}

func (c *Collector) RecordScoreComputed(horizon string) {
	c.scoresComputed.WithLabelValues(horizon).Inc()
}

// Nop discards everything; used when METRICS_ENABLED=false and in tests
type Nop struct{}

func (Nop) RecordEphemerisLookup(string, bool) {}
func (Nop) RecordCacheHit(string) {}
func (Nop) RecordCacheMiss(string) {}
func (Nop) RecordScan(string, time.Duration, int) {}
func (Nop) RecordSkippedSample(string) {}
func (Nop) RecordScoreComputed(string) {}

// OrNop returns r, or Nop when r is nil
func OrNop(r Recorder) Recorder {
	if r == nil {
		return Nop{}
	}
	return r
}

// Handler returns the scrape handler for gatherer
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
