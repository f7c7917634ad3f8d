// Package metrics collects per-run counters and writes them in the
// Prometheus text format for the node exporter textfile collector.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Run holds the metrics of one batch run on its own registry.
type Run struct {
	registry *prometheus.Registry

	// ItemsTotal counts processed items. Labels: status (ok/error).
	ItemsTotal *prometheus.CounterVec
	// CaptionsTotal counts emitted caption lines.
	CaptionsTotal prometheus.Counter
	// LineRulesTotal counts lines by the rule that closed them.
	LineRulesTotal *prometheus.CounterVec
	// HallucinationsTotal counts dropped trailing segments. Labels: reason.
	HallucinationsTotal *prometheus.CounterVec
	// RepetitionsTotal counts repetitions. Labels: kind, merged.
	RepetitionsTotal *prometheus.CounterVec
	// CorrectionsTotal counts dictionary replacements.
	CorrectionsTotal prometheus.Counter
	// SpellingFailuresTotal counts unknown token occurrences.
	SpellingFailuresTotal prometheus.Counter
	// BoundaryCacheLookups counts cache lookups. Labels: result (hit/miss).
	BoundaryCacheLookups *prometheus.CounterVec
	// ItemDuration observes the processing time per item in seconds.
	ItemDuration prometheus.Histogram
	// LastRunTimestamp is the Unix time the run finished.
	LastRunTimestamp prometheus.Gauge
}

// New registers the run metrics on a fresh registry.
func New() *Run {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Run{
		registry: reg,
		ItemsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "whispersubs_items_total",
			Help: "Media items processed by status",
		}, []string{"status"}),
		CaptionsTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "whispersubs_captions_total",
			Help: "Caption lines written",
		}),
		LineRulesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "whispersubs_line_rules_total",
			Help: "Caption lines by the rule that closed them",
		}, []string{"rule"}),
		HallucinationsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "whispersubs_hallucinations_total",
			Help: "Trailing segments dropped as hallucinations by reason",
		}, []string{"reason"}),
		RepetitionsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "whispersubs_repetitions_total",
			Help: "Repeated words and word pairs",
		}, []string{"kind", "merged"}),
		CorrectionsTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "whispersubs_corrections_total",
			Help: "Dictionary replacements applied",
		}),
		SpellingFailuresTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "whispersubs_spelling_failures_total",
			Help: "Occurrences of tokens unknown to the spelling dictionary",
		}),
		BoundaryCacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Name: "whispersubs_boundary_cache_lookups_total",
			Help: "Sentence boundary cache lookups by result",
		}, []string{"result"}),
		ItemDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "whispersubs_item_duration_seconds",
			Help:    "Processing time per media item",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
		}),
		LastRunTimestamp: f.NewGauge(prometheus.GaugeOpts{
			Name: "whispersubs_last_run_timestamp_seconds",
			Help: "Unix time the last run finished",
		}),
	}
}

// RecordItem records the outcome of one item.
func (r *Run) RecordItem(ok bool, took time.Duration) {
	status := "ok"
	if !ok {
		status = "error"
	}
	r.ItemsTotal.WithLabelValues(status).Inc()
	r.ItemDuration.Observe(took.Seconds())
}

// RecordCache adds the boundary cache counters.
func (r *Run) RecordCache(hits, misses int) {
	r.BoundaryCacheLookups.WithLabelValues("hit").Add(float64(hits))
	r.BoundaryCacheLookups.WithLabelValues("miss").Add(float64(misses))
}

// Gatherer exposes the registry, mainly for tests.
func (r *Run) Gatherer() prometheus.Gatherer {
	return r.registry
}

// WriteTextfile stamps the run end time and writes all metrics to path.
func (r *Run) WriteTextfile(path string) error {
	r.LastRunTimestamp.SetToCurrentTime()
	return prometheus.WriteToTextfile(path, r.registry)
}
