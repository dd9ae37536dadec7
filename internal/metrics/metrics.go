// Package metrics provides Prometheus metrics for feed acquisition.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FetchTotal counts feed fetches by result (ok, cache_hit, skipped, error).
	FetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rssdigest",
			Name:      "feed_fetch_total",
			Help:      "Total number of feed fetches",
		},
		[]string{"result"},
	)

	// FetchErrors counts failed fetches by error kind.
	FetchErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rssdigest",
			Name:      "feed_fetch_errors_total",
			Help:      "Total number of failed feed fetches by kind",
		},
		[]string{"kind"},
	)

	// Remediations counts retries against a known replacement URL.
	Remediations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rssdigest",
			Name:      "url_remediation_total",
			Help:      "Total number of retries against a known replacement URL",
		},
		[]string{"status"},
	)

	// ProbeTotal counts health probes by outcome.
	ProbeTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rssdigest",
			Name:      "health_probe_total",
			Help:      "Total number of health probes by outcome",
		},
		[]string{"outcome"},
	)

	// DuplicatesRemoved counts articles dropped by deduplication.
	DuplicatesRemoved = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "rssdigest",
			Name:      "duplicates_removed_total",
			Help:      "Total number of articles removed as duplicates",
		},
	)

	// BatchDuration measures a full fan-out batch.
	BatchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "rssdigest",
			Name:      "batch_duration_seconds",
			Help:      "Duration of fetch and probe batches in seconds",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60},
		},
		[]string{"mode"},
	)
)

func RecordFetch(result string) {
	FetchTotal.WithLabelValues(result).Inc()
}

func RecordFetchError(kind string) {
	FetchTotal.WithLabelValues("error").Inc()
	FetchErrors.WithLabelValues(kind).Inc()
}

func RecordRemediation(status string) {
	Remediations.WithLabelValues(status).Inc()
}

func RecordProbe(outcome string) {
	ProbeTotal.WithLabelValues(outcome).Inc()
}

func RecordDuplicates(n int) {
	if n > 0 {
		DuplicatesRemoved.Add(float64(n))
	}
}

func ObserveBatch(mode string, seconds float64) {
	BatchDuration.WithLabelValues(mode).Observe(seconds)
}
