package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var registry = prometheus.NewRegistry()

var registerer = prometheus.WrapRegistererWith(nil, registry)

var (
	// Latency buckets in milliseconds; moderation checks are network-bound,
	// so the range tops out around remote-API timeout territory.
	latencyBuckets = []float64{
		25, 50, 100,
		250, 500, 1000,
		2500, 5000, 10000,
	}

	// TextChecksTotal counts whole-text verdicts per direction ("input" or
	// "output") and result ("allowed" or "blocked").
	TextChecksTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "censorgate_text_checks_total",
			Help: "Total number of text moderation checks",
		},
		[]string{"direction", "result"},
	)

	// SegmentChecksTotal counts per-segment verdicts; result is "allowed",
	// "flagged" or "error" (transport/protocol failures, fail-closed).
	SegmentChecksTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "censorgate_segment_checks_total",
			Help: "Total number of per-segment moderation requests",
		},
		[]string{"result"},
	)

	TextCheckLatency = promauto.With(registerer).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "censorgate_text_check_latency_ms",
			Help:    "Whole-text moderation check latency in milliseconds",
			Buckets: latencyBuckets,
		},
		[]string{"direction"},
	)
)

// Registry exposes the metrics registry for hosts that scrape it.
func Registry() *prometheus.Registry {
	return registry
}
