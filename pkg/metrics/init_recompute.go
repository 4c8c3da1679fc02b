package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initRecomputeMetrics() {
	r.RecomputesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "recomputes_total",
			Help:      "Total number of load-parse-reduce cycles by outcome",
		},
		[]string{"status"},
	)

	r.RecomputeDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "recompute_duration_seconds",
			Help:      "Duration of a load-parse-reduce cycle in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30},
		},
	)

	r.LastRecompute = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "last_recompute_timestamp_seconds",
			Help:      "Unix time of the last successful recompute",
		},
	)
}
