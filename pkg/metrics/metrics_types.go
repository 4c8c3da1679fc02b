package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Namespace prefixes every exported metric name.
const Namespace = "girvan_newman"

// Recompute outcome label values
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Registry holds all metrics for the application
type Registry struct {
	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Recompute Metrics
	RecomputesTotal   *prometheus.CounterVec
	RecomputeDuration prometheus.Histogram
	LastRecompute     prometheus.Gauge

	// Graph Metrics
	GraphNodes          prometheus.Gauge
	GraphEdges          prometheus.Gauge
	GraphComponents     prometheus.Gauge
	RemovedEdgeScore    prometheus.Gauge
	ModularityAfterStep prometheus.Gauge

	// Parser Metrics
	ParserSkippedLines prometheus.Counter

	// System Metrics
	UptimeSeconds prometheus.Gauge

	registry *prometheus.Registry
}

var (
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the process-wide registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a registry with every metric registered, plus the Go
// runtime and process collectors.
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
	}

	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	r.initHTTPMetrics()
	r.initRecomputeMetrics()
	r.initGraphMetrics()
	r.initSystemMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
