package metrics

import (
	"time"
)

// RecordHTTPRequest records an HTTP request with its duration
func (r *Registry) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	r.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// RecordRecompute records the outcome of a load-parse-reduce cycle
func (r *Registry) RecordRecompute(err error, duration time.Duration) {
	status := StatusSuccess
	if err != nil {
		status = StatusError
	}
	r.RecomputesTotal.WithLabelValues(status).Inc()
	r.RecomputeDuration.Observe(duration.Seconds())
	if err == nil {
		r.LastRecompute.SetToCurrentTime()
	}
}

// GraphStats summarises one reduction step for export
type GraphStats struct {
	Nodes       int
	Edges       int
	Components  int
	RemovedEdge bool
	Score       float64
	Modularity  float64
	Skipped     int
}

// UpdateGraph publishes the gauges describing the latest snapshot
func (r *Registry) UpdateGraph(s GraphStats) {
	r.GraphNodes.Set(float64(s.Nodes))
	r.GraphEdges.Set(float64(s.Edges))
	r.GraphComponents.Set(float64(s.Components))
	if s.RemovedEdge {
		r.RemovedEdgeScore.Set(s.Score)
	} else {
		r.RemovedEdgeScore.Set(0)
	}
	r.ModularityAfterStep.Set(s.Modularity)
	if s.Skipped > 0 {
		r.ParserSkippedLines.Add(float64(s.Skipped))
	}
}

// UpdateUptime sets the uptime gauge from a start time
func (r *Registry) UpdateUptime(start time.Time) {
	r.UptimeSeconds.Set(time.Since(start).Seconds())
}

// IncHTTPRequestsInFlight increments the in-flight request gauge
func (r *Registry) IncHTTPRequestsInFlight() {
	r.HTTPRequestsInFlight.Inc()
}

// DecHTTPRequestsInFlight decrements the in-flight request gauge
func (r *Registry) DecHTTPRequestsInFlight() {
	r.HTTPRequestsInFlight.Dec()
}
