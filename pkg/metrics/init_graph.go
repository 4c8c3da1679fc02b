package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initGraphMetrics() {
	r.GraphNodes = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "graph_nodes",
			Help:      "Number of nodes in the loaded graph",
		},
	)

	r.GraphEdges = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "graph_edges",
			Help:      "Number of undirected edges in the loaded graph",
		},
	)

	r.GraphComponents = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "graph_components_after_step",
			Help:      "Number of connected components after removing one edge",
		},
	)

	r.RemovedEdgeScore = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "removed_edge_betweenness",
			Help:      "Betweenness score of the removed edge, 0 when none was removed",
		},
	)

	r.ModularityAfterStep = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "modularity_after_step",
			Help:      "Newman modularity of the post-step partition",
		},
	)

	r.ParserSkippedLines = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "parser_skipped_lines_total",
			Help:      "Total number of unrecognised input lines",
		},
	)
}
