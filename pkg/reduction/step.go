package reduction

import (
	"math"

	"github.com/mdmuhtasimfuadfahim/girvan-newman-algorithm/pkg/algorithms"
	"github.com/mdmuhtasimfuadfahim/girvan-newman-algorithm/pkg/graph"
	"github.com/mdmuhtasimfuadfahim/girvan-newman-algorithm/pkg/visualization"
)

// DefaultTopEdges is how many ranked edges the original view lists.
const DefaultTopEdges = 10

// WithLayout fills in positions for nodes that have no coordinates. Nodes
// that already carry coordinates keep them.
func WithLayout(layout visualization.Layout) Option {
	return func(o *options) {
		o.layout = layout
	}
}

// WithTopEdges sets how many ranked edges the original view lists.
func WithTopEdges(n int) Option {
	return func(o *options) {
		o.topEdges = n
	}
}

// Run builds a graph from node and edge records and performs one step. An
// edge referencing an unknown node fails the whole run with an
// *graph.InvalidEdgeError, and a node ID containing graph.EdgeKeySeparator
// with an *graph.InvalidIDError, before any scoring happens.
func Run(nodes []graph.NodeRecord, edges []graph.EdgeRecord, opts ...Option) (*Result, error) {
	g, err := graph.FromRecords(nodes, edges)
	if err != nil {
		return nil, err
	}
	return Step(g, opts...), nil
}

// Step performs one Girvan–Newman step. g is never modified.
func Step(g *graph.Graph, opts ...Option) *Result {
	o := &options{topEdges: DefaultTopEdges}
	for _, opt := range opts {
		opt(o)
	}

	scores := algorithms.EdgeBetweenness(g)
	removed, found := SelectEdge(scores)

	after := g.Clone()
	if found {
		u, v := removed.Endpoints()
		after.RemoveEdge(u, v)
	}

	components := algorithms.ConnectedComponents(after)
	positions := fillPositions(g, o.layout)

	original := &OriginalView{
		Nodes:       nodeViews(g, positions, nil),
		Links:       linkViews(g),
		Betweenness: scores,
		TopEdges:    algorithms.TopEdges(scores, o.topEdges),
	}
	if found {
		original.RemovedEdge = &removed
	}

	return &Result{
		Original: original,
		After: &AfterView{
			Nodes:       nodeViews(after, positions, components),
			Links:       linkViews(after),
			Communities: components.Communities,
			Modularity:  algorithms.Modularity(g, components.NodeCommunity),
		},
	}
}

// SelectEdge returns the first edge, in score enumeration order, whose score
// is strictly greater than every score before it. It reports false when there
// are no edges.
func SelectEdge(scores *algorithms.EdgeScores) (graph.EdgeKey, bool) {
	var maxEdge graph.EdgeKey
	maxVal := math.Inf(-1)
	found := false

	for _, key := range scores.Keys() {
		val, _ := scores.Get(key)
		if val > maxVal {
			maxVal = val
			maxEdge = key
			found = true
		}
	}
	return maxEdge, found
}

// fillPositions lays out the nodes that lack a full coordinate pair.
func fillPositions(g *graph.Graph, layout visualization.Layout) map[string]visualization.Position {
	if layout == nil {
		return nil
	}

	missing := make([]string, 0)
	for _, n := range g.Nodes() {
		if !n.HasPosition() {
			missing = append(missing, n.ID)
		}
	}
	graphLinks := g.Links()
	links := make([]visualization.Link, len(graphLinks))
	for i, l := range graphLinks {
		links[i] = visualization.Link(l)
	}
	return layout.ComputeLayout(missing, links)
}

func nodeViews(g *graph.Graph, positions map[string]visualization.Position, components *algorithms.CommunityDetectionResult) []NodeView {
	nodes := g.Nodes()
	views := make([]NodeView, 0, len(nodes))

	for _, n := range nodes {
		view := NodeView{
			ID:    n.ID,
			Label: n.ID,
			X:     n.X,
			Y:     n.Y,
		}
		if pos, ok := positions[n.ID]; ok {
			if view.X == nil {
				x := pos.X
				view.X = &x
			}
			if view.Y == nil {
				y := pos.Y
				view.Y = &y
			}
		}
		if components != nil {
			if id, ok := components.CommunityOf(n.ID); ok {
				view.Community = &id
			}
		}
		views = append(views, view)
	}
	return views
}

func linkViews(g *graph.Graph) []LinkView {
	links := g.Links()
	views := make([]LinkView, len(links))
	for i, l := range links {
		views[i] = LinkView{Source: l[0], Target: l[1]}
	}
	return views
}
