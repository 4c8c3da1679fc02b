package reduction

import (
	"github.com/mdmuhtasimfuadfahim/girvan-newman-algorithm/pkg/algorithms"
	"github.com/mdmuhtasimfuadfahim/girvan-newman-algorithm/pkg/graph"
	"github.com/mdmuhtasimfuadfahim/girvan-newman-algorithm/pkg/visualization"
)

// NodeView is a node as presented to consumers of a step result.
type NodeView struct {
	ID        string   `json:"id" yaml:"id"`
	Label     string   `json:"label" yaml:"label"`
	X         *float64 `json:"x" yaml:"x"`
	Y         *float64 `json:"y" yaml:"y"`
	Community *int     `json:"community,omitempty" yaml:"community,omitempty"`
}

// LinkView is one undirected edge.
type LinkView struct {
	Source string `json:"source" yaml:"source"`
	Target string `json:"target" yaml:"target"`
}

// OriginalView is the untouched graph annotated with every edge's score and
// the edge chosen for removal. RemovedEdge is nil when the graph has no edges.
type OriginalView struct {
	Nodes       []NodeView              `json:"nodes" yaml:"nodes"`
	Links       []LinkView              `json:"links" yaml:"links"`
	Betweenness *algorithms.EdgeScores  `json:"betweenness" yaml:"betweenness"`
	RemovedEdge *graph.EdgeKey          `json:"removedEdge" yaml:"removedEdge"`
	TopEdges    []algorithms.RankedEdge `json:"topEdges" yaml:"topEdges"`
}

// AfterView is the graph with the removed edge gone and every node labeled
// with its component index. Modularity scores the component partition
// against the original graph.
type AfterView struct {
	Nodes       []NodeView              `json:"nodes" yaml:"nodes"`
	Links       []LinkView              `json:"links" yaml:"links"`
	Communities []*algorithms.Community `json:"communities" yaml:"communities"`
	Modularity  float64                 `json:"modularity" yaml:"modularity"`
}

// Result holds both views of a single reduction step.
type Result struct {
	Original *OriginalView `json:"original" yaml:"original"`
	After    *AfterView    `json:"after" yaml:"after"`
}

// RemovedEdge returns the removed edge, if any.
func (r *Result) RemovedEdge() (graph.EdgeKey, bool) {
	if r == nil || r.Original == nil || r.Original.RemovedEdge == nil {
		return "", false
	}
	return *r.Original.RemovedEdge, true
}

// Option configures a reduction step.
type Option func(*options)

type options struct {
	layout   visualization.Layout
	topEdges int
}
