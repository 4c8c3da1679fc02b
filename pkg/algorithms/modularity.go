package algorithms

import (
	"maps"
	"slices"

	"github.com/mdmuhtasimfuadfahim/girvan-newman-algorithm/pkg/graph"
)

// Modularity scores a partition against g using Newman's definition
// Q = sum over communities of (L_c/m - (d_c/2m)^2), where L_c counts edges
// inside community c and d_c sums the degrees of its nodes. Nodes missing
// from the partition are ignored. A graph without edges scores 0.
func Modularity(g *graph.Graph, nodeCommunity map[string]int) float64 {
	m := float64(g.EdgeCount())
	if m == 0 {
		return 0.0
	}

	internal := make(map[int]float64)
	degrees := make(map[int]float64)

	for _, u := range g.NodeIDs() {
		cu, ok := nodeCommunity[u]
		if !ok {
			continue
		}
		neighbors := g.Neighbors(u)
		degrees[cu] += float64(len(neighbors))
		for _, v := range neighbors {
			if cv, ok := nodeCommunity[v]; ok && cv == cu && u < v {
				internal[cu]++
			}
		}
	}

	q := 0.0
	for _, c := range slices.Sorted(maps.Keys(degrees)) {
		d := degrees[c]
		q += internal[c]/m - (d/(2*m))*(d/(2*m))
	}
	return q
}
