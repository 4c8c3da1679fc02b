package algorithms

import (
	"container/list"

	"github.com/mdmuhtasimfuadfahim/girvan-newman-algorithm/pkg/graph"
)

// ConnectedComponents partitions the graph into connected components with a
// BFS flood fill started from each unvisited node in insertion order. Nodes
// inside a component are listed in discovery order; isolated nodes form
// singleton components.
func ConnectedComponents(g *graph.Graph) *CommunityDetectionResult {
	nodeIDs := g.NodeIDs()

	visited := make(map[string]bool, len(nodeIDs))
	nodeCommunity := make(map[string]int, len(nodeIDs))
	communities := make([]*Community, 0)
	communityID := 0

	for _, startNode := range nodeIDs {
		if visited[startNode] {
			continue
		}

		component := &Community{
			ID:    communityID,
			Nodes: make([]string, 0),
		}

		queue := list.New()
		queue.PushBack(startNode)
		visited[startNode] = true

		for queue.Len() > 0 {
			nodeID, ok := queue.Remove(queue.Front()).(string)
			if !ok {
				continue
			}
			component.Nodes = append(component.Nodes, nodeID)
			nodeCommunity[nodeID] = communityID

			for _, neighbor := range g.Neighbors(nodeID) {
				if !visited[neighbor] {
					visited[neighbor] = true
					queue.PushBack(neighbor)
				}
			}
		}

		component.Size = len(component.Nodes)
		component.Density = density(g, component.Nodes)
		communities = append(communities, component)
		communityID++
	}

	return &CommunityDetectionResult{
		Communities:   communities,
		NodeCommunity: nodeCommunity,
	}
}

// density is the share of possible internal edges that are present.
func density(g *graph.Graph, nodes []string) float64 {
	k := len(nodes)
	if k < 2 {
		return 0.0
	}

	internal := 0
	for i := 0; i < k; i++ {
		for j := i + 1; j < k; j++ {
			if g.HasEdge(nodes[i], nodes[j]) {
				internal++
			}
		}
	}
	return float64(internal) / float64(k*(k-1)/2)
}
