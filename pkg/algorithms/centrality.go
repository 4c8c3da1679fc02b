package algorithms

import (
	"container/heap"
	"container/list"
	"sort"

	"github.com/mdmuhtasimfuadfahim/girvan-newman-algorithm/pkg/graph"
)

// predEdge tracks a predecessor node and the edge used to reach it during BFS.
// This allows the back-propagation phase to accumulate flow onto specific edges.
type predEdge struct {
	nodeID  string
	edgeKey graph.EdgeKey
}

// EdgeBetweenness computes Brandes edge betweenness centrality for every
// undirected edge of an unweighted graph.
//
// Each source runs a BFS that records hop distance, shortest-path counts
// (sigma) and predecessor lists, then dependencies are back-propagated in
// reverse discovery order. Every undirected shortest path is met once from
// each of its endpoints, so all scores are halved at the end. Scores are not
// normalised.
func EdgeBetweenness(g *graph.Graph) *EdgeScores {
	nodeIDs := g.NodeIDs()

	scores := newEdgeScores()
	for _, key := range g.Edges() {
		scores.init(key)
	}

	for _, source := range nodeIDs {
		stack := make([]string, 0, len(nodeIDs))
		predecessors := make(map[string][]predEdge, len(nodeIDs))
		sigma := make(map[string]float64, len(nodeIDs))
		distance := make(map[string]int, len(nodeIDs))

		for _, nodeID := range nodeIDs {
			predecessors[nodeID] = nil
			sigma[nodeID] = 0.0
			distance[nodeID] = -1
		}

		sigma[source] = 1.0
		distance[source] = 0

		queue := list.New()
		queue.PushBack(source)

		for queue.Len() > 0 {
			v, ok := queue.Remove(queue.Front()).(string)
			if !ok {
				continue
			}
			stack = append(stack, v)

			for _, w := range g.Neighbors(v) {
				if distance[w] < 0 {
					queue.PushBack(w)
					distance[w] = distance[v] + 1
				}

				if distance[w] == distance[v]+1 {
					sigma[w] += sigma[v]
					predecessors[w] = append(predecessors[w], predEdge{
						nodeID:  v,
						edgeKey: graph.EdgeKeyOf(v, w),
					})
				}
			}
		}

		// Back-propagation onto edges, furthest nodes first
		delta := make(map[string]float64, len(nodeIDs))
		for _, nodeID := range nodeIDs {
			delta[nodeID] = 0.0
		}

		for i := len(stack) - 1; i >= 0; i-- {
			w := stack[i]
			sigmaW := sigma[w]
			if sigmaW == 0 {
				sigmaW = 1
			}
			for _, pred := range predecessors[w] {
				contribution := (sigma[pred.nodeID] / sigmaW) * (1.0 + delta[w])
				scores.add(pred.edgeKey, contribution)
				delta[pred.nodeID] += contribution
			}
		}
	}

	for _, key := range scores.keys {
		scores.scores[key] /= 2.0
	}

	return scores
}

// RankedEdge holds a ranked edge with its betweenness centrality score.
type RankedEdge struct {
	Key    graph.EdgeKey `json:"key" yaml:"key"`
	Source string        `json:"source" yaml:"source"`
	Target string        `json:"target" yaml:"target"`
	Score  float64       `json:"score" yaml:"score"`
	order  int
}

// rankedEdgeHeap implements a min-heap for RankedEdge by score.
type rankedEdgeHeap []RankedEdge

func (h rankedEdgeHeap) Len() int { return len(h) }
func (h rankedEdgeHeap) Less(i, j int) bool {
	if h[i].Score != h[j].Score {
		return h[i].Score < h[j].Score
	}
	// Later edges are evicted first so earlier ones win ties
	return h[i].order > h[j].order
}
func (h rankedEdgeHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *rankedEdgeHeap) Push(x any) {
	*h = append(*h, x.(RankedEdge))
}

func (h *rankedEdgeHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[0 : n-1]
	return x
}

// TopEdges returns the n highest scoring edges, highest first. Equal scores
// keep enumeration order.
func TopEdges(scores *EdgeScores, n int) []RankedEdge {
	if n <= 0 || scores == nil {
		return nil
	}

	h := make(rankedEdgeHeap, 0, n)
	heap.Init(&h)

	for i, key := range scores.keys {
		score := scores.scores[key]
		source, target := key.Endpoints()

		re := RankedEdge{
			Key:    key,
			Source: source,
			Target: target,
			Score:  score,
			order:  i,
		}

		if h.Len() < n {
			heap.Push(&h, re)
		} else if score > h[0].Score {
			heap.Pop(&h)
			heap.Push(&h, re)
		}
	}

	result := make([]RankedEdge, h.Len())
	for i := h.Len() - 1; i >= 0; i-- {
		result[i] = heap.Pop(&h).(RankedEdge)
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Score != result[j].Score {
			return result[i].Score > result[j].Score
		}
		return result[i].order < result[j].order
	})

	return result
}
