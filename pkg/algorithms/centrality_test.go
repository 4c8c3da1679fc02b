package algorithms

import (
	"math"
	"testing"

	"github.com/mdmuhtasimfuadfahim/girvan-newman-algorithm/pkg/graph"
)

const scoreTolerance = 1e-9

// setupCentralityTestGraph builds a graph from node IDs and undirected edges
func setupCentralityTestGraph(t *testing.T, ids []string, edges [][2]string) *graph.Graph {
	t.Helper()

	g := graph.New()
	for _, id := range ids {
		g.AddNode(id, nil, nil)
	}
	for _, e := range edges {
		if err := g.AddEdge(e[0], e[1]); err != nil {
			t.Fatalf("Failed to add edge %s-%s: %v", e[0], e[1], err)
		}
	}
	return g
}

// twoTrianglesWithBridge returns A-B-C and D-E-F triangles joined by C-D
func twoTrianglesWithBridge(t *testing.T) *graph.Graph {
	t.Helper()
	return setupCentralityTestGraph(t,
		[]string{"A", "B", "C", "D", "E", "F"},
		[][2]string{
			{"A", "B"}, {"B", "C"}, {"C", "A"},
			{"D", "E"}, {"E", "F"}, {"F", "D"},
			{"C", "D"},
		})
}

func assertScore(t *testing.T, scores *EdgeScores, u, v string, expected float64) {
	t.Helper()
	got, ok := scores.Score(u, v)
	if !ok {
		t.Fatalf("Missing score for edge %s-%s", u, v)
	}
	if math.Abs(got-expected) > scoreTolerance {
		t.Errorf("Edge %s-%s: expected %f, got %f", u, v, expected, got)
	}
}

// TestEdgeBetweenness_EmptyGraph tests edge betweenness on empty graph
func TestEdgeBetweenness_EmptyGraph(t *testing.T) {
	scores := EdgeBetweenness(graph.New())

	if scores.Len() != 0 {
		t.Errorf("Expected 0 scores for empty graph, got %d", scores.Len())
	}
}

// TestEdgeBetweenness_NoEdges tests that isolated nodes produce no scores
func TestEdgeBetweenness_NoEdges(t *testing.T) {
	g := setupCentralityTestGraph(t, []string{"A", "B", "C"}, nil)

	scores := EdgeBetweenness(g)

	if scores.Len() != 0 {
		t.Errorf("Expected 0 scores for edge-free graph, got %d", scores.Len())
	}
}

// TestEdgeBetweenness_SingleEdge tests a single connected pair
func TestEdgeBetweenness_SingleEdge(t *testing.T) {
	g := setupCentralityTestGraph(t, []string{"A", "B"}, [][2]string{{"A", "B"}})

	assertScore(t, EdgeBetweenness(g), "A", "B", 1)
}

// TestEdgeBetweenness_PathGraph tests the classic A-B-C-D reference values
func TestEdgeBetweenness_PathGraph(t *testing.T) {
	g := setupCentralityTestGraph(t,
		[]string{"A", "B", "C", "D"},
		[][2]string{{"A", "B"}, {"B", "C"}, {"C", "D"}})

	scores := EdgeBetweenness(g)

	if scores.Len() != 3 {
		t.Fatalf("Expected 3 scores, got %d", scores.Len())
	}
	assertScore(t, scores, "A", "B", 3)
	assertScore(t, scores, "B", "C", 4)
	assertScore(t, scores, "C", "D", 3)
}

// TestEdgeBetweenness_Symmetric tests lookup by either endpoint order
func TestEdgeBetweenness_Symmetric(t *testing.T) {
	g := twoTrianglesWithBridge(t)
	scores := EdgeBetweenness(g)

	for _, key := range g.Edges() {
		u, v := key.Endpoints()
		forward, ok1 := scores.Score(u, v)
		backward, ok2 := scores.Score(v, u)
		if !ok1 || !ok2 {
			t.Fatalf("Missing score for %s", key)
		}
		if forward != backward {
			t.Errorf("Score(%s,%s)=%f differs from Score(%s,%s)=%f", u, v, forward, v, u, backward)
		}
	}
}

// TestEdgeBetweenness_Bridge tests that the bridge between two triangles dominates
func TestEdgeBetweenness_Bridge(t *testing.T) {
	scores := EdgeBetweenness(twoTrianglesWithBridge(t))

	// Bridge carries all 3x3 cross pairs
	assertScore(t, scores, "C", "D", 9)
	assertScore(t, scores, "A", "B", 1)
	assertScore(t, scores, "A", "C", 4)
	assertScore(t, scores, "B", "C", 4)
	assertScore(t, scores, "D", "E", 4)
	assertScore(t, scores, "D", "F", 4)
	assertScore(t, scores, "E", "F", 1)

	bridge, _ := scores.Score("C", "D")
	for _, key := range scores.Keys() {
		if key == graph.EdgeKeyOf("C", "D") {
			continue
		}
		if s, _ := scores.Get(key); s >= bridge {
			t.Errorf("Edge %s score %f not below bridge score %f", key, s, bridge)
		}
	}
}

// TestEdgeBetweenness_Cycle tests split shortest paths on a 4-cycle
func TestEdgeBetweenness_Cycle(t *testing.T) {
	g := setupCentralityTestGraph(t,
		[]string{"A", "B", "C", "D"},
		[][2]string{{"A", "B"}, {"B", "C"}, {"C", "D"}, {"D", "A"}})

	scores := EdgeBetweenness(g)

	// One adjacent pair plus half of each of the two opposite pairs
	for _, key := range scores.Keys() {
		u, v := key.Endpoints()
		assertScore(t, scores, u, v, 2)
	}
}

// TestEdgeBetweenness_Disconnected tests that scores never cross components
func TestEdgeBetweenness_Disconnected(t *testing.T) {
	g := setupCentralityTestGraph(t,
		[]string{"A", "B", "C", "D", "E"},
		[][2]string{{"A", "B"}, {"C", "D"}})

	scores := EdgeBetweenness(g)

	assertScore(t, scores, "A", "B", 1)
	assertScore(t, scores, "C", "D", 1)
	if scores.Len() != 2 {
		t.Errorf("Expected 2 scores, got %d", scores.Len())
	}
}

// TestEdgeBetweenness_KeyOrder tests that scores follow edge enumeration order
func TestEdgeBetweenness_KeyOrder(t *testing.T) {
	g := setupCentralityTestGraph(t,
		[]string{"C", "A", "B"},
		[][2]string{{"C", "B"}, {"A", "C"}, {"A", "B"}})

	keys := EdgeBetweenness(g).Keys()
	expected := g.Edges()

	if len(keys) != len(expected) {
		t.Fatalf("Expected %d keys, got %d", len(expected), len(keys))
	}
	for i := range keys {
		if keys[i] != expected[i] {
			t.Errorf("Key %d: expected %s, got %s", i, expected[i], keys[i])
		}
	}
}

// TestEdgeBetweenness_DoesNotMutate tests the graph is left unchanged
func TestEdgeBetweenness_DoesNotMutate(t *testing.T) {
	g := twoTrianglesWithBridge(t)
	before := g.Edges()

	EdgeBetweenness(g)

	after := g.Edges()
	if len(before) != len(after) {
		t.Fatalf("Edge count changed from %d to %d", len(before), len(after))
	}
	for i := range before {
		if before[i] != after[i] {
			t.Errorf("Edge %d changed from %s to %s", i, before[i], after[i])
		}
	}
}

// TestEdgeScores_MarshalJSON tests that JSON keeps enumeration order
func TestEdgeScores_MarshalJSON(t *testing.T) {
	g := setupCentralityTestGraph(t,
		[]string{"C", "B", "A"},
		[][2]string{{"B", "C"}, {"A", "B"}})

	data, err := EdgeBetweenness(g).MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON failed: %v", err)
	}

	expected := `{"B|C":2,"A|B":2}`
	if string(data) != expected {
		t.Errorf("Expected %s, got %s", expected, data)
	}
}

// TestTopEdges tests ranking with ties kept in enumeration order
func TestTopEdges(t *testing.T) {
	g := setupCentralityTestGraph(t,
		[]string{"A", "B", "C", "D"},
		[][2]string{{"A", "B"}, {"B", "C"}, {"C", "D"}})

	top := TopEdges(EdgeBetweenness(g), 2)

	if len(top) != 2 {
		t.Fatalf("Expected 2 ranked edges, got %d", len(top))
	}
	if top[0].Key != "B|C" || top[0].Score != 4 {
		t.Errorf("Expected B|C with 4 first, got %s with %f", top[0].Key, top[0].Score)
	}
	if top[1].Key != "A|B" {
		t.Errorf("Expected tie to keep A|B before C|D, got %s", top[1].Key)
	}
	if top[1].Source != "A" || top[1].Target != "B" {
		t.Errorf("Expected endpoints A, B, got %s, %s", top[1].Source, top[1].Target)
	}
}

// TestTopEdges_Empty tests ranking an empty score set
func TestTopEdges_Empty(t *testing.T) {
	if top := TopEdges(EdgeBetweenness(graph.New()), 5); len(top) != 0 {
		t.Errorf("Expected no ranked edges, got %d", len(top))
	}
	if top := TopEdges(nil, 5); top != nil {
		t.Errorf("Expected nil for nil scores, got %v", top)
	}
}
