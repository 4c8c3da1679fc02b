package graph

import (
	"strings"

	"github.com/emirpasic/gods/maps/linkedhashmap"
	"github.com/emirpasic/gods/sets/linkedhashset"
)

// New creates an empty graph
func New() *Graph {
	return &Graph{
		nodes: linkedhashmap.New(),
		adj:   linkedhashmap.New(),
	}
}

// FromRecords builds a graph from ordered node and edge lists. A node ID
// containing EdgeKeySeparator fails with *InvalidIDError, and the first edge
// that references an unknown node aborts the build.
func FromRecords(nodes []NodeRecord, edges []EdgeRecord) (*Graph, error) {
	g := New()
	for _, n := range nodes {
		if strings.Contains(n.ID, EdgeKeySeparator) {
			return nil, &InvalidIDError{ID: n.ID}
		}
		g.AddNode(n.ID, n.X, n.Y)
	}
	for _, e := range edges {
		if err := g.AddEdge(e.Source, e.Target); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// AddNode inserts a node. If the node already exists only the non-nil
// coordinates are updated; existing coordinates are never cleared.
func (g *Graph) AddNode(id string, x, y *float64) {
	if existing, found := g.nodes.Get(id); found {
		n := existing.(*Node)
		if x != nil {
			v := *x
			n.X = &v
		}
		if y != nil {
			v := *y
			n.Y = &v
		}
		return
	}

	g.nodes.Put(id, Node{ID: id, X: x, Y: y}.clone())
	g.adj.Put(id, linkedhashset.New())
}

// AddEdge connects u and v. Both endpoints must already exist. Self-loops are
// ignored and re-adding an existing edge is a no-op.
func (g *Graph) AddEdge(u, v string) error {
	var missing []string
	if !g.HasNode(u) {
		missing = append(missing, u)
	}
	if !g.HasNode(v) && v != u {
		missing = append(missing, v)
	}
	if len(missing) > 0 {
		return &InvalidEdgeError{Source: u, Target: v, Missing: missing}
	}

	if u == v {
		return nil
	}

	g.neighborSet(u).Add(v)
	g.neighborSet(v).Add(u)
	return nil
}

// RemoveEdge disconnects u and v. Removing an edge that does not exist is a
// no-op.
func (g *Graph) RemoveEdge(u, v string) {
	if set := g.neighborSet(u); set != nil {
		set.Remove(v)
	}
	if set := g.neighborSet(v); set != nil {
		set.Remove(u)
	}
}

// Clone returns a deep copy that shares no state with g. Node order and
// neighbor order are preserved.
func (g *Graph) Clone() *Graph {
	c := New()
	it := g.nodes.Iterator()
	for it.Next() {
		n := it.Value().(*Node)
		c.nodes.Put(n.ID, n.clone())
		c.adj.Put(n.ID, linkedhashset.New())
	}

	it = g.adj.Iterator()
	for it.Next() {
		u := it.Key().(string)
		target := c.neighborSet(u)
		for _, v := range it.Value().(*linkedhashset.Set).Values() {
			target.Add(v)
		}
	}
	return c
}

// HasNode reports whether the node exists.
func (g *Graph) HasNode(id string) bool {
	_, found := g.nodes.Get(id)
	return found
}

// Node returns a copy of the node record.
func (g *Graph) Node(id string) (Node, bool) {
	v, found := g.nodes.Get(id)
	if !found {
		return Node{}, false
	}
	return *v.(*Node).clone(), true
}

// NodeIDs returns node IDs in insertion order.
func (g *Graph) NodeIDs() []string {
	keys := g.nodes.Keys()
	ids := make([]string, len(keys))
	for i, k := range keys {
		ids[i] = k.(string)
	}
	return ids
}

// Nodes returns copies of all node records in insertion order.
func (g *Graph) Nodes() []Node {
	result := make([]Node, 0, g.nodes.Size())
	it := g.nodes.Iterator()
	for it.Next() {
		result = append(result, *it.Value().(*Node).clone())
	}
	return result
}

// Neighbors returns the neighbors of id in insertion order, or nil if the node
// does not exist.
func (g *Graph) Neighbors(id string) []string {
	set := g.neighborSet(id)
	if set == nil {
		return nil
	}
	values := set.Values()
	result := make([]string, len(values))
	for i, v := range values {
		result[i] = v.(string)
	}
	return result
}

// HasEdge reports whether u and v are adjacent.
func (g *Graph) HasEdge(u, v string) bool {
	set := g.neighborSet(u)
	return set != nil && set.Contains(v)
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	return g.nodes.Size()
}

// EdgeCount returns the number of undirected edges.
func (g *Graph) EdgeCount() int {
	total := 0
	it := g.adj.Iterator()
	for it.Next() {
		total += it.Value().(*linkedhashset.Set).Size()
	}
	return total / 2
}

// Edges enumerates every undirected edge once, as a canonical key. The order
// is node insertion order, then neighbor insertion order, keeping the
// direction where the first endpoint sorts before the second.
func (g *Graph) Edges() []EdgeKey {
	edges := make([]EdgeKey, 0)
	it := g.adj.Iterator()
	for it.Next() {
		u := it.Key().(string)
		for _, nv := range it.Value().(*linkedhashset.Set).Values() {
			v := nv.(string)
			if u < v {
				edges = append(edges, EdgeKeyOf(u, v))
			}
		}
	}
	return edges
}

// Links enumerates every undirected edge once in the order it is first met
// walking node insertion order then neighbor order. Unlike Edges, each pair is
// reported in the direction it was first encountered.
func (g *Graph) Links() [][2]string {
	links := make([][2]string, 0)
	seen := make(map[EdgeKey]bool)
	it := g.adj.Iterator()
	for it.Next() {
		u := it.Key().(string)
		for _, nv := range it.Value().(*linkedhashset.Set).Values() {
			v := nv.(string)
			key := EdgeKeyOf(u, v)
			if seen[key] {
				continue
			}
			seen[key] = true
			links = append(links, [2]string{u, v})
		}
	}
	return links
}

func (g *Graph) neighborSet(id string) *linkedhashset.Set {
	v, found := g.adj.Get(id)
	if !found {
		return nil
	}
	return v.(*linkedhashset.Set)
}
