package graph

import (
	"strings"

	"github.com/emirpasic/gods/maps/linkedhashmap"
)

// EdgeKeySeparator joins the two endpoint IDs of a canonical edge key.
const EdgeKeySeparator = "|"

// Node is a vertex of the graph. Coordinates are layout hints only and never
// take part in any computation.
type Node struct {
	ID string   `json:"id"`
	X  *float64 `json:"x"`
	Y  *float64 `json:"y"`
}

// HasPosition reports whether both coordinates are set.
func (n Node) HasPosition() bool {
	return n.X != nil && n.Y != nil
}

func (n Node) clone() *Node {
	c := &Node{ID: n.ID}
	if n.X != nil {
		x := *n.X
		c.X = &x
	}
	if n.Y != nil {
		y := *n.Y
		c.Y = &y
	}
	return c
}

// EdgeKey is the canonical identity of an undirected edge: the two endpoint
// IDs ordered lexicographically and joined by EdgeKeySeparator.
type EdgeKey string

// EdgeKeyOf returns the canonical key for the unordered pair {u, v}.
func EdgeKeyOf(u, v string) EdgeKey {
	if u < v {
		return EdgeKey(u + EdgeKeySeparator + v)
	}
	return EdgeKey(v + EdgeKeySeparator + u)
}

// Endpoints splits the key back into its ordered endpoints.
func (k EdgeKey) Endpoints() (string, string) {
	u, v, _ := strings.Cut(string(k), EdgeKeySeparator)
	return u, v
}

// String returns the key as a plain string.
func (k EdgeKey) String() string {
	return string(k)
}

// Graph is an undirected simple graph. Nodes and neighbor sets keep
// insertion order so that every traversal over the graph is reproducible.
//
// Invariant: v is in adj[u] if and only if u is in adj[v].
type Graph struct {
	nodes *linkedhashmap.Map // string -> *Node
	adj   *linkedhashmap.Map // string -> *linkedhashset.Set of string
}

// NodeRecord is one entry of the node list fed into the graph engine. IDs
// must not contain EdgeKeySeparator.
type NodeRecord struct {
	ID string   `json:"id" yaml:"id" validate:"nodeid"`
	X  *float64 `json:"x,omitempty" yaml:"x,omitempty"`
	Y  *float64 `json:"y,omitempty" yaml:"y,omitempty"`
}

// EdgeRecord is one entry of the edge list fed into the graph engine.
type EdgeRecord struct {
	Source string `json:"source" yaml:"source" validate:"nodeid"`
	Target string `json:"target" yaml:"target" validate:"nodeid"`
}
