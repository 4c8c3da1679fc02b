// Package reduction runs one Girvan–Newman step over an undirected graph.
//
// The step scores every edge with Brandes edge betweenness, removes the single
// highest scoring edge from a copy of the graph and labels the connected
// components of that copy. Both the scored original and the labeled copy are
// returned as views ready for serialisation.
//
// Ties for the highest score are broken by keeping the first maximal edge in
// the engine's enumeration order (node insertion order, then neighbor
// insertion order). Building the same graph in the same order therefore
// always removes the same edge.
//
// Community indices follow component discovery order. They are stable for a
// given input but carry no meaning beyond grouping nodes.
package reduction
