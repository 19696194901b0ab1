// Package graph provides the directed contact-network graph consumed by
// the simulation engines.
//
// The graph is read-only once built: the engines enumerate nodes and
// in-neighbors but never mutate topology.
//
// DETERMINISM: Nodes() and Predecessors() return identifiers in sorted
// order. The engines iterate in exactly that order, which is what makes
// stochastic runs reproducible under a fixed random seed.
package graph

import (
	"fmt"
	"sort"
)

// NodeID identifies a node in the contact network.
type NodeID int

// Directed is a directed graph stored as forward and reverse adjacency
// sets. Reverse adjacency exists because the spread rules are driven by
// in-neighbors (who can infect me), not out-neighbors.
type Directed struct {
	nodes map[NodeID]struct{}
	preds map[NodeID]map[NodeID]struct{}

	// Sorted views, rebuilt lazily on first read after a mutation.
	sortedNodes []NodeID
	sortedPreds map[NodeID][]NodeID
	dirty       bool
}

// NewDirected creates an empty directed graph.
func NewDirected() *Directed {
	return &Directed{
		nodes: make(map[NodeID]struct{}),
		preds: make(map[NodeID]map[NodeID]struct{}),
		dirty: true,
	}
}

// AddNode adds a node. Adding an existing node is a no-op.
func (g *Directed) AddNode(id NodeID) {
	if _, ok := g.nodes[id]; ok {
		return
	}
	g.nodes[id] = struct{}{}
	g.dirty = true
}

// AddEdge adds a directed edge from→to, creating both endpoints if
// needed. Duplicate edges collapse to one.
func (g *Directed) AddEdge(from, to NodeID) {
	g.AddNode(from)
	g.AddNode(to)
	if g.preds[to] == nil {
		g.preds[to] = make(map[NodeID]struct{})
	}
	g.preds[to][from] = struct{}{}
	g.dirty = true
}

// HasNode reports whether id is in the graph.
func (g *Directed) HasNode(id NodeID) bool {
	_, ok := g.nodes[id]
	return ok
}

// Len returns the number of nodes.
func (g *Directed) Len() int {
	return len(g.nodes)
}

// Nodes returns all node identifiers in ascending order.
// The returned slice is shared; callers must not modify it.
func (g *Directed) Nodes() []NodeID {
	g.rebuild()
	return g.sortedNodes
}

// Predecessors returns the in-neighbors of id in ascending order.
// Returns nil for a node with no incoming edges (or an unknown node).
// The returned slice is shared; callers must not modify it.
func (g *Directed) Predecessors(id NodeID) []NodeID {
	g.rebuild()
	return g.sortedPreds[id]
}

// rebuild refreshes the sorted views after mutations.
func (g *Directed) rebuild() {
	if !g.dirty {
		return
	}
	g.sortedNodes = make([]NodeID, 0, len(g.nodes))
	for id := range g.nodes {
		g.sortedNodes = append(g.sortedNodes, id)
	}
	sort.Slice(g.sortedNodes, func(i, j int) bool { return g.sortedNodes[i] < g.sortedNodes[j] })

	g.sortedPreds = make(map[NodeID][]NodeID, len(g.preds))
	for id, set := range g.preds {
		ps := make([]NodeID, 0, len(set))
		for p := range set {
			ps = append(ps, p)
		}
		sort.Slice(ps, func(i, j int) bool { return ps[i] < ps[j] })
		g.sortedPreds[id] = ps
	}
	g.dirty = false
}

// FromEdges builds a graph from a directed edge list plus optional
// isolated nodes. Each edge is a [from, to] pair.
func FromEdges(nodes []NodeID, edges [][2]NodeID) *Directed {
	g := NewDirected()
	for _, n := range nodes {
		g.AddNode(n)
	}
	for _, e := range edges {
		g.AddEdge(e[0], e[1])
	}
	return g
}

// String returns a compact description, useful in logs and errors.
func (g *Directed) String() string {
	edges := 0
	for _, set := range g.preds {
		edges += len(set)
	}
	return fmt.Sprintf("directed graph (%d nodes, %d edges)", len(g.nodes), edges)
}
