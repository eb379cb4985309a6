// Package graph holds the temporal graph data model: per-timestep graph
// snapshots of aggregated edges, temporal nodes with global and per-timestep
// attributes, and the builder that discretizes a raw observation stream into
// an ordered graph sequence.
package graph

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrNoSuchEdge is returned when a graph holds no edge for the queried
	// node pair.
	ErrNoSuchEdge = errors.New("no such edge")

	// ErrStepOutOfRange is returned for time-step indices outside
	// [0, Len()).
	ErrStepOutOfRange = errors.New("time step out of range")

	// ErrUnknownNode is returned when a node id is not present in the node
	// registry.
	ErrUnknownNode = errors.New("unknown node")

	// ErrMissingMetadata is returned when an edge references a node that has
	// no row in the supplied metadata table.
	ErrMissingMetadata = errors.New("missing node in metadata")
)

// Graph is the immutable snapshot of a single time step: a set of aggregated
// edges with at most one edge per canonical node pair.
type Graph struct {
	edges []Edge
	index map[nodePair]int
}

// NewGraph creates a graph from the given edge list. Edges sharing a
// canonical node pair are merged into one, which keeps the one-edge-per-pair
// invariant even when accumulating several time steps.
func NewGraph(edges []Edge) *Graph {
	g := &Graph{index: make(map[nodePair]int, len(edges))}
	for _, edge := range edges {
		if at, ok := g.index[edge.pair]; ok {
			merged := append(g.edges[at].Timestamps(), edge.timestamps...)
			sort.Ints(merged)
			g.edges[at] = Edge{pair: edge.pair, timestamps: merged}
			continue
		}
		g.index[edge.pair] = len(g.edges)
		g.edges = append(g.edges, edge)
	}
	return g
}

// Edges returns a copy of the graph's edge list. Edges are sorted by their
// canonical node pair, so repeated calls observe the same order.
func (g *Graph) Edges() []Edge {
	edges := make([]Edge, len(g.edges))
	copy(edges, g.edges)
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].pair.a != edges[j].pair.a {
			return edges[i].pair.a < edges[j].pair.a
		}
		return edges[i].pair.b < edges[j].pair.b
	})
	return edges
}

// Edge looks up the edge between the two nodes, canonicalizing the pair
// first. It fails with ErrNoSuchEdge if the pair has no edge in this graph.
func (g *Graph) Edge(a, b int) (Edge, error) {
	pair := canonicalPair(a, b)
	at, ok := g.index[pair]
	if !ok {
		return Edge{}, fmt.Errorf("edge (%d, %d): %w", pair.a, pair.b, ErrNoSuchEdge)
	}
	return g.edges[at], nil
}

// Len returns the number of edges in the graph.
func (g *Graph) Len() int { return len(g.edges) }

// Nodes returns the ids of all nodes incident to at least one edge of the
// graph, in ascending order.
func (g *Graph) Nodes() []int {
	seen := make(map[int]struct{}, 2*len(g.edges))
	for _, edge := range g.edges {
		seen[edge.pair.a] = struct{}{}
		seen[edge.pair.b] = struct{}{}
	}
	nodes := make([]int, 0, len(seen))
	for id := range seen {
		nodes = append(nodes, id)
	}
	sort.Ints(nodes)
	return nodes
}
