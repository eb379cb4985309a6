package graph

import "sort"

// nodePair is an unordered pair of node ids stored in canonical (sorted)
// order, so (a, b) and (b, a) always map to the same entry.
type nodePair struct {
	a, b int
}

func canonicalPair(a, b int) nodePair {
	if a > b {
		a, b = b, a
	}
	return nodePair{a: a, b: b}
}

// Edge is an aggregated observation between two nodes within one time step:
// the canonical node pair plus the raw timestamps that collapsed into it.
// Edges are immutable once created.
type Edge struct {
	pair       nodePair
	timestamps []int
}

// NewEdge creates an edge between the two nodes, canonicalizing the pair and
// keeping a sorted copy of the contributing raw timestamps.
func NewEdge(a, b int, timestamps []int) Edge {
	ts := make([]int, len(timestamps))
	copy(ts, timestamps)
	sort.Ints(ts)
	return Edge{pair: canonicalPair(a, b), timestamps: ts}
}

// IncidentNodes returns the canonical node pair of the edge.
func (e Edge) IncidentNodes() (int, int) { return e.pair.a, e.pair.b }

// Count returns the number of raw observations aggregated into the edge.
func (e Edge) Count() int { return len(e.timestamps) }

// Timestamps returns a copy of the raw timestamps aggregated into the edge,
// in ascending order.
func (e Edge) Timestamps() []int {
	ts := make([]int, len(e.timestamps))
	copy(ts, e.timestamps)
	return ts
}
