package graph

import (
	"fmt"
	"sort"

	"github.com/hashicorp/go-multierror"
	"github.com/tempnet/tempnet/dataset"
)

// TemporalGraph owns the ordered sequence of per-timestep graphs and the node
// registry. It is built once from a raw observation list and mutated only
// through explicit attribute updates afterwards.
type TemporalGraph struct {
	graphs      []*Graph
	nodes       map[int]*TemporalNode
	granularity int
	cumulative  bool
	meta        *dataset.MetadataTable
	attrs       map[string]AttributeInfo
}

// New discretizes the raw observation list into consecutive half-open time
// buckets of the given width, starting at the earliest observed timestamp.
// The final bucket is clipped to the latest timestamp; a granularity wider
// than the whole observed span yields a single bucket.
//
// When a metadata table is supplied, the node registry is populated from its
// rows and every node referenced by an edge must have a metadata row;
// construction fails otherwise, reporting all offending nodes. Without
// metadata, the registry is derived from the edges and every node starts with
// an empty attribute set. An empty edge list yields a graph with zero time
// steps.
func New(edges []dataset.TemporalEdge, meta *dataset.MetadataTable, granularity int) (*TemporalGraph, error) {
	if granularity <= 0 {
		return nil, fmt.Errorf("new temporal graph: granularity %d must be positive", granularity)
	}

	buckets, err := dataset.GroupByGranularity(edges, granularity)
	if err != nil {
		return nil, fmt.Errorf("new temporal graph: %w", err)
	}

	tg := &TemporalGraph{
		graphs:      make([]*Graph, len(buckets)),
		nodes:       make(map[int]*TemporalNode),
		granularity: granularity,
		meta:        meta,
		attrs:       make(map[string]AttributeInfo),
	}

	for step, bucket := range buckets {
		grouped := make(map[nodePair][]int)
		for _, edge := range bucket {
			pair := canonicalPair(edge.A, edge.B)
			grouped[pair] = append(grouped[pair], edge.Timestamp)
		}
		stepEdges := make([]Edge, 0, len(grouped))
		for pair, timestamps := range grouped {
			stepEdges = append(stepEdges, NewEdge(pair.a, pair.b, timestamps))
		}
		tg.graphs[step] = NewGraph(stepEdges)
	}

	if meta != nil {
		for _, id := range meta.Keys() {
			attrs, err := meta.Node(id)
			if err != nil {
				return nil, fmt.Errorf("new temporal graph: %w", err)
			}
			tg.nodes[id] = newTemporalNode(id, attrs, len(buckets))
		}

		var missing *multierror.Error
		for _, id := range edgeNodes(tg.graphs) {
			if _, ok := tg.nodes[id]; !ok {
				missing = multierror.Append(missing, fmt.Errorf("node %d referenced by an edge: %w", id, ErrMissingMetadata))
			}
		}
		if err := missing.ErrorOrNil(); err != nil {
			return nil, fmt.Errorf("new temporal graph: %w", err)
		}
	} else {
		for _, id := range edgeNodes(tg.graphs) {
			tg.nodes[id] = newTemporalNode(id, nil, len(buckets))
		}
	}

	return tg, nil
}

// NewFromTable builds a temporal graph from an edge table. A non-positive
// granularity selects the table's inferred update delta as the bucket width,
// the natural sampling resolution of the data.
func NewFromTable(table *dataset.TemporalEdgeTable, meta *dataset.MetadataTable, granularity int) (*TemporalGraph, error) {
	if granularity <= 0 {
		delta, err := table.UpdateDelta()
		if err != nil {
			return nil, fmt.Errorf("new temporal graph: %w", err)
		}
		granularity = delta
	}
	return New(table.Edges(), meta, granularity)
}

func edgeNodes(graphs []*Graph) []int {
	seen := make(map[int]struct{})
	for _, g := range graphs {
		for _, id := range g.Nodes() {
			seen[id] = struct{}{}
		}
	}
	ids := make([]int, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Len returns the number of time steps.
func (tg *TemporalGraph) Len() int { return len(tg.graphs) }

// Granularity returns the bucket width the graph was built with.
func (tg *TemporalGraph) Granularity() int { return tg.granularity }

// SetCumulative toggles cumulative mode. When enabled, At and iteration
// return graphs accumulating all edges from the first bucket up to and
// including the requested one. The toggle only affects subsequent reads; the
// accumulated view is recomputed on access and attribute values already
// written to nodes are left untouched.
func (tg *TemporalGraph) SetCumulative(cumulative bool) { tg.cumulative = cumulative }

// Cumulative reports whether cumulative mode is enabled.
func (tg *TemporalGraph) Cumulative() bool { return tg.cumulative }

// At returns the graph of the given time step, honoring cumulative mode.
// Out-of-range steps fail with ErrStepOutOfRange.
func (tg *TemporalGraph) At(step int) (*Graph, error) {
	if step < 0 || step >= len(tg.graphs) {
		return nil, fmt.Errorf("step %d of %d: %w", step, len(tg.graphs), ErrStepOutOfRange)
	}
	if !tg.cumulative {
		return tg.graphs[step], nil
	}

	var edges []Edge
	for _, g := range tg.graphs[:step+1] {
		edges = append(edges, g.edges...)
	}
	// NewGraph merges the per-bucket edges of a pair into one.
	return NewGraph(edges), nil
}

// Graphs returns the graphs of all time steps in order, honoring cumulative
// mode. The returned slice is a fresh copy.
func (tg *TemporalGraph) Graphs() []*Graph {
	graphs := make([]*Graph, len(tg.graphs))
	for step := range tg.graphs {
		graphs[step], _ = tg.At(step)
	}
	return graphs
}

// Iterator returns a fresh iterator over the graphs in time-step order.
// Iteration is stateless with respect to the temporal graph; any number of
// iterators can run independently.
func (tg *TemporalGraph) Iterator() *GraphIterator {
	return &GraphIterator{tg: tg, next: 0}
}

// Nodes returns all registered nodes in ascending id order.
func (tg *TemporalGraph) Nodes() []*TemporalNode {
	ids := make([]int, 0, len(tg.nodes))
	for id := range tg.nodes {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	nodes := make([]*TemporalNode, len(ids))
	for i, id := range ids {
		nodes[i] = tg.nodes[id]
	}
	return nodes
}

// Node returns the node with the given id, failing with ErrUnknownNode if it
// is not registered.
func (tg *TemporalGraph) Node(id int) (*TemporalNode, error) {
	node, ok := tg.nodes[id]
	if !ok {
		return nil, fmt.Errorf("node %d: %w", id, ErrUnknownNode)
	}
	return node, nil
}

// GraphIterator iterates the time steps of a temporal graph in order.
type GraphIterator struct {
	tg   *TemporalGraph
	next int
	curr *Graph
}

// Next advances the iterator. It returns false when all time steps have been
// visited.
func (it *GraphIterator) Next() bool {
	if it.next >= it.tg.Len() {
		return false
	}
	it.curr, _ = it.tg.At(it.next)
	it.next++
	return true
}

// Graph returns the graph fetched by the last call to Next.
func (it *GraphIterator) Graph() *Graph { return it.curr }

// Error returns the last error encountered by the iterator.
func (it *GraphIterator) Error() error { return nil }

// Close releases any resources associated with the iterator.
func (it *GraphIterator) Close() error { return nil }
