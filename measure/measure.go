// Package measure computes structural node measures (degree, betweenness and
// closeness centrality) over temporal graphs, either per time step or over
// the collapsed weighted graph of the whole observation period, and writes
// the results back into node attribute storage.
package measure

import (
	"errors"
	"fmt"

	"github.com/tempnet/tempnet/graph"
)

// ErrNilGraph is returned when a measure is constructed without a temporal
// graph.
var ErrNilGraph = errors.New("nil temporal graph")

// Measure is the capability set shared by all node measures. Construction
// computes all values eagerly; AddToGraph persists them onto the nodes under
// the measure's human-readable name, which is how they become visible to
// filter, statistics and presentation consumers.
type Measure interface {
	Name() string
	Description() string
	AddToGraph() error
}

// Local is a measure producing one value per node and time step.
type Local interface {
	Measure

	// Values returns the node's value sequence, one entry per time step.
	Values(nodeID int) ([]float64, error)
}

// Global is a measure producing a single value per node, aggregated over the
// whole observation period.
type Global interface {
	Measure

	// Value returns the node's aggregated value.
	Value(nodeID int) (float64, error)
}

// localCentrality is the shared implementation of per-timestep centrality
// measures. Every registered node gets a full value sequence; nodes absent
// from a step's graph keep that step's zero and steps without edges are
// skipped entirely.
type localCentrality struct {
	tg     *graph.TemporalGraph
	name   string
	desc   string
	values map[int][]float64
}

func newLocalCentrality(tg *graph.TemporalGraph, name, desc string, compute func(*weightedGraph) map[int]float64) (localCentrality, error) {
	if tg == nil {
		return localCentrality{}, fmt.Errorf("%s: %w", name, ErrNilGraph)
	}

	m := localCentrality{tg: tg, name: name, desc: desc, values: make(map[int][]float64)}
	for _, node := range tg.Nodes() {
		m.values[node.ID()] = make([]float64, tg.Len())
	}

	for step, g := range tg.Graphs() {
		if g.Len() == 0 {
			continue
		}
		for id, value := range compute(newWeightedGraph(stepCounts(g))) {
			if series, ok := m.values[id]; ok {
				series[step] = value
			}
		}
	}
	return m, nil
}

func (m *localCentrality) Name() string        { return m.name }
func (m *localCentrality) Description() string { return m.desc }

// Values returns a copy of the node's per-step value sequence.
func (m *localCentrality) Values(nodeID int) ([]float64, error) {
	series, ok := m.values[nodeID]
	if !ok {
		return nil, fmt.Errorf("%s: node %d: %w", m.name, nodeID, graph.ErrUnknownNode)
	}
	out := make([]float64, len(series))
	copy(out, series)
	return out, nil
}

// AddToGraph writes every node's value sequence into its local attribute
// store under the measure's name and registers the attribute in the graph's
// catalog.
func (m *localCentrality) AddToGraph() error {
	values := make(map[int][]graph.AttributeValue, len(m.values))
	for id, series := range m.values {
		attrs := make([]graph.AttributeValue, len(series))
		for step, value := range series {
			attrs[step] = value
		}
		values[id] = attrs
	}
	return m.tg.AddLocalAttribute(m.name, graph.Interval, values)
}

// globalCentrality is the shared implementation of whole-period centrality
// measures, computed over the graph formed by summing edge occurrence counts
// across all time steps. Nodes without any edge keep a zero value.
type globalCentrality struct {
	tg     *graph.TemporalGraph
	name   string
	desc   string
	values map[int]float64
}

func newGlobalCentrality(tg *graph.TemporalGraph, name, desc string, compute func(*weightedGraph) map[int]float64) (globalCentrality, error) {
	if tg == nil {
		return globalCentrality{}, fmt.Errorf("%s: %w", name, ErrNilGraph)
	}

	m := globalCentrality{tg: tg, name: name, desc: desc, values: make(map[int]float64)}
	for _, node := range tg.Nodes() {
		m.values[node.ID()] = 0
	}

	counts := totalCounts(tg)
	if len(counts) > 0 {
		for id, value := range compute(newWeightedGraph(counts)) {
			if _, ok := m.values[id]; ok {
				m.values[id] = value
			}
		}
	}
	return m, nil
}

func (m *globalCentrality) Name() string        { return m.name }
func (m *globalCentrality) Description() string { return m.desc }

// Value returns the node's aggregated value.
func (m *globalCentrality) Value(nodeID int) (float64, error) {
	value, ok := m.values[nodeID]
	if !ok {
		return 0, fmt.Errorf("%s: node %d: %w", m.name, nodeID, graph.ErrUnknownNode)
	}
	return value, nil
}

// AddToGraph writes every node's value into its global attribute store under
// the measure's name and registers the attribute in the graph's catalog.
func (m *globalCentrality) AddToGraph() error {
	values := make(map[int]graph.AttributeValue, len(m.values))
	for id, value := range m.values {
		values[id] = value
	}
	return m.tg.AddGlobalAttribute(m.name, graph.Interval, values)
}
