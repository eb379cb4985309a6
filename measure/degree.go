package measure

import (
	"fmt"

	"github.com/tempnet/tempnet/graph"
)

// Compile-time checks that the degree measures implement the measure
// interfaces.
var (
	_ Local  = (*LocalDegree)(nil)
	_ Global = (*GlobalDegree)(nil)
)

// LocalDegree computes degree centrality per time step: the sum of the
// occurrence counts of all edges incident to the node within the step. Nodes
// absent from a step's graph get 0 for that step.
type LocalDegree struct {
	localCentrality
}

// NewLocalDegree eagerly computes local degree centrality for every node of
// the temporal graph.
func NewLocalDegree(tg *graph.TemporalGraph) (*LocalDegree, error) {
	name := "Local Degree Centrality"
	if tg == nil {
		return nil, fmt.Errorf("%s: %w", name, ErrNilGraph)
	}

	m := &LocalDegree{localCentrality{
		tg:     tg,
		name:   name,
		desc:   "Degree of every node per time step, counting each raw observation of an incident edge",
		values: make(map[int][]float64),
	}}
	for _, node := range tg.Nodes() {
		m.values[node.ID()] = make([]float64, tg.Len())
	}

	for step, g := range tg.Graphs() {
		for _, edge := range g.Edges() {
			a, b := edge.IncidentNodes()
			if series, ok := m.values[a]; ok {
				series[step] += float64(edge.Count())
			}
			if series, ok := m.values[b]; ok {
				series[step] += float64(edge.Count())
			}
		}
	}
	return m, nil
}

// GlobalDegree computes degree centrality over the whole observation period:
// the sum of a node's local degrees, which equals its degree in the collapsed
// weighted graph.
type GlobalDegree struct {
	globalCentrality
}

// NewGlobalDegree eagerly computes global degree centrality for every node of
// the temporal graph.
func NewGlobalDegree(tg *graph.TemporalGraph) (*GlobalDegree, error) {
	name := "Global Degree Centrality"
	local, err := NewLocalDegree(tg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, ErrNilGraph)
	}

	m := &GlobalDegree{globalCentrality{
		tg:     tg,
		name:   name,
		desc:   "Degree of every node over the whole observation period, the sum of all local degrees",
		values: make(map[int]float64, len(local.values)),
	}}
	for id, series := range local.values {
		var sum float64
		for _, value := range series {
			sum += value
		}
		m.values[id] = sum
	}
	return m, nil
}
