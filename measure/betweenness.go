package measure

import "github.com/tempnet/tempnet/graph"

var (
	_ Local  = (*LocalBetweenness)(nil)
	_ Global = (*GlobalBetweenness)(nil)
)

// LocalBetweenness computes normalized betweenness centrality on every time
// step's graph. Edge weight is maxCount-count+1 within the step, so paths
// through frequently interacting pairs count as shorter. Steps without edges
// are skipped and leave zeros.
type LocalBetweenness struct {
	localCentrality
}

// NewLocalBetweenness eagerly computes local betweenness centrality for every
// node of the temporal graph.
func NewLocalBetweenness(tg *graph.TemporalGraph) (*LocalBetweenness, error) {
	base, err := newLocalCentrality(tg,
		"Local Betweenness Centrality",
		"Betweenness centrality of every node per time step, the share of weighted shortest paths passing through it",
		(*weightedGraph).betweenness)
	if err != nil {
		return nil, err
	}
	return &LocalBetweenness{base}, nil
}

// GlobalBetweenness computes normalized betweenness centrality on the
// collapsed graph of the whole observation period, with weights derived from
// the aggregate occurrence counts.
type GlobalBetweenness struct {
	globalCentrality
}

// NewGlobalBetweenness eagerly computes global betweenness centrality for
// every node of the temporal graph.
func NewGlobalBetweenness(tg *graph.TemporalGraph) (*GlobalBetweenness, error) {
	base, err := newGlobalCentrality(tg,
		"Global Betweenness Centrality",
		"Betweenness centrality of every node on the collapsed graph of the whole observation period",
		(*weightedGraph).betweenness)
	if err != nil {
		return nil, err
	}
	return &GlobalBetweenness{base}, nil
}
