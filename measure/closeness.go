package measure

import "github.com/tempnet/tempnet/graph"

var (
	_ Local  = (*LocalCloseness)(nil)
	_ Global = (*GlobalCloseness)(nil)
)

// LocalCloseness computes closeness centrality on every time step's graph,
// with the same maxCount-count+1 weighting as betweenness. Steps without
// edges are skipped and leave zeros.
type LocalCloseness struct {
	localCentrality
}

// NewLocalCloseness eagerly computes local closeness centrality for every
// node of the temporal graph.
func NewLocalCloseness(tg *graph.TemporalGraph) (*LocalCloseness, error) {
	base, err := newLocalCentrality(tg,
		"Local Closeness Centrality",
		"Closeness centrality of every node per time step, the inverse of its mean weighted distance to reachable nodes",
		(*weightedGraph).closeness)
	if err != nil {
		return nil, err
	}
	return &LocalCloseness{base}, nil
}

// GlobalCloseness computes closeness centrality on the collapsed graph of the
// whole observation period.
type GlobalCloseness struct {
	globalCentrality
}

// NewGlobalCloseness eagerly computes global closeness centrality for every
// node of the temporal graph.
func NewGlobalCloseness(tg *graph.TemporalGraph) (*GlobalCloseness, error) {
	base, err := newGlobalCentrality(tg,
		"Global Closeness Centrality",
		"Closeness centrality of every node on the collapsed graph of the whole observation period",
		(*weightedGraph).closeness)
	if err != nil {
		return nil, err
	}
	return &GlobalCloseness{base}, nil
}
