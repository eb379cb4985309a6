// Package stats provides descriptive statistics over temporal graphs and
// their node attributes, for consumption by reporting and presentation
// layers.
package stats

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/tempnet/tempnet/dataset"
	"github.com/tempnet/tempnet/graph"
)

// ErrNoValues is returned when a statistic is requested over an empty node
// list or an attribute with no usable values.
var ErrNoValues = errors.New("no attribute values")

// Interval is a closed timestamp interval.
type Interval struct {
	Start, End int
}

// TotalEdgesPerStep returns the number of raw observations per time step,
// counting each edge with its occurrence count.
func TotalEdgesPerStep(graphs []*graph.Graph) []int {
	totals := make([]int, 0, len(graphs))
	for _, g := range graphs {
		total := 0
		for _, edge := range g.Edges() {
			total += edge.Count()
		}
		totals = append(totals, total)
	}
	return totals
}

// NodesPerStep returns the number of nodes incident to at least one edge per
// time step.
func NodesPerStep(graphs []*graph.Graph) []int {
	counts := make([]int, 0, len(graphs))
	for _, g := range graphs {
		counts = append(counts, len(g.Nodes()))
	}
	return counts
}

// HistogramEdges buckets a raw observation list by the given granularity and
// returns the observation count per bucket. A non-positive granularity
// selects the inferred update delta. An empty edge list yields an empty
// histogram.
func HistogramEdges(edges []dataset.TemporalEdge, granularity int) ([]int, error) {
	if len(edges) == 0 {
		return nil, nil
	}
	if granularity <= 0 {
		delta, err := dataset.InferUpdateDelta(edges)
		if err != nil {
			return nil, fmt.Errorf("histogram edges: %w", err)
		}
		granularity = delta
	}

	buckets, err := dataset.GroupByGranularity(edges, granularity)
	if err != nil {
		return nil, fmt.Errorf("histogram edges: %w", err)
	}
	histogram := make([]int, len(buckets))
	for i, bucket := range buckets {
		histogram[i] = len(bucket)
	}
	return histogram, nil
}

// MultiStepInteractions maps every canonical node pair to the list of closed
// time intervals during which it interacted continuously, where two
// observations updateDelta apart count as one ongoing interaction.
func MultiStepInteractions(graphs []*graph.Graph, updateDelta int) map[[2]int][]Interval {
	timestamps := make(map[[2]int][]int)
	for _, g := range graphs {
		for _, edge := range g.Edges() {
			a, b := edge.IncidentNodes()
			timestamps[[2]int{a, b}] = append(timestamps[[2]int{a, b}], edge.Timestamps()...)
		}
	}

	interactions := make(map[[2]int][]Interval, len(timestamps))
	for pair, ts := range timestamps {
		sort.Ints(ts)
		intervals := []Interval{{Start: ts[0], End: ts[0]}}
		for _, t := range ts[1:] {
			if last := &intervals[len(intervals)-1]; last.End == t-updateDelta {
				last.End = t
			} else {
				intervals = append(intervals, Interval{Start: t, End: t})
			}
		}
		interactions[pair] = intervals
	}
	return interactions
}

// MeanStdev returns the mean and population standard deviation of a numeric
// global attribute over the given nodes.
func MeanStdev(nodes []*graph.TemporalNode, attr string) (mean, stdev float64, err error) {
	values, err := numericValues(nodes, attr)
	if err != nil {
		return 0, 0, err
	}

	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	var variance float64
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}
	return mean, math.Sqrt(variance / float64(len(values))), nil
}

// MedianOrdinal returns the median value of an ordinal global attribute,
// given the explicit category order from lowest to highest.
func MedianOrdinal(nodes []*graph.TemporalNode, attr string, order []string) (string, error) {
	rank := make(map[string]int, len(order))
	for i, category := range order {
		rank[category] = i
	}

	var ranks []int
	for _, node := range nodes {
		value, err := node.GlobalAttribute(attr)
		if err != nil {
			return "", fmt.Errorf("median of %q: %w", attr, err)
		}
		category, ok := value.(string)
		if !ok {
			return "", fmt.Errorf("median of %q: node %d holds a non-categorical value", attr, node.ID())
		}
		r, ok := rank[category]
		if !ok {
			return "", fmt.Errorf("median of %q: category %q not in the provided order", attr, category)
		}
		ranks = append(ranks, r)
	}
	if len(ranks) == 0 {
		return "", fmt.Errorf("median of %q: %w", attr, ErrNoValues)
	}

	sort.Ints(ranks)
	// Even-length inputs round the middle pair down, matching a floored
	// median over category indices.
	median := ranks[(len(ranks)-1)/2]
	if len(ranks)%2 == 0 {
		median = int(math.Floor(float64(ranks[len(ranks)/2-1]+ranks[len(ranks)/2]) / 2))
	}
	return order[median], nil
}

// Mode returns the most frequent value of a categorical global attribute.
// Ties break towards the lexicographically smallest category so the result
// is deterministic.
func Mode(nodes []*graph.TemporalNode, attr string) (string, error) {
	histogram, err := HistogramCategorical(nodes, attr)
	if err != nil {
		return "", err
	}
	if len(histogram) == 0 {
		return "", fmt.Errorf("mode of %q: %w", attr, ErrNoValues)
	}

	var (
		mode string
		best = -1
	)
	for category, count := range histogram {
		if count > best || (count == best && category < mode) {
			mode, best = category, count
		}
	}
	return mode, nil
}

// HistogramCategorical counts the occurrences of every value of a categorical
// global attribute over the given nodes.
func HistogramCategorical(nodes []*graph.TemporalNode, attr string) (map[string]int, error) {
	histogram := make(map[string]int)
	for _, node := range nodes {
		value, err := node.GlobalAttribute(attr)
		if err != nil {
			return nil, fmt.Errorf("histogram of %q: %w", attr, err)
		}
		category, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("histogram of %q: node %d holds a non-categorical value", attr, node.ID())
		}
		histogram[category]++
	}
	return histogram, nil
}

func numericValues(nodes []*graph.TemporalNode, attr string) ([]float64, error) {
	var values []float64
	for _, node := range nodes {
		value, err := node.GlobalAttribute(attr)
		if err != nil {
			return nil, fmt.Errorf("numeric values of %q: %w", attr, err)
		}
		switch v := value.(type) {
		case float64:
			values = append(values, v)
		case int:
			values = append(values, float64(v))
		default:
			return nil, fmt.Errorf("numeric values of %q: node %d holds a non-numeric value", attr, node.ID())
		}
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("numeric values of %q: %w", attr, ErrNoValues)
	}
	return values, nil
}
