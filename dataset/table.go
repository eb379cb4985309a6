// Package dataset provides the normalized input tables for temporal graph
// construction: a timestamp-indexed table of raw proximity observations and a
// table of static per-node metadata attributes.
package dataset

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrNoEdges is returned when an operation requires a non-empty edge list.
	ErrNoEdges = errors.New("edge table contains no edges")

	// ErrInsufficientTimestamps is returned when the update delta cannot be
	// inferred because the data contains fewer than two distinct timestamps.
	// Tables remain usable; callers decide how to fall back.
	ErrInsufficientTimestamps = errors.New("fewer than two distinct timestamps")

	// ErrTimestampOutOfRange is returned for queries outside the observed
	// [earliest, latest] interval.
	ErrTimestampOutOfRange = errors.New("timestamp out of range")

	// ErrUnalignedTimestamp flags an exact-timestamp query that is not a
	// multiple of the inferred update delta. The query still produces a
	// result; the error is advisory.
	ErrUnalignedTimestamp = errors.New("timestamp not aligned to update delta")
)

// TemporalEdge is a single raw proximity observation: the two nodes were seen
// in contact at the given timestamp. Node order carries no meaning.
type TemporalEdge struct {
	Timestamp int
	A         int
	B         int
}

// TemporalEdgeTable holds a normalized list of raw observations, sorted by
// timestamp, together with the observed time interval and the inferred
// update delta.
type TemporalEdgeTable struct {
	edges    []TemporalEdge
	earliest int
	latest   int
	delta    int // 0 when it could not be inferred
}

// NewTemporalEdgeTable builds a table from a raw observation list. The input
// must contain at least one edge; the list is copied and sorted by timestamp.
func NewTemporalEdgeTable(edges []TemporalEdge) (*TemporalEdgeTable, error) {
	if len(edges) == 0 {
		return nil, fmt.Errorf("new edge table: %w", ErrNoEdges)
	}

	sorted := make([]TemporalEdge, len(edges))
	copy(sorted, edges)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Timestamp < sorted[j].Timestamp })

	t := &TemporalEdgeTable{
		edges:    sorted,
		earliest: sorted[0].Timestamp,
		latest:   sorted[len(sorted)-1].Timestamp,
	}
	t.delta, _ = InferUpdateDelta(sorted)
	return t, nil
}

// Earliest returns the smallest observed timestamp.
func (t *TemporalEdgeTable) Earliest() int { return t.earliest }

// Latest returns the largest observed timestamp.
func (t *TemporalEdgeTable) Latest() int { return t.latest }

// UpdateDelta returns the smallest positive difference between any two
// distinct observed timestamps, the natural sampling resolution of the data.
// If the table holds fewer than two distinct timestamps it returns
// ErrInsufficientTimestamps.
func (t *TemporalEdgeTable) UpdateDelta() (int, error) {
	if t.delta == 0 {
		return 0, fmt.Errorf("update delta: %w", ErrInsufficientTimestamps)
	}
	return t.delta, nil
}

// Len returns the number of raw observations in the table.
func (t *TemporalEdgeTable) Len() int { return len(t.edges) }

// Edges returns a copy of all observations, sorted by timestamp.
func (t *TemporalEdgeTable) Edges() []TemporalEdge {
	edges := make([]TemporalEdge, len(t.edges))
	copy(edges, t.edges)
	return edges
}

// At returns all observations with exactly the given timestamp. Timestamps
// outside [earliest, latest] are rejected with ErrTimestampOutOfRange.
// Querying a timestamp that is not aligned to the inferred update delta
// returns the (possibly empty) result together with ErrUnalignedTimestamp so
// that callers can surface the suspicious query without losing the data.
func (t *TemporalEdgeTable) At(timestamp int) ([]TemporalEdge, error) {
	if timestamp < t.earliest || timestamp > t.latest {
		return nil, fmt.Errorf("at %d: %w (%d, %d)", timestamp, ErrTimestampOutOfRange, t.earliest, t.latest)
	}

	var matched []TemporalEdge
	for _, edge := range t.edges {
		if edge.Timestamp == timestamp {
			matched = append(matched, edge)
		}
	}

	if t.delta > 0 && (timestamp-t.earliest)%t.delta != 0 {
		return matched, fmt.Errorf("at %d: %w (delta %d)", timestamp, ErrUnalignedTimestamp, t.delta)
	}
	return matched, nil
}

// Between returns all observations in the half-open interval [start, stop).
// The interval must be well-formed and intersect the observed time range.
func (t *TemporalEdgeTable) Between(start, stop int) ([]TemporalEdge, error) {
	if start >= stop {
		return nil, fmt.Errorf("between [%d, %d): %w", start, stop, ErrTimestampOutOfRange)
	}
	if stop <= t.earliest || start > t.latest {
		return nil, fmt.Errorf("between [%d, %d): %w (%d, %d)", start, stop, ErrTimestampOutOfRange, t.earliest, t.latest)
	}

	var matched []TemporalEdge
	for _, edge := range t.edges {
		if edge.Timestamp >= start && edge.Timestamp < stop {
			matched = append(matched, edge)
		}
	}
	return matched, nil
}

// TimeInterval returns the earliest and latest timestamp of an observation
// list. It fails with ErrNoEdges for empty input.
func TimeInterval(edges []TemporalEdge) (earliest, latest int, err error) {
	if len(edges) == 0 {
		return 0, 0, fmt.Errorf("time interval: %w", ErrNoEdges)
	}
	earliest, latest = edges[0].Timestamp, edges[0].Timestamp
	for _, edge := range edges[1:] {
		if edge.Timestamp < earliest {
			earliest = edge.Timestamp
		}
		if edge.Timestamp > latest {
			latest = edge.Timestamp
		}
	}
	return earliest, latest, nil
}

// InferUpdateDelta returns the smallest positive gap between any two distinct
// timestamps in the observation list.
func InferUpdateDelta(edges []TemporalEdge) (int, error) {
	seen := make(map[int]struct{}, len(edges))
	for _, edge := range edges {
		seen[edge.Timestamp] = struct{}{}
	}
	if len(seen) < 2 {
		return 0, fmt.Errorf("infer update delta: %w", ErrInsufficientTimestamps)
	}

	timestamps := make([]int, 0, len(seen))
	for ts := range seen {
		timestamps = append(timestamps, ts)
	}
	sort.Ints(timestamps)

	delta := timestamps[1] - timestamps[0]
	for i := 2; i < len(timestamps); i++ {
		if gap := timestamps[i] - timestamps[i-1]; gap < delta {
			delta = gap
		}
	}
	return delta, nil
}

// GroupByGranularity partitions the observed time range [earliest, latest]
// into consecutive half-open buckets of the given width, starting at the
// earliest timestamp, and distributes the observations into them. The final
// bucket is clipped to the latest timestamp, so no observation is lost at the
// boundary. An empty input yields no buckets.
func GroupByGranularity(edges []TemporalEdge, granularity int) ([][]TemporalEdge, error) {
	if granularity <= 0 {
		return nil, fmt.Errorf("group by granularity: granularity %d must be positive", granularity)
	}
	if len(edges) == 0 {
		return nil, nil
	}

	earliest, latest, err := TimeInterval(edges)
	if err != nil {
		return nil, err
	}

	buckets := make([][]TemporalEdge, (latest-earliest)/granularity+1)
	for _, edge := range edges {
		buckets[(edge.Timestamp-earliest)/granularity] = append(buckets[(edge.Timestamp-earliest)/granularity], edge)
	}
	return buckets, nil
}
