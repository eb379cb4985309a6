// Package filter provides node predicates over temporal graphs. Filters
// carry an explicit name and description so presentation layers can list
// them without reflection.
package filter

import (
	"fmt"

	"github.com/tempnet/tempnet/graph"
)

// Filter selects nodes of a temporal graph by a predicate over their global
// attributes.
type Filter struct {
	name        string
	description string
	pred        func(*graph.TemporalNode) bool
}

// New creates a filter from a name, a description and a predicate.
func New(name, description string, pred func(*graph.TemporalNode) bool) Filter {
	return Filter{name: name, description: description, pred: pred}
}

// Name returns the human-readable name of the filter.
func (f Filter) Name() string { return f.name }

// Description returns a short description of the filter.
func (f Filter) Description() string { return f.description }

// Nodes returns the ids of all nodes matching the filter, in ascending
// order.
func (f Filter) Nodes(tg *graph.TemporalGraph) []int {
	var ids []int
	for _, node := range tg.Nodes() {
		if f.pred(node) {
			ids = append(ids, node.ID())
		}
	}
	return ids
}

// GlobalAttributeEquals matches nodes whose global attribute has exactly the
// given value. Nodes without the attribute never match.
func GlobalAttributeEquals(attr string, value graph.AttributeValue) Filter {
	return New(
		"Attribute Equals",
		fmt.Sprintf("Matches nodes whose attribute %q equals %v", attr, value),
		func(node *graph.TemporalNode) bool {
			v, err := node.GlobalAttribute(attr)
			return err == nil && v == value
		},
	)
}

// GlobalAttributeAtLeast matches nodes whose ordinal global attribute ranks
// at least as high as the given category within the explicit category order,
// typically obtained from a metadata table's ordered categories. Nodes
// without the attribute, and values outside the order, never match.
func GlobalAttributeAtLeast(attr, category string, order []string) Filter {
	rank := make(map[string]int, len(order))
	for i, c := range order {
		rank[c] = i
	}
	threshold, known := rank[category]

	return New(
		"Attribute At Least",
		fmt.Sprintf("Matches nodes whose ordinal attribute %q is at least %q", attr, category),
		func(node *graph.TemporalNode) bool {
			if !known {
				return false
			}
			v, err := node.GlobalAttribute(attr)
			if err != nil {
				return false
			}
			c, ok := v.(string)
			if !ok {
				return false
			}
			r, ok := rank[c]
			return ok && r >= threshold
		},
	)
}
