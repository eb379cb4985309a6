package graph

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrUnknownAttribute is returned when a node has no attribute with the
	// queried name.
	ErrUnknownAttribute = errors.New("unknown attribute")

	// ErrBadAttributeLength is returned when a local attribute value
	// sequence does not have one value per time step.
	ErrBadAttributeLength = errors.New("local attribute length does not match time-step count")
)

// AttributeValue is a single attribute value. Values are categorical strings
// for metadata attributes and float64 for computed measures.
type AttributeValue any

// TemporalNode is a node of a temporal graph. It carries global attributes,
// which are constant over the whole observation period, and local attributes,
// which hold one value per time step. Nodes are shared mutable records owned
// by the TemporalGraph's registry; measure computations write their results
// into the attribute maps.
type TemporalNode struct {
	id     int
	steps  int
	global map[string]AttributeValue
	local  map[string][]AttributeValue
}

func newTemporalNode(id int, meta map[string]string, steps int) *TemporalNode {
	n := &TemporalNode{
		id:     id,
		steps:  steps,
		global: make(map[string]AttributeValue, len(meta)),
		local:  make(map[string][]AttributeValue),
	}
	for name, value := range meta {
		n.global[name] = value
	}
	return n
}

// ID returns the stable integer id of the node.
func (n *TemporalNode) ID() int { return n.id }

// GlobalAttribute returns the value of a global attribute.
func (n *TemporalNode) GlobalAttribute(name string) (AttributeValue, error) {
	value, ok := n.global[name]
	if !ok {
		return nil, fmt.Errorf("node %d, global attribute %q: %w", n.id, name, ErrUnknownAttribute)
	}
	return value, nil
}

// LocalAttribute returns the value of a local attribute at the given time
// step.
func (n *TemporalNode) LocalAttribute(name string, step int) (AttributeValue, error) {
	values, ok := n.local[name]
	if !ok {
		return nil, fmt.Errorf("node %d, local attribute %q: %w", n.id, name, ErrUnknownAttribute)
	}
	if step < 0 || step >= len(values) {
		return nil, fmt.Errorf("node %d, local attribute %q, step %d: %w", n.id, name, step, ErrStepOutOfRange)
	}
	return values[step], nil
}

// SetGlobalAttribute creates or overwrites a global attribute.
func (n *TemporalNode) SetGlobalAttribute(name string, value AttributeValue) {
	n.global[name] = value
}

// SetLocalAttribute creates or overwrites a local attribute. The value
// sequence must contain exactly one value per time step of the owning
// temporal graph; it is copied.
func (n *TemporalNode) SetLocalAttribute(name string, values []AttributeValue) error {
	if len(values) != n.steps {
		return fmt.Errorf("node %d, local attribute %q: expected %d values, got %d: %w",
			n.id, name, n.steps, len(values), ErrBadAttributeLength)
	}
	vs := make([]AttributeValue, len(values))
	copy(vs, values)
	n.local[name] = vs
	return nil
}

// GlobalAttributeNames returns the names of all global attributes set on the
// node.
func (n *TemporalNode) GlobalAttributeNames() []string {
	return attributeNames(n.global)
}

// LocalAttributeNames returns the names of all local attributes set on the
// node.
func (n *TemporalNode) LocalAttributeNames() []string {
	return attributeNames(n.local)
}

func attributeNames[V any](attrs map[string]V) []string {
	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
