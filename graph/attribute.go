package graph

import (
	"fmt"
	"sort"
)

// Scope distinguishes attributes with one value per node from attributes
// with one value per node and time step.
type Scope int

const (
	// ScopeGlobal marks attributes that are constant over the observation
	// period.
	ScopeGlobal Scope = iota

	// ScopeLocal marks attributes with one value per time step.
	ScopeLocal
)

func (s Scope) String() string {
	switch s {
	case ScopeGlobal:
		return "global"
	case ScopeLocal:
		return "local"
	default:
		return fmt.Sprintf("scope(%d)", int(s))
	}
}

// MeasurementType communicates how downstream consumers should treat an
// attribute's values. It constrains rendering and statistics, not storage.
type MeasurementType int

const (
	// Nominal attributes are unordered categories.
	Nominal MeasurementType = iota

	// Ordinal attributes are categories with an explicit order.
	Ordinal

	// Interval attributes are numeric.
	Interval
)

func (m MeasurementType) String() string {
	switch m {
	case Nominal:
		return "nominal"
	case Ordinal:
		return "ordinal"
	case Interval:
		return "interval"
	default:
		return fmt.Sprintf("measurement(%d)", int(m))
	}
}

// AttributeInfo describes one attribute of the combined catalog: metadata
// columns and attributes registered through AddGlobalAttribute or
// AddLocalAttribute.
type AttributeInfo struct {
	Name       string
	Type       MeasurementType
	Scope      Scope
	Categories []string // nominal and ordinal attributes
	Min, Max   float64  // interval attributes
}

// AddGlobalAttribute registers a global attribute and sets its value for
// every listed node in one pass. Every key of values must be a registered
// node id.
func (tg *TemporalGraph) AddGlobalAttribute(name string, typ MeasurementType, values map[int]AttributeValue) error {
	for id := range values {
		if _, ok := tg.nodes[id]; !ok {
			return fmt.Errorf("add global attribute %q: node %d: %w", name, id, ErrUnknownNode)
		}
	}

	info := AttributeInfo{Name: name, Type: typ, Scope: ScopeGlobal}
	flat := make([]AttributeValue, 0, len(values))
	for id, value := range values {
		tg.nodes[id].SetGlobalAttribute(name, value)
		flat = append(flat, value)
	}
	describeValues(&info, flat)
	tg.attrs[name] = info
	return nil
}

// AddLocalAttribute registers a local attribute and sets its per-step value
// sequence for every listed node in one pass. Every key of values must be a
// registered node id and every sequence must have one value per time step.
func (tg *TemporalGraph) AddLocalAttribute(name string, typ MeasurementType, values map[int][]AttributeValue) error {
	for id := range values {
		if _, ok := tg.nodes[id]; !ok {
			return fmt.Errorf("add local attribute %q: node %d: %w", name, id, ErrUnknownNode)
		}
	}

	info := AttributeInfo{Name: name, Type: typ, Scope: ScopeLocal}
	var flat []AttributeValue
	for id, series := range values {
		if err := tg.nodes[id].SetLocalAttribute(name, series); err != nil {
			return fmt.Errorf("add local attribute %q: %w", name, err)
		}
		flat = append(flat, series...)
	}
	describeValues(&info, flat)
	tg.attrs[name] = info
	return nil
}

// AttributesInfo merges the metadata table's attribute descriptors with the
// attributes registered on the temporal graph into one combined catalog,
// keyed by attribute name.
func (tg *TemporalGraph) AttributesInfo() map[string]AttributeInfo {
	catalog := make(map[string]AttributeInfo, len(tg.attrs))

	if tg.meta != nil {
		for _, name := range tg.meta.AttributeNames() {
			categories, err := tg.meta.Categories(name)
			if err != nil {
				continue
			}
			typ := Nominal
			if ordered, _ := tg.meta.IsOrdered(name); ordered {
				typ = Ordinal
			}
			catalog[name] = AttributeInfo{
				Name:       name,
				Type:       typ,
				Scope:      ScopeGlobal,
				Categories: categories,
			}
		}
	}

	for name, info := range tg.attrs {
		catalog[name] = info
	}
	return catalog
}

// describeValues fills the categories or value range of an attribute
// descriptor from the registered values.
func describeValues(info *AttributeInfo, values []AttributeValue) {
	switch info.Type {
	case Interval:
		first := true
		for _, value := range values {
			v, ok := toFloat(value)
			if !ok {
				continue
			}
			if first || v < info.Min {
				info.Min = v
			}
			if first || v > info.Max {
				info.Max = v
			}
			first = false
		}
	default:
		seen := make(map[string]struct{})
		for _, value := range values {
			if s, ok := value.(string); ok {
				seen[s] = struct{}{}
			}
		}
		categories := make([]string, 0, len(seen))
		for s := range seen {
			categories = append(categories, s)
		}
		sort.Strings(categories)
		info.Categories = categories
	}
}

func toFloat(value AttributeValue) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	default:
		return 0, false
	}
}
