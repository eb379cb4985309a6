package dataset

import (
	"errors"
	"fmt"
	"sort"

	"github.com/hashicorp/go-multierror"
)

var (
	// ErrUnknownNode is returned when a node id has no metadata row.
	ErrUnknownNode = errors.New("unknown node")

	// ErrUnknownAttribute is returned when an attribute name is not present
	// in the table.
	ErrUnknownAttribute = errors.New("unknown attribute")
)

// BadOrderError reports a category ordering that is not a permutation of an
// attribute's existing category set. It carries both the provided and the
// expected categories so callers can show exactly what went wrong.
type BadOrderError struct {
	Attribute string
	Provided  []string
	Expected  []string
}

func (e *BadOrderError) Error() string {
	return fmt.Sprintf("provided order %v does not match up with categories %v of attribute %q",
		e.Provided, e.Expected, e.Attribute)
}

// RenameError reports an attribute rename that would collapse two attributes
// onto the same name.
type RenameError struct {
	Target  string
	Sources []string
}

func (e *RenameError) Error() string {
	return fmt.Sprintf("rename collapses attributes %v onto %q", e.Sources, e.Target)
}

// attribute tracks the category set of a single metadata column. The category
// slice doubles as the explicit order once ordered is set.
type attribute struct {
	categories []string
	ordered    bool
}

// MetadataTable holds static categorical node attributes. Each attribute
// independently tracks its category set, which is unordered until an explicit
// order is applied with OrderCategories.
type MetadataTable struct {
	rows  map[int]map[string]string
	attrs map[string]*attribute
}

// NewMetadataTable builds a table from a node id to attribute-value mapping.
// The category set of every attribute is derived from the observed values and
// left unordered. The input is copied.
func NewMetadataTable(rows map[int]map[string]string) *MetadataTable {
	t := &MetadataTable{
		rows:  make(map[int]map[string]string, len(rows)),
		attrs: make(map[string]*attribute),
	}

	categories := make(map[string]map[string]struct{})
	for id, attrs := range rows {
		row := make(map[string]string, len(attrs))
		for name, value := range attrs {
			row[name] = value
			if categories[name] == nil {
				categories[name] = make(map[string]struct{})
			}
			categories[name][value] = struct{}{}
		}
		t.rows[id] = row
	}

	for name, values := range categories {
		cats := make([]string, 0, len(values))
		for value := range values {
			cats = append(cats, value)
		}
		// Keep construction deterministic; the order still counts as
		// arbitrary until OrderCategories is called.
		sort.Strings(cats)
		t.attrs[name] = &attribute{categories: cats}
	}
	return t
}

// AttributeNames returns the names of all attributes in the table.
func (t *MetadataTable) AttributeNames() []string {
	names := make([]string, 0, len(t.attrs))
	for name := range t.attrs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Categories returns the category set of the given attribute. The order is
// arbitrary unless an explicit order has been applied.
func (t *MetadataTable) Categories(attr string) ([]string, error) {
	a, ok := t.attrs[attr]
	if !ok {
		return nil, fmt.Errorf("categories of %q: %w", attr, ErrUnknownAttribute)
	}
	cats := make([]string, len(a.categories))
	copy(cats, a.categories)
	return cats, nil
}

// IsOrdered reports whether an explicit category order has been applied to
// the given attribute.
func (t *MetadataTable) IsOrdered(attr string) (bool, error) {
	a, ok := t.attrs[attr]
	if !ok {
		return false, fmt.Errorf("is ordered %q: %w", attr, ErrUnknownAttribute)
	}
	return a.ordered, nil
}

// OrderCategories applies an explicit order to a categorical attribute,
// replacing any previous order. The provided list must be a permutation of
// exactly the existing category set; any missing, extra or duplicated
// category fails with a *BadOrderError.
func (t *MetadataTable) OrderCategories(attr string, ordered []string) error {
	a, ok := t.attrs[attr]
	if !ok {
		return fmt.Errorf("order categories of %q: %w", attr, ErrUnknownAttribute)
	}

	if !isPermutation(ordered, a.categories) {
		return &BadOrderError{
			Attribute: attr,
			Provided:  append([]string(nil), ordered...),
			Expected:  append([]string(nil), a.categories...),
		}
	}

	a.categories = append([]string(nil), ordered...)
	a.ordered = true
	return nil
}

// RemoveOrder reverts an attribute to unordered. The category set itself is
// preserved.
func (t *MetadataTable) RemoveOrder(attr string) error {
	a, ok := t.attrs[attr]
	if !ok {
		return fmt.Errorf("remove order of %q: %w", attr, ErrUnknownAttribute)
	}
	a.ordered = false
	return nil
}

// Rename renames attributes in bulk according to the old name to new name
// mapping. The rename is rejected as a whole if two attributes would end up
// with the same name, either because the mapping contains duplicate targets
// or because a target collides with an attribute that is not being renamed
// away.
func (t *MetadataTable) Rename(mapping map[string]string) error {
	var result *multierror.Error
	for src := range mapping {
		if _, ok := t.attrs[src]; !ok {
			result = multierror.Append(result, fmt.Errorf("rename %q: %w", src, ErrUnknownAttribute))
		}
	}

	sources := make(map[string][]string)
	for src, dst := range mapping {
		sources[dst] = append(sources[dst], src)
	}
	for dst, srcs := range sources {
		if _, renamedAway := mapping[dst]; t.attrs[dst] != nil && !renamedAway {
			srcs = append(srcs, dst)
		}
		if len(srcs) > 1 {
			sort.Strings(srcs)
			result = multierror.Append(result, &RenameError{Target: dst, Sources: srcs})
		}
	}
	if err := result.ErrorOrNil(); err != nil {
		return err
	}

	renamed := make(map[string]*attribute, len(t.attrs))
	for name, a := range t.attrs {
		if dst, ok := mapping[name]; ok {
			name = dst
		}
		renamed[name] = a
	}
	t.attrs = renamed

	// Rebuild each row instead of renaming keys in place, so swaps such as
	// {"1": "2", "2": "1"} cannot clobber a value mid-rename.
	for id, row := range t.rows {
		updated := make(map[string]string, len(row))
		for name, value := range row {
			if dst, ok := mapping[name]; ok {
				name = dst
			}
			updated[name] = value
		}
		t.rows[id] = updated
	}
	return nil
}

// Node returns a copy of the attribute-value pairs of the given node. Unknown
// node ids fail with ErrUnknownNode.
func (t *MetadataTable) Node(id int) (map[string]string, error) {
	row, ok := t.rows[id]
	if !ok {
		return nil, fmt.Errorf("metadata for node %d: %w", id, ErrUnknownNode)
	}
	attrs := make(map[string]string, len(row))
	for name, value := range row {
		attrs[name] = value
	}
	return attrs, nil
}

// Rows returns a copy of the whole table, node id to attribute-value pairs.
func (t *MetadataTable) Rows() map[int]map[string]string {
	rows := make(map[int]map[string]string, len(t.rows))
	for id := range t.rows {
		rows[id], _ = t.Node(id)
	}
	return rows
}

// Keys returns all node ids in the table in ascending order.
func (t *MetadataTable) Keys() []int {
	keys := make([]int, 0, len(t.rows))
	for id := range t.rows {
		keys = append(keys, id)
	}
	sort.Ints(keys)
	return keys
}

// Len returns the number of nodes in the table.
func (t *MetadataTable) Len() int { return len(t.rows) }

func isPermutation(provided, expected []string) bool {
	if len(provided) != len(expected) {
		return false
	}
	remaining := make(map[string]int, len(expected))
	for _, cat := range expected {
		remaining[cat]++
	}
	for _, cat := range provided {
		remaining[cat]--
		if remaining[cat] < 0 {
			return false
		}
	}
	return true
}
