package dataset_test

import (
	"errors"
	"sort"
	"testing"

	gc "gopkg.in/check.v1"

	"github.com/tempnet/tempnet/dataset"
)

func Test(t *testing.T) {
	// Run all gocheck test-suites
	gc.TestingT(t)
}

var _ = gc.Suite(new(EdgeTableSuite))

type EdgeTableSuite struct {
	edges []dataset.TemporalEdge
	table *dataset.TemporalEdgeTable
}

func (s *EdgeTableSuite) SetUpTest(c *gc.C) {
	s.edges = []dataset.TemporalEdge{
		{Timestamp: 100, A: 3, B: 4},
		{Timestamp: 40, A: 1, B: 2},
		{Timestamp: 180, A: 3, B: 4},
		{Timestamp: 60, A: 1, B: 2},
		{Timestamp: 100, A: 1, B: 2},
	}
	table, err := dataset.NewTemporalEdgeTable(s.edges)
	c.Assert(err, gc.IsNil)
	s.table = table
}

func (s *EdgeTableSuite) TestTimeInterval(c *gc.C) {
	earliest, latest, err := dataset.TimeInterval(s.edges)
	c.Assert(err, gc.IsNil)
	c.Assert(earliest, gc.Equals, 40)
	c.Assert(latest, gc.Equals, 180)

	c.Assert(s.table.Earliest(), gc.Equals, 40)
	c.Assert(s.table.Latest(), gc.Equals, 180)
}

func (s *EdgeTableSuite) TestTimeIntervalEmpty(c *gc.C) {
	_, _, err := dataset.TimeInterval(nil)
	c.Assert(errors.Is(err, dataset.ErrNoEdges), gc.Equals, true)

	_, err = dataset.NewTemporalEdgeTable(nil)
	c.Assert(errors.Is(err, dataset.ErrNoEdges), gc.Equals, true)
}

func (s *EdgeTableSuite) TestUpdateDelta(c *gc.C) {
	delta, err := s.table.UpdateDelta()
	c.Assert(err, gc.IsNil)
	c.Assert(delta, gc.Equals, 20)
}

func (s *EdgeTableSuite) TestUpdateDeltaSingleTimestamp(c *gc.C) {
	table, err := dataset.NewTemporalEdgeTable([]dataset.TemporalEdge{
		{Timestamp: 40, A: 1, B: 2},
		{Timestamp: 40, A: 3, B: 4},
	})
	c.Assert(err, gc.IsNil)

	_, err = table.UpdateDelta()
	c.Assert(errors.Is(err, dataset.ErrInsufficientTimestamps), gc.Equals, true)
}

func (s *EdgeTableSuite) TestEdgesSortedCopy(c *gc.C) {
	edges := s.table.Edges()
	c.Assert(edges, gc.HasLen, 5)
	c.Assert(sort.SliceIsSorted(edges, func(i, j int) bool {
		return edges[i].Timestamp < edges[j].Timestamp
	}), gc.Equals, true)

	// Mutating the copy must not leak into the table.
	edges[0].Timestamp = -1
	c.Assert(s.table.Earliest(), gc.Equals, 40)
	c.Assert(s.table.Edges()[0].Timestamp, gc.Equals, 40)
}

func (s *EdgeTableSuite) TestAt(c *gc.C) {
	edges, err := s.table.At(100)
	c.Assert(err, gc.IsNil)
	c.Assert(edges, gc.HasLen, 2)

	edges, err = s.table.At(80)
	c.Assert(err, gc.IsNil)
	c.Assert(edges, gc.HasLen, 0)
}

func (s *EdgeTableSuite) TestAtOutOfRange(c *gc.C) {
	_, err := s.table.At(39)
	c.Assert(errors.Is(err, dataset.ErrTimestampOutOfRange), gc.Equals, true)

	_, err = s.table.At(181)
	c.Assert(errors.Is(err, dataset.ErrTimestampOutOfRange), gc.Equals, true)
}

func (s *EdgeTableSuite) TestAtUnaligned(c *gc.C) {
	// 99 lies within the observed range but off the 20-unit sampling grid.
	// The result is still produced; the error flags the suspicious query.
	edges, err := s.table.At(99)
	c.Assert(errors.Is(err, dataset.ErrUnalignedTimestamp), gc.Equals, true)
	c.Assert(edges, gc.HasLen, 0)
}

func (s *EdgeTableSuite) TestBetween(c *gc.C) {
	edges, err := s.table.Between(40, 100)
	c.Assert(err, gc.IsNil)
	c.Assert(edges, gc.HasLen, 2)

	edges, err = s.table.Between(100, 181)
	c.Assert(err, gc.IsNil)
	c.Assert(edges, gc.HasLen, 3)
}

func (s *EdgeTableSuite) TestBetweenInvalid(c *gc.C) {
	_, err := s.table.Between(100, 100)
	c.Assert(errors.Is(err, dataset.ErrTimestampOutOfRange), gc.Equals, true)

	_, err = s.table.Between(200, 300)
	c.Assert(errors.Is(err, dataset.ErrTimestampOutOfRange), gc.Equals, true)
}

func (s *EdgeTableSuite) TestGroupByGranularity(c *gc.C) {
	buckets, err := dataset.GroupByGranularity(s.edges, 40)
	c.Assert(err, gc.IsNil)
	c.Assert(buckets, gc.HasLen, 4)

	sizes := make([]int, len(buckets))
	for i, bucket := range buckets {
		sizes[i] = len(bucket)
	}
	c.Assert(sizes, gc.DeepEquals, []int{2, 2, 0, 1})
}

func (s *EdgeTableSuite) TestGroupByGranularityWiderThanSpan(c *gc.C) {
	buckets, err := dataset.GroupByGranularity(s.edges, 1000)
	c.Assert(err, gc.IsNil)
	c.Assert(buckets, gc.HasLen, 1)
	c.Assert(buckets[0], gc.HasLen, 5)
}

func (s *EdgeTableSuite) TestGroupByGranularityInvalid(c *gc.C) {
	_, err := dataset.GroupByGranularity(s.edges, 0)
	c.Assert(err, gc.NotNil)

	buckets, err := dataset.GroupByGranularity(nil, 20)
	c.Assert(err, gc.IsNil)
	c.Assert(buckets, gc.HasLen, 0)
}

var _ = gc.Suite(new(MetadataSuite))

type MetadataSuite struct {
	table *dataset.MetadataTable
}

// classes holds the nine class labels of the highschool contact dataset the
// raw files use for their first metadata column.
var classes = []string{"2BIO1", "2BIO2", "2BIO3", "MP", "MP*1", "MP*2", "PC", "PC*", "PSI*"}

func (s *MetadataSuite) SetUpTest(c *gc.C) {
	genders := []string{"F", "M", "Unknown"}
	rows := make(map[int]map[string]string, len(classes))
	for i, class := range classes {
		rows[100+i] = map[string]string{
			"1": class,
			"2": genders[i%len(genders)],
		}
	}
	s.table = dataset.NewMetadataTable(rows)
}

func (s *MetadataSuite) TestAttributeNames(c *gc.C) {
	c.Assert(s.table.AttributeNames(), gc.DeepEquals, []string{"1", "2"})
}

func (s *MetadataSuite) TestCategories(c *gc.C) {
	categories, err := s.table.Categories("2")
	c.Assert(err, gc.IsNil)
	sort.Strings(categories)
	c.Assert(categories, gc.DeepEquals, []string{"F", "M", "Unknown"})

	_, err = s.table.Categories("occupation")
	c.Assert(errors.Is(err, dataset.ErrUnknownAttribute), gc.Equals, true)
}

func (s *MetadataSuite) TestOrderRoundTrip(c *gc.C) {
	ordered, err := s.table.IsOrdered("1")
	c.Assert(err, gc.IsNil)
	c.Assert(ordered, gc.Equals, false)

	// Reverse order to make sure the explicit order sticks verbatim.
	reversed := make([]string, len(classes))
	for i, class := range classes {
		reversed[len(classes)-1-i] = class
	}
	c.Assert(s.table.OrderCategories("1", reversed), gc.IsNil)

	ordered, err = s.table.IsOrdered("1")
	c.Assert(err, gc.IsNil)
	c.Assert(ordered, gc.Equals, true)

	categories, err := s.table.Categories("1")
	c.Assert(err, gc.IsNil)
	c.Assert(categories, gc.DeepEquals, reversed)

	c.Assert(s.table.RemoveOrder("1"), gc.IsNil)
	ordered, err = s.table.IsOrdered("1")
	c.Assert(err, gc.IsNil)
	c.Assert(ordered, gc.Equals, false)

	categories, err = s.table.Categories("1")
	c.Assert(err, gc.IsNil)
	sort.Strings(categories)
	c.Assert(categories, gc.DeepEquals, classes)
}

func (s *MetadataSuite) TestOrderMissingCategory(c *gc.C) {
	err := s.table.OrderCategories("1", classes[:len(classes)-1])

	var badOrder *dataset.BadOrderError
	c.Assert(errors.As(err, &badOrder), gc.Equals, true)
	c.Assert(badOrder.Attribute, gc.Equals, "1")
	c.Assert(badOrder.Provided, gc.HasLen, len(classes)-1)
	c.Assert(badOrder.Expected, gc.HasLen, len(classes))
}

func (s *MetadataSuite) TestOrderUnknownCategory(c *gc.C) {
	wrong := append([]string(nil), classes...)
	wrong[3] = "Cake"

	var badOrder *dataset.BadOrderError
	c.Assert(errors.As(s.table.OrderCategories("1", wrong), &badOrder), gc.Equals, true)
}

func (s *MetadataSuite) TestOrderDuplicateCategory(c *gc.C) {
	duplicated := append([]string(nil), classes...)
	duplicated[0] = duplicated[1]

	var badOrder *dataset.BadOrderError
	c.Assert(errors.As(s.table.OrderCategories("1", duplicated), &badOrder), gc.Equals, true)
}

func (s *MetadataSuite) TestRename(c *gc.C) {
	err := s.table.Rename(map[string]string{"1": "class", "2": "gender"})
	c.Assert(err, gc.IsNil)
	c.Assert(s.table.AttributeNames(), gc.DeepEquals, []string{"class", "gender"})

	row, err := s.table.Node(100)
	c.Assert(err, gc.IsNil)
	c.Assert(row["class"], gc.Equals, "2BIO1")
	c.Assert(row["gender"], gc.Equals, "F")
}

func (s *MetadataSuite) TestRenameSwap(c *gc.C) {
	row, err := s.table.Node(100)
	c.Assert(err, gc.IsNil)
	class, gender := row["1"], row["2"]

	c.Assert(s.table.Rename(map[string]string{"1": "2", "2": "1"}), gc.IsNil)

	row, err = s.table.Node(100)
	c.Assert(err, gc.IsNil)
	c.Assert(row["2"], gc.Equals, class)
	c.Assert(row["1"], gc.Equals, gender)
}

func (s *MetadataSuite) TestRenameDuplicateTargets(c *gc.C) {
	err := s.table.Rename(map[string]string{"1": "class", "2": "class"})

	var rename *dataset.RenameError
	c.Assert(errors.As(err, &rename), gc.Equals, true)
	c.Assert(rename.Target, gc.Equals, "class")
	c.Assert(rename.Sources, gc.DeepEquals, []string{"1", "2"})

	// A rejected rename leaves the table untouched.
	c.Assert(s.table.AttributeNames(), gc.DeepEquals, []string{"1", "2"})
}

func (s *MetadataSuite) TestRenameCollision(c *gc.C) {
	// "2" already exists and is not renamed away, so "1" cannot take its name.
	var rename *dataset.RenameError
	c.Assert(errors.As(s.table.Rename(map[string]string{"1": "2"}), &rename), gc.Equals, true)
}

func (s *MetadataSuite) TestRenameUnknownSource(c *gc.C) {
	err := s.table.Rename(map[string]string{"occupation": "job"})
	c.Assert(errors.Is(err, dataset.ErrUnknownAttribute), gc.Equals, true)
}

func (s *MetadataSuite) TestNode(c *gc.C) {
	row, err := s.table.Node(103)
	c.Assert(err, gc.IsNil)
	c.Assert(row, gc.DeepEquals, map[string]string{"1": "MP", "2": "F"})

	// The returned row is a copy.
	row["1"] = "tampered"
	row, err = s.table.Node(103)
	c.Assert(err, gc.IsNil)
	c.Assert(row["1"], gc.Equals, "MP")
}

func (s *MetadataSuite) TestNodeUnknown(c *gc.C) {
	_, err := s.table.Node(9999)
	c.Assert(errors.Is(err, dataset.ErrUnknownNode), gc.Equals, true)
}

func (s *MetadataSuite) TestKeys(c *gc.C) {
	keys := s.table.Keys()
	c.Assert(keys, gc.HasLen, len(classes))
	c.Assert(sort.IntsAreSorted(keys), gc.Equals, true)
	c.Assert(s.table.Len(), gc.Equals, len(classes))
}

func (s *MetadataSuite) TestRows(c *gc.C) {
	rows := s.table.Rows()
	c.Assert(rows, gc.HasLen, len(classes))
	c.Assert(rows[100]["1"], gc.Equals, "2BIO1")

	// The returned table is a copy.
	rows[100]["1"] = "tampered"
	row, err := s.table.Node(100)
	c.Assert(err, gc.IsNil)
	c.Assert(row["1"], gc.Equals, "2BIO1")
}
