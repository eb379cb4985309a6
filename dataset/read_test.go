package dataset_test

import (
	"compress/gzip"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"
	gc "gopkg.in/check.v1"

	"github.com/tempnet/tempnet/dataset"
)

var _ = gc.Suite(new(ReadSuite))

type ReadSuite struct {
	dir string
}

// edgeFile is a small excerpt in the sociopatterns layout: timestamp, node,
// node, plus trailing columns that loaders must ignore.
const edgeFile = `1385982020 100 101 2BIO1 MP
1385982040 100 101 2BIO1 MP
1385982040 102 103 PC PC

1385982080 100 103 2BIO1 PC
`

const metadataFile = "100\t2BIO1\tF\n101\tMP\tM\n102\tPC\tF\n103\tPC\tM\n"

func (s *ReadSuite) SetUpTest(c *gc.C) {
	s.dir = c.MkDir()
}

func (s *ReadSuite) write(c *gc.C, name, content string) string {
	path := filepath.Join(s.dir, name)
	c.Assert(os.WriteFile(path, []byte(content), 0o644), gc.IsNil)
	return path
}

func (s *ReadSuite) TestReadEdgeTable(c *gc.C) {
	table, err := dataset.ReadEdgeTable(s.write(c, "edges.txt", edgeFile), "")
	c.Assert(err, gc.IsNil)
	c.Assert(table.Len(), gc.Equals, 4)
	c.Assert(table.Earliest(), gc.Equals, 1385982020)
	c.Assert(table.Latest(), gc.Equals, 1385982080)

	delta, err := table.UpdateDelta()
	c.Assert(err, gc.IsNil)
	c.Assert(delta, gc.Equals, 20)
}

func (s *ReadSuite) TestReadEdgesBadColumn(c *gc.C) {
	_, err := dataset.ReadEdges(s.write(c, "edges.txt", "1385982020 100 x\n"), "")
	c.Assert(err, gc.NotNil)

	_, err = dataset.ReadEdges(s.write(c, "edges.txt", "1385982020 100\n"), "")
	c.Assert(err, gc.NotNil)
}

func (s *ReadSuite) TestReadEdgeTableGzip(c *gc.C) {
	path := filepath.Join(s.dir, "edges.txt.gz")
	f, err := os.Create(path)
	c.Assert(err, gc.IsNil)
	zw := gzip.NewWriter(f)
	_, err = zw.Write([]byte(edgeFile))
	c.Assert(err, gc.IsNil)
	c.Assert(zw.Close(), gc.IsNil)
	c.Assert(f.Close(), gc.IsNil)

	table, err := dataset.ReadEdgeTable(path, "")
	c.Assert(err, gc.IsNil)
	c.Assert(table.Len(), gc.Equals, 4)
}

func (s *ReadSuite) TestReadEdgeTableHTTP(c *gc.C) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(edgeFile))
	}))
	defer srv.Close()

	table, err := dataset.ReadEdgeTable(srv.URL+"/edges.txt", "")
	c.Assert(err, gc.IsNil)
	c.Assert(table.Len(), gc.Equals, 4)
}

func (s *ReadSuite) TestReadEdgeTableHTTPError(c *gc.C) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := dataset.ReadEdgeTable(srv.URL+"/missing.txt", "")
	c.Assert(err, gc.NotNil)
}

func (s *ReadSuite) TestReadMetadataTable(c *gc.C) {
	table, err := dataset.ReadMetadataTable(s.write(c, "metadata.tsv", metadataFile), "\t")
	c.Assert(err, gc.IsNil)
	c.Assert(table.Len(), gc.Equals, 4)
	c.Assert(table.AttributeNames(), gc.DeepEquals, []string{"1", "2"})

	row, err := table.Node(102)
	c.Assert(err, gc.IsNil)
	c.Assert(row, gc.DeepEquals, map[string]string{"1": "PC", "2": "F"})
}

func (s *ReadSuite) TestReadMetadataTableBadRow(c *gc.C) {
	_, err := dataset.ReadMetadataTable(s.write(c, "metadata.tsv", "100\n"), "\t")
	c.Assert(err, gc.NotNil)
}

func (s *ReadSuite) TestReadParquetEdgeTable(c *gc.C) {
	type row struct {
		Timestamp int64 `parquet:"timestamp"`
		Node1     int64 `parquet:"node1"`
		Node2     int64 `parquet:"node2"`
	}
	path := filepath.Join(s.dir, "edges.parquet")
	err := parquet.WriteFile(path, []row{
		{Timestamp: 40, Node1: 1, Node2: 2},
		{Timestamp: 60, Node1: 1, Node2: 2},
		{Timestamp: 100, Node1: 3, Node2: 4},
	})
	c.Assert(err, gc.IsNil)

	table, err := dataset.ReadParquetEdgeTable(path)
	c.Assert(err, gc.IsNil)
	c.Assert(table.Len(), gc.Equals, 3)
	c.Assert(table.Earliest(), gc.Equals, 40)
	c.Assert(table.Latest(), gc.Equals, 100)
}
