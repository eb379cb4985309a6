package dataset

import (
	"github.com/parquet-go/parquet-go"
	"golang.org/x/xerrors"
)

// parquetEdge mirrors the row schema of exported observation files.
type parquetEdge struct {
	Timestamp int64 `parquet:"timestamp"`
	A         int64 `parquet:"node1"`
	B         int64 `parquet:"node2"`
}

// ReadParquetEdgeTable loads a temporal edge table from a parquet file with
// columns timestamp, node1 and node2.
func ReadParquetEdgeTable(path string) (*TemporalEdgeTable, error) {
	rows, err := parquet.ReadFile[parquetEdge](path)
	if err != nil {
		return nil, xerrors.Errorf("read parquet edges from %s: %w", path, err)
	}

	edges := make([]TemporalEdge, len(rows))
	for i, row := range rows {
		edges[i] = TemporalEdge{Timestamp: int(row.Timestamp), A: int(row.A), B: int(row.B)}
	}
	return NewTemporalEdgeTable(edges)
}
