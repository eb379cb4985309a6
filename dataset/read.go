package dataset

import (
	"bufio"
	"compress/bzip2"
	"compress/gzip"
	"io"
	"net/http"
	"os"
	"path"
	"strconv"
	"strings"

	"golang.org/x/xerrors"
)

// ReadEdgeTable loads a temporal edge table from a local file or an http(s)
// URL in the sociopatterns style: one observation per line, the first three
// columns holding timestamp, node and node; extra columns are ignored.
// Files ending in .gz or .bz2 are decompressed transparently. An empty sep
// splits columns at any run of whitespace.
func ReadEdgeTable(source, sep string) (*TemporalEdgeTable, error) {
	edges, err := ReadEdges(source, sep)
	if err != nil {
		return nil, err
	}
	return NewTemporalEdgeTable(edges)
}

// ReadEdges loads the raw observation list backing ReadEdgeTable.
func ReadEdges(source, sep string) ([]TemporalEdge, error) {
	var edges []TemporalEdge
	err := readRows(source, sep, func(line int, fields []string) error {
		if len(fields) < 3 {
			return xerrors.Errorf("line %d: expected at least 3 columns, got %d", line, len(fields))
		}
		row := make([]int, 3)
		for i := 0; i < 3; i++ {
			v, err := strconv.Atoi(fields[i])
			if err != nil {
				return xerrors.Errorf("line %d, column %d: %w", line, i+1, err)
			}
			row[i] = v
		}
		edges = append(edges, TemporalEdge{Timestamp: row[0], A: row[1], B: row[2]})
		return nil
	})
	if err != nil {
		return nil, xerrors.Errorf("read edges from %s: %w", source, err)
	}
	return edges, nil
}

// ReadMetadataTable loads a metadata table from a local file or an http(s)
// URL. The first column holds the node id; the remaining columns become
// attributes named "1", "2", ... in file order, matching the convention of
// the raw datasets. Attributes can be renamed afterwards with Rename.
func ReadMetadataTable(source, sep string) (*MetadataTable, error) {
	rows := make(map[int]map[string]string)
	err := readRows(source, sep, func(line int, fields []string) error {
		if len(fields) < 2 {
			return xerrors.Errorf("line %d: expected at least 2 columns, got %d", line, len(fields))
		}
		id, err := strconv.Atoi(fields[0])
		if err != nil {
			return xerrors.Errorf("line %d, column 1: %w", line, err)
		}
		row := make(map[string]string, len(fields)-1)
		for i, value := range fields[1:] {
			row[strconv.Itoa(i+1)] = value
		}
		rows[id] = row
		return nil
	})
	if err != nil {
		return nil, xerrors.Errorf("read metadata from %s: %w", source, err)
	}
	return NewMetadataTable(rows), nil
}

// readRows streams the source line by line, splitting each non-empty line
// into columns and passing it to fn.
func readRows(source, sep string, fn func(line int, fields []string) error) error {
	r, err := openSource(source)
	if err != nil {
		return err
	}
	defer r.Close()

	body, err := decompress(source, r)
	if err != nil {
		return err
	}

	scanner := bufio.NewScanner(body)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		var fields []string
		if sep == "" {
			fields = strings.Fields(text)
		} else {
			fields = strings.Split(text, sep)
		}
		if err := fn(line, fields); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func openSource(source string) (io.ReadCloser, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		res, err := http.Get(source)
		if err != nil {
			return nil, xerrors.Errorf("fetch: %w", err)
		}
		if res.StatusCode != http.StatusOK {
			res.Body.Close()
			return nil, xerrors.Errorf("fetch: unexpected status %s", res.Status)
		}
		return res.Body, nil
	}

	f, err := os.Open(source)
	if err != nil {
		return nil, xerrors.Errorf("open: %w", err)
	}
	return f, nil
}

// decompress wraps the reader based on the source's file extension.
func decompress(source string, r io.Reader) (io.Reader, error) {
	switch path.Ext(source) {
	case ".gz":
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, xerrors.Errorf("gzip: %w", err)
		}
		return gz, nil
	case ".bz2":
		return bzip2.NewReader(r), nil
	default:
		return r, nil
	}
}
