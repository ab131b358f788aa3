// Package rowio materializes raw tabular rows for source adapters. Each
// reader hides one container format behind the same contract: rows in input
// order, every header column present in every row.
package rowio

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/swpdata/sitecat/internal/ent/model"
	"github.com/swpdata/sitecat/internal/ent/sources"
)

// Reader yields the materialized rows of one source.
type Reader interface {
	Rows() ([]model.Row, error)
}

// New picks the reader for a source entry. Paths are resolved against
// dataDir. An unregistered kind is a registry bug, not a data error.
func New(dataDir string, e sources.Entry) (Reader, error) {
	path := filepath.Join(dataDir, e.File)
	switch e.Kind {
	case sources.CSV:
		return &csvReader{path: path}, nil
	case sources.Fixed:
		return &fixedReader{path: path, spans: e.Spans}, nil
	case sources.Portal:
		return &portalReader{path: path}, nil
	case sources.Pending:
		return pendingReader{}, nil
	}
	return nil, fmt.Errorf("no reader for source kind %d", e.Kind)
}

// csvReader reads a header-first CSV file into rows.
type csvReader struct {
	path string
}

func (r *csvReader) Rows() ([]model.Row, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("cannot read header of %s: %w", r.path, err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var res []model.Row
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("cannot read %s: %w", r.path, err)
		}
		row := make(model.Row, len(header))
		for i, col := range header {
			if i < len(rec) {
				row[col] = rec[i]
			} else {
				row[col] = ""
			}
		}
		res = append(res, row)
	}
	return res, nil
}

// fixedReader slices lines of a fixed-width metadata file by column spans.
type fixedReader struct {
	path  string
	spans []model.Span
}

func (r *fixedReader) Rows() ([]model.Row, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var res []model.Row
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		row := make(model.Row, len(r.spans))
		for _, sp := range r.spans {
			row[sp.Name] = strings.TrimSpace(cut(line, sp.Start, sp.End))
		}
		res = append(res, row)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", r.path, err)
	}
	return res, nil
}

// cut extracts [start, end) tolerating short lines.
func cut(line string, start, end int) string {
	if start >= len(line) {
		return ""
	}
	if end > len(line) {
		end = len(line)
	}
	return line[start:end]
}

// portalRecords mirrors the datastore-search response shape of open-data
// portals: the records live under result.records, values may be numbers.
type portalRecords struct {
	Result struct {
		Records []map[string]any `json:"records"`
	} `json:"result"`
}

// portalReader reads a dumped portal resource.
type portalReader struct {
	path string
}

func (r *portalReader) Rows() ([]model.Row, error) {
	b, err := os.ReadFile(r.path)
	if err != nil {
		return nil, err
	}
	// UseNumber keeps the portal's numeric text byte-for-byte, which the
	// privacy truncation step depends on.
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var pr portalRecords
	if err := dec.Decode(&pr); err != nil {
		return nil, fmt.Errorf("cannot decode portal resource %s: %w", r.path, err)
	}

	res := make([]model.Row, 0, len(pr.Result.Records))
	for _, rec := range pr.Result.Records {
		row := make(model.Row, len(rec))
		for k, v := range rec {
			row[k] = portalValue(v)
		}
		res = append(res, row)
	}
	return res, nil
}

// portalValue renders a portal JSON value as a string.
func portalValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		if t {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprintf("%v", t)
	}
}

// pendingReader stands in for a source whose data-sharing agreement has not
// delivered yet.
type pendingReader struct{}

func (pendingReader) Rows() ([]model.Row, error) { return nil, nil }
