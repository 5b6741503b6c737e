package io

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cast"

	"github.com/scrubdata/scrub/pkg/errors"
	"github.com/scrubdata/scrub/pkg/frame"
)

// cell is one raw imported value before dtype inference.
type cell struct {
	text    string
	missing bool
}

// ReadCSV decodes a CSV dataset from r.
//
// The first record is the header. Per-column dtypes are inferred from the
// cell values: int if every non-empty cell parses as an integer, float if
// every non-empty cell parses as a number, text otherwise. Empty cells
// become missing entries.
//
// ReadCSV returns an error if:
//   - The input is empty or the header contains a blank or duplicate name
//   - A record's width differs from the header's
//   - The CSV is structurally malformed
//
// The returned frame is independent of r and can be modified safely after
// ReadCSV returns. ReadCSV does not close r.
func ReadCSV(r io.Reader) (*frame.Frame, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.New(errors.ErrCodeIOFormat, "empty input: no header record")
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIOFormat, err, "read header")
	}
	if err := validateHeader(header); err != nil {
		return nil, err
	}

	cells := make([][]cell, len(header))
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeIOFormat, err, "read record")
		}
		for i, v := range record {
			v = strings.TrimSpace(v)
			cells[i] = append(cells[i], cell{text: v, missing: v == ""})
		}
	}

	cols := make([]*frame.Column, len(header))
	for i, name := range header {
		cols[i] = inferColumn(name, cells[i])
	}
	ds, err := frame.New(cols...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIOFormat, err, "assemble dataset")
	}
	return ds, nil
}

// ImportCSV reads a CSV file at path and returns the decoded dataset.
// It returns the same validation errors as [ReadCSV]; open failures are
// wrapped with the file path for context.
func ImportCSV(path string) (*frame.Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIORead, err, "open %s", path)
	}
	defer f.Close()
	return ReadCSV(f)
}

// ReadJSON decodes a dataset from r. The input must be a JSON array of
// flat row objects:
//
//	[
//	  {"age": 34, "city": "oslo"},
//	  {"age": null, "city": "bergen"}
//	]
//
// Column order follows the key order of the first object; keys first seen
// in later rows are appended and backfilled as missing. Null and absent
// values are missing. Nested objects and arrays are rejected.
//
// The returned frame is independent of r. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*frame.Frame, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	if err := expectDelim(dec, '['); err != nil {
		return nil, err
	}

	var order []string
	cells := make(map[string][]cell)
	rows := 0

	for dec.More() {
		if err := expectDelim(dec, '{'); err != nil {
			return nil, err
		}
		for dec.More() {
			tok, err := dec.Token()
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeIOFormat, err, "read object key")
			}
			key, ok := tok.(string)
			if !ok {
				return nil, errors.New(errors.ErrCodeIOFormat, "object key is not a string: %v", tok)
			}
			if _, seen := cells[key]; !seen {
				order = append(order, key)
				// Backfill rows that predate this column.
				cells[key] = missingCells(rows)
			}
			c, err := readValue(dec)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeIOFormat, err, "row %d, key %q", rows, key)
			}
			cells[key] = append(cells[key], c)
		}
		if _, err := dec.Token(); err != nil { // consume '}'
			return nil, errors.Wrap(errors.ErrCodeIOFormat, err, "read row %d", rows)
		}
		rows++
		for _, key := range order {
			if len(cells[key]) < rows {
				cells[key] = append(cells[key], cell{missing: true})
			}
		}
	}
	if _, err := dec.Token(); err != nil { // consume ']'
		return nil, errors.Wrap(errors.ErrCodeIOFormat, err, "read array end")
	}

	if len(order) == 0 {
		return nil, errors.New(errors.ErrCodeIOFormat, "empty input: no row objects")
	}

	cols := make([]*frame.Column, len(order))
	for i, name := range order {
		cols[i] = inferColumn(name, cells[name])
	}
	ds, err := frame.New(cols...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIOFormat, err, "assemble dataset")
	}
	return ds, nil
}

// ImportJSON reads a JSON file at path and returns the decoded dataset.
func ImportJSON(path string) (*frame.Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIORead, err, "open %s", path)
	}
	defer f.Close()
	return ReadJSON(f)
}

// readValue consumes one scalar value token.
func readValue(dec *json.Decoder) (cell, error) {
	tok, err := dec.Token()
	if err != nil {
		return cell{}, err
	}
	switch v := tok.(type) {
	case nil:
		return cell{missing: true}, nil
	case json.Number:
		return cell{text: v.String()}, nil
	case string:
		return cell{text: v, missing: v == ""}, nil
	case bool:
		return cell{text: fmt.Sprintf("%t", v)}, nil
	case json.Delim:
		return cell{}, fmt.Errorf("nested %v values are not supported", v)
	default:
		return cell{}, fmt.Errorf("unsupported value %v", tok)
	}
}

// expectDelim consumes one token and checks it is the wanted delimiter.
func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return errors.Wrap(errors.ErrCodeIOFormat, err, "decode")
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return errors.New(errors.ErrCodeIOFormat, "expected %q, got %v", want.String(), tok)
	}
	return nil
}

func missingCells(n int) []cell {
	out := make([]cell, n)
	for i := range out {
		out[i].missing = true
	}
	return out
}

// validateHeader rejects blank and duplicate column names.
func validateHeader(header []string) error {
	if len(header) == 0 {
		return errors.New(errors.ErrCodeIOFormat, "empty header record")
	}
	seen := make(map[string]bool, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if name == "" {
			return errors.New(errors.ErrCodeIOFormat, "blank column name at position %d", i)
		}
		if seen[name] {
			return errors.New(errors.ErrCodeIOFormat, "duplicate column name %q", name)
		}
		seen[name] = true
		header[i] = name
	}
	return nil
}

// inferColumn picks the narrowest dtype the raw cells support: int, then
// float, then text. A missing entry forces an otherwise-int column into
// float storage, which has a missing representation.
func inferColumn(name string, cells []cell) *frame.Column {
	allInt, allFloat := true, true
	hasMissing := false
	for _, c := range cells {
		if c.missing {
			hasMissing = true
			continue
		}
		if allInt {
			if _, err := cast.ToInt64E(c.text); err != nil {
				allInt = false
			}
		}
		if allFloat {
			if _, err := cast.ToFloat64E(c.text); err != nil {
				allFloat = false
			}
		}
		if !allFloat {
			break
		}
	}

	switch {
	case allInt && !hasMissing:
		vals := make([]int64, len(cells))
		for i, c := range cells {
			vals[i] = cast.ToInt64(c.text)
		}
		return frame.Ints(name, vals...)

	case allFloat:
		vals := make([]float64, len(cells))
		var missing []int
		for i, c := range cells {
			if c.missing {
				missing = append(missing, i)
				continue
			}
			vals[i] = cast.ToFloat64(c.text)
		}
		return frame.Floats(name, vals...).WithMissing(missing...)

	default:
		vals := make([]string, len(cells))
		var missing []int
		for i, c := range cells {
			if c.missing {
				missing = append(missing, i)
				continue
			}
			vals[i] = c.text
		}
		return frame.Strings(name, vals...).WithMissing(missing...)
	}
}
