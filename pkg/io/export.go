package io

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"strconv"

	"github.com/scrubdata/scrub/pkg/errors"
	"github.com/scrubdata/scrub/pkg/frame"
)

// WriteCSV encodes a dataset as CSV and writes it to w: a header record
// followed by one record per row. Int values render without decimals,
// float values with the minimal digits that round-trip, timestamps in
// the canonical layout. Missing entries render as empty cells.
//
// The output can be re-imported with [ReadCSV] for round-trip processing.
func WriteCSV(ds *frame.Frame, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ds.Names()); err != nil {
		return errors.Wrap(errors.ErrCodeIOWrite, err, "write header")
	}

	record := make([]string, ds.Width())
	for i := 0; i < ds.Len(); i++ {
		for j, col := range ds.Columns() {
			record[j] = col.Display(i)
		}
		if err := cw.Write(record); err != nil {
			return errors.Wrap(errors.ErrCodeIOWrite, err, "write row %d", i)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.Wrap(errors.ErrCodeIOWrite, err, "flush")
	}
	return nil
}

// ExportCSV writes a dataset to a CSV file at path.
// This is a convenience wrapper around [WriteCSV] for file-based output.
func ExportCSV(ds *frame.Frame, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeIOWrite, err, "create %s", path)
	}
	defer f.Close()
	return WriteCSV(ds, f)
}

// WriteJSON encodes a dataset as an array of row objects and writes it to
// w. Missing entries render as null. Key order within each object follows
// the column order, so the output re-imports with identical structure via
// [ReadJSON].
func WriteJSON(ds *frame.Frame, w io.Writer) error {
	// Rows are assembled as raw messages to keep the column order;
	// a Go map would serialize its keys sorted.
	out := make([]json.RawMessage, ds.Len())
	for i := 0; i < ds.Len(); i++ {
		row := []byte{'{'}
		for j, col := range ds.Columns() {
			if j > 0 {
				row = append(row, ',')
			}
			key, err := json.Marshal(col.Name())
			if err != nil {
				return errors.Wrap(errors.ErrCodeIOWrite, err, "marshal column name %q", col.Name())
			}
			row = append(row, key...)
			row = append(row, ':')
			row = append(row, cellJSON(col, i)...)
		}
		row = append(row, '}')
		out[i] = row
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return errors.Wrap(errors.ErrCodeIOWrite, err, "encode")
	}
	return nil
}

// ExportJSON writes a dataset to a JSON file at path.
func ExportJSON(ds *frame.Frame, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeIOWrite, err, "create %s", path)
	}
	defer f.Close()
	return WriteJSON(ds, f)
}

// cellJSON renders one entry as a JSON literal.
func cellJSON(col *frame.Column, i int) []byte {
	if col.IsMissing(i) {
		return []byte("null")
	}
	switch col.DType() {
	case frame.TypeInt:
		return strconv.AppendInt(nil, col.IntAt(i), 10)
	case frame.TypeFloat:
		return strconv.AppendFloat(nil, col.FloatAt(i), 'f', -1, 64)
	default:
		b, _ := json.Marshal(col.Display(i))
		return b
	}
}
