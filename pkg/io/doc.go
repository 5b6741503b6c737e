// Package io provides CSV and JSON import and export for tabular datasets.
//
// # Overview
//
// This package converts between on-disk interchange formats and the
// in-memory [frame.Frame] the cleaning pipeline operates on. The formats
// are designed for:
//
//   - Loading raw datasets as exported by spreadsheets and databases
//   - Writing cleaned datasets back in the same shape they arrived in
//   - Round-trip preservation: import, clean, export, and re-import
//
// # CSV
//
// The first record is the header; every following record is one row.
// Column dtypes are inferred from the values: a column whose every
// non-empty cell parses as an integer becomes int, one whose cells parse
// as floats becomes float, anything else stays text. Empty cells are
// missing values regardless of the column dtype.
//
// Export renders int columns without decimals, float columns with the
// minimal digits that round-trip, and missing entries as empty cells.
//
// # JSON
//
// The JSON form is an array of row objects:
//
//	[
//	  {"age": 34, "city": "oslo"},
//	  {"age": null, "city": "bergen"}
//	]
//
// Column order follows the key order of the first object; keys appearing
// only in later rows are appended in encounter order. A null or absent
// value is missing. Numbers are inferred int or float per column the same
// way as CSV. Export writes missing entries as null.
//
// # Import
//
// Use [ImportCSV] and [ImportJSON] to read from a file path, or [ReadCSV]
// and [ReadJSON] to read from any io.Reader:
//
//	ds, err := io.ImportCSV("data.csv")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Both validate structure (consistent record width, non-empty header,
// unique column names) and return coded errors; use errors.Is to check
// for specific failure codes.
//
// # Export
//
// Use [ExportCSV] and [ExportJSON] to write to a file, or [WriteCSV] and
// [WriteJSON] to write to any io.Writer. Export never mutates the frame.
//
// # Concurrency
//
// All functions are safe to call concurrently with other readers of the
// same frame, but not with concurrent modifications. The Read and Import
// functions return independent frames that can be modified freely.
package io
