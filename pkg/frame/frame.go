// Package frame provides the in-memory tabular dataset model used by the
// cleaning pipeline: ordered named columns of a common row count, with
// per-entry missing markers and on-demand column classification.
//
// # Data model
//
// A [Frame] owns an ordered list of [Column] values. All columns share one
// row count; rows are addressed positionally with contiguous 0-based
// indices. [Frame.DeleteRows] is the only operation that changes the row
// count, and it re-establishes contiguity before returning.
//
// Missing entries are first-class: float columns store NaN, text and time
// columns carry a validity mask, and int columns have no missing
// representation at all. Writing a missing marker into an int column
// promotes it to float, mirroring how numeric data with gaps is forced
// into floating point storage.
//
// # Classification
//
// [KindOf] derives a column's role (numeric, categorical, datetime) on
// demand and never caches it. Pipeline stages that rewrite a column can
// therefore change its classification for later stages: a label-encoded
// text column becomes numeric and drops out of subsequent categorical
// passes.
package frame

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyColumnName is returned by [New] and [Frame.SetColumn] when a
	// column has no name. All columns must be addressable by name.
	ErrEmptyColumnName = errors.New("column name must not be empty")

	// ErrDuplicateColumn is returned by [New] when two columns share a
	// name. Column names must be unique within a frame.
	ErrDuplicateColumn = errors.New("duplicate column name")

	// ErrLengthMismatch is returned by [New] and [Frame.SetColumn] when a
	// column's length differs from the frame's row count.
	ErrLengthMismatch = errors.New("columns must share one row count")
)

// Frame is an ordered collection of named columns sharing a common row
// count. The zero value is an empty frame ready for use, but most callers
// construct one with [New].
//
// A Frame is not safe for concurrent use without external synchronization.
type Frame struct {
	cols []*Column
}

// New creates a frame from the given columns. It returns an error when a
// column has an empty name, a name appears twice, or the columns disagree
// on length. The frame takes ownership of the columns; callers must not
// mutate them afterwards.
func New(cols ...*Column) (*Frame, error) {
	f := &Frame{cols: make([]*Column, 0, len(cols))}
	seen := make(map[string]bool, len(cols))
	for _, c := range cols {
		if c.Name() == "" {
			return nil, ErrEmptyColumnName
		}
		if seen[c.Name()] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, c.Name())
		}
		if len(f.cols) > 0 && c.Len() != f.cols[0].Len() {
			return nil, fmt.Errorf("%w: %q has %d rows, want %d", ErrLengthMismatch, c.Name(), c.Len(), f.cols[0].Len())
		}
		seen[c.Name()] = true
		f.cols = append(f.cols, c)
	}
	return f, nil
}

// Len returns the number of rows.
func (f *Frame) Len() int {
	if len(f.cols) == 0 {
		return 0
	}
	return f.cols[0].Len()
}

// Width returns the number of columns.
func (f *Frame) Width() int { return len(f.cols) }

// Columns returns the columns in frame order. The returned slice is the
// frame's own backing store and must not be modified.
func (f *Frame) Columns() []*Column { return f.cols }

// Names returns the column names in frame order.
func (f *Frame) Names() []string {
	names := make([]string, len(f.cols))
	for i, c := range f.cols {
		names[i] = c.Name()
	}
	return names
}

// Column returns the named column and whether it exists.
func (f *Frame) Column(name string) (*Column, bool) {
	for _, c := range f.cols {
		if c.name == name {
			return c, true
		}
	}
	return nil, false
}

// ColumnAt returns the column at position i in frame order.
func (f *Frame) ColumnAt(i int) *Column { return f.cols[i] }

// Has reports whether a column with the given name exists.
func (f *Frame) Has(name string) bool {
	_, ok := f.Column(name)
	return ok
}

// SetColumn stores col in the frame. An existing column with the same name
// is replaced in place, keeping its position; otherwise col is appended as
// the last column. Returns ErrLengthMismatch when col's length differs
// from the frame's row count.
func (f *Frame) SetColumn(col *Column) error {
	if col.Name() == "" {
		return ErrEmptyColumnName
	}
	if len(f.cols) > 0 && col.Len() != f.Len() {
		return fmt.Errorf("%w: %q has %d rows, want %d", ErrLengthMismatch, col.Name(), col.Len(), f.Len())
	}
	for i, c := range f.cols {
		if c.name == col.name {
			f.cols[i] = col
			return nil
		}
	}
	f.cols = append(f.cols, col)
	return nil
}

// DropColumn removes the named column, reporting whether it was present.
func (f *Frame) DropColumn(name string) bool {
	for i, c := range f.cols {
		if c.name == name {
			f.cols = append(f.cols[:i], f.cols[i+1:]...)
			return true
		}
	}
	return false
}

// DeleteRows removes the given row positions from every column and
// re-establishes contiguous 0-based indices before returning. Duplicate
// and out-of-range positions are ignored. Returns the number of rows
// removed.
func (f *Frame) DeleteRows(rows []int) int {
	if len(rows) == 0 {
		return 0
	}
	n := f.Len()
	drop := make(map[int]struct{}, len(rows))
	for _, r := range rows {
		if r >= 0 && r < n {
			drop[r] = struct{}{}
		}
	}
	if len(drop) == 0 {
		return 0
	}
	for _, c := range f.cols {
		c.removeRows(drop)
	}
	return len(drop)
}

// Clone returns a deep copy of the frame. The copy shares no state with
// the original.
func (f *Frame) Clone() *Frame {
	cp := &Frame{cols: make([]*Column, len(f.cols))}
	for i, c := range f.cols {
		cp.cols[i] = c.Clone()
	}
	return cp
}

// MissingCount returns the total number of missing entries across every
// column.
func (f *Frame) MissingCount() int {
	n := 0
	for _, c := range f.cols {
		n += c.MissingCount()
	}
	return n
}

// RowsWithMissing returns the positions of rows containing at least one
// missing entry, in ascending order.
func (f *Frame) RowsWithMissing() []int {
	var rows []int
	for i := 0; i < f.Len(); i++ {
		for _, c := range f.cols {
			if c.IsMissing(i) {
				rows = append(rows, i)
				break
			}
		}
	}
	return rows
}

// NumericNames returns the names of numeric columns in frame order.
func (f *Frame) NumericNames() []string {
	var names []string
	for _, c := range f.cols {
		if c.Numeric() {
			names = append(names, c.Name())
		}
	}
	return names
}

// NonNumericNames returns the names of non-numeric columns in frame order.
func (f *Frame) NonNumericNames() []string {
	var names []string
	for _, c := range f.cols {
		if !c.Numeric() {
			names = append(names, c.Name())
		}
	}
	return names
}
