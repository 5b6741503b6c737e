package frame

import (
	"math"
	"strconv"
	"time"
)

// DType identifies the storage type of a Column.
type DType int

const (
	// TypeFloat holds float64 values. Missing entries are stored as NaN.
	TypeFloat DType = iota
	// TypeInt holds int64 values. An int column cannot represent a missing
	// entry; operations that introduce one promote the column to TypeFloat.
	TypeInt
	// TypeString holds text values with an explicit validity mask.
	TypeString
	// TypeTime holds timestamps with an explicit validity mask.
	TypeTime
)

// String returns the lower-case name of the dtype.
func (d DType) String() string {
	switch d {
	case TypeFloat:
		return "float"
	case TypeInt:
		return "int"
	case TypeString:
		return "string"
	case TypeTime:
		return "time"
	}
	return "unknown"
}

// TimeLayout is the canonical display format for timestamp values.
const TimeLayout = "2006-01-02 15:04:05"

// Column is a named, ordered sequence of scalar values sharing one dtype.
// Entries are positionally addressed and can be missing. The zero value is
// not usable; create columns with [Floats], [Ints], [Strings] or [Times].
//
// A Column is not safe for concurrent mutation.
type Column struct {
	name   string
	dtype  DType
	floats []float64
	ints   []int64
	strs   []string
	times  []time.Time
	valid  []bool // TypeString/TypeTime only
}

// Floats creates a float column. NaN entries count as missing.
func Floats(name string, vals ...float64) *Column {
	return &Column{name: name, dtype: TypeFloat, floats: append([]float64(nil), vals...)}
}

// Ints creates an int column. Int columns have no missing representation;
// use [Column.WithMissing] to promote selected rows, which converts the
// column to TypeFloat.
func Ints(name string, vals ...int64) *Column {
	return &Column{name: name, dtype: TypeInt, ints: append([]int64(nil), vals...)}
}

// Strings creates a text column with every entry valid.
func Strings(name string, vals ...string) *Column {
	c := &Column{name: name, dtype: TypeString, strs: append([]string(nil), vals...)}
	c.valid = make([]bool, len(c.strs))
	for i := range c.valid {
		c.valid[i] = true
	}
	return c
}

// Times creates a timestamp column with every entry valid.
func Times(name string, vals ...time.Time) *Column {
	c := &Column{name: name, dtype: TypeTime, times: append([]time.Time(nil), vals...)}
	c.valid = make([]bool, len(c.times))
	for i := range c.valid {
		c.valid[i] = true
	}
	return c
}

// WithMissing marks the given row positions as missing and returns the
// column for chaining with a constructor.
func (c *Column) WithMissing(rows ...int) *Column {
	for _, i := range rows {
		c.SetMissing(i)
	}
	return c
}

// Name returns the column name.
func (c *Column) Name() string { return c.name }

// DType returns the column's storage type.
func (c *Column) DType() DType { return c.dtype }

// Len returns the number of entries.
func (c *Column) Len() int {
	switch c.dtype {
	case TypeFloat:
		return len(c.floats)
	case TypeInt:
		return len(c.ints)
	case TypeString:
		return len(c.strs)
	default:
		return len(c.times)
	}
}

// Numeric reports whether the column holds numbers (float or int dtype).
func (c *Column) Numeric() bool { return c.dtype == TypeFloat || c.dtype == TypeInt }

// IsMissing reports whether the entry at row i is missing.
func (c *Column) IsMissing(i int) bool {
	switch c.dtype {
	case TypeFloat:
		return math.IsNaN(c.floats[i])
	case TypeInt:
		return false
	default:
		return !c.valid[i]
	}
}

// SetMissing marks row i as missing. Int columns are promoted to float
// first, since TypeInt has no missing representation.
func (c *Column) SetMissing(i int) {
	switch c.dtype {
	case TypeInt:
		c.promote()
		fallthrough
	case TypeFloat:
		c.floats[i] = math.NaN()
	default:
		c.valid[i] = false
	}
}

// MissingCount returns the number of missing entries.
func (c *Column) MissingCount() int {
	n := 0
	switch c.dtype {
	case TypeFloat:
		for _, v := range c.floats {
			if math.IsNaN(v) {
				n++
			}
		}
	case TypeInt:
	default:
		for _, ok := range c.valid {
			if !ok {
				n++
			}
		}
	}
	return n
}

// FloatAt returns the value at row i as a float64. Int values are widened;
// missing entries and non-numeric columns yield NaN.
func (c *Column) FloatAt(i int) float64 {
	switch c.dtype {
	case TypeFloat:
		return c.floats[i]
	case TypeInt:
		return float64(c.ints[i])
	default:
		return math.NaN()
	}
}

// IntAt returns the value at row i as an int64, truncating float values
// toward zero. Non-numeric columns yield 0.
func (c *Column) IntAt(i int) int64 {
	switch c.dtype {
	case TypeInt:
		return c.ints[i]
	case TypeFloat:
		return int64(c.floats[i])
	default:
		return 0
	}
}

// StringAt returns the text value at row i. Missing entries and non-string
// columns yield the empty string.
func (c *Column) StringAt(i int) string {
	if c.dtype != TypeString || !c.valid[i] {
		return ""
	}
	return c.strs[i]
}

// TimeAt returns the timestamp at row i. Missing entries and non-time
// columns yield the zero time.
func (c *Column) TimeAt(i int) time.Time {
	if c.dtype != TypeTime || !c.valid[i] {
		return time.Time{}
	}
	return c.times[i]
}

// SetFloat stores v at row i. Int columns are promoted to float first; use
// [Column.CastInt] to collapse an all-integral column back. Calling
// SetFloat on a non-numeric column panics.
func (c *Column) SetFloat(i int, v float64) {
	if c.dtype == TypeInt {
		c.promote()
	}
	if c.dtype != TypeFloat {
		panic("frame: SetFloat on non-numeric column " + c.name)
	}
	c.floats[i] = v
}

// SetString stores s at row i of a text column and marks the entry valid.
func (c *Column) SetString(i int, s string) {
	if c.dtype != TypeString {
		panic("frame: SetString on non-string column " + c.name)
	}
	c.strs[i] = s
	c.valid[i] = true
}

// SetTime stores t at row i of a timestamp column and marks the entry valid.
func (c *Column) SetTime(i int, t time.Time) {
	if c.dtype != TypeTime {
		panic("frame: SetTime on non-time column " + c.name)
	}
	c.times[i] = t
	c.valid[i] = true
}

// Display returns the entry at row i formatted for output: plain decimal
// for numbers, [TimeLayout] for timestamps, the text itself for strings.
// Missing entries return the empty string.
func (c *Column) Display(i int) string {
	if c.IsMissing(i) {
		return ""
	}
	switch c.dtype {
	case TypeFloat:
		return strconv.FormatFloat(c.floats[i], 'f', -1, 64)
	case TypeInt:
		return strconv.FormatInt(c.ints[i], 10)
	case TypeString:
		return c.strs[i]
	default:
		return c.times[i].Format(TimeLayout)
	}
}

// NonMissing returns the non-missing values of a numeric column as floats,
// in row order. Non-numeric columns return nil.
func (c *Column) NonMissing() []float64 {
	if !c.Numeric() {
		return nil
	}
	out := make([]float64, 0, c.Len())
	for i := 0; i < c.Len(); i++ {
		if c.IsMissing(i) {
			continue
		}
		out = append(out, c.FloatAt(i))
	}
	return out
}

// Integral reports whether every non-missing value has a zero fractional
// part. Int columns are trivially integral; non-numeric columns never are.
func (c *Column) Integral() bool {
	switch c.dtype {
	case TypeInt:
		return true
	case TypeFloat:
		for _, v := range c.floats {
			if math.IsNaN(v) {
				continue
			}
			if v != math.Trunc(v) {
				return false
			}
		}
		return true
	}
	return false
}

// CastInt converts a float column to the int dtype, truncating each value
// toward zero. It reports success: false is returned for non-numeric
// columns and for float columns containing a missing entry, which cannot
// be represented as int. Int columns succeed as a no-op.
func (c *Column) CastInt() bool {
	if c.dtype == TypeInt {
		return true
	}
	if c.dtype != TypeFloat {
		return false
	}
	for _, v := range c.floats {
		if math.IsNaN(v) {
			return false
		}
	}
	ints := make([]int64, len(c.floats))
	for i, v := range c.floats {
		ints[i] = int64(v)
	}
	c.ints = ints
	c.floats = nil
	c.dtype = TypeInt
	return true
}

// Clone returns a deep copy of the column.
func (c *Column) Clone() *Column {
	return &Column{
		name:   c.name,
		dtype:  c.dtype,
		floats: append([]float64(nil), c.floats...),
		ints:   append([]int64(nil), c.ints...),
		strs:   append([]string(nil), c.strs...),
		times:  append([]time.Time(nil), c.times...),
		valid:  append([]bool(nil), c.valid...),
	}
}

// promote converts the backing store from int64 to float64.
func (c *Column) promote() {
	if c.dtype != TypeInt {
		return
	}
	c.floats = make([]float64, len(c.ints))
	for i, v := range c.ints {
		c.floats[i] = float64(v)
	}
	c.ints = nil
	c.dtype = TypeFloat
}

// removeRows drops the entries at the given positions.
func (c *Column) removeRows(drop map[int]struct{}) {
	keep := func(i int) bool {
		_, ok := drop[i]
		return !ok
	}
	switch c.dtype {
	case TypeFloat:
		out := make([]float64, 0, len(c.floats)-len(drop))
		for i, v := range c.floats {
			if keep(i) {
				out = append(out, v)
			}
		}
		c.floats = out
	case TypeInt:
		out := make([]int64, 0, len(c.ints)-len(drop))
		for i, v := range c.ints {
			if keep(i) {
				out = append(out, v)
			}
		}
		c.ints = out
	case TypeString:
		strs := make([]string, 0, len(c.strs)-len(drop))
		valid := make([]bool, 0, len(c.strs)-len(drop))
		for i, v := range c.strs {
			if keep(i) {
				strs = append(strs, v)
				valid = append(valid, c.valid[i])
			}
		}
		c.strs, c.valid = strs, valid
	case TypeTime:
		times := make([]time.Time, 0, len(c.times)-len(drop))
		valid := make([]bool, 0, len(c.times)-len(drop))
		for i, v := range c.times {
			if keep(i) {
				times = append(times, v)
				valid = append(valid, c.valid[i])
			}
		}
		c.times, c.valid = times, valid
	}
}
