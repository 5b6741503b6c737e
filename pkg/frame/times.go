package frame

import (
	"strings"
	"time"
)

// timeLayouts are the formats accepted when probing text columns for
// datetime content, tried in order. The first match wins per value.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006/01/02",
	"02.01.2006 15:04:05",
	"02.01.2006",
	"01/02/2006 15:04:05",
	"01/02/2006",
}

// ParseTimes attempts to interpret an entire column as timestamps.
//
// It returns the parsed values, a validity mask aligned with the column's
// missing entries, and whether the column qualifies: every non-missing
// entry must parse under one of the accepted layouts. Numeric columns
// never qualify. Time columns qualify as-is.
//
// The probe is recomputed on every call and never cached; earlier pipeline
// stages may have rewritten the column since the last check.
func ParseTimes(c *Column) ([]time.Time, []bool, bool) {
	switch c.DType() {
	case TypeTime:
		return append([]time.Time(nil), c.times...), append([]bool(nil), c.valid...), true
	case TypeString:
		n := c.Len()
		times := make([]time.Time, n)
		valid := make([]bool, n)
		for i := 0; i < n; i++ {
			if c.IsMissing(i) {
				continue
			}
			t, ok := parseTime(strings.TrimSpace(c.strs[i]))
			if !ok {
				return nil, nil, false
			}
			times[i], valid[i] = t, true
		}
		return times, valid, true
	}
	return nil, nil, false
}

func parseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Kind classifies a column for pipeline stage selection.
type Kind int

const (
	// KindNumeric marks columns with a number dtype.
	KindNumeric Kind = iota
	// KindCategorical marks non-numeric columns whose values do not all
	// parse as datetimes.
	KindCategorical
	// KindDatetime marks non-numeric columns whose every non-missing value
	// parses as a datetime.
	KindDatetime
)

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindCategorical:
		return "categorical"
	case KindDatetime:
		return "datetime"
	}
	return "unknown"
}

// KindOf classifies c. The classification is derived on demand and never
// stored, so it can change between pipeline stages as values are
// rewritten.
func KindOf(c *Column) Kind {
	if c.Numeric() {
		return KindNumeric
	}
	if _, _, ok := ParseTimes(c); ok {
		return KindDatetime
	}
	return KindCategorical
}
