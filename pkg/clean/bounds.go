package clean

import "sort"

// Bounds is the expected-value band for a numeric column, derived from its
// quartiles. Values outside [Lower, Upper] count as outliers.
type Bounds struct {
	Lower float64
	Upper float64
}

// computeBounds derives the outlier band for the given values: the 25th
// and 75th percentiles widened by factor times the interquartile range.
// It reports false when no values are available.
//
// Percentiles use linear interpolation between order statistics: the rank
// of percentile p is p/100*(n-1), and fractional ranks interpolate between
// the two bracketing sorted values.
func computeBounds(vals []float64, factor float64) (Bounds, bool) {
	if len(vals) == 0 {
		return Bounds{}, false
	}
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)

	q1 := percentile(sorted, 25)
	q3 := percentile(sorted, 75)
	iqr := q3 - q1
	return Bounds{
		Lower: q1 - factor*iqr,
		Upper: q3 + factor*iqr,
	}, true
}

// percentile estimates the p-th percentile of sorted (ascending) values.
func percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	rank := p / 100 * float64(n-1)
	lo := int(rank)
	if lo >= n-1 {
		return sorted[n-1]
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

// Contains reports whether v lies inside the band.
func (b Bounds) Contains(v float64) bool {
	return v >= b.Lower && v <= b.Upper
}

// Clamp returns v limited to the band.
func (b Bounds) Clamp(v float64) float64 {
	if v < b.Lower {
		return b.Lower
	}
	if v > b.Upper {
		return b.Upper
	}
	return v
}
