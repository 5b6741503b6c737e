package clean

import (
	"github.com/charmbracelet/log"

	"github.com/scrubdata/scrub/pkg/frame"
)

// handleOutliers winsorizes or deletes values outside the per-column
// quartile bounds.
//
// Columns are processed one at a time, sequentially and cumulatively: with
// the delete strategy, rows removed for an earlier column shrink the
// dataset before the next column's bounds are computed, so later columns
// see the already-reduced value distribution.
func handleOutliers(ds *frame.Frame, opts Options, logger *log.Logger) []Outcome {
	if opts.Outliers == OutlierDisabled {
		logger.Debug("outlier handling disabled")
		return nil
	}

	var outcomes []Outcome
	for _, name := range ds.NumericNames() {
		col, _ := ds.Column(name)
		bounds, ok := computeBounds(col.NonMissing(), opts.OutlierFactor)
		if !ok {
			logger.Debug("no observed values, skipping outlier scan", "column", name)
			continue
		}

		switch opts.Outliers {
		case OutlierWinz:
			if n := winsorize(col, bounds); n > 0 {
				logger.Debug("winsorized values", "column", name, "values", n,
					"lower", bounds.Lower, "upper", bounds.Upper)
				outcomes = append(outcomes, Outcome{Column: name, Action: ActionWinsorize, Changed: n})
			}

		case OutlierDelete:
			var rows []int
			for i := 0; i < col.Len(); i++ {
				if col.IsMissing(i) {
					continue
				}
				if !bounds.Contains(col.FloatAt(i)) {
					rows = append(rows, i)
				}
			}
			if len(rows) == 0 {
				continue
			}
			// Reindex before moving to the next column so its bounds and
			// row scan run on the shrunken dataset.
			dropped := ds.DeleteRows(rows)
			logger.Debug("deleted outlier rows", "column", name, "rows", dropped,
				"lower", bounds.Lower, "upper", bounds.Upper)
			outcomes = append(outcomes, Outcome{Column: name, Action: ActionDeleteRows, Changed: dropped})
		}
	}
	return outcomes
}

// winsorize clamps every out-of-band value to the nearest bound and
// returns the number of replacements. A column whose observed values were
// all integral before clamping is cast back to the int dtype, truncating
// fractional bounds.
func winsorize(col *frame.Column, b Bounds) int {
	integral := col.Integral()
	changed := 0
	for i := 0; i < col.Len(); i++ {
		if col.IsMissing(i) {
			continue
		}
		v := col.FloatAt(i)
		if clamped := b.Clamp(v); clamped != v {
			col.SetFloat(i, clamped)
			changed++
		}
	}
	if changed > 0 && integral {
		col.CastInt()
	}
	return changed
}
