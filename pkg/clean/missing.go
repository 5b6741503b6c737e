package clean

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/montanaflynn/stats"

	"github.com/scrubdata/scrub/pkg/errors"
	"github.com/scrubdata/scrub/pkg/frame"
)

// missingNumeric handles gaps in numeric columns per the configured
// strategy. The delete strategy drops every row containing a missing value
// anywhere in the dataset, not just in numeric columns, and returns
// immediately; the imputation strategies fill each numeric column from its
// own observed values.
func missingNumeric(ds *frame.Frame, opts Options, logger *log.Logger) []Outcome {
	if opts.Numeric == NumericDisabled {
		logger.Debug("numeric missing-value handling disabled")
		return nil
	}

	missingRows := ds.RowsWithMissing()
	if len(missingRows) == 0 {
		logger.Info("0 missing values found")
		return nil
	}
	logger.Info("found missing values", "total", ds.MissingCount(), "strategy", opts.Numeric)

	if opts.Numeric == NumericDelete {
		dropped := ds.DeleteRows(missingRows)
		logger.Debug("deleted rows with missing values", "rows", dropped)
		return []Outcome{{Action: ActionDeleteRows, Changed: dropped}}
	}

	var outcomes []Outcome
	for _, name := range ds.NumericNames() {
		col, _ := ds.Column(name)
		if col.MissingCount() == 0 {
			continue
		}
		changed, err := imputeNumeric(col, opts.Numeric, opts.Neighbors)
		if err != nil {
			// Per-column failure leaves the column unmodified and the
			// pipeline continues with the remaining columns.
			logger.Debug("imputation failed", "column", name, "strategy", opts.Numeric, "err", err)
			outcomes = append(outcomes, Outcome{Column: name, Action: ActionSkip, Reason: errors.UserMessage(err)})
			continue
		}
		logger.Debug("imputed missing values", "column", name, "strategy", opts.Numeric, "values", changed)
		outcomes = append(outcomes, Outcome{Column: name, Action: ActionImpute, Changed: changed})
	}
	return outcomes
}

// imputeNumeric fills the gaps of one numeric column from its own observed
// values. If every observed value was integral before imputation, the
// filled column is cast back to the int dtype (truncating the fill value).
func imputeNumeric(col *frame.Column, strategy NumericStrategy, neighbors int) (int, error) {
	vals := col.NonMissing()
	if len(vals) == 0 {
		return 0, errors.New(errors.ErrCodeEmptyColumn, "column %q has no observed values", col.Name())
	}
	integral := col.Integral()

	var fill float64
	var err error
	switch strategy {
	case NumericKNN:
		fill, err = knnImpute(vals, neighbors)
	case NumericMean:
		fill, err = stats.Mean(vals)
	case NumericMedian:
		fill, err = stats.Median(vals)
	case NumericMode:
		fill, err = modeOf(vals)
	default:
		return 0, errors.New(errors.ErrCodeUnsupported, "strategy %q does not impute", string(strategy))
	}
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInternal, err, "compute %s of column %q", strategy, col.Name())
	}

	changed := 0
	for i := 0; i < col.Len(); i++ {
		if col.IsMissing(i) {
			col.SetFloat(i, fill)
			changed++
		}
	}
	if integral {
		col.CastInt()
	}
	return changed, nil
}

// knnImpute estimates a fill value from the column's own donor pool. The
// neighbor search runs within the single column being imputed, so a
// missing entry exposes no observed coordinates and every donor is
// equidistant: the mean of the k nearest donors equals the pool mean for
// any k. The neighbor count is kept for interface compatibility.
func knnImpute(vals []float64, neighbors int) (float64, error) {
	_ = neighbors
	return stats.Mean(vals)
}

// modeOf returns the most frequent value, breaking ties toward the
// smallest. When every value is distinct there is no mode and the minimum
// serves as the most-frequent representative.
func modeOf(vals []float64) (float64, error) {
	modes, err := stats.Mode(vals)
	if err != nil {
		return 0, err
	}
	if len(modes) == 0 {
		return stats.Min(vals)
	}
	return stats.Min(modes)
}

// missingCategorical handles gaps in non-numeric columns. Mode imputation
// replaces each column's missing entries with its most frequent value; the
// delete strategy mirrors the numeric one and drops rows with a missing
// value anywhere in the dataset.
func missingCategorical(ds *frame.Frame, opts Options, logger *log.Logger) []Outcome {
	if opts.Categorical == CategoricalDisabled {
		logger.Debug("categorical missing-value handling disabled")
		return nil
	}

	missingRows := ds.RowsWithMissing()
	if len(missingRows) == 0 {
		logger.Info("0 missing values found")
		return nil
	}
	logger.Info("found missing values", "total", ds.MissingCount(), "strategy", opts.Categorical)

	if opts.Categorical == CategoricalDelete {
		dropped := ds.DeleteRows(missingRows)
		logger.Debug("deleted rows with missing values", "rows", dropped)
		return []Outcome{{Action: ActionDeleteRows, Changed: dropped}}
	}

	var outcomes []Outcome
	for _, name := range ds.NonNumericNames() {
		col, _ := ds.Column(name)
		if col.MissingCount() == 0 {
			continue
		}
		changed, err := imputeMode(col)
		if err != nil {
			logger.Debug("imputation failed", "column", name, "strategy", opts.Categorical, "err", err)
			outcomes = append(outcomes, Outcome{Column: name, Action: ActionSkip, Reason: errors.UserMessage(err)})
			continue
		}
		logger.Debug("imputed missing values", "column", name, "strategy", opts.Categorical, "values", changed)
		outcomes = append(outcomes, Outcome{Column: name, Action: ActionImpute, Changed: changed})
	}
	return outcomes
}

// imputeMode replaces a non-numeric column's missing entries with its most
// frequent observed value. Frequency ties break toward the smallest value
// (lexicographic for strings, earliest for times), matching modeOf.
func imputeMode(col *frame.Column) (int, error) {
	switch col.DType() {
	case frame.TypeString:
		counts := make(map[string]int)
		var best string
		bestN := 0
		for i := 0; i < col.Len(); i++ {
			if col.IsMissing(i) {
				continue
			}
			v := col.StringAt(i)
			counts[v]++
			if counts[v] > bestN || (counts[v] == bestN && v < best) {
				best, bestN = v, counts[v]
			}
		}
		if bestN == 0 {
			return 0, errors.New(errors.ErrCodeEmptyColumn, "column %q has no observed values", col.Name())
		}
		changed := 0
		for i := 0; i < col.Len(); i++ {
			if col.IsMissing(i) {
				col.SetString(i, best)
				changed++
			}
		}
		return changed, nil

	case frame.TypeTime:
		counts := make(map[time.Time]int)
		var best time.Time
		bestN := 0
		for i := 0; i < col.Len(); i++ {
			if col.IsMissing(i) {
				continue
			}
			v := col.TimeAt(i)
			counts[v]++
			if counts[v] > bestN || (counts[v] == bestN && v.Before(best)) {
				best, bestN = v, counts[v]
			}
		}
		if bestN == 0 {
			return 0, errors.New(errors.ErrCodeEmptyColumn, "column %q has no observed values", col.Name())
		}
		changed := 0
		for i := 0; i < col.Len(); i++ {
			if col.IsMissing(i) {
				col.SetTime(i, best)
				changed++
			}
		}
		return changed, nil
	}
	return 0, errors.New(errors.ErrCodeTypeMismatch, "column %q is not categorical", col.Name())
}
