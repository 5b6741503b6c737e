package clean

import (
	"github.com/charmbracelet/log"
	"github.com/montanaflynn/stats"

	"github.com/scrubdata/scrub/pkg/frame"
)

// normalizeTypes is the final pass over numeric columns: all-integral
// float columns are cast to the int dtype, every other float column is
// rounded to the configured precision. The pass is idempotent and runs
// regardless of the other strategy settings.
func normalizeTypes(ds *frame.Frame, opts Options, logger *log.Logger) []Outcome {
	var outcomes []Outcome
	for _, name := range ds.NumericNames() {
		col, _ := ds.Column(name)
		if col.DType() == frame.TypeInt {
			continue
		}

		if col.Integral() {
			// A missing entry has no int representation and keeps the
			// column in float storage.
			if col.CastInt() {
				logger.Debug("conversion to int succeeded", "column", name)
				outcomes = append(outcomes, Outcome{Column: name, Action: ActionCastInt})
			} else {
				logger.Debug("conversion to int failed", "column", name)
			}
			continue
		}

		changed := 0
		for i := 0; i < col.Len(); i++ {
			if col.IsMissing(i) {
				continue
			}
			v := col.FloatAt(i)
			rounded, err := stats.Round(v, opts.RoundDecimals)
			if err != nil {
				continue
			}
			if rounded != v {
				col.SetFloat(i, rounded)
				changed++
			}
		}
		if changed > 0 {
			logger.Debug("rounded values", "column", name, "values", changed, "decimals", opts.RoundDecimals)
			outcomes = append(outcomes, Outcome{Column: name, Action: ActionRound, Changed: changed})
		}
	}
	return outcomes
}
