package clean

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/scrubdata/scrub/pkg/frame"
)

// datetimeComponents lists the derivable sub-features in extraction order.
// Each entry names the derived column, the smallest granularity that
// includes it, and the timestamp component it extracts.
var datetimeComponents = []struct {
	name string
	min  Granularity
	get  func(t time.Time) int
}{
	{"Day", GranularityDay, func(t time.Time) int { return t.Day() }},
	{"Month", GranularityMonth, func(t time.Time) int { return int(t.Month()) }},
	{"Year", GranularityYear, func(t time.Time) int { return t.Year() }},
	{"Hour", GranularityHour, func(t time.Time) int { return t.Hour() }},
	{"Minute", GranularityMinute, func(t time.Time) int { return t.Minute() }},
	{"Sec", GranularitySecond, func(t time.Time) int { return t.Second() }},
}

// extractDatetime parses candidate columns as timestamps and appends the
// derived component columns up to the configured granularity. Columns that
// fail the probe are skipped silently; parsed source columns are converted
// to the time dtype and retained.
func extractDatetime(ds *frame.Frame, opts Options, logger *log.Logger) []Outcome {
	if opts.Datetime == GranularityOff {
		logger.Debug("datetime extraction disabled")
		return nil
	}

	var outcomes []Outcome
	for _, name := range ds.NonNumericNames() {
		col, _ := ds.Column(name)
		times, valid, ok := frame.ParseTimes(col)
		if !ok {
			logger.Debug("conversion to datetime failed", "column", name)
			continue
		}

		parsed := frame.Times(name, times...)
		for i, v := range valid {
			if !v {
				parsed.SetMissing(i)
			}
		}
		_ = ds.SetColumn(parsed)

		derived := deriveComponents(ds, times, valid, opts.Datetime)
		dropZeroComponents(ds, logger)
		logger.Debug("conversion to datetime succeeded", "column", name, "components", derived)
		outcomes = append(outcomes, Outcome{Column: name, Action: ActionDatetime, Changed: derived})
	}
	return outcomes
}

// deriveComponents appends one column per component up to granularity g,
// in extraction order, and returns how many were written. Rows invalid in
// the source stay missing in every derived column.
func deriveComponents(ds *frame.Frame, times []time.Time, valid []bool, g Granularity) int {
	derived := 0
	for _, comp := range datetimeComponents {
		if g < comp.min {
			break
		}
		vals := make([]float64, len(times))
		var missing []int
		for i, t := range times {
			if !valid[i] {
				missing = append(missing, i)
				continue
			}
			vals[i] = float64(comp.get(t))
		}
		col := frame.Floats(comp.name, vals...)
		for _, i := range missing {
			col.SetMissing(i)
		}
		if len(missing) == 0 {
			col.CastInt()
		}
		_ = ds.SetColumn(col)
		derived++
	}
	return derived
}

// dropZeroComponents removes derived component groups that carry no
// information: a date-only source leaves Hour, Minute and Sec uniformly
// zero. The Day/Month/Year branch mirrors the first, although day and
// month are never zero in a valid calendar date; the mutually exclusive
// branch order is kept as inherited.
func dropZeroComponents(ds *frame.Frame, logger *log.Logger) {
	if allZero(ds, "Hour") && allZero(ds, "Minute") && allZero(ds, "Sec") {
		ds.DropColumn("Hour")
		ds.DropColumn("Minute")
		ds.DropColumn("Sec")
		logger.Debug("dropped time-of-day components, all values zero")
	} else if allZero(ds, "Day") && allZero(ds, "Month") && allZero(ds, "Year") {
		ds.DropColumn("Day")
		ds.DropColumn("Month")
		ds.DropColumn("Year")
		logger.Debug("dropped date components, all values zero")
	}
}

// allZero reports whether the named column exists and every entry is an
// observed zero.
func allZero(ds *frame.Frame, name string) bool {
	col, ok := ds.Column(name)
	if !ok {
		return false
	}
	for i := 0; i < col.Len(); i++ {
		if col.IsMissing(i) || col.FloatAt(i) != 0 {
			return false
		}
	}
	return true
}
