package clean

import (
	"github.com/charmbracelet/log"

	"github.com/scrubdata/scrub/pkg/errors"
	"github.com/scrubdata/scrub/pkg/frame"
)

// Cardinality cutoffs for the auto encoding policy.
const (
	autoOneHotMax = 10
	autoLabelMax  = 20
)

// encodeCategorical converts categorical columns to numeric
// representations. The auto policy decides per column by cardinality, the
// targeted policy encodes only the listed columns, and the blanket policy
// applies one method to every categorical column. Label mappings are
// written into labels keyed by column name.
func encodeCategorical(ds *frame.Frame, opts Options, labels map[string]*LabelMapping, logger *log.Logger) []Outcome {
	switch opts.Encoding.Policy {
	case EncodeDisabled:
		logger.Debug("categorical encoding disabled")
		return nil
	case EncodeAuto:
		return encodeAuto(ds, opts, labels, logger)
	}
	if len(opts.Encoding.Targets) > 0 {
		return encodeTargets(ds, opts, labels, logger)
	}
	return encodeBlanket(ds, opts, labels, logger)
}

// encodeAuto encodes each non-datetime categorical column by cardinality:
// one-hot up to autoOneHotMax distinct values, label up to autoLabelMax,
// skipped beyond that.
func encodeAuto(ds *frame.Frame, opts Options, labels map[string]*LabelMapping, logger *log.Logger) []Outcome {
	var outcomes []Outcome
	for _, name := range ds.NonNumericNames() {
		col, _ := ds.Column(name)
		if frame.KindOf(col) == frame.KindDatetime {
			logger.Debug("skipped encoding for datetime column", "column", name)
			continue
		}
		switch distinct := len(categoriesOf(col)); {
		case distinct <= autoOneHotMax:
			outcomes = append(outcomes, encodeOne(ds, name, EncodeOneHot, opts, labels, logger))
		case distinct <= autoLabelMax:
			outcomes = append(outcomes, encodeOne(ds, name, EncodeLabel, opts, labels, logger))
		default:
			logger.Debug("encoding skipped, too many categories", "column", name, "distinct", distinct)
			outcomes = append(outcomes, Outcome{Column: name, Action: ActionSkip, Reason: "too many categories"})
		}
	}
	return outcomes
}

// encodeTargets encodes exactly the configured target columns with the
// configured method. Targets resolve by name or by position among the
// non-numeric columns; unresolvable or failing targets are recorded and
// skipped.
func encodeTargets(ds *frame.Frame, opts Options, labels map[string]*LabelMapping, logger *log.Logger) []Outcome {
	nonNumeric := ds.NonNumericNames()
	var outcomes []Outcome
	for _, ref := range opts.Encoding.Targets {
		name, ok := ref.Resolve(nonNumeric)
		if !ok {
			logger.Debug("encoding target not found", "target", ref.String())
			outcomes = append(outcomes, Outcome{Column: ref.String(), Action: ActionSkip, Reason: "no such non-numeric column"})
			continue
		}
		outcomes = append(outcomes, encodeOne(ds, name, opts.Encoding.Policy, opts, labels, logger))
	}
	return outcomes
}

// encodeBlanket encodes every non-datetime categorical column with the
// configured method.
func encodeBlanket(ds *frame.Frame, opts Options, labels map[string]*LabelMapping, logger *log.Logger) []Outcome {
	var outcomes []Outcome
	for _, name := range ds.NonNumericNames() {
		col, _ := ds.Column(name)
		if frame.KindOf(col) == frame.KindDatetime {
			logger.Debug("skipped encoding for datetime column", "column", name)
			continue
		}
		outcomes = append(outcomes, encodeOne(ds, name, opts.Encoding.Policy, opts, labels, logger))
	}
	return outcomes
}

// encodeOne applies one encoding method to one column and reports the
// outcome. Failures leave the column untouched.
func encodeOne(ds *frame.Frame, name string, method EncodingPolicy, opts Options, labels map[string]*LabelMapping, logger *log.Logger) Outcome {
	col, ok := ds.Column(name)
	if !ok {
		return Outcome{Column: name, Action: ActionSkip, Reason: "column not found"}
	}
	switch method {
	case EncodeOneHot:
		added, err := oneHotEncode(ds, col, opts.OneHotLimit, logger)
		if err != nil {
			logger.Debug("onehot encoding failed", "column", name, "err", err)
			return Outcome{Column: name, Action: ActionSkip, Reason: errors.UserMessage(err)}
		}
		logger.Debug("onehot encoding succeeded", "column", name, "indicators", added)
		return Outcome{Column: name, Action: ActionOneHot, Changed: added}

	case EncodeLabel:
		mapping, err := labelEncode(ds, col)
		if err != nil {
			logger.Debug("label encoding failed", "column", name, "err", err)
			return Outcome{Column: name, Action: ActionSkip, Reason: errors.UserMessage(err)}
		}
		labels[name] = mapping
		logger.Debug("label encoding succeeded", "column", name, "categories", mapping.Len())
		return Outcome{Column: name, Action: ActionLabel, Changed: mapping.Len()}
	}
	return Outcome{Column: name, Action: ActionSkip, Reason: "unsupported encoding method"}
}

// oneHotEncode appends one 0/1 indicator column per distinct category,
// named by joining the source column name with the category value. The
// source column is retained. Crossing the indicator limit logs a warning
// recommending label encoding, but encoding still proceeds.
func oneHotEncode(ds *frame.Frame, col *frame.Column, limit int, logger *log.Logger) (int, error) {
	cats := categoriesOf(col)
	if len(cats) == 0 {
		return 0, errors.New(errors.ErrCodeEmptyColumn, "column %q has no observed values", col.Name())
	}
	if len(cats) > limit {
		logger.Warn("onehot encoding creates many new columns, consider label encoding",
			"column", col.Name(), "indicators", len(cats))
	}
	for _, cat := range cats {
		vals := make([]int64, col.Len())
		for i := 0; i < col.Len(); i++ {
			if !col.IsMissing(i) && categoryAt(col, i) == cat {
				vals[i] = 1
			}
		}
		if err := ds.SetColumn(frame.Ints(col.Name()+"_"+cat, vals...)); err != nil {
			return 0, errors.Wrap(errors.ErrCodeInternal, err, "append indicator for %q", cat)
		}
	}
	return len(cats), nil
}

// labelEncode replaces the column's values with integer codes assigned in
// order of first appearance and returns the mapping. Missing entries stay
// missing; they never surface as a finite code.
func labelEncode(ds *frame.Frame, col *frame.Column) (*LabelMapping, error) {
	if len(categoriesOf(col)) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyColumn, "column %q has no observed values", col.Name())
	}
	mapping := newLabelMapping()
	vals := make([]float64, col.Len())
	var missing []int
	for i := 0; i < col.Len(); i++ {
		if col.IsMissing(i) {
			missing = append(missing, i)
			continue
		}
		vals[i] = float64(mapping.code(categoryAt(col, i)))
	}
	encoded := frame.Floats(col.Name(), vals...)
	for _, i := range missing {
		encoded.SetMissing(i)
	}
	if len(missing) == 0 {
		encoded.CastInt()
	}
	if err := ds.SetColumn(encoded); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "replace column %q", col.Name())
	}
	return mapping, nil
}

// categoryAt returns the category key of the entry at row i.
func categoryAt(col *frame.Column, i int) string {
	return col.Display(i)
}

// categoriesOf returns the distinct observed categories in order of first
// appearance.
func categoriesOf(col *frame.Column) []string {
	seen := make(map[string]bool)
	var cats []string
	for i := 0; i < col.Len(); i++ {
		if col.IsMissing(i) {
			continue
		}
		if cat := categoryAt(col, i); !seen[cat] {
			seen[cat] = true
			cats = append(cats, cat)
		}
	}
	return cats
}
