// Package clean provides the core data-cleaning pipeline for Scrub.
//
// This package implements the complete missing-value → outlier → datetime →
// encoding → normalization pipeline that can be used by CLI and API
// components. By centralizing this logic, we ensure consistent behavior
// across all entry points and avoid code duplication.
//
// # Architecture
//
// The pipeline consists of five stages:
//
//  1. Missing values: impute gaps per column, or drop the rows that
//     contain them (numeric and categorical handled separately)
//  2. Outliers: winsorize values outside the per-column quartile bounds,
//     or drop the rows that contain them
//  3. Datetime: parse candidate columns as timestamps and extract
//     day/month/year/hour/minute/second feature columns
//  4. Encoding: one-hot or label encode categorical columns
//  5. Normalization: cast all-integral columns to int and round the rest
//
// Stages always run in this order, with one exception: the categorical
// missing-value pass runs before the numeric one when the numeric strategy
// deletes rows while the categorical strategy imputes them, so imputation
// can rescue rows that only have categorical gaps.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := clean.NewRunner(cache, nil, logger)
//	opts := clean.Options{
//	    Numeric:  clean.NumericMean,
//	    Outliers: clean.OutlierWinz,
//	}
//	result, err := runner.Execute(ctx, ds, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	cleaned := result.Frame
//
// Or use the convenience wrapper, which builds the sinks described by the
// logging options (console and/or an overwrite-mode log file):
//
//	result, err := clean.Clean(ctx, ds, clean.Options{})
package clean

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/scrubdata/scrub/pkg/cache"
	"github.com/scrubdata/scrub/pkg/errors"
	"github.com/scrubdata/scrub/pkg/frame"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultNeighbors is the neighbor count for knn imputation. The
	// neighbor search runs within the single column being imputed, so a
	// missing entry has no observed coordinates and the imputation reduces
	// to the column mean; the knob is kept for interface compatibility.
	DefaultNeighbors = 3

	// DefaultOutlierFactor is the IQR multiplier defining the outlier
	// bounds [Q1 - k*IQR, Q3 + k*IQR].
	DefaultOutlierFactor = 1.5

	// DefaultRoundDecimals is the rounding precision applied to
	// non-integral numeric columns by the normalization stage.
	DefaultRoundDecimals = 2

	// DefaultOneHotLimit is the number of generated indicator columns
	// above which one-hot encoding warns and recommends label encoding.
	DefaultOneHotLimit = 15

	// DefaultLogFile is the overwrite-mode log file written when file
	// logging is enabled.
	DefaultLogFile = "scrub.log"
)

// DefaultGranularity is the default datetime extraction granularity.
const DefaultGranularity = GranularitySecond

// Stage names used in reports and observability hooks, in default
// execution order.
const (
	StageMissingNumeric     = "missing_numeric"
	StageMissingCategorical = "missing_categorical"
	StageOutliers           = "outliers"
	StageDatetime           = "datetime"
	StageEncode             = "encode"
	StageNormalize          = "normalize"
)

// Outcome actions recorded by the pipeline stages.
const (
	ActionImpute     = "impute"
	ActionDeleteRows = "delete_rows"
	ActionWinsorize  = "winsorize"
	ActionDatetime   = "datetime"
	ActionOneHot     = "onehot"
	ActionLabel      = "label"
	ActionCastInt    = "cast_int"
	ActionRound      = "round"
	ActionSkip       = "skip"
)

// NumericStrategy selects how missing values in numeric columns are
// handled. The empty string means "use the default" (knn).
type NumericStrategy string

// Numeric missing-value strategies.
const (
	NumericKNN      NumericStrategy = "knn"
	NumericMean     NumericStrategy = "mean"
	NumericMedian   NumericStrategy = "median"
	NumericMode     NumericStrategy = "mode"
	NumericDelete   NumericStrategy = "delete"
	NumericDisabled NumericStrategy = "disabled"
)

// CategoricalStrategy selects how missing values in non-numeric columns
// are handled. The empty string means "use the default" (mode).
type CategoricalStrategy string

// Categorical missing-value strategies.
const (
	CategoricalMode     CategoricalStrategy = "mode"
	CategoricalDelete   CategoricalStrategy = "delete"
	CategoricalDisabled CategoricalStrategy = "disabled"
)

// OutlierStrategy selects how out-of-bounds numeric values are handled.
// The empty string means "use the default" (winz).
type OutlierStrategy string

// Outlier strategies.
const (
	OutlierWinz     OutlierStrategy = "winz"
	OutlierDelete   OutlierStrategy = "delete"
	OutlierDisabled OutlierStrategy = "disabled"
)

// EncodingPolicy selects which categorical columns get encoded and how.
// The empty string means "use the default" (auto).
type EncodingPolicy string

// Encoding policies. EncodeOneHot and EncodeLabel apply to every
// non-datetime categorical column unless Targets restricts them.
const (
	EncodeAuto     EncodingPolicy = "auto"
	EncodeOneHot   EncodingPolicy = "onehot"
	EncodeLabel    EncodingPolicy = "label"
	EncodeDisabled EncodingPolicy = "disabled"
)

// ValidNumericStrategies is the set of supported numeric strategies.
var ValidNumericStrategies = map[NumericStrategy]bool{
	NumericKNN:      true,
	NumericMean:     true,
	NumericMedian:   true,
	NumericMode:     true,
	NumericDelete:   true,
	NumericDisabled: true,
}

// ValidCategoricalStrategies is the set of supported categorical strategies.
var ValidCategoricalStrategies = map[CategoricalStrategy]bool{
	CategoricalMode:     true,
	CategoricalDelete:   true,
	CategoricalDisabled: true,
}

// ValidOutlierStrategies is the set of supported outlier strategies.
var ValidOutlierStrategies = map[OutlierStrategy]bool{
	OutlierWinz:     true,
	OutlierDelete:   true,
	OutlierDisabled: true,
}

// ValidEncodingPolicies is the set of supported encoding policies.
var ValidEncodingPolicies = map[EncodingPolicy]bool{
	EncodeAuto:     true,
	EncodeOneHot:   true,
	EncodeLabel:    true,
	EncodeDisabled: true,
}

// =============================================================================
// Granularity - Ordered Datetime Extraction Levels
// =============================================================================

// Granularity selects the finest component the datetime stage extracts.
// The ordering mirrors the extraction cascade of the derived columns:
// each level adds its own component to everything the previous level
// extracts (Day < Month < Year < Hour < Minute < Second).
type Granularity int

// Granularity levels. The zero value is "unset" and defaults to
// GranularitySecond during validation.
const (
	granularityUnset Granularity = iota
	GranularityOff
	GranularityDay
	GranularityMonth
	GranularityYear
	GranularityHour
	GranularityMinute
	GranularitySecond
)

// String returns the lower-case name of the granularity, or "" when unset.
func (g Granularity) String() string {
	switch g {
	case GranularityOff:
		return "off"
	case GranularityDay:
		return "day"
	case GranularityMonth:
		return "month"
	case GranularityYear:
		return "year"
	case GranularityHour:
		return "hour"
	case GranularityMinute:
		return "minute"
	case GranularitySecond:
		return "second"
	}
	return ""
}

// ParseGranularity interprets s as a granularity. It accepts the short
// case-sensitive forms D, M, Y, h, m, s alongside the full names; the
// empty string parses as unset (defaulted later).
func ParseGranularity(s string) (Granularity, error) {
	switch s {
	case "":
		return granularityUnset, nil
	case "D":
		return GranularityDay, nil
	case "M":
		return GranularityMonth, nil
	case "Y":
		return GranularityYear, nil
	case "h":
		return GranularityHour, nil
	case "m":
		return GranularityMinute, nil
	case "s":
		return GranularitySecond, nil
	}
	switch strings.ToLower(s) {
	case "off", "disabled", "none":
		return GranularityOff, nil
	case "day":
		return GranularityDay, nil
	case "month":
		return GranularityMonth, nil
	case "year":
		return GranularityYear, nil
	case "hour":
		return GranularityHour, nil
	case "minute":
		return GranularityMinute, nil
	case "second":
		return GranularitySecond, nil
	}
	return granularityUnset, errors.New(errors.ErrCodeInvalidOption,
		"invalid datetime granularity: %q (must be one of: off, D, M, Y, h, m, s)", s)
}

// MarshalText encodes the granularity as its name for JSON and TOML.
func (g Granularity) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

// UnmarshalText decodes a granularity name for JSON and TOML.
func (g *Granularity) UnmarshalText(text []byte) error {
	parsed, err := ParseGranularity(string(text))
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}

// =============================================================================
// Column References - Encoding Targets
// =============================================================================

// ColumnRef addresses an encoding target either by column name or by
// positional index among the dataset's non-numeric columns at encoding
// time. The JSON and TOML forms are a bare string (name) or a bare
// integer (index).
type ColumnRef struct {
	name    string
	index   int
	byIndex bool
}

// ColumnName returns a reference addressing a column by name.
func ColumnName(name string) ColumnRef {
	return ColumnRef{name: name}
}

// ColumnIndex returns a reference addressing the i-th non-numeric column.
func ColumnIndex(i int) ColumnRef {
	return ColumnRef{index: i, byIndex: true}
}

// ParseColumnRef interprets s as a positional index when it is a
// non-negative integer literal, and as a column name otherwise.
func ParseColumnRef(s string) ColumnRef {
	if i, err := strconv.Atoi(s); err == nil && i >= 0 {
		return ColumnIndex(i)
	}
	return ColumnName(s)
}

// Resolve maps the reference to one of names, reporting whether it
// resolved. Name references must match an element; index references must
// be in range.
func (r ColumnRef) Resolve(names []string) (string, bool) {
	if r.byIndex {
		if r.index < 0 || r.index >= len(names) {
			return "", false
		}
		return names[r.index], true
	}
	for _, n := range names {
		if n == r.name {
			return r.name, true
		}
	}
	return "", false
}

// String returns the name, or the decimal index for positional references.
func (r ColumnRef) String() string {
	if r.byIndex {
		return strconv.Itoa(r.index)
	}
	return r.name
}

// MarshalJSON encodes the reference as a bare string or integer.
func (r ColumnRef) MarshalJSON() ([]byte, error) {
	if r.byIndex {
		return json.Marshal(r.index)
	}
	return json.Marshal(r.name)
}

// UnmarshalJSON accepts a bare string (name) or integer (index).
func (r *ColumnRef) UnmarshalJSON(data []byte) error {
	var idx int
	if err := json.Unmarshal(data, &idx); err == nil {
		*r = ColumnIndex(idx)
		return nil
	}
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return fmt.Errorf("column reference must be a string or integer: %s", string(data))
	}
	*r = ColumnName(name)
	return nil
}

// UnmarshalTOML accepts a bare string (name) or integer (index).
func (r *ColumnRef) UnmarshalTOML(v interface{}) error {
	switch val := v.(type) {
	case string:
		*r = ColumnName(val)
	case int64:
		*r = ColumnIndex(int(val))
	default:
		return fmt.Errorf("column reference must be a string or integer, got %T", v)
	}
	return nil
}

// EncodingSpec selects the categorical encoding policy. Targets restrict
// encoding to the listed columns and require an explicit onehot or label
// policy; auto decides per column and takes no targets.
type EncodingSpec struct {
	Policy  EncodingPolicy `json:"policy,omitempty" toml:"policy"`
	Targets []ColumnRef    `json:"targets,omitempty" toml:"targets"`
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the cleaning pipeline.
// This struct supports JSON serialization for API requests and TOML for
// config files. The zero value selects the defaults: knn numeric
// imputation, mode categorical imputation, winsorized outliers, automatic
// encoding, and second-level datetime extraction.
type Options struct {
	// Missing-value options
	Numeric     NumericStrategy     `json:"numeric,omitempty" toml:"numeric"`
	Categorical CategoricalStrategy `json:"categorical,omitempty" toml:"categorical"`
	Neighbors   int                 `json:"neighbors,omitempty" toml:"neighbors"`

	// Outlier options
	Outliers      OutlierStrategy `json:"outliers,omitempty" toml:"outliers"`
	OutlierFactor float64         `json:"outlier_factor,omitempty" toml:"outlier_factor"`

	// Datetime options
	Datetime Granularity `json:"datetime,omitempty" toml:"datetime"`

	// Encoding options
	Encoding    EncodingSpec `json:"encoding,omitempty" toml:"encoding"`
	OneHotLimit int          `json:"onehot_limit,omitempty" toml:"onehot_limit"`

	// Normalization options
	RoundDecimals int `json:"round_decimals,omitempty" toml:"round_decimals"`

	// Logging options; nil booleans select the defaults (no console
	// output, overwrite-mode file log at LogFile).
	ConsoleLog *bool  `json:"console_log,omitempty" toml:"console_log"`
	FileLog    *bool  `json:"file_log,omitempty" toml:"file_log"`
	LogFile    string `json:"log_file,omitempty" toml:"log_file"`

	// Refresh bypasses the result cache for this run.
	Refresh bool `json:"refresh,omitempty" toml:"-"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-" toml:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-" toml:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Frame is the cleaned dataset.
	Frame *frame.Frame `json:"frame"`

	// RunID uniquely identifies the pipeline invocation that produced
	// this result.
	RunID string `json:"run_id"`

	// Labels holds the label-encoding mappings keyed by column name.
	Labels map[string]*LabelMapping `json:"labels,omitempty"`

	// Report describes what each stage did.
	Report Report `json:"report"`

	// CacheHit reports whether the result was served from the cache.
	CacheHit bool `json:"-"`
}

// Report describes a pipeline run stage by stage, in execution order.
type Report struct {
	Stages []StageReport `json:"stages"`
}

// StageReport records one stage's execution.
type StageReport struct {
	Stage      string        `json:"stage"`
	RowsBefore int           `json:"rows_before"`
	RowsAfter  int           `json:"rows_after"`
	Duration   time.Duration `json:"duration"`
	Outcomes   []Outcome     `json:"outcomes,omitempty"`
}

// Outcome records the per-column result of a stage. Changed counts the
// values mutated (or rows dropped for delete actions); a skip outcome
// carries the reason instead. An empty Column means the outcome applies
// to the dataset as a whole.
type Outcome struct {
	Column  string `json:"column,omitempty"`
	Action  string `json:"action"`
	Changed int    `json:"changed,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateNumericStrategy checks that a numeric strategy is valid.
func ValidateNumericStrategy(s NumericStrategy) error {
	if !ValidNumericStrategies[s] {
		return errors.New(errors.ErrCodeInvalidOption,
			"invalid numeric strategy: %q (must be one of: knn, mean, median, mode, delete, disabled)", string(s))
	}
	return nil
}

// ValidateCategoricalStrategy checks that a categorical strategy is valid.
func ValidateCategoricalStrategy(s CategoricalStrategy) error {
	if !ValidCategoricalStrategies[s] {
		return errors.New(errors.ErrCodeInvalidOption,
			"invalid categorical strategy: %q (must be one of: mode, delete, disabled)", string(s))
	}
	return nil
}

// ValidateOutlierStrategy checks that an outlier strategy is valid.
func ValidateOutlierStrategy(s OutlierStrategy) error {
	if !ValidOutlierStrategies[s] {
		return errors.New(errors.ErrCodeInvalidOption,
			"invalid outlier strategy: %q (must be one of: winz, delete, disabled)", string(s))
	}
	return nil
}

// ValidateEncodingSpec checks the policy and the policy/target combination.
func ValidateEncodingSpec(spec EncodingSpec) error {
	if !ValidEncodingPolicies[spec.Policy] {
		return errors.New(errors.ErrCodeInvalidOption,
			"invalid encoding policy: %q (must be one of: auto, onehot, label, disabled)", string(spec.Policy))
	}
	if len(spec.Targets) > 0 && spec.Policy != EncodeOneHot && spec.Policy != EncodeLabel {
		return errors.New(errors.ErrCodeInvalidOption,
			"encoding targets require the onehot or label policy, got %q", string(spec.Policy))
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks every option against its closed set and
// applies defaults. This method is idempotent - calling it multiple times
// has the same effect as calling it once. It runs before any data is
// touched, so an invalid configuration never mutates a dataset.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}

	if o.Numeric == "" {
		o.Numeric = NumericKNN
	}
	if o.Categorical == "" {
		o.Categorical = CategoricalMode
	}
	if o.Outliers == "" {
		o.Outliers = OutlierWinz
	}
	if o.Encoding.Policy == "" {
		o.Encoding.Policy = EncodeAuto
	}
	if o.Datetime == granularityUnset {
		o.Datetime = DefaultGranularity
	}
	if o.Neighbors == 0 {
		o.Neighbors = DefaultNeighbors
	}
	if o.OutlierFactor == 0 {
		o.OutlierFactor = DefaultOutlierFactor
	}
	if o.RoundDecimals == 0 {
		o.RoundDecimals = DefaultRoundDecimals
	}
	if o.OneHotLimit == 0 {
		o.OneHotLimit = DefaultOneHotLimit
	}
	if o.LogFile == "" {
		o.LogFile = DefaultLogFile
	}

	if err := ValidateNumericStrategy(o.Numeric); err != nil {
		return err
	}
	if err := ValidateCategoricalStrategy(o.Categorical); err != nil {
		return err
	}
	if err := ValidateOutlierStrategy(o.Outliers); err != nil {
		return err
	}
	if err := ValidateEncodingSpec(o.Encoding); err != nil {
		return err
	}
	if o.Datetime < GranularityOff || o.Datetime > GranularitySecond {
		return errors.New(errors.ErrCodeInvalidOption,
			"invalid datetime granularity: %d", int(o.Datetime))
	}
	if o.Neighbors < 1 {
		return errors.New(errors.ErrCodeInvalidOption,
			"invalid neighbor count: %d (must be at least 1)", o.Neighbors)
	}
	if o.OutlierFactor < 0 {
		return errors.New(errors.ErrCodeInvalidOption,
			"invalid outlier factor: %v (must be positive)", o.OutlierFactor)
	}
	if o.RoundDecimals < 0 {
		return errors.New(errors.ErrCodeInvalidOption,
			"invalid rounding precision: %d (must be positive)", o.RoundDecimals)
	}
	if o.OneHotLimit < 1 {
		return errors.New(errors.ErrCodeInvalidOption,
			"invalid one-hot limit: %d (must be at least 1)", o.OneHotLimit)
	}

	o.validated = true
	return nil
}

// categoricalFirst reports whether the categorical missing-value pass must
// run before the numeric one: a numeric delete would drop rows whose only
// gaps are categorical, so a non-deleting categorical pass fills them
// first.
func (o *Options) categoricalFirst() bool {
	return o.Categorical != CategoricalDelete && o.Numeric == NumericDelete
}

// ConsoleLogEnabled reports whether console logging was requested.
// The default is off.
func (o *Options) ConsoleLogEnabled() bool {
	return o.ConsoleLog != nil && *o.ConsoleLog
}

// FileLogEnabled reports whether file logging is active. The default is on.
func (o *Options) FileLogEnabled() bool {
	return o.FileLog == nil || *o.FileLog
}

// CleanKeyOpts returns the cache key options identifying this
// configuration. Logging and runtime fields are excluded: they do not
// affect the cleaned data.
func (o *Options) CleanKeyOpts() cache.CleanKeyOpts {
	targets := make([]string, 0, len(o.Encoding.Targets))
	for _, t := range o.Encoding.Targets {
		targets = append(targets, t.String())
	}
	return cache.CleanKeyOpts{
		Numeric:     string(o.Numeric),
		Categorical: string(o.Categorical),
		Neighbors:   o.Neighbors,
		Outliers:    string(o.Outliers),
		Factor:      o.OutlierFactor,
		Granularity: o.Datetime.String(),
		Policy:      string(o.Encoding.Policy),
		Targets:     targets,
		OneHotLimit: o.OneHotLimit,
		Decimals:    o.RoundDecimals,
	}
}
