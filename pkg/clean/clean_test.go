package clean

import (
	"encoding/json"
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/scrubdata/scrub/pkg/errors"
)

// discardLogger returns a logger for tests that keeps output quiet.
func discardLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func TestValidateAndSetDefaults(t *testing.T) {
	var opts Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("zero options should validate: %v", err)
	}

	// The zero value selects the documented defaults.
	if opts.Numeric != NumericKNN {
		t.Errorf("Numeric = %q, want %q", opts.Numeric, NumericKNN)
	}
	if opts.Categorical != CategoricalMode {
		t.Errorf("Categorical = %q, want %q", opts.Categorical, CategoricalMode)
	}
	if opts.Outliers != OutlierWinz {
		t.Errorf("Outliers = %q, want %q", opts.Outliers, OutlierWinz)
	}
	if opts.Encoding.Policy != EncodeAuto {
		t.Errorf("Encoding.Policy = %q, want %q", opts.Encoding.Policy, EncodeAuto)
	}
	if opts.Datetime != GranularitySecond {
		t.Errorf("Datetime = %v, want %v", opts.Datetime, GranularitySecond)
	}
	if opts.Neighbors != DefaultNeighbors {
		t.Errorf("Neighbors = %d, want %d", opts.Neighbors, DefaultNeighbors)
	}
	if opts.OutlierFactor != DefaultOutlierFactor {
		t.Errorf("OutlierFactor = %v, want %v", opts.OutlierFactor, DefaultOutlierFactor)
	}
	if opts.RoundDecimals != DefaultRoundDecimals {
		t.Errorf("RoundDecimals = %d, want %d", opts.RoundDecimals, DefaultRoundDecimals)
	}
	if opts.OneHotLimit != DefaultOneHotLimit {
		t.Errorf("OneHotLimit = %d, want %d", opts.OneHotLimit, DefaultOneHotLimit)
	}
	if opts.LogFile != DefaultLogFile {
		t.Errorf("LogFile = %q, want %q", opts.LogFile, DefaultLogFile)
	}
	if opts.ConsoleLogEnabled() {
		t.Error("console logging should default to off")
	}
	if !opts.FileLogEnabled() {
		t.Error("file logging should default to on")
	}
}

func TestValidateAndSetDefaults_Invalid(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"bad numeric strategy", Options{Numeric: "drop"}},
		{"bad categorical strategy", Options{Categorical: "mean"}},
		{"bad outlier strategy", Options{Outliers: "clamp"}},
		{"bad encoding policy", Options{Encoding: EncodingSpec{Policy: "binary"}}},
		{"targets with auto policy", Options{Encoding: EncodingSpec{Policy: EncodeAuto, Targets: []ColumnRef{ColumnName("x")}}}},
		{"targets with disabled policy", Options{Encoding: EncodingSpec{Policy: EncodeDisabled, Targets: []ColumnRef{ColumnIndex(0)}}}},
		{"negative neighbors", Options{Neighbors: -1}},
		{"negative outlier factor", Options{OutlierFactor: -1.5}},
		{"negative rounding", Options{RoundDecimals: -2}},
		{"negative onehot limit", Options{OneHotLimit: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.Is(err, errors.ErrCodeInvalidOption) {
				t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidOption)
			}
		})
	}
}

func TestParseGranularity(t *testing.T) {
	tests := []struct {
		in   string
		want Granularity
	}{
		{"", granularityUnset},
		{"D", GranularityDay},
		{"M", GranularityMonth},
		{"Y", GranularityYear},
		{"h", GranularityHour},
		{"m", GranularityMinute},
		{"s", GranularitySecond},
		{"day", GranularityDay},
		{"second", GranularitySecond},
		{"off", GranularityOff},
		{"disabled", GranularityOff},
	}
	for _, tt := range tests {
		got, err := ParseGranularity(tt.in)
		if err != nil {
			t.Errorf("ParseGranularity(%q) error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseGranularity(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if _, err := ParseGranularity("x"); err == nil {
		t.Error("ParseGranularity(\"x\") should fail")
	}
}

func TestGranularityOrdering(t *testing.T) {
	// The extraction cascade depends on this strict ordering.
	order := []Granularity{
		GranularityDay, GranularityMonth, GranularityYear,
		GranularityHour, GranularityMinute, GranularitySecond,
	}
	for i := 1; i < len(order); i++ {
		if order[i-1] >= order[i] {
			t.Errorf("%v should order before %v", order[i-1], order[i])
		}
	}
}

func TestColumnRef(t *testing.T) {
	names := []string{"city", "country", "joined"}

	// By name
	if got, ok := ColumnName("country").Resolve(names); !ok || got != "country" {
		t.Errorf("Resolve by name = %q, %v", got, ok)
	}
	if _, ok := ColumnName("missing").Resolve(names); ok {
		t.Error("unknown name should not resolve")
	}

	// By index among non-numeric columns
	if got, ok := ColumnIndex(2).Resolve(names); !ok || got != "joined" {
		t.Errorf("Resolve by index = %q, %v", got, ok)
	}
	if _, ok := ColumnIndex(3).Resolve(names); ok {
		t.Error("out-of-range index should not resolve")
	}

	// ParseColumnRef treats integer literals as indexes
	if got, ok := ParseColumnRef("1").Resolve(names); !ok || got != "country" {
		t.Errorf("ParseColumnRef(\"1\") resolved to %q, %v", got, ok)
	}
	if got, ok := ParseColumnRef("city").Resolve(names); !ok || got != "city" {
		t.Errorf("ParseColumnRef(\"city\") resolved to %q, %v", got, ok)
	}
}

func TestColumnRefJSON(t *testing.T) {
	// A bare string decodes as a name, a bare integer as an index.
	var spec EncodingSpec
	input := []byte(`{"policy":"onehot","targets":["city",1]}`)
	if err := json.Unmarshal(input, &spec); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(spec.Targets) != 2 {
		t.Fatalf("targets = %d, want 2", len(spec.Targets))
	}
	if spec.Targets[0].String() != "city" || spec.Targets[1].String() != "1" {
		t.Errorf("targets = %v, %v", spec.Targets[0], spec.Targets[1])
	}

	// Round trip
	out, err := json.Marshal(spec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var again EncodingSpec
	if err := json.Unmarshal(out, &again); err != nil {
		t.Fatalf("re-unmarshal: %v", err)
	}
	if again.Targets[1].String() != "1" {
		t.Errorf("round-tripped index target = %v", again.Targets[1])
	}
}

func TestCategoricalFirst(t *testing.T) {
	tests := []struct {
		numeric     NumericStrategy
		categorical CategoricalStrategy
		want        bool
	}{
		{NumericDelete, CategoricalMode, true},
		{NumericDelete, CategoricalDisabled, true},
		{NumericDelete, CategoricalDelete, false},
		{NumericKNN, CategoricalMode, false},
		{NumericMean, CategoricalDelete, false},
	}
	for _, tt := range tests {
		opts := Options{Numeric: tt.numeric, Categorical: tt.categorical}
		if got := opts.categoricalFirst(); got != tt.want {
			t.Errorf("categoricalFirst(%s, %s) = %v, want %v", tt.numeric, tt.categorical, got, tt.want)
		}
	}
}

func TestCleanKeyOpts(t *testing.T) {
	opts := Options{
		Encoding: EncodingSpec{Policy: EncodeLabel, Targets: []ColumnRef{ColumnName("city"), ColumnIndex(2)}},
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	key := opts.CleanKeyOpts()
	if key.Numeric != string(NumericKNN) {
		t.Errorf("key.Numeric = %q", key.Numeric)
	}
	if len(key.Targets) != 2 || key.Targets[0] != "city" || key.Targets[1] != "2" {
		t.Errorf("key.Targets = %v", key.Targets)
	}
}
