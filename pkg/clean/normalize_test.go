package clean

import (
	"testing"

	"github.com/scrubdata/scrub/pkg/frame"
)

func TestNormalizeCastsIntegralFloats(t *testing.T) {
	ds := mustFrame(t, frame.Floats("v", 1, 2, 3))
	opts := Options{}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("validate: %v", err)
	}

	outcomes := normalizeTypes(ds, opts, discardLogger())

	col, _ := ds.Column("v")
	if col.DType() != frame.TypeInt {
		t.Fatalf("dtype = %v, want %v", col.DType(), frame.TypeInt)
	}
	if len(outcomes) != 1 || outcomes[0].Action != ActionCastInt {
		t.Errorf("outcomes = %+v, want one int cast", outcomes)
	}
}

func TestNormalizeRoundsFractional(t *testing.T) {
	ds := mustFrame(t, frame.Floats("v", 1.234, 2.567, 3.141592))
	opts := Options{}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("validate: %v", err)
	}

	outcomes := normalizeTypes(ds, opts, discardLogger())

	col, _ := ds.Column("v")
	want := []float64{1.23, 2.57, 3.14}
	for i, w := range want {
		if got := col.FloatAt(i); got != w {
			t.Errorf("v[%d] = %v, want %v", i, got, w)
		}
	}
	if len(outcomes) != 1 || outcomes[0].Action != ActionRound || outcomes[0].Changed != 3 {
		t.Errorf("outcomes = %+v, want one round with 3 changes", outcomes)
	}
}

func TestNormalizeRoundingPrecision(t *testing.T) {
	ds := mustFrame(t, frame.Floats("v", 1.23456))
	opts := Options{RoundDecimals: 4}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("validate: %v", err)
	}

	normalizeTypes(ds, opts, discardLogger())

	col, _ := ds.Column("v")
	if got, want := col.FloatAt(0), 1.2346; got != want {
		t.Errorf("v[0] = %v, want %v", got, want)
	}
}

func TestNormalizeKeepsMissingIntegral(t *testing.T) {
	// A gap has no int representation; the column stays float and the
	// missing entry survives.
	ds := mustFrame(t, frame.Floats("v", 1, 0, 3).WithMissing(1))
	opts := Options{}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("validate: %v", err)
	}

	outcomes := normalizeTypes(ds, opts, discardLogger())

	col, _ := ds.Column("v")
	if col.DType() != frame.TypeFloat {
		t.Errorf("dtype = %v, want %v", col.DType(), frame.TypeFloat)
	}
	if !col.IsMissing(1) {
		t.Error("missing entry should survive normalization")
	}
	if len(outcomes) != 0 {
		t.Errorf("outcomes = %+v, want none", outcomes)
	}
}

func TestNormalizeSkipsNonNumeric(t *testing.T) {
	ds := mustFrame(t, frame.Strings("s", "a", "b"))
	opts := Options{}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("validate: %v", err)
	}

	if out := normalizeTypes(ds, opts, discardLogger()); len(out) != 0 {
		t.Errorf("outcomes = %+v, want none", out)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	ds := mustFrame(t,
		frame.Floats("a", 1.234, 5.678),
		frame.Floats("b", 1, 2),
	)
	opts := Options{}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("validate: %v", err)
	}

	normalizeTypes(ds, opts, discardLogger())
	second := normalizeTypes(ds, opts, discardLogger())

	if len(second) != 0 {
		t.Errorf("second pass outcomes = %+v, want none", second)
	}
}
