package clean

import (
	"testing"

	"github.com/scrubdata/scrub/pkg/frame"
)

func datetimeOpts(t *testing.T, g Granularity) Options {
	t.Helper()
	opts := Options{Datetime: g}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	return opts
}

func TestExtractDatetimeFull(t *testing.T) {
	ds := mustFrame(t, frame.Strings("ts",
		"2021-03-05 10:20:30",
		"2022-07-19 23:59:58",
	))

	outcomes := extractDatetime(ds, datetimeOpts(t, GranularitySecond), discardLogger())

	// Source plus all six components.
	if got, want := ds.Width(), 7; got != want {
		t.Fatalf("width = %d, want %d", got, want)
	}
	src, _ := ds.Column("ts")
	if src.DType() != frame.TypeTime {
		t.Errorf("source dtype = %v, want %v", src.DType(), frame.TypeTime)
	}

	want := map[string][]int64{
		"Day":    {5, 19},
		"Month":  {3, 7},
		"Year":   {2021, 2022},
		"Hour":   {10, 23},
		"Minute": {20, 59},
		"Sec":    {30, 58},
	}
	for name, vals := range want {
		col, ok := ds.Column(name)
		if !ok {
			t.Errorf("missing component column %q", name)
			continue
		}
		if col.DType() != frame.TypeInt {
			t.Errorf("%s dtype = %v, want %v", name, col.DType(), frame.TypeInt)
		}
		for i, w := range vals {
			if got := col.IntAt(i); got != w {
				t.Errorf("%s[%d] = %d, want %d", name, i, got, w)
			}
		}
	}

	if len(outcomes) != 1 || outcomes[0].Action != ActionDatetime || outcomes[0].Changed != 6 {
		t.Errorf("outcomes = %+v, want one datetime extraction with 6 components", outcomes)
	}
}

func TestExtractDatetimeDateOnlyDropsTimeOfDay(t *testing.T) {
	ds := mustFrame(t, frame.Strings("d", "2021-03-05", "2022-07-19"))

	extractDatetime(ds, datetimeOpts(t, GranularitySecond), discardLogger())

	// Hour, Minute and Sec come out uniformly zero and are removed again.
	for _, name := range []string{"Hour", "Minute", "Sec"} {
		if ds.Has(name) {
			t.Errorf("column %q should have been dropped", name)
		}
	}
	for _, name := range []string{"Day", "Month", "Year"} {
		if !ds.Has(name) {
			t.Errorf("column %q should remain", name)
		}
	}
	if got, want := ds.Width(), 4; got != want {
		t.Errorf("width = %d, want %d", got, want)
	}
}

func TestExtractDatetimeGranularity(t *testing.T) {
	tests := []struct {
		g    Granularity
		want []string
	}{
		{GranularityDay, []string{"Day"}},
		{GranularityMonth, []string{"Day", "Month"}},
		{GranularityYear, []string{"Day", "Month", "Year"}},
		{GranularityHour, []string{"Day", "Month", "Year", "Hour"}},
		{GranularityMinute, []string{"Day", "Month", "Year", "Hour", "Minute"}},
	}
	for _, tt := range tests {
		t.Run(tt.g.String(), func(t *testing.T) {
			ds := mustFrame(t, frame.Strings("ts",
				"2021-03-05 10:20:30",
				"2022-07-19 23:59:58",
			))

			extractDatetime(ds, datetimeOpts(t, tt.g), discardLogger())

			if got, want := ds.Width(), 1+len(tt.want); got != want {
				t.Fatalf("width = %d, want %d", got, want)
			}
			for _, name := range tt.want {
				if !ds.Has(name) {
					t.Errorf("missing component column %q", name)
				}
			}
		})
	}
}

func TestExtractDatetimeOff(t *testing.T) {
	ds := mustFrame(t, frame.Strings("ts", "2021-03-05 10:20:30"))

	outcomes := extractDatetime(ds, datetimeOpts(t, GranularityOff), discardLogger())
	if outcomes != nil {
		t.Errorf("outcomes = %+v, want nil when off", outcomes)
	}
	if got, want := ds.Width(), 1; got != want {
		t.Errorf("width = %d, want %d", got, want)
	}
	col, _ := ds.Column("ts")
	if col.DType() != frame.TypeString {
		t.Errorf("dtype = %v, want untouched %v", col.DType(), frame.TypeString)
	}
}

func TestExtractDatetimeSkipsNonTimestamps(t *testing.T) {
	ds := mustFrame(t,
		frame.Strings("city", "oslo", "bergen"),
		frame.Strings("ts", "2021-03-05 10:20:30", "2022-07-19 23:59:58"),
	)

	outcomes := extractDatetime(ds, datetimeOpts(t, GranularityYear), discardLogger())

	city, _ := ds.Column("city")
	if city.DType() != frame.TypeString {
		t.Errorf("city dtype = %v, want untouched %v", city.DType(), frame.TypeString)
	}
	if len(outcomes) != 1 || outcomes[0].Column != "ts" {
		t.Errorf("outcomes = %+v, want one for ts only", outcomes)
	}
}

func TestExtractDatetimeMissingPropagates(t *testing.T) {
	ds := mustFrame(t, frame.Strings("ts",
		"2021-03-05 10:20:30",
		"",
		"2022-07-19 23:59:58",
	).WithMissing(1))

	extractDatetime(ds, datetimeOpts(t, GranularityYear), discardLogger())

	src, _ := ds.Column("ts")
	if !src.IsMissing(1) {
		t.Error("missing source entry should stay missing")
	}
	for _, name := range []string{"Day", "Month", "Year"} {
		col, ok := ds.Column(name)
		if !ok {
			t.Fatalf("missing component column %q", name)
		}
		if !col.IsMissing(1) {
			t.Errorf("%s[1] should be missing", name)
		}
		// A gap prevents the int cast; components stay float.
		if col.DType() != frame.TypeFloat {
			t.Errorf("%s dtype = %v, want %v", name, col.DType(), frame.TypeFloat)
		}
	}
}
