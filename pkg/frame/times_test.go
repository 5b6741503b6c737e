package frame

import (
	"testing"
	"time"
)

func TestParseTimes(t *testing.T) {
	tests := []struct {
		name   string
		col    *Column
		wantOK bool
	}{
		{
			name:   "ISODates",
			col:    Strings("d", "2021-01-02", "2021-03-04"),
			wantOK: true,
		},
		{
			name:   "ISODatetimes",
			col:    Strings("d", "2021-01-02 10:30:00", "2021-03-04 11:00:00"),
			wantOK: true,
		},
		{
			name:   "RFC3339",
			col:    Strings("d", "2021-01-02T10:30:00Z"),
			wantOK: true,
		},
		{
			name:   "SlashDates",
			col:    Strings("d", "2021/01/02", "2021/03/04"),
			wantOK: true,
		},
		{
			name:   "DottedEuropean",
			col:    Strings("d", "02.01.2021"),
			wantOK: true,
		},
		{
			name:   "MixedLayouts",
			col:    Strings("d", "2021-01-02", "2021/03/04 10:00:00"),
			wantOK: true,
		},
		{
			name:   "MissingEntriesAllowed",
			col:    Strings("d", "2021-01-02", "").WithMissing(1),
			wantOK: true,
		},
		{
			name:   "PlainText",
			col:    Strings("d", "berlin", "paris"),
			wantOK: false,
		},
		{
			name:   "OneBadValue",
			col:    Strings("d", "2021-01-02", "not a date"),
			wantOK: false,
		},
		{
			name:   "EmptyStringNotMissing",
			col:    Strings("d", "2021-01-02", ""),
			wantOK: false,
		},
		{
			name:   "NumericColumn",
			col:    Floats("d", 20210102),
			wantOK: false,
		},
		{
			name:   "TimeColumn",
			col:    Times("d", time.Now()),
			wantOK: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, ok := ParseTimes(tt.col)
			if ok != tt.wantOK {
				t.Errorf("ParseTimes ok = %v, want %v", ok, tt.wantOK)
			}
		})
	}
}

func TestParseTimes_Components(t *testing.T) {
	col := Strings("ts", "2021-06-01 14:30:45", "2020-12-31 23:59:59")
	times, valid, ok := ParseTimes(col)
	if !ok {
		t.Fatal("ParseTimes ok = false, want true")
	}
	if !valid[0] || !valid[1] {
		t.Fatal("valid mask should be all true")
	}
	if got, want := times[0].Hour(), 14; got != want {
		t.Errorf("times[0].Hour = %d, want %d", got, want)
	}
	if got, want := times[1].Second(), 59; got != want {
		t.Errorf("times[1].Second = %d, want %d", got, want)
	}
	if got, want := times[1].Year(), 2020; got != want {
		t.Errorf("times[1].Year = %d, want %d", got, want)
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		col  *Column
		want Kind
	}{
		{"Float", Floats("a", 1.5), KindNumeric},
		{"Int", Ints("a", 1), KindNumeric},
		{"Text", Strings("a", "x"), KindCategorical},
		{"DateText", Strings("a", "2021-01-02"), KindDatetime},
		{"Time", Times("a", time.Now()), KindDatetime},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.col); got != tt.want {
				t.Errorf("KindOf = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestKindOf_Uncached(t *testing.T) {
	// The classification must track the column's current content: once a
	// text column is replaced by numeric codes, it stops being categorical.
	f, err := New(Strings("label", "a", "b"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got, want := KindOf(f.ColumnAt(0)), KindCategorical; got != want {
		t.Fatalf("KindOf before = %v, want %v", got, want)
	}

	if err := f.SetColumn(Ints("label", 0, 1)); err != nil {
		t.Fatalf("SetColumn: %v", err)
	}
	if got, want := KindOf(f.ColumnAt(0)), KindNumeric; got != want {
		t.Errorf("KindOf after = %v, want %v", got, want)
	}
}
