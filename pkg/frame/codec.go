package frame

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"
)

// =============================================================================
// Frame Serialization API
// =============================================================================

// MarshalFrame converts a frame to JSON bytes. Output is deterministic for
// a given frame, so it can feed content hashing.
func MarshalFrame(f *Frame) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeFrameTo(f, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFrameFile writes a frame to a JSON file.
// The file is created with 0644 permissions.
func WriteFrameFile(f *Frame, path string) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer out.Close()
	return writeFrameTo(f, out)
}

// WriteFrame writes a frame as JSON to an io.Writer.
// Use MarshalFrame for in-memory serialization or WriteFrameFile for files.
func WriteFrame(f *Frame, w io.Writer) error {
	return writeFrameTo(f, w)
}

// ReadFrameFile reads a JSON file and returns the decoded frame.
func ReadFrameFile(path string) (*Frame, error) {
	in, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer in.Close()
	return readFrameFrom(in)
}

// ReadFrame decodes a JSON frame from an io.Reader.
// Use ReadFrameFile for files or pass bytes.NewReader for in-memory data.
func ReadFrame(r io.Reader) (*Frame, error) {
	return readFrameFrom(r)
}

// =============================================================================
// Internal Implementation
// =============================================================================

// The wire format stores every value as a string so that NaN missing
// markers survive JSON, which cannot represent them as numbers. Floats use
// strconv's shortest round-trip form, timestamps RFC 3339 with
// nanoseconds; missing entries hold "" and are listed in "missing".
type frameWire struct {
	Columns []columnWire `json:"columns"`
}

type columnWire struct {
	Name    string   `json:"name"`
	DType   string   `json:"dtype"`
	Values  []string `json:"values"`
	Missing []int    `json:"missing,omitempty"`
}

var dtypeFromString = map[string]DType{
	"float":  TypeFloat,
	"int":    TypeInt,
	"string": TypeString,
	"time":   TypeTime,
}

// MarshalJSON implements json.Marshaler using the wire format.
func (f *Frame) MarshalJSON() ([]byte, error) {
	return json.Marshal(toWire(f))
}

// UnmarshalJSON implements json.Unmarshaler for the wire format.
func (f *Frame) UnmarshalJSON(data []byte) error {
	var wire frameWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	decoded, err := fromWire(wire)
	if err != nil {
		return err
	}
	*f = *decoded
	return nil
}

func writeFrameTo(f *Frame, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(toWire(f)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func readFrameFrom(r io.Reader) (*Frame, error) {
	var wire frameWire
	if err := json.NewDecoder(r).Decode(&wire); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return fromWire(wire)
}

func toWire(f *Frame) frameWire {
	wire := frameWire{Columns: make([]columnWire, 0, f.Width())}
	for _, c := range f.Columns() {
		wc := columnWire{
			Name:   c.Name(),
			DType:  c.DType().String(),
			Values: make([]string, c.Len()),
		}
		for i := 0; i < c.Len(); i++ {
			if c.IsMissing(i) {
				wc.Missing = append(wc.Missing, i)
				continue
			}
			switch c.DType() {
			case TypeFloat:
				wc.Values[i] = strconv.FormatFloat(c.FloatAt(i), 'g', -1, 64)
			case TypeInt:
				wc.Values[i] = strconv.FormatInt(c.IntAt(i), 10)
			case TypeString:
				wc.Values[i] = c.StringAt(i)
			case TypeTime:
				wc.Values[i] = c.TimeAt(i).Format(time.RFC3339Nano)
			}
		}
		wire.Columns = append(wire.Columns, wc)
	}
	return wire
}

func fromWire(wire frameWire) (*Frame, error) {
	cols := make([]*Column, 0, len(wire.Columns))
	for _, wc := range wire.Columns {
		dtype, ok := dtypeFromString[wc.DType]
		if !ok {
			return nil, fmt.Errorf("column %q: unknown dtype %q", wc.Name, wc.DType)
		}
		col, err := decodeColumn(wc, dtype)
		if err != nil {
			return nil, err
		}
		cols = append(cols, col)
	}
	return New(cols...)
}

func decodeColumn(wc columnWire, dtype DType) (*Column, error) {
	missing := make(map[int]bool, len(wc.Missing))
	for _, i := range wc.Missing {
		if i < 0 || i >= len(wc.Values) {
			return nil, fmt.Errorf("column %q: missing index %d out of range", wc.Name, i)
		}
		missing[i] = true
	}

	var col *Column
	switch dtype {
	case TypeFloat, TypeInt:
		vals := make([]float64, len(wc.Values))
		integral := dtype == TypeInt
		for i, s := range wc.Values {
			if missing[i] {
				continue
			}
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("column %q row %d: %w", wc.Name, i, err)
			}
			vals[i] = v
		}
		col = Floats(wc.Name, vals...)
		for i := range missing {
			col.SetMissing(i)
		}
		if integral && len(missing) == 0 {
			col.CastInt()
		}
	case TypeString:
		col = Strings(wc.Name, wc.Values...)
		for i := range missing {
			col.SetMissing(i)
		}
	case TypeTime:
		vals := make([]time.Time, len(wc.Values))
		for i, s := range wc.Values {
			if missing[i] {
				continue
			}
			t, err := time.Parse(time.RFC3339Nano, s)
			if err != nil {
				return nil, fmt.Errorf("column %q row %d: %w", wc.Name, i, err)
			}
			vals[i] = t
		}
		col = Times(wc.Name, vals...)
		for i := range missing {
			col.SetMissing(i)
		}
	}
	return col, nil
}
