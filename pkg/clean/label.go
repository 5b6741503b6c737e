package clean

// LabelMapping is the bijection produced by label encoding one column:
// each distinct observed category maps to a small integer code assigned in
// order of first appearance. Missing values take no code; they stay
// missing in the encoded column.
type LabelMapping struct {
	// Values lists the categories in code order, so Values[code] decodes
	// a code back to its category.
	Values []string `json:"values"`

	// Codes maps each category to its code.
	Codes map[string]int `json:"codes"`
}

// newLabelMapping creates an empty mapping.
func newLabelMapping() *LabelMapping {
	return &LabelMapping{Codes: make(map[string]int)}
}

// code returns the code for value, assigning the next free one on first
// encounter.
func (m *LabelMapping) code(value string) int {
	if c, ok := m.Codes[value]; ok {
		return c
	}
	c := len(m.Values)
	m.Values = append(m.Values, value)
	m.Codes[value] = c
	return c
}

// Len returns the number of distinct categories.
func (m *LabelMapping) Len() int { return len(m.Values) }

// Code returns the code assigned to value and whether it was observed.
func (m *LabelMapping) Code(value string) (int, bool) {
	c, ok := m.Codes[value]
	return c, ok
}

// Decode returns the category for code and whether the code is in range.
func (m *LabelMapping) Decode(code int) (string, bool) {
	if code < 0 || code >= len(m.Values) {
		return "", false
	}
	return m.Values[code], true
}
