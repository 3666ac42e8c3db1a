package datanorm

import (
	"bytes"
	"encoding/json"
)

// FlexFloat is a JSON scalar that tolerates the backend's loose typing:
// the same column may hold a number, a numeric string, or null depending
// on how the row was written. Valid distinguishes an explicit value
// (including "0") from null or an absent field, which is what lets the
// channel aggregator skip never-populated rows while still counting
// explicit zeros.
type FlexFloat struct {
	Float64 float64
	Valid   bool
}

// UnmarshalJSON never fails: unparseable values coerce to a valid 0,
// null stays invalid. An absent field leaves the zero value (invalid).
func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		f.Float64, f.Valid = 0, false
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		f.Float64, f.Valid = 0, true
		return nil
	}
	f.Float64, f.Valid = ToSafeNumber(v), true
	return nil
}

// MarshalJSON renders null for invalid values so round-trips preserve
// the distinction.
func (f FlexFloat) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(f.Float64)
}
