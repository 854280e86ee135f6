package wire

import (
	"encoding/json"
	"fmt"
)

// MetaKind identifies the scalar variant held by a MetaValue
type MetaKind uint8

const (
	// MetaNumber holds a float64
	MetaNumber MetaKind = iota + 1
	// MetaString holds a string
	MetaString
	// MetaBool holds a bool
	MetaBool
)

// MetaValue is one scalar metadata leaf: a number, a string or a bool.
// Measurements carry an open key-to-scalar map rather than an unconstrained
// dynamic structure; nested objects and arrays are rejected on decode.
type MetaValue struct {
	kind MetaKind
	num  float64
	str  string
	b    bool
}

// Metadata is the open metadata map attached to a measurement
type Metadata map[string]MetaValue

// Num creates a numeric metadata value
func Num(v float64) MetaValue { return MetaValue{kind: MetaNumber, num: v} }

// Str creates a string metadata value
func Str(v string) MetaValue { return MetaValue{kind: MetaString, str: v} }

// Bool creates a boolean metadata value
func Bool(v bool) MetaValue { return MetaValue{kind: MetaBool, b: v} }

// Kind returns the scalar variant held by the value
func (v MetaValue) Kind() MetaKind { return v.kind }

// Number returns the numeric variant and whether the value holds one
func (v MetaValue) Number() (float64, bool) { return v.num, v.kind == MetaNumber }

// String returns the string variant, or a formatted rendering of the
// other variants for logging.
func (v MetaValue) String() string {
	switch v.kind {
	case MetaNumber:
		return fmt.Sprintf("%g", v.num)
	case MetaBool:
		return fmt.Sprintf("%t", v.b)
	default:
		return v.str
	}
}

// Text returns the string variant and whether the value holds one
func (v MetaValue) Text() (string, bool) { return v.str, v.kind == MetaString }

// Flag returns the boolean variant and whether the value holds one
func (v MetaValue) Flag() (bool, bool) { return v.b, v.kind == MetaBool }

// MarshalJSON renders the value as its bare scalar
func (v MetaValue) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case MetaNumber:
		return json.Marshal(v.num)
	case MetaString:
		return json.Marshal(v.str)
	case MetaBool:
		return json.Marshal(v.b)
	default:
		return nil, fmt.Errorf("metadata value has no variant set")
	}
}

// UnmarshalJSON accepts a bare scalar and rejects everything else
func (v *MetaValue) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to decode metadata value: %w", err)
	}

	switch val := raw.(type) {
	case float64:
		*v = Num(val)
	case string:
		*v = Str(val)
	case bool:
		*v = Bool(val)
	default:
		return fmt.Errorf("metadata value must be a scalar, got %T", raw)
	}

	return nil
}
