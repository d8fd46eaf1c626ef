package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ValueKind is the type carried by a metadata Value.
type ValueKind uint8

const (
	// StringKind is a UTF-8 string.
	StringKind ValueKind = iota + 1
	// IntKind is a signed 64-bit integer.
	IntKind
	// FloatKind is a finite 64-bit float.
	FloatKind
)

// String returns the kind name.
func (k ValueKind) String() string {
	switch k {
	case StringKind:
		return "string"
	case IntKind:
		return "int"
	case FloatKind:
		return "float"
	default:
		return "invalid"
	}
}

// Value is a license metadata value: a string, an integer or a finite float.
//
// Value is comparable, so it can be held in an immutable.Map. The zero Value is
// invalid and never produced by the constructors.
type Value struct {
	kind ValueKind
	s    string
	i    int64
	f    float64
}

// StringValue returns a string Value.
func StringValue(s string) Value {
	return Value{kind: StringKind, s: s}
}

// IntValue returns an integer Value.
func IntValue(i int64) Value {
	return Value{kind: IntKind, i: i}
}

// FloatValue returns a float Value. NaN and infinities are rejected.
func FloatValue(f float64) (Value, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Value{}, fmt.Errorf("%w: %v", ErrInvalidMetadataValue, f)
	}
	return Value{kind: FloatKind, f: f}, nil
}

// Kind returns the type of the value.
func (v Value) Kind() ValueKind { return v.kind }

// IsValid reports whether v was produced by a constructor.
func (v Value) IsValid() bool { return v.kind >= StringKind && v.kind <= FloatKind }

// AsString returns the string and true for a StringKind value.
func (v Value) AsString() (string, bool) { return v.s, v.kind == StringKind }

// AsInt returns the integer and true for an IntKind value.
func (v Value) AsInt() (int64, bool) { return v.i, v.kind == IntKind }

// AsFloat returns the float and true for a FloatKind value.
func (v Value) AsFloat() (float64, bool) { return v.f, v.kind == FloatKind }

// Interface returns the value as a string, int64 or float64.
func (v Value) Interface() any {
	switch v.kind {
	case StringKind:
		return v.s
	case IntKind:
		return v.i
	case FloatKind:
		return v.f
	default:
		return nil
	}
}

// String formats the value for display.
func (v Value) String() string {
	switch v.kind {
	case StringKind:
		return v.s
	case IntKind:
		return strconv.FormatInt(v.i, 10)
	case FloatKind:
		return formatFloat(v.f)
	default:
		return "<invalid>"
	}
}

// MarshalJSON encodes strings as JSON strings and numbers as JSON numbers. Floats
// always carry a fraction or exponent so that they decode back as floats.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case StringKind:
		return json.Marshal(v.s)
	case IntKind:
		return strconv.AppendInt(nil, v.i, 10), nil
	case FloatKind:
		return []byte(formatFloat(v.f)), nil
	default:
		return nil, ErrInvalidMetadataValue
	}
}

// UnmarshalJSON decodes a JSON string or number. Numbers written without a fraction
// or exponent become integers.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return ErrInvalidMetadataValue
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidMetadataValue, err)
		}
		*v = StringValue(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("%w: must be a string or a number", ErrInvalidMetadataValue)
	}
	if !bytes.ContainsAny(data, ".eE") {
		i, err := n.Int64()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidMetadataValue, err)
		}
		*v = IntValue(i)
		return nil
	}
	f, err := n.Float64()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidMetadataValue, err)
	}
	fv, err := FloatValue(f)
	if err != nil {
		return err
	}
	*v = fv
	return nil
}

func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
