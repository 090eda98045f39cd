package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ValueKind discriminates the scalar kinds a form value may carry.
type ValueKind int

const (
	ValueAbsent ValueKind = iota
	ValueString
	ValueInt
	ValueBool
)

// FieldValue is the value applied to a form control: exactly one of string,
// integer or boolean. The zero value is absent and never passes validation.
type FieldValue struct {
	kind ValueKind
	str  string
	num  int64
	b    bool
}

func StringValue(s string) FieldValue { return FieldValue{kind: ValueString, str: s} }

func IntValue(n int64) FieldValue { return FieldValue{kind: ValueInt, num: n} }

func BoolValue(b bool) FieldValue { return FieldValue{kind: ValueBool, b: b} }

// ValueOf converts a scalar decoded from YAML or JSON into a FieldValue.
// Integral floats are accepted because encoding/json has no integer type;
// anything else is rejected.
func ValueOf(v any) (FieldValue, error) {
	switch x := v.(type) {
	case nil:
		return FieldValue{}, ErrValueRequired
	case string:
		return StringValue(x), nil
	case bool:
		return BoolValue(x), nil
	case int:
		return IntValue(int64(x)), nil
	case int64:
		return IntValue(x), nil
	case uint64:
		if x > math.MaxInt64 {
			return FieldValue{}, fmt.Errorf("%w: %d overflows", ErrInvalidValueType, x)
		}
		return IntValue(int64(x)), nil
	case json.Number:
		n, err := x.Int64()
		if err != nil {
			return FieldValue{}, fmt.Errorf("%w: %s", ErrInvalidValueType, x.String())
		}
		return IntValue(n), nil
	case float64:
		if math.Trunc(x) != x || math.IsInf(x, 0) {
			return FieldValue{}, fmt.Errorf("%w: %v", ErrInvalidValueType, x)
		}
		return IntValue(int64(x)), nil
	default:
		return FieldValue{}, fmt.Errorf("%w: %T", ErrInvalidValueType, v)
	}
}

func (v FieldValue) Kind() ValueKind { return v.kind }

func (v FieldValue) IsBool() bool { return v.kind == ValueBool }

// Text returns the string form applied to input, textarea and select fields.
// Integers coerce to their decimal form.
func (v FieldValue) Text() string {
	switch v.kind {
	case ValueString:
		return v.str
	case ValueInt:
		return strconv.FormatInt(v.num, 10)
	case ValueBool:
		return strconv.FormatBool(v.b)
	default:
		return ""
	}
}

// Bool returns the checked state applied to checkbox and radio fields.
func (v FieldValue) Bool() (bool, error) {
	switch v.kind {
	case ValueBool:
		return v.b, nil
	case ValueInt:
		return v.num != 0, nil
	case ValueString:
		b, err := strconv.ParseBool(v.str)
		if err != nil {
			return false, fmt.Errorf("%w: %q is not a boolean", ErrInvalidValueType, v.str)
		}
		return b, nil
	default:
		return false, ErrValueRequired
	}
}

func (v FieldValue) scalar() any {
	switch v.kind {
	case ValueString:
		return v.str
	case ValueInt:
		return v.num
	case ValueBool:
		return v.b
	default:
		return nil
	}
}

// MarshalYAML emits the native scalar so a saved document reproduces the
// original kind (42 stays an integer, not "42").
func (v FieldValue) MarshalYAML() (any, error) {
	if v.kind == ValueAbsent {
		return nil, ErrValueRequired
	}
	return v.scalar(), nil
}

func (v *FieldValue) UnmarshalYAML(node *yaml.Node) error {
	var raw any
	if err := node.Decode(&raw); err != nil {
		return err
	}
	parsed, err := ValueOf(raw)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

func (v FieldValue) MarshalJSON() ([]byte, error) {
	if v.kind == ValueAbsent {
		return nil, ErrValueRequired
	}
	return json.Marshal(v.scalar())
}

func (v *FieldValue) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	parsed, err := ValueOf(raw)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
