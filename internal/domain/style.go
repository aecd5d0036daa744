package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
)

type ValueKind string

const (
	ValueNumber ValueKind = "number"
	ValueString ValueKind = "string"
	ValueBool   ValueKind = "bool"
)

// StyleValue is a closed variant over the value kinds a style option can hold.
// The zero value is an empty string.
type StyleValue struct {
	kind ValueKind
	num  float64
	str  string
	flag bool
}

func NumberValue(v float64) StyleValue { return StyleValue{kind: ValueNumber, num: v} }
func StringValue(v string) StyleValue  { return StyleValue{kind: ValueString, str: v} }
func BoolValue(v bool) StyleValue      { return StyleValue{kind: ValueBool, flag: v} }

func (v StyleValue) Kind() ValueKind {
	if v.kind == "" {
		return ValueString
	}
	return v.kind
}

// Number returns the numeric value. String values holding a number are
// accepted too, since many presets store numbers as strings ("15").
func (v StyleValue) Number() (float64, bool) {
	switch v.Kind() {
	case ValueNumber:
		return v.num, true
	case ValueString:
		f, err := strconv.ParseFloat(v.str, 64)
		return f, err == nil
	}
	return 0, false
}

func (v StyleValue) Text() (string, bool) {
	if v.Kind() != ValueString {
		return "", false
	}
	return v.str, true
}

func (v StyleValue) Bool() (bool, bool) {
	switch v.Kind() {
	case ValueBool:
		return v.flag, true
	case ValueString:
		b, err := strconv.ParseBool(v.str)
		return b, err == nil
	}
	return false, false
}

// String formats the value for display in generated text.
func (v StyleValue) String() string {
	switch v.Kind() {
	case ValueNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case ValueBool:
		return strconv.FormatBool(v.flag)
	}
	return v.str
}

func (v StyleValue) MarshalJSON() ([]byte, error) {
	switch v.Kind() {
	case ValueNumber:
		return json.Marshal(v.num)
	case ValueBool:
		return json.Marshal(v.flag)
	}
	return json.Marshal(v.str)
}

func (v *StyleValue) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch t := raw.(type) {
	case float64:
		*v = NumberValue(t)
	case string:
		*v = StringValue(t)
	case bool:
		*v = BoolValue(t)
	default:
		return fmt.Errorf("style value: unsupported JSON type %T: %w", raw, ErrInvalidInput)
	}
	return nil
}

// StyleParams is the per-instance option bag. The canvas engine never looks
// inside it; the catalog and export packages do.
type StyleParams map[string]StyleValue

func (p StyleParams) Clone() StyleParams {
	if p == nil {
		return nil
	}
	out := make(StyleParams, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Merge returns a new bag with the entries of over layered on top of p.
func (p StyleParams) Merge(over StyleParams) StyleParams {
	out := make(StyleParams, len(p)+len(over))
	for k, v := range p {
		out[k] = v
	}
	for k, v := range over {
		out[k] = v
	}
	return out
}

// Get returns the value for key, or the zero StyleValue.
func (p StyleParams) Get(key string) StyleValue {
	return p[key]
}
