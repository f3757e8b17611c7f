package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ScalarKind tags the variant held by a Scalar.
type ScalarKind int

const (
	KindInvalid ScalarKind = iota
	KindString
	KindNumber
	KindBool
)

func (k ScalarKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	default:
		return "invalid"
	}
}

// Scalar is a parameter value: exactly one of string, number or boolean.
// The zero value is invalid and refuses to serialize.
type Scalar struct {
	kind ScalarKind
	str  string
	num  float64
	b    bool
}

var decimalPattern = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// String creates a string Scalar.
func String(v string) Scalar { return Scalar{kind: KindString, str: v} }

// Number creates a numeric Scalar.
func Number(v float64) Scalar { return Scalar{kind: KindNumber, num: v} }

// Bool creates a boolean Scalar.
func Bool(v bool) Scalar { return Scalar{kind: KindBool, b: v} }

// ParseScalar coerces command text into a Scalar.
// "true"/"false" (any case) become booleans, signed decimals become numbers,
// everything else is kept as a string.
func ParseScalar(text string) Scalar {
	text = strings.TrimSpace(text)
	switch strings.ToLower(text) {
	case "true":
		return Bool(true)
	case "false":
		return Bool(false)
	}
	if decimalPattern.MatchString(text) {
		if f, err := strconv.ParseFloat(text, 64); err == nil {
			return Number(f)
		}
	}
	return String(text)
}

// ScalarOf converts a decoded JSON value into a Scalar.
func ScalarOf(v any) (Scalar, error) {
	switch val := v.(type) {
	case Scalar:
		if !val.Valid() {
			return Scalar{}, fmt.Errorf("scalar: empty value")
		}
		return val, nil
	case string:
		return String(val), nil
	case bool:
		return Bool(val), nil
	case float64:
		return Number(val), nil
	case float32:
		return Number(float64(val)), nil
	case int:
		return Number(float64(val)), nil
	case int64:
		return Number(float64(val)), nil
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return Scalar{}, fmt.Errorf("scalar: %w", err)
		}
		return Number(f), nil
	default:
		return Scalar{}, fmt.Errorf("scalar: expected string, number or boolean, got %T", v)
	}
}

func (s Scalar) Kind() ScalarKind { return s.kind }

func (s Scalar) Valid() bool { return s.kind != KindInvalid }

func (s Scalar) AsString() (string, bool) { return s.str, s.kind == KindString }

func (s Scalar) AsNumber() (float64, bool) { return s.num, s.kind == KindNumber }

func (s Scalar) AsBool() (bool, bool) { return s.b, s.kind == KindBool }

// Value returns the held variant as a plain Go value (string, float64 or bool).
func (s Scalar) Value() any {
	switch s.kind {
	case KindString:
		return s.str
	case KindNumber:
		return s.num
	case KindBool:
		return s.b
	default:
		return nil
	}
}

func (s Scalar) String() string {
	switch s.kind {
	case KindString:
		return s.str
	case KindNumber:
		return strconv.FormatFloat(s.num, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(s.b)
	default:
		return "<invalid>"
	}
}

// MarshalJSON encodes the held variant.
func (s Scalar) MarshalJSON() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("scalar: empty value")
	}
	return json.Marshal(s.Value())
}

// UnmarshalJSON accepts only strings, numbers and booleans.
func (s *Scalar) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	v, err := ScalarOf(raw)
	if err != nil {
		return err
	}
	*s = v
	return nil
}
