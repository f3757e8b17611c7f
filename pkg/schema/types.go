package schema

import (
	"fmt"
	"math"
	"strings"

	"github.com/aretw0/nls/pkg/domain"
)

// Type defines the contract for parameter value validation.
type Type interface {
	// Name returns the human-readable name of the type (e.g., "string", "int").
	Name() string
	// Validate checks if a value conforms to this type.
	Validate(value domain.Scalar) error
}

// --- Built-in Type Implementations ---

// ScalarType accepts any valid scalar.
type ScalarType struct{}

func (t *ScalarType) Name() string { return "scalar" }

func (t *ScalarType) Validate(value domain.Scalar) error {
	if !value.Valid() {
		return fmt.Errorf("expected string, number or bool, got empty value")
	}
	return nil
}

// StringType validates string values.
type StringType struct{}

func (t *StringType) Name() string { return "string" }

func (t *StringType) Validate(value domain.Scalar) error {
	if _, ok := value.AsString(); !ok {
		return fmt.Errorf("expected string, got %s", value.Kind())
	}
	return nil
}

// IntType validates whole numbers.
type IntType struct{}

func (t *IntType) Name() string { return "int" }

func (t *IntType) Validate(value domain.Scalar) error {
	n, ok := value.AsNumber()
	if !ok {
		return fmt.Errorf("expected int, got %s", value.Kind())
	}
	if n != math.Trunc(n) {
		return fmt.Errorf("expected int, got float (not a whole number)")
	}
	return nil
}

// FloatType validates numeric values.
type FloatType struct{}

func (t *FloatType) Name() string { return "float" }

func (t *FloatType) Validate(value domain.Scalar) error {
	if _, ok := value.AsNumber(); !ok {
		return fmt.Errorf("expected float, got %s", value.Kind())
	}
	return nil
}

// BoolType validates boolean values.
type BoolType struct{}

func (t *BoolType) Name() string { return "bool" }

func (t *BoolType) Validate(value domain.Scalar) error {
	if _, ok := value.AsBool(); !ok {
		return fmt.Errorf("expected bool, got %s", value.Kind())
	}
	return nil
}

// EnumType accepts a fixed set of strings.
type EnumType struct {
	values []string
}

func (t *EnumType) Name() string {
	return fmt.Sprintf("enum(%s)", strings.Join(t.values, "|"))
}

func (t *EnumType) Validate(value domain.Scalar) error {
	s, ok := value.AsString()
	if !ok {
		return fmt.Errorf("expected one of %v, got %s", t.values, value.Kind())
	}
	for _, v := range t.values {
		if v == s {
			return nil
		}
	}
	return fmt.Errorf("expected one of %v, got %q", t.values, s)
}

// CustomType applies a user-defined validation function.
type CustomType struct {
	name     string
	validate func(domain.Scalar) error
}

func (t *CustomType) Name() string { return t.name }

func (t *CustomType) Validate(value domain.Scalar) error {
	return t.validate(value)
}

// --- Factory Functions ---

// Scalar creates a validator that accepts any scalar variant.
func Scalar() Type { return &ScalarType{} }

// String creates a string type validator.
func String() Type { return &StringType{} }

// Int creates an integer type validator.
func Int() Type { return &IntType{} }

// Float creates a float type validator.
func Float() Type { return &FloatType{} }

// Bool creates a boolean type validator.
func Bool() Type { return &BoolType{} }

// Enum creates a validator for a closed set of strings.
func Enum(values ...string) Type { return &EnumType{values: values} }

// Custom creates a custom type validator with a user-defined function.
func Custom(name string, validate func(domain.Scalar) error) Type {
	return &CustomType{name: name, validate: validate}
}

// ParseType converts a declared parameter type to a Type.
// Supports "string", "int", "float" (alias "number"), "bool", "scalar" (or empty)
// and "enum(a|b|c)".
func ParseType(typeStr string) (Type, error) {
	typeStr = strings.TrimSpace(typeStr)
	if inner, ok := strings.CutPrefix(typeStr, "enum("); ok && strings.HasSuffix(inner, ")") {
		values := strings.Split(strings.TrimSuffix(inner, ")"), "|")
		for i := range values {
			values[i] = strings.TrimSpace(values[i])
		}
		return Enum(values...), nil
	}

	switch strings.ToLower(typeStr) {
	case "", "scalar", "any":
		return Scalar(), nil
	case "string":
		return String(), nil
	case "int", "integer":
		return Int(), nil
	case "float", "number":
		return Float(), nil
	case "bool", "boolean":
		return Bool(), nil
	default:
		return nil, fmt.Errorf("unsupported type: %s", typeStr)
	}
}

// ParseTypeMap converts a map of parameter keys to type strings into a Schema.
// Example: {"target_pH": "float", "cycles": "int"}
func ParseTypeMap(typeMap map[string]string) (Schema, error) {
	result := make(Schema)
	for key, typeStr := range typeMap {
		t, err := ParseType(typeStr)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", key, err)
		}
		result[key] = t
	}
	return result, nil
}
