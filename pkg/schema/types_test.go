package schema

import (
	"fmt"
	"testing"

	"github.com/aretw0/nls/pkg/domain"
)

func TestBuiltinTypes(t *testing.T) {
	tests := []struct {
		typ     Type
		name    string
		value   domain.Scalar
		wantErr bool
	}{
		{String(), "string", domain.String("hello"), false},
		{String(), "string", domain.String(""), false},
		{String(), "string", domain.Number(42), true},
		{Int(), "int", domain.Number(3), false},
		{Int(), "int", domain.Number(3.5), true},
		{Int(), "int", domain.String("3"), true},
		{Float(), "float", domain.Number(3.5), false},
		{Float(), "float", domain.Bool(true), true},
		{Bool(), "bool", domain.Bool(false), false},
		{Bool(), "bool", domain.String("true"), true},
		{Scalar(), "scalar", domain.String("x"), false},
		{Scalar(), "scalar", domain.Scalar{}, true},
	}

	for _, tt := range tests {
		if tt.typ.Name() != tt.name {
			t.Errorf("Name() = %q, want %q", tt.typ.Name(), tt.name)
		}
		err := tt.typ.Validate(tt.value)
		if (err != nil) != tt.wantErr {
			t.Errorf("%s.Validate(%v) error = %v, wantErr %v", tt.name, tt.value, err, tt.wantErr)
		}
	}
}

func TestEnumType(t *testing.T) {
	typ := Enum("batch", "fed-batch")

	if typ.Name() != "enum(batch|fed-batch)" {
		t.Errorf("Name() = %q", typ.Name())
	}
	if err := typ.Validate(domain.String("fed-batch")); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := typ.Validate(domain.String("perfusion")); err == nil {
		t.Error("expected error for value outside the enum")
	}
	if err := typ.Validate(domain.Number(1)); err == nil {
		t.Error("expected error for non-string value")
	}
}

func TestCustomType(t *testing.T) {
	fraction := Custom("fraction", func(v domain.Scalar) error {
		n, ok := v.AsNumber()
		if !ok || n < 0 || n > 1 {
			return fmt.Errorf("must be a number in [0, 1]")
		}
		return nil
	})

	if fraction.Name() != "fraction" {
		t.Errorf("Name() = %q, want fraction", fraction.Name())
	}
	if err := fraction.Validate(domain.Number(0.5)); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := fraction.Validate(domain.Number(1.5)); err == nil {
		t.Error("expected error for 1.5")
	}
}

func TestParseType(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"string", "string", false},
		{"int", "int", false},
		{"integer", "int", false},
		{"float", "float", false},
		{"number", "float", false},
		{"Bool", "bool", false},
		{"", "scalar", false},
		{"enum(a|b)", "enum(a|b)", false},
		{"enum( a | b )", "enum(a|b)", false},
		{"[string]", "", true},
		{"date", "", true},
	}

	for _, tt := range tests {
		got, err := ParseType(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseType(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if err == nil && got.Name() != tt.want {
			t.Errorf("ParseType(%q).Name() = %q, want %q", tt.input, got.Name(), tt.want)
		}
	}
}

func TestParseTypeMap(t *testing.T) {
	s, err := ParseTypeMap(map[string]string{"target_pH": "float", "cycles": "int"})
	if err != nil {
		t.Fatalf("ParseTypeMap() error = %v", err)
	}
	if s["target_pH"].Name() != "float" || s["cycles"].Name() != "int" {
		t.Errorf("unexpected schema: %v", s)
	}

	if _, err := ParseTypeMap(map[string]string{"bad": "matrix"}); err == nil {
		t.Error("expected error for unsupported type")
	}
}
