package grammar

import (
	"errors"
	"strings"
	"testing"
)

func TestSanitize_SizeLimit(t *testing.T) {
	limit := DefaultMaxCommandSize

	tests := []struct {
		name      string
		inputSize int
		wantErr   bool
	}{
		{"Under Limit", limit - 1, false},
		{"Exact Limit", limit, false},
		{"Over Limit", limit + 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Sanitize(strings.Repeat("a", tt.inputSize))
			if tt.wantErr && !errors.Is(err, ErrCommandTooLarge) {
				t.Errorf("Sanitize() expected ErrCommandTooLarge for size %d, got %v", tt.inputSize, err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Sanitize() unexpected error: %v", err)
			}
		})
	}
}

func TestSanitize_EnvOverride(t *testing.T) {
	t.Setenv(EnvMaxCommandSize, "8")

	if _, err := Sanitize("remove a"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := Sanitize("remove ab"); !errors.Is(err, ErrCommandTooLarge) {
		t.Errorf("expected ErrCommandTooLarge, got %v", err)
	}
}

func TestSanitize_ControlChars(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Normal Text", "remove dsp04", "remove dsp04"},
		{"Safe Controls", "set a=1\tb", "set a=1\tb"},
		{"ANSI Code", "\x1b[31mremove\x1b[0m x", "[31mremove[0m x"},
		{"Null Byte", "remove\x00 x", "remove x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Sanitize(tt.input)
			if err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestSanitize_InvalidUTF8(t *testing.T) {
	if _, err := Sanitize("remove \xff"); !errors.Is(err, ErrInvalidUTF8) {
		t.Errorf("expected ErrInvalidUTF8, got %v", err)
	}
}
