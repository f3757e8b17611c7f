// Package scenariofile reads and writes Scenario documents for the CLI.
// The format follows the file extension: .yaml/.yml for YAML, anything else is JSON.
package scenariofile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/nls/pkg/domain"
)

// Format is a document encoding.
type Format int

const (
	JSON Format = iota
	YAML
)

// FormatOf picks the format from a path's extension.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML
	default:
		return JSON
	}
}

// Read loads a Scenario from path. An empty path yields an empty Scenario.
func Read(path string) (domain.Scenario, error) {
	if path == "" {
		return domain.Scenario{}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return domain.Scenario{}, fmt.Errorf("open scenario: %w", err)
	}
	defer f.Close()

	s, err := Decode(f, FormatOf(path))
	if err != nil {
		return domain.Scenario{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Write stores s at path, creating or truncating it.
func Write(path string, s domain.Scenario) error {
	var buf bytes.Buffer
	if err := Encode(&buf, s, FormatOf(path)); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// Decode reads one Scenario document. YAML is converted to JSON first so both
// formats go through the same Scalar validation.
func Decode(r io.Reader, format Format) (domain.Scenario, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return domain.Scenario{}, fmt.Errorf("read scenario: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return domain.Scenario{}, nil
	}

	if format == YAML {
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return domain.Scenario{}, fmt.Errorf("parse yaml: %w", err)
		}
		if data, err = json.Marshal(doc); err != nil {
			return domain.Scenario{}, fmt.Errorf("convert yaml: %w", err)
		}
	}

	var s domain.Scenario
	if err := json.Unmarshal(data, &s); err != nil {
		return domain.Scenario{}, fmt.Errorf("decode scenario: %w", err)
	}
	return s, nil
}

// Encode writes s in the given format. JSON output is indented.
func Encode(w io.Writer, s domain.Scenario, format Format) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encode scenario: %w", err)
	}
	if format == JSON {
		_, err = w.Write(append(data, '\n'))
		return err
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("encode scenario: %w", err)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}
