package process

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// SimulatorConfig describes one external simulator executable.
type SimulatorConfig struct {
	Name        string            `yaml:"name" json:"name" mapstructure:"name"`
	Command     string            `yaml:"command" json:"command" mapstructure:"command"`
	Args        []string          `yaml:"args" json:"args" mapstructure:"args"`
	Environment map[string]string `yaml:"env" json:"env" mapstructure:"env"`
	Description string            `yaml:"description" json:"description" mapstructure:"description"`
	// Timeout bounds a single run, e.g. "90s". Empty means no limit beyond the caller's context.
	Timeout string `yaml:"timeout" json:"timeout" mapstructure:"timeout"`
}

// ConfigFile represents the structure of simulators.yaml.
type ConfigFile struct {
	// Default names the simulator used for run commands; the first entry when empty.
	Default    string            `yaml:"default" json:"default" mapstructure:"default"`
	Simulators []SimulatorConfig `yaml:"simulators" json:"simulators" mapstructure:"simulators"`
}

// timeout parses the configured run limit.
func (c SimulatorConfig) timeout() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("simulator %s: invalid timeout %q: %w", c.Name, c.Timeout, err)
	}
	return d, nil
}

// LoadConfig reads a simulator configuration file (YAML or JSON by extension).
// A missing file yields an empty configuration.
func LoadConfig(path string) (ConfigFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ConfigFile{}, nil
		}
		return ConfigFile{}, fmt.Errorf("failed to read simulator config: %w", err)
	}

	var raw map[string]any
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		err = json.Unmarshal(data, &raw)
	} else {
		err = yaml.Unmarshal(data, &raw)
	}
	if err != nil {
		return ConfigFile{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	cfg, err := decodeConfig(raw)
	if err != nil {
		return ConfigFile{}, fmt.Errorf("invalid simulator config %s: %w", path, err)
	}

	seen := make(map[string]bool)
	kept := cfg.Simulators[:0]
	for _, sim := range cfg.Simulators {
		if sim.Name == "" || sim.Command == "" {
			continue
		}
		if seen[sim.Name] {
			return ConfigFile{}, fmt.Errorf("simulator %q defined twice in %s", sim.Name, path)
		}
		if _, err := sim.timeout(); err != nil {
			return ConfigFile{}, err
		}
		seen[sim.Name] = true
		kept = append(kept, sim)
	}
	cfg.Simulators = kept

	if cfg.Default != "" && !seen[cfg.Default] {
		return ConfigFile{}, fmt.Errorf("default simulator %q is not defined in %s", cfg.Default, path)
	}
	return cfg, nil
}

// decodeConfig maps the parsed document onto ConfigFile. Unknown keys are
// rejected and scalar env values (numbers, booleans) are accepted as strings.
func decodeConfig(raw map[string]any) (ConfigFile, error) {
	var cfg ConfigFile
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return ConfigFile{}, err
	}
	if err := dec.Decode(raw); err != nil {
		return ConfigFile{}, err
	}
	return cfg, nil
}
