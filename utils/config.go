package utils

import (
	"bytes"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Toggle switches a single analysis on or off.
type Toggle struct {
	Enabled bool `yaml:"enabled"`
}

// Config is the contents of the file given with -config.
type Config struct {
	DelegateParameters Toggle `yaml:"delegate_parameters"`
	ConstantFields     Toggle `yaml:"constant_fields"`
	// Include and Exclude are internal class name prefixes. An empty Include
	// selects every class; Exclude wins over Include.
	Include  []string `yaml:"include,omitempty"`
	Exclude  []string `yaml:"exclude,omitempty"`
	MaxSteps int      `yaml:"max_steps,omitempty"`
}

// DefaultConfig enables every analysis on every class.
func DefaultConfig() Config {
	return Config{
		DelegateParameters: Toggle{Enabled: true},
		ConstantFields:     Toggle{Enabled: true},
	}
}

// ParseConfig decodes a YAML configuration. Keys missing from the document
// keep their default value; unknown keys are rejected.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return Config{}, errors.Wrap(err, "invalid configuration")
	}
	if cfg.MaxSteps < 0 {
		return Config{}, errors.Errorf("invalid configuration: max_steps must not be negative, got %d", cfg.MaxSteps)
	}
	return cfg, nil
}

func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "reading configuration")
	}
	cfg, err := ParseConfig(data)
	return cfg, errors.Wrap(err, path)
}

// Includes reports whether the class with the given internal name is
// selected by the include and exclude prefixes.
func (c Config) Includes(class string) bool {
	for _, p := range c.Exclude {
		if strings.HasPrefix(class, p) {
			return false
		}
	}
	if len(c.Include) == 0 {
		return true
	}
	for _, p := range c.Include {
		if strings.HasPrefix(class, p) {
			return true
		}
	}
	return false
}
