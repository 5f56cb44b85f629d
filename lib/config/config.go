// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/metajson/lib/valuebuf"
)

// EnvironmentVariable names the variable [Load] reads the config path
// from.
const EnvironmentVariable = "METAJSON_CONFIG"

// DefaultRoot is the value of ${METAJSON_ROOT} when the environment
// does not set it.
const DefaultRoot = "/etc/metajson"

// ColorMode controls syntax highlighting of JSON output.
type ColorMode string

const (
	// ColorAuto colors output only when stdout is a terminal.
	ColorAuto ColorMode = "auto"
	// ColorAlways colors output unconditionally.
	ColorAlways ColorMode = "always"
	// ColorNever disables coloring.
	ColorNever ColorMode = "never"
)

// Config is the complete metajson configuration.
type Config struct {
	// Schemas lists declaration files or glob patterns loaded when a
	// command is not given --schema-file.
	Schemas []string `yaml:"schemas"`

	// Serializer configures the type-program interpreter.
	Serializer SerializerConfig `yaml:"serializer"`

	// Output configures how JSON is printed.
	Output OutputConfig `yaml:"output"`

	// Input configures value image handling.
	Input InputConfig `yaml:"input"`
}

// SerializerConfig configures the type-program interpreter.
type SerializerConfig struct {
	// MaxDepth bounds nesting of objects and sequences.
	// Default: 64
	MaxDepth int `yaml:"max_depth"`
}

// OutputConfig configures how JSON is printed.
type OutputConfig struct {
	// Compact prints the serializer's single-line text instead of
	// indenting it.
	// Default: false
	Compact bool `yaml:"compact"`

	// Color selects syntax highlighting: auto, always, or never.
	// Default: auto
	Color ColorMode `yaml:"color"`
}

// InputConfig configures value image handling.
type InputConfig struct {
	// Compression is the payload compression "metajson pack" writes
	// when --compression is not given: none, lz4, or zstd.
	// Default: zstd
	Compression string `yaml:"compression"`
}

// Default returns the configuration used before any file is applied.
func Default() *Config {
	return &Config{
		Serializer: SerializerConfig{MaxDepth: 64},
		Output:     OutputConfig{Color: ColorAuto},
		Input:      InputConfig{Compression: valuebuf.CompressionZstd.String()},
	}
}

// Load loads configuration from the file named by METAJSON_CONFIG.
// Unlike the flag path, an unset variable is an error: callers that
// can run without a file check the variable first.
func Load() (*Config, error) {
	path := os.Getenv(EnvironmentVariable)
	if path == "" {
		return nil, fmt.Errorf("%s environment variable not set; "+
			"set it to the path of your metajson.yaml, or use --config", EnvironmentVariable)
	}
	return LoadFile(path)
}

// LoadFile loads configuration from path on top of [Default], expands
// variables in schema paths, and validates the result.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}
	cfg.expandVariables()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// loadFile merges a YAML file into c. Unknown keys are rejected.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// expandVariables expands ${VAR} and ${VAR:-default} in schema paths.
func (c *Config) expandVariables() {
	root := os.Getenv("METAJSON_ROOT")
	if root == "" {
		root = DefaultRoot
	}
	vars := map[string]string{
		"METAJSON_ROOT": root,
		"HOME":          os.Getenv("HOME"),
	}
	for i, pattern := range c.Schemas {
		c.Schemas[i] = expandVars(pattern, vars)
	}
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandVars replaces ${NAME} and ${NAME:-default}. Known vars win over
// the environment; empty values fall through to the default.
func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		name, fallback := parts[1], parts[2]
		if value := vars[name]; value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return fallback
	})
}

// Validate checks the configuration and reports every problem at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Serializer.MaxDepth < 1 {
		errs = append(errs, fmt.Errorf("serializer.max_depth must be at least 1, got %d", c.Serializer.MaxDepth))
	}

	switch c.Output.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		errs = append(errs, fmt.Errorf("output.color must be one of auto, always, never; got %q", c.Output.Color))
	}

	if _, err := valuebuf.ParseCompression(c.Input.Compression); err != nil {
		errs = append(errs, fmt.Errorf("input.compression: %w", err))
	}

	for i, pattern := range c.Schemas {
		if pattern == "" {
			errs = append(errs, fmt.Errorf("schemas[%d] is empty", i))
		}
	}

	return errors.Join(errs...)
}
