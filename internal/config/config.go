// Package config loads build configuration by layering defaults, an optional
// YAML file, and environment variables.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// InputDir is one source directory of game CSVs with its default time control.
type InputDir struct {
	Path        string `koanf:"path"`
	TimeControl string `koanf:"time_control"`
}

// Config holds process configuration for a build run.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFormat selects the slog handler: text or json.
	LogFormat string `koanf:"log_format"`

	// DBPath is the SQLite archive location.
	DBPath string `koanf:"db_path"`
	// OutputDir receives the JSON datasets, fully overwritten each run.
	OutputDir string `koanf:"output_dir"`

	// DefaultTimeControl applies to input dirs that don't name one.
	DefaultTimeControl string `koanf:"default_time_control"`
	// UseOptimizer enables the iterative rating optimizer (closed form is
	// always the fallback).
	UseOptimizer bool `koanf:"use_optimizer"`

	// Inputs are the source directories scanned by the build command.
	Inputs []InputDir `koanf:"inputs"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LogLevel:           "info",
		LogFormat:          "text",
		DBPath:             "chessmetrics.db",
		OutputDir:          "data",
		DefaultTimeControl: "classical",
	}
}

// Load builds a Config by layering, low to high precedence:
//  1. defaults (Default())
//  2. YAML file: explicit path argument, else $CHESSMETRICS_CONFIG if set
//  3. environment variables with prefix CHESSMETRICS_
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path == "" {
		path = os.Getenv("CHESSMETRICS_CONFIG")
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	envProvider := env.Provider("CHESSMETRICS_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "chessmetrics_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := *Default()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.DefaultTimeControl {
	case "classical", "rapid", "blitz":
	default:
		return fmt.Errorf("invalid default_time_control %q", c.DefaultTimeControl)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log_format %q", c.LogFormat)
	}
	for _, in := range c.Inputs {
		if in.Path == "" {
			return fmt.Errorf("input dir with empty path")
		}
		switch in.TimeControl {
		case "", "classical", "rapid", "blitz":
		default:
			return fmt.Errorf("input %s: invalid time_control %q", in.Path, in.TimeControl)
		}
	}
	return nil
}
