// Package config provides configuration loading and management for segmentation3d.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"

	"segmentation3d/pkg/ellipsoid"
)

// Output formats supported by the report writer
const (
	FormatYAML = "yaml"
	FormatText = "text"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Fitting parameters
	Fitting struct {
		// Gamma weights the data-fit term of the Douglas-Rachford iteration
		Gamma float64 `yaml:"gamma"`

		// Iterations is the fixed number of Douglas-Rachford iterations
		Iterations int `yaml:"iterations"`

		// MinPoints is the minimum number of distinct points accepted for a fit
		MinPoints int `yaml:"minPoints"`

		// CoincidenceTolerance is the distance under which points are merged
		// when counting distinct points
		CoincidenceTolerance float64 `yaml:"coincidenceTolerance"`
	} `yaml:"fitting"`

	// Processing parameters
	Processing struct {
		// NumCores specifies how many point sets are fitted in parallel
		NumCores int `yaml:"numCores"`
	} `yaml:"processing"`

	// Output parameters
	Output struct {
		// Verbose enables debug logging
		Verbose bool `yaml:"verbose"`

		// Format is the report format, "yaml" or "text"
		Format string `yaml:"format"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	params := ellipsoid.DefaultParams()
	cfg.Fitting.Gamma = params.Gamma
	cfg.Fitting.Iterations = params.Iterations
	cfg.Fitting.MinPoints = params.MinPoints
	cfg.Fitting.CoincidenceTolerance = params.CoincidenceTolerance

	cfg.Processing.NumCores = runtime.NumCPU() // Use all available cores by default

	cfg.Output.Verbose = false
	cfg.Output.Format = FormatText

	return cfg
}

// FitParams converts the fitting section into solver parameters
// The result is validated by ellipsoid.NewFitter, or up front by Validate
func (c *Config) FitParams() ellipsoid.Params {
	return ellipsoid.Params{
		Gamma:                c.Fitting.Gamma,
		Iterations:           c.Fitting.Iterations,
		MinPoints:            c.Fitting.MinPoints,
		CoincidenceTolerance: c.Fitting.CoincidenceTolerance,
	}
}

// Validate checks the configuration values
// Errors from the fitting section wrap ellipsoid.ErrInvalidParams
func (c *Config) Validate() error {
	if err := c.FitParams().Validate(); err != nil {
		return fmt.Errorf("invalid fitting section: %w", err)
	}
	if c.Processing.NumCores < 1 {
		return fmt.Errorf("numCores must be positive, got %d", c.Processing.NumCores)
	}
	switch c.Output.Format {
	case FormatYAML, FormatText:
	default:
		return fmt.Errorf("unknown output format %q", c.Output.Format)
	}
	return nil
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration.
// Keys missing from the file keep their default values.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(configPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return cfg, nil
	case err != nil:
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Decode over the defaults
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file %s: %w", configPath, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
// Missing parent directories are created
func SaveConfig(cfg *Config, configPath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	// Marshal config to YAML
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	// Write to file
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
// An existing file is overwritten; callers decide whether that is allowed
func CreateDefaultConfigFile(configPath string) error {
	return SaveConfig(DefaultConfig(), configPath)
}
