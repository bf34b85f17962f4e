// Package config loads the tool configuration from a YAML file layered
// over built-in defaults.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds every tunable the pipeline and CLI read.
type Config struct {
	// Tolerance is the vertex-merge tolerance in model units.
	Tolerance float64 `yaml:"tolerance"`

	// Extract configures surface extraction.
	Extract ExtractConfig `yaml:"extract"`

	// Smooth configures the default Laplacian smoothing pass.
	Smooth SmoothConfig `yaml:"smooth"`

	// AccelThreshold is the triangle count at which containment queries
	// switch to the bounding-sphere structure.
	AccelThreshold int `yaml:"accel_threshold"`

	// Log configures logging.
	Log LogConfig `yaml:"log"`
}

// ExtractConfig controls rasterization resolution.
type ExtractConfig struct {
	// Cells along the longest axis when voxelizing a solid.
	Cells int `yaml:"cells"`
}

// SmoothConfig controls the Laplacian smoothing defaults.
type SmoothConfig struct {
	Iterations int     `yaml:"iterations"`
	Rate       float64 `yaml:"rate"`
}

// LogConfig controls logging output.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Tolerance: 1e-4,
		Extract: ExtractConfig{
			Cells: 64,
		},
		Smooth: SmoothConfig{
			Iterations: 3,
			Rate:       0.5,
		},
		AccelThreshold: 100,
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads a YAML config file over the defaults. An empty path returns
// the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Tolerance <= 0 {
		return fmt.Errorf("tolerance must be positive, got %g", c.Tolerance)
	}
	if c.Extract.Cells < 1 {
		return fmt.Errorf("extract.cells must be at least 1, got %d", c.Extract.Cells)
	}
	if c.Smooth.Iterations < 0 {
		return fmt.Errorf("smooth.iterations must not be negative, got %d", c.Smooth.Iterations)
	}
	if c.Smooth.Rate < 0 || c.Smooth.Rate > 1 {
		return fmt.Errorf("smooth.rate must be in [0,1], got %g", c.Smooth.Rate)
	}
	return nil
}
