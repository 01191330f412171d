package dataset

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadConfig reads a build configuration from a YAML file, filling
// unset fields from defaults. Example:
//
//	window_len: 12
//	horizon: 3
//	split_fraction: 0.8
//	label_layout: symbol-major
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %w", err)
	}

	if cfg.WindowLen <= 0 {
		return cfg, fmt.Errorf("config: window_len must be positive, got %d", cfg.WindowLen)
	}
	if cfg.Horizon <= 0 {
		return cfg, fmt.Errorf("config: horizon must be positive, got %d", cfg.Horizon)
	}
	if cfg.SplitFraction <= 0 || cfg.SplitFraction >= 1 {
		return cfg, fmt.Errorf("config: split_fraction must be in (0,1), got %g", cfg.SplitFraction)
	}
	return cfg, nil
}
