// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"fmt"
	"os"
)

// Loader assembles the effective configuration from defaults, an optional
// YAML file and RELAYD_* environment overrides, in that precedence order
// (ENV wins).
type Loader struct {
	filePath string
}

// NewLoader creates a Loader. filePath may be empty to skip file loading.
func NewLoader(filePath string) *Loader {
	return &Loader{filePath: filePath}
}

// Load builds and validates the configuration.
func (l *Loader) Load() (*Config, error) {
	cfg := defaults()

	if l.filePath != "" {
		if _, err := os.Stat(l.filePath); err != nil {
			return nil, fmt.Errorf("config file %s: %w", l.filePath, err)
		}
		fc, err := loadFile(l.filePath)
		if err != nil {
			return nil, err
		}
		if err := mergeFile(&cfg, fc); err != nil {
			return nil, fmt.Errorf("config file %s: %w", l.filePath, err)
		}
	}

	mergeEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}
