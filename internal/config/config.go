// Package config provides functions for loading and saving auto-merger configuration files.
package config

import (
	"fmt"
	"os"

	"github.com/phracek/auto-merger/cmd"
	"gopkg.in/yaml.v3"
)

// LoadConfig loads the configuration from the specified file
func LoadConfig(filename string) (*cmd.Config, error) {
	data, err := os.ReadFile(filename) //nolint:gosec // Config filename is from command-line flag
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config cmd.Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", filename, err)
	}

	return &config, nil
}

// validate checks the fields the checker cannot run without
func validate(config *cmd.Config) error {
	if config.Namespace == "" {
		return fmt.Errorf("namespace must be set")
	}
	if len(config.Repos) == 0 {
		return fmt.Errorf("at least one repository must be listed in repos")
	}
	if config.Approvals < 0 {
		return fmt.Errorf("approvals must not be negative")
	}
	return nil
}

// SaveConfig saves the configuration to the specified file
func SaveConfig(filename string, config *cmd.Config) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
