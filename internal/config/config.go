// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads and validates aiexport configuration.
//
// Configuration comes from a TOML file at ~/.aiexport/config.toml merged
// with environment variables; environment always wins. The API credential
// is env-only by convention (ABACUS_API_KEY) but may be stored in the file
// for convenience.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Environment variable names recognized at startup.
const (
	EnvAPIKey       = "ABACUS_API_KEY"
	EnvDeploymentID = "ABACUS_DEPLOYMENT_ID"
	EnvOutputDir    = "AIEXPORT_OUT_DIR"
)

// Config holds all aiexport settings.
type Config struct {
	// APIKey is the Abacus.AI credential. Required for every command that
	// touches the platform.
	APIKey string `toml:"api_key"`

	// DeploymentID is the default deployment for conversation-scoped
	// commands when --deployment is not given.
	DeploymentID string `toml:"deployment_id"`

	// OutputDir is the base directory for export artifacts.
	OutputDir string `toml:"output_dir"`

	// ActivityLog is the path of the cumulative PDF-processing log.
	ActivityLog string `toml:"activity_log"`

	// CatalogPath is the path of the local export-history database.
	CatalogPath string `toml:"catalog_path"`

	// RequestsPerSecond caps outbound API request rate.
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// ValidationError describes one invalid configuration field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

// ConfigDir returns the aiexport configuration directory (~/.aiexport).
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine home directory: %w", err)
	}
	return filepath.Join(home, ".aiexport"), nil
}

// ConfigPath returns the path of the TOML configuration file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Default returns the built-in defaults.
func Default() *Config {
	return &Config{
		OutputDir:         "exports",
		ActivityLog:       "processing_log.json",
		RequestsPerSecond: 4,
	}
}

// Load reads the config file (if present), applies environment overrides,
// and fills defaults. A missing file is not an error; a malformed one is.
func Load() (*Config, error) {
	cfg := Default()

	path, err := ConfigPath()
	if err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			if _, decErr := toml.DecodeFile(path, cfg); decErr != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", path, decErr)
			}
		}
	}

	cfg.ApplyEnvOverrides()
	cfg.fillDefaults()
	return cfg, nil
}

// ApplyEnvOverrides applies environment variables over file values.
func (c *Config) ApplyEnvOverrides() {
	if v := strings.TrimSpace(os.Getenv(EnvAPIKey)); v != "" {
		c.APIKey = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvDeploymentID)); v != "" {
		c.DeploymentID = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvOutputDir)); v != "" {
		c.OutputDir = v
	}
}

func (c *Config) fillDefaults() {
	def := Default()
	if c.OutputDir == "" {
		c.OutputDir = def.OutputDir
	}
	if c.ActivityLog == "" {
		c.ActivityLog = def.ActivityLog
	}
	if c.RequestsPerSecond <= 0 {
		c.RequestsPerSecond = def.RequestsPerSecond
	}
	if c.CatalogPath == "" {
		if dir, err := ConfigDir(); err == nil {
			c.CatalogPath = filepath.Join(dir, "history.db")
		}
	}
}

// ValidateCredential checks that the API key is present. This is the fatal
// configuration check commands run before any network activity.
func (c *Config) ValidateCredential() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return &ValidationError{
			Field:  "api_key",
			Reason: fmt.Sprintf("missing credential; set the %s environment variable", EnvAPIKey),
		}
	}
	return nil
}

// ValidateDeployment checks that a deployment id is available for
// deployment-scoped commands.
func (c *Config) ValidateDeployment() error {
	if strings.TrimSpace(c.DeploymentID) == "" {
		return &ValidationError{
			Field:  "deployment_id",
			Reason: fmt.Sprintf("missing deployment id; pass --deployment or set %s", EnvDeploymentID),
		}
	}
	return nil
}

// SaveTOML writes the configuration to the config file with restrictive
// permissions (the file may hold the credential).
func (c *Config) SaveTOML() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var sb strings.Builder
	if err := toml.NewEncoder(&sb).Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, []byte(sb.String()), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
