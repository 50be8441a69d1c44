// Package config loads streakr's settings from an optional YAML file,
// layered over defaults and an environment override for the vault path.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds configuration for the application.
type Config struct {
	// VaultDir is the directory holding habit documents.
	VaultDir string `yaml:"vault_dir"`
	// FlagField is the header field that marks a document as a habit.
	FlagField string `yaml:"flag_field"`
	// DeriveCount ignores stored count overrides and always derives the
	// total from the history.
	DeriveCount bool `yaml:"derive_count"`
	// DailyLog appends a checklist line to a per-day log document every
	// time a habit is marked done.
	DailyLog bool `yaml:"daily_log"`
	// LogFolder is where daily log documents live, relative to the vault.
	LogFolder string `yaml:"log_folder"`
	// RolloverSeconds is the clock-check interval for day rollover.
	RolloverSeconds int `yaml:"rollover_seconds"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}

	vaultDir := os.Getenv("STREAKR_VAULT")
	if vaultDir == "" {
		vaultDir = filepath.Join(home, "streakr")
	}

	return &Config{
		VaultDir:        vaultDir,
		FlagField:       "habit",
		DailyLog:        true,
		LogFolder:       "Logs",
		RolloverSeconds: 60,
	}
}

// Load reads the YAML config file at path over the defaults. A missing file
// is not an error; the defaults (and the STREAKR_VAULT override) apply.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if v := os.Getenv("STREAKR_VAULT"); v != "" {
		cfg.VaultDir = v
	}
	if cfg.FlagField == "" {
		cfg.FlagField = "habit"
	}
	if cfg.RolloverSeconds <= 0 {
		cfg.RolloverSeconds = 60
	}
	return cfg, nil
}

// DefaultPath returns ~/.config/streakr/config.yml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "streakr", "config.yml"), nil
}

// TestConfig returns a configuration for testing.
func TestConfig(testDir string) *Config {
	return &Config{
		VaultDir:        filepath.Join(testDir, "vault"),
		FlagField:       "habit",
		DailyLog:        true,
		LogFolder:       "Logs",
		RolloverSeconds: 60,
	}
}

// RolloverInterval returns the rollover check interval as a duration.
func (c *Config) RolloverInterval() time.Duration {
	return time.Duration(c.RolloverSeconds) * time.Second
}
