// Package config loads and persists the mediashelf configuration and the
// per-chat browsing sessions.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"
)

// Version is the config schema version written by this build. Files with a
// different major version are rejected instead of silently misread.
const Version = "1.0.0"

// ErrIncompatibleVersion marks a config file written by an incompatible
// major version.
var ErrIncompatibleVersion = errors.New("incompatible config version")

// Config is the persisted application configuration.
type Config struct {
	Version string        `yaml:"version"`
	Logging LoggingConfig `yaml:"logging"`
	Archive ArchiveConfig `yaml:"archive"`
	UI      UIConfig      `yaml:"ui"`
}

// LoggingConfig configures the structured logger.
type LoggingConfig struct {
	Level string `yaml:"level"`
	// File enables logging to a file in addition to stderr. The TUI owns
	// the terminal, so file logging is the only usable sink while browsing.
	File string `yaml:"file,omitempty"`
}

// ArchiveConfig locates the SQLite archive.
type ArchiveConfig struct {
	Path string `yaml:"path"`
}

// UIConfig holds browsing preferences.
type UIConfig struct {
	// MouseEnabled turns terminal mouse tracking on.
	MouseEnabled bool `yaml:"mouse_enabled"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Version: Version,
		Logging: LoggingConfig{Level: "info"},
		Archive: ArchiveConfig{Path: defaultPath("mediashelf.db")},
		UI:      UIConfig{MouseEnabled: true},
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return defaultPath("config.yaml")
}

// SessionPath returns the default session file location.
func SessionPath() string {
	return defaultPath("session.yaml")
}

func defaultPath(name string) string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "mediashelf", name)
}

// Load reads the config at path, falling back to defaults when the file
// does not exist. A version from a newer major is rejected.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := checkVersion(cfg.Version); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config to path, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}
	return nil
}

func checkVersion(version string) error {
	if version == "" {
		return nil
	}
	have, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("parsing version %q: %w", version, err)
	}
	want := semver.MustParse(Version)
	if have.Major() != want.Major() {
		return fmt.Errorf("%w: file has %s, this build understands %s",
			ErrIncompatibleVersion, version, Version)
	}
	return nil
}
