// Package config loads the optional modelfs configuration file.
// Everything in it is tuning, not logic: resolution works with a
// zero-value Config.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// PathEnv overrides the config file location.
const PathEnv = "MODELFS_CONFIG"

const defaultRelPath = ".config/modelfs/config.yaml"

// Config is the on-disk configuration. Roots listed here are tried
// before the platform defaults, after MODELFS_PATH.
type Config struct {
	// Extra storage roots, highest priority after the environment.
	Roots []string `yaml:"roots"`

	// HTTP listen address for serve mode (default ":11542").
	Addr string `yaml:"addr"`

	// Mountpoint for mount mode.
	Mountpoint string `yaml:"mountpoint"`
}

// DefaultPath returns ~/.config/modelfs/config.yaml, or "" when the
// home directory is unknown.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, defaultRelPath)
}

// Load reads the config file, honoring MODELFS_CONFIG. A missing file
// is not an error: resolution is fully functional without one.
func Load() (*Config, error) {
	path := os.Getenv(PathEnv)
	if path == "" {
		path = DefaultPath()
	}
	cfg := &Config{Addr: ":11542"}
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Addr == "" {
		cfg.Addr = ":11542"
	}
	return cfg, nil
}
