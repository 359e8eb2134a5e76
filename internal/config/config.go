// Package config loads the linksnap configuration file.
//
// Everything in it is optional: an absent file, an empty file and a file
// naming only the keys it changes all work, with defaults filling the rest.
// The snap section feeds the engine's thresholds, so a deployment can tune
// snapping behavior without a rebuild.
//
// Config file locations (priority order):
//  1. $LINKSNAP_CONFIG
//  2. ./linksnap.yaml
//  3. $XDG_CONFIG_HOME/linksnap/config.yaml
//  4. ~/.config/linksnap/config.yaml
//  5. /etc/linksnap/config.yaml
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load finds and loads the config file, or returns defaults if none found.
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		return DefaultConfig(), "", nil
	}

	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path.
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, path, err
	}

	return &cfg, path, nil
}

// Save writes config to the specified path.
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns sensible defaults for a new installation.
func DefaultConfig() *Config {
	return &Config{
		Version:  1,
		Server:   ServerConfig{Addr: ":8090", CanvasID: "default"},
		Database: DatabaseConfig{Path: "./linksnap.db"},
		Settings: SettingsConfig{Path: "./linksnap-settings.yaml"},
		Log:      LogConfig{Level: "info", Format: "console"},
	}
}

// applyDefaults fills in missing values with defaults.
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8090"
	}
	if c.Server.CanvasID == "" {
		c.Server.CanvasID = "default"
	}
	if c.Database.Path == "" {
		c.Database.Path = "./linksnap.db"
	}
	if c.Settings.Path == "" {
		c.Settings.Path = "./linksnap-settings.yaml"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
}

// Validate rejects values the rest of the system would silently misuse.
// The snap section is not range checked here; the engine substitutes its
// defaults for non-positive values.
func (c *Config) Validate() error {
	if c.Log.Format != "console" && c.Log.Format != "json" {
		return fmt.Errorf("log format %q, must be console or json", c.Log.Format)
	}
	if c.Snap.ThrottleFactor < 0 {
		return fmt.Errorf("snap throttle_factor %d, must not be negative", c.Snap.ThrottleFactor)
	}
	for nodeType, width := range c.Snap.DefaultWidths {
		if width < 0 {
			return fmt.Errorf("snap default width for %s is negative", nodeType)
		}
	}
	return nil
}
