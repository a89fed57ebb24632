// Package config provides optional user configuration for ringport.
// It supports a YAML config file with per-platform overrides and sensible
// defaults when no file exists.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/klauern/ringport/internal/logging"
	"github.com/klauern/ringport/internal/model"
	"github.com/klauern/ringport/internal/util"
)

// Config represents the complete ringport configuration.
type Config struct {
	// Platforms configures per-platform overrides
	Platforms PlatformsConfig `yaml:"platforms"`
}

// PlatformsConfig holds platform-specific configuration.
type PlatformsConfig struct {
	OpenCode PlatformConfig `yaml:"opencode"`
	Codex    PlatformConfig `yaml:"codex"`
}

// PlatformConfig holds configuration for a single platform.
type PlatformConfig struct {
	// InstallPath overrides the platform's default install directory.
	// Paths can use ~ for home. Overrides resolving outside the user's
	// home are rejected with a warning at use time.
	InstallPath string `yaml:"install_path,omitempty"`

	// Disabled excludes this platform from multi-platform operations.
	Disabled bool `yaml:"disabled,omitempty"`
}

// DefaultConfig returns the configuration used when no config file exists.
func DefaultConfig() *Config {
	return &Config{}
}

// DefaultPath returns the standard config file location.
func DefaultPath() string {
	return filepath.Join(util.RingportConfigPath(), "config.yaml")
}

// Load loads the configuration from the default location. A missing file
// yields defaults, not an error.
func Load() (*Config, error) {
	return LoadFromPath(DefaultPath())
}

// LoadFromPath loads the configuration from the specified path. A missing
// file yields defaults, not an error.
func LoadFromPath(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path) // #nosec G304 - path is from the config directory
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// platformConfig returns the override record for a platform.
func (c *Config) platformConfig(p model.Platform) PlatformConfig {
	switch p {
	case model.OpenCode:
		return c.Platforms.OpenCode
	case model.Codex:
		return c.Platforms.Codex
	default:
		return PlatformConfig{}
	}
}

// InstallPathFor returns the configured install path override for a
// platform, or empty when unset or invalid. Overrides must stay within the
// user's home, same as environment overrides.
func (c *Config) InstallPathFor(p model.Platform) string {
	override := c.platformConfig(p).InstallPath
	if override == "" {
		return ""
	}
	if !util.WithinHome(override) {
		logging.Warn("configured install path ignored: path must be under home",
			logging.Platform(string(p)),
			logging.Path(override),
		)
		return ""
	}
	return util.ExpandHome(override)
}

// Enabled reports whether a platform participates in multi-platform
// operations.
func (c *Config) Enabled(p model.Platform) bool {
	return !c.platformConfig(p).Disabled
}
