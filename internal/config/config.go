// Package config handles Perch configuration using Viper.
//
// Configuration sources (in priority order):
//  1. Environment variables (PERCH_*)
//  2. Config file (~/.config/perch/config.yaml)
//  3. Built-in defaults
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	// DefaultGitPollInterval is the git refresh interval in seconds.
	DefaultGitPollInterval = 10
	// DefaultStaleAfter is the tool-call staleness threshold in seconds.
	DefaultStaleAfter = 30
	// DefaultTheme is the built-in theme name.
	DefaultTheme = "dusk"
)

// Config holds the Perch configuration.
type Config struct {
	v       *viper.Viper
	readErr error
}

// Load reads configuration from all sources.
func Load() *Config {
	v := viper.New()

	// Set defaults
	v.SetDefault("widget.enabled", true)
	v.SetDefault("widget.theme", DefaultTheme)
	v.SetDefault("git.poll_interval", DefaultGitPollInterval)
	v.SetDefault("widget.stale_after", DefaultStaleAfter)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")

	if dir, err := Dir(); err == nil {
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	// Environment variables
	v.SetEnvPrefix("PERCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// A missing config file is normal; any other read error is kept for
	// diagnostics (the widget shares a terminal with its host, so Load
	// never writes warnings itself).
	var readErr error
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			readErr = err
		}
	}

	return &Config{v: v, readErr: readErr}
}

// ReadError returns the config-file read error Load swallowed, if any.
// Defaults still apply when it is non-nil.
func (c *Config) ReadError() error {
	return c.readErr
}

// Dir returns the perch configuration directory.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, ".config", "perch"), nil
}

// Get returns a configuration value.
func (c *Config) Get(key string) interface{} {
	return c.v.Get(key)
}

// GetString returns a configuration value as string.
func (c *Config) GetString(key string) string {
	return c.v.GetString(key)
}

// GetInt returns a configuration value as int.
func (c *Config) GetInt(key string) int {
	return c.v.GetInt(key)
}

// GetBool returns a configuration value as bool.
func (c *Config) GetBool(key string) bool {
	return c.v.GetBool(key)
}

// Set sets a configuration value and persists it.
func (c *Config) Set(key string, value interface{}) error {
	c.v.Set(key, value)

	dir, err := Dir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	return c.v.WriteConfigAs(filepath.Join(dir, "config.yaml"))
}

// All returns all configuration as a map.
func (c *Config) All() map[string]interface{} {
	return c.v.AllSettings()
}

// WidgetEnabled reports whether the status widget is enabled.
func (c *Config) WidgetEnabled() bool {
	return c.GetBool("widget.enabled")
}

// Theme returns the configured theme name.
func (c *Config) Theme() string {
	return c.GetString("widget.theme")
}

// GitPollInterval returns the git refresh interval in seconds.
func (c *Config) GitPollInterval() int {
	return c.GetInt("git.poll_interval")
}

// StaleAfter returns the tool staleness threshold in seconds.
func (c *Config) StaleAfter() int {
	return c.GetInt("widget.stale_after")
}
