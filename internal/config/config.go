// Package config loads dashlayout settings from YAML with environment
// overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sparksai/dashlayout/internal/config/colors"
	"gopkg.in/yaml.v3"
)

// Environment overrides
const (
	EnvDatabase  = "DASHLAYOUT_DB"
	EnvSocket    = "DASHLAYOUT_SOCKET"
	EnvThemeFile = "DASHLAYOUT_THEME_FILE"
)

const (
	DefaultReportsPerRow   = 3
	DefaultEventDebounceMs = 100
	DefaultHTTPAddr        = "127.0.0.1:8080"
)

// Config represents the application configuration
type Config struct {
	DatabasePath    string             `yaml:"database_path"`
	SocketPath      string             `yaml:"socket_path"`
	CatalogFile     string             `yaml:"catalog_file,omitempty"`
	HTTPAddr        string             `yaml:"http_addr"`
	ReportsPerRow   int                `yaml:"reports_per_row"`
	EventDebounceMs int                `yaml:"event_debounce_ms"`
	KeyMappings     KeyMappings        `yaml:"key_mappings"`
	ColorScheme     colors.ColorScheme `yaml:"theme"`
}

// Default returns a config with every field set to its default
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// DataDir returns ~/.dashlayout, where the database, socket and logs live
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".dashlayout"
	}
	return filepath.Join(home, ".dashlayout")
}

// Load loads config from the user's config directory.
// A missing file yields the defaults.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		c := Default()
		c.applyEnv()
		return c, nil
	}
	return LoadFrom(path)
}

// LoadFrom loads config from an explicit path.
// A missing file yields the defaults.
func LoadFrom(path string) (*Config, error) {
	var c Config

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	c.applyEnv()
	c.applyDefaults()
	return &c, nil
}

// Save writes the config to the user's config directory
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the config as YAML, creating parent directories
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Path returns the path to the config file
func Path() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "dashlayout", "config.yaml"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "dashlayout", "config.yaml"), nil
}

// applyEnv lets environment variables win over the file
func (c *Config) applyEnv() {
	if v := os.Getenv(EnvDatabase); v != "" {
		c.DatabasePath = v
	}
	if v := os.Getenv(EnvSocket); v != "" {
		c.SocketPath = v
	}
	loadThemeFile(c)
}

// loadThemeFile merges the theme block of DASHLAYOUT_THEME_FILE, if set.
// An unreadable theme file is ignored.
func loadThemeFile(c *Config) {
	themeFile := os.Getenv(EnvThemeFile)
	if themeFile == "" {
		return
	}

	data, err := os.ReadFile(themeFile)
	if err != nil {
		return
	}

	var themeConfig struct {
		Theme colors.ColorScheme `yaml:"theme"`
	}
	if yaml.Unmarshal(data, &themeConfig) == nil {
		c.ColorScheme.MergeFrom(themeConfig.Theme)
	}
}

// applyDefaults fills in missing configuration with defaults
func (c *Config) applyDefaults() {
	dir := DataDir()
	if c.DatabasePath == "" {
		c.DatabasePath = filepath.Join(dir, "dashboards.db")
	}
	if c.SocketPath == "" {
		c.SocketPath = filepath.Join(dir, "dashlayout.sock")
	}
	if c.HTTPAddr == "" {
		c.HTTPAddr = DefaultHTTPAddr
	}
	if c.ReportsPerRow <= 0 {
		c.ReportsPerRow = DefaultReportsPerRow
	}
	if c.EventDebounceMs <= 0 {
		c.EventDebounceMs = DefaultEventDebounceMs
	}
	c.KeyMappings.applyDefaults()
	c.ColorScheme.ApplyDefaults()
}
