package config

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"createmvp/internal/catalog"
	"createmvp/internal/chat"
	"createmvp/internal/logging"
	"createmvp/pkg/fileops"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

const APP_NAME = "createmvp" // application name used for config directory

const (
	// EnvConfigPath overrides the config file location
	EnvConfigPath = "CREATEMVP_CONFIG"
	// EnvAPIURL overrides api_url from the config file
	EnvAPIURL = "CREATEMVP_API_URL"

	DefaultAPIURL  = "https://createmvp.com"
	currentVersion = "1.0"
)

// Config holds user configuration for createmvp.
type Config struct {
	// APIURL is the base URL of the CreateMVP API (chat, api-keys, history).
	APIURL string `yaml:"api_url"`

	DefaultModel    string `yaml:"default_model"`
	PreserveContext bool   `yaml:"preserve_context"`

	// PageSize and PageIncrement drive the "show more" cursor in catalog views.
	PageSize      int `yaml:"page_size"`
	PageIncrement int `yaml:"page_increment"`

	// RulesDir optionally points at local cursor-rules/ and windsurf-rules/
	// directories merged into the bundled catalogs.
	RulesDir string `yaml:"rules_dir,omitempty"`

	Version string `yaml:"version"` // Track config version
}

// ConfigPath returns the config file location for the current platform.
func ConfigPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return fileops.ExpandPath(p)
	}
	return filepath.Join(xdg.ConfigHome, APP_NAME, "config.yaml")
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		APIURL:          DefaultAPIURL,
		DefaultModel:    chat.DefaultModelID,
		PreserveContext: true,
		PageSize:        catalog.DefaultPageSize,
		PageIncrement:   catalog.DefaultPageIncrement,
		Version:         currentVersion,
	}
}

// Load reads the config from the standard location. A missing file yields
// the defaults.
func Load() (*Config, error) {
	path := ConfigPath()
	logging.Debug("Loading config from", "path", path)
	return load(path, true)
}

// LoadFrom loads config from a specific path, which must exist. Fields
// missing from the file keep their default values.
func LoadFrom(path string) (*Config, error) {
	return load(path, false)
}

// load decodes path over the defaults, applies environment overrides and
// validates the result.
func load(path string, allowMissing bool) (*Config, error) {
	cfg := DefaultConfig()
	if err := decodeFile(path, &cfg); err != nil {
		if !allowMissing || !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	source := path
	if cfg.applyEnv() {
		source = EnvAPIURL
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", source, err)
	}
	return &cfg, nil
}

func decodeFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

// applyEnv reports whether the API URL was overridden.
func (c *Config) applyEnv() bool {
	v := strings.TrimSpace(os.Getenv(EnvAPIURL))
	if v == "" {
		return false
	}
	logging.Debug("API URL overridden from environment", "url", v)
	c.APIURL = v
	return true
}

// Validate rejects values the application cannot work with.
func (c *Config) Validate() error {
	if c.PageSize <= 0 {
		return fmt.Errorf("page_size must be positive, got %d", c.PageSize)
	}
	if c.PageIncrement <= 0 {
		return fmt.Errorf("page_increment must be positive, got %d", c.PageIncrement)
	}
	u, err := url.Parse(c.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("api_url must be an http(s) URL, got %q", c.APIURL)
	}
	return nil
}

// ExpandedRulesDir returns RulesDir with a leading "~/" expanded.
func (c *Config) ExpandedRulesDir() string {
	return fileops.ExpandPath(strings.TrimSpace(c.RulesDir))
}

// Save writes the config to the standard location
func (c *Config) Save() error {
	return c.SaveTo(ConfigPath())
}

// SaveTo writes the config to a specific path
func (c *Config) SaveTo(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Version == "" {
		c.Version = currentVersion
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	// Create file with restrictive permissions (600)
	if err := fileops.AtomicWrite(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	logging.Info("Configuration saved", "path", path)
	return nil
}
