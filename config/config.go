// Package config provides YAML and TOML configuration for the sitestate CLI.
//
// The format is chosen by file extension: ".toml" is parsed as TOML, anything
// else as YAML.
//
// Example configuration:
//
//	namespace: "zahuyach-"
//	storage_timeout: 2s
//	log_level: info
//	log_format: text
//
//	backend:
//	  type: sqlite
//	  path: ${XDG_DATA_HOME:-/var/lib}/sitestate/state.db
//
//	defaults:
//	  theme: dark
//	  view_mode: list
//
// The same file in TOML:
//
//	namespace = "zahuyach-"
//	storage_timeout = "2s"
//
//	[backend]
//	type = "sqlite"
//	path = "${XDG_DATA_HOME:-/var/lib}/sitestate/state.db"
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Backend types accepted in backend.type.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

const (
	defaultStorageTimeout = 2 * time.Second
	minStorageTimeout     = 10 * time.Millisecond
	maxStorageTimeout     = time.Minute
	defaultRedisAddr      = "localhost:6379"
)

// Config is the root configuration structure for the sitestate CLI.
//
// Use [Load], [Parse] or [ParseTOML] to create a Config. [Default] returns the
// configuration used when no file is given.
type Config struct {
	// Namespace is prepended to every persisted key. Empty by default.
	Namespace string `yaml:"namespace" toml:"namespace"`

	// StorageTimeout bounds each backend call. Between 10ms and 1m.
	// Defaults to 2s.
	StorageTimeout Duration `yaml:"storage_timeout" toml:"storage_timeout"`

	// LogLevel is one of debug, info, warn, error. Defaults to info.
	LogLevel string `yaml:"log_level" toml:"log_level"`

	// LogFormat is text (colorized when writing to a terminal) or json.
	// Defaults to text.
	LogFormat string `yaml:"log_format" toml:"log_format"`

	// Backend selects where state is persisted.
	Backend BackendConfig `yaml:"backend" toml:"backend"`

	// Defaults are the settings used until the user changes them.
	Defaults DefaultsConfig `yaml:"defaults" toml:"defaults"`
}

// BackendConfig selects and configures the durable backing.
type BackendConfig struct {
	// Type is memory, file, sqlite or redis. Defaults to file.
	Type string `yaml:"type" toml:"type"`

	// Path is the state file (file) or database file (sqlite).
	// Supports environment variable substitution: ${VAR} or ${VAR:-default}
	// Defaults to a location under $XDG_DATA_HOME or ~/.local/share.
	Path string `yaml:"path" toml:"path"`

	// Addr is the Redis server address. Supports substitution.
	// Defaults to localhost:6379.
	Addr string `yaml:"addr" toml:"addr"`

	// Password is the Redis password. Supports substitution.
	Password string `yaml:"password" toml:"password"`

	// DB is the Redis database number.
	DB int `yaml:"db" toml:"db"`

	// Prefix is prepended to every Redis key, ahead of Namespace.
	Prefix string `yaml:"prefix" toml:"prefix"`
}

// DefaultsConfig holds the default settings.
type DefaultsConfig struct {
	// Theme is dark or light. Defaults to dark.
	Theme string `yaml:"theme" toml:"theme"`

	// ViewMode is list or grid. Defaults to list.
	ViewMode string `yaml:"view_mode" toml:"view_mode"`

	// SidebarCollapsed starts the sidebar collapsed.
	SidebarCollapsed bool `yaml:"sidebar_collapsed" toml:"sidebar_collapsed"`
}

// Duration wraps time.Duration for YAML and TOML unmarshalling.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	return d.UnmarshalText([]byte(s))
}

// UnmarshalText implements encoding.TextUnmarshaler, which TOML decoding uses.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}

	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// envVarPattern matches ${VAR} and ${VAR:-default} patterns.
// Group 1: variable name
// Group 2: the ":-default" part (if present, indicates a default was specified)
// Group 3: the default value (may be empty for ${VAR:-})
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(:-([^}]*))?\}`)

// expandEnvVars replaces ${VAR} and ${VAR:-default} patterns with environment values.
func expandEnvVars(s string) (string, error) {
	var firstErr error

	result := envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		// already have an error, skip processing
		if firstErr != nil {
			return match
		}

		submatches := envVarPattern.FindStringSubmatch(match)
		if len(submatches) < 2 {
			return match
		}

		varName := submatches[1]
		hasDefault := len(submatches) > 2 && submatches[2] != ""
		defaultVal := ""
		if hasDefault && len(submatches) > 3 {
			defaultVal = submatches[3]
		}

		value, exists := os.LookupEnv(varName)
		if !exists {
			if hasDefault {
				return defaultVal
			}
			firstErr = fmt.Errorf("environment variable %q is not set", varName)
			return match
		}
		return value
	})

	if firstErr != nil {
		return "", firstErr
	}
	return result, nil
}

// DefaultStatePath returns where the file backend keeps state when no path
// is configured: $XDG_DATA_HOME/sitestate/state.json, falling back to
// ~/.local/share and finally the working directory.
func DefaultStatePath() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "sitestate", "state.json")
	}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		return filepath.Join(home, ".local", "share", "sitestate", "state.json")
	}
	return "sitestate.json"
}

// Default returns the configuration used when no config file is given: a
// file backend at [DefaultStatePath] and the built-in defaults.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	// defaults always validate
	_ = cfg.expandAndValidate()
	return &cfg
}

// Load reads and parses a configuration file. Files ending in ".toml" are
// parsed as TOML, everything else as YAML.
//
// Returns an error if the file cannot be read, parsed or validated.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return ParseTOML(data)
	}
	return Parse(data)
}

// Parse parses YAML configuration data.
//
// Environment variables are expanded in backend path, addr and password.
// Defaults are applied before validation.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return finish(&cfg)
}

// ParseTOML parses TOML configuration data. It applies the same defaults,
// expansion and validation as [Parse].
func ParseTOML(data []byte) (*Config, error) {
	var cfg Config
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return finish(&cfg)
}

func finish(cfg *Config) (*Config, error) {
	cfg.applyDefaults()
	if err := cfg.expandAndValidate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyDefaults fills every unset field that has a default.
func (c *Config) applyDefaults() {
	if c.StorageTimeout == 0 {
		c.StorageTimeout = Duration(defaultStorageTimeout)
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogFormat == "" {
		c.LogFormat = "text"
	}
	if c.Backend.Type == "" {
		c.Backend.Type = BackendFile
	}
	if c.Defaults.Theme == "" {
		c.Defaults.Theme = "dark"
	}
	if c.Defaults.ViewMode == "" {
		c.Defaults.ViewMode = "list"
	}

	switch c.Backend.Type {
	case BackendFile:
		if c.Backend.Path == "" {
			c.Backend.Path = DefaultStatePath()
		}
	case BackendSQLite:
		if c.Backend.Path == "" {
			p := DefaultStatePath()
			c.Backend.Path = strings.TrimSuffix(p, filepath.Ext(p)) + ".db"
		}
	case BackendRedis:
		if c.Backend.Addr == "" {
			c.Backend.Addr = defaultRedisAddr
		}
	}
}

// expandAndValidate expands environment variables and validates the config.
func (c *Config) expandAndValidate() error {
	if d := c.StorageTimeout.Duration(); d < minStorageTimeout || d > maxStorageTimeout {
		return fmt.Errorf("storage_timeout must be between %s and %s, got %s",
			minStorageTimeout, maxStorageTimeout, d)
	}

	c.LogLevel = strings.ToLower(c.LogLevel)
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be debug, info, warn, or error, got %q", c.LogLevel)
	}

	c.LogFormat = strings.ToLower(c.LogFormat)
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("log_format must be text or json, got %q", c.LogFormat)
	}

	if err := c.Backend.expandAndValidate(); err != nil {
		return err
	}

	if c.Defaults.Theme != "dark" && c.Defaults.Theme != "light" {
		return fmt.Errorf("defaults.theme must be dark or light, got %q", c.Defaults.Theme)
	}
	if c.Defaults.ViewMode != "list" && c.Defaults.ViewMode != "grid" {
		return fmt.Errorf("defaults.view_mode must be list or grid, got %q", c.Defaults.ViewMode)
	}

	return nil
}

func (b *BackendConfig) expandAndValidate() error {
	fields := []struct {
		name string
		val  *string
	}{
		{"path", &b.Path},
		{"addr", &b.Addr},
		{"password", &b.Password},
	}
	for _, f := range fields {
		expanded, err := expandEnvVars(*f.val)
		if err != nil {
			return fmt.Errorf("backend.%s: %w", f.name, err)
		}
		*f.val = expanded
	}

	switch b.Type {
	case BackendMemory:
	case BackendFile, BackendSQLite:
		if b.Path == "" {
			return fmt.Errorf("backend.path is required for type %q", b.Type)
		}
	case BackendRedis:
		if b.Addr == "" {
			return fmt.Errorf("backend.addr is required for type %q", b.Type)
		}
		if b.DB < 0 {
			return fmt.Errorf("backend.db cannot be negative, got %d", b.DB)
		}
	default:
		return fmt.Errorf("backend.type must be memory, file, sqlite, or redis, got %q", b.Type)
	}

	return nil
}
