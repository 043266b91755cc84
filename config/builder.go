package config

import (
	"fmt"
	"log/slog"

	"github.com/jpalmerr/sitestate"
	"github.com/jpalmerr/sitestate/backend"
)

// OpenBackend opens the backend described by cfg.Backend.
//
// The caller owns the returned backend; passing it to [BuildOptions] hands
// ownership to the resulting State.
func OpenBackend(cfg *Config) (backend.Backend, error) {
	bc := cfg.Backend

	switch bc.Type {
	case BackendMemory:
		return backend.NewMemory(), nil
	case BackendFile:
		b, err := backend.NewFile(bc.Path)
		if err != nil {
			return nil, fmt.Errorf("opening file backend: %w", err)
		}
		return b, nil
	case BackendSQLite:
		b, err := backend.NewSQLite(bc.Path)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite backend: %w", err)
		}
		return b, nil
	case BackendRedis:
		b, err := backend.NewRedis(backend.RedisOptions{
			Addr:     bc.Addr,
			Password: bc.Password,
			DB:       bc.DB,
			Prefix:   bc.Prefix,
		})
		if err != nil {
			return nil, fmt.Errorf("opening redis backend: %w", err)
		}
		return b, nil
	default:
		// validation should catch this
		return nil, fmt.Errorf("unknown backend type %q", bc.Type)
	}
}

// BuildOptions converts parsed configuration into State options using b as
// the backend.
func BuildOptions(cfg *Config, b backend.Backend, logger *slog.Logger) []sitestate.Option {
	opts := []sitestate.Option{
		sitestate.WithBackend(b),
		sitestate.WithNamespace(cfg.Namespace),
		sitestate.WithStorageTimeout(cfg.StorageTimeout.Duration()),
		sitestate.WithDefaults(cfg.Settings()),
	}
	if logger != nil {
		opts = append(opts, sitestate.WithLogger(logger))
	}
	return opts
}

// Open opens the configured backend and creates a State over it. Extra
// options are applied after the configured ones.
func Open(cfg *Config, logger *slog.Logger, extra ...sitestate.Option) (*sitestate.State, error) {
	b, err := OpenBackend(cfg)
	if err != nil {
		return nil, err
	}

	opts := append(BuildOptions(cfg, b, logger), extra...)
	st, err := sitestate.New(opts...)
	if err != nil {
		_ = b.Close()
		return nil, err
	}
	return st, nil
}

// Settings returns the configured default settings.
func (c *Config) Settings() sitestate.Settings {
	s := sitestate.DefaultSettings()
	s.Theme = sitestate.Theme(c.Defaults.Theme)
	s.ViewMode = sitestate.ViewMode(c.Defaults.ViewMode)
	s.SidebarCollapsed = c.Defaults.SidebarCollapsed
	return s
}

// Level returns the configured log level.
func (c *Config) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}
