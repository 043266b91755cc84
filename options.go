package sitestate

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jpalmerr/sitestate/backend"
)

// stateConfig holds mutable state during State construction.
type stateConfig struct {
	backend        backend.Backend
	namespace      string
	storageTimeout time.Duration
	defaults       Settings
	logger         *slog.Logger
	subscribers    []subscriberConfig
}

type subscriberConfig struct {
	kind EventKind
	fn   func(Event)
}

// Option is a function that configures a [State] during construction.
//
// Option implements the functional options pattern. Options return an error
// if validation fails.
type Option func(*stateConfig) error

// WithBackend sets the durable backing for all stores.
//
// Defaults to [backend.NewMemory], which keeps state for the life of the
// process only. The State takes ownership and closes b on [State.Close].
//
// Returns an error if b is nil.
func WithBackend(b backend.Backend) Option {
	return func(cfg *stateConfig) error {
		if b == nil {
			return errors.New("backend cannot be nil")
		}
		cfg.backend = b
		return nil
	}
}

// WithNamespace prefixes every persisted key, so several sites (or several
// versions of one) can share a backend.
//
// Example:
//
//	st, err := sitestate.New(
//	    sitestate.WithBackend(b),
//	    sitestate.WithNamespace("zahuyach-"),
//	)
//
// With that namespace bookmarks live under "zahuyach-bookmarks".
func WithNamespace(prefix string) Option {
	return func(cfg *stateConfig) error {
		cfg.namespace = prefix
		return nil
	}
}

// WithStorageTimeout bounds each backend call. Defaults to 2 seconds.
//
// Returns an error if the duration is zero or negative.
func WithStorageTimeout(d time.Duration) Option {
	return func(cfg *stateConfig) error {
		if d <= 0 {
			return errors.New("storage timeout must be positive")
		}
		cfg.storageTimeout = d
		return nil
	}
}

// WithDefaults sets the settings used for fields that are not persisted yet.
// Defaults to [DefaultSettings].
//
// Returns an error if the theme or view mode is empty.
func WithDefaults(s Settings) Option {
	return func(cfg *stateConfig) error {
		if s.Theme == "" {
			return errors.New("default theme cannot be empty")
		}
		if s.ViewMode == "" {
			return errors.New("default view mode cannot be empty")
		}
		cfg.defaults = s.Clone()
		return nil
	}
}

// WithLogger sets a custom [slog.Logger] for the State.
//
// Storage failures, unreadable stored values and handler panics are logged
// here. If not specified, [slog.Default] is used.
//
// Returns an error if the logger is nil.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *stateConfig) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		cfg.logger = logger
		return nil
	}
}

// WithSubscriber registers a handler for an event kind before any store is
// created.
//
// Multiple handlers may be registered; they run in registration order, ahead
// of handlers added later through [State.Notifier]. Handlers run
// synchronously on the mutating goroutine. Panics are recovered and logged.
//
// Nil handlers are silently ignored. Returns an error for an unknown kind.
func WithSubscriber(kind EventKind, fn func(Event)) Option {
	return func(cfg *stateConfig) error {
		switch kind {
		case EventSettingsChanged, EventSetChanged, EventLogChanged:
		default:
			return fmt.Errorf("unknown event kind %q", kind)
		}
		if fn == nil {
			return nil
		}
		cfg.subscribers = append(cfg.subscribers, subscriberConfig{kind: kind, fn: fn})
		return nil
	}
}
