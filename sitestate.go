package sitestate

import (
	"fmt"
	"log/slog"
)

// State wires one storage backend and one notifier to the four collection
// stores.
//
// State is created with [New] and functional options. Each store is loaded
// from storage exactly once, during New; afterwards reads are served from
// memory and every mutation writes through and publishes an event.
//
// The typical lifecycle is:
//
//	st, err := sitestate.New(sitestate.WithBackend(b))
//	if err != nil {
//	    slog.Error("failed to open state", "error", err)
//	    os.Exit(1)
//	}
//	defer st.Close()
//
//	st.Notifier().OnSetChanged(func(e sitestate.SetChanged) { ... })
//	st.Bookmarks().Toggle("htmx-tips")
type State struct {
	storage    *Storage
	notifier   *Notifier
	settings   *SettingsStore
	bookmarks  *ToggleSet
	categories *ToggleSet
	searches   *SearchLog
	logger     *slog.Logger
}

// New creates a [State] with the given options.
//
// Without options New uses an in-memory backend (nothing survives the
// process), no key namespace, a 2 second storage timeout and
// [DefaultSettings]. Returns an error if any option is invalid.
//
// Example:
//
//	b, _ := backend.NewFile("/var/lib/site/state.json")
//	st, err := sitestate.New(
//	    sitestate.WithBackend(b),
//	    sitestate.WithNamespace("zahuyach-"),
//	)
func New(opts ...Option) (*State, error) {
	cfg := &stateConfig{
		storageTimeout: defaultStorageTimeout,
		defaults:       DefaultSettings(),
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	storage := NewStorage(cfg.backend, cfg.namespace, cfg.storageTimeout, logger)
	notifier := NewNotifier(logger)

	// subscribe before loading so no handler misses the first mutation
	for _, s := range cfg.subscribers {
		notifier.Subscribe(s.kind, s.fn)
	}

	st := &State{
		storage:    storage,
		notifier:   notifier,
		settings:   NewSettingsStore(storage, notifier, cfg.defaults),
		bookmarks:  NewBookmarkStore(storage, notifier),
		categories: NewCategoryStore(storage, notifier),
		searches:   NewSearchLog(storage, notifier),
		logger:     logger,
	}

	logger.Debug("state loaded",
		"bookmarks", st.bookmarks.Count(),
		"expanded_categories", st.categories.Count(),
		"recent_searches", st.searches.Len(),
		"degraded", storage.Degraded(),
	)
	return st, nil
}

// Settings returns the settings store.
func (s *State) Settings() *SettingsStore {
	return s.settings
}

// Bookmarks returns the bookmark set.
func (s *State) Bookmarks() *ToggleSet {
	return s.bookmarks
}

// Categories returns the expanded-category set.
func (s *State) Categories() *ToggleSet {
	return s.categories
}

// Searches returns the recent-search log.
func (s *State) Searches() *SearchLog {
	return s.searches
}

// Notifier returns the notifier all stores publish to.
func (s *State) Notifier() *Notifier {
	return s.notifier
}

// Storage returns the storage adapter shared by the stores.
func (s *State) Storage() *Storage {
	return s.storage
}

// Wipe removes every persisted key from the backend.
//
// In-memory values are untouched, so the current session keeps working; the
// next [New] over the same backend starts from defaults. Wipe reports whether
// every removal succeeded.
func (s *State) Wipe() bool {
	ok := true
	for _, key := range Keys() {
		if !s.storage.Remove(key) {
			ok = false
		}
	}
	s.logger.Info("persisted state wiped", "complete", ok)
	return ok
}

// Close closes the storage backend. The stores must not be used afterwards.
func (s *State) Close() error {
	return s.storage.Close()
}
