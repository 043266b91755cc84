package sitestate

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/jpalmerr/sitestate/backend"
	"github.com/jpalmerr/sitestate/internal/codec"
)

const defaultStorageTimeout = 2 * time.Second

// Logical keys, one per collection store.
const (
	KeySettings           = "settings"
	KeyBookmarks          = "bookmarks"
	KeyRecentSearches     = "recent-searches"
	KeyExpandedCategories = "expanded-categories"
)

// Keys returns every logical key the state layer persists.
func Keys() []string {
	return []string{KeySettings, KeyBookmarks, KeyRecentSearches, KeyExpandedCategories}
}

// Storage adapts a [backend.Backend] for the collection stores.
//
// Storage never returns backend failures. Errors and panics from the backend
// are wrapped in [ErrStorageUnavailable], logged, and reported as absence on
// read or false on write. The stores above it keep working in memory, so the
// state layer degrades to session-only behavior when storage is broken.
type Storage struct {
	backend   backend.Backend
	namespace string
	timeout   time.Duration
	logger    *slog.Logger
	degraded  atomic.Bool
}

// NewStorage wraps b. Every key is prefixed with namespace; each backend call
// is bounded by timeout (2s when timeout <= 0). A nil backend gets an
// in-memory one and a nil logger gets slog.Default().
func NewStorage(b backend.Backend, namespace string, timeout time.Duration, logger *slog.Logger) *Storage {
	if b == nil {
		b = backend.NewMemory()
	}
	if timeout <= 0 {
		timeout = defaultStorageTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Storage{
		backend:   b,
		namespace: namespace,
		timeout:   timeout,
		logger:    logger.With("component", "storage"),
	}
}

// Key returns the physical backend key for a logical key.
func (s *Storage) Key(logical string) string {
	return s.namespace + logical
}

// Read returns the raw value stored under the logical key. A miss and a
// failed read both return found == false.
func (s *Storage) Read(key string) (raw string, found bool) {
	err := s.do("read", key, func(ctx context.Context) error {
		var err error
		raw, found, err = s.backend.Get(ctx, s.Key(key))
		return err
	})
	if err != nil {
		return "", false
	}
	return raw, found
}

// Write stores raw under the logical key and reports whether it was persisted.
func (s *Storage) Write(key, raw string) bool {
	return s.do("write", key, func(ctx context.Context) error {
		return s.backend.Set(ctx, s.Key(key), raw)
	}) == nil
}

// Remove deletes the logical key and reports whether the backend accepted it.
func (s *Storage) Remove(key string) bool {
	return s.do("remove", key, func(ctx context.Context) error {
		return s.backend.Remove(ctx, s.Key(key))
	}) == nil
}

// Degraded reports whether the most recent backend call failed.
func (s *Storage) Degraded() bool {
	return s.degraded.Load()
}

// Close closes the backend.
func (s *Storage) Close() error {
	return s.backend.Close()
}

// do runs one backend call with a timeout, turning errors and panics into a
// logged ErrStorageUnavailable.
func (s *Storage) do(op, key string, fn func(ctx context.Context) error) (err error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("backend panicked: %v", r)
		}
		if err != nil {
			err = fmt.Errorf("%w: %s %q: %w", ErrStorageUnavailable, op, key, err)
			s.degraded.Store(true)
			s.logger.Warn("storage operation failed",
				"op", op,
				"key", s.Key(key),
				"error", err,
			)
			return
		}
		s.degraded.Store(false)
	}()

	return fn(ctx)
}

// load decodes the value stored under key into dst, which holds the default.
// It reports false and leaves dst untouched when nothing usable is stored.
// dst must not share maps with anything the caller still needs intact.
func load[T any](s *Storage, key string, dst *T) bool {
	raw, found := s.Read(key)
	if !found {
		return false
	}

	v := *dst
	if err := codec.DecodeInto(raw, &v); err != nil {
		s.logger.Warn("ignoring unreadable stored value",
			"key", s.Key(key),
			"error", err,
		)
		return false
	}
	*dst = v
	return true
}
