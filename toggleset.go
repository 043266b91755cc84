package sitestate

import (
	"log/slog"
	"slices"
	"sync"
	"unicode/utf8"

	"github.com/jpalmerr/sitestate/internal/codec"
)

// ToggleSet is a persisted set of opaque identifiers with click-to-toggle
// semantics. Bookmarks and expanded categories are both ToggleSets.
//
// Each identifier appears at most once. Insertion order is kept for display.
// Every toggle persists the full set and publishes [SetChanged].
type ToggleSet struct {
	mu       sync.RWMutex
	kind     SetKind
	key      string
	items    []string
	index    map[string]struct{}
	storage  *Storage
	notifier *Notifier
	logger   *slog.Logger
}

// NewBookmarkStore loads the bookmark set from storage. A missing or
// unreadable value yields an empty set.
func NewBookmarkStore(storage *Storage, notifier *Notifier) *ToggleSet {
	return newToggleSet(SetBookmarks, KeyBookmarks, storage, notifier)
}

// NewCategoryStore loads the expanded-category set from storage. A missing or
// unreadable value yields an empty set.
func NewCategoryStore(storage *Storage, notifier *Notifier) *ToggleSet {
	return newToggleSet(SetCategories, KeyExpandedCategories, storage, notifier)
}

func newToggleSet(kind SetKind, key string, storage *Storage, notifier *Notifier) *ToggleSet {
	storage, notifier = ensureWiring(storage, notifier)

	var stored []string
	load(storage, key, &stored)

	t := &ToggleSet{
		kind:     kind,
		key:      key,
		items:    make([]string, 0, len(stored)),
		index:    make(map[string]struct{}, len(stored)),
		storage:  storage,
		notifier: notifier,
		logger:   storage.logger.With("store", key),
	}

	// stored data may come from an older or foreign writer; keep first occurrences
	for _, id := range stored {
		if _, dup := t.index[id]; dup {
			continue
		}
		t.index[id] = struct{}{}
		t.items = append(t.items, id)
	}
	if len(t.items) != len(stored) {
		t.logger.Warn("dropped duplicate stored identifiers",
			"stored", len(stored),
			"kept", len(t.items),
		)
	}

	return t
}

// Kind reports which set this is.
func (t *ToggleSet) Kind() SetKind {
	return t.kind
}

// Contains reports whether id is in the set.
func (t *ToggleSet) Contains(id string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.index[id]
	return ok
}

// Toggle adds id if absent or removes it if present, persists the set and
// publishes [SetChanged]. It returns true if id was added.
//
// An id that is not valid UTF-8 cannot be stored unchanged; it is ignored,
// publishes nothing and returns false.
func (t *ToggleSet) Toggle(id string) (added bool) {
	if !utf8.ValidString(id) {
		t.logger.Debug("identifier not toggled", "error", ErrInvalidInput)
		return false
	}

	t.mu.Lock()
	if _, ok := t.index[id]; ok {
		delete(t.index, id)
		t.items = slices.DeleteFunc(t.items, func(s string) bool { return s == id })
	} else {
		t.index[id] = struct{}{}
		t.items = append(t.items, id)
		added = true
	}
	snapshot := slices.Clone(t.items)
	if !t.storage.Write(t.key, codec.Encode(snapshot)) {
		t.logger.Debug("set kept in memory only", "id", id, "added", added)
	}
	t.mu.Unlock()

	t.notifier.Publish(SetChanged{
		Set:   t.kind,
		Items: snapshot,
		ID:    id,
		Added: added,
	})
	return added
}

// Count returns the number of identifiers in the set.
func (t *ToggleSet) Count() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.items)
}

// List returns the identifiers in insertion order. The slice is a copy.
func (t *ToggleSet) List() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Clone(t.items)
}
