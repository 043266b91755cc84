package sitestate

import (
	"log/slog"
	"slices"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/jpalmerr/sitestate/internal/codec"
)

// MaxRecentSearches is the capacity of the recent-search log.
const MaxRecentSearches = 10

// SearchLog is the persisted list of recent distinct search queries, most
// recent first, holding at most [MaxRecentSearches] entries.
//
// Recording a query already in the log moves it to the front. Recording an
// eleventh distinct query evicts the oldest.
type SearchLog struct {
	mu       sync.RWMutex
	queries  []string
	storage  *Storage
	notifier *Notifier
	logger   *slog.Logger
}

// NewSearchLog loads the recent-search log from storage. A missing or
// unreadable value yields an empty log.
func NewSearchLog(storage *Storage, notifier *Notifier) *SearchLog {
	storage, notifier = ensureWiring(storage, notifier)

	var stored []string
	load(storage, KeyRecentSearches, &stored)

	l := &SearchLog{
		queries:  normalizeQueries(stored),
		storage:  storage,
		notifier: notifier,
		logger:   storage.logger.With("store", KeyRecentSearches),
	}
	if len(l.queries) != len(stored) {
		l.logger.Warn("normalized stored search log",
			"stored", len(stored),
			"kept", len(l.queries),
		)
	}
	return l
}

// Record moves query to the front of the log, persists it and publishes
// [LogChanged]. The query is trimmed first; a blank query, or one that is not
// valid UTF-8, is ignored and publishes nothing. Matching is exact and
// case-sensitive.
func (l *SearchLog) Record(query string) {
	query = strings.TrimSpace(query)
	if query == "" || !utf8.ValidString(query) {
		l.logger.Debug("search not recorded", "error", ErrInvalidInput)
		return
	}

	l.mu.Lock()
	next := make([]string, 0, MaxRecentSearches)
	next = append(next, query)
	for _, q := range l.queries {
		if len(next) == MaxRecentSearches {
			break
		}
		if q != query {
			next = append(next, q)
		}
	}
	l.queries = next
	snapshot := slices.Clone(next)
	if !l.storage.Write(KeyRecentSearches, codec.Encode(snapshot)) {
		l.logger.Debug("search log kept in memory only")
	}
	l.mu.Unlock()

	l.notifier.Publish(LogChanged{Queries: snapshot})
}

// List returns the recent queries, most recent first. The slice is a copy.
func (l *SearchLog) List() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.queries)
}

// Len returns the number of queries in the log.
func (l *SearchLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.queries)
}

// normalizeQueries trims entries and drops blanks and duplicates, keeping the
// first (most recent) occurrence, capped at MaxRecentSearches.
func normalizeQueries(stored []string) []string {
	out := make([]string, 0, min(len(stored), MaxRecentSearches))
	seen := make(map[string]struct{}, len(stored))
	for _, q := range stored {
		if len(out) == MaxRecentSearches {
			break
		}
		q = strings.TrimSpace(q)
		if q == "" {
			continue
		}
		if _, dup := seen[q]; dup {
			continue
		}
		seen[q] = struct{}{}
		out = append(out, q)
	}
	return out
}
