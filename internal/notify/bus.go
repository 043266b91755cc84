package notify

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Handle identifies one subscription on a [Bus].
type Handle string

type subscription[E any] struct {
	handle Handle
	fn     func(E)
}

// Bus is a synchronous publish/subscribe registry keyed by event kind.
//
// Bus is safe for concurrent use. Handlers for a kind are invoked in the order
// they subscribed, on the goroutine that calls [Bus.Publish].
type Bus[K comparable, E any] struct {
	mu     sync.RWMutex
	subs   map[K][]subscription[E]
	kinds  map[Handle]K
	logger *slog.Logger
}

// NewBus creates an empty [Bus]. Handler panics are reported to logger, or to
// slog.Default() when logger is nil.
func NewBus[K comparable, E any](logger *slog.Logger) *Bus[K, E] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus[K, E]{
		subs:   make(map[K][]subscription[E]),
		kinds:  make(map[Handle]K),
		logger: logger,
	}
}

// Subscribe registers fn for events of the given kind and returns a handle
// for [Bus.Unsubscribe].
func (b *Bus[K, E]) Subscribe(kind K, fn func(E)) Handle {
	h := Handle(uuid.NewString())

	b.mu.Lock()
	b.subs[kind] = append(b.subs[kind], subscription[E]{handle: h, fn: fn})
	b.kinds[h] = kind
	b.mu.Unlock()

	return h
}

// Unsubscribe removes the subscription identified by h.
//
// It reports whether a subscription was removed. Calling it from inside a
// handler does not affect a dispatch that is already running.
func (b *Bus[K, E]) Unsubscribe(h Handle) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	kind, ok := b.kinds[h]
	if !ok {
		return false
	}
	delete(b.kinds, h)

	current := b.subs[kind]
	// build a fresh slice; in-flight dispatches hold the old one
	next := make([]subscription[E], 0, len(current))
	for _, s := range current {
		if s.handle != h {
			next = append(next, s)
		}
	}
	if len(next) == 0 {
		delete(b.subs, kind)
	} else {
		b.subs[kind] = next
	}
	return true
}

// Publish delivers ev to every handler subscribed to kind, in subscription
// order, before returning. It returns the number of handlers that completed
// without panicking.
func (b *Bus[K, E]) Publish(kind K, ev E) int {
	b.mu.RLock()
	snapshot := b.subs[kind]
	b.mu.RUnlock()

	delivered := 0
	for _, s := range snapshot {
		if b.invokeSafe(kind, s, ev) {
			delivered++
		}
	}
	return delivered
}

// Len returns the number of handlers currently subscribed to kind.
func (b *Bus[K, E]) Len(kind K) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[kind])
}

// invokeSafe calls a handler with panic recovery.
// Panics are logged but do not propagate.
func (b *Bus[K, E]) invokeSafe(kind K, s subscription[E], ev E) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panicked",
				"panic", r,
				"kind", kind,
				"subscription", string(s.handle),
			)
			ok = false
		}
	}()
	s.fn(ev)
	return true
}
