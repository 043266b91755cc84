package sitestate

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/jpalmerr/sitestate/backend"
)

var errBackendDown = errors.New("backend down")

// flakyBackend wraps a Memory backend and fails or panics on demand.
type flakyBackend struct {
	*backend.Memory

	mu         sync.Mutex
	failReads  bool
	failWrites bool
	panicking  bool
	writes     int
}

func newFlakyBackend() *flakyBackend {
	return &flakyBackend{Memory: backend.NewMemory()}
}

func (f *flakyBackend) set(failReads, failWrites, panicking bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failReads = failReads
	f.failWrites = failWrites
	f.panicking = panicking
}

func (f *flakyBackend) Get(ctx context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	failReads, panicking := f.failReads, f.panicking
	f.mu.Unlock()

	if panicking {
		panic("driver corrupted")
	}
	if failReads {
		return "", false, errBackendDown
	}
	return f.Memory.Get(ctx, key)
}

func (f *flakyBackend) Set(ctx context.Context, key, value string) error {
	f.mu.Lock()
	failWrites, panicking := f.failWrites, f.panicking
	f.writes++
	f.mu.Unlock()

	if panicking {
		panic("driver corrupted")
	}
	if failWrites {
		return errBackendDown
	}
	return f.Memory.Set(ctx, key, value)
}

func (f *flakyBackend) Remove(ctx context.Context, key string) error {
	f.mu.Lock()
	failWrites := f.failWrites
	f.mu.Unlock()

	if failWrites {
		return errBackendDown
	}
	return f.Memory.Remove(ctx, key)
}

func (f *flakyBackend) writeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.writes
}

// newTestLogger returns a logger writing text records to buf.
func newTestLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// eventRecorder captures every event published on a Notifier.
type eventRecorder struct {
	mu     sync.Mutex
	events []Event
}

func recordEvents(n *Notifier) *eventRecorder {
	r := &eventRecorder{}
	for _, kind := range []EventKind{EventSettingsChanged, EventSetChanged, EventLogChanged} {
		n.Subscribe(kind, func(ev Event) {
			r.mu.Lock()
			r.events = append(r.events, ev)
			r.mu.Unlock()
		})
	}
	return r
}

func (r *eventRecorder) all() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// seed writes raw values straight into a backend, bypassing the stores.
func seed(b backend.Backend, values map[string]string) {
	for k, v := range values {
		_ = b.Set(context.Background(), k, v)
	}
}
