package backend

import (
	"context"
	"errors"
)

// ErrClosed is returned by operations on a backend after Close.
var ErrClosed = errors.New("backend closed")

// Backend is a durable string-keyed store.
//
// Implementations must be safe for concurrent access. Get reports a missing
// key with found == false and a nil error.
type Backend interface {
	// Get returns the value stored under key.
	Get(ctx context.Context, key string) (value string, found bool, err error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error

	// Close releases resources held by the backend.
	Close() error
}
