// Package notify provides the synchronous publish/subscribe engine behind
// sitestate's change notifications.
//
// This package is internal to sitestate. The public, typed event surface is
// the root package's Notifier, which is built on [Bus].
//
// The main components are:
//
//   - [Bus]: Keyed handler registry with in-order synchronous dispatch
//   - [Handle]: Opaque subscription identifier used to unsubscribe
//
// Dispatch runs on the publisher's goroutine and completes before Publish
// returns. A handler that panics is recovered and logged so the remaining
// handlers still run. Dispatch iterates a snapshot of the handler list, so
// subscribing or unsubscribing from inside a handler takes effect on the next
// publish.
package notify
