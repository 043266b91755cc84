package sitestate

import (
	"log/slog"

	"github.com/jpalmerr/sitestate/internal/notify"
)

// Subscription identifies a handler registered on a [Notifier].
type Subscription struct {
	handle notify.Handle
}

// ID returns the subscription's unique identifier.
func (s Subscription) ID() string {
	return string(s.handle)
}

// Notifier broadcasts store changes to subscribed handlers.
//
// Publish is synchronous: handlers for an event kind run in subscription
// order, on the caller's goroutine, before Publish returns. A handler that
// panics is recovered and logged and the remaining handlers still run.
// Unsubscribing from inside a handler takes effect on the next publish.
type Notifier struct {
	bus *notify.Bus[EventKind, Event]
}

// NewNotifier creates a [Notifier]. Handler panics are logged to logger, or to
// slog.Default() when logger is nil.
func NewNotifier(logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{
		bus: notify.NewBus[EventKind, Event](logger.With("component", "notifier")),
	}
}

// Subscribe registers fn for every event of the given kind.
func (n *Notifier) Subscribe(kind EventKind, fn func(Event)) Subscription {
	return Subscription{handle: n.bus.Subscribe(kind, fn)}
}

// Unsubscribe removes a handler. It reports whether the subscription existed.
func (n *Notifier) Unsubscribe(sub Subscription) bool {
	return n.bus.Unsubscribe(sub.handle)
}

// Publish delivers ev to its kind's handlers and returns how many completed
// without panicking. A nil event is ignored.
func (n *Notifier) Publish(ev Event) int {
	if ev == nil {
		return 0
	}
	return n.bus.Publish(ev.Kind(), ev)
}

// Subscribers returns the number of handlers registered for kind.
func (n *Notifier) Subscribers(kind EventKind) int {
	return n.bus.Len(kind)
}

// OnSettingsChanged subscribes a typed handler to [SettingsChanged].
func (n *Notifier) OnSettingsChanged(fn func(SettingsChanged)) Subscription {
	return n.Subscribe(EventSettingsChanged, func(ev Event) {
		if e, ok := ev.(SettingsChanged); ok {
			fn(e)
		}
	})
}

// OnSetChanged subscribes a typed handler to [SetChanged]. The handler sees
// both bookmark and category toggles; filter on [SetChanged.Set].
func (n *Notifier) OnSetChanged(fn func(SetChanged)) Subscription {
	return n.Subscribe(EventSetChanged, func(ev Event) {
		if e, ok := ev.(SetChanged); ok {
			fn(e)
		}
	})
}

// OnLogChanged subscribes a typed handler to [LogChanged].
func (n *Notifier) OnLogChanged(fn func(LogChanged)) Subscription {
	return n.Subscribe(EventLogChanged, func(ev Event) {
		if e, ok := ev.(LogChanged); ok {
			fn(e)
		}
	})
}
