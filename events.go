package sitestate

// EventKind identifies one of the change events a [Notifier] delivers.
type EventKind string

const (
	// EventSettingsChanged is published after every settings update.
	EventSettingsChanged EventKind = "settings_changed"

	// EventSetChanged is published after every bookmark or category toggle.
	EventSetChanged EventKind = "set_changed"

	// EventLogChanged is published after a search is recorded.
	EventLogChanged EventKind = "log_changed"
)

// Event is a change notification. The set of events is closed:
// [SettingsChanged], [SetChanged] and [LogChanged].
//
// Slices and maps inside an event are shared by every handler of one
// publish; handlers must treat them as read-only.
type Event interface {
	// Kind returns the event's kind, used for subscription routing.
	Kind() EventKind

	event()
}

// SetKind names the toggle set a [SetChanged] event refers to.
type SetKind string

const (
	// SetBookmarks is the bookmarked-content set.
	SetBookmarks SetKind = "bookmarks"

	// SetCategories is the expanded-category set.
	SetCategories SetKind = "categories"
)

// SettingsChanged carries the full settings value after an update.
type SettingsChanged struct {
	Settings Settings
}

// Kind implements [Event].
func (SettingsChanged) Kind() EventKind { return EventSettingsChanged }

func (SettingsChanged) event() {}

// SetChanged reports a toggle on a bookmark or category set.
type SetChanged struct {
	// Set is the collection that changed.
	Set SetKind

	// Items is the full set after the toggle, in display order.
	Items []string

	// ID is the identifier that was toggled.
	ID string

	// Added is true if ID joined the set, false if it left.
	Added bool
}

// Kind implements [Event].
func (SetChanged) Kind() EventKind { return EventSetChanged }

func (SetChanged) event() {}

// Notice returns the confirmation text a UI shows after a bookmark toggle.
// Category toggles have no notice and return "".
func (e SetChanged) Notice() string {
	if e.Set != SetBookmarks {
		return ""
	}
	if e.Added {
		return "Bookmark added"
	}
	return "Bookmark removed"
}

// LogChanged carries the recent-search log after a search is recorded,
// most recent first.
type LogChanged struct {
	Queries []string
}

// Kind implements [Event].
func (LogChanged) Kind() EventKind { return EventLogChanged }

func (LogChanged) event() {}
