// Package sitestate provides a persistent interaction-state store for content
// sites: user preferences and interaction history that survive restarts, with
// synchronous change notification so any number of independent views stay in
// step with the stored state.
//
// sitestate is designed to be embedded. A site's rendering layer calls the
// stores when the user acts and subscribes to events to re-render; the stores
// never render anything themselves.
//
// # Quick Start
//
// Open a backend, create the state, subscribe, mutate:
//
//	b, _ := backend.NewFile("state.json")
//	st, _ := sitestate.New(sitestate.WithBackend(b))
//	defer st.Close()
//
//	st.Notifier().OnSetChanged(func(e sitestate.SetChanged) {
//	    fmt.Println(e.Notice(), e.ID)
//	})
//
//	st.Bookmarks().Toggle("htmx-tips") // prints "Bookmark added htmx-tips"
//
// # Collections
//
// Four collections are persisted, each under its own key:
//
//   - [SettingsStore] ("settings"): theme, view mode, sidebar and search
//     modal state, plus unknown fields preserved for forward compatibility
//   - bookmark [ToggleSet] ("bookmarks"): content slugs, toggled on and off
//   - category [ToggleSet] ("expanded-categories"): expanded tree nodes
//   - [SearchLog] ("recent-searches"): the last [MaxRecentSearches] distinct
//     queries, most recent first
//
// # Events
//
// Every mutation publishes exactly one event through the [Notifier]:
// [SettingsChanged], [SetChanged] or [LogChanged]. Reads never publish.
// Handlers run synchronously, in subscription order, before the mutating call
// returns.
//
// # Failure Model
//
// Nothing in sitestate is fatal. Backend failures are absorbed by [Storage]
// and logged as [ErrStorageUnavailable]; stored values that cannot be decoded
// ([DecodeError]) are replaced by defaults. In both cases the stores keep
// working in memory and events keep flowing, so a site with broken storage
// degrades to session-only behavior.
//
// # Architecture
//
//   - backend: durable key-value backings (memory, JSON file, SQLite, Redis)
//   - config: YAML/TOML configuration for the sitestate CLI
//   - internal/codec: typed value <-> stored string conversion
//   - internal/notify: generic synchronous publish/subscribe engine
//   - cmd/sitestate: command-line access to a persisted state
package sitestate
