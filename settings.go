package sitestate

import (
	"encoding/json"
	"log/slog"
	"maps"
	"sync"

	"github.com/jpalmerr/sitestate/internal/codec"
)

// Theme is the site's color scheme.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// ViewMode is the layout of content listings.
type ViewMode string

const (
	ViewList ViewMode = "list"
	ViewGrid ViewMode = "grid"
)

// persisted field names for the known settings
const (
	fieldTheme            = "theme"
	fieldViewMode         = "viewMode"
	fieldSidebarCollapsed = "sidebarCollapsed"
	fieldSearchModalOpen  = "searchModalOpen"
)

func isKnownField(name string) bool {
	switch name {
	case fieldTheme, fieldViewMode, fieldSidebarCollapsed, fieldSearchModalOpen:
		return true
	}
	return false
}

// Settings holds user preferences.
//
// Settings persists as a JSON object. Fields this version does not know about
// are kept in Extra and written back with the same JSON value, so a newer
// site version can share the same storage. Whitespace inside those values is
// compacted on write.
type Settings struct {
	Theme            Theme
	ViewMode         ViewMode
	SidebarCollapsed bool
	SearchModalOpen  bool

	// Extra holds unknown persisted fields as raw JSON. Never interpreted.
	// Entries that are not valid JSON are dropped on write.
	Extra map[string]json.RawMessage
}

// DefaultSettings returns the settings used when nothing is stored:
// dark theme, list view, sidebar expanded, search modal closed.
func DefaultSettings() Settings {
	return Settings{
		Theme:    ThemeDark,
		ViewMode: ViewList,
	}
}

// Clone returns a copy of s that shares no maps with it.
func (s Settings) Clone() Settings {
	out := s
	if s.Extra != nil {
		out.Extra = make(map[string]json.RawMessage, len(s.Extra))
		for k, v := range s.Extra {
			out.Extra[k] = append(json.RawMessage(nil), v...)
		}
	}
	return out
}

// MarshalJSON implements json.Marshaler.
func (s Settings) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(s.Extra)+4)
	for k, v := range s.Extra {
		if !isKnownField(k) && json.Valid(v) {
			out[k] = v
		}
	}

	// strings and bools always marshal
	out[fieldTheme], _ = json.Marshal(s.Theme)
	out[fieldViewMode], _ = json.Marshal(s.ViewMode)
	out[fieldSidebarCollapsed], _ = json.Marshal(s.SidebarCollapsed)
	out[fieldSearchModalOpen], _ = json.Marshal(s.SearchModalOpen)

	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler.
//
// Fields present in data overwrite the receiver's values; fields absent from
// data keep them. A known field holding the wrong JSON type (or null) is
// ignored so one bad field does not discard the rest.
func (s *Settings) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	for name, raw := range fields {
		if string(raw) == "null" && isKnownField(name) {
			continue
		}
		switch name {
		case fieldTheme:
			var v Theme
			if json.Unmarshal(raw, &v) == nil && v != "" {
				s.Theme = v
			}
		case fieldViewMode:
			var v ViewMode
			if json.Unmarshal(raw, &v) == nil && v != "" {
				s.ViewMode = v
			}
		case fieldSidebarCollapsed:
			var v bool
			if json.Unmarshal(raw, &v) == nil {
				s.SidebarCollapsed = v
			}
		case fieldSearchModalOpen:
			var v bool
			if json.Unmarshal(raw, &v) == nil {
				s.SearchModalOpen = v
			}
		default:
			if s.Extra == nil {
				s.Extra = make(map[string]json.RawMessage)
			}
			s.Extra[name] = append(json.RawMessage(nil), raw...)
		}
	}
	return nil
}

// SettingsPatch is a partial settings update. Nil fields are left unchanged.
//
// Extra entries are merged into [Settings.Extra]; entries named like a known
// field are ignored, use the typed fields for those. Entries that are not
// valid JSON are ignored too.
type SettingsPatch struct {
	Theme            *Theme
	ViewMode         *ViewMode
	SidebarCollapsed *bool
	SearchModalOpen  *bool
	Extra            map[string]json.RawMessage
}

// WithTheme returns a copy of p that sets the theme.
func (p SettingsPatch) WithTheme(t Theme) SettingsPatch {
	p.Theme = &t
	return p
}

// WithViewMode returns a copy of p that sets the view mode.
func (p SettingsPatch) WithViewMode(m ViewMode) SettingsPatch {
	p.ViewMode = &m
	return p
}

// WithSidebarCollapsed returns a copy of p that sets the sidebar state.
func (p SettingsPatch) WithSidebarCollapsed(collapsed bool) SettingsPatch {
	p.SidebarCollapsed = &collapsed
	return p
}

// WithSearchModalOpen returns a copy of p that sets the search modal state.
func (p SettingsPatch) WithSearchModalOpen(open bool) SettingsPatch {
	p.SearchModalOpen = &open
	return p
}

// WithExtra returns a copy of p that sets an unknown field to a raw JSON value.
func (p SettingsPatch) WithExtra(name string, raw json.RawMessage) SettingsPatch {
	extra := make(map[string]json.RawMessage, len(p.Extra)+1)
	maps.Copy(extra, p.Extra)
	extra[name] = raw
	p.Extra = extra
	return p
}

// apply shallow-merges p into s, which must not be shared.
func (p SettingsPatch) apply(s Settings) Settings {
	if p.Theme != nil {
		s.Theme = *p.Theme
	}
	if p.ViewMode != nil {
		s.ViewMode = *p.ViewMode
	}
	if p.SidebarCollapsed != nil {
		s.SidebarCollapsed = *p.SidebarCollapsed
	}
	if p.SearchModalOpen != nil {
		s.SearchModalOpen = *p.SearchModalOpen
	}
	for k, v := range p.Extra {
		if isKnownField(k) || !json.Valid(v) {
			continue
		}
		if s.Extra == nil {
			s.Extra = make(map[string]json.RawMessage)
		}
		s.Extra[k] = append(json.RawMessage(nil), v...)
	}
	return s
}

// SettingsStore owns the persisted [Settings].
//
// The stored value is read once at construction and overlaid on the defaults.
// Every update writes through to storage and publishes [SettingsChanged].
// Persistence is best-effort: if the write fails the in-memory value still
// changes and the event is still published.
type SettingsStore struct {
	mu       sync.Mutex
	current  Settings
	storage  *Storage
	notifier *Notifier
	logger   *slog.Logger
}

// NewSettingsStore loads settings from storage, falling back to defaults for
// any field that is absent or unreadable.
func NewSettingsStore(storage *Storage, notifier *Notifier, defaults Settings) *SettingsStore {
	storage, notifier = ensureWiring(storage, notifier)

	current := defaults.Clone()
	load(storage, KeySettings, &current)

	return &SettingsStore{
		current:  current,
		storage:  storage,
		notifier: notifier,
		logger:   storage.logger.With("store", KeySettings),
	}
}

// Get returns a copy of the current settings.
func (s *SettingsStore) Get() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Clone()
}

// Update merges patch into the current settings, persists them and publishes
// [SettingsChanged] with the full new value. Extra entries that are not valid
// JSON are logged and skipped.
func (s *SettingsStore) Update(patch SettingsPatch) {
	for k, v := range patch.Extra {
		if !json.Valid(v) {
			s.logger.Warn("ignoring setting with invalid JSON value",
				"field", k,
				"error", ErrInvalidInput,
			)
		}
	}

	next := s.commit(patch)
	s.notifier.Publish(SettingsChanged{Settings: next})
}

// commit applies patch and writes the result through. The new value is
// encoded before it replaces the current one.
func (s *SettingsStore) commit(patch SettingsPatch) Settings {
	s.mu.Lock()
	defer s.mu.Unlock()

	candidate := patch.apply(s.current.Clone())
	raw := codec.Encode(candidate)
	s.current = candidate
	if !s.storage.Write(KeySettings, raw) {
		s.logger.Debug("settings kept in memory only")
	}
	return candidate.Clone()
}

// ToggleViewMode switches between list and grid view and returns the new mode.
// Any mode other than grid switches to grid.
func (s *SettingsStore) ToggleViewMode() ViewMode {
	next := ViewGrid
	if s.Get().ViewMode == ViewGrid {
		next = ViewList
	}
	s.Update(SettingsPatch{}.WithViewMode(next))
	return next
}

// ToggleTheme switches between dark and light and returns the new theme.
// Any theme other than dark switches to dark.
func (s *SettingsStore) ToggleTheme() Theme {
	next := ThemeDark
	if s.Get().Theme == ThemeDark {
		next = ThemeLight
	}
	s.Update(SettingsPatch{}.WithTheme(next))
	return next
}

// SetSearchModalOpen records whether the search modal is open.
func (s *SettingsStore) SetSearchModalOpen(open bool) {
	s.Update(SettingsPatch{}.WithSearchModalOpen(open))
}

// ensureWiring substitutes session-only defaults for missing collaborators.
func ensureWiring(storage *Storage, notifier *Notifier) (*Storage, *Notifier) {
	if storage == nil {
		storage = NewStorage(nil, "", 0, nil)
	}
	if notifier == nil {
		notifier = NewNotifier(nil)
	}
	return storage, notifier
}
