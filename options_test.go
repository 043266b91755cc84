package sitestate

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/jpalmerr/sitestate/backend"
)

func TestNew_Valid(t *testing.T) {
	st, err := New(WithBackend(backend.NewMemory()))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer st.Close()

	if st.Settings() == nil || st.Bookmarks() == nil || st.Categories() == nil || st.Searches() == nil {
		t.Fatal("New() left a store unwired")
	}
}

func TestNew_Defaults(t *testing.T) {
	st, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer st.Close()

	if got := st.Settings().Get(); got.Theme != ThemeDark || got.ViewMode != ViewList {
		t.Errorf("Settings() = %+v, want dark/list defaults", got)
	}
	if st.Storage().Key(KeyBookmarks) != KeyBookmarks {
		t.Errorf("Key() = %v, want no namespace", st.Storage().Key(KeyBookmarks))
	}
	if st.Storage().timeout != 2*time.Second {
		t.Errorf("timeout = %v, want %v", st.Storage().timeout, 2*time.Second)
	}
}

func TestWithBackend_Nil(t *testing.T) {
	_, err := New(WithBackend(nil))
	if err == nil {
		t.Fatal("New() expected error for nil backend, got nil")
	}
	if !strings.Contains(err.Error(), "backend cannot be nil") {
		t.Errorf("New() error = %v, want error containing 'backend cannot be nil'", err)
	}
	if !strings.HasPrefix(err.Error(), "invalid option: ") {
		t.Errorf("New() error = %v, want 'invalid option: ' prefix", err)
	}
}

func TestWithNamespace(t *testing.T) {
	mem := backend.NewMemory()

	st, err := New(
		WithBackend(mem),
		WithNamespace("zahuyach-"),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	st.Bookmarks().Toggle("a")

	if _, found, _ := mem.Get(t.Context(), "zahuyach-bookmarks"); !found {
		t.Errorf("Keys() = %v, want zahuyach-bookmarks", mem.Keys())
	}
	if _, found, _ := mem.Get(t.Context(), "bookmarks"); found {
		t.Error("un-namespaced key written")
	}
}

func TestWithStorageTimeout(t *testing.T) {
	st, err := New(WithStorageTimeout(250 * time.Millisecond))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if st.Storage().timeout != 250*time.Millisecond {
		t.Errorf("timeout = %v, want %v", st.Storage().timeout, 250*time.Millisecond)
	}
}

func TestWithStorageTimeout_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		timeout time.Duration
	}{
		{"zero", 0},
		{"negative", -1 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(WithStorageTimeout(tt.timeout))
			if err == nil {
				t.Errorf("New() expected error for timeout %v, got nil", tt.timeout)
			}
		})
	}
}

func TestWithDefaults(t *testing.T) {
	defaults := DefaultSettings()
	defaults.Theme = ThemeLight
	defaults.SidebarCollapsed = true

	st, err := New(WithDefaults(defaults))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	got := st.Settings().Get()
	if got.Theme != ThemeLight {
		t.Errorf("Theme = %v, want %v", got.Theme, ThemeLight)
	}
	if !got.SidebarCollapsed {
		t.Error("SidebarCollapsed = false, want true")
	}
}

func TestWithDefaults_PersistedWins(t *testing.T) {
	mem := backend.NewMemory()
	seed(mem, map[string]string{KeySettings: `{"theme":"dark"}`})

	defaults := DefaultSettings()
	defaults.Theme = ThemeLight
	defaults.ViewMode = ViewGrid

	st, err := New(WithBackend(mem), WithDefaults(defaults))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	got := st.Settings().Get()
	if got.Theme != ThemeDark {
		t.Errorf("Theme = %v, want persisted %v", got.Theme, ThemeDark)
	}
	if got.ViewMode != ViewGrid {
		t.Errorf("ViewMode = %v, want default %v", got.ViewMode, ViewGrid)
	}
}

func TestWithDefaults_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		defaults Settings
		want     string
	}{
		{"empty theme", Settings{ViewMode: ViewList}, "default theme cannot be empty"},
		{"empty view mode", Settings{Theme: ThemeDark}, "default view mode cannot be empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(WithDefaults(tt.defaults))
			if err == nil {
				t.Fatal("New() expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("New() error = %v, want error containing %q", err, tt.want)
			}
		})
	}
}

func TestWithLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	st, err := New(WithLogger(logger))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if st == nil {
		t.Fatal("New() returned nil State")
	}

	if !strings.Contains(buf.String(), "state loaded") {
		t.Errorf("log output = %q, want 'state loaded'", buf.String())
	}
}

func TestWithLogger_Nil(t *testing.T) {
	_, err := New(WithLogger(nil))
	if err == nil {
		t.Error("New() expected error for nil logger, got nil")
	}
	if err != nil && !strings.Contains(err.Error(), "logger cannot be nil") {
		t.Errorf("New() error = %v, want error containing 'logger cannot be nil'", err)
	}
}

func TestWithLogger_ReceivesStorageFailures(t *testing.T) {
	var buf bytes.Buffer
	fb := newFlakyBackend()
	fb.set(true, true, false)

	st, err := New(WithBackend(fb), WithLogger(newTestLogger(&buf)))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	st.Bookmarks().Toggle("a")

	out := buf.String()
	if !strings.Contains(out, "storage operation failed") {
		t.Errorf("log output missing storage failure: %s", out)
	}
	if !strings.Contains(out, "component=storage") {
		t.Errorf("log output missing component attribute: %s", out)
	}
}

func TestWithSubscriber_UnknownKind(t *testing.T) {
	_, err := New(WithSubscriber("bogus", func(Event) {}))
	if err == nil {
		t.Fatal("New() expected error for unknown event kind, got nil")
	}
	if !strings.Contains(err.Error(), `unknown event kind "bogus"`) {
		t.Errorf("New() error = %v, want error naming the kind", err)
	}
}

func TestWithSubscriber_NilIsIgnored(t *testing.T) {
	st, err := New(WithSubscriber(EventSetChanged, nil))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if n := st.Notifier().Subscribers(EventSetChanged); n != 0 {
		t.Errorf("Subscribers() = %d, want 0", n)
	}

	// must not panic
	st.Bookmarks().Toggle("a")
}
