package sitestate

import (
	"bytes"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jpalmerr/sitestate/backend"
)

func TestWithSubscriber_InvokedOnMutation(t *testing.T) {
	var calls atomic.Int32

	st, err := New(WithSubscriber(EventSetChanged, func(Event) {
		calls.Add(1)
	}))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	st.Bookmarks().Toggle("a")
	st.Categories().Toggle("go")

	if got := calls.Load(); got != 2 {
		t.Errorf("calls = %d, want 2", got)
	}
}

func TestWithSubscriber_ReceivesCorrectFields(t *testing.T) {
	var got SettingsChanged

	st, err := New(WithSubscriber(EventSettingsChanged, func(ev Event) {
		got = ev.(SettingsChanged)
	}))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	st.Settings().Update(SettingsPatch{}.WithSidebarCollapsed(true))

	if !got.Settings.SidebarCollapsed {
		t.Error("SidebarCollapsed = false, want true")
	}
	if got.Settings.Theme != ThemeDark {
		t.Errorf("Theme = %v, want full settings value with %v", got.Settings.Theme, ThemeDark)
	}
}

func TestWithSubscriber_PanicRecovery(t *testing.T) {
	var normalCalled atomic.Bool

	// capture log output to verify the panic was logged
	var logBuf bytes.Buffer

	st, err := New(
		WithLogger(newTestLogger(&logBuf)),
		WithSubscriber(EventLogChanged, func(Event) {
			panic("intentional test panic")
		}),
		WithSubscriber(EventLogChanged, func(Event) {
			normalCalled.Store(true)
		}),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	// should not panic
	st.Searches().Record("htmx")

	if !normalCalled.Load() {
		t.Error("subsequent subscribers should still run after panic")
	}
	if !strings.Contains(logBuf.String(), "intentional test panic") {
		t.Errorf("panic should have been logged, got %q", logBuf.String())
	}
	if st.Searches().Len() != 1 {
		t.Errorf("Len() = %d, want 1 despite panicking subscriber", st.Searches().Len())
	}
}

func TestWithSubscriber_ExecutionOrder(t *testing.T) {
	var order []string

	st, err := New(
		WithSubscriber(EventSetChanged, func(Event) { order = append(order, "first") }),
		WithSubscriber(EventSetChanged, func(Event) { order = append(order, "second") }),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	st.Notifier().OnSetChanged(func(SetChanged) { order = append(order, "late") })

	st.Bookmarks().Toggle("a")

	want := []string{"first", "second", "late"}
	if strings.Join(order, ",") != strings.Join(want, ",") {
		t.Errorf("order = %v, want %v", order, want)
	}
}

func TestWithSubscriber_LoadPublishesNothing(t *testing.T) {
	mem := backend.NewMemory()
	seed(mem, map[string]string{
		KeySettings:       `{"theme":"light"}`,
		KeyBookmarks:      `["a"]`,
		KeyRecentSearches: `["q"]`,
	})

	var calls atomic.Int32
	count := func(Event) { calls.Add(1) }

	_, err := New(
		WithBackend(mem),
		WithStorageTimeout(time.Second),
		WithSubscriber(EventSettingsChanged, count),
		WithSubscriber(EventSetChanged, count),
		WithSubscriber(EventLogChanged, count),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if got := calls.Load(); got != 0 {
		t.Errorf("events during load = %d, want 0", got)
	}
}
