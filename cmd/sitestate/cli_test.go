package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// executeCmd runs the root command with args and returns captured stdout and
// any error.
func executeCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	// capture stdout
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	rootCmd.SetArgs(args)
	err := rootCmd.Execute()

	// restore stdout
	_ = w.Close()
	os.Stdout = old
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)

	return buf.String(), err
}

// resetFlags restores every flag to its default, since rootCmd is shared by
// all tests.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

// writeConfig writes a config using a file backend inside a temp dir.
func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	configPath := filepath.Join(dir, "sitestate.yaml")

	content := `
namespace: "zahuyach-"
log_level: error
backend:
  type: file
  path: ` + filepath.Join(dir, "state.json") + `
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return configPath
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := executeCmd(t, args...)
	if err != nil {
		t.Fatalf("%v error = %v", args, err)
	}
	return out
}

func TestBookmark_ToggleListCount(t *testing.T) {
	cfg := writeConfig(t)

	out := mustRun(t, "bookmark", "toggle", "htmx-tips", "go-generics", "-c", cfg)
	if !strings.Contains(out, "htmx-tips") || !strings.Contains(out, "Bookmark added") {
		t.Errorf("toggle output = %q, want added events", out)
	}

	out = mustRun(t, "bookmark", "list", "-c", cfg)
	if out != "htmx-tips\ngo-generics\n" {
		t.Errorf("list output = %q", out)
	}

	out = mustRun(t, "bookmark", "toggle", "htmx-tips", "-c", cfg)
	if !strings.Contains(out, "Bookmark removed") {
		t.Errorf("toggle output = %q, want removed event", out)
	}

	out = mustRun(t, "bookmark", "count", "-c", cfg)
	if strings.TrimSpace(out) != "1" {
		t.Errorf("count output = %q, want 1", out)
	}
}

func TestCategory_ToggleList(t *testing.T) {
	cfg := writeConfig(t)

	out := mustRun(t, "category", "toggle", "backend", "-c", cfg)
	if !strings.Contains(out, "categories:") {
		t.Errorf("toggle output = %q, want a categories event", out)
	}
	if strings.Contains(out, "Bookmark") {
		t.Errorf("category toggle printed a bookmark notice: %q", out)
	}

	out = mustRun(t, "category", "list", "-c", cfg)
	if out != "backend\n" {
		t.Errorf("list output = %q, want backend", out)
	}

	// bookmarks are a separate set
	out = mustRun(t, "bookmark", "count", "-c", cfg)
	if strings.TrimSpace(out) != "0" {
		t.Errorf("bookmark count = %q, want 0", out)
	}
}

func TestSearch_RecordList(t *testing.T) {
	cfg := writeConfig(t)

	mustRun(t, "search", "record", "sqlite", "-c", cfg)
	mustRun(t, "search", "record", "go", "generics", "-c", cfg)
	out := mustRun(t, "search", "record", "sqlite", "-c", cfg)
	if !strings.Contains(out, "recent searches: sqlite, go generics") {
		t.Errorf("record output = %q", out)
	}

	out = mustRun(t, "search", "list", "-c", cfg)
	want := " 1. sqlite\n 2. go generics\n"
	if out != want {
		t.Errorf("list output = %q, want %q", out, want)
	}
}

func TestSearch_BlankQueryPrintsNothing(t *testing.T) {
	cfg := writeConfig(t)

	out := mustRun(t, "search", "record", "   ", "-c", cfg)
	if out != "" {
		t.Errorf("record output = %q, want no event", out)
	}
}

func TestSettings_ShowDefaults(t *testing.T) {
	cfg := writeConfig(t)

	out := mustRun(t, "settings", "show", "-c", cfg)
	want := `{"searchModalOpen":false,"sidebarCollapsed":false,"theme":"dark","viewMode":"list"}` + "\n"
	if out != want {
		t.Errorf("show output = %q, want %q", out, want)
	}
}

func TestSettings_SetAndToggle(t *testing.T) {
	cfg := writeConfig(t)

	out := mustRun(t, "settings", "set", "theme=light", "sidebar_collapsed=true", "fontSize=16", "-c", cfg)
	if strings.Count(out, "settings:") != 1 {
		t.Errorf("set output = %q, want exactly one event", out)
	}

	out = mustRun(t, "settings", "toggle-view", "-c", cfg)
	if !strings.Contains(out, "view=grid") {
		t.Errorf("toggle-view output = %q, want view=grid", out)
	}

	out = mustRun(t, "settings", "toggle-theme", "-c", cfg)
	if !strings.Contains(out, "theme=dark") {
		t.Errorf("toggle-theme output = %q, want theme=dark", out)
	}

	out = mustRun(t, "settings", "show", "-c", cfg)
	for _, want := range []string{`"fontSize":16`, `"sidebarCollapsed":true`, `"viewMode":"grid"`, `"theme":"dark"`} {
		if !strings.Contains(out, want) {
			t.Errorf("show output missing %s: %s", want, out)
		}
	}
}

func TestSettings_SetInvalid(t *testing.T) {
	cfg := writeConfig(t)

	tests := []struct {
		name        string
		arg         string
		wantErrLike string
	}{
		{"no equals", "theme", "want key=value"},
		{"empty key", "=dark", "want key=value"},
		{"bad theme", "theme=solarized", "theme must be dark or light"},
		{"bad view", "view_mode=table", "view_mode must be list or grid"},
		{"bad bool", "sidebar_collapsed=maybe", "sidebar_collapsed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := executeCmd(t, "settings", "set", tt.arg, "-c", cfg)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErrLike) {
				t.Errorf("error = %q, want to contain %q", err.Error(), tt.wantErrLike)
			}
		})
	}
}

func TestParseAssignments_Extra(t *testing.T) {
	patch, err := parseAssignments([]string{"fontSize=16", "font=serif", "flags={\"a\":true}"})
	if err != nil {
		t.Fatalf("parseAssignments() error = %v", err)
	}

	want := map[string]string{
		"fontSize": `16`,
		"font":     `"serif"`,
		"flags":    `{"a":true}`,
	}
	for k, v := range want {
		if string(patch.Extra[k]) != v {
			t.Errorf("Extra[%s] = %s, want %s", k, patch.Extra[k], v)
		}
	}
}

func TestWipe(t *testing.T) {
	cfg := writeConfig(t)

	mustRun(t, "bookmark", "toggle", "a", "-c", cfg)

	if _, err := executeCmd(t, "wipe", "-c", cfg); err == nil {
		t.Fatal("wipe without --yes expected error, got nil")
	}
	if out := mustRun(t, "bookmark", "count", "-c", cfg); strings.TrimSpace(out) != "1" {
		t.Errorf("count after refused wipe = %q, want 1", out)
	}

	out := mustRun(t, "wipe", "--yes", "-c", cfg)
	if !strings.Contains(out, "State wiped.") {
		t.Errorf("wipe output = %q", out)
	}
	if out := mustRun(t, "bookmark", "count", "-c", cfg); strings.TrimSpace(out) != "0" {
		t.Errorf("count after wipe = %q, want 0", out)
	}
}

func TestVersion(t *testing.T) {
	out := mustRun(t, "version")
	if !strings.Contains(out, "sitestate dev") {
		t.Errorf("version output = %q", out)
	}
}
