package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/jpalmerr/sitestate"
	"github.com/jpalmerr/sitestate/internal/codec"
	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show and change settings",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current settings as JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withState(cmd, func(st *sitestate.State) error {
			fmt.Fprintln(cmd.OutOrStdout(), codec.Encode(st.Settings().Get()))
			return nil
		})
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key=value>...",
	Short: "Change one or more settings",
	Long: `Change one or more settings in a single update.

Known keys:
  theme              dark | light
  view_mode          list | grid
  sidebar_collapsed  true | false
  search_modal_open  true | false

Any other key is stored verbatim for newer site versions. Its value is
stored as JSON if it parses as JSON, otherwise as a string.

Example:
  sitestate settings set theme=light view_mode=grid`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		patch, err := parseAssignments(args)
		if err != nil {
			return err
		}
		return withState(cmd, func(st *sitestate.State) error {
			st.Settings().Update(patch)
			return nil
		})
	},
}

var settingsToggleViewCmd = &cobra.Command{
	Use:   "toggle-view",
	Short: "Switch between list and grid view",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withState(cmd, func(st *sitestate.State) error {
			st.Settings().ToggleViewMode()
			return nil
		})
	},
}

var settingsToggleThemeCmd = &cobra.Command{
	Use:   "toggle-theme",
	Short: "Switch between dark and light theme",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withState(cmd, func(st *sitestate.State) error {
			st.Settings().ToggleTheme()
			return nil
		})
	},
}

// parseAssignments turns key=value arguments into one settings patch.
func parseAssignments(args []string) (sitestate.SettingsPatch, error) {
	var patch sitestate.SettingsPatch

	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return patch, fmt.Errorf("invalid assignment %q, want key=value", arg)
		}

		switch key {
		case "theme":
			switch value {
			case string(sitestate.ThemeDark), string(sitestate.ThemeLight):
				patch = patch.WithTheme(sitestate.Theme(value))
			default:
				return patch, fmt.Errorf("theme must be dark or light, got %q", value)
			}
		case "view_mode", "viewMode":
			switch value {
			case string(sitestate.ViewList), string(sitestate.ViewGrid):
				patch = patch.WithViewMode(sitestate.ViewMode(value))
			default:
				return patch, fmt.Errorf("view_mode must be list or grid, got %q", value)
			}
		case "sidebar_collapsed", "sidebarCollapsed":
			b, err := strconv.ParseBool(value)
			if err != nil {
				return patch, fmt.Errorf("sidebar_collapsed: %w", err)
			}
			patch = patch.WithSidebarCollapsed(b)
		case "search_modal_open", "searchModalOpen":
			b, err := strconv.ParseBool(value)
			if err != nil {
				return patch, fmt.Errorf("search_modal_open: %w", err)
			}
			patch = patch.WithSearchModalOpen(b)
		default:
			raw := json.RawMessage(value)
			if !json.Valid(raw) {
				raw = json.RawMessage(codec.Encode(value))
			}
			patch = patch.WithExtra(key, raw)
		}
	}

	return patch, nil
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd, settingsSetCmd, settingsToggleViewCmd, settingsToggleThemeCmd)
	rootCmd.AddCommand(settingsCmd)
}
