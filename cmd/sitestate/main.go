// Package main is the entry point for the sitestate CLI.
//
// The CLI reads and changes the interaction state a site persists: settings,
// bookmarks, expanded categories and recent searches. Every change prints the
// events the state layer publishes, the same events a site's views receive.
//
// Usage:
//
//	sitestate bookmark toggle htmx-tips   # Bookmark or un-bookmark a post
//	sitestate search record "go generics" # Record a search
//	sitestate settings toggle-view        # Switch list/grid view
//	sitestate validate -c sitestate.yaml  # Validate configuration
//	sitestate version                     # Show version info
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information - set by GoReleaser at build time via ldflags.
// Example: go build -ldflags "-X main.version=1.0.0"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCmd is the base command when called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "sitestate",
	Short: "Inspect and change persisted site interaction state",
	Long: `sitestate reads and changes the interaction state a content site keeps
for its reader: settings, bookmarks, expanded categories and recent searches.

State is stored in the backend named by the config file (a JSON file under
~/.local/share/sitestate by default). Every change prints the events the
state layer publishes.

Example config:
  namespace: "zahuyach-"
  backend:
    type: sqlite
    path: /var/lib/site/state.db
  defaults:
    theme: dark
    view_mode: list`,
	SilenceUsage: true,
}

// Execute runs the root command.
// This is the main entry point called from main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error, just exit with code 1
		os.Exit(1)
	}
}

func main() {
	Execute()
}

// versionCmd prints version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print the version, commit hash, and build date of this sitestate binary.`,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "sitestate %s\n", version)
		fmt.Fprintf(out, "  commit: %s\n", commit)
		fmt.Fprintf(out, "  built:  %s\n", date)
	},
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "path to config file (YAML or .toml)")

	rootCmd.AddCommand(versionCmd)
}
