package main

import (
	"errors"
	"fmt"

	"github.com/jpalmerr/sitestate"
	"github.com/spf13/cobra"
)

// wipeCmd removes every persisted key, the way a reader clears site data.
var wipeCmd = &cobra.Command{
	Use:   "wipe",
	Short: "Remove all persisted state",
	Long: `Remove the settings, bookmarks, expanded categories and recent searches
from the configured backend. The next run starts from defaults.

Only keys under the configured namespace are removed.

Example:
  sitestate wipe --yes`,
	Args: cobra.NoArgs,
	RunE: runWipe,
}

func init() {
	rootCmd.AddCommand(wipeCmd)

	wipeCmd.Flags().Bool("yes", false, "confirm removal")
}

func runWipe(cmd *cobra.Command, args []string) error {
	yes, _ := cmd.Flags().GetBool("yes")
	if !yes {
		return errors.New("refusing to wipe state without --yes")
	}

	return withState(cmd, func(st *sitestate.State) error {
		if !st.Wipe() {
			return errors.New("wipe incomplete, see log for failed keys")
		}
		fmt.Fprintln(cmd.OutOrStdout(), "State wiped.")
		return nil
	})
}
