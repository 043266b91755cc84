package main

import (
	"fmt"
	"strings"

	"github.com/jpalmerr/sitestate"
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Manage recent searches",
}

var searchRecordCmd = &cobra.Command{
	Use:   "record <query>",
	Short: "Record a search query",
	Long: `Record a search query at the front of the recent-search log.

Arguments are joined with spaces into one query. The query is trimmed; a
blank query is ignored. The log keeps the 10 most recent distinct queries.

Example:
  sitestate search record go generics`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withState(cmd, func(st *sitestate.State) error {
			st.Searches().Record(strings.Join(args, " "))
			return nil
		})
	},
}

var searchListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent searches, most recent first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withState(cmd, func(st *sitestate.State) error {
			for i, q := range st.Searches().List() {
				fmt.Fprintf(cmd.OutOrStdout(), "%2d. %s\n", i+1, q)
			}
			return nil
		})
	},
}

func init() {
	searchCmd.AddCommand(searchRecordCmd, searchListCmd)
	rootCmd.AddCommand(searchCmd)
}
