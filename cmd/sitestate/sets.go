package main

import (
	"fmt"

	"github.com/jpalmerr/sitestate"
	"github.com/spf13/cobra"
)

// newSetCmd builds the toggle/list/count command group for a toggle set.
func newSetCmd(use, short, noun string, pick func(*sitestate.State) *sitestate.ToggleSet) *cobra.Command {
	group := &cobra.Command{
		Use:   use,
		Short: short,
	}

	group.AddCommand(&cobra.Command{
		Use:   "toggle <id>...",
		Short: "Add each " + noun + " if absent, remove it if present",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withState(cmd, func(st *sitestate.State) error {
				set := pick(st)
				for _, id := range args {
					set.Toggle(id)
				}
				return nil
			})
		},
	})

	group.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List every " + noun + " in insertion order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withState(cmd, func(st *sitestate.State) error {
				for _, id := range pick(st).List() {
					fmt.Fprintln(cmd.OutOrStdout(), id)
				}
				return nil
			})
		},
	})

	group.AddCommand(&cobra.Command{
		Use:   "count",
		Short: "Print the number of " + noun + "s",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withState(cmd, func(st *sitestate.State) error {
				fmt.Fprintln(cmd.OutOrStdout(), pick(st).Count())
				return nil
			})
		},
	})

	return group
}

func init() {
	rootCmd.AddCommand(newSetCmd("bookmark", "Manage bookmarked content", "bookmark",
		(*sitestate.State).Bookmarks))
	rootCmd.AddCommand(newSetCmd("category", "Manage expanded categories", "category",
		(*sitestate.State).Categories))
}
