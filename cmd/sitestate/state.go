package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/jpalmerr/sitestate"
	"github.com/jpalmerr/sitestate/config"
	"github.com/spf13/cobra"
)

// loadConfig reads the file named by --config, or returns the defaults.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configFile, _ := cmd.Flags().GetString("config")
	if configFile == "" {
		return config.Default(), nil
	}

	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// withState opens the configured state, runs fn and closes the state.
// Events published while fn runs are printed to the command's output.
func withState(cmd *cobra.Command, fn func(st *sitestate.State) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cfg, os.Stderr)

	st, err := config.Open(cfg, logger, printEvents(cmd.OutOrStdout())...)
	if err != nil {
		return fmt.Errorf("failed to open state: %w", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Warn("failed to close state", "error", err)
		}
	}()

	if err := fn(st); err != nil {
		return err
	}
	if st.Storage().Degraded() {
		logger.Warn("storage unavailable, changes were not persisted",
			"backend", cfg.Backend.Type,
		)
	}
	return nil
}

// printEvents returns options that subscribe a printer for every event kind.
func printEvents(w io.Writer) []sitestate.Option {
	printer := func(ev sitestate.Event) {
		fmt.Fprintln(w, formatEvent(ev))
	}
	return []sitestate.Option{
		sitestate.WithSubscriber(sitestate.EventSettingsChanged, printer),
		sitestate.WithSubscriber(sitestate.EventSetChanged, printer),
		sitestate.WithSubscriber(sitestate.EventLogChanged, printer),
	}
}

// formatEvent renders an event as one line.
func formatEvent(ev sitestate.Event) string {
	switch e := ev.(type) {
	case sitestate.SettingsChanged:
		s := e.Settings
		return fmt.Sprintf("settings: theme=%s view=%s sidebar_collapsed=%t search_open=%t",
			s.Theme, s.ViewMode, s.SidebarCollapsed, s.SearchModalOpen)
	case sitestate.SetChanged:
		mark := color.RedString("-")
		if e.Added {
			mark = color.GreenString("+")
		}
		line := fmt.Sprintf("%s: %s %s (%d total)", e.Set, mark, e.ID, len(e.Items))
		if notice := e.Notice(); notice != "" {
			line += " " + notice
		}
		return line
	case sitestate.LogChanged:
		return "recent searches: " + strings.Join(e.Queries, ", ")
	default:
		return fmt.Sprintf("%s event", ev.Kind())
	}
}
