package main

import (
	"errors"
	"fmt"

	"github.com/jpalmerr/sitestate/config"
	"github.com/spf13/cobra"
)

// validateCmd validates a config file without opening the backend.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a config file",
	Long: `Validate a sitestate configuration file without opening the backend.

This command parses the YAML or TOML, expands environment variables, and
validates all fields. It's useful for CI/CD pipelines or pre-deployment
checks.

Exit codes:
  0 - Config is valid
  1 - Config is invalid (error details printed to stderr)

Example:
  sitestate validate -c sitestate.yaml
  sitestate validate --config /etc/sitestate/sitestate.toml`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	configFile, _ := cmd.Flags().GetString("config")
	if configFile == "" {
		return errors.New("--config is required")
	}

	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Config is valid!\n")
	fmt.Fprintf(out, "  Backend:         %s\n", describeBackend(cfg.Backend))
	fmt.Fprintf(out, "  Namespace:       %q\n", cfg.Namespace)
	fmt.Fprintf(out, "  Storage timeout: %s\n", cfg.StorageTimeout.Duration())
	fmt.Fprintf(out, "  Defaults:        theme=%s view=%s\n", cfg.Defaults.Theme, cfg.Defaults.ViewMode)

	return nil
}

func describeBackend(b config.BackendConfig) string {
	switch b.Type {
	case config.BackendFile, config.BackendSQLite:
		return b.Type + " (" + b.Path + ")"
	case config.BackendRedis:
		return fmt.Sprintf("redis (%s, db %d)", b.Addr, b.DB)
	default:
		return b.Type
	}
}
