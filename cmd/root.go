// Package cmd defines the CLI commands for the extraction service.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/firasmosbehi/about-us-team-extractor/internal/config"
)

var cfgFile string

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "team-extractor",
		Short: "Finds team pages on company websites and extracts people records",
		Long: `team-extractor visits company homepages, ranks links that look like
team or about pages, and extracts structured person and contact records
from the best candidates. Results are written to a configurable sink
(JSON Lines, Postgres, or Pub/Sub).`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: built-in defaults + TEAMEXTRACTOR_* env)")

	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newServeCmd())

	return cmd
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
