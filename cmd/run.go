package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/firasmosbehi/about-us-team-extractor/internal/app"
)

// newRunCmd creates the 'run' subcommand: a one-shot batch extraction
// over the configured (or argument-supplied) start URLs.
func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run [start-url ...]",
		Short: "Runs one extraction pass over a set of company homepages",
		Long: `Seeds the given start URLs (or extractor.start_urls from config when
none are given), visits each company's homepage, follows the best team
and about candidates, and emits person and contact records to the
configured sink. The command exits when every company has been fully
processed.`,
		RunE: runRunCommand,
	}
}

func runRunCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialize services: %w", err)
	}
	defer a.Close()

	if err := a.Run(ctx, args); err != nil && !errors.Is(err, context.Canceled) {
		a.Logger().Error("extraction run failed", zap.Error(err))
		return err
	}
	return nil
}
