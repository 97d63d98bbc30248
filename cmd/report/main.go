// Command report builds the daily pitcher strikeout report.
//
// Usage:
//
//	report today y
//	report tmrw n
//	report 7/4 y
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"mlb_pitchers/report/internal/app"
	"mlb_pitchers/report/internal/config"
	"mlb_pitchers/report/internal/logging"
	"mlb_pitchers/report/internal/report"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		season int
		outDir string
	)

	cmd := &cobra.Command{
		Use:   "report <today|tmrw|MM/DD> <y|n>",
		Short: "Build the daily pitcher strikeout report",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if season > 0 {
				cfg.Season = season
			}
			if outDir != "" {
				cfg.ReportsDir = outDir
			}

			logging.Setup(os.Stdout, cfg.AppEnv, cfg.LogLevel)

			date, err := config.ParseDateArg(args[0], time.Now().In(cfg.Location()), cfg.Season)
			if err != nil {
				return err
			}
			withOdds, err := config.ParseOddsFlag(args[1])
			if err != nil {
				return err
			}

			return run(cmd.Context(), cfg, date, withOdds)
		},
	}

	cmd.Flags().IntVar(&season, "season", 0, "Season year (defaults to SEASON)")
	cmd.Flags().StringVar(&outDir, "out", "", "Report output directory (defaults to REPORTS_DIR)")
	return cmd
}

func run(parent context.Context, cfg *config.Config, date string, withOdds bool) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().
		Str("date", date).
		Bool("odds", withOdds).
		Int("season", cfg.Season).
		Msg("Building report")

	if abs, err := filepath.Abs(report.HTMLPath(cfg.ReportsDir, date)); err == nil {
		log.Info().Str("path", "file://"+abs).Msg("Report will be written to")
	}

	a, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer a.Close()

	// A non-empty path means the page was written, possibly empty
	path, err := a.Generate(ctx, date, withOdds)
	if path == "" {
		return err
	}
	if err != nil {
		log.Error().Err(err).Msg("Report is incomplete")
	}

	fmt.Println("file://" + path)
	return nil
}
