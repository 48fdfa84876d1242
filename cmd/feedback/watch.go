package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rohunvora/twitter-feedback/internal/analyzer"
	"github.com/rohunvora/twitter-feedback/internal/fetch"
	"github.com/rohunvora/twitter-feedback/internal/scheduler"
)

var watchInterval int

var watchCmd = &cobra.Command{
	Use:   "watch <tweet_url_or_id>",
	Short: "Periodically fetch and analyze new feedback",
	Args:  cobra.ExactArgs(1),
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().IntVar(&watchInterval, "interval", 0, "minutes between cycles (default from config)")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if cfg.API.BearerToken == "" {
		return fmt.Errorf("X_BEARER_TOKEN not set (add it to .env or the environment)")
	}

	parentID, err := fetch.ResolveTweetID(args[0])
	if err != nil {
		return err
	}

	interval := watchInterval
	if interval == 0 {
		interval = cfg.Watch.IntervalMinutes
	}

	st, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer st.Close()

	orch := newOrchestrator(cfg, st)
	an := analyzer.New(st)

	cycle := func(ctx context.Context) error {
		report, err := orch.Run(ctx, parentID, fetch.ModeForward)
		if err != nil {
			return err
		}
		if _, err := an.Run(ctx, parentID); err != nil {
			return err
		}
		if report.Failed() {
			return fmt.Errorf("%d relation pass(es) failed", len(report.Errors))
		}
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Run one cycle up front so the first results don't wait a full interval.
	if err := cycle(ctx); err != nil {
		fmt.Printf("initial cycle failed: %v\n", err)
	}

	sched := scheduler.New()
	if err := sched.AddIntervalJob("fetch+analyze "+parentID, interval, cycle); err != nil {
		return err
	}
	sched.Start()

	fmt.Printf("Watching tweet %s every %dm (Ctrl-C to stop)\n", parentID, interval)
	<-ctx.Done()

	<-sched.Stop().Done()
	return nil
}
