package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rohunvora/twitter-feedback/internal/fetch"
	"github.com/rohunvora/twitter-feedback/internal/store"
)

var fetchBackfill bool

var fetchCmd = &cobra.Command{
	Use:   "fetch <tweet_url_or_id>",
	Short: "Fetch replies and quotes for a tweet",
	Args:  cobra.ExactArgs(1),
	RunE:  runFetch,
}

func init() {
	fetchCmd.Flags().BoolVar(&fetchBackfill, "backfill", false,
		"fetch tweets older than the oldest watermark instead of newer ones")
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if cfg.API.BearerToken == "" {
		return fmt.Errorf("X_BEARER_TOKEN not set (add it to .env or the environment)")
	}

	st, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer st.Close()

	mode := fetch.ModeForward
	if fetchBackfill {
		mode = fetch.ModeBackfill
	}

	orch := newOrchestrator(cfg, st)
	report, err := orch.Run(cmd.Context(), args[0], mode)
	if err != nil {
		return err
	}

	fmt.Printf("Fetched %d replies + %d quotes for tweet %s\n",
		report.Fetched(store.RelationReply), report.Fetched(store.RelationQuote), report.ParentID)
	fmt.Printf("Database: %s\n", cfg.Database.Path)

	if report.Failed() {
		for _, passErr := range report.Errors {
			fmt.Printf("  %s pass failed: %v\n", passErr.Relation, passErr.Err)
		}
		return fmt.Errorf("fetch incomplete: %d relation pass(es) failed", len(report.Errors))
	}

	return nil
}
