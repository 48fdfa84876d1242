package main

import (
	"fmt"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"github.com/rohunvora/twitter-feedback/internal/fetch"
	"github.com/rohunvora/twitter-feedback/internal/report"
	"github.com/rohunvora/twitter-feedback/internal/store"
)

var (
	reportOpen    bool
	reportNoLLM   bool
	reportOutFile string
)

var reportCmd = &cobra.Command{
	Use:   "report <tweet_url_or_id>",
	Short: "Generate an HTML feedback report",
	Long:  "Generates an HTML insights report for the fetched tweets, via the Anthropic API when ANTHROPIC_API_KEY is set, otherwise via the built-in template.",
	Args:  cobra.ExactArgs(1),
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().BoolVar(&reportOpen, "open", false, "open the report in the default browser")
	reportCmd.Flags().BoolVar(&reportNoLLM, "no-llm", false, "skip the LLM and use the built-in template")
	reportCmd.Flags().StringVar(&reportOutFile, "output", "", "write the report to this path instead of the output directory")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	parentID, err := fetch.ResolveTweetID(args[0])
	if err != nil {
		return err
	}

	st, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer st.Close()

	ctx := cmd.Context()

	var tweets []store.Tweet
	for t, err := range st.TweetsForParent(ctx, parentID) {
		if err != nil {
			return fmt.Errorf("failed to load tweets: %w", err)
		}
		tweets = append(tweets, t)
	}
	if len(tweets) == 0 {
		return fmt.Errorf("no tweets stored for %s, run fetch first", parentID)
	}

	sourceURL := "https://x.com/i/status/" + parentID

	var html string
	if cfg.Analysis.APIKey != "" && !reportNoLLM {
		fmt.Printf("Generating insights for %d tweets with %s...\n", len(tweets), cfg.Analysis.Model)
		gen := report.NewGenerator(cfg.Analysis.APIKey, cfg.Analysis.Model, cfg.Analysis.MaxTokens)
		html, err = gen.Generate(ctx, sourceURL, tweets)
	} else {
		builder, berr := report.NewBuilder(cfg.Report.MaxPerSection)
		if berr != nil {
			return berr
		}
		html, err = builder.Build(parentID, tweets)
	}
	if err != nil {
		return fmt.Errorf("failed to generate report: %w", err)
	}

	path := reportOutFile
	if path == "" {
		path, err = report.Save(cfg.Report.OutputDir, html)
	} else {
		err = report.SaveTo(path, html)
	}
	if err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	fmt.Printf("Report saved to: %s\n", path)

	if reportOpen {
		return browser.OpenFile(path)
	}
	return nil
}
