package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rohunvora/twitter-feedback/internal/analyzer"
	"github.com/rohunvora/twitter-feedback/internal/fetch"
	"github.com/rohunvora/twitter-feedback/internal/store"
)

var analyzeShowAll bool

var analyzeCmd = &cobra.Command{
	Use:   "analyze <tweet_url_or_id>",
	Short: "Categorize fetched tweets into feedback buckets",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeShowAll, "show-all", false,
		"list every categorized tweet, not just the summary")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
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

	count, err := analyzer.New(st).Run(ctx, parentID)
	if err != nil {
		return err
	}
	if count > 0 {
		fmt.Printf("Analyzed %d new tweets\n", count)
	}

	counts, err := st.CategoryCounts(ctx, parentID)
	if err != nil {
		return err
	}
	if len(counts) == 0 {
		fmt.Println("No analyzed tweets found.")
		return nil
	}

	fmt.Println("\n" + strings.Repeat("=", 60))
	fmt.Println("FEEDBACK ANALYSIS SUMMARY")
	fmt.Println(strings.Repeat("=", 60))
	for _, c := range counts {
		fmt.Printf("  %-18s %4d tweets\n", c.Category, c.Count)
	}
	fmt.Println(strings.Repeat("=", 60))

	high, err := st.HighPriority(ctx, parentID, 1, 20)
	if err != nil {
		return err
	}
	if len(high) > 0 {
		fmt.Println("\nHIGH PRIORITY ITEMS:")
		fmt.Println(strings.Repeat("-", 60))
		for _, item := range high {
			fmt.Printf("[@%s] (%s)\n", item.Tweet.AuthorUsername, item.Analysis.Category)
			fmt.Printf("  %s\n\n", oneLine(item.Tweet.Text, 100))
		}
	}

	if analyzeShowAll {
		all, err := st.AnalyzedTweets(ctx, parentID)
		if err != nil {
			return err
		}
		fmt.Println("\nALL CATEGORIZED TWEETS:")
		fmt.Println(strings.Repeat("-", 60))
		var current store.Category
		for _, item := range all {
			if item.Analysis.Category != current {
				current = item.Analysis.Category
				fmt.Printf("\n### %s ###\n\n", strings.ToUpper(string(current)))
			}
			fmt.Printf("  @%s: %s\n", item.Tweet.AuthorUsername, oneLine(item.Tweet.Text, 80))
		}
	}

	return nil
}

// oneLine flattens a tweet's text to a single truncated line.
func oneLine(text string, maxLen int) string {
	text = strings.ReplaceAll(text, "\n", " ")
	if len(text) > maxLen {
		return text[:maxLen] + "..."
	}
	return text
}
