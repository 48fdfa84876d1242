// Command feedback fetches replies and quote tweets for an X post, stores
// them incrementally in a local SQLite database, categorizes them, and
// produces feedback reports.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "feedback",
	Short:         "Twitter feedback fetcher and analyzer",
	Long:          "Fetches replies and quotes for a tweet using incremental watermarks, categorizes them, and generates feedback reports.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
