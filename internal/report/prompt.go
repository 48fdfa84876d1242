package report

import (
	"fmt"
	"strings"

	"github.com/rohunvora/twitter-feedback/internal/store"
)

// FormatTweets renders stored tweets as one line each for the LLM prompt.
func FormatTweets(tweets []store.Tweet) string {
	var sb strings.Builder
	for _, t := range tweets {
		sb.WriteString(fmt.Sprintf("@%s (%s, %d likes, %d RTs): %s\n",
			t.AuthorUsername, t.Relation, t.Likes, t.Retweets, strings.ReplaceAll(t.Text, "\n", " ")))
	}
	return sb.String()
}

// BuildPrompt constructs the insights prompt for the LLM.
func BuildPrompt(sourceURL string, tweets []store.Tweet) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Analyze these %d Twitter/X replies and quote tweets. Generate an HTML insights report.\n\n", len(tweets)))
	sb.WriteString(fmt.Sprintf("SOURCE TWEET: %s\n\n", sourceURL))
	sb.WriteString("REPLIES AND QUOTES:\n")
	sb.WriteString(FormatTweets(tweets))

	sb.WriteString("\nGenerate a complete HTML document with:\n")
	sb.WriteString("1. Summary stats (total responses, % noise vs signal)\n")
	sb.WriteString("2. Key insights - what's the main narrative/hook that drove engagement?\n")
	sb.WriteString("3. Actionable items - feature requests, questions, partnership offers\n")
	sb.WriteString("4. Noise categories - jokes, spam, drama (collapsed by default)\n")
	sb.WriteString("5. Notable quotes with links back to tweets (format: https://x.com/USERNAME/status/TWEET_ID)\n\n")

	sb.WriteString("Use this exact HTML structure and styling:\n")
	sb.WriteString("- Clean, light theme with system fonts\n")
	sb.WriteString("- Collapsible <details> sections for long lists\n")
	sb.WriteString("- Tags for categorization (.tag classes)\n")
	sb.WriteString("- Blockquotes for tweet citations\n")
	sb.WriteString("- Stats row at top\n\n")

	sb.WriteString("Output ONLY the complete HTML document, no explanation.")

	return sb.String()
}
