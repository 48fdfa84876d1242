// Package analyzer categorizes fetched tweets into actionable feedback
// buckets using keyword rules. It runs entirely offline; the report package
// handles the optional LLM pass.
package analyzer

import (
	"strings"

	"github.com/rohunvora/twitter-feedback/internal/store"
)

var featurePhrases = []string{
	"would be nice", "should add", "can you add", "feature request",
	"it would be great", "please add", "wish it", "want to see",
	"suggestion:", "idea:", "could you",
}

var questionWords = []string{
	"how", "what", "where", "when", "why", "does", "can", "is it", "will",
}

var bugPhrases = []string{
	"doesn't work", "not working", "broken", "bug", "error", "issue",
	"problem", "crash", "fail",
}

var criticismPhrases = []string{
	"hate", "terrible", "awful", "worst", "sucks", "disappointed",
	"waste", "useless", "don't like",
}

var praisePhrases = []string{
	"love", "amazing", "awesome", "great", "perfect", "thank",
	"beautiful", "excellent", "brilliant", "goat", "fire", "based",
}

var jokePhrases = []string{
	"lol", "lmao", "haha", "bruh", "fr fr", "no cap", "deadass",
}

var spamPhrases = []string{
	"check my", "dm me", "follow me", "$", "crypto", "nft", "airdrop",
	"giveaway", "click here", "join",
}

// Categorize assigns a feedback category, a short summary, and a priority
// (0=low, 1=medium, 2=high) to a tweet's text. Rules are checked in order of
// actionability: feature requests and bug reports outrank banter.
func Categorize(text string) (store.Category, string, int) {
	lower := strings.ToLower(text)

	if containsAny(lower, featurePhrases) {
		return store.CategoryFeatureRequest, "Potential feature suggestion", 2
	}
	if strings.Contains(text, "?") && containsAny(lower, questionWords) {
		return store.CategoryQuestion, "User question", 1
	}
	if containsAny(lower, bugPhrases) {
		return store.CategoryBugReport, "Potential issue report", 2
	}
	if containsAny(lower, criticismPhrases) {
		return store.CategoryCriticism, "Negative feedback", 1
	}
	if containsAny(lower, praisePhrases) {
		return store.CategoryPraise, "Positive feedback", 0
	}
	if containsAny(lower, jokePhrases) || len(text) < 20 {
		return store.CategoryJoke, "Casual/joke response", 0
	}
	if containsAny(lower, spamPhrases) {
		return store.CategorySpam, "Promotional content", 0
	}

	return store.CategoryOther, "General response", 0
}

func containsAny(s string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}
