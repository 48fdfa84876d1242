package analyzer

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/rohunvora/twitter-feedback/internal/store"
)

// Analyzer categorizes stored tweets that have no analysis row yet.
type Analyzer struct {
	store *store.Store
}

// New creates an Analyzer over the given store.
func New(st *store.Store) *Analyzer {
	return &Analyzer{store: st}
}

// Run categorizes all unanalyzed tweets for a source post and persists the
// results. Returns the number of tweets analyzed.
func (a *Analyzer) Run(ctx context.Context, parentID string) (int, error) {
	tweets, err := a.store.UnanalyzedTweets(ctx, parentID)
	if err != nil {
		return 0, fmt.Errorf("failed to load unanalyzed tweets: %w", err)
	}
	if len(tweets) == 0 {
		return 0, nil
	}

	log.WithField("count", len(tweets)).Info("analyzing tweets")

	now := time.Now().UTC()
	analyses := make([]store.Analysis, len(tweets))
	for i, t := range tweets {
		category, summary, priority := Categorize(t.Text)
		analyses[i] = store.Analysis{
			TweetID:    t.ID,
			Category:   category,
			Summary:    summary,
			Priority:   priority,
			AnalyzedAt: now,
		}
	}

	if err := a.store.SaveAnalyses(ctx, analyses); err != nil {
		return 0, fmt.Errorf("failed to save analyses: %w", err)
	}

	return len(analyses), nil
}
