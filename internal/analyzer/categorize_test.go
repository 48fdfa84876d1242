package analyzer

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rohunvora/twitter-feedback/internal/store"
)

func TestCategorize(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		category store.Category
		priority int
	}{
		{"feature request", "Would be nice if it supported exports to CSV", store.CategoryFeatureRequest, 2},
		{"feature beats question mark", "could you add a dark mode?", store.CategoryFeatureRequest, 2},
		{"question", "How does the sync actually work under the hood?", store.CategoryQuestion, 1},
		{"question needs question mark", "I wonder how the sync works under the hood", store.CategoryOther, 0},
		{"bug report", "the app crashes every time I open settings", store.CategoryBugReport, 2},
		{"criticism", "honestly pretty disappointed with the latest update overall", store.CategoryCriticism, 1},
		{"praise", "this is amazing, great work all around", store.CategoryPraise, 0},
		{"joke phrase", "lmao this is wild stuff right here", store.CategoryJoke, 0},
		{"short text is noise", "nice one", store.CategoryJoke, 0},
		{"spam", "Huge airdrop happening now, claim your free tokens today", store.CategorySpam, 0},
		{"fallback", "I tried this yesterday on a long train ride home", store.CategoryOther, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			category, summary, priority := Categorize(tt.text)
			assert.Equal(t, tt.category, category)
			assert.Equal(t, tt.priority, priority)
			assert.NotEmpty(t, summary)
		})
	}
}

func TestCategorizeIsCaseInsensitive(t *testing.T) {
	category, _, _ := Categorize("PLEASE ADD keyboard shortcuts to the editor")
	assert.Equal(t, store.CategoryFeatureRequest, category)
}

func TestAnalyzerRun(t *testing.T) {
	ctx := context.Background()
	st, err := store.Open(filepath.Join(t.TempDir(), "feedback.db"))
	require.NoError(t, err)
	defer st.Close()

	parent := "2008652887136891376"
	_, err = st.UpsertTweets(ctx, []store.Tweet{
		{ID: "1001", ParentID: parent, Relation: store.RelationReply, AuthorUsername: "a",
			Text: "please add offline support to this thing", FetchedAt: time.Now().UTC()},
		{ID: "1002", ParentID: parent, Relation: store.RelationQuote, AuthorUsername: "b",
			Text: "the export button is broken for me", FetchedAt: time.Now().UTC()},
	})
	require.NoError(t, err)

	a := New(st)
	n, err := a.Run(ctx, parent)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	pending, err := st.UnanalyzedTweets(ctx, parent)
	require.NoError(t, err)
	assert.Empty(t, pending)

	// Running again finds nothing new to do.
	n, err = a.Run(ctx, parent)
	require.NoError(t, err)
	assert.Zero(t, n)

	analyzed, err := st.AnalyzedTweets(ctx, parent)
	require.NoError(t, err)
	require.Len(t, analyzed, 2)
	for _, ta := range analyzed {
		require.NotNil(t, ta.Analysis)
		assert.NotEmpty(t, ta.Analysis.Category)
		assert.False(t, ta.Analysis.AnalyzedAt.IsZero())
	}
}
