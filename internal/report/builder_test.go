package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rohunvora/twitter-feedback/internal/store"
)

const testParent = "2008652887136891376"

func tweetWith(id, username, text string, relation store.Relation, likes int) store.Tweet {
	return store.Tweet{
		ID:             id,
		ParentID:       testParent,
		Relation:       relation,
		AuthorUsername: username,
		Text:           text,
		Likes:          likes,
		FetchedAt:      time.Now().UTC(),
	}
}

func TestBuildGroupsByCategory(t *testing.T) {
	b, err := NewBuilder(10)
	require.NoError(t, err)

	html, err := b.Build(testParent, []store.Tweet{
		tweetWith("1001", "alice", "please add a dark mode to the editor", store.RelationReply, 12),
		tweetWith("1002", "bob", "the save button is broken on mobile", store.RelationQuote, 3),
		tweetWith("1003", "carol", "love this, amazing work", store.RelationReply, 40),
	})
	require.NoError(t, err)

	assert.Contains(t, html, "feature_request")
	assert.Contains(t, html, "bug_report")
	assert.Contains(t, html, "praise")
	assert.Contains(t, html, "@alice")
	assert.Contains(t, html, "https://x.com/bob/status/1002")
	assert.Contains(t, html, "https://x.com/i/status/"+testParent)
	assert.Contains(t, html, "3 responses")

	// Feature requests come before praise in the section ordering.
	assert.Less(t, strings.Index(html, "feature_request"), strings.Index(html, "praise"))
}

func TestBuildEscapesHTML(t *testing.T) {
	b, err := NewBuilder(10)
	require.NoError(t, err)

	html, err := b.Build(testParent, []store.Tweet{
		tweetWith("1001", "mallory", `<script>alert("x")</script> would be nice to have`, store.RelationReply, 0),
	})
	require.NoError(t, err)

	assert.NotContains(t, html, "<script>alert")
	assert.Contains(t, html, "&lt;script&gt;")
}

func TestBuildCollapsesNoiseSections(t *testing.T) {
	b, err := NewBuilder(10)
	require.NoError(t, err)

	html, err := b.Build(testParent, []store.Tweet{
		tweetWith("1001", "alice", "lol", store.RelationReply, 0),
		tweetWith("1002", "bob", "the settings page keeps crashing on my phone", store.RelationReply, 1),
	})
	require.NoError(t, err)

	assert.Contains(t, html, "<details")
	assert.Contains(t, html, "<summary>joke")
	assert.NotContains(t, html, "<summary>bug_report")
}

func TestBuildCapsSectionSizeButKeepsCount(t *testing.T) {
	b, err := NewBuilder(2)
	require.NoError(t, err)

	tweets := []store.Tweet{
		tweetWith("1001", "a", "love it, amazing stuff", store.RelationReply, 0),
		tweetWith("1002", "b", "love it, great stuff here", store.RelationReply, 0),
		tweetWith("1003", "c", "love it, awesome stuff here", store.RelationReply, 0),
	}
	html, err := b.Build(testParent, tweets)
	require.NoError(t, err)

	assert.Contains(t, html, ">3</span>", "count reflects all tweets")
	assert.Contains(t, html, "@a")
	assert.Contains(t, html, "@b")
	assert.NotContains(t, html, "@c", "listing capped at maxPerSection")
}

func TestBuildEmptyInput(t *testing.T) {
	b, err := NewBuilder(10)
	require.NoError(t, err)

	_, err = b.Build(testParent, nil)
	assert.Error(t, err)
}

func TestFormatTweets(t *testing.T) {
	out := FormatTweets([]store.Tweet{
		tweetWith("1001", "alice", "please add dark mode", store.RelationReply, 12),
	})
	assert.Contains(t, out, "@alice")
	assert.Contains(t, out, "reply")
	assert.Contains(t, out, "12 likes")
	assert.Contains(t, out, "please add dark mode")
}
