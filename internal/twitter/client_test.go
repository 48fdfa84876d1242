package twitter

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rohunvora/twitter-feedback/internal/store"
)

const testParent = "2008652887136891376"

// newTestClient points a Client at a scripted handler.
func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *url.Values) {
	t.Helper()
	var captured url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r.URL.Query()
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return New(Config{BearerToken: "test-token", BaseURL: srv.URL, PageSize: 100}), &captured
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	fmt.Fprint(w, body)
}

const samplePage = `{
	"data": [
		{"id": "1002", "text": "please add dark mode", "author_id": "42",
		 "created_at": "2026-01-05T12:00:00Z",
		 "public_metrics": {"like_count": 7, "retweet_count": 1, "reply_count": 0, "quote_count": 0}},
		{"id": "1001", "text": "love this", "author_id": "77",
		 "created_at": "2026-01-05T11:00:00Z",
		 "public_metrics": {"like_count": 2, "retweet_count": 0, "reply_count": 0, "quote_count": 0}}
	],
	"includes": {"users": [{"id": "42", "username": "alice"}]},
	"meta": {"result_count": 2, "next_token": "tok-2"}
}`

func TestFetchPageQueryConstruction(t *testing.T) {
	tests := []struct {
		name      string
		req       PageRequest
		wantQuery string
	}{
		{
			name:      "replies",
			req:       PageRequest{ParentID: testParent, Relation: store.RelationReply},
			wantQuery: "conversation_id:" + testParent + " is:reply",
		},
		{
			name:      "quotes",
			req:       PageRequest{ParentID: testParent, Relation: store.RelationQuote},
			wantQuery: "quotes_of_tweet_id:" + testParent,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotAuth string
			client, captured := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				gotAuth = r.Header.Get("Authorization")
				writeJSON(w, http.StatusOK, `{"meta": {"result_count": 0}}`)
			})

			_, err := client.FetchPage(context.Background(), tt.req)
			require.NoError(t, err)

			q := *captured
			assert.Equal(t, tt.wantQuery, q.Get("query"))
			assert.Equal(t, "100", q.Get("max_results"))
			assert.Equal(t, "author_id", q.Get("expansions"))
			assert.Equal(t, "username", q.Get("user.fields"))
			assert.Empty(t, q.Get("since_id"))
			assert.Empty(t, q.Get("until_id"))
			assert.Empty(t, q.Get("next_token"))
			assert.Equal(t, "Bearer test-token", gotAuth)
		})
	}
}

func TestFetchPageBoundsAndToken(t *testing.T) {
	client, captured := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"meta": {"result_count": 0}}`)
	})

	_, err := client.FetchPage(context.Background(), PageRequest{
		ParentID:  testParent,
		Relation:  store.RelationReply,
		SinceID:   "1240",
		UntilID:   "1500",
		NextToken: "tok-3",
	})
	require.NoError(t, err)

	q := *captured
	assert.Equal(t, "1240", q.Get("since_id"))
	assert.Equal(t, "1500", q.Get("until_id"))
	assert.Equal(t, "tok-3", q.Get("next_token"))
}

func TestFetchPageMapsPayload(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, samplePage)
	})

	page, err := client.FetchPage(context.Background(), PageRequest{
		ParentID: testParent,
		Relation: store.RelationReply,
	})
	require.NoError(t, err)

	assert.Equal(t, "tok-2", page.NextToken)
	assert.True(t, page.HasMore)
	require.Len(t, page.Tweets, 2)

	first := page.Tweets[0]
	assert.Equal(t, "1002", first.ID)
	assert.Equal(t, testParent, first.ParentID)
	assert.Equal(t, store.RelationReply, first.Relation)
	assert.Equal(t, "alice", first.AuthorUsername)
	assert.Equal(t, "please add dark mode", first.Text)
	assert.Equal(t, 7, first.Likes)
	assert.Equal(t, 1, first.Retweets)
	assert.Equal(t, time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC), first.CreatedAt)
	assert.False(t, first.FetchedAt.IsZero())

	// Author missing from the includes block falls back to a placeholder.
	assert.Equal(t, "unknown", page.Tweets[1].AuthorUsername)
}

func TestFetchPageLastPageHasNoToken(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{
			"data": [{"id": "1001", "text": "hi", "author_id": "42"}],
			"meta": {"result_count": 1}
		}`)
	})

	page, err := client.FetchPage(context.Background(), PageRequest{
		ParentID: testParent,
		Relation: store.RelationReply,
	})
	require.NoError(t, err)
	assert.False(t, page.HasMore)
	assert.Empty(t, page.NextToken)
}

func TestFetchPageAuthRejected(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		t.Run(strconv.Itoa(status), func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, status, `{"title": "Unauthorized"}`)
			})

			_, err := client.FetchPage(context.Background(), PageRequest{
				ParentID: testParent,
				Relation: store.RelationReply,
			})
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrAuthentication)
			assert.False(t, IsRetryable(err))
		})
	}
}

func TestFetchPageRateLimited(t *testing.T) {
	reset := time.Now().Add(90 * time.Second).Unix()
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("x-rate-limit-reset", strconv.FormatInt(reset, 10))
		writeJSON(w, http.StatusTooManyRequests, `{"title": "Too Many Requests"}`)
	})

	_, err := client.FetchPage(context.Background(), PageRequest{
		ParentID: testParent,
		Relation: store.RelationReply,
	})
	require.Error(t, err)

	var rl *RateLimitError
	require.ErrorAs(t, err, &rl)
	// Reset epoch plus the safety pad, minus however long the request took.
	assert.Greater(t, rl.RetryAfter, 80*time.Second)
	assert.LessOrEqual(t, rl.RetryAfter, 95*time.Second)
	assert.True(t, IsRetryable(err))
}

func TestFetchPageRateLimitedWithoutResetHeader(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusTooManyRequests, `{}`)
	})

	_, err := client.FetchPage(context.Background(), PageRequest{
		ParentID: testParent,
		Relation: store.RelationReply,
	})
	var rl *RateLimitError
	require.ErrorAs(t, err, &rl)
	assert.Equal(t, 60*time.Second, rl.RetryAfter)
}

func TestFetchPageServerError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusServiceUnavailable, `{"title": "Service Unavailable", "detail": "try again"}`)
	})

	_, err := client.FetchPage(context.Background(), PageRequest{
		ParentID: testParent,
		Relation: store.RelationReply,
	})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
	assert.Equal(t, "Service Unavailable: try again", apiErr.Detail)
	assert.True(t, IsRetryable(err))
}

func TestFetchPageClientErrorNotRetryable(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, `{"title": "Invalid Request"}`)
	})

	_, err := client.FetchPage(context.Background(), PageRequest{
		ParentID: testParent,
		Relation: store.RelationReply,
	})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.False(t, IsRetryable(err))
}

func TestIsRetryableTransportError(t *testing.T) {
	assert.True(t, IsRetryable(errors.New("connection reset by peer")))
}
