// Package twitter is a minimal X API v2 client for paginated reply and quote
// queries. It validates loosely structured API payloads into typed pages at
// this boundary so the fetch logic stays fully typed.
package twitter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rohunvora/twitter-feedback/internal/store"
)

const (
	defaultBaseURL  = "https://api.twitter.com/2"
	defaultPageSize = 100
	defaultTimeout  = 30 * time.Second
)

// Config holds client construction parameters. The bearer token is injected
// here rather than read from ambient state so tests can supply a fake.
type Config struct {
	BearerToken string
	BaseURL     string        // defaults to the public X API
	PageSize    int           // max_results per page, defaults to 100
	Timeout     time.Duration // per-request timeout, defaults to 30s
}

// Client queries the X API v2 recent-search endpoint.
type Client struct {
	baseURL  string
	bearer   string
	pageSize int
	http     *http.Client
}

// New creates a Client from cfg, applying defaults for unset fields.
func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.PageSize == 0 {
		cfg.PageSize = defaultPageSize
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Client{
		baseURL:  cfg.BaseURL,
		bearer:   cfg.BearerToken,
		pageSize: cfg.PageSize,
		http:     &http.Client{Timeout: cfg.Timeout},
	}
}

// FetchPage issues one paginated request for replies to or quotes of the
// parent tweet. Both relations go through recent search; the dedicated
// quote_tweets endpoint has no until_id support, which backfill needs.
func (c *Client) FetchPage(ctx context.Context, req PageRequest) (*Page, error) {
	query := "conversation_id:" + req.ParentID + " is:reply"
	if req.Relation == store.RelationQuote {
		query = "quotes_of_tweet_id:" + req.ParentID
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("max_results", strconv.Itoa(c.pageSize))
	params.Set("tweet.fields", "created_at,public_metrics,author_id")
	params.Set("expansions", "author_id")
	params.Set("user.fields", "username")
	if req.SinceID != "" {
		params.Set("since_id", req.SinceID)
	}
	if req.UntilID != "" {
		params.Set("until_id", req.UntilID)
	}
	if req.NextToken != "" {
		params.Set("next_token", req.NextToken)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/tweets/search/recent?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.bearer)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to call X API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp, body)
	}

	var sr searchResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil, fmt.Errorf("failed to parse X API response: %w", err)
	}

	return buildPage(req, sr), nil
}

func decodeError(resp *http.Response, body []byte) error {
	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w (HTTP %d)", ErrAuthentication, resp.StatusCode)
	case http.StatusTooManyRequests:
		return &RateLimitError{RetryAfter: resetWait(resp.Header.Get("x-rate-limit-reset"))}
	}

	var apiErr apiErrorResponse
	detail := string(body)
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Title != "" {
		detail = apiErr.Title
		if apiErr.Detail != "" {
			detail += ": " + apiErr.Detail
		}
	}
	if len(detail) > 200 {
		detail = detail[:200]
	}
	return &APIError{StatusCode: resp.StatusCode, Detail: detail}
}

// resetWait converts the x-rate-limit-reset epoch header into a wait duration,
// padded by a few seconds so the retry lands after the window actually resets.
func resetWait(header string) time.Duration {
	reset, err := strconv.ParseInt(header, 10, 64)
	if err != nil {
		return 60 * time.Second
	}
	wait := time.Until(time.Unix(reset, 0)) + 5*time.Second
	if wait < 0 {
		wait = 0
	}
	return wait
}

// buildPage joins usernames from the includes block onto tweets and maps the
// payload into store rows.
func buildPage(req PageRequest, sr searchResponse) *Page {
	users := make(map[string]string, len(sr.Includes.Users))
	for _, u := range sr.Includes.Users {
		users[u.ID] = u.Username
	}

	now := time.Now().UTC()
	page := &Page{NextToken: sr.Meta.NextToken, HasMore: sr.Meta.NextToken != ""}
	for _, t := range sr.Data {
		username := users[t.AuthorID]
		if username == "" {
			username = "unknown"
		}
		page.Tweets = append(page.Tweets, store.Tweet{
			ID:             t.ID,
			ParentID:       req.ParentID,
			Relation:       req.Relation,
			AuthorID:       t.AuthorID,
			AuthorUsername: username,
			Text:           t.Text,
			CreatedAt:      t.CreatedAt,
			Likes:          t.PublicMetrics.LikeCount,
			Retweets:       t.PublicMetrics.RetweetCount,
			Replies:        t.PublicMetrics.ReplyCount,
			Quotes:         t.PublicMetrics.QuoteCount,
			FetchedAt:      now,
		})
	}
	return page
}
