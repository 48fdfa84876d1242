package twitter

import (
	"time"

	"github.com/rohunvora/twitter-feedback/internal/store"
)

// PageRequest describes one paginated query against the X API.
type PageRequest struct {
	ParentID  string
	Relation  store.Relation
	SinceID   string // fetch strictly newer than this ID, if set
	UntilID   string // fetch strictly older than this ID, if set
	NextToken string // continuation token from the previous page
}

// Page is one validated page of results from the X API.
type Page struct {
	Tweets    []store.Tweet
	NextToken string
	HasMore   bool
}

// searchResponse mirrors the X API v2 recent-search payload.
type searchResponse struct {
	Data     []apiTweet `json:"data"`
	Includes struct {
		Users []apiUser `json:"users"`
	} `json:"includes"`
	Meta struct {
		ResultCount int    `json:"result_count"`
		NextToken   string `json:"next_token"`
	} `json:"meta"`
}

type apiTweet struct {
	ID            string    `json:"id"`
	Text          string    `json:"text"`
	AuthorID      string    `json:"author_id"`
	CreatedAt     time.Time `json:"created_at"`
	PublicMetrics struct {
		RetweetCount int `json:"retweet_count"`
		ReplyCount   int `json:"reply_count"`
		LikeCount    int `json:"like_count"`
		QuoteCount   int `json:"quote_count"`
	} `json:"public_metrics"`
}

type apiUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type apiErrorResponse struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
}
