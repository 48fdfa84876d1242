package store

import "time"

// Relation identifies how a fetched tweet relates to the source post.
type Relation string

const (
	RelationReply Relation = "reply"
	RelationQuote Relation = "quote"
)

// Direction identifies which fetch boundary a watermark tracks.
type Direction string

const (
	DirectionNewest Direction = "newest"
	DirectionOldest Direction = "oldest"
)

// Category is the feedback bucket assigned by the analyzer.
type Category string

const (
	CategoryFeatureRequest Category = "feature_request"
	CategoryQuestion       Category = "question"
	CategoryBugReport      Category = "bug_report"
	CategoryPraise         Category = "praise"
	CategoryCriticism      Category = "criticism"
	CategoryJoke           Category = "joke"
	CategorySpam           Category = "spam"
	CategoryOther          Category = "other"
)

// Categories lists all categories in display order.
var Categories = []Category{
	CategoryFeatureRequest,
	CategoryQuestion,
	CategoryBugReport,
	CategoryCriticism,
	CategoryPraise,
	CategoryJoke,
	CategorySpam,
	CategoryOther,
}

// Tweet represents a fetched reply or quote tweet
type Tweet struct {
	ID             string    `json:"id"`
	ParentID       string    `json:"parent_tweet_id"`
	Relation       Relation  `json:"tweet_type"`
	AuthorID       string    `json:"author_id"`
	AuthorUsername string    `json:"author_username"`
	Text           string    `json:"text"`
	CreatedAt      time.Time `json:"created_at"`
	Likes          int       `json:"likes"`
	Retweets       int       `json:"retweets"`
	Replies        int       `json:"replies"`
	Quotes         int       `json:"quotes"`
	FetchedAt      time.Time `json:"fetched_at"`
}

// URL returns the canonical x.com link for the tweet.
func (t Tweet) URL() string {
	return "https://x.com/" + t.AuthorUsername + "/status/" + t.ID
}

// Analysis represents categorization results for a tweet
type Analysis struct {
	TweetID    string    `json:"tweet_id"`
	Category   Category  `json:"category"`
	Summary    string    `json:"summary"`
	Priority   int       `json:"priority"` // 0=low, 1=medium, 2=high
	AnalyzedAt time.Time `json:"analyzed_at"`
}

// TweetWithAnalysis combines a tweet with its analysis
type TweetWithAnalysis struct {
	Tweet    Tweet
	Analysis *Analysis // nil if not yet analyzed
}

// CategoryCount is a per-category tweet tally for one source post
type CategoryCount struct {
	Category Category `json:"category"`
	Count    int      `json:"count"`
}
