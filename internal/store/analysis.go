package store

import (
	"context"
	"fmt"
)

// SaveAnalyses inserts or replaces analysis rows in one transaction.
func (s *Store) SaveAnalyses(ctx context.Context, analyses []Analysis) error {
	if len(analyses) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO analysis (tweet_id, category, summary, priority, analyzed_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(tweet_id) DO UPDATE SET
			category = excluded.category,
			summary = excluded.summary,
			priority = excluded.priority,
			analyzed_at = excluded.analyzed_at
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, a := range analyses {
		if _, err := stmt.ExecContext(ctx, a.TweetID, a.Category, a.Summary, a.Priority, a.AnalyzedAt); err != nil {
			return fmt.Errorf("failed to save analysis for %s: %w", a.TweetID, err)
		}
	}

	return tx.Commit()
}

// UnanalyzedTweets returns tweets for a source post that have no analysis row yet
func (s *Store) UnanalyzedTweets(ctx context.Context, parentID string) ([]Tweet, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.id, t.parent_tweet_id, t.tweet_type, t.author_id, t.author_username,
			t.text, t.created_at, t.likes, t.retweets, t.replies, t.quotes, t.fetched_at
		FROM tweets t
		LEFT JOIN analysis a ON t.id = a.tweet_id
		WHERE t.parent_tweet_id = ? AND a.tweet_id IS NULL
		ORDER BY CAST(t.id AS INTEGER) DESC
	`, parentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tweets []Tweet
	for rows.Next() {
		t, err := scanTweet(rows)
		if err != nil {
			return nil, err
		}
		tweets = append(tweets, t)
	}
	return tweets, rows.Err()
}

// AnalyzedTweets returns all analyzed tweets for a source post, highest
// priority first, then grouped by category.
func (s *Store) AnalyzedTweets(ctx context.Context, parentID string) ([]TweetWithAnalysis, error) {
	return s.queryAnalyzed(ctx, `
		WHERE t.parent_tweet_id = ?
		ORDER BY a.priority DESC, a.category, CAST(t.id AS INTEGER) DESC
	`, parentID)
}

// HighPriority returns analyzed tweets at or above the given priority,
// most urgent first.
func (s *Store) HighPriority(ctx context.Context, parentID string, minPriority, limit int) ([]TweetWithAnalysis, error) {
	return s.queryAnalyzed(ctx, `
		WHERE t.parent_tweet_id = ? AND a.priority >= ?
		ORDER BY a.priority DESC, CAST(t.id AS INTEGER) DESC
		LIMIT ?
	`, parentID, minPriority, limit)
}

// RecentAnalyzed returns the most recently posted analyzed tweets.
func (s *Store) RecentAnalyzed(ctx context.Context, parentID string, limit int) ([]TweetWithAnalysis, error) {
	return s.queryAnalyzed(ctx, `
		WHERE t.parent_tweet_id = ?
		ORDER BY CAST(t.id AS INTEGER) DESC
		LIMIT ?
	`, parentID, limit)
}

func (s *Store) queryAnalyzed(ctx context.Context, clause string, args ...any) ([]TweetWithAnalysis, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.id, t.parent_tweet_id, t.tweet_type, t.author_id, t.author_username,
			t.text, t.created_at, t.likes, t.retweets, t.replies, t.quotes, t.fetched_at,
			a.category, a.summary, a.priority, a.analyzed_at
		FROM tweets t
		JOIN analysis a ON t.id = a.tweet_id
	`+clause, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []TweetWithAnalysis
	for rows.Next() {
		var t Tweet
		var a Analysis
		err := rows.Scan(
			&t.ID, &t.ParentID, &t.Relation, &t.AuthorID, &t.AuthorUsername,
			&t.Text, &t.CreatedAt, &t.Likes, &t.Retweets, &t.Replies, &t.Quotes,
			&t.FetchedAt,
			&a.Category, &a.Summary, &a.Priority, &a.AnalyzedAt,
		)
		if err != nil {
			return nil, err
		}
		a.TweetID = t.ID
		results = append(results, TweetWithAnalysis{Tweet: t, Analysis: &a})
	}
	return results, rows.Err()
}

// CategoryCounts tallies analyzed tweets per category for a source post.
func (s *Store) CategoryCounts(ctx context.Context, parentID string) ([]CategoryCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT a.category, COUNT(*) as count
		FROM analysis a
		JOIN tweets t ON a.tweet_id = t.id
		WHERE t.parent_tweet_id = ?
		GROUP BY a.category
		ORDER BY count DESC
	`, parentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []CategoryCount
	for rows.Next() {
		var c CategoryCount
		if err := rows.Scan(&c.Category, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}
