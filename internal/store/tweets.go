package store

import (
	"context"
	"database/sql"
	"fmt"
	"iter"
)

// UpsertTweets inserts or replaces a batch of tweets inside one transaction,
// keyed by tweet ID. Existing rows are refreshed with the latest text and
// engagement metrics rather than duplicated. Returns the number of rows written.
func (s *Store) UpsertTweets(ctx context.Context, tweets []Tweet) (int, error) {
	if len(tweets) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO tweets (id, parent_tweet_id, tweet_type, author_id, author_username,
			text, created_at, likes, retweets, replies, quotes, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			text = excluded.text,
			likes = excluded.likes,
			retweets = excluded.retweets,
			replies = excluded.replies,
			quotes = excluded.quotes,
			fetched_at = excluded.fetched_at
	`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	written := 0
	for _, t := range tweets {
		if _, err := stmt.ExecContext(ctx, t.ID, t.ParentID, t.Relation, t.AuthorID,
			t.AuthorUsername, t.Text, t.CreatedAt, t.Likes, t.Retweets, t.Replies,
			t.Quotes, t.FetchedAt); err != nil {
			return 0, fmt.Errorf("failed to upsert tweet %s: %w", t.ID, err)
		}
		written++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit tweets: %w", err)
	}

	return written, nil
}

// TweetsForParent returns all tweets for a source post, newest first, as a lazy
// sequence. Each range-over issues a fresh query, so the sequence is restartable.
func (s *Store) TweetsForParent(ctx context.Context, parentID string) iter.Seq2[Tweet, error] {
	return func(yield func(Tweet, error) bool) {
		rows, err := s.db.QueryContext(ctx, `
			SELECT id, parent_tweet_id, tweet_type, author_id, author_username,
				text, created_at, likes, retweets, replies, quotes, fetched_at
			FROM tweets
			WHERE parent_tweet_id = ?
			ORDER BY CAST(id AS INTEGER) DESC
		`, parentID)
		if err != nil {
			yield(Tweet{}, err)
			return
		}
		defer rows.Close()

		for rows.Next() {
			t, err := scanTweet(rows)
			if err != nil {
				yield(Tweet{}, err)
				return
			}
			if !yield(t, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(Tweet{}, err)
		}
	}
}

// CountTweets returns the number of stored tweets for a source post.
func (s *Store) CountTweets(ctx context.Context, parentID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tweets WHERE parent_tweet_id = ?`, parentID).Scan(&n)
	return n, err
}

// OldestTweetID returns the smallest tweet ID stored for a (post, relation) pair,
// or "" when no tweets exist. Used to seed a backfill pass that has no oldest
// watermark yet.
func (s *Store) OldestTweetID(ctx context.Context, parentID string, relation Relation) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `
		SELECT id FROM tweets
		WHERE parent_tweet_id = ? AND tweet_type = ?
		ORDER BY CAST(id AS INTEGER) ASC
		LIMIT 1
	`, parentID, relation).Scan(&id)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return id, err
}

func scanTweet(rows *sql.Rows) (Tweet, error) {
	var t Tweet
	err := rows.Scan(
		&t.ID, &t.ParentID, &t.Relation, &t.AuthorID, &t.AuthorUsername,
		&t.Text, &t.CreatedAt, &t.Likes, &t.Retweets, &t.Replies, &t.Quotes,
		&t.FetchedAt,
	)
	return t, err
}
