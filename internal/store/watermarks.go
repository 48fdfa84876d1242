package store

import (
	"context"
	"database/sql"
	"time"
)

// stateKey maps a (relation, direction) pair to the ingestion_state data_type
// column. The newest boundary uses the bare relation name, the oldest boundary
// carries an "_oldest" suffix, matching four rows per source post.
func stateKey(relation Relation, direction Direction) string {
	key := "replies"
	if relation == RelationQuote {
		key = "quotes"
	}
	if direction == DirectionOldest {
		key += "_oldest"
	}
	return key
}

// Watermark returns the stored boundary ID for a (post, relation, direction)
// triple, or "" if no pass has committed one yet.
func (s *Store) Watermark(ctx context.Context, parentID string, relation Relation, direction Direction) (string, error) {
	var lastID string
	err := s.db.QueryRowContext(ctx, `
		SELECT last_id FROM ingestion_state
		WHERE parent_tweet_id = ? AND data_type = ?
	`, parentID, stateKey(relation, direction)).Scan(&lastID)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return lastID, err
}

// SetWatermark inserts or updates a watermark, last-writer-wins.
func (s *Store) SetWatermark(ctx context.Context, parentID string, relation Relation, direction Direction, lastID string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO ingestion_state (parent_tweet_id, data_type, last_id, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(parent_tweet_id, data_type) DO UPDATE SET
			last_id = excluded.last_id,
			updated_at = excluded.updated_at
	`, parentID, stateKey(relation, direction), lastID, time.Now().UTC())
	return err
}
