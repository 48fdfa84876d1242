package store

import (
	"database/sql"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Store handles all database operations
type Store struct {
	db *sql.DB
}

// Open creates a new Store with SQLite backend
func Open(dbPath string) (*Store, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS tweets (
		id TEXT PRIMARY KEY,
		parent_tweet_id TEXT NOT NULL,
		tweet_type TEXT NOT NULL,
		author_id TEXT,
		author_username TEXT,
		text TEXT,
		created_at DATETIME,
		likes INTEGER,
		retweets INTEGER,
		replies INTEGER,
		quotes INTEGER,
		fetched_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_tweets_parent ON tweets(parent_tweet_id);
	CREATE INDEX IF NOT EXISTS idx_tweets_type ON tweets(tweet_type);

	CREATE TABLE IF NOT EXISTS analysis (
		tweet_id TEXT PRIMARY KEY REFERENCES tweets(id),
		category TEXT,
		summary TEXT,
		priority INTEGER DEFAULT 0,
		analyzed_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS ingestion_state (
		parent_tweet_id TEXT NOT NULL,
		data_type TEXT NOT NULL,
		last_id TEXT,
		updated_at DATETIME NOT NULL,
		PRIMARY KEY (parent_tweet_id, data_type)
	);
	`

	_, err := s.db.Exec(schema)
	return err
}
