package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore keeps blobs in a single-file SQLite database.
type SQLiteStore struct {
	db *sqlx.DB
}

// OpenSQLite opens (or creates) filename and ensures the blob table exists.
func OpenSQLite(filename string) (*SQLiteStore, error) {
	if filename == "" {
		return nil, fmt.Errorf("sqlite storage: filename not set")
	}

	handle, err := sqlx.Connect("sqlite3", filename)
	if err != nil {
		return nil, fmt.Errorf("sqlite storage: open %s: %w", filename, err)
	}
	// sqlite needs to have a single writer
	handle.SetMaxOpenConns(1)

	schema := []string{
		`PRAGMA journal_mode = WAL;`,
		`CREATE TABLE IF NOT EXISTS library_blobs (
key TEXT NOT NULL PRIMARY KEY,
value TEXT NOT NULL,
updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);`,
	}
	for _, stmt := range schema {
		if _, err := handle.Exec(stmt); err != nil {
			_ = handle.Close()
			return nil, fmt.Errorf("sqlite storage: init schema: %w", err)
		}
	}

	return &SQLiteStore{db: handle}, nil
}

// Get returns the blob stored under key.
func (s *SQLiteStore) Get(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", ErrEmptyKey
	}
	var value string
	err := s.db.GetContext(ctx, &value, `SELECT value FROM library_blobs WHERE key = ?`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("sqlite get %s: %w", key, err)
	}
	return value, nil
}

// Put replaces the blob stored under key.
func (s *SQLiteStore) Put(ctx context.Context, key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO library_blobs (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)`,
		key, value)
	if err != nil {
		return fmt.Errorf("sqlite put %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Missing keys are ignored.
func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM library_blobs WHERE key = ?`, key); err != nil {
		return fmt.Errorf("sqlite delete %s: %w", key, err)
	}
	return nil
}

// Close closes the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
