package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/AGTDofficial/my-yt-playlist/internal/db"
)

// Migration is a named schema change applied by the migrate command.
type Migration struct {
	Name string
	SQL  string
}

// PostgresMigrations lists the schema the PostgresStore needs, in order.
var PostgresMigrations = []Migration{
	{
		Name: "0001_library_blobs.sql",
		SQL: `CREATE TABLE IF NOT EXISTS library_blobs (
        key TEXT PRIMARY KEY,
        value TEXT NOT NULL,
        updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`,
	},
}

// PostgresStore keeps blobs in the library_blobs table.
type PostgresStore struct {
	pool db.Pool
}

// NewPostgresStore constructs a blob store backed by PostgreSQL.
func NewPostgresStore(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Get returns the blob stored under key.
func (s *PostgresStore) Get(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", ErrEmptyKey
	}

	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return "", fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var value string
	err = conn.QueryRow(ctx, `SELECT value FROM library_blobs WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("select blob %s: %w", key, err)
	}
	return value, nil
}

// Put upserts the blob stored under key.
func (s *PostgresStore) Put(ctx context.Context, key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}

	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO library_blobs (key, value, updated_at)
        VALUES ($1, $2, NOW())
        ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
    `, key, value)
	if err != nil {
		return fmt.Errorf("upsert blob %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Missing keys are ignored.
func (s *PostgresStore) Delete(ctx context.Context, key string) error {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, `DELETE FROM library_blobs WHERE key = $1`, key); err != nil {
		return fmt.Errorf("delete blob %s: %w", key, err)
	}
	return nil
}
