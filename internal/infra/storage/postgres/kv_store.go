package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const upsertEntry = `
	INSERT INTO cache_entries (key, value, updated_at) VALUES ($1, $2, $3)
	ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`

// KVStore implements storage.KeyValueStore using PostgreSQL.
type KVStore struct {
	db *DB
}

// NewKVStore creates a new PostgreSQL key/value store.
func NewKVStore(db *DB) *KVStore {
	return &KVStore{db: db}
}

// Get retrieves a value by key.
func (s *KVStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.GetContext(ctx, &value, `SELECT value FROM cache_entries WHERE key = $1`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return value, true, nil
}

// SetMany upserts all entries in a single transaction.
func (s *KVStore) SetMany(ctx context.Context, entries map[string]string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UnixMilli()
	for k, v := range entries {
		if _, err := tx.ExecContext(ctx, upsertEntry, k, v, now); err != nil {
			return fmt.Errorf("failed to upsert %s: %w", k, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Ping checks connectivity.
func (s *KVStore) Ping(ctx context.Context) error {
	return s.db.Health(ctx)
}

// Close closes the database connection.
func (s *KVStore) Close() error {
	return s.db.Close()
}
