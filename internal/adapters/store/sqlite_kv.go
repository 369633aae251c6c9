package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SQLite-backed implementation of the KeyValueStore port. Values are whole
// JSON snapshots; every Put overwrites the previous value (last writer wins).
type SqliteKVStore struct{ DB *sql.DB }

func NewSqliteKVStore(db *sql.DB) *SqliteKVStore {
	return &SqliteKVStore{DB: db}
}

// Fetch the stored value for a key.
func (s *SqliteKVStore) Get(ctx context.Context, key string) (string, bool, error) {
	if s.DB == nil {
		return "", false, errors.New("sqlite kv store: DB is nil")
	}

	q := `
	SELECT value
	FROM kv
	WHERE key = ?;
	`
	var value string
	err := s.DB.QueryRowContext(ctx, q, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("kv get %q: query kv table: %w", key, err)
	}

	return value, true, nil
}

// Overwrite the value for a key.
func (s *SqliteKVStore) Put(ctx context.Context, key, value string) error {
	if s.DB == nil {
		return errors.New("sqlite kv store: DB is nil")
	}
	if key == "" {
		return errors.New("kv put: empty key")
	}

	q := `
	INSERT OR REPLACE INTO kv (
		key,
		value
	)
	VALUES (?, ?);
	`
	if _, err := s.DB.ExecContext(ctx, q, key, value); err != nil {
		return fmt.Errorf("kv put %q: %w", key, err)
	}

	return nil
}
