package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"geostation-service/internal/platform/obs"
)

// Postgres-backed implementation of the KeyValueStore port, for setups that
// keep their snapshots in a shared database instead of a local file.
type SQLKVStore struct{ DB *sql.DB }

func NewSQLKVStore(db *sql.DB) *SQLKVStore {
	return &SQLKVStore{DB: db}
}

// Fetch the stored value for a key.
func (s *SQLKVStore) Get(ctx context.Context, key string) (_ string, _ bool, err error) {
	defer obs.Time(ctx, "kv.Get")(&err)

	if s.DB == nil {
		return "", false, errors.New("sql kv store: DB is nil")
	}

	q := `
	SELECT value
	FROM kv
	WHERE key = $1;
	`
	var value string
	err = s.DB.QueryRowContext(ctx, q, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("kv get %q: query kv table: %w", key, err)
	}

	return value, true, nil
}

// Overwrite the value for a key.
func (s *SQLKVStore) Put(ctx context.Context, key, value string) (err error) {
	defer obs.Time(ctx, "kv.Put")(&err)

	if s.DB == nil {
		return errors.New("sql kv store: DB is nil")
	}
	if key == "" {
		return errors.New("kv put: empty key")
	}

	q := `
	INSERT INTO kv (key, value)
	VALUES ($1, $2)
	ON CONFLICT (key) DO UPDATE
	SET value = EXCLUDED.value;
	`
	if _, err := s.DB.ExecContext(ctx, q, key, value); err != nil {
		return fmt.Errorf("kv put %q: %w", key, err)
	}

	return nil
}
