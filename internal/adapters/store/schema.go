package store

import (
	"database/sql"
	"errors"
	"fmt"
)

// Initialize the key-value schema. The statement is portable across the
// SQLite and Postgres adapters.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	q := `
	CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	if _, err := db.Exec(q); err != nil {
		return fmt.Errorf("init schema: create kv table: %w", err)
	}

	return nil
}
