package ports

import "context"

// Port: durable string-valued key-value storage. The application keeps its
// whole state under two keys (settings, records) and overwrites each value
// wholesale on every save; there are no partial updates and no migrations.
type KeyValueStore interface {
	// Get returns the stored value and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)

	// Put overwrites the value for a key (last writer wins).
	Put(ctx context.Context, key string, value string) error
}
