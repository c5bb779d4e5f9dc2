package storage

import (
	"context"

	"github.com/poiesic/uidmap/core"
)

// BatchWriter is the write side of a MappingStore.
type BatchWriter interface {
	// UpsertBatch writes all records in one transaction. Existing primary
	// keys have their attribute value replaced. Later records in the slice
	// win over earlier ones with the same key. On error nothing is applied;
	// the error wraps ErrTransactionFailed.
	// An empty batch is a no-op.
	UpsertBatch(ctx context.Context, records []core.Mapping) error
}

// MappingStore is a persistent table of mappings with a unique primary key
// and a secondary index on the attribute value.
type MappingStore interface {
	BatchWriter

	// EnsureSchema creates the table and the attribute index if they do not
	// exist. Safe to call on every run.
	EnsureSchema(ctx context.Context) error

	// Get returns the mapping stored under primaryKey.
	// Returns ErrNotFound if the key doesn't exist.
	Get(ctx context.Context, primaryKey string) (core.Mapping, error)

	// FindByAttribute returns every mapping whose attribute value equals
	// value, using the secondary index. Results are ordered by primary key.
	// Returns an empty slice (no error) when nothing matches.
	FindByAttribute(ctx context.Context, value string) ([]core.Mapping, error)

	// Count returns the number of stored mappings.
	Count(ctx context.Context) (int, error)

	// Close releases the underlying connection.
	Close() error
}
