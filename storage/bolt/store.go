// Package bolt implements storage.MappingStore on a single bbolt file.
//
// Mappings live in the user_mapping bucket keyed by primary key. The
// idx_phone_number bucket holds one empty-valued entry per mapping, keyed by
// attribute value, a zero byte, then primary key, so a cursor seek on
// "value\x00" walks every key sharing that value in key order.
package bolt

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/poiesic/uidmap/core"
	"github.com/poiesic/uidmap/storage"
	bolt "go.etcd.io/bbolt"
)

var (
	mappingBucket = []byte("user_mapping")
	indexBucket   = []byte("idx_phone_number")
)

const openTimeout = time.Second

// Store implements storage.MappingStore for bbolt.
type Store struct {
	db     *bolt.DB
	closed atomic.Bool
}

var _ storage.MappingStore = (*Store)(nil)

// Open opens (or creates) the bbolt file at path. A second process holding
// the file lock makes Open fail after a short timeout instead of blocking.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: openTimeout})
	if err != nil {
		return nil, fmt.Errorf("open bolt store %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

// Close closes the database file.
func (s *Store) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	return s.db.Close()
}

// EnsureSchema creates both buckets if missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if s.closed.Load() {
		return storage.ErrStorageClosed
	}
	err := s.db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(mappingBucket); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(indexBucket)
		return err
	})
	if err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// UpsertBatch writes all records in one bbolt read-write transaction.
func (s *Store) UpsertBatch(ctx context.Context, records []core.Mapping) error {
	if len(records) == 0 {
		return nil
	}
	if err := core.ValidateMappings(records); err != nil {
		return err
	}
	if s.closed.Load() {
		return storage.ErrStorageClosed
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		mappings := tx.Bucket(mappingBucket)
		index := tx.Bucket(indexBucket)
		if mappings == nil || index == nil {
			return storage.ErrSchemaMissing
		}

		for _, record := range records {
			key := []byte(record.PrimaryKey)
			if existing := mappings.Get(key); existing != nil {
				old, err := storage.UnmarshalMapping(existing)
				if err != nil {
					return err
				}
				if old.AttributeValue == record.AttributeValue {
					continue
				}
				if err := index.Delete(indexKey(old.AttributeValue, old.PrimaryKey)); err != nil {
					return err
				}
			}
			if err := mappings.Put(key, storage.MarshalMapping(record)); err != nil {
				return err
			}
			if err := index.Put(indexKey(record.AttributeValue, record.PrimaryKey), []byte{}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: upsert %d records: %w", storage.ErrTransactionFailed, len(records), err)
	}
	return nil
}

// Get retrieves a single mapping by primary key.
func (s *Store) Get(ctx context.Context, primaryKey string) (core.Mapping, error) {
	if s.closed.Load() {
		return core.Mapping{}, storage.ErrStorageClosed
	}
	var result core.Mapping
	err := s.db.View(func(tx *bolt.Tx) error {
		mappings := tx.Bucket(mappingBucket)
		if mappings == nil {
			return storage.ErrNotFound
		}
		data := mappings.Get([]byte(primaryKey))
		if data == nil {
			return storage.ErrNotFound
		}
		var err error
		result, err = storage.UnmarshalMapping(data)
		return err
	})
	return result, err
}

// FindByAttribute walks the index bucket from "value\x00".
func (s *Store) FindByAttribute(ctx context.Context, value string) ([]core.Mapping, error) {
	if value == "" {
		return nil, fmt.Errorf("%w: empty attribute value", storage.ErrInvalidQuery)
	}
	if s.closed.Load() {
		return nil, storage.ErrStorageClosed
	}
	results := []core.Mapping{}
	err := s.db.View(func(tx *bolt.Tx) error {
		index := tx.Bucket(indexBucket)
		if index == nil {
			return nil
		}
		prefix := indexPrefix(value)
		c := index.Cursor()
		for k, _ := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, _ = c.Next() {
			results = append(results, core.Mapping{
				PrimaryKey:     string(k[len(prefix):]),
				AttributeValue: value,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// Count returns the number of keys in the mapping bucket.
func (s *Store) Count(ctx context.Context) (int, error) {
	if s.closed.Load() {
		return 0, storage.ErrStorageClosed
	}
	count := 0
	err := s.db.View(func(tx *bolt.Tx) error {
		mappings := tx.Bucket(mappingBucket)
		if mappings == nil {
			return nil
		}
		count = mappings.Stats().KeyN
		return nil
	})
	if errors.Is(err, bolt.ErrDatabaseNotOpen) {
		return 0, storage.ErrStorageClosed
	}
	return count, err
}

func indexPrefix(value string) []byte {
	buf := make([]byte, 0, len(value)+1)
	buf = append(buf, value...)
	return append(buf, 0)
}

func indexKey(value, primaryKey string) []byte {
	return append(indexPrefix(value), primaryKey...)
}
