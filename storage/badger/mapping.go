// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package badger

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/uidmap/core"
	"github.com/poiesic/uidmap/storage"
)

// MappingStore implements storage.MappingStore for BadgerDB.
//
// Each mapping is stored under makeMappingKey; its attribute index entry is
// an empty value under makeAttributeIndexKey. Both are written in the same
// transaction.
type MappingStore struct {
	backend *Backend
}

var _ storage.MappingStore = (*MappingStore)(nil)

// NewMappingStore creates a MappingStore on an open backend. The store takes
// ownership of the backend and closes it in Close.
func NewMappingStore(backend *Backend) *MappingStore {
	return &MappingStore{backend: backend}
}

// Open opens (or creates) a BadgerDB directory at path.
func Open(path string) (*MappingStore, error) {
	backend, err := OpenBackend(path, false)
	if err != nil {
		return nil, err
	}
	return NewMappingStore(backend), nil
}

// Close closes the backend.
func (s *MappingStore) Close() error {
	if s.backend.IsClosed() {
		return nil
	}
	return s.backend.Close()
}

// EnsureSchema writes the schema marker if it is missing.
func (s *MappingStore) EnsureSchema(ctx context.Context) error {
	if s.backend.IsClosed() {
		return storage.ErrStorageClosed
	}
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		_, err := tx.Get([]byte(schemaKey))
		if err == nil {
			return nil
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		if err := tx.Set([]byte(schemaKey), []byte(schemaVersion)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// UpsertBatch writes all records in a single transaction.
func (s *MappingStore) UpsertBatch(ctx context.Context, records []core.Mapping) error {
	if len(records) == 0 {
		return nil
	}
	if err := core.ValidateMappings(records); err != nil {
		return err
	}
	if s.backend.IsClosed() {
		return storage.ErrStorageClosed
	}

	err := s.backend.WithTx(func(tx *badger.Txn) error {
		if _, err := tx.Get([]byte(schemaKey)); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrSchemaMissing
			}
			return err
		}

		for _, record := range records {
			key := makeMappingKey(record.PrimaryKey)

			// Reads see this transaction's pending writes, so repeated keys
			// within the batch clean up after each other.
			old, found, err := readMapping(tx, key)
			if err != nil {
				return err
			}
			if found {
				if old.AttributeValue == record.AttributeValue {
					continue
				}
				oldIndexKey := makeAttributeIndexKey(old.AttributeValue, old.PrimaryKey)
				if err := tx.Delete(oldIndexKey); err != nil {
					return err
				}
			}

			if err := tx.Set(key, storage.MarshalMapping(record)); err != nil {
				return err
			}
			indexKey := makeAttributeIndexKey(record.AttributeValue, record.PrimaryKey)
			if err := tx.Set(indexKey, nil); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return fmt.Errorf("%w: upsert %d records: %w", storage.ErrTransactionFailed, len(records), err)
	}
	return nil
}

// Get retrieves a single mapping by primary key.
func (s *MappingStore) Get(ctx context.Context, primaryKey string) (core.Mapping, error) {
	if s.backend.IsClosed() {
		return core.Mapping{}, storage.ErrStorageClosed
	}
	var result core.Mapping
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		m, found, err := readMapping(tx, makeMappingKey(primaryKey))
		if err != nil {
			return err
		}
		if !found {
			return storage.ErrNotFound
		}
		result = m
		return nil
	}, false)
	return result, err
}

// FindByAttribute scans the attribute index for value.
func (s *MappingStore) FindByAttribute(ctx context.Context, value string) ([]core.Mapping, error) {
	if value == "" {
		return nil, fmt.Errorf("%w: empty attribute value", storage.ErrInvalidQuery)
	}
	if s.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}
	results := []core.Mapping{}
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		partial := makePartialAttributeIndexKey(value)
		opts := badger.DefaultIteratorOptions
		opts.Prefix = partial
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			primaryKey := primaryKeyFromIndexKey(iter.Item().Key(), partial)
			results = append(results, core.Mapping{
				PrimaryKey:     primaryKey,
				AttributeValue: value,
			})
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return results, nil
}

// Count returns the number of stored mappings.
func (s *MappingStore) Count(ctx context.Context) (int, error) {
	if s.backend.IsClosed() {
		return 0, storage.ErrStorageClosed
	}
	count := 0
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(mappingPrefix)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	return count, err
}

// readMapping reads and decodes the mapping under key.
func readMapping(tx *badger.Txn, key []byte) (core.Mapping, bool, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return core.Mapping{}, false, nil
		}
		return core.Mapping{}, false, err
	}
	var m core.Mapping
	err = item.Value(func(val []byte) error {
		var err error
		m, err = storage.UnmarshalMapping(val)
		return err
	})
	if err != nil {
		return core.Mapping{}, false, err
	}
	return m, true, nil
}
