package badger

import (
	"bytes"
	"context"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/uidmap/core"
	"github.com/poiesic/uidmap/storage"
	"github.com/poiesic/uidmap/storage/storetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMappingStoreContract(t *testing.T) {
	var lastDir string
	storetest.Run(t, storetest.Factory{
		Open: func(t *testing.T) storage.MappingStore {
			lastDir = t.TempDir()
			s, err := Open(lastDir)
			require.NoError(t, err)
			return s
		},
		Reopen: func(t *testing.T) storage.MappingStore {
			s, err := Open(lastDir)
			require.NoError(t, err)
			return s
		},
	})
}

func TestMappingStore_InMemory(t *testing.T) {
	s, err := NewMemoryStore()
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	require.NoError(t, s.EnsureSchema(ctx))
	require.NoError(t, s.UpsertBatch(ctx, []core.Mapping{{PrimaryKey: "1", AttributeValue: "2"}}))

	got, err := s.Get(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "2", got.AttributeValue)
}

func TestMappingStore_UpsertWithoutSchema(t *testing.T) {
	s, err := NewMemoryStore()
	require.NoError(t, err)
	defer s.Close()

	err = s.UpsertBatch(context.Background(), []core.Mapping{{PrimaryKey: "1", AttributeValue: "2"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, storage.ErrTransactionFailed)
	assert.ErrorIs(t, err, storage.ErrSchemaMissing)
}

func TestMappingStore_Closed(t *testing.T) {
	s, err := NewMemoryStore()
	require.NoError(t, err)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close(), "second close is a no-op")

	ctx := context.Background()
	assert.ErrorIs(t, s.EnsureSchema(ctx), storage.ErrStorageClosed)
	assert.ErrorIs(t, s.UpsertBatch(ctx, []core.Mapping{{PrimaryKey: "1", AttributeValue: "2"}}), storage.ErrStorageClosed)
	_, err = s.Get(ctx, "1")
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
}

func TestMappingStore_NoStaleIndexKeys(t *testing.T) {
	s, err := NewMemoryStore()
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	require.NoError(t, s.EnsureSchema(ctx))
	require.NoError(t, s.UpsertBatch(ctx, []core.Mapping{
		{PrimaryKey: "9001", AttributeValue: "5551234"},
		{PrimaryKey: "9001", AttributeValue: "5555678"},
	}))
	require.NoError(t, s.UpsertBatch(ctx, []core.Mapping{
		{PrimaryKey: "9001", AttributeValue: "5550000"},
	}))

	var indexKeys [][]byte
	err = s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(attributeIndexPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()
		for iter.Rewind(); iter.Valid(); iter.Next() {
			indexKeys = append(indexKeys, iter.Item().KeyCopy(nil))
		}
		return nil
	}, false)
	require.NoError(t, err)

	require.Len(t, indexKeys, 1)
	assert.True(t, bytes.Equal(makeAttributeIndexKey("5550000", "9001"), indexKeys[0]))
}

func TestKeys(t *testing.T) {
	assert.Equal(t, []byte("umap:9001"), makeMappingKey("9001"))
	assert.Equal(t, []byte("uidx:555\x009001"), makeAttributeIndexKey("555", "9001"))

	partial := makePartialAttributeIndexKey("555")
	assert.Equal(t, "9001", primaryKeyFromIndexKey(makeAttributeIndexKey("555", "9001"), partial))
	assert.False(t, bytes.HasPrefix(makeAttributeIndexKey("5555", "1"), partial))
}
