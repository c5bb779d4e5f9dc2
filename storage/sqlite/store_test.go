package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/poiesic/uidmap/core"
	"github.com/poiesic/uidmap/storage"
	"github.com/poiesic/uidmap/storage/storetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreContract(t *testing.T) {
	var lastPath string
	storetest.Run(t, storetest.Factory{
		Open: func(t *testing.T) storage.MappingStore {
			lastPath = filepath.Join(t.TempDir(), "uid_phone_map.db")
			s, err := Open(lastPath)
			require.NoError(t, err)
			return s
		},
		Reopen: func(t *testing.T) storage.MappingStore {
			s, err := Open(lastPath)
			require.NoError(t, err)
			return s
		},
	})
}

func TestStore_SchemaLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "uid_phone_map.db")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.EnsureSchema(context.Background()))
	require.NoError(t, s.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	var name string
	err = db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'index' AND tbl_name = 'user_mapping' AND name = 'idx_phone_number'`).Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "idx_phone_number", name)

	var plan string
	var id, parent, notused int
	err = db.QueryRow(`EXPLAIN QUERY PLAN SELECT uid FROM user_mapping WHERE phone_number = '1'`).Scan(&id, &parent, &notused, &plan)
	require.NoError(t, err)
	assert.Contains(t, plan, "idx_phone_number")
}

func TestStore_UpsertWithoutSchema(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "db"))
	require.NoError(t, err)
	defer s.Close()

	err = s.UpsertBatch(context.Background(), []core.Mapping{{PrimaryKey: "1", AttributeValue: "2"}})
	assert.ErrorIs(t, err, storage.ErrTransactionFailed)
}

func TestStore_CanceledContextAbortsBatch(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "db"))
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.EnsureSchema(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = s.UpsertBatch(ctx, []core.Mapping{{PrimaryKey: "1", AttributeValue: "2"}})
	assert.ErrorIs(t, err, storage.ErrTransactionFailed)

	n, err := s.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestStore_Closed(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "db"))
	require.NoError(t, err)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	_, err = s.Get(context.Background(), "1")
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
}
