package uidmap

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/uidmap/config"
	"github.com/poiesic/uidmap/core"
	"github.com/poiesic/uidmap/ingestion"
	"github.com/poiesic/uidmap/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenStore(t *testing.T) {
	for _, backend := range storage.Backends() {
		t.Run(backend.String(), func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "store.db")
			store, err := OpenStore(backend, path)
			require.NoError(t, err)
			require.NotNil(t, store)
			require.NoError(t, store.EnsureSchema(context.Background()))
			assert.NoError(t, store.Close())
		})
	}

	t.Run("unknown backend", func(t *testing.T) {
		store, err := OpenStore("leveldb", filepath.Join(t.TempDir(), "x"))
		assert.ErrorIs(t, err, storage.ErrUnknownBackend)
		assert.Nil(t, store)
	})
}

func TestNewDatabase(t *testing.T) {
	t.Run("invalid config", func(t *testing.T) {
		db, err := NewDatabase(config.NewConfig(config.WithBatchSize(-1)))
		assert.ErrorIs(t, err, config.ErrInvalidConfig)
		assert.Nil(t, db)
	})

	t.Run("factory methods", func(t *testing.T) {
		cfg := config.NewConfig(
			config.WithBackend(storage.BackendBolt),
			config.WithStorePath(filepath.Join(t.TempDir(), "map.db")),
		)
		db, err := NewDatabase(cfg)
		require.NoError(t, err)
		defer db.Close()

		assert.NotNil(t, db.Store())
		assert.Same(t, cfg, db.Config())

		driver, err := db.NewDriver()
		require.NoError(t, err)
		assert.NotNil(t, driver)

		resolver, err := db.NewResolver()
		require.NoError(t, err)
		assert.NotNil(t, resolver)
	})
}

func TestImportEachBackend(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "qb1.txt"),
		[]byte("5551234----9001\n5555678----9001\n13800138000----9002\n"), 0o644))

	for _, backend := range storage.Backends() {
		t.Run(backend.String(), func(t *testing.T) {
			cfg := config.NewConfig(
				config.WithSourceDir(src),
				config.WithBackend(backend),
				config.WithStorePath(filepath.Join(t.TempDir(), "uid_phone_map.db")),
				config.WithBatchSize(2),
			)
			report, err := Import(context.Background(), cfg, ingestion.WithProgressWriter(io.Discard))
			require.NoError(t, err)
			assert.Equal(t, ingestion.StateDone, report.State)
			assert.Equal(t, 3, report.TotalRecords)
			assert.Equal(t, 2, report.Batches)

			// The store is closed by Import; reopen to check durability.
			db, err := NewDatabase(cfg)
			require.NoError(t, err)
			defer db.Close()

			got, err := db.Store().Get(context.Background(), "9001")
			require.NoError(t, err)
			assert.Equal(t, core.Mapping{PrimaryKey: "9001", AttributeValue: "5555678"}, got)

			resolver, err := db.NewResolver()
			require.NoError(t, err)
			res, err := resolver.Resolve(context.Background(), "13800138000")
			require.NoError(t, err)
			assert.Equal(t, "9002", res.Mappings[0].PrimaryKey)
		})
	}
}

func TestImportMissingSourceDir(t *testing.T) {
	cfg := config.NewConfig(
		config.WithSourceDir(filepath.Join(t.TempDir(), "data")),
		config.WithFallbackToCWD(false),
		config.WithStorePath(filepath.Join(t.TempDir(), "map.db")),
	)
	report, err := Import(context.Background(), cfg, ingestion.WithProgressWriter(io.Discard))
	require.ErrorIs(t, err, ingestion.ErrSourceDirMissing)
	require.NotNil(t, report)
	assert.Equal(t, ingestion.StateFailed, report.State)
}
