// Package storetest holds the behavioural contract every
// storage.MappingStore implementation must satisfy.
package storetest

import (
	"context"
	"fmt"
	"testing"

	"github.com/poiesic/uidmap/core"
	"github.com/poiesic/uidmap/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory opens a fresh, empty store. Reopen, when non-nil, opens a second
// handle on the same underlying data after the first has been closed.
type Factory struct {
	Open   func(t *testing.T) storage.MappingStore
	Reopen func(t *testing.T) storage.MappingStore
}

// Run executes the full contract against stores produced by f.
func Run(t *testing.T, f Factory) {
	t.Run("EnsureSchemaIdempotent", func(t *testing.T) { testEnsureSchemaIdempotent(t, f) })
	t.Run("UpsertAndGet", func(t *testing.T) { testUpsertAndGet(t, f) })
	t.Run("OverwriteAcrossBatches", func(t *testing.T) { testOverwriteAcrossBatches(t, f) })
	t.Run("LastWriteWinsInBatch", func(t *testing.T) { testLastWriteWinsInBatch(t, f) })
	t.Run("IndexFollowsOverwrite", func(t *testing.T) { testIndexFollowsOverwrite(t, f) })
	t.Run("SharedAttributeValue", func(t *testing.T) { testSharedAttributeValue(t, f) })
	t.Run("IndexPrefixIsExact", func(t *testing.T) { testIndexPrefixIsExact(t, f) })
	t.Run("EmptyBatch", func(t *testing.T) { testEmptyBatch(t, f) })
	t.Run("InvalidRecordAbortsBatch", func(t *testing.T) { testInvalidRecordAbortsBatch(t, f) })
	t.Run("IdempotentReplay", func(t *testing.T) { testIdempotentReplay(t, f) })
	t.Run("NotFound", func(t *testing.T) { testNotFound(t, f) })
	t.Run("LargeBatch", func(t *testing.T) { testLargeBatch(t, f) })
	if f.Reopen != nil {
		t.Run("Durable", func(t *testing.T) { testDurable(t, f) })
	}
}

func open(t *testing.T, f Factory) storage.MappingStore {
	t.Helper()
	s := f.Open(t)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.EnsureSchema(context.Background()))
	return s
}

func m(pk, av string) core.Mapping {
	return core.Mapping{PrimaryKey: pk, AttributeValue: av}
}

func testEnsureSchemaIdempotent(t *testing.T, f Factory) {
	s := open(t, f)
	ctx := context.Background()

	require.NoError(t, s.UpsertBatch(ctx, []core.Mapping{m("1", "2")}))
	require.NoError(t, s.EnsureSchema(ctx))
	require.NoError(t, s.EnsureSchema(ctx))

	got, err := s.Get(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, m("1", "2"), got)
}

func testUpsertAndGet(t *testing.T, f Factory) {
	s := open(t, f)
	ctx := context.Background()

	require.NoError(t, s.UpsertBatch(ctx, []core.Mapping{
		m("9001", "5551234"),
		m("9002", "5550000"),
	}))

	got, err := s.Get(ctx, "9001")
	require.NoError(t, err)
	assert.Equal(t, m("9001", "5551234"), got)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func testOverwriteAcrossBatches(t *testing.T, f Factory) {
	s := open(t, f)
	ctx := context.Background()

	require.NoError(t, s.UpsertBatch(ctx, []core.Mapping{m("9001", "5551234")}))
	require.NoError(t, s.UpsertBatch(ctx, []core.Mapping{m("9001", "5555678")}))

	got, err := s.Get(ctx, "9001")
	require.NoError(t, err)
	assert.Equal(t, "5555678", got.AttributeValue)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func testLastWriteWinsInBatch(t *testing.T, f Factory) {
	s := open(t, f)
	ctx := context.Background()

	require.NoError(t, s.UpsertBatch(ctx, []core.Mapping{
		m("9001", "5551234"),
		m("9001", "5555678"),
	}))

	got, err := s.Get(ctx, "9001")
	require.NoError(t, err)
	assert.Equal(t, "5555678", got.AttributeValue)

	stale, err := s.FindByAttribute(ctx, "5551234")
	require.NoError(t, err)
	assert.Empty(t, stale)
}

func testIndexFollowsOverwrite(t *testing.T, f Factory) {
	s := open(t, f)
	ctx := context.Background()

	require.NoError(t, s.UpsertBatch(ctx, []core.Mapping{m("1", "100")}))
	require.NoError(t, s.UpsertBatch(ctx, []core.Mapping{m("1", "200")}))

	old, err := s.FindByAttribute(ctx, "100")
	require.NoError(t, err)
	assert.Empty(t, old)

	current, err := s.FindByAttribute(ctx, "200")
	require.NoError(t, err)
	assert.Equal(t, []core.Mapping{m("1", "200")}, current)
}

func testSharedAttributeValue(t *testing.T, f Factory) {
	s := open(t, f)
	ctx := context.Background()

	require.NoError(t, s.UpsertBatch(ctx, []core.Mapping{
		m("30", "777"),
		m("10", "777"),
		m("20", "888"),
		m("11", "777"),
	}))

	got, err := s.FindByAttribute(ctx, "777")
	require.NoError(t, err)
	assert.Equal(t, []core.Mapping{m("10", "777"), m("11", "777"), m("30", "777")}, got)
}

func testIndexPrefixIsExact(t *testing.T, f Factory) {
	s := open(t, f)
	ctx := context.Background()

	require.NoError(t, s.UpsertBatch(ctx, []core.Mapping{
		m("1", "55"),
		m("2", "555"),
		m("3", "5"),
	}))

	got, err := s.FindByAttribute(ctx, "55")
	require.NoError(t, err)
	assert.Equal(t, []core.Mapping{m("1", "55")}, got)
}

func testEmptyBatch(t *testing.T, f Factory) {
	s := open(t, f)
	ctx := context.Background()

	require.NoError(t, s.UpsertBatch(ctx, nil))
	require.NoError(t, s.UpsertBatch(ctx, []core.Mapping{}))

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func testInvalidRecordAbortsBatch(t *testing.T, f Factory) {
	s := open(t, f)
	ctx := context.Background()

	require.NoError(t, s.UpsertBatch(ctx, []core.Mapping{m("1", "100")}))

	err := s.UpsertBatch(ctx, []core.Mapping{
		m("1", "999"),
		m("2", "200"),
		m("", "300"),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrInvalidMapping)

	got, err := s.Get(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "100", got.AttributeValue, "failed batch must not be partially applied")

	_, err = s.Get(ctx, "2")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func testIdempotentReplay(t *testing.T, f Factory) {
	s := open(t, f)
	ctx := context.Background()

	batch := []core.Mapping{m("1", "10"), m("2", "20"), m("1", "11"), m("3", "20")}
	require.NoError(t, s.UpsertBatch(ctx, batch))
	first := snapshot(t, s, "1", "2", "3")

	require.NoError(t, s.UpsertBatch(ctx, batch))
	second := snapshot(t, s, "1", "2", "3")

	assert.Equal(t, first, second)
	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	shared, err := s.FindByAttribute(ctx, "20")
	require.NoError(t, err)
	assert.Len(t, shared, 2)
}

func testNotFound(t *testing.T, f Factory) {
	s := open(t, f)
	ctx := context.Background()

	_, err := s.Get(ctx, "404")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	got, err := s.FindByAttribute(ctx, "404")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func testLargeBatch(t *testing.T, f Factory) {
	s := open(t, f)
	ctx := context.Background()

	const n = 20000
	batch := make([]core.Mapping, 0, n)
	for i := 0; i < n; i++ {
		batch = append(batch, m(fmt.Sprintf("%d", 1000000+i), fmt.Sprintf("%d", 13800000000+i%100)))
	}
	require.NoError(t, s.UpsertBatch(ctx, batch))

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, n, count)

	shared, err := s.FindByAttribute(ctx, "13800000007")
	require.NoError(t, err)
	assert.Len(t, shared, n/100)
}

func testDurable(t *testing.T, f Factory) {
	ctx := context.Background()

	s := f.Open(t)
	require.NoError(t, s.EnsureSchema(ctx))
	require.NoError(t, s.UpsertBatch(ctx, []core.Mapping{m("9001", "5555678")}))
	require.NoError(t, s.Close())

	reopened := f.Reopen(t)
	defer reopened.Close()
	require.NoError(t, reopened.EnsureSchema(ctx))

	got, err := reopened.Get(ctx, "9001")
	require.NoError(t, err)
	assert.Equal(t, m("9001", "5555678"), got)

	byValue, err := reopened.FindByAttribute(ctx, "5555678")
	require.NoError(t, err)
	assert.Equal(t, []core.Mapping{m("9001", "5555678")}, byValue)
}

func snapshot(t *testing.T, s storage.MappingStore, keys ...string) map[string]string {
	t.Helper()
	out := make(map[string]string, len(keys))
	for _, k := range keys {
		got, err := s.Get(context.Background(), k)
		require.NoError(t, err)
		out[k] = got.AttributeValue
	}
	return out
}
