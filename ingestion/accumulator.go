package ingestion

import (
	"context"
	"time"

	"github.com/poiesic/uidmap/core"
	"github.com/poiesic/uidmap/storage"
)

// FlushFunc is called after a batch commits with the batch size and the
// time the commit took.
type FlushFunc func(records int, took time.Duration)

// Accumulator buffers mappings and commits them in batches of a fixed size.
//
// The buffer is reused between batches, so writers must not keep the slice
// passed to UpsertBatch.
type Accumulator struct {
	writer      storage.BatchWriter
	size        int
	buf         []core.Mapping
	beforeFlush func(records int)
	afterFlush  FlushFunc
	committed   int
	batches     int
}

// AccumulatorOption configures an Accumulator.
type AccumulatorOption func(*Accumulator)

// WithBeforeFlush registers a hook called right before a batch is written.
func WithBeforeFlush(fn func(records int)) AccumulatorOption {
	return func(a *Accumulator) {
		a.beforeFlush = fn
	}
}

// WithAfterFlush registers a hook called after a batch commits.
func WithAfterFlush(fn FlushFunc) AccumulatorOption {
	return func(a *Accumulator) {
		a.afterFlush = fn
	}
}

// NewAccumulator creates an Accumulator writing batches of size records.
func NewAccumulator(writer storage.BatchWriter, size int, opts ...AccumulatorOption) (*Accumulator, error) {
	if writer == nil {
		return nil, ErrStoreRequired
	}
	if size < 1 {
		return nil, ErrInvalidBatchSize
	}
	a := &Accumulator{
		writer: writer,
		size:   size,
		buf:    make([]core.Mapping, 0, min(size, 4096)),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Add queues m and commits the buffer once it holds a full batch.
func (a *Accumulator) Add(ctx context.Context, m core.Mapping) error {
	a.buf = append(a.buf, m)
	if len(a.buf) >= a.size {
		return a.Flush(ctx)
	}
	return nil
}

// Flush commits whatever is buffered. Flushing an empty buffer does nothing.
// On error the buffer is kept so the caller can inspect Pending.
func (a *Accumulator) Flush(ctx context.Context) error {
	n := len(a.buf)
	if n == 0 {
		return nil
	}
	if a.beforeFlush != nil {
		a.beforeFlush(n)
	}
	start := time.Now()
	if err := a.writer.UpsertBatch(ctx, a.buf); err != nil {
		return err
	}
	took := time.Since(start)

	clear(a.buf)
	a.buf = a.buf[:0]
	a.committed += n
	a.batches++

	if a.afterFlush != nil {
		a.afterFlush(n, took)
	}
	return nil
}

// Pending returns the number of buffered, uncommitted records.
func (a *Accumulator) Pending() int {
	return len(a.buf)
}

// Committed returns the number of records written so far.
func (a *Accumulator) Committed() int {
	return a.committed
}

// Batches returns the number of batches written so far.
func (a *Accumulator) Batches() int {
	return a.batches
}

// Size returns the batch size.
func (a *Accumulator) Size() int {
	return a.size
}
