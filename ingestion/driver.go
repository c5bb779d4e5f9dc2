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


package ingestion

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"github.com/go-crypt/x/blake2b"
	"github.com/poiesic/uidmap/config"
	"github.com/poiesic/uidmap/extract"
	"github.com/poiesic/uidmap/storage"
)

// Option configures a Driver.
type Option func(*Driver)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(d *Driver) {
		d.logger = logger
	}
}

// WithProgressWriter sets where progress lines go. Defaults to os.Stderr.
func WithProgressWriter(w io.Writer) Option {
	return func(d *Driver) {
		d.progress = w
	}
}

// WithMetrics makes the driver count its work in m.
func WithMetrics(m *Metrics) Option {
	return func(d *Driver) {
		d.metrics = m
	}
}

// Driver runs one import: discover files, extract mappings, commit them in
// batches. A Driver is single use.
type Driver struct {
	store    storage.MappingStore
	config   *config.Config
	logger   *slog.Logger
	progress io.Writer
	metrics  *Metrics
	open     func(name string) (io.ReadCloser, error)
	state    atomic.Int32
	ran      atomic.Bool
}

// NewDriver creates a driver writing into store. The config is validated
// here; the store stays owned by the caller.
func NewDriver(store storage.MappingStore, cfg *config.Config, opts ...Option) (*Driver, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if cfg == nil {
		return nil, ErrConfigRequired
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	d := &Driver{
		store:    store,
		config:   cfg,
		logger:   slog.Default(),
		progress: os.Stderr,
		open:     openFile,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.logger == nil {
		d.logger = slog.Default()
	}
	if d.metrics == nil {
		d.metrics = NewMetrics()
	}
	return d, nil
}

// State returns the current state. Safe to call from other goroutines.
func (d *Driver) State() State {
	return State(d.state.Load())
}

// Metrics returns the metrics the driver updates.
func (d *Driver) Metrics() *Metrics {
	return d.metrics
}

func (d *Driver) setState(s State) {
	prev := State(d.state.Swap(int32(s)))
	if prev != s {
		d.logger.Debug("ingestion state", "from", prev, "to", s)
	}
}

// Run performs the import. The returned Report is never nil; on error it
// describes the work done before the failure and its State is StateFailed.
func (d *Driver) Run(ctx context.Context) (*Report, error) {
	report := &Report{}
	if !d.ran.CompareAndSwap(false, true) {
		report.State = StateFailed
		return report, ErrAlreadyRan
	}

	start := time.Now()
	err := d.run(ctx, report)
	report.Elapsed = time.Since(start)

	if err != nil {
		d.setState(StateFailed)
		d.metrics.Failures.Inc()
		d.logger.Error("import failed",
			"records", report.TotalRecords,
			"batches", report.Batches,
			"err", err)
	} else {
		d.setState(StateDone)
		d.metrics.observeDone(time.Now())
		d.logger.Info("import complete",
			"records", report.TotalRecords,
			"batches", report.Batches,
			"files", len(report.Files),
			"skipped", len(report.SkippedFiles),
			"elapsed", report.Elapsed)
	}
	report.State = d.State()

	if d.config.MetricsFile != "" {
		if werr := d.metrics.WriteFile(d.config.MetricsFile); werr != nil {
			d.logger.Warn("metrics not written", "err", werr)
		}
	}
	return report, err
}

func (d *Driver) run(ctx context.Context, report *Report) error {
	if err := d.store.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	d.setState(StateSchemaReady)

	found, err := DiscoverFiles(d.config.SourceDir, d.config.Pattern, d.config.FallbackToCWD, d.logger)
	if err != nil {
		return err
	}
	report.SourceDir = found.Dir
	report.FellBack = found.FellBack
	d.logger.Info("input files discovered",
		"dir", found.Dir,
		"files", len(found.Files),
		"fallback", found.FellBack)

	tracker := NewProgressTracker(d.progress)
	tracker.Start()

	acc, err := NewAccumulator(d.store, d.config.BatchSize,
		WithBeforeFlush(func(int) {
			if d.State() == StateExtracting {
				d.setState(StateBatching)
			}
		}),
		WithAfterFlush(func(n int, took time.Duration) {
			d.metrics.observeBatch(n, took)
			tracker.Committed(n)
			report.TotalRecords = tracker.Total()
			report.Batches++
			if d.State() == StateBatching {
				d.setState(StateExtracting)
			}
		}),
	)
	if err != nil {
		return err
	}

	for _, path := range found.Files {
		if err := ctx.Err(); err != nil {
			return err
		}
		tracker.File(path)
		fr, err := d.ingestFile(ctx, path, acc)
		if fr != nil {
			report.Files = append(report.Files, *fr)
			d.metrics.Files.Inc()
		}
		if err == nil {
			continue
		}
		if !errors.Is(err, ErrFileUnreadable) {
			return err
		}
		d.logger.Warn("skipping unreadable file", "path", path, "err", err)
		report.SkippedFiles = append(report.SkippedFiles, SkippedFile{Path: path, Err: err})
		d.metrics.SkippedFiles.Inc()
	}

	d.setState(StateFlushing)
	if err := acc.Flush(ctx); err != nil {
		return fmt.Errorf("final flush: %w", err)
	}
	tracker.Finish()
	return nil
}

// ingestFile streams one file into acc. A nil FileReport with an error
// wrapping ErrFileUnreadable means the file was skipped; records already
// queued from it are kept.
func (d *Driver) ingestFile(ctx context.Context, path string, acc *Accumulator) (*FileReport, error) {
	d.setState(StateReading)
	f, err := d.open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFileUnreadable, path, err)
	}
	defer f.Close()

	digest, err := newDigest()
	if err != nil {
		return nil, err
	}

	d.setState(StateExtracting)
	scanner := extract.NewScanner(io.TeeReader(f, digest))
	records := 0
	for scanner.Scan() {
		if err := acc.Add(ctx, extract.Remap(scanner.Pair())); err != nil {
			return nil, err
		}
		records++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFileUnreadable, path, err)
	}

	d.logger.Debug("file ingested", "path", path, "records", records, "lines", scanner.Lines())
	return &FileReport{
		Path:    path,
		Records: records,
		Lines:   scanner.Lines(),
		Digest:  hex.EncodeToString(digest.Sum(nil)),
	}, nil
}

func openFile(name string) (io.ReadCloser, error) {
	return os.Open(name)
}

func newDigest() (hash.Hash, error) {
	h, err := blake2b.New(32, nil)
	if err != nil {
		return nil, fmt.Errorf("create digest: %w", err)
	}
	return h, nil
}
