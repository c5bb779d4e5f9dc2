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
	"fmt"
	"io"
	"sync"
	"time"
)

// ProgressTracker writes human-readable progress lines for an import run.
type ProgressTracker struct {
	writer    io.Writer
	total     int
	batches   int
	startTime time.Time
	started   bool
	mu        sync.Mutex
}

// NewProgressTracker creates a progress tracker writing to writer
// (typically os.Stderr). A nil writer discards output.
func NewProgressTracker(writer io.Writer) *ProgressTracker {
	if writer == nil {
		writer = io.Discard
	}
	return &ProgressTracker{writer: writer}
}

// Start begins tracking progress.
func (p *ProgressTracker) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.startTime = time.Now()
	p.started = true
	p.total = 0
	p.batches = 0
}

// File announces that path is about to be read.
func (p *ProgressTracker) File(path string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return
	}
	fmt.Fprintf(p.writer, "Processing file: %s\n", path)
}

// Committed records a committed batch of n records and prints the
// cumulative total.
func (p *ProgressTracker) Committed(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return
	}
	p.total += n
	p.batches++
	fmt.Fprintf(p.writer, "Imported %d records so far (%.1f records/s)\n", p.total, p.rate())
}

// Finish prints the final summary line.
func (p *ProgressTracker) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return
	}
	fmt.Fprintf(p.writer, "Import complete: %d records in %d batches (%s)\n",
		p.total, p.batches, time.Since(p.startTime).Round(time.Millisecond))
}

// Total returns the cumulative number of committed records.
func (p *ProgressTracker) Total() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.total
}

// Elapsed returns the time elapsed since Start was called.
func (p *ProgressTracker) Elapsed() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return 0
	}
	return time.Since(p.startTime)
}

// rate must be called with lock held.
func (p *ProgressTracker) rate() float64 {
	secs := time.Since(p.startTime).Seconds()
	if secs <= 0 {
		return 0
	}
	return float64(p.total) / secs
}
