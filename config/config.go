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


// Package config holds the settings shared by the uidmap commands.
//
// Values come from DefaultConfig, then an optional YAML or TOML file (see
// Load), then command-line flags. Only keys present in the file override
// defaults.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar"
	"github.com/poiesic/uidmap/storage"
)

const (
	// DefaultBatchSize is the number of records committed per transaction.
	DefaultBatchSize = 50000

	// DefaultPattern matches the dump files produced by the export tool.
	DefaultPattern = "qb*.txt"

	// DefaultStorePath is the store file (or directory, for badger).
	DefaultStorePath = "uid_phone_map.db"

	// DefaultSourceDir is where dumps are looked for first.
	DefaultSourceDir = "data"

	// DefaultRegion is used to render attribute values as phone numbers.
	DefaultRegion = "CN"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds ingestion and store settings.
type Config struct {
	// SourceDir is scanned for files matching Pattern.
	SourceDir string

	// Pattern is a glob (doublestar syntax) matched inside SourceDir.
	Pattern string

	// FallbackToCWD makes discovery retry Pattern in the working directory
	// when SourceDir has no matches or does not exist.
	FallbackToCWD bool

	// StorePath is the store file or directory.
	StorePath string

	// Backend selects the store implementation.
	Backend storage.Backend

	// BatchSize is the number of records per upsert transaction.
	BatchSize int

	// MetricsFile, when set, receives run metrics in Prometheus text format.
	MetricsFile string

	// Region is the default region for phone number formatting in lookups.
	Region string
}

// Option configures a Config.
type Option func(*Config)

// WithSourceDir sets the directory scanned for dumps.
func WithSourceDir(dir string) Option {
	return func(c *Config) {
		c.SourceDir = dir
	}
}

// WithPattern sets the file name glob.
func WithPattern(pattern string) Option {
	return func(c *Config) {
		c.Pattern = pattern
	}
}

// WithFallbackToCWD enables or disables the working directory fallback.
func WithFallbackToCWD(enabled bool) Option {
	return func(c *Config) {
		c.FallbackToCWD = enabled
	}
}

// WithStorePath sets the store location.
func WithStorePath(path string) Option {
	return func(c *Config) {
		c.StorePath = path
	}
}

// WithBackend sets the store implementation.
func WithBackend(backend storage.Backend) Option {
	return func(c *Config) {
		c.Backend = backend
	}
}

// WithBatchSize sets the number of records per transaction.
func WithBatchSize(size int) Option {
	return func(c *Config) {
		c.BatchSize = size
	}
}

// WithMetricsFile sets the metrics output file.
func WithMetricsFile(path string) Option {
	return func(c *Config) {
		c.MetricsFile = path
	}
}

// WithRegion sets the phone number region.
func WithRegion(region string) Option {
	return func(c *Config) {
		c.Region = region
	}
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		SourceDir:     DefaultSourceDir,
		Pattern:       DefaultPattern,
		FallbackToCWD: true,
		StorePath:     DefaultStorePath,
		Backend:       storage.BackendSQLite,
		BatchSize:     DefaultBatchSize,
		Region:        DefaultRegion,
	}
}

// NewConfig returns DefaultConfig with opts applied.
func NewConfig(opts ...Option) *Config {
	cfg := DefaultConfig()
	cfg.Apply(opts...)
	return cfg
}

// Apply applies opts in order.
func (c *Config) Apply(opts ...Option) {
	for _, opt := range opts {
		opt(c)
	}
}

// Normalize trims whitespace and canonicalizes names.
func (c *Config) Normalize() {
	c.SourceDir = strings.TrimSpace(c.SourceDir)
	c.Pattern = strings.TrimSpace(c.Pattern)
	c.StorePath = strings.TrimSpace(c.StorePath)
	c.MetricsFile = strings.TrimSpace(c.MetricsFile)
	c.Backend = storage.Backend(strings.ToLower(strings.TrimSpace(string(c.Backend))))
	c.Region = strings.ToUpper(strings.TrimSpace(c.Region))
}

// Validate normalizes c and checks every field.
func (c *Config) Validate() error {
	c.Normalize()

	if c.SourceDir == "" {
		return fmt.Errorf("%w: source directory is required", ErrInvalidConfig)
	}
	if c.Pattern == "" {
		return fmt.Errorf("%w: pattern is required", ErrInvalidConfig)
	}
	if _, err := doublestar.Match(c.Pattern, ""); err != nil {
		return fmt.Errorf("%w: pattern %q: %w", ErrInvalidConfig, c.Pattern, err)
	}
	if c.StorePath == "" {
		return fmt.Errorf("%w: store path is required", ErrInvalidConfig)
	}
	if _, err := storage.ParseBackend(string(c.Backend)); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("%w: batch size must be greater than 0", ErrInvalidConfig)
	}
	return nil
}
