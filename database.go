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


package uidmap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hashicorp/go-multierror"
	"github.com/poiesic/uidmap/config"
	"github.com/poiesic/uidmap/ingestion"
	"github.com/poiesic/uidmap/lookup"
	"github.com/poiesic/uidmap/storage"
	"github.com/poiesic/uidmap/storage/badger"
	"github.com/poiesic/uidmap/storage/bolt"
	"github.com/poiesic/uidmap/storage/sqlite"
)

// OpenStore opens the mapping store for backend at path.
func OpenStore(backend storage.Backend, path string) (storage.MappingStore, error) {
	switch backend {
	case storage.BackendSQLite:
		return sqlite.Open(path)
	case storage.BackendBadger:
		return badger.Open(path)
	case storage.BackendBolt:
		return bolt.Open(path)
	default:
		return nil, fmt.Errorf("%w: %q", storage.ErrUnknownBackend, backend)
	}
}

// Database owns an open store and hands out drivers and resolvers bound to
// it.
type Database struct {
	store  storage.MappingStore
	config *config.Config
	logger *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*Database)

// WithLogger sets the logger passed on to drivers and resolvers.
func WithLogger(logger *slog.Logger) DatabaseOption {
	return func(db *Database) {
		if logger != nil {
			db.logger = logger
		}
	}
}

// NewDatabase validates cfg and opens the store it names.
func NewDatabase(cfg *config.Config, opts ...DatabaseOption) (*Database, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	db := &Database{
		config: cfg,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(db)
	}

	store, err := OpenStore(cfg.Backend, cfg.StorePath)
	if err != nil {
		return nil, fmt.Errorf("open %s store at %s: %w", cfg.Backend, cfg.StorePath, err)
	}
	db.store = store
	db.logger.Debug("store opened", "backend", cfg.Backend, "path", cfg.StorePath)
	return db, nil
}

func (db *Database) Close() error {
	if err := db.store.Close(); err != nil {
		db.logger.Error("error closing store", "err", err)
		return err
	}
	return nil
}

func (db *Database) Store() storage.MappingStore {
	return db.store
}

func (db *Database) Config() *config.Config {
	return db.config
}

func (db *Database) NewDriver(opts ...ingestion.Option) (*ingestion.Driver, error) {
	opts = append([]ingestion.Option{ingestion.WithLogger(db.logger)}, opts...)
	return ingestion.NewDriver(db.store, db.config, opts...)
}

func (db *Database) NewResolver(opts ...lookup.Option) (*lookup.Resolver, error) {
	opts = append([]lookup.Option{
		lookup.WithLogger(db.logger),
		lookup.WithRegion(db.config.Region),
	}, opts...)
	return lookup.NewResolver(db.store, opts...)
}

// Import opens the store named by cfg, runs one ingestion into it and
// closes it again. A close failure is reported together with any run
// error.
func Import(ctx context.Context, cfg *config.Config, opts ...ingestion.Option) (report *ingestion.Report, err error) {
	db, err := NewDatabase(cfg)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			err = multierror.Append(err, fmt.Errorf("close store: %w", closeErr)).ErrorOrNil()
		}
	}()

	driver, err := db.NewDriver(opts...)
	if err != nil {
		return nil, err
	}
	return driver.Run(ctx)
}
