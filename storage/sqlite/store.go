// Package sqlite implements storage.MappingStore on a single SQLite file.
//
// The layout is a user_mapping table keyed by uid with a phone_number
// column, plus the idx_phone_number index. SQLite maintains the index on
// every write. Other SQLite tooling can read the file directly.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync/atomic"

	_ "github.com/mattn/go-sqlite3"
	"github.com/poiesic/uidmap/core"
	"github.com/poiesic/uidmap/storage"
)

const (
	createTableSQL = `CREATE TABLE IF NOT EXISTS user_mapping (
	uid TEXT PRIMARY KEY NOT NULL,
	phone_number TEXT NOT NULL
)`
	createIndexSQL = `CREATE INDEX IF NOT EXISTS idx_phone_number ON user_mapping (phone_number)`
	upsertSQL      = `INSERT OR REPLACE INTO user_mapping (uid, phone_number) VALUES (?, ?)`
	getSQL         = `SELECT uid, phone_number FROM user_mapping WHERE uid = ?`
	findSQL        = `SELECT uid, phone_number FROM user_mapping WHERE phone_number = ? ORDER BY uid`
	countSQL       = `SELECT COUNT(*) FROM user_mapping`
)

// Store implements storage.MappingStore for SQLite.
type Store struct {
	db     *sql.DB
	closed atomic.Bool
}

var _ storage.MappingStore = (*Store)(nil)

// Open opens (or creates) the SQLite file at path.
//
// The pool is capped at one connection: the store is a single shared
// connection owned by whoever opened it.
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite store %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("open sqlite store %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	return s.db.Close()
}

// EnsureSchema creates the table and index if they do not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if s.closed.Load() {
		return storage.ErrStorageClosed
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{createTableSQL, createIndexSQL} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// UpsertBatch runs INSERT OR REPLACE for every record inside one transaction.
func (s *Store) UpsertBatch(ctx context.Context, records []core.Mapping) error {
	if len(records) == 0 {
		return nil
	}
	if err := core.ValidateMappings(records); err != nil {
		return err
	}
	if s.closed.Load() {
		return storage.ErrStorageClosed
	}
	if err := s.upsert(ctx, records); err != nil {
		return fmt.Errorf("%w: upsert %d records: %w", storage.ErrTransactionFailed, len(records), err)
	}
	return nil
}

func (s *Store) upsert(ctx context.Context, records []core.Mapping) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	// No-op after a successful Commit.
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, upsertSQL)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, record := range records {
		if _, err := stmt.ExecContext(ctx, record.PrimaryKey, record.AttributeValue); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Get retrieves a single mapping by primary key.
func (s *Store) Get(ctx context.Context, primaryKey string) (core.Mapping, error) {
	if s.closed.Load() {
		return core.Mapping{}, storage.ErrStorageClosed
	}
	var m core.Mapping
	err := s.db.QueryRowContext(ctx, getSQL, primaryKey).Scan(&m.PrimaryKey, &m.AttributeValue)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Mapping{}, storage.ErrNotFound
	}
	if err != nil {
		return core.Mapping{}, err
	}
	return m, nil
}

// FindByAttribute queries through idx_phone_number.
func (s *Store) FindByAttribute(ctx context.Context, value string) ([]core.Mapping, error) {
	if value == "" {
		return nil, fmt.Errorf("%w: empty attribute value", storage.ErrInvalidQuery)
	}
	if s.closed.Load() {
		return nil, storage.ErrStorageClosed
	}
	rows, err := s.db.QueryContext(ctx, findSQL, value)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []core.Mapping{}
	for rows.Next() {
		var m core.Mapping
		if err := rows.Scan(&m.PrimaryKey, &m.AttributeValue); err != nil {
			return nil, err
		}
		results = append(results, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// Count returns the number of rows in user_mapping.
func (s *Store) Count(ctx context.Context) (int, error) {
	if s.closed.Load() {
		return 0, storage.ErrStorageClosed
	}
	var n int
	if err := s.db.QueryRowContext(ctx, countSQL).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
