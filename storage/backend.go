package storage

import (
	"fmt"
	"strings"
)

// Backend names a MappingStore implementation.
type Backend string

const (
	// BackendSQLite stores mappings in a single SQLite file.
	BackendSQLite Backend = "sqlite"
	// BackendBadger stores mappings in a BadgerDB directory.
	BackendBadger Backend = "badger"
	// BackendBolt stores mappings in a single bbolt file.
	BackendBolt Backend = "bolt"
)

// Backends lists the supported backends.
func Backends() []Backend {
	return []Backend{BackendSQLite, BackendBadger, BackendBolt}
}

// ParseBackend maps a case-insensitive name to a Backend.
func ParseBackend(name string) (Backend, error) {
	b := Backend(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Backends() {
		if b == known {
			return b, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownBackend, name)
}

func (b Backend) String() string {
	return string(b)
}
