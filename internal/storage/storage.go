// Package storage persists the pomodoro snapshot. Two backends share the
// Store interface: a JSON file and a SQLite database.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	dataDirPerm  os.FileMode = 0700
	dataFilePerm os.FileMode = 0600
)

// Backend names accepted by Open.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// ErrUnknownBackend is returned by Open for unsupported backend names.
var ErrUnknownBackend = errors.New("unknown storage backend")

// Store loads and saves snapshots.
//
// Load always returns a usable snapshot. A non-nil error alongside it is a
// warning describing how missing or damaged data was recovered.
type Store interface {
	Load() (*Snapshot, error)
	Save(*Snapshot) error
	Close() error
}

// Open creates the data directory and returns the store for backend.
// An empty backend selects JSON.
func Open(backend, dataDir string) (Store, error) {
	if err := os.MkdirAll(dataDir, dataDirPerm); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendJSON:
		return NewJSONStore(dataDir)
	case BackendSQLite:
		return OpenSQLite(filepath.Join(dataDir, "tomato.db"))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}
