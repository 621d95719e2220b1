package engine

import (
	"fmt"
	"os"
)

// Backend identifies a search engine implementation.
type Backend string

const (
	// BackendSQLite stores documents in a SQLite FTS5 virtual table.
	BackendSQLite Backend = "sqlite"

	// BackendBleve stores documents in a Bleve v2 index.
	BackendBleve Backend = "bleve"
)

// ParseBackend validates a backend name from configuration.
func ParseBackend(name string) (Backend, error) {
	switch Backend(name) {
	case BackendSQLite, BackendBleve:
		return Backend(name), nil
	case "":
		return BackendSQLite, nil
	default:
		return "", fmt.Errorf("unknown search backend %q (want %q or %q)", name, BackendSQLite, BackendBleve)
	}
}

// PathFor returns the on-disk location for an index rooted at base.
// SQLite uses a single database file, Bleve a directory.
func PathFor(backend Backend, base string) string {
	if base == "" {
		return ""
	}
	switch backend {
	case BackendBleve:
		return base + ".bleve"
	default:
		return base + ".db"
	}
}

// Create builds a fresh, empty index at path for the given backend.
// An empty path yields an in-memory index.
func Create(backend Backend, path string) (Index, error) {
	switch backend {
	case BackendSQLite:
		return NewSQLiteIndex(path)
	case BackendBleve:
		return NewBleveIndex(path)
	default:
		return nil, fmt.Errorf("unknown search backend %q", backend)
	}
}

// Open opens an existing index at path. SQLite opens are indistinguishable
// from creates; Bleve requires the index to exist.
func Open(backend Backend, path string) (Index, error) {
	switch backend {
	case BackendSQLite:
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("open index %s: %w", path, err)
		}
		return NewSQLiteIndex(path)
	case BackendBleve:
		return OpenBleveIndex(path)
	default:
		return nil, fmt.Errorf("unknown search backend %q", backend)
	}
}
