// Package sqlite provides the public API for the satchel SQLite store.
// It exposes the factory and the process-wide default while keeping
// implementation details internal.
//
// Example:
//
//	store, err := sqlite.Open(types.Config{DataDir: dir})
//	if err != nil {
//		return err
//	}
//	defer store.Close()
package sqlite

import (
	"github.com/mesh-intelligence/satchel/internal/sqlite"
	"github.com/mesh-intelligence/satchel/pkg/types"
)

// Open initializes a store at cfg.DataDir, creating the database file
// and running legacy migration and schema upgrades on first use.
func Open(cfg types.Config) (types.Store, error) {
	return sqlite.Open(cfg)
}

// Default returns the shared process-wide store, opened lazily at the
// platform data directory. Repeated calls return the cached store.
func Default() (types.Store, error) {
	return sqlite.Default()
}

// CloseDefault closes the process-wide store. Intended for process
// shutdown.
func CloseDefault() error {
	return sqlite.CloseDefault()
}
