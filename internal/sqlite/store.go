package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/satchel/internal/paths"
	"github.com/mesh-intelligence/satchel/pkg/types"
)

// Database and side-file names inside the data dir.
const (
	dbFileName        = "satchel.db"
	migrationFileName = "migration_pending.json"
	errorLogFileName  = "errors.log"
)

// Engine tuning for a single-writer desktop workload: WAL keeps readers
// live during writes, NORMAL sync is safe under WAL, and the busy
// timeout retries a momentarily-locked file instead of failing the
// caller outright.
var pragmaDDL = []string{
	`PRAGMA journal_mode=WAL;`,
	`PRAGMA synchronous=NORMAL;`,
	`PRAGMA foreign_keys=ON;`,
	`PRAGMA busy_timeout=5000;`,
}

// corruptionMarker identifies the operational error an older engine
// revision leaves behind in the on-disk format. Table creation failing
// with it triggers the delete-and-recreate path; anything else is
// fatal.
const corruptionMarker = "expressions prohibited"

// Compile-time interface check: Store must implement types.Store.
var _ types.Store = (*Store)(nil)

// Store owns the single database handle and every table in it. All
// components of the assistant go through one Store; none opens its own
// handle.
type Store struct {
	mu     sync.RWMutex
	cfg    types.Config
	db     *sql.DB
	diag   *diagLog
	closed bool

	// ftsEnabled caches whether the v1 -> v2 upgrade managed to create
	// the full-text structure. Determined once at upgrade time, never
	// re-probed per call.
	ftsEnabled bool
}

// Open initializes a store at cfg.DataDir: opens the database file
// (creating it and the directory if needed), applies pragmas, creates
// tables, runs legacy and config migration, and applies schema
// upgrades. The returned Store is valid until Close.
func Open(cfg types.Config) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.WithDefaults()

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	s := &Store{
		cfg:  cfg,
		diag: openDiagLog(filepath.Join(cfg.DataDir, errorLogFileName)),
	}

	dbPath := filepath.Join(cfg.DataDir, dbFileName)
	fresh := !fileExists(dbPath)

	db, err := openDatabase(dbPath)
	if err != nil {
		s.diag.Close()
		return nil, err
	}
	s.db = db

	// One-time import of the flat-file data, only when the database
	// file did not previously exist.
	if fresh {
		report := s.migrateLegacy()
		if err := s.writeMigrationReport(report); err != nil {
			s.diag.softf("migration", "writing migration report: %v", err)
		}
	}

	// Config migration is gated on the config table being empty, not on
	// database freshness.
	if err := s.migrateLegacyConfig(); err != nil {
		s.diag.softf("config", "legacy config migration: %v", err)
	}

	// Upgrades run on every startup; once applied they are cheap no-ops.
	if err := s.upgradeSchema(); err != nil {
		db.Close()
		s.diag.Close()
		return nil, fmt.Errorf("upgrading schema: %w", err)
	}

	// Planner statistics are cosmetic maintenance; never block startup.
	if _, err := s.db.Exec(`ANALYZE;`); err != nil {
		s.diag.softf("schema", "analyze: %v", err)
	}

	return s, nil
}

// openDatabase opens the file, applies pragmas, and creates the core
// tables and indexes. When table creation fails with the incompatible
// on-disk format marker, the file is deleted and recreated from
// scratch; this is a deliberate, narrow self-healing path.
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := openAndCreate(dbPath)
	if err == nil {
		return db, nil
	}
	if !strings.Contains(strings.ToLower(err.Error()), corruptionMarker) {
		return nil, err
	}
	if rmErr := os.Remove(dbPath); rmErr != nil && !os.IsNotExist(rmErr) {
		return nil, fmt.Errorf("removing incompatible database: %w", rmErr)
	}
	db, err = openAndCreate(dbPath)
	if err != nil {
		return nil, fmt.Errorf("recreating database: %w", err)
	}
	return db, nil
}

func openAndCreate(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	for _, p := range pragmaDDL {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("applying pragma: %w", err)
		}
	}
	for _, ddl := range schemaDDL {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return nil, fmt.Errorf("creating tables: %w", err)
		}
	}
	return db, nil
}

// Close releases the database handle and the diagnostic log. Idempotent.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	s.diag.Close()
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			return fmt.Errorf("closing database: %w", err)
		}
		s.db = nil
	}
	return nil
}

// conn returns the shared handle, or ErrStoreClosed after Close.
func (s *Store) conn() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed || s.db == nil {
		return nil, types.ErrStoreClosed
	}
	return s.db, nil
}

// Process-wide default store, initialized lazily on first access. The
// guard ensures only one goroutine performs schema creation and
// migration even when several UI threads race to first use.
var (
	defaultMu    sync.Mutex
	defaultStore *Store
)

// Default returns the shared process-wide store, opening it at the
// platform data directory on first call. Repeated calls return the
// cached store.
func Default() (*Store, error) {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultStore != nil {
		return defaultStore, nil
	}
	dataDir, err := paths.DefaultDataDir()
	if err != nil {
		return nil, fmt.Errorf("resolving data dir: %w", err)
	}
	s, err := Open(types.Config{DataDir: dataDir})
	if err != nil {
		return nil, err
	}
	defaultStore = s
	return defaultStore, nil
}

// CloseDefault closes and forgets the process-wide store. Intended for
// process shutdown; the next Default call reopens.
func CloseDefault() error {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultStore == nil {
		return nil
	}
	err := defaultStore.Close()
	defaultStore = nil
	return err
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
