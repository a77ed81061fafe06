package sqlite

import (
	"database/sql"
	"fmt"
	"strconv"
)

// Schema versioning state. The version lives under a reserved meta key,
// starting implicitly at 0 for databases created before the marker
// existed.
const (
	metaSchemaVersionKey = "schema_version"

	// schemaVersionCurrent is the version a fully upgraded database
	// reports. Upgrades are strictly additive and idempotent; a crash
	// mid-upgrade resumes from the recorded version on restart.
	schemaVersionCurrent = 2
)

// upgradeSchema applies supporting indexes and the versioned upgrade
// chain, then caches the full-text capability flag. Only core failures
// propagate; optional steps are logged and swallowed so they can never
// prevent the application from starting.
func (s *Store) upgradeSchema() error {
	for _, ddl := range indexDDL {
		if _, err := s.db.Exec(ddl); err != nil {
			s.diag.softf("schema", "creating index: %v", err)
		}
	}

	v, err := s.schemaVersion()
	if err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}

	// v0 -> v1 establishes the version marker itself.
	if v < 1 {
		if err := s.setSchemaVersion(1); err != nil {
			return err
		}
		v = 1
	}

	// v1 -> v2 adds the full-text shadow structure and its triggers.
	// An engine build without FTS5 skips this silently and permanently;
	// the version still advances and search degrades to substring
	// matching everywhere.
	if v < 2 {
		if err := s.createFTS(); err != nil {
			s.diag.softf("schema", "creating full-text structure: %v", err)
		}
		if err := s.setSchemaVersion(2); err != nil {
			return err
		}
	}

	s.ftsEnabled = s.ftsPresent()
	return nil
}

// createFTS creates the notes_fts virtual table and its triggers,
// backfilling the index from existing notes.
func (s *Store) createFTS() error {
	for _, ddl := range ftsDDL {
		if _, err := s.db.Exec(ddl); err != nil {
			return err
		}
	}
	// Rebuild picks up rows that predate the triggers, e.g. notes
	// imported by legacy migration before this upgrade ran.
	if _, err := s.db.Exec(`INSERT INTO notes_fts(notes_fts) VALUES ('rebuild');`); err != nil {
		return err
	}
	return nil
}

// ftsPresent reports whether the full-text structure exists on disk.
// Checked once at upgrade time; stores the result in s.ftsEnabled.
func (s *Store) ftsPresent() bool {
	var name string
	err := s.db.QueryRow(
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'notes_fts'`,
	).Scan(&name)
	return err == nil
}

// schemaVersion reads the recorded version, or 0 when the marker is
// absent.
func (s *Store) schemaVersion() (int, error) {
	var raw string
	err := s.db.QueryRow(
		`SELECT value FROM meta WHERE key = ?`, metaSchemaVersionKey,
	).Scan(&raw)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("parsing schema version %q: %w", raw, err)
	}
	return v, nil
}

func (s *Store) setSchemaVersion(v int) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)`,
		metaSchemaVersionKey, strconv.Itoa(v),
	)
	if err != nil {
		return fmt.Errorf("recording schema version %d: %w", v, err)
	}
	return nil
}
