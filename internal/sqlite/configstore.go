package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
)

// ConfigSet upserts a key with its value serialized as JSON. Last write
// wins. Values must round-trip through JSON: numbers, strings,
// booleans, and nested structures all qualify.
func (s *Store) ConfigSet(key string, value any) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("serializing config %q: %w", key, err)
	}
	_, err = db.Exec(
		`INSERT OR REPLACE INTO config (key, value) VALUES (?, ?)`,
		key, string(raw),
	)
	if err != nil {
		return fmt.Errorf("setting config %q: %w", key, err)
	}
	return nil
}

// ConfigGet deserializes the stored value, returning def when the key
// is absent or its value does not deserialize. Read failures degrade to
// the default rather than erroring; configuration lookups must never
// block the caller's flow.
func (s *Store) ConfigGet(key string, def any) any {
	db, err := s.conn()
	if err != nil {
		s.diag.softf("config", "getting %q: %v", key, err)
		return def
	}
	var raw string
	err = db.QueryRow(`SELECT value FROM config WHERE key = ?`, key).Scan(&raw)
	if err == sql.ErrNoRows {
		return def
	}
	if err != nil {
		s.diag.softf("config", "getting %q: %v", key, err)
		return def
	}
	var value any
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		return def
	}
	return value
}

// ConfigLoadAll returns a full snapshot of the config table. A single
// corrupt value falls back to its raw stored form rather than failing
// the whole load.
func (s *Store) ConfigLoadAll() map[string]any {
	result := make(map[string]any)
	db, err := s.conn()
	if err != nil {
		s.diag.softf("config", "loading all: %v", err)
		return result
	}
	rows, err := db.Query(`SELECT key, value FROM config`)
	if err != nil {
		s.diag.softf("config", "loading all: %v", err)
		return result
	}
	defer rows.Close()

	for rows.Next() {
		var key, raw string
		if err := rows.Scan(&key, &raw); err != nil {
			s.diag.softf("config", "scanning entry: %v", err)
			continue
		}
		var value any
		if err := json.Unmarshal([]byte(raw), &value); err != nil {
			result[key] = raw
			continue
		}
		result[key] = value
	}
	if err := rows.Err(); err != nil {
		s.diag.softf("config", "iterating entries: %v", err)
	}
	return result
}

// migrateLegacyConfig imports the flat config.json into the config
// table. Unlike the event/note migration it is gated on the table being
// empty, not on database freshness: it runs on every startup until the
// table has at least one row, then never again. After a successful
// import the source file is renamed to a .legacy sibling.
func (s *Store) migrateLegacyConfig() error {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM config`).Scan(&count); err != nil {
		return fmt.Errorf("counting config rows: %w", err)
	}
	if count > 0 {
		return nil
	}

	data, err := os.ReadFile(s.cfg.LegacyConfigFile)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading legacy config: %w", err)
	}

	var entries map[string]any
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("parsing legacy config: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning config import: %w", err)
	}
	defer tx.Rollback()

	for key, value := range entries {
		raw, err := json.Marshal(value)
		if err != nil {
			s.diag.softf("config", "serializing legacy %q: %v", key, err)
			continue
		}
		_, err = tx.Exec(
			`INSERT OR REPLACE INTO config (key, value) VALUES (?, ?)`,
			key, string(raw),
		)
		if err != nil {
			s.diag.softf("config", "importing legacy %q: %v", key, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing config import: %w", err)
	}

	archived := legacySibling(s.cfg.LegacyConfigFile)
	if !fileExists(archived) {
		if err := os.Rename(s.cfg.LegacyConfigFile, archived); err != nil {
			s.diag.softf("config", "archiving legacy config: %v", err)
		}
	}
	return nil
}
