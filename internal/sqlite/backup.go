package sqlite

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/satchel/pkg/types"
)

// snapshot is the portable backup document: full contents of the
// events, notes, and config tables, with row objects named after the
// table columns.
type snapshot struct {
	SnapshotID string        `json:"snapshot_id"`
	CreatedAt  string        `json:"created_at"`
	Events     []types.Event `json:"events"`
	Notes      []noteRow     `json:"notes"`
	Config     []configRow   `json:"config"`
}

// noteRow carries the raw updated_at text so a snapshot round-trips the
// engine's own timestamp format unchanged.
type noteRow struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Folder    string `json:"folder"`
	UpdatedAt string `json:"updated_at"`
}

type configRow struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// BackupExport serializes the full dataset to one JSON document at
// path, or to an auto-named timestamped file under the backups dir when
// path is empty. Returns the path written.
func (s *Store) BackupExport(path string) (string, error) {
	db, err := s.conn()
	if err != nil {
		return "", err
	}

	snap := snapshot{
		SnapshotID: generateSnapshotID(),
		CreatedAt:  time.Now().UTC().Format(time.RFC3339),
	}

	rows, err := db.Query(`SELECT id, title, date, time, completed FROM events ORDER BY date, time, title`)
	if err != nil {
		return "", fmt.Errorf("exporting events: %w", err)
	}
	snap.Events, err = hydrateEvents(rows)
	if err != nil {
		return "", fmt.Errorf("exporting events: %w", err)
	}

	noteRows, err := db.Query(`SELECT id, title, content, folder, updated_at FROM notes ORDER BY folder, title`)
	if err != nil {
		return "", fmt.Errorf("exporting notes: %w", err)
	}
	defer noteRows.Close()
	for noteRows.Next() {
		var n noteRow
		if err := noteRows.Scan(&n.ID, &n.Title, &n.Content, &n.Folder, &n.UpdatedAt); err != nil {
			return "", fmt.Errorf("scanning note for export: %w", err)
		}
		snap.Notes = append(snap.Notes, n)
	}
	if err := noteRows.Err(); err != nil {
		return "", fmt.Errorf("exporting notes: %w", err)
	}

	cfgRows, err := db.Query(`SELECT key, value FROM config ORDER BY key`)
	if err != nil {
		return "", fmt.Errorf("exporting config: %w", err)
	}
	defer cfgRows.Close()
	for cfgRows.Next() {
		var c configRow
		if err := cfgRows.Scan(&c.Key, &c.Value); err != nil {
			return "", fmt.Errorf("scanning config for export: %w", err)
		}
		snap.Config = append(snap.Config, c)
	}
	if err := cfgRows.Err(); err != nil {
		return "", fmt.Errorf("exporting config: %w", err)
	}

	if path == "" {
		if err := os.MkdirAll(s.cfg.BackupsDir, 0o755); err != nil {
			return "", fmt.Errorf("creating backups dir: %w", err)
		}
		name := "satchel-backup-" + time.Now().UTC().Format("20060102-150405") + ".json"
		path = filepath.Join(s.cfg.BackupsDir, name)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling snapshot: %w", err)
	}
	if err := writeFileAtomic(path, data); err != nil {
		return "", fmt.Errorf("writing snapshot: %w", err)
	}
	return path, nil
}

// BackupImport merges a snapshot into the store: events are inserted if
// absent, notes and config entries are upserted. Import is a merge,
// never a destructive replace. The batch runs in one transaction, but
// individual row failures are logged and skipped so one bad row cannot
// sink the rest.
func (s *Store) BackupImport(path string) error {
	db, err := s.conn()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading snapshot: %w", err)
	}
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("parsing snapshot: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning import: %w", err)
	}
	defer tx.Rollback()

	for _, e := range snap.Events {
		if e.Title == "" || e.Date == "" {
			continue
		}
		completed := 0
		if e.Completed {
			completed = 1
		}
		_, err := tx.Exec(
			`INSERT OR IGNORE INTO events (title, date, time, completed) VALUES (?, ?, ?, ?)`,
			e.Title, e.Date, e.Time, completed,
		)
		if err != nil {
			s.diag.softf("backup", "importing event %q: %v", e.Title, err)
		}
	}

	for _, n := range snap.Notes {
		if n.Title == "" {
			continue
		}
		updatedAt := n.UpdatedAt
		if updatedAt == "" {
			updatedAt = time.Now().UTC().Format("2006-01-02 15:04:05")
		}
		_, err := tx.Exec(
			`INSERT INTO notes (title, content, folder, updated_at) VALUES (?, ?, ?, ?)
			 ON CONFLICT(title, folder)
			 DO UPDATE SET content = excluded.content, updated_at = excluded.updated_at`,
			n.Title, n.Content, n.Folder, updatedAt,
		)
		if err != nil {
			s.diag.softf("backup", "importing note %q: %v", n.Title, err)
		}
	}

	for _, c := range snap.Config {
		if c.Key == "" {
			continue
		}
		_, err := tx.Exec(
			`INSERT OR REPLACE INTO config (key, value) VALUES (?, ?)`,
			c.Key, c.Value,
		)
		if err != nil {
			s.diag.softf("backup", "importing config %q: %v", c.Key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing import: %w", err)
	}
	return nil
}

// IntegrityCheck runs the engine's structural self-check. True only if
// the database reports fully consistent.
func (s *Store) IntegrityCheck() bool {
	db, err := s.conn()
	if err != nil {
		s.diag.softf("integrity", "check: %v", err)
		return false
	}
	var result string
	if err := db.QueryRow(`PRAGMA integrity_check`).Scan(&result); err != nil {
		s.diag.softf("integrity", "check: %v", err)
		return false
	}
	return result == "ok"
}

// generateSnapshotID generates a UUID v7 for the snapshot, falling back
// to v4 if v7 generation fails.
func generateSnapshotID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
