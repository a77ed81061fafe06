package sqlite

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mesh-intelligence/satchel/pkg/types"
)

// noteFileExt is the extension the pre-database assistant used for
// note files.
const noteFileExt = ".txt"

// legacyEvent mirrors one entry of the pre-database event list file, a
// JSON array with Spanish field names.
type legacyEvent struct {
	Title     string `json:"evento"`
	Date      string `json:"fecha"`
	Time      string `json:"hora"`
	Completed bool   `json:"completado"`
}

// migrateLegacy imports the flat-file event list and note tree into the
// relational tables. It runs only when the database file did not
// previously exist. Every step is best-effort: single-item failures are
// logged and skipped, and the migration as a whole never fails the
// caller.
func (s *Store) migrateLegacy() types.MigrationReport {
	report := types.MigrationReport{Timestamp: time.Now().Unix()}
	report.EventsMigrated = s.migrateLegacyEvents()
	report.NotesMigrated = s.migrateLegacyNotes()
	return report
}

// migrateLegacyEvents loads the legacy JSON event list, skipping
// entries with empty title or date. Duplicates by the (title, date,
// time) triple are silently ignored. Returns the number of attempted
// inserts.
func (s *Store) migrateLegacyEvents() int {
	data, err := os.ReadFile(s.cfg.LegacyEventsFile)
	if err != nil {
		if !os.IsNotExist(err) {
			s.diag.softf("migration", "reading legacy events: %v", err)
		}
		return 0
	}

	var events []legacyEvent
	if err := json.Unmarshal(data, &events); err != nil {
		s.diag.softf("migration", "parsing legacy events: %v", err)
		return 0
	}

	tx, err := s.db.Begin()
	if err != nil {
		s.diag.softf("migration", "beginning event import: %v", err)
		return 0
	}
	defer tx.Rollback()

	count := 0
	for _, ev := range events {
		if ev.Title == "" || ev.Date == "" {
			continue
		}
		completed := 0
		if ev.Completed {
			completed = 1
		}
		_, err := tx.Exec(
			`INSERT OR IGNORE INTO events (title, date, time, completed) VALUES (?, ?, ?, ?)`,
			ev.Title, ev.Date, ev.Time, completed,
		)
		if err != nil {
			s.diag.softf("migration", "importing event %q: %v", ev.Title, err)
			continue
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		s.diag.softf("migration", "committing event import: %v", err)
		return 0
	}
	return count
}

// migrateLegacyNotes walks the legacy note tree. The note title is the
// filename without extension; the folder is the path relative to the
// notes root, with root-level files getting the empty folder.
// Unreadable files are skipped without aborting the walk.
func (s *Store) migrateLegacyNotes() int {
	root := s.cfg.LegacyNotesDir
	if !fileExists(root) {
		return 0
	}

	tx, err := s.db.Begin()
	if err != nil {
		s.diag.softf("migration", "beginning note import: %v", err)
		return 0
	}
	defer tx.Rollback()

	count := 0
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			s.diag.softf("migration", "walking %s: %v", path, err)
			return nil
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), noteFileExt) {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			s.diag.softf("migration", "reading note %s: %v", path, err)
			return nil
		}
		title := strings.TrimSuffix(d.Name(), noteFileExt)
		folder := ""
		if rel, err := filepath.Rel(root, filepath.Dir(path)); err == nil && rel != "." {
			folder = filepath.ToSlash(rel)
		}
		_, err = tx.Exec(
			`INSERT OR IGNORE INTO notes (title, content, folder) VALUES (?, ?, ?)`,
			title, string(content), folder,
		)
		if err != nil {
			s.diag.softf("migration", "importing note %q: %v", title, err)
			return nil
		}
		count++
		return nil
	})
	if walkErr != nil {
		s.diag.softf("migration", "walking legacy notes: %v", walkErr)
	}

	if err := tx.Commit(); err != nil {
		s.diag.softf("migration", "committing note import: %v", err)
		return 0
	}
	return count
}

// CleanupLegacy archives the legacy event file and notes directory
// under sibling *.legacy.* / *_legacy names, preserving a fallback copy
// while signaling migration completion. Idempotent: names that are
// already archived are left alone. Reports whether anything was
// renamed.
func (s *Store) CleanupLegacy() (bool, error) {
	changed := false

	if fileExists(s.cfg.LegacyEventsFile) {
		archived := legacySibling(s.cfg.LegacyEventsFile)
		if !fileExists(archived) {
			if err := os.Rename(s.cfg.LegacyEventsFile, archived); err != nil {
				return changed, fmt.Errorf("archiving legacy events: %w", err)
			}
			changed = true
		}
	}

	if fileExists(s.cfg.LegacyNotesDir) {
		archived := s.cfg.LegacyNotesDir + "_legacy"
		if !fileExists(archived) {
			if err := os.Rename(s.cfg.LegacyNotesDir, archived); err != nil {
				return changed, fmt.Errorf("archiving legacy notes: %w", err)
			}
			changed = true
		}
	}

	if changed {
		s.markLegacyArchived()
	}
	return changed, nil
}

// markLegacyArchived flips the archived flag in the migration report
// file, if it has not been consumed yet.
func (s *Store) markLegacyArchived() {
	path := filepath.Join(s.cfg.DataDir, migrationFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	var report types.MigrationReport
	if err := json.Unmarshal(data, &report); err != nil {
		s.diag.softf("migration", "parsing migration report: %v", err)
		return
	}
	report.LegacyArchived = true
	if err := s.writeMigrationReport(report); err != nil {
		s.diag.softf("migration", "updating migration report: %v", err)
	}
}

// writeMigrationReport persists the report side file atomically.
func (s *Store) writeMigrationReport(report types.MigrationReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling migration report: %w", err)
	}
	return writeFileAtomic(filepath.Join(s.cfg.DataDir, migrationFileName), data)
}

// ConsumeMigrationReport returns the one-time migration summary and
// deletes the side file. A second call returns nil, the expected
// terminal state.
func (s *Store) ConsumeMigrationReport() (*types.MigrationReport, error) {
	path := filepath.Join(s.cfg.DataDir, migrationFileName)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading migration report: %w", err)
	}

	var report types.MigrationReport
	if err := json.Unmarshal(data, &report); err != nil {
		// A malformed report is still consumed so it cannot wedge the
		// startup notice forever.
		os.Remove(path)
		return nil, fmt.Errorf("parsing migration report: %w", err)
	}
	if err := os.Remove(path); err != nil {
		s.diag.softf("migration", "removing migration report: %v", err)
	}
	return &report, nil
}

// legacySibling turns path/eventos.json into path/eventos.legacy.json.
func legacySibling(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + ".legacy" + ext
}
