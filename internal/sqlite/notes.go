package sqlite

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/mesh-intelligence/satchel/pkg/types"
)

// defaultSearchLimit caps full-text results when the caller passes no
// positive limit.
const defaultSearchLimit = 50

// NoteUpsert inserts the note, or on (title, folder) conflict
// overwrites the content and refreshes the timestamp. There is no
// separate update operation; creation and edit are unified here.
func (s *Store) NoteUpsert(title, content, folder string) error {
	if title == "" {
		return types.ErrInvalidTitle
	}
	db, err := s.conn()
	if err != nil {
		return err
	}
	_, err = db.Exec(
		`INSERT INTO notes (title, content, folder) VALUES (?, ?, ?)
		 ON CONFLICT(title, folder)
		 DO UPDATE SET content = excluded.content, updated_at = CURRENT_TIMESTAMP`,
		title, content, folder,
	)
	if err != nil {
		return fmt.Errorf("upserting note: %w", err)
	}
	return nil
}

// NoteGet returns the note content by exact key, or ErrNotFound.
func (s *Store) NoteGet(title, folder string) (string, error) {
	db, err := s.conn()
	if err != nil {
		return "", err
	}
	var content string
	err = db.QueryRow(
		`SELECT content FROM notes WHERE title = ? AND folder = ?`,
		title, folder,
	).Scan(&content)
	if err == sql.ErrNoRows {
		return "", types.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("getting note %q: %w", title, err)
	}
	return content, nil
}

// NoteDelete removes the note by exact key and reports whether a row
// existed.
func (s *Store) NoteDelete(title, folder string) (bool, error) {
	db, err := s.conn()
	if err != nil {
		return false, err
	}
	res, err := db.Exec(
		`DELETE FROM notes WHERE title = ? AND folder = ?`,
		title, folder,
	)
	if err != nil {
		return false, fmt.Errorf("deleting note %q: %w", title, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("counting deleted notes: %w", err)
	}
	return n > 0, nil
}

// NoteSearch does a case-insensitive substring match against title or
// content. A nil folder searches all folders; a pointer to "" restricts
// the search to root notes.
func (s *Store) NoteSearch(term string, folder *string) ([]types.NoteRef, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}

	like := "%" + strings.ToLower(term) + "%"
	query := `SELECT title, folder FROM notes WHERE (LOWER(content) LIKE ? OR LOWER(title) LIKE ?)`
	args := []any{like, like}
	if folder != nil {
		query += ` AND folder = ?`
		args = append(args, *folder)
	}
	query += ` ORDER BY folder, title`

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("searching notes: %w", err)
	}
	return hydrateNoteRefs(rows)
}

// NoteSearchFTS searches via the full-text structure when the schema
// upgrade managed to create it, and falls back transparently to
// NoteSearch on any failure. Search never hard-fails because the
// optional index is absent.
func (s *Store) NoteSearchFTS(term string, folder *string, limit int) ([]types.NoteRef, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	s.mu.RLock()
	enabled := s.ftsEnabled
	s.mu.RUnlock()
	if !enabled {
		return s.noteSearchCapped(term, folder, limit)
	}

	db, err := s.conn()
	if err != nil {
		return nil, err
	}

	query := `SELECT n.title, n.folder FROM notes_fts f
		JOIN notes n ON n.id = f.rowid
		WHERE notes_fts MATCH ?`
	args := []any{ftsQuoteTerm(term)}
	if folder != nil {
		query += ` AND n.folder = ?`
		args = append(args, *folder)
	}
	query += ` ORDER BY rank LIMIT ?`
	args = append(args, limit)

	rows, err := db.Query(query, args...)
	if err != nil {
		// Malformed query or missing structure: degrade to substring
		// search rather than surfacing the failure.
		s.diag.softf("notes", "full-text search for %q: %v", term, err)
		return s.noteSearchCapped(term, folder, limit)
	}
	refs, err := hydrateNoteRefs(rows)
	if err != nil {
		// Row hydration failures degrade the same way; the optional
		// index must never make search hard-fail.
		s.diag.softf("notes", "full-text results for %q: %v", term, err)
		return s.noteSearchCapped(term, folder, limit)
	}
	return refs, nil
}

// noteSearchCapped applies the FTS limit contract to the substring
// fallback.
func (s *Store) noteSearchCapped(term string, folder *string, limit int) ([]types.NoteRef, error) {
	refs, err := s.NoteSearch(term, folder)
	if err != nil {
		return nil, err
	}
	if len(refs) > limit {
		refs = refs[:limit]
	}
	return refs, nil
}

// NoteListFolders returns the distinct non-empty folders, sorted.
func (s *Store) NoteListFolders() ([]string, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	rows, err := db.Query(`SELECT DISTINCT folder FROM notes WHERE folder <> '' ORDER BY folder`)
	if err != nil {
		return nil, fmt.Errorf("listing folders: %w", err)
	}
	return hydrateStrings(rows)
}

// NoteListTitles returns titles in the exact folder, sorted. The empty
// folder selects root-level notes only.
func (s *Store) NoteListTitles(folder string) ([]string, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	rows, err := db.Query(`SELECT title FROM notes WHERE folder = ? ORDER BY title`, folder)
	if err != nil {
		return nil, fmt.Errorf("listing titles in %q: %w", folder, err)
	}
	return hydrateStrings(rows)
}

// ftsQuoteTerm wraps the user's term in an FTS5 string literal so
// operator characters in free text cannot break the query syntax.
func ftsQuoteTerm(term string) string {
	return `"` + strings.ReplaceAll(term, `"`, `""`) + `"`
}

func hydrateNoteRefs(rows *sql.Rows) ([]types.NoteRef, error) {
	defer rows.Close()

	var refs []types.NoteRef
	for rows.Next() {
		var r types.NoteRef
		if err := rows.Scan(&r.Title, &r.Folder); err != nil {
			return nil, fmt.Errorf("scanning note ref: %w", err)
		}
		refs = append(refs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating note refs: %w", err)
	}
	return refs, nil
}

func hydrateStrings(rows *sql.Rows) ([]string, error) {
	defer rows.Close()

	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scanning value: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating values: %w", err)
	}
	return out, nil
}
