package types

// Store is the interface the assistant's dispatcher and CLI program
// against. A Store owns a single on-disk database; all components share
// one Store and never open their own handle.
//
// Every call is a blocking round-trip to the local file. Write
// operations report outcomes as booleans or affected-row counts rather
// than errors so callers can phrase "not found" versus "deleted"
// themselves; errors are reserved for the store itself misbehaving.
type Store interface {
	// Events.

	// EventCreate inserts an event if the (title, date, time) triple is
	// absent. Re-creating an existing event is a silent no-op, not an
	// error. Time may be empty for "no specific time".
	EventCreate(title, date, tm string) error

	// EventListDay returns events on the exact date, ordered by time
	// ascending with no-time events last, then by title.
	EventListDay(date string) ([]Event, error)

	// EventListRange returns events in the inclusive date range,
	// ordered by date, then time (no-time last), then title.
	EventListRange(startDate, endDate string) ([]Event, error)

	// EventToggleComplete sets the completed flag on the exact matching
	// rows. Matching zero rows is not an error.
	EventToggleComplete(title, date, tm string, completed bool) error

	// EventDelete removes the exact matching rows and returns how many
	// were deleted, so callers can report "not found" on zero.
	EventDelete(title, date, tm string) (int64, error)

	// Notes.

	// NoteUpsert inserts the note, or on (title, folder) conflict
	// overwrites content and refreshes the timestamp. This is the sole
	// write path; creation and edit are unified.
	NoteUpsert(title, content, folder string) error

	// NoteGet returns the note content, or ErrNotFound.
	NoteGet(title, folder string) (string, error)

	// NoteDelete removes the note and reports whether a row existed.
	NoteDelete(title, folder string) (bool, error)

	// NoteSearch does a case-insensitive substring match on title or
	// content. A nil folder searches all folders; a pointer to ""
	// restricts to root notes.
	NoteSearch(term string, folder *string) ([]NoteRef, error)

	// NoteSearchFTS prefers the full-text index and falls back to
	// NoteSearch on any failure. It never hard-fails because the
	// optional index is absent.
	NoteSearchFTS(term string, folder *string, limit int) ([]NoteRef, error)

	// NoteListFolders returns the distinct non-empty folders, sorted.
	NoteListFolders() ([]string, error)

	// NoteListTitles returns titles in the exact folder (empty string
	// for root notes), sorted.
	NoteListTitles(folder string) ([]string, error)

	// Config entries.

	// ConfigSet upserts a key with a JSON-serialized value.
	ConfigSet(key string, value any) error

	// ConfigGet returns the deserialized value, or def when the key is
	// absent or its stored value does not deserialize.
	ConfigGet(key string, def any) any

	// ConfigLoadAll returns a full snapshot. A corrupt value falls back
	// to its raw stored form rather than failing the load.
	ConfigLoadAll() map[string]any

	// Backup and integrity.

	// BackupExport writes a full JSON snapshot to path, or to an
	// auto-named file under the backups dir when path is empty, and
	// returns the path written.
	BackupExport(path string) (string, error)

	// BackupImport merges a snapshot into the store: events
	// insert-if-absent, notes and config upsert. Never a destructive
	// replace.
	BackupImport(path string) error

	// IntegrityCheck runs the engine's structural self-check and
	// reports whether the database is fully consistent.
	IntegrityCheck() bool

	// Migration record.

	// ConsumeMigrationReport returns the one-time migration summary and
	// deletes it. The second call returns nil, which is the expected
	// terminal state, not an error.
	ConsumeMigrationReport() (*MigrationReport, error)

	// CleanupLegacy archives the legacy event file and notes directory
	// under *.legacy.* / *_legacy names. Idempotent; reports whether
	// anything was renamed.
	CleanupLegacy() (bool, error)

	// Close releases the database handle. Idempotent.
	Close() error
}
