// Package sqlite implements the satchel storage layer on an embedded
// SQLite database: calendar events, notes, and key/value configuration,
// with one-time legacy migration, versioned schema upgrades, optional
// full-text search, and JSON backup snapshots.
package sqlite

// Core table DDL. The empty string stands in for NULL in the time and
// folder columns so the uniqueness constraints stay simple.
const (
	createEvents = `CREATE TABLE IF NOT EXISTS events (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT NOT NULL,
    date TEXT NOT NULL,
    time TEXT NOT NULL DEFAULT '',
    completed INTEGER NOT NULL DEFAULT 0,
    UNIQUE(title, date, time)
);`

	createNotes = `CREATE TABLE IF NOT EXISTS notes (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT NOT NULL,
    content TEXT NOT NULL,
    folder TEXT NOT NULL DEFAULT '',
    updated_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE(title, folder)
);`

	createConfig = `CREATE TABLE IF NOT EXISTS config (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);`

	createMeta = `CREATE TABLE IF NOT EXISTS meta (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);`
)

// Index DDL for the common lookups: day/range queries on events and
// folder listings on notes. Index failures are soft.
const (
	idxEventsDate  = `CREATE INDEX IF NOT EXISTS idx_events_date ON events(date);`
	idxNotesFolder = `CREATE INDEX IF NOT EXISTS idx_notes_folder ON notes(folder);`
)

// Full-text shadow structure over notes, applied by the v1 -> v2 schema
// upgrade when the engine build supports FTS5. The triggers keep it in
// sync with the primary table.
const (
	createNotesFTS = `CREATE VIRTUAL TABLE IF NOT EXISTS notes_fts USING fts5(
    title,
    content,
    folder,
    content=notes,
    content_rowid=id
);`

	trgNotesAI = `CREATE TRIGGER IF NOT EXISTS notes_fts_ai AFTER INSERT ON notes BEGIN
    INSERT INTO notes_fts(rowid, title, content, folder)
    VALUES (new.id, new.title, new.content, new.folder);
END;`

	trgNotesAD = `CREATE TRIGGER IF NOT EXISTS notes_fts_ad AFTER DELETE ON notes BEGIN
    INSERT INTO notes_fts(notes_fts, rowid, title, content, folder)
    VALUES ('delete', old.id, old.title, old.content, old.folder);
END;`

	trgNotesAU = `CREATE TRIGGER IF NOT EXISTS notes_fts_au AFTER UPDATE ON notes BEGIN
    INSERT INTO notes_fts(notes_fts, rowid, title, content, folder)
    VALUES ('delete', old.id, old.title, old.content, old.folder);
    INSERT INTO notes_fts(rowid, title, content, folder)
    VALUES (new.id, new.title, new.content, new.folder);
END;`
)

// schemaDDL lists the core CREATE TABLE statements. Failures here are
// fatal: the store cannot run without them.
var schemaDDL = []string{
	createEvents,
	createNotes,
	createConfig,
	createMeta,
}

// indexDDL lists the supporting indexes. Failures here are logged and
// swallowed.
var indexDDL = []string{
	idxEventsDate,
	idxNotesFolder,
}

// ftsDDL lists the full-text structure and its synchronization
// triggers, in creation order.
var ftsDDL = []string{
	createNotesFTS,
	trgNotesAI,
	trgNotesAD,
	trgNotesAU,
}
