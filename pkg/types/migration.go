package types

// MigrationReport summarizes the one-time legacy import. It is written
// to a side file when the database is first created and consumed
// exactly once by the UI layer (read-then-delete).
type MigrationReport struct {
	Timestamp      int64 `json:"timestamp"`
	EventsMigrated int   `json:"events_migrated"`
	NotesMigrated  int   `json:"notes_migrated"`
	LegacyArchived bool  `json:"legacy_archived"`
}
