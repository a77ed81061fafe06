// Tests for the note store: upsert semantics, folder isolation, and
// search with full-text fallback.
package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/satchel/pkg/types"
)

func TestNoteUpsertOverwrites(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.NoteUpsert("X", "v1", "work"))
	require.NoError(t, s.NoteUpsert("X", "v2", "work"))

	content, err := s.NoteGet("X", "work")
	require.NoError(t, err)
	assert.Equal(t, "v2", content)

	titles, err := s.NoteListTitles("work")
	require.NoError(t, err)
	assert.Len(t, titles, 1, "upsert must not create a second row")
}

func TestNoteUpsertValidation(t *testing.T) {
	s := newTestStore(t)

	assert.ErrorIs(t, s.NoteUpsert("", "content", ""), types.ErrInvalidTitle)
}

func TestNoteDeleteRoundTrip(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.NoteUpsert("Temp", "content", ""))

	deleted, err := s.NoteDelete("Temp", "")
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = s.NoteGet("Temp", "")
	assert.ErrorIs(t, err, types.ErrNotFound)

	deleted, err = s.NoteDelete("Temp", "")
	require.NoError(t, err)
	assert.False(t, deleted, "second delete must report no row")
}

func TestNoteFolderIsolation(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.NoteUpsert("RootNote", "at root", ""))
	require.NoError(t, s.NoteUpsert("WorkNote", "at work", "work"))

	rootTitles, err := s.NoteListTitles("")
	require.NoError(t, err)
	assert.Equal(t, []string{"RootNote"}, rootTitles)

	workTitles, err := s.NoteListTitles("work")
	require.NoError(t, err)
	assert.Equal(t, []string{"WorkNote"}, workTitles)

	folders, err := s.NoteListFolders()
	require.NoError(t, err)
	assert.Equal(t, []string{"work"}, folders, "root folder must not be listed")
}

func TestNoteSearch(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.NoteUpsert("Groceries", "buy apples and milk", ""))
	require.NoError(t, s.NoteUpsert("Meeting", "prepare apple pie talk", "work"))
	require.NoError(t, s.NoteUpsert("Unrelated", "nothing here", ""))

	// Nil folder searches everywhere, case-insensitively.
	refs, err := s.NoteSearch("APPLE", nil)
	require.NoError(t, err)
	assert.Len(t, refs, 2)

	// Pointer to "" restricts to root notes.
	root := ""
	refs, err = s.NoteSearch("apple", &root)
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, "Groceries", refs[0].Title)

	// Title matches count too.
	refs, err = s.NoteSearch("meeting", nil)
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, "work", refs[0].Folder)
}

func TestNoteSearchFTSFallback(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.NoteUpsert("Groceries", "buy apples and milk", ""))
	require.NoError(t, s.NoteUpsert("Meeting", "prepare apple pie talk", "work"))

	want, err := s.NoteSearch("apple", nil)
	require.NoError(t, err)
	require.NotEmpty(t, want)

	// With the full-text structure unavailable, FTS search must return
	// results equivalent to plain substring search.
	s.ftsEnabled = false
	got, err := s.NoteSearchFTS("apple", nil, 0)
	require.NoError(t, err)
	assert.ElementsMatch(t, want, got)
}

func TestNoteSearchFTSSurvivesMissingStructure(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.NoteUpsert("Groceries", "buy apples and milk", ""))
	require.NoError(t, s.NoteUpsert("Meeting", "prepare apple pie talk", "work"))

	want, err := s.NoteSearch("apple", nil)
	require.NoError(t, err)
	require.NotEmpty(t, want)

	// Remove the shadow structure out from under a store that still
	// believes it is available; search must degrade, not hard-fail.
	for _, ddl := range []string{
		`DROP TRIGGER IF EXISTS notes_fts_ai`,
		`DROP TRIGGER IF EXISTS notes_fts_ad`,
		`DROP TRIGGER IF EXISTS notes_fts_au`,
		`DROP TABLE IF EXISTS notes_fts`,
	} {
		_, err := s.db.Exec(ddl)
		require.NoError(t, err)
	}
	s.ftsEnabled = true

	got, err := s.NoteSearchFTS("apple", nil, 0)
	require.NoError(t, err)
	assert.ElementsMatch(t, want, got)
}

func TestNoteSearchFTS(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.NoteUpsert("Groceries", "buy apples and milk", ""))
	require.NoError(t, s.NoteUpsert("Meeting", "prepare apple pie talk", "work"))

	// Whichever path serves the query, it must not hard-fail and must
	// find the matching note. Operator characters in the term must not
	// break the query either.
	refs, err := s.NoteSearchFTS("milk", nil, 10)
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, "Groceries", refs[0].Title)

	_, err = s.NoteSearchFTS(`"milk AND`, nil, 10)
	require.NoError(t, err)

	// Folder restriction applies on the indexed path too.
	work := "work"
	refs, err = s.NoteSearchFTS("apple", &work, 10)
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, "Meeting", refs[0].Title)
}

func TestNoteSearchFTSLimit(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.NoteUpsert("A", "shared term", ""))
	require.NoError(t, s.NoteUpsert("B", "shared term", ""))
	require.NoError(t, s.NoteUpsert("C", "shared term", ""))

	refs, err := s.NoteSearchFTS("shared", nil, 2)
	require.NoError(t, err)
	assert.Len(t, refs, 2)

	// The fallback path honors the limit as well.
	s.ftsEnabled = false
	refs, err = s.NoteSearchFTS("shared", nil, 2)
	require.NoError(t, err)
	assert.Len(t, refs, 2)
}
