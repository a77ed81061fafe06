// Tests for the connection manager: schema creation, pragmas, schema
// versioning, and lifecycle.
package sqlite

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/satchel/pkg/types"
)

// newTestStore opens a store under a fresh temp dir. The data dir is
// nested so legacy-path defaults resolve inside the temp dir too.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(types.Config{DataDir: filepath.Join(t.TempDir(), "data")})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenCreatesSchema(t *testing.T) {
	s := newTestStore(t)

	for _, table := range []string{"events", "notes", "config", "meta"} {
		var name string
		err := s.db.QueryRow(
			`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table,
		).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
	}

	dbPath := filepath.Join(s.cfg.DataDir, dbFileName)
	_, err := os.Stat(dbPath)
	require.NoError(t, err, "database file should exist")
}

func TestOpenValidatesConfig(t *testing.T) {
	_, err := Open(types.Config{})
	assert.ErrorIs(t, err, types.ErrDataDirEmpty)
}

func TestSchemaVersionReachesCurrent(t *testing.T) {
	s := newTestStore(t)

	v, err := s.schemaVersion()
	require.NoError(t, err)
	assert.Equal(t, schemaVersionCurrent, v)
}

func TestUpgradeIsIdempotentAcrossRestart(t *testing.T) {
	dataDir := filepath.Join(t.TempDir(), "data")

	s, err := Open(types.Config{DataDir: dataDir})
	require.NoError(t, err)
	require.NoError(t, s.EventCreate("Persisted", "2025-03-01", "10:00"))
	require.NoError(t, s.Close())

	// Simulated process restart: upgrades re-run as no-ops and data
	// survives.
	s2, err := Open(types.Config{DataDir: dataDir})
	require.NoError(t, err)
	defer s2.Close()

	v, err := s2.schemaVersion()
	require.NoError(t, err)
	assert.Equal(t, schemaVersionCurrent, v)

	events, err := s2.EventListDay("2025-03-01")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Persisted", events[0].Title)
}

func TestCloseIsIdempotent(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	err := s.EventCreate("After close", "2025-01-01", "")
	assert.ErrorIs(t, err, types.ErrStoreClosed)
}

func TestIntegrityCheck(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.NoteUpsert("Healthy", "content", ""))
	assert.True(t, s.IntegrityCheck())
}

func TestLegacySibling(t *testing.T) {
	assert.Equal(t, "/tmp/eventos.legacy.json", legacySibling("/tmp/eventos.json"))
	assert.Equal(t, "config.legacy.json", legacySibling("config.json"))
}
