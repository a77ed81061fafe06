// Tests for the config store: serialization round-trips, tolerant
// reads, and the table-gated legacy import.
package sqlite

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/satchel/pkg/types"
)

func TestConfigRoundTrip(t *testing.T) {
	s := newTestStore(t)

	tests := []struct {
		name  string
		key   string
		value any
		want  any
	}{
		{"string", "voice", "es-ES", "es-ES"},
		{"number", "volume", 0.8, 0.8},
		{"bool", "wake_word", true, true},
		{"nested", "hotkeys", map[string]any{"open": "ctrl+o"}, map[string]any{"open": "ctrl+o"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, s.ConfigSet(tt.key, tt.value))
			assert.Equal(t, tt.want, s.ConfigGet(tt.key, nil))
		})
	}
}

func TestConfigLastWriteWins(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.ConfigSet("theme", "light"))
	require.NoError(t, s.ConfigSet("theme", "dark"))
	assert.Equal(t, "dark", s.ConfigGet("theme", nil))
}

func TestConfigGetDefault(t *testing.T) {
	s := newTestStore(t)

	assert.Equal(t, "fallback", s.ConfigGet("missing", "fallback"))

	// A corrupt stored value degrades to the default on get.
	_, err := s.db.Exec(`INSERT INTO config (key, value) VALUES ('broken', '{not json')`)
	require.NoError(t, err)
	assert.Equal(t, 42, s.ConfigGet("broken", 42))
}

func TestConfigLoadAllTolerance(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.ConfigSet("ok", "value"))
	_, err := s.db.Exec(`INSERT INTO config (key, value) VALUES ('broken', '{not json')`)
	require.NoError(t, err)

	all := s.ConfigLoadAll()
	assert.Equal(t, "value", all["ok"])
	assert.Equal(t, "{not json", all["broken"], "corrupt value falls back to its raw form")
}

func TestMigrateLegacyConfig(t *testing.T) {
	root := t.TempDir()
	legacyFile := filepath.Join(root, "config.json")
	require.NoError(t, os.WriteFile(legacyFile, []byte(`{"voice": "es-ES", "volume": 0.8}`), 0o644))

	cfg := types.Config{
		DataDir:          filepath.Join(root, "data"),
		LegacyConfigFile: legacyFile,
	}
	s, err := Open(cfg)
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, "es-ES", s.ConfigGet("voice", nil))
	assert.Equal(t, 0.8, s.ConfigGet("volume", nil))

	// The source is archived so it cannot be re-imported.
	assert.NoFileExists(t, legacyFile)
	assert.FileExists(t, filepath.Join(root, "config.legacy.json"))
}

func TestMigrateLegacyConfigGatedOnEmptyTable(t *testing.T) {
	root := t.TempDir()
	cfg := types.Config{
		DataDir:          filepath.Join(root, "data"),
		LegacyConfigFile: filepath.Join(root, "config.json"),
	}

	s, err := Open(cfg)
	require.NoError(t, err)
	require.NoError(t, s.ConfigSet("voice", "en-GB"))
	require.NoError(t, s.Close())

	// A legacy file appearing after the table is populated is ignored.
	require.NoError(t, os.WriteFile(cfg.LegacyConfigFile, []byte(`{"voice": "es-ES"}`), 0o644))

	s2, err := Open(cfg)
	require.NoError(t, err)
	defer s2.Close()

	assert.Equal(t, "en-GB", s2.ConfigGet("voice", nil))
	assert.FileExists(t, cfg.LegacyConfigFile, "non-empty table must not consume the file")
}
