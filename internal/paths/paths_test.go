package paths

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveConfigDirPrecedence(t *testing.T) {
	t.Setenv(EnvConfigDir, "/env/config")

	// Flag wins over env.
	dir, err := ResolveConfigDir("/flag/config")
	require.NoError(t, err)
	assert.Equal(t, "/flag/config", dir)

	// Env wins over the platform default.
	dir, err = ResolveConfigDir("")
	require.NoError(t, err)
	assert.Equal(t, "/env/config", dir)
}

func TestResolveDataDirPrecedence(t *testing.T) {
	t.Setenv(EnvDataDir, "/env/data")

	dir, err := ResolveDataDir("/flag/data", "/yaml/data")
	require.NoError(t, err)
	assert.Equal(t, "/flag/data", dir)

	dir, err = ResolveDataDir("", "/yaml/data")
	require.NoError(t, err)
	assert.Equal(t, "/yaml/data", dir)

	dir, err = ResolveDataDir("", "")
	require.NoError(t, err)
	assert.Equal(t, "/env/data", dir)
}

func TestResolveRelativeFlagIsAbsolutized(t *testing.T) {
	dir, err := ResolveConfigDir("rel/config")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(dir))
}
