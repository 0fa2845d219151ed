package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectoryExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "prompt.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o600))

	assert.True(t, DirectoryExists(dir))
	assert.False(t, DirectoryExists(file))
	assert.False(t, DirectoryExists(filepath.Join(dir, "missing")))
}

func TestFindProjectRoot(t *testing.T) {
	t.Setenv("DOCSYNC_ROOT", "")
	root, err := FindProjectRoot()
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(root, "go.mod"))
	assert.NoError(t, err)
}

func TestFindProjectRoot_Override(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DOCSYNC_ROOT", dir)
	root, err := FindProjectRoot()
	require.NoError(t, err)
	assert.Equal(t, dir, root)

	t.Setenv("DOCSYNC_ROOT", filepath.Join(dir, "missing"))
	_, err = FindProjectRoot()
	assert.ErrorIs(t, err, ErrNoProjectRoot)
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DOCSYNC_ROOT", dir)

	path, err := LoadEnv()
	require.NoError(t, err)
	assert.Empty(t, path)

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DOCSYNC_TEST_ONLY=from-file\nDOCSYNC_TEST_SET=from-file\n"), 0o600))
	t.Setenv("DOCSYNC_TEST_ONLY", "")
	os.Unsetenv("DOCSYNC_TEST_ONLY")
	t.Setenv("DOCSYNC_TEST_SET", "from-env")

	path, err = LoadEnv()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ".env"), path)
	assert.Equal(t, "from-file", os.Getenv("DOCSYNC_TEST_ONLY"))
	assert.Equal(t, "from-env", os.Getenv("DOCSYNC_TEST_SET"))
}
