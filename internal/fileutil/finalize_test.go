package fileutil_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/sectorc/internal/fileutil"
)

func writeFile(t *testing.T, dir, name string, perm os.FileMode) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("input"), perm))

	return path
}

func TestAtomicCommit(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := writeFile(t, dir, "tool", 0o755)

	old := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, os.Chtimes(input, old, old))

	target := filepath.Join(dir, "tool.sect")

	atomic, err := fileutil.NewAtomic(input, target)
	require.NoError(t, err)
	assert.True(t, atomic.Executable)

	_, err = atomic.File.WriteString("output!")
	require.NoError(t, err)

	_, err = os.Stat(target)
	require.ErrorIs(t, err, os.ErrNotExist, "target must not exist before commit")

	size, err := atomic.Commit(atomic.Executable, true)
	require.NoError(t, err)
	assert.Equal(t, int64(7), size)

	info, err := os.Stat(target)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o711), info.Mode().Perm())
	assert.True(t, info.ModTime().Equal(old))
}

func TestAtomicAbortRemovesTemp(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := writeFile(t, dir, "plain", 0o644)

	atomic, err := fileutil.NewAtomic(input, filepath.Join(dir, "plain.sect"))
	require.NoError(t, err)
	assert.False(t, atomic.Executable)

	failed := errors.New("boom")
	atomic.Abort(&failed)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "plain", entries[0].Name())
}

func TestNewAtomicRejectsDirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	_, err := fileutil.NewAtomic(dir, filepath.Join(dir, "out"))
	require.Error(t, err)
}

func TestOutputPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, filepath.Join("dir", "a.txt.sect"), fileutil.OutputPath("dir/a.txt", false, ".sect", ""))
	assert.Equal(t, filepath.Join("dir", "a.txt"), fileutil.OutputPath("dir/a.txt.sect", true, ".sect", ""))
	assert.Equal(t, filepath.Join("dir", "a.txt.out"), fileutil.OutputPath("dir/a.txt.sect", true, ".sect", ".out"))
}
