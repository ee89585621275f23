package hostsfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/hostprep/internal/errors"
)

func writeHosts(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hosts")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func backups(t *testing.T, path string) []string {
	t.Helper()
	matches, err := filepath.Glob(path + ".bak.*")
	require.NoError(t, err)
	return matches
}

func TestUpdate_MissingFileIsFatal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hosts")

	action, err := Update(path, testOptions("127.0.1.1 web1"))
	require.Error(t, err)
	assert.Equal(t, ActionSkipped, action)
	assert.True(t, errors.IsCode(err, errors.ErrPrecheck))
	assert.Contains(t, err.Error(), "does not exist")
}

func TestUpdate_ReplacesAndBacksUp(t *testing.T) {
	path := writeHosts(t, "127.0.0.1 localhost\n127.0.1.1 old\n")

	action, err := Update(path, testOptions("127.0.1.1 web1"))
	require.NoError(t, err)
	assert.Equal(t, ActionReplaced, action)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1 localhost\n127.0.1.1 web1\n", string(data))

	baks := backups(t, path)
	require.Len(t, baks, 1)
	old, err := os.ReadFile(baks[0])
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1 localhost\n127.0.1.1 old\n", string(old))
}

func TestUpdate_NoopTakesNoBackup(t *testing.T) {
	path := writeHosts(t, "127.0.0.1 localhost\n127.0.1.1 web1\n")

	action, err := Update(path, testOptions("127.0.1.1 web1"))
	require.NoError(t, err)
	assert.Equal(t, ActionUnchanged, action)
	assert.Empty(t, backups(t, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1 localhost\n127.0.1.1 web1\n", string(data))
}

func TestUpdate_GatedInsertLeavesFileAlone(t *testing.T) {
	path := writeHosts(t, "127.0.0.1 localhost\n")
	opts := testOptions("127.0.1.1 web1")
	opts.AllowInsert = false

	action, err := Update(path, opts)
	require.NoError(t, err)
	assert.Equal(t, ActionSkipped, action)
	assert.Empty(t, backups(t, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1 localhost\n", string(data))
}

func TestUpdate_InsertGrowsFileByOneLine(t *testing.T) {
	path := writeHosts(t, "# header\n127.0.0.1 localhost\n::1 ip6-localhost\n")

	action, err := Update(path, testOptions("127.0.1.1 web1"))
	require.NoError(t, err)
	assert.Equal(t, ActionInserted, action)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# header\n127.0.0.1 localhost\n127.0.1.1 web1\n::1 ip6-localhost\n", string(data))
}

func TestUpdate_SecondRunIsNoop(t *testing.T) {
	path := writeHosts(t, "127.0.0.1 localhost\n")

	action, err := Update(path, testOptions("127.0.1.1 web1"))
	require.NoError(t, err)
	assert.Equal(t, ActionInserted, action)

	after, err := os.ReadFile(path)
	require.NoError(t, err)

	action, err = Update(path, testOptions("127.0.1.1 web1"))
	require.NoError(t, err)
	assert.Equal(t, ActionUnchanged, action)

	again, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, string(after), string(again))

	// Only the mutating run backed up.
	assert.Len(t, backups(t, path), 1)
}

func TestUpdate_KeepsMissingTrailingNewline(t *testing.T) {
	path := writeHosts(t, "127.0.0.1 localhost\n127.0.1.1 old")

	action, err := Update(path, testOptions("127.0.1.1 web1"))
	require.NoError(t, err)
	assert.Equal(t, ActionReplaced, action)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1 localhost\n127.0.1.1 web1", string(data))
}

func TestUpdate_PreservesMode(t *testing.T) {
	path := writeHosts(t, "127.0.1.1 old\n")
	require.NoError(t, os.Chmod(path, 0600))

	_, err := Update(path, testOptions("127.0.1.1 web1"))
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}
