package gitrepo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestCommitAndReset(t *testing.T) {
	dir := t.TempDir()
	viewer := filepath.Join(dir, "browser", "extensions", "pdfjs", "content", "web", "viewer.js")
	writeFile(t, viewer, "original")

	repo, err := Init(dir)
	require.NoError(t, err)
	require.NoError(t, repo.StageAll())

	hash, err := repo.Commit("mozcentral baseline")
	require.NoError(t, err)

	head, err := repo.head()
	require.NoError(t, err)
	assert.Equal(t, hash, head)

	clean, err := repo.Clean()
	require.NoError(t, err)
	assert.True(t, clean)

	writeFile(t, viewer, "modified")
	require.NoError(t, repo.StageAll())

	clean, err = repo.Clean()
	require.NoError(t, err)
	assert.False(t, clean)

	reopened, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, reopened.ResetHard())

	data, err := os.ReadFile(viewer)
	require.NoError(t, err)
	assert.Equal(t, "original", string(data))

	clean, err = reopened.Clean()
	require.NoError(t, err)
	assert.True(t, clean)
}

func TestStageAllRecordsDeletions(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "keep.txt"), "keep")
	writeFile(t, filepath.Join(dir, "drop.txt"), "drop")

	repo, err := Init(dir)
	require.NoError(t, err)
	require.NoError(t, repo.StageAll())
	_, err = repo.Commit("initial")
	require.NoError(t, err)

	require.NoError(t, os.Remove(filepath.Join(dir, "drop.txt")))
	require.NoError(t, repo.StageAll())
	_, err = repo.Commit("remove drop.txt")
	require.NoError(t, err)

	clean, err := repo.Clean()
	require.NoError(t, err)
	assert.True(t, clean)
}

func TestOpenMissingRepository(t *testing.T) {
	_, err := Open(t.TempDir())
	assert.Error(t, err)
}
