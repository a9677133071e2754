package fsops

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestCopyContentsSkipsTopLevelHiddenEntries(t *testing.T) {
	src := t.TempDir()
	dest := filepath.Join(t.TempDir(), "out")

	writeFile(t, filepath.Join(src, "README.mozilla"), "readme")
	writeFile(t, filepath.Join(src, "content", "build", "pdf.js"), "pdf")
	writeFile(t, filepath.Join(src, "content", ".eslintrc"), "nested hidden")
	writeFile(t, filepath.Join(src, ".DS_Store"), "junk")

	require.NoError(t, CopyContents(src, dest))

	assert.Equal(t, "readme", readFile(t, filepath.Join(dest, "README.mozilla")))
	assert.Equal(t, "pdf", readFile(t, filepath.Join(dest, "content", "build", "pdf.js")))
	assert.True(t, IsFile(filepath.Join(dest, "content", ".eslintrc")))
	assert.False(t, Exists(filepath.Join(dest, ".DS_Store")))
}

func TestCopyContentsOverwrites(t *testing.T) {
	src := t.TempDir()
	dest := t.TempDir()

	writeFile(t, filepath.Join(src, "a.txt"), "new")
	writeFile(t, filepath.Join(dest, "a.txt"), "old content")
	writeFile(t, filepath.Join(dest, "b.txt"), "kept")

	require.NoError(t, CopyContents(src, dest))
	assert.Equal(t, "new", readFile(t, filepath.Join(dest, "a.txt")))
	assert.Equal(t, "kept", readFile(t, filepath.Join(dest, "b.txt")))
}

func TestCopyContentsMissingSource(t *testing.T) {
	err := CopyContents(filepath.Join(t.TempDir(), "missing"), t.TempDir())
	assert.Error(t, err)
}

func TestClearContentsKeepsHiddenEntries(t *testing.T) {
	dir := t.TempDir()

	writeFile(t, filepath.Join(dir, ".git", "HEAD"), "ref: refs/heads/master")
	writeFile(t, filepath.Join(dir, "chrome.manifest"), "manifest")
	writeFile(t, filepath.Join(dir, "content", "web", "viewer.js"), "viewer")

	require.NoError(t, ClearContents(dir))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, ".git", entries[0].Name())
	assert.True(t, IsFile(filepath.Join(dir, ".git", "HEAD")))
}

func TestSweepHidden(t *testing.T) {
	dir := t.TempDir()

	writeFile(t, filepath.Join(dir, ".DS_Store"), "")
	writeFile(t, filepath.Join(dir, "extensions", "pdfjs", ".DS_Store"), "")
	writeFile(t, filepath.Join(dir, "extensions", "pdfjs", "README.mozilla"), "")
	writeFile(t, filepath.Join(dir, "extensions", "pdfjs", "moz.build~"), "")
	writeFile(t, filepath.Join(dir, "locales", "en-US", "pdfviewer", "viewer.properties"), "")
	writeFile(t, filepath.Join(dir, "locales", "..properties"), "")

	removed, err := SweepHidden(dir)
	require.NoError(t, err)

	sort.Strings(removed)
	assert.Equal(t, []string{
		".DS_Store",
		"extensions/pdfjs/.DS_Store",
		"extensions/pdfjs/moz.build~",
	}, removed)

	assert.True(t, Exists(filepath.Join(dir, "extensions", "pdfjs", "README.mozilla")))
	assert.True(t, Exists(filepath.Join(dir, "locales", "en-US", "pdfviewer", "viewer.properties")))
	assert.True(t, Exists(filepath.Join(dir, "locales", "..properties")))
	assert.False(t, Exists(filepath.Join(dir, ".DS_Store")))
}

func TestMove(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "chromium.crx"), "crx")
	require.NoError(t, MakeDir(filepath.Join(dir, "chromium")))

	require.NoError(t, Move(filepath.Join(dir, "chromium.crx"), filepath.Join(dir, "chromium", "pdf.js.crx")))
	assert.False(t, Exists(filepath.Join(dir, "chromium.crx")))
	assert.Equal(t, "crx", readFile(t, filepath.Join(dir, "chromium", "pdf.js.crx")))

	// moving into an existing directory keeps the name
	writeFile(t, filepath.Join(dir, "other.txt"), "other")
	require.NoError(t, Move(filepath.Join(dir, "other.txt"), filepath.Join(dir, "chromium")))
	assert.True(t, IsFile(filepath.Join(dir, "chromium", "other.txt")))

	assert.Error(t, Move(filepath.Join(dir, "missing"), filepath.Join(dir, "x")))
}

func TestRemoveAndMakeDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "mozcentral.baseline", "nested")

	require.NoError(t, MakeDir(dir))
	assert.True(t, IsDir(dir))
	assert.False(t, IsFile(dir))

	require.NoError(t, Remove(filepath.Dir(dir)))
	assert.False(t, Exists(dir))

	// already gone
	require.NoError(t, Remove(filepath.Dir(dir)))
}

func TestWriteFileAtomic(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "build", "mozcentral.diff")

	require.NoError(t, WriteFileAtomic(dest, []byte("diff --git a/x b/x\n")))
	assert.Equal(t, "diff --git a/x b/x\n", readFile(t, dest))

	require.NoError(t, WriteFileAtomic(dest, []byte("second")))
	assert.Equal(t, "second", readFile(t, dest))

	entries, err := os.ReadDir(filepath.Dir(dest))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestGlob(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.js"), "")
	writeFile(t, filepath.Join(dir, "b.js"), "")
	writeFile(t, filepath.Join(dir, "c.txt"), "")

	matches, err := Glob(filepath.Join(dir, "*.js"))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{filepath.Join(dir, "a.js"), filepath.Join(dir, "b.js")}, matches)

	matches, err = Glob(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "missing")}, matches)
}
