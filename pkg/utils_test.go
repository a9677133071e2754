package pkg

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetProjectRoot(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, RootMarker), []byte(""), 0o644))
	nested := filepath.Join(root, "src", "display")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	found, err := GetProjectRoot(nested)
	require.NoError(t, err)
	assert.Equal(t, root, found)

	found, err = GetProjectRoot(root)
	require.NoError(t, err)
	assert.Equal(t, root, found)
}

func TestPrintError(t *testing.T) {
	var out bytes.Buffer
	PrintError(&out, "mozcentral baseline was not found")

	assert.Contains(t, out.String(), "->")
	assert.Contains(t, out.String(), "mozcentral baseline was not found")
}
