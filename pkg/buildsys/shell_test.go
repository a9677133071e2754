package buildsys

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietShell(stdout io.Writer) *Shell {
	sh := NewShell()
	sh.Stdout = stdout
	sh.Stderr = io.Discard
	return sh
}

func TestShellScriptPropagatesExitStatus(t *testing.T) {
	sh := quietShell(io.Discard)

	err := sh.Script(context.Background(), t.TempDir(), "true\nexit 3")
	require.Error(t, err)
	assert.Equal(t, 3, ExitCode(err))

	var exitErr *ExitError
	require.True(t, eris.As(err, &exitErr))
	assert.Equal(t, "exit 3 exited with 3", exitErr.Msg)
}

func TestShellScriptRunsInDir(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer
	sh := quietShell(&out)

	err := sh.Script(context.Background(), dir, "echo hello > greeting.txt\ncat greeting.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello\n", out.String())

	data, err := os.ReadFile(filepath.Join(dir, "greeting.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(data))
}

func TestShellScriptStopsAtExit(t *testing.T) {
	var out bytes.Buffer
	sh := quietShell(&out)

	err := sh.Script(context.Background(), t.TempDir(), "echo one\nexit 0\necho two")
	require.NoError(t, err)
	assert.Equal(t, "one\n", out.String())
}

func TestShellScriptSyntaxError(t *testing.T) {
	sh := quietShell(io.Discard)

	err := sh.Script(context.Background(), t.TempDir(), "echo 'unterminated")
	require.Error(t, err)
	assert.Equal(t, 1, ExitCode(err))
}

func TestShellOutputDoesNotExpandArguments(t *testing.T) {
	sh := quietShell(io.Discard)
	sh.Env["PDFMAKE_TEST_VAR"] = "expanded"

	out, err := sh.Output(context.Background(), t.TempDir(), "echo", "plain", "$PDFMAKE_TEST_VAR", "a b", "it's")
	require.NoError(t, err)
	assert.Equal(t, "plain $PDFMAKE_TEST_VAR a b it's\n", string(out))
}

func TestShellUsesEnvOverrides(t *testing.T) {
	sh := quietShell(io.Discard)
	sh.Env["PDFMAKE_TEST_VAR"] = "from-shell"

	var out bytes.Buffer
	sh.Stdout = &out
	err := sh.Script(context.Background(), t.TempDir(), "echo $PDFMAKE_TEST_VAR")
	require.NoError(t, err)
	assert.Equal(t, "from-shell\n", out.String())
}

func TestShellMissingCommand(t *testing.T) {
	sh := quietShell(io.Discard)

	err := sh.Exec(context.Background(), t.TempDir(), "pdfmake-command-that-does-not-exist")
	require.Error(t, err)
	assert.Equal(t, 127, ExitCode(err))
}

func TestShellInvalidDir(t *testing.T) {
	sh := quietShell(io.Discard)

	err := sh.Exec(context.Background(), filepath.Join(t.TempDir(), "missing"), "true")
	require.Error(t, err)
	assert.Equal(t, 1, ExitCode(err))
}

func TestDisplayCommand(t *testing.T) {
	assert.Equal(t, "gulp mozcentral", DisplayCommand([]string{"gulp", "mozcentral"}))
	assert.Equal(t, "git diff 'a b'", DisplayCommand([]string{"git", "diff", "a b"}))
}
