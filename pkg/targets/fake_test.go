package targets

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pdfjs/pdfmake/pkg/buildsys"
	"github.com/pdfjs/pdfmake/pkg/config"
)

type call struct {
	Dir  string
	Args []string
}

// fakeExecutor records every command. Hooks keyed by the program name can
// simulate side effects and failures.
type fakeExecutor struct {
	calls  []call
	hooks  map[string]func(dir string, args []string) error
	output map[string][]byte
}

func newFakeExecutor() *fakeExecutor {
	return &fakeExecutor{
		hooks:  make(map[string]func(string, []string) error),
		output: make(map[string][]byte),
	}
}

func (f *fakeExecutor) run(dir string, args []string) error {
	f.calls = append(f.calls, call{Dir: dir, Args: args})
	if hook, ok := f.hooks[args[0]]; ok {
		return hook(dir, args)
	}
	return nil
}

func (f *fakeExecutor) Exec(_ context.Context, dir string, args ...string) error {
	return f.run(dir, args)
}

func (f *fakeExecutor) Output(_ context.Context, dir string, args ...string) ([]byte, error) {
	if err := f.run(dir, args); err != nil {
		return nil, err
	}
	return f.output[args[0]], nil
}

func (f *fakeExecutor) Script(_ context.Context, dir, script string) error {
	return f.run(dir, strings.Fields(script))
}

func (f *fakeExecutor) commands() []string {
	result := make([]string, len(f.calls))
	for idx, c := range f.calls {
		result[idx] = strings.Join(c.Args, " ")
	}
	return result
}

func newTestEnv(t *testing.T) (*buildsys.Env, *fakeExecutor) {
	t.Helper()
	exec := newFakeExecutor()
	return &buildsys.Env{
		Root:   t.TempDir(),
		Config: config.Default(),
		Exec:   exec,
		GOOS:   "linux",
	}, exec
}

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

func guardOf(t *testing.T, err error) *buildsys.GuardError {
	t.Helper()
	require.Error(t, err)

	guard, ok := err.(*buildsys.GuardError)
	require.True(t, ok, "expected a guard error, got %v", err)
	return guard
}
