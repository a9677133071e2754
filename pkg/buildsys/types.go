package buildsys

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdfjs/pdfmake/pkg/config"
)

// Options holds the boolean flags passed to a target (i.e. --noreftest)
type Options map[string]bool

// RunFunc implements a target
type RunFunc func(ctx context.Context, env *Env, opts Options) error

// Target is one entry of the dispatch table
type Target struct {
	Name  string
	Desc  string
	Group string
	// Deps are run (once) before the target itself.
	Deps []string
	// Flags maps option names to their help text.
	Flags map[string]string
	Run   RunFunc
}

// TargetList maps names to each available target
type TargetList map[string]*Target

// String returns a string representation of the target
func (t *Target) String() string {
	return fmt.Sprintf("<Target %s: %s>", t.Name, t.Desc)
}

// Add registers the given targets, panicking on duplicate names
func (l TargetList) Add(targets ...*Target) TargetList {
	for _, t := range targets {
		if _, dup := l[t.Name]; dup {
			panic(fmt.Sprintf("target %s registered twice", t.Name))
		}
		l[t.Name] = t
	}
	return l
}

// Names returns all target names in alphabetical order
func (l TargetList) Names() []string {
	names := make([]string, 0, len(l))
	for name := range l {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Env is everything a target needs from its surroundings. Targets never read
// the working directory or the process environment themselves.
type Env struct {
	Root   string
	Config *config.Config
	Exec   Executor
	// GOOS is the operating system used for platform-specific path rules.
	GOOS   string
	DryRun bool
}

// Path resolves the given parts relative to the project root. Absolute paths
// are returned unchanged.
func (e *Env) Path(parts ...string) string {
	joined := filepath.Join(parts...)
	if filepath.IsAbs(joined) {
		return filepath.Clean(joined)
	}
	return filepath.Join(e.Root, joined)
}

// BuildPath resolves the given parts relative to the build directory
func (e *Env) BuildPath(parts ...string) string {
	return e.Path(append([]string{e.Config.BuildDir}, parts...)...)
}

// Rel shortens path for display. Paths outside the root stay untouched.
func (e *Env) Rel(path string) string {
	rel, err := filepath.Rel(e.Root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return filepath.ToSlash(rel)
}
