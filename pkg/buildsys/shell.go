package buildsys

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"regexp"
	"runtime"
	"strings"

	"github.com/rotisserie/eris"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// Executor runs external commands on behalf of targets.
type Executor interface {
	// Exec runs args in dir and streams its output to the console.
	Exec(ctx context.Context, dir string, args ...string) error
	// Output runs args in dir and returns what it printed on stdout.
	Output(ctx context.Context, dir string, args ...string) ([]byte, error)
	// Script parses script as a shell snippet and runs it in dir.
	Script(ctx context.Context, dir, script string) error
}

// Shell is the default Executor. Commands are interpreted by mvdan.cc/sh.
type Shell struct {
	// Env overrides entries of the process environment.
	Env    map[string]string
	Stdout io.Writer
	Stderr io.Writer
}

var _ Executor = (*Shell)(nil)

// NewShell returns a Shell that writes to the process' stdout and stderr
func NewShell() *Shell {
	return &Shell{
		Env:    make(map[string]string),
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// commands that are routed to pdfmake's own cross-platform helpers on Windows
var posixHelpers = map[string]bool{
	"cp":    true,
	"mkdir": true,
	"mv":    true,
	"rm":    true,
}

func helperRedirect(next interp.ExecHandlerFunc) interp.ExecHandlerFunc {
	return func(ctx context.Context, args []string) error {
		if runtime.GOOS == "windows" && len(args) > 0 && posixHelpers[args[0]] {
			self, err := os.Executable()
			if err != nil {
				return eris.Wrap(err, "failed to locate the pdfmake executable")
			}

			args = append([]string{self}, args...)
		}

		return next(ctx, args)
	}
}

var defaultOpenHandler = interp.DefaultOpenHandler()

func openHandler(ctx context.Context, path string, flag int, perm os.FileMode) (io.ReadWriteCloser, error) {
	if path == "/dev/null" {
		path = os.DevNull
	}

	return defaultOpenHandler(ctx, path, flag, perm)
}

func (s *Shell) environ() []string {
	osEnv := os.Environ()
	shellEnv := make([]string, 0, len(osEnv)+len(s.Env))
	for _, item := range osEnv {
		parts := strings.SplitN(item, "=", 2)
		if runtime.GOOS == "windows" {
			parts[0] = strings.ToUpper(parts[0])
		}

		// skip overriden entries to avoid conflicts
		if _, present := s.Env[parts[0]]; !present {
			shellEnv = append(shellEnv, item)
		}
	}

	for k, v := range s.Env {
		shellEnv = append(shellEnv, fmt.Sprintf("%s=%s", k, v))
	}

	return shellEnv
}

func (s *Shell) newRunner(dir string, stdout io.Writer) (*interp.Runner, error) {
	stderr := s.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	runner, err := interp.New(
		interp.Dir(dir),
		interp.Env(expand.ListEnviron(s.environ()...)),
		interp.ExecHandlers(helperRedirect),
		interp.OpenHandler(openHandler),
		interp.StdIO(nil, stdout, stderr),
		interp.Params("-e"),
	)
	if err != nil {
		return nil, eris.Wrapf(err, "Failed to initialize runner in %s", dir)
	}

	return runner, nil
}

// Exec implements Executor
func (s *Shell) Exec(ctx context.Context, dir string, args ...string) error {
	stdout := s.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}

	Logger(ctx).Info().
		Bool("command", true).
		Msg(DisplayCommand(args))

	return s.run(ctx, dir, args, stdout)
}

// Output implements Executor
func (s *Shell) Output(ctx context.Context, dir string, args ...string) ([]byte, error) {
	Logger(ctx).Debug().
		Bool("command", true).
		Msg(DisplayCommand(args))

	var buffer bytes.Buffer
	err := s.run(ctx, dir, args, &buffer)
	return buffer.Bytes(), err
}

func (s *Shell) run(ctx context.Context, dir string, args []string, stdout io.Writer) error {
	if len(args) == 0 {
		return eris.New("no command given")
	}

	runner, err := s.newRunner(dir, stdout)
	if err != nil {
		return err
	}

	return exitError(args[0], runner.Run(ctx, callExpr(args)))
}

// Script implements Executor
func (s *Shell) Script(ctx context.Context, dir, script string) error {
	parser := syntax.NewParser()
	file, err := parser.Parse(strings.NewReader(script), dir)
	if err != nil {
		return eris.Wrapf(err, "failed to parse command %s", script)
	}

	stdout := s.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}

	runner, err := s.newRunner(dir, stdout)
	if err != nil {
		return err
	}

	printer := syntax.NewPrinter(
		syntax.Minify(true),
	)
	strBuffer := strings.Builder{}

	for _, stmt := range file.Stmts {
		strBuffer.Reset()
		if err := printer.Print(&strBuffer, stmt); err != nil {
			return eris.Wrap(err, "failed to print statement")
		}

		Logger(ctx).Info().
			Bool("command", true).
			Msg(strBuffer.String())

		err = runner.Run(ctx, stmt)
		if err != nil {
			return exitError(strBuffer.String(), err)
		}

		if runner.Exited() {
			return nil
		}
	}

	return nil
}

func exitError(name string, err error) error {
	if err == nil {
		return nil
	}

	if status, ok := interp.IsExitStatus(err); ok {
		return &ExitError{
			Code: int(status),
			Msg:  fmt.Sprintf("%s exited with %d", name, status),
		}
	}

	return eris.Wrapf(err, "failed to run %s", name)
}

var plainWord = regexp.MustCompile(`^[A-Za-z0-9_./:=@%+,-]+$`)

// callExpr turns an argument vector into a shell call. Plain arguments become
// literals and everything else is single-quoted so it reaches the program
// without expansion.
func callExpr(args []string) *syntax.CallExpr {
	cmd := new(syntax.CallExpr)
	cmd.Args = make([]*syntax.Word, len(args))

	for a, arg := range args {
		var wordPart syntax.WordPart

		if plainWord.MatchString(arg) {
			node := new(syntax.Lit)
			node.Value = arg

			wordPart = node
		} else {
			node := new(syntax.SglQuoted)
			node.Value = arg

			wordPart = node
		}

		cmd.Args[a] = new(syntax.Word)
		cmd.Args[a].Parts = []syntax.WordPart{wordPart}
	}

	return cmd
}

// DisplayCommand renders args the way they would have to be typed into a
// shell.
func DisplayCommand(args []string) string {
	parts := make([]string, len(args))
	for idx, arg := range args {
		quoted, err := syntax.Quote(arg, syntax.LangBash)
		if err != nil {
			quoted = fmt.Sprintf("%q", arg)
		}
		parts[idx] = quoted
	}

	return strings.Join(parts, " ")
}
