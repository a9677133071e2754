package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/pdfjs/pdfmake/pkg"
	"github.com/pdfjs/pdfmake/pkg/buildsys"
	"github.com/pdfjs/pdfmake/pkg/targets"
)

// app holds everything the commands share. Tests replace the executor and
// the environment. A nil environ means the process environment.
type app struct {
	targets     buildsys.TargetList
	stdout      io.Writer
	stderr      io.Writer
	environ     []string
	newExecutor func(stdout, stderr io.Writer) buildsys.Executor
}

func defaultApp() *app {
	return &app{
		targets: targets.All(),
		stdout:  os.Stdout,
		stderr:  os.Stderr,
		newExecutor: func(stdout, stderr io.Writer) buildsys.Executor {
			shell := buildsys.NewShell()
			shell.Stdout = stdout
			shell.Stderr = stderr
			return shell
		},
	}
}

func (a *app) rootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pdfmake",
		Short: "Build targets for pdf.js",
		Long: `pdfmake runs the pdf.js build targets. Most of them forward to the gulp task
of the same name. Called without a target, it lists all available targets.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a.listTargets(cmd.OutOrStdout())
			return nil
		},
	}

	rootCmd.SetOut(a.stdout)
	rootCmd.SetErr(a.stderr)

	flags := rootCmd.PersistentFlags()
	flags.StringP("root", "C", "", "pdf.js checkout to work in (default: the nearest parent with a gulpfile.js)")
	flags.BoolP("dry", "n", false, "dry run; only print the targets that would run, don't execute anything")
	flags.BoolP("verbose", "v", false, "print debug messages")

	for _, group := range targets.Groups {
		rootCmd.AddGroup(&cobra.Group{ID: group, Title: group + " targets:"})
	}
	rootCmd.AddGroup(&cobra.Group{ID: helperGroup, Title: "Helpers:"})

	for _, name := range a.targets.Names() {
		rootCmd.AddCommand(a.targetCommand(a.targets[name]))
	}
	addPosixHelpers(rootCmd)

	return rootCmd
}

func (a *app) listTargets(w io.Writer) {
	fmt.Fprintln(w, "Available targets:")
	maxNameLen := 0
	names := a.targets.Names()
	for _, name := range names {
		if len(name) > maxNameLen {
			maxNameLen = len(name)
		}
	}

	lineFmt := fmt.Sprintf(" * %%-%ds %%s\n", maxNameLen+3)
	for _, name := range names {
		fmt.Fprintf(w, lineFmt, name+":", a.targets[name].Desc)
	}
}

// reportError prints err for the user. Guard errors show their hint on a
// second line.
func reportError(w io.Writer, err error) {
	var guard *buildsys.GuardError
	if eris.As(err, &guard) {
		pkg.PrintError(w, guard.Error())
		if guard.Hint != "" {
			fmt.Fprintf(w, "     %s\n", guard.Hint)
		}
		return
	}

	var exitErr *buildsys.ExitError
	if eris.As(err, &exitErr) && exitErr.Msg == "" {
		// already reported by the target
		return
	}

	pkg.PrintError(w, "ERROR: "+eris.ToString(err, debugEnabled()))
}

func (a *app) execute(ctx context.Context, args []string) int {
	rootCmd := a.rootCommand()
	rootCmd.SetArgs(args)

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		reportError(a.stderr, err)
	}
	return buildsys.ExitCode(err)
}

// Execute runs pdfmake with the process arguments and exits
func Execute() {
	os.Exit(defaultApp().execute(context.Background(), os.Args[1:]))
}
