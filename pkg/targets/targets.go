// Package targets contains pdfmake's target table. Most targets forward to
// the gulp task of the same name; the Chromium signing and mozilla-central
// targets are implemented here.
package targets

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/pdfjs/pdfmake/pkg/buildsys"
)

// Target groups, in the order they are listed
const (
	GroupProduction = "Production"
	GroupExtension  = "Extension"
	GroupTest       = "Test"
	GroupBaseline   = "Baseline"
	GroupOther      = "Other"
)

// Groups lists all target groups in display order
var Groups = []string{GroupProduction, GroupExtension, GroupTest, GroupBaseline, GroupOther}

// Gulp runs `gulp <task>` in the project root
func Gulp(ctx context.Context, env *buildsys.Env, task string) error {
	args := append(strings.Fields(env.Config.Gulp), task)
	return commandFailed("gulp", env.Exec.Exec(ctx, env.Root, args...))
}

// commandFailed replaces the shell's exit error with one naming the program
func commandFailed(program string, err error) error {
	if err == nil {
		return nil
	}

	var exitErr *buildsys.ExitError
	if eris.As(err, &exitErr) {
		return buildsys.Exitf(exitErr.Code, "%s exited with %d", program, exitErr.Code)
	}

	return eris.Wrapf(err, "failed to run %s", program)
}

func programName(cmdline string) string {
	fields := strings.Fields(cmdline)
	if len(fields) == 0 {
		return "command"
	}
	return fields[0]
}

func gulpTarget(group, name, task, desc string) *buildsys.Target {
	return &buildsys.Target{
		Name:  name,
		Desc:  desc,
		Group: group,
		Run: func(ctx context.Context, env *buildsys.Env, _ buildsys.Options) error {
			return Gulp(ctx, env, task)
		},
	}
}

func browserTest(ctx context.Context, env *buildsys.Env, opts buildsys.Options) error {
	if opts["noreftest"] {
		return Gulp(ctx, env, "browsertest-noreftest")
	}
	return Gulp(ctx, env, "browsertest")
}

// All returns the complete target table
func All() buildsys.TargetList {
	return buildsys.TargetList{}.Add(
		gulpTarget(GroupProduction, "all", "default", "Run the default gulp task"),
		gulpTarget(GroupProduction, "generic", "generic", "Build the generic viewer for modern HTML5 browsers"),
		gulpTarget(GroupProduction, "components", "components", "Build the viewer components"),
		gulpTarget(GroupProduction, "jsdoc", "jsdoc", "Generate the API documentation"),
		gulpTarget(GroupProduction, "web", "web", "Build the gh-pages site"),
		gulpTarget(GroupProduction, "dist", "dist", "Prepare the pdfjs-dist package"),
		gulpTarget(GroupProduction, "publish", "publish", "Create a release"),
		gulpTarget(GroupProduction, "locale", "locale", "Generate the locale files"),
		gulpTarget(GroupProduction, "cmaps", "cmaps", "Compress the CMap files"),
		gulpTarget(GroupProduction, "bundle", "bundle", "Bundle the source files"),
		gulpTarget(GroupProduction, "singlefile", "singlefile", "Build pdf.js as a single file"),
		gulpTarget(GroupProduction, "minified", "minified", "Build the minified viewer"),

		gulpTarget(GroupExtension, "extension", "extension", "Build all browser extensions"),
		gulpTarget(GroupExtension, "buildnumber", "buildnumber", "Compute the build number"),
		gulpTarget(GroupExtension, "firefox", "firefox", "Build the Firefox extension"),
		gulpTarget(GroupExtension, "mozcentral", "mozcentral", "Build the mozilla-central version"),
		gulpTarget(GroupExtension, "chromium", "chromium", "Build the Chromium extension"),
		&buildsys.Target{
			Name:  "signchromium",
			Desc:  "Pack the Chromium extension into a signed .crx file",
			Group: GroupExtension,
			Run:   SignChromium,
		},

		gulpTarget(GroupTest, "test", "test", "Run all tests"),
		gulpTarget(GroupTest, "bottest", "bottest", "Run the tests used by the GitHub bot"),
		&buildsys.Target{
			Name:  "browsertest",
			Desc:  "Run the browser tests",
			Group: GroupTest,
			Flags: map[string]string{
				"noreftest": "skip the reference tests",
			},
			Run: browserTest,
		},
		gulpTarget(GroupTest, "unittest", "unittest", "Run the unit tests"),
		gulpTarget(GroupTest, "fonttest", "fonttest", "Run the font tests"),
		gulpTarget(GroupTest, "botmakeref", "botmakeref", "Create reference images for the GitHub bot"),

		gulpTarget(GroupBaseline, "baseline", "baseline", "Check out the baseline revision"),
		&buildsys.Target{
			Name:  "mozcentralbaseline",
			Desc:  "Build the mozilla-central baseline repository",
			Group: GroupBaseline,
			Deps:  []string{"baseline"},
			Run:   MozCentralBaseline,
		},
		&buildsys.Target{
			Name:  "mozcentraldiff",
			Desc:  "Diff the current mozcentral build against the baseline",
			Group: GroupBaseline,
			Deps:  []string{"mozcentral"},
			Run:   MozCentralDiff,
		},
		&buildsys.Target{
			Name:  "mozcentralcheck",
			Desc:  "Check mozilla-central (MC_PATH) for changes made after the baseline",
			Group: GroupBaseline,
			Run:   MozCentralCheck,
		},

		gulpTarget(GroupOther, "server", "server", "Start the development server"),
		gulpTarget(GroupOther, "lint", "lint", "Lint the source files"),
		gulpTarget(GroupOther, "clean", "clean", "Remove the build output"),
		gulpTarget(GroupOther, "makefile", "makefile", "Generate the Makefile"),
		gulpTarget(GroupOther, "importl10n", "importl10n", "Import translations from mozilla-central"),
	)
}
