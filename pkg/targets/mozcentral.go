package targets

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/pdfjs/pdfmake/pkg/buildsys"
	"github.com/pdfjs/pdfmake/pkg/fsops"
	"github.com/pdfjs/pdfmake/pkg/gitrepo"
)

const (
	baselineDirName = "mozcentral.baseline"
	diffName        = "mozcentral.diff"
	changesName     = "mozcentral_changes.diff"
)

// directories below browser/ in mozilla-central that pdf.js owns
var mozCentralDirs = [][]string{
	{"extensions", "pdfjs"},
	{"locales", "en-US", "pdfviewer"},
}

// MozCentralBaseline builds the baseline revision's mozcentral output and
// commits it to build/mozcentral.baseline.
func MozCentralBaseline(ctx context.Context, env *buildsys.Env, _ buildsys.Options) error {
	buildsys.Heading(ctx, "Creating mozcentral baseline environment")

	baselineDir := env.BuildPath("baseline")
	repoDir := env.BuildPath(baselineDirName)

	if err := fsops.Remove(repoDir); err != nil {
		return err
	}
	if err := fsops.Remove(filepath.Join(baselineDir, "build")); err != nil {
		return err
	}

	err := env.Exec.Script(ctx, baselineDir, env.Config.MozCentral.BaselineMake)
	if err != nil {
		return commandFailed(programName(env.Config.MozCentral.BaselineMake), err)
	}

	if err = fsops.MakeDir(repoDir); err != nil {
		return err
	}
	err = fsops.CopyContents(filepath.Join(baselineDir, "build", "mozcentral"), repoDir)
	if err != nil {
		return err
	}

	// PdfStreamConverter.js is never compared
	err = fsops.Remove(filepath.Join(repoDir, "browser", "extensions", "pdfjs", "PdfStreamConverter.js"))
	if err != nil {
		return err
	}

	repo, err := gitrepo.Init(repoDir)
	if err != nil {
		return err
	}
	if err = repo.StageAll(); err != nil {
		return err
	}
	hash, err := repo.Commit("mozcentral baseline")
	if err != nil {
		return err
	}

	buildsys.Logger(ctx).Info().
		Str("path", repoDir).
		Str("commit", hash.String()).
		Msgf("Baseline committed to %s", env.Rel(repoDir))
	return nil
}

// MozCentralDiff writes the difference between the baseline and the current
// mozcentral build to build/mozcentral.diff.
func MozCentralDiff(ctx context.Context, env *buildsys.Env, _ buildsys.Options) error {
	buildsys.Heading(ctx, "Creating mozcentral diff")

	diffPath := env.BuildPath(diffName)
	if err := fsops.Remove(diffPath); err != nil {
		return err
	}

	repo, err := resetBaseline(env)
	if err != nil {
		return err
	}

	err = fsops.CopyContents(env.BuildPath("mozcentral"), repo.Path)
	if err != nil {
		return err
	}

	diff, err := stagedDiff(ctx, env, repo)
	if err != nil {
		return err
	}

	if err = fsops.WriteFileAtomic(diffPath, diff); err != nil {
		return err
	}

	buildsys.Logger(ctx).Info().
		Str("path", diffPath).
		Msgf("Result diff can be found at %s", env.Rel(diffPath))
	return nil
}

// MozCentralCheck compares the pdf.js files in a mozilla-central checkout
// against the baseline. Changes are written to build/mozcentral_changes.diff
// and fail the target.
func MozCentralCheck(ctx context.Context, env *buildsys.Env, _ buildsys.Options) error {
	log := buildsys.Logger(ctx)
	buildsys.Heading(ctx, "Checking mozcentral changes")

	mcPath, err := mozillaCentralPath(env.Config.MozCentral.Path)
	if err != nil {
		return err
	}

	diffPath := env.BuildPath(changesName)
	if err = fsops.Remove(diffPath); err != nil {
		return err
	}

	repo, err := resetBaseline(env)
	if err != nil {
		return err
	}

	browserDir := filepath.Join(repo.Path, "browser")
	for _, parts := range mozCentralDirs {
		src := filepath.Join(append([]string{mcPath, "browser"}, parts...)...)
		dest := filepath.Join(append([]string{browserDir}, parts...)...)

		if err = fsops.MakeDir(dest); err != nil {
			return err
		}
		if !fsops.IsDir(src) {
			log.Warn().
				Str("path", src).
				Msgf("%s does not exist, skipping it", src)
			continue
		}
		if err = fsops.CopyContents(src, dest); err != nil {
			return err
		}
	}

	removed, err := fsops.SweepHidden(browserDir)
	if err != nil {
		return err
	}
	for _, item := range removed {
		log.Debug().Msgf("Removed %s", item)
	}

	diff, err := stagedDiff(ctx, env, repo)
	if err != nil {
		return err
	}

	if len(diff) == 0 {
		log.Info().Msg("Success: there are no changes at mozilla-central")
		return nil
	}

	log.Warn().Msg("There were changes found at mozilla-central.")
	if err = fsops.WriteFileAtomic(diffPath, diff); err != nil {
		return err
	}

	log.Info().
		Str("path", diffPath).
		Msgf("Result diff can be found at %s", env.Rel(diffPath))
	return &buildsys.ExitError{Code: 1}
}

// resetBaseline opens the baseline repository and empties its work tree
func resetBaseline(env *buildsys.Env) (*gitrepo.Repo, error) {
	repoDir := env.BuildPath(baselineDirName)
	if !fsops.IsDir(repoDir) {
		return nil, buildsys.GuardHint(
			"mozcentral baseline was not found",
			`Please build one using "gulp mozcentralbaseline"`,
		)
	}

	repo, err := gitrepo.Open(repoDir)
	if err != nil {
		return nil, err
	}

	if err = repo.ResetHard(); err != nil {
		return nil, err
	}

	if err = fsops.ClearContents(repoDir); err != nil {
		return nil, err
	}

	return repo, nil
}

// stagedDiff stages the work tree and returns the binary diff against HEAD
func stagedDiff(ctx context.Context, env *buildsys.Env, repo *gitrepo.Repo) ([]byte, error) {
	if err := repo.StageAll(); err != nil {
		return nil, err
	}

	diff, err := env.Exec.Output(ctx, repo.Path, "git", "diff", "--binary", "--cached", "--unified=8")
	if err != nil {
		return nil, commandFailed("git", err)
	}
	return diff, nil
}

// mozillaCentralPath validates the MC_PATH setting and expands a leading ~
func mozillaCentralPath(raw string) (string, error) {
	if raw == "" {
		return "", buildsys.GuardHint("mozilla-central path is not provided.", "Please specify MC_PATH variable")
	}

	invalid := buildsys.Guard("mozilla-central path is not in absolute form or does not exist.")
	if raw[0] != '/' && raw[0] != '~' && (len(raw) < 2 || raw[1] != ':') {
		return "", invalid
	}

	path := raw
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", eris.Wrap(err, "failed to resolve the home directory")
		}
		path = filepath.Join(home, path[1:])
	}

	if !fsops.IsDir(path) {
		return "", invalid
	}
	return path, nil
}
