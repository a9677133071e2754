package cmd

import (
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/pdfjs/pdfmake/pkg"
	"github.com/pdfjs/pdfmake/pkg/buildsys"
	"github.com/pdfjs/pdfmake/pkg/config"
)

func (a *app) targetCommand(target *buildsys.Target) *cobra.Command {
	targetCmd := &cobra.Command{
		Use:     target.Name,
		Short:   target.Desc,
		GroupID: target.Group,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := buildsys.Options{}
			for name := range target.Flags {
				enabled, err := cmd.Flags().GetBool(name)
				if err != nil {
					return err
				}
				opts[name] = enabled
			}

			env, err := a.setup(cmd)
			if err != nil {
				return err
			}

			return buildsys.RunTarget(cmd.Context(), env, a.targets, target.Name, opts)
		},
	}

	if len(target.Deps) > 0 {
		targetCmd.Long = target.Desc + "\n\nRuns first: " + strings.Join(target.Deps, ", ")
	}

	flagNames := make([]string, 0, len(target.Flags))
	for name := range target.Flags {
		flagNames = append(flagNames, name)
	}
	sort.Strings(flagNames)
	for _, name := range flagNames {
		targetCmd.Flags().Bool(name, false, target.Flags[name])
	}

	return targetCmd
}

// setup locates the project, loads its configuration and attaches a logger to
// the command's context.
func (a *app) setup(cmd *cobra.Command) (*buildsys.Env, error) {
	flags := cmd.Flags()
	rootFlag, err := flags.GetString("root")
	if err != nil {
		return nil, err
	}
	dryRun, err := flags.GetBool("dry")
	if err != nil {
		return nil, err
	}
	verbose, err := flags.GetBool("verbose")
	if err != nil {
		return nil, err
	}

	var root string
	if rootFlag != "" {
		root, err = filepath.Abs(rootFlag)
		if err != nil {
			return nil, eris.Wrapf(err, "Failed to resolve %s", rootFlag)
		}

		info, err := os.Stat(root)
		if err != nil || !info.IsDir() {
			return nil, eris.Errorf("%s is not a directory", rootFlag)
		}
	} else {
		wd, err := os.Getwd()
		if err != nil {
			return nil, eris.Wrap(err, "Failed to retrieve the current working directory")
		}

		root, err = pkg.GetProjectRoot(wd)
		if err != nil {
			return nil, err
		}
	}

	cfg, err := config.Load(root, a.environ)
	if err != nil {
		return nil, err
	}

	if verbose {
		cfg.Log.Level = "debug"
	}

	logger := zerolog.New(NewConsoleWriter(a.stderr)).Level(cfg.LogLevel())
	cmd.SetContext(buildsys.WithLogger(cmd.Context(), &logger))

	logger.Debug().
		Str("path", root).
		Msgf("Using project root %s", root)

	return &buildsys.Env{
		Root:   root,
		Config: cfg,
		Exec:   a.newExecutor(a.stdout, a.stderr),
		GOOS:   runtime.GOOS,
		DryRun: dryRun,
	}, nil
}
