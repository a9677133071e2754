package cmd

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/pdfjs/pdfmake/pkg/fsops"
)

const helperGroup = "helpers"

// expandArgs resolves glob patterns on Windows where the shell doesn't
func expandArgs(args []string, allowEmpty bool) ([]string, error) {
	if runtime.GOOS != "windows" {
		return args, nil
	}

	items := []string{}
	for _, arg := range args {
		matches, err := fsops.Glob(arg)
		if err != nil {
			return nil, eris.Wrapf(err, "Failed to resolve pattern %s", arg)
		}

		if len(matches) == 1 && matches[0] == arg && !fsops.Exists(arg) && allowEmpty {
			continue
		}

		items = append(items, matches...)
	}

	return items, nil
}

func newMvCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "mv SOURCE... DEST",
		Short:   "Cross-platform implementation of the POSIX mv command",
		GroupID: helperGroup,
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dest := filepath.Clean(args[len(args)-1])
			destParent := filepath.Dir(dest)
			if !fsops.IsDir(destParent) {
				return eris.Errorf("Could not find destination directory %s", destParent)
			}

			items, err := expandArgs(args[:len(args)-1], false)
			if err != nil {
				return err
			}

			if len(items) > 1 && !fsops.IsDir(dest) {
				return eris.Errorf("Can't move multiple items to %s because it is not a directory!", dest)
			}

			for _, item := range items {
				if err = fsops.Move(item, dest); err != nil {
					return err
				}
			}

			return nil
		},
	}
}

func newRmCmd() *cobra.Command {
	rmCmd := &cobra.Command{
		Use:     "rm PATH...",
		Short:   "A cross-platform implementation of the POSIX rm command",
		GroupID: helperGroup,
		RunE: func(cmd *cobra.Command, args []string) error {
			recursive, err := cmd.Flags().GetBool("recursive")
			if err != nil {
				return err
			}

			force, err := cmd.Flags().GetBool("force")
			if err != nil {
				return err
			}

			items, err := expandArgs(args, force)
			if err != nil {
				return err
			}

			for _, item := range items {
				info, err := os.Lstat(item)
				if err != nil {
					if force && eris.Is(err, os.ErrNotExist) {
						continue
					}
					return eris.Wrapf(err, "Could not stat %s", item)
				}

				if info.IsDir() && !recursive {
					return eris.Errorf("%s is a directory but -r wasn't passed", item)
				}
			}

			for _, item := range items {
				if err = fsops.Remove(item); err != nil {
					return err
				}
			}

			return nil
		},
	}

	rmCmd.Flags().BoolP("recursive", "r", false, "recursively delete directories")
	rmCmd.Flags().BoolP("force", "f", false, "suppresses errors caused by missing files/folders")
	return rmCmd
}

func newMkdirCmd() *cobra.Command {
	mkdirCmd := &cobra.Command{
		Use:     "mkdir DIR...",
		Short:   "A cross-platform implementation of the POSIX mkdir command",
		GroupID: helperGroup,
		RunE: func(cmd *cobra.Command, args []string) error {
			makeParents, err := cmd.Flags().GetBool("parents")
			if err != nil {
				return err
			}

			for _, item := range args {
				if makeParents {
					err = fsops.MakeDir(item)
				} else {
					err = os.Mkdir(item, 0o770)
				}

				if err != nil {
					return eris.Wrapf(err, "Failed to create %s", item)
				}
			}

			return nil
		},
	}

	mkdirCmd.Flags().BoolP("parents", "p", false, "create parent directories as needed")
	return mkdirCmd
}

func newCpCmd() *cobra.Command {
	cpCmd := &cobra.Command{
		Use:     "cp SOURCE... DEST",
		Short:   "A cross-platform implementation of the POSIX cp command",
		GroupID: helperGroup,
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			recursive, err := cmd.Flags().GetBool("recursive")
			if err != nil {
				return err
			}

			dest := filepath.Clean(args[len(args)-1])
			items, err := expandArgs(args[:len(args)-1], false)
			if err != nil {
				return err
			}

			if len(items) > 1 && !fsops.IsDir(dest) {
				return eris.Errorf("Can't copy multiple items to %s because it is not a directory!", dest)
			}

			for _, item := range items {
				itemDest := dest
				if fsops.IsDir(dest) {
					itemDest = filepath.Join(dest, filepath.Base(item))
				}

				if fsops.IsDir(item) {
					if !recursive {
						return eris.Errorf("%s is a directory but -r wasn't passed", item)
					}
					err = fsops.CopyTree(item, itemDest)
				} else {
					err = fsops.CopyFile(item, itemDest)
				}

				if err != nil {
					return err
				}
			}

			return nil
		},
	}

	cpCmd.Flags().BoolP("recursive", "R", false, "copy directories recursively")
	cpCmd.Flags().BoolP("force", "f", false, "overwrite existing files (always on)")
	return cpCmd
}

func addPosixHelpers(rootCmd *cobra.Command) {
	rootCmd.AddCommand(newMvCmd())
	rootCmd.AddCommand(newRmCmd())
	rootCmd.AddCommand(newMkdirCmd())
	rootCmd.AddCommand(newCpCmd())
}
