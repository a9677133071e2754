// Package fsops contains the file operations used by pdfmake targets and its
// POSIX helper commands.
package fsops

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rotisserie/eris"
)

// HiddenPattern matches editor backups and hidden files (.DS_Store, .gitignore, ...)
const HiddenPattern = "**/{.[A-Za-z0-9_]*,*~}"

// Exists reports whether path exists
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// IsFile reports whether path exists and is a regular file
func IsFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// IsDir reports whether path exists and is a directory
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// Remove deletes path recursively. Missing paths are ignored.
func Remove(path string) error {
	err := os.RemoveAll(path)
	if err != nil {
		return eris.Wrapf(err, "failed to remove %s", path)
	}
	return nil
}

// MakeDir creates path and all missing parents
func MakeDir(path string) error {
	err := os.MkdirAll(path, 0o770)
	if err != nil {
		return eris.Wrapf(err, "failed to create %s", path)
	}
	return nil
}

// Move renames src to dest. If dest is an existing directory, src is moved
// into it.
func Move(src, dest string) error {
	if IsDir(dest) {
		dest = filepath.Join(dest, filepath.Base(src))
	}

	err := os.Rename(src, dest)
	if err == nil {
		return nil
	}

	// rename fails across devices; fall back to copy and delete
	if !IsDir(src) {
		if cerr := CopyFile(src, dest); cerr != nil {
			return eris.Wrapf(err, "failed to move %s to %s", src, dest)
		}
	} else if cerr := CopyTree(src, dest); cerr != nil {
		return eris.Wrapf(err, "failed to move %s to %s", src, dest)
	}

	return Remove(src)
}

// CopyFile copies a single file, keeping its permissions
func CopyFile(src, dest string) error {
	info, err := os.Stat(src)
	if err != nil {
		return eris.Wrapf(err, "failed to stat %s", src)
	}

	hSrc, err := os.Open(src)
	if err != nil {
		return eris.Wrapf(err, "failed to open %s", src)
	}
	defer hSrc.Close()

	hDest, err := os.OpenFile(dest, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return eris.Wrapf(err, "failed to create %s", dest)
	}

	_, err = io.Copy(hDest, hSrc)
	if err != nil {
		hDest.Close()
		return eris.Wrapf(err, "failed to copy %s to %s", src, dest)
	}

	return eris.Wrapf(hDest.Close(), "failed to write %s", dest)
}

// CopyTree copies src (a file or a directory) to dest, merging with whatever
// already exists at dest.
func CopyTree(src, dest string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return eris.Wrapf(err, "failed to read %s", path)
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return eris.Wrap(err, "failed to resolve path")
		}
		target := filepath.Join(dest, rel)

		if d.IsDir() {
			return MakeDir(target)
		}

		if d.Type()&fs.ModeSymlink != 0 {
			link, err := os.Readlink(path)
			if err != nil {
				return eris.Wrapf(err, "failed to read link %s", path)
			}
			_ = os.Remove(target)
			return eris.Wrapf(os.Symlink(link, target), "failed to create link %s", target)
		}

		return CopyFile(path, target)
	})
}

// CopyContents copies every entry of srcDir into destDir (like cp -Rf src/* dest).
// Hidden entries directly inside srcDir are skipped, the same way the shell
// glob would skip them.
func CopyContents(srcDir, destDir string) error {
	entries, err := os.ReadDir(srcDir)
	if err != nil {
		return eris.Wrapf(err, "failed to list %s", srcDir)
	}

	if err = MakeDir(destDir); err != nil {
		return err
	}

	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		err = CopyTree(filepath.Join(srcDir, entry.Name()), filepath.Join(destDir, entry.Name()))
		if err != nil {
			return err
		}
	}

	return nil
}

// ClearContents removes everything inside dir except its hidden top-level
// entries (like rm -rf dir/*). The .git directory of a repository survives.
func ClearContents(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return eris.Wrapf(err, "failed to list %s", dir)
	}

	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		if err = Remove(filepath.Join(dir, entry.Name())); err != nil {
			return err
		}
	}

	return nil
}

// SweepHidden deletes hidden files and editor backups anywhere below dir and
// returns the removed paths (relative to dir, slash separated).
func SweepHidden(dir string) ([]string, error) {
	matches, err := doublestar.Glob(os.DirFS(dir), HiddenPattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, eris.Wrapf(err, "failed to scan %s", dir)
	}

	for _, item := range matches {
		err = os.Remove(filepath.Join(dir, filepath.FromSlash(item)))
		if err != nil && !eris.Is(err, os.ErrNotExist) {
			return nil, eris.Wrapf(err, "failed to remove %s", item)
		}
	}

	return matches, nil
}

// WriteFileAtomic writes data to a temporary file next to dest and then
// renames it into place.
func WriteFileAtomic(dest string, data []byte) error {
	if err := MakeDir(filepath.Dir(dest)); err != nil {
		return err
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(dest), "."+filepath.Base(dest)+".*")
	if err != nil {
		return eris.Wrapf(err, "failed to create temporary file for %s", dest)
	}
	tmpPath := tmpFile.Name()

	_, err = tmpFile.Write(data)
	if cerr := tmpFile.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmpPath)
		return eris.Wrapf(err, "failed to write %s", dest)
	}

	if err = os.Rename(tmpPath, dest); err != nil {
		os.Remove(tmpPath)
		return eris.Wrapf(err, "failed to move %s into place", dest)
	}

	return nil
}

// Glob expands a shell pattern. Patterns without wildcards are returned as-is
// so that helpers report "no such file" errors themselves.
func Glob(pattern string) ([]string, error) {
	if !strings.ContainsAny(pattern, "*?[{") {
		return []string{pattern}, nil
	}

	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, eris.Wrapf(err, "invalid pattern %s", pattern)
	}

	if len(matches) == 0 {
		return []string{pattern}, nil
	}
	return matches, nil
}
