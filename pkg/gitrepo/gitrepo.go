// Package gitrepo manages the scratch repository that holds the
// mozilla-central baseline.
package gitrepo

import (
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/rotisserie/eris"
)

// commits are authored by this identity so that no global git config is needed
const (
	authorName  = "pdfmake"
	authorEmail = "pdfmake@localhost"
)

// Repo is a git repository with a work tree
type Repo struct {
	Path string
	repo *git.Repository
}

// Init creates a new repository in path
func Init(path string) (*Repo, error) {
	repo, err := git.PlainInit(path, false)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to init repository in %s", path)
	}

	return &Repo{Path: path, repo: repo}, nil
}

// Open opens the existing repository in path
func Open(path string) (*Repo, error) {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to open repository in %s", path)
	}

	return &Repo{Path: path, repo: repo}, nil
}

func (r *Repo) worktree() (*git.Worktree, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return nil, eris.Wrapf(err, "failed to open work tree of %s", r.Path)
	}
	return wt, nil
}

// StageAll updates the index to match the work tree (git add -A)
func (r *Repo) StageAll() error {
	wt, err := r.worktree()
	if err != nil {
		return err
	}

	err = wt.AddWithOptions(&git.AddOptions{All: true})
	if err != nil {
		return eris.Wrapf(err, "failed to stage changes in %s", r.Path)
	}
	return nil
}

// Commit records the index and returns the new commit's hash
func (r *Repo) Commit(msg string) (plumbing.Hash, error) {
	wt, err := r.worktree()
	if err != nil {
		return plumbing.ZeroHash, err
	}

	hash, err := wt.Commit(msg, &git.CommitOptions{
		AllowEmptyCommits: true,
		Author: &object.Signature{
			Name:  authorName,
			Email: authorEmail,
			When:  time.Now(),
		},
	})
	if err != nil {
		return plumbing.ZeroHash, eris.Wrapf(err, "failed to commit in %s", r.Path)
	}
	return hash, nil
}

// ResetHard discards staged and unstaged changes to tracked files (git reset --hard)
func (r *Repo) ResetHard() error {
	wt, err := r.worktree()
	if err != nil {
		return err
	}

	err = wt.Reset(&git.ResetOptions{Mode: git.HardReset})
	if err != nil {
		return eris.Wrapf(err, "failed to reset %s", r.Path)
	}
	return nil
}

// head returns the hash of the current commit
func (r *Repo) head() (plumbing.Hash, error) {
	ref, err := r.repo.Head()
	if err != nil {
		return plumbing.ZeroHash, eris.Wrapf(err, "failed to resolve HEAD of %s", r.Path)
	}
	return ref.Hash(), nil
}

// Clean reports whether the index and work tree match HEAD
func (r *Repo) Clean() (bool, error) {
	wt, err := r.worktree()
	if err != nil {
		return false, err
	}

	status, err := wt.Status()
	if err != nil {
		return false, eris.Wrapf(err, "failed to read status of %s", r.Path)
	}
	return status.IsClean(), nil
}
