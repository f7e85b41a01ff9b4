package gitx

import (
	"errors"
	"fmt"
	"sort"

	"github.com/go-git/go-git/v5"
)

// ErrNotRepository is returned when no working tree exists at or above the start path.
var ErrNotRepository = errors.New("failed to find git repository. Please run this command inside a git repository")

// FileStatus is the change kind of a file in the working tree.
type FileStatus int

const (
	StatusModified FileStatus = iota
	StatusAdded
	StatusDeleted
	StatusRenamed
	StatusUntracked
)

// Label returns the one-letter marker shown in the file list.
func (s FileStatus) Label() string {
	switch s {
	case StatusAdded:
		return "A"
	case StatusDeleted:
		return "D"
	case StatusRenamed:
		return "R"
	case StatusUntracked:
		return "?"
	default:
		return "M"
	}
}

func (s FileStatus) String() string {
	switch s {
	case StatusAdded:
		return "added"
	case StatusDeleted:
		return "deleted"
	case StatusRenamed:
		return "renamed"
	case StatusUntracked:
		return "untracked"
	default:
		return "modified"
	}
}

// ChangedFile represents a changed file in the repo. Path is relative to the repo root.
type ChangedFile struct {
	Path   string
	Status FileStatus
}

// Repo is an opened working tree.
type Repo struct {
	root string
	repo *git.Repository
}

// Open discovers the repository containing path (or current dir), walking up parents.
func Open(path string) (*Repo, error) {
	if path == "" {
		path = "."
	}
	r, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotRepository, err)
	}
	wt, err := r.Worktree()
	if err != nil {
		// Bare repositories have no working tree to diff.
		return nil, fmt.Errorf("%w: %w", ErrNotRepository, err)
	}
	return &Repo{root: wt.Filesystem.Root(), repo: r}, nil
}

// Root returns the absolute working tree root.
func (r *Repo) Root() string {
	return r.root
}

// ChangedFiles lists staged, unstaged and untracked changes, sorted by path.
func (r *Repo) ChangedFiles() ([]ChangedFile, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("worktree: %w", err)
	}
	st, err := wt.Status()
	if err != nil {
		return nil, fmt.Errorf("failed to get repository status: %w", err)
	}

	out := make([]ChangedFile, 0, len(st))
	for p, fs := range st {
		if p == "" {
			continue
		}
		status, ok := classify(fs.Staging, fs.Worktree)
		if !ok {
			continue
		}
		out = append(out, ChangedFile{Path: p, Status: status})
	}
	// Stable sort for deterministic UI
	sort.Slice(out, func(i, j int) bool {
		return out[i].Path < out[j].Path
	})
	return out, nil
}

func classify(staging, worktree git.StatusCode) (FileStatus, bool) {
	switch {
	case worktree == git.Untracked:
		return StatusUntracked, true
	case staging == git.Added || worktree == git.Added:
		return StatusAdded, true
	case staging == git.Deleted || worktree == git.Deleted:
		return StatusDeleted, true
	case staging == git.Renamed || worktree == git.Renamed,
		staging == git.Copied || worktree == git.Copied:
		return StatusRenamed, true
	case staging == git.Unmodified && worktree == git.Unmodified:
		return 0, false
	default:
		return StatusModified, true
	}
}
