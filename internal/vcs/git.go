package vcs

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// BranchCreator creates a branch and checks it out.
type BranchCreator interface {
	CreateBranch(name string) error
}

// GitRepository is a local git repository opened with go-git.
type GitRepository struct {
	repo *git.Repository
	path string
}

// Compile-time check that GitRepository implements BranchCreator.
var _ BranchCreator = (*GitRepository)(nil)

// OpenGitRepository opens the repository containing path.
// Parent directories are searched for the .git directory.
func OpenGitRepository(path string) (*GitRepository, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, fmt.Errorf("%w: %s", ErrNotRepository, path)
		}
		return nil, fmt.Errorf("failed to open repository: %w", err)
	}
	return &GitRepository{repo: repo, path: path}, nil
}

// CreateBranch creates refs/heads/<name> at HEAD and checks it out.
// Uncommitted changes in the worktree are kept.
// An existing branch of the same name is an error.
//
// In a repository without commits HEAD is pointed at the new branch, which
// then comes into existence with the first commit.
func (g *GitRepository) CreateBranch(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrBranchNameRequired
	}
	branch := plumbing.NewBranchReferenceName(name)

	if _, err := g.repo.Reference(branch, false); err == nil {
		return fmt.Errorf("%w: %s", ErrBranchExists, name)
	}

	_, err := g.repo.Head()
	switch {
	case errors.Is(err, plumbing.ErrReferenceNotFound):
		return g.setUnbornHead(branch)
	case err != nil:
		return fmt.Errorf("failed to resolve HEAD: %w", err)
	}

	wt, err := g.repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to open worktree: %w", err)
	}

	err = wt.Checkout(&git.CheckoutOptions{
		Branch: branch,
		Create: true,
		Keep:   true,
	})
	if err != nil {
		return fmt.Errorf("failed to create branch %s: %w", name, err)
	}
	return nil
}

// setUnbornHead makes HEAD a symbolic reference to branch.
func (g *GitRepository) setUnbornHead(branch plumbing.ReferenceName) error {
	head := plumbing.NewSymbolicReference(plumbing.HEAD, branch)
	if err := g.repo.Storer.SetReference(head); err != nil {
		return fmt.Errorf("failed to point HEAD at %s: %w", branch.Short(), err)
	}
	return nil
}
