// Package workspace locates the directory the toolchain runs in.
package workspace

import (
	"errors"
	"fmt"
	"path/filepath"

	git "github.com/go-git/go-git/v5"
)

// Root returns the root of the git worktree enclosing dir. Outside a
// repository, or in a bare one, it returns dir itself (made absolute).
func Root(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", dir, err)
	}
	repo, err := git.PlainOpenWithOptions(abs, &git.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return abs, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to open repository at %s: %w", abs, err)
	}
	wt, err := repo.Worktree()
	if errors.Is(err, git.ErrIsBareRepository) {
		return abs, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to open worktree at %s: %w", abs, err)
	}
	return wt.Filesystem.Root(), nil
}

// Resolve joins workDir onto root unless workDir is absolute.
func Resolve(root, workDir string) string {
	if workDir == "" {
		return root
	}
	if filepath.IsAbs(workDir) {
		return filepath.Clean(workDir)
	}
	return filepath.Join(root, workDir)
}
