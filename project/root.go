package project

import (
	"os"
	"path/filepath"

	gogit "github.com/go-git/go-git/v5"
)

// FindRoot returns the root of the git worktree containing path, or path
// itself (its directory, for a file) when it is not inside a repository.
func FindRoot(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	if info, err := os.Stat(abs); err == nil && !info.IsDir() {
		abs = filepath.Dir(abs)
	}

	repo, err := gogit.PlainOpenWithOptions(abs, &gogit.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
	if err != nil {
		return abs
	}

	wt, err := repo.Worktree()
	if err != nil {
		// Bare repository.
		return abs
	}
	return wt.Filesystem.Root()
}
