// Package hooks installs the git hook that keeps externals current after a
// merge. The engine only decides when installation is allowed; the hook file
// itself is a plain collaborator artifact.
package hooks

import (
	"fmt"
	"path/filepath"

	"github.com/stettberger/git-external/internal/fsops"
)

const hookScript = "#!/bin/sh\ngit external update\n"

// Installer writes the post-merge hook into a repository.
type Installer struct {
	fs fsops.FS
}

// NewInstaller creates a new Installer.
func NewInstaller(fs fsops.FS) *Installer {
	return &Installer{fs: fs}
}

// Install writes .git/hooks/post-merge unless a hook already exists there.
// Repositories without a hooks directory (bare checkouts, svn working
// copies) are skipped.
func (i *Installer) Install(root string) error {
	hookDir := filepath.Join(root, ".git", "hooks")
	exists, err := i.fs.Exists(hookDir)
	if err != nil {
		return fmt.Errorf("failed to check hooks directory: %w", err)
	}
	if !exists {
		return nil
	}

	hookPath := filepath.Join(hookDir, "post-merge")
	exists, err = i.fs.Exists(hookPath)
	if err != nil {
		return fmt.Errorf("failed to check hook: %w", err)
	}
	if exists {
		// Never overwrite a hook the user put there.
		return nil
	}

	if err := i.fs.AtomicWrite(hookPath, []byte(hookScript), 0755); err != nil {
		return fmt.Errorf("failed to write hook: %w", err)
	}
	return nil
}
