package vcs

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/stettberger/git-external/internal/fsops"
)

// Adapter exposes the version-control primitives the orchestrator sequences.
// Each method maps to exactly one command invocation; the decision logic of
// when to call what lives in the engine.
type Adapter struct {
	fs     fsops.FS
	runner Runner
	log    zerolog.Logger
}

// NewAdapter creates an Adapter on top of the given filesystem and runner.
func NewAdapter(fs fsops.FS, runner Runner, log zerolog.Logger) *Adapter {
	return &Adapter{fs: fs, runner: runner, log: log}
}

// IsWorkingCopy reports whether dir carries VCS metadata (.git or .svn).
func (a *Adapter) IsWorkingCopy(dir string) bool {
	for _, meta := range []string{".git", ".svn"} {
		if exists, err := a.fs.Exists(filepath.Join(dir, meta)); err == nil && exists {
			return true
		}
	}
	return false
}

// ShowExternals returns the embedded externals metadata of a git-svn
// repository. Callers treat a failing command as "no embedded externals".
func (a *Adapter) ShowExternals(root string) (string, error) {
	result, err := a.runner.Run(root, "git", "svn", "show-externals")
	if err != nil {
		return "", err
	}
	return result.Stdout, nil
}

// GitClone clones url into dir with the configured extra arguments.
func (a *Adapter) GitClone(url, dir string, extra []string) error {
	args := append([]string{"clone"}, extra...)
	args = append(args, url, dir)
	a.log.Info().Str("url", url).Str("dir", dir).Msg("cloning")
	_, err := a.runner.RunVerbose("", "git", args...)
	return err
}

// CurrentBranch returns the checked-out branch of dir. A detached HEAD is
// reported via the second return value, not as an error.
func (a *Adapter) CurrentBranch(dir string) (branch string, detached bool, err error) {
	result, err := a.runner.Run(dir, "git", "symbolic-ref", "--short", "HEAD")
	if err != nil {
		// symbolic-ref exits non-zero when HEAD does not point at a branch.
		var execErr *ExecError
		if errors.As(err, &execErr) {
			return "", true, nil
		}
		return "", false, err
	}
	return strings.TrimSpace(result.Stdout), false, nil
}

// Checkout switches dir to branch.
func (a *Adapter) Checkout(dir, branch string) error {
	a.log.Info().Str("dir", dir).Str("branch", branch).Msg("switching branch")
	_, err := a.runner.RunVerbose(dir, "git", "checkout", branch)
	return err
}

// PullFF fast-forwards dir from its upstream with the configured extra
// arguments.
func (a *Adapter) PullFF(dir string, extra []string) error {
	args := append([]string{"pull", "--ff-only"}, extra...)
	_, err := a.runner.RunVerbose(dir, "git", args...)
	return err
}

// GitSVNClone clones a subversion remote via git-svn at the current head
// revision only.
func (a *Adapter) GitSVNClone(url, dir string) error {
	a.log.Info().Str("url", url).Str("dir", dir).Msg("cloning via git-svn")
	_, err := a.runner.RunVerbose("", "git", "svn", "clone", "-r", "HEAD", url, dir)
	return err
}

// GitSVNRebase rebases dir onto its upstream SVN history.
func (a *Adapter) GitSVNRebase(dir string) error {
	_, err := a.runner.RunVerbose(dir, "git", "svn", "rebase")
	return err
}

// SVNCheckout checks out url into dir.
func (a *Adapter) SVNCheckout(url, dir string) error {
	a.log.Info().Str("url", url).Str("dir", dir).Msg("checking out")
	_, err := a.runner.RunVerbose("", "svn", "checkout", url, dir)
	return err
}

// SVNUpdate updates dir to head.
func (a *Adapter) SVNUpdate(dir string) error {
	_, err := a.runner.RunVerbose(dir, "svn", "update")
	return err
}

// RunScript executes an already-executable script with dir as working
// directory.
func (a *Adapter) RunScript(dir, script string) error {
	a.log.Info().Str("script", script).Msg("running post-action script")
	_, err := a.runner.RunVerbose(dir, script)
	return err
}

// DiscoverRoot finds the repository root by walking up from cwd looking for
// VCS metadata.
func DiscoverRoot(fs fsops.FS, cwd string) (string, error) {
	absPath, err := filepath.Abs(cwd)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}

	current := absPath
	for {
		for _, meta := range []string{".git", ".svn"} {
			if info, err := fs.Stat(filepath.Join(current, meta)); err == nil {
				// .git can be a directory or a file (for worktrees/submodules)
				if info.IsDir() || info.Mode().IsRegular() {
					return current, nil
				}
			}
		}

		parent := filepath.Dir(current)
		if parent == current {
			return "", fmt.Errorf("not inside a repository")
		}
		current = parent
	}
}
