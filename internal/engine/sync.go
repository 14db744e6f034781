package engine

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/stettberger/git-external/internal/external"
)

// syncOne runs the state machine for a single definition.
//
// Algorithm steps:
//  1. Canonicalize the target and consult the dedup set
//  2. Classify Missing/Present via the VCS metadata at the target
//  3. Resolve the requested action set
//  4. Clone/symlink, update, or align the branch
//  5. Recurse into nested externals of a just-performed git entry
//  6. Post-process (script, bootstrap entrypoint)
func (e *Engine) syncOne(req *Request, def *external.Definition, seen *Dedup) error {
	target := filepath.Join(req.Root, def.Path)

	canon, err := e.fs.Canonical(target)
	if err != nil {
		return fmt.Errorf("failed to canonicalize %s: %w", target, err)
	}
	if !seen.Add(canon) {
		e.log.Info().Str("external", def.Key).Str("path", canon).Msg("already processed, skipping")
		return nil
	}

	actions := req.Actions
	if actions == 0 {
		actions = def.Only
	}
	if actions == 0 {
		actions = external.AllActions
	}

	present := e.vcs.IsWorkingCopy(target)

	performed := false
	switch {
	case !present && actions.Has(external.ActionClone):
		performed, err = e.cloneMissing(req, def, target)
	case present && actions.Has(external.ActionUpdate):
		performed, err = e.updatePresent(req, def, target)
	case present && actions.Has(external.ActionClone):
		err = e.alignBranch(def, target)
	}
	if err != nil {
		return err
	}
	if !performed {
		return nil
	}

	if def.VCS.UsesGit() && req.Recurse {
		// Depth-first, immediately after the entry that introduced the
		// nested tree, so nested externals see the state their parent was
		// just brought to. Hooks must not be installed below the top level.
		child := &Request{
			Root:      target,
			Actions:   req.Actions,
			Recurse:   true,
			Automatic: false,
			CloneArgs: req.CloneArgs,
			PullArgs:  req.PullArgs,
		}
		if err := e.run(child, seen); err != nil {
			return err
		}
	}

	return e.postProcess(req, def, target)
}

// cloneMissing handles an absent external: auto gating, symlink creation, or
// a VCS-specific clone. Returns whether an action was actually performed.
func (e *Engine) cloneMissing(req *Request, def *external.Definition, target string) (bool, error) {
	if !def.Auto && req.Name == "" {
		e.log.Debug().Str("external", def.Key).Msg("auto disabled, not cloning")
		return false, nil
	}

	if link := def.LinkTarget(); link != "" {
		if err := e.ensureSymlink(target, link); err != nil {
			return false, err
		}
		return true, nil
	}

	if err := e.fs.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return false, fmt.Errorf("failed to create parent directory: %w", err)
	}

	switch def.VCS {
	case external.GitSVN:
		if err := e.vcs.GitSVNClone(def.URL, target); err != nil {
			return false, err
		}
	case external.SVN:
		if err := e.vcs.SVNCheckout(def.URL, target); err != nil {
			return false, err
		}
	default:
		if err := e.vcs.GitClone(def.URL, target, req.CloneArgs); err != nil {
			return false, err
		}
		// The clone may have checked out a different default branch.
		if err := e.alignBranch(def, target); err != nil {
			return false, err
		}
	}
	return true, nil
}

// ensureSymlink brings target into the declared symlink state: a correctly
// pointing link is left alone, a wrong link is replaced, anything else
// occupying the target is a conflict.
func (e *Engine) ensureSymlink(target, link string) error {
	info, err := e.fs.Lstat(target)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to inspect %s: %w", target, err)
		}
		if err := e.fs.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return fmt.Errorf("failed to create parent directory: %w", err)
		}
		e.log.Info().Str("path", target).Str("target", link).Msg("creating symlink")
		return e.fs.Symlink(link, target)
	}

	if info.Mode()&os.ModeSymlink == 0 {
		return fmt.Errorf("%w: %s exists and is not a symlink", external.ErrResourceConflict, target)
	}

	current, err := e.fs.Readlink(target)
	if err != nil {
		return fmt.Errorf("failed to read symlink %s: %w", target, err)
	}
	if current == link {
		return nil
	}

	e.log.Info().Str("path", target).Str("old", current).Str("new", link).Msg("replacing symlink")
	if err := e.fs.Remove(target); err != nil {
		return fmt.Errorf("failed to remove stale symlink: %w", err)
	}
	return e.fs.Symlink(link, target)
}

// updatePresent updates an existing working copy. The two branch-related
// skips are explicitly non-fatal.
func (e *Engine) updatePresent(req *Request, def *external.Definition, target string) (bool, error) {
	switch def.VCS {
	case external.GitSVN:
		if err := e.vcs.GitSVNRebase(target); err != nil {
			return false, err
		}
	case external.SVN:
		if err := e.vcs.SVNUpdate(target); err != nil {
			return false, err
		}
	default:
		branch, detached, err := e.vcs.CurrentBranch(target)
		if err != nil {
			return false, err
		}
		if detached {
			e.log.Warn().Str("external", def.Key).Msg("HEAD is detached, skipping update")
			return false, nil
		}
		if branch != def.Branch {
			e.log.Warn().
				Str("external", def.Key).
				Str("current", branch).
				Str("configured", def.Branch).
				Msg("working copy is on a different branch, skipping update")
			return false, nil
		}
		if err := e.vcs.PullFF(target, req.PullArgs); err != nil {
			return false, err
		}
	}
	return true, nil
}

// alignBranch switches a present git working copy to the configured branch
// when it sits elsewhere; used for clone-only requests and fresh clones.
func (e *Engine) alignBranch(def *external.Definition, target string) error {
	if !def.VCS.UsesGit() {
		return nil
	}
	branch, detached, err := e.vcs.CurrentBranch(target)
	if err != nil {
		return err
	}
	if detached || branch == def.Branch {
		return nil
	}
	return e.vcs.Checkout(target, def.Branch)
}

// postProcess runs the declared post-action script and, when requested, the
// bootstrap entrypoint of the external itself.
func (e *Engine) postProcess(req *Request, def *external.Definition, target string) error {
	if def.Script != "" {
		script := filepath.Join(req.Root, def.Script)
		exists, err := e.fs.Exists(script)
		if err != nil {
			return fmt.Errorf("failed to check script: %w", err)
		}
		if !exists {
			// Declared but missing: logged, never fatal.
			e.log.Error().Str("external", def.Key).Str("script", script).Msg("declared script does not exist")
		} else {
			if err := e.fs.Chmod(script, 0755); err != nil {
				return fmt.Errorf("failed to mark script executable: %w", err)
			}
			if err := e.vcs.RunScript(req.Root, script); err != nil {
				return err
			}
		}
	}

	if def.RunInit {
		entry := filepath.Join(target, "init")
		exists, err := e.fs.Exists(entry)
		if err != nil {
			return fmt.Errorf("failed to check bootstrap entrypoint: %w", err)
		}
		if exists {
			if err := e.fs.Chmod(entry, 0755); err != nil {
				return fmt.Errorf("failed to mark bootstrap entrypoint executable: %w", err)
			}
			if err := e.vcs.RunScript(target, entry); err != nil {
				return err
			}
		}
	}
	return nil
}
