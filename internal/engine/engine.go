// Package engine drives the per-external clone/update state machine.
//
// The engine walks the merged definition set in order, decides per external
// whether to clone, symlink, update, switch branch, skip or recurse, and
// tracks a run-scoped dedup set so that aliased entries are processed once.
// Execution is single-threaded and fully synchronous; entries are processed
// in the merged set's insertion order and recursion descends depth-first
// immediately after the entry that introduced the nested tree.
package engine

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/stettberger/git-external/internal/external"
	"github.com/stettberger/git-external/internal/fsops"
	"github.com/stettberger/git-external/internal/merge"
	"github.com/stettberger/git-external/internal/vcs"
)

// Loader produces the merged definition set for a repository root.
// Satisfied by source.Loader.
type Loader interface {
	Load(root string) (*merge.Set, error)
}

// Hooks installs the VCS hook files that keep externals current. Hook file
// contents are outside the engine's scope; only the trigger point is.
type Hooks interface {
	Install(root string) error
}

// Engine orchestrates all git-external operations.
type Engine struct {
	fs     fsops.FS
	vcs    *vcs.Adapter
	loader Loader
	hooks  Hooks
	log    zerolog.Logger
}

// New creates a new Engine with the given dependencies. hooks may be nil.
func New(fs fsops.FS, adapter *vcs.Adapter, loader Loader, hooks Hooks, log zerolog.Logger) *Engine {
	return &Engine{
		fs:     fs,
		vcs:    adapter,
		loader: loader,
		hooks:  hooks,
		log:    log,
	}
}

// Request describes one orchestrator invocation.
type Request struct {
	// Root is the repository root the run is anchored at.
	Root string

	// Name optionally restricts the run to a single external. Naming an
	// external absent from the merged set is fatal, before any mutation.
	Name string

	// Actions restricts the requested actions. Zero falls back to the
	// entry's own only attribute, then to {clone, update}.
	Actions external.ActionSet

	// Recurse enables descending into nested externals.
	Recurse bool

	// Automatic marks a top-level run; recursive invocations force it off
	// so nested runs never install hooks.
	Automatic bool

	// CloneArgs and PullArgs are extra arguments for git clone / git pull.
	CloneArgs []string
	PullArgs  []string
}

// Run executes the request with a fresh dedup context. The dedup set is
// shared across the full recursive call tree of this one invocation and
// never outlives it.
func (e *Engine) Run(req *Request) error {
	if err := e.run(req, NewDedup()); err != nil {
		return err
	}

	if req.Automatic && e.hooks != nil {
		if err := e.hooks.Install(req.Root); err != nil {
			return fmt.Errorf("failed to install hooks: %w", err)
		}
	}
	return nil
}

func (e *Engine) run(req *Request, seen *Dedup) error {
	set, err := e.loader.Load(req.Root)
	if err != nil {
		return err
	}

	if req.Name != "" {
		def, ok := set.Get(req.Name)
		if !ok {
			return fmt.Errorf("%w: %q is not declared in %s", external.ErrUnknownExternal, req.Name, req.Root)
		}
		return e.syncOne(req, def, seen)
	}

	for _, def := range set.Definitions() {
		if err := e.syncOne(req, def, seen); err != nil {
			return err
		}
	}
	return nil
}
