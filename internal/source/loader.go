package source

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/stettberger/git-external/internal/config"
	"github.com/stettberger/git-external/internal/external"
	"github.com/stettberger/git-external/internal/fsops"
	"github.com/stettberger/git-external/internal/merge"
)

// ExternalsLister produces the raw VCS-embedded externals metadata for a
// repository root. Satisfied by vcs.Adapter.
type ExternalsLister interface {
	ShowExternals(root string) (string, error)
}

// Loader gathers the three sources for a repository root and reconciles them
// into one merged set. Loading the same unchanged sources twice produces an
// identical set.
type Loader struct {
	fs        fsops.FS
	lister    ExternalsLister
	overrides *Overrides
	log       zerolog.Logger
}

// NewLoader creates a Loader. The overrides are loaded once per invocation
// and shared across the whole recursive descent.
func NewLoader(fs fsops.FS, lister ExternalsLister, overrides *Overrides, log zerolog.Logger) *Loader {
	return &Loader{fs: fs, lister: lister, overrides: overrides, log: log}
}

// Load produces the merged, fully resolved set for root.
//
// Reconciliation order: VCS-embedded externals first, then the declarative
// store merged over them (masking applies), then template substitution, then
// the override rules. Substitution runs once more afterwards, since rule
// replacement values may themselves reference template variables; an
// unresolved reference is fatal in either pass.
func (l *Loader) Load(root string) (*merge.Set, error) {
	set := merge.NewSet()

	// A failing lister just means the repository carries no embedded
	// externals metadata; only malformed output is fatal.
	if out, err := l.lister.ShowExternals(root); err == nil && strings.TrimSpace(out) != "" {
		defs, err := ParseSVNExternals(strings.NewReader(out))
		if err != nil {
			return nil, err
		}
		merge.Merge(set, defs, l.log)
	}

	defs, err := LoadStoreFile(l.fs, filepath.Join(root, config.StoreFileName))
	if err != nil {
		return nil, err
	}
	for _, def := range defs {
		if err := l.fs.ValidateRelPath(def.Path); err != nil {
			return nil, fmt.Errorf("%w: external %q: %v", external.ErrConfig, def.Key, err)
		}
	}
	merge.Merge(set, defs, l.log)

	if err := merge.Substitute(set, l.overrides.Vars); err != nil {
		return nil, err
	}
	if err := merge.ApplyRules(set, l.overrides.Rules, l.log); err != nil {
		return nil, err
	}
	if err := merge.Substitute(set, l.overrides.Vars); err != nil {
		return nil, err
	}
	return set, nil
}
