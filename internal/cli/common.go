package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/stettberger/git-external/internal/config"
	"github.com/stettberger/git-external/internal/engine"
	"github.com/stettberger/git-external/internal/fsops"
	"github.com/stettberger/git-external/internal/hooks"
	"github.com/stettberger/git-external/internal/logging"
	"github.com/stettberger/git-external/internal/source"
	"github.com/stettberger/git-external/internal/vcs"
)

// app bundles the real implementations of all dependencies plus the
// repository root the command was invoked in.
type app struct {
	root   string
	fs     fsops.FS
	loader *source.Loader
	engine *engine.Engine
	log    zerolog.Logger
}

// newApp discovers the repository and wires the engine.
func newApp() (*app, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current directory: %w", err)
	}
	fs := fsops.NewRealFS()
	root, err := vcs.DiscoverRoot(fs, cwd)
	if err != nil {
		return nil, err
	}

	log := logging.New()
	adapter := vcs.NewAdapter(fs, vcs.NewExecRunner(), log)

	overridesPath, err := config.OverridesPath()
	if err != nil {
		return nil, err
	}
	overrides, err := source.LoadOverrides(overridesPath)
	if err != nil {
		return nil, err
	}

	loader := source.NewLoader(fs, adapter, overrides, log)
	eng := engine.New(fs, adapter, loader, hooks.NewInstaller(fs), log)

	return &app{
		root:   root,
		fs:     fs,
		loader: loader,
		engine: eng,
		log:    log,
	}, nil
}
