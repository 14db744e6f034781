// Package config manages git-external configuration and file locations.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// StoreFileName is the persisted declarative store, relative to the
	// repository root.
	StoreFileName = ".gitexternals"

	// IgnoreFileName is the ignore-list file kept in sync with the declared
	// externals, relative to the repository root.
	IgnoreFileName = ".gitignore"
)

// EnvOverridesPath overrides the location of the global override file.
const EnvOverridesPath = "GIT_EXTERNAL_OVERRIDES"

// OverridesPath returns the location of the user's global override file
// (default: ~/.config/git-external/overrides.toml).
func OverridesPath() (string, error) {
	if p := os.Getenv(EnvOverridesPath); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, ".config", "git-external", "overrides.toml"), nil
}
