// Package external defines the data model for declared externals.
//
// An external is a separately version-controlled directory embedded at a
// declared path inside a parent repository. Definitions are created fresh at
// the start of every command invocation by the source readers, mutated only
// during the merge phase, and never persisted themselves.
package external

import (
	"fmt"
	"path"
	"strconv"
	"strings"
)

// Kind identifies the version control system backing an external.
type Kind string

const (
	Git    Kind = "git"
	SVN    Kind = "svn"
	GitSVN Kind = "git-svn"
	// None marks an external that is a plain symlink; its url is the link target.
	None Kind = "none"
)

// ParseKind parses a vcs attribute value.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case Git, SVN, GitSVN, None:
		return Kind(s), nil
	default:
		return "", fmt.Errorf("%w: unknown vcs %q", ErrConfig, s)
	}
}

// UsesGit reports whether the kind keeps its metadata in a .git directory.
func (k Kind) UsesGit() bool {
	return k == Git || k == GitSVN
}

// Action is one of the orchestrator's requestable operations.
type Action uint8

const (
	ActionClone Action = 1 << iota
	ActionUpdate
)

// ActionSet is a subset of {clone, update}. The zero value means "unrestricted".
type ActionSet uint8

// AllActions requests both cloning and updating.
const AllActions = ActionSet(ActionClone | ActionUpdate)

// Has reports whether the set contains the action.
func (s ActionSet) Has(a Action) bool {
	return s&ActionSet(a) != 0
}

// ParseActionSet parses a comma- or space-separated only attribute value.
func ParseActionSet(s string) (ActionSet, error) {
	var set ActionSet
	for _, field := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' }) {
		switch field {
		case "clone":
			set |= ActionSet(ActionClone)
		case "update":
			set |= ActionSet(ActionUpdate)
		default:
			return 0, fmt.Errorf("%w: unknown action %q in only attribute", ErrConfig, field)
		}
	}
	return set, nil
}

// String renders the set in the persisted attribute format.
func (s ActionSet) String() string {
	var parts []string
	if s.Has(ActionClone) {
		parts = append(parts, "clone")
	}
	if s.Has(ActionUpdate) {
		parts = append(parts, "update")
	}
	return strings.Join(parts, ",")
}

// DefaultBranch is the branch assumed when a definition declares none.
const DefaultBranch = "master"

// Definition is one declared external.
type Definition struct {
	// Key uniquely identifies the entry within one merged set.
	Key string

	// Path is the location relative to the repository root. It is the
	// subsumption key for masking.
	Path string

	// URL is the VCS remote, or the symlink target when VCS is None.
	URL string

	VCS    Kind
	Branch string

	// Script, if set, names a post-action script relative to the repository root.
	Script string

	// Symlink, if set, turns the external into a symlink to the given target.
	Symlink string

	// Auto controls whether the external is cloned without being named explicitly.
	Auto bool

	// Only restricts the actions applicable to this external. Zero means both.
	Only ActionSet

	// RunInit requests invoking a bootstrap entrypoint after a performed action.
	RunInit bool
}

// New returns a definition with the documented defaults applied.
func New(key, p string) *Definition {
	return &Definition{
		Key:    key,
		Path:   path.Clean(p),
		VCS:    Git,
		Branch: DefaultBranch,
		Auto:   true,
	}
}

// LinkTarget returns the symlink target for the entry, or "" when the entry
// is a regular working copy.
func (d *Definition) LinkTarget() string {
	if d.Symlink != "" {
		return d.Symlink
	}
	if d.VCS == None {
		return d.URL
	}
	return ""
}

// Attribute names form a closed set; unknown attributes are rejected at load
// time instead of being carried silently.
const (
	AttrPath    = "path"
	AttrURL     = "url"
	AttrBranch  = "branch"
	AttrVCS     = "vcs"
	AttrScript  = "script"
	AttrSymlink = "symlink"
	AttrAuto    = "auto"
	AttrOnly    = "only"
	AttrRunInit = "run-init"
)

var attrNames = []string{
	AttrPath, AttrURL, AttrBranch, AttrVCS, AttrScript,
	AttrSymlink, AttrAuto, AttrOnly, AttrRunInit,
}

// AttrNames returns the closed attribute set in stable order.
func AttrNames() []string {
	return attrNames
}

// IsAttr reports whether name belongs to the closed attribute set.
func IsAttr(name string) bool {
	for _, n := range attrNames {
		if n == name {
			return true
		}
	}
	return false
}

// Attr returns the string form of the named attribute. The second return
// value is false for names outside the closed set.
func (d *Definition) Attr(name string) (string, bool) {
	switch name {
	case AttrPath:
		return d.Path, true
	case AttrURL:
		return d.URL, true
	case AttrBranch:
		return d.Branch, true
	case AttrVCS:
		return string(d.VCS), true
	case AttrScript:
		return d.Script, true
	case AttrSymlink:
		return d.Symlink, true
	case AttrAuto:
		return strconv.FormatBool(d.Auto), true
	case AttrOnly:
		return d.Only.String(), true
	case AttrRunInit:
		return strconv.FormatBool(d.RunInit), true
	default:
		return "", false
	}
}

// SetAttr assigns the named attribute from its string form, parsing typed
// attributes. Unknown names and unparsable values are config errors.
func (d *Definition) SetAttr(name, value string) error {
	switch name {
	case AttrPath:
		d.Path = path.Clean(value)
	case AttrURL:
		d.URL = value
	case AttrBranch:
		d.Branch = value
	case AttrVCS:
		kind, err := ParseKind(value)
		if err != nil {
			return err
		}
		d.VCS = kind
	case AttrScript:
		d.Script = value
	case AttrSymlink:
		d.Symlink = value
	case AttrAuto:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: auto must be a boolean, got %q", ErrConfig, value)
		}
		d.Auto = b
	case AttrOnly:
		set, err := ParseActionSet(value)
		if err != nil {
			return err
		}
		d.Only = set
	case AttrRunInit:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: run-init must be a boolean, got %q", ErrConfig, value)
		}
		d.RunInit = b
	default:
		return fmt.Errorf("%w: unknown attribute %q", ErrConfig, name)
	}
	return nil
}

// Rule is a named global override: entries whose attribute matches one of the
// Match globs get every Set attribute overwritten.
type Rule struct {
	Name string

	// Match maps attribute names to shell-glob patterns.
	Match map[string]string

	// Set maps attribute names to replacement values.
	Set map[string]string
}
