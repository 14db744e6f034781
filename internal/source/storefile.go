// Package source reads raw external declarations from their three producers:
// VCS-embedded externals metadata, the persisted declarative store, and the
// user's global override rules. Readers fail on malformed input; they do not
// attempt recovery.
package source

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/stettberger/git-external/internal/external"
	"github.com/stettberger/git-external/internal/fsops"
)

// ParseStoreFile parses the persisted declarative store: one
// `external.<key>.<attr> = <value>` triple per line, grouped by key.
// Definitions are returned in order of first appearance.
func ParseStoreFile(r io.Reader) ([]*external.Definition, error) {
	var order []string
	byKey := make(map[string]*external.Definition)

	scanner := bufio.NewScanner(r)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		left, value, found := strings.Cut(line, "=")
		if !found {
			return nil, fmt.Errorf("%w: line %d: expected 'external.<key>.<attr> = <value>', got %q",
				external.ErrConfig, lineno, line)
		}
		left = strings.TrimSpace(left)
		value = strings.TrimSpace(value)

		rest, ok := strings.CutPrefix(left, "external.")
		if !ok {
			return nil, fmt.Errorf("%w: line %d: key %q does not start with 'external.'",
				external.ErrConfig, lineno, left)
		}
		dot := strings.LastIndex(rest, ".")
		if dot <= 0 || dot == len(rest)-1 {
			return nil, fmt.Errorf("%w: line %d: key %q is missing an attribute suffix",
				external.ErrConfig, lineno, left)
		}
		key, attr := rest[:dot], rest[dot+1:]

		def, ok := byKey[key]
		if !ok {
			def = external.New(key, key)
			byKey[key] = def
			order = append(order, key)
		}
		if err := def.SetAttr(attr, value); err != nil {
			return nil, fmt.Errorf("line %d: external %q: %w", lineno, key, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read store file: %w", err)
	}

	defs := make([]*external.Definition, 0, len(order))
	for _, key := range order {
		def := byKey[key]
		if def.URL == "" && def.Symlink == "" {
			return nil, fmt.Errorf("%w: external %q declares neither url nor symlink",
				external.ErrConfig, key)
		}
		defs = append(defs, def)
	}
	return defs, nil
}

// LoadStoreFile reads and parses the store file at path. A missing file is an
// empty source.
func LoadStoreFile(fs fsops.FS, path string) ([]*external.Definition, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read store file: %w", err)
	}
	return ParseStoreFile(strings.NewReader(string(data)))
}

// AppendDefinition persists a new declaration into the store file. Declaring
// a key that is already present is a config error; `add` never rewrites
// existing declarations.
func AppendDefinition(fs fsops.FS, path string, def *external.Definition) error {
	data, err := fs.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to read store file: %w", err)
	}

	existing, err := ParseStoreFile(strings.NewReader(string(data)))
	if err != nil {
		return err
	}
	for _, d := range existing {
		if d.Key == def.Key {
			return fmt.Errorf("%w: external %q is already declared", external.ErrConfig, def.Key)
		}
	}

	var b strings.Builder
	b.Write(data)
	if len(data) > 0 && data[len(data)-1] != '\n' {
		b.WriteByte('\n')
	}
	b.WriteString(FormatDefinition(def))

	return fs.AtomicWrite(path, []byte(b.String()), 0644)
}

// FormatDefinition renders a definition in the store-file line format,
// omitting attributes that hold their default value.
func FormatDefinition(def *external.Definition) string {
	attrs := map[string]string{
		external.AttrPath: def.Path,
	}
	if def.URL != "" {
		attrs[external.AttrURL] = def.URL
	}
	if def.Branch != "" && def.Branch != external.DefaultBranch {
		attrs[external.AttrBranch] = def.Branch
	}
	if def.VCS != external.Git {
		attrs[external.AttrVCS] = string(def.VCS)
	}
	if def.Script != "" {
		attrs[external.AttrScript] = def.Script
	}
	if def.Symlink != "" {
		attrs[external.AttrSymlink] = def.Symlink
	}
	if !def.Auto {
		attrs[external.AttrAuto] = "false"
	}
	if def.Only != 0 {
		attrs[external.AttrOnly] = def.Only.String()
	}
	if def.RunInit {
		attrs[external.AttrRunInit] = "true"
	}

	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		fmt.Fprintf(&b, "external.%s.%s = %s\n", def.Key, name, attrs[name])
	}
	return b.String()
}
