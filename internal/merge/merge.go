package merge

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/stettberger/git-external/internal/external"
)

// Merge folds incoming definitions into dst. For every incoming entry, each
// existing entry whose path starts with the incoming path is removed first
// (masking) with a diagnostic naming the masked entry; the incoming entry is
// then inserted or overwritten by key.
func Merge(dst *Set, incoming []*external.Definition, log zerolog.Logger) {
	for _, inc := range incoming {
		for _, key := range dst.Keys() {
			if key == inc.Key {
				continue
			}
			existing, ok := dst.Get(key)
			if !ok {
				continue
			}
			if strings.HasPrefix(existing.Path, inc.Path) {
				log.Warn().
					Str("masked", existing.Key).
					Str("path", existing.Path).
					Str("by", inc.Key).
					Msg("external masked by overlapping declaration")
				dst.Delete(key)
			}
		}
		dst.Insert(inc)
	}
}

// Substitute resolves ${name} references in every attribute value against the
// override source's top-level variables. An unresolved reference is fatal;
// there is no silent default.
func Substitute(s *Set, vars map[string]string) error {
	for _, def := range s.Definitions() {
		for _, name := range external.AttrNames() {
			value, _ := def.Attr(name)
			if !strings.Contains(value, "${") {
				continue
			}
			expanded, err := expand(value, vars)
			if err != nil {
				return fmt.Errorf("external %q, attribute %s: %w", def.Key, name, err)
			}
			if err := def.SetAttr(name, expanded); err != nil {
				return err
			}
		}
	}
	return nil
}

// expand replaces every ${name} in s with the corresponding variable.
func expand(s string, vars map[string]string) (string, error) {
	var b strings.Builder
	for {
		start := strings.Index(s, "${")
		if start < 0 {
			b.WriteString(s)
			return b.String(), nil
		}
		end := strings.Index(s[start:], "}")
		if end < 0 {
			return "", fmt.Errorf("%w: unterminated variable reference in %q", external.ErrConfig, s)
		}
		name := s[start+2 : start+end]
		value, ok := vars[name]
		if !ok {
			return "", fmt.Errorf("%w: undefined variable %q", external.ErrConfig, name)
		}
		b.WriteString(s[:start])
		b.WriteString(value)
		s = s[start+end+1:]
	}
}

// ApplyRules applies the override rules in source order; later matching rules
// win on overlapping attributes.
//
// A rule matches an entry when any of its match predicates has a non-empty
// value on the entry's corresponding attribute and the glob pattern matches
// it. Matching is a union across predicates, not an intersection.
func ApplyRules(s *Set, rules []external.Rule, log zerolog.Logger) error {
	for _, rule := range rules {
		for _, def := range s.Definitions() {
			matched, err := ruleMatches(rule, def)
			if err != nil {
				return err
			}
			if !matched {
				continue
			}
			log.Debug().Str("rule", rule.Name).Str("external", def.Key).Msg("override rule applied")
			for _, attr := range sortedKeys(rule.Set) {
				if err := def.SetAttr(attr, rule.Set[attr]); err != nil {
					return fmt.Errorf("rule %q: %w", rule.Name, err)
				}
			}
		}
	}
	return nil
}

func ruleMatches(rule external.Rule, def *external.Definition) (bool, error) {
	for _, attr := range sortedKeys(rule.Match) {
		value, known := def.Attr(attr)
		if !known || value == "" {
			continue
		}
		ok, err := matchGlob(rule.Match[attr], value)
		if err != nil {
			return false, fmt.Errorf("rule %q: %w", rule.Name, err)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
