package source

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/stettberger/git-external/internal/external"
)

// Overrides holds the user's global override source: top-level template
// variables plus named rule blocks in file order.
type Overrides struct {
	Vars  map[string]string
	Rules []external.Rule
}

// LoadOverrides reads the override file at path. A missing file is an empty
// source; a malformed file is a config error.
//
// The file is TOML: top-level string values are template variables, and each
// table is one rule holding `match-<attr>` globs and plain attribute
// replacements:
//
//	mirror = "git@internal:mirror"
//
//	[github-to-mirror]
//	match-url = "*github.com*"
//	url = "${mirror}"
func LoadOverrides(path string) (*Overrides, error) {
	o := &Overrides{Vars: make(map[string]string)}

	var raw map[string]interface{}
	md, err := toml.DecodeFile(path, &raw)
	if err != nil {
		if os.IsNotExist(err) {
			return o, nil
		}
		return nil, fmt.Errorf("%w: failed to parse override file %s: %v", external.ErrConfig, path, err)
	}

	// md.Keys preserves file order, which the rule application depends on.
	for _, key := range md.Keys() {
		if len(key) != 1 {
			continue
		}
		name := key[0]
		switch value := raw[name].(type) {
		case string:
			o.Vars[name] = value
		case map[string]interface{}:
			rule, err := parseRule(name, value)
			if err != nil {
				return nil, err
			}
			o.Rules = append(o.Rules, rule)
		default:
			return nil, fmt.Errorf("%w: override file entry %q must be a string variable or a rule table",
				external.ErrConfig, name)
		}
	}
	return o, nil
}

func parseRule(name string, attrs map[string]interface{}) (external.Rule, error) {
	rule := external.Rule{
		Name:  name,
		Match: make(map[string]string),
		Set:   make(map[string]string),
	}
	for key, v := range attrs {
		value, ok := v.(string)
		if !ok {
			return rule, fmt.Errorf("%w: rule %q: attribute %q must be a string",
				external.ErrConfig, name, key)
		}
		if attr, isMatch := strings.CutPrefix(key, "match-"); isMatch {
			if !external.IsAttr(attr) {
				return rule, fmt.Errorf("%w: rule %q: unknown match attribute %q",
					external.ErrConfig, name, attr)
			}
			rule.Match[attr] = value
			continue
		}
		if !external.IsAttr(key) {
			return rule, fmt.Errorf("%w: rule %q: unknown attribute %q",
				external.ErrConfig, name, key)
		}
		rule.Set[key] = value
	}
	if len(rule.Match) == 0 {
		return rule, fmt.Errorf("%w: rule %q has no match predicates", external.ErrConfig, name)
	}
	return rule, nil
}
