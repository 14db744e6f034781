// Package merge reconciles external definitions gathered from several
// sources into one ordered set, applying masking, template substitution and
// glob-matched global overrides.
package merge

import "github.com/stettberger/git-external/internal/external"

// Set is an insertion-ordered collection of definitions keyed by Key.
// Ordering is significant: the orchestrator processes entries in the order
// the reconciliation sequence produced them.
type Set struct {
	order   []string
	entries map[string]*external.Definition
}

// NewSet returns an empty set.
func NewSet() *Set {
	return &Set{entries: make(map[string]*external.Definition)}
}

// Insert adds or overwrites a definition by key. Overwriting keeps the
// original position; new keys append.
func (s *Set) Insert(d *external.Definition) {
	if _, ok := s.entries[d.Key]; !ok {
		s.order = append(s.order, d.Key)
	}
	s.entries[d.Key] = d
}

// Get returns the definition for key.
func (s *Set) Get(key string) (*external.Definition, bool) {
	d, ok := s.entries[key]
	return d, ok
}

// Delete removes the definition for key, preserving the order of the rest.
func (s *Set) Delete(key string) {
	if _, ok := s.entries[key]; !ok {
		return
	}
	delete(s.entries, key)
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Len returns the number of definitions.
func (s *Set) Len() int {
	return len(s.entries)
}

// Keys returns the keys in insertion order.
func (s *Set) Keys() []string {
	keys := make([]string, len(s.order))
	copy(keys, s.order)
	return keys
}

// Definitions returns the definitions in insertion order.
func (s *Set) Definitions() []*external.Definition {
	defs := make([]*external.Definition, 0, len(s.order))
	for _, k := range s.order {
		defs = append(defs, s.entries[k])
	}
	return defs
}
