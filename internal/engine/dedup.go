package engine

// Dedup is the run-scoped set of canonical filesystem paths already
// processed. It is passed explicitly through every recursive invocation so
// an ancestor's work is observable by descendants reached via aliasing, and
// it never leaks across independent runs.
type Dedup struct {
	seen map[string]struct{}
}

// NewDedup returns an empty dedup context.
func NewDedup() *Dedup {
	return &Dedup{seen: make(map[string]struct{})}
}

// Add records the canonical path and reports whether it was new.
func (d *Dedup) Add(path string) bool {
	if _, ok := d.seen[path]; ok {
		return false
	}
	d.seen[path] = struct{}{}
	return true
}
