package merge

import (
	"errors"
	"testing"

	"github.com/stettberger/git-external/internal/external"
)

func TestMatchGlob(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		value   string
		want    bool
	}{
		{name: "star crosses separators", pattern: "*github.com*", value: "https://github.com/x/y.git", want: true},
		{name: "no match", pattern: "*github.com*", value: "https://gitlab.com/z.git", want: false},
		{name: "question mark", pattern: "v?", value: "v2", want: true},
		{name: "question mark too long", pattern: "v?", value: "v22", want: false},
		{name: "character class", pattern: "release-[0-9]", value: "release-3", want: true},
		{name: "negated class", pattern: "release-[!0-9]", value: "release-x", want: true},
		{name: "negated class rejects digit", pattern: "release-[!0-9]", value: "release-3", want: false},
		{name: "literal dots stay literal", pattern: "a.b", value: "axb", want: false},
		{name: "exact", pattern: "master", value: "master", want: true},
		{name: "anchored", pattern: "master", value: "master-next", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := matchGlob(tt.pattern, tt.value)
			if err != nil {
				t.Fatalf("matchGlob(%q, %q): %v", tt.pattern, tt.value, err)
			}
			if got != tt.want {
				t.Errorf("matchGlob(%q, %q) = %v, want %v", tt.pattern, tt.value, got, tt.want)
			}
		})
	}
}

func TestMatchGlob_Unterminated(t *testing.T) {
	_, err := matchGlob("[unclosed", "value")
	if !errors.Is(err, external.ErrConfig) {
		t.Errorf("expected ErrConfig, got %v", err)
	}
}
