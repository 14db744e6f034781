package fsops

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCanonical(t *testing.T) {
	fs := NewRealFS()
	root := t.TempDir()
	real := filepath.Join(root, "real")
	if err := os.Mkdir(real, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(real, filepath.Join(root, "alias")); err != nil {
		t.Fatal(err)
	}

	canonReal, err := fs.Canonical(real)
	if err != nil {
		t.Fatalf("Canonical(real): %v", err)
	}
	canonAlias, err := fs.Canonical(filepath.Join(root, "alias"))
	if err != nil {
		t.Fatalf("Canonical(alias): %v", err)
	}
	if canonReal != canonAlias {
		t.Errorf("aliases must canonicalize equal: %q vs %q", canonReal, canonAlias)
	}
}

func TestCanonical_MissingLeafResolvesParent(t *testing.T) {
	fs := NewRealFS()
	root := t.TempDir()
	real := filepath.Join(root, "real")
	if err := os.Mkdir(real, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(real, filepath.Join(root, "alias")); err != nil {
		t.Fatal(err)
	}

	// Neither leaf exists yet; both must resolve through the aliased parent
	// to the same canonical path.
	viaReal, err := fs.Canonical(filepath.Join(real, "sub"))
	if err != nil {
		t.Fatalf("Canonical: %v", err)
	}
	viaAlias, err := fs.Canonical(filepath.Join(root, "alias", "sub"))
	if err != nil {
		t.Fatalf("Canonical: %v", err)
	}
	if viaReal != viaAlias {
		t.Errorf("missing leaves under aliases must match: %q vs %q", viaReal, viaAlias)
	}
}

func TestCanonical_MissingParentFallsBackToAbs(t *testing.T) {
	fs := NewRealFS()
	missing := filepath.Join(t.TempDir(), "no", "such", "dir")

	got, err := fs.Canonical(missing)
	if err != nil {
		t.Fatalf("Canonical: %v", err)
	}
	if !filepath.IsAbs(got) {
		t.Errorf("expected an absolute path, got %q", got)
	}
}

func TestAtomicWrite(t *testing.T) {
	fs := NewRealFS()
	path := filepath.Join(t.TempDir(), "sub", "file")

	if err := fs.AtomicWrite(path, []byte("hello\n"), 0644); err != nil {
		t.Fatalf("AtomicWrite: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "hello\n" {
		t.Errorf("content = %q", data)
	}

	// Overwrite must replace, not append, and leave no temp files behind.
	if err := fs.AtomicWrite(path, []byte("replaced\n"), 0644); err != nil {
		t.Fatalf("AtomicWrite(overwrite): %v", err)
	}
	data, _ = os.ReadFile(path)
	if string(data) != "replaced\n" {
		t.Errorf("content = %q", data)
	}
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("leftover files in %s: %v", filepath.Dir(path), entries)
	}
}

func TestExists_DoesNotFollowSymlinks(t *testing.T) {
	fs := NewRealFS()
	root := t.TempDir()
	dangling := filepath.Join(root, "dangling")
	if err := os.Symlink(filepath.Join(root, "nowhere"), dangling); err != nil {
		t.Fatal(err)
	}

	exists, err := fs.Exists(dangling)
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if !exists {
		t.Error("a dangling symlink still occupies its path")
	}
}

func TestValidateRelPath(t *testing.T) {
	fs := NewRealFS()

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{name: "simple", path: "vendor/lib", wantErr: false},
		{name: "single segment", path: "tools", wantErr: false},
		{name: "dot segments collapse", path: "a/./b", wantErr: false},
		{name: "empty", path: "", wantErr: true},
		{name: "current dir", path: ".", wantErr: true},
		{name: "absolute", path: "/etc/passwd", wantErr: true},
		{name: "traversal prefix", path: "../outside", wantErr: true},
		{name: "embedded traversal", path: "a/../../outside", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := fs.ValidateRelPath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRelPath(%q) = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
		})
	}
}
