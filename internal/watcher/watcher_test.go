package watcher

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRelevant(t *testing.T) {
	cases := []struct {
		path string
		want bool
	}{
		{"skills/cpi-tracker/SKILL.md", true},
		{"SKILL.md", true},
		{"skills/cpi-tracker/README.md", false},
		{"skills/cpi-tracker/notes.txt", false},
		{"skills/SKILL.md.bak", false},
	}
	for _, tc := range cases {
		if got := relevant(tc.path); got != tc.want {
			t.Errorf("relevant(%q) = %v, want %v", tc.path, got, tc.want)
		}
	}
}

func TestWalkDirsSkipsHidden(t *testing.T) {
	root := t.TempDir()
	for _, d := range []string{"a", "a/nested", ".git", ".git/objects", "b"} {
		if err := os.MkdirAll(filepath.Join(root, d), 0o755); err != nil {
			t.Fatal(err)
		}
	}

	dirs := walkDirs(root)
	seen := map[string]bool{}
	for _, d := range dirs {
		rel, _ := filepath.Rel(root, d)
		seen[rel] = true
	}
	if !seen["."] || !seen["a"] || !seen[filepath.Join("a", "nested")] || !seen["b"] {
		t.Errorf("missing expected dirs: %v", seen)
	}
	if seen[".git"] || seen[filepath.Join(".git", "objects")] {
		t.Errorf("hidden dirs must be skipped: %v", seen)
	}
}
