package discover

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestFindLiteralBasename(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a", "config.yaml"), "a")
	writeFile(t, filepath.Join(root, "b", "config.yaml"), "b")
	writeFile(t, filepath.Join(root, "b", "other.yaml"), "c")

	got, err := Find(root, "config.yaml")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	sort.Strings(got)
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %d: %v", len(got), got)
	}
}

func TestFindGlob(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "x.go"), "a")
	writeFile(t, filepath.Join(root, "sub", "y.go"), "b")
	writeFile(t, filepath.Join(root, "z.txt"), "c")

	got, err := Find(root, "*.go")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 .go matches, got %d: %v", len(got), got)
	}
}

func TestFindSkipsVCSDirs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".git", "config.yaml"), "a")
	writeFile(t, filepath.Join(root, "real", "config.yaml"), "b")

	got, err := Find(root, "config.yaml")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 match outside .git, got %d: %v", len(got), got)
	}
}

func TestFindNoMatches(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"), "a")

	got, err := Find(root, "*.go")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no matches, got %v", got)
	}
}

func TestFindShallowIgnoresSubdirectories(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "top.go"), "a")
	writeFile(t, filepath.Join(root, "sub", "nested.go"), "b")

	got, err := FindShallow(root, "*.go")
	if err != nil {
		t.Fatalf("FindShallow: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 top-level match, got %d: %v", len(got), got)
	}
}
