package group

import (
	"os"
	"path/filepath"
	"testing"
)

func mustWrite(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestByHashPartitionsByContent(t *testing.T) {
	dir := t.TempDir()
	p1 := filepath.Join(dir, "a", "f.txt")
	p2 := filepath.Join(dir, "b", "f.txt")
	p3 := filepath.Join(dir, "c", "f.txt")
	mustWrite(t, p1, "same content\n")
	mustWrite(t, p2, "same content\n")
	mustWrite(t, p3, "different content\n")

	groups, failures := ByHash([]string{p1, p2, p3}, Options{})
	if len(failures) != 0 {
		t.Fatalf("unexpected failures: %v", failures)
	}
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}

	total := 0
	for _, g := range groups {
		total += len(g.Paths)
	}
	if total != 3 {
		t.Fatalf("expected all 3 paths partitioned, got %d", total)
	}
}

func TestByBasenameAndHashSeparatesUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()
	p1 := filepath.Join(dir, "a", "README.md")
	p2 := filepath.Join(dir, "b", "README.md")
	mustWrite(t, p1, "identical\n")
	mustWrite(t, p2, "identical\n")

	// Same content, same basename -> one group.
	groups, _ := ByBasenameAndHash([]string{p1, p2}, Options{}, filepath.Base)
	if len(groups) != 1 {
		t.Fatalf("expected 1 group for identical basename+content, got %d", len(groups))
	}

	p3 := filepath.Join(dir, "c", "NOTES.md")
	mustWrite(t, p3, "identical\n")
	groups, _ = ByBasenameAndHash([]string{p1, p2, p3}, Options{}, filepath.Base)
	if len(groups) != 2 {
		t.Fatalf("expected basename to separate identical content under a different name, got %d groups", len(groups))
	}
}

func TestGroupCollectsFailuresWithoutAborting(t *testing.T) {
	dir := t.TempDir()
	ok := filepath.Join(dir, "ok.txt")
	mustWrite(t, ok, "hi\n")
	missing := filepath.Join(dir, "missing.txt")

	groups, failures := ByHash([]string{ok, missing}, Options{})
	if len(failures) != 1 {
		t.Fatalf("expected 1 failure, got %d", len(failures))
	}
	if len(groups) != 1 {
		t.Fatalf("expected the readable file to still form a group, got %d", len(groups))
	}
}

func TestGroupPartitionInvariant(t *testing.T) {
	dir := t.TempDir()
	paths := make([]string, 0, 5)
	for i := 0; i < 5; i++ {
		p := filepath.Join(dir, "f", string(rune('a'+i))+".txt")
		mustWrite(t, p, "content "+string(rune('0'+i%2))+"\n")
		paths = append(paths, p)
	}

	groups, failures := ByHash(paths, Options{Workers: 2})
	if len(failures) != 0 {
		t.Fatalf("unexpected failures: %v", failures)
	}

	seen := make(map[string]bool)
	for _, g := range groups {
		for _, p := range g.Paths {
			if seen[p] {
				t.Fatalf("path %s appeared in more than one group", p)
			}
			seen[p] = true
		}
	}
	if len(seen) != len(paths) {
		t.Fatalf("union of groups covers %d paths, want %d", len(seen), len(paths))
	}
}
