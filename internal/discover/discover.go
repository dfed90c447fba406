// Package discover implements BlastMerge's file discovery (C2): walking a
// directory tree and emitting the ordered sequence of paths matching a
// filename pattern, with symlink-cycle protection.
package discover

import (
	"os"
	"path/filepath"
)

// alwaysSkipDirs names version-control and build-output directories that
// are never meaningful duplicate-file candidates.
var alwaysSkipDirs = map[string]bool{
	".git":         true,
	".svn":         true,
	".hg":          true,
	"node_modules": true,
	"__pycache__":  true,
}

// Find walks root recursively and returns every file whose base name
// matches pattern. pattern is either a literal basename ("config.yaml") or
// a shell-style glob ("*.go"), matched with filepath.Match against the
// file's base name. Unreadable or access-denied subtrees are skipped
// silently; other I/O errors propagate. Symbolic links are never followed,
// which breaks any link cycle by construction.
func Find(root, pattern string) ([]string, error) {
	var matches []string
	seenDirs := make(map[string]bool)

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsPermission(err) || os.IsNotExist(err) {
				if info != nil && info.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			return err
		}

		if info.IsDir() {
			real, rerr := filepath.EvalSymlinks(path)
			if rerr == nil {
				if seenDirs[real] {
					return filepath.SkipDir
				}
				seenDirs[real] = true
			}
			if alwaysSkipDirs[info.Name()] {
				return filepath.SkipDir
			}
			return nil
		}

		if info.Mode()&os.ModeSymlink != 0 {
			return nil
		}

		ok, merr := filepath.Match(pattern, info.Name())
		if merr != nil {
			return merr
		}
		if ok {
			matches = append(matches, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return matches, nil
}

// FindShallow lists only root's direct children matching pattern, without
// descending into subdirectories.
func FindShallow(root, pattern string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}

	var matches []string
	for _, e := range entries {
		if e.IsDir() || e.Type()&os.ModeSymlink != 0 {
			continue
		}
		ok, merr := filepath.Match(pattern, e.Name())
		if merr != nil {
			return nil, merr
		}
		if ok {
			matches = append(matches, filepath.Join(root, e.Name()))
		}
	}
	return matches, nil
}
