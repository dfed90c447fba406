// Package syncwriter implements BlastMerge's sync writer (C9): writing one
// final content buffer to every path in a group, atomically and without
// letting one path's failure abort its siblings.
//
// The atomic-write discipline (temp file in the same directory, fsync,
// chmod, rename) is carried over from store.AtomicWriteFile.
package syncwriter

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/ktsu-dev/blastmerge/internal/bmerrors"
	"github.com/ktsu-dev/blastmerge/internal/group"
)

// filePerm is applied to every written file; BlastMerge does not try to
// preserve each target's prior mode since groups may span files that
// never shared one.
const filePerm = 0644

// Result is the outcome of syncing one FileGroup.
type Result struct {
	Written  []string
	Failures []*bmerrors.Error
}

// Sync writes content to every path in g, creating missing parent
// directories, and collects per-path failures instead of aborting.
func Sync(content []byte, g group.FileGroup) Result {
	var res Result
	for _, path := range g.Paths {
		if err := atomicWriteFile(path, content); err != nil {
			res.Failures = append(res.Failures, err)
			continue
		}
		res.Written = append(res.Written, path)
	}
	sort.Strings(res.Written)
	sort.Slice(res.Failures, func(i, j int) bool { return res.Failures[i].Path < res.Failures[j].Path })
	return res
}

func atomicWriteFile(path string, data []byte) *bmerrors.Error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return bmerrors.IO(path, err)
	}

	tmp, err := os.CreateTemp(dir, ".blastmerge-tmp-*")
	if err != nil {
		return bmerrors.IO(path, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return bmerrors.IO(path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return bmerrors.IO(path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return bmerrors.IO(path, err)
	}
	if err := os.Chmod(tmpPath, filePerm); err != nil {
		os.Remove(tmpPath)
		return bmerrors.IO(path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return bmerrors.IO(path, err)
	}
	return nil
}
