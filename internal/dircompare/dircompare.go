// Package dircompare implements BlastMerge's directory comparator (C10):
// classifying every relative path under either of two roots as same,
// modified, or present in only one side.
package dircompare

import (
	"path/filepath"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/ktsu-dev/blastmerge/internal/discover"
	"github.com/ktsu-dev/blastmerge/internal/hashsum"
)

// Comparison is the classification of every relative path found under
// either root.
type Comparison struct {
	Same     []string
	Modified []string
	OnlyInA  []string
	OnlyInB  []string
}

// Options configures directory comparison.
type Options struct {
	Pattern   string
	Recursive bool
	Workers   int
}

// Compare walks both roots, matches relative paths, and classifies each
// one. Unreadable files are classified Modified, a conservative default
// that never hides a possible divergence. Each bucket is returned in
// lexicographic order.
func Compare(rootA, rootB string, opts Options) (*Comparison, error) {
	relA, err := relPaths(rootA, opts)
	if err != nil {
		return nil, err
	}
	relB, err := relPaths(rootB, opts)
	if err != nil {
		return nil, err
	}

	setB := make(map[string]bool, len(relB))
	for _, r := range relB {
		setB[r] = true
	}
	setA := make(map[string]bool, len(relA))
	for _, r := range relA {
		setA[r] = true
	}

	var shared, onlyA, onlyB []string
	for _, r := range relA {
		if setB[r] {
			shared = append(shared, r)
		} else {
			onlyA = append(onlyA, r)
		}
	}
	for _, r := range relB {
		if !setA[r] {
			onlyB = append(onlyB, r)
		}
	}

	same, modified, err := classifyShared(rootA, rootB, shared, opts.Workers)
	if err != nil {
		return nil, err
	}

	sort.Strings(same)
	sort.Strings(modified)
	sort.Strings(onlyA)
	sort.Strings(onlyB)

	return &Comparison{Same: same, Modified: modified, OnlyInA: onlyA, OnlyInB: onlyB}, nil
}

func relPaths(root string, opts Options) ([]string, error) {
	var paths []string
	var err error
	if opts.Recursive {
		paths, err = discover.Find(root, opts.Pattern)
	} else {
		paths, err = discover.FindShallow(root, opts.Pattern)
	}
	if err != nil {
		return nil, err
	}

	rel := make([]string, len(paths))
	for i, p := range paths {
		r, rerr := filepath.Rel(root, p)
		if rerr != nil {
			return nil, rerr
		}
		rel[i] = filepath.ToSlash(r)
	}
	return rel, nil
}

type classifyResult struct {
	relPath string
	same    bool
}

// classifyShared hashes each shared relative path under both roots in
// parallel, since this is the same I/O-bound shape the grouping engine
// (C3) bounds with a worker pool.
func classifyShared(rootA, rootB string, shared []string, workers int) ([]string, []string, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers < 1 {
		workers = 1
	}

	resultCh := make(chan classifyResult, len(shared))
	g := new(errgroup.Group)
	g.SetLimit(workers)

	for _, rel := range shared {
		rel := rel
		g.Go(func() error {
			hashA, errA := hashsum.File(filepath.Join(rootA, rel))
			hashB, errB := hashsum.File(filepath.Join(rootB, rel))
			if errA != nil || errB != nil {
				resultCh <- classifyResult{relPath: rel, same: false}
				return nil
			}
			resultCh <- classifyResult{relPath: rel, same: hashA == hashB}
			return nil
		})
	}
	_ = g.Wait()
	close(resultCh)

	var same, modified []string
	for r := range resultCh {
		if r.same {
			same = append(same, r.relPath)
		} else {
			modified = append(modified, r.relPath)
		}
	}
	return same, modified, nil
}
