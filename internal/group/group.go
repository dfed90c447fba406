// Package group implements BlastMerge's grouping engine (C3): partitioning
// a set of paths into equivalence classes by content hash, optionally
// scoped within basename first. Hashing is parallelized with a bounded
// worker pool using errgroup.Group.SetLimit.
package group

import (
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/ktsu-dev/blastmerge/internal/bmerrors"
	"github.com/ktsu-dev/blastmerge/internal/hashsum"
)

// FileGroup is the equivalence class of paths sharing one content hash.
// Paths appear in insertion order relative to the input slice.
type FileGroup struct {
	Hash  hashsum.Hash
	Paths []string
}

// Mode selects how paths are bucketed before hashing.
type Mode int

const (
	// ModeHashOnly buckets all paths by content hash alone.
	ModeHashOnly Mode = iota
	// ModeBasenameAndHash buckets first by final path component, then by
	// hash within each basename bucket. This is the default when merging
	// across unrelated repositories where unrelated files might share
	// content incidentally.
	ModeBasenameAndHash
)

// Options configures the grouping engine.
type Options struct {
	Mode    Mode
	Workers int // bounded hashing concurrency; 0 means runtime.NumCPU()
}

// hashResult pairs a path with its digest, used to collect parallel
// hashing results over a channel without shared mutable state; failures
// travel on a separate channel.
type hashResult struct {
	path string
	hash hashsum.Hash
}

// ByHash buckets every path in paths by its content hash and returns one
// FileGroup per bucket. Per-file hash failures are collected and returned
// alongside any successfully formed groups; they do not abort the batch.
func ByHash(paths []string, opts Options) ([]FileGroup, []*bmerrors.Error) {
	return group(paths, opts, func(p string) string { return "" })
}

// ByBasenameAndHash buckets first by final path component (via
// filepath.Base, applied by the caller through the basename extractor),
// then by hash within each basename bucket.
func ByBasenameAndHash(paths []string, opts Options, basename func(string) string) ([]FileGroup, []*bmerrors.Error) {
	return group(paths, opts, basename)
}

// Run is the single entry point matching the external API's two group_by_*
// calls: it dispatches on opts.Mode.
func Run(paths []string, opts Options, basename func(string) string) ([]FileGroup, []*bmerrors.Error) {
	switch opts.Mode {
	case ModeBasenameAndHash:
		return ByBasenameAndHash(paths, opts, basename)
	default:
		return ByHash(paths, opts)
	}
}

func group(paths []string, opts Options, basename func(string) string) ([]FileGroup, []*bmerrors.Error) {
	results, failures := hashAll(paths, opts)

	type bucketKey struct {
		basename string
		hash     hashsum.Hash
	}
	order := make([]bucketKey, 0, len(results))
	buckets := make(map[bucketKey][]string)

	for _, p := range paths {
		r, ok := results[p]
		if !ok {
			continue // hashing failed for this path; already recorded in failures
		}
		key := bucketKey{basename: basename(p), hash: r}
		if _, seen := buckets[key]; !seen {
			order = append(order, key)
		}
		buckets[key] = append(buckets[key], p)
	}

	groups := make([]FileGroup, 0, len(order))
	for _, key := range order {
		groups = append(groups, FileGroup{Hash: key.hash, Paths: buckets[key]})
	}
	return groups, failures
}

// hashAll hashes every path with a bounded worker pool, default
// concurrency defaults to the detected CPU count.
func hashAll(paths []string, opts Options) (map[string]hashsum.Hash, []*bmerrors.Error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers < 1 {
		workers = 1
	}

	resultCh := make(chan hashResult, len(paths))
	var failures []*bmerrors.Error
	failureCh := make(chan *bmerrors.Error, len(paths))

	g := new(errgroup.Group)
	g.SetLimit(workers)

	for _, p := range paths {
		p := p
		g.Go(func() error {
			h, err := hashsum.File(p)
			if err != nil {
				if be, ok := err.(*bmerrors.Error); ok {
					failureCh <- be
				} else {
					failureCh <- bmerrors.IO(p, err)
				}
				return nil
			}
			resultCh <- hashResult{path: p, hash: h}
			return nil
		})
	}
	_ = g.Wait()
	close(resultCh)
	close(failureCh)

	results := make(map[string]hashsum.Hash, len(paths))
	for r := range resultCh {
		results[r.path] = r.hash
	}
	for f := range failureCh {
		failures = append(failures, f)
	}
	sort.Slice(failures, func(i, j int) bool { return failures[i].Path < failures[j].Path })
	return results, failures
}
