// Package workers runs fork-join loops over index ranges.
package workers

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// DefaultMinChunk is the smallest range worth handing to its own goroutine.
const DefaultMinChunk = 64

// Count returns the number of workers used by For.
func Count() int {
	return runtime.GOMAXPROCS(0)
}

// For splits [0, n) into contiguous chunks and calls fn once per chunk,
// concurrently, returning after every call has finished. Chunks never
// overlap, so fn may write to per-index slots of shared slices without
// locking. Small ranges run on the calling goroutine.
func For(n, minChunk int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	if minChunk < 1 {
		minChunk = 1
	}

	workers := Count()
	if n/minChunk < workers {
		workers = n / minChunk
	}
	if n <= minChunk || workers <= 1 {
		fn(0, n)
		return
	}

	chunkSize := (n + workers - 1) / workers

	var g errgroup.Group
	g.SetLimit(workers)
	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		g.Go(func() error {
			fn(start, end)
			return nil
		})
	}
	_ = g.Wait()
}

// Each calls fn for every index in [0, n) using For.
func Each(n, minChunk int, fn func(i int)) {
	For(n, minChunk, func(start, end int) {
		for i := start; i < end; i++ {
			fn(i)
		}
	})
}
