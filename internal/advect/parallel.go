package advect

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// minChunk is the smallest cell range handed to a worker.
const minChunk = 512

// parallelFor splits [0, n) into contiguous chunks and runs body on each,
// returning once every chunk is done. body must only write cells in its own
// range and only read from inputs that no chunk writes.
func parallelFor(n int, body func(lo, hi int)) {
	workers := runtime.GOMAXPROCS(0)
	if n <= minChunk || workers < 2 {
		body(0, n)
		return
	}

	size := max((n+workers-1)/workers, minChunk)

	var g errgroup.Group
	g.SetLimit(workers)
	for lo := 0; lo < n; lo += size {
		hi := min(lo+size, n)
		g.Go(func() error {
			body(lo, hi)
			return nil
		})
	}
	_ = g.Wait()
}
