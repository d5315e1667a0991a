package algorithms

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// minParallelSamples is the output size below which rows are processed on
// the calling goroutine.
const minParallelSamples = 64 * 1024

// parallelRows splits [0, rows) into contiguous chunks and runs fn on each
// chunk concurrently. Chunks never overlap, so fn may write its rows of a
// shared destination without locking.
func parallelRows(rows, samplesPerRow int, fn func(start, end int)) {
	procs := min(runtime.GOMAXPROCS(0), rows)
	if procs <= 1 || rows*samplesPerRow < minParallelSamples {
		fn(0, rows)
		return
	}

	chunk := (rows + procs - 1) / procs
	var g errgroup.Group
	for start := 0; start < rows; start += chunk {
		end := min(start+chunk, rows)
		g.Go(func() error {
			fn(start, end)
			return nil
		})
	}
	_ = g.Wait()
}
