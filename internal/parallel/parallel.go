// Package parallel provides bounded parallel execution utilities for TileKit.
package parallel

import (
	"runtime"
	"sync"
)

// Config controls parallel execution behavior.
type Config struct {
	Enabled    bool // Whether parallel execution is enabled.
	NumWorkers int  // Maximum number of worker goroutines to use.
}

// DefaultConfig returns sensible defaults based on CPU count.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled:    n > 1,
		NumWorkers: n,
	}
}

// Sequential returns a config that disables parallelism.
func Sequential() Config {
	return Config{Enabled: false, NumWorkers: 1}
}

// For executes f(i) for i in [0, n) with optional parallelism.
// Falls back to sequential execution if parallelism is disabled.
func For(n int, f func(i int), cfg Config) {
	workers := cfg.NumWorkers
	if !cfg.Enabled || workers <= 1 || n <= 1 {
		for i := 0; i < n; i++ {
			f(i)
		}
		return
	}

	var wg sync.WaitGroup
	chunkSize := (n + workers - 1) / workers

	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			for i := s; i < e; i++ {
				f(i)
			}
		}(start, end)
	}
	wg.Wait()
}

// ForChunked splits [0, n) into at most `workers` contiguous chunks and runs
// f(start, end) for each chunk, one goroutine per chunk. Unlike For, the
// chunk body sees its full range at once, so a worker can set up per-chunk
// scratch state before iterating. Returns the first error any chunk reports.
func ForChunked(n, workers int, f func(start, end int) error) error {
	if workers <= 1 || n <= 1 {
		return f(0, n)
	}
	if workers > n {
		workers = n
	}

	chunkSize := (n + workers - 1) / workers
	numChunks := (n + chunkSize - 1) / chunkSize
	errs := make([]error, numChunks)

	var wg sync.WaitGroup
	for c := 0; c < numChunks; c++ {
		start := c * chunkSize
		end := min(start+chunkSize, n)
		wg.Add(1)
		go func(c, s, e int) {
			defer wg.Done()
			errs[c] = f(s, e)
		}(c, start, end)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
