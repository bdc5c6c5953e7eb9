// Package parallel provides data-parallel helpers for estimator-level loops.
//
// The criterion inner loops are deliberately single-threaded; parallelism in
// SciTree lives at the estimator layer, over disjoint slices of samples.
package parallel

import (
	"runtime"
	"sync"
)

// Parallelize splits [0, n) into one contiguous chunk per CPU and runs fn
// on each chunk concurrently. fn must be safe to call on disjoint ranges.
func Parallelize(n int, fn func(start, end int)) {
	workers := runtime.GOMAXPROCS(0)
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		fn(0, n)
		return
	}

	chunk := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for start := 0; start < n; start += chunk {
		end := start + chunk
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}

// ParallelizeWithThreshold runs fn sequentially when n is below threshold,
// avoiding goroutine overhead on small inputs.
func ParallelizeWithThreshold(n, threshold int, fn func(start, end int)) {
	if n < threshold {
		fn(0, n)
		return
	}
	Parallelize(n, fn)
}
