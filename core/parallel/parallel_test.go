package parallel

import (
	"sync/atomic"
	"testing"
)

func TestParallelize_CoversEveryIndex(t *testing.T) {
	for _, n := range []int{0, 1, 7, 100, 1023} {
		var covered int64
		Parallelize(n, func(start, end int) {
			for i := start; i < end; i++ {
				atomic.AddInt64(&covered, 1)
			}
		})
		if covered != int64(n) {
			t.Errorf("n=%d: covered %d indices", n, covered)
		}
	}
}

func TestParallelize_ChunksAreDisjoint(t *testing.T) {
	const n = 512
	seen := make([]int64, n)
	Parallelize(n, func(start, end int) {
		for i := start; i < end; i++ {
			atomic.AddInt64(&seen[i], 1)
		}
	})
	for i, c := range seen {
		if c != 1 {
			t.Fatalf("index %d visited %d times", i, c)
		}
	}
}

func TestParallelizeWithThreshold_RunsSequentiallyBelow(t *testing.T) {
	calls := 0
	ParallelizeWithThreshold(10, 100, func(start, end int) {
		calls++
		if start != 0 || end != 10 {
			t.Errorf("sequential call got (%d, %d), want (0, 10)", start, end)
		}
	})
	if calls != 1 {
		t.Errorf("fn called %d times, want 1", calls)
	}
}
