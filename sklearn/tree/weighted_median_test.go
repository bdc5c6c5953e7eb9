package tree

import (
	"math"
	"math/rand"
	"sort"
	"testing"
)

// bruteLowerMedian computes the lower weighted median directly: the
// smallest value whose cumulative weight reaches half the total.
func bruteLowerMedian(values, weights []float64) float64 {
	type pair struct{ v, w float64 }
	pairs := make([]pair, len(values))
	total := 0.0
	for i := range values {
		pairs[i] = pair{values[i], weights[i]}
		total += weights[i]
	}
	sort.Slice(pairs, func(a, b int) bool { return pairs[a].v < pairs[b].v })

	cum := 0.0
	for _, p := range pairs {
		cum += p.w
		if cum >= total/2 {
			return p.v
		}
	}
	return pairs[len(pairs)-1].v
}

func TestWeightedMedianCalculator_LowerMedianConvention(t *testing.T) {
	tests := []struct {
		name    string
		values  []float64
		weights []float64
		want    float64
	}{
		{
			name:    "uniform even count takes the lower middle",
			values:  []float64{1, 2, 3, 100},
			weights: []float64{1, 1, 1, 1},
			want:    2,
		},
		{
			name:    "uniform odd count",
			values:  []float64{5, 1, 3},
			weights: []float64{1, 1, 1},
			want:    3,
		},
		{
			name:    "heavy small value dominates",
			values:  []float64{1, 2},
			weights: []float64{3, 1},
			want:    1,
		},
		{
			name:    "heavy large value dominates",
			values:  []float64{1, 2},
			weights: []float64{1, 3},
			want:    2,
		},
		{
			name:    "single sample",
			values:  []float64{7},
			weights: []float64{2.5},
			want:    7,
		},
		{
			name:    "duplicate values",
			values:  []float64{2, 2, 2, 9},
			weights: []float64{1, 1, 1, 1},
			want:    2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calc := NewWeightedMedianCalculator(len(tt.values))
			for i := range tt.values {
				calc.Push(tt.values[i], tt.weights[i])
			}
			if got := calc.GetMedian(); got != tt.want {
				t.Errorf("GetMedian() = %v, want %v", got, tt.want)
			}
			if got := bruteLowerMedian(tt.values, tt.weights); got != tt.want {
				t.Errorf("fixture inconsistent with convention: brute force gives %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWeightedMedianCalculator_RemoveAndPop(t *testing.T) {
	calc := NewWeightedMedianCalculator(8)
	for _, v := range []float64{4, 1, 3, 2} {
		calc.Push(v, 1)
	}

	if got := calc.GetMedian(); got != 2 {
		t.Fatalf("median of {1,2,3,4} = %v, want 2", got)
	}

	if !calc.Remove(1, 1) {
		t.Fatal("Remove(1, 1) reported missing sample")
	}
	if got := calc.GetMedian(); got != 3 {
		t.Errorf("median of {2,3,4} = %v, want 3", got)
	}

	if calc.Remove(42, 1) {
		t.Error("Remove of absent sample reported success")
	}

	value, weight, ok := calc.Pop()
	if !ok || value != 2 || weight != 1 {
		t.Errorf("Pop() = (%v, %v, %v), want (2, 1, true)", value, weight, ok)
	}
	if got := calc.Size(); got != 2 {
		t.Errorf("Size() = %d, want 2", got)
	}
	if got := calc.TotalWeight(); got != 2 {
		t.Errorf("TotalWeight() = %v, want 2", got)
	}

	calc.Reset()
	if calc.Size() != 0 || calc.TotalWeight() != 0 {
		t.Error("Reset did not clear the calculator")
	}
	if !math.IsNaN(calc.GetMedian()) {
		t.Error("GetMedian on empty calculator should be NaN")
	}
	if _, _, ok := calc.Pop(); ok {
		t.Error("Pop on empty calculator should report not ok")
	}
}

func TestWeightedMedianCalculator_MatchesBruteForceUnderChurn(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	calc := NewWeightedMedianCalculator(64)

	var values, weights []float64
	push := func() {
		v := math.Round(rng.Float64()*20) / 2 // coarse grid provokes ties
		w := 0.5 + rng.Float64()
		values = append(values, v)
		weights = append(weights, w)
		calc.Push(v, w)
	}
	remove := func() {
		i := rng.Intn(len(values))
		if !calc.Remove(values[i], weights[i]) {
			t.Fatalf("Remove(%v, %v) lost a held sample", values[i], weights[i])
		}
		values = append(values[:i], values[i+1:]...)
		weights = append(weights[:i], weights[i+1:]...)
	}

	for step := 0; step < 500; step++ {
		if len(values) == 0 || rng.Float64() < 0.6 {
			push()
		} else {
			remove()
		}
		if len(values) == 0 {
			// Removals drained the multiset; an empty calculator reports NaN.
			if got := calc.GetMedian(); !math.IsNaN(got) {
				t.Fatalf("step %d: GetMedian() on empty calculator = %v, want NaN", step, got)
			}
			continue
		}
		want := bruteLowerMedian(values, weights)
		if got := calc.GetMedian(); got != want {
			t.Fatalf("step %d: GetMedian() = %v, want %v (n=%d)", step, got, want, len(values))
		}
	}
}

func TestWeightedPQueue_OrderAndIndexing(t *testing.T) {
	var q weightedPQueue
	for _, v := range []float64{5, 1, 3, 3, 2} {
		q.push(v, v*10)
	}

	want := []float64{1, 2, 3, 3, 5}
	for i, w := range want {
		if got := q.valueAt(i); got != w {
			t.Errorf("valueAt(%d) = %v, want %v", i, got, w)
		}
		if got := q.weightAt(i); got != w*10 {
			t.Errorf("weightAt(%d) = %v, want %v", i, got, w*10)
		}
	}

	if idx := q.remove(3, 30); idx < 0 {
		t.Error("remove(3, 30) did not find the sample")
	}
	if q.size() != 4 {
		t.Errorf("size() = %d, want 4", q.size())
	}
}
