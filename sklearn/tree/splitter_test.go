package tree

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func newMSESplitter(t *testing.T, X, y *mat.Dense, monotonicCst []int8) *Splitter {
	t.Helper()
	n, _ := y.Dims()
	crit, err := NewMSECriterion(1, n)
	require.NoError(t, err)
	s, err := NewSplitter(crit, X, y, nil, 1, 0, monotonicCst)
	require.NoError(t, err)
	return s
}

func TestSplitter_FindsBestBoundary(t *testing.T) {
	// Unsorted single feature; y = 2x. The best boundary separates
	// x in {1,2} from x in {3,4}.
	X := mat.NewDense(4, 1, []float64{4, 1, 3, 2})
	y := colDense(8, 2, 6, 4)
	s := newMSESplitter(t, X, y, nil)

	impurity, value, err := s.NodeEvaluate(0, 4)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, impurity, tol)
	assert.InDelta(t, 5.0, value[0], tol)

	rec, ok, err := s.NodeSplit(0, 4, impurity, math.Inf(-1), math.Inf(1))
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, 0, rec.Feature)
	assert.Equal(t, 2, rec.Pos)
	assert.InDelta(t, 2.5, rec.Threshold, tol)
	assert.InDelta(t, 1.0, rec.ImpurityLeft, tol)
	assert.InDelta(t, 1.0, rec.ImpurityRight, tol)
	assert.InDelta(t, 4.0, rec.Improvement, tol)
	assert.Equal(t, 0, rec.NMissing)

	// The left child occupies [0, Pos) of the index permutation.
	for _, i := range s.SampleIndices()[:rec.Pos] {
		assert.LessOrEqual(t, X.At(i, 0), rec.Threshold)
	}
	for _, i := range s.SampleIndices()[rec.Pos:4] {
		assert.Greater(t, X.At(i, 0), rec.Threshold)
	}
}

func TestSplitter_PicksInformativeFeature(t *testing.T) {
	// Feature 0 is noise, feature 1 separates the target perfectly.
	X := mat.NewDense(4, 2, []float64{
		5, 1,
		1, 2,
		6, 9,
		2, 10,
	})
	y := colDense(0, 0, 10, 10)
	s := newMSESplitter(t, X, y, nil)

	impurity, _, err := s.NodeEvaluate(0, 4)
	require.NoError(t, err)
	rec, ok, err := s.NodeSplit(0, 4, impurity, math.Inf(-1), math.Inf(1))
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, 1, rec.Feature)
	assert.InDelta(t, 5.5, rec.Threshold, tol)
	assert.Zero(t, rec.ImpurityLeft)
	assert.Zero(t, rec.ImpurityRight)
}

func TestSplitter_ConstantFeaturesYieldNoSplit(t *testing.T) {
	X := mat.NewDense(3, 1, []float64{7, 7, 7})
	y := colDense(1, 2, 3)
	s := newMSESplitter(t, X, y, nil)

	impurity, _, err := s.NodeEvaluate(0, 3)
	require.NoError(t, err)
	_, ok, err := s.NodeSplit(0, 3, impurity, math.Inf(-1), math.Inf(1))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSplitter_RoutesMissingValues(t *testing.T) {
	nan := math.NaN()
	X := mat.NewDense(4, 1, []float64{1, 2, nan, 4})
	y := colDense(1, 1, 9, 9)
	s := newMSESplitter(t, X, y, nil)

	impurity, _, err := s.NodeEvaluate(0, 4)
	require.NoError(t, err)
	rec, ok, err := s.NodeSplit(0, 4, impurity, math.Inf(-1), math.Inf(1))
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, 1, rec.NMissing)
	assert.False(t, rec.MissingGoToLeft, "the missing sample's target matches the right child")
	assert.Equal(t, 2, rec.Pos)
	assert.InDelta(t, 3.0, rec.Threshold, tol)
	assert.Zero(t, rec.ImpurityLeft)
	assert.Zero(t, rec.ImpurityRight)

	left := s.SampleIndices()[:rec.Pos]
	assert.ElementsMatch(t, []int{0, 1}, left)
}

func TestSplitter_MissingOnlySplit(t *testing.T) {
	// The observed values are constant; only missingness separates the
	// targets, which yields an infinite threshold with missing going
	// right.
	nan := math.NaN()
	X := mat.NewDense(4, 1, []float64{3, 3, nan, nan})
	y := colDense(1, 1, 9, 9)
	s := newMSESplitter(t, X, y, nil)

	impurity, _, err := s.NodeEvaluate(0, 4)
	require.NoError(t, err)
	rec, ok, err := s.NodeSplit(0, 4, impurity, math.Inf(-1), math.Inf(1))
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, 2, rec.NMissing)
	assert.False(t, rec.MissingGoToLeft)
	assert.True(t, math.IsInf(rec.Threshold, 1))
	assert.Equal(t, 2, rec.Pos)
}

func TestSplitter_MonotonicityBlocksViolatingSplits(t *testing.T) {
	// y strictly decreases in x, so every candidate violates a
	// non-decreasing constraint.
	X := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
	y := colDense(4, 3, 2, 1)

	s := newMSESplitter(t, X, y, []int8{1})
	impurity, _, err := s.NodeEvaluate(0, 4)
	require.NoError(t, err)
	_, ok, err := s.NodeSplit(0, 4, impurity, math.Inf(-1), math.Inf(1))
	require.NoError(t, err)
	assert.False(t, ok, "non-decreasing constraint must forbid all splits")

	s = newMSESplitter(t, X, y, []int8{-1})
	impurity, _, err = s.NodeEvaluate(0, 4)
	require.NoError(t, err)
	rec, ok, err := s.NodeSplit(0, 4, impurity, math.Inf(-1), math.Inf(1))
	require.NoError(t, err)
	require.True(t, ok, "non-increasing constraint matches the data")
	assert.InDelta(t, 2.5, rec.MiddleValue, tol)
}

func TestSplitter_MinSamplesLeaf(t *testing.T) {
	X := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
	y := colDense(0, 10, 10, 10)

	crit, err := NewMSECriterion(1, 4)
	require.NoError(t, err)
	s, err := NewSplitter(crit, X, y, nil, 2, 0, nil)
	require.NoError(t, err)

	impurity, _, err := s.NodeEvaluate(0, 4)
	require.NoError(t, err)
	rec, ok, err := s.NodeSplit(0, 4, impurity, math.Inf(-1), math.Inf(1))
	require.NoError(t, err)
	require.True(t, ok)

	// The pure boundary after the first sample leaves a one-sample leaf,
	// so the 2|2 boundary must win instead.
	assert.Equal(t, 2, rec.Pos)
}
