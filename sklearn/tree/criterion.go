package tree

import (
	"math"

	"gonum.org/v1/gonum/mat"

	sciErrors "github.com/ezoic/scitree/pkg/errors"
)

// Criterion is the impurity engine driven by a Splitter. It maintains
// running sufficient statistics for the samples of one node so that moving
// the split boundary by one sample costs amortized constant work.
//
// The calling protocol for one node visit is:
//
//	crit.Init(y, w, totalWeight, indices, start, end)
//	crit.InitMissing(nMissing)      // trailing missing segment, may be 0
//	crit.SetMissingGoToLeft(policy) // chosen by the splitter
//	crit.Reset()
//	for each candidate boundary p (non-decreasing):
//	    crit.Update(p)
//	    rank by crit.ProxyImpurityImprovement()
//	// once, for the winning boundary:
//	left, right := crit.ChildrenImpurity()
//	improvement := crit.ImpurityImprovement(parent, left, right)
//
// A Criterion instance is not safe for concurrent use. It borrows y,
// sampleWeight and sampleIndices for the duration of the node visit and
// never mutates them.
type Criterion interface {
	// Init binds the node's samples, recomputes the total statistics over
	// [start, end) and resets the boundary. It clears any missing-value
	// state from a previous feature evaluation.
	Init(y *mat.Dense, sampleWeight []float64, weightedNSamples float64, sampleIndices []int, start, end int) error

	// InitMissing accumulates the statistics of the nMissing trailing
	// samples of the node range, which the splitter has arranged to be the
	// missing-valued ones for the current feature.
	InitMissing(nMissing int) error

	// SetMissingGoToLeft selects which child receives the missing segment
	// on the next Reset.
	SetMissingGoToLeft(left bool)

	// Reset moves the boundary to start. The left child holds the missing
	// segment if missingGoToLeft is set, otherwise it is empty.
	Reset()

	// ReverseReset moves the boundary to end. The right child holds the
	// missing segment if missingGoToLeft is unset, otherwise it is empty.
	ReverseReset()

	// Update advances the boundary to newPos, with
	// pos <= newPos <= end-nMissing. Statistics are accumulated from
	// whichever end is nearer so a full sweep is linear in the node size.
	Update(newPos int) error

	// NodeImpurity returns the impurity of [start, end).
	NodeImpurity() float64

	// ChildrenImpurity returns the impurities of [start, pos) and
	// [pos, end).
	ChildrenImpurity() (left, right float64)

	// NodeValue writes the leaf prediction for the node into dest, which
	// must have length ValueSize.
	NodeValue(dest []float64)

	// ClipNodeValue clamps dest[0] into [lower, upper]. For single-output
	// two-class histograms the complement is re-projected so the pair
	// still sums to one.
	ClipNodeValue(dest []float64, lower, upper float64)

	// ValueSize returns the length of the dest buffer NodeValue fills.
	ValueSize() int

	// MiddleValue returns the average of the left- and right-child
	// predictions for output 0, used by the monotonicity machinery.
	MiddleValue() float64

	// CheckMonotonicity reports whether the current split satisfies the
	// monotonicity constraint: both child values for output 0 lie in
	// [lowerBound, upperBound] and their ordering matches sign. A zero
	// sign disables the ordering check but still enforces the bounds.
	CheckMonotonicity(sign int8, lowerBound, upperBound float64) bool

	// ProxyImpurityImprovement returns a quantity that orders candidate
	// splits identically to ImpurityImprovement but is cheaper to
	// evaluate. Larger is better.
	ProxyImpurityImprovement() float64

	// ImpurityImprovement returns the exact improvement of the current
	// split, normalized by the total training weight.
	ImpurityImprovement(parentImpurity, impurityLeft, impurityRight float64) float64

	// Weighted sample counts of the current node state.
	WeightedNNodeSamples() float64
	WeightedNLeft() float64
	WeightedNRight() float64
	WeightedNMissing() float64
}

// baseCriterion carries the state common to both criterion families.
type baseCriterion struct {
	y       []float64 // row-major target buffer, one row per sample
	yStride int
	nOutputs int

	sampleWeight  []float64 // nil means unit weights
	sampleIndices []int

	start int
	pos   int // boundary: left is [start, pos), right is [pos, end)
	end   int

	nNodeSamples    int
	nMissing        int
	missingGoToLeft bool

	weightedNSamples     float64 // weight of the whole training set
	weightedNNodeSamples float64
	weightedNLeft        float64
	weightedNRight       float64
	weightedNMissing     float64

	// epsilon absorbs the tiny negatives that sumRight = sumTotal - sumLeft
	// can produce; anything at or below it is treated as zero where the
	// sign matters.
	epsilon float64
}

func newBaseCriterion(nOutputs int) baseCriterion {
	return baseCriterion{
		nOutputs: nOutputs,
		epsilon:  10 * (math.Nextafter(1.0, 2.0) - 1.0),
	}
}

// bind is the shared Init prologue: it borrows the node inputs and clears
// the cursors and missing state. The caller recomputes its family-specific
// totals afterwards.
func (c *baseCriterion) bind(op string, y *mat.Dense, sampleWeight []float64, weightedNSamples float64, sampleIndices []int, start, end int) error {
	rows, cols := y.Dims()
	if cols != c.nOutputs {
		return sciErrors.NewDimensionError(op, c.nOutputs, cols, 1)
	}
	if start < 0 || start > end || end > len(sampleIndices) {
		return sciErrors.NewValueError(op, "sample range out of bounds")
	}
	if sampleWeight != nil && len(sampleWeight) < rows {
		return sciErrors.NewDimensionError(op, rows, len(sampleWeight), 0)
	}

	raw := y.RawMatrix()
	c.y = raw.Data
	c.yStride = raw.Stride
	c.sampleWeight = sampleWeight
	c.sampleIndices = sampleIndices
	c.weightedNSamples = weightedNSamples
	c.start = start
	c.end = end
	c.pos = start
	c.nNodeSamples = end - start
	c.nMissing = 0
	c.weightedNMissing = 0
	c.weightedNNodeSamples = 0
	return nil
}

func (c *baseCriterion) weightOf(i int) float64 {
	if c.sampleWeight == nil {
		return 1.0
	}
	return c.sampleWeight[i]
}

func (c *baseCriterion) SetMissingGoToLeft(left bool) {
	c.missingGoToLeft = left
}

func (c *baseCriterion) WeightedNNodeSamples() float64 { return c.weightedNNodeSamples }
func (c *baseCriterion) WeightedNLeft() float64        { return c.weightedNLeft }
func (c *baseCriterion) WeightedNRight() float64       { return c.weightedNRight }
func (c *baseCriterion) WeightedNMissing() float64     { return c.weightedNMissing }

// checkUpdate validates the boundary move shared by every Update.
func (c *baseCriterion) checkUpdate(op string, newPos int) error {
	if newPos < c.pos || newPos > c.end-c.nMissing {
		return sciErrors.NewValueError(op, "split position out of range")
	}
	return nil
}

// ImpurityImprovement computes the exact, reported improvement
//
//	(N_t / N) * (parent - N_t_R/N_t * right - N_t_L/N_t * left)
//
// where N is the total training weight and N_t the node weight. The N_t/N
// factor makes improvements comparable across nodes of one tree.
func (c *baseCriterion) ImpurityImprovement(parentImpurity, impurityLeft, impurityRight float64) float64 {
	return (c.weightedNNodeSamples / c.weightedNSamples) *
		(parentImpurity -
			(c.weightedNRight/c.weightedNNodeSamples)*impurityRight -
			(c.weightedNLeft/c.weightedNNodeSamples)*impurityLeft)
}

// proxyFromChildren is the default proxy improvement
//
//	-N_t_R * right - N_t_L * left
//
// shared by the criteria without a cheaper closed form.
func proxyFromChildren(c Criterion) float64 {
	left, right := c.ChildrenImpurity()
	return -c.WeightedNRight()*right - c.WeightedNLeft()*left
}

// monotonicityHolds reports whether the child values for output 0 satisfy
// the bounds and, for a non-zero sign, the required ordering.
func monotonicityHolds(sign int8, lowerBound, upperBound, valueLeft, valueRight float64) bool {
	if valueLeft < lowerBound || valueLeft > upperBound ||
		valueRight < lowerBound || valueRight > upperBound {
		return false
	}
	if sign == 0 {
		return true
	}
	return float64(sign)*(valueLeft-valueRight) <= 0
}

func zeroFloats(s []float64) {
	for i := range s {
		s[i] = 0
	}
}
