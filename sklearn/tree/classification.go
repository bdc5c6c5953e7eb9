package tree

import (
	"math"

	"gonum.org/v1/gonum/mat"

	sciErrors "github.com/ezoic/scitree/pkg/errors"
)

// classificationCriterion maintains per-output, per-class weighted count
// histograms. The per-output histograms are stored in one flat buffer of
// nOutputs*maxNClasses entries; iteration respects the true class count of
// each output, the padding stays zero.
type classificationCriterion struct {
	baseCriterion

	nClasses    []int
	maxNClasses int

	sumTotal   []float64
	sumLeft    []float64
	sumRight   []float64
	sumMissing []float64
}

func newClassificationCriterion(op string, nOutputs int, nClasses []int) (classificationCriterion, error) {
	if nOutputs <= 0 {
		return classificationCriterion{}, sciErrors.NewValueError(op, "nOutputs must be positive")
	}
	if len(nClasses) != nOutputs {
		return classificationCriterion{}, sciErrors.NewDimensionError(op, nOutputs, len(nClasses), 0)
	}

	maxNClasses := 0
	for _, n := range nClasses {
		if n <= 0 {
			return classificationCriterion{}, sciErrors.NewValueError(op, "every output needs at least one class")
		}
		if n > maxNClasses {
			maxNClasses = n
		}
	}

	stride := nOutputs * maxNClasses
	return classificationCriterion{
		baseCriterion: newBaseCriterion(nOutputs),
		nClasses:      append([]int(nil), nClasses...),
		maxNClasses:   maxNClasses,
		sumTotal:      make([]float64, stride),
		sumLeft:       make([]float64, stride),
		sumRight:      make([]float64, stride),
		sumMissing:    make([]float64, stride),
	}, nil
}

func (c *classificationCriterion) Init(y *mat.Dense, sampleWeight []float64, weightedNSamples float64, sampleIndices []int, start, end int) error {
	if err := c.bind("ClassificationCriterion.Init", y, sampleWeight, weightedNSamples, sampleIndices, start, end); err != nil {
		return err
	}

	zeroFloats(c.sumTotal)
	for p := start; p < end; p++ {
		i := sampleIndices[p]
		w := c.weightOf(i)
		for k := 0; k < c.nOutputs; k++ {
			cls := int(c.y[i*c.yStride+k])
			c.sumTotal[k*c.maxNClasses+cls] += w
		}
		c.weightedNNodeSamples += w
	}

	c.Reset()
	return nil
}

func (c *classificationCriterion) InitMissing(nMissing int) error {
	if nMissing < 0 || nMissing > c.nNodeSamples {
		return sciErrors.NewValueError("ClassificationCriterion.InitMissing", "nMissing out of range")
	}

	c.nMissing = nMissing
	c.weightedNMissing = 0
	zeroFloats(c.sumMissing)
	if nMissing == 0 {
		return nil
	}

	// The missing-valued samples sit in the trailing segment of the node.
	for p := c.end - nMissing; p < c.end; p++ {
		i := c.sampleIndices[p]
		w := c.weightOf(i)
		for k := 0; k < c.nOutputs; k++ {
			cls := int(c.y[i*c.yStride+k])
			c.sumMissing[k*c.maxNClasses+cls] += w
		}
		c.weightedNMissing += w
	}
	return nil
}

// moveSums initializes one side from the missing segment (or empty) and
// gives the remainder of the totals to the other side. Shared by Reset and
// ReverseReset.
func (c *classificationCriterion) moveSums(sumDst, sumSrc []float64, weightedDst, weightedSrc *float64, putMissingInDst bool) {
	if c.nMissing != 0 && putMissingInDst {
		copy(sumDst, c.sumMissing)
		*weightedDst = c.weightedNMissing
	} else {
		zeroFloats(sumDst)
		*weightedDst = 0
	}
	for j := range sumSrc {
		sumSrc[j] = c.sumTotal[j] - sumDst[j]
	}
	*weightedSrc = c.weightedNNodeSamples - *weightedDst
}

func (c *classificationCriterion) Reset() {
	c.pos = c.start
	c.moveSums(c.sumLeft, c.sumRight, &c.weightedNLeft, &c.weightedNRight, c.missingGoToLeft)
}

func (c *classificationCriterion) ReverseReset() {
	c.pos = c.end
	c.moveSums(c.sumRight, c.sumLeft, &c.weightedNRight, &c.weightedNLeft, !c.missingGoToLeft)
}

func (c *classificationCriterion) Update(newPos int) error {
	if err := c.checkUpdate("ClassificationCriterion.Update", newPos); err != nil {
		return err
	}
	endNonMissing := c.end - c.nMissing

	// Accumulate from whichever end is nearer. Over a full sweep this keeps
	// the total work linear in the node size.
	if newPos-c.pos <= endNonMissing-newPos {
		for p := c.pos; p < newPos; p++ {
			i := c.sampleIndices[p]
			w := c.weightOf(i)
			for k := 0; k < c.nOutputs; k++ {
				c.sumLeft[k*c.maxNClasses+int(c.y[i*c.yStride+k])] += w
			}
			c.weightedNLeft += w
		}
	} else {
		c.ReverseReset()
		for p := endNonMissing - 1; p >= newPos; p-- {
			i := c.sampleIndices[p]
			w := c.weightOf(i)
			for k := 0; k < c.nOutputs; k++ {
				c.sumLeft[k*c.maxNClasses+int(c.y[i*c.yStride+k])] -= w
			}
			c.weightedNLeft -= w
		}
	}

	c.weightedNRight = c.weightedNNodeSamples - c.weightedNLeft
	for k := 0; k < c.nOutputs; k++ {
		off := k * c.maxNClasses
		for cls := 0; cls < c.nClasses[k]; cls++ {
			c.sumRight[off+cls] = c.sumTotal[off+cls] - c.sumLeft[off+cls]
		}
	}
	c.pos = newPos
	return nil
}

// NodeValue writes the weighted class proportions, one maxNClasses-stride
// block per output.
func (c *classificationCriterion) NodeValue(dest []float64) {
	for k := 0; k < c.nOutputs; k++ {
		off := k * c.maxNClasses
		for cls := 0; cls < c.nClasses[k]; cls++ {
			dest[off+cls] = c.sumTotal[off+cls] / c.weightedNNodeSamples
		}
		for cls := c.nClasses[k]; cls < c.maxNClasses; cls++ {
			dest[off+cls] = 0
		}
	}
}

// ClipNodeValue clamps dest[0] into [lower, upper]. The sum-to-one
// re-projection of dest[1] only applies to a single-output two-class
// histogram; other shapes get the clamp alone.
func (c *classificationCriterion) ClipNodeValue(dest []float64, lower, upper float64) {
	if dest[0] < lower {
		dest[0] = lower
	} else if dest[0] > upper {
		dest[0] = upper
	}
	if c.nOutputs == 1 && c.nClasses[0] == 2 {
		dest[1] = 1 - dest[0]
	}
}

func (c *classificationCriterion) ValueSize() int {
	return c.nOutputs * c.maxNClasses
}

// childValues returns the weighted class-0 proportion of each child for
// output 0, the quantity the monotonicity machinery constrains.
func (c *classificationCriterion) childValues() (left, right float64) {
	return c.sumLeft[0] / c.weightedNLeft, c.sumRight[0] / c.weightedNRight
}

func (c *classificationCriterion) MiddleValue() float64 {
	left, right := c.childValues()
	return (left + right) / 2
}

func (c *classificationCriterion) CheckMonotonicity(sign int8, lowerBound, upperBound float64) bool {
	left, right := c.childValues()
	return monotonicityHolds(sign, lowerBound, upperBound, left, right)
}

// GiniCriterion measures node impurity with the Gini index
//
//	1 - sum_c (count_c / N_t)^2
//
// averaged over outputs.
type GiniCriterion struct {
	classificationCriterion
}

// NewGiniCriterion creates a Gini criterion for nOutputs outputs with the
// given per-output class counts.
func NewGiniCriterion(nOutputs int, nClasses []int) (*GiniCriterion, error) {
	base, err := newClassificationCriterion("NewGiniCriterion", nOutputs, nClasses)
	if err != nil {
		return nil, err
	}
	return &GiniCriterion{classificationCriterion: base}, nil
}

func (g *GiniCriterion) NodeImpurity() float64 {
	return giniImpurity(g.sumTotal, g.nClasses, g.maxNClasses, g.weightedNNodeSamples)
}

func (g *GiniCriterion) ChildrenImpurity() (left, right float64) {
	left = giniImpurity(g.sumLeft, g.nClasses, g.maxNClasses, g.weightedNLeft)
	right = giniImpurity(g.sumRight, g.nClasses, g.maxNClasses, g.weightedNRight)
	return left, right
}

func (g *GiniCriterion) ProxyImpurityImprovement() float64 {
	return proxyFromChildren(g)
}

func giniImpurity(sum []float64, nClasses []int, maxNClasses int, weightedN float64) float64 {
	nOutputs := len(nClasses)
	gini := 0.0
	for k := 0; k < nOutputs; k++ {
		sqCount := 0.0
		off := k * maxNClasses
		for cls := 0; cls < nClasses[k]; cls++ {
			count := sum[off+cls]
			sqCount += count * count
		}
		gini += 1.0 - sqCount/(weightedN*weightedN)
	}
	return gini / float64(nOutputs)
}

// EntropyCriterion measures node impurity with the Shannon entropy
//
//	-sum_c p_c log(p_c)
//
// in nats, averaged over outputs. Empty classes contribute zero.
type EntropyCriterion struct {
	classificationCriterion
}

// NewEntropyCriterion creates an entropy criterion for nOutputs outputs
// with the given per-output class counts.
func NewEntropyCriterion(nOutputs int, nClasses []int) (*EntropyCriterion, error) {
	base, err := newClassificationCriterion("NewEntropyCriterion", nOutputs, nClasses)
	if err != nil {
		return nil, err
	}
	return &EntropyCriterion{classificationCriterion: base}, nil
}

func (e *EntropyCriterion) NodeImpurity() float64 {
	return entropyImpurity(e.sumTotal, e.nClasses, e.maxNClasses, e.weightedNNodeSamples)
}

func (e *EntropyCriterion) ChildrenImpurity() (left, right float64) {
	left = entropyImpurity(e.sumLeft, e.nClasses, e.maxNClasses, e.weightedNLeft)
	right = entropyImpurity(e.sumRight, e.nClasses, e.maxNClasses, e.weightedNRight)
	return left, right
}

func (e *EntropyCriterion) ProxyImpurityImprovement() float64 {
	return proxyFromChildren(e)
}

func entropyImpurity(sum []float64, nClasses []int, maxNClasses int, weightedN float64) float64 {
	nOutputs := len(nClasses)
	entropy := 0.0
	for k := 0; k < nOutputs; k++ {
		off := k * maxNClasses
		for cls := 0; cls < nClasses[k]; cls++ {
			count := sum[off+cls]
			if count > 0 {
				p := count / weightedN
				entropy -= p * math.Log(p)
			}
		}
	}
	return entropy / float64(nOutputs)
}
