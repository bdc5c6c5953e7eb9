package tree

import (
	"math"

	"gonum.org/v1/gonum/mat"

	sciErrors "github.com/ezoic/scitree/pkg/errors"
)

// MAECriterion measures node impurity with the mean absolute deviation
// from the node median. Unlike the moment-based criteria it cannot run on
// running sums: each child keeps a streaming WeightedMedianCalculator per
// output, and boundary moves transfer samples between the two.
//
// Missing feature values are not supported; InitMissing fails for any
// non-zero count.
type MAECriterion struct {
	baseCriterion

	leftMedians  []WeightedMedianCalculator
	rightMedians []WeightedMedianCalculator
	nodeMedians  []float64
}

// NewMAECriterion creates an absolute-error criterion for nOutputs outputs
// over at most nSamples samples.
func NewMAECriterion(nOutputs, nSamples int) (*MAECriterion, error) {
	if nOutputs <= 0 {
		return nil, sciErrors.NewValueError("NewMAECriterion", "nOutputs must be positive")
	}
	if nSamples <= 0 {
		return nil, sciErrors.NewValueError("NewMAECriterion", "nSamples must be positive")
	}

	c := &MAECriterion{
		baseCriterion: newBaseCriterion(nOutputs),
		leftMedians:   make([]WeightedMedianCalculator, nOutputs),
		rightMedians:  make([]WeightedMedianCalculator, nOutputs),
		nodeMedians:   make([]float64, nOutputs),
	}
	for k := 0; k < nOutputs; k++ {
		c.leftMedians[k] = *NewWeightedMedianCalculator(nSamples)
		c.rightMedians[k] = *NewWeightedMedianCalculator(nSamples)
	}
	return c, nil
}

func (c *MAECriterion) Init(y *mat.Dense, sampleWeight []float64, weightedNSamples float64, sampleIndices []int, start, end int) error {
	if err := c.bind("MAECriterion.Init", y, sampleWeight, weightedNSamples, sampleIndices, start, end); err != nil {
		return err
	}

	for k := 0; k < c.nOutputs; k++ {
		c.leftMedians[k].Reset()
		c.rightMedians[k].Reset()
	}
	for p := start; p < end; p++ {
		i := sampleIndices[p]
		w := c.weightOf(i)
		for k := 0; k < c.nOutputs; k++ {
			c.rightMedians[k].Push(c.y[i*c.yStride+k], w)
		}
		c.weightedNNodeSamples += w
	}
	for k := 0; k < c.nOutputs; k++ {
		c.nodeMedians[k] = c.rightMedians[k].GetMedian()
	}

	c.Reset()
	return nil
}

// InitMissing fails for any non-zero count: a median cannot be maintained
// for samples whose side assignment flips per candidate policy.
func (c *MAECriterion) InitMissing(nMissing int) error {
	if nMissing > 0 {
		return sciErrors.NewModelError("MAECriterion.InitMissing",
			"absolute_error cannot split features with missing values",
			sciErrors.ErrMissingNotSupported)
	}
	c.nMissing = 0
	c.weightedNMissing = 0
	return nil
}

// Reset drains every sample back into the right child.
func (c *MAECriterion) Reset() {
	c.pos = c.start
	c.weightedNLeft = 0
	c.weightedNRight = c.weightedNNodeSamples
	for k := 0; k < c.nOutputs; k++ {
		left := &c.leftMedians[k]
		right := &c.rightMedians[k]
		for left.Size() > 0 {
			value, weight, _ := left.Pop()
			right.Push(value, weight)
		}
	}
}

// ReverseReset drains every sample into the left child.
func (c *MAECriterion) ReverseReset() {
	c.pos = c.end
	c.weightedNLeft = c.weightedNNodeSamples
	c.weightedNRight = 0
	for k := 0; k < c.nOutputs; k++ {
		left := &c.leftMedians[k]
		right := &c.rightMedians[k]
		for right.Size() > 0 {
			value, weight, _ := right.Pop()
			left.Push(value, weight)
		}
	}
}

func (c *MAECriterion) Update(newPos int) error {
	if err := c.checkUpdate("MAECriterion.Update", newPos); err != nil {
		return err
	}

	if newPos-c.pos <= c.end-newPos {
		for p := c.pos; p < newPos; p++ {
			i := c.sampleIndices[p]
			w := c.weightOf(i)
			for k := 0; k < c.nOutputs; k++ {
				yik := c.y[i*c.yStride+k]
				c.rightMedians[k].Remove(yik, w)
				c.leftMedians[k].Push(yik, w)
			}
			c.weightedNLeft += w
		}
	} else {
		c.ReverseReset()
		for p := c.end - 1; p >= newPos; p-- {
			i := c.sampleIndices[p]
			w := c.weightOf(i)
			for k := 0; k < c.nOutputs; k++ {
				yik := c.y[i*c.yStride+k]
				c.leftMedians[k].Remove(yik, w)
				c.rightMedians[k].Push(yik, w)
			}
			c.weightedNLeft -= w
		}
	}

	c.weightedNRight = c.weightedNNodeSamples - c.weightedNLeft
	c.pos = newPos
	return nil
}

func (c *MAECriterion) NodeImpurity() float64 {
	impurity := 0.0
	for p := c.start; p < c.end; p++ {
		i := c.sampleIndices[p]
		w := c.weightOf(i)
		for k := 0; k < c.nOutputs; k++ {
			impurity += w * math.Abs(c.y[i*c.yStride+k]-c.nodeMedians[k])
		}
	}
	return impurity / (c.weightedNNodeSamples * float64(c.nOutputs))
}

func (c *MAECriterion) ChildrenImpurity() (left, right float64) {
	for k := 0; k < c.nOutputs; k++ {
		median := c.leftMedians[k].GetMedian()
		for p := c.start; p < c.pos; p++ {
			i := c.sampleIndices[p]
			w := c.weightOf(i)
			left += w * math.Abs(c.y[i*c.yStride+k]-median)
		}
	}
	for k := 0; k < c.nOutputs; k++ {
		median := c.rightMedians[k].GetMedian()
		for p := c.pos; p < c.end; p++ {
			i := c.sampleIndices[p]
			w := c.weightOf(i)
			right += w * math.Abs(c.y[i*c.yStride+k]-median)
		}
	}
	left /= c.weightedNLeft * float64(c.nOutputs)
	right /= c.weightedNRight * float64(c.nOutputs)
	return left, right
}

// NodeValue writes the medians computed at Init; the streaming calculators
// have since been rearranged by Update and are not consulted here.
func (c *MAECriterion) NodeValue(dest []float64) {
	copy(dest, c.nodeMedians)
}

func (c *MAECriterion) ClipNodeValue(dest []float64, lower, upper float64) {
	if dest[0] < lower {
		dest[0] = lower
	} else if dest[0] > upper {
		dest[0] = upper
	}
}

func (c *MAECriterion) ValueSize() int {
	return c.nOutputs
}

func (c *MAECriterion) childValues() (left, right float64) {
	return c.leftMedians[0].GetMedian(), c.rightMedians[0].GetMedian()
}

func (c *MAECriterion) MiddleValue() float64 {
	left, right := c.childValues()
	return (left + right) / 2
}

func (c *MAECriterion) CheckMonotonicity(sign int8, lowerBound, upperBound float64) bool {
	left, right := c.childValues()
	return monotonicityHolds(sign, lowerBound, upperBound, left, right)
}

func (c *MAECriterion) ProxyImpurityImprovement() float64 {
	return proxyFromChildren(c)
}
