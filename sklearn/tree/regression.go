package tree

import (
	"gonum.org/v1/gonum/mat"

	sciErrors "github.com/ezoic/scitree/pkg/errors"
)

// regressionCriterion maintains per-output weighted sums of y plus one
// scalar weighted sum of y^2 across all outputs, which is all the squared
// error family needs.
type regressionCriterion struct {
	baseCriterion

	sqSumTotal float64

	sumTotal   []float64
	sumLeft    []float64
	sumRight   []float64
	sumMissing []float64
}

func newRegressionCriterion(op string, nOutputs, nSamples int) (regressionCriterion, error) {
	if nOutputs <= 0 {
		return regressionCriterion{}, sciErrors.NewValueError(op, "nOutputs must be positive")
	}
	if nSamples <= 0 {
		return regressionCriterion{}, sciErrors.NewValueError(op, "nSamples must be positive")
	}
	return regressionCriterion{
		baseCriterion: newBaseCriterion(nOutputs),
		sumTotal:      make([]float64, nOutputs),
		sumLeft:       make([]float64, nOutputs),
		sumRight:      make([]float64, nOutputs),
		sumMissing:    make([]float64, nOutputs),
	}, nil
}

func (c *regressionCriterion) Init(y *mat.Dense, sampleWeight []float64, weightedNSamples float64, sampleIndices []int, start, end int) error {
	if err := c.bind("RegressionCriterion.Init", y, sampleWeight, weightedNSamples, sampleIndices, start, end); err != nil {
		return err
	}

	zeroFloats(c.sumTotal)
	c.sqSumTotal = 0
	for p := start; p < end; p++ {
		i := sampleIndices[p]
		w := c.weightOf(i)
		for k := 0; k < c.nOutputs; k++ {
			yik := c.y[i*c.yStride+k]
			wy := w * yik
			c.sumTotal[k] += wy
			c.sqSumTotal += wy * yik
		}
		c.weightedNNodeSamples += w
	}

	c.Reset()
	return nil
}

func (c *regressionCriterion) InitMissing(nMissing int) error {
	if nMissing < 0 || nMissing > c.nNodeSamples {
		return sciErrors.NewValueError("RegressionCriterion.InitMissing", "nMissing out of range")
	}

	c.nMissing = nMissing
	c.weightedNMissing = 0
	zeroFloats(c.sumMissing)
	if nMissing == 0 {
		return nil
	}

	for p := c.end - nMissing; p < c.end; p++ {
		i := c.sampleIndices[p]
		w := c.weightOf(i)
		for k := 0; k < c.nOutputs; k++ {
			c.sumMissing[k] += w * c.y[i*c.yStride+k]
		}
		c.weightedNMissing += w
	}
	return nil
}

func (c *regressionCriterion) moveSums(sumDst, sumSrc []float64, weightedDst, weightedSrc *float64, putMissingInDst bool) {
	if c.nMissing != 0 && putMissingInDst {
		copy(sumDst, c.sumMissing)
		*weightedDst = c.weightedNMissing
	} else {
		zeroFloats(sumDst)
		*weightedDst = 0
	}
	for k := range sumSrc {
		sumSrc[k] = c.sumTotal[k] - sumDst[k]
	}
	*weightedSrc = c.weightedNNodeSamples - *weightedDst
}

func (c *regressionCriterion) Reset() {
	c.pos = c.start
	c.moveSums(c.sumLeft, c.sumRight, &c.weightedNLeft, &c.weightedNRight, c.missingGoToLeft)
}

func (c *regressionCriterion) ReverseReset() {
	c.pos = c.end
	c.moveSums(c.sumRight, c.sumLeft, &c.weightedNRight, &c.weightedNLeft, !c.missingGoToLeft)
}

func (c *regressionCriterion) Update(newPos int) error {
	if err := c.checkUpdate("RegressionCriterion.Update", newPos); err != nil {
		return err
	}
	endNonMissing := c.end - c.nMissing

	if newPos-c.pos <= endNonMissing-newPos {
		for p := c.pos; p < newPos; p++ {
			i := c.sampleIndices[p]
			w := c.weightOf(i)
			for k := 0; k < c.nOutputs; k++ {
				c.sumLeft[k] += w * c.y[i*c.yStride+k]
			}
			c.weightedNLeft += w
		}
	} else {
		c.ReverseReset()
		for p := endNonMissing - 1; p >= newPos; p-- {
			i := c.sampleIndices[p]
			w := c.weightOf(i)
			for k := 0; k < c.nOutputs; k++ {
				c.sumLeft[k] -= w * c.y[i*c.yStride+k]
			}
			c.weightedNLeft -= w
		}
	}

	c.weightedNRight = c.weightedNNodeSamples - c.weightedNLeft
	for k := 0; k < c.nOutputs; k++ {
		c.sumRight[k] = c.sumTotal[k] - c.sumLeft[k]
	}
	c.pos = newPos
	return nil
}

// NodeValue writes the weighted mean of y per output.
func (c *regressionCriterion) NodeValue(dest []float64) {
	for k := 0; k < c.nOutputs; k++ {
		dest[k] = c.sumTotal[k] / c.weightedNNodeSamples
	}
}

func (c *regressionCriterion) ClipNodeValue(dest []float64, lower, upper float64) {
	if dest[0] < lower {
		dest[0] = lower
	} else if dest[0] > upper {
		dest[0] = upper
	}
}

func (c *regressionCriterion) ValueSize() int {
	return c.nOutputs
}

func (c *regressionCriterion) childValues() (left, right float64) {
	return c.sumLeft[0] / c.weightedNLeft, c.sumRight[0] / c.weightedNRight
}

func (c *regressionCriterion) MiddleValue() float64 {
	left, right := c.childValues()
	return (left + right) / 2
}

func (c *regressionCriterion) CheckMonotonicity(sign int8, lowerBound, upperBound float64) bool {
	left, right := c.childValues()
	return monotonicityHolds(sign, lowerBound, upperBound, left, right)
}

// MSECriterion measures node impurity with the variance of y
//
//	(sqSum/N_t - sum_k (sum_k/N_t)^2) / nOutputs
//
// i.e. mean squared error against the node mean.
type MSECriterion struct {
	regressionCriterion
}

// NewMSECriterion creates a squared-error criterion for nOutputs outputs
// over at most nSamples samples.
func NewMSECriterion(nOutputs, nSamples int) (*MSECriterion, error) {
	base, err := newRegressionCriterion("NewMSECriterion", nOutputs, nSamples)
	if err != nil {
		return nil, err
	}
	return &MSECriterion{regressionCriterion: base}, nil
}

func (m *MSECriterion) NodeImpurity() float64 {
	impurity := m.sqSumTotal / m.weightedNNodeSamples
	for k := 0; k < m.nOutputs; k++ {
		mean := m.sumTotal[k] / m.weightedNNodeSamples
		impurity -= mean * mean
	}
	return impurity / float64(m.nOutputs)
}

// ProxyImpurityImprovement drops the terms constant across split positions,
// leaving
//
//	sum_k sumLeft_k^2 / N_L + sum_k sumRight_k^2 / N_R
func (m *MSECriterion) ProxyImpurityImprovement() float64 {
	proxyLeft := 0.0
	proxyRight := 0.0
	for k := 0; k < m.nOutputs; k++ {
		proxyLeft += m.sumLeft[k] * m.sumLeft[k]
		proxyRight += m.sumRight[k] * m.sumRight[k]
	}
	return proxyLeft/m.weightedNLeft + proxyRight/m.weightedNRight
}

// ChildrenImpurity recomputes the left squared sum with a one-shot scan of
// [start, pos) rather than a running difference, keeping cancellation error
// out of long sweeps. It is called once per chosen split, not per candidate.
func (m *MSECriterion) ChildrenImpurity() (left, right float64) {
	sqSumLeft := m.sqSumRange(m.start, m.pos)
	if m.missingGoToLeft && m.nMissing > 0 {
		// The trailing missing segment is counted in the left sums.
		sqSumLeft += m.sqSumRange(m.end-m.nMissing, m.end)
	}
	sqSumRight := m.sqSumTotal - sqSumLeft

	left = sqSumLeft / m.weightedNLeft
	right = sqSumRight / m.weightedNRight
	for k := 0; k < m.nOutputs; k++ {
		meanLeft := m.sumLeft[k] / m.weightedNLeft
		meanRight := m.sumRight[k] / m.weightedNRight
		left -= meanLeft * meanLeft
		right -= meanRight * meanRight
	}
	return left / float64(m.nOutputs), right / float64(m.nOutputs)
}

func (m *MSECriterion) sqSumRange(rangeStart, rangeEnd int) float64 {
	sqSum := 0.0
	for p := rangeStart; p < rangeEnd; p++ {
		i := m.sampleIndices[p]
		w := m.weightOf(i)
		for k := 0; k < m.nOutputs; k++ {
			yik := m.y[i*m.yStride+k]
			sqSum += w * yik * yik
		}
	}
	return sqSum
}

// FriedmanMSECriterion keeps MSE's statistics but scores splits with the
// improvement from Friedman (1999), "Greedy function approximation".
type FriedmanMSECriterion struct {
	MSECriterion
}

// NewFriedmanMSECriterion creates a Friedman-MSE criterion for nOutputs
// outputs over at most nSamples samples.
func NewFriedmanMSECriterion(nOutputs, nSamples int) (*FriedmanMSECriterion, error) {
	base, err := NewMSECriterion(nOutputs, nSamples)
	if err != nil {
		return nil, err
	}
	return &FriedmanMSECriterion{MSECriterion: *base}, nil
}

func (f *FriedmanMSECriterion) ProxyImpurityImprovement() float64 {
	totalSumLeft := 0.0
	totalSumRight := 0.0
	for k := 0; k < f.nOutputs; k++ {
		totalSumLeft += f.sumLeft[k]
		totalSumRight += f.sumRight[k]
	}
	diff := f.weightedNRight*totalSumLeft - f.weightedNLeft*totalSumRight
	return diff * diff / (f.weightedNLeft * f.weightedNRight)
}

// ImpurityImprovement ignores the supplied impurities; Friedman's score is
// a function of the child sums alone.
func (f *FriedmanMSECriterion) ImpurityImprovement(parentImpurity, impurityLeft, impurityRight float64) float64 {
	totalSumLeft := 0.0
	totalSumRight := 0.0
	for k := 0; k < f.nOutputs; k++ {
		totalSumLeft += f.sumLeft[k]
		totalSumRight += f.sumRight[k]
	}
	diff := (f.weightedNRight*totalSumLeft - f.weightedNLeft*totalSumRight) / float64(f.nOutputs)
	return diff * diff / (f.weightedNLeft * f.weightedNRight * f.weightedNNodeSamples)
}
