package tree

import (
	"math"

	sciErrors "github.com/ezoic/scitree/pkg/errors"
)

// DefaultHuberDelta is the transition point between the quadratic and
// linear regimes of the Huber loss when none is configured.
const DefaultHuberDelta = 1.0

// HuberCriterion measures node impurity with the Huber loss around the
// node mean: quadratic within delta of the mean, linear beyond it. The
// linear tail keeps single outliers from dominating the split choice the
// way they do under squared error.
type HuberCriterion struct {
	regressionCriterion

	delta float64
}

// NewHuberCriterion creates a Huber criterion for nOutputs outputs over at
// most nSamples samples. delta <= 0 selects DefaultHuberDelta.
func NewHuberCriterion(nOutputs, nSamples int, delta float64) (*HuberCriterion, error) {
	base, err := newRegressionCriterion("NewHuberCriterion", nOutputs, nSamples)
	if err != nil {
		return nil, err
	}
	if math.IsNaN(delta) {
		return nil, sciErrors.NewValueError("NewHuberCriterion", "delta must be a number")
	}
	if delta <= 0 {
		delta = DefaultHuberDelta
	}
	return &HuberCriterion{regressionCriterion: base, delta: delta}, nil
}

// Delta returns the configured quadratic/linear transition point.
func (c *HuberCriterion) Delta() float64 {
	return c.delta
}

func (c *HuberCriterion) NodeImpurity() float64 {
	return c.huberLoss(c.start, c.end, c.sumTotal, c.weightedNNodeSamples, false)
}

func (c *HuberCriterion) ChildrenImpurity() (left, right float64) {
	endNonMissing := c.end - c.nMissing
	left = c.huberLoss(c.start, c.pos, c.sumLeft, c.weightedNLeft, c.missingGoToLeft)
	right = c.huberLoss(c.pos, endNonMissing, c.sumRight, c.weightedNRight, !c.missingGoToLeft)
	return left, right
}

// No closed-form proxy: the loss depends on each sample's distance to the
// child mean, so candidates are ranked through the children impurities.
func (c *HuberCriterion) ProxyImpurityImprovement() float64 {
	return proxyFromChildren(c)
}

// huberLoss scans the sample range against the mean implied by ySum and
// weightSum, normalized by weightSum*nOutputs. plusMissing folds in the
// trailing missing segment for the side that owns it.
func (c *HuberCriterion) huberLoss(rangeStart, rangeEnd int, ySum []float64, weightSum float64, plusMissing bool) float64 {
	loss := 0.0
	for k := 0; k < c.nOutputs; k++ {
		mean := ySum[k] / weightSum
		loss += c.huberLossRange(rangeStart, rangeEnd, k, mean)
		if plusMissing {
			loss += c.huberLossRange(c.end-c.nMissing, c.end, k, mean)
		}
	}
	return loss / (weightSum * float64(c.nOutputs))
}

func (c *HuberCriterion) huberLossRange(rangeStart, rangeEnd, k int, mean float64) float64 {
	loss := 0.0
	for p := rangeStart; p < rangeEnd; p++ {
		i := c.sampleIndices[p]
		w := c.weightOf(i)
		e := c.y[i*c.yStride+k] - mean
		ae := math.Abs(e)
		if ae <= c.delta {
			loss += w * 0.5 * e * e
		} else {
			loss += w * c.delta * (ae - 0.5*c.delta)
		}
	}
	return loss
}
