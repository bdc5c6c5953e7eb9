package tree

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	sciErrors "github.com/ezoic/scitree/pkg/errors"
)

// SplitRecord describes the best split found for one node.
type SplitRecord struct {
	Feature         int     // feature index the split tests
	Pos             int     // boundary in the reordered sample indices
	Threshold       float64 // x <= Threshold goes left
	Improvement     float64 // exact impurity improvement
	ImpurityLeft    float64
	ImpurityRight   float64
	MiddleValue     float64 // average of the child values for output 0
	NMissing        int  // missing-valued samples for Feature in this node
	MissingGoToLeft bool // side the missing samples were assigned to
}

// Splitter enumerates candidate split positions for a node and drives the
// Criterion boundary sweep. One Splitter serves one Fit call; it owns the
// sample-index permutation the tree builder recurses over.
type Splitter struct {
	criterion Criterion

	x       []float64 // row-major feature buffer
	xStride int
	y       *mat.Dense

	sampleWeight     []float64
	weightedNSamples float64

	sampleIndices []int
	nFeatures     int

	minSamplesLeaf int
	minWeightLeaf  float64

	// monotonicCst holds one entry per feature: -1, 0 or +1. nil means
	// no constraints anywhere.
	monotonicCst []int8

	featureValues []float64 // scratch, aligned with the node's sorted indices
	indexScratch  []int     // scratch for rotating the missing segment
}

// NewSplitter binds the training data for one fit. X and y must have the
// same number of rows; sampleWeight may be nil for unit weights.
func NewSplitter(criterion Criterion, X, y *mat.Dense, sampleWeight []float64, minSamplesLeaf int, minWeightLeaf float64, monotonicCst []int8) (*Splitter, error) {
	nSamples, nFeatures := X.Dims()
	yRows, _ := y.Dims()
	if yRows != nSamples {
		return nil, sciErrors.NewDimensionError("NewSplitter", nSamples, yRows, 0)
	}
	if monotonicCst != nil && len(monotonicCst) != nFeatures {
		return nil, sciErrors.NewDimensionError("NewSplitter", nFeatures, len(monotonicCst), 1)
	}
	if minSamplesLeaf < 1 {
		minSamplesLeaf = 1
	}

	weightedNSamples := 0.0
	sampleIndices := make([]int, nSamples)
	for i := 0; i < nSamples; i++ {
		sampleIndices[i] = i
		if sampleWeight != nil {
			weightedNSamples += sampleWeight[i]
		} else {
			weightedNSamples++
		}
	}

	raw := X.RawMatrix()
	return &Splitter{
		criterion:        criterion,
		x:                raw.Data,
		xStride:          raw.Stride,
		y:                y,
		sampleWeight:     sampleWeight,
		weightedNSamples: weightedNSamples,
		sampleIndices:    sampleIndices,
		nFeatures:        nFeatures,
		minSamplesLeaf:   minSamplesLeaf,
		minWeightLeaf:    minWeightLeaf,
		monotonicCst:     monotonicCst,
		featureValues:    make([]float64, nSamples),
		indexScratch:     make([]int, nSamples),
	}, nil
}

// SampleIndices exposes the index permutation the builder partitions over.
func (s *Splitter) SampleIndices() []int {
	return s.sampleIndices
}

// NodeEvaluate binds the node's samples and returns its impurity and leaf
// value.
func (s *Splitter) NodeEvaluate(start, end int) (impurity float64, value []float64, err error) {
	if err := s.criterion.Init(s.y, s.sampleWeight, s.weightedNSamples, s.sampleIndices, start, end); err != nil {
		return 0, nil, err
	}
	value = make([]float64, s.criterion.ValueSize())
	s.criterion.NodeValue(value)
	return s.criterion.NodeImpurity(), value, nil
}

// WeightedNNodeSamples returns the node weight after NodeEvaluate.
func (s *Splitter) WeightedNNodeSamples() float64 {
	return s.criterion.WeightedNNodeSamples()
}

// NodeSplit finds the best split of [start, end), reorders sampleIndices so
// the left child occupies [start, rec.Pos), and returns the record. ok is
// false when no valid split exists.
func (s *Splitter) NodeSplit(start, end int, parentImpurity, lowerBound, upperBound float64) (rec SplitRecord, ok bool, err error) {
	bestProxy := math.Inf(-1)
	bestFeature := -1
	bestPos := -1
	bestThreshold := 0.0
	bestMissingLeft := false

	// One Init per node visit; the totals are order-independent, so the
	// per-feature re-sorting below only requires fresh missing statistics.
	if err := s.criterion.Init(s.y, s.sampleWeight, s.weightedNSamples, s.sampleIndices, start, end); err != nil {
		return rec, false, err
	}

	for f := 0; f < s.nFeatures; f++ {
		nMissing := s.sortNodeByFeature(f, start, end)
		endNonMissing := end - nMissing
		nNonMissing := endNonMissing - start

		if nNonMissing == 0 {
			continue
		}
		// Constant feature with nothing to route sideways.
		if nMissing == 0 && s.featureValues[0] == s.featureValues[nNonMissing-1] {
			continue
		}

		if err := s.criterion.InitMissing(nMissing); err != nil {
			return rec, false, err
		}

		policies := onePolicy
		if nMissing > 0 {
			policies = bothPolicies
		}
		var sign int8
		if s.monotonicCst != nil {
			sign = s.monotonicCst[f]
		}

		for _, missingLeft := range policies {
			s.criterion.SetMissingGoToLeft(missingLeft)
			s.criterion.Reset()

			for p := start + 1; p <= endNonMissing; p++ {
				j := p - start
				atEnd := p == endNonMissing
				if atEnd {
					// Splitting off the missing segment alone only makes
					// sense when it forms the right child.
					if nMissing == 0 || missingLeft {
						break
					}
				} else if s.featureValues[j] == s.featureValues[j-1] {
					continue
				}

				nLeft := j
				nRight := nNonMissing - j
				if missingLeft {
					nLeft += nMissing
				} else {
					nRight += nMissing
				}
				if nLeft < s.minSamplesLeaf || nRight < s.minSamplesLeaf {
					continue
				}

				if err := s.criterion.Update(p); err != nil {
					return rec, false, err
				}
				if s.criterion.WeightedNLeft() < s.minWeightLeaf ||
					s.criterion.WeightedNRight() < s.minWeightLeaf {
					continue
				}
				if sign != 0 && !s.criterion.CheckMonotonicity(sign, lowerBound, upperBound) {
					continue
				}

				proxy := s.criterion.ProxyImpurityImprovement()
				if proxy <= bestProxy {
					continue
				}

				bestProxy = proxy
				bestFeature = f
				bestPos = p
				bestMissingLeft = missingLeft
				if atEnd {
					bestThreshold = math.Inf(1)
				} else {
					bestThreshold = (s.featureValues[j-1] + s.featureValues[j]) / 2
					if bestThreshold == s.featureValues[j] {
						bestThreshold = s.featureValues[j-1]
					}
				}
			}
		}
	}

	if bestFeature < 0 {
		return rec, false, nil
	}

	// Re-establish the winning feature's order and criterion state, then
	// score it exactly.
	nMissing := s.sortNodeByFeature(bestFeature, start, end)
	if err := s.criterion.InitMissing(nMissing); err != nil {
		return rec, false, err
	}
	s.criterion.SetMissingGoToLeft(bestMissingLeft)
	s.criterion.Reset()
	if err := s.criterion.Update(bestPos); err != nil {
		return rec, false, err
	}

	impurityLeft, impurityRight := s.criterion.ChildrenImpurity()
	rec = SplitRecord{
		Feature:         bestFeature,
		Pos:             bestPos,
		Threshold:       bestThreshold,
		Improvement:     s.criterion.ImpurityImprovement(parentImpurity, impurityLeft, impurityRight),
		ImpurityLeft:    impurityLeft,
		ImpurityRight:   impurityRight,
		MiddleValue:     s.criterion.MiddleValue(),
		NMissing:        nMissing,
		MissingGoToLeft: bestMissingLeft,
	}

	// Make the left child contiguous: with missing routed left, rotate the
	// trailing missing segment in behind the boundary.
	if nMissing > 0 && bestMissingLeft {
		endNonMissing := end - nMissing
		scratch := s.indexScratch[:endNonMissing-bestPos]
		copy(scratch, s.sampleIndices[bestPos:endNonMissing])
		copy(s.sampleIndices[bestPos:], s.sampleIndices[endNonMissing:end])
		copy(s.sampleIndices[bestPos+nMissing:end], scratch)
		rec.Pos = bestPos + nMissing
	}
	return rec, true, nil
}

var (
	onePolicy    = []bool{false}
	bothPolicies = []bool{false, true}
)

// sortNodeByFeature partitions the node's missing-valued samples for
// feature f into the trailing segment, sorts the rest by feature value and
// fills featureValues to match. Returns the missing count.
func (s *Splitter) sortNodeByFeature(f, start, end int) int {
	idx := s.sampleIndices

	// Swap NaNs to the back.
	nMissing := 0
	for p := start; p < end-nMissing; {
		i := idx[p]
		if math.IsNaN(s.x[i*s.xStride+f]) {
			nMissing++
			idx[p], idx[end-nMissing] = idx[end-nMissing], idx[p]
		} else {
			p++
		}
	}

	endNonMissing := end - nMissing
	node := idx[start:endNonMissing]
	sort.Slice(node, func(a, b int) bool {
		return s.x[node[a]*s.xStride+f] < s.x[node[b]*s.xStride+f]
	})
	for j, i := range node {
		s.featureValues[j] = s.x[i*s.xStride+f]
	}
	return nMissing
}
