// Package tree implements decision-tree estimators on top of an
// incremental impurity criterion engine.
//
// The package splits into two layers. The Criterion implementations
// (Gini, Entropy, MSE, FriedmanMSE, Poisson, Huber, MAE) maintain running
// sufficient statistics so that sweeping a split boundary across a node
// costs amortized constant work per candidate. The Splitter and the
// estimator types (DecisionTreeClassifier, DecisionTreeRegressor) drive
// that engine the way scikit-learn's tree module does: rank candidates by
// a cheap proxy, score only the winner exactly.
package tree

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/scitree/core/model"
	"github.com/ezoic/scitree/core/parallel"
	"github.com/ezoic/scitree/metrics"
	sciErrors "github.com/ezoic/scitree/pkg/errors"
	"github.com/ezoic/scitree/pkg/log"
)

// Parallelization threshold for prediction loops (sequential below this).
const predictParallelThreshold = 1000

// TreeNode represents a node in the decision tree
type TreeNode struct {
	IsLeaf           bool      // Whether this is a leaf node
	Feature          int       // Feature index for split (internal nodes)
	Threshold        float64   // Threshold value for split (internal nodes)
	MissingGoToLeft  bool      // Side receiving missing values (internal nodes)
	Left             *TreeNode // Left child (values <= threshold)
	Right            *TreeNode // Right child (values > threshold)
	Value            []float64 // Leaf prediction written by Criterion.NodeValue
	Impurity         float64   // Node impurity
	NSamples         int       // Number of samples at this node
	WeightedNSamples float64   // Summed sample weight at this node
	Depth            int       // Depth of this node in the tree
}

// treeParams are the hyperparameters shared by both estimators.
type treeParams struct {
	criterion           string
	maxDepth            int // 0 = unlimited
	minSamplesSplit     int
	minSamplesLeaf      int
	minWeightLeaf       float64
	minImpurityDecrease float64
	monotonicCst        []int8
	huberDelta          float64
}

// DecisionTreeClassifier implements a decision tree for classification
type DecisionTreeClassifier struct {
	state  *model.StateManager
	params treeParams
	logger log.Logger

	// Tree structure
	tree_      *TreeNode
	nClasses_  int
	nFeatures_ int
	classes_   []int

	featureImportances_ []float64
}

// DecisionTreeClassifierOption is a functional option
type DecisionTreeClassifierOption func(*DecisionTreeClassifier)

// NewDecisionTreeClassifier creates a new decision tree classifier
func NewDecisionTreeClassifier(opts ...DecisionTreeClassifierOption) *DecisionTreeClassifier {
	dt := &DecisionTreeClassifier{
		state: model.NewStateManager(),
		params: treeParams{
			criterion:       "gini",
			minSamplesSplit: 2,
			minSamplesLeaf:  1,
		},
		logger: log.GetLoggerWithName("tree").With(
			log.ModelNameKey, "DecisionTreeClassifier",
			log.ComponentKey, "sklearn/tree",
		),
	}
	for _, opt := range opts {
		opt(dt)
	}
	return dt
}

// WithCriterion sets the splitting criterion ("gini" or "entropy")
func WithCriterion(criterion string) DecisionTreeClassifierOption {
	return func(dt *DecisionTreeClassifier) {
		dt.params.criterion = criterion
	}
}

// WithMaxDepth sets the maximum tree depth
func WithMaxDepth(depth int) DecisionTreeClassifierOption {
	return func(dt *DecisionTreeClassifier) {
		dt.params.maxDepth = depth
	}
}

// WithMinSamplesSplit sets minimum samples to split
func WithMinSamplesSplit(n int) DecisionTreeClassifierOption {
	return func(dt *DecisionTreeClassifier) {
		dt.params.minSamplesSplit = n
	}
}

// WithMinSamplesLeaf sets minimum samples in leaf
func WithMinSamplesLeaf(n int) DecisionTreeClassifierOption {
	return func(dt *DecisionTreeClassifier) {
		dt.params.minSamplesLeaf = n
	}
}

// WithMinImpurityDecrease sets the minimum impurity decrease for a split
func WithMinImpurityDecrease(d float64) DecisionTreeClassifierOption {
	return func(dt *DecisionTreeClassifier) {
		dt.params.minImpurityDecrease = d
	}
}

// WithMonotonicConstraints sets per-feature monotonicity constraints:
// +1 non-decreasing, -1 non-increasing, 0 unconstrained. For classifiers
// the constraint applies to the probability of the positive class, so it
// requires a binary target.
func WithMonotonicConstraints(cst []int8) DecisionTreeClassifierOption {
	return func(dt *DecisionTreeClassifier) {
		dt.params.monotonicCst = append([]int8(nil), cst...)
	}
}

// Fit trains the decision tree
func (dt *DecisionTreeClassifier) Fit(X, y mat.Matrix) error {
	return dt.FitWeighted(X, y, nil)
}

// FitWeighted trains the decision tree with per-sample weights. A nil
// sampleWeight is equivalent to all-ones.
func (dt *DecisionTreeClassifier) FitWeighted(X, y mat.Matrix, sampleWeight []float64) (err error) {
	defer sciErrors.Recover(&err, "DecisionTreeClassifier.Fit")
	startTime := time.Now()

	nSamples, nFeatures := X.Dims()
	if nSamples == 0 || nFeatures == 0 {
		return sciErrors.NewModelError("DecisionTreeClassifier.Fit", "empty data", sciErrors.ErrEmptyData)
	}
	yRows, yCols := y.Dims()
	if yRows != nSamples {
		return sciErrors.NewDimensionError("DecisionTreeClassifier.Fit", nSamples, yRows, 0)
	}
	if yCols != 1 {
		return sciErrors.NewValueError("DecisionTreeClassifier.Fit", "y must be a column vector")
	}
	if sampleWeight != nil && len(sampleWeight) != nSamples {
		return sciErrors.NewDimensionError("DecisionTreeClassifier.Fit", nSamples, len(sampleWeight), 0)
	}

	dt.logger.Info("Training started",
		log.OperationKey, log.OperationFit,
		log.PhaseKey, log.PhaseTraining,
		log.SamplesKey, nSamples,
		log.FeaturesKey, nFeatures,
	)

	dt.extractClasses(y)
	dt.nFeatures_ = nFeatures
	dt.featureImportances_ = make([]float64, nFeatures)

	if dt.params.monotonicCst != nil && dt.nClasses_ != 2 {
		return sciErrors.NewValueError("DecisionTreeClassifier.Fit",
			"monotonicity constraints require a binary target")
	}

	// Class labels become float64 class indices for the criterion.
	yIndices := mat.NewDense(nSamples, 1, nil)
	for i := 0; i < nSamples; i++ {
		label := int(y.At(i, 0))
		idx := sort.SearchInts(dt.classes_, label)
		yIndices.Set(i, 0, float64(idx))
	}

	criterion, err := newClassificationCriterionByName(dt.params.criterion, 1, []int{dt.nClasses_})
	if err != nil {
		return err
	}
	// Classifier node values track the class-0 proportion, so the
	// requested constraint on the positive class flips sign.
	cst := dt.params.monotonicCst
	if cst != nil {
		flipped := make([]int8, len(cst))
		for i, c := range cst {
			flipped[i] = -c
		}
		cst = flipped
	}
	splitter, err := NewSplitter(criterion, asDense(X), yIndices, sampleWeight,
		dt.params.minSamplesLeaf, dt.params.minWeightLeaf, cst)
	if err != nil {
		return err
	}

	builder := &treeBuilder{splitter: splitter, params: &dt.params, importances: dt.featureImportances_}
	dt.tree_, err = builder.build(0, nSamples, 0, math.Inf(-1), math.Inf(1))
	if err != nil {
		return err
	}

	normalizeImportances(dt.featureImportances_)
	dt.state.SetFitted()
	dt.state.SetDimensions(nFeatures, nSamples)

	dt.logger.Info("Training completed",
		log.OperationKey, log.OperationFit,
		log.PhaseKey, log.PhaseTraining,
		log.DurationMsKey, time.Since(startTime).Milliseconds(),
		log.SamplesKey, nSamples,
		log.FeaturesKey, nFeatures,
	)
	return nil
}

// extractClasses identifies unique class labels
func (dt *DecisionTreeClassifier) extractClasses(y mat.Matrix) {
	rows, _ := y.Dims()
	classMap := make(map[int]bool)
	for i := 0; i < rows; i++ {
		classMap[int(y.At(i, 0))] = true
	}

	dt.classes_ = make([]int, 0, len(classMap))
	for class := range classMap {
		dt.classes_ = append(dt.classes_, class)
	}
	sort.Ints(dt.classes_)
	dt.nClasses_ = len(dt.classes_)
}

// Predict makes predictions for input data
func (dt *DecisionTreeClassifier) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !dt.state.IsFitted() {
		return nil, sciErrors.NewNotFittedError("DecisionTreeClassifier", "Predict")
	}
	probas, err := dt.PredictProba(X)
	if err != nil {
		return nil, err
	}

	nSamples, _ := probas.Dims()
	predictions := mat.NewDense(nSamples, 1, nil)
	for i := 0; i < nSamples; i++ {
		best := 0
		for j := 1; j < dt.nClasses_; j++ {
			if probas.At(i, j) > probas.At(i, best) {
				best = j
			}
		}
		predictions.Set(i, 0, float64(dt.classes_[best]))
	}
	return predictions, nil
}

// PredictProba returns probability estimates for each class
func (dt *DecisionTreeClassifier) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	if !dt.state.IsFitted() {
		return nil, sciErrors.NewNotFittedError("DecisionTreeClassifier", "PredictProba")
	}
	nSamples, nFeatures := X.Dims()
	if nFeatures != dt.nFeatures_ {
		return nil, sciErrors.NewDimensionError("DecisionTreeClassifier.PredictProba", dt.nFeatures_, nFeatures, 1)
	}

	probas := mat.NewDense(nSamples, dt.nClasses_, nil)
	parallel.ParallelizeWithThreshold(nSamples, predictParallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			leaf := traverse(dt.tree_, X, i)
			for j := 0; j < dt.nClasses_; j++ {
				probas.Set(i, j, leaf.Value[j])
			}
		}
	})
	return probas, nil
}

// Score returns the mean accuracy on the given test data
func (dt *DecisionTreeClassifier) Score(X, y mat.Matrix) float64 {
	predictions, err := dt.Predict(X)
	if err != nil {
		return 0.0
	}

	accuracy, err := metrics.Accuracy(y, predictions)
	if err != nil {
		return 0.0
	}
	return accuracy
}

// Classes returns the sorted class labels seen during Fit.
func (dt *DecisionTreeClassifier) Classes() []int {
	return append([]int(nil), dt.classes_...)
}

// GetParams returns the model hyperparameters
func (dt *DecisionTreeClassifier) GetParams() map[string]interface{} {
	return dt.params.asMap()
}

// SetParams sets the model hyperparameters
func (dt *DecisionTreeClassifier) SetParams(params map[string]interface{}) error {
	return dt.params.fromMap("DecisionTreeClassifier.SetParams", params)
}

// GetFeatureImportances returns feature importance scores
func (dt *DecisionTreeClassifier) GetFeatureImportances() []float64 {
	if dt.featureImportances_ == nil {
		return nil
	}
	return append([]float64(nil), dt.featureImportances_...)
}

// GetDepth returns the depth of the tree
func (dt *DecisionTreeClassifier) GetDepth() int {
	return maxDepthOf(dt.tree_)
}

// GetNLeaves returns the number of leaf nodes
func (dt *DecisionTreeClassifier) GetNLeaves() int {
	return countLeaves(dt.tree_)
}

// Tree exposes the root node, mainly for inspection and tests.
func (dt *DecisionTreeClassifier) Tree() *TreeNode {
	return dt.tree_
}

// DecisionTreeRegressor implements a decision tree for regression with a
// choice of impurity criteria: "squared_error", "friedman_mse", "poisson",
// "huber" and "absolute_error".
type DecisionTreeRegressor struct {
	state  *model.StateManager
	params treeParams
	logger log.Logger

	tree_               *TreeNode
	nFeatures_          int
	featureImportances_ []float64
}

// DecisionTreeRegressorOption is a functional option
type DecisionTreeRegressorOption func(*DecisionTreeRegressor)

// NewDecisionTreeRegressor creates a new decision tree regressor
func NewDecisionTreeRegressor(opts ...DecisionTreeRegressorOption) *DecisionTreeRegressor {
	dt := &DecisionTreeRegressor{
		state: model.NewStateManager(),
		params: treeParams{
			criterion:       "squared_error",
			minSamplesSplit: 2,
			minSamplesLeaf:  1,
			huberDelta:      DefaultHuberDelta,
		},
		logger: log.GetLoggerWithName("tree").With(
			log.ModelNameKey, "DecisionTreeRegressor",
			log.ComponentKey, "sklearn/tree",
		),
	}
	for _, opt := range opts {
		opt(dt)
	}
	return dt
}

// WithRegressionCriterion sets the splitting criterion
func WithRegressionCriterion(criterion string) DecisionTreeRegressorOption {
	return func(dt *DecisionTreeRegressor) {
		dt.params.criterion = criterion
	}
}

// WithRegressorMaxDepth sets the maximum tree depth
func WithRegressorMaxDepth(depth int) DecisionTreeRegressorOption {
	return func(dt *DecisionTreeRegressor) {
		dt.params.maxDepth = depth
	}
}

// WithRegressorMinSamplesSplit sets minimum samples to split
func WithRegressorMinSamplesSplit(n int) DecisionTreeRegressorOption {
	return func(dt *DecisionTreeRegressor) {
		dt.params.minSamplesSplit = n
	}
}

// WithRegressorMinSamplesLeaf sets minimum samples in leaf
func WithRegressorMinSamplesLeaf(n int) DecisionTreeRegressorOption {
	return func(dt *DecisionTreeRegressor) {
		dt.params.minSamplesLeaf = n
	}
}

// WithRegressorMinImpurityDecrease sets the minimum impurity decrease
func WithRegressorMinImpurityDecrease(d float64) DecisionTreeRegressorOption {
	return func(dt *DecisionTreeRegressor) {
		dt.params.minImpurityDecrease = d
	}
}

// WithRegressorMonotonicConstraints sets per-feature monotonicity
// constraints on the predicted mean.
func WithRegressorMonotonicConstraints(cst []int8) DecisionTreeRegressorOption {
	return func(dt *DecisionTreeRegressor) {
		dt.params.monotonicCst = append([]int8(nil), cst...)
	}
}

// WithHuberDelta sets the quadratic/linear transition of the "huber"
// criterion.
func WithHuberDelta(delta float64) DecisionTreeRegressorOption {
	return func(dt *DecisionTreeRegressor) {
		dt.params.huberDelta = delta
	}
}

// Fit trains the decision tree
func (dt *DecisionTreeRegressor) Fit(X, y mat.Matrix) error {
	return dt.FitWeighted(X, y, nil)
}

// FitWeighted trains the decision tree with per-sample weights
func (dt *DecisionTreeRegressor) FitWeighted(X, y mat.Matrix, sampleWeight []float64) (err error) {
	defer sciErrors.Recover(&err, "DecisionTreeRegressor.Fit")
	startTime := time.Now()

	nSamples, nFeatures := X.Dims()
	if nSamples == 0 || nFeatures == 0 {
		return sciErrors.NewModelError("DecisionTreeRegressor.Fit", "empty data", sciErrors.ErrEmptyData)
	}
	yRows, yCols := y.Dims()
	if yRows != nSamples {
		return sciErrors.NewDimensionError("DecisionTreeRegressor.Fit", nSamples, yRows, 0)
	}
	if yCols != 1 {
		return sciErrors.NewValueError("DecisionTreeRegressor.Fit", "y must be a column vector")
	}
	if sampleWeight != nil && len(sampleWeight) != nSamples {
		return sciErrors.NewDimensionError("DecisionTreeRegressor.Fit", nSamples, len(sampleWeight), 0)
	}
	if dt.params.criterion == "poisson" {
		sum := 0.0
		for i := 0; i < nSamples; i++ {
			v := y.At(i, 0)
			if v < 0 {
				return sciErrors.NewValueError("DecisionTreeRegressor.Fit",
					"poisson criterion requires non-negative targets")
			}
			sum += v
		}
		if sum <= 0 {
			return sciErrors.NewValueError("DecisionTreeRegressor.Fit",
				"poisson criterion requires a positive target sum")
		}
	}

	dt.logger.Info("Training started",
		log.OperationKey, log.OperationFit,
		log.PhaseKey, log.PhaseTraining,
		log.SamplesKey, nSamples,
		log.FeaturesKey, nFeatures,
	)

	dt.nFeatures_ = nFeatures
	dt.featureImportances_ = make([]float64, nFeatures)

	criterion, err := newRegressionCriterionByName(dt.params.criterion, 1, nSamples, dt.params.huberDelta)
	if err != nil {
		return err
	}
	splitter, err := NewSplitter(criterion, asDense(X), asDense(y), sampleWeight,
		dt.params.minSamplesLeaf, dt.params.minWeightLeaf, dt.params.monotonicCst)
	if err != nil {
		return err
	}

	builder := &treeBuilder{splitter: splitter, params: &dt.params, importances: dt.featureImportances_}
	dt.tree_, err = builder.build(0, nSamples, 0, math.Inf(-1), math.Inf(1))
	if err != nil {
		return err
	}

	normalizeImportances(dt.featureImportances_)
	dt.state.SetFitted()
	dt.state.SetDimensions(nFeatures, nSamples)

	dt.logger.Info("Training completed",
		log.OperationKey, log.OperationFit,
		log.PhaseKey, log.PhaseTraining,
		log.DurationMsKey, time.Since(startTime).Milliseconds(),
		log.SamplesKey, nSamples,
		log.FeaturesKey, nFeatures,
	)
	return nil
}

// Predict returns the predicted target for each row of X
func (dt *DecisionTreeRegressor) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !dt.state.IsFitted() {
		return nil, sciErrors.NewNotFittedError("DecisionTreeRegressor", "Predict")
	}
	nSamples, nFeatures := X.Dims()
	if nFeatures != dt.nFeatures_ {
		return nil, sciErrors.NewDimensionError("DecisionTreeRegressor.Predict", dt.nFeatures_, nFeatures, 1)
	}

	predictions := mat.NewDense(nSamples, 1, nil)
	parallel.ParallelizeWithThreshold(nSamples, predictParallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			leaf := traverse(dt.tree_, X, i)
			predictions.Set(i, 0, leaf.Value[0])
		}
	})
	return predictions, nil
}

// Score returns the coefficient of determination R^2 on the given data
func (dt *DecisionTreeRegressor) Score(X, y mat.Matrix) float64 {
	predictions, err := dt.Predict(X)
	if err != nil {
		return 0.0
	}

	r2, err := metrics.R2Score(y, predictions)
	if err != nil {
		return 0.0
	}
	return r2
}

// GetParams returns the model hyperparameters
func (dt *DecisionTreeRegressor) GetParams() map[string]interface{} {
	return dt.params.asMap()
}

// SetParams sets the model hyperparameters
func (dt *DecisionTreeRegressor) SetParams(params map[string]interface{}) error {
	return dt.params.fromMap("DecisionTreeRegressor.SetParams", params)
}

// GetFeatureImportances returns feature importance scores
func (dt *DecisionTreeRegressor) GetFeatureImportances() []float64 {
	if dt.featureImportances_ == nil {
		return nil
	}
	return append([]float64(nil), dt.featureImportances_...)
}

// GetDepth returns the depth of the tree
func (dt *DecisionTreeRegressor) GetDepth() int {
	return maxDepthOf(dt.tree_)
}

// GetNLeaves returns the number of leaf nodes
func (dt *DecisionTreeRegressor) GetNLeaves() int {
	return countLeaves(dt.tree_)
}

// Tree exposes the root node, mainly for inspection and tests.
func (dt *DecisionTreeRegressor) Tree() *TreeNode {
	return dt.tree_
}

// treeBuilder grows a tree depth-first over the splitter's sample
// permutation.
type treeBuilder struct {
	splitter    *Splitter
	params      *treeParams
	importances []float64
}

func (b *treeBuilder) build(start, end, depth int, lowerBound, upperBound float64) (*TreeNode, error) {
	impurity, value, err := b.splitter.NodeEvaluate(start, end)
	if err != nil {
		return nil, err
	}

	node := &TreeNode{
		Value:            value,
		Impurity:         impurity,
		NSamples:         end - start,
		WeightedNSamples: b.splitter.WeightedNNodeSamples(),
		Depth:            depth,
	}
	if b.params.monotonicCst != nil {
		b.splitter.criterion.ClipNodeValue(node.Value, lowerBound, upperBound)
	}

	if b.shouldStop(end-start, impurity, depth) {
		node.IsLeaf = true
		return node, nil
	}

	rec, ok, err := b.splitter.NodeSplit(start, end, impurity, lowerBound, upperBound)
	if err != nil {
		return nil, err
	}
	if !ok || rec.Improvement < b.params.minImpurityDecrease {
		node.IsLeaf = true
		return node, nil
	}

	node.Feature = rec.Feature
	node.Threshold = rec.Threshold
	node.MissingGoToLeft = rec.MissingGoToLeft
	b.importances[rec.Feature] += rec.Improvement

	// With a monotonic constraint on the split feature, the children may
	// not cross the middle value from opposite sides. The splitter's
	// constraint signs are used because they are expressed in terms of
	// the node values (the classifier flips them for class-0 proportions).
	lowerLeft, upperLeft := lowerBound, upperBound
	lowerRight, upperRight := lowerBound, upperBound
	if b.params.monotonicCst != nil {
		switch b.splitter.monotonicCst[rec.Feature] {
		case 1:
			upperLeft = rec.MiddleValue
			lowerRight = rec.MiddleValue
		case -1:
			lowerLeft = rec.MiddleValue
			upperRight = rec.MiddleValue
		}
	}

	node.Left, err = b.build(start, rec.Pos, depth+1, lowerLeft, upperLeft)
	if err != nil {
		return nil, err
	}
	node.Right, err = b.build(rec.Pos, end, depth+1, lowerRight, upperRight)
	if err != nil {
		return nil, err
	}
	return node, nil
}

func (b *treeBuilder) shouldStop(nSamples int, impurity float64, depth int) bool {
	if b.params.maxDepth > 0 && depth >= b.params.maxDepth {
		return true
	}
	if nSamples < b.params.minSamplesSplit {
		return true
	}
	if nSamples < 2*b.params.minSamplesLeaf {
		return true
	}
	return impurity <= 0.0
}

// traverse walks a sample down to its leaf, routing missing values per
// the split's stored side.
func traverse(node *TreeNode, X mat.Matrix, i int) *TreeNode {
	for !node.IsLeaf {
		x := X.At(i, node.Feature)
		goLeft := x <= node.Threshold
		if math.IsNaN(x) {
			goLeft = node.MissingGoToLeft
		}
		if goLeft {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	return node
}

func maxDepthOf(node *TreeNode) int {
	if node == nil {
		return 0
	}
	if node.IsLeaf {
		return node.Depth
	}
	left := maxDepthOf(node.Left)
	right := maxDepthOf(node.Right)
	if left > right {
		return left
	}
	return right
}

func countLeaves(node *TreeNode) int {
	if node == nil {
		return 0
	}
	if node.IsLeaf {
		return 1
	}
	return countLeaves(node.Left) + countLeaves(node.Right)
}

func normalizeImportances(importances []float64) {
	sum := 0.0
	for _, imp := range importances {
		sum += imp
	}
	if sum > 0 {
		for i := range importances {
			importances[i] /= sum
		}
	}
}

func (p *treeParams) asMap() map[string]interface{} {
	return map[string]interface{}{
		"criterion":             p.criterion,
		"max_depth":             p.maxDepth,
		"min_samples_split":     p.minSamplesSplit,
		"min_samples_leaf":      p.minSamplesLeaf,
		"min_impurity_decrease": p.minImpurityDecrease,
	}
}

func (p *treeParams) fromMap(op string, params map[string]interface{}) error {
	for key, value := range params {
		switch key {
		case "criterion":
			p.criterion = value.(string)
		case "max_depth":
			p.maxDepth = value.(int)
		case "min_samples_split":
			p.minSamplesSplit = value.(int)
		case "min_samples_leaf":
			p.minSamplesLeaf = value.(int)
		case "min_impurity_decrease":
			p.minImpurityDecrease = value.(float64)
		default:
			return sciErrors.NewValueError(op, "unknown parameter: "+key)
		}
	}
	return nil
}

// newClassificationCriterionByName maps a criterion name to its
// implementation.
func newClassificationCriterionByName(name string, nOutputs int, nClasses []int) (Criterion, error) {
	switch name {
	case "gini":
		return NewGiniCriterion(nOutputs, nClasses)
	case "entropy", "log_loss":
		return NewEntropyCriterion(nOutputs, nClasses)
	default:
		return nil, sciErrors.NewModelError("NewDecisionTreeClassifier",
			"unknown criterion "+name, sciErrors.ErrNotImplemented)
	}
}

// newRegressionCriterionByName maps a criterion name to its
// implementation.
func newRegressionCriterionByName(name string, nOutputs, nSamples int, huberDelta float64) (Criterion, error) {
	switch name {
	case "squared_error", "mse":
		return NewMSECriterion(nOutputs, nSamples)
	case "friedman_mse":
		return NewFriedmanMSECriterion(nOutputs, nSamples)
	case "poisson":
		return NewPoissonCriterion(nOutputs, nSamples)
	case "huber":
		return NewHuberCriterion(nOutputs, nSamples, huberDelta)
	case "absolute_error", "mae":
		return NewMAECriterion(nOutputs, nSamples)
	default:
		return nil, sciErrors.NewModelError("NewDecisionTreeRegressor",
			"unknown criterion "+name, sciErrors.ErrNotImplemented)
	}
}

// asDense returns m as *mat.Dense, copying only when necessary.
func asDense(m mat.Matrix) *mat.Dense {
	if d, ok := m.(*mat.Dense); ok {
		return d
	}
	r, c := m.Dims()
	d := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			d.Set(i, j, m.At(i, j))
		}
	}
	return d
}
