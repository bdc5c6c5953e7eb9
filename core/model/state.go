// Package model provides core abstractions shared by all SciTree estimators.
//
// StateManager tracks whether an estimator has been fitted and the data
// dimensions it was trained on. Estimators hold a StateManager by
// composition so the fitted-state checks stay uniform across the library:
//
//	type MyModel struct {
//	    state *model.StateManager
//	}
//
//	func (m *MyModel) Predict(X mat.Matrix) (mat.Matrix, error) {
//	    if !m.state.IsFitted() {
//	        return nil, errors.NewNotFittedError("MyModel", "Predict")
//	    }
//	    ...
package model

// EstimatorState represents the learning state of a model
type EstimatorState int

const (
	// NotFitted indicates the model is not yet trained
	NotFitted EstimatorState = iota
	// Fitted indicates the model has been trained
	Fitted
)

// StateManager tracks fitted state and training dimensions for an estimator.
// Public fields allow gob encoding of models that embed it.
type StateManager struct {
	State     EstimatorState
	NFeatures int // number of features seen during Fit
	NSamples  int // number of samples seen during Fit
}

// NewStateManager creates a StateManager in the NotFitted state.
func NewStateManager() *StateManager {
	return &StateManager{State: NotFitted}
}

// IsFitted returns whether the estimator has been fitted with training data.
func (s *StateManager) IsFitted() bool {
	return s.State == Fitted
}

// SetFitted marks the estimator as fitted. Called by model implementations
// at the end of a successful Fit.
func (s *StateManager) SetFitted() {
	s.State = Fitted
}

// SetDimensions records the training data shape.
func (s *StateManager) SetDimensions(nFeatures, nSamples int) {
	s.NFeatures = nFeatures
	s.NSamples = nSamples
}

// Reset returns the estimator to its initial untrained state.
func (s *StateManager) Reset() {
	s.State = NotFitted
	s.NFeatures = 0
	s.NSamples = 0
}
