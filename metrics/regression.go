// Package metrics provides evaluation metrics for SciTree estimators.
//
// Regression metrics:
//   - MSE: Mean Squared Error
//   - R2Score: coefficient of determination
//
// Classification metrics:
//   - Accuracy: fraction of exactly matching labels
//
// All functions take column matrices (n×1) so estimator Predict output can
// be scored directly.
package metrics

import (
	sciErrors "github.com/ezoic/scitree/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// MSE calculates the Mean Squared Error between true and predicted values.
//
// MSE measures the average squared differences between predictions and
// actual values. Lower values indicate better model performance; MSE is
// sensitive to outliers due to the squared differences.
//
// Parameters:
//   - yTrue: True target values as a column matrix (n×1)
//   - yPred: Predicted values as a column matrix (n×1)
//
// Returns:
//   - float64: MSE value (non-negative)
//   - error: nil if successful
func MSE(yTrue, yPred mat.Matrix) (float64, error) {
	n, err := checkColumns("MSE", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	var sum float64
	for i := 0; i < n; i++ {
		diff := yTrue.At(i, 0) - yPred.At(i, 0)
		sum += diff * diff
	}
	return sum / float64(n), nil
}

// R2Score calculates the coefficient of determination.
//
// R² = 1 - SS_res / SS_tot. The best possible score is 1.0; a model that
// always predicts the mean of y scores 0.0, and worse models go negative.
// A constant target yields 0.0 by convention.
func R2Score(yTrue, yPred mat.Matrix) (float64, error) {
	n, err := checkColumns("R2Score", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	mean := 0.0
	for i := 0; i < n; i++ {
		mean += yTrue.At(i, 0)
	}
	mean /= float64(n)

	ssRes, ssTot := 0.0, 0.0
	for i := 0; i < n; i++ {
		d := yTrue.At(i, 0) - yPred.At(i, 0)
		ssRes += d * d
		t := yTrue.At(i, 0) - mean
		ssTot += t * t
	}
	if ssTot == 0 {
		return 0.0, nil
	}
	return 1.0 - ssRes/ssTot, nil
}

func checkColumns(op string, yTrue, yPred mat.Matrix) (int, error) {
	n, c := yTrue.Dims()
	if n == 0 {
		return 0, sciErrors.NewValueError(op, "empty vector")
	}
	if c != 1 {
		return 0, sciErrors.NewValueError(op, "y must be a column vector")
	}
	np, cp := yPred.Dims()
	if np != n || cp != 1 {
		return 0, sciErrors.NewDimensionError(op, n, np, 0)
	}
	return n, nil
}
