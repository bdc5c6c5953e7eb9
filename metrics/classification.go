package metrics

import "gonum.org/v1/gonum/mat"

// Accuracy calculates the fraction of predictions that exactly match the
// true labels.
//
// Parameters:
//   - yTrue: True labels as a column matrix (n×1)
//   - yPred: Predicted labels as a column matrix (n×1)
//
// Returns:
//   - float64: accuracy in [0, 1]
//   - error: nil if successful
func Accuracy(yTrue, yPred mat.Matrix) (float64, error) {
	n, err := checkColumns("Accuracy", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	correct := 0
	for i := 0; i < n; i++ {
		if yTrue.At(i, 0) == yPred.At(i, 0) {
			correct++
		}
	}
	return float64(correct) / float64(n), nil
}
