package tree

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestGiniCriterion_BinarySplit(t *testing.T) {
	crit, err := NewGiniCriterion(1, []int{2})
	if err != nil {
		t.Fatal(err)
	}
	y := colDense(0, 0, 1, 1)
	if err := crit.Init(y, nil, 4, idxRange(4), 0, 4); err != nil {
		t.Fatal(err)
	}

	if got := crit.NodeImpurity(); math.Abs(got-0.5) > tol {
		t.Errorf("NodeImpurity() = %v, want 0.5", got)
	}

	if err := crit.Update(2); err != nil {
		t.Fatal(err)
	}
	left, right := crit.ChildrenImpurity()
	if left != 0 || right != 0 {
		t.Errorf("ChildrenImpurity() = (%v, %v), want (0, 0)", left, right)
	}
	if got := crit.ImpurityImprovement(0.5, left, right); math.Abs(got-0.5) > tol {
		t.Errorf("ImpurityImprovement(0.5, 0, 0) = %v, want 0.5", got)
	}
}

func TestEntropyCriterion_NodeImpurity(t *testing.T) {
	crit, err := NewEntropyCriterion(1, []int{2})
	if err != nil {
		t.Fatal(err)
	}
	y := colDense(0, 0, 0, 1)
	if err := crit.Init(y, nil, 4, idxRange(4), 0, 4); err != nil {
		t.Fatal(err)
	}

	want := -(0.75*math.Log(0.75) + 0.25*math.Log(0.25))
	if got := crit.NodeImpurity(); math.Abs(got-want) > tol {
		t.Errorf("NodeImpurity() = %v, want %v", got, want)
	}
}

func TestClassificationCriterion_WeightedHistograms(t *testing.T) {
	crit, err := NewGiniCriterion(1, []int{2})
	if err != nil {
		t.Fatal(err)
	}
	y := colDense(0, 0, 1, 1)
	weights := []float64{3, 1, 1, 3}

	if err := crit.Init(y, weights, 8, idxRange(4), 0, 4); err != nil {
		t.Fatal(err)
	}

	// p0 = p1 = 0.5 by weight, so the node is maximally impure.
	if got := crit.NodeImpurity(); math.Abs(got-0.5) > tol {
		t.Errorf("NodeImpurity() = %v, want 0.5", got)
	}

	if err := crit.Update(2); err != nil {
		t.Fatal(err)
	}
	if got := crit.WeightedNLeft(); got != 4 {
		t.Errorf("WeightedNLeft() = %v, want 4", got)
	}
	left, right := crit.ChildrenImpurity()
	if math.Abs(left) > tol || math.Abs(right) > tol {
		t.Errorf("ChildrenImpurity() = (%v, %v), want pure children", left, right)
	}
}

func TestClassificationCriterion_MultiOutput(t *testing.T) {
	crit, err := NewGiniCriterion(2, []int{2, 3})
	if err != nil {
		t.Fatal(err)
	}
	// Output 0 is binary, output 1 has three classes; the histogram is
	// padded to the larger class count.
	y := mat.NewDense(4, 2, []float64{
		0, 0,
		0, 1,
		1, 2,
		1, 2,
	})
	if err := crit.Init(y, nil, 4, idxRange(4), 0, 4); err != nil {
		t.Fatal(err)
	}

	// Output 0: 1 - 2*(1/2)^2 = 0.5. Output 1: 1 - (1/16 + 1/16 + 1/4) = 0.625.
	want := (0.5 + 0.625) / 2
	if got := crit.NodeImpurity(); math.Abs(got-want) > tol {
		t.Errorf("NodeImpurity() = %v, want %v", got, want)
	}

	value := make([]float64, crit.ValueSize())
	crit.NodeValue(value)
	wantValue := []float64{0.5, 0.5, 0, 0.25, 0.25, 0.5}
	for j, w := range wantValue {
		if math.Abs(value[j]-w) > tol {
			t.Errorf("NodeValue[%d] = %v, want %v", j, value[j], w)
		}
	}
}

func TestClassificationCriterion_ClipNodeValue(t *testing.T) {
	t.Run("binary re-projects the complement", func(t *testing.T) {
		crit, err := NewGiniCriterion(1, []int{2})
		if err != nil {
			t.Fatal(err)
		}
		dest := []float64{0.9, 0.1}
		crit.ClipNodeValue(dest, 0.2, 0.7)
		if dest[0] != 0.7 || math.Abs(dest[1]-0.3) > tol {
			t.Errorf("ClipNodeValue gave %v, want [0.7 0.3]", dest)
		}
	})

	t.Run("non-binary only clamps", func(t *testing.T) {
		crit, err := NewGiniCriterion(1, []int{3})
		if err != nil {
			t.Fatal(err)
		}
		dest := []float64{0.05, 0.55, 0.4}
		crit.ClipNodeValue(dest, 0.1, 1.0)
		if dest[0] != 0.1 {
			t.Errorf("dest[0] = %v, want clamped 0.1", dest[0])
		}
		if dest[1] != 0.55 || dest[2] != 0.4 {
			t.Errorf("non-binary histogram was re-projected: %v", dest)
		}
	})
}

func TestNewClassificationCriterion_Validation(t *testing.T) {
	if _, err := NewGiniCriterion(0, nil); err == nil {
		t.Error("expected error for zero outputs")
	}
	if _, err := NewGiniCriterion(2, []int{2}); err == nil {
		t.Error("expected error for mismatched class counts")
	}
	if _, err := NewEntropyCriterion(1, []int{0}); err == nil {
		t.Error("expected error for empty class count")
	}
}
