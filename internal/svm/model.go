// Package svm is a small two-class C-SVC trainer and predictor for dense
// feature vectors. Training is deterministic: identical problems and
// parameters always yield identical models.
package svm

import (
	"errors"
	"fmt"
	"sort"
)

// Problem is a labelled training set. X[i] is the feature vector of the
// i-th example and Y[i] its integer class label.
type Problem struct {
	X [][]float64
	Y []int
}

// Model is a trained decision function.
type Model struct {
	params    Params
	labels    []int
	sv        [][]float64
	coef      []float64
	rho       float64
	svIndices []int
	iter      int
}

// Train fits a C-SVC on prob. At most two distinct labels are supported;
// a problem with a single label yields a constant model with no support
// vectors.
func Train(prob Problem, p Params) (*Model, error) {
	if len(prob.X) == 0 {
		return nil, errors.New("empty problem")
	}
	if len(prob.X) != len(prob.Y) {
		return nil, fmt.Errorf("problem size mismatch: %d vectors, %d labels", len(prob.X), len(prob.Y))
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	dim := len(prob.X[0])
	for i, x := range prob.X {
		if len(x) != dim {
			return nil, fmt.Errorf("vector %d has dimension %d, want %d", i, len(x), dim)
		}
	}

	labels := groupLabels(prob.Y)
	if len(labels) > 2 {
		return nil, fmt.Errorf("%d classes found, only two-class problems are supported", len(labels))
	}
	m := &Model{params: p, labels: labels}
	if len(labels) == 1 {
		return m, nil
	}

	y := make([]int8, len(prob.Y))
	for i, lab := range prob.Y {
		if lab == labels[0] {
			y[i] = 1
		} else {
			y[i] = -1
		}
	}
	sol := newSolver(gram(prob.X, y, p), y, p.C, p.Eps).solve()

	m.rho = sol.rho
	m.iter = sol.iter
	for i, a := range sol.alpha {
		if a <= 0 {
			continue
		}
		m.sv = append(m.sv, append([]float64(nil), prob.X[i]...))
		m.coef = append(m.coef, float64(y[i])*a)
		m.svIndices = append(m.svIndices, i)
	}
	return m, nil
}

// groupLabels returns the distinct labels in order of first appearance,
// the same ordering libsvm uses to decide which class is positive.
func groupLabels(y []int) []int {
	var labels []int
	seen := make(map[int]struct{})
	for _, lab := range y {
		if _, ok := seen[lab]; ok {
			continue
		}
		seen[lab] = struct{}{}
		labels = append(labels, lab)
	}
	return labels
}

// DecisionValue returns the signed distance-like value of x; positive
// values select Labels()[0].
func (m *Model) DecisionValue(x []float64) float64 {
	if len(m.labels) < 2 {
		return 0
	}
	sum := -m.rho
	for i, sv := range m.sv {
		sum += m.coef[i] * m.params.eval(sv, x)
	}
	return sum
}

// Predict returns the label assigned to x.
func (m *Model) Predict(x []float64) int {
	if len(m.labels) == 1 {
		return m.labels[0]
	}
	if m.DecisionValue(x) > 0 {
		return m.labels[0]
	}
	return m.labels[1]
}

// SupportVectorIndices returns the indices of the training examples that
// ended up as support vectors, in ascending order.
func (m *Model) SupportVectorIndices() []int {
	out := append([]int(nil), m.svIndices...)
	sort.Ints(out)
	return out
}

func (m *Model) Labels() []int { return append([]int(nil), m.labels...) }
func (m *Model) NumSV() int { return len(m.sv) }
func (m *Model) Rho() float64 { return m.rho }
func (m *Model) Iterations() int { return m.iter }
func (m *Model) Params() Params { return m.params }
