package svm

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// KernelType selects the kernel function used by the solver.
type KernelType int

const (
	Linear KernelType = iota
	Polynomial
	RBF
	Sigmoid
)

func (k KernelType) String() string {
	switch k {
	case Linear:
		return "linear"
	case Polynomial:
		return "polynomial"
	case RBF:
		return "rbf"
	case Sigmoid:
		return "sigmoid"
	}
	return fmt.Sprintf("kernel(%d)", int(k))
}

// Params holds the C-SVC training parameters.
type Params struct {
	Kernel KernelType
	C      float64
	Gamma  float64 // poly/rbf/sigmoid
	Coef0  float64 // poly/sigmoid
	Degree int     // poly
	Eps    float64 // stopping tolerance
}

// DefaultParams mirrors the libsvm defaults used by the demo.
func DefaultParams() Params {
	return Params{
		Kernel: Linear,
		C:      1,
		Gamma:  1,
		Degree: 1,
		Eps:    1e-3,
	}
}

// Validate reports parameter combinations the solver cannot handle. Gamma
// may take any real value.
func (p Params) Validate() error {
	switch p.Kernel {
	case Linear, Polynomial, RBF, Sigmoid:
	default:
		return fmt.Errorf("unknown kernel type %d", int(p.Kernel))
	}
	if p.C <= 0 {
		return fmt.Errorf("C must be positive, got %g", p.C)
	}
	if p.Eps <= 0 {
		return fmt.Errorf("eps must be positive, got %g", p.Eps)
	}
	if p.Kernel == Polynomial && p.Degree < 0 {
		return fmt.Errorf("degree of polynomial kernel must be non-negative, got %d", p.Degree)
	}
	return nil
}

func (p Params) eval(x, y []float64) float64 {
	switch p.Kernel {
	case Linear:
		return floats.Dot(x, y)
	case Polynomial:
		return powi(p.Gamma*floats.Dot(x, y)+p.Coef0, p.Degree)
	case RBF:
		return math.Exp(-p.Gamma * sqDist(x, y))
	case Sigmoid:
		return math.Tanh(p.Gamma*floats.Dot(x, y) + p.Coef0)
	}
	return 0
}

func powi(base float64, times int) float64 {
	tmp := base
	ret := 1.0
	for t := times; t > 0; t /= 2 {
		if t%2 == 1 {
			ret *= tmp
		}
		tmp *= tmp
	}
	return ret
}

func sqDist(x, y []float64) float64 {
	var sum float64
	for i := range x {
		d := x[i] - y[i]
		sum += d * d
	}
	return sum
}

// gram builds Q[i][j] = y_i y_j K(x_i, x_j).
func gram(x [][]float64, y []int8, p Params) *mat.SymDense {
	l := len(x)
	q := mat.NewSymDense(l, nil)
	for i := 0; i < l; i++ {
		for j := i; j < l; j++ {
			q.SetSym(i, j, float64(y[i])*float64(y[j])*p.eval(x[i], x[j]))
		}
	}
	return q
}
