package svmdemo

import (
	"context"
	"fmt"

	"yashubustudio/svmdemo/internal/svm"
)

// Example is one training instance: the point's normalised coordinates and
// its binary label.
type Example struct {
	Features [2]float64
	Label    int
}

// Model is a trained decision function.
type Model interface {
	Predict(f1, f2 float64) int
	SupportVectorIndices() []int
}

// Trainer turns examples and hyperparameters into a Model. Implementations
// must be deterministic and the returned Model safe for concurrent Predict
// calls.
type Trainer interface {
	Fit(ctx context.Context, examples []Example, req TrainingRequest) (Model, error)
}

// SVMTrainer trains a C-SVC with the internal SMO solver.
type SVMTrainer struct {
	// Eps is the solver stopping tolerance; zero uses the default.
	Eps float64
}

// NewSVMTrainer returns a trainer with the default tolerance.
func NewSVMTrainer() *SVMTrainer {
	return &SVMTrainer{}
}

// Fit implements Trainer.
func (t *SVMTrainer) Fit(ctx context.Context, examples []Example, req TrainingRequest) (Model, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	params, err := t.params(req)
	if err != nil {
		return nil, err
	}
	prob := svm.Problem{
		X: make([][]float64, len(examples)),
		Y: make([]int, len(examples)),
	}
	for i, ex := range examples {
		prob.X[i] = []float64{ex.Features[0], ex.Features[1]}
		prob.Y[i] = ex.Label
	}
	m, err := svm.Train(prob, params)
	if err != nil {
		return nil, fmt.Errorf("train svm: %w", err)
	}
	return &svmModel{m: m}, nil
}

func (t *SVMTrainer) params(req TrainingRequest) (svm.Params, error) {
	p := svm.DefaultParams()
	switch req.Kernel {
	case KernelLinear:
		p.Kernel = svm.Linear
	case KernelRBF:
		p.Kernel = svm.RBF
	case KernelPolynomial:
		p.Kernel = svm.Polynomial
	case KernelSigmoid:
		p.Kernel = svm.Sigmoid
	default:
		return p, fmt.Errorf("unknown kernel %q", req.Kernel)
	}
	p.C = req.Cost
	p.Gamma = req.Gamma
	p.Degree = req.Degree
	if t.Eps > 0 {
		p.Eps = t.Eps
	}
	return p, nil
}

type svmModel struct {
	m *svm.Model
}

func (s *svmModel) Predict(f1, f2 float64) int {
	return s.m.Predict([]float64{f1, f2})
}

func (s *svmModel) SupportVectorIndices() []int {
	return s.m.SupportVectorIndices()
}

func (s *svmModel) String() string {
	return fmt.Sprintf("nSV=%d rho=%.6g iter=%d", s.m.NumSV(), s.m.Rho(), s.m.Iterations())
}
