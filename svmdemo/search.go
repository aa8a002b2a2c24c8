package svmdemo

import (
	"context"
	"errors"
	"fmt"
	"math"
)

// DefaultSearchValues are the cost and gamma values tried by a grid search
// when none are given: 2^-2 .. 2^3.
func DefaultSearchValues() []float64 {
	out := make([]float64, 0, 6)
	for e := -2; e <= 3; e++ {
		out = append(out, math.Pow(2, float64(e)))
	}
	return out
}

// SearchResult is the outcome of a grid search.
type SearchResult struct {
	Best      TrainingRequest
	BestScore Evaluator
	Costs     []float64
	Gammas    []float64
	// Scores[g][c] is the score for Gammas[g] and Costs[c].
	Scores [][]float64
}

// SearchOptions configures GridSearch.
type SearchOptions struct {
	Costs     []float64
	Gammas    []float64
	Evaluator NewEvaluatorFunc
	// Report, when non-nil, is called after every grid cell.
	Report func(req TrainingRequest, score Evaluator)
}

// GridSearch trains an RBF model for every (cost, gamma) pair on train and
// scores it on validation, returning the best pair.
func GridSearch(ctx context.Context, trainer Trainer, train, validation []Example, opts SearchOptions) (*SearchResult, error) {
	if len(train) == 0 {
		return nil, errors.New("grid search: empty training set")
	}
	if len(validation) == 0 {
		return nil, errors.New("grid search: empty validation set")
	}
	costs := opts.Costs
	if len(costs) == 0 {
		costs = DefaultSearchValues()
	}
	gammas := opts.Gammas
	if len(gammas) == 0 {
		gammas = DefaultSearchValues()
	}
	newEval := opts.Evaluator
	if newEval == nil {
		newEval = NewOverallAccuracy
	}

	res := &SearchResult{
		Costs:  append([]float64(nil), costs...),
		Gammas: append([]float64(nil), gammas...),
		Scores: make([][]float64, len(gammas)),
	}
	for gi, gamma := range gammas {
		res.Scores[gi] = make([]float64, len(costs))
		for ci, cost := range costs {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			req := TrainingRequest{Kernel: KernelRBF, Cost: cost, Gamma: gamma}
			model, err := trainer.Fit(ctx, train, req)
			if err != nil {
				return nil, fmt.Errorf("grid search %s: %w", req, err)
			}
			score := Evaluate(model, validation, newEval)
			if score.BetterThan(res.BestScore) {
				res.Best = req
				res.BestScore = score
			}
			res.Scores[gi][ci] = score.Value()
			if opts.Report != nil {
				opts.Report(req, score)
			}
		}
	}
	return res, nil
}

// SplitExamples sends every k-th example to the validation set and the rest
// to the training set. k below two is treated as two.
func SplitExamples(examples []Example, k int) (train, validation []Example) {
	if k < 2 {
		k = 2
	}
	for i, ex := range examples {
		if i%k == k-1 {
			validation = append(validation, ex)
		} else {
			train = append(train, ex)
		}
	}
	return train, validation
}
