package svmdemo

import (
	"context"
	"testing"
)

// thresholdModel predicts A left of a vertical line.
type thresholdModel struct{ x float64 }

func (m thresholdModel) Predict(f1, f2 float64) int {
	if f1 < m.x {
		return LabelA.Encode()
	}
	return LabelB.Encode()
}

func (m thresholdModel) SupportVectorIndices() []int { return nil }

// gridTrainer is only accurate for one (cost, gamma) pair.
type gridTrainer struct {
	cost, gamma float64
	seen        []TrainingRequest
}

func (g *gridTrainer) Fit(ctx context.Context, examples []Example, req TrainingRequest) (Model, error) {
	g.seen = append(g.seen, req)
	if req.Cost == g.cost && req.Gamma == g.gamma {
		return thresholdModel{x: 0.5}, nil
	}
	return constModel{label: LabelA.Encode()}, nil
}

func lineExamples(n int) []Example {
	out := make([]Example, n)
	for i := range out {
		x := float64(i) / float64(n)
		l := LabelA
		if x >= 0.5 {
			l = LabelB
		}
		out[i] = Example{Features: [2]float64{x, 0.5}, Label: l.Encode()}
	}
	return out
}

func TestGridSearchPicksBestCell(t *testing.T) {
	tr := &gridTrainer{cost: 2, gamma: 0.5}
	train, validation := SplitExamples(lineExamples(30), 3)
	var reports int
	res, err := GridSearch(context.Background(), tr, train, validation, SearchOptions{
		Costs:  []float64{1, 2, 4},
		Gammas: []float64{0.25, 0.5},
		Report: func(TrainingRequest, Evaluator) { reports++ },
	})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if res.Best.Cost != 2 || res.Best.Gamma != 0.5 || res.Best.Kernel != KernelRBF {
		t.Fatalf("best=%+v", res.Best)
	}
	if res.BestScore.Value() != 100 {
		t.Fatalf("best score=%v", res.BestScore.Value())
	}
	if len(res.Scores) != 2 || len(res.Scores[0]) != 3 {
		t.Fatalf("scores shape %dx%d", len(res.Scores), len(res.Scores[0]))
	}
	if res.Scores[1][1] != 100 || res.Scores[0][0] == 100 {
		t.Fatalf("scores=%v", res.Scores)
	}
	if reports != 6 || len(tr.seen) != 6 {
		t.Fatalf("reports=%d fits=%d", reports, len(tr.seen))
	}
}

func TestGridSearchDefaults(t *testing.T) {
	tr := &gridTrainer{cost: 8, gamma: 8}
	train, validation := SplitExamples(lineExamples(12), 2)
	res, err := GridSearch(context.Background(), tr, train, validation, SearchOptions{})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(res.Costs) != 6 || res.Costs[0] != 0.25 || res.Costs[5] != 8 {
		t.Fatalf("costs=%v", res.Costs)
	}
	if res.Best.Cost != 8 || res.Best.Gamma != 8 {
		t.Fatalf("best=%+v", res.Best)
	}
}

func TestGridSearchRealTrainer(t *testing.T) {
	train, validation := SplitExamples(lineExamples(20), 4)
	res, err := GridSearch(context.Background(), NewSVMTrainer(), train, validation, SearchOptions{
		Costs:  []float64{1, 8},
		Gammas: []float64{1, 8},
	})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if res.BestScore == nil || res.BestScore.Value() <= 0 {
		t.Fatalf("best score=%v", res.BestScore)
	}
	if _, err := PlotSearch(res); err != nil {
		t.Fatalf("plot: %v", err)
	}
}

func TestGridSearchEmptySets(t *testing.T) {
	if _, err := GridSearch(context.Background(), NewSVMTrainer(), nil, lineExamples(2), SearchOptions{}); err == nil {
		t.Fatalf("expected error for empty training set")
	}
	if _, err := GridSearch(context.Background(), NewSVMTrainer(), lineExamples(2), nil, SearchOptions{}); err == nil {
		t.Fatalf("expected error for empty validation set")
	}
}

func TestSplitExamples(t *testing.T) {
	train, validation := SplitExamples(lineExamples(10), 5)
	if len(train) != 8 || len(validation) != 2 {
		t.Fatalf("train=%d validation=%d", len(train), len(validation))
	}
	train, validation = SplitExamples(lineExamples(4), 0)
	if len(train) != 2 || len(validation) != 2 {
		t.Fatalf("k<2: train=%d validation=%d", len(train), len(validation))
	}
}
