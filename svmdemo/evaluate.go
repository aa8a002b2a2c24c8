package svmdemo

import (
	"fmt"
	"math"
)

// Evaluator accumulates (actual, predicted) pairs into a performance score.
// Higher values are better for every implementation in this package.
type Evaluator interface {
	Add(actual, predicted Label)
	Value() float64
	// BetterThan reports whether this result beats other; a nil other is
	// always beaten.
	BetterThan(other Evaluator) bool
	String() string
}

// NewEvaluatorFunc creates a fresh evaluator for each model being scored.
type NewEvaluatorFunc func() Evaluator

func betterThan(e, other Evaluator) bool {
	if other == nil {
		return true
	}
	return e.Value() > other.Value()
}

// OverallAccuracy is the percentage of correctly classified instances.
type OverallAccuracy struct {
	correct int
	total   int
}

func NewOverallAccuracy() Evaluator { return &OverallAccuracy{} }

func (a *OverallAccuracy) Add(actual, predicted Label) {
	a.total++
	if actual == predicted {
		a.correct++
	}
}

func (a *OverallAccuracy) Correct() int { return a.correct }

func (a *OverallAccuracy) Value() float64 {
	if a.total == 0 {
		return 0
	}
	return 100 * float64(a.correct) / float64(a.total)
}

func (a *OverallAccuracy) BetterThan(other Evaluator) bool { return betterThan(a, other) }

func (a *OverallAccuracy) String() string {
	return fmt.Sprintf("Overall accuracy: %.2f%%", a.Value())
}

type classCount struct {
	instances int
	correct   int
}

// GeometricMean is the n-th root of the product of the per-class
// accuracies, grouped by predicted class.
type GeometricMean struct {
	results map[Label]*classCount
}

func NewGeometricMean() Evaluator {
	return &GeometricMean{results: make(map[Label]*classCount)}
}

func (g *GeometricMean) Add(actual, predicted Label) {
	r, ok := g.results[predicted]
	if !ok {
		r = &classCount{}
		g.results[predicted] = r
	}
	r.instances++
	if actual == predicted {
		r.correct++
	}
}

func (g *GeometricMean) Value() float64 {
	if len(g.results) == 0 {
		return 0
	}
	product := 1.0
	for _, r := range g.results {
		product *= float64(r.correct) / float64(r.instances)
	}
	return math.Pow(product, 1/float64(len(g.results)))
}

func (g *GeometricMean) BetterThan(other Evaluator) bool { return betterThan(g, other) }

func (g *GeometricMean) String() string {
	return fmt.Sprintf("Geometric mean: %.4f", g.Value())
}

// ClassPrecision is the share of instances predicted as Label that really
// belong to it.
type ClassPrecision struct {
	Label     Label
	correct   int
	predicted int
}

// NewClassPrecision returns a constructor for precision on label.
func NewClassPrecision(label Label) NewEvaluatorFunc {
	return func() Evaluator { return &ClassPrecision{Label: label} }
}

func (p *ClassPrecision) Add(actual, predicted Label) {
	if predicted != p.Label {
		return
	}
	p.predicted++
	if actual == predicted {
		p.correct++
	}
}

func (p *ClassPrecision) Value() float64 {
	if p.predicted == 0 {
		return 0
	}
	return float64(p.correct) / float64(p.predicted)
}

func (p *ClassPrecision) BetterThan(other Evaluator) bool { return betterThan(p, other) }

func (p *ClassPrecision) String() string {
	return fmt.Sprintf("Precision for label %s: %.4f", p.Label, p.Value())
}

// ClassRecall is the share of instances of Label that were predicted as it.
type ClassRecall struct {
	Label   Label
	correct int
	actual  int
}

// NewClassRecall returns a constructor for recall on label.
func NewClassRecall(label Label) NewEvaluatorFunc {
	return func() Evaluator { return &ClassRecall{Label: label} }
}

func (r *ClassRecall) Add(actual, predicted Label) {
	if actual != r.Label {
		return
	}
	r.actual++
	if actual == predicted {
		r.correct++
	}
}

func (r *ClassRecall) Value() float64 {
	if r.actual == 0 {
		return 0
	}
	return float64(r.correct) / float64(r.actual)
}

func (r *ClassRecall) BetterThan(other Evaluator) bool { return betterThan(r, other) }

func (r *ClassRecall) String() string {
	return fmt.Sprintf("Recall for label %s: %.4f", r.Label, r.Value())
}

// Evaluate scores model on examples with a fresh evaluator from newEval.
func Evaluate(model Model, examples []Example, newEval NewEvaluatorFunc) Evaluator {
	if newEval == nil {
		newEval = NewOverallAccuracy
	}
	e := newEval()
	for _, ex := range examples {
		pred := model.Predict(ex.Features[0], ex.Features[1])
		e.Add(DecodeLabel(ex.Label), DecodeLabel(pred))
	}
	return e
}
