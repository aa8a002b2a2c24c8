package svmdemo

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
)

type constModel struct {
	label int
	sv    []int
}

func (m constModel) Predict(f1, f2 float64) int { return m.label }
func (m constModel) SupportVectorIndices() []int { return m.sv }

type fakeTrainer struct {
	model Model
	err   error
	calls atomic.Int32
	// gate, when set, blocks Fit until it is closed.
	gate    chan struct{}
	entered chan struct{}
}

func (f *fakeTrainer) Fit(ctx context.Context, examples []Example, req TrainingRequest) (Model, error) {
	f.calls.Add(1)
	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.gate != nil {
		<-f.gate
	}
	return f.model, f.err
}

func twoPoints(w, h int) []LabeledPoint {
	return []LabeledPoint{
		{X: w / 8, Y: h / 6, Label: LabelA},
		{X: w * 7 / 8, Y: h * 5 / 6, Label: LabelB},
	}
}

func TestClassifierLinearTwoPoints(t *testing.T) {
	c := NewClassifier(NewSVMTrainer(), 80, 60, 4)
	req := TrainingRequest{Kernel: KernelLinear, Cost: 1, Gamma: 1, Degree: 1}
	res, err := c.Train(context.Background(), twoPoints(80, 60), req, nil)
	if err != nil {
		t.Fatalf("train: %v", err)
	}
	if res.Raster.Count(LabelA) == 0 || res.Raster.Count(LabelB) == 0 {
		t.Fatalf("raster has a single class: A=%d B=%d", res.Raster.Count(LabelA), res.Raster.Count(LabelB))
	}
	if res.Raster.Count(LabelA)+res.Raster.Count(LabelB) != 80*60 {
		t.Fatalf("raster does not cover the canvas")
	}
	if res.Raster.At(10, 10) != LabelA || res.Raster.At(70, 50) != LabelB {
		t.Fatalf("training points fall in the wrong regions")
	}
	for y := 0; y < 60; y++ {
		changes := 0
		for x := 1; x < 80; x++ {
			if res.Raster.At(x, y) != res.Raster.At(x-1, y) {
				changes++
			}
		}
		if changes > 1 {
			t.Fatalf("row %d changes colour %d times", y, changes)
		}
	}
	for x := 0; x < 80; x++ {
		changes := 0
		for y := 1; y < 60; y++ {
			if res.Raster.At(x, y) != res.Raster.At(x, y-1) {
				changes++
			}
		}
		if changes > 1 {
			t.Fatalf("column %d changes colour %d times", x, changes)
		}
	}
	if len(res.SupportVectors) == 0 {
		t.Fatalf("no support vectors")
	}
	for _, idx := range res.SupportVectors {
		if idx != 0 && idx != 1 {
			t.Fatalf("support vector index %d out of range", idx)
		}
	}
}

func TestClassifierDeterministic(t *testing.T) {
	points := []LabeledPoint{
		{X: 5, Y: 5, Label: LabelA},
		{X: 20, Y: 8, Label: LabelA},
		{X: 12, Y: 30, Label: LabelB},
		{X: 35, Y: 35, Label: LabelB},
		{X: 30, Y: 4, Label: LabelA},
	}
	for _, k := range Kernels {
		req := TrainingRequest{Kernel: k, Cost: 2, Gamma: 4, Degree: 3}
		first, err := NewClassifier(NewSVMTrainer(), 40, 40, 1).Train(context.Background(), points, req, nil)
		if err != nil {
			t.Fatalf("%s: %v", k, err)
		}
		second, err := NewClassifier(NewSVMTrainer(), 40, 40, 8).Train(context.Background(), points, req, nil)
		if err != nil {
			t.Fatalf("%s: %v", k, err)
		}
		if !first.Raster.Equal(second.Raster) {
			t.Fatalf("%s: rasters differ between runs", k)
		}
		if len(first.SupportVectors) != len(second.SupportVectors) {
			t.Fatalf("%s: support vectors differ: %v vs %v", k, first.SupportVectors, second.SupportVectors)
		}
		for i := range first.SupportVectors {
			if first.SupportVectors[i] != second.SupportVectors[i] {
				t.Fatalf("%s: support vectors differ: %v vs %v", k, first.SupportVectors, second.SupportVectors)
			}
		}
	}
}

func TestClassifierSingleClass(t *testing.T) {
	points := []LabeledPoint{{X: 1, Y: 1, Label: LabelB}, {X: 5, Y: 7, Label: LabelB}}
	req := TrainingRequest{Kernel: KernelRBF, Cost: 1, Gamma: 1}
	res, err := NewClassifier(NewSVMTrainer(), 10, 10, 2).Train(context.Background(), points, req, nil)
	if err != nil {
		t.Fatalf("train: %v", err)
	}
	if res.Raster.Count(LabelB) != 100 {
		t.Fatalf("single-class raster has %d B pixels", res.Raster.Count(LabelB))
	}
}

func TestClassifierEmptyIsNoop(t *testing.T) {
	tr := &fakeTrainer{model: constModel{}}
	res, err := NewClassifier(tr, 10, 10, 1).Train(context.Background(), nil, TrainingRequest{Kernel: KernelLinear, Cost: 1}, nil)
	if err != nil || res != nil {
		t.Fatalf("res=%v err=%v", res, err)
	}
	if tr.calls.Load() != 0 {
		t.Fatalf("trainer called for empty input")
	}
}

func TestClassifierProgress(t *testing.T) {
	tr := &fakeTrainer{model: constModel{label: 1}}
	var calls, last atomic.Int32
	progress := func(done, total int) {
		calls.Add(1)
		if total != 30 {
			t.Errorf("total=%d", total)
		}
		if done == total {
			last.Store(1)
		}
	}
	res, err := NewClassifier(tr, 30, 5, 3).Train(context.Background(), twoPoints(30, 5), TrainingRequest{Kernel: KernelLinear, Cost: 1}, progress)
	if err != nil {
		t.Fatalf("train: %v", err)
	}
	if calls.Load() != 30 || last.Load() != 1 {
		t.Fatalf("progress calls=%d sawLast=%d", calls.Load(), last.Load())
	}
	if res.Raster.Count(LabelA) != 150 {
		t.Fatalf("const model painted %d A pixels", res.Raster.Count(LabelA))
	}
}

func TestClassifierRejectsBadSupportVectors(t *testing.T) {
	tr := &fakeTrainer{model: constModel{sv: []int{5}}}
	_, err := NewClassifier(tr, 10, 10, 1).Train(context.Background(), twoPoints(10, 10), TrainingRequest{Kernel: KernelLinear, Cost: 1}, nil)
	if err == nil {
		t.Fatalf("expected error for out-of-range support vector")
	}
}

func TestClassifierTrainerError(t *testing.T) {
	boom := errors.New("boom")
	tr := &fakeTrainer{err: boom}
	_, err := NewClassifier(tr, 10, 10, 1).Train(context.Background(), twoPoints(10, 10), TrainingRequest{Kernel: KernelLinear, Cost: 1}, nil)
	if !errors.Is(err, boom) {
		t.Fatalf("err=%v, want %v", err, boom)
	}
}

func TestExamplesEncoding(t *testing.T) {
	c := NewClassifier(NewSVMTrainer(), 800, 600, 1)
	ex := c.Examples([]LabeledPoint{{X: 400, Y: 300, Label: LabelA}, {X: 0, Y: 0, Label: LabelB}})
	if ex[0].Features != [2]float64{0.5, 0.5} || ex[0].Label != 1 {
		t.Fatalf("ex[0]=%+v", ex[0])
	}
	if ex[1].Features != [2]float64{0, 0} || ex[1].Label != 0 {
		t.Fatalf("ex[1]=%+v", ex[1])
	}
}

func TestClassifierNegativeGamma(t *testing.T) {
	for _, k := range []Kernel{KernelRBF, KernelSigmoid, KernelPolynomial} {
		req := TrainingRequest{Kernel: k, Cost: 1, Gamma: -1, Degree: 2}
		res, err := NewClassifier(NewSVMTrainer(), 40, 30, 2).Train(context.Background(), twoPoints(40, 30), req, nil)
		if err != nil {
			t.Fatalf("%s: %v", k, err)
		}
		if res.Raster == nil || res.Raster.Count(LabelA)+res.Raster.Count(LabelB) != 40*30 {
			t.Fatalf("%s: raster does not cover the canvas", k)
		}
		for _, idx := range res.SupportVectors {
			if idx != 0 && idx != 1 {
				t.Fatalf("%s: support vector index %d out of range", k, idx)
			}
		}
	}
}
