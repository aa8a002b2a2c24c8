package svmdemo

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// Result is the outcome of one training run.
type Result struct {
	Raster         *DecisionRaster
	SupportVectors []int
	Model          Model
}

// Classifier trains a model on a set of points and classifies every pixel
// of a fixed-size canvas with it.
type Classifier struct {
	trainer Trainer
	width   int
	height  int
	workers int
}

// NewClassifier builds a classifier for a width x height canvas. workers
// bounds the number of columns classified concurrently; values below one
// use GOMAXPROCS.
func NewClassifier(trainer Trainer, width, height, workers int) *Classifier {
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Classifier{trainer: trainer, width: width, height: height, workers: workers}
}

// Examples converts points to training examples with coordinates scaled
// into [0, 1).
func (c *Classifier) Examples(points []LabeledPoint) []Example {
	out := make([]Example, len(points))
	for i, p := range points {
		out[i] = Example{
			Features: [2]float64{float64(p.X) / float64(c.width), float64(p.Y) / float64(c.height)},
			Label:    p.Label.Encode(),
		}
	}
	return out
}

// Train fits a model on points and paints the decision raster. It returns
// a nil Result and no error when points is empty. progress, when non-nil,
// is called once per finished column, possibly from several goroutines.
func (c *Classifier) Train(ctx context.Context, points []LabeledPoint, req TrainingRequest, progress func(done, total int)) (*Result, error) {
	if len(points) == 0 {
		return nil, nil
	}
	model, err := c.trainer.Fit(ctx, c.Examples(points), req)
	if err != nil {
		return nil, err
	}
	sv := model.SupportVectorIndices()
	for _, idx := range sv {
		if idx < 0 || idx >= len(points) {
			return nil, fmt.Errorf("trainer returned support vector index %d outside %d examples", idx, len(points))
		}
	}
	raster, err := c.paint(ctx, model, progress)
	if err != nil {
		return nil, err
	}
	return &Result{
		Raster:         raster,
		SupportVectors: append([]int(nil), sv...),
		Model:          model,
	}, nil
}

// paint classifies every pixel. Columns are independent, so they are
// spread over the worker pool; the result does not depend on scheduling.
func (c *Classifier) paint(ctx context.Context, model Model, progress func(done, total int)) (*DecisionRaster, error) {
	raster := NewDecisionRaster(c.width, c.height)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)
	var done atomic.Int64
	for i := 0; i < c.width; i++ {
		col := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fx := float64(col) / float64(c.width)
			for j := 0; j < c.height; j++ {
				fy := float64(j) / float64(c.height)
				raster.set(col, j, DecodeLabel(model.Predict(fx, fy)))
			}
			n := done.Add(1)
			if progress != nil {
				progress(int(n), c.width)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("classify raster: %w", err)
	}
	return raster, nil
}
