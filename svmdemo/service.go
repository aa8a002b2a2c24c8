package svmdemo

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"
)

var (
	// ErrTrainingInProgress is returned by Train while another run is active.
	ErrTrainingInProgress = errors.New("training already in progress")
	// ErrNoPoints is returned by callers that require at least one point.
	ErrNoPoints = errors.New("no points")
)

// TrainResult summarises a finished training run.
type TrainResult struct {
	Request        TrainingRequest
	Points         int
	SupportVectors []int
	Accuracy       float64
	Model          string
	Elapsed        time.Duration
}

// Snapshot is a consistent view of the demo state for rendering.
type Snapshot struct {
	Points         []LabeledPoint
	SupportVectors []int
	Raster         *DecisionRaster
	Training       bool
	Active         Label
}

// Service owns the point store and the decision raster and runs training
// on behalf of the UI and the CLI.
type Service struct {
	classifier *Classifier

	cfgMu sync.RWMutex
	cfg   Config

	mu       sync.RWMutex
	store    *PointStore
	raster   *DecisionRaster
	active   Label
	training bool

	listenersMu sync.Mutex
	listeners   []func()

	logger *log.Logger
}

// NewService constructs a service with the given trainer and configuration.
func NewService(trainer Trainer, cfg Config, logger *log.Logger) (*Service, error) {
	if trainer == nil {
		return nil, errors.New("trainer is required")
	}
	cfg.Sanitize()
	return &Service{
		classifier: NewClassifier(trainer, cfg.Width, cfg.Height, cfg.Workers),
		cfg:        cfg,
		store:      NewPointStore(cfg.Width, cfg.Height),
		active:     LabelA,
		logger:     logger,
	}, nil
}

// Config returns a copy of the current configuration.
func (s *Service) Config() Config {
	s.cfgMu.RLock()
	defer s.cfgMu.RUnlock()
	return s.cfg
}

// UpdateConfig replaces the configuration. The canvas size is fixed for the
// lifetime of the service and is kept.
func (s *Service) UpdateConfig(cfg Config) Config {
	cfg.Sanitize()
	s.cfgMu.Lock()
	cfg.Width = s.cfg.Width
	cfg.Height = s.cfg.Height
	cfg.Workers = s.cfg.Workers
	s.cfg = cfg
	s.cfgMu.Unlock()
	return cfg
}

// Bounds returns the canvas size.
func (s *Service) Bounds() (int, int) {
	return s.store.Bounds()
}

// OnChange registers fn to run after every state change. fn is called
// without any service lock held.
func (s *Service) OnChange(fn func()) {
	s.listenersMu.Lock()
	s.listeners = append(s.listeners, fn)
	s.listenersMu.Unlock()
}

func (s *Service) notify() {
	s.listenersMu.Lock()
	fns := append([]func(){}, s.listeners...)
	s.listenersMu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// SetActiveLabel selects the label used by subsequent AddPoint calls.
func (s *Service) SetActiveLabel(l Label) {
	s.mu.Lock()
	s.active = l
	s.mu.Unlock()
}

// ActiveLabel returns the label used by AddPoint.
func (s *Service) ActiveLabel() Label {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// AddPoint stores a point with the active label. It returns false when the
// point is off the canvas or a training run is reading the points.
func (s *Service) AddPoint(x, y int) bool {
	return s.AddLabeledPoint(x, y, s.ActiveLabel())
}

// AddLabeledPoint stores a point with an explicit label.
func (s *Service) AddLabeledPoint(x, y int, label Label) bool {
	s.mu.Lock()
	if s.training {
		s.mu.Unlock()
		return false
	}
	ok := s.store.Add(x, y, label)
	s.mu.Unlock()
	if ok {
		s.notify()
	}
	return ok
}

// ReplacePoints clears the demo and stores points, skipping those off the
// canvas. It returns how many points were kept.
func (s *Service) ReplacePoints(points []LabeledPoint) (int, error) {
	s.mu.Lock()
	if s.training {
		s.mu.Unlock()
		return 0, ErrTrainingInProgress
	}
	s.store.Clear()
	s.raster = nil
	kept := 0
	for _, p := range points {
		if s.store.Add(p.X, p.Y, p.Label) {
			kept++
		}
	}
	s.mu.Unlock()
	if kept < len(points) {
		w, h := s.Bounds()
		s.logf("Skipped %d points outside the %dx%d canvas", len(points)-kept, w, h)
	}
	s.notify()
	return kept, nil
}

// Clear removes every point, the support vectors and the raster. It
// returns false while training.
func (s *Service) Clear() bool {
	s.mu.Lock()
	if s.training {
		s.mu.Unlock()
		return false
	}
	s.store.Clear()
	s.raster = nil
	s.mu.Unlock()
	s.notify()
	return true
}

// Points returns a copy of the stored points.
func (s *Service) Points() []LabeledPoint {
	return s.store.Points()
}

// SupportVectors returns the support-vector indices of the last run.
func (s *Service) SupportVectors() []int {
	return s.store.SupportVectors()
}

// Examples returns the stored points as training examples.
func (s *Service) Examples() []Example {
	return s.classifier.Examples(s.store.Points())
}

// Raster returns the last decision raster, or nil.
func (s *Service) Raster() *DecisionRaster {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.raster
}

// Training reports whether a run is active.
func (s *Service) Training() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.training
}

// Snapshot returns the points, support vectors and raster as one
// consistent view.
func (s *Service) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Points:         s.store.Points(),
		SupportVectors: s.store.SupportVectors(),
		Raster:         s.raster,
		Training:       s.training,
		Active:         s.active,
	}
}

// Train fits a model on the stored points and replaces the raster and the
// support vectors together. With no points it does nothing. Only one run
// may be active; a second call returns ErrTrainingInProgress.
func (s *Service) Train(ctx context.Context, req TrainingRequest, progress func(done, total int)) (TrainResult, error) {
	s.mu.Lock()
	if s.training {
		s.mu.Unlock()
		return TrainResult{}, ErrTrainingInProgress
	}
	if s.store.Len() == 0 {
		s.mu.Unlock()
		return TrainResult{}, nil
	}
	s.training = true
	s.store.ClearSupportVectors()
	points := s.store.Points()
	s.mu.Unlock()
	s.notify()

	s.logf("Training %s on %d points", req, len(points))
	start := time.Now()
	res, err := s.classifier.Train(ctx, points, req, progress)
	elapsed := time.Since(start)

	s.mu.Lock()
	s.training = false
	if err == nil {
		s.raster = res.Raster
		err = s.store.SetSupportVectors(res.SupportVectors)
	}
	s.mu.Unlock()
	s.notify()
	if err != nil {
		s.logf("Training failed: %v", err)
		return TrainResult{}, fmt.Errorf("train: %w", err)
	}

	acc := Evaluate(res.Model, s.classifier.Examples(points), NewOverallAccuracy)
	out := TrainResult{
		Request:        req,
		Points:         len(points),
		SupportVectors: res.SupportVectors,
		Accuracy:       acc.Value(),
		Elapsed:        elapsed,
	}
	if m, ok := res.Model.(fmt.Stringer); ok {
		out.Model = m.String()
	}
	s.logf("Trained in %.2fs: %d support vectors, %s", elapsed.Seconds(), len(out.SupportVectors), acc)
	return out, nil
}

func (s *Service) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}
