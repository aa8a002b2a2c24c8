package svmdemo

import (
	"fmt"
	"sync"
)

// PointStore holds the clicked points in insertion order together with
// the indices of the points the last training run picked as support
// vectors.
type PointStore struct {
	mu     sync.RWMutex
	width  int
	height int
	points []LabeledPoint
	sv     []int
}

// NewPointStore creates a store accepting points inside a width x height
// canvas.
func NewPointStore(width, height int) *PointStore {
	return &PointStore{width: width, height: height}
}

// Bounds returns the canvas size the store accepts points for.
func (ps *PointStore) Bounds() (int, int) {
	return ps.width, ps.height
}

// InBounds reports whether (x, y) lies on the canvas.
func (ps *PointStore) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < ps.width && y < ps.height
}

// Add appends a point. Points outside the canvas are ignored and false is
// returned.
func (ps *PointStore) Add(x, y int, label Label) bool {
	if !ps.InBounds(x, y) {
		return false
	}
	ps.mu.Lock()
	ps.points = append(ps.points, LabeledPoint{X: x, Y: y, Label: label})
	ps.mu.Unlock()
	return true
}

// Clear removes all points and support vectors.
func (ps *PointStore) Clear() {
	ps.mu.Lock()
	ps.points = nil
	ps.sv = nil
	ps.mu.Unlock()
}

// Len returns the number of stored points.
func (ps *PointStore) Len() int {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	return len(ps.points)
}

// Points returns a copy of the stored points.
func (ps *PointStore) Points() []LabeledPoint {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	return append([]LabeledPoint(nil), ps.points...)
}

// SupportVectors returns a copy of the support-vector indices.
func (ps *PointStore) SupportVectors() []int {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	return append([]int(nil), ps.sv...)
}

// SupportVectorPoints resolves the support-vector indices to points.
func (ps *PointStore) SupportVectorPoints() []LabeledPoint {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	out := make([]LabeledPoint, 0, len(ps.sv))
	for _, idx := range ps.sv {
		out = append(out, ps.points[idx])
	}
	return out
}

// SetSupportVectors replaces the support-vector set wholesale. Every index
// must refer to a stored point.
func (ps *PointStore) SetSupportVectors(indices []int) error {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	for _, idx := range indices {
		if idx < 0 || idx >= len(ps.points) {
			return fmt.Errorf("support vector index %d outside %d points", idx, len(ps.points))
		}
	}
	ps.sv = append([]int(nil), indices...)
	return nil
}

// ClearSupportVectors empties the support-vector set, keeping the points.
func (ps *PointStore) ClearSupportVectors() {
	ps.mu.Lock()
	ps.sv = nil
	ps.mu.Unlock()
}
