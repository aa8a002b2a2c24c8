package svm

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

const (
	lowerBound int8 = iota
	upperBound
	free
)

const tau = 1e-12

// solver is the SMO algorithm of Fan et al., JMLR 6 (2005), restricted to
// C-SVC with equal costs for both classes:
//
//	min 0.5 a^T Q a - e^T a
//	s.t. y^T a = 0, 0 <= a_i <= C
type solver struct {
	l      int
	q      *mat.SymDense
	qd     []float64
	y      []int8
	c      float64
	eps    float64
	alpha  []float64
	status []int8
	g      []float64
}

type solution struct {
	alpha []float64
	rho   float64
	obj   float64
	iter  int
}

func newSolver(q *mat.SymDense, y []int8, c, eps float64) *solver {
	l := len(y)
	s := &solver{
		l:      l,
		q:      q,
		qd:     make([]float64, l),
		y:      y,
		c:      c,
		eps:    eps,
		alpha:  make([]float64, l),
		status: make([]int8, l),
		g:      make([]float64, l),
	}
	for i := 0; i < l; i++ {
		s.qd[i] = q.At(i, i)
		s.g[i] = -1
		s.updateStatus(i)
	}
	return s
}

func (s *solver) updateStatus(i int) {
	switch {
	case s.alpha[i] >= s.c:
		s.status[i] = upperBound
	case s.alpha[i] <= 0:
		s.status[i] = lowerBound
	default:
		s.status[i] = free
	}
}

func (s *solver) isUpper(i int) bool { return s.status[i] == upperBound }
func (s *solver) isLower(i int) bool { return s.status[i] == lowerBound }

func (s *solver) solve() solution {
	maxIter := 100 * s.l
	if maxIter < 10000000 {
		maxIter = 10000000
	}
	iter := 0
	for iter < maxIter {
		i, j, ok := s.selectWorkingSet()
		if !ok {
			break
		}
		iter++
		s.update(i, j)
	}

	var obj float64
	for i := 0; i < s.l; i++ {
		obj += s.alpha[i] * (s.g[i] - 1)
	}
	return solution{
		alpha: append([]float64(nil), s.alpha...),
		rho:   s.calculateRho(),
		obj:   obj / 2,
		iter:  iter,
	}
}

// selectWorkingSet picks the maximal violating pair using second order
// information. ok is false once the KKT gap drops below eps.
func (s *solver) selectWorkingSet() (int, int, bool) {
	gmax := math.Inf(-1)
	gmax2 := math.Inf(-1)
	i := -1
	for t := 0; t < s.l; t++ {
		if s.y[t] == 1 {
			if !s.isUpper(t) && -s.g[t] >= gmax {
				gmax = -s.g[t]
				i = t
			}
		} else {
			if !s.isLower(t) && s.g[t] >= gmax {
				gmax = s.g[t]
				i = t
			}
		}
	}
	if i == -1 {
		return -1, -1, false
	}

	j := -1
	objMin := math.Inf(1)
	for t := 0; t < s.l; t++ {
		qit := s.q.At(i, t)
		if s.y[t] == 1 {
			if s.isLower(t) {
				continue
			}
			diff := gmax + s.g[t]
			if s.g[t] >= gmax2 {
				gmax2 = s.g[t]
			}
			if diff > 0 {
				quad := s.qd[i] + s.qd[t] - 2*float64(s.y[i])*qit
				if quad <= 0 {
					quad = tau
				}
				if v := -(diff * diff) / quad; v <= objMin {
					j = t
					objMin = v
				}
			}
		} else {
			if s.isUpper(t) {
				continue
			}
			diff := gmax - s.g[t]
			if -s.g[t] >= gmax2 {
				gmax2 = -s.g[t]
			}
			if diff > 0 {
				quad := s.qd[i] + s.qd[t] + 2*float64(s.y[i])*qit
				if quad <= 0 {
					quad = tau
				}
				if v := -(diff * diff) / quad; v <= objMin {
					j = t
					objMin = v
				}
			}
		}
	}
	if gmax+gmax2 < s.eps || j == -1 {
		return -1, -1, false
	}
	return i, j, true
}

func (s *solver) update(i, j int) {
	c := s.c
	qij := s.q.At(i, j)
	oldI, oldJ := s.alpha[i], s.alpha[j]

	if s.y[i] != s.y[j] {
		quad := s.qd[i] + s.qd[j] + 2*qij
		if quad <= 0 {
			quad = tau
		}
		delta := (-s.g[i] - s.g[j]) / quad
		diff := s.alpha[i] - s.alpha[j]
		s.alpha[i] += delta
		s.alpha[j] += delta
		if diff > 0 {
			if s.alpha[j] < 0 {
				s.alpha[j] = 0
				s.alpha[i] = diff
			}
		} else if s.alpha[i] < 0 {
			s.alpha[i] = 0
			s.alpha[j] = -diff
		}
		if diff > 0 {
			if s.alpha[i] > c {
				s.alpha[i] = c
				s.alpha[j] = c - diff
			}
		} else if s.alpha[j] > c {
			s.alpha[j] = c
			s.alpha[i] = c + diff
		}
	} else {
		quad := s.qd[i] + s.qd[j] - 2*qij
		if quad <= 0 {
			quad = tau
		}
		delta := (s.g[i] - s.g[j]) / quad
		sum := s.alpha[i] + s.alpha[j]
		s.alpha[i] -= delta
		s.alpha[j] += delta
		if sum > c {
			if s.alpha[i] > c {
				s.alpha[i] = c
				s.alpha[j] = sum - c
			}
			if s.alpha[j] > c {
				s.alpha[j] = c
				s.alpha[i] = sum - c
			}
		} else {
			if s.alpha[j] < 0 {
				s.alpha[j] = 0
				s.alpha[i] = sum
			}
			if s.alpha[i] < 0 {
				s.alpha[i] = 0
				s.alpha[j] = sum
			}
		}
	}

	dI := s.alpha[i] - oldI
	dJ := s.alpha[j] - oldJ
	for k := 0; k < s.l; k++ {
		s.g[k] += s.q.At(i, k)*dI + s.q.At(j, k)*dJ
	}
	s.updateStatus(i)
	s.updateStatus(j)
}

func (s *solver) calculateRho() float64 {
	ub := math.Inf(1)
	lb := math.Inf(-1)
	var sumFree float64
	nrFree := 0
	for i := 0; i < s.l; i++ {
		yg := float64(s.y[i]) * s.g[i]
		switch {
		case s.isUpper(i):
			if s.y[i] == -1 {
				ub = math.Min(ub, yg)
			} else {
				lb = math.Max(lb, yg)
			}
		case s.isLower(i):
			if s.y[i] == 1 {
				ub = math.Min(ub, yg)
			} else {
				lb = math.Max(lb, yg)
			}
		default:
			nrFree++
			sumFree += yg
		}
	}
	if nrFree > 0 {
		return sumFree / float64(nrFree)
	}
	return (ub + lb) / 2
}
