package ellipsoid

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"segmentation3d/pkg/quadric"
)

// ProgressCallback is called after every solver iteration with the
// iteration number (1-based), the total iteration count and the fixed-point
// residual ‖p_t - p_{t-1}‖₂.
type ProgressCallback func(iteration, total int, residual float64)

// Solution is the output of the Douglas-Rachford iteration
type Solution struct {
	// Coefficients of the fitted quadric, in the coordinates of the solved
	// point set
	Coefficients quadric.Coefficients

	// Iterations actually run
	Iterations int

	// Residual is the fixed-point residual of the last iteration
	Residual float64
}

// Solver runs the Douglas-Rachford splitting between the data-fit proximal
// map and the ellipsoid projection. It runs a fixed number of iterations and
// has no convergence test, so results are fully deterministic.
//
// A Solver holds only read-only state after construction and may be shared
// between goroutines.
type Solver struct {
	prox       *DataFitProx
	iterations int
	progress   ProgressCallback
}

// NewSolver prepares a solver for the regularized matrix M
func NewSolver(m mat.Symmetric, iterations int, progress ProgressCallback) (*Solver, error) {
	if iterations < 1 {
		return nil, fmt.Errorf("%w: iterations must be positive, got %d", ErrInvalidParams, iterations)
	}
	prox, err := NewDataFitProx(m)
	if err != nil {
		return nil, err
	}
	return &Solver{
		prox:       prox,
		iterations: iterations,
		progress:   progress,
	}, nil
}

// Solve iterates from the initial guess p0:
//
//	q ← proxf2(p)
//	p ← p + proxf1(2q - p) - q
//
// and returns the final projection proxf2(q).
func (s *Solver) Solve(p0 quadric.Coefficients) (Solution, error) {
	p := p0
	var q quadric.Coefficients
	var residual float64

	for t := 1; t <= s.iterations; t++ {
		var err error
		q, err = ProjectEllipsoid(p)
		if err != nil {
			return Solution{}, fmt.Errorf("iteration %d: %w", t, err)
		}

		var reflected quadric.Coefficients
		for k := range reflected {
			reflected[k] = 2*q[k] - p[k]
		}

		x, err := s.prox.Apply(reflected)
		if err != nil {
			return Solution{}, fmt.Errorf("iteration %d: %w", t, err)
		}

		prev := p
		for k := range p {
			p[k] += x[k] - q[k]
		}
		residual = floats.Distance(p[:], prev[:], 2)

		if s.progress != nil {
			s.progress(t, s.iterations, residual)
		}
	}

	final, err := ProjectEllipsoid(q)
	if err != nil {
		return Solution{}, fmt.Errorf("final projection: %w", err)
	}

	return Solution{
		Coefficients: final,
		Iterations:   s.iterations,
		Residual:     residual,
	}, nil
}
