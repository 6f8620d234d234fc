// Package ellipsoid fits bounded ellipsoids to 3-D point sets.
//
// The fit minimizes the algebraic error ‖Dᵗq‖² of the quadric coefficients q
// over the monomial design matrix D of the points, subject to q describing an
// ellipsoid: its quadratic block must be positive semi-definite with unit
// trace. The problem is solved with a Douglas-Rachford splitting that
// alternates the proximal map of the regularized data-fit term (a linear
// solve with M = I + γ·D·Dᵗ) with the projection onto the ellipsoid
// constraint (an eigenvalue projection onto the probability simplex).
//
// Points are centered on their center of mass before fitting and the result
// is translated back, so the fit is translation covariant. All state is local
// to a call: fits of different point sets can run concurrently.
package ellipsoid

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"runtime"
	"time"

	"github.com/golang/geo/r3"
	"golang.org/x/sync/errgroup"

	"segmentation3d/pkg/quadric"
)

// Default fitting parameters
const (
	DefaultGamma                = 0.01
	DefaultIterations           = 100
	DefaultMinPoints            = 4
	DefaultCoincidenceTolerance = 1e-9
)

// Params holds the fitting parameters. The zero value is not valid; start
// from DefaultParams.
type Params struct {
	// Gamma is the Douglas-Rachford step, weighting the data-fit term
	// against the identity in M = I + γ·K. Must be positive.
	Gamma float64

	// Iterations is the fixed number of Douglas-Rachford iterations
	Iterations int

	// MinPoints is the minimum number of distinct points accepted
	MinPoints int

	// CoincidenceTolerance is the distance under which two points count as
	// the same point when checking for degenerate input
	CoincidenceTolerance float64
}

// DefaultParams returns the default fitting parameters
func DefaultParams() Params {
	return Params{
		Gamma:                DefaultGamma,
		Iterations:           DefaultIterations,
		MinPoints:            DefaultMinPoints,
		CoincidenceTolerance: DefaultCoincidenceTolerance,
	}
}

// Validate checks that the parameters are usable
func (p Params) Validate() error {
	if math.IsNaN(p.Gamma) || math.IsInf(p.Gamma, 0) || p.Gamma <= 0 {
		return fmt.Errorf("%w: gamma must be positive and finite, got %g", ErrInvalidParams, p.Gamma)
	}
	if p.Iterations < 1 {
		return fmt.Errorf("%w: iterations must be positive, got %d", ErrInvalidParams, p.Iterations)
	}
	if p.MinPoints < DefaultMinPoints {
		return fmt.Errorf("%w: minimum point count must be at least %d, got %d",
			ErrInvalidParams, DefaultMinPoints, p.MinPoints)
	}
	if math.IsNaN(p.CoincidenceTolerance) || p.CoincidenceTolerance < 0 {
		return fmt.Errorf("%w: coincidence tolerance must be non-negative, got %g",
			ErrInvalidParams, p.CoincidenceTolerance)
	}
	return nil
}

// Result holds a fitted quadric and the data produced while fitting it
type Result struct {
	// Quadric is the fitted surface in the input coordinates
	Quadric *quadric.Expression

	// Centroid is the center of mass the points were centered on
	Centroid r3.Vector

	// Iterations run by the solver
	Iterations int

	// Residual is the final fixed-point residual of the solver
	Residual float64

	// Metrics describe the fit quality over the input points
	Metrics Metrics
}

// Fitter fits ellipsoids with a fixed set of parameters
type Fitter struct {
	params   Params
	logger   *slog.Logger
	progress ProgressCallback
	workers  int
}

// Option configures a Fitter
type Option func(*Fitter)

// WithLogger sets the logger used for fit diagnostics
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fitter) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithProgress sets a callback invoked after every solver iteration. When
// FitAll runs several fits at once the callback is called concurrently.
func WithProgress(cb ProgressCallback) Option {
	return func(f *Fitter) {
		f.progress = cb
	}
}

// WithWorkers bounds the number of concurrent fits run by FitAll
func WithWorkers(n int) Option {
	return func(f *Fitter) {
		if n > 0 {
			f.workers = n
		}
	}
}

// NewFitter creates a fitter after validating params
func NewFitter(params Params, opts ...Option) (*Fitter, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	f := &Fitter{
		params:  params,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		workers: runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// Params returns the fitting parameters
func (f *Fitter) Params() Params {
	return f.params
}

// Fit fits an ellipsoid to points. The points are not modified.
func (f *Fitter) Fit(points []r3.Vector) (*Result, error) {
	start := time.Now()

	if err := validatePoints(points, f.params); err != nil {
		f.logger.Debug("fit rejected", "points", len(points), "error", err)
		return nil, err
	}

	centroid := CenterOfMass(points)
	centered := make([]r3.Vector, len(points))
	for i, p := range points {
		centered[i] = p.Sub(centroid)
	}

	m := RegularizedMatrix(GramMatrix(DesignMatrix(centered)), f.params.Gamma)
	p0 := InitialGuess(centered)
	if !symIsFinite(m) || !p0.IsFinite() {
		err := fmt.Errorf("%w: point coordinates overflow the normal equations", ErrNumericFailure)
		f.logger.Debug("fit failed", "points", len(points), "error", err)
		return nil, err
	}

	solver, err := NewSolver(m, f.params.Iterations, f.progress)
	if err != nil {
		return nil, err
	}

	sol, err := solver.Solve(p0)
	if err != nil {
		f.logger.Debug("fit failed", "points", len(points), "error", err)
		return nil, err
	}

	coeffs := sol.Coefficients.Translate(centroid)
	if !coeffs.IsFinite() {
		return nil, fmt.Errorf("%w: de-centered coefficients are not finite", ErrNumericFailure)
	}

	result := &Result{
		Quadric:    quadric.New(coeffs),
		Centroid:   centroid,
		Iterations: sol.Iterations,
		Residual:   sol.Residual,
		Metrics:    ComputeMetrics(coeffs, points),
	}

	f.logger.Debug("fit completed",
		"id", result.Quadric.ID(),
		"points", len(points),
		"iterations", sol.Iterations,
		"residual", sol.Residual,
		"mean_distance", result.Metrics.MeanDistance,
		"duration", time.Since(start),
	)

	return result, nil
}

// FitAll fits every point set concurrently, with at most the configured
// number of workers. Results are returned in input order. The first failure
// cancels the remaining fits and is returned.
func (f *Fitter) FitAll(ctx context.Context, sets [][]r3.Vector) ([]*Result, error) {
	results := make([]*Result, len(sets))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(f.workers)

	for i, points := range sets {
		i, points := i, points
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := f.Fit(points)
			if err != nil {
				return fmt.Errorf("point set %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	f.logger.Info("batch fit completed", "sets", len(sets), "workers", f.workers)
	return results, nil
}

// Fit fits an ellipsoid to points with the given parameters and returns the
// fitted quadric in the input coordinates.
func Fit(points []r3.Vector, params Params) (*quadric.Expression, error) {
	f, err := NewFitter(params)
	if err != nil {
		return nil, err
	}
	res, err := f.Fit(points)
	if err != nil {
		return nil, err
	}
	return res.Quadric, nil
}
