package ellipsoid

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"segmentation3d/pkg/quadric"
)

// Metrics describes how well a quadric fits the points it was fitted to
type Metrics struct {
	// AlgebraicRMSE is the root mean square of the implicit function over
	// the points. It depends on the coefficient scale; fitted quadrics have a
	// unit-trace quadratic block.
	AlgebraicRMSE float64

	// MeanDistance is the mean Sampson distance |q(p)|/‖∇q(p)‖, a first-order
	// approximation of the Euclidean distance from p to the surface.
	MeanDistance float64

	// MaxDistance is the largest Sampson distance
	MaxDistance float64
}

// ComputeMetrics evaluates the fit quality of c over points
func ComputeMetrics(c quadric.Coefficients, points []r3.Vector) Metrics {
	if len(points) == 0 {
		return Metrics{}
	}

	residuals := make([]float64, len(points))
	distances := make([]float64, len(points))
	for k, p := range points {
		v := c.Evaluate(p)
		residuals[k] = v

		g := c.Gradient(p).Norm()
		if g == 0 {
			distances[k] = math.Inf(1)
			if v == 0 {
				distances[k] = 0
			}
			continue
		}
		distances[k] = math.Abs(v) / g
	}

	return Metrics{
		AlgebraicRMSE: floats.Norm(residuals, 2) / math.Sqrt(float64(len(points))),
		MeanDistance:  stat.Mean(distances, nil),
		MaxDistance:   floats.Max(distances),
	}
}
