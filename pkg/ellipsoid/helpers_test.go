package ellipsoid

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"

	"segmentation3d/pkg/quadric"
)

// fibonacciDirections returns n polar/azimuth pairs spread evenly over the
// unit sphere
func fibonacciDirections(n int) [][2]float64 {
	golden := math.Pi * (1 + math.Sqrt(5))
	dirs := make([][2]float64, n)
	for i := range dirs {
		theta := math.Acos(1 - 2*(float64(i)+0.5)/float64(n))
		phi := golden * float64(i)
		dirs[i] = [2]float64{theta, phi}
	}
	return dirs
}

// ellipsoidPoints samples n points on the axis-aligned ellipsoid with the
// given semi-axes and center
func ellipsoidPoints(n int, a, b, c float64, center r3.Vector) []r3.Vector {
	points := make([]r3.Vector, 0, n)
	for _, d := range fibonacciDirections(n) {
		theta, phi := d[0], d[1]
		points = append(points, r3.Vector{
			X: center.X + a*math.Sin(theta)*math.Cos(phi),
			Y: center.Y + b*math.Sin(theta)*math.Sin(phi),
			Z: center.Z + c*math.Cos(theta),
		})
	}
	return points
}

// axisPoints returns the six points at distance 1 from the origin along the
// coordinate axes
func axisPoints() []r3.Vector {
	return []r3.Vector{
		{X: 1}, {X: -1},
		{Y: 1}, {Y: -1},
		{Z: 1}, {Z: -1},
	}
}

// blockEigenvalues returns the ascending eigenvalues of the quadratic block
func blockEigenvalues(c quadric.Coefficients) []float64 {
	var eig mat.EigenSym
	if !eig.Factorize(c.QuadraticBlock(), false) {
		panic("eigendecomposition failed")
	}
	return eig.Values(nil)
}
