package ellipsoid

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"segmentation3d/pkg/quadric"
)

// coordinates splits points into per-axis columns
func coordinates(points []r3.Vector) (xs, ys, zs []float64) {
	xs = make([]float64, len(points))
	ys = make([]float64, len(points))
	zs = make([]float64, len(points))
	for i, p := range points {
		xs[i], ys[i], zs[i] = p.X, p.Y, p.Z
	}
	return xs, ys, zs
}

// CenterOfMass returns the mean of the points
func CenterOfMass(points []r3.Vector) r3.Vector {
	if len(points) == 0 {
		return r3.Vector{}
	}
	xs, ys, zs := coordinates(points)
	return r3.Vector{
		X: stat.Mean(xs, nil),
		Y: stat.Mean(ys, nil),
		Z: stat.Mean(zs, nil),
	}
}

// DesignMatrix builds the 10×n design matrix whose column k holds the
// monomials (x², y², z², xy, xz, yz, x, y, z, 1) of point k.
func DesignMatrix(points []r3.Vector) *mat.Dense {
	d := mat.NewDense(quadric.NumCoefficients, len(points), nil)
	for k, p := range points {
		m := quadric.Monomials(p)
		for r, v := range m {
			d.Set(r, k, v)
		}
	}
	return d
}

// GramMatrix returns K = D·Dᵗ
func GramMatrix(d mat.Matrix) *mat.SymDense {
	var k mat.SymDense
	k.SymOuterK(1, d)
	return &k
}

// RegularizedMatrix returns M = I + γ·K. For γ > 0 and K positive
// semi-definite, M is positive definite.
func RegularizedMatrix(k mat.Symmetric, gamma float64) *mat.SymDense {
	n := k.SymmetricDim()
	m := mat.NewSymDense(n, nil)
	m.ScaleSym(gamma, k)
	for i := 0; i < n; i++ {
		m.SetSym(i, i, m.At(i, i)+1)
	}
	return m
}

// InitialGuess returns the best-fit sphere used to start the iteration: a
// sphere centered on the center of mass whose squared radius is the summed
// per-axis variance, scaled by 1/3 so that the quadratic block has unit trace.
func InitialGuess(points []r3.Vector) quadric.Coefficients {
	xs, ys, zs := coordinates(points)
	center := CenterOfMass(points)
	radius2 := stat.PopVariance(xs, nil) + stat.PopVariance(ys, nil) + stat.PopVariance(zs, nil)

	return quadric.Coefficients{
		1.0 / 3.0, 1.0 / 3.0, 1.0 / 3.0,
		0, 0, 0,
		-2 * center.X / 3.0, -2 * center.Y / 3.0, -2 * center.Z / 3.0,
		(center.Norm2() - radius2) / 3.0,
	}
}

// symIsFinite reports whether every entry of m is finite. Coordinates near
// the float64 range overflow in the fourth-order sums of K.
func symIsFinite(m mat.Symmetric) bool {
	n := m.SymmetricDim()
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			if v := m.At(i, j); math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
	}
	return true
}
