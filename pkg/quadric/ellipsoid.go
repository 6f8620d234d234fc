package quadric

import (
	"errors"
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
)

// ErrNotEllipsoid is returned when a quadric does not describe a real,
// bounded, non-degenerate ellipsoid.
var ErrNotEllipsoid = errors.New("quadric is not an ellipsoid")

// eigenTolerance is the smallest accepted ratio between the smallest and the
// largest eigenvalue of the quadratic block.
const eigenTolerance = 1e-12

// Ellipsoid holds the geometric parameters of an ellipsoidal quadric
type Ellipsoid struct {
	// Center of the ellipsoid
	Center r3.Vector

	// SemiAxes are the semi-axis lengths, largest first
	SemiAxes [3]float64

	// Axes are the unit directions of SemiAxes, in the same order
	Axes [3]r3.Vector
}

// Volume returns the enclosed volume (4/3)·π·a·b·c
func (e Ellipsoid) Volume() float64 {
	return 4.0 / 3.0 * math.Pi * e.SemiAxes[0] * e.SemiAxes[1] * e.SemiAxes[2]
}

// thomsenExponent is the exponent of Knud Thomsen's surface approximation,
// with a relative error of at most about 1.061%
const thomsenExponent = 1.6075

// Surface returns the surface area using Knud Thomsen's approximation
//
//	4π·((aᵖbᵖ + aᵖcᵖ + bᵖcᵖ)/3)^(1/p),  p = 1.6075
//
// which is exact for spheres.
func (e Ellipsoid) Surface() float64 {
	a := math.Pow(e.SemiAxes[0], thomsenExponent)
	b := math.Pow(e.SemiAxes[1], thomsenExponent)
	c := math.Pow(e.SemiAxes[2], thomsenExponent)
	return 4 * math.Pi * math.Pow((a*b+a*c+b*c)/3, 1/thomsenExponent)
}

// Ellipsoid recovers center, semi-axes and axis directions from the
// coefficients. Writing the quadric as xᵀQx + bᵀx + j, the center is
// -½Q⁻¹b and every semi-axis is sqrt(-k/λ) where λ is an eigenvalue of Q and
// k is the value of the quadric at the center.
func (c Coefficients) Ellipsoid() (Ellipsoid, error) {
	if !c.IsFinite() {
		return Ellipsoid{}, fmt.Errorf("%w: non-finite coefficients", ErrNotEllipsoid)
	}

	q := c.QuadraticBlock()
	if mat.Trace(q) < 0 {
		c = c.Scale(-1)
		q = c.QuadraticBlock()
	}

	var eig mat.EigenSym
	if ok := eig.Factorize(q, true); !ok {
		return Ellipsoid{}, fmt.Errorf("%w: eigendecomposition failed", ErrNotEllipsoid)
	}
	values := eig.Values(nil) // ascending
	var vectors mat.Dense
	eig.VectorsTo(&vectors)

	if values[2] <= 0 || values[0] <= eigenTolerance*values[2] {
		return Ellipsoid{}, fmt.Errorf("%w: quadratic block is not positive definite (eigenvalues %v)",
			ErrNotEllipsoid, values)
	}

	// center = -½ U·diag(1/λ)·Uᵀ·b
	b := [3]float64{c[G], c[H], c[I]}
	var center [3]float64
	for k := 0; k < 3; k++ {
		proj := 0.0
		for r := 0; r < 3; r++ {
			proj += vectors.At(r, k) * b[r]
		}
		proj /= values[k]
		for r := 0; r < 3; r++ {
			center[r] -= 0.5 * vectors.At(r, k) * proj
		}
	}

	var e Ellipsoid
	e.Center = r3.Vector{X: center[0], Y: center[1], Z: center[2]}

	level := c.Evaluate(e.Center)
	if level >= 0 {
		return Ellipsoid{}, fmt.Errorf("%w: empty or point set (value %g at center)", ErrNotEllipsoid, level)
	}

	for k := 0; k < 3; k++ {
		e.SemiAxes[k] = math.Sqrt(-level / values[k])
		e.Axes[k] = r3.Vector{X: vectors.At(0, k), Y: vectors.At(1, k), Z: vectors.At(2, k)}
	}

	return e, nil
}
