// Package quadric provides the quadric surface representation shared by the
// fitting code and its consumers. A quadric is the implicit surface
//
//	a·x² + b·y² + c·z² + d·xy + e·xz + f·yz + g·x + h·y + i·z + j = 0
//
// stored as a fixed-order array of ten coefficients.
package quadric

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
)

// NumCoefficients is the number of coefficients of a general quadric
const NumCoefficients = 10

// Coefficient indices in the fixed (a..j) order
const (
	A = iota // x²
	B        // y²
	C        // z²
	D        // xy
	E        // xz
	F        // yz
	G        // x
	H        // y
	I        // z
	J        // constant
)

// Names holds the persisted field name of every coefficient, in order
var Names = [NumCoefficients]string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"}

// Coefficients holds the ten coefficients of a quadric in the order a..j.
// It is a value type: copies never alias.
type Coefficients [NumCoefficients]float64

// Monomials returns the ten monomials of p in coefficient order, so that
// Evaluate(p) is the dot product of the coefficients with this vector.
func Monomials(p r3.Vector) [NumCoefficients]float64 {
	return [NumCoefficients]float64{
		p.X * p.X, p.Y * p.Y, p.Z * p.Z,
		p.X * p.Y, p.X * p.Z, p.Y * p.Z,
		p.X, p.Y, p.Z,
		1,
	}
}

// Evaluate returns the value of the implicit function at p
func (c Coefficients) Evaluate(p r3.Vector) float64 {
	m := Monomials(p)
	sum := 0.0
	for k := range c {
		sum += c[k] * m[k]
	}
	return sum
}

// Gradient returns the gradient of the implicit function at p
func (c Coefficients) Gradient(p r3.Vector) r3.Vector {
	return r3.Vector{
		X: 2*c[A]*p.X + c[D]*p.Y + c[E]*p.Z + c[G],
		Y: 2*c[B]*p.Y + c[D]*p.X + c[F]*p.Z + c[H],
		Z: 2*c[C]*p.Z + c[E]*p.X + c[F]*p.Y + c[I],
	}
}

// QuadraticBlock returns the symmetric 3x3 matrix Q of the quadratic part,
// so that the quadratic terms equal xᵀQx. Diagonal entries are a, b, c and
// the off-diagonal entries are d/2, e/2, f/2.
func (c Coefficients) QuadraticBlock() *mat.SymDense {
	return mat.NewSymDense(3, []float64{
		c[A], c[D] / 2, c[E] / 2,
		c[D] / 2, c[B], c[F] / 2,
		c[E] / 2, c[F] / 2, c[C],
	})
}

// WithQuadraticBlock returns a copy of c whose first six coefficients are
// taken from the symmetric matrix q. Off-diagonal entries are doubled when
// packed, the inverse of QuadraticBlock. The linear and constant terms are
// left unchanged.
func (c Coefficients) WithQuadraticBlock(q mat.Symmetric) Coefficients {
	c[A] = q.At(0, 0)
	c[B] = q.At(1, 1)
	c[C] = q.At(2, 2)
	c[D] = 2 * q.At(1, 0)
	c[E] = 2 * q.At(2, 0)
	c[F] = 2 * q.At(2, 1)
	return c
}

// Translate returns the coefficients of the same surface moved by offset,
// i.e. the quadric q' with q'(x) = q(x - offset) for every x. The quadratic
// block is unchanged; the linear and constant terms are obtained by
// substituting x - offset into q and collecting terms.
func (c Coefficients) Translate(offset r3.Vector) Coefficients {
	s := offset.Mul(-1)
	out := c
	out[G] = c[G] + 2*c[A]*s.X + c[D]*s.Y + c[E]*s.Z
	out[H] = c[H] + 2*c[B]*s.Y + c[D]*s.X + c[F]*s.Z
	out[I] = c[I] + 2*c[C]*s.Z + c[E]*s.X + c[F]*s.Y
	out[J] = c.Evaluate(s)
	return out
}

// Scale returns the coefficients multiplied by f. The surface is unchanged
// for any non-zero f.
func (c Coefficients) Scale(f float64) Coefficients {
	for k := range c {
		c[k] *= f
	}
	return c
}

// IsFinite reports whether no coefficient is NaN or infinite
func (c Coefficients) IsFinite() bool {
	for _, v := range c {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Slice returns the coefficients as a newly allocated slice
func (c Coefficients) Slice() []float64 {
	out := make([]float64, NumCoefficients)
	copy(out, c[:])
	return out
}
