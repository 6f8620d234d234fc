package quadric

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// axisAligned returns the quadric x²/a² + y²/b² + z²/c² - 1 = 0 moved to center
func axisAligned(a, b, c float64, center r3.Vector) Coefficients {
	base := Coefficients{1 / (a * a), 1 / (b * b), 1 / (c * c), 0, 0, 0, 0, 0, 0, -1}
	return base.Translate(center)
}

func TestEllipsoidAxisAligned(t *testing.T) {
	center := r3.Vector{X: 50, Y: 50, Z: 50}
	c := axisAligned(10, 5, 3, center)

	e, err := c.Ellipsoid()
	require.NoError(t, err)

	assert.InDelta(t, center.X, e.Center.X, 1e-9)
	assert.InDelta(t, center.Y, e.Center.Y, 1e-9)
	assert.InDelta(t, center.Z, e.Center.Z, 1e-9)

	assert.InDelta(t, 10.0, e.SemiAxes[0], 1e-9)
	assert.InDelta(t, 5.0, e.SemiAxes[1], 1e-9)
	assert.InDelta(t, 3.0, e.SemiAxes[2], 1e-9)

	// Largest semi-axis lies along x
	assert.InDelta(t, 1.0, math.Abs(e.Axes[0].X), 1e-9)
	assert.InDelta(t, 1.0, math.Abs(e.Axes[2].Z), 1e-9)

	assert.InDelta(t, 4.0/3.0*math.Pi*150, e.Volume(), 1e-6)
}

func TestEllipsoidScaleInvariant(t *testing.T) {
	c := axisAligned(4, 3, 2, r3.Vector{X: -1, Y: 2, Z: 0.5})

	ref, err := c.Ellipsoid()
	require.NoError(t, err)

	// Any non-zero multiple, including a negative one, describes the same surface
	for _, f := range []float64{1.0 / 3.0, 7, -2} {
		e, err := c.Scale(f).Ellipsoid()
		require.NoError(t, err, "scale %g", f)
		assert.InDelta(t, ref.Center.X, e.Center.X, 1e-9)
		assert.InDelta(t, ref.Center.Y, e.Center.Y, 1e-9)
		assert.InDelta(t, ref.Center.Z, e.Center.Z, 1e-9)
		for k := range ref.SemiAxes {
			assert.InDelta(t, ref.SemiAxes[k], e.SemiAxes[k], 1e-9)
		}
	}
}

func TestEllipsoidRotated(t *testing.T) {
	// x'²/16 + y'²/4 + z² = 1 with x', y' rotated 45° about z
	s := math.Sqrt(0.5)
	a, b := 1.0/16, 1.0/4
	// Q = R·diag(a,b,1)·Rᵀ
	qxx := s*s*a + s*s*b
	qxy := s*s*a - s*s*b
	c := Coefficients{qxx, qxx, 1, 2 * qxy, 0, 0, 0, 0, 0, -1}

	e, err := c.Ellipsoid()
	require.NoError(t, err)

	assert.InDelta(t, 4.0, e.SemiAxes[0], 1e-9)
	assert.InDelta(t, 2.0, e.SemiAxes[1], 1e-9)
	assert.InDelta(t, 1.0, e.SemiAxes[2], 1e-9)
	assert.InDelta(t, s, math.Abs(e.Axes[0].X), 1e-9)
	assert.InDelta(t, s, math.Abs(e.Axes[0].Y), 1e-9)
}

func TestEllipsoidRejectsOtherQuadrics(t *testing.T) {
	tests := []struct {
		name   string
		coeffs Coefficients
	}{
		{"hyperboloid", Coefficients{1, 1, -1, 0, 0, 0, 0, 0, 0, -1}},
		{"cylinder", Coefficients{1, 1, 0, 0, 0, 0, 0, 0, 0, -1}},
		{"paraboloid", Coefficients{1, 1, 0, 0, 0, 0, 0, 0, -1, 0}},
		{"empty", Coefficients{1, 1, 1, 0, 0, 0, 0, 0, 0, 1}},
		{"point", Coefficients{1, 1, 1, 0, 0, 0, 0, 0, 0, 0}},
		{"plane", Coefficients{0, 0, 0, 0, 0, 0, 1, 0, 0, 0}},
		{"nan", Coefficients{math.NaN(), 1, 1, 0, 0, 0, 0, 0, 0, -1}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.coeffs.Ellipsoid()
			assert.ErrorIs(t, err, ErrNotEllipsoid)
		})
	}
}

func TestExpressionEllipsoid(t *testing.T) {
	e := New(axisAligned(2, 2, 2, r3.Vector{X: 1}))

	params, err := e.Ellipsoid()
	require.NoError(t, err)
	assert.InDelta(t, 1.0, params.Center.X, 1e-9)
	assert.InDelta(t, 32.0/3.0*math.Pi, params.Volume(), 1e-9)
}

func TestEllipsoidSurface(t *testing.T) {
	tests := []struct {
		name     string
		semiAxes [3]float64
		want     float64
		epsilon  float64
	}{
		// Exact for spheres
		{"sphere", [3]float64{5, 5, 5}, 4 * math.Pi * 25, 1e-12},
		{"unit sphere", [3]float64{1, 1, 1}, 4 * math.Pi, 1e-12},
		// Closed-form spheroid areas, within the approximation error
		{"prolate", [3]float64{2, 1, 1}, 21.478435327883737, 0.011},
		{"oblate", [3]float64{1, 1, 0.5}, 8.671882703345052, 0.011},
		{"triaxial", [3]float64{10, 5, 3}, 422.3620024070689, 1e-9},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := Ellipsoid{SemiAxes: tc.semiAxes}
			assert.InEpsilon(t, tc.want, e.Surface(), tc.epsilon)
		})
	}
}

func TestEllipsoidSurfaceFromCoefficients(t *testing.T) {
	e, err := axisAligned(4, 4, 4, r3.Vector{X: -3, Y: 7, Z: 1}).Ellipsoid()
	require.NoError(t, err)
	assert.InEpsilon(t, 4*math.Pi*16, e.Surface(), 1e-9)
}
