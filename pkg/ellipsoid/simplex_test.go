package ellipsoid

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

// bruteForceSimplex projects y onto the simplex by trying every support set
// and keeping the closest feasible candidate
func bruteForceSimplex(y []float64) []float64 {
	m := len(y)
	var best []float64
	bestDist := math.Inf(1)

	for mask := 1; mask < 1<<m; mask++ {
		sum, size := 0.0, 0
		for i := 0; i < m; i++ {
			if mask&(1<<i) != 0 {
				sum += y[i]
				size++
			}
		}
		tau := (sum - 1) / float64(size)

		candidate := make([]float64, m)
		feasible := true
		for i := 0; i < m; i++ {
			if mask&(1<<i) == 0 {
				continue
			}
			candidate[i] = y[i] - tau
			if candidate[i] < -1e-12 {
				feasible = false
				break
			}
		}
		if !feasible {
			continue
		}
		if d := floats.Distance(candidate, y, 2); d < bestDist {
			bestDist = d
			best = candidate
		}
	}
	return best
}

func TestProjectSimplexKnownValues(t *testing.T) {
	tests := []struct {
		name string
		in   []float64
		want []float64
	}{
		{"already on simplex", []float64{0.5, 0.3, 0.2}, []float64{0.5, 0.3, 0.2}},
		{"uniform", []float64{1, 1, 1}, []float64{1.0 / 3, 1.0 / 3, 1.0 / 3}},
		{"dominant", []float64{2, 0, 0}, []float64{1, 0, 0}},
		{"all negative", []float64{-1, -2, -3}, []float64{1, 0, 0}},
		{"shifted", []float64{3, 2.5, -10}, []float64{0.75, 0.25, 0}},
		{"single", []float64{-7}, []float64{1}},
		{"zeros", []float64{0, 0, 0, 0}, []float64{0.25, 0.25, 0.25, 0.25}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ProjectSimplex(tc.in)
			require.Len(t, got, len(tc.want))
			for i := range got {
				assert.InDelta(t, tc.want[i], got[i], 1e-12)
			}
		})
	}
}

func TestProjectSimplexDoesNotModifyInput(t *testing.T) {
	y := []float64{3, -1, 0.5}
	ProjectSimplex(y)
	assert.Equal(t, []float64{3, -1, 0.5}, y)

	assert.Nil(t, ProjectSimplex(nil))
}

func TestProjectSimplexMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for m := 1; m <= 5; m++ {
		for trial := 0; trial < 300; trial++ {
			y := make([]float64, m)
			scale := math.Pow(10, float64(rng.Intn(4)-1))
			for i := range y {
				y[i] = (rng.Float64()*2 - 1) * scale
			}

			got := ProjectSimplex(y)
			want := bruteForceSimplex(y)
			require.NotNil(t, want)

			for i := range got {
				assert.GreaterOrEqual(t, got[i], 0.0)
			}
			assert.InDelta(t, 1.0, floats.Sum(got), 1e-9, "y=%v", y)
			for i := range got {
				assert.InDelta(t, want[i], got[i], 1e-9, "y=%v", y)
			}
		}
	}
}

func TestProjectSimplexIsNearest(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	y := []float64{0.9, -0.4, 1.7}
	s := ProjectSimplex(y)
	d := floats.Distance(s, y, 2)

	// No random point of the simplex is closer
	for trial := 0; trial < 2000; trial++ {
		w := []float64{rng.ExpFloat64(), rng.ExpFloat64(), rng.ExpFloat64()}
		floats.Scale(1/floats.Sum(w), w)
		assert.GreaterOrEqual(t, floats.Distance(w, y, 2), d-1e-12)
	}
}
