package ellipsoid

import (
	"math"
	"sort"
)

// ProjectSimplex returns the Euclidean projection of y onto the probability
// simplex {s : s ≥ 0, Σs = 1}. y is not modified.
//
// The values are sorted in descending order and the threshold τ is taken from
// the first prefix k for which (Σ_{i≤k} y_(i) - 1)/k reaches the next sorted
// value, or from the full sum when no prefix does. The projection is then
// max(y - τ, 0) componentwise.
func ProjectSimplex(y []float64) []float64 {
	m := len(y)
	if m == 0 {
		return nil
	}

	sorted := make([]float64, m)
	copy(sorted, y)
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))

	var cumsum, tau float64
	found := false
	for i := 0; i < m-1; i++ {
		cumsum += sorted[i]
		tau = (cumsum - 1) / float64(i+1)
		if tau >= sorted[i+1] {
			found = true
			break
		}
	}
	if !found {
		tau = (cumsum + sorted[m-1] - 1) / float64(m)
	}

	s := make([]float64, m)
	for i, v := range y {
		s[i] = math.Max(v-tau, 0)
	}
	return s
}
