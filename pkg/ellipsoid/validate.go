package ellipsoid

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/spatial/kdtree"
)

// treePoint adapts r3.Vector to kdtree.Comparable
type treePoint r3.Vector

// Compare implements the kdtree.Comparable interface
func (p treePoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(treePoint)
	switch d {
	case 0:
		return p.X - q.X
	case 1:
		return p.Y - q.Y
	case 2:
		return p.Z - q.Z
	default:
		panic("illegal dimension")
	}
}

// Dims returns the number of dimensions for the KD-tree
func (p treePoint) Dims() int { return 3 }

// Distance returns the squared Euclidean distance between two points
func (p treePoint) Distance(c kdtree.Comparable) float64 {
	return r3.Vector(p).Sub(r3.Vector(c.(treePoint))).Norm2()
}

// countDistinct counts points that are farther than tolerance from every
// previously kept point. Counting stops once limit is reached.
func countDistinct(points []r3.Vector, tolerance float64, limit int) int {
	tree := &kdtree.Tree{}
	tol2 := tolerance * tolerance
	for _, p := range points {
		if _, dist := tree.Nearest(treePoint(p)); dist <= tol2 {
			continue
		}
		tree.Insert(treePoint(p), false)
		if tree.Count >= limit {
			break
		}
	}
	return tree.Count
}

// validatePoints rejects point sets that cannot support a fit
func validatePoints(points []r3.Vector, params Params) error {
	if len(points) < params.MinPoints {
		return fmt.Errorf("%w: need at least %d points, got %d", ErrInvalidInput, params.MinPoints, len(points))
	}

	for i, p := range points {
		for _, v := range [3]float64{p.X, p.Y, p.Z} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: point %d has non-finite coordinates %v", ErrInvalidInput, i, p)
			}
		}
	}

	if n := countDistinct(points, params.CoincidenceTolerance, params.MinPoints); n < params.MinPoints {
		return fmt.Errorf("%w: only %d distinct points, need %d", ErrInvalidInput, n, params.MinPoints)
	}

	return nil
}
