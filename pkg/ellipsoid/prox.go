package ellipsoid

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"segmentation3d/pkg/quadric"
)

// DataFitProx is the proximal map of the quadratic data-fit term, x = M⁻¹v.
// M is factorized once on construction and reused for every application.
type DataFitProx struct {
	chol mat.Cholesky
}

// NewDataFitProx factorizes the regularized matrix M. It fails with
// ErrSingularSystem when M is not symmetric positive definite.
func NewDataFitProx(m mat.Symmetric) (*DataFitProx, error) {
	if n := m.SymmetricDim(); n != quadric.NumCoefficients {
		return nil, fmt.Errorf("%w: expected %dx%d matrix, got %dx%d",
			ErrSingularSystem, quadric.NumCoefficients, quadric.NumCoefficients, n, n)
	}

	p := &DataFitProx{}
	if ok := p.chol.Factorize(m); !ok {
		return nil, fmt.Errorf("%w: regularized matrix is not positive definite", ErrSingularSystem)
	}
	return p, nil
}

// Apply solves M·x = v
func (p *DataFitProx) Apply(v quadric.Coefficients) (quadric.Coefficients, error) {
	var x mat.VecDense
	if err := p.chol.SolveVecTo(&x, mat.NewVecDense(quadric.NumCoefficients, v[:])); err != nil {
		// A mat.Condition error still yields a solution, but one that cannot
		// be trusted.
		return quadric.Coefficients{}, fmt.Errorf("%w: %v", ErrSingularSystem, err)
	}

	var out quadric.Coefficients
	for k := range out {
		out[k] = x.AtVec(k)
	}
	return out, nil
}

// ProjectEllipsoid is the proximal map of the ellipsoid constraint. The
// quadratic block of q is eigendecomposed, its eigenvalues are projected onto
// the probability simplex and the block is rebuilt from the projected values.
// The result has a positive semi-definite quadratic block with unit trace;
// the linear and constant terms are copied unchanged.
func ProjectEllipsoid(q quadric.Coefficients) (quadric.Coefficients, error) {
	if !q.IsFinite() {
		return quadric.Coefficients{}, fmt.Errorf("%w: non-finite coefficients %v", ErrNumericFailure, q)
	}

	var eig mat.EigenSym
	if ok := eig.Factorize(q.QuadraticBlock(), true); !ok {
		return quadric.Coefficients{}, fmt.Errorf("%w: eigendecomposition of quadratic block failed", ErrNumericFailure)
	}
	values := eig.Values(nil)
	var u mat.Dense
	eig.VectorsTo(&u)

	s := ProjectSimplex(values)

	// Q' = Σ s_k·u_k·u_kᵀ
	rebuilt := mat.NewSymDense(3, nil)
	for k, sk := range s {
		if sk == 0 {
			continue
		}
		rebuilt.SymRankOne(rebuilt, sk, u.ColView(k))
	}

	out := q.WithQuadraticBlock(rebuilt)
	if !out.IsFinite() {
		return quadric.Coefficients{}, fmt.Errorf("%w: projection produced non-finite coefficients", ErrNumericFailure)
	}
	return out, nil
}
