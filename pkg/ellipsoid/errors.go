package ellipsoid

import "errors"

var (
	// ErrInvalidInput is returned when the point set is too small or too
	// degenerate for a meaningful fit.
	ErrInvalidInput = errors.New("invalid point set")

	// ErrSingularSystem is returned when the regularized data-fit system
	// cannot be solved.
	ErrSingularSystem = errors.New("singular data-fit system")

	// ErrNumericFailure is returned when the iteration produces NaN or
	// infinite values, or an eigendecomposition fails.
	ErrNumericFailure = errors.New("numeric failure")

	// ErrInvalidParams is returned when fitting parameters are out of range.
	ErrInvalidParams = errors.New("invalid fitting parameters")
)
