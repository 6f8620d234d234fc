package quadric

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrCoefficientCount is returned when a coefficient slice does not hold
	// exactly NumCoefficients values.
	ErrCoefficientCount = errors.New("quadric needs 10 coefficients")

	// ErrEmptyID is returned when an expression is rebuilt without an identifier.
	ErrEmptyID = errors.New("quadric identifier must not be empty")
)

// Expression is a fitted quadric together with its identity.
//
// Two expressions are the same entity when their identifiers match, whatever
// their coefficients; two expressions with identical coefficients but
// different identifiers are distinct. An Expression is never mutated after
// construction.
type Expression struct {
	id     string
	coeffs Coefficients
}

// New creates an expression with a freshly generated identifier
func New(coeffs Coefficients) *Expression {
	return &Expression{
		id:     uuid.NewString(),
		coeffs: coeffs,
	}
}

// NewWithID rebuilds an expression under an existing identifier, as done
// when reloading previously saved quadrics.
func NewWithID(id string, coeffs Coefficients) (*Expression, error) {
	if id == "" {
		return nil, ErrEmptyID
	}
	return &Expression{id: id, coeffs: coeffs}, nil
}

// FromSlice creates an expression with a fresh identifier from a slice of
// coefficients in a..j order.
func FromSlice(values []float64) (*Expression, error) {
	if len(values) != NumCoefficients {
		return nil, fmt.Errorf("%w: got %d", ErrCoefficientCount, len(values))
	}
	var c Coefficients
	copy(c[:], values)
	return New(c), nil
}

// ID returns the unique identifier of the expression
func (e *Expression) ID() string {
	return e.id
}

// Coefficients returns a copy of the coefficients in a..j order
func (e *Expression) Coefficients() Coefficients {
	return e.coeffs
}

// Slice returns the coefficients as a newly allocated slice in a..j order
func (e *Expression) Slice() []float64 {
	return e.coeffs.Slice()
}

// Equal reports whether e and other are the same entity. Only identifiers
// are compared.
func (e *Expression) Equal(other *Expression) bool {
	if e == nil || other == nil {
		return e == other
	}
	return e.id == other.id
}

// Ellipsoid returns the geometric parameters of the expression
func (e *Expression) Ellipsoid() (Ellipsoid, error) {
	return e.coeffs.Ellipsoid()
}

func (e *Expression) String() string {
	return fmt.Sprintf("quadric %s %v", e.id, e.coeffs)
}
