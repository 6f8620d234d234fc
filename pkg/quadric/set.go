package quadric

import "sort"

// Set is a named group of expressions keyed by identity. Adding an
// expression whose identifier is already present replaces the stored one.
//
// A Set is not safe for concurrent use.
type Set struct {
	name  string
	items map[string]*Expression
}

// NewSet creates an unnamed set holding the given expressions
func NewSet(exprs ...*Expression) *Set {
	return NewNamedSet("", exprs...)
}

// NewNamedSet creates a set called name holding the given expressions
func NewNamedSet(name string, exprs ...*Expression) *Set {
	s := &Set{name: name, items: make(map[string]*Expression, len(exprs))}
	for _, e := range exprs {
		s.Add(e)
	}
	return s
}

// Name returns the group name
func (s *Set) Name() string {
	return s.name
}

// SetName renames the group
func (s *Set) SetName(name string) {
	s.name = name
}

// Add inserts e into the set. Nil expressions are ignored.
func (s *Set) Add(e *Expression) {
	if e == nil {
		return
	}
	if s.items == nil {
		s.items = make(map[string]*Expression)
	}
	s.items[e.ID()] = e
}

// Remove deletes e from the set
func (s *Set) Remove(e *Expression) {
	if e == nil {
		return
	}
	delete(s.items, e.ID())
}

// Contains reports whether an expression with the identifier of e is present
func (s *Set) Contains(e *Expression) bool {
	if e == nil {
		return false
	}
	_, ok := s.items[e.ID()]
	return ok
}

// Get returns the expression stored under id
func (s *Set) Get(id string) (*Expression, bool) {
	e, ok := s.items[id]
	return e, ok
}

// Len returns the number of expressions in the set
func (s *Set) Len() int {
	return len(s.items)
}

// Clear removes every expression
func (s *Set) Clear() {
	clear(s.items)
}

// Expressions returns the members sorted by identifier
func (s *Set) Expressions() []*Expression {
	out := make([]*Expression, 0, len(s.items))
	for _, e := range s.items {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID() < out[j].ID()
	})
	return out
}

// TotalVolume sums the volumes of the members that describe an ellipsoid.
// Members without an ellipsoid form are skipped; Degenerate counts them.
func (s *Set) TotalVolume() float64 {
	total := 0.0
	for _, e := range s.items {
		if shape, err := e.Ellipsoid(); err == nil {
			total += shape.Volume()
		}
	}
	return total
}

// TotalSurface sums the surface areas of the members that describe an
// ellipsoid, skipping the others like TotalVolume
func (s *Set) TotalSurface() float64 {
	total := 0.0
	for _, e := range s.items {
		if shape, err := e.Ellipsoid(); err == nil {
			total += shape.Surface()
		}
	}
	return total
}

// Degenerate returns the number of members left out of the totals
func (s *Set) Degenerate() int {
	n := 0
	for _, e := range s.items {
		if _, err := e.Ellipsoid(); err != nil {
			n++
		}
	}
	return n
}
