package rootfind

import (
	"fmt"
	"math"
)

// Function is a real function of one variable that can produce its own
// derivative.
type Function interface {
	Eval(x float64) float64
	Derivative() (Function, error)
}

// Expandable is a Function the Taylor reduction can work with: it knows its
// polynomial degree, can be re-expanded around a point and, at degree one
// or below, solved exactly.
type Expandable interface {
	Function
	// Degree returns the polynomial degree, or an error for anything that
	// is not a polynomial. The zero polynomial has degree -1.
	Degree() (int, error)
	// Taylor returns the expansion around center truncated after the
	// (x-center)^degree term.
	Taylor(center float64, degree int) (Expandable, error)
	// SolveExact returns the roots of a function of degree one or less.
	SolveExact() ([]float64, error)
}

// evaluator holds f and the derivatives a method needs, formed once.
type evaluator struct {
	fns []Function
}

func newEvaluator(f Function, order int) (*evaluator, error) {
	if f == nil {
		return nil, fmt.Errorf("%w: nil function", ErrInvalidInput)
	}
	fns := make([]Function, 0, order+1)
	fns = append(fns, f)
	for i := 1; i <= order; i++ {
		d, err := fns[i-1].Derivative()
		if err != nil {
			return nil, fmt.Errorf("%w: derivative %d: %v", ErrIllFormed, i, err)
		}
		fns = append(fns, d)
	}
	return &evaluator{fns: fns}, nil
}

// at evaluates the given derivative order at x.
func (e *evaluator) at(order int, x float64) (float64, error) {
	v := e.fns[order].Eval(x)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v, &EvalError{Order: order, X: x, Value: v}
	}
	return v, nil
}
