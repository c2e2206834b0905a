package rootfind

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned for a bad tolerance, missing or coincident
	// start points, or an unknown method.
	ErrInvalidInput = errors.New("rootfind: invalid input")

	// ErrIllFormed means the function could not be prepared for a method,
	// for example a derivative that cannot be formed or a non-polynomial
	// handed to the Taylor reduction.
	ErrIllFormed = errors.New("rootfind: ill-formed function")

	// ErrNonFinite means an evaluation produced NaN or Inf. It is fatal for
	// the run.
	ErrNonFinite = errors.New("rootfind: non-finite evaluation")

	// ErrIterationBudget is returned when WithMaxIterations is exceeded.
	ErrIterationBudget = errors.New("rootfind: iteration budget exhausted")

	// ErrCanceled is returned when the context ends mid-run.
	ErrCanceled = errors.New("rootfind: run canceled")

	// ErrShortHistory means a history has fewer than two usable points.
	ErrShortHistory = errors.New("rootfind: history too short to estimate")

	// ErrDegenerateFit means the regression had no defined slope, which
	// happens when every error in the history is identical.
	ErrDegenerateFit = errors.New("rootfind: degenerate regression")
)

// EvalError reports which evaluation went non-finite. Order 0 is f itself,
// 1 its first derivative and so on.
type EvalError struct {
	Order int
	X     float64
	Value float64
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("rootfind: derivative %d at x=%g evaluated to %g", e.Order, e.X, e.Value)
}

func (e *EvalError) Unwrap() error { return ErrNonFinite }
