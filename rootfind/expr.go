package rootfind

import (
	"fmt"
	"math"

	"github.com/njchilds90/gorootfind/symbolic"
)

// ExprFunction evaluates a symbolic expression of one variable through a
// compiled closure. Derivatives and Taylor expansions stay symbolic and are
// compiled again.
type ExprFunction struct {
	expr    symbolic.Expr
	varName string
	fn      symbolic.NumericFunc
}

// FromExpr fails with ErrIllFormed when expr mentions any other symbol or
// a function without a numeric implementation.
func FromExpr(expr symbolic.Expr, varName string) (*ExprFunction, error) {
	if expr == nil {
		return nil, fmt.Errorf("%w: nil expression", ErrInvalidInput)
	}
	if varName == "" {
		return nil, fmt.Errorf("%w: empty variable name", ErrInvalidInput)
	}
	fn, err := symbolic.Lambdify(expr, varName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIllFormed, err)
	}
	return &ExprFunction{expr: expr, varName: varName, fn: fn}, nil
}

func (e *ExprFunction) Expr() symbolic.Expr    { return e.expr }
func (e *ExprFunction) Variable() string       { return e.varName }
func (e *ExprFunction) String() string         { return e.expr.String() }
func (e *ExprFunction) Eval(x float64) float64 { return e.fn(x) }

func (e *ExprFunction) Derivative() (Function, error) {
	d, err := FromExpr(symbolic.Diff(e.expr, e.varName), e.varName)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (e *ExprFunction) Degree() (int, error) {
	return symbolic.Degree(e.expr, e.varName)
}

func (e *ExprFunction) Taylor(center float64, degree int) (Expandable, error) {
	if math.IsNaN(center) || math.IsInf(center, 0) {
		return nil, fmt.Errorf("%w: expansion point %g", ErrInvalidInput, center)
	}
	p, err := symbolic.TaylorPolynomial(e.expr, e.varName, symbolic.NFloat(center), degree)
	if err != nil {
		return nil, err
	}
	t, err := FromExpr(p, e.varName)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (e *ExprFunction) SolveExact() ([]float64, error) {
	roots, err := symbolic.SolveExact(e.expr, e.varName)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(roots))
	for i, r := range roots {
		out[i] = r.Float64()
	}
	return out, nil
}
