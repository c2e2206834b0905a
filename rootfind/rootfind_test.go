package rootfind_test

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/gorootfind/rootfind"
	"github.com/njchilds90/gorootfind/symbolic"
)

// x^2 - 2
var sqrtTwo = rootfind.Polynomial{-2, 0, 1}

// x^3 - 2x + 2 cycles between 0 and 1 under Newton.
var cycling = rootfind.Polynomial{2, -2, 0, 1}

type opaque struct{}

func (opaque) Eval(x float64) float64 { return x }
func (opaque) Derivative() (rootfind.Function, error) {
	return nil, errors.New("no derivative")
}

type countingPoly struct {
	rootfind.Polynomial
	calls *int
}

func (c countingPoly) Taylor(center float64, degree int) (rootfind.Expandable, error) {
	*c.calls++
	return c.Polynomial.Taylor(center, degree)
}

// ============================================================
// Newton
// ============================================================

func TestNewton_SqrtTwo(t *testing.T) {
	res, err := rootfind.Newton(context.Background(), sqrtTwo, 1.5, 1e-10)
	require.NoError(t, err)

	assert.Equal(t, rootfind.StatusConverged, res.Status)
	assert.Equal(t, 3, res.Iterations)
	assert.LessOrEqual(t, res.Iterations, 6)
	assert.InDelta(t, math.Sqrt2, res.Root, 1e-10)
	require.Len(t, res.History, 4)
	assert.InDelta(t, 0.25, res.History[0], 1e-15)
	assert.True(t, res.History.Decreasing())
	assert.True(t, res.History.Converged(1e-10))
}

func TestNewton_StationaryStart(t *testing.T) {
	res, err := rootfind.Newton(context.Background(), sqrtTwo, 0, 1e-10)
	require.NoError(t, err)
	assert.Equal(t, rootfind.StatusBreakdown, res.Status)
	assert.NotNil(t, res.History)
	assert.Empty(t, res.History)
}

func TestNewton_ResetOnDivergence(t *testing.T) {
	// From 0.1 the first step overshoots to 10.05, so the error grows and
	// the trace restarts at the following iterate.
	res, err := rootfind.Newton(context.Background(), sqrtTwo, 0.1, 1e-10)
	require.NoError(t, err)
	require.Equal(t, rootfind.StatusConverged, res.Status)
	require.NotEmpty(t, res.History)
	assert.InDelta(t, 24.2605, res.History[0], 0.01)
	assert.True(t, res.History.Decreasing())
	assert.True(t, res.History.Converged(1e-10))
}

func TestNewton_IterationBudget(t *testing.T) {
	res, err := rootfind.Newton(context.Background(), cycling, 0, 1e-12, rootfind.WithMaxIterations(50))
	require.ErrorIs(t, err, rootfind.ErrIterationBudget)
	assert.Equal(t, rootfind.StatusExhausted, res.Status)
	assert.Equal(t, 50, res.Iterations)
}

func TestNewton_BudgetMatchingWorkStillConverges(t *testing.T) {
	res, err := rootfind.Newton(context.Background(), sqrtTwo, 1.5, 1e-10, rootfind.WithMaxIterations(3))
	require.NoError(t, err)
	assert.Equal(t, rootfind.StatusConverged, res.Status)
}

func TestNewton_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := rootfind.Newton(ctx, cycling, 0, 1e-12)
	require.ErrorIs(t, err, rootfind.ErrCanceled)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, rootfind.StatusCanceled, res.Status)
}

func TestNewton_NonFinite(t *testing.T) {
	f, err := rootfind.FromExpr(symbolic.MustParse("ln(x)"), "x")
	require.NoError(t, err)

	res, err := rootfind.Newton(context.Background(), f, -1, 1e-10)
	require.ErrorIs(t, err, rootfind.ErrNonFinite)
	var evalErr *rootfind.EvalError
	require.ErrorAs(t, err, &evalErr)
	assert.Equal(t, 0, evalErr.Order)
	assert.Equal(t, -1.0, evalErr.X)
	assert.Equal(t, rootfind.StatusFailed, res.Status)
}

func TestNewton_DerivativeUnavailable(t *testing.T) {
	_, err := rootfind.Newton(context.Background(), opaque{}, 1, 1e-10)
	assert.ErrorIs(t, err, rootfind.ErrIllFormed)
}

func TestTolerance_Validation(t *testing.T) {
	for _, eps := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		_, err := rootfind.Newton(context.Background(), sqrtTwo, 1.5, eps)
		assert.ErrorIs(t, err, rootfind.ErrInvalidInput, "eps=%g", eps)
	}
}

// ============================================================
// Halley
// ============================================================

func TestHalley_FewerIterationsThanNewton(t *testing.T) {
	ctx := context.Background()
	newton, err := rootfind.Newton(ctx, sqrtTwo, 1.5, 1e-10)
	require.NoError(t, err)
	halley, err := rootfind.Halley(ctx, sqrtTwo, 1.5, 1e-10)
	require.NoError(t, err)

	assert.Equal(t, rootfind.StatusConverged, halley.Status)
	assert.Less(t, halley.Iterations, newton.Iterations)
	assert.InDelta(t, math.Sqrt2, halley.Root, 1e-10)
}

func TestHalley_ZeroNumeratorBreaksDown(t *testing.T) {
	// At 0 the denominator is 4 but f'(0) = 0 makes the numerator vanish.
	res, err := rootfind.Halley(context.Background(), sqrtTwo, 0, 1e-10)
	require.NoError(t, err)
	assert.Equal(t, rootfind.StatusBreakdown, res.Status)
	assert.Empty(t, res.History)
}

func TestHalley_ResetKeepsValueThatGrew(t *testing.T) {
	// x^5 - x^4 + x^3 - x^2 + x - 1 from -1: the first step overshoots far
	// out, the error grows and the trace restarts at that larger value.
	quintic := rootfind.Polynomial{-1, 1, -1, 1, -1, 1}
	res, err := rootfind.Halley(context.Background(), quintic, -1, 1e-12)
	require.NoError(t, err)
	require.Equal(t, rootfind.StatusConverged, res.Status)
	assert.InDelta(t, 1.0, res.Root, 1e-9)

	// Only the value before the growth is dropped; clearing would also
	// drop the grown value.
	require.Len(t, res.History, res.Iterations-1)
	assert.Greater(t, res.History[0], 6.0, "first entry is the grown error, above |f(-1)| = 6")
	assert.True(t, res.History.Decreasing())
	assert.True(t, res.History.Converged(1e-12))
}

// ============================================================
// Secant
// ============================================================

func TestSecant_AgreesWithNewton(t *testing.T) {
	ctx := context.Background()
	newton, err := rootfind.Newton(ctx, sqrtTwo, 1.5, 1e-10)
	require.NoError(t, err)
	secant, err := rootfind.Secant(ctx, sqrtTwo, 1, 2, 1e-10)
	require.NoError(t, err)

	assert.Equal(t, rootfind.StatusConverged, secant.Status)
	assert.InDelta(t, newton.Root, secant.Root, 1e-9)
	assert.GreaterOrEqual(t, secant.Iterations, newton.Iterations)
	assert.True(t, secant.History.Converged(1e-10))
}

func TestSecant_ResetClearsTrace(t *testing.T) {
	// From (0.1, 1) the chord lands on 1/1.1 + 1, where |f| = 1.6446 > 1,
	// so both recorded values are dropped. The trace restarts at the next
	// iterate 43/32, |f| = 0.1943359375.
	res, err := rootfind.Secant(context.Background(), sqrtTwo, 0.1, 1, 1e-10)
	require.NoError(t, err)
	require.Equal(t, rootfind.StatusConverged, res.Status)
	assert.InDelta(t, math.Sqrt2, res.Root, 1e-9)

	require.Len(t, res.History, res.Iterations-1)
	assert.InDelta(t, 0.1943359375, res.History[0], 1e-9)
	assert.True(t, res.History.Decreasing())
	assert.True(t, res.History.Converged(1e-10))
}

func TestSecant_CoincidentStart(t *testing.T) {
	_, err := rootfind.Secant(context.Background(), sqrtTwo, 1, 1, 1e-10)
	assert.ErrorIs(t, err, rootfind.ErrInvalidInput)
}

func TestSecant_FlatChord(t *testing.T) {
	// f(-1) == f(1) for x^2 - 2.
	res, err := rootfind.Secant(context.Background(), sqrtTwo, -1, 1, 1e-10)
	require.NoError(t, err)
	assert.Equal(t, rootfind.StatusBreakdown, res.Status)
	assert.Empty(t, res.History)
}

// ============================================================
// Taylor reduction
// ============================================================

func TestTaylor_LinearSolvedWithoutExpansion(t *testing.T) {
	calls := 0
	f := countingPoly{Polynomial: rootfind.Polynomial{-3, 2}, calls: &calls}

	res, err := rootfind.TaylorReduce(context.Background(), f, 10, 1e-12)
	require.NoError(t, err)
	assert.Equal(t, 0, calls)
	assert.Equal(t, 1.5, res.Root)
	assert.Equal(t, rootfind.History{0}, res.History)
	assert.Equal(t, 0, res.Iterations)
	assert.Equal(t, rootfind.StatusConverged, res.Status)
}

func TestTaylor_ConstantBreaksDown(t *testing.T) {
	res, err := rootfind.TaylorReduce(context.Background(), rootfind.Polynomial{4}, 1, 1e-12)
	require.NoError(t, err)
	assert.Equal(t, rootfind.StatusBreakdown, res.Status)
	assert.Empty(t, res.History)
}

func TestTaylor_SeventhRoot(t *testing.T) {
	calls := 0
	f := countingPoly{Polynomial: rootfind.Polynomial{-2, 0, 0, 0, 0, 0, 0, 1}, calls: &calls}

	res, err := rootfind.TaylorReduce(context.Background(), f, 1.5, 1e-10, rootfind.WithMaxIterations(500))
	require.NoError(t, err)
	assert.Equal(t, rootfind.StatusConverged, res.Status)
	assert.InDelta(t, math.Pow(2, 1.0/7), res.Root, 1e-9)
	assert.True(t, res.History.Converged(1e-10))
	assert.Positive(t, calls)
	assert.Positive(t, res.Iterations)
}

func TestTaylor_TopLevelResetClearsTrace(t *testing.T) {
	// Below degree 6 one reduction is a tangent step, so from 0.1 the
	// trace resets exactly like Newton's: 10.05 overshoots and the History
	// restarts at 5.1245 with |f| = 24.2605.
	res, err := rootfind.TaylorReduce(context.Background(), sqrtTwo, 0.1, 1e-10)
	require.NoError(t, err)
	require.Equal(t, rootfind.StatusConverged, res.Status)
	assert.InDelta(t, math.Sqrt2, res.Root, 1e-9)

	require.Len(t, res.History, res.Iterations-1)
	assert.InDelta(t, 24.2605, res.History[0], 0.01)
	assert.True(t, res.History.Decreasing())
	assert.True(t, res.History.Converged(1e-10))
}

func TestTaylor_SymbolicQuintic(t *testing.T) {
	expr := symbolic.MustParse("x^5 - x^4 + x^3 - x^2 + x - 1")
	res, err := rootfind.RunExpr(context.Background(), rootfind.MethodTaylor, expr, "x", []float64{1.5}, 1e-10,
		rootfind.WithMaxIterations(500))
	require.NoError(t, err)
	assert.Equal(t, rootfind.StatusConverged, res.Status)
	assert.InDelta(t, 1.0, res.Root, 1e-9)
}

func TestTaylor_NotPolynomial(t *testing.T) {
	_, err := rootfind.RunExpr(context.Background(), rootfind.MethodTaylor, symbolic.MustParse("sin(x)"), "x", []float64{1}, 1e-10)
	assert.ErrorIs(t, err, rootfind.ErrIllFormed)
}

func TestRun_TaylorNeedsExpandable(t *testing.T) {
	plain := struct{ rootfind.Function }{sqrtTwo}
	_, err := rootfind.Run(context.Background(), rootfind.MethodTaylor, plain, []float64{1.5}, 1e-10)
	assert.ErrorIs(t, err, rootfind.ErrIllFormed)
}

// ============================================================
// Dispatch
// ============================================================

func TestRun_StartPointCount(t *testing.T) {
	ctx := context.Background()
	_, err := rootfind.Run(ctx, rootfind.MethodSecant, sqrtTwo, []float64{1}, 1e-10)
	assert.ErrorIs(t, err, rootfind.ErrInvalidInput)
	_, err = rootfind.Run(ctx, rootfind.MethodNewton, sqrtTwo, []float64{1, 2}, 1e-10)
	assert.ErrorIs(t, err, rootfind.ErrInvalidInput)
	_, err = rootfind.Run(ctx, rootfind.Method(99), sqrtTwo, []float64{1}, 1e-10)
	assert.ErrorIs(t, err, rootfind.ErrInvalidInput)
}

func TestRunExpr_MatchesPolynomial(t *testing.T) {
	ctx := context.Background()
	for _, m := range []rootfind.Method{rootfind.MethodNewton, rootfind.MethodHalley} {
		t.Run(m.String(), func(t *testing.T) {
			fromExpr, err := rootfind.RunExpr(ctx, m, symbolic.MustParse("x^2 - 2"), "x", []float64{1.5}, 1e-10)
			require.NoError(t, err)
			fromPoly, err := rootfind.Run(ctx, m, sqrtTwo, []float64{1.5}, 1e-10)
			require.NoError(t, err)
			assert.Equal(t, fromPoly.Iterations, fromExpr.Iterations)
			assert.InDelta(t, fromPoly.Root, fromExpr.Root, 1e-12)
		})
	}
}

func TestFromExpr_ForeignSymbol(t *testing.T) {
	_, err := rootfind.FromExpr(symbolic.MustParse("x + y"), "x")
	assert.ErrorIs(t, err, rootfind.ErrIllFormed)
}

func TestRun_Idempotent(t *testing.T) {
	ctx := context.Background()
	expr := symbolic.MustParse("x^5 - x^4 + x^3 - x^2 + x - 1")
	cases := []struct {
		method rootfind.Method
		start  []float64
	}{
		{rootfind.MethodNewton, []float64{0.3}},
		{rootfind.MethodHalley, []float64{0.3}},
		{rootfind.MethodSecant, []float64{0.3, 0.4}},
		{rootfind.MethodTaylor, []float64{0.3}},
	}
	for _, tc := range cases {
		t.Run(tc.method.String(), func(t *testing.T) {
			first, err1 := rootfind.RunExpr(ctx, tc.method, expr, "x", tc.start, 1e-12, rootfind.WithMaxIterations(1000))
			second, err2 := rootfind.RunExpr(ctx, tc.method, expr, "x", tc.start, 1e-12, rootfind.WithMaxIterations(1000))
			assert.Equal(t, fmt.Sprint(err1), fmt.Sprint(err2))
			assert.Equal(t, first, second)
		})
	}
}

func TestParseMethod(t *testing.T) {
	for _, m := range rootfind.Methods() {
		got, err := rootfind.ParseMethod(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
	got, err := rootfind.ParseMethod(" Newton ")
	require.NoError(t, err)
	assert.Equal(t, rootfind.MethodNewton, got)

	_, err = rootfind.ParseMethod("bisection")
	assert.ErrorIs(t, err, rootfind.ErrInvalidInput)
}

// ============================================================
// Polynomial
// ============================================================

func TestPolynomial(t *testing.T) {
	assert.Equal(t, 7.0, sqrtTwo.Eval(3))

	d, err := sqrtTwo.Derivative()
	require.NoError(t, err)
	assert.Equal(t, rootfind.Polynomial{0, 2}, d)

	deg, _ := rootfind.Polynomial{1, 2, 0}.Degree()
	assert.Equal(t, 1, deg)
	deg, _ = rootfind.Polynomial{0}.Degree()
	assert.Equal(t, -1, deg)

	local, err := rootfind.Polynomial{0, 0, 0, 1}.Taylor(1, 1)
	require.NoError(t, err)
	assert.Equal(t, rootfind.Polynomial{-2, 3}, local)

	roots, err := rootfind.Polynomial{-3, 2}.SolveExact()
	require.NoError(t, err)
	assert.Equal(t, []float64{1.5}, roots)

	roots, err = rootfind.Polynomial{4}.SolveExact()
	require.NoError(t, err)
	assert.Empty(t, roots)

	_, err = sqrtTwo.SolveExact()
	assert.ErrorIs(t, err, rootfind.ErrIllFormed)
}

// ============================================================
// Convergence estimation
// ============================================================

func TestEstimate_QuadraticDecay(t *testing.T) {
	h := rootfind.History{1e-1, 1e-2, 1e-4, 1e-8, 1e-16}
	est, err := rootfind.EstimateConvergence(h, rootfind.ModeConsecutive)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, est.Rate, 1e-9)
	assert.InDelta(t, 1.0, est.RSquared, 1e-9)
	assert.Equal(t, 4, est.Points)
}

func TestEstimate_TrailingZerosDropped(t *testing.T) {
	h := rootfind.History{1e-1, 1e-2, 1e-4, 1e-8, 1e-16, 0, 0}
	est, err := rootfind.EstimateConvergence(h, rootfind.ModeConsecutive)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, est.Rate, 1e-9)
	assert.Equal(t, 4, est.Points)
}

func TestEstimate_IndexMode(t *testing.T) {
	h := rootfind.History{1, 1e-1, 1e-2, 1e-3}
	est, err := rootfind.EstimateConvergence(h, rootfind.ModeIndex)
	require.NoError(t, err)
	assert.InDelta(t, -1.0, est.Rate, 1e-9)
	assert.InDelta(t, 1.0, est.RSquared, 1e-9)
	assert.Equal(t, 4, est.Points)
}

func TestEstimate_NewtonIsQuadratic(t *testing.T) {
	res, err := rootfind.Newton(context.Background(), sqrtTwo, 1.5, 1e-10)
	require.NoError(t, err)
	est, err := rootfind.EstimateConvergence(res.History, rootfind.ModeConsecutive)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, est.Rate, 0.2)
}

func TestEstimate_Errors(t *testing.T) {
	cases := []struct {
		name string
		h    rootfind.History
		mode rootfind.Mode
		want error
	}{
		{"one pair", rootfind.History{1e-1, 1e-2}, rootfind.ModeConsecutive, rootfind.ErrShortHistory},
		{"all zero", rootfind.History{0, 0}, rootfind.ModeConsecutive, rootfind.ErrShortHistory},
		{"single index", rootfind.History{0.5}, rootfind.ModeIndex, rootfind.ErrShortHistory},
		{"flat", rootfind.History{1e-3, 1e-3, 1e-3}, rootfind.ModeConsecutive, rootfind.ErrDegenerateFit},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := rootfind.EstimateConvergence(tc.h, tc.mode)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestParseMode(t *testing.T) {
	m, err := rootfind.ParseMode("index")
	require.NoError(t, err)
	assert.Equal(t, rootfind.ModeIndex, m)
	m, err = rootfind.ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, rootfind.ModeConsecutive, m)
	_, err = rootfind.ParseMode("log")
	assert.ErrorIs(t, err, rootfind.ErrInvalidInput)
}
