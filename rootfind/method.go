package rootfind

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/njchilds90/gorootfind/symbolic"
)

// ============================================================
// Methods
// ============================================================

type Method int

const (
	MethodNewton Method = iota + 1
	MethodHalley
	MethodSecant
	MethodTaylor
)

var methodNames = map[Method]string{
	MethodNewton: "newton",
	MethodHalley: "halley",
	MethodSecant: "secant",
	MethodTaylor: "taylor",
}

// Methods lists every method in a stable order.
func Methods() []Method {
	return []Method{MethodNewton, MethodHalley, MethodSecant, MethodTaylor}
}

func (m Method) String() string {
	if name, ok := methodNames[m]; ok {
		return name
	}
	return fmt.Sprintf("method(%d)", int(m))
}

// ParseMethod accepts the names printed by String, case-insensitively.
func ParseMethod(s string) (Method, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for m, n := range methodNames {
		if n == name {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown method %q", ErrInvalidInput, s)
}

func (m Method) MarshalText() ([]byte, error) {
	if _, ok := methodNames[m]; !ok {
		return nil, fmt.Errorf("%w: unknown method %d", ErrInvalidInput, int(m))
	}
	return []byte(m.String()), nil
}

func (m *Method) UnmarshalText(b []byte) error {
	parsed, err := ParseMethod(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// StartPoints is the number of starting values the method takes.
func (m Method) StartPoints() int {
	if m == MethodSecant {
		return 2
	}
	return 1
}

// ============================================================
// Results
// ============================================================

type Status string

const (
	StatusConverged Status = "converged"
	// StatusBreakdown means an update was undefined, such as a zero
	// derivative. It is a normal outcome, not an error; History is empty.
	StatusBreakdown Status = "breakdown"
	StatusExhausted Status = "exhausted"
	StatusCanceled  Status = "canceled"
	StatusFailed    Status = "failed"
)

// Result is the outcome of one run. Root is the last iterate reached, which
// for a breakdown is the point where the update was undefined.
type Result struct {
	Method     Method  `json:"method"`
	History    History `json:"history"`
	Root       float64 `json:"root"`
	Iterations int     `json:"iterations"`
	Status     Status  `json:"status"`
}

func (r Result) converged(h History, x float64) Result {
	r.Root = x
	r.History = h
	r.Status = StatusConverged
	return r
}

func (r Result) breakdown(logger *slog.Logger, x float64, reason string) Result {
	logger.Debug("update undefined", "method", r.Method, "x", x, "reason", reason, "iterations", r.Iterations)
	r.Root = x
	r.History = History{}
	r.Status = StatusBreakdown
	return r
}

// stop ends a run on err, keeping the partial trace for diagnostics.
func (r Result) stop(t *tracker, x float64, err error) (Result, error) {
	r.Root = x
	r.History = t.partial()
	switch {
	case errors.Is(err, ErrIterationBudget):
		r.Status = StatusExhausted
	case errors.Is(err, ErrCanceled):
		r.Status = StatusCanceled
	default:
		r.Status = StatusFailed
	}
	return r, err
}

func logReset(logger *slog.Logger, m Method, t *tracker, x float64) {
	logger.Debug("error increased, history reset", "method", m, "policy", t.policy, "x", x, "resets", t.resets)
}

// ============================================================
// Dispatch
// ============================================================

// Run applies method to f from the given start points. Secant takes two
// points, every other method one. Taylor needs f to be Expandable.
func Run(ctx context.Context, method Method, f Function, start []float64, eps float64, opts ...Option) (Result, error) {
	if _, ok := methodNames[method]; !ok {
		return Result{Method: method}, fmt.Errorf("%w: unknown method %d", ErrInvalidInput, int(method))
	}
	if len(start) != method.StartPoints() {
		return Result{Method: method}, fmt.Errorf("%w: %s takes %d start point(s), got %d",
			ErrInvalidInput, method, method.StartPoints(), len(start))
	}
	for _, x := range start {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return Result{Method: method}, fmt.Errorf("%w: start point %g", ErrInvalidInput, x)
		}
	}
	switch method {
	case MethodNewton:
		return Newton(ctx, f, start[0], eps, opts...)
	case MethodHalley:
		return Halley(ctx, f, start[0], eps, opts...)
	case MethodSecant:
		return Secant(ctx, f, start[0], start[1], eps, opts...)
	}
	ef, ok := f.(Expandable)
	if !ok {
		return Result{Method: method}, fmt.Errorf("%w: taylor reduction needs an expandable function, got %T", ErrIllFormed, f)
	}
	return TaylorReduce(ctx, ef, start[0], eps, opts...)
}

// RunExpr is Run over a symbolic expression in varName.
func RunExpr(ctx context.Context, method Method, expr symbolic.Expr, varName string, start []float64, eps float64, opts ...Option) (Result, error) {
	f, err := FromExpr(expr, varName)
	if err != nil {
		return Result{Method: method}, err
	}
	return Run(ctx, method, f, start, eps, opts...)
}
