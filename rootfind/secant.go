package rootfind

import (
	"context"
	"fmt"
	"math"
)

// Secant iterates on the pair (x1, x2), replacing the derivative with the
// slope of the chord through both points. The trace follows f(x2). A zero
// slope ends the run with StatusBreakdown, as does a NaN slope, which
// appears once the two iterates have collapsed onto each other.
func Secant(ctx context.Context, f Function, x1, x2, eps float64, opts ...Option) (Result, error) {
	s := newSettings(opts)
	res := Result{Method: MethodSecant, Root: x2}
	if err := checkTolerance(eps); err != nil {
		return res, err
	}
	if x1 == x2 {
		return res, fmt.Errorf("%w: secant start points must differ, both are %g", ErrInvalidInput, x1)
	}
	ev, err := newEvaluator(f, 0)
	if err != nil {
		return res, err
	}

	hist := &tracker{policy: resetClear}
	for {
		f2, err := ev.at(0, x2)
		if err != nil {
			return res.stop(hist, x2, err)
		}
		if math.Abs(f2) <= eps {
			return res.converged(hist.finish(math.Abs(f2)), x2), nil
		}
		if hist.record(math.Abs(f2)) {
			logReset(s.logger, MethodSecant, hist, x2)
		}
		if err := s.check(ctx, res.Iterations); err != nil {
			return res.stop(hist, x2, err)
		}

		f1, err := ev.at(0, x1)
		if err != nil {
			return res.stop(hist, x1, err)
		}
		slope := (f2 - f1) / (x2 - x1)
		if slope == 0 || math.IsNaN(slope) {
			return res.breakdown(s.logger, x2, "flat secant"), nil
		}
		x1, x2 = x2, x2-f2/slope
		res.Iterations++
	}
}
