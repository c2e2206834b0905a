package rootfind

import (
	"context"
	"math"
)

// Halley iterates x' = x - 2ff' / (2f'^2 - ff'') from x0.
//
// The run breaks down when either the denominator or the numerator is
// exactly zero. A zero numerator alone leaves the update defined; it is
// still reported as a breakdown. On an error increase the History
// collapses to the value that grew rather than being cleared.
func Halley(ctx context.Context, f Function, x0, eps float64, opts ...Option) (Result, error) {
	s := newSettings(opts)
	res := Result{Method: MethodHalley, Root: x0}
	if err := checkTolerance(eps); err != nil {
		return res, err
	}
	ev, err := newEvaluator(f, 2)
	if err != nil {
		return res, err
	}

	hist := &tracker{policy: resetKeepLast}
	x := x0
	for {
		fx, err := ev.at(0, x)
		if err != nil {
			return res.stop(hist, x, err)
		}
		if math.Abs(fx) <= eps {
			return res.converged(hist.finish(math.Abs(fx)), x), nil
		}
		if hist.record(math.Abs(fx)) {
			logReset(s.logger, MethodHalley, hist, x)
		}
		if err := s.check(ctx, res.Iterations); err != nil {
			return res.stop(hist, x, err)
		}

		d1, err := ev.at(1, x)
		if err != nil {
			return res.stop(hist, x, err)
		}
		d2, err := ev.at(2, x)
		if err != nil {
			return res.stop(hist, x, err)
		}
		numer := 2 * fx * d1
		denom := 2*d1*d1 - fx*d2
		switch {
		case denom == 0:
			return res.breakdown(s.logger, x, "zero denominator"), nil
		case numer == 0:
			return res.breakdown(s.logger, x, "zero numerator"), nil
		}
		x -= numer / denom
		res.Iterations++
	}
}
