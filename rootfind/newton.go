package rootfind

import (
	"context"
	"math"
)

// Newton iterates x' = x - f(x)/f'(x) from x0 until |f(x)| <= eps. A zero
// derivative ends the run with StatusBreakdown and an empty History. When
// the error grows the History is cleared.
func Newton(ctx context.Context, f Function, x0, eps float64, opts ...Option) (Result, error) {
	s := newSettings(opts)
	res := Result{Method: MethodNewton, Root: x0}
	if err := checkTolerance(eps); err != nil {
		return res, err
	}
	ev, err := newEvaluator(f, 1)
	if err != nil {
		return res, err
	}

	hist := &tracker{policy: resetClear}
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
			logReset(s.logger, MethodNewton, hist, x)
		}
		if err := s.check(ctx, res.Iterations); err != nil {
			return res.stop(hist, x, err)
		}

		d, err := ev.at(1, x)
		if err != nil {
			return res.stop(hist, x, err)
		}
		if d == 0 {
			return res.breakdown(s.logger, x, "zero derivative"), nil
		}
		x -= fx / d
		res.Iterations++
	}
}
