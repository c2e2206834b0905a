package rootfind

import (
	"context"
	"fmt"
	"math"
)

// TaylorReduce finds a root of a polynomial by repeatedly replacing it with
// a lower-degree Taylor expansion around the current iterate and solving
// that recursively, starting from the same iterate. Degree one or less is
// solved exactly, in which case the History is the single value |f(root)|
// and no expansion happens.
//
// Only the outermost level records History, clearing it when the error
// grows. Iterations counts outermost updates; WithMaxIterations bounds the
// updates of every level together.
func TaylorReduce(ctx context.Context, f Expandable, x0, eps float64, opts ...Option) (Result, error) {
	s := newSettings(opts)
	res := Result{Method: MethodTaylor, Root: x0}
	if err := checkTolerance(eps); err != nil {
		return res, err
	}
	if f == nil {
		return res, fmt.Errorf("%w: nil function", ErrInvalidInput)
	}
	d, err := f.Degree()
	if err != nil {
		return res, fmt.Errorf("%w: %v", ErrIllFormed, err)
	}

	r := &reduction{ctx: ctx, settings: s, eps: eps, hist: &tracker{policy: resetClear}, result: &res}
	if d < 2 {
		root, ok, err := r.solveBase(f, d, x0)
		if err != nil {
			return res.stop(r.hist, x0, err)
		}
		if !ok {
			return res.breakdown(s.logger, x0, "constant has no root"), nil
		}
		fr, err := (&evaluator{fns: []Function{f}}).at(0, root)
		if err != nil {
			return res.stop(r.hist, root, err)
		}
		return res.converged(History{math.Abs(fr)}, root), nil
	}

	x, ok, err := r.descend(f, d, x0, true)
	switch {
	case err != nil:
		return res.stop(r.hist, x, err)
	case !ok:
		return res.breakdown(s.logger, x, "reduced polynomial has no root"), nil
	}
	fx, err := (&evaluator{fns: []Function{f}}).at(0, x)
	if err != nil {
		return res.stop(r.hist, x, err)
	}
	return res.converged(r.hist.finish(math.Abs(fx)), x), nil
}

type reduction struct {
	ctx      context.Context
	settings settings
	eps      float64
	hist     *tracker
	result   *Result
	updates  int
}

// reducedDegree halves d and steps down to the nearest odd degree.
func reducedDegree(d int) int {
	h := d / 2
	if h%2 == 0 {
		h--
	}
	return h
}

// descend drives g to |g(x)| <= eps. ok is false when some level broke
// down.
func (r *reduction) descend(g Expandable, d int, x float64, top bool) (float64, bool, error) {
	if d < 2 {
		return r.solveBase(g, d, x)
	}
	ev := &evaluator{fns: []Function{g}}
	target := reducedDegree(d)
	for {
		gx, err := ev.at(0, x)
		if err != nil {
			return x, false, err
		}
		if math.Abs(gx) <= r.eps {
			return x, true, nil
		}
		if top && r.hist.record(math.Abs(gx)) {
			logReset(r.settings.logger, MethodTaylor, r.hist, x)
		}
		if err := r.settings.check(r.ctx, r.updates); err != nil {
			return x, false, err
		}

		local, err := g.Taylor(x, target)
		if err != nil {
			return x, false, fmt.Errorf("%w: expand around %g: %v", ErrIllFormed, x, err)
		}
		ld, err := local.Degree()
		if err != nil {
			return x, false, fmt.Errorf("%w: %v", ErrIllFormed, err)
		}
		next, ok, err := r.descend(local, ld, x, false)
		if err != nil || !ok {
			return next, ok, err
		}
		x = next
		r.updates++
		if top {
			r.result.Iterations++
		}
	}
}

// solveBase handles degree one and below. The zero polynomial is solved by
// any x, so the current point is kept.
func (r *reduction) solveBase(g Expandable, d int, x float64) (float64, bool, error) {
	if d < 0 {
		return x, true, nil
	}
	roots, err := g.SolveExact()
	if err != nil {
		return x, false, fmt.Errorf("%w: %v", ErrIllFormed, err)
	}
	if len(roots) == 0 {
		return x, false, nil
	}
	return roots[0], true, nil
}
