package rootfind

// History is the trace of |f(x)| values of one run, in iteration order.
// After a divergence reset it holds only the most recent run of
// non-increasing values.
type History []float64

func (h History) Len() int { return len(h) }

// Last returns the final recorded value.
func (h History) Last() (float64, bool) {
	if len(h) == 0 {
		return 0, false
	}
	return h[len(h)-1], true
}

// Converged reports whether the trace ends at or below eps.
func (h History) Converged(eps float64) bool {
	v, ok := h.Last()
	return ok && v <= eps
}

// Decreasing reports whether every value is strictly below its predecessor.
func (h History) Decreasing() bool {
	for i := 1; i < len(h); i++ {
		if h[i] >= h[i-1] {
			return false
		}
	}
	return true
}

func (h History) Clone() History {
	if h == nil {
		return nil
	}
	return append(History(nil), h...)
}

// resetPolicy decides what survives when the error grows. Newton, Secant
// and Taylor drop the whole trace; Halley keeps the value that grew.
type resetPolicy int

const (
	resetClear resetPolicy = iota
	resetKeepLast
)

func (p resetPolicy) String() string {
	if p == resetKeepLast {
		return "keep-last"
	}
	return "clear"
}

type tracker struct {
	policy resetPolicy
	values History
	resets int
}

// record appends v and applies the reset policy when v exceeds the value
// before it. It reports whether a reset happened.
func (t *tracker) record(v float64) bool {
	t.values = append(t.values, v)
	n := len(t.values)
	if n < 2 || t.values[n-1] <= t.values[n-2] {
		return false
	}
	t.resets++
	switch t.policy {
	case resetKeepLast:
		t.values = History{v}
	default:
		t.values = nil
	}
	return true
}

// finish appends the converged value and hands the trace out.
func (t *tracker) finish(v float64) History {
	t.values = append(t.values, v)
	return t.values
}

// partial returns what has been recorded so far, never nil.
func (t *tracker) partial() History {
	if t.values == nil {
		return History{}
	}
	return t.values
}
