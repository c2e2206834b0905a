package rootfind

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/stat"
)

// Mode selects what log10(error) is regressed against.
type Mode int

const (
	// ModeConsecutive regresses log10(e[i]) on log10(e[i-1]). The slope is
	// the empirical order of convergence: about 2 for Newton, 3 for Halley
	// and 1.618 for Secant.
	ModeConsecutive Mode = iota
	// ModeIndex regresses log10(e[i]) on i. The slope is the decay per
	// iteration, which suits linearly convergent traces.
	ModeIndex
)

func (m Mode) String() string {
	if m == ModeIndex {
		return "index"
	}
	return "pairs"
}

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "pairs", "consecutive":
		return ModeConsecutive, nil
	case "index":
		return ModeIndex, nil
	}
	return 0, fmt.Errorf("%w: unknown estimation mode %q", ErrInvalidInput, s)
}

func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *Mode) UnmarshalText(b []byte) error {
	parsed, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Estimate is a least-squares fit of a History. Rate is the slope, RSquared
// the coefficient of determination and Points the number of (x, y) pairs
// that went into the fit.
type Estimate struct {
	Mode     Mode    `json:"mode"`
	Rate     float64 `json:"rate"`
	RSquared float64 `json:"r_squared"`
	Points   int     `json:"points"`
}

// EstimateConvergence fits the decay of h. Trailing exact zeros are dropped
// first since their logarithm is undefined.
func EstimateConvergence(h History, mode Mode) (Estimate, error) {
	est := Estimate{Mode: mode}
	n := len(h)
	for n > 0 && h[n-1] == 0 {
		n--
	}
	logs := make([]float64, n)
	for i := 0; i < n; i++ {
		logs[i] = math.Log10(h[i])
	}

	var xs, ys []float64
	switch mode {
	case ModeConsecutive:
		if n > 1 {
			xs, ys = logs[:n-1], logs[1:]
		}
	case ModeIndex:
		xs = make([]float64, n)
		for i := range xs {
			xs[i] = float64(i)
		}
		ys = logs
	default:
		return est, fmt.Errorf("%w: unknown estimation mode %d", ErrInvalidInput, int(mode))
	}
	est.Points = len(xs)
	if est.Points < 2 {
		return est, fmt.Errorf("%w: %d point(s) after dropping trailing zeros", ErrShortHistory, est.Points)
	}

	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	est.Rate = beta
	est.RSquared = stat.RSquared(xs, ys, nil, alpha, beta)
	if math.IsNaN(est.Rate) || math.IsInf(est.Rate, 0) || math.IsNaN(est.RSquared) {
		return est, fmt.Errorf("%w: slope %g, r² %g", ErrDegenerateFit, est.Rate, est.RSquared)
	}
	return est, nil
}
