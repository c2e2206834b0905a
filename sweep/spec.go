// Package sweep runs root-finding methods over a grid of start points and
// averages the estimated convergence order per method.
package sweep

import (
	"errors"
	"fmt"
	"math"
	"runtime"

	"github.com/njchilds90/gorootfind/rootfind"
	"github.com/njchilds90/gorootfind/symbolic"
)

// ErrInvalidSpec wraps every validation failure.
var ErrInvalidSpec = errors.New("sweep: invalid spec")

// maxStartPoints bounds the grid size.
const maxStartPoints = 100000

// Spec describes one sweep. Start points are From + i*Step for every i with
// a value below To. Secant runs start from (x, x+SecantOffset).
type Spec struct {
	Name          string            `yaml:"name" json:"name"`
	Expression    string            `yaml:"expression" json:"expression"`
	Variable      string            `yaml:"variable" json:"variable"`
	Methods       []rootfind.Method `yaml:"methods" json:"methods"`
	From          float64           `yaml:"from" json:"from"`
	To            float64           `yaml:"to" json:"to"`
	Step          float64           `yaml:"step" json:"step"`
	SecantOffset  float64           `yaml:"secant_offset" json:"secant_offset"`
	Epsilon       float64           `yaml:"epsilon" json:"epsilon"`
	MaxIterations int               `yaml:"max_iterations" json:"max_iterations"`
	MinHistory    int               `yaml:"min_history" json:"min_history"`
	Workers       int               `yaml:"workers" json:"workers"`
}

// DefaultSpec is the quintic x^5 - x^4 + x^3 - x^2 + x - 1 swept over
// [-10, 10) in steps of 0.1 with Secant, Newton and Halley at 1e-12.
// Runs are capped at 1000 updates.
func DefaultSpec() Spec {
	return Spec{
		Name:          "quintic",
		Expression:    "x^5 - x^4 + x^3 - x^2 + x - 1",
		Variable:      "x",
		Methods:       []rootfind.Method{rootfind.MethodSecant, rootfind.MethodNewton, rootfind.MethodHalley},
		From:          -10,
		To:            10,
		Step:          0.1,
		SecantOffset:  0.1,
		Epsilon:       1e-12,
		MaxIterations: 1000,
		MinHistory:    3,
	}
}

// WithDefaults fills the optional fields. Epsilon has no default.
func (s Spec) WithDefaults() Spec {
	if s.Name == "" {
		s.Name = "sweep"
	}
	if s.Variable == "" {
		s.Variable = "x"
	}
	if len(s.Methods) == 0 {
		s.Methods = []rootfind.Method{rootfind.MethodSecant, rootfind.MethodNewton, rootfind.MethodHalley}
	}
	if s.SecantOffset == 0 {
		s.SecantOffset = s.Step
	}
	if s.MinHistory <= 0 {
		s.MinHistory = 3
	}
	if s.Workers <= 0 {
		s.Workers = runtime.GOMAXPROCS(0)
	}
	return s
}

func (s Spec) Validate() error {
	if s.Expression == "" {
		return fmt.Errorf("%w: expression is required", ErrInvalidSpec)
	}
	if _, err := symbolic.Parse(s.Expression); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSpec, err)
	}
	if !finite(s.From) || !finite(s.To) || s.To <= s.From {
		return fmt.Errorf("%w: need from < to, got [%g, %g)", ErrInvalidSpec, s.From, s.To)
	}
	if !finite(s.Step) || s.Step <= 0 {
		return fmt.Errorf("%w: step must be positive, got %g", ErrInvalidSpec, s.Step)
	}
	if (s.To-s.From)/s.Step > maxStartPoints {
		return fmt.Errorf("%w: more than %d start points", ErrInvalidSpec, maxStartPoints)
	}
	if !finite(s.SecantOffset) || s.SecantOffset == 0 {
		return fmt.Errorf("%w: secant offset must be non-zero, got %g", ErrInvalidSpec, s.SecantOffset)
	}
	if !finite(s.Epsilon) || s.Epsilon <= 0 {
		return fmt.Errorf("%w: epsilon must be positive, got %g", ErrInvalidSpec, s.Epsilon)
	}
	if s.MaxIterations < 0 {
		return fmt.Errorf("%w: max_iterations must not be negative", ErrInvalidSpec)
	}
	for _, m := range s.Methods {
		if _, err := rootfind.ParseMethod(m.String()); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidSpec, err)
		}
	}
	return nil
}

// StartPoints lists the grid. Each point is computed from its index so
// rounding does not accumulate. When From and Step are short decimals the
// points are integer ratios, so -10 + 3*0.1 comes out as the float nearest
// -9.7 rather than one ulp off it.
func (s Spec) StartPoints() []float64 {
	from, step, scale, exact := s.decimalGrid()
	var out []float64
	for i := 0; ; i++ {
		x := s.From + float64(i)*s.Step
		if exact {
			x = (from + float64(i)*step) / scale
		}
		if x >= s.To {
			return out
		}
		out = append(out, x)
	}
}

// decimalGrid scales From and Step by the smallest power of ten up to 1e9
// that makes both whole numbers.
func (s Spec) decimalGrid() (from, step, scale float64, ok bool) {
	for scale = 1; scale <= 1e9; scale *= 10 {
		from, step = math.Round(s.From*scale), math.Round(s.Step*scale)
		if step > 0 && whole(s.From*scale, from) && whole(s.Step*scale, step) &&
			math.Abs(from) < 1<<50 && step < 1<<50 {
			return from, step, scale, true
		}
	}
	return 0, 0, 0, false
}

func whole(v, rounded float64) bool {
	return math.Abs(v-rounded) <= 1e-9*math.Max(1, math.Abs(v))
}

func (s Spec) startFor(m rootfind.Method, x float64) []float64 {
	if m.StartPoints() == 2 {
		return []float64{x, x + s.SecantOffset}
	}
	return []float64{x}
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
