package rootfind

import (
	"context"
	"fmt"
	"log/slog"
	"math"
)

// Option configures a single run.
type Option func(*settings)

type settings struct {
	maxIterations int
	logger        *slog.Logger
}

// WithMaxIterations caps the number of updates a run may apply. Past the
// cap the run stops with StatusExhausted and ErrIterationBudget. n <= 0
// leaves the loop unbounded, which is the default.
func WithMaxIterations(n int) Option {
	return func(s *settings) { s.maxIterations = n }
}

// WithLogger sets the logger for reset and breakdown events, logged at
// debug level.
func WithLogger(l *slog.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}

func newSettings(opts []Option) settings {
	s := settings{logger: slog.Default()}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// check runs before every update.
func (s settings) check(ctx context.Context, iterations int) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrCanceled, err)
	}
	if s.maxIterations > 0 && iterations >= s.maxIterations {
		return fmt.Errorf("%w: %d updates", ErrIterationBudget, iterations)
	}
	return nil
}

func checkTolerance(eps float64) error {
	if !(eps > 0) || math.IsInf(eps, 1) {
		return fmt.Errorf("%w: tolerance must be positive and finite, got %g", ErrInvalidInput, eps)
	}
	return nil
}
