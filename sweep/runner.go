package sweep

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/njchilds90/gorootfind/rootfind"
	"github.com/njchilds90/gorootfind/symbolic"
	"github.com/njchilds90/gorootfind/telemetry"
)

// Outcome classifies a single run of a sweep.
type Outcome string

const (
	// OutcomeAccepted runs converged with a long enough History and a
	// usable fit; only these contribute to the means.
	OutcomeAccepted  Outcome = "accepted"
	OutcomeShort     Outcome = "short"
	OutcomeUnfit     Outcome = "unfit"
	OutcomeBreakdown Outcome = "breakdown"
	OutcomeExhausted Outcome = "exhausted"
	OutcomeFailed    Outcome = "failed"
)

// MethodReport aggregates every run of one method. The means are zero when
// no run was accepted.
type MethodReport struct {
	Method       rootfind.Method `json:"method"`
	Runs         int             `json:"runs"`
	Accepted     int             `json:"accepted"`
	Short        int             `json:"short"`
	Unfit        int             `json:"unfit"`
	Breakdowns   int             `json:"breakdowns"`
	Exhausted    int             `json:"exhausted"`
	Failed       int             `json:"failed"`
	MeanRate     float64         `json:"mean_rate"`
	MeanRSquared float64         `json:"mean_r_squared"`
}

type Report struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Expression string         `json:"expression"`
	Points     int            `json:"start_points"`
	StartedAt  time.Time      `json:"started_at"`
	DurationMs int64          `json:"duration_ms"`
	Methods    []MethodReport `json:"methods"`
}

// Runner executes sweeps. It is safe for concurrent use.
type Runner struct {
	logger  *slog.Logger
	metrics *telemetry.Metrics
}

// NewRunner builds a Runner. A nil logger means slog.Default(); metrics may
// be nil.
func NewRunner(logger *slog.Logger, metrics *telemetry.Metrics) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{logger: logger, metrics: metrics}
}

type runOutcome struct {
	outcome  Outcome
	estimate rootfind.Estimate
}

// Run executes every method from every start point, at most spec.Workers
// runs at a time. A canceled context aborts the sweep; every other failure
// is counted in the report.
func (r *Runner) Run(ctx context.Context, spec Spec) (*Report, error) {
	spec = spec.WithDefaults()
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	expr, err := symbolic.Parse(spec.Expression)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSpec, err)
	}
	f, err := rootfind.FromExpr(expr, spec.Variable)
	if err != nil {
		return nil, fmt.Errorf("sweep %s: %w", spec.Name, err)
	}

	starts := spec.StartPoints()
	report := &Report{
		ID:         uuid.NewString(),
		Name:       spec.Name,
		Expression: expr.String(),
		Points:     len(starts),
		StartedAt:  time.Now(),
	}
	logger := r.logger.With("sweep", spec.Name, "sweep_id", report.ID)
	logger.Info("sweep started", "expression", report.Expression, "start_points", len(starts),
		"methods", len(spec.Methods), "workers", spec.Workers)

	opts := []rootfind.Option{rootfind.WithMaxIterations(spec.MaxIterations), rootfind.WithLogger(logger)}
	outcomes := make([][]runOutcome, len(spec.Methods))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(spec.Workers)
	for mi, method := range spec.Methods {
		mi, method := mi, method
		outcomes[mi] = make([]runOutcome, len(starts))
		for si, x := range starts {
			si, x := si, x
			g.Go(func() error {
				res, err := rootfind.Run(gctx, method, f, spec.startFor(method, x), spec.Epsilon, opts...)
				if errors.Is(err, rootfind.ErrCanceled) {
					return err
				}
				r.metrics.ObserveRun(method.String(), string(res.Status), res.Iterations)
				if err != nil && !errors.Is(err, rootfind.ErrIterationBudget) {
					logger.Debug("run failed", "method", method, "start", x, "error", err)
				}
				outcomes[mi][si] = classify(res, err, spec.MinHistory)
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("sweep %s: %w", spec.Name, err)
	}

	for mi, method := range spec.Methods {
		mr := summarize(method, outcomes[mi])
		report.Methods = append(report.Methods, mr)
		r.metrics.ObserveSweepRate(spec.Name, method.String(), mr.MeanRate)
		logger.Info("method summary", "method", method, "runs", mr.Runs, "accepted", mr.Accepted,
			"mean_rate", mr.MeanRate, "mean_r_squared", mr.MeanRSquared)
	}
	elapsed := time.Since(report.StartedAt)
	report.DurationMs = elapsed.Milliseconds()
	r.metrics.ObserveSweepDuration(spec.Name, elapsed)
	return report, nil
}

func classify(res rootfind.Result, err error, minHistory int) runOutcome {
	switch {
	case errors.Is(err, rootfind.ErrIterationBudget):
		return runOutcome{outcome: OutcomeExhausted}
	case err != nil:
		return runOutcome{outcome: OutcomeFailed}
	case res.Status == rootfind.StatusBreakdown:
		return runOutcome{outcome: OutcomeBreakdown}
	case len(res.History) < minHistory:
		return runOutcome{outcome: OutcomeShort}
	}
	est, err := rootfind.EstimateConvergence(res.History, rootfind.ModeConsecutive)
	if err != nil {
		return runOutcome{outcome: OutcomeUnfit}
	}
	return runOutcome{outcome: OutcomeAccepted, estimate: est}
}

func summarize(method rootfind.Method, outcomes []runOutcome) MethodReport {
	mr := MethodReport{Method: method, Runs: len(outcomes)}
	var rates, rsq []float64
	for _, o := range outcomes {
		switch o.outcome {
		case OutcomeAccepted:
			mr.Accepted++
			rates = append(rates, o.estimate.Rate)
			rsq = append(rsq, o.estimate.RSquared)
		case OutcomeShort:
			mr.Short++
		case OutcomeUnfit:
			mr.Unfit++
		case OutcomeBreakdown:
			mr.Breakdowns++
		case OutcomeExhausted:
			mr.Exhausted++
		case OutcomeFailed:
			mr.Failed++
		}
	}
	if len(rates) > 0 {
		mr.MeanRate = stat.Mean(rates, nil)
		mr.MeanRSquared = stat.Mean(rsq, nil)
	}
	return mr
}
