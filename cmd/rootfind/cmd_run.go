package main

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/njchilds90/gorootfind/rootfind"
	"github.com/njchilds90/gorootfind/symbolic"
)

var (
	runExpr         string
	runVar          string
	runMethod       string
	runStart        []float64
	runEps          float64
	runMaxIter      int
	runEstimateFlag bool
	runMode         string

	estimateMode string
)

type runOutput struct {
	Expression string             `json:"expression"`
	Result     rootfind.Result    `json:"result"`
	Estimate   *rootfind.Estimate `json:"estimate,omitempty"`
}

// runRun is the handler for "rootfind run". A breakdown is reported, not
// treated as an error; Ctrl-C cancels an unbounded run.
func runRun(cmd *cobra.Command, args []string) error {
	method, err := rootfind.ParseMethod(runMethod)
	if err != nil {
		return err
	}
	mode, err := rootfind.ParseMode(runMode)
	if err != nil {
		return err
	}
	expr, err := symbolic.Parse(runExpr)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	res, err := rootfind.RunExpr(ctx, method, expr, runVar, runStart, runEps,
		rootfind.WithMaxIterations(runMaxIter), rootfind.WithLogger(logger))
	if err != nil {
		logger.Debug("run stopped", "status", res.Status, "iterations", res.Iterations, "partial_history", len(res.History))
		return fmt.Errorf("%s from %v: %w", method, runStart, err)
	}

	out := runOutput{Expression: expr.String(), Result: res}
	if runEstimateFlag {
		est, err := rootfind.EstimateConvergence(res.History, mode)
		if err != nil {
			logger.Warn("estimate unavailable", "error", err)
		} else {
			out.Estimate = &est
		}
	}

	w := cmd.OutOrStdout()
	if jsonOutput {
		return outputJSON(w, out)
	}
	fmt.Fprintf(w, "f(%s) = %s\n", runVar, out.Expression)
	fmt.Fprintf(w, "method:     %s\n", res.Method)
	fmt.Fprintf(w, "status:     %s\n", res.Status)
	fmt.Fprintf(w, "root:       %.17g\n", res.Root)
	fmt.Fprintf(w, "iterations: %d\n", res.Iterations)
	for i, v := range res.History {
		fmt.Fprintf(w, "  |f(x%d)| = %.6e\n", i, v)
	}
	if out.Estimate != nil {
		fmt.Fprintf(w, "order:      %.4f (r² %.4f, %d points)\n", out.Estimate.Rate, out.Estimate.RSquared, out.Estimate.Points)
	}
	return nil
}

// runEstimate is the handler for "rootfind estimate".
func runEstimate(cmd *cobra.Command, args []string) error {
	mode, err := rootfind.ParseMode(estimateMode)
	if err != nil {
		return err
	}
	h := make(rootfind.History, len(args))
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return fmt.Errorf("value %d: %w", i, err)
		}
		h[i] = v
	}
	est, err := rootfind.EstimateConvergence(h, mode)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if jsonOutput {
		return outputJSON(w, est)
	}
	fmt.Fprintf(w, "mode:   %s\nrate:   %.6f\nr²:     %.6f\npoints: %d\n", est.Mode, est.Rate, est.RSquared, est.Points)
	return nil
}
