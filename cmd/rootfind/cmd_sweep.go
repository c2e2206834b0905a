package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/njchilds90/gorootfind/plot"
	"github.com/njchilds90/gorootfind/rootfind"
	"github.com/njchilds90/gorootfind/sweep"
	"github.com/njchilds90/gorootfind/symbolic"
)

var (
	sweepName    string
	sweepWorkers int

	plotExpr    string
	plotVar     string
	plotMethods []string
	plotStart   float64
	plotOffset  float64
	plotEps     float64
	plotMaxIter int
)

// runSweep is the handler for "rootfind sweep".
func runSweep(cmd *cobra.Command, args []string) error {
	var spec sweep.Spec
	if sweepName == "" {
		spec = cfg.Sweeps[0]
	} else {
		var ok bool
		if spec, ok = cfg.Sweep(sweepName); !ok {
			return fmt.Errorf("no sweep named %q in the configuration", sweepName)
		}
	}
	if sweepWorkers > 0 {
		spec.Workers = sweepWorkers
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	report, err := sweep.NewRunner(logger, nil).Run(ctx, spec)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if jsonOutput {
		return outputJSON(w, report)
	}
	fmt.Fprintf(w, "sweep %s: f(x) = %s, %d start points, %d ms\n\n",
		report.Name, report.Expression, report.Points, report.DurationMs)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "METHOD\tRUNS\tACCEPTED\tSHORT\tUNFIT\tBREAKDOWN\tEXHAUSTED\tFAILED\tMEAN RATE\tMEAN R²")
	for _, m := range report.Methods {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%.4f\t%.4f\n",
			m.Method, m.Runs, m.Accepted, m.Short, m.Unfit, m.Breakdowns, m.Exhausted, m.Failed, m.MeanRate, m.MeanRSquared)
	}
	return tw.Flush()
}

// runPlot is the handler for "rootfind plot". Methods that fail still get
// their partial trace plotted.
func runPlot(cmd *cobra.Command, args []string) error {
	expr, err := symbolic.Parse(plotExpr)
	if err != nil {
		return err
	}
	f, err := rootfind.FromExpr(expr, plotVar)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	traces := make(map[string]rootfind.History, len(plotMethods))
	for _, name := range plotMethods {
		method, err := rootfind.ParseMethod(name)
		if err != nil {
			return err
		}
		start := []float64{plotStart}
		if method.StartPoints() == 2 {
			start = append(start, plotStart+plotOffset)
		}
		res, err := rootfind.Run(ctx, method, f, start, plotEps,
			rootfind.WithMaxIterations(plotMaxIter), rootfind.WithLogger(logger))
		if errors.Is(err, rootfind.ErrCanceled) {
			return err
		}
		if err != nil {
			logger.Warn("method did not converge", "method", method, "status", res.Status, "error", err)
		}
		traces[method.String()] = res.History
	}

	title := fmt.Sprintf("f(%s) = %s from %g", plotVar, expr, plotStart)
	if err := plot.Histories(args[0], title, traces); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", args[0])
	return nil
}
