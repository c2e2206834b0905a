package main

import (
	"encoding/json"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/njchilds90/gorootfind/config"
)

// --- Global Command Variables ---
var (
	configPath string
	jsonOutput bool

	cfg    = config.Default()
	logger = slog.Default()

	rootCmd = &cobra.Command{
		Use:           "rootfind",
		Short:         "Find roots of expressions and measure how fast the methods converge",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				loaded, err := config.Load(configPath)
				if err != nil {
					return err
				}
				cfg = loaded
			}
			l, err := cfg.Log.Logger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			logger = l
			return nil
		},
	}

	runCmd = &cobra.Command{
		Use:   "run",
		Short: "Run one method from one start point",
		Args:  cobra.NoArgs,
		RunE:  runRun, // Defined in cmd_run.go
	}
	estimateCmd = &cobra.Command{
		Use:   "estimate [value...]",
		Short: "Fit the convergence order of a sequence of |f(x)| values",
		Args:  cobra.MinimumNArgs(2),
		RunE:  runEstimate, // Defined in cmd_run.go
	}
	sweepCmd = &cobra.Command{
		Use:   "sweep",
		Short: "Run a configured sweep and report the mean order per method",
		Args:  cobra.NoArgs,
		RunE:  runSweep, // Defined in cmd_sweep.go
	}
	plotCmd = &cobra.Command{
		Use:   "plot [output file]",
		Short: "Run several methods from one start point and plot their traces",
		Args:  cobra.ExactArgs(1),
		RunE:  runPlot, // Defined in cmd_sweep.go
	}
	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE:  runServe, // Defined in cmd_serve.go
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print machine-readable JSON")

	addRunFlags()

	estimateCmd.Flags().StringVar(&estimateMode, "mode", "pairs", "pairs or index")

	sweepCmd.Flags().StringVarP(&sweepName, "name", "n", "", "sweep to run; defaults to the first configured one")
	sweepCmd.Flags().IntVar(&sweepWorkers, "workers", 0, "concurrent runs; 0 means GOMAXPROCS")

	plotCmd.Flags().StringVarP(&plotExpr, "expr", "e", "x^5 - x^4 + x^3 - x^2 + x - 1", "expression to solve")
	plotCmd.Flags().StringVar(&plotVar, "var", "x", "variable to solve for")
	plotCmd.Flags().StringSliceVarP(&plotMethods, "methods", "m", []string{"secant", "newton", "halley"}, "methods to plot")
	plotCmd.Flags().Float64VarP(&plotStart, "start", "s", 2, "start point; secant also uses start+offset")
	plotCmd.Flags().Float64Var(&plotOffset, "offset", 0.1, "second secant start point offset")
	plotCmd.Flags().Float64Var(&plotEps, "eps", 1e-12, "stop once |f(x)| is below this")
	plotCmd.Flags().IntVar(&plotMaxIter, "max-iter", 1000, "update budget per method")

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address; overrides server.addr")

	rootCmd.AddCommand(runCmd, estimateCmd, sweepCmd, plotCmd, serveCmd)
}

// addRunFlags registers the flags of runCmd.
func addRunFlags() {
	runCmd.Flags().StringVarP(&runExpr, "expr", "e", "", "expression to solve (required)")
	runCmd.Flags().StringVar(&runVar, "var", "x", "variable to solve for")
	runCmd.Flags().StringVarP(&runMethod, "method", "m", "newton", "newton, halley, secant or taylor")
	runCmd.Flags().Float64SliceVarP(&runStart, "start", "s", nil, "start point(s); secant takes two")
	runCmd.Flags().Float64Var(&runEps, "eps", 1e-12, "stop once |f(x)| is below this")
	runCmd.Flags().IntVar(&runMaxIter, "max-iter", 0, "update budget; 0 means unbounded")
	runCmd.Flags().BoolVar(&runEstimateFlag, "estimate", false, "also fit the convergence order")
	runCmd.Flags().StringVar(&runMode, "mode", "pairs", "estimation mode for --estimate: pairs or index")
	_ = runCmd.MarkFlagRequired("expr")
	_ = runCmd.MarkFlagRequired("start")
}

// outputJSON writes v as indented JSON.
func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
