// Command rootfind runs root-finding methods on expressions, estimates
// their convergence order, sweeps start points and serves the same over
// HTTP.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
