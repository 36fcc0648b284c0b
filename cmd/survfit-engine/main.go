// Command survfit-engine is a Cobra CLI wired the same way the teacher's cmd/rca-engine/main.go
// wires its dependencies: load YAML config, build a logger, register Prometheus collectors,
// construct the estimation/contrast engines, and either run once and print JSON or start the HTTP
// facade (§10.4).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "survfit-engine",
	Short: "Parametric survival-analysis estimator, contrast, and simulation engine",
	Long:  "survfit-engine fits right-censored survival distributions by maximum likelihood, contrasts two independent fits, simulates synthetic data, and can serve all of that over HTTP.",
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
