package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/invpend/internal/automation"
)

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	results, err := automation.RunScenario(cmd.Context(), sc, cfg, log)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tINTEGRATOR\tINIT\tFINAL x3\tPEAK x3\tOUTPUT")
	for i, r := range results {
		out := r.Output
		if out == "" {
			out = "-"
		}
		fmt.Fprintf(w, "%d\t%s\t%v\t%+.6f\t%.4f\t%s\n",
			i+1, r.Config.Integrator, r.Config.GetInitState(), r.Final[2], r.Metrics["peak_angle"], out)
	}
	if ferr := w.Flush(); err == nil {
		err = ferr
	}
	return err
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	sw := automation.Sweep{Variable: sweepVar, Min: sweepMin, Max: sweepMax, N: sweepN}
	log.Info("sweeping initial state",
		zap.String("var", sw.Variable),
		zap.Float64("min", sw.Min),
		zap.Float64("max", sw.Max),
		zap.Int("n", sw.N))

	results, err := automation.RunSweep(cmd.Context(), sw, cfg)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tBALANCED\tFINAL x1\tFINAL x3\tPEAK x3\tEFFORT\n", sweepVar)
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(w, "%+.4f\terror: %v\t\t\t\t\n", r.Value, r.Err)
			continue
		}
		fmt.Fprintf(w, "%+.4f\t%v\t%+.4f\t%+.6f\t%.4f\t%.4f\n",
			r.Value, r.Balanced, r.Final[0], r.Final[2], r.Metrics["peak_angle"], r.Metrics["control_effort"])
	}
	return w.Flush()
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if len(spread) != 4 {
		return fmt.Errorf("--spread needs 4 values, got %d", len(spread))
	}

	mc := automation.MonteCarloConfig{Spread: [4]float64(spread), Trials: trials, Seed: seed}
	results, err := automation.RunMonteCarlo(cmd.Context(), mc, cfg)
	if err != nil {
		return err
	}

	balanced, unbalanced, failed := automation.Summary(results)
	for _, r := range results {
		if r.Err != nil {
			log.Debug("trial failed", zap.Int("trial", r.ID), zap.Float64s("init", r.Init[:]), zap.Error(r.Err))
		}
	}

	fmt.Printf("trials:     %d\n", len(results))
	fmt.Printf("balanced:   %d\n", balanced)
	fmt.Printf("unbalanced: %d\n", unbalanced)
	fmt.Printf("failed:     %d\n", failed)
	if n := len(results); n > 0 {
		fmt.Printf("success:    %.1f%%\n", 100*float64(balanced)/float64(n))
	}
	return nil
}
