package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/invpend/internal/config"
	"github.com/san-kum/invpend/internal/logging"
)

var (
	outDir   string
	logLevel string
	log      = zap.NewNop()

	dt         float64
	steps      int
	integrator string
	regulator  bool
	pos        float64
	vel        float64
	theta      float64
	omega      float64
	configFile string
	preset     string

	// plot
	phase    bool
	spectrum bool
	svgPath  string
	// export
	format string
	// png
	pngDir string
	dpi    int
	// tune
	metric   string
	scales   []float64
	maximize bool
	// sweep
	sweepVar string
	sweepMin float64
	sweepMax float64
	sweepN   int
	// montecarlo
	trials int
	spread []float64
	seed   int64
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "invpend",
		Short: "inverted pendulum on a cart",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := logging.New(logLevel)
			if err != nil {
				return err
			}
			log = l
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = log.Sync()
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&outDir, "out", config.DefaultOutputDir, "directory for output files")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation and record it to the next outputN.dat",
		Long: "Runs the simulation and echoes every record to stdout. Without any of\n" +
			"--pos, --vel, --theta, --omega, --config or --preset the initial state is\n" +
			"read interactively.",
		Args: cobra.NoArgs,
		RunE: runSimulation,
	}
	addSimFlags(runCmd)

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run a simulation with live visualization",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addSimFlags(liveCmd)

	compareCmd := &cobra.Command{
		Use:   "compare [integrator...]",
		Short: "compare integrators on the same initial state",
		RunE:  compareIntegrators,
	}
	addSimFlags(compareCmd)

	gainsCmd := &cobra.Command{
		Use:   "gains",
		Short: "linearize at upright and check the balancing gains",
		Args:  cobra.NoArgs,
		RunE:  analyzeGains,
	}
	addSimFlags(gainsCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list output files",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [file]",
		Short: "plot an output file in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().BoolVar(&phase, "phase", false, "plot pendulum phase portrait instead of time series")
	plotCmd.Flags().BoolVar(&spectrum, "spectrum", false, "plot the amplitude spectrum of each column instead of time series")
	plotCmd.Flags().StringVar(&svgPath, "svg", "", "also write the pendulum phase trajectory to this SVG file")

	exportCmd := &cobra.Command{
		Use:   "export [file]",
		Short: "convert an output file to JSON or CSV on stdout",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVarP(&format, "format", "f", "json", "json or csv")

	pngCmd := &cobra.Command{
		Use:   "png [file]",
		Short: "render an output file as PNG plots",
		Args:  cobra.MaximumNArgs(1),
		RunE:  pngRun,
	}
	pngCmd.Flags().StringVar(&pngDir, "dir", "", "directory for png files (default <out>/plots)")
	pngCmd.Flags().IntVar(&dpi, "dpi", 150, "resolution")

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid search over balancing gain multipliers",
		Args:  cobra.NoArgs,
		RunE:  tuneGains,
	}
	addSimFlags(tuneCmd)
	tuneCmd.Flags().StringVar(&metric, "metric", "peak_angle", "metric to optimize")
	tuneCmd.Flags().Float64SliceVar(&scales, "scales", []float64{0.5, 1, 1.5}, "multipliers tried for each gain")
	tuneCmd.Flags().BoolVar(&maximize, "maximize", false, "maximize the metric instead of minimizing it")

	scenarioCmd := &cobra.Command{
		Use:   "scenario <file.yaml>",
		Short: "run a scripted sequence of simulations",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	addSimFlags(scenarioCmd)

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep one initial-state component and report which runs end balanced",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addSimFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepVar, "var", "theta", "state component to sweep (pos, vel, theta, omega)")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 1, "last value")
	sweepCmd.Flags().IntVarP(&sweepN, "num", "n", 11, "number of values")

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "run randomly perturbed initial states and count balanced outcomes",
		Args:  cobra.NoArgs,
		RunE:  runMonteCarlo,
	}
	addSimFlags(monteCarloCmd)
	monteCarloCmd.Flags().IntVar(&trials, "trials", 50, "number of trials")
	monteCarloCmd.Flags().Float64SliceVar(&spread, "spread", []float64{0.2, 0.2, 0.2, 0.2}, "half-width of the perturbation per state component")
	monteCarloCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 uses the clock)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	rootCmd.AddCommand(runCmd, liveCmd, compareCmd, gainsCmd, tuneCmd, scenarioCmd, sweepCmd, monteCarloCmd, listCmd, plotCmd, pngCmd, exportCmd, presetsCmd)
	return rootCmd
}

func addSimFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "number of steps")
	cmd.Flags().StringVar(&integrator, "integrator", config.DefaultIntegrator, "integrator (rk4, rk4-classic, rk4-reference, euler)")
	cmd.Flags().BoolVar(&regulator, "regulator", true, "enable balancing and swing-up")
	cmd.Flags().Float64Var(&pos, "pos", 0, "initial cart position")
	cmd.Flags().Float64Var(&vel, "vel", 0, "initial cart velocity")
	cmd.Flags().Float64Var(&theta, "theta", 0, "initial pendulum angle (0 = upright)")
	cmd.Flags().Float64Var(&omega, "omega", 0, "initial pendulum angular velocity")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}
