package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/invpend/internal/analysis"
	"github.com/san-kum/invpend/internal/config"
	"github.com/san-kum/invpend/internal/dynamo"
	"github.com/san-kum/invpend/internal/experiment"
	"github.com/san-kum/invpend/internal/integrators"
	"github.com/san-kum/invpend/internal/optim"
	"github.com/san-kum/invpend/internal/plotting"
	"github.com/san-kum/invpend/internal/prompt"
	"github.com/san-kum/invpend/internal/report"
	"github.com/san-kum/invpend/internal/viz"
)

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, interactive, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if interactive {
		x, err := prompt.ReadInitialState(os.Stdin, os.Stdout, cfg.Limits)
		if err != nil {
			return err
		}
		cfg.SetInitState(x)
	}

	exp, err := experiment.New(cfg)
	if err != nil {
		return err
	}

	rep := report.Create(cfg.OutputDir, os.Stdout, log)
	exp.AddObserver(rep)

	x0 := cfg.GetInitState()
	log.Info("run started",
		zap.String("output", rep.Path()),
		zap.String("integrator", cfg.Integrator),
		zap.Float64("dt", cfg.Dt),
		zap.Int("steps", cfg.Steps),
		zap.Bool("regulator", cfg.Regulator),
		zap.Float64s("init", x0[:]))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	result, runErr := exp.Run(ctx)
	if err := rep.Close(); err != nil {
		log.Warn("closing output file", zap.Error(err))
	}

	if result != nil {
		fields := []zap.Field{zap.Int("steps", result.StepsTaken), zap.Duration("elapsed", time.Since(start))}
		for _, name := range sortedKeys(result.Metrics) {
			fields = append(fields, zap.Float64(name, result.Metrics[name]))
		}
		log.Info("run finished", fields...)
	}

	fmt.Println(rep.Status())
	return runErr
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	exp, err := experiment.New(cfg)
	if err != nil {
		return err
	}

	m := viz.NewModel(exp.Plant(), exp.Policy(), exp.Simulator(), viz.Options{Dt: cfg.Dt, Steps: cfg.Steps, SnapshotDir: cfg.OutputDir})
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return err
	}
	return nil
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	names := args
	if len(names) == 0 {
		names = []string{"rk4-classic", "rk4", "euler"}
	}

	fmt.Printf("comparing integrators (dt=%.4f, steps=%d, init=%v)\n\n", cfg.Dt, cfg.Steps, cfg.GetInitState())

	results, err := experiment.Compare(cmd.Context(), cfg, names)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEGRATOR\tFINAL x3\tMAX DEV\tEFFORT\tBALANCE\tTIME")
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(w, "%s\terror: %v\t\t\t\t\n", r.Integrator, r.Err)
			continue
		}
		fmt.Fprintf(w, "%s\t%+.6f\t%.3e\t%.4f\t%.1f%%\t%.2fms\n",
			r.Integrator,
			r.Final[2],
			r.MaxDeviation,
			r.Metrics["control_effort"],
			100*r.Metrics["balance_share"],
			float64(r.Elapsed.Microseconds())/1000,
		)
	}
	return w.Flush()
}

func analyzeGains(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	cfg.SetInitState([4]float64{})

	exp, err := experiment.New(cfg)
	if err != nil {
		return err
	}

	a, b := analysis.Linearize(exp.Plant(), dynamo.State{0, 0, 0, 0}, dynamo.Control{0}, 1e-6)
	fmt.Printf("A =\n%v\n\n", mat.Formatted(a, mat.Prefix("    "), mat.Squeeze()))
	fmt.Printf("B =\n%v\n\n", mat.Formatted(b, mat.Prefix("    "), mat.Squeeze()))

	open, err := analysis.Poles(a)
	if err != nil {
		return err
	}
	printPoles("open loop", open)

	k := analysis.EffectiveGain(cfg.Gains)
	closed, err := analysis.Poles(analysis.ClosedLoop(a, b, k))
	if err != nil {
		return err
	}
	fmt.Printf("K = %v\n\n", mat.Formatted(k, mat.Squeeze()))
	printPoles("closed loop", closed)

	if !analysis.Stable(closed) {
		log.Warn("gains do not stabilize the upright equilibrium", zap.Float64s("gains", cfg.Gains[:]))
	}
	return nil
}

func tuneGains(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if _, err := experiment.New(cfg); err != nil {
		return err
	}

	names := make([]string, len(cfg.Gains))
	ranges := make([][]float64, len(cfg.Gains))
	for i := range names {
		names[i] = optim.GainName(i)
		ranges[i] = scales
	}
	g := optim.NewGridSearch(names, ranges)
	g.Maximize = maximize

	log.Info("tuning gains",
		zap.String("metric", metric),
		zap.Float64s("scales", scales),
		zap.Int("runs", int(math.Pow(float64(len(scales)), float64(len(names))))))

	best, val, err := g.Search(cmd.Context(), optim.GainScales(cfg), metric)
	if err != nil {
		return err
	}

	tuned := cfg.Gains
	for i := range tuned {
		tuned[i] *= best[optim.GainName(i)]
	}
	fmt.Printf("best %s: %.6g\n", metric, val)
	fmt.Printf("scales: %v\n", sortedValues(best))
	fmt.Printf("gains:  %v\n", tuned)
	return nil
}

func printPoles(label string, poles []complex128) {
	stable := "unstable"
	if analysis.Stable(poles) {
		stable = "stable"
	}
	fmt.Printf("%s poles (%s):\n", label, stable)
	for _, p := range poles {
		fmt.Printf("  %+10.4f %+10.4fi  damping %.3f\n", real(p), imag(p), analysis.Damping(p))
	}
	fmt.Println()
}

func listRuns(cmd *cobra.Command, args []string) error {
	files, err := report.List(outDir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FILE\tRECORDS\tDURATION\tFINAL x1\tFINAL x3")
	for _, f := range files {
		run, err := report.Load(f)
		if err != nil {
			fmt.Fprintf(w, "%s\terror: %v\t\t\t\n", filepath.Base(f), err)
			continue
		}
		if run.Len() == 0 {
			fmt.Fprintf(w, "%s\t0\t-\t-\t-\n", filepath.Base(f))
			continue
		}
		last := run.States[run.Len()-1]
		fmt.Fprintf(w, "%s\t%d\t%.2fs\t%+.4f\t%+.4f\n",
			filepath.Base(f), run.Len(), run.Times[run.Len()-1], last[0], last[2])
	}
	return w.Flush()
}

// resolveRun loads the named file, or the newest output file in --out.
func resolveRun(args []string) (*report.Run, error) {
	if len(args) == 1 {
		return report.Load(args[0])
	}
	files, err := report.List(outDir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no output files in %s", outDir)
	}
	return report.Load(files[len(files)-1])
}

func plotRun(cmd *cobra.Command, args []string) error {
	run, err := resolveRun(args)
	if err != nil {
		return err
	}
	if run.Len() == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("file: %s\n", run.Path)
	fmt.Printf("records: %d\n\n", run.Len())

	if svgPath != "" {
		svg := viz.TrajectoryToSVG(run.Column(2), run.Column(3), 800, 600, "#00d7ff")
		if err := os.WriteFile(svgPath, []byte(svg), 0o644); err != nil {
			return err
		}
		log.Info("phase trajectory written", zap.String("path", svgPath))
	}

	if phase {
		portrait := analysis.NewPhasePortrait(run.States, 2, 3)
		fmt.Println("pendulum phase portrait (x3 vs x4)")
		fmt.Println(portrait.ASCII(70, 20))
		return nil
	}

	if spectrum {
		return plotSpectra(run)
	}

	for i, caption := range report.Columns[1:] {
		graph := asciigraph.Plot(run.Column(i),
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func plotSpectra(run *report.Run) error {
	if run.Len() < 2 {
		return fmt.Errorf("spectrum needs at least 2 records")
	}
	dt := run.Times[1] - run.Times[0]
	for i, caption := range report.Columns[1:] {
		s, err := analysis.NewSpectrum(run.Column(i), dt)
		if err != nil {
			return err
		}
		f, amp := s.Dominant()
		graph := asciigraph.Plot(s.Amplitudes,
			asciigraph.Height(8),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("%s spectrum, peak %.3f Hz (amplitude %.3g)", caption, f, amp)),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func pngRun(cmd *cobra.Command, args []string) error {
	run, err := resolveRun(args)
	if err != nil {
		return err
	}

	dir := pngDir
	if dir == "" {
		dir = filepath.Join(outDir, "plots")
	}
	opts := plotting.DefaultOptions()
	opts.DPI = dpi

	paths, err := plotting.SaveRun(run, dir, opts)
	if err != nil {
		return err
	}
	for _, p := range paths {
		fmt.Println(p)
	}
	log.Info("plots written", zap.String("source", run.Path), zap.Int("files", len(paths)))
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	run, err := resolveRun(args)
	if err != nil {
		return err
	}
	return report.Export(cmd.OutOrStdout(), run, format)
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tINIT\tREGULATOR\tSTEPS\tDESCRIPTION")
	for _, name := range config.ListPresets() {
		p := config.Presets[name]
		x0 := []string{
			fmt.Sprint(p.InitState.Pos), fmt.Sprint(p.InitState.Vel),
			fmt.Sprint(p.InitState.Theta), fmt.Sprint(p.InitState.Omega),
		}
		fmt.Fprintf(w, "%s\t(%s)\t%v\t%d\t%s\n", name, strings.Join(x0, ", "), p.Regulator, p.Steps, p.Description)
	}
	fmt.Fprintf(w, "\nintegrators: %s\n", strings.Join(integrators.Names(), ", "))
	return w.Flush()
}
