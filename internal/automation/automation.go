// Package automation runs batches of simulations: scripted scenarios,
// sweeps over one initial-state component and randomized trials.
package automation

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/invpend/internal/config"
	"github.com/san-kum/invpend/internal/control"
	"github.com/san-kum/invpend/internal/experiment"
	"github.com/san-kum/invpend/internal/physics"
	"github.com/san-kum/invpend/internal/report"
)

// Scenario is a scripted sequence of runs.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep overrides parts of the base configuration for one run. Zero
// values leave the base untouched.
type ScenarioStep struct {
	Preset     string    `yaml:"preset"`
	Integrator string    `yaml:"integrator"`
	Dt         float64   `yaml:"dt"`
	Steps      int       `yaml:"steps"`
	InitState  []float64 `yaml:"init_state"`
	Regulator  *bool     `yaml:"regulator"`
	Save       bool      `yaml:"save"`
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("%s: scenario has no steps", path)
	}
	return &scenario, nil
}

// Config layers the step on top of a copy of base.
func (s ScenarioStep) Config(base *config.Config) (*config.Config, error) {
	cfg := *base
	if s.Preset != "" {
		if err := cfg.ApplyPreset(s.Preset); err != nil {
			return nil, err
		}
	}
	if s.Integrator != "" {
		cfg.Integrator = s.Integrator
	}
	if s.Dt != 0 {
		cfg.Dt = s.Dt
	}
	if s.Steps != 0 {
		cfg.Steps = s.Steps
	}
	if s.InitState != nil {
		if len(s.InitState) != 4 {
			return nil, fmt.Errorf("init_state needs 4 values, got %d", len(s.InitState))
		}
		cfg.SetInitState([4]float64(s.InitState))
	}
	if s.Regulator != nil {
		cfg.Regulator = *s.Regulator
	}
	return &cfg, nil
}

type StepResult struct {
	Config  config.Config
	Final   [4]float64
	Metrics map[string]float64
	// Output is the record file of a saved step.
	Output string
}

// RunScenario executes the steps in order and stops at the first failure.
func RunScenario(ctx context.Context, scenario *Scenario, base *config.Config, log *zap.Logger) ([]StepResult, error) {
	if log == nil {
		log = zap.NewNop()
	}
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		cfg, err := step.Config(base)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		exp, err := experiment.New(cfg)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		var rep *report.Reporter
		if step.Save {
			rep = report.Create(cfg.OutputDir, nil, log)
			exp.AddObserver(rep)
		}

		x0 := cfg.GetInitState()
		log.Info("scenario step",
			zap.String("scenario", scenario.Name),
			zap.Int("step", i+1),
			zap.Int("of", len(scenario.Steps)),
			zap.String("integrator", cfg.Integrator),
			zap.Float64s("init", x0[:]))

		result, err := exp.Run(ctx)
		if rep != nil {
			if cerr := rep.Close(); cerr != nil {
				log.Warn("closing output failed", zap.String("path", rep.Path()), zap.Error(cerr))
			}
		}
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		sr := StepResult{Config: *cfg, Final: exp.Plant().FullState(), Metrics: result.Metrics}
		if rep != nil && rep.OK() {
			sr.Output = rep.Path()
		}
		results = append(results, sr)
	}
	return results, nil
}

// Sweep varies one initial-state component over N evenly spaced values.
type Sweep struct {
	Variable string
	Min, Max float64
	N        int
}

type SweepResult struct {
	Value    float64
	Final    [4]float64
	Metrics  map[string]float64
	Balanced bool
	Err      error
}

func variableIndex(name string) (int, error) {
	for i, n := range physics.StateNames {
		if n == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown state variable %q (want one of %v)", name, physics.StateNames)
}

// RunSweep runs base once per sweep value. Values that give an invalid
// configuration are reported in SweepResult.Err and do not stop the sweep.
func RunSweep(ctx context.Context, sweep Sweep, base *config.Config) ([]SweepResult, error) {
	idx, err := variableIndex(sweep.Variable)
	if err != nil {
		return nil, err
	}
	if sweep.N < 1 {
		return nil, fmt.Errorf("sweep needs at least one value, got %d", sweep.N)
	}

	step := 0.0
	if sweep.N > 1 {
		step = (sweep.Max - sweep.Min) / float64(sweep.N-1)
	}

	results := make([]SweepResult, 0, sweep.N)
	for i := 0; i < sweep.N; i++ {
		cfg := *base
		x0 := cfg.GetInitState()
		x0[idx] = sweep.Min + float64(i)*step
		cfg.SetInitState(x0)

		r := runTrial(ctx, &cfg)
		if err := ctx.Err(); err != nil {
			return results, err
		}
		results = append(results, SweepResult{
			Value:    x0[idx],
			Final:    r.Final,
			Metrics:  r.Metrics,
			Balanced: r.Balanced,
			Err:      r.Err,
		})
	}
	return results, nil
}

// MonteCarloConfig perturbs every initial-state component i uniformly
// within ±Spread[i] around the base state.
type MonteCarloConfig struct {
	Spread [4]float64
	Trials int
	// Seed 0 seeds from the clock.
	Seed int64
}

type Trial struct {
	ID       int
	Init     [4]float64
	Final    [4]float64
	Metrics  map[string]float64
	Balanced bool
	Err      error
}

func RunMonteCarlo(ctx context.Context, mc MonteCarloConfig, base *config.Config) ([]Trial, error) {
	if mc.Trials < 1 {
		return nil, fmt.Errorf("montecarlo needs at least one trial, got %d", mc.Trials)
	}
	seed := mc.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	center := base.GetInitState()
	trials := make([]Trial, 0, mc.Trials)
	for id := 0; id < mc.Trials; id++ {
		var x0 [4]float64
		for i := range x0 {
			x0[i] = center[i] + (rng.Float64()-0.5)*2*mc.Spread[i]
		}
		cfg := *base
		cfg.SetInitState(x0)

		r := runTrial(ctx, &cfg)
		if err := ctx.Err(); err != nil {
			return trials, err
		}
		r.ID = id
		r.Init = x0
		trials = append(trials, r)
	}
	return trials, nil
}

// Summary counts trials that ended balanced, ended elsewhere and failed.
func Summary(trials []Trial) (balanced, unbalanced, failed int) {
	for _, t := range trials {
		switch {
		case t.Err != nil:
			failed++
		case t.Balanced:
			balanced++
		default:
			unbalanced++
		}
	}
	return
}

// runTrial runs one configuration to completion. A trial is balanced when
// the policy would hold its final state with the LQ law and the pendulum
// has settled within SettleAngle of upright.
func runTrial(ctx context.Context, cfg *config.Config) Trial {
	exp, err := experiment.New(cfg)
	if err != nil {
		return Trial{Err: err}
	}
	result, err := exp.Run(ctx)
	if err != nil {
		return Trial{Err: err}
	}

	final := exp.Plant().FullState()
	mode, _ := exp.Policy().Decide(final[:])
	return Trial{
		Final:    final,
		Metrics:  result.Metrics,
		Balanced: mode == control.ModeBalance && math.Abs(final[2]) < SettleAngle,
	}
}

// SettleAngle is the largest final |x3| that counts as balanced.
const SettleAngle = 0.05
