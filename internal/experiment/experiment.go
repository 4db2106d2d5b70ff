// Package experiment assembles a runnable simulation from a configuration.
package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/invpend/internal/config"
	"github.com/san-kum/invpend/internal/control"
	"github.com/san-kum/invpend/internal/dynamo"
	"github.com/san-kum/invpend/internal/integrators"
	"github.com/san-kum/invpend/internal/metrics"
	"github.com/san-kum/invpend/internal/physics"
)

type Experiment struct {
	cfg       config.Config
	plant     *physics.CartPendulum
	policy    *control.Policy
	simulator *dynamo.Simulator
}

// New validates cfg and builds the plant, the policy and the simulator with
// the default metrics attached.
func New(cfg *config.Config) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	plant, err := physics.NewCartPendulum(cfg.Physics, cfg.GetInitState(), cfg.Limits)
	if err != nil {
		return nil, err
	}

	policy := control.NewPolicy(plant.Cart.PosBounds(), cfg.Gains, cfg.Physics)
	policy.Enabled = cfg.Regulator

	integ, err := integrators.Get(cfg.Integrator)
	if err != nil {
		return nil, err
	}

	s := dynamo.New(integ, policy)
	for _, m := range metrics.Default(plant, policy, cfg.Limits) {
		s.AddMetric(m)
	}

	return &Experiment{
		cfg:       *cfg,
		plant:     plant,
		policy:    policy,
		simulator: s,
	}, nil
}

func (e *Experiment) Config() config.Config         { return e.cfg }
func (e *Experiment) Plant() *physics.CartPendulum  { return e.plant }
func (e *Experiment) Policy() *control.Policy       { return e.policy }
func (e *Experiment) Simulator() *dynamo.Simulator  { return e.simulator }
func (e *Experiment) AddObserver(o dynamo.Observer) { e.simulator.AddObserver(o) }

func (e *Experiment) Run(ctx context.Context) (*dynamo.Result, error) {
	return e.simulator.Run(ctx, e.plant, dynamo.Config{
		Dt:            e.cfg.Dt,
		Steps:         e.cfg.Steps,
		ValidateState: true,
	})
}
