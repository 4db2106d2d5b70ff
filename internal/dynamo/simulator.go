package dynamo

import (
	"context"
	"fmt"
)

// Simulator drives a Plant with a fixed-step Integrator under a Controller,
// feeding every sample to its metrics and observers.
type Simulator struct {
	integ     Integrator
	ctrl      Controller
	metrics   []Metric
	observers []Observer
}

func New(integ Integrator, ctrl Controller) *Simulator {
	return &Simulator{integ: integ, ctrl: ctrl}
}

func (s *Simulator) AddMetric(ms ...Metric)     { s.metrics = append(s.metrics, ms...) }
func (s *Simulator) AddObserver(os ...Observer) { s.observers = append(s.observers, os...) }

// Step advances the plant by exactly one fixed step of size dt and returns
// the new state.
func (s *Simulator) Step(p Plant, dt float64) State {
	x := p.State()
	t := p.Time()

	u := s.ctrl.Compute(x, t)
	p.Apply(u)

	next := s.integ.Step(p, x, u, t, dt)
	p.SetState(next)
	p.Advance(dt)
	return next
}

// Advance emits the current sample to metrics and observers and then steps
// the plant once.
func (s *Simulator) Advance(p Plant, dt float64) State {
	s.emit(p)
	return s.Step(p, dt)
}

func (s *Simulator) emit(p Plant) (State, Control, float64) {
	x, u, t := p.State(), p.Control(), p.Time()
	for _, m := range s.metrics {
		m.Observe(x, u, t)
	}
	for _, obs := range s.observers {
		obs.OnStep(x, u, t)
	}
	return x, u, t
}

// Run emits the current sample to metrics and observers and then steps the
// plant, cfg.Steps times. A sample pairs the state at time t with the control
// that was held while the plant moved into that state, so the first sample
// carries the initial control.
func (s *Simulator) Run(ctx context.Context, p Plant, cfg Config) (*Result, error) {
	if err := s.validate(p, cfg); err != nil {
		return nil, err
	}

	n := cfg.Steps
	result := &Result{
		States:   make([]State, 0, n),
		Controls: make([]Control, 0, n),
		Times:    make([]float64, 0, n),
		Metrics:  make(map[string]float64, len(s.metrics)),
	}
	for _, m := range s.metrics {
		m.Reset()
	}

	for i := range cfg.Steps {
		if err := ctx.Err(); err != nil {
			s.collect(result)
			return result, err
		}

		x, u, t := s.emit(p)
		result.States = append(result.States, x.Clone())
		result.Controls = append(result.Controls, append(Control(nil), u...))
		result.Times = append(result.Times, t)

		next := s.Step(p, cfg.Dt)
		result.StepsTaken++

		if cfg.ValidateState && !next.IsValid() {
			err := &SimulationError{Step: i, Time: p.Time(), State: next.Clone(), Err: ErrInvalidState}
			result.Errors = append(result.Errors, err)
			s.collect(result)
			return result, err
		}
	}

	s.collect(result)
	return result, nil
}

// Metrics returns the current value of every registered metric.
func (s *Simulator) Metrics() map[string]float64 {
	out := make(map[string]float64, len(s.metrics))
	for _, m := range s.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}

func (s *Simulator) collect(result *Result) {
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func (s *Simulator) validate(p Plant, cfg Config) error {
	switch {
	case cfg.Dt <= 0:
		return fmt.Errorf("dynamo: step size %g is not positive", cfg.Dt)
	case cfg.Steps <= 0:
		return fmt.Errorf("dynamo: step count %d is not positive", cfg.Steps)
	}
	if got, want := len(p.State()), p.StateDim(); got != want {
		return fmt.Errorf("%w: got %d components, want %d", ErrDimensionMismatch, got, want)
	}
	return nil
}
