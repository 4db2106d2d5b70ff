package dynamo

import "math"

// State is a plant state vector. For the cart-pendulum it is
// (x1 cart position, x2 cart velocity, x3 angle from upright, x4 angular
// velocity).
type State []float64

func (s State) Clone() State {
	return append(State(nil), s...)
}

// IsValid reports whether every component is finite.
func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// MaxDiff is the largest absolute componentwise difference over the common
// length of s and other.
func (s State) MaxDiff(other State) float64 {
	worst := 0.0
	for i := range min(len(s), len(other)) {
		worst = math.Max(worst, math.Abs(s[i]-other[i]))
	}
	return worst
}

// Norm is the Euclidean length of s.
func (s State) Norm() float64 {
	sq := 0.0
	for _, v := range s {
		sq += v * v
	}
	return math.Sqrt(sq)
}

// Add, Sub and Scale return new states of len(s). Components missing from
// other count as zero.
func (s State) Add(other State) State { return s.zip(other, 1) }
func (s State) Sub(other State) State { return s.zip(other, -1) }

func (s State) Scale(f float64) State {
	out := make(State, len(s))
	for i, v := range s {
		out[i] = f * v
	}
	return out
}

func (s State) zip(other State, sign float64) State {
	out := s.Clone()
	for i := range min(len(s), len(other)) {
		out[i] += sign * other[i]
	}
	return out
}

// Control is the input applied to a plant; the cart-pendulum has one channel,
// the force on the cart.
type Control []float64

// Scalar returns the first control channel, or 0 for an empty control.
func (u Control) Scalar() float64 {
	if len(u) == 0 {
		return 0
	}
	return u[0]
}

// System is an ODE right-hand side dx/dt = f(x, u, t).
type System interface {
	Derive(x State, u Control, t float64) State
	StateDim() int
	ControlDim() int
}

// Plant is a System that owns its state, its latched control and its clock.
// The control passed to Apply is held constant until the next Apply.
type Plant interface {
	System
	State() State
	SetState(x State)
	Apply(u Control)
	Control() Control
	Time() float64
	Advance(dt float64)
}

// Integrator advances x by one step of dt with u held over every stage.
type Integrator interface {
	Step(dyn System, x State, u Control, t float64, dt float64) State
}

type Controller interface {
	Compute(x State, t float64) Control
}

// Metric folds the sample stream of a run into one number.
type Metric interface {
	Name() string
	Observe(x State, u Control, t float64)
	Value() float64
	Reset()
}

// Observer receives every sample of a run: the state at t and the control
// that was held while the plant moved into it.
type Observer interface {
	OnStep(x State, u Control, t float64)
}

type Config struct {
	Dt    float64
	Steps int
	// ValidateState stops the run at the first non-finite state.
	ValidateState bool
}

// DefaultConfig is h = 0.01 for 10000 steps with state validation on.
func DefaultConfig() Config {
	return Config{Dt: 0.01, Steps: 10000, ValidateState: true}
}

// Result holds one entry per emitted sample plus the final metric values.
type Result struct {
	States     []State
	Controls   []Control
	Times      []float64
	Metrics    map[string]float64
	StepsTaken int
	Errors     []error
}
