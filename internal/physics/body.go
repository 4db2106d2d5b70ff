package physics

import "fmt"

// Range is a closed interval [Min, Max].
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

func (r Range) Contains(v float64) bool {
	return r.Min <= v && v <= r.Max
}

func (r Range) String() string {
	return fmt.Sprintf("[%.2f, %.2f]", r.Min, r.Max)
}

// Limits bounds the four components of the full state.
type Limits struct {
	Pos   Range `yaml:"pos"`
	Vel   Range `yaml:"vel"`
	Theta Range `yaml:"theta"`
	Omega Range `yaml:"omega"`
}

func DefaultLimits() Limits {
	return Limits{
		Pos:   Range{Min: -1.5, Max: 1.5},
		Vel:   Range{Min: -2, Max: 2},
		Theta: Range{Min: -3.14, Max: 3.14},
		Omega: Range{Min: -5, Max: 5},
	}
}

// Ranges returns the limits in full-state index order.
func (l Limits) Ranges() [4]Range {
	return [4]Range{l.Pos, l.Vel, l.Theta, l.Omega}
}

// Validate reports the first component of x that lies outside its range.
func (l Limits) Validate(x [4]float64) error {
	for i, r := range l.Ranges() {
		if !r.Contains(x[i]) {
			return fmt.Errorf("%s = %g outside %s", StateNames[i], x[i], r)
		}
	}
	return nil
}

// StateNames labels the full-state components in index order.
var StateNames = [4]string{"pos", "vel", "theta", "omega"}

// Body is the kinematic state of one rigid body plus its fixed physical
// properties. Bounds are set at construction and never change; velocity
// bounds are carried for callers and not enforced here.
type Body struct {
	Position float64
	Velocity float64
	Mass     float64
	Friction float64

	posBounds Range
	velBounds Range
}

func newBody(mass, friction float64, pos, vel Range, initial [2]float64) Body {
	return Body{
		Position:  initial[0],
		Velocity:  initial[1],
		Mass:      mass,
		Friction:  friction,
		posBounds: pos,
		velBounds: vel,
	}
}

func (b *Body) State() [2]float64 {
	return [2]float64{b.Position, b.Velocity}
}

func (b *Body) SetState(s [2]float64) {
	b.Position = s[0]
	b.Velocity = s[1]
}

func (b *Body) PosBounds() Range { return b.posBounds }
func (b *Body) VelBounds() Range { return b.velBounds }

// Deriver returns the time derivative of a body's own two state components
// given the full coupled state and the applied control force.
type Deriver interface {
	RHS(full [4]float64, force float64) [2]float64
}
