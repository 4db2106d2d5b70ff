package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/invpend/internal/dynamo"
)

type Cart struct {
	Body
	c *Coefficients
}

func (c *Cart) RHS(x [4]float64, force float64) [2]float64 {
	sint, cost := math.Sincos(x[2])
	e := c.c.E

	accel := (e[0]*x[1] + e[1]*x[3]*cost + e[2]*sint*x[3]*x[3] + e[3]*math.Sin(2*x[2]) + e[4]*force) /
		c.c.Denominator(cost)

	return [2]float64{x[1], accel}
}

type Pendulum struct {
	Body
	A1 float64
	J1 float64
	c  *Coefficients
}

func (p *Pendulum) RHS(x [4]float64, force float64) [2]float64 {
	sint, cost := math.Sincos(x[2])
	f := p.c.F

	alpha := (f[0]*x[1]*cost + f[1]*x[3] + f[2]*math.Sin(2*x[2])*x[3]*x[3] + f[3]*sint + f[4]*cost*force) /
		p.c.Denominator(cost)

	return [2]float64{x[3], alpha}
}

// CartPendulum is the full system state: the cart, the pendulum, the control
// force currently held on the cart and the simulation clock.
type CartPendulum struct {
	Cart     *Cart
	Pendulum *Pendulum
	Params   Params

	coeffs *Coefficients
	force  float64
	time   float64
}

// NewCartPendulum builds the system at t=0 with zero control force.
// init is (cart position, cart velocity, pendulum angle, pendulum angular velocity).
func NewCartPendulum(p Params, init [4]float64, limits Limits) (*CartPendulum, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	coeffs := NewCoefficients(p)

	return &CartPendulum{
		Cart: &Cart{
			Body: newBody(p.CartMass, p.CartFriction, limits.Pos, limits.Vel, [2]float64{init[0], init[1]}),
			c:    coeffs,
		},
		Pendulum: &Pendulum{
			Body: newBody(p.PendMass, p.PendFriction, limits.Theta, limits.Omega, [2]float64{init[2], init[3]}),
			A1:   p.A1,
			J1:   p.J1,
			c:    coeffs,
		},
		Params: p,
		coeffs: coeffs,
	}, nil
}

func (s *CartPendulum) Coefficients() Coefficients { return *s.coeffs }

func (s *CartPendulum) FullState() [4]float64 {
	c, p := s.Cart.State(), s.Pendulum.State()
	return [4]float64{c[0], c[1], p[0], p[1]}
}

func (s *CartPendulum) SetFullState(x [4]float64) {
	s.Cart.SetState([2]float64{x[0], x[1]})
	s.Pendulum.SetState([2]float64{x[2], x[3]})
}

func (s *CartPendulum) Force() float64         { return s.force }
func (s *CartPendulum) SetForce(force float64) { s.force = force }

// RHS evaluates the full-system derivative with the currently held force.
func (s *CartPendulum) RHS(x [4]float64) [4]float64 {
	return s.rhs(x, s.force)
}

func (s *CartPendulum) rhs(x [4]float64, force float64) [4]float64 {
	c := s.Cart.RHS(x, force)
	p := s.Pendulum.RHS(x, force)
	return [4]float64{c[0], c[1], p[0], p[1]}
}

// Energy is the swing-up pseudo-energy of the pendulum at state x, offset so
// that it is 0.2 at the upright rest position and negative when hanging.
func (s *CartPendulum) Energy(x dynamo.State) float64 {
	m, a1, g := s.Params.PendMass, s.Params.A1, s.Params.Gravity
	v := x[3] * a1
	return m*v*v/2 + m*a1*g*(math.Cos(x[2])-1) + 0.2
}

func (s *CartPendulum) StateDim() int   { return 4 }
func (s *CartPendulum) ControlDim() int { return 1 }

func (s *CartPendulum) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	d := s.rhs(toArray(x), u.Scalar())
	return d[:]
}

func (s *CartPendulum) State() dynamo.State {
	x := s.FullState()
	return x[:]
}

func (s *CartPendulum) SetState(x dynamo.State) {
	s.SetFullState(toArray(x))
}

func (s *CartPendulum) Apply(u dynamo.Control) { s.force = u.Scalar() }
func (s *CartPendulum) Control() dynamo.Control {
	return dynamo.Control{s.force}
}

// Reset puts the system back at t=0 in state init with zero force.
func (s *CartPendulum) Reset(init [4]float64) {
	s.SetFullState(init)
	s.force = 0
	s.time = 0
}

func (s *CartPendulum) Time() float64      { return s.time }
func (s *CartPendulum) Advance(dt float64) { s.time += dt }

func (s *CartPendulum) String() string {
	x := s.FullState()
	return fmt.Sprintf("t=%.2f x=[%.4f %.4f %.4f %.4f] F=%.4f", s.time, x[0], x[1], x[2], x[3], s.force)
}

func toArray(x dynamo.State) [4]float64 {
	var a [4]float64
	copy(a[:], x)
	return a
}
