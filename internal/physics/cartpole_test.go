package physics

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/invpend/internal/dynamo"
)

func newTestSystem(t *testing.T, init [4]float64) *CartPendulum {
	t.Helper()
	s, err := NewCartPendulum(DefaultParams(), init, DefaultLimits())
	if err != nil {
		t.Fatalf("new system: %v", err)
	}
	return s
}

func TestRHSIdentityComponents(t *testing.T) {
	s := newTestSystem(t, [4]float64{})
	limits := DefaultLimits()

	forces := []float64{-5, 0, 3.3}
	n := 7
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			frac := func(k int) float64 { return float64(k) / float64(n-1) }
			x := [4]float64{
				limits.Pos.Min + frac(i)*(limits.Pos.Max-limits.Pos.Min),
				limits.Vel.Min + frac(j)*(limits.Vel.Max-limits.Vel.Min),
				limits.Theta.Min + frac(j)*(limits.Theta.Max-limits.Theta.Min),
				limits.Omega.Min + frac(i)*(limits.Omega.Max-limits.Omega.Min),
			}
			for _, f := range forces {
				s.SetForce(f)
				d := s.RHS(x)
				if d[0] != x[1] {
					t.Errorf("x=%v F=%v: expected d[0]=%v, got %v", x, f, x[1], d[0])
				}
				if d[2] != x[3] {
					t.Errorf("x=%v F=%v: expected d[2]=%v, got %v", x, f, x[3], d[2])
				}
			}
		}
	}
}

func TestBodyRHSIgnoresCoefficientsForIdentity(t *testing.T) {
	weird := &Coefficients{K: [2]float64{1, 0}, E: [5]float64{7, 7, 7, 7, 7}, F: [5]float64{-3, -3, -3, -3, -3}}
	cart := &Cart{c: weird}
	pend := &Pendulum{c: weird}

	x := [4]float64{0.3, -1.25, 2.0, 4.5}
	if d := cart.RHS(x, 9); d[0] != x[1] {
		t.Errorf("cart identity broken: got %v", d[0])
	}
	if d := pend.RHS(x, 9); d[0] != x[3] {
		t.Errorf("pendulum identity broken: got %v", d[0])
	}
}

func TestUprightEquilibrium(t *testing.T) {
	s := newTestSystem(t, [4]float64{})
	d := s.RHS([4]float64{})
	for i, v := range d {
		if v != 0 {
			t.Errorf("expected zero derivative at upright rest, d[%d]=%v", i, v)
		}
	}
}

func TestHangingEquilibrium(t *testing.T) {
	s := newTestSystem(t, [4]float64{})
	d := s.RHS([4]float64{0, 0, math.Pi, 0})
	for i, v := range d {
		if math.Abs(v) > 1e-12 {
			t.Errorf("expected zero derivative hanging at rest, d[%d]=%v", i, v)
		}
	}
}

func TestUprightIsUnstable(t *testing.T) {
	s := newTestSystem(t, [4]float64{})
	d := s.RHS([4]float64{0, 0, 0.05, 0})
	if d[3] <= 0 {
		t.Errorf("expected pendulum to fall away from upright, alpha=%v", d[3])
	}
}

func TestForceAccelerations(t *testing.T) {
	s := newTestSystem(t, [4]float64{})
	s.SetForce(5)
	d := s.RHS([4]float64{})

	if d[1] <= 0 {
		t.Errorf("positive force should accelerate cart forward, got %v", d[1])
	}
	if d[3] >= 0 {
		t.Errorf("positive force should tip upright pendulum backwards, got %v", d[3])
	}
}

func TestCoefficients(t *testing.T) {
	c := NewCoefficients(DefaultParams())

	inertia := 0.131*0.354*0.354 + 0.0043
	tests := []struct {
		name     string
		got      float64
		expected float64
	}{
		{"k0", c.K[0], (0.548 + 0.131) * inertia},
		{"k1", c.K[1], -0.131 * 0.131 * 0.354 * 0.354},
		{"e4", c.E[4], inertia},
		{"f3", c.F[3], (0.131 + 0.548) * 0.131 * 0.354 * 9.81},
		{"f4", c.F[4], -0.131 * 0.354},
	}
	for _, tt := range tests {
		if math.Abs(tt.got-tt.expected) > 1e-12 {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.expected, tt.got)
		}
	}

	if c.Denominator(1) <= 0 || c.Denominator(0) <= 0 {
		t.Error("denominator must stay positive for default params")
	}
}

func TestParamsValidate(t *testing.T) {
	if err := DefaultParams().Validate(); err != nil {
		t.Fatalf("default params rejected: %v", err)
	}

	bad := DefaultParams()
	bad.CartMass = 0
	if err := bad.Validate(); !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("expected ErrParameterBounds, got %v", err)
	}

	if _, err := NewCartPendulum(bad, [4]float64{}, DefaultLimits()); err == nil {
		t.Error("expected constructor to reject bad params")
	}
}

func TestLimitsValidate(t *testing.T) {
	limits := DefaultLimits()

	tests := []struct {
		name  string
		x     [4]float64
		valid bool
	}{
		{"origin", [4]float64{}, true},
		{"edges", [4]float64{-1.5, 2, 3.14, -5}, true},
		{"pos out", [4]float64{1.6, 0, 0, 0}, false},
		{"vel out", [4]float64{0, -2.1, 0, 0}, false},
		{"theta out", [4]float64{0, 0, math.Pi, 0}, false},
		{"omega out", [4]float64{0, 0, 0, 5.5}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := limits.Validate(tt.x)
			if (err == nil) != tt.valid {
				t.Errorf("Validate(%v) = %v, want valid=%v", tt.x, err, tt.valid)
			}
		})
	}
}

func TestPlantAccessors(t *testing.T) {
	s := newTestSystem(t, [4]float64{0.1, 0.2, 0.3, 0.4})

	if s.StateDim() != 4 || s.ControlDim() != 1 {
		t.Errorf("unexpected dims %d/%d", s.StateDim(), s.ControlDim())
	}
	if got := s.State(); got[0] != 0.1 || got[3] != 0.4 {
		t.Errorf("unexpected state %v", got)
	}
	if s.Cart.PosBounds() != DefaultLimits().Pos {
		t.Errorf("cart bounds not set from limits: %v", s.Cart.PosBounds())
	}

	s.SetState(dynamo.State{1, 2, 3, 4})
	if s.Cart.Position != 1 || s.Pendulum.Velocity != 4 {
		t.Errorf("SetState did not reach bodies: %v", s)
	}

	s.Apply(dynamo.Control{2.5})
	if s.Force() != 2.5 || s.Control()[0] != 2.5 {
		t.Errorf("control not latched: %v", s.Control())
	}

	s.Advance(0.01)
	s.Advance(0.01)
	if math.Abs(s.Time()-0.02) > 1e-15 {
		t.Errorf("expected t=0.02, got %v", s.Time())
	}
}

func TestDeriveUsesGivenControl(t *testing.T) {
	s := newTestSystem(t, [4]float64{})
	s.SetForce(0)

	x := dynamo.State{0, 0, 0.2, 0}
	held := s.Derive(x, dynamo.Control{5}, 0)

	s.SetForce(5)
	direct := s.RHS([4]float64{0, 0, 0.2, 0})

	for i := range direct {
		if held[i] != direct[i] {
			t.Errorf("component %d: Derive=%v RHS=%v", i, held[i], direct[i])
		}
	}
}

func TestEnergy(t *testing.T) {
	s := newTestSystem(t, [4]float64{})

	if e := s.Energy(dynamo.State{0, 0, 0, 0}); math.Abs(e-0.2) > 1e-12 {
		t.Errorf("expected upright energy 0.2, got %v", e)
	}
	if e := s.Energy(dynamo.State{0, 0, math.Pi, 0}); e >= 0 {
		t.Errorf("expected negative energy when hanging, got %v", e)
	}
}

func TestReset(t *testing.T) {
	s := newTestSystem(t, [4]float64{0.1, 0, 0.2, 0})
	s.Apply(dynamo.Control{3})
	s.Advance(0.5)
	s.SetState(dynamo.State{1, 1, 1, 1})

	s.Reset([4]float64{0, 0, 0.3, 0})
	if s.FullState() != [4]float64{0, 0, 0.3, 0} {
		t.Errorf("unexpected state %v", s.FullState())
	}
	if s.Force() != 0 || s.Time() != 0 {
		t.Errorf("expected zero force and clock, got F=%v t=%v", s.Force(), s.Time())
	}
}
