package integrators

import "github.com/san-kum/invpend/internal/dynamo"

// stages holds the slope buffers of a four-stage method so a Step does not
// allocate beyond its result.
type stages struct {
	k   [4]dynamo.State
	tmp dynamo.State
}

func (s *stages) resize(n int) {
	if len(s.tmp) == n {
		return
	}
	for i := range s.k {
		s.k[i] = make(dynamo.State, n)
	}
	s.tmp = make(dynamo.State, n)
}

// combine returns x + w*(k1 + 2k2 + 2k3 + k4)/6 in a fresh state.
func (s *stages) combine(x dynamo.State, w float64) dynamo.State {
	out := make(dynamo.State, len(x))
	for i := range out {
		out[i] = x[i] + w*(s.k[0][i]+2*s.k[1][i]+2*s.k[2][i]+s.k[3][i])/6
	}
	return out
}

// RK4 is the default four-stage scheme. Stage increments are already scaled
// by dt, and the intermediate states for stages two and three scale them by
// dt once more (x + 0.5*k*dt). The fourth stage uses k3 as is. The result
// differs from classical RK4 at O(dt^2); recorded trajectories depend on it.
// Use ClassicRK4 for the textbook method.
//
// With halfLast set the fourth stage is also taken at x + 0.5*k3*dt, which
// is what the reference pendulum driver computes.
type RK4 struct {
	stages
	halfLast bool
}

func NewRK4() *RK4 { return &RK4{} }

// NewReferenceRK4 returns the scheme registered as rk4-reference.
func NewReferenceRK4() *RK4 { return &RK4{halfLast: true} }

func (r *RK4) Step(sys dynamo.System, x dynamo.State, u dynamo.Control, t, dt float64) dynamo.State {
	r.resize(len(x))
	k, tmp := &r.k, r.tmp

	// Every stage is evaluated at t with u held.
	last := 1.0
	if r.halfLast {
		last = 0.5 * dt
	}
	src := x
	for s, f := range [4]float64{0.5 * dt, 0.5 * dt, last, 0} {
		d := sys.Derive(src, u, t)
		for i := range d {
			k[s][i] = dt * d[i]
		}
		src = axpy(tmp, x, f, k[s])
	}
	return r.combine(x, 1)
}

// ClassicRK4 is the textbook fourth-order Runge-Kutta method.
type ClassicRK4 struct{ stages }

func NewClassicRK4() *ClassicRK4 { return &ClassicRK4{} }

func (r *ClassicRK4) Step(sys dynamo.System, x dynamo.State, u dynamo.Control, t, dt float64) dynamo.State {
	r.resize(len(x))
	k, tmp := &r.k, r.tmp
	half := 0.5 * dt

	copy(k[0], sys.Derive(x, u, t))
	copy(k[1], sys.Derive(axpy(tmp, x, half, k[0]), u, t+half))
	copy(k[2], sys.Derive(axpy(tmp, x, half, k[1]), u, t+half))
	copy(k[3], sys.Derive(axpy(tmp, x, dt, k[2]), u, t+dt))
	return r.combine(x, dt)
}
