package integrators

import "github.com/san-kum/invpend/internal/dynamo"

// Euler is the explicit first-order method. It is kept for comparison runs.
type Euler struct{}

func NewEuler() *Euler { return &Euler{} }

func (*Euler) Step(sys dynamo.System, x dynamo.State, u dynamo.Control, t, dt float64) dynamo.State {
	return axpy(make(dynamo.State, len(x)), x, dt, sys.Derive(x, u, t))
}

// axpy stores x + a*y in dst and returns it.
func axpy(dst, x dynamo.State, a float64, y dynamo.State) dynamo.State {
	for i := range dst {
		dst[i] = x[i] + a*y[i]
	}
	return dst
}
