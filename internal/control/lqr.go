package control

import "github.com/san-kum/invpend/internal/dynamo"

// DefaultGains is the precomputed LQ gain vector for the default cart-pendulum
// parameters, in full-state order (pos, vel, theta, omega).
var DefaultGains = [4]float64{-10.0, -11.0241, -56.5207, -9.6819}

// LQ is the linear balancing law around the upright equilibrium.
type LQ struct {
	K      [4]float64
	Target dynamo.State
}

func NewLQ(k [4]float64) *LQ {
	return &LQ{K: k, Target: dynamo.State{0, 0, 0, 0}}
}

func (l *LQ) Raw(x dynamo.State) float64 {
	u := 0.0
	for j := range l.K {
		target := 0.0
		if j < len(l.Target) {
			target = l.Target[j]
		}
		u -= l.K[j] * (x[j] - target)
	}
	return u
}
