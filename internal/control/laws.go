package control

import (
	"math"

	"github.com/san-kum/invpend/internal/dynamo"
)

// Law computes a raw, unscaled control value from the full state.
type Law interface {
	Raw(x dynamo.State) float64
}

// SwingUp pumps energy into the pendulum until it reaches the upright region.
type SwingUp struct {
	Mass    float64
	A1      float64
	Gravity float64
}

const (
	kickThreshold = 0.5
	kickAmplitude = 0.2
	kickOffset    = 0.01
	pumpAmplitude = 0.2
	energyMargin  = 0.2
)

func (s *SwingUp) Raw(x dynamo.State) float64 {
	theta, omega := x[2], x[3]

	if math.Abs(omega) <= kickThreshold {
		return -kickAmplitude * sign(theta-kickOffset)
	}

	if s.Energy(theta, omega) >= 0 {
		return 0
	}
	return pumpAmplitude * sign(omega*(math.Abs(theta)-math.Pi/2))
}

// Energy is the pseudo-energy used as the coast/pump switching signal.
func (s *SwingUp) Energy(theta, omega float64) float64 {
	v := omega * s.A1
	return s.Mass*v*v/2 + s.Mass*s.A1*s.Gravity*(math.Cos(theta)-1) + energyMargin
}

// Safety pushes the cart back toward the center of the track.
type Safety struct{}

func (Safety) Raw(x dynamo.State) float64 { return -sign(x[0]) }

// Off applies no control.
type Off struct{}

func (Off) Raw(x dynamo.State) float64 { return 0 }

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return v
	}
}
