package physics

import (
	"fmt"

	"github.com/san-kum/invpend/internal/dynamo"
)

// Params are the physical constants of the cart and the pendulum.
type Params struct {
	CartMass     float64 `yaml:"cart_mass"`
	CartFriction float64 `yaml:"cart_friction"`
	PendMass     float64 `yaml:"pend_mass"`
	PendFriction float64 `yaml:"pend_friction"`
	A1           float64 `yaml:"a1"` // pivot to pendulum center of mass
	J1           float64 `yaml:"j1"` // pendulum moment of inertia
	Gravity      float64 `yaml:"gravity"`
}

func DefaultParams() Params {
	return Params{
		CartMass:     0.548,
		CartFriction: 0.9,
		PendMass:     0.131,
		PendFriction: 0.004,
		A1:           0.354,
		J1:           0.0043,
		Gravity:      9.81,
	}
}

// Validate rejects parameter sets for which the shared RHS denominator
// k0 + k1*cos^2 can reach zero. The denominator spans [k0+k1, k0].
func (p Params) Validate() error {
	if p.CartMass <= 0 || p.PendMass <= 0 {
		return fmt.Errorf("%w: masses must be positive", dynamo.ErrParameterBounds)
	}
	if p.A1 <= 0 || p.J1 < 0 {
		return fmt.Errorf("%w: a1 must be positive and j1 non-negative", dynamo.ErrParameterBounds)
	}
	c := NewCoefficients(p)
	if c.K[0] <= 0 || c.K[0]+c.K[1] <= 0 {
		return fmt.Errorf("%w: denominator range [%g, %g] includes zero", dynamo.ErrParameterBounds, c.K[0]+c.K[1], c.K[0])
	}
	return nil
}

// Coefficients parametrize the closed-form RHS. They are derived once from
// Params and never change afterwards.
type Coefficients struct {
	K [2]float64
	E [5]float64
	F [5]float64
}

func NewCoefficients(p Params) *Coefficients {
	mc, mp := p.CartMass, p.PendMass
	dc, dp := p.CartFriction, p.PendFriction
	a1, g := p.A1, p.Gravity

	inertia := mp*a1*a1 + p.J1
	mpa1sq := mp * mp * a1 * a1

	return &Coefficients{
		K: [2]float64{(mc + mp) * inertia, -mpa1sq},
		E: [5]float64{
			-dc * inertia,
			dp * mp * a1,
			mp * a1 * inertia,
			-g * mpa1sq / 2,
			inertia,
		},
		F: [5]float64{
			dc * mp * a1,
			-dp * (mp + mc),
			-mpa1sq / 2,
			(mp + mc) * mp * a1 * g,
			-mp * a1,
		},
	}
}

// Denominator is the shared RHS denominator for the given cos(theta).
func (c *Coefficients) Denominator(cosTheta float64) float64 {
	return c.K[0] + c.K[1]*cosTheta*cosTheta
}
