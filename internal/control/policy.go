package control

import (
	"math"

	"github.com/san-kum/invpend/internal/dynamo"
	"github.com/san-kum/invpend/internal/physics"
)

// Mode identifies the control law selected for a state.
type Mode int

const (
	ModeSafety Mode = iota
	ModeDisabled
	ModeBalance
	ModeSwingUp
)

func (m Mode) String() string {
	switch m {
	case ModeSafety:
		return "safety"
	case ModeDisabled:
		return "disabled"
	case ModeBalance:
		return "balance"
	case ModeSwingUp:
		return "swing-up"
	default:
		return "unknown"
	}
}

const (
	// BalanceAngle is the largest |theta| handled by the linear law.
	BalanceAngle = math.Pi / 5
	// MaxRaw bounds the raw control before scaling.
	MaxRaw = 0.5
	// ForceScale converts the normalized control to newtons.
	ForceScale = 10.0
)

// Policy selects among the safety, balancing and swing-up laws. Decisions
// depend only on the state passed in; the last mode is kept for observers.
type Policy struct {
	Enabled    bool
	CartBounds physics.Range
	Balance    Law
	SwingUp    Law
	Safety     Law

	last Mode
}

func NewPolicy(cartBounds physics.Range, gains [4]float64, p physics.Params) *Policy {
	return &Policy{
		Enabled:    true,
		CartBounds: cartBounds,
		Balance:    NewLQ(gains),
		SwingUp:    &SwingUp{Mass: p.PendMass, A1: p.A1, Gravity: p.Gravity},
		Safety:     Safety{},
	}
}

// NewDefaultPolicy builds a policy with the default gains for s.
func NewDefaultPolicy(s *physics.CartPendulum) *Policy {
	return NewPolicy(s.Cart.PosBounds(), DefaultGains, s.Params)
}

// Decide returns the selected mode and its raw control for x.
func (p *Policy) Decide(x dynamo.State) (Mode, float64) {
	if !p.CartBounds.Contains(x[0]) {
		return ModeSafety, p.Safety.Raw(x)
	}
	if !p.Enabled {
		return ModeDisabled, Off{}.Raw(x)
	}
	if math.Abs(x[2]) <= BalanceAngle {
		return ModeBalance, p.Balance.Raw(x)
	}
	return ModeSwingUp, p.SwingUp.Raw(x)
}

// Shape clamps the raw control to MaxRaw and scales it to a force. The clamp
// happens before the scale.
func Shape(raw float64) float64 {
	if math.Abs(raw) >= MaxRaw {
		raw = MaxRaw * sign(raw)
	}
	return raw * ForceScale
}

func (p *Policy) Compute(x dynamo.State, t float64) dynamo.Control {
	mode, raw := p.Decide(x)
	p.last = mode
	return dynamo.Control{Shape(raw)}
}

func (p *Policy) LastMode() Mode { return p.last }
