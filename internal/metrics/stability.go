package metrics

import (
	"github.com/san-kum/invpend/internal/control"
	"github.com/san-kum/invpend/internal/dynamo"
	"github.com/san-kum/invpend/internal/physics"
)

func indicator(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// Stability is the share of samples whose state lies inside the limits. A
// run with no samples counts as fully stable.
type Stability struct {
	mean
	limits physics.Limits
}

func NewStability(limits physics.Limits) *Stability { return &Stability{limits: limits} }

func (*Stability) Name() string { return "stability" }

func (s *Stability) Observe(x dynamo.State, u dynamo.Control, t float64) {
	inside := true
	for i, r := range s.limits.Ranges() {
		if i < len(x) && !r.Contains(x[i]) {
			inside = false
			break
		}
	}
	s.add(indicator(inside))
}

func (s *Stability) Value() float64 { return s.value(1) }

type Decider interface {
	Decide(x dynamo.State) (control.Mode, float64)
}

// BalanceShare is the share of samples the policy would handle with the
// linear balancing law.
type BalanceShare struct {
	mean
	decider Decider
}

func NewBalanceShare(d Decider) *BalanceShare { return &BalanceShare{decider: d} }

func (*BalanceShare) Name() string { return "balance_share" }

func (b *BalanceShare) Observe(x dynamo.State, u dynamo.Control, t float64) {
	mode, _ := b.decider.Decide(x)
	b.add(indicator(mode == control.ModeBalance))
}

func (b *BalanceShare) Value() float64 { return b.value(0) }
