package metrics

import (
	"math"

	"github.com/san-kum/invpend/internal/dynamo"
)

// mean is a running average. Embedding it gives a metric its Reset.
type mean struct {
	sum float64
	n   int
}

func (m *mean) add(v float64) {
	m.sum += v
	m.n++
}

// value returns the average, or empty when nothing was added.
func (m *mean) value(empty float64) float64 {
	if m.n == 0 {
		return empty
	}
	return m.sum / float64(m.n)
}

func (m *mean) Reset() { *m = mean{} }

// ControlEffort is the mean |F| applied to the cart.
type ControlEffort struct{ mean }

func NewControlEffort() *ControlEffort { return &ControlEffort{} }

func (*ControlEffort) Name() string { return "control_effort" }

func (c *ControlEffort) Observe(x dynamo.State, u dynamo.Control, t float64) {
	c.add(math.Abs(u.Scalar()))
}

func (c *ControlEffort) Value() float64 { return c.value(0) }
