package metrics

import (
	"math"

	"github.com/san-kum/invpend/internal/dynamo"
)

type Energizer interface {
	Energy(x dynamo.State) float64
}

// Energy is the mean swing-up pseudo-energy. It is 0.2 upright at rest and
// negative below the horizontal.
type Energy struct {
	mean
	src Energizer
}

func NewEnergy(src Energizer) *Energy { return &Energy{src: src} }

func (*Energy) Name() string { return "energy" }

func (e *Energy) Observe(x dynamo.State, u dynamo.Control, t float64) {
	e.add(e.src.Energy(x))
}

func (e *Energy) Value() float64 { return e.value(0) }

// PeakAngle is the largest |x3| seen.
type PeakAngle struct {
	peak float64
}

func NewPeakAngle() *PeakAngle { return &PeakAngle{} }

func (*PeakAngle) Name() string { return "peak_angle" }

func (p *PeakAngle) Observe(x dynamo.State, u dynamo.Control, t float64) {
	if len(x) > 2 {
		p.peak = math.Max(p.peak, math.Abs(x[2]))
	}
}

func (p *PeakAngle) Value() float64 { return p.peak }
func (p *PeakAngle) Reset()         { p.peak = 0 }
