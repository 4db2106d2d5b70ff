// Package metrics summarizes a run as named scalar values.
package metrics

import (
	"github.com/san-kum/invpend/internal/control"
	"github.com/san-kum/invpend/internal/dynamo"
	"github.com/san-kum/invpend/internal/physics"
)

// Default returns the metrics recorded for every run.
func Default(plant *physics.CartPendulum, policy *control.Policy, limits physics.Limits) []dynamo.Metric {
	return []dynamo.Metric{
		NewControlEffort(),
		NewEnergy(plant),
		NewPeakAngle(),
		NewStability(limits),
		NewBalanceShare(policy),
	}
}
