// Package control provides the cart-pendulum feedback policy.
//
// The [Policy] is a memoryless state machine evaluated every step. It picks
// one [Law] for the current state:
//
//   - [Safety]: cart outside its track bounds, push back toward center
//   - [Off]: regulator disabled
//   - [LQ]: linear regulator while |theta| <= pi/5
//   - [SwingUp]: energy-based swing-up everywhere else
//
// The raw law output is clamped to 0.5 and then scaled by 10 to newtons by
// [Shape].
//
// # Usage
//
//	policy := control.NewDefaultPolicy(plant)
//	sim := dynamo.New(integrators.NewRK4(), policy)
//	// Policy.Compute is called once per step, before integration
package control
