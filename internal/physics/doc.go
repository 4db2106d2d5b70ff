// Package physics models an inverted pendulum on a motorized cart.
//
// The two rigid bodies share a [Body] struct for their kinematic state and
// fixed properties and expose their coupled equations of motion through the
// small [Deriver] capability:
//
//   - [Cart]: cart position and velocity
//   - [Pendulum]: pendulum angle and angular velocity
//   - [CartPendulum]: the full 4-state system, held control force and clock
//
// [CartPendulum] implements [dynamo.Plant] so it can be advanced by any
// [dynamo.Integrator].
//
// # Numeric assumptions
//
// Both accelerations are divided by k0 + k1*cos^2(theta). [Params.Validate]
// rejects constants for which that denominator can reach zero, and the RHS
// itself performs no guard, so trajectories are never altered by recovery
// logic.
package physics
