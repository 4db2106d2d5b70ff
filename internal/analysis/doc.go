// Package analysis inspects the cart-pendulum around its equilibria and
// renders recorded trajectories.
//
//   - [Linearize]: numeric Jacobians A and B of the dynamics at an operating point
//   - [ClosedLoop]: the matrix A - B*K for a state feedback gain
//   - [Poles]: eigenvalues of a square matrix
//   - [NewPhasePortrait]: a 2D phase space view of recorded states
//   - [NewSpectrum]: the amplitude spectrum of a recorded signal
//
// # Regulator check
//
// The balancing gains act on the raw control, which the policy scales by
// control.ForceScale before it reaches the cart:
//
//	a, b := analysis.Linearize(plant, upright, dynamo.Control{0}, 1e-6)
//	poles, err := analysis.Poles(analysis.ClosedLoop(a, b, analysis.EffectiveGain(gains)))
//	stable := analysis.Stable(poles)
package analysis
