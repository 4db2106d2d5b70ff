// Package dynamo provides the simulation primitives for the cart-pendulum.
//
// The package defines the interfaces every other package plugs into:
//
//   - [State]: vector representing system state
//   - [System]: interface for ODE right-hand sides (dX/dt = f(X, u, t))
//   - [Plant]: a System that owns its state, held control and clock
//   - [Integrator]: fixed-step numerical integrator
//   - [Controller]: feedback controller
//   - [Simulator]: orchestrates the per-step loop
//
// # Step ordering
//
// Every step runs strictly in sequence: the controller reads the plant state,
// the plant latches the resulting control, the integrator advances the state
// with that control held constant across all of its stages, the state is
// written back and the clock advances by dt.
//
//	plant, _ := physics.NewCartPendulum(physics.DefaultParams(), x0, physics.DefaultLimits())
//	s := dynamo.New(integrators.NewRK4(), control.NewDefaultPolicy(plant))
//	result, _ := s.Run(ctx, plant, dynamo.DefaultConfig())
//
// # Thread Safety
//
// Simulator and Plant instances are NOT thread-safe. The loop has exactly one
// writer and observers are called synchronously from it.
package dynamo
