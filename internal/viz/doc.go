// Package viz runs the cart-pendulum in an interactive terminal view built
// on Bubble Tea.
//
// The view draws the cart and the pendulum on a braille [Canvas], shows the
// active control mode and state, and plots the recent pendulum angle.
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	R     - Reset to the initial state
//	G     - Toggle the regulator
//	←/→   - Nudge the pendulum
//	Q     - Quit
package viz
