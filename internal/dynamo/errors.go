package dynamo

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidState      = errors.New("dynamo: state is not finite")
	ErrParameterBounds   = errors.New("dynamo: parameter outside its physical range")
	ErrDimensionMismatch = errors.New("dynamo: state length does not match the plant")
)

// SimulationError reports the step at which a run stopped and the state it
// had reached.
type SimulationError struct {
	Step  int
	Time  float64
	State State
	Err   error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.2f): %v", e.Step, e.Time, e.Err)
}

func (e *SimulationError) Unwrap() error { return e.Err }
