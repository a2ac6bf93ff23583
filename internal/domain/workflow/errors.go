package workflow

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTransition is returned when a trigger is not legal in the
	// current state. Replaying an already-applied trigger falls under this.
	ErrInvalidTransition = errors.New("invalid state transition")

	// ErrInvalidState is returned when a state is empty or unknown to the machine.
	ErrInvalidState = errors.New("invalid state")
)

// ErrInvalidTransitionf wraps ErrInvalidTransition with the offending
// (state, trigger) pair for diagnostics.
func ErrInvalidTransitionf(from State, trigger Trigger) error {
	return fmt.Errorf("%w: cannot fire trigger %s from state %s", ErrInvalidTransition, trigger, from)
}
