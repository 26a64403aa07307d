package statemachine

import (
	"errors"
	"fmt"
)

var (
	// ErrNoTransition means nothing is registered for the state and event.
	ErrNoTransition = errors.New("statemachine: no transition")
	// ErrRejected means every candidate transition was vetoed by a guard.
	ErrRejected = errors.New("statemachine: transition rejected by guards")
)

// TransitionError names the state and event a Fire call failed on.
// It unwraps to ErrNoTransition or ErrRejected.
type TransitionError struct {
	State string
	Event string
	Err   error
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: state %q, event %q", e.Err, e.State, e.Event)
}

func (e *TransitionError) Unwrap() error { return e.Err }

func transitionError(state, event any, err error) error {
	return &TransitionError{State: fmt.Sprint(state), Event: fmt.Sprint(event), Err: err}
}
