// Package statemachine implements a generic, stateless finite-state transition table.
//
// A Machine stores transitions keyed by (from, event). The current state is
// passed into Fire and the next state is returned, which fits entities whose
// state is a persisted field updated with compare-and-set:
//
//	m := statemachine.New[Status, Status]().
//		Permit(Pending, Paid, Paid, statemachine.WithActions(stampPaid)).
//		Permit(Pending, Cancelled, Cancelled)
//
//	next, err := m.Fire(ctx, inv.Status, Paid, inv)
//
// Guards veto a transition; actions run after the guards and before Fire
// returns, and an action error aborts the transition. Failures are
// *TransitionError values; errors.Is against ErrNoTransition or ErrRejected
// tells an undefined transition from a vetoed one.
package statemachine
