package statemachine

import (
	"context"
	"fmt"
	"slices"
	"sync"
)

// Guard vetoes a transition when it returns false.
type Guard[S, E comparable] func(ctx context.Context, from S, event E, data any) bool

// Action runs once all guards pass. An error aborts the transition.
type Action[S, E comparable] func(ctx context.Context, from, to S, event E, data any) error

// Transition moves From to To on Event.
type Transition[S, E comparable] struct {
	From    S
	To      S
	Event   E
	Guards  []Guard[S, E]
	Actions []Action[S, E]
}

// Machine is a transition table. It does not hold a current state: the caller
// owns it (usually a persisted status field) and passes it to Fire, so one
// Machine serves every entity of a kind concurrently.
type Machine[S, E comparable] struct {
	mu          sync.RWMutex
	transitions map[S]map[E][]Transition[S, E]
}

// New returns a machine with no transitions.
func New[S, E comparable]() *Machine[S, E] {
	return &Machine[S, E]{transitions: make(map[S]map[E][]Transition[S, E])}
}

// Permit registers a transition. Several transitions may share from and event;
// the first one whose guards pass wins.
func (m *Machine[S, E]) Permit(from S, event E, to S, opts ...TransitionOption[S, E]) *Machine[S, E] {
	t := Transition[S, E]{From: from, To: to, Event: event}
	for _, opt := range opts {
		opt(&t)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.transitions[from]; !ok {
		m.transitions[from] = make(map[E][]Transition[S, E])
	}
	m.transitions[from][event] = append(m.transitions[from][event], t)
	return m
}

// Fire resolves the transition for (current, event), runs its actions and
// returns the new state. On error the returned state is current.
func (m *Machine[S, E]) Fire(ctx context.Context, current S, event E, data any) (S, error) {
	t, err := m.resolve(ctx, current, event, data)
	if err != nil {
		return current, err
	}
	for _, action := range t.Actions {
		if action == nil {
			continue
		}
		if err := action(ctx, current, t.To, event, data); err != nil {
			return current, fmt.Errorf("action failed: %w", err)
		}
	}
	return t.To, nil
}

// CanFire reports whether Fire would find a permitted transition. Actions are not run.
func (m *Machine[S, E]) CanFire(ctx context.Context, current S, event E, data any) bool {
	_, err := m.resolve(ctx, current, event, data)
	return err == nil
}

// Targets lists the distinct states reachable from in one step, in registration order.
func (m *Machine[S, E]) Targets(from S) []S {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []S
	for _, ts := range m.transitions[from] {
		for _, t := range ts {
			if !slices.Contains(out, t.To) {
				out = append(out, t.To)
			}
		}
	}
	return out
}

func (m *Machine[S, E]) resolve(ctx context.Context, current S, event E, data any) (Transition[S, E], error) {
	m.mu.RLock()
	candidates := m.transitions[current][event]
	m.mu.RUnlock()

	if len(candidates) == 0 {
		return Transition[S, E]{}, transitionError(current, event, ErrNoTransition)
	}

	for _, t := range candidates {
		if guardsPass(ctx, t, current, event, data) {
			return t, nil
		}
	}
	return Transition[S, E]{}, transitionError(current, event, ErrRejected)
}

func guardsPass[S, E comparable](ctx context.Context, t Transition[S, E], current S, event E, data any) bool {
	for _, g := range t.Guards {
		if g != nil && !g(ctx, current, event, data) {
			return false
		}
	}
	return true
}

// TransitionOption decorates a transition at registration.
type TransitionOption[S, E comparable] func(*Transition[S, E])

// WithGuards adds guards to a transition; all must pass.
func WithGuards[S, E comparable](guards ...Guard[S, E]) TransitionOption[S, E] {
	return func(t *Transition[S, E]) { t.Guards = append(t.Guards, guards...) }
}

func WithActions[S, E comparable](actions ...Action[S, E]) TransitionOption[S, E] {
	return func(t *Transition[S, E]) { t.Actions = append(t.Actions, actions...) }
}
