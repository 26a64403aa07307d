package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/pedidoz/backoffice/pkg/statemachine"
)

// NewStatusMachine returns the order status table. The event is the target status.
// COMPLETED and CANCELLED are final.
func NewStatusMachine() *statemachine.Machine[Status, Status] {
	m := statemachine.New[Status, Status]()
	flow := []Status{StatusPending, StatusConfirmed, StatusPreparing, StatusReady, StatusDispatched, StatusCompleted}
	for i, from := range flow[:len(flow)-1] {
		for _, to := range flow[i+1:] {
			m.Permit(from, to, to)
		}
		m.Permit(from, StatusCancelled, StatusCancelled)
	}
	return m
}

func checkStatus(ctx context.Context, m *statemachine.Machine[Status, Status], from, to Status) error {
	if _, err := m.Fire(ctx, from, to, nil); err != nil {
		if errors.Is(err, statemachine.ErrNoTransition) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidStatus, from, to)
		}
		return err
	}
	return nil
}
