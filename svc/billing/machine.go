package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pedidoz/backoffice/pkg/statemachine"
)

// transition carries the invoice being moved and collects the patch to store.
type transition struct {
	invoice Invoice
	now     time.Time
	patch   StatusPatch
}

// NewInvoiceMachine returns the invoice transition table. The event is the
// target status; entering PAID stamps paid_at and amount_paid.
func NewInvoiceMachine() *statemachine.Machine[Status, Status] {
	m := statemachine.New[Status, Status]()
	paid := statemachine.WithActions[Status, Status](stampPaid)

	m.Permit(StatusPending, StatusPaid, StatusPaid, paid).
		Permit(StatusPending, StatusRejected, StatusRejected).
		Permit(StatusPending, StatusCancelled, StatusCancelled).
		Permit(StatusPending, StatusOverdue, StatusOverdue)

	m.Permit(StatusOverdue, StatusPaid, StatusPaid, paid).
		Permit(StatusOverdue, StatusCancelled, StatusCancelled).
		Permit(StatusOverdue, StatusRejected, StatusRejected)

	m.Permit(StatusRejected, StatusPaid, StatusPaid, paid).
		Permit(StatusRejected, StatusPending, StatusPending).
		Permit(StatusRejected, StatusCancelled, StatusCancelled)

	return m
}

func stampPaid(_ context.Context, _, _ Status, _ Status, data any) error {
	t, ok := data.(*transition)
	if !ok {
		return errors.New("billing: unexpected transition data")
	}
	paidAt := t.now
	amount := t.invoice.Amount
	t.patch.PaidAt = &paidAt
	t.patch.AmountPaid = &amount
	return nil
}

// resolveTransition resolves the patch moving inv to target. Same-state moves are reported
// with ok=false and no error.
func resolveTransition(ctx context.Context, m *statemachine.Machine[Status, Status], inv Invoice, target Status, now time.Time) (StatusPatch, bool, error) {
	if inv.Status == target {
		return StatusPatch{}, false, nil
	}
	t := &transition{invoice: inv, now: now, patch: StatusPatch{Status: target, UpdatedAt: now}}
	if _, err := m.Fire(ctx, inv.Status, target, t); err != nil {
		if errors.Is(err, statemachine.ErrNoTransition) || errors.Is(err, statemachine.ErrRejected) {
			return StatusPatch{}, false, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, inv.Status, target)
		}
		return StatusPatch{}, false, err
	}
	return t.patch, true, nil
}
