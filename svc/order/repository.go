package order

import (
	"context"
	"time"
)

// Repository persists orders. Reads skip soft-deleted orders.
type Repository interface {
	Create(ctx context.Context, o *Order) error
	Get(ctx context.Context, organizationID, id string) (*Order, error)
	List(ctx context.Context, organizationID string, filter ListFilter) ([]Order, error)
	SetStatus(ctx context.Context, organizationID, id string, from, to Status, at time.Time) (*Order, error)
	AddPayment(ctx context.Context, organizationID, id string, p Payment, status PaymentStatus, at time.Time) (*Order, error)
	SoftDelete(ctx context.Context, organizationID, id string) error
}

// ListFilter narrows List. Zero values do not filter.
type ListFilter struct {
	Status Status
	From   time.Time
	To     time.Time
	Limit  int
}

func (f ListFilter) match(o Order) bool {
	if f.Status != "" && o.Status != f.Status {
		return false
	}
	if !f.From.IsZero() && o.OrderDate.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && !o.OrderDate.Before(f.To) {
		return false
	}
	return true
}
