package coupon

import "context"

// Repository persists coupons. Reads only return active coupons.
type Repository interface {
	Create(ctx context.Context, c *Coupon) error
	Get(ctx context.Context, id string) (*Coupon, error)
	GetByName(ctx context.Context, name string) (*Coupon, error)

	// SwapUsage sets usage_count to next when it still equals prev.
	// Returns ErrStaleUsage otherwise.
	SwapUsage(ctx context.Context, id string, prev, next int) (*Coupon, error)

	// SoftDelete clears is_active.
	SoftDelete(ctx context.Context, id string) error
}
