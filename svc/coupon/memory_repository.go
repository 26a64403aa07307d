package coupon

import (
	"context"
	"sync"
)

// MemoryRepository keeps coupons in process memory.
type MemoryRepository struct {
	mu      sync.Mutex
	coupons map[string]Coupon
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{coupons: make(map[string]Coupon)}
}

func (r *MemoryRepository) Create(_ context.Context, c *Coupon) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.coupons {
		if existing.Name == c.Name {
			return ErrDuplicateCoupon
		}
	}
	r.coupons[c.ID] = *c
	return nil
}

func (r *MemoryRepository) Get(_ context.Context, id string) (*Coupon, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.coupons[id]
	if !ok || !c.IsActive {
		return nil, ErrCouponNotFound
	}
	return &c, nil
}

func (r *MemoryRepository) GetByName(_ context.Context, name string) (*Coupon, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.coupons {
		if c.Name == name && c.IsActive {
			return &c, nil
		}
	}
	return nil, ErrCouponNotFound
}

func (r *MemoryRepository) SwapUsage(_ context.Context, id string, prev, next int) (*Coupon, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.coupons[id]
	if !ok || !c.IsActive {
		return nil, ErrCouponNotFound
	}
	if c.UsageCount != prev {
		return nil, ErrStaleUsage
	}
	c.UsageCount = next
	r.coupons[id] = c
	return &c, nil
}

func (r *MemoryRepository) SoftDelete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.coupons[id]
	if !ok || !c.IsActive {
		return ErrCouponNotFound
	}
	c.IsActive = false
	r.coupons[id] = c
	return nil
}
