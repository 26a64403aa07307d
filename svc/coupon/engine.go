package coupon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pedidoz/backoffice/pkg/clock"
	"github.com/pedidoz/backoffice/pkg/ident"
	"github.com/pedidoz/backoffice/pkg/logger"
	"github.com/pedidoz/backoffice/pkg/metrics"
	"github.com/pedidoz/backoffice/pkg/validator"
)

// maxSwapAttempts bounds the compare-and-set loop of UpdateUsage.
const maxSwapAttempts = 3

// CreateInput holds the fields of a new coupon.
type CreateInput struct {
	Name      string    `json:"name"`
	Value     float64   `json:"value"`
	IsPercent bool      `json:"is_percent"`
	ExpiresAt time.Time `json:"expires_at"`
	Limit     int       `json:"limit"`
}

// Engine validates, redeems and stores coupons.
type Engine struct {
	repo    Repository
	clock   clock.Clock
	log     *slog.Logger
	metrics *metrics.Metrics
}

// Option configures an Engine.
type Option func(*Engine)

func WithClock(c clock.Clock) Option {
	return func(e *Engine) { e.clock = c }
}

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// NewEngine redeems coupons stored in repo.
func NewEngine(repo Repository, opts ...Option) *Engine {
	if repo == nil {
		panic("coupon: Repository is required")
	}
	e := &Engine{repo: repo, clock: clock.System, log: logger.Nop()}
	for _, opt := range opts {
		opt(e)
	}
	e.log = e.log.With(logger.Component("coupon"))
	return e
}

// Create validates in and stores a new coupon with an upper-cased name.
func (e *Engine) Create(ctx context.Context, in CreateInput) (*Coupon, error) {
	now := e.clock.Now()
	name := strings.ToUpper(strings.TrimSpace(in.Name))
	if err := validator.Apply(
		validator.Required("name", name),
		validator.Positive("value", in.Value),
		validator.When(in.IsPercent, validator.Max("value", in.Value, 100)),
		validator.Positive("limit", in.Limit),
		validator.After("expires_at", in.ExpiresAt, now),
	); err != nil {
		return nil, err
	}

	c := &Coupon{
		ID:        ident.New(ident.Coupon),
		Name:      name,
		Value:     in.Value,
		IsPercent: in.IsPercent,
		ExpiresAt: in.ExpiresAt.UTC(),
		Limit:     in.Limit,
		IsActive:  true,
		CreatedAt: now,
	}
	if err := e.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Get returns an active coupon by id.
func (e *Engine) Get(ctx context.Context, id string) (*Coupon, error) {
	return e.repo.Get(ctx, id)
}

// GetByName finds an active coupon by its code, ignoring case and surrounding spaces.
func (e *Engine) GetByName(ctx context.Context, name string) (*Coupon, error) {
	name = strings.ToUpper(strings.TrimSpace(name))
	if name == "" {
		return nil, ErrCouponNotFound
	}
	return e.repo.GetByName(ctx, name)
}

// Delete soft-deletes a coupon. Usage history is kept.
func (e *Engine) Delete(ctx context.Context, id string) error {
	return e.repo.SoftDelete(ctx, id)
}

// Check loads a coupon and fails when it is expired or has fewer than quantity uses left.
func (e *Engine) Check(ctx context.Context, id string, quantity int) (*Coupon, error) {
	c, err := e.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return c, e.usable(c, quantity)
}

// UpdateUsage adds quantity to the coupon's usage count.
func (e *Engine) UpdateUsage(ctx context.Context, id string, quantity int) (*Coupon, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	for attempt := 1; attempt <= maxSwapAttempts; attempt++ {
		c, err := e.Check(ctx, id, quantity)
		if err != nil {
			e.record(err)
			return nil, err
		}

		updated, err := e.repo.SwapUsage(ctx, id, c.UsageCount, c.UsageCount+quantity)
		if err == nil {
			e.metrics.CouponRedemption("redeemed")
			return updated, nil
		}
		if !errors.Is(err, ErrStaleUsage) {
			return nil, err
		}
		e.log.DebugContext(ctx, "coupon usage swap lost a race",
			logger.CouponID(id), slog.Int("attempt", attempt))
	}

	e.metrics.CouponRedemption("conflict")
	return nil, fmt.Errorf("%w: %s", ErrConflict, id)
}

// Redeem uses the coupon once and returns the discount it grants on price.
func (e *Engine) Redeem(ctx context.Context, id string, price float64) (float64, error) {
	c, err := e.UpdateUsage(ctx, id, 1)
	if err != nil {
		return 0, err
	}
	return c.CalculateDiscount(price), nil
}

// Release gives back one use taken by Redeem when the purchase it was
// redeemed for did not go through. Expiry is not checked and the count never
// drops below zero.
func (e *Engine) Release(ctx context.Context, id string) error {
	for attempt := 1; attempt <= maxSwapAttempts; attempt++ {
		c, err := e.repo.Get(ctx, id)
		if err != nil {
			return err
		}
		if c.UsageCount == 0 {
			return nil
		}
		_, err = e.repo.SwapUsage(ctx, id, c.UsageCount, c.UsageCount-1)
		if err == nil {
			e.metrics.CouponRedemption("released")
			return nil
		}
		if !errors.Is(err, ErrStaleUsage) {
			return err
		}
	}
	return fmt.Errorf("%w: %s", ErrConflict, id)
}

func (e *Engine) usable(c *Coupon, quantity int) error {
	if c.Expired(e.clock.Now()) {
		return fmt.Errorf("%w: %s", ErrCouponExpired, c.Name)
	}
	if c.UsageCount+quantity > c.Limit {
		return fmt.Errorf("%w: %s", ErrCouponExhausted, c.Name)
	}
	return nil
}

func (e *Engine) record(err error) {
	switch {
	case errors.Is(err, ErrCouponExpired):
		e.metrics.CouponRedemption("expired")
	case errors.Is(err, ErrCouponExhausted):
		e.metrics.CouponRedemption("exhausted")
	}
}
