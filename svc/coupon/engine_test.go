package coupon_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pedidoz/backoffice/pkg/apperr"
	"github.com/pedidoz/backoffice/pkg/clock"
	"github.com/pedidoz/backoffice/pkg/ident"
	"github.com/pedidoz/backoffice/svc/coupon"
)

var now = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func newEngine(t *testing.T) (*coupon.Engine, *coupon.MemoryRepository, *clock.FixedClock) {
	t.Helper()
	repo := coupon.NewMemoryRepository()
	clk := clock.Fixed(now)
	return coupon.NewEngine(repo, coupon.WithClock(clk)), repo, clk
}

func createCoupon(t *testing.T, e *coupon.Engine, in coupon.CreateInput) *coupon.Coupon {
	t.Helper()
	if in.ExpiresAt.IsZero() {
		in.ExpiresAt = now.Add(30 * 24 * time.Hour)
	}
	c, err := e.Create(context.Background(), in)
	require.NoError(t, err)
	return c
}

func TestEngine_Create(t *testing.T) {
	t.Parallel()

	e, _, _ := newEngine(t)
	ctx := context.Background()

	c := createCoupon(t, e, coupon.CreateInput{Name: " bemvindo10 ", Value: 10, IsPercent: true, Limit: 5})
	assert.Equal(t, "BEMVINDO10", c.Name)
	assert.True(t, ident.HasPrefix(c.ID, ident.Coupon))
	assert.True(t, c.IsActive)
	assert.Zero(t, c.UsageCount)

	_, err := e.Create(ctx, coupon.CreateInput{Name: "BemVindo10", Value: 5, Limit: 1, ExpiresAt: now.Add(time.Hour)})
	require.ErrorIs(t, err, coupon.ErrDuplicateCoupon)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	_, err = e.Create(ctx, coupon.CreateInput{Name: "X", Value: 0, Limit: 0, ExpiresAt: now.Add(-time.Hour)})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = e.Create(ctx, coupon.CreateInput{Name: "TOOMUCH", Value: 120, IsPercent: true, Limit: 1, ExpiresAt: now.Add(time.Hour)})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestEngine_UpdateUsage(t *testing.T) {
	t.Parallel()

	t.Run("increments", func(t *testing.T) {
		t.Parallel()
		e, _, _ := newEngine(t)
		c := createCoupon(t, e, coupon.CreateInput{Name: "A", Value: 5, Limit: 3})

		got, err := e.UpdateUsage(context.Background(), c.ID, 2)
		require.NoError(t, err)
		assert.Equal(t, 2, got.UsageCount)
	})

	t.Run("exhausted", func(t *testing.T) {
		t.Parallel()
		e, _, _ := newEngine(t)
		c := createCoupon(t, e, coupon.CreateInput{Name: "B", Value: 5, Limit: 1})

		_, err := e.UpdateUsage(context.Background(), c.ID, 1)
		require.NoError(t, err)
		_, err = e.UpdateUsage(context.Background(), c.ID, 1)
		require.ErrorIs(t, err, coupon.ErrCouponExhausted)
		assert.Equal(t, apperr.KindDomainRule, apperr.KindOf(err))
	})

	t.Run("expired", func(t *testing.T) {
		t.Parallel()
		e, _, clk := newEngine(t)
		c := createCoupon(t, e, coupon.CreateInput{Name: "C", Value: 5, Limit: 10, ExpiresAt: now.Add(time.Hour)})

		clk.Advance(time.Hour)
		_, err := e.UpdateUsage(context.Background(), c.ID, 1)
		assert.ErrorIs(t, err, coupon.ErrCouponExpired)
	})

	t.Run("invalid quantity", func(t *testing.T) {
		t.Parallel()
		e, _, _ := newEngine(t)
		_, err := e.UpdateUsage(context.Background(), "cou_x", 0)
		assert.ErrorIs(t, err, coupon.ErrInvalidQuantity)
	})

	t.Run("unknown", func(t *testing.T) {
		t.Parallel()
		e, _, _ := newEngine(t)
		_, err := e.UpdateUsage(context.Background(), "cou_missing", 1)
		assert.ErrorIs(t, err, coupon.ErrCouponNotFound)
	})
}

func TestEngine_Redeem(t *testing.T) {
	t.Parallel()

	e, repo, _ := newEngine(t)
	ctx := context.Background()
	c := createCoupon(t, e, coupon.CreateInput{Name: "DEZ", Value: 10, IsPercent: true, Limit: 5})
	_, err := repo.SwapUsage(ctx, c.ID, 0, 4)
	require.NoError(t, err)

	discount, err := e.Redeem(ctx, c.ID, 100)
	require.NoError(t, err)
	assert.Equal(t, 10.0, discount)

	stored, err := e.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, stored.UsageCount)

	_, err = e.Redeem(ctx, c.ID, 100)
	assert.ErrorIs(t, err, coupon.ErrCouponExhausted)
}

func TestEngine_GetByName(t *testing.T) {
	t.Parallel()

	e, _, _ := newEngine(t)
	ctx := context.Background()
	c := createCoupon(t, e, coupon.CreateInput{Name: "Natal", Value: 10, Limit: 3})

	found, err := e.GetByName(ctx, "  natal ")
	require.NoError(t, err)
	assert.Equal(t, c.ID, found.ID)

	_, err = e.GetByName(ctx, "")
	assert.ErrorIs(t, err, coupon.ErrCouponNotFound)

	require.NoError(t, e.Delete(ctx, c.ID))
	_, err = e.GetByName(ctx, "NATAL")
	assert.ErrorIs(t, err, coupon.ErrCouponNotFound, "deleted coupons are not found")
}

func TestEngine_Release(t *testing.T) {
	t.Parallel()

	e, _, clk := newEngine(t)
	ctx := context.Background()
	c := createCoupon(t, e, coupon.CreateInput{Name: "UNICO", Value: 5, Limit: 1})

	_, err := e.Redeem(ctx, c.ID, 50)
	require.NoError(t, err)
	require.NoError(t, e.Release(ctx, c.ID))

	stored, err := e.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Zero(t, stored.UsageCount)

	require.NoError(t, e.Release(ctx, c.ID), "nothing to give back")
	stored, err = e.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Zero(t, stored.UsageCount)

	_, err = e.Redeem(ctx, c.ID, 50)
	require.NoError(t, err, "the released use can be redeemed again")

	clk.Advance(60 * 24 * time.Hour)
	require.NoError(t, e.Release(ctx, c.ID), "expired coupons still take uses back")

	assert.ErrorIs(t, e.Release(ctx, "cou_missing"), coupon.ErrCouponNotFound)
}

func TestEngine_ConcurrentRedeemNeverExceedsLimit(t *testing.T) {
	t.Parallel()

	e, _, _ := newEngine(t)
	ctx := context.Background()
	c := createCoupon(t, e, coupon.CreateInput{Name: "RACE", Value: 1, Limit: 10})

	var ok atomic.Int32
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := e.UpdateUsage(ctx, c.ID, 1); err == nil {
				ok.Add(1)
			}
		}()
	}
	wg.Wait()

	stored, err := e.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.LessOrEqual(t, stored.UsageCount, stored.Limit)
	assert.Equal(t, int(ok.Load()), stored.UsageCount)
}

// racingRepo makes every swap lose, as if another writer always won.
type racingRepo struct {
	*coupon.MemoryRepository
	swaps atomic.Int32
}

func (r *racingRepo) SwapUsage(context.Context, string, int, int) (*coupon.Coupon, error) {
	r.swaps.Add(1)
	return nil, coupon.ErrStaleUsage
}

func TestEngine_UpdateUsageGivesUpAfterThreeAttempts(t *testing.T) {
	t.Parallel()

	repo := &racingRepo{MemoryRepository: coupon.NewMemoryRepository()}
	e := coupon.NewEngine(repo, coupon.WithClock(clock.Fixed(now)))
	c := createCoupon(t, e, coupon.CreateInput{Name: "LOSER", Value: 1, Limit: 10})

	_, err := e.UpdateUsage(context.Background(), c.ID, 1)
	require.ErrorIs(t, err, coupon.ErrConflict)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	assert.Equal(t, int32(3), repo.swaps.Load())
}

func TestEngine_Delete(t *testing.T) {
	t.Parallel()

	e, _, _ := newEngine(t)
	ctx := context.Background()
	c := createCoupon(t, e, coupon.CreateInput{Name: "GONE", Value: 1, Limit: 1})

	require.NoError(t, e.Delete(ctx, c.ID))
	_, err := e.Get(ctx, c.ID)
	assert.ErrorIs(t, err, coupon.ErrCouponNotFound)
	assert.ErrorIs(t, e.Delete(ctx, c.ID), coupon.ErrCouponNotFound)
}
