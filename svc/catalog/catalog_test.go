package catalog_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pedidoz/backoffice/pkg/apperr"
	"github.com/pedidoz/backoffice/svc/catalog"
)

func testPlans() ([]catalog.Plan, []catalog.PlanFeature) {
	plans := []catalog.Plan{
		{ID: "pln_pro", Name: "Pro", Price: 59.9, IsActive: true},
		{ID: "pln_basic", Name: "Básico", Price: 29.9, IsActive: true},
		{ID: "pln_free", Name: "Grátis", Price: 0, IsActive: true},
		{ID: "pln_internal", Name: "Interno", Price: 10, Hidden: true, IsActive: true},
		{ID: "pln_old", Name: "Antigo", Price: 5, IsActive: false},
	}
	features := []catalog.PlanFeature{
		{ID: "plf_1", PlanID: "pln_basic", Name: catalog.FeatureMaxTagsPerOrder, Value: "3", IsActive: true},
		{ID: "plf_2", PlanID: "pln_pro", Name: catalog.FeatureMaxTagsPerOrder, Value: "-1", IsActive: true},
		{ID: "plf_3", PlanID: "pln_basic", Name: catalog.FeatureMaxProductsPerOrder, Value: "20", AllowAdditional: true, AdditionalPrice: 4.9, IsActive: true},
	}
	return plans, features
}

func TestCatalog_Refresh(t *testing.T) {
	t.Parallel()

	plans, features := testPlans()
	c := catalog.New(catalog.NewStaticSource(plans, features))
	ctx := context.Background()

	_, err := c.Plan(ctx, "pln_basic")
	require.ErrorIs(t, err, catalog.ErrPlanNotFound, "empty before first refresh")

	require.NoError(t, c.Refresh(ctx))

	p, err := c.Plan(ctx, "pln_basic")
	require.NoError(t, err)
	assert.Equal(t, 29.9, p.Price)
	assert.Equal(t, 1, p.BillingMonths())

	_, err = c.Plan(ctx, "pln_old")
	assert.ErrorIs(t, err, catalog.ErrPlanNotFound, "inactive plans are not served")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	limit, limited := c.Limit(ctx, "pln_basic", catalog.FeatureMaxTagsPerOrder)
	assert.True(t, limited)
	assert.Equal(t, int64(3), limit)

	_, limited = c.Limit(ctx, "pln_pro", catalog.FeatureMaxTagsPerOrder)
	assert.False(t, limited, "-1 means unlimited")

	_, limited = c.Limit(ctx, "pln_free", catalog.FeatureMaxTagsPerOrder)
	assert.False(t, limited, "missing feature means unlimited")

	feats := c.Features(ctx, "pln_basic")
	require.Len(t, feats, 2)
	assert.Equal(t, catalog.FeatureMaxProductsPerOrder, feats[0].Name)
}

func TestSnapshot_Public(t *testing.T) {
	t.Parallel()

	plans, features := testPlans()
	snap, err := catalog.NewSnapshot(plans, features, time.Now())
	require.NoError(t, err)

	public := snap.Public()
	ids := make([]string, 0, len(public))
	for _, p := range public {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"pln_free", "pln_basic", "pln_pro"}, ids)
}

func TestNewSnapshot_Rejects(t *testing.T) {
	t.Parallel()

	plans, _ := testPlans()

	t.Run("duplicate feature", func(t *testing.T) {
		t.Parallel()
		_, err := catalog.NewSnapshot(plans, []catalog.PlanFeature{
			{PlanID: "pln_basic", Name: "x", IsActive: true},
			{PlanID: "pln_basic", Name: "x", IsActive: true},
		}, time.Now())
		assert.ErrorIs(t, err, catalog.ErrDuplicateFeature)
	})

	t.Run("unknown plan", func(t *testing.T) {
		t.Parallel()
		_, err := catalog.NewSnapshot(plans, []catalog.PlanFeature{
			{PlanID: "pln_missing", Name: "x", IsActive: true},
		}, time.Now())
		assert.ErrorIs(t, err, catalog.ErrUnknownPlan)
	})

	t.Run("negative price", func(t *testing.T) {
		t.Parallel()
		_, err := catalog.NewSnapshot([]catalog.Plan{{ID: "pln_x", Name: "X", Price: -1, IsActive: true}}, nil, time.Now())
		assert.Error(t, err)
	})
}

type failingSource struct{}

func (failingSource) Load(context.Context) ([]catalog.Plan, []catalog.PlanFeature, error) {
	return nil, nil, errors.New("store down")
}

type switchSource struct {
	fail atomic.Bool
	src  *catalog.StaticSource
}

func (s *switchSource) Load(ctx context.Context) ([]catalog.Plan, []catalog.PlanFeature, error) {
	if s.fail.Load() {
		return failingSource{}.Load(ctx)
	}
	return s.src.Load(ctx)
}

func TestCatalog_FailedRefreshKeepsSnapshot(t *testing.T) {
	t.Parallel()

	plans, features := testPlans()
	src := &switchSource{src: catalog.NewStaticSource(plans, features)}
	c := catalog.New(src)
	ctx := context.Background()

	require.NoError(t, c.Refresh(ctx))
	before := c.Snapshot()

	src.fail.Store(true)
	err := c.Refresh(ctx)
	require.ErrorIs(t, err, catalog.ErrLoadFailed)
	assert.Same(t, before, c.Snapshot())
}

func TestCatalog_ConcurrentReadsDuringRefresh(t *testing.T) {
	t.Parallel()

	plans, features := testPlans()
	src := catalog.NewStaticSource(plans, features)
	c := catalog.New(src)
	ctx := context.Background()
	require.NoError(t, c.Refresh(ctx))

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				if i%2 == 0 {
					_ = c.Refresh(ctx)
					continue
				}
				_, err := c.Plan(ctx, "pln_basic")
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()
}

type countingPublisher struct{ n atomic.Int32 }

func (p *countingPublisher) Publish(context.Context) error {
	p.n.Add(1)
	return nil
}

func TestCatalog_Invalidate(t *testing.T) {
	t.Parallel()

	plans, features := testPlans()
	src := catalog.NewStaticSource(plans, features)
	pub := &countingPublisher{}
	c := catalog.New(src, catalog.WithPublisher(pub))
	ctx := context.Background()
	require.NoError(t, c.Refresh(ctx))

	src.Set(append(plans, catalog.Plan{ID: "pln_new", Name: "Novo", Price: 99, IsActive: true}), features)
	require.NoError(t, c.Invalidate(ctx))

	_, err := c.Plan(ctx, "pln_new")
	assert.NoError(t, err)
	assert.Equal(t, int32(1), pub.n.Load())
}
