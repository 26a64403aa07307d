package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/pedidoz/backoffice/pkg/clock"
	"github.com/pedidoz/backoffice/pkg/logger"
	"github.com/pedidoz/backoffice/pkg/metrics"
)

// Source loads the full set of plans and features.
type Source interface {
	Load(ctx context.Context) ([]Plan, []PlanFeature, error)
}

// Publisher tells other processes that the catalog changed.
type Publisher interface {
	Publish(ctx context.Context) error
}

// Catalog serves plan lookups from an atomically swapped Snapshot. Reads never
// lock; Refresh builds a new snapshot and installs it in one store.
type Catalog struct {
	src       Source
	current   atomic.Pointer[Snapshot]
	group     singleflight.Group
	clock     clock.Clock
	log       *slog.Logger
	metrics   *metrics.Metrics
	publisher Publisher
}

// Option configures a Catalog.
type Option func(*Catalog)

func WithLogger(l *slog.Logger) Option {
	return func(c *Catalog) { c.log = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Catalog) { c.metrics = m }
}

// WithClock sets the clock stamped on loaded snapshots.
func WithClock(cl clock.Clock) Option {
	return func(c *Catalog) { c.clock = cl }
}

// WithPublisher makes Invalidate broadcast to other processes.
func WithPublisher(p Publisher) Option {
	return func(c *Catalog) { c.publisher = p }
}

// New returns a catalog holding an empty snapshot. Call Refresh before serving traffic.
func New(src Source, opts ...Option) *Catalog {
	if src == nil {
		panic("catalog: Source is required")
	}
	c := &Catalog{src: src, clock: clock.System, log: logger.Nop()}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.With(logger.Component("catalog"))
	c.current.Store(emptySnapshot())
	return c
}

// Snapshot returns the installed snapshot. It is never nil.
func (c *Catalog) Snapshot() *Snapshot {
	return c.current.Load()
}

// Refresh reloads the catalog from the source. Concurrent calls share one load.
// On failure the previous snapshot stays installed.
func (c *Catalog) Refresh(ctx context.Context) error {
	_, err, _ := c.group.Do("refresh", func() (any, error) {
		plans, features, err := c.src.Load(ctx)
		if err != nil {
			return nil, errors.Join(ErrLoadFailed, err)
		}
		snap, err := NewSnapshot(plans, features, c.clock.Now())
		if err != nil {
			return nil, errors.Join(ErrLoadFailed, err)
		}
		c.current.Store(snap)
		return snap, nil
	})

	n := c.Snapshot().Len()
	c.metrics.CatalogRefresh(n, err)
	if err != nil {
		c.log.ErrorContext(ctx, "catalog refresh failed", logger.Error(err))
		return err
	}
	c.log.DebugContext(ctx, "catalog refreshed", slog.Int("plans", n))
	return nil
}

// Invalidate refreshes locally and notifies other processes.
func (c *Catalog) Invalidate(ctx context.Context) error {
	if err := c.Refresh(ctx); err != nil {
		return err
	}
	if c.publisher == nil {
		return nil
	}
	if err := c.publisher.Publish(ctx); err != nil {
		return fmt.Errorf("catalog: publish invalidation: %w", err)
	}
	return nil
}

// Plan looks a plan up in the installed snapshot.
func (c *Catalog) Plan(_ context.Context, id string) (Plan, error) {
	p, ok := c.Snapshot().Plan(id)
	if !ok {
		return Plan{}, fmt.Errorf("%w: %s", ErrPlanNotFound, id)
	}
	return p, nil
}

// Features returns the features of a plan from the installed snapshot.
func (c *Catalog) Features(_ context.Context, planID string) []PlanFeature {
	return c.Snapshot().Features(planID)
}

// Limit reads a numeric feature limit from the installed snapshot.
func (c *Catalog) Limit(_ context.Context, planID, feature string) (int64, bool) {
	return c.Snapshot().Limit(planID, feature)
}
