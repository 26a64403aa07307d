package catalog_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pedidoz/backoffice/svc/catalog"
)

func TestRedisInvalidator(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	plans, features := testPlans()
	src := catalog.NewStaticSource(plans, features)

	// Two processes sharing one store: the writer invalidates, the reader listens.
	inv := catalog.NewRedisInvalidator(client, nil)
	writer := catalog.New(src, catalog.WithPublisher(inv))
	reader := catalog.New(src)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	require.NoError(t, reader.Refresh(ctx))
	require.NoError(t, writer.Refresh(ctx))

	ready := make(chan struct{})
	go func() { _ = inv.Listen(ctx, reader, ready) }()
	select {
	case <-ready:
	case <-time.After(2 * time.Second):
		t.Fatal("subscription not confirmed")
	}

	src.Set(append(plans, catalog.Plan{ID: "pln_new", Name: "Novo", Price: 99, IsActive: true}), features)
	require.NoError(t, writer.Invalidate(ctx))

	assert.Eventually(t, func() bool {
		_, ok := reader.Snapshot().Plan("pln_new")
		return ok
	}, 2*time.Second, 10*time.Millisecond)
}
