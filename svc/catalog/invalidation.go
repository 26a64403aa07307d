package catalog

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/pedidoz/backoffice/pkg/logger"
)

// InvalidationChannel is the Redis channel carrying catalog change notices.
const InvalidationChannel = "pedidoz:catalog:invalidate"

// RedisInvalidator broadcasts and receives catalog invalidations over Redis pub/sub.
type RedisInvalidator struct {
	client redis.UniversalClient
	log    *slog.Logger
}

// NewRedisInvalidator publishes and listens on the catalog invalidation channel.
func NewRedisInvalidator(client redis.UniversalClient, log *slog.Logger) *RedisInvalidator {
	if log == nil {
		log = logger.Nop()
	}
	return &RedisInvalidator{client: client, log: log.With(logger.Component("catalog_invalidation"))}
}

// Publish tells every replica to reload its snapshot.
func (r *RedisInvalidator) Publish(ctx context.Context) error {
	return r.client.Publish(ctx, InvalidationChannel, "refresh").Err()
}

// Listen refreshes c on every message until ctx is done. ready, when not nil,
// is closed once the subscription is confirmed.
func (r *RedisInvalidator) Listen(ctx context.Context, c *Catalog, ready chan<- struct{}) error {
	sub := r.client.Subscribe(ctx, InvalidationChannel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return err
	}
	if ready != nil {
		close(ready)
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-ch:
			if !ok {
				return nil
			}
			if err := c.Refresh(ctx); err != nil {
				r.log.WarnContext(ctx, "refresh after invalidation failed", logger.Error(err))
			}
		}
	}
}
