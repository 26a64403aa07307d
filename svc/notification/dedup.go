package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pedidoz/backoffice/pkg/clock"
)

// Deduper decides whether a (user, type) pair was notified within interval.
type Deduper interface {
	// Seen reports a recent notification. A false result may reserve the pair
	// until interval elapses.
	Seen(ctx context.Context, userID, notificationType string, interval time.Duration) (bool, error)
	// Release drops a reservation made by Seen when the notification was not stored.
	Release(ctx context.Context, userID, notificationType string) error
}

// StoreDeduper asks the repository for a notification newer than now - interval.
type StoreDeduper struct {
	repo  Repository
	clock clock.Clock
}

// NewStoreDeduper uses the system clock when c is nil.
func NewStoreDeduper(repo Repository, c clock.Clock) *StoreDeduper {
	if c == nil {
		c = clock.System
	}
	return &StoreDeduper{repo: repo, clock: c}
}

func (d *StoreDeduper) Seen(ctx context.Context, userID, notificationType string, interval time.Duration) (bool, error) {
	return d.repo.ExistsRecent(ctx, userID, notificationType, d.clock.Now().Add(-interval))
}

func (d *StoreDeduper) Release(context.Context, string, string) error { return nil }

const dedupKeyPrefix = "pedidoz:notification:dedup:"

// RedisDeduper reserves the pair with SET NX and a TTL of interval, so the
// check holds across processes.
type RedisDeduper struct {
	client redis.Cmdable
}

// NewRedisDeduper shares reservations through client.
func NewRedisDeduper(client redis.Cmdable) *RedisDeduper {
	return &RedisDeduper{client: client}
}

func (d *RedisDeduper) Seen(ctx context.Context, userID, notificationType string, interval time.Duration) (bool, error) {
	ok, err := d.client.SetNX(ctx, dedupKey(userID, notificationType), time.Now().UTC().Format(time.RFC3339), interval).Result()
	if err != nil {
		return false, fmt.Errorf("notification: dedup reserve: %w", err)
	}
	return !ok, nil
}

func (d *RedisDeduper) Release(ctx context.Context, userID, notificationType string) error {
	if err := d.client.Del(ctx, dedupKey(userID, notificationType)).Err(); err != nil {
		return fmt.Errorf("notification: dedup release: %w", err)
	}
	return nil
}

func dedupKey(userID, notificationType string) string {
	return dedupKeyPrefix + userID + ":" + notificationType
}
