package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// unlockScript deletes the key only while it still holds the caller's token,
// so an expired lock taken over by another holder is left alone.
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Locker hands out fail-fast mutual exclusion keyed by name. A lock expires
// after ttl even if its holder never releases it.
type Locker struct {
	client redis.Cmdable
	prefix string
	ttl    time.Duration
}

// NewLocker stores locks under prefix+key.
func NewLocker(client redis.Cmdable, prefix string, ttl time.Duration) *Locker {
	return &Locker{client: client, prefix: prefix, ttl: ttl}
}

// TryLock reports acquired=false without waiting when another holder has key.
// release is nil unless the lock was acquired.
func (l *Locker) TryLock(ctx context.Context, key string) (func(context.Context), bool, error) {
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, l.prefix+key, token, l.ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("redis: lock %s: %w", key, err)
	}
	if !ok {
		return nil, false, nil
	}
	return func(ctx context.Context) {
		_ = unlockScript.Run(ctx, l.client, []string{l.prefix + key}, token).Err()
	}, true, nil
}
