package redis

import "errors"

var (
	ErrInvalidURL = errors.New("redis: invalid connection url")
	ErrNotReady   = errors.New("redis: server not ready")
	ErrNoAddress  = errors.New("redis: neither REDIS_URL nor REDIS_HOST is set")
	ErrPingFailed = errors.New("redis: ping failed")
)
