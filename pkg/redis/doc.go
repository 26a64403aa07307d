// Package redis opens the optional Redis connection used for notification
// deduplication and plan catalog invalidation.
//
// Configuration accepts either REDIS_URL or the REDIS_HOST/REDIS_PORT/
// REDIS_USERNAME/REDIS_PASSWORD quadruple. Callers check Config.Enabled and
// fall back to store-backed implementations when Redis is not configured.
package redis
