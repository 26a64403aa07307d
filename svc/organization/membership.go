package organization

import (
	"context"
	"log/slog"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/pedidoz/backoffice/pkg/logger"
)

const (
	DefaultCacheSize = 1024
	DefaultCacheTTL  = 5 * time.Minute
)

// Membership answers owner lookups from an expirable LRU in front of a Directory.
// Misses are not cached.
type Membership struct {
	dir    Directory
	owners *expirable.LRU[string, Member]
	log    *slog.Logger
}

// Option configures a Membership.
type Option func(*membershipOptions)

type membershipOptions struct {
	size int
	ttl  time.Duration
	log  *slog.Logger
}

func WithCache(size int, ttl time.Duration) Option {
	return func(o *membershipOptions) {
		if size > 0 {
			o.size = size
		}
		if ttl > 0 {
			o.ttl = ttl
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(o *membershipOptions) { o.log = l }
}

// NewMembership resolves owners through dir behind an expiring LRU cache.
func NewMembership(dir Directory, opts ...Option) *Membership {
	if dir == nil {
		panic("organization: Directory is required")
	}
	o := membershipOptions{size: DefaultCacheSize, ttl: DefaultCacheTTL, log: logger.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Membership{
		dir:    dir,
		owners: expirable.NewLRU[string, Member](o.size, nil, o.ttl),
		log:    o.log.With(logger.Component("membership")),
	}
}

// Owner returns the OWNER member of the organization.
func (m *Membership) Owner(ctx context.Context, organizationID string) (*Member, error) {
	if owner, ok := m.owners.Get(organizationID); ok {
		return &owner, nil
	}
	owner, err := m.dir.Owner(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	m.owners.Add(organizationID, *owner)
	m.log.DebugContext(ctx, "owner cached", logger.OrganizationID(organizationID))
	return owner, nil
}
