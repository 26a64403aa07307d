package billing

import (
	"context"
	"fmt"
	"sync"
)

// localLocker is the default Locker. It only excludes callers within one process.
type localLocker struct {
	mu   sync.Mutex
	held map[string]struct{}
}

func newLocalLocker() *localLocker {
	return &localLocker{held: make(map[string]struct{})}
}

func (l *localLocker) TryLock(_ context.Context, key string) (func(context.Context), bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.held[key]; ok {
		return nil, false, nil
	}
	l.held[key] = struct{}{}
	return func(context.Context) {
		l.mu.Lock()
		delete(l.held, key)
		l.mu.Unlock()
	}, true, nil
}

// lockOrganization holds the organization's subscription lock until release
// is called. Release uses a context detached from ctx so a cancelled request
// still frees the key.
func (s *Service) lockOrganization(ctx context.Context, organizationID string) (func(), error) {
	release, ok, err := s.locker.TryLock(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSubscriptionInProgress, organizationID)
	}
	return func() { release(context.WithoutCancel(ctx)) }, nil
}
