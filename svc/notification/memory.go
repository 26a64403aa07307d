package notification

import (
	"context"
	"slices"
	"sync"
	"time"
)

// MemoryRepository keeps notifications in process memory.
type MemoryRepository struct {
	mu    sync.RWMutex
	items map[string]Notification
}

var _ Repository = (*MemoryRepository)(nil)

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{items: make(map[string]Notification)}
}

func (r *MemoryRepository) Create(_ context.Context, n *Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *n
	stored.Channels = slices.Clone(n.Channels)
	r.items[n.ID] = stored
	return nil
}

func (r *MemoryRepository) Get(_ context.Context, userID, id string) (*Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n, ok := r.items[id]
	if !ok || !n.IsActive || n.UserID != userID {
		return nil, ErrNotificationNotFound
	}
	return &n, nil
}

func (r *MemoryRepository) List(_ context.Context, userID string, opts ListOptions) ([]Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []Notification{}
	for _, n := range r.items {
		if !n.IsActive || n.UserID != userID || (opts.OnlyUnread && n.Read) {
			continue
		}
		out = append(out, n)
	}
	slices.SortFunc(out, func(a, b Notification) int { return b.CreatedAt.Compare(a.CreatedAt) })

	if opts.Offset > 0 {
		if opts.Offset >= len(out) {
			return []Notification{}, nil
		}
		out = out[opts.Offset:]
	}
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

func (r *MemoryRepository) ExistsRecent(_ context.Context, userID, notificationType string, since time.Time) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, n := range r.items {
		if n.UserID == userID && n.NotificationType == notificationType && n.CreatedAt.After(since) {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryRepository) MarkRead(_ context.Context, userID string, at time.Time, ids ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		n, ok := r.items[id]
		if !ok || !n.IsActive || n.UserID != userID || n.Read {
			continue
		}
		readAt := at
		n.Read = true
		n.ReadAt = &readAt
		r.items[id] = n
	}
	return nil
}

func (r *MemoryRepository) SoftDelete(_ context.Context, userID string, ids ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		n, ok := r.items[id]
		if !ok || n.UserID != userID {
			continue
		}
		n.IsActive = false
		r.items[id] = n
	}
	return nil
}
