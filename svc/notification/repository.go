package notification

import (
	"context"
	"time"
)

// Repository persists notifications. Reads skip soft-deleted notifications.
type Repository interface {
	Create(ctx context.Context, n *Notification) error
	Get(ctx context.Context, userID, id string) (*Notification, error)
	List(ctx context.Context, userID string, opts ListOptions) ([]Notification, error)
	// ExistsRecent reports whether the user has a notification of the type created after since.
	ExistsRecent(ctx context.Context, userID, notificationType string, since time.Time) (bool, error)
	MarkRead(ctx context.Context, userID string, at time.Time, ids ...string) error
	SoftDelete(ctx context.Context, userID string, ids ...string) error
}
