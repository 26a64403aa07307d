package notification

import (
	"slices"
	"time"

	"github.com/pedidoz/backoffice/pkg/validator"
)

// Channel is where a notification is delivered.
type Channel string

const (
	ChannelEmail Channel = "EMAIL"
	ChannelApp   Channel = "APP"
)

// Notification is a message addressed to one user.
type Notification struct {
	ID               string     `bson:"_id" json:"id"`
	OrganizationID   string     `bson:"organization_id" json:"organization_id"`
	UserID           string     `bson:"user_id" json:"user_id"`
	Title            string     `bson:"title" json:"title"`
	Content          string     `bson:"content" json:"content"`
	Channels         []Channel  `bson:"channels" json:"channels"`
	NotificationType string     `bson:"notification_type" json:"notification_type"`
	Read             bool       `bson:"read" json:"read"`
	ReadAt           *time.Time `bson:"read_at,omitempty" json:"read_at,omitempty"`
	IsActive         bool       `bson:"is_active" json:"-"`
	CreatedAt        time.Time  `bson:"created_at" json:"created_at"`
}

func (n Notification) Validate() error {
	rules := []validator.Rule{
		validator.Required("organization_id", n.OrganizationID),
		validator.Required("user_id", n.UserID),
		validator.Required("title", n.Title),
		validator.Required("notification_type", n.NotificationType),
		validator.NotEmpty("channels", n.Channels),
	}
	for _, c := range n.Channels {
		rules = append(rules, validator.OneOf("channels", c, ChannelEmail, ChannelApp))
	}
	return validator.Apply(rules...)
}

// Wants reports whether the notification should go out on c.
func (n Notification) Wants(c Channel) bool {
	return slices.Contains(n.Channels, c)
}

// Recipient is where the email copy of a notification goes.
type Recipient struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// ListOptions filters List. Zero values do not filter.
type ListOptions struct {
	OnlyUnread bool
	Limit      int
	Offset     int
}
