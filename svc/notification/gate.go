package notification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pedidoz/backoffice/pkg/clock"
	"github.com/pedidoz/backoffice/pkg/email"
	"github.com/pedidoz/backoffice/pkg/ident"
	"github.com/pedidoz/backoffice/pkg/logger"
	"github.com/pedidoz/backoffice/pkg/metrics"
)

// DefaultDedupInterval applies when no interval is configured.
const DefaultDedupInterval = 10 * time.Minute

// Gate deduplicates, stores and mails notifications.
type Gate struct {
	repo      Repository
	dedup     Deduper
	templates TemplateSource
	template  string
	sender    email.EmailSender
	interval  time.Duration
	clock     clock.Clock
	log       *slog.Logger
	metrics   *metrics.Metrics
}

// Option configures a Gate.
type Option func(*Gate)

// WithDeduper replaces the repository-backed deduper.
func WithDeduper(d Deduper) Option {
	return func(g *Gate) { g.dedup = d }
}

// WithTemplates sets where email templates come from and which one to use.
func WithTemplates(src TemplateSource, name string) Option {
	return func(g *Gate) {
		g.templates = src
		if name != "" {
			g.template = name
		}
	}
}

// WithEmailSender enables the EMAIL channel.
func WithEmailSender(s email.EmailSender) Option {
	return func(g *Gate) { g.sender = s }
}

// WithInterval sets how long a (user, type) pair stays deduplicated.
func WithInterval(d time.Duration) Option {
	return func(g *Gate) {
		if d > 0 {
			g.interval = d
		}
	}
}

func WithClock(c clock.Clock) Option {
	return func(g *Gate) { g.clock = c }
}

func WithLogger(l *slog.Logger) Option {
	return func(g *Gate) { g.log = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(g *Gate) { g.metrics = m }
}

// NewGate panics without repo. Deduplication asks repo unless WithDeduper is given.
func NewGate(repo Repository, opts ...Option) *Gate {
	if repo == nil {
		panic("notification: Repository is required")
	}
	g := &Gate{
		repo:     repo,
		template: "notification.html",
		interval: DefaultDedupInterval,
		clock:    clock.System,
		log:      logger.Nop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.dedup == nil {
		g.dedup = NewStoreDeduper(repo, g.clock)
	}
	g.log = g.log.With(logger.Component("notification"))
	return g
}

// Create stores n unless the user got a notification of the same type within
// the dedup interval. When n asks for EMAIL it is also mailed to to.
func (g *Gate) Create(ctx context.Context, n Notification, to Recipient) (*Notification, error) {
	if err := n.Validate(); err != nil {
		return nil, err
	}

	seen, err := g.dedup.Seen(ctx, n.UserID, n.NotificationType, g.interval)
	if err != nil {
		return nil, err
	}
	if seen {
		g.metrics.Notification("duplicate")
		return nil, fmt.Errorf("%w: %s", ErrDuplicateNotification, n.NotificationType)
	}

	n.ID = ident.New(ident.Notification)
	n.Read = false
	n.ReadAt = nil
	n.IsActive = true
	n.CreatedAt = g.clock.Now()
	if err := g.repo.Create(ctx, &n); err != nil {
		if relErr := g.dedup.Release(ctx, n.UserID, n.NotificationType); relErr != nil {
			g.log.WarnContext(ctx, "dedup release failed", logger.UserID(n.UserID), logger.Error(relErr))
		}
		return nil, err
	}
	g.metrics.Notification("created")

	if n.Wants(ChannelEmail) {
		g.mail(ctx, n, to)
	}
	return &n, nil
}

func (g *Gate) mail(ctx context.Context, n Notification, to Recipient) {
	attrs := []any{slog.String("notification_id", n.ID), logger.UserID(n.UserID)}
	if g.sender == nil || to.Email == "" {
		g.log.DebugContext(ctx, "email channel skipped", attrs...)
		return
	}

	body, err := g.render(ctx, n)
	if err == nil {
		err = g.sender.SendEmail(ctx, email.SendEmailParams{
			SendTo:   to.Email,
			Subject:  n.Title,
			BodyHTML: body,
			Tag:      n.NotificationType,
		})
	}
	if err != nil {
		g.metrics.Notification("email_failed")
		g.log.WarnContext(ctx, "notification email not sent", append(attrs, logger.Error(err))...)
		return
	}
	g.metrics.Notification("emailed")
}

func (g *Gate) render(ctx context.Context, n Notification) (string, error) {
	if g.templates != nil {
		tpl, err := g.templates.Template(ctx, g.template)
		if err == nil {
			return fillTemplate(tpl, n), nil
		}
		if !errors.Is(err, ErrTemplateNotFound) {
			g.log.WarnContext(ctx, "template unavailable, using fallback body", logger.Error(err))
		}
	}
	return email.Render(ctx, fallbackBody(n))
}

// Get returns a notification of the user.
func (g *Gate) Get(ctx context.Context, userID, id string) (*Notification, error) {
	return g.repo.Get(ctx, userID, id)
}

// List returns the user's notifications, newest first.
func (g *Gate) List(ctx context.Context, userID string, opts ListOptions) ([]Notification, error) {
	return g.repo.List(ctx, userID, opts)
}

// MarkRead stamps read_at on the given notifications. No ids is a no-op.
func (g *Gate) MarkRead(ctx context.Context, userID string, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	return g.repo.MarkRead(ctx, userID, g.clock.Now(), ids...)
}

// Delete soft-deletes notifications of the user.
func (g *Gate) Delete(ctx context.Context, userID string, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	return g.repo.SoftDelete(ctx, userID, ids...)
}
